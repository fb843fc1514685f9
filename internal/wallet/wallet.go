package wallet

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// Account is one credential line resolved to its checksummed EOA address.
type Account struct {
	Index      int
	Address    string
	PrivateKey string
}

var keyPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// LoadAccounts reads one private key per line, an optional 0x prefix
// allowed, and derives each account's address. Any invalid line is fatal;
// the error names the line, never the key material.
func LoadAccounts(path string) ([]Account, error) {
	lines := ReadLines(path)
	if len(lines) == 0 {
		return nil, fmt.Errorf("%s not found or empty, fill one private key per line", path)
	}
	accounts := make([]Account, 0, len(lines))
	for i, raw := range lines {
		keyHex := strings.TrimPrefix(strings.ToLower(raw), "0x")
		if !keyPattern.MatchString(keyHex) {
			return nil, fmt.Errorf("invalid private key at line %d of %s", i+1, path)
		}
		key, err := crypto.HexToECDSA(keyHex)
		if err != nil {
			return nil, fmt.Errorf("derive address at line %d of %s: %w", i+1, path, err)
		}
		accounts = append(accounts, Account{
			Index:      i + 1,
			Address:    crypto.PubkeyToAddress(key.PublicKey).Hex(),
			PrivateKey: "0x" + keyHex,
		})
	}
	return accounts, nil
}

// Short renders the address in the 0x12345678...abcdef display form.
func (a Account) Short() string {
	if len(a.Address) < 14 {
		return a.Address
	}
	return a.Address[:8] + "..." + a.Address[len(a.Address)-6:]
}

// LoadProxies assigns one proxy URL per account, round-robin over the
// file's lines. A missing or empty file returns nil and the caller runs
// without proxies.
func LoadProxies(path string, count int) []string {
	lines := ReadLines(path)
	if len(lines) == 0 {
		return nil
	}
	out := make([]string, count)
	for i := range out {
		out[i] = lines[i%len(lines)]
	}
	return out
}

// ReadLines returns the file's non-empty trimmed lines, or nil if the file
// is missing.
func ReadLines(path string) []string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(strings.ReplaceAll(line, "\r", ""))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
