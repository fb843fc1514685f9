package topics

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/ekaputhra/kitefarm/internal/agents"
)

// Pools holds each agent's candidate messages, keyed by agent name.
type Pools map[string][]string

// Load reads every agent's topic file from dir. A missing file yields an
// empty pool. Blank lines and lines with non-ASCII characters are dropped,
// since the chat endpoint garbles anything else.
func Load(dir string, roster []agents.Agent) Pools {
	pools := make(Pools, len(roster))
	for _, ag := range roster {
		pools[ag.Name] = readPool(filepath.Join(dir, ag.TopicFile))
	}
	return pools
}

// Pick draws one pseudo-random message from the named pool.
func (p Pools) Pick(name string, rng *rand.Rand) (string, bool) {
	pool := p[name]
	if len(pool) == 0 {
		return "", false
	}
	return pool[rng.Intn(len(pool))], true
}

func readPool(path string) []string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var pool []string
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(strings.ReplaceAll(line, "\r", ""))
		if line == "" || !isASCII(line) {
			continue
		}
		pool = append(pool, line)
	}
	return pool
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}
