// Package staking drives the per-account stake, claim and unstake rotation
// and persists each position between cycles.
package staking

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Position is one (account, subnet) stake slot.
type Position struct {
	Name          string
	Staked        bool
	LastStakeAt   time.Time
	LastClaimAt   time.Time
	LastUnstakeAt time.Time
}

// stamp tolerates the empty strings and nulls that unset timestamps are
// stored as.
type stamp struct{ time.Time }

func (s stamp) MarshalJSON() ([]byte, error) {
	if s.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(s.Format(time.RFC3339))
}

func (s *stamp) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), `"`)
	if str == "" || str == "null" {
		s.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(time.RFC3339, str)
	if err != nil {
		// An unreadable timestamp downgrades to "never", which makes the
		// machine wait out the full hold again instead of acting on a
		// guess.
		s.Time = time.Time{}
		return nil
	}
	s.Time = t
	return nil
}

type filePosition struct {
	Name          string `json:"name"`
	Staked        bool   `json:"staked"`
	LastStakeAt   stamp  `json:"last_stake_at"`
	LastClaimAt   stamp  `json:"last_claim_at"`
	LastUnstakeAt stamp  `json:"last_unstake_at"`
}

type fileAccount struct {
	Subnets map[string]filePosition `json:"subnets"`
}

type fileState struct {
	Accounts map[string]fileAccount `json:"accounts"`
}

// Store is the durable staking state, keyed by account address and subnet
// address. Loading never fails: a missing or corrupt file simply starts
// the rotation from scratch.
type Store struct {
	path  string
	state fileState
}

// Open loads the state file at path.
func Open(path string) *Store {
	s := &Store{path: path, state: fileState{Accounts: map[string]fileAccount{}}}
	raw, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var parsed fileState
	if err := json.Unmarshal(raw, &parsed); err != nil || parsed.Accounts == nil {
		return s
	}
	s.state = parsed
	return s
}

// Position returns the slot for (eoa, subnet), zero-valued when the pair
// has never staked.
func (s *Store) Position(eoa, subnet string) Position {
	fp, ok := s.state.Accounts[eoa].Subnets[subnet]
	if !ok {
		return Position{}
	}
	return Position{
		Name:          fp.Name,
		Staked:        fp.Staked,
		LastStakeAt:   fp.LastStakeAt.Time,
		LastClaimAt:   fp.LastClaimAt.Time,
		LastUnstakeAt: fp.LastUnstakeAt.Time,
	}
}

// SetPosition records the slot for (eoa, subnet).
func (s *Store) SetPosition(eoa, subnet string, pos Position) {
	acct, ok := s.state.Accounts[eoa]
	if !ok || acct.Subnets == nil {
		acct = fileAccount{Subnets: map[string]filePosition{}}
		s.state.Accounts[eoa] = acct
	}
	acct.Subnets[subnet] = filePosition{
		Name:          pos.Name,
		Staked:        pos.Staked,
		LastStakeAt:   stamp{pos.LastStakeAt},
		LastClaimAt:   stamp{pos.LastClaimAt},
		LastUnstakeAt: stamp{pos.LastUnstakeAt},
	}
}

// Save writes the state atomically so a crash mid-write cannot truncate
// positions that earlier cycles already earned.
func (s *Store) Save() error {
	raw, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode staking state: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".staking-*.json")
	if err != nil {
		return fmt.Errorf("stage staking state: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write staking state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("flush staking state: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("commit staking state: %w", err)
	}
	return nil
}
