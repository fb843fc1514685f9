package staking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ekaputhra/kitefarm/internal/display"
	"github.com/ekaputhra/kitefarm/internal/kite"
	"github.com/ekaputhra/kitefarm/internal/utils"
)

// API is the slice of the service client the rotation needs.
type API interface {
	Balances(ctx context.Context) (kite.Balances, error)
	Delegate(ctx context.Context, subnetAddr string, amount decimal.Decimal) (string, error)
	ClaimRewards(ctx context.Context, subnetAddr string) (decimal.Decimal, error)
	Undelegate(ctx context.Context, subnetAddr string, amount decimal.Decimal) error
}

// Summary is the tally of one account's staking cycle.
type Summary struct {
	Staked   int
	Claimed  int
	Unstaked int
	Rewards  decimal.Decimal

	// Throttled reports the cycle was cut short by rate limiting. State
	// mutated before the cut is already persisted.
	Throttled bool
}

// Ops renders the summary in the stats panel's shorthand.
func (s Summary) Ops() string {
	return fmt.Sprintf("%d staked / %d claimed / %d unstaked", s.Staked, s.Claimed, s.Unstaked)
}

// Machine walks one account through the four staking phases: stake idle
// targets while balance allows, claim every active position, unstake
// positions older than Hold, then re-stake capital the unstake freed.
type Machine struct {
	Store   *Store
	Targets []Target
	Unit    decimal.Decimal
	Hold    time.Duration

	// Now is the cycle clock, injectable for tests. All position
	// timestamps come from it, so elapsed-time math stays in one zone.
	Now func() time.Time
}

func (m *Machine) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// Run executes one staking cycle for eoa. A throttled outcome anywhere
// stops the remaining phases immediately; everything mutated up to that
// point is saved before returning.
func (m *Machine) Run(ctx context.Context, api API, eoa string) Summary {
	var sum Summary

	bal, err := api.Balances(ctx)
	if err != nil {
		if kite.Classify(err) == kite.KindThrottled {
			display.Failure("daily request pool is exhausted, try again tomorrow")
			sum.Throttled = true
			return sum
		}
		display.Warn("balance fetch failed: %v", err)
		bal = kite.Balances{}
	}
	display.BalancesTable(bal.Kite.StringFixed(6), bal.Usdt.StringFixed(6))

	kiteBal := bal.Kite
	if kiteBal.GreaterThanOrEqual(m.Unit) {
		display.Phase("Staking Phase")
		if m.stakePass(ctx, api, eoa, &kiteBal, &sum, "Staked") {
			return sum
		}
	} else {
		display.Warn("balance below %s KITE, skipping new stakes", m.Unit)
		m.showPositions(eoa)
	}

	display.Phase("Claim Phase")
	if m.claimPass(ctx, api, eoa, &sum) {
		return sum
	}

	display.Phase("Unstake Phase")
	if m.unstakePass(ctx, api, eoa, &sum) {
		return sum
	}

	// Capital freed by the unstakes lands back in the balance; a second
	// stake pass redeploys it within the same cycle.
	if fresh, err := api.Balances(ctx); err != nil {
		kiteBal = decimal.Zero
	} else {
		kiteBal = fresh.Kite
	}
	if kiteBal.GreaterThanOrEqual(m.Unit) {
		display.Phase("Restake Phase")
		if m.stakePass(ctx, api, eoa, &kiteBal, &sum, "Re-staked") {
			return sum
		}
	} else {
		display.Muted("balance too low to re-stake right now")
	}

	m.save()
	return sum
}

// bail persists state and flags the summary when err is a throttle.
func (m *Machine) bail(err error, sum *Summary) bool {
	if kite.Classify(err) != kite.KindThrottled {
		return false
	}
	display.Failure("daily request pool is exhausted, try again tomorrow")
	sum.Throttled = true
	m.save()
	return true
}

func (m *Machine) save() {
	if err := m.Store.Save(); err != nil {
		display.Warn("staking state save failed: %v", err)
	}
}

func (m *Machine) stakePass(ctx context.Context, api API, eoa string, bal *decimal.Decimal, sum *Summary, verb string) (throttled bool) {
	for _, tgt := range m.Targets {
		pos := m.Store.Position(eoa, tgt.Address)
		if pos.Staked || bal.LessThan(m.Unit) {
			continue
		}
		tx, err := api.Delegate(ctx, tgt.Address, m.Unit)
		if err != nil {
			if m.bail(err, sum) {
				return true
			}
			display.Failure("stake to %s failed: %v", tgt.Name, err)
			continue
		}
		display.Success("%s %s KITE to %s  tx: %s", verb, m.Unit, tgt.Name, shortHash(tx))
		pos.Name = tgt.Name
		pos.Staked = true
		pos.LastStakeAt = m.now()
		m.Store.SetPosition(eoa, tgt.Address, pos)
		*bal = bal.Sub(m.Unit)
		sum.Staked++
	}
	return false
}

func (m *Machine) claimPass(ctx context.Context, api API, eoa string, sum *Summary) (throttled bool) {
	for _, tgt := range m.Targets {
		pos := m.Store.Position(eoa, tgt.Address)
		if !pos.Staked {
			continue
		}
		amount, err := api.ClaimRewards(ctx, tgt.Address)
		if err != nil {
			if m.bail(err, sum) {
				return true
			}
			display.Failure("claim from %s failed: %v", tgt.Name, err)
			continue
		}
		display.Success("claimed %s from %s", amount.StringFixed(12), tgt.Name)
		pos.LastClaimAt = m.now()
		m.Store.SetPosition(eoa, tgt.Address, pos)
		sum.Claimed++
		sum.Rewards = sum.Rewards.Add(amount)
	}
	return false
}

func (m *Machine) unstakePass(ctx context.Context, api API, eoa string, sum *Summary) (throttled bool) {
	for _, tgt := range m.Targets {
		pos := m.Store.Position(eoa, tgt.Address)
		if !pos.Staked {
			continue
		}
		elapsed := m.elapsed(pos)
		if elapsed < m.Hold {
			display.Muted("%s: %s until unstake", tgt.Name, utils.FormatHMS(m.Hold-elapsed))
			continue
		}
		if err := api.Undelegate(ctx, tgt.Address, m.Unit); err != nil {
			if m.bail(err, sum) {
				return true
			}
			var apiErr *kite.APIError
			if errors.As(err, &apiErr) && strings.Contains(strings.ToLower(apiErr.Message), "too short") {
				display.Warn("%s: service says the position is too young, %s left", tgt.Name, utils.FormatHMS(m.Hold-elapsed))
				continue
			}
			display.Failure("unstake from %s failed: %v", tgt.Name, err)
			continue
		}
		display.Success("unstaked %s KITE from %s", m.Unit, tgt.Name)
		pos.Staked = false
		pos.LastUnstakeAt = m.now()
		m.Store.SetPosition(eoa, tgt.Address, pos)
		sum.Unstaked++
	}
	return false
}

// elapsed is how long the position has been staked, zero when the stake
// timestamp was never recorded.
func (m *Machine) elapsed(pos Position) time.Duration {
	if pos.LastStakeAt.IsZero() {
		return 0
	}
	return m.now().Sub(pos.LastStakeAt)
}

func (m *Machine) showPositions(eoa string) {
	rows := make([]display.StakeRow, 0, len(m.Targets))
	for _, tgt := range m.Targets {
		pos := m.Store.Position(eoa, tgt.Address)
		row := display.StakeRow{Subnet: tgt.Name, Staked: "No", Since: "-", ToUnlock: "-"}
		if pos.Staked {
			elapsed := m.elapsed(pos)
			row.Staked = "Yes"
			row.Since = decimal.NewFromFloat(elapsed.Hours()).StringFixed(2)
			row.ToUnlock = utils.FormatHMS(m.Hold - elapsed)
		}
		rows = append(rows, row)
	}
	display.StakesTable(rows)
}

func shortHash(tx string) string {
	if tx == "" {
		return "-"
	}
	if len(tx) <= 10 {
		return tx
	}
	return tx[:10] + "..."
}
