// Package scheduler owns the daily loop: load the accounts, walk them
// once through the pipeline, print the cycle summary and wait out the
// interval before going again.
package scheduler

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/ekaputhra/kitefarm/config"
	"github.com/ekaputhra/kitefarm/internal/agents"
	"github.com/ekaputhra/kitefarm/internal/display"
	"github.com/ekaputhra/kitefarm/internal/pipeline"
	"github.com/ekaputhra/kitefarm/internal/staking"
	"github.com/ekaputhra/kitefarm/internal/topics"
	"github.com/ekaputhra/kitefarm/internal/txcache"
	"github.com/ekaputhra/kitefarm/internal/utils"
	"github.com/ekaputhra/kitefarm/internal/wallet"
)

const clockFormat = "02/01/2006, 15:04:05"

// Scheduler drives full passes over the account list on a fixed
// interval. The transaction cache lives here so fetched hashes survive
// from one cycle into the next.
type Scheduler struct {
	cfg      *config.Config
	perAgent int
	useProxy bool
	rng      *rand.Rand
	cache    *txcache.Cache

	// process stands in for the pipeline in tests.
	process func(ctx context.Context, index, total int, acct wallet.Account, proxy string) pipeline.Outcome
}

func New(cfg *config.Config, perAgent int, useProxy bool) *Scheduler {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Scheduler{
		cfg:      cfg,
		perAgent: perAgent,
		useProxy: useProxy,
		rng:      rng,
		cache:    txcache.New(rng),
	}
}

// Run executes cycles until the context ends. A cycle that exhausted the
// shared pool still waits out the full interval, since the pool resets on
// the service's clock, not ours.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		display.Divider()
		display.Info("cycle started at %s", s.clock().Format(clockFormat))
		if _, err := s.Cycle(ctx); err != nil {
			return err
		}
		display.Info("cycle finished at %s", s.clock().Format(clockFormat))
		if err := s.wait(ctx, time.Now().Add(s.cfg.CycleInterval())); err != nil {
			return err
		}
	}
}

// Cycle runs one pass over every account, stopping early once an account
// reports the shared daily pool exhausted. The returned error is reserved
// for an unusable account file and a dead context; service failures stay
// inside the pass.
func (s *Scheduler) Cycle(ctx context.Context) (bool, error) {
	accounts, err := wallet.LoadAccounts(s.cfg.AccountsFile)
	if err != nil {
		return false, err
	}
	var proxies []string
	if s.useProxy {
		proxies = wallet.LoadProxies(s.cfg.ProxyFile, len(accounts))
		if proxies == nil {
			display.Info("no usable proxies in %s, continuing without", s.cfg.ProxyFile)
		}
	}

	roster := agents.Roster()
	process := s.process
	if process == nil {
		runner := &pipeline.Runner{
			Cfg:      s.cfg,
			Roster:   roster,
			Topics:   topics.Load(s.cfg.TopicsDir, roster),
			Store:    staking.Open(s.cfg.StateFile),
			Cache:    s.cache,
			PerAgent: s.perAgent,
			Rand:     s.rng,
		}
		process = runner.Process
	}

	hit := false
	rows := make([]display.SummaryRow, 0, len(accounts))
	succeeded, failed := 0, 0
	for i, acct := range accounts {
		if err := ctx.Err(); err != nil {
			return hit, err
		}
		proxy := ""
		if len(proxies) > 0 {
			proxy = proxies[i]
		}
		out := process(ctx, i+1, len(accounts), acct, proxy)
		succeeded += out.Successes()
		failed += out.Failures()
		rows = append(rows, summaryRow(out, s.cfg.DailyChatCap))
		if out.GlobalLimit {
			hit = true
			display.Warn("shared daily pool exhausted, ending this cycle early")
			break
		}
	}

	display.Phase("Cycle Summary")
	display.SummaryTable(rows)
	display.Info("%d operations succeeded, %d failed", succeeded, failed)
	return hit, nil
}

// wait counts down to next on a single console line, ticking once a
// second.
func (s *Scheduler) wait(ctx context.Context, next time.Time) error {
	for {
		remaining := time.Until(next)
		if remaining <= 0 {
			display.CountdownDone()
			return nil
		}
		display.Countdown(remaining)
		if err := utils.Sleep(ctx, time.Second); err != nil {
			display.CountdownDone()
			return err
		}
	}
}

func (s *Scheduler) clock() time.Time {
	return time.Now().In(s.cfg.Location())
}

func summaryRow(out pipeline.Outcome, capacity int) display.SummaryRow {
	return display.SummaryRow{
		Account: out.Account,
		Chats:   fmt.Sprintf("%d/%d", out.Chat.Sent, capacity),
		Quiz:    string(out.Quiz),
		Staked:  strconv.Itoa(out.Staking.Staked),
		Claimed: out.Staking.Rewards.StringFixed(6),
		Status:  out.Status(),
	}
}
