package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaputhra/kitefarm/config"
	"github.com/ekaputhra/kitefarm/internal/chat"
	"github.com/ekaputhra/kitefarm/internal/pipeline"
	"github.com/ekaputhra/kitefarm/internal/staking"
	"github.com/ekaputhra/kitefarm/internal/wallet"
)

var testKeys = []string{
	strings.Repeat("0", 63) + "1",
	strings.Repeat("0", 63) + "2",
	strings.Repeat("0", 63) + "3",
}

var testAddrs = []string{
	"0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf",
	"0x2B5AD5c4795c026514f8317c7a215E218DcCD6cF",
	"0x6813Eb9362372EEF6200f3b1dbC3f819671cBA69",
}

type call struct {
	index, total int
	address      string
	proxy        string
}

func testScheduler(t *testing.T, keys []string) (*Scheduler, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.AccountsFile = filepath.Join(dir, "accounts.txt")
	cfg.ProxyFile = filepath.Join(dir, "proxy.txt")
	cfg.TopicsDir = dir
	cfg.StateFile = filepath.Join(dir, "staking_state.json")
	if len(keys) > 0 {
		require.NoError(t, os.WriteFile(cfg.AccountsFile, []byte(strings.Join(keys, "\n")+"\n"), 0o600))
	}
	return New(cfg, 1, false), cfg
}

func okOutcome(acct wallet.Account) pipeline.Outcome {
	return pipeline.Outcome{Account: acct.Short(), Chat: chat.Result{Sent: 2}, Quiz: pipeline.QuizPassed}
}

func TestCycleWalksAccountsInOrder(t *testing.T) {
	t.Parallel()
	s, _ := testScheduler(t, testKeys)
	var calls []call
	s.process = func(_ context.Context, index, total int, acct wallet.Account, proxy string) pipeline.Outcome {
		calls = append(calls, call{index, total, acct.Address, proxy})
		return okOutcome(acct)
	}

	hit, err := s.Cycle(context.Background())

	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, calls, 3)
	for i, c := range calls {
		assert.Equal(t, i+1, c.index)
		assert.Equal(t, 3, c.total)
		assert.Equal(t, testAddrs[i], c.address)
		assert.Empty(t, c.proxy)
	}
}

func TestCycleStopsEarlyOnGlobalLimit(t *testing.T) {
	t.Parallel()
	s, _ := testScheduler(t, testKeys)
	var calls int
	s.process = func(_ context.Context, index, _ int, acct wallet.Account, _ string) pipeline.Outcome {
		calls++
		out := okOutcome(acct)
		if index == 2 {
			out.GlobalLimit = true
		}
		return out
	}

	hit, err := s.Cycle(context.Background())

	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 2, calls)
}

func TestCycleAssignsProxiesRoundRobin(t *testing.T) {
	t.Parallel()
	s, cfg := testScheduler(t, testKeys)
	s.useProxy = true
	proxyLines := "http://one.test:8080\nhttp://two.test:8080\n"
	require.NoError(t, os.WriteFile(cfg.ProxyFile, []byte(proxyLines), 0o600))

	var proxies []string
	s.process = func(_ context.Context, _, _ int, acct wallet.Account, proxy string) pipeline.Outcome {
		proxies = append(proxies, proxy)
		return okOutcome(acct)
	}

	_, err := s.Cycle(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"http://one.test:8080", "http://two.test:8080", "http://one.test:8080"}, proxies)
}

func TestCycleMissingProxyFileRunsBare(t *testing.T) {
	t.Parallel()
	s, _ := testScheduler(t, testKeys)
	s.useProxy = true

	var proxies []string
	s.process = func(_ context.Context, _, _ int, acct wallet.Account, proxy string) pipeline.Outcome {
		proxies = append(proxies, proxy)
		return okOutcome(acct)
	}

	_, err := s.Cycle(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"", "", ""}, proxies)
}

func TestCycleMissingAccountsFileIsFatal(t *testing.T) {
	t.Parallel()
	s, _ := testScheduler(t, nil)

	_, err := s.Cycle(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accounts.txt")
}

func TestCycleInvalidKeyIsFatal(t *testing.T) {
	t.Parallel()
	s, _ := testScheduler(t, []string{"not-a-key"})

	_, err := s.Cycle(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestCycleHonorsCanceledContext(t *testing.T) {
	t.Parallel()
	s, _ := testScheduler(t, testKeys)
	var calls int
	s.process = func(_ context.Context, _, _ int, acct wallet.Account, _ string) pipeline.Outcome {
		calls++
		return okOutcome(acct)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Cycle(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestSummaryRow(t *testing.T) {
	t.Parallel()
	out := pipeline.Outcome{
		Account: "0x7E5F45...395Bdf",
		Chat:    chat.Result{Sent: 3, Failed: 1},
		Quiz:    pipeline.QuizFailed,
		Staking: staking.Summary{Staked: 2, Rewards: decimal.RequireFromString("0.12")},
	}

	row := summaryRow(out, 9)

	assert.Equal(t, "0x7E5F45...395Bdf", row.Account)
	assert.Equal(t, "3/9", row.Chats)
	assert.Equal(t, "failed", row.Quiz)
	assert.Equal(t, "2", row.Staked)
	assert.Equal(t, "0.120000", row.Claimed)
	assert.Equal(t, "ok", row.Status)
}
