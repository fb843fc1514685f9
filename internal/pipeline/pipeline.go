// Package pipeline drives the full daily routine for one account: derive
// its smart account, sign in, spend the chat budget, answer the daily
// quiz, rotate stakes and report closing stats.
package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ekaputhra/kitefarm/config"
	"github.com/ekaputhra/kitefarm/internal/agents"
	"github.com/ekaputhra/kitefarm/internal/chat"
	"github.com/ekaputhra/kitefarm/internal/display"
	"github.com/ekaputhra/kitefarm/internal/kite"
	"github.com/ekaputhra/kitefarm/internal/staking"
	"github.com/ekaputhra/kitefarm/internal/topics"
	"github.com/ekaputhra/kitefarm/internal/txcache"
	"github.com/ekaputhra/kitefarm/internal/wallet"
)

// QuizStatus is the daily quiz verdict carried into the cycle summary.
type QuizStatus string

const (
	QuizPassed  QuizStatus = "passed"
	QuizFailed  QuizStatus = "failed"
	QuizSkipped QuizStatus = "skipped"
)

// Outcome is one account's tally for the cycle summary.
type Outcome struct {
	Account string
	Chat    chat.Result
	Quiz    QuizStatus
	Staking staking.Summary

	// GlobalLimit means the service's shared daily pool is exhausted and
	// running further accounts would only burn requests.
	GlobalLimit bool

	// Err is set when the account never got past address derivation or
	// sign-in.
	Err error
}

// Successes counts accepted chats plus a passed quiz.
func (o Outcome) Successes() int {
	n := o.Chat.Sent
	if o.Quiz == QuizPassed {
		n++
	}
	return n
}

// Failures counts rejected chats, a failed quiz and an aborted account.
func (o Outcome) Failures() int {
	n := o.Chat.Failed
	if o.Quiz == QuizFailed {
		n++
	}
	if o.Err != nil {
		n++
	}
	return n
}

// Status is the one-word verdict for the summary table.
func (o Outcome) Status() string {
	switch {
	case o.GlobalLimit:
		return "rate limited"
	case o.Err != nil:
		return "failed"
	default:
		return "ok"
	}
}

// Runner holds the collaborators shared by every account in a cycle.
type Runner struct {
	Cfg      *config.Config
	Roster   []agents.Agent
	Topics   topics.Pools
	Store    *staking.Store
	Cache    *txcache.Cache
	PerAgent int
	Rand     *rand.Rand
}

// Process runs the whole routine for one account. A throttled address
// derivation or sign-in, or a tripped chat breaker, flags GlobalLimit so
// the caller can cut the cycle short; once chats trip the breaker the
// quiz, staking and stats are skipped for this account too.
func (r *Runner) Process(ctx context.Context, index, total int, acct wallet.Account, proxy string) Outcome {
	out := Outcome{Account: acct.Short(), Quiz: QuizSkipped}
	when := time.Now().In(r.Cfg.Location()).Format("02/01/2006, 15:04:05")
	display.AccountHeader(index, total, acct.Short(), when)
	if proxy == "" {
		display.Muted("proxy: -")
	} else {
		display.Muted("proxy: %s", proxy)
	}

	client := kite.New(r.Cfg, proxy)

	smart, err := client.SmartAccount(ctx, acct.Address)
	if err != nil {
		return abort(out, "smart account lookup", err)
	}
	display.Success("smart account %s...", smart[:8])

	if err := client.SignIn(ctx, acct.Address, smart); err != nil {
		return abort(out, "sign-in", err)
	}
	display.Success("authenticated and logged in")

	alloc := &chat.Allocator{
		Roster:   r.Roster,
		Topics:   r.Topics,
		Fallback: r.txQuestion(client),
		Capacity: r.Cfg.DailyChatCap,
		PerAgent: r.PerAgent,
		Delay:    r.Cfg.ChatDelay(),
		Breaker:  r.Cfg.ThrottleStreak,
		Rand:     r.Rand,
	}
	res, err := alloc.Run(ctx, &session{client: client, eoa: acct.Address, smart: smart})
	out.Chat = res
	if err != nil {
		out.Err = err
		return out
	}
	if res.GlobalLimit {
		out.GlobalLimit = true
		display.Warn("skipping quiz, staking and stats for this account")
		return out
	}

	display.Phase("Daily Quiz")
	out.Quiz = r.runQuiz(ctx, client, acct.Address)

	display.Phase("Staking Automation")
	machine := &staking.Machine{
		Store:   r.Store,
		Targets: staking.Targets(),
		Unit:    decimal.NewFromFloat(r.Cfg.StakeMin),
		Hold:    r.Cfg.UnstakeHold(),
		Now:     func() time.Time { return time.Now().In(r.Cfg.Location()) },
	}
	out.Staking = machine.Run(ctx, client, acct.Address)

	r.showStats(ctx, client, out.Staking)
	return out
}

// session performs one chat exchange end to end: post the prompt, file
// the usage receipt and poll for the settlement hash.
type session struct {
	client *kite.Client
	eoa    string
	smart  string
}

func (s *session) Send(ctx context.Context, ag agents.Agent, message string) (ok, throttled bool) {
	reply, err := s.client.AgentMessage(ctx, ag, s.eoa, message)
	if err != nil {
		return sendFailed(err)
	}
	display.ReplyLine(reply)
	receiptID, err := s.client.SubmitReceipt(ctx, s.smart, ag.ServiceID, message, reply)
	if err != nil {
		return sendFailed(err)
	}
	tx, err := s.client.InferenceTx(ctx, receiptID)
	if err != nil {
		return sendFailed(err)
	}
	if tx == "" {
		display.Muted("      tx: still pending")
	} else {
		display.Muted("      tx: " + tx)
	}
	return true, false
}

func sendFailed(err error) (ok, throttled bool) {
	if kite.Classify(err) == kite.KindThrottled {
		display.Failure("daily request pool is exhausted, try again tomorrow")
		return false, true
	}
	display.Failure("%v", err)
	return false, false
}

// txQuestion feeds the fallback agent a question about a recent
// transaction, drawing hashes from the shared cache.
func (r *Runner) txQuestion(client *kite.Client) func(ctx context.Context) string {
	return func(ctx context.Context) string {
		return fmt.Sprintf("What do you think of this transaction? %s", r.Cache.Random(ctx, client.LatestTxHashes))
	}
}

// runQuiz takes the daily quiz in one shot. Any step failing counts the
// quiz as failed; there is no retry.
func (r *Runner) runQuiz(ctx context.Context, client *kite.Client, eoa string) QuizStatus {
	quizID, err := client.CreateQuiz(ctx, eoa, time.Now().In(r.Cfg.Location()))
	if err != nil {
		return quizFailed(err)
	}
	q, err := client.QuizQuestionFor(ctx, quizID, eoa)
	if err != nil {
		return quizFailed(err)
	}
	passed, err := client.SubmitQuiz(ctx, quizID, q, eoa)
	if err != nil {
		return quizFailed(err)
	}
	if !passed {
		display.Failure("quiz failed to submit")
		return QuizFailed
	}
	display.Success("quiz completed")
	return QuizPassed
}

func quizFailed(err error) QuizStatus {
	if kite.Classify(err) == kite.KindThrottled {
		display.Failure("daily request pool is exhausted, try again tomorrow")
	} else {
		display.Failure("quiz error: %v", err)
	}
	return QuizFailed
}

// showStats reports the account's closing profile and holdings. Stats are
// best-effort and never affect the tally.
func (r *Runner) showStats(ctx context.Context, client *kite.Client, sum staking.Summary) {
	profile, err := client.Profile(ctx)
	if err != nil {
		display.Muted("stats error: %v", err)
		return
	}
	bal, err := client.Balances(ctx)
	if err != nil {
		display.Muted("stats error: %v", err)
		return
	}
	totals, err := client.StakedTotals(ctx)
	if err != nil {
		display.Muted("stats error: %v", err)
		return
	}
	display.StatsPanel(display.Stats{
		Username: profile.Username,
		Rank:     profile.Rank,
		XP:       profile.XPPoints,
		Kite:     bal.Kite.StringFixed(6),
		Usdt:     bal.Usdt.StringFixed(6),
		Staked:   totals.Staked.StringFixed(6),
		Claimed:  totals.ClaimRewards.StringFixed(6),
		Ops:      sum.Ops(),
	})
}

// abort ends the account run before any chats happened. A throttle here
// means the shared pool is already gone, so it flags the global limit.
func abort(out Outcome, step string, err error) Outcome {
	if kite.Classify(err) == kite.KindThrottled {
		display.Failure("daily request pool is exhausted, try again tomorrow")
		out.GlobalLimit = true
	} else {
		display.Failure("%s failed: %v", step, err)
	}
	out.Err = err
	return out
}
