// Package chat spreads one account's daily chat budget across the agent
// roster and watches for service-wide rate limiting.
package chat

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/ekaputhra/kitefarm/internal/agents"
	"github.com/ekaputhra/kitefarm/internal/display"
	"github.com/ekaputhra/kitefarm/internal/topics"
	"github.com/ekaputhra/kitefarm/internal/utils"
)

// Sender performs one chat exchange. ok reports the message was accepted;
// throttled reports the service shed the request instead of rejecting it.
type Sender interface {
	Send(ctx context.Context, ag agents.Agent, message string) (ok, throttled bool)
}

// Result is the tally of one account's chat session.
type Result struct {
	Sent   int
	Failed int

	// GlobalLimit is set when consecutive throttles across agents reach
	// the breaker threshold, which means the service's shared daily pool
	// is gone rather than one agent misbehaving.
	GlobalLimit bool
}

// Allocator walks the roster granting each agent a share of attempts,
// PerAgent capped by whatever remains of the shared Capacity when the
// agent is entered. When the shares were single attempts and budget
// remains after the first pass, a second balancing pass walks the roster
// again one attempt at a time. Agents flagged TxFallback ask about a
// fresh transaction hash from Fallback whenever their topic pool is empty.
type Allocator struct {
	Roster   []agents.Agent
	Topics   topics.Pools
	Fallback func(ctx context.Context) string
	Capacity int
	PerAgent int
	Delay    time.Duration
	Breaker  int
	Rand     *rand.Rand
}

// Run executes the session. The error is only ever the context's; service
// failures are absorbed into the Result.
func (a *Allocator) Run(ctx context.Context, send Sender) (Result, error) {
	var res Result
	if len(a.Roster) == 0 || a.Capacity <= 0 || a.PerAgent <= 0 {
		return res, nil
	}
	streak := 0

	attempt := func(ag agents.Agent, message string) (stop bool, err error) {
		display.ChatLine(res.Sent+1, a.Capacity, ag.Name, message)
		accepted, throttled := send.Send(ctx, ag, message)
		switch {
		case accepted:
			res.Sent++
			streak = 0
		case throttled:
			res.Failed++
			streak++
		default:
			res.Failed++
		}
		if a.Breaker > 0 && streak >= a.Breaker {
			display.Warn("%d throttles in a row, the shared daily pool looks exhausted", streak)
			res.GlobalLimit = true
			return true, nil
		}
		if err := utils.Sleep(ctx, a.Delay); err != nil {
			return true, err
		}
		return false, nil
	}

	for _, ag := range a.Roster {
		if res.Sent >= a.Capacity {
			break
		}
		display.Phase(fmt.Sprintf("Chat with %s × %d", ag.Name, a.PerAgent))
		// The agent's share is fixed on entry; failed attempts spend it
		// rather than roll over to another try.
		share := a.PerAgent
		if rem := a.Capacity - res.Sent; share > rem {
			share = rem
		}
		for i := 0; i < share; i++ {
			message, ok := a.messageFor(ctx, ag)
			if !ok {
				display.Muted("no topics for %s, skipping", ag.Name)
				break
			}
			stop, err := attempt(ag, message)
			if err != nil {
				return res, err
			}
			if stop {
				return res, nil
			}
		}
	}

	// Single-send shares can leave budget on the table when the roster is
	// smaller than the cap. Walk it once more.
	if a.PerAgent == 1 && res.Sent < a.Capacity {
		display.Phase("Extra Attempt Round")
		for _, ag := range a.Roster {
			if res.Sent >= a.Capacity {
				break
			}
			message, ok := a.messageFor(ctx, ag)
			if !ok {
				continue
			}
			stop, err := attempt(ag, message)
			if err != nil {
				return res, err
			}
			if stop {
				return res, nil
			}
		}
	}
	return res, nil
}

// messageFor draws the agent's next message: a pseudo-random topic when
// the pool has one, the transaction question for fallback-flagged agents
// otherwise.
func (a *Allocator) messageFor(ctx context.Context, ag agents.Agent) (string, bool) {
	if topic, ok := a.Topics.Pick(ag.Name, a.Rand); ok {
		return topic, true
	}
	if ag.TxFallback && a.Fallback != nil {
		return a.Fallback(ctx), true
	}
	return "", false
}
