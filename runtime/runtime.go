// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime hosts the native contracts: it serializes invocations, commits
// their effects and journals their events.
package runtime

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	"github.com/pborman/uuid"
	"github.com/pkg/errors"

	"github.com/flamingo-finance/IdoContract/builtin"
	"github.com/flamingo-finance/IdoContract/builtin/reverts"
	"github.com/flamingo-finance/IdoContract/eventdb"
	"github.com/flamingo-finance/IdoContract/ido"
	"github.com/flamingo-finance/IdoContract/state"
	"github.com/flamingo-finance/IdoContract/xenv"
)

var logger = log.New("pkg", "runtime")

var (
	ErrReplayed    = errors.New("invocation already executed")
	ErrNotReadonly = errors.New("method changes state")
)

// Invocation is a call witnessed by a set of accounts.
type Invocation struct {
	Call      *builtin.Call
	Witnesses []ido.Address
	// SigningHash identifies a signed invocation. Non-zero hashes are executed once.
	SigningHash ido.Bytes32
}

// Revert describes why an invocation was reverted.
type Revert struct {
	Kind    string `json:"kind"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newRevert(err *reverts.ErrRevert) *Revert {
	return &Revert{Kind: err.Kind().String(), Code: err.Code(), Message: err.Error()}
}

// Receipt is the outcome of an executed invocation.
type Receipt struct {
	ID       ido.Bytes32   `json:"id"`
	Height   uint32        `json:"height"`
	Contract ido.Address   `json:"contract"`
	Method   string        `json:"method"`
	Reverted bool          `json:"reverted"`
	Revert   *Revert       `json:"revert,omitempty"`
	Output   any           `json:"output,omitempty"`
	Events   []*xenv.Event `json:"-"`
	Elapsed  time.Duration `json:"-"`
}

// Runtime executes invocations against committed state.
type Runtime struct {
	mu     sync.RWMutex
	stater *state.Stater
	events *eventdb.EventDB
	clock  Clock
	height uint32

	feed  event.Feed
	scope event.SubscriptionScope
}

// New creates a runtime. events may be nil to skip journaling.
func New(stater *state.Stater, events *eventdb.EventDB, clock Clock) *Runtime {
	return &Runtime{
		stater: stater,
		events: events,
		clock:  clock,
	}
}

// Height returns the height the next invocation executes at.
func (rt *Runtime) Height() uint32 {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.nextHeight()
}

// heights never go back, even if the clock does
func (rt *Runtime) nextHeight() uint32 {
	if h := rt.clock.Height(); h > rt.height {
		return h
	}
	return rt.height
}

// Execute runs inv and commits its effects.
// A reverted invocation commits nothing, except that a signed one is marked executed.
// The returned error reports host failures only, reverts are part of the receipt.
func (rt *Runtime) Execute(ctx context.Context, inv *Invocation) (*Receipt, error) {
	if inv.Call == nil {
		return nil, errors.New("no call")
	}
	receipt, err := rt.execute(ctx, inv)
	if err != nil {
		return nil, err
	}
	rt.feed.Send(receipt)
	return receipt, nil
}

func (rt *Runtime) execute(ctx context.Context, inv *Invocation) (*Receipt, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	height := rt.nextHeight()
	signed := !inv.SigningHash.IsZero()
	id := inv.SigningHash
	if !signed {
		id = ido.Blake2b(uuid.NewRandom())
	}

	st := rt.stater.NewState()
	guard := newReplayGuard(st)
	if signed {
		seen, err := guard.Seen(id)
		if err != nil {
			return nil, err
		}
		if seen {
			return nil, ErrReplayed
		}
	}

	env := xenv.New(&xenv.InvocationContext{
		ID:        id,
		Height:    height,
		Entry:     inv.Call.Contract,
		Witnesses: inv.Witnesses,
	})
	contracts := builtin.New(st, env)

	receipt := &Receipt{
		ID:       id,
		Height:   height,
		Contract: inv.Call.Contract,
		Method:   inv.Call.Method,
	}

	checkpoint := st.NewCheckpoint()
	out, err := contracts.Exec(inv.Call)
	if err != nil {
		var revert *reverts.ErrRevert
		if !errors.As(err, &revert) {
			metricInvocationCount().AddWithLabel(1, map[string]string{"method": inv.Call.Method, "outcome": "error"})
			return nil, errors.Wrapf(err, "execute %s", inv.Call.Method)
		}
		st.RevertTo(checkpoint)
		receipt.Reverted = true
		receipt.Revert = newRevert(revert)
	} else {
		receipt.Output = out
		receipt.Events = env.Events()
	}

	if signed {
		if err := guard.Mark(id, height); err != nil {
			return nil, err
		}
	}
	if err := rt.stater.Stage(st).Commit(); err != nil {
		return nil, err
	}
	rt.height = height
	metricHeight().Set(int64(height))

	if rt.events != nil && len(receipt.Events) > 0 {
		if err := rt.events.Insert(ctx, id, height, receipt.Events); err != nil {
			// state is committed already, the journal only lags behind
			logger.Error("failed to journal events", "id", id, "err", err)
		}
	}

	receipt.Elapsed = time.Since(start)
	outcome := "success"
	if receipt.Reverted {
		outcome = "reverted"
		logger.Debug("invocation reverted", "method", receipt.Method, "height", height, "code", receipt.Revert.Code)
	} else {
		logger.Debug("invocation executed", "method", receipt.Method, "height", height, "events", len(receipt.Events))
	}
	metricInvocationCount().AddWithLabel(1, map[string]string{"method": receipt.Method, "outcome": outcome})
	metricInvocationDuration().ObserveWithLabels(receipt.Elapsed.Milliseconds(), map[string]string{"method": receipt.Method})
	return receipt, nil
}

// Call runs a readonly method against committed state.
func (rt *Runtime) Call(ctx context.Context, call *builtin.Call) (any, error) {
	var out any
	err := rt.View(ctx, func(contracts *builtin.Contracts) error {
		readonly, err := contracts.IsReadonly(call)
		if err != nil {
			return err
		}
		if !readonly {
			return ErrNotReadonly
		}
		out, err = contracts.Exec(call)
		return err
	})
	return out, err
}

// View gives fn a throwaway view of committed state. Changes fn makes are discarded.
func (rt *Runtime) View(ctx context.Context, fn func(*builtin.Contracts) error) error {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	env := xenv.New(&xenv.InvocationContext{Height: rt.nextHeight()})
	return fn(builtin.New(rt.stater.NewState(), env))
}

// SubscribeReceipts delivers every receipt executed after the call.
func (rt *Runtime) SubscribeReceipts(ch chan<- *Receipt) event.Subscription {
	return rt.scope.Track(rt.feed.Subscribe(ch))
}

// Close ends all subscriptions.
func (rt *Runtime) Close() {
	rt.scope.Close()
}
