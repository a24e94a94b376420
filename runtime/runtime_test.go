// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"context"
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flamingo-finance/IdoContract/builtin"
	"github.com/flamingo-finance/IdoContract/eventdb"
	"github.com/flamingo-finance/IdoContract/genesis"
	"github.com/flamingo-finance/IdoContract/ido"
	"github.com/flamingo-finance/IdoContract/lvldb"
	"github.com/flamingo-finance/IdoContract/state"
)

var (
	admin = ido.BytesToAddress([]byte("admin"))
	bob   = ido.BytesToAddress([]byte("bob"))
)

type fixture struct {
	t      *testing.T
	rt     *Runtime
	clock  *ManualClock
	events *eventdb.EventDB
	stater *state.Stater
	flm    ido.Address
}

func newFixture(t *testing.T) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	events, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { events.Close() })

	gen := &genesis.Genesis{
		BlockInterval: 1,
		Admin:         admin,
		Assets: []genesis.Asset{{
			Symbol:   "FLM",
			Decimals: 8,
			Deployer: admin,
			Balances: []genesis.Balance{{Address: bob, Amount: genesis.NewAmount(1000)}},
		}},
		StakeAsset: "FLM",
		Thresholds: []*genesis.Amount{
			genesis.NewAmount(100), genesis.NewAmount(200), genesis.NewAmount(300),
			genesis.NewAmount(400), genesis.NewAmount(500), genesis.NewAmount(600),
		},
		Params: map[string]uint64{"unstake-time-span": 1000},
	}
	stater := state.NewStater(db, 0)
	res, _, err := gen.Build(stater)
	require.NoError(t, err)

	clock := NewManualClock(10)
	rt := New(stater, events, clock)
	t.Cleanup(rt.Close)
	return &fixture{t, rt, clock, events, stater, res.Assets["FLM"]}
}

func (f *fixture) call(contract ido.Address, method string, args any) *builtin.Call {
	raw, err := json.Marshal(args)
	require.NoError(f.t, err)
	return &builtin.Call{Contract: contract, Method: method, Args: raw}
}

func (f *fixture) stake(amount int64) *Receipt {
	receipt, err := f.rt.Execute(context.Background(), &Invocation{
		Call: f.call(f.flm, "transfer", map[string]any{
			"from": bob, "to": builtin.Launchpad, "amount": amount,
		}),
		Witnesses: []ido.Address{bob},
	})
	require.NoError(f.t, err)
	return receipt
}

func (f *fixture) stakeOf(user ido.Address) *builtin.StakeView {
	out, err := f.rt.Call(context.Background(), f.call(builtin.Launchpad, "getStake", map[string]any{"user": user}))
	require.NoError(f.t, err)
	return out.(*builtin.StakeView)
}

func TestExecuteCommits(t *testing.T) {
	f := newFixture(t)

	receipt := f.stake(300)
	assert.False(t, receipt.Reverted)
	assert.Equal(t, uint32(10), receipt.Height)
	assert.Equal(t, "transfer", receipt.Method)
	assert.NotEmpty(t, receipt.Events)

	view := f.stakeOf(bob)
	assert.Equal(t, big.NewInt(300), (*big.Int)(view.StakeAmount))
	assert.Equal(t, uint32(10), view.LastStakeHeight)
	assert.Equal(t, "gold", view.LevelName)

	stored, err := f.events.Filter(context.Background(), &eventdb.Filter{InvocationID: &receipt.ID})
	require.NoError(t, err)
	assert.Len(t, stored, len(receipt.Events))
}

func TestRevertCommitsNothing(t *testing.T) {
	f := newFixture(t)
	f.stake(300)

	receipt, err := f.rt.Execute(context.Background(), &Invocation{
		Call:      f.call(builtin.Launchpad, "unstake", map[string]any{"user": bob, "amount": 301}),
		Witnesses: []ido.Address{bob},
	})
	require.NoError(t, err)
	assert.True(t, receipt.Reverted)
	assert.Equal(t, "InsufficientStake", receipt.Revert.Code)
	assert.Equal(t, "InsufficientBalance", receipt.Revert.Kind)
	assert.Empty(t, receipt.Events)

	assert.Equal(t, big.NewInt(300), (*big.Int)(f.stakeOf(bob).StakeAmount))

	stored, err := f.events.Filter(context.Background(), &eventdb.Filter{InvocationID: &receipt.ID})
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestUnstakePenaltyThroughRuntime(t *testing.T) {
	f := newFixture(t)
	f.stake(300)

	f.clock.Advance(999)
	receipt, err := f.rt.Execute(context.Background(), &Invocation{
		Call:      f.call(builtin.Launchpad, "unstake", map[string]any{"user": bob, "amount": 100}),
		Witnesses: []ido.Address{bob},
	})
	require.NoError(t, err)
	require.False(t, receipt.Reverted)

	unstaked, err := f.events.Filter(context.Background(), &eventdb.Filter{Name: "Unstaked"})
	require.NoError(t, err)
	require.Len(t, unstaked, 1)
	assert.Equal(t, "75", unstaked[0].Attrs["payout"])
}

func TestReplayGuard(t *testing.T) {
	f := newFixture(t)
	inv := &Invocation{
		Call: f.call(f.flm, "transfer", map[string]any{
			"from": bob, "to": builtin.Launchpad, "amount": 100,
		}),
		Witnesses:   []ido.Address{bob},
		SigningHash: ido.Blake2b([]byte("signed")),
	}
	receipt, err := f.rt.Execute(context.Background(), inv)
	require.NoError(t, err)
	assert.Equal(t, inv.SigningHash, receipt.ID)

	_, err = f.rt.Execute(context.Background(), inv)
	assert.ErrorIs(t, err, ErrReplayed)
	assert.Equal(t, big.NewInt(100), (*big.Int)(f.stakeOf(bob).StakeAmount))

	// a reverted signed invocation is spent as well
	bad := &Invocation{
		Call:        f.call(builtin.Launchpad, "unstake", map[string]any{"user": bob, "amount": 1000}),
		Witnesses:   []ido.Address{bob},
		SigningHash: ido.Blake2b([]byte("bad")),
	}
	receipt, err = f.rt.Execute(context.Background(), bad)
	require.NoError(t, err)
	assert.True(t, receipt.Reverted)
	_, err = f.rt.Execute(context.Background(), bad)
	assert.ErrorIs(t, err, ErrReplayed)
}

func TestCallRejectsWrites(t *testing.T) {
	f := newFixture(t)
	_, err := f.rt.Call(context.Background(), f.call(builtin.Launchpad, "unstake", map[string]any{"user": bob, "amount": 1}))
	assert.ErrorIs(t, err, ErrNotReadonly)
}

func TestHeightIsMonotonic(t *testing.T) {
	f := newFixture(t)
	f.clock.Set(50)
	f.stake(1)
	f.clock.Set(20)
	assert.Equal(t, uint32(50), f.rt.Height())
	assert.Equal(t, uint32(50), f.stake(1).Height)
}

func TestSubscribeReceipts(t *testing.T) {
	f := newFixture(t)
	ch := make(chan *Receipt, 1)
	sub := f.rt.SubscribeReceipts(ch)
	defer sub.Unsubscribe()

	sent := f.stake(10)
	select {
	case got := <-ch:
		assert.Equal(t, sent.ID, got.ID)
	case <-time.After(time.Second):
		t.Fatal("no receipt delivered")
	}
}

func TestCanceledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.rt.Execute(ctx, &Invocation{Call: f.call(f.flm, "totalSupply", nil)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIntervalClock(t *testing.T) {
	launch := time.Unix(1_700_000_000, 0)
	c := NewIntervalClock(launch, 10*time.Second)
	c.now = func() time.Time { return launch.Add(95 * time.Second) }
	assert.Equal(t, uint32(9), c.Height())
	c.now = func() time.Time { return launch.Add(-time.Second) }
	assert.Equal(t, uint32(0), c.Height())
}
