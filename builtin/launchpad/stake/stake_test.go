// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flamingo-finance/IdoContract/builtin/launchpad/tier"
	"github.com/flamingo-finance/IdoContract/builtin/solidity"
	"github.com/flamingo-finance/IdoContract/ido"
	"github.com/flamingo-finance/IdoContract/lvldb"
	"github.com/flamingo-finance/IdoContract/state"
)

func newLedger(t *testing.T) *Ledger {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sctx := solidity.NewContext(ido.BytesToAddress([]byte("Launchpad")), state.NewStater(db, 0).NewState())
	tiers := tier.New(sctx)
	require.NoError(t, tiers.SetThresholds([]*big.Int{
		big.NewInt(100), big.NewInt(200), big.NewInt(300),
		big.NewInt(400), big.NewInt(500), big.NewInt(600),
	}))
	return New(sctx, tiers)
}

func TestUnknownUserHasZeroRecord(t *testing.T) {
	l := newLedger(t)
	rec, err := l.Get(ido.BytesToAddress([]byte("nobody")))
	require.NoError(t, err)
	assert.Equal(t, 0, rec.StakeAmount.Sign())
	assert.Equal(t, tier.None, rec.Level())
	assert.Equal(t, uint32(0), rec.LastStakeHeight)
}

func TestDepositAndWithdraw(t *testing.T) {
	l := newLedger(t)
	user := ido.BytesToAddress([]byte("user"))

	rec, err := l.Deposit(user, big.NewInt(250), 10)
	require.NoError(t, err)
	assert.Equal(t, tier.Silver, rec.Level())
	assert.Equal(t, uint32(10), rec.LastStakeHeight)

	// a top-up restarts the timer
	rec, err = l.Deposit(user, big.NewInt(200), 25)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(450), rec.StakeAmount)
	assert.Equal(t, tier.Platinum, rec.Level())
	assert.Equal(t, uint32(25), rec.LastStakeHeight)

	rec, err = l.Withdraw(user, big.NewInt(400))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(50), rec.StakeAmount)
	assert.Equal(t, tier.None, rec.Level())
	assert.Equal(t, uint32(25), rec.LastStakeHeight)

	_, err = l.Withdraw(user, big.NewInt(51))
	assert.Error(t, err)

	got, err := l.Get(user)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(50), got.StakeAmount)
}

func TestCurrentLevelFollowsThresholds(t *testing.T) {
	l := newLedger(t)
	user := ido.BytesToAddress([]byte("user"))
	_, err := l.Deposit(user, big.NewInt(300), 1)
	require.NoError(t, err)

	level, err := l.CurrentLevel(user)
	require.NoError(t, err)
	assert.Equal(t, tier.Gold, level)

	require.NoError(t, l.tiers.SetThresholds([]*big.Int{
		big.NewInt(1000), big.NewInt(2000), big.NewInt(3000),
		big.NewInt(4000), big.NewInt(5000), big.NewInt(6000),
	}))
	level, err = l.CurrentLevel(user)
	require.NoError(t, err)
	assert.Equal(t, tier.None, level)
}

func TestEligible(t *testing.T) {
	tests := []struct {
		level   tier.Level
		elapsed uint32
		want    bool
	}{
		{tier.Gold, 999, false},
		{tier.Gold, 1000, true},
		{tier.Platinum, 499, false},
		{tier.Platinum, 500, true},
		{tier.Kryptonite, 500, true},
		{tier.None, 0, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Eligible(tt.level, 100, 100+tt.elapsed, 1000), "%v after %d", tt.level, tt.elapsed)
	}
	// a clock behind the record never counts as elapsed
	assert.False(t, Eligible(tier.Gold, 100, 50, 1))
}

func TestPayout(t *testing.T) {
	p, err := Payout(big.NewInt(1000), true, 7500)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), p)

	p, err = Payout(big.NewInt(1000), false, 7500)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(750), p)

	p, err = Payout(big.NewInt(3), false, 5000)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1), p)
}
