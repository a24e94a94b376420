// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flamingo-finance/IdoContract/builtin/reverts"
	"github.com/flamingo-finance/IdoContract/builtin/solidity"
	"github.com/flamingo-finance/IdoContract/ido"
	"github.com/flamingo-finance/IdoContract/lvldb"
	"github.com/flamingo-finance/IdoContract/state"
)

func newParams(t *testing.T) *Params {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(solidity.NewContext(ido.BytesToAddress([]byte("Launchpad")), state.NewStater(db, 0).NewState()))
}

func TestDefaults(t *testing.T) {
	p := newParams(t)

	all, err := p.All()
	require.NoError(t, err)
	assert.Equal(t, map[string]uint64{
		"unstake-time-span": 23040,
		"vote-time-span":    22400,
		"swap-time-span":    11200,
		"withdraw-fee":      7500,
	}, all)
}

func TestSet(t *testing.T) {
	p := newParams(t)

	require.NoError(t, p.Set(VoteTimeSpan, 100))
	span, err := p.Span(VoteTimeSpan)
	require.NoError(t, err)
	assert.Equal(t, uint32(100), span)

	require.NoError(t, p.Set(WithdrawFee, 0))
	fee, err := p.Get(WithdrawFee)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), fee)

	require.NoError(t, p.Set(WithdrawFee, ido.FeeDenominator))

	err = p.Set(WithdrawFee, ido.FeeDenominator+1)
	assert.True(t, errors.Is(err, reverts.ErrInvalidParam))
	err = p.Set(SwapTimeSpan, 0)
	assert.True(t, errors.Is(err, reverts.ErrInvalidParam))
	err = p.Set(SwapTimeSpan, 1<<32)
	assert.True(t, errors.Is(err, reverts.ErrInvalidParam))
}

func TestLookup(t *testing.T) {
	v, ok := Lookup("swap-time-span")
	assert.True(t, ok)
	assert.Same(t, SwapTimeSpan, v)

	_, ok = Lookup("nope")
	assert.False(t, ok)
}
