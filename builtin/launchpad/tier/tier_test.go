// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tier

import (
	"errors"
	"math/big"
	"sort"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flamingo-finance/IdoContract/builtin/reverts"
	"github.com/flamingo-finance/IdoContract/builtin/solidity"
	"github.com/flamingo-finance/IdoContract/ido"
	"github.com/flamingo-finance/IdoContract/lvldb"
	"github.com/flamingo-finance/IdoContract/state"
)

func newTable(t *testing.T) *Table {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(solidity.NewContext(ido.BytesToAddress([]byte("Launchpad")), state.NewStater(db, 0).NewState()))
}

func bigs(vs ...int64) []*big.Int {
	out := make([]*big.Int, len(vs))
	for i, v := range vs {
		out[i] = big.NewInt(v)
	}
	return out
}

func TestLevelForAmountRequiresThresholds(t *testing.T) {
	table := newTable(t)
	_, err := table.LevelForAmount(big.NewInt(1))
	assert.True(t, errors.Is(err, reverts.ErrConfigurationMissing))
}

func TestLevelForAmount(t *testing.T) {
	table := newTable(t)
	require.NoError(t, table.SetThresholds(bigs(100, 200, 300, 400, 500, 600)))

	tests := []struct {
		amount int64
		want   Level
	}{
		{0, None},
		{99, None},
		{100, Bronze},
		{299, Silver},
		{300, Gold},
		{450, Platinum},
		{599, Diamond},
		{600, Kryptonite},
		{1 << 40, Kryptonite},
	}
	for _, tt := range tests {
		got, err := table.LevelForAmount(big.NewInt(tt.amount))
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "amount %d", tt.amount)
	}
}

func TestEqualThresholdsPickHighestLevel(t *testing.T) {
	assert.Equal(t, Kryptonite, LevelOf(bigs(0, 0, 0, 0, 0, 0), big.NewInt(0)))
	assert.Equal(t, Gold, LevelOf(bigs(10, 10, 10, 20, 20, 20), big.NewInt(15)))
}

func TestSetThresholdsRejectsBadInput(t *testing.T) {
	table := newTable(t)
	require.NoError(t, table.SetThresholds(bigs(1, 2, 3, 4, 5, 6)))

	err := table.SetThresholds(bigs(1, 2, 4, 3, 5, 6))
	assert.True(t, errors.Is(err, reverts.ErrAmountOrdering))

	err = table.SetThresholds(bigs(-1, 2, 3, 4, 5, 6))
	assert.True(t, errors.Is(err, reverts.ErrInvalidAmount))

	err = table.SetThresholds(bigs(1, 2, 3))
	assert.True(t, errors.Is(err, reverts.ErrInvalidAmount))

	// nothing was written
	th, err := table.Thresholds()
	require.NoError(t, err)
	assert.Equal(t, bigs(1, 2, 3, 4, 5, 6), th)
}

func TestWeights(t *testing.T) {
	table := newTable(t)

	w, err := table.WeightForLevel(None)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), w)

	w, err = table.WeightForLevel(Kryptonite)
	require.NoError(t, err)
	assert.Equal(t, uint64(1450), w)

	require.NoError(t, table.SetWeights([]uint64{5, 15, 30, 70, 150, 400}))
	w, err = table.WeightForLevel(Platinum)
	require.NoError(t, err)
	assert.Equal(t, uint64(70), w)

	assert.Error(t, table.SetWeights([]uint64{5, 5, 30, 70, 150, 400}))
	assert.Error(t, table.SetWeights([]uint64{0, 15, 30, 70, 150, 400}))
	assert.Error(t, table.SetWeights([]uint64{1, 2}))
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "gold", Gold.String())
	assert.Equal(t, "level(9)", Level(9).String())
	assert.False(t, None.Valid())
	assert.True(t, Kryptonite.Valid())
}

// any monotonic threshold set yields a level function that is non-decreasing in amount.
func TestLevelMonotonicProperty(t *testing.T) {
	f := fuzz.New().NilChance(0)
	for range 200 {
		var raw [6]uint32
		f.Fuzz(&raw)
		sorted := raw[:]
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		th := make([]*big.Int, 6)
		for i, v := range sorted {
			th[i] = big.NewInt(int64(v))
		}
		require.NoError(t, ValidateThresholds(th))

		var a, b uint32
		f.Fuzz(&a)
		f.Fuzz(&b)
		if a > b {
			a, b = b, a
		}
		la := LevelOf(th, big.NewInt(int64(a)))
		lb := LevelOf(th, big.NewInt(int64(b)))
		assert.LessOrEqual(t, la, lb, "thresholds %v amounts %d %d", sorted, a, b)
	}
}

func TestWeightMonotonicProperty(t *testing.T) {
	table := newTable(t)
	weights, err := table.Weights()
	require.NoError(t, err)
	require.NoError(t, ValidateWeights(weights))

	prev := uint64(0)
	for l := Bronze; l <= Kryptonite; l++ {
		w, err := table.WeightForLevel(l)
		require.NoError(t, err)
		assert.Greater(t, w, prev)
		prev = w
	}
}
