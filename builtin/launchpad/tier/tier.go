// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package tier maps staked amounts to levels and levels to voting weights.
package tier

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"

	"github.com/flamingo-finance/IdoContract/builtin/reverts"
	"github.com/flamingo-finance/IdoContract/builtin/solidity"
	"github.com/flamingo-finance/IdoContract/ido"
)

// Level is a staking tier, 0 means no tier.
type Level uint8

const (
	None Level = iota
	Bronze
	Silver
	Gold
	Platinum
	Diamond
	Kryptonite
)

var levelNames = [...]string{"none", "bronze", "silver", "gold", "platinum", "diamond", "kryptonite"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("level(%d)", uint8(l))
}

// Valid reports whether l is one of the six tiers.
func (l Level) Valid() bool {
	return l >= Bronze && l <= Kryptonite
}

var (
	slotThresholds = ido.BytesToBytes32([]byte{0x03, 0x01})
	slotWeights    = ido.BytesToBytes32([]byte{0x03, 0x02})

	// DefaultWeights are the voting weights of bronze through kryptonite.
	DefaultWeights = []uint64{10, 30, 95, 300, 695, 1450}
)

type thresholds struct {
	Amounts []*big.Int
}

type weights struct {
	Values []uint64
}

// Table binder of the tier configuration.
type Table struct {
	thresholds *solidity.Raw[*thresholds]
	weights    *solidity.Raw[*weights]
}

func New(sctx *solidity.Context) *Table {
	return &Table{
		thresholds: solidity.NewRaw[*thresholds](sctx, slotThresholds),
		weights:    solidity.NewRaw[*weights](sctx, slotWeights),
	}
}

// Thresholds returns the six level thresholds, bronze first.
// It fails with ConfigurationMissing if they were never set.
func (t *Table) Thresholds() ([]*big.Int, error) {
	th, err := t.thresholds.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get level thresholds")
	}
	if len(th.Amounts) != ido.LevelCount {
		return nil, reverts.ErrConfigurationMissing.Withf("level thresholds not set")
	}
	return th.Amounts, nil
}

// SetThresholds validates and atomically stores the six thresholds.
func (t *Table) SetThresholds(amounts []*big.Int) error {
	if err := ValidateThresholds(amounts); err != nil {
		return err
	}
	stored := make([]*big.Int, len(amounts))
	for i, a := range amounts {
		stored[i] = new(big.Int).Set(a)
	}
	return t.thresholds.Set(&thresholds{Amounts: stored})
}

// LevelForAmount returns the level amount qualifies for under the current thresholds.
func (t *Table) LevelForAmount(amount *big.Int) (Level, error) {
	th, err := t.Thresholds()
	if err != nil {
		return None, err
	}
	return LevelOf(th, amount), nil
}

// Weights returns the weight scheme, bronze first.
func (t *Table) Weights() ([]uint64, error) {
	w, err := t.weights.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get weight scheme")
	}
	if len(w.Values) != ido.LevelCount {
		return DefaultWeights, nil
	}
	return w.Values, nil
}

// SetWeights validates and stores a weight scheme.
func (t *Table) SetWeights(values []uint64) error {
	if err := ValidateWeights(values); err != nil {
		return err
	}
	return t.weights.Set(&weights{Values: append([]uint64(nil), values...)})
}

// WeightForLevel returns the voting weight of level, 0 for None.
func (t *Table) WeightForLevel(level Level) (uint64, error) {
	if !level.Valid() {
		return 0, nil
	}
	w, err := t.Weights()
	if err != nil {
		return 0, err
	}
	return w[level-1], nil
}

// LevelOf returns the highest level whose threshold amount reaches, or None.
func LevelOf(thresholds []*big.Int, amount *big.Int) Level {
	for l := len(thresholds); l >= 1; l-- {
		if amount.Cmp(thresholds[l-1]) >= 0 {
			return Level(l)
		}
	}
	return None
}

// ValidateThresholds checks there are six non-negative, non-decreasing amounts.
func ValidateThresholds(amounts []*big.Int) error {
	if len(amounts) != ido.LevelCount {
		return reverts.ErrInvalidAmount.Withf("want %d thresholds, got %d", ido.LevelCount, len(amounts))
	}
	for i, a := range amounts {
		if a == nil || a.Sign() < 0 {
			return reverts.ErrInvalidAmount.Withf("threshold %d is negative", i+1)
		}
		if i > 0 && a.Cmp(amounts[i-1]) < 0 {
			return reverts.ErrAmountOrdering.Withf("%v below %v", Level(i+1), Level(i))
		}
	}
	return nil
}

// ValidateWeights checks there are six positive, strictly increasing weights.
func ValidateWeights(values []uint64) error {
	if len(values) != ido.LevelCount {
		return reverts.ErrInvalidParam.Withf("want %d weights, got %d", ido.LevelCount, len(values))
	}
	for i, v := range values {
		if v == 0 || (i > 0 && v <= values[i-1]) {
			return reverts.ErrInvalidParam.Withf("weights must be positive and strictly increasing")
		}
	}
	return nil
}
