// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ido

import (
	"errors"
	"math/big"

	"github.com/holiman/uint256"
)

const (
	// FeeDenominator is the basis-point denominator of fee ratios.
	FeeDenominator = 10000
	// LevelCount is the number of non-zero tier levels.
	LevelCount = 6
)

// PriceDenominator is the fixed-point scale of offering prices (10^18).
var PriceDenominator = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

var (
	errNegative  = errors.New("negative operand")
	errOverflow  = errors.New("uint256 overflow")
	errZeroDenom = errors.New("zero denominator")
)

// MulDiv computes floor(a*b/d) with a 512-bit intermediate product.
// It fails when an operand is negative or wider than 256 bits, when d is zero,
// or when the quotient does not fit in 256 bits.
func MulDiv(a, b, d *big.Int) (*big.Int, error) {
	x, err := toUint256(a)
	if err != nil {
		return nil, err
	}
	y, err := toUint256(b)
	if err != nil {
		return nil, err
	}
	z, err := toUint256(d)
	if err != nil {
		return nil, err
	}
	if z.IsZero() {
		return nil, errZeroDenom
	}
	q, overflow := new(uint256.Int).MulDivOverflow(x, y, z)
	if overflow {
		return nil, errOverflow
	}
	return q.ToBig(), nil
}

func toUint256(v *big.Int) (*uint256.Int, error) {
	if v == nil {
		return new(uint256.Int), nil
	}
	if v.Sign() < 0 {
		return nil, errNegative
	}
	u, overflow := uint256.FromBig(v)
	if overflow {
		return nil, errOverflow
	}
	return u, nil
}

// BigOrZero returns v, or a fresh zero when v is nil.
func BigOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
