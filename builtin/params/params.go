// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package params holds the admin tunable parameters of the launchpad.
package params

import (
	"math"

	"github.com/pkg/errors"

	"github.com/flamingo-finance/IdoContract/builtin/reverts"
	"github.com/flamingo-finance/IdoContract/builtin/solidity"
	"github.com/flamingo-finance/IdoContract/ido"
)

var (
	UnstakeTimeSpan = solidity.NewConfigVariable("unstake-time-span", ido.BytesToBytes32([]byte{0x02, 0x02}), 23040)
	VoteTimeSpan    = solidity.NewConfigVariable("vote-time-span", ido.BytesToBytes32([]byte{0x02, 0x03}), 22400)
	SwapTimeSpan    = solidity.NewConfigVariable("swap-time-span", ido.BytesToBytes32([]byte{0x02, 0x04}), 11200)
	WithdrawFee     = solidity.NewConfigVariable("withdraw-fee", ido.BytesToBytes32([]byte{0x04, 0x01}), 7500)

	all = []*solidity.ConfigVariable{UnstakeTimeSpan, VoteTimeSpan, SwapTimeSpan, WithdrawFee}
)

// Params binder of the launchpad parameters.
type Params struct {
	sctx *solidity.Context
}

func New(sctx *solidity.Context) *Params {
	return &Params{sctx}
}

// Lookup returns the parameter registered under name.
func Lookup(name string) (*solidity.ConfigVariable, bool) {
	for _, v := range all {
		if v.Name() == name {
			return v, true
		}
	}
	return nil, false
}

// Get returns the effective value of v.
func (p *Params) Get(v *solidity.ConfigVariable) (uint64, error) {
	value, err := v.Get(p.sctx)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to get %s", v.Name())
	}
	return value, nil
}

// Span returns the effective value of a height span parameter.
func (p *Params) Span(v *solidity.ConfigVariable) (uint32, error) {
	value, err := p.Get(v)
	if err != nil {
		return 0, err
	}
	if value > math.MaxUint32 {
		return 0, errors.Errorf("%s out of range", v.Name())
	}
	return uint32(value), nil
}

// Set validates and stores a parameter.
func (p *Params) Set(v *solidity.ConfigVariable, value uint64) error {
	switch v {
	case WithdrawFee:
		if value > ido.FeeDenominator {
			return reverts.ErrInvalidParam.Withf("%s must not exceed %d", v.Name(), ido.FeeDenominator)
		}
	default:
		if value == 0 || value > math.MaxUint32 {
			return reverts.ErrInvalidParam.Withf("%s must be a positive height span", v.Name())
		}
	}
	v.Set(p.sctx, value)
	return nil
}

// All returns every parameter with its effective value, keyed by name.
func (p *Params) All() (map[string]uint64, error) {
	out := make(map[string]uint64, len(all))
	for _, v := range all {
		value, err := p.Get(v)
		if err != nil {
			return nil, err
		}
		out[v.Name()] = value
	}
	return out, nil
}
