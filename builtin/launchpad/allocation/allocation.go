// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package allocation keeps per project and user voting weight, swapped amount and claimable tokens.
package allocation

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/flamingo-finance/IdoContract/builtin/solidity"
	"github.com/flamingo-finance/IdoContract/ido"
)

var slotAllocations = ido.BytesToBytes32([]byte{0x01, 0x04})

// Key addresses the allocation of user in project.
type Key struct {
	Project ido.Address
	User    ido.Address
}

// Bytes implements solidity.Key.
func (k Key) Bytes() []byte {
	b := make([]byte, 0, 2*ido.AddressLength)
	b = append(b, k.Project.Bytes()...)
	return append(b, k.User.Bytes()...)
}

// Allocation of a user in a project. Weight 0 means not voted.
type Allocation struct {
	Weight        uint64
	SwappedAmount *big.Int
	ClaimAmount   *big.Int
}

// Ledger binder of allocations.
type Ledger struct {
	records *solidity.Mapping[Key, *Allocation]
}

func New(sctx *solidity.Context) *Ledger {
	return &Ledger{records: solidity.NewMapping[Key, *Allocation](sctx, slotAllocations)}
}

// Get returns the allocation of user in project, zero valued when absent.
func (l *Ledger) Get(project, user ido.Address) (*Allocation, error) {
	a, err := l.records.Get(Key{project, user})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get allocation")
	}
	if a.SwappedAmount == nil {
		a.SwappedAmount = new(big.Int)
	}
	if a.ClaimAmount == nil {
		a.ClaimAmount = new(big.Int)
	}
	return a, nil
}

// Set writes the allocation of user in project.
func (l *Ledger) Set(project, user ido.Address, a *Allocation) error {
	if err := l.records.Set(Key{project, user}, a); err != nil {
		return errors.Wrap(err, "failed to set allocation")
	}
	return nil
}

// Cap returns weight*offering/totalWeight, 0 when nobody voted.
func Cap(weight, totalWeight uint64, offering *big.Int) (*big.Int, error) {
	if totalWeight == 0 || weight == 0 {
		return new(big.Int), nil
	}
	return ido.MulDiv(new(big.Int).SetUint64(weight), offering, new(big.Int).SetUint64(totalWeight))
}

// Remaining returns what is left of limit after swapped, never negative.
func Remaining(limit, swapped *big.Int) *big.Int {
	r := new(big.Int).Sub(limit, swapped)
	if r.Sign() < 0 {
		return r.SetInt64(0)
	}
	return r
}
