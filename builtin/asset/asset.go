// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package asset implements the balance ledger of a fungible asset contract.
package asset

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/flamingo-finance/IdoContract/builtin/solidity"
	"github.com/flamingo-finance/IdoContract/ido"
	"github.com/flamingo-finance/IdoContract/state"
)

var (
	slotBalances = ido.BytesToBytes32([]byte("balances"))
	slotSupply   = ido.BytesToBytes32([]byte("total-supply"))
	slotMeta     = ido.BytesToBytes32([]byte("meta"))
)

// Meta describes the asset.
type Meta struct {
	Symbol   string
	Decimals uint8
}

// Asset binder of a fungible asset contract.
type Asset struct {
	addr     ido.Address
	balances *solidity.Mapping[ido.Address, *big.Int]
	supply   *solidity.Uint256
	meta     *solidity.Raw[*Meta]
}

func New(addr ido.Address, state *state.State) *Asset {
	sctx := solidity.NewContext(addr, state)
	return &Asset{
		addr:     addr,
		balances: solidity.NewMapping[ido.Address, *big.Int](sctx, slotBalances),
		supply:   solidity.NewUint256(sctx, slotSupply),
		meta:     solidity.NewRaw[*Meta](sctx, slotMeta),
	}
}

// Address returns the asset handle.
func (a *Asset) Address() ido.Address {
	return a.addr
}

// Initialize records asset metadata.
func (a *Asset) Initialize(meta *Meta) error {
	return a.meta.Set(meta)
}

// Meta returns asset metadata.
func (a *Asset) Meta() (*Meta, error) {
	return a.meta.Get()
}

// BalanceOf returns the balance of holder.
func (a *Asset) BalanceOf(holder ido.Address) (*big.Int, error) {
	bal, err := a.balances.Get(holder)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	return bal, nil
}

// TotalSupply returns the amount minted so far.
func (a *Asset) TotalSupply() (*big.Int, error) {
	return a.supply.Get()
}

// Mint credits amount to holder and grows the supply.
func (a *Asset) Mint(holder ido.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.New("negative mint amount")
	}
	bal, err := a.BalanceOf(holder)
	if err != nil {
		return err
	}
	if err := a.balances.Set(holder, bal.Add(bal, amount)); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	return a.supply.Add(amount)
}

// Move moves amount from one holder to another.
// It returns false without touching storage if from lacks funds.
func (a *Asset) Move(from, to ido.Address, amount *big.Int) (bool, error) {
	if amount.Sign() < 0 {
		return false, nil
	}
	fromBal, err := a.BalanceOf(from)
	if err != nil {
		return false, err
	}
	if fromBal.Cmp(amount) < 0 {
		return false, nil
	}
	if from == to || amount.Sign() == 0 {
		return true, nil
	}
	if err := a.balances.Set(from, fromBal.Sub(fromBal, amount)); err != nil {
		return false, errors.Wrap(err, "failed to set balance")
	}
	toBal, err := a.BalanceOf(to)
	if err != nil {
		return false, err
	}
	if err := a.balances.Set(to, toBal.Add(toBal, amount)); err != nil {
		return false, errors.Wrap(err, "failed to set balance")
	}
	return true, nil
}
