// Copyright (c) 2025 The VeChainThor developers
// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/flamingo-finance/IdoContract/ido"
)

// Address is a wrapper for storage and retrieval of an address in a single slot.
type Address struct {
	context *Context
	pos     ido.Bytes32
}

func NewAddress(context *Context, pos ido.Bytes32) *Address {
	return &Address{context: context, pos: pos}
}

func (a *Address) Get() (ido.Address, error) {
	storage, err := a.context.state.GetStorage(a.context.address, a.pos)
	if err != nil {
		return ido.Address{}, err
	}
	return ido.BytesToAddress(storage.Bytes()), nil
}

// Set stores addr, a nil addr clears the slot.
func (a *Address) Set(addr *ido.Address) {
	var storage ido.Bytes32
	if addr != nil {
		storage = ido.BytesToBytes32(addr.Bytes())
	}
	a.context.state.SetStorage(a.context.address, a.pos, storage)
}
