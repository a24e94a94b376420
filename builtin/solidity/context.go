// Copyright (c) 2025 The VeChainThor developers
// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/flamingo-finance/IdoContract/ido"
	"github.com/flamingo-finance/IdoContract/state"
)

// Context binds storage helpers to the storage space of one contract.
type Context struct {
	address ido.Address
	state   *state.State
}

func NewContext(address ido.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) Address() ido.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}
