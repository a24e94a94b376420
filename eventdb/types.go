// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"math/big"

	"github.com/flamingo-finance/IdoContract/ido"
)

// Event is a persisted contract event.
type Event struct {
	Seq          uint64
	InvocationID ido.Bytes32
	Index        uint32
	Height       uint32
	Address      ido.Address
	Name         string
	Account      *ido.Address
	Project      *ido.Address
	Amount       *big.Int
	Attrs        map[string]string
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is an inclusive height range. To below From means open ended.
type Range struct {
	From uint32
	To   uint32
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// Filter selects events. Nil fields match everything.
type Filter struct {
	Address      *ido.Address
	Name         string
	Account      *ido.Address
	Project      *ido.Address
	InvocationID *ido.Bytes32
	Range        *Range
	Order        Order
	Options      *Options
}
