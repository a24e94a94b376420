// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package linkedlist

import (
	"iter"
	"math/big"

	"github.com/pkg/errors"

	"github.com/flamingo-finance/IdoContract/builtin/solidity"
	"github.com/flamingo-finance/IdoContract/ido"
)

// LinkedList is an append-only list of addresses kept in insertion order.
type LinkedList struct {
	head  *solidity.Address
	tail  *solidity.Address
	count *solidity.Uint256
	next  *solidity.Mapping[ido.Address, ido.Address]
}

// New creates a linked list persisted at the given positions.
func New(sctx *solidity.Context, headPos, tailPos, countPos ido.Bytes32) *LinkedList {
	return &LinkedList{
		head:  solidity.NewAddress(sctx, headPos),
		tail:  solidity.NewAddress(sctx, tailPos),
		count: solidity.NewUint256(sctx, countPos),
		next:  solidity.NewMapping[ido.Address, ido.Address](sctx, headPos),
	}
}

// Add appends an address to the end of the list.
func (l *LinkedList) Add(address ido.Address) error {
	if address.IsZero() {
		return errors.New("zero address")
	}
	oldTail, err := l.tail.Get()
	if err != nil {
		return err
	}

	if oldTail.IsZero() {
		// the list is currently empty, set this entry to head & tail
		l.head.Set(&address)
	} else if err := l.next.Set(oldTail, address); err != nil {
		return err
	}
	l.tail.Set(&address)

	return l.count.Add(big.NewInt(1))
}

// Head returns the first address, zero when empty.
func (l *LinkedList) Head() (ido.Address, error) {
	return l.head.Get()
}

// Next returns the address following address, zero at the end of the list.
func (l *LinkedList) Next(address ido.Address) (ido.Address, error) {
	return l.next.Get(address)
}

// Len returns the number of addresses in the list.
func (l *LinkedList) Len() (uint64, error) {
	count, err := l.count.Get()
	if err != nil {
		return 0, err
	}
	return count.Uint64(), nil
}

// All returns a lazy sequence over the list in insertion order.
// Each call starts over from the head; a storage failure ends the sequence with a non-nil error.
func (l *LinkedList) All() iter.Seq2[ido.Address, error] {
	return func(yield func(ido.Address, error) bool) {
		ptr, err := l.head.Get()
		if err != nil {
			yield(ido.Address{}, errors.Wrap(err, "failed to get list head"))
			return
		}
		for !ptr.IsZero() {
			if !yield(ptr, nil) {
				return
			}
			if ptr, err = l.next.Get(ptr); err != nil {
				yield(ido.Address{}, errors.Wrap(err, "failed to get next entry"))
				return
			}
		}
	}
}
