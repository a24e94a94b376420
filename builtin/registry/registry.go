// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package registry keeps track of deployed native contracts and their kinds.
package registry

import (
	"iter"

	"github.com/pkg/errors"

	"github.com/flamingo-finance/IdoContract/builtin/linkedlist"
	"github.com/flamingo-finance/IdoContract/builtin/solidity"
	"github.com/flamingo-finance/IdoContract/ido"
	"github.com/flamingo-finance/IdoContract/state"
)

// Kind of a deployed contract.
type Kind uint8

const (
	KindNone Kind = iota
	KindAsset
	KindPair
	KindLaunchpad
)

func (k Kind) String() string {
	switch k {
	case KindAsset:
		return "asset"
	case KindPair:
		return "pair"
	case KindLaunchpad:
		return "launchpad"
	default:
		return "none"
	}
}

var (
	slotKinds = ido.BytesToBytes32([]byte("kinds"))
	slotHead  = ido.BytesToBytes32([]byte("contracts-head"))
	slotTail  = ido.BytesToBytes32([]byte("contracts-tail"))
	slotCount = ido.BytesToBytes32([]byte("contracts-count"))
)

// Registry binder of the contract registry.
type Registry struct {
	kinds     *solidity.Mapping[ido.Address, uint8]
	contracts *linkedlist.LinkedList
}

func New(addr ido.Address, state *state.State) *Registry {
	sctx := solidity.NewContext(addr, state)
	return &Registry{
		kinds:     solidity.NewMapping[ido.Address, uint8](sctx, slotKinds),
		contracts: linkedlist.New(sctx, slotHead, slotTail, slotCount),
	}
}

// KindOf returns the kind of the contract at addr, KindNone if nothing is deployed there.
func (r *Registry) KindOf(addr ido.Address) (Kind, error) {
	k, err := r.kinds.Get(addr)
	if err != nil {
		return KindNone, errors.Wrap(err, "failed to get contract kind")
	}
	return Kind(k), nil
}

// Register records a deployed contract. Addresses can be registered once.
func (r *Registry) Register(addr ido.Address, kind Kind) error {
	if kind == KindNone {
		return errors.New("invalid contract kind")
	}
	existing, err := r.KindOf(addr)
	if err != nil {
		return err
	}
	if existing != KindNone {
		return errors.Errorf("contract %v already registered as %v", addr, existing)
	}
	if err := r.kinds.Set(addr, uint8(kind)); err != nil {
		return errors.Wrap(err, "failed to set contract kind")
	}
	return r.contracts.Add(addr)
}

// All iterates deployed contracts in deployment order.
func (r *Registry) All() iter.Seq2[ido.Address, error] {
	return r.contracts.All()
}
