// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package project is the registry of fundraising projects, keyed by their escrow pair.
package project

import (
	"iter"
	"math/big"

	"github.com/pkg/errors"

	"github.com/flamingo-finance/IdoContract/builtin/linkedlist"
	"github.com/flamingo-finance/IdoContract/builtin/reverts"
	"github.com/flamingo-finance/IdoContract/builtin/solidity"
	"github.com/flamingo-finance/IdoContract/ido"
)

var (
	slotProjects = ido.BytesToBytes32([]byte{0x06, 0x01})
	slotHead     = ido.BytesToBytes32([]byte{0x06, 0x02})
	slotTail     = ido.BytesToBytes32([]byte{0x06, 0x03})
	slotCount    = ido.BytesToBytes32([]byte{0x06, 0x04})
)

// Project is the record of a registered project.
type Project struct {
	ReviewedHeight uint32
	OfferingAmount *big.Int
	OfferingPrice  *big.Int
	TotalWeight    uint64
	Token          ido.Address
	IsReviewed     bool
	IsEnd          bool
	AllowedLevel   uint8
}

// IsNew reports whether the record was never written.
func (p *Project) IsNew() bool {
	return p.Token.IsZero()
}

// Registry binder of project records.
type Registry struct {
	records *solidity.Mapping[ido.Address, *Project]
	refs    *linkedlist.LinkedList
}

func New(sctx *solidity.Context) *Registry {
	return &Registry{
		records: solidity.NewMapping[ido.Address, *Project](sctx, slotProjects),
		refs:    linkedlist.New(sctx, slotHead, slotTail, slotCount),
	}
}

// Get returns the record of ref, which IsNew when unregistered.
func (r *Registry) Get(ref ido.Address) (*Project, error) {
	p, err := r.records.Get(ref)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get project")
	}
	if p.OfferingAmount == nil {
		p.OfferingAmount = new(big.Int)
	}
	if p.OfferingPrice == nil {
		p.OfferingPrice = new(big.Int)
	}
	return p, nil
}

// Existing returns the record of ref or ProjectNotFound.
func (r *Registry) Existing(ref ido.Address) (*Project, error) {
	p, err := r.Get(ref)
	if err != nil {
		return nil, err
	}
	if p.IsNew() {
		return nil, reverts.ErrProjectNotFound.Withf("project %v", ref)
	}
	return p, nil
}

// Add registers a new project under ref.
func (r *Registry) Add(ref ido.Address, p *Project) error {
	existing, err := r.Get(ref)
	if err != nil {
		return err
	}
	if !existing.IsNew() {
		return reverts.ErrDuplicateProject.Withf("project %v", ref)
	}
	if p.Token.IsZero() {
		return reverts.ErrBadContractRef.Withf("zero token")
	}
	if err := r.Update(ref, p); err != nil {
		return err
	}
	return r.refs.Add(ref)
}

// Update overwrites the record of ref.
func (r *Registry) Update(ref ido.Address, p *Project) error {
	if err := r.records.Set(ref, p); err != nil {
		return errors.Wrap(err, "failed to set project")
	}
	return nil
}

// Count returns the number of registered projects.
func (r *Registry) Count() (uint64, error) {
	return r.refs.Len()
}

// All iterates project refs in registration order.
func (r *Registry) All() iter.Seq2[ido.Address, error] {
	return r.refs.All()
}

// Page returns up to limit refs starting at cursor, and the cursor of the next page.
// A zero cursor starts from the first project; a zero next cursor means the end.
// A non-zero cursor must be a registered project.
func (r *Registry) Page(cursor ido.Address, limit int) ([]ido.Address, ido.Address, error) {
	ptr := cursor
	if cursor.IsZero() {
		head, err := r.refs.Head()
		if err != nil {
			return nil, ido.Address{}, err
		}
		ptr = head
	} else if _, err := r.Existing(cursor); err != nil {
		return nil, ido.Address{}, err
	}

	var (
		refs []ido.Address
		err  error
	)
	for !ptr.IsZero() && len(refs) < limit {
		refs = append(refs, ptr)
		if ptr, err = r.refs.Next(ptr); err != nil {
			return nil, ido.Address{}, err
		}
	}
	return refs, ptr, nil
}
