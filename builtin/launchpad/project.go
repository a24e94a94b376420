// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package launchpad

import (
	"iter"
	"math/big"

	"github.com/flamingo-finance/IdoContract/builtin/launchpad/project"
	"github.com/flamingo-finance/IdoContract/builtin/launchpad/tier"
	"github.com/flamingo-finance/IdoContract/builtin/reverts"
	"github.com/flamingo-finance/IdoContract/ido"
)

// Registration describes a project offering.
type Registration struct {
	Registrant     ido.Address
	OfferingAmount *big.Int
	OfferingPrice  *big.Int
	Ref            ido.Address
	AllowedLevel   uint8
	Token          ido.Address
}

// RegisterProject records a new project and moves the offered tokens from
// the registrant into the project escrow.
func (l *Launchpad) RegisterProject(reg *Registration) error {
	if err := l.requireWitness(reg.Registrant); err != nil {
		return err
	}
	if reg.OfferingAmount == nil || reg.OfferingAmount.Sign() <= 0 {
		return reverts.ErrInvalidAmount.Withf("offering amount %v", reg.OfferingAmount)
	}
	if reg.OfferingPrice == nil || reg.OfferingPrice.Sign() <= 0 {
		return reverts.ErrInvalidAmount.Withf("offering price %v", reg.OfferingPrice)
	}
	if !tier.Level(reg.AllowedLevel).Valid() {
		return reverts.ErrInvalidLevel.Withf("allowed level %d", reg.AllowedLevel)
	}
	token, ok, err := l.contracts.Asset(reg.Token)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.ErrBadContractRef.Withf("token %v", reg.Token)
	}
	relay, ok, err := l.contracts.Relay(reg.Ref)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.ErrBadContractRef.Withf("project %v", reg.Ref)
	}

	if err := l.projects.Add(reg.Ref, &project.Project{
		OfferingAmount: new(big.Int).Set(reg.OfferingAmount),
		OfferingPrice:  new(big.Int).Set(reg.OfferingPrice),
		Token:          reg.Token,
		AllowedLevel:   reg.AllowedLevel,
	}); err != nil {
		return err
	}

	if err := relay.SetReceiveOnProjectRegister(); err != nil {
		return err
	}
	ok, err = token.Transfer(reg.Registrant, reg.Ref, reg.OfferingAmount)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.ErrTransferFailed.Withf("offering of %v", reg.Token)
	}

	l.emit(EventProjectRegistered, &reg.Registrant, &reg.Ref, reg.OfferingAmount, map[string]string{
		"token":        reg.Token.String(),
		"price":        reg.OfferingPrice.String(),
		"allowedLevel": tier.Level(reg.AllowedLevel).String(),
	})
	logger.Debug("project registered", "ref", reg.Ref, "token", reg.Token, "offering", reg.OfferingAmount)
	return nil
}

// ReviewProject opens the vote window of a project.
func (l *Launchpad) ReviewProject(ref ido.Address) error {
	if err := l.requireAdmin(); err != nil {
		return err
	}
	p, err := l.projects.Existing(ref)
	if err != nil {
		return err
	}
	if p.IsReviewed {
		return reverts.ErrAlreadyReviewed.Withf("project %v", ref)
	}
	p.IsReviewed = true
	p.ReviewedHeight = l.env.CurrentHeight()
	if err := l.projects.Update(ref, p); err != nil {
		return err
	}
	l.emit(EventProjectReviewed, nil, &ref, nil, nil)
	return nil
}

// EndProject marks a project ended. Ended projects accept no votes or swaps.
func (l *Launchpad) EndProject(ref ido.Address) error {
	if err := l.requireAdmin(); err != nil {
		return err
	}
	p, err := l.projects.Existing(ref)
	if err != nil {
		return err
	}
	p.IsEnd = true
	if err := l.projects.Update(ref, p); err != nil {
		return err
	}
	l.emit(EventProjectEnded, nil, &ref, nil, nil)
	return nil
}

// GetProject returns the record of ref or ProjectNotFound.
func (l *Launchpad) GetProject(ref ido.Address) (*project.Project, error) {
	return l.projects.Existing(ref)
}

// GetProjectsCount returns the number of registered projects.
func (l *Launchpad) GetProjectsCount() (uint64, error) {
	return l.projects.Count()
}

// ListAllProjects iterates project refs in registration order.
func (l *Launchpad) ListAllProjects() iter.Seq2[ido.Address, error] {
	return l.projects.All()
}

// ProjectPage returns up to limit project refs starting at cursor and the next cursor.
func (l *Launchpad) ProjectPage(cursor ido.Address, limit int) ([]ido.Address, ido.Address, error) {
	return l.projects.Page(cursor, limit)
}
