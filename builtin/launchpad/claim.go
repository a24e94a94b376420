// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package launchpad

import (
	"math/big"

	"github.com/flamingo-finance/IdoContract/builtin/launchpad/allocation"
	"github.com/flamingo-finance/IdoContract/builtin/reverts"
	"github.com/flamingo-finance/IdoContract/ido"
)

// ClaimToken pays out the round 1 tokens of user in project ref.
func (l *Launchpad) ClaimToken(user, ref ido.Address) error {
	if user.IsZero() {
		return reverts.ErrInvalidAddress.Withf("zero user")
	}
	p, err := l.projects.Existing(ref)
	if err != nil {
		return err
	}
	if !p.IsReviewed {
		return reverts.ErrProjectNotReviewed.Withf("project %v", ref)
	}
	w, err := l.windowOf(p)
	if err != nil {
		return err
	}
	if !w.claimOpen(uint64(l.env.CurrentHeight())) {
		start, _ := w.round2()
		return reverts.ErrClaimNotOpen.Withf("opens at %d", start)
	}

	alloc, err := l.allocations.Get(ref, user)
	if err != nil {
		return err
	}
	if alloc.ClaimAmount.Sign() <= 0 {
		return reverts.ErrNothingToClaim.Withf("project %v", ref)
	}
	token, ok, err := l.contracts.Asset(p.Token)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.ErrBadContractRef.Withf("token %v", p.Token)
	}

	amount := alloc.ClaimAmount
	alloc.ClaimAmount = new(big.Int)
	if err := l.allocations.Set(ref, user, alloc); err != nil {
		return err
	}
	ok, err = token.Transfer(l.addr, user, amount)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.ErrTransferFailed.Withf("claim of %v", p.Token)
	}
	// a token calling back into the launchpad must not have re-credited the claim
	if alloc, err = l.allocations.Get(ref, user); err != nil {
		return err
	}
	if alloc.ClaimAmount.Sign() != 0 {
		return reverts.ErrInternal.Withf("claim of %v not drained", user)
	}
	l.emit(EventClaimed, &user, &ref, amount, nil)
	return nil
}

// UserInfo is the allocation of a user in a project.
type UserInfo struct {
	Weight        uint64
	SwapAmountMax *big.Int
	SwappedAmount *big.Int
	ClaimAmount   *big.Int
}

// GetUserInfo returns the allocation of user in project ref.
// SwapAmountMax stays 0 until the vote window has closed.
func (l *Launchpad) GetUserInfo(user, ref ido.Address) (*UserInfo, error) {
	p, err := l.projects.Existing(ref)
	if err != nil {
		return nil, err
	}
	alloc, err := l.allocations.Get(ref, user)
	if err != nil {
		return nil, err
	}
	info := &UserInfo{
		Weight:        alloc.Weight,
		SwapAmountMax: new(big.Int),
		SwappedAmount: alloc.SwappedAmount,
		ClaimAmount:   alloc.ClaimAmount,
	}
	if !p.IsReviewed {
		return info, nil
	}
	w, err := l.windowOf(p)
	if err != nil {
		return nil, err
	}
	if w.voteClosed(uint64(l.env.CurrentHeight())) {
		if info.SwapAmountMax, err = allocation.Cap(alloc.Weight, p.TotalWeight, p.OfferingAmount); err != nil {
			return nil, err
		}
	}
	return info, nil
}
