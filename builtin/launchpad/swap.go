// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package launchpad

import (
	"math/big"

	"github.com/flamingo-finance/IdoContract/builtin/launchpad/allocation"
	"github.com/flamingo-finance/IdoContract/builtin/launchpad/project"
	"github.com/flamingo-finance/IdoContract/builtin/reverts"
	"github.com/flamingo-finance/IdoContract/ido"
)

// spendFor returns price*amount/10^18, which must be positive.
func spendFor(p *project.Project, amount *big.Int) (*big.Int, error) {
	spend, err := ido.MulDiv(p.OfferingPrice, amount, ido.PriceDenominator)
	if err != nil {
		return nil, reverts.ErrBadSwapAmount.Withf("%v", err)
	}
	if spend.Sign() <= 0 {
		return nil, reverts.ErrBadSwapAmount.Withf("amount %v pays nothing", amount)
	}
	return spend, nil
}

func (l *Launchpad) checkRound(p *project.Project, round func(*window) (uint64, uint64)) error {
	w, err := l.windowOf(p)
	if err != nil {
		return err
	}
	start, end := round(w)
	now := uint64(l.env.CurrentHeight())
	if now < start {
		return reverts.ErrRoundNotOpen.Withf("opens at %d", start)
	}
	if now >= end {
		return reverts.ErrRoundClosed.Withf("closed at %d", end)
	}
	return nil
}

// SwapToken buys amount project tokens in round 1, within the pro-rata cap of
// user. The tokens are credited to the claim ledger.
func (l *Launchpad) SwapToken(user, ref ido.Address, amount *big.Int) error {
	if err := l.requireWitness(user); err != nil {
		return err
	}
	p, err := l.reviewedProject(ref)
	if err != nil {
		return err
	}
	if err := l.checkRound(p, (*window).round1); err != nil {
		return err
	}

	alloc, err := l.allocations.Get(ref, user)
	if err != nil {
		return err
	}
	limit, err := allocation.Cap(alloc.Weight, p.TotalWeight, p.OfferingAmount)
	if err != nil {
		return err
	}
	remaining := allocation.Remaining(limit, alloc.SwappedAmount)
	if amount.Sign() <= 0 || amount.Cmp(remaining) > 0 {
		return reverts.ErrBadSwapAmount.Withf("amount %v, remaining %v", amount, remaining)
	}
	spend, err := spendFor(p, amount)
	if err != nil {
		return err
	}
	spendAddr, spendAsset, err := l.resolveAsset(l.spendAsset, "spend asset")
	if err != nil {
		return err
	}
	token, ok, err := l.contracts.Asset(p.Token)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.ErrBadContractRef.Withf("token %v", p.Token)
	}
	relay, ok, err := l.contracts.Relay(ref)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.ErrBadContractRef.Withf("project %v", ref)
	}

	// effects
	alloc.SwappedAmount.Add(alloc.SwappedAmount, amount)
	alloc.ClaimAmount.Add(alloc.ClaimAmount, amount)
	if err := l.allocations.Set(ref, user, alloc); err != nil {
		return err
	}
	l.emit(EventSwap, &user, &ref, amount, map[string]string{"round": "1", "spend": spend.String()})

	// interactions
	if err := relay.SetReceiveOnSwap(); err != nil {
		return err
	}
	if err := l.receive(spendAsset, spendAddr, user, spend, SpendReceipt); err != nil {
		return err
	}

	tokenBefore, err := token.BalanceOf(l.addr)
	if err != nil {
		return err
	}
	done := l.expecting(ProjectTokenReceipt, p.Token, ref)
	ok, err = spendAsset.Transfer(l.addr, ref, spend)
	done()
	if err != nil {
		return err
	}
	if !ok {
		return reverts.ErrTransferFailed.Withf("spend to escrow %v", ref)
	}
	tokenAfter, err := token.BalanceOf(l.addr)
	if err != nil {
		return err
	}
	if got := new(big.Int).Sub(tokenAfter, tokenBefore); got.Cmp(amount) != 0 {
		return reverts.ErrAmountMismatch.Withf("escrow delivered %v, want %v", got, amount)
	}
	logger.Debug("swapped", "round", 1, "user", user, "project", ref, "amount", amount, "spend", spend)
	return nil
}

// receive pulls amount of asset from sender into the launchpad and checks it arrived in full.
func (l *Launchpad) receive(asset Asset, assetAddr, from ido.Address, amount *big.Int, intent Intent) error {
	before, err := asset.BalanceOf(l.addr)
	if err != nil {
		return err
	}
	done := l.expecting(intent, assetAddr, from)
	ok, err := asset.Transfer(from, l.addr, amount)
	done()
	if err != nil {
		return err
	}
	if !ok {
		return reverts.ErrTransferFailed.Withf("receive %v from %v", assetAddr, from)
	}
	after, err := asset.BalanceOf(l.addr)
	if err != nil {
		return err
	}
	if got := new(big.Int).Sub(after, before); got.Cmp(amount) != 0 {
		return reverts.ErrAmountMismatch.Withf("received %v, want %v", got, amount)
	}
	return nil
}

// SwapTokenSecondRound buys amount project tokens in round 2. There is no cap,
// the spend goes straight to the escrow which delivers the tokens to user.
func (l *Launchpad) SwapTokenSecondRound(user, ref ido.Address, amount *big.Int) error {
	if err := l.requireWitness(user); err != nil {
		return err
	}
	p, err := l.reviewedProject(ref)
	if err != nil {
		return err
	}
	if err := l.checkRound(p, (*window).round2); err != nil {
		return err
	}
	if amount.Sign() <= 0 {
		return reverts.ErrBadSwapAmount.Withf("amount %v", amount)
	}
	spend, err := spendFor(p, amount)
	if err != nil {
		return err
	}
	_, spendAsset, err := l.resolveAsset(l.spendAsset, "spend asset")
	if err != nil {
		return err
	}
	relay, ok, err := l.contracts.Relay(ref)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.ErrBadContractRef.Withf("project %v", ref)
	}

	l.emit(EventSwap, &user, &ref, amount, map[string]string{"round": "2", "spend": spend.String()})
	if err := relay.SetReceiveOnSwap(); err != nil {
		return err
	}
	ok, err = spendAsset.Transfer(user, ref, spend)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.ErrTransferFailed.Withf("spend to escrow %v", ref)
	}
	logger.Debug("swapped", "round", 2, "user", user, "project", ref, "amount", amount, "spend", spend)
	return nil
}
