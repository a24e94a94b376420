// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package launchpad

import (
	"math/big"

	"github.com/flamingo-finance/IdoContract/builtin/launchpad/stake"
	"github.com/flamingo-finance/IdoContract/builtin/params"
	"github.com/flamingo-finance/IdoContract/builtin/reverts"
	"github.com/flamingo-finance/IdoContract/ido"
)

// Unstake withdraws amount of the stake of user.
// Early withdrawals pay out only the withdraw fee share of amount.
func (l *Launchpad) Unstake(user ido.Address, amount *big.Int) error {
	if err := l.requireWitness(user); err != nil {
		return err
	}
	assetAddr, asset, err := l.resolveAsset(l.stakeAsset, "stake asset")
	if err != nil {
		return err
	}

	rec, err := l.stakes.Get(user)
	if err != nil {
		return err
	}
	if amount.Sign() <= 0 || amount.Cmp(rec.StakeAmount) > 0 {
		return reverts.ErrInsufficientStake.Withf("unstake %v of %v", amount, rec.StakeAmount)
	}
	level, err := l.tiers.LevelForAmount(rec.StakeAmount)
	if err != nil {
		return err
	}
	span, err := l.params.Span(params.UnstakeTimeSpan)
	if err != nil {
		return err
	}
	fee, err := l.params.Get(params.WithdrawFee)
	if err != nil {
		return err
	}
	eligible := stake.Eligible(level, rec.LastStakeHeight, l.env.CurrentHeight(), span)
	payout, err := stake.Payout(amount, eligible, fee)
	if err != nil {
		return err
	}

	if _, err := l.stakes.Withdraw(user, amount); err != nil {
		return err
	}

	before, err := asset.BalanceOf(l.addr)
	if err != nil {
		return err
	}
	if payout.Sign() > 0 {
		ok, err := asset.Transfer(l.addr, user, payout)
		if err != nil {
			return err
		}
		if !ok {
			return reverts.ErrTransferFailed.Withf("unstake payout of %v", assetAddr)
		}
	}
	after, err := asset.BalanceOf(l.addr)
	if err != nil {
		return err
	}
	if spent := new(big.Int).Sub(before, after); spent.Cmp(payout) > 0 {
		return reverts.ErrBalanceInvariant.Withf("custody dropped by %v, payout %v", spent, payout)
	}

	penalty := new(big.Int).Sub(amount, payout)
	l.emit(EventUnstaked, &user, nil, amount, map[string]string{
		"payout":  payout.String(),
		"penalty": penalty.String(),
	})
	logger.Debug("unstaked", "user", user, "amount", amount, "payout", payout)
	return nil
}

// GetStake returns the stake record of user with the level recomputed under
// the current thresholds.
func (l *Launchpad) GetStake(user ido.Address) (*stake.Record, error) {
	rec, err := l.stakes.Get(user)
	if err != nil {
		return nil, err
	}
	if rec.StakeAmount.Sign() == 0 {
		return rec, nil
	}
	level, err := l.tiers.LevelForAmount(rec.StakeAmount)
	if err != nil {
		return nil, err
	}
	rec.StakeLevel = uint8(level)
	return rec, nil
}
