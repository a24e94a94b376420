// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package launchpad

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/flamingo-finance/IdoContract/builtin/reverts"
	"github.com/flamingo-finance/IdoContract/ido"
)

// Intent is what an incoming payment means to the launchpad.
type Intent int

const (
	Rejected Intent = iota
	StakeDeposit
	SpendReceipt
	ProjectTokenReceipt
)

func (i Intent) String() string {
	switch i {
	case StakeDeposit:
		return "stake-deposit"
	case SpendReceipt:
		return "spend-receipt"
	case ProjectTokenReceipt:
		return "project-token-receipt"
	default:
		return "rejected"
	}
}

type expectation struct {
	intent Intent
	asset  ido.Address
	from   ido.Address
}

// expecting makes the launchpad accept a payment of asset from sender until
// the returned func is called.
func (l *Launchpad) expecting(intent Intent, asset, from ido.Address) func() {
	prev := l.expect
	l.expect = &expectation{intent: intent, asset: asset, from: from}
	return func() { l.expect = prev }
}

// Resolve classifies a payment of asset sent by from.
func (l *Launchpad) Resolve(asset, from ido.Address) (Intent, error) {
	if e := l.expect; e != nil && e.asset == asset && e.from == from {
		return e.intent, nil
	}
	stakeAsset, err := l.stakeAsset.Get()
	if err != nil {
		return Rejected, errors.Wrap(err, "failed to get stake asset")
	}
	if !stakeAsset.IsZero() && stakeAsset == asset {
		return StakeDeposit, nil
	}
	return Rejected, nil
}

// OnPayment is called by asset after it credited amount sent by from to the launchpad.
func (l *Launchpad) OnPayment(asset, from ido.Address, amount *big.Int) error {
	intent, err := l.Resolve(asset, from)
	if err != nil {
		return err
	}
	switch intent {
	case StakeDeposit:
		return l.deposit(from, amount)
	case SpendReceipt, ProjectTokenReceipt:
		// verified by the swap through balance deltas
		return nil
	default:
		return reverts.ErrBadAsset.Withf("asset %v not accepted", asset)
	}
}

func (l *Launchpad) deposit(user ido.Address, amount *big.Int) error {
	if amount.Sign() <= 0 {
		return reverts.ErrInvalidAmount.Withf("deposit %v", amount)
	}
	rec, err := l.stakes.Deposit(user, amount, l.env.CurrentHeight())
	if err != nil {
		return err
	}
	l.emit(EventStakeDeposited, &user, nil, amount, map[string]string{"level": rec.Level().String()})
	return nil
}
