// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package stake keeps the per-user staking records of the launchpad.
package stake

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/flamingo-finance/IdoContract/builtin/launchpad/tier"
	"github.com/flamingo-finance/IdoContract/builtin/solidity"
	"github.com/flamingo-finance/IdoContract/ido"
)

var slotRecords = ido.BytesToBytes32([]byte{0x01, 0x01})

// Record is the staking state of a single user.
type Record struct {
	LastStakeHeight uint32
	StakeAmount     *big.Int
	StakeLevel      uint8
}

// Level returns the cached level.
func (r *Record) Level() tier.Level {
	return tier.Level(r.StakeLevel)
}

// Ledger binder of stake records.
type Ledger struct {
	records *solidity.Mapping[ido.Address, *Record]
	tiers   *tier.Table
}

func New(sctx *solidity.Context, tiers *tier.Table) *Ledger {
	return &Ledger{
		records: solidity.NewMapping[ido.Address, *Record](sctx, slotRecords),
		tiers:   tiers,
	}
}

// Get returns the record of user. Unknown users get a zero record.
func (l *Ledger) Get(user ido.Address) (*Record, error) {
	rec, err := l.records.Get(user)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get stake")
	}
	if rec.StakeAmount == nil {
		rec.StakeAmount = new(big.Int)
	}
	return rec, nil
}

// CurrentLevel recomputes the level of user from the stake amount and the current thresholds.
func (l *Ledger) CurrentLevel(user ido.Address) (tier.Level, error) {
	rec, err := l.Get(user)
	if err != nil {
		return tier.None, err
	}
	return l.tiers.LevelForAmount(rec.StakeAmount)
}

// Deposit adds amount to the stake of user and restarts the unstake timer.
func (l *Ledger) Deposit(user ido.Address, amount *big.Int, height uint32) (*Record, error) {
	rec, err := l.Get(user)
	if err != nil {
		return nil, err
	}
	total := new(big.Int).Add(rec.StakeAmount, amount)
	level, err := l.tiers.LevelForAmount(total)
	if err != nil {
		return nil, err
	}
	rec = &Record{
		LastStakeHeight: height,
		StakeAmount:     total,
		StakeLevel:      uint8(level),
	}
	if err := l.records.Set(user, rec); err != nil {
		return nil, errors.Wrap(err, "failed to set stake")
	}
	return rec, nil
}

// Withdraw takes amount off the stake of user. The caller checks amount against the stake.
func (l *Ledger) Withdraw(user ido.Address, amount *big.Int) (*Record, error) {
	rec, err := l.Get(user)
	if err != nil {
		return nil, err
	}
	left := new(big.Int).Sub(rec.StakeAmount, amount)
	if left.Sign() < 0 {
		return nil, errors.New("withdraw exceeds stake")
	}
	level, err := l.tiers.LevelForAmount(left)
	if err != nil {
		return nil, err
	}
	rec = &Record{
		LastStakeHeight: rec.LastStakeHeight,
		StakeAmount:     left,
		StakeLevel:      uint8(level),
	}
	if err := l.records.Set(user, rec); err != nil {
		return nil, errors.Wrap(err, "failed to set stake")
	}
	return rec, nil
}

// Eligible reports whether a stake of the given level, last topped up at
// lastStake, may leave without penalty at height now.
// Platinum and above wait half the span.
func Eligible(level tier.Level, lastStake, now uint32, span uint32) bool {
	var elapsed uint64
	if now > lastStake {
		elapsed = uint64(now - lastStake)
	}
	if level >= tier.Platinum {
		return elapsed*2 >= uint64(span)
	}
	return elapsed >= uint64(span)
}

// Payout returns what a withdrawal of amount pays out.
// Ineligible withdrawals pay out feeBps/10000 of amount, the rest stays in custody.
func Payout(amount *big.Int, eligible bool, feeBps uint64) (*big.Int, error) {
	if eligible {
		return new(big.Int).Set(amount), nil
	}
	return ido.MulDiv(amount, new(big.Int).SetUint64(feeBps), big.NewInt(ido.FeeDenominator))
}
