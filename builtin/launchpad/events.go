// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package launchpad

import (
	"math/big"

	"github.com/flamingo-finance/IdoContract/ido"
	"github.com/flamingo-finance/IdoContract/xenv"
)

// Names of events emitted by the launchpad.
const (
	EventDeployed          = "Deployed"
	EventAdminChanged      = "AdminChanged"
	EventParamChanged      = "ParamChanged"
	EventStakeDeposited    = "StakeDeposited"
	EventUnstaked          = "Unstaked"
	EventProjectRegistered = "ProjectRegistered"
	EventProjectReviewed   = "ProjectReviewed"
	EventProjectEnded      = "ProjectEnded"
	EventVoted             = "Voted"
	EventSwap              = "Swap"
	EventClaimed           = "Claimed"
)

func (l *Launchpad) emit(name string, account, project *ido.Address, amount *big.Int, attrs map[string]string) {
	ev := &xenv.Event{
		Address: l.addr,
		Name:    name,
		Attrs:   attrs,
	}
	if account != nil {
		a := *account
		ev.Account = &a
	}
	if project != nil {
		p := *project
		ev.Project = &p
	}
	if amount != nil {
		ev.Amount = new(big.Int).Set(amount)
	}
	l.env.Emit(ev)
}
