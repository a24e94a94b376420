// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"github.com/flamingo-finance/IdoContract/builtin"
	"github.com/flamingo-finance/IdoContract/eventdb"
	"github.com/flamingo-finance/IdoContract/ido"
)

type Range struct {
	From uint32 `json:"from"`
	To   uint32 `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type Filter struct {
	Address    *ido.Address  `json:"address"`
	Name       string        `json:"name"`
	Account    *ido.Address  `json:"account"`
	Project    *ido.Address  `json:"project"`
	Invocation *ido.Bytes32  `json:"invocation"`
	Range      *Range        `json:"range"`
	Order      eventdb.Order `json:"order"`
	Options    *Options      `json:"options"`
}

// Event is the JSON form of a journaled event.
type Event struct {
	Seq        uint64            `json:"seq"`
	Invocation ido.Bytes32       `json:"invocation"`
	Index      uint32            `json:"index"`
	Height     uint32            `json:"height"`
	Address    ido.Address       `json:"address"`
	Name       string            `json:"name"`
	Account    *ido.Address      `json:"account,omitempty"`
	Project    *ido.Address      `json:"project,omitempty"`
	Amount     *builtin.Amount   `json:"amount,omitempty"`
	Attrs      map[string]string `json:"attrs,omitempty"`
}

func convertFilter(f *Filter, limit uint64) *eventdb.Filter {
	out := &eventdb.Filter{
		Address:      f.Address,
		Name:         f.Name,
		Account:      f.Account,
		Project:      f.Project,
		InvocationID: f.Invocation,
		Order:        f.Order,
		Options:      &eventdb.Options{Limit: limit},
	}
	if f.Range != nil {
		out.Range = &eventdb.Range{From: f.Range.From, To: f.Range.To}
	}
	if f.Options != nil {
		out.Options.Offset = f.Options.Offset
		if f.Options.Limit > 0 {
			out.Options.Limit = f.Options.Limit
		}
	}
	return out
}

func convertEvent(ev *eventdb.Event) *Event {
	return &Event{
		Seq:        ev.Seq,
		Invocation: ev.InvocationID,
		Index:      ev.Index,
		Height:     ev.Height,
		Address:    ev.Address,
		Name:       ev.Name,
		Account:    ev.Account,
		Project:    ev.Project,
		Amount:     (*builtin.Amount)(ev.Amount),
		Attrs:      ev.Attrs,
	}
}
