// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/flamingo-finance/IdoContract/api/utils"
	"github.com/flamingo-finance/IdoContract/eventdb"
)

type Events struct {
	db    *eventdb.EventDB
	limit uint64
}

func New(db *eventdb.EventDB, limit uint64) *Events {
	return &Events{db, limit}
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter Filter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	switch filter.Order {
	case "", eventdb.ASC, eventdb.DESC:
	default:
		return utils.BadRequest(fmt.Errorf("order: unknown %q", filter.Order))
	}
	if filter.Options != nil && filter.Options.Limit > e.limit {
		return utils.Forbidden(fmt.Errorf("options.limit exceeds the maximum allowed value of %d", e.limit))
	}

	evs, err := e.db.Filter(req.Context(), convertFilter(&filter, e.limit))
	if err != nil {
		return err
	}
	out := make([]*Event, 0, len(evs))
	for _, ev := range evs {
		out = append(out, convertEvent(ev))
	}
	return utils.WriteJSON(w, out)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
