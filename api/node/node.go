// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/flamingo-finance/IdoContract/api/utils"
	"github.com/flamingo-finance/IdoContract/ido"
	"github.com/flamingo-finance/IdoContract/runtime"
)

type Status struct {
	GenesisID ido.Bytes32 `json:"genesisId"`
	Height    uint32      `json:"height"`
	DevMode   bool        `json:"devMode"`
}

type Node struct {
	rt        *runtime.Runtime
	genesisID ido.Bytes32
	// set in dev mode only
	clock *runtime.ManualClock
}

func New(rt *runtime.Runtime, genesisID ido.Bytes32, clock *runtime.ManualClock) *Node {
	return &Node{rt, genesisID, clock}
}

func (n *Node) handleGetStatus(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, &Status{
		GenesisID: n.genesisID,
		Height:    n.rt.Height(),
		DevMode:   n.clock != nil,
	})
}

func (n *Node) handleAdvance(w http.ResponseWriter, req *http.Request) error {
	if n.clock == nil {
		return utils.Forbidden(errors.New("clock is driven by the block interval"))
	}
	var body struct {
		Blocks uint32 `json:"blocks"`
	}
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Blocks == 0 {
		return utils.BadRequest(errors.New("blocks: must be positive"))
	}
	n.clock.Advance(body.Blocks)
	return utils.WriteJSON(w, utils.M{"height": n.rt.Height()})
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/status").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(n.handleGetStatus))
	sub.Path("/advance").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(n.handleAdvance))
}
