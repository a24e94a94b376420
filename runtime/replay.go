// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/pkg/errors"

	"github.com/flamingo-finance/IdoContract/builtin/solidity"
	"github.com/flamingo-finance/IdoContract/ido"
	"github.com/flamingo-finance/IdoContract/state"
)

var (
	replayGuardAddr = ido.BytesToAddress([]byte("ReplayGuard"))
	slotExecuted    = ido.BytesToBytes32([]byte("executed"))
)

// replayGuard records the heights signed invocations executed at.
// It lives in contract storage so marks commit atomically with the invocation.
type replayGuard struct {
	executed *solidity.Mapping[ido.Bytes32, uint32]
}

func newReplayGuard(st *state.State) *replayGuard {
	sctx := solidity.NewContext(replayGuardAddr, st)
	return &replayGuard{executed: solidity.NewMapping[ido.Bytes32, uint32](sctx, slotExecuted)}
}

func (g *replayGuard) Seen(hash ido.Bytes32) (bool, error) {
	height, err := g.executed.Get(hash)
	if err != nil {
		return false, errors.Wrap(err, "replay guard")
	}
	// marks store height+1 so genesis height stays distinguishable
	return height > 0, nil
}

func (g *replayGuard) Mark(hash ido.Bytes32, height uint32) error {
	return g.executed.Set(hash, height+1)
}
