// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package builtin wires the native contracts together for a single invocation.
package builtin

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/flamingo-finance/IdoContract/builtin/asset"
	"github.com/flamingo-finance/IdoContract/builtin/launchpad"
	"github.com/flamingo-finance/IdoContract/builtin/pair"
	"github.com/flamingo-finance/IdoContract/builtin/registry"
	"github.com/flamingo-finance/IdoContract/ido"
	"github.com/flamingo-finance/IdoContract/state"
	"github.com/flamingo-finance/IdoContract/xenv"
)

// Well-known contract addresses.
var (
	Registry  = ido.BytesToAddress([]byte("Registry"))
	Launchpad = ido.BytesToAddress([]byte("Launchpad"))
)

// EventTransfer is emitted by an asset on every successful transfer.
const EventTransfer = "Transfer"

// Contracts binds every deployed contract to the state and environment of one invocation.
// Launchpads and pairs are cached, so a callback re-entering a contract sees
// the same instance as the outer call.
type Contracts struct {
	state    *state.State
	env      *xenv.Environment
	registry *registry.Registry

	launchpads map[ido.Address]*launchpad.Launchpad
	pairs      map[ido.Address]*pair.Pair
}

// New creates the contracts view of an invocation.
func New(state *state.State, env *xenv.Environment) *Contracts {
	return &Contracts{
		state:      state,
		env:        env,
		registry:   registry.New(Registry, state),
		launchpads: make(map[ido.Address]*launchpad.Launchpad),
		pairs:      make(map[ido.Address]*pair.Pair),
	}
}

// State returns the invocation state.
func (c *Contracts) State() *state.State { return c.state }

// Env returns the invocation environment.
func (c *Contracts) Env() *xenv.Environment { return c.env }

// Registry returns the contract registry.
func (c *Contracts) Registry() *registry.Registry { return c.registry }

// KindOf returns the kind of the contract at addr.
func (c *Contracts) KindOf(addr ido.Address) (registry.Kind, error) {
	return c.registry.KindOf(addr)
}

func (c *Contracts) expect(addr ido.Address, kind registry.Kind) error {
	got, err := c.registry.KindOf(addr)
	if err != nil {
		return err
	}
	if got != kind {
		return errors.Errorf("%v is a %v, not a %v", addr, got, kind)
	}
	return nil
}

// Launchpad returns the launchpad at addr.
func (c *Contracts) Launchpad(addr ido.Address) (*launchpad.Launchpad, error) {
	if lp, ok := c.launchpads[addr]; ok {
		return lp, nil
	}
	if err := c.expect(addr, registry.KindLaunchpad); err != nil {
		return nil, err
	}
	lp := launchpad.New(addr, c.state, c.env, c.As(addr))
	c.launchpads[addr] = lp
	return lp, nil
}

// Pair returns the pair at addr.
func (c *Contracts) Pair(addr ido.Address) (*pair.Pair, error) {
	if p, ok := c.pairs[addr]; ok {
		return p, nil
	}
	if err := c.expect(addr, registry.KindPair); err != nil {
		return nil, err
	}
	p := pair.New(addr, c.state, c.env, c.As(addr))
	c.pairs[addr] = p
	return p, nil
}

// Asset returns the raw ledger of the asset at addr.
func (c *Contracts) Asset(addr ido.Address) (*asset.Asset, error) {
	if err := c.expect(addr, registry.KindAsset); err != nil {
		return nil, err
	}
	return asset.New(addr, c.state), nil
}

// Transfer moves amount of assetAddr from one holder to another on behalf of caller.
// The move is allowed when caller owns the funds or from witnessed the invocation.
// Contracts receiving funds are notified and may reject the payment.
func (c *Contracts) Transfer(caller, assetAddr, from, to ido.Address, amount *big.Int) (bool, error) {
	if amount == nil || amount.Sign() < 0 || to.IsZero() {
		return false, nil
	}
	if from != caller && !c.env.IsAuthorizedBy(from) {
		return false, nil
	}
	a, err := c.Asset(assetAddr)
	if err != nil {
		return false, err
	}
	ok, err := a.Move(from, to, amount)
	if err != nil || !ok {
		return false, err
	}
	c.env.Emit(&xenv.Event{
		Address: assetAddr,
		Name:    EventTransfer,
		Account: &from,
		Amount:  new(big.Int).Set(amount),
		Attrs:   map[string]string{"to": to.String()},
	})

	kind, err := c.registry.KindOf(to)
	if err != nil {
		return false, err
	}
	switch kind {
	case registry.KindLaunchpad:
		lp, err := c.Launchpad(to)
		if err != nil {
			return false, err
		}
		if err := lp.OnPayment(assetAddr, from, amount); err != nil {
			return false, err
		}
	case registry.KindPair:
		p, err := c.Pair(to)
		if err != nil {
			return false, err
		}
		if err := p.OnPayment(assetAddr, from, amount); err != nil {
			return false, err
		}
	}
	return true, nil
}

// As returns the view of the contracts from inside the contract caller.
func (c *Contracts) As(caller ido.Address) *Caller {
	return &Caller{contracts: c, caller: caller}
}

// Caller resolves contract handles for a calling contract.
type Caller struct {
	contracts *Contracts
	caller    ido.Address
}

// Asset implements launchpad.Resolver and pair.Assets.
func (c *Caller) Asset(addr ido.Address) (launchpad.Asset, bool, error) {
	kind, err := c.contracts.KindOf(addr)
	if err != nil {
		return nil, false, err
	}
	if kind != registry.KindAsset {
		return nil, false, nil
	}
	return &boundAsset{c.contracts, c.caller, addr}, true, nil
}

// Relay implements launchpad.Resolver.
func (c *Caller) Relay(addr ido.Address) (launchpad.Relay, bool, error) {
	kind, err := c.contracts.KindOf(addr)
	if err != nil {
		return nil, false, err
	}
	if kind != registry.KindPair {
		return nil, false, nil
	}
	p, err := c.contracts.Pair(addr)
	if err != nil {
		return nil, false, err
	}
	return &boundRelay{p, c.caller}, true, nil
}

type boundAsset struct {
	contracts *Contracts
	caller    ido.Address
	addr      ido.Address
}

func (a *boundAsset) Transfer(from, to ido.Address, amount *big.Int) (bool, error) {
	return a.contracts.Transfer(a.caller, a.addr, from, to, amount)
}

func (a *boundAsset) BalanceOf(holder ido.Address) (*big.Int, error) {
	return asset.New(a.addr, a.contracts.state).BalanceOf(holder)
}

type boundRelay struct {
	pair   *pair.Pair
	caller ido.Address
}

func (r *boundRelay) SetReceiveOnProjectRegister() error {
	return r.pair.SetReceiveOnProjectRegister(r.caller)
}

func (r *boundRelay) SetReceiveOnSwap() error {
	return r.pair.SetReceiveOnSwap(r.caller)
}
