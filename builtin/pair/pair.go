// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pair implements the relay contract that escrows the tokens of a
// project and sells them for the spend asset during swaps.
package pair

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/flamingo-finance/IdoContract/builtin/launchpad"
	"github.com/flamingo-finance/IdoContract/builtin/reverts"
	"github.com/flamingo-finance/IdoContract/builtin/solidity"
	"github.com/flamingo-finance/IdoContract/ido"
	"github.com/flamingo-finance/IdoContract/state"
	"github.com/flamingo-finance/IdoContract/xenv"
)

var (
	slotOwner = ido.BytesToBytes32([]byte("owner"))
	slotAsset = ido.BytesToBytes32([]byte("asset"))
	slotToken = ido.BytesToBytes32([]byte("token"))
	slotIdo   = ido.BytesToBytes32([]byte("ido"))
	slotPrice = ido.BytesToBytes32([]byte("price"))
)

// Names of events emitted by a pair.
const (
	EventDelivered         = "Delivered"
	EventOwnershipTransfer = "OwnershipTransferred"
	EventConfigChanged     = "ConfigChanged"
	EventWithdrawn         = "Withdrawn"
)

// Env is the invocation environment seen by a pair.
type Env interface {
	Entry() ido.Address
	IsAuthorizedBy(addr ido.Address) bool
	HasEvent(contract ido.Address, name string) bool
	SetFlag(key ido.Bytes32) bool
	ClearFlag(key ido.Bytes32) bool
	Emit(ev *xenv.Event)
}

// Assets resolves asset handles, transferring on behalf of the pair.
type Assets interface {
	Asset(addr ido.Address) (launchpad.Asset, bool, error)
}

// Pair binder of a relay contract.
type Pair struct {
	addr   ido.Address
	env    Env
	assets Assets

	owner *solidity.Address
	asset *solidity.Address
	token *solidity.Address
	ido   *solidity.Address
	price *solidity.Uint256
}

func New(addr ido.Address, state *state.State, env Env, assets Assets) *Pair {
	sctx := solidity.NewContext(addr, state)
	return &Pair{
		addr:   addr,
		env:    env,
		assets: assets,
		owner:  solidity.NewAddress(sctx, slotOwner),
		asset:  solidity.NewAddress(sctx, slotAsset),
		token:  solidity.NewAddress(sctx, slotToken),
		ido:    solidity.NewAddress(sctx, slotIdo),
		price:  solidity.NewUint256(sctx, slotPrice),
	}
}

// Address returns the pair address.
func (p *Pair) Address() ido.Address {
	return p.addr
}

// Config is the full configuration of a pair.
type Config struct {
	Owner       ido.Address
	SpendAsset  ido.Address
	Token       ido.Address
	IdoContract ido.Address
	Price       *big.Int
}

// Deploy sets the first owner.
func (p *Pair) Deploy(owner ido.Address) error {
	current, err := p.owner.Get()
	if err != nil {
		return err
	}
	if !current.IsZero() {
		return reverts.ErrAlreadyDeployed
	}
	if owner.IsZero() {
		return reverts.ErrInvalidAddress.Withf("zero owner")
	}
	p.owner.Set(&owner)
	return nil
}

// Config returns the pair configuration.
func (p *Pair) Config() (*Config, error) {
	var (
		cfg Config
		err error
	)
	if cfg.Owner, err = p.owner.Get(); err != nil {
		return nil, err
	}
	if cfg.SpendAsset, err = p.asset.Get(); err != nil {
		return nil, err
	}
	if cfg.Token, err = p.token.Get(); err != nil {
		return nil, err
	}
	if cfg.IdoContract, err = p.ido.Get(); err != nil {
		return nil, err
	}
	if cfg.Price, err = p.price.Get(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (p *Pair) requireOwner() (ido.Address, error) {
	owner, err := p.owner.Get()
	if err != nil {
		return ido.Address{}, errors.Wrap(err, "failed to get owner")
	}
	if owner.IsZero() || !p.env.IsAuthorizedBy(owner) {
		return ido.Address{}, reverts.ErrUnauthorized.Withf("owner witness required")
	}
	return owner, nil
}

func (p *Pair) setAddress(slot *solidity.Address, key string, addr ido.Address) error {
	if _, err := p.requireOwner(); err != nil {
		return err
	}
	if addr.IsZero() {
		return reverts.ErrInvalidAddress.Withf("zero %s", key)
	}
	slot.Set(&addr)
	p.env.Emit(&xenv.Event{Address: p.addr, Name: EventConfigChanged, Attrs: map[string]string{"key": key, "value": addr.String()}})
	return nil
}

// SetAssetHash sets the asset the pair is paid in.
func (p *Pair) SetAssetHash(asset ido.Address) error {
	return p.setAddress(p.asset, "asset", asset)
}

// SetTokenHash sets the project token the pair sells.
func (p *Pair) SetTokenHash(token ido.Address) error {
	return p.setAddress(p.token, "token", token)
}

// SetIdoContract sets the launchpad allowed to drive the pair.
func (p *Pair) SetIdoContract(contract ido.Address) error {
	return p.setAddress(p.ido, "ido", contract)
}

// SetPrice sets how much spend asset one token costs, scaled by 10^18.
func (p *Pair) SetPrice(price *big.Int) error {
	if _, err := p.requireOwner(); err != nil {
		return err
	}
	if price == nil || price.Sign() <= 0 {
		return reverts.ErrInvalidAmount.Withf("price %v", price)
	}
	if err := p.price.Set(price); err != nil {
		return reverts.ErrInvalidAmount.Withf("price %v", price)
	}
	p.env.Emit(&xenv.Event{Address: p.addr, Name: EventConfigChanged, Amount: new(big.Int).Set(price), Attrs: map[string]string{"key": "price"}})
	return nil
}

// TransferOwnership hands the pair over to newOwner.
func (p *Pair) TransferOwnership(newOwner ido.Address) error {
	if _, err := p.requireOwner(); err != nil {
		return err
	}
	if newOwner.IsZero() {
		return reverts.ErrInvalidAddress.Withf("zero owner")
	}
	p.owner.Set(&newOwner)
	p.env.Emit(&xenv.Event{Address: p.addr, Name: EventOwnershipTransfer, Account: &newOwner})
	return nil
}

func (p *Pair) flagKey(name string) ido.Bytes32 {
	return ido.Blake2b(p.addr.Bytes(), []byte(name))
}

func (p *Pair) raise(caller ido.Address, name string) error {
	contract, err := p.ido.Get()
	if err != nil {
		return err
	}
	if contract.IsZero() || caller != contract {
		return reverts.ErrUnauthorized.Withf("caller %v is not the ido contract", caller)
	}
	if !p.env.SetFlag(p.flagKey(name)) {
		return reverts.ErrFlagRaised.Withf("%s", name)
	}
	return nil
}

// SetReceiveOnProjectRegister lets the next token deposit of the invocation in.
func (p *Pair) SetReceiveOnProjectRegister(caller ido.Address) error {
	return p.raise(caller, "register")
}

// SetReceiveOnSwap lets the next spend payment of the invocation be served.
func (p *Pair) SetReceiveOnSwap(caller ido.Address) error {
	return p.raise(caller, "swap")
}

// OnPayment is called by asset after it credited amount sent by from to the pair.
func (p *Pair) OnPayment(asset, from ido.Address, amount *big.Int) error {
	cfg, err := p.Config()
	if err != nil {
		return err
	}
	switch {
	case !cfg.SpendAsset.IsZero() && asset == cfg.SpendAsset && p.env.ClearFlag(p.flagKey("swap")):
		p.env.ClearFlag(p.flagKey("register"))
		if p.env.Entry() != cfg.IdoContract || !p.env.HasEvent(cfg.IdoContract, launchpad.EventSwap) {
			return reverts.ErrUnauthorized.Withf("payment outside an ido swap")
		}
		return p.deliver(cfg, from, amount)
	case !cfg.Token.IsZero() && asset == cfg.Token && (p.env.ClearFlag(p.flagKey("register")) || from == cfg.Owner):
		p.env.ClearFlag(p.flagKey("swap"))
		return nil
	}
	return reverts.ErrBadAsset.Withf("asset %v not accepted", asset)
}

// deliver sends the tokens bought with received back to payer.
func (p *Pair) deliver(cfg *Config, payer ido.Address, received *big.Int) error {
	if cfg.Price.Sign() <= 0 {
		return reverts.ErrConfigurationMissing.Withf("price not set")
	}
	out, err := ido.MulDiv(received, ido.PriceDenominator, cfg.Price)
	if err != nil {
		return err
	}
	token, ok, err := p.assets.Asset(cfg.Token)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.ErrBadContractRef.Withf("token %v", cfg.Token)
	}
	if ok, err := token.Transfer(p.addr, payer, out); err != nil {
		return err
	} else if !ok {
		return reverts.ErrTransferFailed.Withf("deliver %v tokens", out)
	}
	p.env.Emit(&xenv.Event{Address: p.addr, Name: EventDelivered, Account: &payer, Amount: out})
	return nil
}

// WithdrawAsset sends amount of the collected spend asset to the owner.
func (p *Pair) WithdrawAsset(amount *big.Int) error {
	return p.withdraw(p.asset, amount)
}

// WithdrawToken sends amount of unsold tokens to the owner.
func (p *Pair) WithdrawToken(amount *big.Int) error {
	return p.withdraw(p.token, amount)
}

func (p *Pair) withdraw(slot *solidity.Address, amount *big.Int) error {
	owner, err := p.requireOwner()
	if err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		return reverts.ErrInvalidAmount.Withf("withdraw %v", amount)
	}
	addr, err := slot.Get()
	if err != nil {
		return err
	}
	if addr.IsZero() {
		return reverts.ErrConfigurationMissing.Withf("asset not set")
	}
	asset, ok, err := p.assets.Asset(addr)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.ErrBadContractRef.Withf("asset %v", addr)
	}
	if ok, err := asset.Transfer(p.addr, owner, amount); err != nil {
		return err
	} else if !ok {
		return reverts.ErrTransferFailed.Withf("withdraw %v of %v", amount, addr)
	}
	p.env.Emit(&xenv.Event{Address: p.addr, Name: EventWithdrawn, Account: &owner, Amount: new(big.Int).Set(amount), Attrs: map[string]string{"asset": addr.String()}})
	return nil
}
