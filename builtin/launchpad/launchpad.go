// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package launchpad

import (
	"math/big"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"

	"github.com/flamingo-finance/IdoContract/builtin/launchpad/allocation"
	"github.com/flamingo-finance/IdoContract/builtin/launchpad/project"
	"github.com/flamingo-finance/IdoContract/builtin/launchpad/stake"
	"github.com/flamingo-finance/IdoContract/builtin/launchpad/tier"
	"github.com/flamingo-finance/IdoContract/builtin/params"
	"github.com/flamingo-finance/IdoContract/builtin/reverts"
	"github.com/flamingo-finance/IdoContract/builtin/solidity"
	"github.com/flamingo-finance/IdoContract/ido"
	"github.com/flamingo-finance/IdoContract/state"
	"github.com/flamingo-finance/IdoContract/xenv"
)

var logger = log.New("pkg", "launchpad")

var (
	slotStakeAsset = ido.BytesToBytes32([]byte{0x01, 0x02})
	slotSpendAsset = ido.BytesToBytes32([]byte{0x01, 0x03})
	slotAdmin      = ido.BytesToBytes32([]byte{0x05, 0x01})
)

// Asset is a fungible asset as seen from the launchpad.
type Asset interface {
	Transfer(from, to ido.Address, amount *big.Int) (bool, error)
	BalanceOf(holder ido.Address) (*big.Int, error)
}

// Relay is the pair contract escrowing the tokens of a project.
type Relay interface {
	SetReceiveOnProjectRegister() error
	SetReceiveOnSwap() error
}

// Resolver resolves contract handles. Unknown handles resolve to false.
type Resolver interface {
	Asset(addr ido.Address) (Asset, bool, error)
	Relay(addr ido.Address) (Relay, bool, error)
}

// Env is the invocation environment.
type Env interface {
	CurrentHeight() uint32
	IsAuthorizedBy(addr ido.Address) bool
	Emit(ev *xenv.Event)
}

// Launchpad implements the IDO contract.
type Launchpad struct {
	addr      ido.Address
	env       Env
	contracts Resolver

	admin       *solidity.Address
	stakeAsset  *solidity.Address
	spendAsset  *solidity.Address
	params      *params.Params
	tiers       *tier.Table
	stakes      *stake.Ledger
	projects    *project.Registry
	allocations *allocation.Ledger

	// payment the launchpad waits for while a swap transfers assets around
	expect *expectation
}

// New binds the launchpad at addr to state for a single invocation.
func New(addr ido.Address, state *state.State, env Env, contracts Resolver) *Launchpad {
	sctx := solidity.NewContext(addr, state)
	tiers := tier.New(sctx)
	return &Launchpad{
		addr:        addr,
		env:         env,
		contracts:   contracts,
		admin:       solidity.NewAddress(sctx, slotAdmin),
		stakeAsset:  solidity.NewAddress(sctx, slotStakeAsset),
		spendAsset:  solidity.NewAddress(sctx, slotSpendAsset),
		params:      params.New(sctx),
		tiers:       tiers,
		stakes:      stake.New(sctx, tiers),
		projects:    project.New(sctx),
		allocations: allocation.New(sctx),
	}
}

// Address returns the launchpad address.
func (l *Launchpad) Address() ido.Address {
	return l.addr
}

// Deploy sets the first admin. It can run once.
func (l *Launchpad) Deploy(admin ido.Address) error {
	current, err := l.admin.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get admin")
	}
	if !current.IsZero() {
		return reverts.ErrAlreadyDeployed
	}
	if admin.IsZero() {
		return reverts.ErrInvalidAddress.Withf("zero admin")
	}
	l.admin.Set(&admin)
	l.emit(EventDeployed, &admin, nil, nil, nil)
	logger.Debug("launchpad deployed", "address", l.addr, "admin", admin)
	return nil
}

//
// Admin operations
//

func (l *Launchpad) requireAdmin() error {
	admin, err := l.Admin()
	if err != nil {
		return err
	}
	if admin.IsZero() {
		return reverts.ErrConfigurationMissing.Withf("admin not set")
	}
	if !l.env.IsAuthorizedBy(admin) {
		return reverts.ErrUnauthorized.Withf("admin witness required")
	}
	return nil
}

// SetAdmin hands the launchpad over to a new admin.
func (l *Launchpad) SetAdmin(newAdmin ido.Address) error {
	if err := l.requireAdmin(); err != nil {
		return err
	}
	if newAdmin.IsZero() {
		return reverts.ErrInvalidAddress.Withf("zero admin")
	}
	l.admin.Set(&newAdmin)
	l.emit(EventAdminChanged, &newAdmin, nil, nil, nil)
	return nil
}

// SetStakeAsset sets the asset accepted for staking.
func (l *Launchpad) SetStakeAsset(asset ido.Address) error {
	return l.setAsset(l.stakeAsset, "stake-asset", asset)
}

// SetSpendAsset sets the asset paid for project tokens.
func (l *Launchpad) SetSpendAsset(asset ido.Address) error {
	return l.setAsset(l.spendAsset, "spend-asset", asset)
}

func (l *Launchpad) setAsset(slot *solidity.Address, name string, asset ido.Address) error {
	if err := l.requireAdmin(); err != nil {
		return err
	}
	if _, ok, err := l.contracts.Asset(asset); err != nil {
		return err
	} else if !ok {
		return reverts.ErrBadContractRef.Withf("%v is not an asset", asset)
	}
	slot.Set(&asset)
	l.emit(EventParamChanged, nil, nil, nil, map[string]string{"key": name, "value": asset.String()})
	return nil
}

// SetParam sets a global parameter by name.
func (l *Launchpad) SetParam(name string, value uint64) error {
	if err := l.requireAdmin(); err != nil {
		return err
	}
	v, ok := params.Lookup(name)
	if !ok {
		return reverts.ErrInvalidParam.Withf("unknown param %q", name)
	}
	if err := l.params.Set(v, value); err != nil {
		return err
	}
	l.emit(EventParamChanged, nil, nil, new(big.Int).SetUint64(value), map[string]string{"key": name})
	return nil
}

// SetThresholds replaces the six level thresholds, bronze first.
func (l *Launchpad) SetThresholds(amounts []*big.Int) error {
	if err := l.requireAdmin(); err != nil {
		return err
	}
	if err := l.tiers.SetThresholds(amounts); err != nil {
		return err
	}
	l.emit(EventParamChanged, nil, nil, nil, map[string]string{"key": "thresholds"})
	return nil
}

// SetWeightScheme replaces the six level weights, bronze first.
func (l *Launchpad) SetWeightScheme(weights []uint64) error {
	if err := l.requireAdmin(); err != nil {
		return err
	}
	if err := l.tiers.SetWeights(weights); err != nil {
		return err
	}
	l.emit(EventParamChanged, nil, nil, nil, map[string]string{"key": "weights"})
	return nil
}

//
// Getters - no state change
//

// Admin returns the current admin, zero before deployment.
func (l *Launchpad) Admin() (ido.Address, error) {
	admin, err := l.admin.Get()
	if err != nil {
		return ido.Address{}, errors.Wrap(err, "failed to get admin")
	}
	return admin, nil
}

// StakeAsset returns the staking asset, zero when unset.
func (l *Launchpad) StakeAsset() (ido.Address, error) {
	return l.stakeAsset.Get()
}

// SpendAsset returns the payment asset, zero when unset.
func (l *Launchpad) SpendAsset() (ido.Address, error) {
	return l.spendAsset.Get()
}

// Params returns the parameter binder.
func (l *Launchpad) Params() *params.Params {
	return l.params
}

// Tiers returns the tier table binder.
func (l *Launchpad) Tiers() *tier.Table {
	return l.tiers
}

func (l *Launchpad) resolveAsset(slot *solidity.Address, name string) (ido.Address, Asset, error) {
	addr, err := slot.Get()
	if err != nil {
		return ido.Address{}, nil, errors.Wrapf(err, "failed to get %s", name)
	}
	if addr.IsZero() {
		return ido.Address{}, nil, reverts.ErrConfigurationMissing.Withf("%s not set", name)
	}
	asset, ok, err := l.contracts.Asset(addr)
	if err != nil {
		return ido.Address{}, nil, err
	}
	if !ok {
		return ido.Address{}, nil, reverts.ErrBadContractRef.Withf("%s %v", name, addr)
	}
	return addr, asset, nil
}

func (l *Launchpad) requireWitness(user ido.Address) error {
	if user.IsZero() {
		return reverts.ErrInvalidAddress.Withf("zero user")
	}
	if !l.env.IsAuthorizedBy(user) {
		return reverts.ErrUnauthorized.Withf("witness of %v required", user)
	}
	return nil
}
