// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis describes and builds the initial state of a launchpad instance.
package genesis

import (
	"math/big"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/flamingo-finance/IdoContract/builtin"
	"github.com/flamingo-finance/IdoContract/builtin/asset"
	"github.com/flamingo-finance/IdoContract/builtin/registry"
	"github.com/flamingo-finance/IdoContract/ido"
	"github.com/flamingo-finance/IdoContract/state"
	"github.com/flamingo-finance/IdoContract/xenv"
)

// Amount is a token amount written as a decimal or 0x-prefixed hex scalar.
type Amount big.Int

func NewAmount(v int64) *Amount {
	return (*Amount)(big.NewInt(v))
}

func (a *Amount) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: amount must be a scalar", value.Line)
	}
	v, ok := math.ParseBig256(value.Value)
	if !ok {
		return errors.Errorf("line %d: invalid amount %q", value.Line, value.Value)
	}
	*a = Amount(*v)
	return nil
}

func (a *Amount) MarshalYAML() (any, error) {
	return a.Int().String(), nil
}

func (a *Amount) Int() *big.Int {
	if a == nil {
		return new(big.Int)
	}
	return (*big.Int)(a)
}

// Balance is an initial holding.
type Balance struct {
	Address ido.Address `yaml:"address"`
	Amount  *Amount     `yaml:"amount"`
}

type Asset struct {
	Symbol   string      `yaml:"symbol"`
	Decimals uint8       `yaml:"decimals"`
	Deployer ido.Address `yaml:"deployer"`
	Balances []Balance   `yaml:"balances,omitempty"`
}

// Pair configures a relay pair. SpendAsset and Token name assets by symbol.
type Pair struct {
	Name       string      `yaml:"name"`
	Owner      ido.Address `yaml:"owner"`
	SpendAsset string      `yaml:"spendAsset"`
	Token      string      `yaml:"token"`
	Price      *Amount     `yaml:"price"`
	Fund       *Amount     `yaml:"fund,omitempty"`
}

// Genesis is the initial configuration of an instance.
type Genesis struct {
	LaunchTime    uint64            `yaml:"launchTime"`
	BlockInterval uint64            `yaml:"blockInterval"`
	Admin         ido.Address       `yaml:"admin"`
	Assets        []Asset           `yaml:"assets"`
	StakeAsset    string            `yaml:"stakeAsset"`
	SpendAsset    string            `yaml:"spendAsset"`
	Pairs         []Pair            `yaml:"pairs,omitempty"`
	Thresholds    []*Amount         `yaml:"thresholds,omitempty"`
	Weights       []uint64          `yaml:"weights,omitempty"`
	Params        map[string]uint64 `yaml:"params,omitempty"`
}

// Result lists the contracts a genesis deployed.
type Result struct {
	Launchpad ido.Address
	Assets    map[string]ido.Address
	Pairs     map[string]ido.Address
}

// Load reads a genesis file.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	return Parse(data)
}

// Parse decodes and validates a YAML genesis document.
func Parse(data []byte) (*Genesis, error) {
	var gen Genesis
	if err := yaml.Unmarshal(data, &gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	return &gen, nil
}

// Validate checks references between sections.
func (g *Genesis) Validate() error {
	if g.Admin.IsZero() {
		return errors.New("admin required")
	}
	if g.BlockInterval == 0 {
		return errors.New("block interval must be positive")
	}
	symbols := make(map[string]bool, len(g.Assets))
	for _, a := range g.Assets {
		if a.Symbol == "" {
			return errors.New("asset symbol required")
		}
		if a.Deployer.IsZero() {
			return errors.Errorf("asset %s: deployer required", a.Symbol)
		}
		if symbols[a.Symbol] {
			return errors.Errorf("asset %s declared twice", a.Symbol)
		}
		symbols[a.Symbol] = true
	}
	for _, sym := range []string{g.StakeAsset, g.SpendAsset} {
		if sym != "" && !symbols[sym] {
			return errors.Errorf("unknown asset %q", sym)
		}
	}
	names := make(map[string]bool, len(g.Pairs))
	for _, p := range g.Pairs {
		if p.Name == "" || p.Owner.IsZero() {
			return errors.New("pair name and owner required")
		}
		if names[p.Name] {
			return errors.Errorf("pair %s declared twice", p.Name)
		}
		names[p.Name] = true
		if !symbols[p.SpendAsset] || !symbols[p.Token] {
			return errors.Errorf("pair %s: unknown asset", p.Name)
		}
		if p.Price.Int().Sign() <= 0 {
			return errors.Errorf("pair %s: price must be positive", p.Name)
		}
	}
	return nil
}

// ID identifies the instance built from g.
func (g *Genesis) ID() ido.Bytes32 {
	data, err := yaml.Marshal(g)
	if err != nil {
		panic(err)
	}
	return ido.Blake2b(data)
}

// Interval returns the block interval.
func (g *Genesis) Interval() time.Duration {
	return time.Duration(g.BlockInterval) * time.Second
}

// Addresses computes the deployed contract addresses without touching state.
func (g *Genesis) Addresses() *Result {
	res := &Result{
		Launchpad: builtin.Launchpad,
		Assets:    make(map[string]ido.Address, len(g.Assets)),
		Pairs:     make(map[string]ido.Address, len(g.Pairs)),
	}
	for _, a := range g.Assets {
		res.Assets[a.Symbol] = ido.CreateContractAddress(a.Deployer, a.Symbol)
	}
	for _, p := range g.Pairs {
		res.Pairs[p.Name] = ido.CreateContractAddress(p.Owner, p.Name)
	}
	return res
}

func (g *Genesis) witnesses() []ido.Address {
	ws := []ido.Address{g.Admin}
	for _, p := range g.Pairs {
		ws = append(ws, p.Owner)
	}
	return ws
}

// Build applies the genesis onto committed storage.
// An instance already built is left untouched and no events are returned.
func (g *Genesis) Build(stater *state.Stater) (*Result, []*xenv.Event, error) {
	st := stater.NewState()
	env := xenv.New(&xenv.InvocationContext{
		ID:        g.ID(),
		Witnesses: g.witnesses(),
	})
	contracts := builtin.New(st, env)

	kind, err := contracts.KindOf(builtin.Launchpad)
	if err != nil {
		return nil, nil, err
	}
	if kind != registry.KindNone {
		return g.Addresses(), nil, nil
	}

	res, err := g.apply(contracts)
	if err != nil {
		return nil, nil, err
	}
	if err := stater.Stage(st).Commit(); err != nil {
		return nil, nil, err
	}
	return res, env.Events(), nil
}

func (g *Genesis) apply(cs *builtin.Contracts) (*Result, error) {
	res := g.Addresses()

	for _, a := range g.Assets {
		addr, err := cs.DeployAsset(a.Deployer, &asset.Meta{Symbol: a.Symbol, Decimals: a.Decimals})
		if err != nil {
			return nil, errors.Wrapf(err, "deploy asset %s", a.Symbol)
		}
		for _, b := range a.Balances {
			if err := cs.Mint(addr, b.Address, b.Amount.Int()); err != nil {
				return nil, errors.Wrapf(err, "mint %s", a.Symbol)
			}
		}
	}

	if _, err := cs.DeployLaunchpad(g.Admin); err != nil {
		return nil, errors.Wrap(err, "deploy launchpad")
	}
	lp, err := cs.Launchpad(builtin.Launchpad)
	if err != nil {
		return nil, err
	}
	if g.StakeAsset != "" {
		if err := lp.SetStakeAsset(res.Assets[g.StakeAsset]); err != nil {
			return nil, errors.Wrap(err, "stake asset")
		}
	}
	if g.SpendAsset != "" {
		if err := lp.SetSpendAsset(res.Assets[g.SpendAsset]); err != nil {
			return nil, errors.Wrap(err, "spend asset")
		}
	}
	if len(g.Thresholds) > 0 {
		amounts := make([]*big.Int, len(g.Thresholds))
		for i, t := range g.Thresholds {
			amounts[i] = t.Int()
		}
		if err := lp.SetThresholds(amounts); err != nil {
			return nil, errors.Wrap(err, "thresholds")
		}
	}
	if len(g.Weights) > 0 {
		if err := lp.SetWeightScheme(g.Weights); err != nil {
			return nil, errors.Wrap(err, "weights")
		}
	}
	for name, value := range g.Params {
		if err := lp.SetParam(name, value); err != nil {
			return nil, errors.Wrapf(err, "param %s", name)
		}
	}

	for _, p := range g.Pairs {
		addr, err := cs.DeployPair(p.Owner, p.Name)
		if err != nil {
			return nil, errors.Wrapf(err, "deploy pair %s", p.Name)
		}
		pair, err := cs.Pair(addr)
		if err != nil {
			return nil, err
		}
		if err := pair.SetAssetHash(res.Assets[p.SpendAsset]); err != nil {
			return nil, errors.Wrapf(err, "pair %s", p.Name)
		}
		if err := pair.SetTokenHash(res.Assets[p.Token]); err != nil {
			return nil, errors.Wrapf(err, "pair %s", p.Name)
		}
		if err := pair.SetIdoContract(builtin.Launchpad); err != nil {
			return nil, errors.Wrapf(err, "pair %s", p.Name)
		}
		if err := pair.SetPrice(p.Price.Int()); err != nil {
			return nil, errors.Wrapf(err, "pair %s", p.Name)
		}
		if p.Fund != nil {
			if err := cs.Mint(res.Assets[p.Token], addr, p.Fund.Int()); err != nil {
				return nil, errors.Wrapf(err, "fund pair %s", p.Name)
			}
		}
	}
	return res, nil
}
