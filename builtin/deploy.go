// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/flamingo-finance/IdoContract/builtin/asset"
	"github.com/flamingo-finance/IdoContract/builtin/registry"
	"github.com/flamingo-finance/IdoContract/ido"
)

// DeployAsset creates an asset named symbol under deployer.
func (c *Contracts) DeployAsset(deployer ido.Address, meta *asset.Meta) (ido.Address, error) {
	addr := ido.CreateContractAddress(deployer, meta.Symbol)
	if err := c.registry.Register(addr, registry.KindAsset); err != nil {
		return ido.Address{}, err
	}
	if err := asset.New(addr, c.state).Initialize(meta); err != nil {
		return ido.Address{}, err
	}
	return addr, nil
}

// Mint credits amount of asset to holder. Only genesis and tests mint.
func (c *Contracts) Mint(assetAddr, holder ido.Address, amount *big.Int) error {
	a, err := c.Asset(assetAddr)
	if err != nil {
		return err
	}
	return a.Mint(holder, amount)
}

// DeployLaunchpad registers the launchpad at its well-known address and sets its admin.
func (c *Contracts) DeployLaunchpad(admin ido.Address) (ido.Address, error) {
	if err := c.registry.Register(Launchpad, registry.KindLaunchpad); err != nil {
		return ido.Address{}, err
	}
	lp, err := c.Launchpad(Launchpad)
	if err != nil {
		return ido.Address{}, err
	}
	return Launchpad, lp.Deploy(admin)
}

// DeployPair creates a pair named name owned by owner.
func (c *Contracts) DeployPair(owner ido.Address, name string) (ido.Address, error) {
	addr := ido.CreateContractAddress(owner, name)
	if err := c.registry.Register(addr, registry.KindPair); err != nil {
		return ido.Address{}, err
	}
	p, err := c.Pair(addr)
	if err != nil {
		return ido.Address{}, err
	}
	return addr, p.Deploy(owner)
}
