// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/ethereum/go-ethereum/log"

	"github.com/flamingo-finance/IdoContract/ido"
)

// setBit marks a slot as explicitly set, so a stored zero is told apart from an empty slot.
var setBit = new(big.Int).Lsh(big.NewInt(1), 64)

// ConfigVariable is a numeric setting with a built-in default that can be overridden from storage.
type ConfigVariable struct {
	slot         ido.Bytes32
	name         string
	defaultValue uint64
}

func NewConfigVariable(name string, slot ido.Bytes32, defaultValue uint64) *ConfigVariable {
	return &ConfigVariable{
		slot:         slot,
		name:         name,
		defaultValue: defaultValue,
	}
}

func (c *ConfigVariable) Name() string {
	return c.name
}

func (c *ConfigVariable) Slot() ido.Bytes32 {
	return c.slot
}

func (c *ConfigVariable) Default() uint64 {
	return c.defaultValue
}

// Get returns the stored value, or the default when the slot is unset.
func (c *ConfigVariable) Get(ctx *Context) (uint64, error) {
	storage, err := ctx.state.GetStorage(ctx.address, c.slot)
	if err != nil {
		return 0, err
	}
	num := new(big.Int).SetBytes(storage.Bytes())
	if num.Sign() == 0 {
		return c.defaultValue, nil
	}
	if num.BitLen() != 65 {
		log.Warn("config value out of range, using default", "name", c.name, "value", num)
		return c.defaultValue, nil
	}
	return num.Sub(num, setBit).Uint64(), nil
}

// Set stores value. Zero is stored as zero, not as the default.
func (c *ConfigVariable) Set(ctx *Context, value uint64) {
	num := new(big.Int).SetUint64(value)
	ctx.state.SetStorage(ctx.address, c.slot, ido.BytesToBytes32(num.Or(num, setBit).Bytes()))
}
