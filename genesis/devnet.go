// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/flamingo-finance/IdoContract/ido"
)

// DevAccount account for development.
type DevAccount struct {
	Address    ido.Address
	PrivateKey *ecdsa.PrivateKey
}

var devAccounts atomic.Value

// DevAccounts returns pre-funded accounts for dev mode.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	var accs []DevAccount
	for i := range 10 {
		seed := ido.Blake2b([]byte(fmt.Sprintf("idod dev account %d", i)))
		pk, err := crypto.ToECDSA(seed.Bytes())
		if err != nil {
			panic(err)
		}
		accs = append(accs, DevAccount{ido.Address(crypto.PubkeyToAddress(pk.PublicKey)), pk})
	}
	devAccounts.Store(accs)
	return accs
}

func units(n int64, decimals uint8) *Amount {
	v := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	return (*Amount)(v.Mul(v, big.NewInt(n)))
}

// NewDevnet create genesis for dev mode.
// Account 0 administrates the launchpad, account 1 owns the sample project token and pair.
func NewDevnet(launchTime uint64) *Genesis {
	accs := DevAccounts()
	admin, issuer := accs[0].Address, accs[1].Address

	var flm, usd []Balance
	for _, acc := range accs[2:] {
		flm = append(flm, Balance{acc.Address, units(100_000, 8)})
		usd = append(usd, Balance{acc.Address, units(100_000, 6)})
	}

	thresholds := make([]*Amount, 0, 6)
	for _, n := range []int64{1_000, 3_000, 6_000, 10_000, 20_000, 50_000} {
		thresholds = append(thresholds, units(n, 8))
	}

	return &Genesis{
		LaunchTime:    launchTime,
		BlockInterval: 1,
		Admin:         admin,
		Assets: []Asset{
			{Symbol: "FLM", Decimals: 8, Deployer: admin, Balances: flm},
			{Symbol: "fUSDT", Decimals: 6, Deployer: admin, Balances: usd},
			{Symbol: "TOKEN", Decimals: 8, Deployer: issuer, Balances: []Balance{{issuer, units(10_000_000, 8)}}},
		},
		StakeAsset: "FLM",
		SpendAsset: "fUSDT",
		Pairs: []Pair{{
			Name:       "TOKEN-fUSDT",
			Owner:      issuer,
			SpendAsset: "fUSDT",
			Token:      "TOKEN",
			// 100 token base units per spend base unit
			Price: NewAmount(1e16),
			Fund:  units(1_000_000, 8),
		}},
		Thresholds: thresholds,
		Params: map[string]uint64{
			"unstake-time-span": 600,
			"vote-time-span":    120,
			"swap-time-span":    60,
		},
	}
}
