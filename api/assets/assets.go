// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package assets

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/flamingo-finance/IdoContract/api/utils"
	"github.com/flamingo-finance/IdoContract/builtin"
	"github.com/flamingo-finance/IdoContract/builtin/registry"
	"github.com/flamingo-finance/IdoContract/ido"
	"github.com/flamingo-finance/IdoContract/runtime"
)

type Asset struct {
	Address     ido.Address     `json:"address"`
	Symbol      string          `json:"symbol"`
	Decimals    uint8           `json:"decimals"`
	TotalSupply *builtin.Amount `json:"totalSupply"`
}

type Balance struct {
	Asset   ido.Address     `json:"asset"`
	Holder  ido.Address     `json:"holder"`
	Balance *builtin.Amount `json:"balance"`
}

type Assets struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Assets {
	return &Assets{rt}
}

func (a *Assets) view(req *http.Request, addr ido.Address, fn func(*builtin.Contracts) error) error {
	return a.rt.View(req.Context(), func(contracts *builtin.Contracts) error {
		kind, err := contracts.KindOf(addr)
		if err != nil {
			return err
		}
		if kind != registry.KindAsset {
			return utils.NotFound(errors.Errorf("no asset at %v", addr))
		}
		return fn(contracts)
	})
}

func (a *Assets) handleGetAsset(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "asset")
	if err != nil {
		return err
	}
	res := Asset{Address: addr}
	err = a.view(req, addr, func(contracts *builtin.Contracts) error {
		asset, err := contracts.Asset(addr)
		if err != nil {
			return err
		}
		meta, err := asset.Meta()
		if err != nil {
			return err
		}
		supply, err := asset.TotalSupply()
		if err != nil {
			return err
		}
		res.Symbol, res.Decimals, res.TotalSupply = meta.Symbol, meta.Decimals, (*builtin.Amount)(supply)
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &res)
}

func (a *Assets) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "asset")
	if err != nil {
		return err
	}
	holder, err := utils.AddressVar(req, "holder")
	if err != nil {
		return err
	}
	res := Balance{Asset: addr, Holder: holder}
	err = a.view(req, addr, func(contracts *builtin.Contracts) error {
		asset, err := contracts.Asset(addr)
		if err != nil {
			return err
		}
		bal, err := asset.BalanceOf(holder)
		res.Balance = (*builtin.Amount)(bal)
		return err
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &res)
}

func (a *Assets) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{asset}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(a.handleGetAsset))
	sub.Path("/{asset}/balances/{holder}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(a.handleGetBalance))
}
