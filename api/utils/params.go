// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/flamingo-finance/IdoContract/ido"
)

// AddressVar parses the address path variable named name.
func AddressVar(req *http.Request, name string) (ido.Address, error) {
	addr, err := ido.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return ido.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

// AddressQuery parses an optional address query parameter.
func AddressQuery(req *http.Request, name string) (*ido.Address, error) {
	s := req.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	addr, err := ido.ParseAddress(s)
	if err != nil {
		return nil, BadRequest(errors.WithMessage(err, name))
	}
	return &addr, nil
}

// UintQuery parses an optional unsigned query parameter, falling back to def.
func UintQuery(req *http.Request, name string, def uint64) (uint64, error) {
	s := req.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return v, nil
}
