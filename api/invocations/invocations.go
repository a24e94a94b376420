// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package invocations

import (
	"crypto/ecdsa"
	"encoding/binary"
	"io"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/flamingo-finance/IdoContract/api/utils"
	"github.com/flamingo-finance/IdoContract/builtin"
	"github.com/flamingo-finance/IdoContract/ido"
	"github.com/flamingo-finance/IdoContract/runtime"
)

// Invocation is the body of POST /invocations.
// Witnesses are recovered from Signatures. Signers are taken on trust and only accepted in dev mode.
type Invocation struct {
	Call       *builtin.Call       `json:"call"`
	Nonce      math.HexOrDecimal64 `json:"nonce"`
	Signatures []hexutil.Bytes     `json:"signatures,omitempty"`
	Signers    []ido.Address       `json:"signers,omitempty"`
}

// SigningHash is the hash witnesses sign. Args are hashed as sent.
func SigningHash(call *builtin.Call, nonce uint64) ido.Bytes32 {
	return ido.Blake2bFn(func(w io.Writer) {
		w.Write(call.Contract.Bytes())
		w.Write([]byte(call.Method))
		w.Write(call.Args)
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], nonce)
		w.Write(b[:])
	})
}

// Sign signs call with key. Meant for clients and tests.
func Sign(call *builtin.Call, nonce uint64, key *ecdsa.PrivateKey) ([]byte, error) {
	hash := SigningHash(call, nonce)
	return crypto.Sign(hash.Bytes(), key)
}

type Invocations struct {
	rt      *runtime.Runtime
	devMode bool
}

func New(rt *runtime.Runtime, devMode bool) *Invocations {
	return &Invocations{rt, devMode}
}

func (i *Invocations) witnesses(body *Invocation) ([]ido.Address, ido.Bytes32, error) {
	if len(body.Signers) > 0 && !i.devMode {
		return nil, ido.Bytes32{}, utils.Forbidden(errors.New("plain signers are accepted in dev mode only"))
	}
	witnesses := append([]ido.Address(nil), body.Signers...)
	if len(body.Signatures) == 0 {
		return witnesses, ido.Bytes32{}, nil
	}

	hash := SigningHash(body.Call, uint64(body.Nonce))
	for n, sig := range body.Signatures {
		if len(sig) != crypto.SignatureLength {
			return nil, ido.Bytes32{}, utils.BadRequest(errors.Errorf("signatures[%d]: invalid length", n))
		}
		pub, err := crypto.SigToPub(hash.Bytes(), sig)
		if err != nil {
			return nil, ido.Bytes32{}, utils.BadRequest(errors.WithMessagef(err, "signatures[%d]", n))
		}
		witnesses = append(witnesses, ido.Address(crypto.PubkeyToAddress(*pub)))
	}
	return witnesses, hash, nil
}

func (i *Invocations) handleExecute(w http.ResponseWriter, req *http.Request) error {
	var body Invocation
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Call == nil {
		return utils.BadRequest(errors.New("body: call required"))
	}
	witnesses, hash, err := i.witnesses(&body)
	if err != nil {
		return err
	}

	receipt, err := i.rt.Execute(req.Context(), &runtime.Invocation{
		Call:        body.Call,
		Witnesses:   witnesses,
		SigningHash: hash,
	})
	if err != nil {
		if errors.Is(err, runtime.ErrReplayed) {
			return utils.HTTPError(err, http.StatusConflict)
		}
		return err
	}
	if receipt.Reverted {
		return utils.WriteJSONStatus(w, http.StatusUnprocessableEntity, receipt)
	}
	return utils.WriteJSON(w, receipt)
}

func (i *Invocations) handleCall(w http.ResponseWriter, req *http.Request) error {
	var call builtin.Call
	if err := utils.ParseJSON(req.Body, &call); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	out, err := i.rt.Call(req.Context(), &call)
	if err != nil {
		if errors.Is(err, runtime.ErrNotReadonly) {
			return utils.BadRequest(err)
		}
		return err
	}
	return utils.WriteJSON(w, utils.M{"output": out})
}

func (i *Invocations) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(i.handleExecute))
	sub.Path("/call").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(i.handleCall))
}
