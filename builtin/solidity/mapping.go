// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/flamingo-finance/IdoContract/ido"
)

type Key interface {
	Bytes() []byte
}

// Mapping is a key/value storage abstraction for built-in contracts, similar to the mapping in Solidity.
// Values are rlp encoded at blake2b(key, pos).
type Mapping[K Key, V any] struct {
	context *Context
	basePos ido.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos ido.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) ido.Bytes32 {
	return ido.Blake2b(key.Bytes(), m.basePos.Bytes())
}

// Get returns the value stored for key. Pointer values of absent keys are non-nil zero values.
func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = m.context.state.DecodeStorage(m.context.address, m.position(key), func(raw []byte) error {
		return decodeValue(raw, &value)
	})
	return
}

// Set stores value for key.
func (m *Mapping[K, V]) Set(key K, value V) error {
	return m.context.state.EncodeStorage(m.context.address, m.position(key), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Delete clears the slot of key.
func (m *Mapping[K, V]) Delete(key K) {
	m.context.state.SetRawStorage(m.context.address, m.position(key), nil)
}

// Raw stores a single rlp encoded value at a fixed slot.
type Raw[V any] struct {
	context *Context
	pos     ido.Bytes32
}

func NewRaw[V any](context *Context, pos ido.Bytes32) *Raw[V] {
	return &Raw[V]{context: context, pos: pos}
}

func (r *Raw[V]) Get() (value V, err error) {
	err = r.context.state.DecodeStorage(r.context.address, r.pos, func(raw []byte) error {
		return decodeValue(raw, &value)
	})
	return
}

func (r *Raw[V]) Set(value V) error {
	return r.context.state.EncodeStorage(r.context.address, r.pos, func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// IsSet returns whether the slot holds a value.
func (r *Raw[V]) IsSet() (bool, error) {
	raw, err := r.context.state.GetRawStorage(r.context.address, r.pos)
	if err != nil {
		return false, err
	}
	return len(raw) > 0, nil
}

func decodeValue[V any](raw []byte, value *V) error {
	if t := reflect.TypeOf(value).Elem(); t.Kind() == reflect.Ptr {
		*value = reflect.New(t.Elem()).Interface().(V)
	}
	if len(raw) == 0 {
		return nil
	}
	return rlp.DecodeBytes(raw, value)
}
