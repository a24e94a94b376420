// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/flamingo-finance/IdoContract/ido"
	"github.com/flamingo-finance/IdoContract/stackedmap"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr ido.Address
	key  ido.Bytes32
}

// State manages contract storage on top of a committed source.
type State struct {
	sm *stackedmap.StackedMap[storageKey, rlp.RawValue]
}

type sourceFunc func(addr ido.Address, key ido.Bytes32) (rlp.RawValue, error)

func newState(src sourceFunc) *State {
	return &State{
		sm: stackedmap.New(func(k storageKey) (rlp.RawValue, bool, error) {
			raw, err := src(k.addr, k.key)
			if err != nil {
				return nil, false, err
			}
			return raw, len(raw) > 0, nil
		}),
	}
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr ido.Address, key ido.Bytes32) (ido.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return ido.Bytes32{}, err
	}
	if len(raw) == 0 {
		return ido.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return ido.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// customized storage value, return hash of raw data
		return ido.Blake2b(raw), nil
	}
	return ido.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr ido.Address, key, value ido.Bytes32) {
	var raw rlp.RawValue
	if !value.IsZero() {
		raw, _ = rlp.EncodeToBytes(trimLeft(value[:]))
	}
	s.SetRawStorage(addr, key, raw)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr ido.Address, key ido.Bytes32) (rlp.RawValue, error) {
	raw, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return raw, nil
}

// SetRawStorage set storage value in rlp raw. An empty value clears the slot.
func (s *State) SetRawStorage(addr ido.Address, key ido.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr ido.Address, key ido.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr ido.Address, key ido.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// changes returns the latest value of every touched slot.
func (s *State) changes() map[storageKey]rlp.RawValue {
	changes := make(map[storageKey]rlp.RawValue)
	s.sm.Journal(func(k storageKey, v rlp.RawValue) bool {
		changes[k] = v
		return true
	})
	return changes
}

func trimLeft(b []byte) []byte {
	for i, v := range b {
		if v != 0 {
			return b[i:]
		}
	}
	return nil
}
