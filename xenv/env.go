// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"math/big"

	"github.com/flamingo-finance/IdoContract/ido"
)

// InvocationContext describes the invocation being executed.
type InvocationContext struct {
	ID        ido.Bytes32
	Height    uint32
	Entry     ido.Address
	Witnesses []ido.Address
}

// Event is emitted by a contract during an invocation.
type Event struct {
	Address ido.Address
	Name    string
	Account *ido.Address
	Project *ido.Address
	Amount  *big.Int
	Attrs   map[string]string
}

// Environment is the per-invocation environment seen by native contracts.
type Environment struct {
	ctx       *InvocationContext
	witnesses map[ido.Address]struct{}
	events    []*Event
	flags     map[ido.Bytes32]struct{}
}

// New create a new env.
func New(ctx *InvocationContext) *Environment {
	witnesses := make(map[ido.Address]struct{}, len(ctx.Witnesses))
	for _, w := range ctx.Witnesses {
		witnesses[w] = struct{}{}
	}
	return &Environment{
		ctx:       ctx,
		witnesses: witnesses,
		flags:     make(map[ido.Bytes32]struct{}),
	}
}

func (env *Environment) InvocationContext() *InvocationContext { return env.ctx }

// CurrentHeight returns the height the invocation executes at.
func (env *Environment) CurrentHeight() uint32 { return env.ctx.Height }

// Entry returns the contract the invocation entered through.
func (env *Environment) Entry() ido.Address { return env.ctx.Entry }

// IsAuthorizedBy reports whether addr witnessed the invocation.
func (env *Environment) IsAuthorizedBy(addr ido.Address) bool {
	_, ok := env.witnesses[addr]
	return ok
}

// Emit appends an event to the invocation journal.
func (env *Environment) Emit(ev *Event) {
	env.events = append(env.events, ev)
}

// Events returns events emitted so far.
func (env *Environment) Events() []*Event { return env.events }

// HasEvent reports whether contract emitted an event named name during the invocation.
func (env *Environment) HasEvent(contract ido.Address, name string) bool {
	for _, ev := range env.events {
		if ev.Address == contract && ev.Name == name {
			return true
		}
	}
	return false
}

// EventCheckpoint returns a revision of the event journal.
func (env *Environment) EventCheckpoint() int { return len(env.events) }

// RevertEvents drops events emitted after revision.
func (env *Environment) RevertEvents(revision int) {
	if revision < len(env.events) {
		env.events = env.events[:revision]
	}
}

// SetFlag raises an invocation scoped flag. It reports false if it was already raised.
// Flags never reach storage.
func (env *Environment) SetFlag(key ido.Bytes32) bool {
	if _, ok := env.flags[key]; ok {
		return false
	}
	env.flags[key] = struct{}{}
	return true
}

// ClearFlag lowers a flag raised by SetFlag. It reports whether the flag was raised.
func (env *Environment) ClearFlag(key ido.Bytes32) bool {
	if _, ok := env.flags[key]; !ok {
		return false
	}
	delete(env.flags, key)
	return true
}
