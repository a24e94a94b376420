// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package linkedlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flamingo-finance/IdoContract/builtin/solidity"
	"github.com/flamingo-finance/IdoContract/ido"
	"github.com/flamingo-finance/IdoContract/lvldb"
	"github.com/flamingo-finance/IdoContract/state"
)

func newList(t *testing.T) *LinkedList {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	sctx := solidity.NewContext(ido.BytesToAddress([]byte("list")), state.NewStater(db, 0).NewState())
	return New(sctx, ido.BytesToBytes32([]byte("head")), ido.BytesToBytes32([]byte("tail")), ido.BytesToBytes32([]byte("count")))
}

func collect(t *testing.T, l *LinkedList) []ido.Address {
	var out []ido.Address
	for addr, err := range l.All() {
		require.NoError(t, err)
		out = append(out, addr)
	}
	return out
}

func TestLinkedList(t *testing.T) {
	l := newList(t)
	assert.Empty(t, collect(t, l))

	a := ido.BytesToAddress([]byte("a"))
	b := ido.BytesToAddress([]byte("b"))
	c := ido.BytesToAddress([]byte("c"))
	for _, addr := range []ido.Address{a, b, c} {
		require.NoError(t, l.Add(addr))
	}

	assert.Equal(t, []ido.Address{a, b, c}, collect(t, l))
	// restartable
	assert.Equal(t, []ido.Address{a, b, c}, collect(t, l))

	n, err := l.Len()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)

	head, err := l.Head()
	require.NoError(t, err)
	assert.Equal(t, a, head)

	next, err := l.Next(c)
	require.NoError(t, err)
	assert.True(t, next.IsZero())

	assert.Error(t, l.Add(ido.Address{}))
}

func TestLinkedListEarlyBreak(t *testing.T) {
	l := newList(t)
	for i := byte(1); i <= 5; i++ {
		require.NoError(t, l.Add(ido.BytesToAddress([]byte{i})))
	}

	var seen int
	for _, err := range l.All() {
		require.NoError(t, err)
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}
