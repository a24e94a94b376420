// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flamingo-finance/IdoContract/ido"
	"github.com/flamingo-finance/IdoContract/lvldb"
	"github.com/flamingo-finance/IdoContract/state"
)

type testStruct struct {
	Field1 uint64
	Amount *big.Int
	Addr   ido.Address
}

func newContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(ido.BytesToAddress([]byte("contract")), state.NewStater(db, 0).NewState())
}

func TestAddress(t *testing.T) {
	ctx := newContext(t)
	address := NewAddress(ctx, ido.Bytes32{1})

	got, err := address.Get()
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	value := ido.BytesToAddress([]byte("admin"))
	address.Set(&value)
	got, err = address.Get()
	require.NoError(t, err)
	assert.Equal(t, value, got)

	address.Set(nil)
	got, err = address.Get()
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	ctx.State().SetRawStorage(ctx.Address(), ido.Bytes32{1}, rlp.RawValue{0xff})
	_, err = address.Get()
	assert.Error(t, err)
}

func TestUint256(t *testing.T) {
	ctx := newContext(t)
	u := NewUint256(ctx, ido.Bytes32{2})

	require.NoError(t, u.Add(big.NewInt(10)))
	require.NoError(t, u.Sub(big.NewInt(3)))
	got, err := u.Get()
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.Int64())

	assert.Error(t, u.Sub(big.NewInt(8)))
	assert.Error(t, u.Set(new(big.Int).Lsh(big.NewInt(1), 256)))
}

func TestMappingStructPointer(t *testing.T) {
	ctx := newContext(t)
	mapping := NewMapping[ido.Address, *testStruct](ctx, ido.Bytes32{3})
	key := ido.BytesToAddress([]byte("user"))

	empty, err := mapping.Get(key)
	require.NoError(t, err)
	require.NotNil(t, empty)
	assert.Equal(t, uint64(0), empty.Field1)

	value := &testStruct{Field1: 100, Amount: big.NewInt(200), Addr: key}
	require.NoError(t, mapping.Set(key, value))

	got, err := mapping.Get(key)
	require.NoError(t, err)
	assert.Equal(t, value.Field1, got.Field1)
	assert.Equal(t, 0, value.Amount.Cmp(got.Amount))
	assert.Equal(t, key, got.Addr)

	mapping.Delete(key)
	got, err = mapping.Get(key)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got.Field1)
}

func TestMappingScalar(t *testing.T) {
	ctx := newContext(t)
	weights := NewMapping[ido.Address, uint64](ctx, ido.Bytes32{4})
	amounts := NewMapping[ido.Address, *big.Int](ctx, ido.Bytes32{4})
	key := ido.BytesToAddress([]byte("user"))

	w, err := weights.Get(key)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), w)

	require.NoError(t, weights.Set(key, 30))
	w, err = weights.Get(key)
	require.NoError(t, err)
	assert.Equal(t, uint64(30), w)

	// same key, same base position, different value type
	other := ido.BytesToAddress([]byte("other"))
	a, err := amounts.Get(other)
	require.NoError(t, err)
	assert.Equal(t, 0, a.Sign())
}

func TestRaw(t *testing.T) {
	ctx := newContext(t)
	raw := NewRaw[*testStruct](ctx, ido.Bytes32{5})

	set, err := raw.IsSet()
	require.NoError(t, err)
	assert.False(t, set)

	require.NoError(t, raw.Set(&testStruct{Field1: 1, Amount: big.NewInt(2)}))
	set, err = raw.IsSet()
	require.NoError(t, err)
	assert.True(t, set)

	got, err := raw.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.Field1)
}

func TestConfigVariable(t *testing.T) {
	ctx := newContext(t)
	config := NewConfigVariable("vote-time-span", ido.BytesToBytes32([]byte{0x02, 0x02}), 10)

	assert.Equal(t, "vote-time-span", config.Name())
	assert.Equal(t, uint64(10), config.Default())

	value, err := config.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), value)

	config.Set(ctx, 25)
	value, err = config.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(25), value)

	// a stored zero is kept
	config.Set(ctx, 0)
	value, err = config.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), value)

	config.Set(ctx, math.MaxUint64)
	value, err = config.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), value)

	// cleared slot
	ctx.State().SetStorage(ctx.Address(), config.Slot(), ido.Bytes32{})
	value, err = config.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), value)

	ctx.State().SetRawStorage(ctx.Address(), config.Slot(), rlp.RawValue{0xff})
	_, err = config.Get(ctx)
	assert.Error(t, err)
}
