// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ido

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMulDiv(t *testing.T) {
	tests := []struct {
		name    string
		a, b, d *big.Int
		want    *big.Int
		wantErr bool
	}{
		{"pro rata", big.NewInt(30), big.NewInt(1000), big.NewInt(100), big.NewInt(300), false},
		{"floor", big.NewInt(1), big.NewInt(10), big.NewInt(3), big.NewInt(3), false},
		{"price scale", PriceDenominator, big.NewInt(200), PriceDenominator, big.NewInt(200), false},
		{"nil operand is zero", nil, big.NewInt(5), big.NewInt(1), big.NewInt(0), false},
		{"zero denominator", big.NewInt(1), big.NewInt(1), big.NewInt(0), nil, true},
		{"negative", big.NewInt(-1), big.NewInt(1), big.NewInt(1), nil, true},
		{"too wide", new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1), big.NewInt(1), nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MulDiv(tt.a, tt.b, tt.d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 0, tt.want.Cmp(got), "got %v", got)
		})
	}
}

func TestMulDivWideIntermediate(t *testing.T) {
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

	got, err := MulDiv(max, max, max)
	require.NoError(t, err)
	assert.Equal(t, 0, max.Cmp(got))

	_, err = MulDiv(max, big.NewInt(2), big.NewInt(1))
	assert.Error(t, err)
}

func TestParseAddress(t *testing.T) {
	addr := BytesToAddress([]byte("alice"))

	parsed, err := ParseAddress(addr.String())
	require.NoError(t, err)
	assert.Equal(t, addr, parsed)

	parsed, err = ParseAddress(addr.String()[2:])
	require.NoError(t, err)
	assert.Equal(t, addr, parsed)

	_, err = ParseAddress("0x1234")
	assert.Error(t, err)
	_, err = ParseAddress("zz" + addr.String()[2:])
	assert.Error(t, err)
}

func TestAddressJSON(t *testing.T) {
	addr := BytesToAddress([]byte("bob"))
	data, err := addr.MarshalJSON()
	require.NoError(t, err)

	var decoded Address
	require.NoError(t, decoded.UnmarshalJSON(data))
	assert.Equal(t, addr, decoded)
}

func TestCreateContractAddress(t *testing.T) {
	deployer := BytesToAddress([]byte("deployer"))
	a := CreateContractAddress(deployer, "pair-1")
	b := CreateContractAddress(deployer, "pair-2")

	assert.False(t, a.IsZero())
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, CreateContractAddress(deployer, "pair-1"))
}

func TestBlake2b(t *testing.T) {
	assert.Equal(t, Blake2b([]byte("ab")), Blake2b([]byte("a"), []byte("b")))
	assert.NotEqual(t, Blake2b([]byte("a")), Blake2b([]byte("b")))
}
