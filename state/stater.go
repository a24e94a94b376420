// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	lru "github.com/hashicorp/golang-lru"

	"github.com/flamingo-finance/IdoContract/ido"
	"github.com/flamingo-finance/IdoContract/kv"
)

const storageBucket = kv.Bucket("s")

// Stater is the state creator.
// It owns the committed storage and a read cache shared by all states it creates.
type Stater struct {
	db    kv.Store
	cache *lru.Cache
}

// NewStater create a new stater.
func NewStater(db kv.Store, cacheSize int) *Stater {
	if cacheSize <= 0 {
		cacheSize = 4096
	}
	cache, _ := lru.New(cacheSize)
	return &Stater{db: db, cache: cache}
}

// NewState create a new state object on top of committed storage.
func (s *Stater) NewState() *State {
	return newState(s.get)
}

func storageDBKey(addr ido.Address, key ido.Bytes32) []byte {
	return append(append(make([]byte, 0, ido.AddressLength+32), addr[:]...), key[:]...)
}

func (s *Stater) get(addr ido.Address, key ido.Bytes32) (rlp.RawValue, error) {
	dbKey := storageDBKey(addr, key)
	if v, ok := s.cache.Get(string(dbKey)); ok {
		metricStorageCache().AddWithLabel(1, map[string]string{"event": "hit"})
		return v.(rlp.RawValue), nil
	}
	metricStorageCache().AddWithLabel(1, map[string]string{"event": "miss"})

	raw, err := storageBucket.NewGetter(s.db).Get(dbKey)
	if err != nil {
		if !s.db.IsNotFound(err) {
			return nil, err
		}
		raw = nil
	}
	s.cache.Add(string(dbKey), rlp.RawValue(raw))
	return raw, nil
}
