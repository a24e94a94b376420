// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
)

// Stage abstracts changes on the main storage.
type Stage struct {
	stater  *Stater
	changes map[storageKey]rlp.RawValue
}

// Stage makes a stage object to commit changes of s into the stater it was created from.
func (s *Stater) Stage(st *State) *Stage {
	return &Stage{stater: s, changes: st.changes()}
}

// Len returns the number of changed slots.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Commit commits all changes into the main storage in one batch.
func (s *Stage) Commit() error {
	batch := s.stater.db.NewBatch()
	putter := storageBucket.NewPutter(batch)
	for k, v := range s.changes {
		dbKey := storageDBKey(k.addr, k.key)
		var err error
		if len(v) == 0 {
			err = putter.Delete(dbKey)
		} else {
			err = putter.Put(dbKey, v)
		}
		if err != nil {
			return errors.Wrap(err, "stage storage")
		}
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "commit storage")
	}
	for k, v := range s.changes {
		s.stater.cache.Add(string(storageDBKey(k.addr, k.key)), v)
	}
	return nil
}
