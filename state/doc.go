// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages contract storage.
// It follows the flow as bellow:
//
//	         o
//	         |
//	[ revertable state ]
//	         |
//	  [ stacked map ] -> [ journal ] -> [ stage ] -> [ kv batch ]
//	         |
//	   [ lru cache ]
//	         |
//	   [ kv store ]
//
// Every slot is addressed by the owning contract and a 32-byte position.
package state
