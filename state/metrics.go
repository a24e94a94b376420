// Copyright (c) 2024 The VeChainThor developers
// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/flamingo-finance/IdoContract/metrics"

var metricStorageCache = metrics.LazyLoadCounterVec("state_storage_cache_count", []string{"event"})
