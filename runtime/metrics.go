// Copyright (c) 2024 The VeChainThor developers
// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/flamingo-finance/IdoContract/metrics"

var (
	metricInvocationCount    = metrics.LazyLoadCounterVec("runtime_invocation_count", []string{"method", "outcome"})
	metricInvocationDuration = metrics.LazyLoadHistogramVec("runtime_invocation_duration_ms", []string{"method"}, metrics.BucketInvocation)
	metricHeight             = metrics.LazyLoadGauge("runtime_height")
)
