// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"strings"

	"github.com/flamingo-finance/IdoContract/metrics"
)

var (
	metricInsertedEvents       = metrics.LazyLoadCounter("eventdb_inserted_events_count")
	metricEventQueryParameters = metrics.LazyLoadCounterVec("eventdb_query_parameters", []string{"parameters"})
	metricQueryOrderCounter    = metrics.LazyLoadCounterVec("eventdb_query_order", []string{"order"})
	metricLimitBucket          = metrics.LazyLoadHistogramVec("eventdb_query_limit_bucket", []string{"type"}, []int64{
		0, 5, 10, 25, 50, 100, 250, 500, 1000,
	})
)

func metricsHandleFilter(filter *Filter) {
	if metrics.NoOp() {
		return
	}

	paramsUsed := make([]string, 0, 5)
	if filter.Address != nil {
		paramsUsed = append(paramsUsed, "address")
	}
	if filter.Name != "" {
		paramsUsed = append(paramsUsed, "name")
	}
	if filter.Account != nil {
		paramsUsed = append(paramsUsed, "account")
	}
	if filter.Project != nil {
		paramsUsed = append(paramsUsed, "project")
	}
	if filter.InvocationID != nil {
		paramsUsed = append(paramsUsed, "invocation")
	}
	metricEventQueryParameters().AddWithLabel(1, map[string]string{"parameters": strings.Join(paramsUsed, ",")})

	if filter.Order == DESC {
		metricQueryOrderCounter().AddWithLabel(1, map[string]string{"order": "desc"})
	} else {
		metricQueryOrderCounter().AddWithLabel(1, map[string]string{"order": "asc"})
	}

	if filter.Options != nil {
		limit := filter.Options.Limit
		if limit > 1000 {
			limit = 1001
		}
		metricLimitBucket().ObserveWithLabels(int64(limit), map[string]string{"type": "event"})
	}
}
