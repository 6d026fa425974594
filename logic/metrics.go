// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package logic

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	executed *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// a nil registerer gives working but unregistered collectors
func newMetrics(registerer prometheus.Registerer) *metrics {
	factory := promauto.With(registerer)
	return &metrics{
		executed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "elysiumd",
			Subsystem: "logic",
			Name:      "executed_total",
			Help:      "Count of executed transactions by type and result category.",
		}, []string{"type", "category"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "elysiumd",
			Subsystem: "logic",
			Name:      "execute_duration_seconds",
			Help:      "Duration of executing a transaction against the ledger.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"type"}),
	}
}

func (m *metrics) observe(typeName string, code int, started time.Time) {
	m.executed.WithLabelValues(typeName, CategoryOf(code).String()).Inc()
	m.duration.WithLabelValues(typeName).Observe(time.Since(started).Seconds())
}
