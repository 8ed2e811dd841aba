// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package push

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// metricsPush holds Prometheus metrics for the push command.
type metricsPush struct {
	once sync.Once

	docsPushed  prometheus.Counter
	batchesSent prometheus.Counter
	failures    prometheus.Counter
	duration    prometheus.Histogram
}

var pushMetrics metricsPush

func (m *metricsPush) init() {
	m.once.Do(func() {
		m.docsPushed = prometheus.NewCounter(prometheus.CounterOpts{Name: "netsec_push_documents_total", Help: "Documents inserted into the document store"})
		m.batchesSent = prometheus.NewCounter(prometheus.CounterOpts{Name: "netsec_push_batches_total", Help: "Insert batches sent"})
		m.failures = prometheus.NewCounter(prometheus.CounterOpts{Name: "netsec_push_failures_total", Help: "Failed push runs"})
		m.duration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "netsec_push_seconds",
			Help:    "Duration of a push run",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		})

		prometheus.MustRegister(m.docsPushed, m.batchesSent, m.failures, m.duration)
	})
}

func recordBatch(docs int) {
	pushMetrics.init()
	pushMetrics.batchesSent.Inc()
	pushMetrics.docsPushed.Add(float64(docs))
}
func recordFailure() { pushMetrics.init(); pushMetrics.failures.Inc() }
func observeDuration(d time.Duration) { pushMetrics.init(); pushMetrics.duration.Observe(d.Seconds()) }
