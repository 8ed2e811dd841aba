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

package ingestion

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// metricsIngestion holds Prometheus metrics for the ingestion subsystem.
type metricsIngestion struct {
	once sync.Once

	// Runs
	runs *prometheus.CounterVec

	// Export
	docsExported     prometheus.Counter
	sentinelReplaced prometheus.Counter

	// Files
	rowsWritten *prometheus.CounterVec

	// Durations
	stageDuration *prometheus.HistogramVec
	totalDuration prometheus.Histogram
}

var ingMetrics metricsIngestion

func (m *metricsIngestion) init() {
	m.once.Do(func() {
		m.runs = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "netsec_ing_runs_total", Help: "Ingestion runs by final status"}, []string{"status"})

		m.docsExported = prometheus.NewCounter(prometheus.CounterOpts{Name: "netsec_ing_documents_exported_total", Help: "Documents read from the document store"})
		m.sentinelReplaced = prometheus.NewCounter(prometheus.CounterOpts{Name: "netsec_ing_sentinel_replaced_total", Help: "Cells replaced by the missing marker"})

		m.rowsWritten = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "netsec_ing_rows_written_total", Help: "Rows written per output file"}, []string{"file"})

		buckets := []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
		m.stageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "netsec_ing_stage_seconds", Help: "Duration of each ingestion stage", Buckets: buckets}, []string{"stage"})
		m.totalDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "netsec_ing_total_seconds", Help: "Total duration of an ingestion run", Buckets: buckets})

		prometheus.MustRegister(
			m.runs,
			m.docsExported, m.sentinelReplaced,
			m.rowsWritten,
			m.stageDuration, m.totalDuration,
		)
	})
}

// record helpers - used by the pipeline stages
func recordRun(status string) { ingMetrics.init(); ingMetrics.runs.WithLabelValues(status).Inc() }
func recordExported(docs, replaced int) {
	ingMetrics.init()
	ingMetrics.docsExported.Add(float64(docs))
	ingMetrics.sentinelReplaced.Add(float64(replaced))
}
func recordRowsWritten(file string, rows int) {
	ingMetrics.init()
	ingMetrics.rowsWritten.WithLabelValues(file).Add(float64(rows))
}
func observeStage(stage string, d time.Duration) {
	ingMetrics.init()
	ingMetrics.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}
func observeTotal(d time.Duration) { ingMetrics.init(); ingMetrics.totalDuration.Observe(d.Seconds()) }
