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

package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	flag "github.com/spf13/pflag"

	"github.com/kraklabs/netsec/internal/errors"
	"github.com/kraklabs/netsec/internal/output"
	"github.com/kraklabs/netsec/internal/ui"
	"github.com/kraklabs/netsec/pkg/ingestion"
)

// ingestSummary is the JSON form of a finished run.
type ingestSummary struct {
	RunID                string `json:"run_id"`
	TrainedFilePath      string `json:"trained_file_path"`
	TestFilePath         string `json:"test_file_path"`
	FeatureStoreFilePath string `json:"feature_store_file_path"`
	ManifestPath         string `json:"manifest_path,omitempty"`
	LogPath              string `json:"log_path"`
	Documents            int    `json:"documents"`
	Rows                 int    `json:"rows"`
	Columns              int    `json:"columns"`
	MissingReplaced      int    `json:"missing_replaced"`
	TrainRows            int    `json:"train_rows"`
	TestRows             int    `json:"test_rows"`
	DurationMS           int64  `json:"duration_ms"`
}

// runIngest executes the 'ingest' CLI command.
//
// It exports the configured collection into a table, writes the feature
// store CSV, splits the rows into train and test CSVs and prints the
// resulting artifact.
//
// Flags:
//   - --seed: Seed for a reproducible split (default: ingestion.seed)
//   - --ratio: Fraction of rows assigned to the test set (default: ingestion.split_ratio)
//   - --artifact-dir: Root of the run directories (default: ingestion.artifact_dir)
//   - --no-manifest: Skip writing artifact.json
//   - --debug: Enable debug logging
//   - --metrics-addr: HTTP address for Prometheus metrics (default: disabled)
//
// Examples:
//
//	netsec ingest
//	netsec ingest --seed 42 --ratio 0.25
func runIngest(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	seed := fs.Uint64("seed", 0, "Seed for a reproducible train/test split")
	ratio := fs.Float64("ratio", 0, "Fraction of rows assigned to the test set")
	artifactDir := fs.String("artifact-dir", "", "Root directory for run artifacts")
	noManifest := fs.Bool("no-manifest", false, "Do not write artifact.json")
	debug := fs.Bool("debug", false, "Enable debug logging")
	metricsAddr := fs.String("metrics-addr", "", "HTTP listen address for Prometheus metrics (empty to disable)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: netsec ingest [options]

Exports the configured collection, replaces missing-value markers, writes
the feature store CSV and splits it into train and test CSVs under
<artifact_dir>/<MM_DD_YYYY_HH_MM_SS>/data_ingestion/.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  netsec ingest
  netsec ingest --seed 42
  netsec ingest --metrics-addr :9100
`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	s, err := newSession(globals, *debug)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}
	defer s.close()
	logger := s.log.Logger

	if fs.Changed("seed") {
		s.cfg.Ingestion.Seed = seed
	}
	if fs.Changed("ratio") {
		s.cfg.Ingestion.SplitRatio = *ratio
	}
	if *artifactDir != "" {
		s.cfg.Ingestion.ArtifactDir = *artifactDir
	}
	if *noManifest {
		s.cfg.Ingestion.Manifest = false
	}

	url, err := s.cfg.ResolveDatabaseURL()
	if err != nil {
		s.fail(err)
	}
	run, err := s.cfg.IngestionRun(url, time.Now())
	if err != nil {
		s.fail(err)
	}

	// Start Prometheus metrics endpoint (optional)
	if *metricsAddr != "" {
		startMetricsServer(logger, *metricsAddr)
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	pipeline, err := ingestion.NewDataIngestion(run, logger)
	if err != nil {
		s.fail(err)
	}

	s.printer.Header("Data Ingestion")
	s.printer.Field("Collection", run.DatabaseName+"."+run.CollectionName)
	s.printer.PathField("Log", s.log.Path())

	result, err := pipeline.Run(ctx)
	if err != nil {
		s.fail(err)
	}

	if globals.JSON {
		if err := output.JSON(newIngestSummary(result, s.log.Path())); err != nil {
			s.fail(errors.Wrap(err, errors.KindInternal, "encode summary"))
		}
		return
	}
	printIngestResult(s.printer, result)
}

func newIngestSummary(r *ingestion.Result, logPath string) ingestSummary {
	return ingestSummary{
		RunID:                r.RunID,
		TrainedFilePath:      r.Artifact.TrainedFilePath,
		TestFilePath:         r.Artifact.TestFilePath,
		FeatureStoreFilePath: r.FeatureStoreFilePath,
		ManifestPath:         r.ManifestPath,
		LogPath:              logPath,
		Documents:            r.DocumentsExported,
		Rows:                 r.Rows,
		Columns:              r.Columns,
		MissingReplaced:      r.SentinelReplaced,
		TrainRows:            r.TrainRows,
		TestRows:             r.TestRows,
		DurationMS:           r.TotalDuration.Milliseconds(),
	}
}

// printIngestResult prints the run summary to the printer's output.
func printIngestResult(p *ui.Printer, r *ingestion.Result) {
	p.Successf("Ingestion complete")
	p.Field("Run ID", r.RunID)
	p.Field("Documents", r.DocumentsExported)
	p.Field("Dataset", fmt.Sprintf("%d rows x %d columns", r.Rows, r.Columns))
	if r.SentinelReplaced > 0 {
		p.Field("Missing Values", r.SentinelReplaced)
	}
	p.Field("Train Rows", r.TrainRows)
	p.Field("Test Rows", r.TestRows)

	p.Header("Artifact")
	p.PathField("Feature Store", r.FeatureStoreFilePath)
	p.PathField("Train", r.Artifact.TrainedFilePath)
	p.PathField("Test", r.Artifact.TestFilePath)
	if r.ManifestPath != "" {
		p.PathField("Manifest", r.ManifestPath)
	}

	p.Header("Timings")
	p.Field("Export", r.ExportDuration.Round(time.Millisecond))
	p.Field("Persist", r.PersistDuration.Round(time.Millisecond))
	p.Field("Split", r.SplitDuration.Round(time.Millisecond))
	p.Field("Total", r.TotalDuration.Round(time.Millisecond))
}

func startMetricsServer(logger *slog.Logger, addr string) {
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		logger.Info("metrics.http.start", "addr", addr, "path", "/metrics")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn("metrics.http.error", "err", err)
		}
	}()
}
