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
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kraklabs/netsec/internal/errors"
)

// Stage names used in logs, metrics and errors.
const (
	StageExport   = "export"
	StagePersist  = "persist"
	StageSplit    = "split"
	StageArtifact = "artifact"
)

// Result summarizes a successful run.
type Result struct {
	// RunID is the unique identifier for this run (UUID).
	RunID string

	// Artifact holds the training and testing file paths.
	Artifact Artifact

	// FeatureStoreFilePath is where the full dataset was written.
	FeatureStoreFilePath string

	// ManifestPath is the manifest location, empty when none was written.
	ManifestPath string

	// DocumentsExported is the number of documents read from the store.
	DocumentsExported int

	// Rows and Columns describe the cleaned dataset.
	Rows    int
	Columns int

	// SentinelReplaced counts cells replaced by the missing marker.
	SentinelReplaced int

	TrainRows int
	TestRows  int

	// Timing
	ExportDuration  time.Duration
	PersistDuration time.Duration
	SplitDuration   time.Duration
	TotalDuration   time.Duration
}

// DataIngestion runs Export, Persist, Split and Emit-Artifact in order.
// Any failure stops the run; no artifact is produced.
type DataIngestion struct {
	config   Config
	exporter *Exporter
	writer   *FeatureStoreWriter
	splitter *Splitter
	logger   *slog.Logger
	now      func() time.Time
}

// NewDataIngestion validates config and wires the stages.
func NewDataIngestion(config Config, logger *slog.Logger, opts ...Option) (*DataIngestion, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	exporter, err := NewExporter(config, logger, opts...)
	if err != nil {
		return nil, err
	}

	return &DataIngestion{
		config:   config,
		exporter: exporter,
		writer:   NewFeatureStoreWriter(config.FeatureStoreFilePath, logger),
		splitter: NewSplitter(config, logger),
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Config returns a copy of the run configuration.
func (d *DataIngestion) Config() Config {
	return d.config
}

// InitiateDataIngestion runs the pipeline and returns the artifact.
func (d *DataIngestion) InitiateDataIngestion(ctx context.Context) (*Artifact, error) {
	res, err := d.Run(ctx)
	if err != nil {
		return nil, err
	}
	return &res.Artifact, nil
}

// Run executes the pipeline and reports counts and timings.
func (d *DataIngestion) Run(ctx context.Context) (res *Result, err error) {
	startTime := d.now()
	runID := uuid.NewString()
	d.logger.Info("ingestion.start",
		"run_id", runID,
		"database", d.config.DatabaseName,
		"collection", d.config.CollectionName,
	)

	defer func() {
		if err != nil {
			recordRun("failed")
			d.logger.Error("ingestion.failed", "run_id", runID, "err", err)
		}
	}()

	res = &Result{RunID: runID, FeatureStoreFilePath: d.config.FeatureStoreFilePath}

	// Step 1: Export
	d.logger.Info("ingestion.step.export", "run_id", runID)
	stageStart := d.now()
	t, stats, err := d.exporter.export(ctx)
	if err != nil {
		return nil, errors.Propagate(err, "data ingestion: export collection")
	}
	res.ExportDuration = d.now().Sub(stageStart)
	observeStage(StageExport, res.ExportDuration)
	res.DocumentsExported = stats.documents
	res.SentinelReplaced = stats.replaced
	res.Rows, res.Columns = t.Shape()

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.KindInternal, "data ingestion cancelled")
	}

	// Step 2: Persist
	d.logger.Info("ingestion.step.persist", "run_id", runID, "path", d.config.FeatureStoreFilePath)
	stageStart = d.now()
	t, err = d.writer.ExportIntoFeatureStore(t)
	if err != nil {
		return nil, errors.Propagate(err, "data ingestion: write feature store")
	}
	res.PersistDuration = d.now().Sub(stageStart)
	observeStage(StagePersist, res.PersistDuration)

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.KindInternal, "data ingestion cancelled")
	}

	// Step 3: Split
	d.logger.Info("ingestion.step.split", "run_id", runID, "ratio", d.config.TrainTestSplitRatio)
	stageStart = d.now()
	res.TrainRows, res.TestRows, err = d.splitter.splitAndWrite(t)
	if err != nil {
		return nil, errors.Propagate(err, "data ingestion: split train/test")
	}
	res.SplitDuration = d.now().Sub(stageStart)
	observeStage(StageSplit, res.SplitDuration)

	// Step 4: Emit artifact
	d.logger.Info("ingestion.step.artifact", "run_id", runID)
	res.Artifact = Artifact{
		TrainedFilePath: d.config.TrainingFilePath,
		TestFilePath:    d.config.TestingFilePath,
	}
	if d.config.ManifestPath != "" {
		manifest := &Manifest{
			RunID:                runID,
			CreatedAt:            startTime.UTC().Format(time.RFC3339),
			Database:             d.config.DatabaseName,
			Collection:           d.config.CollectionName,
			FeatureStoreFilePath: d.config.FeatureStoreFilePath,
			Columns:              t.Columns(),
			Rows:                 res.Rows,
			TrainRows:            res.TrainRows,
			TestRows:             res.TestRows,
			SplitRatio:           d.config.TrainTestSplitRatio,
			Seed:                 d.config.Seed,
			Artifact:             res.Artifact,
		}
		if err := WriteManifest(d.config.ManifestPath, manifest); err != nil {
			return nil, errors.Wrap(err, errors.KindIO, "data ingestion: write manifest")
		}
		res.ManifestPath = d.config.ManifestPath
	}

	res.TotalDuration = d.now().Sub(startTime)
	observeTotal(res.TotalDuration)
	recordRun("success")

	d.logger.Info("ingestion.complete",
		"run_id", runID,
		"documents", res.DocumentsExported,
		"rows", res.Rows,
		"columns", res.Columns,
		"sentinel_replaced", res.SentinelReplaced,
		"train_rows", res.TrainRows,
		"test_rows", res.TestRows,
		"trained_file_path", res.Artifact.TrainedFilePath,
		"test_file_path", res.Artifact.TestFilePath,
		"total_duration_ms", res.TotalDuration.Milliseconds(),
	)
	return res, nil
}
