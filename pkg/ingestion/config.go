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
	"path/filepath"
	"time"

	"github.com/kraklabs/netsec/internal/errors"
)

// Artifact layout defaults.
const (
	DefaultArtifactDir          = "Artifacts"
	DataIngestionDirName        = "data_ingestion"
	FeatureStoreDirName         = "feature_store"
	IngestedDirName             = "ingested"
	DefaultFeatureStoreFileName = "phisingData.csv"
	DefaultTrainFileName        = "train.csv"
	DefaultTestFileName         = "test.csv"
	ManifestFileName            = "artifact.json"

	// TimestampLayout names each run directory (MM_DD_YYYY_HH_MM_SS).
	TimestampLayout = "01_02_2006_15_04_05"

	DefaultSplitRatio      = 0.2
	DefaultMissingSentinel = "na"
)

// Config holds the settings of one ingestion run. It is copied by value
// into every component and never modified after construction.
type Config struct {
	// DatabaseURL addresses the document store (mongodb://, mongodb+srv://
	// or sqlite://).
	DatabaseURL    string
	DatabaseName   string
	CollectionName string

	FeatureStoreFilePath string
	TrainingFilePath     string
	TestingFilePath      string

	// TrainTestSplitRatio is the fraction of rows assigned to the test set.
	TrainTestSplitRatio float64

	// Seed makes the split reproducible. Nil shuffles differently each run.
	Seed *uint64

	// ManifestPath, when set, receives a JSON manifest of the run.
	ManifestPath string

	// ConnectTimeout bounds connecting to the store. Zero uses the store default.
	ConnectTimeout time.Duration

	// MissingSentinel is the cell text treated as a missing value.
	// Empty means DefaultMissingSentinel.
	MissingSentinel string
}

// Validate checks every field except DatabaseURL, which the exporter
// validates when it is constructed.
func (c Config) Validate() error {
	switch {
	case c.DatabaseName == "":
		return errors.New(errors.KindConfig, "database name is empty").
			WithHint("No database was configured for ingestion", "Set database.name in .netsec/pipeline.yaml")
	case c.CollectionName == "":
		return errors.New(errors.KindConfig, "collection name is empty").
			WithHint("No collection was configured for ingestion", "Set database.collection in .netsec/pipeline.yaml")
	case c.FeatureStoreFilePath == "":
		return errors.New(errors.KindConfig, "feature store file path is empty")
	case c.TrainingFilePath == "":
		return errors.New(errors.KindConfig, "training file path is empty")
	case c.TestingFilePath == "":
		return errors.New(errors.KindConfig, "testing file path is empty")
	case !(c.TrainTestSplitRatio > 0 && c.TrainTestSplitRatio < 1):
		return errors.Newf(errors.KindConfig, "train/test split ratio %v is outside (0, 1)", c.TrainTestSplitRatio).
			WithHint("The split ratio is the fraction of rows assigned to the test set", "Set ingestion.split_ratio to a value such as 0.2")
	case c.ConnectTimeout < 0:
		return errors.Newf(errors.KindConfig, "connect timeout %s is negative", c.ConnectTimeout)
	}
	return nil
}

func (c Config) missingSentinel() string {
	if c.MissingSentinel == "" {
		return DefaultMissingSentinel
	}
	return c.MissingSentinel
}

// Layout is the set of output paths of one run:
//
//	<artifact_dir>/<timestamp>/data_ingestion/
//	    feature_store/<feature file>
//	    ingested/<train file>
//	    ingested/<test file>
//	    artifact.json
type Layout struct {
	RunDir               string
	FeatureStoreFilePath string
	TrainingFilePath     string
	TestingFilePath      string
	ManifestPath         string
}

// NewLayout builds the layout for a run started at 'at'. Empty names fall
// back to the defaults.
func NewLayout(artifactDir string, at time.Time, featureFile, trainFile, testFile string) Layout {
	if artifactDir == "" {
		artifactDir = DefaultArtifactDir
	}
	if featureFile == "" {
		featureFile = DefaultFeatureStoreFileName
	}
	if trainFile == "" {
		trainFile = DefaultTrainFileName
	}
	if testFile == "" {
		testFile = DefaultTestFileName
	}

	runDir := filepath.Join(artifactDir, at.Format(TimestampLayout))
	ingestDir := filepath.Join(runDir, DataIngestionDirName)
	return Layout{
		RunDir:               runDir,
		FeatureStoreFilePath: filepath.Join(ingestDir, FeatureStoreDirName, featureFile),
		TrainingFilePath:     filepath.Join(ingestDir, IngestedDirName, trainFile),
		TestingFilePath:      filepath.Join(ingestDir, IngestedDirName, testFile),
		ManifestPath:         filepath.Join(ingestDir, ManifestFileName),
	}
}

// Apply copies the layout paths into c.
func (l Layout) Apply(c Config) Config {
	c.FeatureStoreFilePath = l.FeatureStoreFilePath
	c.TrainingFilePath = l.TrainingFilePath
	c.TestingFilePath = l.TestingFilePath
	c.ManifestPath = l.ManifestPath
	return c
}
