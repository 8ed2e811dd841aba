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
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/netsec/internal/config"
	"github.com/kraklabs/netsec/internal/errors"
	"github.com/kraklabs/netsec/pkg/ingestion"
)

func TestLoadConfig_DefaultsWhenMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultDatabase, cfg.Database.Name)
}

func TestLoadConfig_ExplicitPathMustExist(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "pipeline.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindNotFound))
}

func TestLoadConfig_ReadsDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg := config.Default()
	cfg.Database.Collection = "Phishing"
	require.NoError(t, cfg.Save(config.DefaultPath(".")))

	loaded, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "Phishing", loaded.Database.Collection)
}

func TestNewIngestSummary(t *testing.T) {
	r := &ingestion.Result{
		RunID:                "run-1",
		Artifact:             ingestion.Artifact{TrainedFilePath: "a/train.csv", TestFilePath: "a/test.csv"},
		FeatureStoreFilePath: "a/phisingData.csv",
		DocumentsExported:    10,
		Rows:                 10,
		Columns:              3,
		SentinelReplaced:     2,
		TrainRows:            8,
		TestRows:             2,
		TotalDuration:        1500 * time.Millisecond,
	}

	s := newIngestSummary(r, "logs/run.log")
	assert.Equal(t, "run-1", s.RunID)
	assert.Equal(t, "a/train.csv", s.TrainedFilePath)
	assert.Equal(t, "a/test.csv", s.TestFilePath)
	assert.Equal(t, 2, s.MissingReplaced)
	assert.Equal(t, 8, s.TrainRows)
	assert.Equal(t, int64(1500), s.DurationMS)
	assert.Empty(t, s.ManifestPath)
}
