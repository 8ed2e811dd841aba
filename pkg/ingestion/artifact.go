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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Artifact is the output of a successful ingestion run: the paths of the
// training and testing files for the next pipeline stage.
type Artifact struct {
	TrainedFilePath string `json:"trained_file_path"`
	TestFilePath    string `json:"test_file_path"`
}

// Manifest describes a finished run. It is written next to the ingested
// files so later stages can locate them without re-running ingestion.
type Manifest struct {
	RunID                string   `json:"run_id"`
	CreatedAt            string   `json:"created_at"`
	Database             string   `json:"database"`
	Collection           string   `json:"collection"`
	FeatureStoreFilePath string   `json:"feature_store_file_path"`
	Columns              []string `json:"columns"`
	Rows                 int      `json:"rows"`
	TrainRows            int      `json:"train_rows"`
	TestRows             int      `json:"test_rows"`
	SplitRatio           float64  `json:"split_ratio"`
	Seed                 *uint64  `json:"seed,omitempty"`
	Artifact             Artifact `json:"artifact"`
}

// WriteManifest saves m to path atomically, creating parent directories.
func WriteManifest(path string, m *Manifest) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create manifest dir: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	// Write atomically (temp file + rename)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write manifest temp: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename manifest: %w", err)
	}
	return nil
}

// LoadManifest reads a manifest written by WriteManifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}
