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
	"log/slog"

	"github.com/kraklabs/netsec/internal/errors"
	"github.com/kraklabs/netsec/pkg/table"
)

// FeatureStoreWriter persists the raw dataset to the feature store file.
type FeatureStoreWriter struct {
	path   string
	logger *slog.Logger
}

// NewFeatureStoreWriter creates a writer targeting path.
func NewFeatureStoreWriter(path string, logger *slog.Logger) *FeatureStoreWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeatureStoreWriter{path: path, logger: logger}
}

// ExportIntoFeatureStore writes t as CSV (header, no index) and returns t
// unchanged. Parent directories are created; an existing file is replaced.
func (w *FeatureStoreWriter) ExportIntoFeatureStore(t *table.Table) (*table.Table, error) {
	if t == nil {
		return nil, errors.New(errors.KindConfig, "feature store: table is nil")
	}

	if err := t.WriteCSVFile(w.path); err != nil {
		return nil, errors.Wrapf(err, errors.KindIO, "write feature store %s", w.path)
	}
	recordRowsWritten("feature_store", t.Len())

	w.logger.Info("ingestion.feature_store.written", "path", w.path, "rows", t.Len())
	return t, nil
}
