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

	"github.com/kraklabs/netsec/internal/errors"
	"github.com/kraklabs/netsec/pkg/docstore"
	"github.com/kraklabs/netsec/pkg/table"
)

// StoreOpener connects to a document store. docstore.Open is the default.
type StoreOpener func(ctx context.Context, url string, opts docstore.Options) (docstore.Store, error)

// Option customizes the components built by this package.
type Option func(*options)

type options struct {
	open StoreOpener
}

// WithStoreOpener replaces docstore.Open, e.g. to inject a MemoryStore.
func WithStoreOpener(open StoreOpener) Option {
	return func(o *options) { o.open = open }
}

func buildOptions(opts []Option) options {
	o := options{open: docstore.Open}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Exporter reads a whole collection into a table.
type Exporter struct {
	config Config
	open   StoreOpener
	logger *slog.Logger
}

// exportStats describes what an export read and cleaned.
type exportStats struct {
	documents int
	replaced  int
	droppedID bool
}

// NewExporter validates the connection URL and returns an exporter.
func NewExporter(config Config, logger *slog.Logger, opts ...Option) (*Exporter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if config.DatabaseURL == "" {
		return nil, errors.New(errors.KindConfig, "document store url is empty").
			WithHint("No connection URL was configured and the URL environment variable is unset",
				"Set MONGO_DB_URL (or database.url in .netsec/pipeline.yaml)")
	}
	if _, err := docstore.ParseScheme(config.DatabaseURL); err != nil {
		return nil, errors.Wrap(err, errors.KindConfig, "invalid document store url")
	}

	o := buildOptions(opts)
	return &Exporter{config: config, open: o.open, logger: logger}, nil
}

// ExportCollectionAsTable fetches every document of the configured
// collection, drops the identifier column and replaces the missing sentinel
// with nil. An empty collection is an error. The connection is closed
// before returning.
func (e *Exporter) ExportCollectionAsTable(ctx context.Context) (*table.Table, error) {
	t, _, err := e.export(ctx)
	return t, err
}

func (e *Exporter) export(ctx context.Context) (*table.Table, exportStats, error) {
	var stats exportStats
	db, coll := e.config.DatabaseName, e.config.CollectionName

	e.logger.Info("ingestion.export.start",
		"database", db,
		"collection", coll,
		"url", docstore.RedactURL(e.config.DatabaseURL),
	)

	store, err := e.open(ctx, e.config.DatabaseURL, docstore.Options{ConnectTimeout: e.config.ConnectTimeout})
	if err != nil {
		return nil, stats, errors.Wrap(err, errors.KindNetwork, "connect to document store")
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			e.logger.Warn("ingestion.export.close.error", "err", cerr)
		}
	}()

	count, err := store.Count(ctx, db, coll)
	if err != nil {
		return nil, stats, errors.Wrapf(err, errors.KindNetwork, "count documents in %s.%s", db, coll)
	}
	e.logger.Info("ingestion.export.count", "documents", count)

	if count == 0 {
		return nil, stats, errors.Newf(errors.KindData, "no documents found in collection %q of database %q", coll, db).
			WithHint("The collection exists but holds no documents, or the names are misspelled",
				"Load data with: netsec push --file <data.csv>")
	}

	docs, err := store.Find(ctx, db, coll)
	if err != nil {
		return nil, stats, errors.Wrapf(err, errors.KindNetwork, "fetch documents from %s.%s", db, coll)
	}
	stats.documents = len(docs)

	t := table.FromDocuments(docs)
	rows, cols := t.Shape()
	e.logger.Info("ingestion.export.table", "rows", rows, "columns", cols)

	if t.DropColumn(docstore.IDField) {
		stats.droppedID = true
		e.logger.Debug("ingestion.export.drop_id", "columns", t.Columns())
	}

	stats.replaced = t.ReplaceValue(e.config.missingSentinel())
	recordExported(stats.documents, stats.replaced)

	e.logger.Info("ingestion.export.complete",
		"rows", t.Len(),
		"columns", len(t.Columns()),
		"sentinel", e.config.missingSentinel(),
		"replaced", stats.replaced,
	)
	return t, stats, nil
}
