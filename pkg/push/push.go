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

// Package push loads a CSV file into the document store so the ingestion
// pipeline has a collection to read.
//
// Each CSV row becomes one document whose keys follow the header order.
// Fields are typed by table.ParseCell: integers, then floats, then
// booleans, with empty cells stored as null. Documents are inserted in
// batches; a failed batch stops the run.
package push

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/kraklabs/netsec/internal/errors"
	"github.com/kraklabs/netsec/pkg/docstore"
	"github.com/kraklabs/netsec/pkg/table"
)

// Batch defaults.
const (
	DefaultBatchSize     = 1000
	DefaultMaxBatchBytes = 16 * 1024 * 1024
)

// Config describes one push.
type Config struct {
	DatabaseURL    string
	DatabaseName   string
	CollectionName string
	FilePath       string

	// BatchSize is the number of documents per insert. Zero uses DefaultBatchSize.
	BatchSize int

	// MaxBatchBytes caps the encoded size of a batch. Zero uses DefaultMaxBatchBytes.
	MaxBatchBytes int

	ConnectTimeout time.Duration

	// SkipPing disables the connectivity check before inserting.
	SkipPing bool
}

// Result summarizes a push.
type Result struct {
	Records  int
	Inserted int
	Batches  int
	Duration time.Duration
}

// ProgressFunc is called after every batch with the running and total counts.
type ProgressFunc func(inserted, total int)

// StoreOpener connects to a document store. docstore.Open is the default.
type StoreOpener func(ctx context.Context, url string, opts docstore.Options) (docstore.Store, error)

// Option customizes a Pusher.
type Option func(*Pusher)

// WithStoreOpener replaces docstore.Open.
func WithStoreOpener(open StoreOpener) Option {
	return func(p *Pusher) { p.open = open }
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Pusher) { p.progress = fn }
}

// Pusher inserts CSV rows into a collection.
type Pusher struct {
	config   Config
	open     StoreOpener
	progress ProgressFunc
	logger   *slog.Logger
}

// New validates config and returns a Pusher.
func New(config Config, logger *slog.Logger, opts ...Option) (*Pusher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch {
	case config.DatabaseURL == "":
		return nil, errors.New(errors.KindConfig, "document store url is empty").
			WithHint("No connection URL was configured and the URL environment variable is unset",
				"Set MONGO_DB_URL (or database.url in .netsec/pipeline.yaml)")
	case config.DatabaseName == "":
		return nil, errors.New(errors.KindConfig, "database name is empty")
	case config.CollectionName == "":
		return nil, errors.New(errors.KindConfig, "collection name is empty")
	case config.FilePath == "":
		return nil, errors.New(errors.KindConfig, "csv file path is empty").
			WithHint("push needs a CSV file to load", "Pass --file <path> or set push.file in .netsec/pipeline.yaml")
	case config.BatchSize < 0:
		return nil, errors.Newf(errors.KindConfig, "batch size %d is negative", config.BatchSize)
	}
	if _, err := docstore.ParseScheme(config.DatabaseURL); err != nil {
		return nil, errors.Wrap(err, errors.KindConfig, "invalid document store url")
	}

	p := &Pusher{config: config, open: docstore.Open, logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// CSVToDocuments reads a CSV file and converts every row into a document.
func CSVToDocuments(path string) ([]docstore.Document, error) {
	t, err := table.ReadCSVFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrapf(err, errors.KindNotFound, "csv file %s not found", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.KindData, "parse csv file %s", path)
	}
	return t.Documents(), nil
}

// Push reads the CSV file and inserts its rows. The connection is pinged
// first unless SkipPing is set, and closed before returning.
func (p *Pusher) Push(ctx context.Context) (res *Result, err error) {
	start := time.Now()
	defer func() {
		if err != nil {
			recordFailure()
			p.logger.Error("push.failed", "err", err)
		}
	}()

	p.logger.Info("push.start",
		"file", p.config.FilePath,
		"database", p.config.DatabaseName,
		"collection", p.config.CollectionName,
		"url", docstore.RedactURL(p.config.DatabaseURL),
	)

	docs, err := CSVToDocuments(p.config.FilePath)
	if err != nil {
		return nil, err
	}
	p.logger.Info("push.csv.converted", "records", len(docs))

	batches, err := NewBatcher(p.config.BatchSize, p.config.MaxBatchBytes).Batch(docs)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindData, "split documents into batches")
	}

	store, err := p.open(ctx, p.config.DatabaseURL, docstore.Options{ConnectTimeout: p.config.ConnectTimeout})
	if err != nil {
		return nil, errors.Wrap(err, errors.KindNetwork, "connect to document store")
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			p.logger.Warn("push.close.error", "err", cerr)
		}
	}()

	if !p.config.SkipPing {
		if err := store.Ping(ctx); err != nil {
			return nil, errors.WrapWithHint(err, errors.KindNetwork, "ping document store",
				"The document store did not answer within the connect timeout",
				"Check MONGO_DB_URL, network access and IP allow-lists")
		}
		p.logger.Info("push.ping.ok")
	}

	res = &Result{Records: len(docs)}
	for i, batch := range batches {
		n, err := store.InsertMany(ctx, p.config.DatabaseName, p.config.CollectionName, batch)
		if err != nil {
			return nil, errors.Wrapf(err, errors.KindNetwork, "insert batch %d of %d (%d documents already inserted)", i+1, len(batches), res.Inserted)
		}
		res.Inserted += n
		res.Batches++
		recordBatch(n)
		p.logger.Debug("push.batch.inserted", "batch", i+1, "documents", n, "inserted", res.Inserted)
		if p.progress != nil {
			p.progress(res.Inserted, len(docs))
		}
	}

	res.Duration = time.Since(start)
	observeDuration(res.Duration)
	p.logger.Info("push.complete",
		"records", res.Records,
		"inserted", res.Inserted,
		"batches", res.Batches,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}
