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

// Package docstore provides access to the document database the ingestion
// pipeline reads from and the push command writes to.
//
// Three implementations share the Store interface:
//   - MongoStore: MongoDB via the official driver (mongodb://, mongodb+srv://)
//   - SQLiteStore: an embedded document table for local runs (sqlite://<path>)
//   - MemoryStore: in-process, for tests
//
// Open selects an implementation from the URL scheme:
//
//	store, err := docstore.Open(ctx, os.Getenv("MONGO_DB_URL"), docstore.Options{
//	    ConnectTimeout: 5 * time.Second,
//	})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	docs, err := store.Find(ctx, "netsec", "NetworkData")
package docstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// DefaultConnectTimeout bounds connection and server selection.
const DefaultConnectTimeout = 5 * time.Second

var (
	// ErrEmptyURL is returned by Open when no connection URL is configured.
	ErrEmptyURL = errors.New("document store url is empty")

	// ErrNoDocuments is returned by FindOne on an empty collection.
	ErrNoDocuments = errors.New("no documents in collection")
)

// Store is the interface all document store backends implement.
type Store interface {
	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// ListDatabases returns the database names, sorted.
	ListDatabases(ctx context.Context) ([]string, error)

	// ListCollections returns the collection names of a database, sorted.
	ListCollections(ctx context.Context, database string) ([]string, error)

	// Count returns the number of documents in a collection.
	Count(ctx context.Context, database, collection string) (int64, error)

	// Find returns every document of a collection in natural order.
	Find(ctx context.Context, database, collection string) ([]Document, error)

	// FindOne returns the first document of a collection or ErrNoDocuments.
	FindOne(ctx context.Context, database, collection string) (Document, error)

	// InsertMany inserts docs and returns the number inserted. Documents
	// without an IDField get one assigned by the store.
	InsertMany(ctx context.Context, database, collection string, docs []Document) (int, error)

	// Close releases the connection.
	Close() error
}

// Options configures Open.
type Options struct {
	// ConnectTimeout bounds connecting and server selection.
	// Zero means DefaultConnectTimeout.
	ConnectTimeout time.Duration
}

func (o Options) connectTimeout() time.Duration {
	if o.ConnectTimeout <= 0 {
		return DefaultConnectTimeout
	}
	return o.ConnectTimeout
}

// Scheme names the store backends Open understands.
type Scheme string

const (
	SchemeMongo  Scheme = "mongodb"
	SchemeSQLite Scheme = "sqlite"
)

// ParseScheme returns the backend for rawURL.
func ParseScheme(rawURL string) (Scheme, error) {
	switch {
	case rawURL == "":
		return "", ErrEmptyURL
	case strings.HasPrefix(rawURL, "mongodb://"), strings.HasPrefix(rawURL, "mongodb+srv://"):
		return SchemeMongo, nil
	case strings.HasPrefix(rawURL, "sqlite://"):
		return SchemeSQLite, nil
	default:
		return "", fmt.Errorf("unsupported document store url %q (want mongodb://, mongodb+srv:// or sqlite://)", RedactURL(rawURL))
	}
}

// Open connects to the store addressed by rawURL.
func Open(ctx context.Context, rawURL string, opts Options) (Store, error) {
	scheme, err := ParseScheme(rawURL)
	if err != nil {
		return nil, err
	}

	switch scheme {
	case SchemeMongo:
		return OpenMongo(ctx, rawURL, opts)
	case SchemeSQLite:
		return OpenSQLite(strings.TrimPrefix(rawURL, "sqlite://"))
	}
	return nil, fmt.Errorf("unsupported scheme %q", scheme)
}

// RedactURL hides the password of a connection URL for logging.
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.User == nil {
		return rawURL
	}
	return u.Redacted()
}
