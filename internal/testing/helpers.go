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

package testing

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/kraklabs/netsec/pkg/docstore"
)

// PhishingColumns are the feature columns used by the fixture documents.
var PhishingColumns = []string{
	"having_IP_Address",
	"URL_Length",
	"Shortining_Service",
	"having_At_Symbol",
	"SSLfinal_State",
	"Domain_registeration_length",
	"Result",
}

// SetupTestStore creates a SQLite document store in a temporary directory.
// The store is automatically closed when the test finishes.
//
// Example:
//
//	func TestMyFeature(t *testing.T) {
//	    store := nstesting.SetupTestStore(t)
//	    nstesting.SeedDocuments(t, store, "netsec", "NetworkData", nstesting.PhishingDocuments(10, 0))
//
//	    url := nstesting.StoreURL(store)
//	    // Run your tests...
//	}
func SetupTestStore(t *testing.T) *docstore.SQLiteStore {
	t.Helper()

	store, err := docstore.OpenSQLite(filepath.Join(t.TempDir(), "documents.db"))
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// StoreURL returns the sqlite:// URL that opens store.
func StoreURL(store *docstore.SQLiteStore) string {
	return "sqlite://" + store.Path()
}

// SeedDocuments inserts docs into database.collection.
//
// Example:
//
//	store := nstesting.SetupTestStore(t)
//	nstesting.SeedDocuments(t, store, "netsec", "NetworkData", docs)
func SeedDocuments(t *testing.T, store docstore.Store, database, collection string, docs []docstore.Document) {
	t.Helper()

	n, err := store.InsertMany(context.Background(), database, collection, docs)
	if err != nil {
		t.Fatalf("failed to seed documents: %v", err)
	}
	if n != len(docs) {
		t.Fatalf("seeded %d documents, want %d", n, len(docs))
	}
}

// PhishingDocuments builds n fixture documents over PhishingColumns. When
// naEvery > 0, every naEvery-th document has "na" in its URL_Length field.
// Feature values cycle through -1, 0 and 1.
func PhishingDocuments(n, naEvery int) []docstore.Document {
	docs := make([]docstore.Document, n)
	for i := 0; i < n; i++ {
		doc := make(docstore.Document, 0, len(PhishingColumns))
		for j, col := range PhishingColumns {
			var v any = int64((i+j)%3 - 1)
			if col == "Result" {
				v = int64(1 - 2*(i%2))
			}
			if col == "URL_Length" && naEvery > 0 && i%naEvery == 0 {
				v = "na"
			}
			doc = append(doc, docstore.Field{Key: col, Value: v})
		}
		docs[i] = doc
	}
	return docs
}

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// PhishingCSV renders n fixture rows as CSV text with a header row.
func PhishingCSV(n int) string {
	var b strings.Builder
	b.WriteString(strings.Join(PhishingColumns, ","))
	b.WriteByte('\n')
	for _, doc := range PhishingDocuments(n, 0) {
		vals := make([]string, len(doc))
		for i, f := range doc {
			vals[i] = fmt.Sprint(f.Value)
		}
		b.WriteString(strings.Join(vals, ","))
		b.WriteByte('\n')
	}
	return b.String()
}

// CountCSVRows returns the number of data rows (excluding the header) of
// the CSV file at path. Fields must not contain newlines.
func CountCSVRows(t *testing.T, path string) int {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer f.Close()

	lines := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines++
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	if lines == 0 {
		t.Fatalf("%s has no header row", path)
	}
	return lines - 1
}

// TrackingStore wraps a Store and records Close calls without closing the
// underlying store, so a test can inspect it afterwards.
type TrackingStore struct {
	docstore.Store
	closes atomic.Int32
}

// Close records the call.
func (s *TrackingStore) Close() error {
	s.closes.Add(1)
	return nil
}

// Closes returns how many times Close was called.
func (s *TrackingStore) Closes() int {
	return int(s.closes.Load())
}

// StaticOpener returns an opener that always yields store, ignoring the URL.
// It matches the signature of docstore.Open.
func StaticOpener(store docstore.Store) func(context.Context, string, docstore.Options) (docstore.Store, error) {
	return func(context.Context, string, docstore.Options) (docstore.Store, error) {
		return store, nil
	}
}

// FailingOpener returns an opener that always fails with err.
func FailingOpener(err error) func(context.Context, string, docstore.Options) (docstore.Store, error) {
	return func(context.Context, string, docstore.Options) (docstore.Store, error) {
		return nil, err
	}
}
