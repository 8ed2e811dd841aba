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

package docstore

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/kraklabs/netsec/pkg/docstore/migrations"
)

// SQLiteStore implements Store on a single SQLite file. Each document is a
// JSON row keyed by database, collection and identifier.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) the store at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite store path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.migrate(migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Ping verifies the database file is usable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ListDatabases returns the database names that hold documents.
func (s *SQLiteStore) ListDatabases(ctx context.Context) ([]string, error) {
	return s.queryStrings(ctx, `SELECT DISTINCT db_name FROM documents ORDER BY db_name`)
}

// ListCollections returns the collection names of a database.
func (s *SQLiteStore) ListCollections(ctx context.Context, database string) ([]string, error) {
	return s.queryStrings(ctx, `SELECT DISTINCT coll_name FROM documents WHERE db_name = ? ORDER BY coll_name`, database)
}

// Count returns the number of documents in a collection.
func (s *SQLiteStore) Count(ctx context.Context, database, collection string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE db_name = ? AND coll_name = ?`,
		database, collection,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s.%s: %w", database, collection, err)
	}
	return n, nil
}

// Find returns every document of a collection in insertion order.
func (s *SQLiteStore) Find(ctx context.Context, database, collection string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT body FROM documents WHERE db_name = ? AND coll_name = ? ORDER BY seq`,
		database, collection,
	)
	if err != nil {
		return nil, fmt.Errorf("find %s.%s: %w", database, collection, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		var doc Document
		if err := json.Unmarshal([]byte(body), &doc); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s.%s: %w", database, collection, err)
	}
	return docs, nil
}

// FindOne returns the first inserted document of a collection.
func (s *SQLiteStore) FindOne(ctx context.Context, database, collection string) (Document, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE db_name = ? AND coll_name = ? ORDER BY seq LIMIT 1`,
		database, collection,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoDocuments
	}
	if err != nil {
		return nil, fmt.Errorf("find one %s.%s: %w", database, collection, err)
	}

	var doc Document
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

// InsertMany inserts docs in a single transaction.
func (s *SQLiteStore) InsertMany(ctx context.Context, database, collection string, docs []Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO documents (db_name, coll_name, doc_id, body) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, d := range docs {
		doc := withID(d)
		id, _ := doc.Get(IDField)
		body, err := json.Marshal(doc)
		if err != nil {
			return 0, fmt.Errorf("encode document %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, database, collection, fmt.Sprint(id), string(body)); err != nil {
			return 0, fmt.Errorf("insert document %d into %s.%s: %w", i, database, collection, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert: %w", err)
	}
	return len(docs), nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// migrate runs all pending migrations.
func (s *SQLiteStore) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// withID returns doc with an IDField, generating one when absent.
func withID(doc Document) Document {
	if _, ok := doc.Get(IDField); ok {
		return doc
	}
	out := make(Document, 0, len(doc)+1)
	out = append(out, Field{Key: IDField, Value: uuid.NewString()})
	return append(out, doc...)
}
