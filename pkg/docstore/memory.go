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
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is an in-process Store. It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]map[string][]Document
	closed bool

	// PingErr, when set, is returned by Ping and every query.
	PingErr error
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string][]Document)}
}

// Ping reports PingErr or a closed store.
func (m *MemoryStore) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.check(ctx)
}

// ListDatabases returns the database names.
func (m *MemoryStore) ListDatabases(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(m.data))
	for name := range m.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ListCollections returns the collection names of a database.
func (m *MemoryStore) ListCollections(ctx context.Context, database string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(m.data[database]))
	for name := range m.data[database] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Count returns the number of documents in a collection.
func (m *MemoryStore) Count(ctx context.Context, database, collection string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check(ctx); err != nil {
		return 0, err
	}
	return int64(len(m.data[database][collection])), nil
}

// Find returns copies of every document of a collection.
func (m *MemoryStore) Find(ctx context.Context, database, collection string) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	src := m.data[database][collection]
	out := make([]Document, len(src))
	for i, d := range src {
		out[i] = d.Clone()
	}
	return out, nil
}

// FindOne returns the first document of a collection.
func (m *MemoryStore) FindOne(ctx context.Context, database, collection string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	src := m.data[database][collection]
	if len(src) == 0 {
		return nil, ErrNoDocuments
	}
	return src[0].Clone(), nil
}

// InsertMany appends docs, assigning identifiers where missing.
func (m *MemoryStore) InsertMany(ctx context.Context, database, collection string, docs []Document) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(ctx); err != nil {
		return 0, err
	}
	if m.data[database] == nil {
		m.data[database] = make(map[string][]Document)
	}
	for _, d := range docs {
		m.data[database][collection] = append(m.data[database][collection], withID(d.Clone()))
	}
	return len(docs), nil
}

// Close marks the store closed.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *MemoryStore) check(ctx context.Context) error {
	if m.closed {
		return fmt.Errorf("memory store is closed")
	}
	if m.PingErr != nil {
		return m.PingErr
	}
	return ctx.Err()
}
