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

// Package table holds the in-memory tabular dataset built from a document
// collection: ordered columns, rows aligned to them, and a missing marker
// (nil) for absent values. It reads and writes the CSV layout used by the
// feature store and the train/test files: one header row, no index column.
package table

import (
	"fmt"

	"github.com/kraklabs/netsec/pkg/docstore"
)

// Table is a rectangular dataset. The zero value is an empty table with no
// columns; use New or FromDocuments to build one.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]any
}

// New creates an empty table with the given columns.
func New(columns []string) (*Table, error) {
	t := &Table{index: make(map[string]int, len(columns))}
	for _, c := range columns {
		if _, dup := t.index[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		t.index[c] = len(t.columns)
		t.columns = append(t.columns, c)
	}
	return t, nil
}

// FromDocuments builds a table whose columns are the union of document keys
// in first-appearance order. Keys absent from a document become nil cells.
func FromDocuments(docs []docstore.Document) *Table {
	t := &Table{index: make(map[string]int)}
	for _, d := range docs {
		for _, f := range d {
			if _, ok := t.index[f.Key]; !ok {
				t.index[f.Key] = len(t.columns)
				t.columns = append(t.columns, f.Key)
			}
		}
	}

	t.rows = make([][]any, len(docs))
	for i, d := range docs {
		row := make([]any, len(t.columns))
		for _, f := range d {
			row[t.index[f.Key]] = f.Value
		}
		t.rows[i] = row
	}
	return t
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// HasColumn reports whether name is a column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Shape returns the row and column counts.
func (t *Table) Shape() (rows, cols int) {
	return len(t.rows), len(t.columns)
}

// Row returns row i. The slice is shared with the table.
func (t *Table) Row(i int) []any {
	return t.rows[i]
}

// Value returns the cell at row i, column col.
func (t *Table) Value(i int, col string) (any, bool) {
	j, ok := t.index[col]
	if !ok || i < 0 || i >= len(t.rows) {
		return nil, false
	}
	return t.rows[i][j], true
}

// AppendRow adds a row. values must match the column count.
func (t *Table) AppendRow(values []any) error {
	if len(values) != len(t.columns) {
		return fmt.Errorf("row has %d values, table has %d columns", len(values), len(t.columns))
	}
	row := make([]any, len(values))
	copy(row, values)
	t.rows = append(t.rows, row)
	return nil
}

// DropColumn removes a column and reports whether it existed.
func (t *Table) DropColumn(name string) bool {
	j, ok := t.index[name]
	if !ok {
		return false
	}

	t.columns = append(t.columns[:j:j], t.columns[j+1:]...)
	for i, row := range t.rows {
		t.rows[i] = append(row[:j:j], row[j+1:]...)
	}

	t.index = make(map[string]int, len(t.columns))
	for k, c := range t.columns {
		t.index[c] = k
	}
	return true
}

// ReplaceValue sets every cell holding exactly the string old to nil and
// returns how many cells changed. Other cells are left untouched.
func (t *Table) ReplaceValue(old string) int {
	n := 0
	for _, row := range t.rows {
		for j, v := range row {
			if s, ok := v.(string); ok && s == old {
				row[j] = nil
				n++
			}
		}
	}
	return n
}

// Subset returns a new table holding the given rows in the given order.
// Rows are copied; the result does not alias t.
func (t *Table) Subset(indices []int) (*Table, error) {
	out, err := New(t.columns)
	if err != nil {
		return nil, err
	}
	out.rows = make([][]any, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(t.rows) {
			return nil, fmt.Errorf("row index %d out of range [0,%d)", i, len(t.rows))
		}
		row := make([]any, len(t.columns))
		copy(row, t.rows[i])
		out.rows = append(out.rows, row)
	}
	return out, nil
}

// Documents converts rows back into documents, one per row, keys in column
// order. Missing cells become nil values.
func (t *Table) Documents() []docstore.Document {
	docs := make([]docstore.Document, len(t.rows))
	for i, row := range t.rows {
		doc := make(docstore.Document, len(t.columns))
		for j, c := range t.columns {
			doc[j] = docstore.Field{Key: c, Value: row[j]}
		}
		docs[i] = doc
	}
	return docs
}
