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

package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/netsec/pkg/docstore"
)

func sampleDocs() []docstore.Document {
	return []docstore.Document{
		{{Key: "_id", Value: "1"}, {Key: "having_IP_Address", Value: int64(-1)}, {Key: "URL_Length", Value: "na"}},
		{{Key: "_id", Value: "2"}, {Key: "URL_Length", Value: int64(1)}, {Key: "Result", Value: int64(1)}},
		{{Key: "_id", Value: "3"}, {Key: "having_IP_Address", Value: "NA"}},
	}
}

func TestFromDocuments_UnionOfKeysInOrder(t *testing.T) {
	tbl := FromDocuments(sampleDocs())

	assert.Equal(t, []string{"_id", "having_IP_Address", "URL_Length", "Result"}, tbl.Columns())
	rows, cols := tbl.Shape()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 4, cols)

	v, ok := tbl.Value(1, "having_IP_Address")
	assert.True(t, ok)
	assert.Nil(t, v, "absent key becomes the missing marker")

	v, _ = tbl.Value(1, "Result")
	assert.Equal(t, int64(1), v)

	_, ok = tbl.Value(0, "nope")
	assert.False(t, ok)
	_, ok = tbl.Value(7, "Result")
	assert.False(t, ok)
}

func TestFromDocuments_Empty(t *testing.T) {
	tbl := FromDocuments(nil)
	assert.Equal(t, 0, tbl.Len())
	assert.Empty(t, tbl.Columns())
}

func TestTable_DropColumn(t *testing.T) {
	tbl := FromDocuments(sampleDocs())

	assert.True(t, tbl.DropColumn("_id"))
	assert.False(t, tbl.DropColumn("_id"))
	assert.False(t, tbl.HasColumn("_id"))
	assert.Equal(t, []string{"having_IP_Address", "URL_Length", "Result"}, tbl.Columns())

	for i := 0; i < tbl.Len(); i++ {
		assert.Len(t, tbl.Row(i), 3)
	}
	v, _ := tbl.Value(0, "having_IP_Address")
	assert.Equal(t, int64(-1), v)
	v, _ = tbl.Value(1, "Result")
	assert.Equal(t, int64(1), v)
}

func TestTable_ReplaceValue_ExactMatchOnly(t *testing.T) {
	tbl := FromDocuments(sampleDocs())

	n := tbl.ReplaceValue("na")
	assert.Equal(t, 1, n)

	v, _ := tbl.Value(0, "URL_Length")
	assert.Nil(t, v)
	v, _ = tbl.Value(2, "having_IP_Address")
	assert.Equal(t, "NA", v, "only the exact sentinel is replaced")
	v, _ = tbl.Value(1, "URL_Length")
	assert.Equal(t, int64(1), v)
}

func TestTable_Subset(t *testing.T) {
	tbl := FromDocuments(sampleDocs())

	sub, err := tbl.Subset([]int{2, 0})
	require.NoError(t, err)
	assert.Equal(t, 2, sub.Len())
	v, _ := sub.Value(0, "_id")
	assert.Equal(t, "3", v)
	v, _ = sub.Value(1, "_id")
	assert.Equal(t, "1", v)

	sub.Row(0)[0] = "changed"
	v, _ = tbl.Value(2, "_id")
	assert.Equal(t, "3", v, "subset must not alias the source rows")

	_, err = tbl.Subset([]int{3})
	assert.Error(t, err)
}

func TestTable_AppendRowAndDocuments(t *testing.T) {
	tbl, err := New([]string{"a", "b"})
	require.NoError(t, err)

	require.NoError(t, tbl.AppendRow([]any{int64(1), nil}))
	assert.Error(t, tbl.AppendRow([]any{int64(1)}))

	docs := tbl.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, []string{"a", "b"}, docs[0].Keys())
	v, ok := docs[0].Get("b")
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestNew_DuplicateColumn(t *testing.T) {
	_, err := New([]string{"a", "a"})
	assert.Error(t, err)
}

func TestLen_NilTable(t *testing.T) {
	var tbl *Table
	assert.Equal(t, 0, tbl.Len())
}
