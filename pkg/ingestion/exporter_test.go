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
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/netsec/internal/errors"
	nstesting "github.com/kraklabs/netsec/internal/testing"
	"github.com/kraklabs/netsec/pkg/docstore"
)

func TestNewExporter_URLValidation(t *testing.T) {
	cfg := validConfig()

	cfg.DatabaseURL = ""
	_, err := NewExporter(cfg, nil)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindConfig))

	cfg.DatabaseURL = "redis://localhost"
	_, err = NewExporter(cfg, nil)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindConfig))

	cfg.DatabaseURL = "mongodb+srv://user:pw@cluster0.example.net"
	_, err = NewExporter(cfg, nil)
	assert.NoError(t, err)
}

func TestExporter_ExportCollectionAsTable(t *testing.T) {
	store := nstesting.SetupTestStore(t)
	nstesting.SeedDocuments(t, store, "netsec", "NetworkData", nstesting.PhishingDocuments(30, 3))

	cfg := validConfig()
	cfg.DatabaseURL = nstesting.StoreURL(store)

	e, err := NewExporter(cfg, nil)
	require.NoError(t, err)

	tbl, stats, err := e.export(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 30, tbl.Len())
	assert.False(t, tbl.HasColumn(docstore.IDField))
	assert.Equal(t, nstesting.PhishingColumns, tbl.Columns())
	assert.True(t, stats.droppedID)
	assert.Equal(t, 30, stats.documents)
	assert.Equal(t, 10, stats.replaced)

	for i := 0; i < tbl.Len(); i++ {
		for _, v := range tbl.Row(i) {
			assert.NotEqual(t, "na", v)
		}
	}
	v, _ := tbl.Value(0, "URL_Length")
	assert.Nil(t, v)
	v, _ = tbl.Value(1, "URL_Length")
	assert.Equal(t, int64(1), v)
}

func TestExporter_EmptyCollection(t *testing.T) {
	cfg := validConfig()
	tracked := &nstesting.TrackingStore{Store: docstore.NewMemoryStore()}

	e, err := NewExporter(cfg, nil, WithStoreOpener(nstesting.StaticOpener(tracked)))
	require.NoError(t, err)

	tbl, err := e.ExportCollectionAsTable(context.Background())
	require.Error(t, err)
	assert.Nil(t, tbl)
	assert.True(t, errors.IsKind(err, errors.KindData))
	assert.Contains(t, err.Error(), `no documents found in collection "NetworkData" of database "netsec"`)
	assert.Equal(t, 1, tracked.Closes(), "connection released on failure")
}

func TestExporter_ConnectionFailure(t *testing.T) {
	cfg := validConfig()
	e, err := NewExporter(cfg, nil, WithStoreOpener(nstesting.FailingOpener(stderrors.New("server selection timeout"))))
	require.NoError(t, err)

	_, err = e.ExportCollectionAsTable(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindNetwork))
	assert.Contains(t, err.Error(), "server selection timeout")
}

func TestExporter_QueryFailure(t *testing.T) {
	mem := docstore.NewMemoryStore()
	mem.PingErr = stderrors.New("auth failed")
	tracked := &nstesting.TrackingStore{Store: mem}

	e, err := NewExporter(validConfig(), nil, WithStoreOpener(nstesting.StaticOpener(tracked)))
	require.NoError(t, err)

	_, err = e.ExportCollectionAsTable(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindNetwork))
	assert.Equal(t, 1, tracked.Closes())
}

func TestExporter_ClosesOnSuccess(t *testing.T) {
	mem := docstore.NewMemoryStore()
	nstesting.SeedDocuments(t, mem, "netsec", "NetworkData", nstesting.PhishingDocuments(3, 0))
	tracked := &nstesting.TrackingStore{Store: mem}

	e, err := NewExporter(validConfig(), nil, WithStoreOpener(nstesting.StaticOpener(tracked)))
	require.NoError(t, err)

	tbl, err := e.ExportCollectionAsTable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, 1, tracked.Closes())
}
