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

package push

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/netsec/internal/errors"
	nstesting "github.com/kraklabs/netsec/internal/testing"
	"github.com/kraklabs/netsec/pkg/docstore"
)

func pushConfig(url, file string) Config {
	return Config{
		DatabaseURL:    url,
		DatabaseName:   "netsec",
		CollectionName: "NetworkData",
		FilePath:       file,
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no url", func(c *Config) { c.DatabaseURL = "" }},
		{"bad scheme", func(c *Config) { c.DatabaseURL = "http://localhost" }},
		{"no database", func(c *Config) { c.DatabaseName = "" }},
		{"no collection", func(c *Config) { c.CollectionName = "" }},
		{"no file", func(c *Config) { c.FilePath = "" }},
		{"negative batch", func(c *Config) { c.BatchSize = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := pushConfig("sqlite://x.db", "data.csv")
			tt.mutate(&cfg)
			_, err := New(cfg, nil)
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, errors.KindConfig))
		})
	}
}

func TestCSVToDocuments(t *testing.T) {
	path := nstesting.WriteFile(t, t.TempDir(), "phisingData.csv",
		"having_IP_Address,URL_Length,Result\n-1,,1\n1,0.5,na\n")

	docs, err := CSVToDocuments(path)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, []string{"having_IP_Address", "URL_Length", "Result"}, docs[0].Keys())
	v, _ := docs[0].Get("having_IP_Address")
	assert.Equal(t, int64(-1), v)
	v, ok := docs[0].Get("URL_Length")
	assert.True(t, ok)
	assert.Nil(t, v, "empty cell is stored as null")
	v, _ = docs[1].Get("URL_Length")
	assert.Equal(t, 0.5, v)
	v, _ = docs[1].Get("Result")
	assert.Equal(t, "na", v)
}

func TestCSVToDocuments_Errors(t *testing.T) {
	_, err := CSVToDocuments(filepath.Join(t.TempDir(), "missing.csv"))
	assert.True(t, errors.IsKind(err, errors.KindNotFound))

	bad := nstesting.WriteFile(t, t.TempDir(), "bad.csv", "a,b\n1,2,3\n")
	_, err = CSVToDocuments(bad)
	assert.True(t, errors.IsKind(err, errors.KindData))
}

func TestPusher_Push_SQLite(t *testing.T) {
	store := nstesting.SetupTestStore(t)
	file := nstesting.WriteFile(t, t.TempDir(), "phisingData.csv", nstesting.PhishingCSV(25))

	cfg := pushConfig(nstesting.StoreURL(store), file)
	cfg.BatchSize = 10

	var calls [][2]int
	p, err := New(cfg, nil, WithProgress(func(inserted, total int) {
		calls = append(calls, [2]int{inserted, total})
	}))
	require.NoError(t, err)

	pushMetrics.init()
	before := testutil.ToFloat64(pushMetrics.docsPushed)

	res, err := p.Push(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 25, res.Records)
	assert.Equal(t, 25, res.Inserted)
	assert.Equal(t, 3, res.Batches)
	assert.Equal(t, [][2]int{{10, 25}, {20, 25}, {25, 25}}, calls)
	assert.Equal(t, before+25, testutil.ToFloat64(pushMetrics.docsPushed))

	n, err := store.Count(context.Background(), "netsec", "NetworkData")
	require.NoError(t, err)
	assert.Equal(t, int64(25), n)

	doc, err := store.FindOne(context.Background(), "netsec", "NetworkData")
	require.NoError(t, err)
	assert.Equal(t, append([]string{docstore.IDField}, nstesting.PhishingColumns...), doc.Keys())
}

func TestPusher_Push_PingFailure(t *testing.T) {
	mem := docstore.NewMemoryStore()
	mem.PingErr = stderrors.New("server selection timeout")
	tracked := &nstesting.TrackingStore{Store: mem}
	file := nstesting.WriteFile(t, t.TempDir(), "data.csv", nstesting.PhishingCSV(3))

	p, err := New(pushConfig("mongodb://localhost", file), nil, WithStoreOpener(nstesting.StaticOpener(tracked)))
	require.NoError(t, err)

	_, err = p.Push(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindNetwork))
	assert.Equal(t, 1, tracked.Closes())
}

func TestPusher_Push_ConnectFailure(t *testing.T) {
	file := nstesting.WriteFile(t, t.TempDir(), "data.csv", nstesting.PhishingCSV(3))
	p, err := New(pushConfig("mongodb://localhost", file), nil,
		WithStoreOpener(nstesting.FailingOpener(stderrors.New("dial tcp: connection refused"))))
	require.NoError(t, err)

	_, err = p.Push(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindNetwork))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestPusher_Push_SkipPing(t *testing.T) {
	mem := docstore.NewMemoryStore()
	file := nstesting.WriteFile(t, t.TempDir(), "data.csv", nstesting.PhishingCSV(4))

	cfg := pushConfig("mongodb://localhost", file)
	cfg.SkipPing = true
	p, err := New(cfg, nil, WithStoreOpener(nstesting.StaticOpener(&nstesting.TrackingStore{Store: mem})))
	require.NoError(t, err)

	res, err := p.Push(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, res.Inserted)
	assert.Equal(t, 1, res.Batches)
}
