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

package ui

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func noColor(t *testing.T) {
	t.Helper()
	original := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = original })
}

func TestInitColors(t *testing.T) {
	original := color.NoColor
	defer func() { color.NoColor = original }()

	color.NoColor = false
	InitColors(false)
	assert.False(t, color.NoColor, "flag unset leaves detection alone")

	InitColors(true)
	assert.True(t, color.NoColor)
}

func TestPrinter_Lines(t *testing.T) {
	noColor(t)
	var out, errOut bytes.Buffer
	p := New(&out, &errOut, false)

	p.Successf("Feature store written (%d rows)", 100)
	p.Warningf("%d cells were %q", 3, "na")
	p.Infof("Connecting")
	p.Errorf("connect failed")

	assert.Equal(t, "✓ Feature store written (100 rows)\n⚠ 3 cells were \"na\"\nℹ Connecting\n", out.String())
	assert.Equal(t, "✗ connect failed\n", errOut.String())
}

func TestPrinter_HeaderAndFields(t *testing.T) {
	noColor(t)
	var out bytes.Buffer
	p := New(&out, &out, false)

	p.Header("Ingestion Summary")
	p.Field("Rows", 100)
	p.PathField("Train", "Artifacts/x/train.csv")
	p.List([]string{"netsec", "admin"})

	want := "Ingestion Summary\n=================\n" +
		"  Rows: 100\n" +
		"  Train: Artifacts/x/train.csv\n" +
		"  - netsec\n  - admin\n"
	assert.Equal(t, want, out.String())
}

func TestPrinter_Quiet(t *testing.T) {
	noColor(t)
	var out, errOut bytes.Buffer
	p := New(&out, &errOut, true)

	p.Successf("done")
	p.Header("Title")
	p.Field("k", "v")
	p.List([]string{"x"})
	p.Errorf("still shown")

	assert.Empty(t, out.String())
	assert.Equal(t, "✗ still shown\n", errOut.String())
}

func TestInlineHelpers(t *testing.T) {
	noColor(t)
	assert.Equal(t, "Database:", Label("Database:"))
	assert.Equal(t, "/tmp/logs", DimText("/tmp/logs"))
	assert.Equal(t, "42", CountText(42))
}
