// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package output

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/netsec/internal/errors"
)

// TestJSONTo verifies indented output with a trailing newline.
func TestJSONTo(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]any{"run_id": "r1", "rows": 100}

	require.NoError(t, JSONTo(&buf, data))

	out := buf.String()
	assert.Contains(t, out, "  \"rows\": 100")
	assert.Contains(t, out, `"run_id": "r1"`)
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

// TestJSONLine verifies single-line output.
func TestJSONLine(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONLine(&buf, map[string]int{"inserted": 10, "total": 25}))
	assert.Equal(t, "{\"inserted\":10,\"total\":25}\n", buf.String())
}

func TestJSONTo_Unencodable(t *testing.T) {
	var buf bytes.Buffer
	err := JSONTo(&buf, map[string]any{"ch": make(chan int)})
	assert.Error(t, err)
}

func TestJSONErrorTo_Tagged(t *testing.T) {
	var buf bytes.Buffer
	inner := errors.New(errors.KindData, "no documents found").WithHint("empty collection", "run netsec push")
	wrapped := fmt.Errorf("ingest: %w", inner)

	require.NoError(t, JSONErrorTo(&buf, wrapped))

	var got errors.ErrorJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "data", got.Kind)
	assert.Equal(t, errors.ExitData, got.ExitCode)
	assert.Equal(t, "run netsec push", got.Fix)
	assert.NotEmpty(t, got.Where)
}

func TestJSONErrorTo_Plain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONErrorTo(&buf, stderrors.New("boom")))

	var got errors.ErrorJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "boom", got.Error)
	assert.Equal(t, "internal", got.Kind)
	assert.Equal(t, errors.ExitInternal, got.ExitCode)
}
