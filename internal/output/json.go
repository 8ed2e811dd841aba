// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package output writes machine-readable results for --json mode.
//
// Results go to stdout as indented JSON; errors go to stderr as a JSON
// object carrying the error kind and exit code so scripts can branch on
// them without parsing text:
//
//	{
//	  "error": "no documents found in collection \"NetworkData\" of database \"netsec\"",
//	  "kind": "data",
//	  "exit_code": 4
//	}
package output

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/kraklabs/netsec/internal/errors"
)

// JSON writes data to stdout as indented JSON.
func JSON(data any) error {
	return JSONTo(os.Stdout, data)
}

// JSONTo writes data to w as indented JSON followed by a newline.
func JSONTo(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("JSON encoding failed: %w", err)
	}
	return nil
}

// JSONLine writes data to w as a single line of JSON, for streaming
// progress events.
func JSONLine(w io.Writer, data any) error {
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("JSON encoding failed: %w", err)
	}
	return nil
}

// JSONError writes err to stderr as JSON.
func JSONError(err error) error {
	return JSONErrorTo(os.Stderr, err)
}

// JSONErrorTo writes err to w as JSON. Tagged errors include their kind,
// location, hints and exit code; other errors are reported as internal.
func JSONErrorTo(w io.Writer, err error) error {
	var obj errors.ErrorJSON
	var tagged *errors.Error
	if stderrors.As(err, &tagged) {
		obj = tagged.ToJSON()
	} else {
		obj = errors.ErrorJSON{
			Error:    err.Error(),
			Kind:     errors.KindOf(err).String(),
			ExitCode: errors.KindOf(err).ExitCode(),
		}
	}
	return JSONTo(w, obj)
}
