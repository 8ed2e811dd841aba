// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// TestError_Error verifies the rendered message and origin.
func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "with underlying error",
			err: &Error{
				Message: "count documents",
				Err:     fmt.Errorf("server selection timeout"),
				File:    "ingestion/exporter.go",
				Line:    42,
			},
			want: "count documents: server selection timeout [ingestion/exporter.go:42]",
		},
		{
			name: "without underlying error",
			err: &Error{
				Message: "split ratio out of range",
				File:    "ingestion/config.go",
				Line:    7,
			},
			want: "split ratio out of range [ingestion/config.go:7]",
		},
		{
			name: "without location",
			err:  &Error{Message: "bare"},
			want: "bare",
		},
		{
			name: "nested tagged error prints the inner location only",
			err: &Error{
				Message: "stage export",
				File:    "ingestion/pipeline.go",
				Line:    100,
				Err: &Error{
					Message: "no documents",
					File:    "ingestion/exporter.go",
					Line:    12,
				},
			},
			want: "stage export: no documents [ingestion/exporter.go:12]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.want {
				t.Errorf("Error.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestNew_RecordsCallSite verifies the constructor captures this file.
func TestNew_RecordsCallSite(t *testing.T) {
	err := New(KindConfig, "missing database url")

	if err.File != "errors/errors_test.go" {
		t.Errorf("File = %q, want %q", err.File, "errors/errors_test.go")
	}
	if err.Line <= 0 {
		t.Errorf("Line = %d, want > 0", err.Line)
	}
	if !strings.Contains(err.Error(), "errors/errors_test.go:") {
		t.Errorf("Error() = %q, want location suffix", err.Error())
	}
}

// TestWrap_Nil verifies nil errors stay nil interfaces.
func TestWrap_Nil(t *testing.T) {
	if err := Wrap(nil, KindIO, "write"); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
	if err := Wrapf(nil, KindIO, "write %s", "x"); err != nil {
		t.Errorf("Wrapf(nil) = %v, want nil", err)
	}
	if err := Propagate(nil, "stage"); err != nil {
		t.Errorf("Propagate(nil) = %v, want nil", err)
	}
	if err := WrapWithHint(nil, KindNetwork, "ping", "cause", "fix"); err != nil {
		t.Errorf("WrapWithHint(nil) = %v, want nil", err)
	}
}

// TestWrapWithHint verifies the hints and kind are attached to the wrapper.
func TestWrapWithHint(t *testing.T) {
	cause := fmt.Errorf("server selection timeout")
	err := WrapWithHint(cause, KindNetwork, "ping document store", "store unreachable", "check MONGO_DB_URL")

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("WrapWithHint() = %T, want *Error", err)
	}
	if e.Kind != KindNetwork {
		t.Errorf("Kind = %v, want %v", e.Kind, KindNetwork)
	}
	if e.Cause != "store unreachable" || e.Fix != "check MONGO_DB_URL" {
		t.Errorf("hints = (%q, %q), want (%q, %q)", e.Cause, e.Fix, "store unreachable", "check MONGO_DB_URL")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

// TestPropagate_KeepsKind verifies the inner kind survives re-wrapping.
func TestPropagate_KeepsKind(t *testing.T) {
	inner := New(KindData, "no documents found")
	outer := Propagate(inner, "stage export")

	if got := KindOf(outer); got != KindData {
		t.Errorf("KindOf() = %v, want %v", got, KindData)
	}
	if !IsKind(outer, KindData) {
		t.Error("IsKind(outer, KindData) = false, want true")
	}

	plain := Propagate(fmt.Errorf("boom"), "stage split")
	if got := KindOf(plain); got != KindInternal {
		t.Errorf("KindOf(plain) = %v, want %v", got, KindInternal)
	}
}

// TestExitCodes verifies the kind to exit code mapping.
func TestExitCodes(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindConfig, ExitConfig},
		{KindDatabase, ExitDatabase},
		{KindNetwork, ExitNetwork},
		{KindData, ExitData},
		{KindIO, ExitIO},
		{KindNotFound, ExitNotFound},
		{KindInternal, ExitInternal},
		{Kind(99), ExitInternal},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.ExitCode(); got != tt.want {
				t.Errorf("%v.ExitCode() = %d, want %d", tt.kind, got, tt.want)
			}
		})
	}
}

// TestErrorChain verifies compatibility with the stdlib errors package.
func TestErrorChain(t *testing.T) {
	t.Run("errors.Is finds the sentinel", func(t *testing.T) {
		sentinel := fmt.Errorf("sentinel error")
		wrapped := Wrap(fmt.Errorf("wrapped: %w", sentinel), KindNetwork, "ping")

		if !errors.Is(wrapped, sentinel) {
			t.Error("errors.Is should find sentinel error in chain")
		}
	})

	t.Run("errors.As returns the outer error first", func(t *testing.T) {
		inner := New(KindConfig, "config error")
		outer := Wrap(inner, KindDatabase, "database error")

		var target *Error
		if !errors.As(outer, &target) {
			t.Fatal("errors.As should extract *Error")
		}
		if target.Kind != KindDatabase {
			t.Errorf("Kind = %v, want %v", target.Kind, KindDatabase)
		}
	})
}

// TestError_Location verifies the innermost origin is reported.
func TestError_Location(t *testing.T) {
	err := &Error{
		Message: "outer",
		File:    "a/outer.go",
		Line:    1,
		Err:     &Error{Message: "inner", File: "b/inner.go", Line: 2},
	}
	if got := err.Location(); got != "b/inner.go:2" {
		t.Errorf("Location() = %q, want %q", got, "b/inner.go:2")
	}
	if got := (&Error{Message: "x"}).Location(); got != "" {
		t.Errorf("Location() = %q, want empty", got)
	}
}

// TestError_Format verifies the Format() output sections.
func TestError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want []string
	}{
		{
			name: "full error",
			err: (&Error{
				Kind:    KindData,
				Message: "export collection",
				Err:     &Error{Message: "no documents found", File: "ingestion/exporter.go", Line: 9},
			}).WithHint("The collection is empty", "Run: netsec push"),
			want: []string{
				"Error: export collection: no documents found",
				"Where: ingestion/exporter.go:9",
				"Cause: The collection is empty",
				"Fix:   Run: netsec push",
			},
		},
		{
			name: "hints from the inner error",
			err: &Error{
				Message: "outer",
				Err:     (&Error{Message: "inner"}).WithHint("inner cause", "inner fix"),
			},
			want: []string{"Error: outer: inner", "Cause: inner cause", "Fix:   inner fix"},
		},
		{
			name: "message only",
			err:  &Error{Message: "Something failed"},
			want: []string{"Error: Something failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Format(true)
			for _, substr := range tt.want {
				if !strings.Contains(got, substr) {
					t.Errorf("Format() output missing %q\nGot: %s", substr, got)
				}
			}
		})
	}
}

// TestError_Format_NoColor verifies that NO_COLOR environment variable is respected.
func TestError_Format_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	err := &Error{Message: "Test error", Cause: "Test cause", Fix: "Test fix"}
	output := err.Format(false)

	if strings.Contains(output, "\x1b[") {
		t.Error("Format() output contains ANSI codes despite NO_COLOR being set")
	}
}

// TestError_ToJSON verifies the JSON projection.
func TestError_ToJSON(t *testing.T) {
	err := (&Error{
		Kind:    KindConfig,
		Message: "invalid configuration",
		File:    "config/config.go",
		Line:    3,
	}).WithHint("split_ratio must be in (0,1)", "Edit .netsec/pipeline.yaml")

	got := err.ToJSON()
	if got.Error != "invalid configuration" {
		t.Errorf("ToJSON().Error = %q", got.Error)
	}
	if got.Kind != "config" {
		t.Errorf("ToJSON().Kind = %q, want %q", got.Kind, "config")
	}
	if got.Where != "config/config.go:3" {
		t.Errorf("ToJSON().Where = %q", got.Where)
	}
	if got.ExitCode != ExitConfig {
		t.Errorf("ToJSON().ExitCode = %d, want %d", got.ExitCode, ExitConfig)
	}
	if got.Cause == "" || got.Fix == "" {
		t.Errorf("ToJSON() hints missing: %+v", got)
	}
}

// TestFatalError_Nil verifies a nil error is a no-op.
func TestFatalError_Nil(t *testing.T) {
	FatalError(nil, false)
}
