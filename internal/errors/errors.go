// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package errors provides the tagged error type used across netsec.
//
// Every fallible boundary (store connection, CSV write, split precondition)
// constructs an *Error explicitly. The constructor records the file and line
// of the call site, so the rendered message names where the failure was
// caught as well as the underlying reason.
//
// # Usage Example
//
//	count, err := store.Count(ctx, db, coll)
//	if err != nil {
//	    return errors.Wrap(err, errors.KindNetwork, "count documents")
//	}
//	if count == 0 {
//	    return errors.Newf(errors.KindData, "no documents found in collection %q", coll).
//	        WithHint("The collection is empty", "Run: netsec push --file <csv>")
//	}
//
// # Formatted Output
//
// Format() renders colored terminal output:
//
//	Error: export collection: no documents found in collection "NetworkData"
//	Where: ingestion/exporter.go:97
//	Cause: The collection is empty
//	Fix:   Run: netsec push --file <csv>
//
// # Exit Codes
//
// Kinds map onto the CLI exit codes:
//   - ExitConfig (1): configuration errors
//   - ExitDatabase (2): document store query errors
//   - ExitNetwork (3): connection, authentication and timeout errors
//   - ExitData (4): data errors (empty collection, malformed CSV)
//   - ExitIO (5): filesystem errors
//   - ExitNotFound (6): missing resources
//   - ExitInternal (10): anything else
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fatih/color"
)

// Exit codes for different error categories.
const (
	ExitSuccess  = 0
	ExitConfig   = 1
	ExitDatabase = 2
	ExitNetwork  = 3
	ExitData     = 4
	ExitIO       = 5
	ExitNotFound = 6

	// ExitInternal signals "this is a bug that should be reported".
	ExitInternal = 10
)

// Kind classifies an error. It decides the exit code and nothing else:
// every kind is fatal to the current run.
type Kind int

const (
	KindInternal Kind = iota
	KindConfig
	KindDatabase
	KindNetwork
	KindData
	KindIO
	KindNotFound
)

var kindNames = map[Kind]string{
	KindInternal: "internal",
	KindConfig:   "config",
	KindDatabase: "database",
	KindNetwork:  "network",
	KindData:     "data",
	KindIO:       "io",
	KindNotFound: "not_found",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ExitCode returns the process exit code for the kind.
func (k Kind) ExitCode() int {
	switch k {
	case KindConfig:
		return ExitConfig
	case KindDatabase:
		return ExitDatabase
	case KindNetwork:
		return ExitNetwork
	case KindData:
		return ExitData
	case KindIO:
		return ExitIO
	case KindNotFound:
		return ExitNotFound
	default:
		return ExitInternal
	}
}

// Error is a tagged error carrying its kind, a message, the source location
// where it was constructed, and optionally the error it wraps.
type Error struct {
	Kind    Kind
	Message string

	// Cause and Fix are optional hints for terminal output.
	Cause string
	Fix   string

	// File and Line locate the construction site.
	File string
	Line int

	Err error
}

// Error renders the message chain. The location is printed once, for the
// innermost tagged error, which is where the failure was first caught.
func (e *Error) Error() string {
	var inner *Error
	if e.Err != nil && stderrors.As(e.Err, &inner) {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	var b strings.Builder
	b.WriteString(e.Message)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if e.File != "" {
		fmt.Fprintf(&b, " [%s:%d]", e.File, e.Line)
	}
	return b.String()
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit code for the error's kind.
func (e *Error) ExitCode() int {
	return e.Kind.ExitCode()
}

// Location returns "file:line" of the innermost tagged error in the chain.
func (e *Error) Location() string {
	origin := e
	for {
		var inner *Error
		if origin.Err == nil || !stderrors.As(origin.Err, &inner) {
			break
		}
		origin = inner
	}
	if origin.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", origin.File, origin.Line)
}

// WithHint sets the Cause and Fix hints and returns e.
func (e *Error) WithHint(cause, fix string) *Error {
	e.Cause = cause
	e.Fix = fix
	return e
}

// New creates an error of the given kind at the caller's location.
func New(kind Kind, msg string) *Error {
	return newAt(2, kind, msg, nil)
}

// Newf is New with a format string.
func Newf(kind Kind, format string, args ...any) *Error {
	return newAt(2, kind, fmt.Sprintf(format, args...), nil)
}

// Wrap wraps err with a message and kind at the caller's location.
// It returns nil when err is nil.
func Wrap(err error, kind Kind, msg string) error {
	if err == nil {
		return nil
	}
	return newAt(2, kind, msg, err)
}

// Wrapf is Wrap with a format string.
func Wrapf(err error, kind Kind, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return newAt(2, kind, fmt.Sprintf(format, args...), err)
}

// WrapWithHint is Wrap with a cause and a suggested fix for the user.
func WrapWithHint(err error, kind Kind, msg, cause, fix string) error {
	if err == nil {
		return nil
	}
	return newAt(2, kind, msg, err).WithHint(cause, fix)
}

// Propagate wraps err with a message, keeping the kind of the first tagged
// error in its chain (KindInternal when there is none).
func Propagate(err error, msg string) error {
	if err == nil {
		return nil
	}
	return newAt(2, KindOf(err), msg, err)
}

// KindOf returns the kind of the first tagged error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries a tagged error of the given kind.
func IsKind(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}

func newAt(skip int, kind Kind, msg string, err error) *Error {
	e := &Error{Kind: kind, Message: msg, Err: err}
	if _, file, line, ok := runtime.Caller(skip); ok {
		e.File = shortPath(file)
		e.Line = line
	}
	return e
}

// shortPath keeps the last directory and the file name.
func shortPath(file string) string {
	dir, base := filepath.Split(file)
	parent := filepath.Base(strings.TrimSuffix(dir, string(filepath.Separator)))
	if parent == "." || parent == string(filepath.Separator) || parent == "" {
		return base
	}
	return parent + "/" + base
}

var (
	colorError = color.New(color.FgRed, color.Bold)
	colorWhere = color.New(color.Faint)
	colorCause = color.New(color.FgYellow)
	colorFix   = color.New(color.FgGreen)
)

// Format returns a formatted error message for terminal display.
//
// Color output respects the NO_COLOR environment variable and can be
// disabled with the noColor parameter. Empty Cause or Fix lines are omitted.
func (e *Error) Format(noColor bool) string {
	originalNoColor := color.NoColor
	defer func() { color.NoColor = originalNoColor }()

	if noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	var out strings.Builder
	out.WriteString(colorError.Sprint("Error: "))
	out.WriteString(e.chain())
	out.WriteString("\n")

	if loc := e.Location(); loc != "" {
		out.WriteString(colorWhere.Sprint("Where: "))
		out.WriteString(loc)
		out.WriteString("\n")
	}

	cause, fix := e.hints()
	if cause != "" {
		out.WriteString(colorCause.Sprint("Cause: "))
		out.WriteString(cause)
		out.WriteString("\n")
	}
	if fix != "" {
		out.WriteString(colorFix.Sprint("Fix:   "))
		out.WriteString(fix)
		out.WriteString("\n")
	}

	return out.String()
}

// chain renders the message chain without locations.
func (e *Error) chain() string {
	parts := []string{e.Message}
	var cur error = e.Err
	for cur != nil {
		var inner *Error
		if stderrors.As(cur, &inner) {
			parts = append(parts, inner.Message)
			cur = inner.Err
			continue
		}
		parts = append(parts, cur.Error())
		break
	}
	return strings.Join(parts, ": ")
}

// hints returns the first non-empty Cause and Fix along the chain.
func (e *Error) hints() (cause, fix string) {
	for cur := e; cur != nil; {
		if cause == "" {
			cause = cur.Cause
		}
		if fix == "" {
			fix = cur.Fix
		}
		var inner *Error
		if cur.Err == nil || !stderrors.As(cur.Err, &inner) {
			break
		}
		cur = inner
	}
	return cause, fix
}

// ErrorJSON represents error information in JSON format.
type ErrorJSON struct {
	Error    string `json:"error"`
	Kind     string `json:"kind"`
	Where    string `json:"where,omitempty"`
	Cause    string `json:"cause,omitempty"`
	Fix      string `json:"fix,omitempty"`
	ExitCode int    `json:"exit_code"`
}

// ToJSON converts the error to a JSON-serializable structure.
func (e *Error) ToJSON() ErrorJSON {
	cause, fix := e.hints()
	return ErrorJSON{
		Error:    e.chain(),
		Kind:     e.Kind.String(),
		Where:    e.Location(),
		Cause:    cause,
		Fix:      fix,
		ExitCode: e.ExitCode(),
	}
}

// FatalError prints the error and exits with the appropriate code.
//
// Tagged errors use Format() or ToJSON(); anything else prints a plain
// message and exits with ExitInternal. It never returns for a non-nil err.
func FatalError(err error, jsonOutput bool) {
	if err == nil {
		return
	}

	var e *Error
	if stderrors.As(err, &e) {
		if jsonOutput {
			enc := json.NewEncoder(os.Stderr)
			enc.SetIndent("", "  ")
			_ = enc.Encode(e.ToJSON())
		} else {
			fmt.Fprint(os.Stderr, e.Format(false))
		}
		os.Exit(e.ExitCode())
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(ExitInternal)
}
