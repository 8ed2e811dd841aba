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

// Package ui prints human-readable status lines for the netsec CLI.
//
// Output respects the --no-color flag and the NO_COLOR environment
// variable, and is silenced entirely by --quiet.
//
// Color usage:
//   - Red: failures
//   - Yellow: warnings
//   - Green: completed stages
//   - Cyan: progress and counts
//   - Bold: headers and labels
//   - Dim: paths
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Pre-configured color instances. They read the global color.NoColor
// setting at print time.
var (
	Red    = color.New(color.FgRed)
	Yellow = color.New(color.FgYellow)
	Green  = color.New(color.FgGreen)
	Cyan   = color.New(color.FgCyan)
	Bold   = color.New(color.Bold)
	Dim    = color.New(color.Faint)
)

// InitColors disables colors when noColor is set. fatih/color already
// honors NO_COLOR and non-TTY output on its own.
func InitColors(noColor bool) {
	if noColor {
		color.NoColor = true
	}
}

// Printer writes status lines to Out. A quiet printer drops everything
// except errors, which go to Err.
type Printer struct {
	Out   io.Writer
	Err   io.Writer
	Quiet bool
}

// Std prints to stdout and stderr.
var Std = &Printer{Out: os.Stdout, Err: os.Stderr}

// New returns a printer for the given streams.
func New(out, errOut io.Writer, quiet bool) *Printer {
	return &Printer{Out: out, Err: errOut, Quiet: quiet}
}

func (p *Printer) line(c *color.Color, prefix, format string, args ...any) {
	if p.Quiet {
		return
	}
	_, _ = c.Fprintf(p.Out, prefix+format+"\n", args...)
}

// Successf prints a green line with a checkmark.
//
// Example output: "✓ Feature store written (11055 rows)"
func (p *Printer) Successf(format string, args ...any) { p.line(Green, "✓ ", format, args...) }

// Warningf prints a yellow line with a warning sign.
func (p *Printer) Warningf(format string, args ...any) { p.line(Yellow, "⚠ ", format, args...) }

// Infof prints a cyan line with an info sign.
func (p *Printer) Infof(format string, args ...any) { p.line(Cyan, "ℹ ", format, args...) }

// Errorf prints a red line with an X to Err, even when quiet.
func (p *Printer) Errorf(format string, args ...any) {
	_, _ = Red.Fprintf(p.Err, "✗ "+format+"\n", args...)
}

// Header prints a bold title underlined with '='.
//
//	Ingestion Summary
//	=================
func (p *Printer) Header(text string) {
	if p.Quiet {
		return
	}
	_, _ = Bold.Fprintln(p.Out, text)
	_, _ = fmt.Fprintln(p.Out, strings.Repeat("=", len(text)))
}

// Field prints an indented "label value" pair with the label in bold.
func (p *Printer) Field(label string, value any) {
	if p.Quiet {
		return
	}
	_, _ = fmt.Fprintf(p.Out, "  %s %v\n", Label(label+":"), value)
}

// PathField prints a field whose value is a dimmed path.
func (p *Printer) PathField(label, path string) {
	p.Field(label, DimText(path))
}

// List prints each item on its own indented line.
func (p *Printer) List(items []string) {
	if p.Quiet {
		return
	}
	for _, item := range items {
		_, _ = fmt.Fprintf(p.Out, "  - %s\n", item)
	}
}

// Label returns a bold string for inline use.
func Label(text string) string {
	return Bold.Sprint(text)
}

// DimText returns a dim string, used for paths.
func DimText(text string) string {
	return Dim.Sprint(text)
}

// CountText returns a cyan count.
func CountText(count int) string {
	return Cyan.Sprint(count)
}
