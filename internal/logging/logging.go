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

// Package logging builds the run logger: a log/slog text handler writing
// to a timestamp-named file under the log directory, optionally mirrored
// to stderr. The logger is created once at process start and passed to
// every component.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileLayout names log files (MM-DD_YYYY_HH-MM-SS.log).
const FileLayout = "01-02_2006_15-04-05"

// Options configures New.
type Options struct {
	// Dir receives the log file. Empty means "logs".
	Dir string

	Level slog.Level

	// Stderr mirrors every record to Stderr (os.Stderr when nil).
	Stderr    bool
	StderrOut io.Writer

	// Now is the clock used to name the file. Nil means time.Now.
	Now func() time.Time
}

// Logger is a slog.Logger bound to an open log file.
type Logger struct {
	*slog.Logger
	file *os.File
	path string
}

// New creates the log directory and file and returns the logger.
func New(opts Options) (*Logger, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "logs"
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	path := filepath.Join(dir, now().Format(FileLayout)+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	var w io.Writer = f
	if opts.Stderr {
		errOut := opts.StderrOut
		if errOut == nil {
			errOut = os.Stderr
		}
		w = io.MultiWriter(f, errOut)
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: opts.Level})
	return &Logger{Logger: slog.New(handler), file: f, path: path}, nil
}

// Path returns the log file path.
func (l *Logger) Path() string {
	return l.path
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	if err := l.file.Sync(); err != nil {
		_ = l.file.Close()
		return err
	}
	return l.file.Close()
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps debug, info, warn and error to slog levels.
// An empty string is info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", s)
}
