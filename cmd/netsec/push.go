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

package main

import (
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/netsec/internal/errors"
	"github.com/kraklabs/netsec/internal/output"
	"github.com/kraklabs/netsec/pkg/push"
)

// runPush executes the 'push' CLI command, loading a CSV file into the
// configured collection in batches.
//
// Flags:
//   - --file: CSV file to load (default: push.file)
//   - --batch-size: Documents per insert (default: push.batch_size)
//   - --skip-ping: Do not check connectivity before inserting
//   - --debug: Enable debug logging
func runPush(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("push", flag.ExitOnError)
	file := fs.StringP("file", "f", "", "CSV file to load")
	batchSize := fs.Int("batch-size", 0, "Documents per insert")
	skipPing := fs.Bool("skip-ping", false, "Do not ping the store before inserting")
	debug := fs.Bool("debug", false, "Enable debug logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: netsec push [options]

Reads a CSV file with a header row and inserts every row as a document into
the configured collection. Values are typed per cell: integers, floats,
booleans and strings; empty cells are stored as null.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  netsec push
  netsec push --file Network_Data/phisingData.csv --batch-size 500
`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	s, err := newSession(globals, *debug)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}
	defer s.close()
	logger := s.log.Logger

	if *batchSize != 0 {
		s.cfg.Push.BatchSize = *batchSize
	}

	url, err := s.cfg.ResolveDatabaseURL()
	if err != nil {
		s.fail(err)
	}
	cfg, err := s.cfg.PushRun(url, *file)
	if err != nil {
		s.fail(err)
	}
	cfg.SkipPing = *skipPing

	progress := newBatchProgress(NewProgressConfig(globals), "Inserting")
	pusher, err := push.New(cfg, logger, push.WithProgress(progress.Update))
	if err != nil {
		s.fail(err)
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	s.printer.Infof("Pushing %s into %s.%s", cfg.FilePath, cfg.DatabaseName, cfg.CollectionName)

	result, err := pusher.Push(ctx)
	progress.Finish()
	if err != nil {
		s.fail(err)
	}

	if globals.JSON {
		err := output.JSON(map[string]any{
			"file":        cfg.FilePath,
			"database":    cfg.DatabaseName,
			"collection":  cfg.CollectionName,
			"records":     result.Records,
			"inserted":    result.Inserted,
			"batches":     result.Batches,
			"duration_ms": result.Duration.Milliseconds(),
		})
		if err != nil {
			s.fail(errors.Wrap(err, errors.KindInternal, "encode summary"))
		}
		return
	}

	s.printer.Successf("Inserted %d of %d records in %d batches", result.Inserted, result.Records, result.Batches)
	s.printer.Field("Duration", result.Duration.Round(time.Millisecond))
	s.printer.PathField("Log", s.log.Path())
}
