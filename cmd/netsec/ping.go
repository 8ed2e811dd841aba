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
	"context"
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/netsec/internal/errors"
	"github.com/kraklabs/netsec/internal/output"
	"github.com/kraklabs/netsec/pkg/docstore"
)

// openStore resolves the store URL and connects, showing a spinner while
// the connection is checked.
func openStore(ctx context.Context, s *session) (docstore.Store, string, error) {
	url, err := s.cfg.ResolveDatabaseURL()
	if err != nil {
		return nil, "", err
	}
	timeout, err := s.cfg.ConnectTimeout()
	if err != nil {
		return nil, "", err
	}

	spinner := NewSpinner(NewProgressConfig(s.globals), "Connecting")
	if spinner != nil {
		defer func() { _ = spinner.Finish() }()
	}

	store, err := docstore.Open(ctx, url, docstore.Options{ConnectTimeout: timeout})
	if err != nil {
		return nil, "", errors.Wrap(err, errors.KindNetwork, "connect to document store")
	}
	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, "", errors.WrapWithHint(err, errors.KindNetwork, "ping document store",
			"The document store did not answer within the connect timeout",
			"Check MONGO_DB_URL, network access and IP allow-lists")
	}
	return store, docstore.RedactURL(url), nil
}

// runPing executes the 'ping' CLI command, checking the store connection
// and listing its databases.
func runPing(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("ping", flag.ExitOnError)
	debug := fs.Bool("debug", false, "Enable debug logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: netsec ping [options]

Connects to the configured document store, pings it and lists its databases.

Options:
`)
		fs.PrintDefaults()
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

	ctx, cancel := signalContext(logger)
	defer cancel()

	start := time.Now()
	store, url, err := openStore(ctx, s)
	if err != nil {
		s.fail(err)
	}
	defer func() { _ = store.Close() }()
	latency := time.Since(start)
	logger.Info("ping.ok", "url", url, "latency_ms", latency.Milliseconds())

	databases, err := store.ListDatabases(ctx)
	if err != nil {
		s.fail(errors.Wrap(err, errors.KindNetwork, "list databases"))
	}

	if globals.JSON {
		err := output.JSON(map[string]any{
			"url":        url,
			"ok":         true,
			"latency_ms": latency.Milliseconds(),
			"databases":  databases,
		})
		if err != nil {
			s.fail(errors.Wrap(err, errors.KindInternal, "encode result"))
		}
		return
	}

	s.printer.Successf("Connected to %s", url)
	s.printer.Field("Latency", latency.Round(time.Millisecond))
	s.printer.Field("Databases", len(databases))
	s.printer.List(databases)
}
