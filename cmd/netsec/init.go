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
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/netsec/internal/bootstrap"
	"github.com/kraklabs/netsec/internal/errors"
	"github.com/kraklabs/netsec/internal/logging"
	"github.com/kraklabs/netsec/internal/output"
	"github.com/kraklabs/netsec/internal/ui"
)

// initFlags holds parsed flags for the init command.
type initFlags struct {
	force, noEnv, debug       bool
	url, database, collection string
}

// runInit executes the 'init' CLI command, creating .netsec/pipeline.yaml,
// the log and artifact directories and a .env template.
//
// Flags:
//   - --force: Overwrite existing configuration (default: false)
//   - --url: Store the document store URL in the configuration
//   - --database, --collection: Override the default names
//   - --no-env: Do not write a .env template
//
// Examples:
//
//	netsec init
//	netsec init --url sqlite://.netsec/local.db
func runInit(args []string, globals GlobalFlags) {
	flags := parseInitFlags(args)
	ui.InitColors(globals.NoColor)

	logger := logging.Discard()
	if flags.debug {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	info, err := bootstrap.InitWorkspace(bootstrap.WorkspaceConfig{
		Force:            flags.force,
		WriteEnvTemplate: !flags.noEnv,
		DatabaseURL:      flags.url,
		Database:         flags.database,
		Collection:       flags.collection,
	}, logger)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	if globals.JSON {
		err := output.JSON(map[string]any{
			"config":       info.ConfigPath,
			"created":      info.Created,
			"artifact_dir": info.ArtifactDir,
			"log_dir":      info.LogDir,
		})
		if err != nil {
			errors.FatalError(errors.Wrap(err, errors.KindInternal, "encode result"), true)
		}
		return
	}

	p := ui.New(os.Stdout, os.Stderr, globals.Quiet)
	if info.Created {
		p.Successf("Created %s", info.ConfigPath)
	} else {
		p.Infof("Kept existing %s (use --force to overwrite)", info.ConfigPath)
	}
	p.PathField("Artifacts", info.ArtifactDir)
	p.PathField("Logs", info.LogDir)
	printNextSteps(p, flags.url == "")
}

func parseInitFlags(args []string) initFlags {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	var f initFlags
	fs.BoolVar(&f.force, "force", false, "Overwrite existing configuration")
	fs.BoolVar(&f.noEnv, "no-env", false, "Do not write a .env template")
	fs.BoolVar(&f.debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.url, "url", "", "Document store URL to store in the configuration (default: read MONGO_DB_URL)")
	fs.StringVar(&f.database, "database", "", "Database name")
	fs.StringVar(&f.collection, "collection", "", "Collection name")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: netsec init [options]

Creates .netsec/pipeline.yaml, the logs/ and Artifacts/ directories and a
.env template for MONGO_DB_URL.

Examples:
  netsec init
  netsec init --force
  netsec init --url sqlite://.netsec/local.db   # Local store, no MongoDB needed

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	return f
}

func printNextSteps(p *ui.Printer, needsURL bool) {
	if p.Quiet {
		return
	}
	fmt.Fprintln(p.Out)
	fmt.Fprintln(p.Out, "Next steps:")
	if needsURL {
		fmt.Fprintln(p.Out, "  Set MONGO_DB_URL in .env")
	}
	fmt.Fprintln(p.Out, "  netsec ping      Check the connection")
	fmt.Fprintln(p.Out, "  netsec push      Load the raw dataset")
	fmt.Fprintln(p.Out, "  netsec ingest    Build the train/test files")
}
