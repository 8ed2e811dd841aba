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

// Package main implements the netsec CLI for moving network security data
// between a document store and the CSV files consumed by model training.
//
// Usage:
//
//	netsec init                   Create .netsec/pipeline.yaml
//	netsec push                   Load a CSV file into the collection
//	netsec ingest                 Export the collection and split train/test
//	netsec ping                   Check the document store connection
//	netsec inspect [--runs]       Show collection contents or past runs
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

// Version information (set via ldflags during build)
var (
	version = "dev"     // Version string
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// GlobalFlags holds the options shared by every command.
type GlobalFlags struct {
	ConfigPath string
	EnvFile    string
	JSON       bool
	NoColor    bool
	Quiet      bool
}

// main is the entry point for the netsec CLI.
//
// Global flags are parsed up to the first non-flag argument, which names
// the command; everything after it is handed to the command's own flag set.
func main() {
	var globals GlobalFlags

	fs := flag.NewFlagSet("netsec", flag.ExitOnError)
	fs.SetInterspersed(false)
	showVersion := fs.Bool("version", false, "Show version and exit")
	fs.StringVar(&globals.ConfigPath, "config", "", "Path to pipeline configuration (default: ./.netsec/pipeline.yaml)")
	fs.StringVar(&globals.EnvFile, "env-file", "", "Path to a .env file (default: ./.env if present)")
	fs.BoolVar(&globals.JSON, "json", false, "Write results and errors as JSON")
	fs.BoolVar(&globals.NoColor, "no-color", false, "Disable colored output")
	fs.BoolVarP(&globals.Quiet, "quiet", "q", false, "Suppress status output")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `netsec - network security data pipeline

netsec loads phishing and network security records into a document store
and turns a collection back into the train/test CSV files used for model
training.

Usage:
  netsec [global options] <command> [options]

Commands:
  init          Create .netsec/pipeline.yaml and the workspace directories
  push          Load a CSV file into the configured collection
  ingest        Export the collection, write the feature store and split it
  ping          Check that the document store is reachable
  inspect       Show databases, collections and a sample document

Global Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  netsec init                        Create configuration
  netsec push --file data.csv        Insert data.csv into the collection
  netsec ingest                      Run data ingestion
  netsec ingest --seed 42            Reproducible train/test split
  netsec --json ingest               Print the run summary as JSON
  netsec inspect --runs              List previous ingestion runs

Getting Started:
  1. Initialize configuration:  netsec init
  2. Set the store URL:         export MONGO_DB_URL=mongodb+srv://...
  3. Load the raw dataset:      netsec push
  4. Ingest:                    netsec ingest

Environment Variables:
  MONGO_DB_URL       Document store URL (mongodb://, mongodb+srv://, sqlite://)

For detailed command help: netsec <command> --help

`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}

	if *showVersion {
		fmt.Printf("netsec version %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", date)
		os.Exit(0)
	}

	// JSON output owns stdout.
	if globals.JSON {
		globals.Quiet = true
	}

	args := fs.Args()
	if len(args) == 0 {
		fs.Usage()
		os.Exit(1)
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "init":
		runInit(cmdArgs, globals)
	case "push":
		runPush(cmdArgs, globals)
	case "ingest":
		runIngest(cmdArgs, globals)
	case "ping":
		runPing(cmdArgs, globals)
	case "inspect":
		runInspect(cmdArgs, globals)
	case "version":
		fmt.Printf("netsec version %s\n", version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		fs.Usage()
		os.Exit(1)
	}
}
