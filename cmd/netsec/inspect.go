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
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/netsec/internal/bootstrap"
	"github.com/kraklabs/netsec/internal/errors"
	"github.com/kraklabs/netsec/internal/output"
	"github.com/kraklabs/netsec/internal/ui"
	"github.com/kraklabs/netsec/pkg/docstore"
)

// collectionReport is the result of inspecting a collection.
type collectionReport struct {
	URL         string            `json:"url"`
	Databases   []string          `json:"databases"`
	Database    string            `json:"database"`
	Collections []string          `json:"collections"`
	Collection  string            `json:"collection"`
	Count       int64             `json:"count"`
	Sample      docstore.Document `json:"sample,omitempty"`
}

// runReport is one entry of 'inspect --runs'.
type runReport struct {
	Name            string `json:"name"`
	Dir             string `json:"dir"`
	Finished        bool   `json:"finished"`
	RunID           string `json:"run_id,omitempty"`
	Rows            int    `json:"rows,omitempty"`
	TrainRows       int    `json:"train_rows,omitempty"`
	TestRows        int    `json:"test_rows,omitempty"`
	TrainedFilePath string `json:"trained_file_path,omitempty"`
	TestFilePath    string `json:"test_file_path,omitempty"`
}

// runInspect executes the 'inspect' CLI command.
//
// By default it reports the databases, the collections of the configured
// database, the document count and a sample document. With --runs it lists
// previous ingestion runs under the artifact directory instead.
func runInspect(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	database := fs.String("database", "", "Database to inspect (default: database.name)")
	collection := fs.String("collection", "", "Collection to inspect (default: database.collection)")
	noSample := fs.Bool("no-sample", false, "Do not fetch a sample document")
	runs := fs.Bool("runs", false, "List ingestion runs instead of querying the store")
	debug := fs.Bool("debug", false, "Enable debug logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: netsec inspect [options]

Shows what the document store holds for the configured collection, or lists
previous ingestion runs with --runs.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  netsec inspect
  netsec inspect --collection NetworkData --no-sample
  netsec --json inspect --runs
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

	if *runs {
		inspectRuns(s)
		return
	}

	if *database != "" {
		s.cfg.Database.Name = *database
	}
	if *collection != "" {
		s.cfg.Database.Collection = *collection
	}

	ctx, cancel := signalContext(s.log.Logger)
	defer cancel()

	store, url, err := openStore(ctx, s)
	if err != nil {
		s.fail(err)
	}
	defer func() { _ = store.Close() }()

	report := collectionReport{
		URL:        url,
		Database:   s.cfg.Database.Name,
		Collection: s.cfg.Database.Collection,
	}
	if report.Databases, err = store.ListDatabases(ctx); err != nil {
		s.fail(errors.Wrap(err, errors.KindNetwork, "list databases"))
	}
	if report.Collections, err = store.ListCollections(ctx, report.Database); err != nil {
		s.fail(errors.Wrapf(err, errors.KindNetwork, "list collections of %s", report.Database))
	}
	if report.Count, err = store.Count(ctx, report.Database, report.Collection); err != nil {
		s.fail(errors.Wrapf(err, errors.KindNetwork, "count %s.%s", report.Database, report.Collection))
	}
	if !*noSample {
		sample, err := store.FindOne(ctx, report.Database, report.Collection)
		if err != nil && !stderrors.Is(err, docstore.ErrNoDocuments) {
			s.fail(errors.Wrapf(err, errors.KindNetwork, "fetch sample from %s.%s", report.Database, report.Collection))
		}
		report.Sample = sample
	}
	s.log.Info("inspect.collection",
		"database", report.Database,
		"collection", report.Collection,
		"count", report.Count,
	)

	if globals.JSON {
		if err := output.JSON(report); err != nil {
			s.fail(errors.Wrap(err, errors.KindInternal, "encode report"))
		}
		return
	}
	printCollectionReport(s.printer, report)
}

func printCollectionReport(p *ui.Printer, r collectionReport) {
	p.Header("Document Store")
	p.Field("URL", r.URL)
	p.Field("Databases", len(r.Databases))
	p.List(r.Databases)

	p.Header(r.Database)
	p.Field("Collections", len(r.Collections))
	p.List(r.Collections)

	p.Header(r.Database + "." + r.Collection)
	p.Field("Documents", ui.CountText(int(r.Count)))
	if r.Count == 0 {
		p.Warningf("Collection is empty; load data with 'netsec push'")
		return
	}
	if r.Sample != nil {
		data, err := json.MarshalIndent(r.Sample, "  ", "  ")
		if err == nil {
			p.Field("Sample", "\n  "+string(data))
		}
	}
}

func inspectRuns(s *session) {
	list, err := bootstrap.ListRuns(s.cfg.Ingestion.ArtifactDir)
	if err != nil {
		s.fail(err)
	}

	reports := make([]runReport, 0, len(list))
	for _, r := range list {
		rep := runReport{Name: r.Name, Dir: r.Dir, Finished: r.Manifest != nil}
		if m := r.Manifest; m != nil {
			rep.RunID = m.RunID
			rep.Rows = m.Rows
			rep.TrainRows = m.TrainRows
			rep.TestRows = m.TestRows
			rep.TrainedFilePath = m.Artifact.TrainedFilePath
			rep.TestFilePath = m.Artifact.TestFilePath
		}
		reports = append(reports, rep)
	}

	if s.globals.JSON {
		if err := output.JSON(reports); err != nil {
			s.fail(errors.Wrap(err, errors.KindInternal, "encode runs"))
		}
		return
	}

	s.printer.Header("Ingestion Runs")
	s.printer.PathField("Artifact Dir", s.cfg.Ingestion.ArtifactDir)
	if len(reports) == 0 {
		s.printer.Infof("No runs yet; start one with 'netsec ingest'")
		return
	}
	for _, r := range reports {
		if !r.Finished {
			s.printer.Warningf("%s  %s", r.Name, ui.DimText("no manifest"))
			continue
		}
		s.printer.Successf("%s  train=%d test=%d  %s", r.Name, r.TrainRows, r.TestRows, ui.DimText(r.TrainedFilePath))
	}
}
