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

// Package bootstrap handles netsec workspace initialization.
//
// A workspace is a directory holding the pipeline configuration, the log
// directory and the artifact directory that ingestion runs write into:
//
//	<dir>/
//	    .netsec/pipeline.yaml
//	    .env
//	    logs/
//	    Artifacts/<MM_DD_YYYY_HH_MM_SS>/data_ingestion/...
//
// # Initialization Workflow
//
//	info, err := bootstrap.InitWorkspace(bootstrap.WorkspaceConfig{
//	    Dir:              ".",
//	    WriteEnvTemplate: true,
//	}, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Configuration written to: %s\n", info.ConfigPath)
//
// # Idempotency
//
// InitWorkspace keeps an existing configuration unless Force is set, and
// never overwrites an existing .env file. It is safe to run from scripts.
//
// # Run Discovery
//
// ListRuns returns the timestamped run directories, newest first, with the
// manifest of each finished run:
//
//	runs, err := bootstrap.ListRuns("Artifacts")
//	for _, r := range runs {
//	    fmt.Println(r.Name, r.Manifest != nil)
//	}
package bootstrap
