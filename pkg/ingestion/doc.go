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

// Package ingestion provides the data ingestion stage of the netsec
// training pipeline.
//
// The stage reads a document collection, materializes it as a table, and
// produces the files the next stage consumes.
//
// # Pipeline Overview
//
// A run executes four strictly ordered stages:
//
//  1. Export: read every document of the collection, drop the _id column,
//     replace the "na" sentinel with a missing value
//  2. Persist: write the full dataset to the feature store CSV
//  3. Split: shuffle rows into training and testing subsets and write both
//  4. Artifact: return the two file paths (and optionally write a manifest)
//
// A failure in any stage aborts the run and no artifact is returned. Errors
// are tagged with a kind from internal/errors so the CLI can map them to
// exit codes.
//
// # Quick Start
//
//	layout := ingestion.NewLayout("Artifacts", time.Now(), "", "", "")
//	config := layout.Apply(ingestion.Config{
//	    DatabaseURL:         os.Getenv("MONGO_DB_URL"),
//	    DatabaseName:        "netsec",
//	    CollectionName:      "NetworkData",
//	    TrainTestSplitRatio: ingestion.DefaultSplitRatio,
//	})
//
//	di, err := ingestion.NewDataIngestion(config, logger)
//	if err != nil {
//	    return err
//	}
//
//	artifact, err := di.InitiateDataIngestion(ctx)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(artifact.TrainedFilePath, artifact.TestFilePath)
package ingestion
