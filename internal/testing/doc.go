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

// Package testing provides test helpers for netsec package tests.
//
// # Quick Start
//
// Use SetupTestStore to create a throwaway SQLite document store:
//
//	func TestMyFeature(t *testing.T) {
//	    store := nstesting.SetupTestStore(t)
//	    nstesting.SeedDocuments(t, store, "netsec", "NetworkData", nstesting.PhishingDocuments(100, 10))
//
//	    cfg.DatabaseURL = nstesting.StoreURL(store)
//	    // Run the pipeline and verify
//	}
//
// # Fixtures
//
//   - PhishingDocuments: documents over PhishingColumns, optionally with "na" cells
//   - PhishingCSV: the same rows as CSV text
//   - WriteFile: write a fixture file into a temp dir
//   - CountCSVRows: data rows of a CSV file
//
// # Store doubles
//
//   - TrackingStore: counts Close calls without closing the wrapped store
//   - StaticOpener / FailingOpener: replacements for docstore.Open
//
// Import with an alias to avoid clashing with the standard testing package:
//
//	import nstesting "github.com/kraklabs/netsec/internal/testing"
package testing
