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

package push

import (
	"encoding/json"
	"fmt"

	"github.com/kraklabs/netsec/pkg/docstore"
)

// Batcher splits documents into insert batches targeting a document count.
type Batcher struct {
	targetDocs   int
	maxBatchSize int // Maximum encoded batch size in bytes
}

// NewBatcher creates a new batcher.
func NewBatcher(targetDocs int, maxBatchSize int) *Batcher {
	if targetDocs <= 0 {
		targetDocs = DefaultBatchSize
	}
	if maxBatchSize <= 0 {
		maxBatchSize = DefaultMaxBatchBytes
	}
	return &Batcher{
		targetDocs:   targetDocs,
		maxBatchSize: maxBatchSize,
	}
}

// Batch splits docs into consecutive batches. Each batch holds at most
// targetDocs documents and stays under maxBatchSize encoded bytes.
func (b *Batcher) Batch(docs []docstore.Document) ([][]docstore.Document, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	var batches [][]docstore.Document
	var current []docstore.Document
	currentSize := 0

	for i, doc := range docs {
		encoded, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encode document %d: %w", i, err)
		}
		docSize := len(encoded)

		// A single document over the limit can never be inserted
		if docSize > b.maxBatchSize {
			preview := string(encoded)
			if len(preview) > 200 {
				preview = preview[:200] + "..."
			}
			return nil, fmt.Errorf("document %d exceeds max batch size: %d bytes (limit: %d). Document preview: %s", i, docSize, b.maxBatchSize, preview)
		}

		wouldExceedSize := currentSize+docSize > b.maxBatchSize
		wouldExceedTarget := len(current) >= b.targetDocs
		if len(current) > 0 && (wouldExceedSize || wouldExceedTarget) {
			batches = append(batches, current)
			current = nil
			currentSize = 0
		}

		current = append(current, doc)
		currentSize += docSize
	}

	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches, nil
}
