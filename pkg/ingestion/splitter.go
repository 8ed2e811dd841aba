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

package ingestion

import (
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/kraklabs/netsec/internal/errors"
	"github.com/kraklabs/netsec/pkg/table"
)

// Splitter partitions a table into training and testing subsets and writes
// both to disk.
type Splitter struct {
	ratio     float64
	seed      *uint64
	trainPath string
	testPath  string
	logger    *slog.Logger
}

// NewSplitter creates a splitter from the ratio, seed and output paths of config.
func NewSplitter(config Config, logger *slog.Logger) *Splitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Splitter{
		ratio:     config.TrainTestSplitRatio,
		seed:      config.Seed,
		trainPath: config.TrainingFilePath,
		testPath:  config.TestingFilePath,
		logger:    logger,
	}
}

// SplitSizes returns the subset sizes for n rows: the test set takes
// ceil(ratio*n) rows and the training set the rest. Both must be non-empty.
func SplitSizes(n int, ratio float64) (train, test int, err error) {
	if !(ratio > 0 && ratio < 1) {
		return 0, 0, errors.Newf(errors.KindConfig, "split ratio %v is outside (0, 1)", ratio)
	}
	test = int(math.Ceil(ratio * float64(n)))
	train = n - test
	if train <= 0 || test <= 0 {
		return 0, 0, errors.Newf(errors.KindConfig,
			"with n_samples=%d and split ratio %v the resulting train set would be empty", n, ratio).
			WithHint("The dataset is too small to split", "Load more documents or adjust ingestion.split_ratio")
	}
	return train, test, nil
}

// Split shuffles the rows of t and returns disjoint training and testing
// tables whose union is t.
func (s *Splitter) Split(t *table.Table) (train, test *table.Table, err error) {
	if t == nil || t.Len() == 0 {
		return nil, nil, errors.New(errors.KindConfig, "cannot split an empty table")
	}

	nTrain, nTest, err := SplitSizes(t.Len(), s.ratio)
	if err != nil {
		return nil, nil, err
	}

	perm := s.rng().Perm(t.Len())
	test, err = t.Subset(perm[:nTest])
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.KindInternal, "build test subset")
	}
	train, err = t.Subset(perm[nTest : nTest+nTrain])
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.KindInternal, "build train subset")
	}
	return train, test, nil
}

// SplitTrainTest splits t and writes the training and testing CSV files.
func (s *Splitter) SplitTrainTest(t *table.Table) error {
	_, _, err := s.splitAndWrite(t)
	return err
}

func (s *Splitter) splitAndWrite(t *table.Table) (trainRows, testRows int, err error) {
	train, test, err := s.Split(t)
	if err != nil {
		return 0, 0, err
	}
	s.logger.Info("ingestion.split.complete",
		"train_rows", train.Len(),
		"test_rows", test.Len(),
		"ratio", s.ratio,
		"seeded", s.seed != nil,
	)

	if err := train.WriteCSVFile(s.trainPath); err != nil {
		return 0, 0, errors.Wrapf(err, errors.KindIO, "write training file %s", s.trainPath)
	}
	recordRowsWritten("train", train.Len())

	if err := test.WriteCSVFile(s.testPath); err != nil {
		return 0, 0, errors.Wrapf(err, errors.KindIO, "write testing file %s", s.testPath)
	}
	recordRowsWritten("test", test.Len())

	s.logger.Info("ingestion.split.written", "train_path", s.trainPath, "test_path", s.testPath)
	return train.Len(), test.Len(), nil
}

func (s *Splitter) rng() *rand.Rand {
	if s.seed != nil {
		return rand.New(rand.NewPCG(*s.seed, *s.seed^0x9e3779b97f4a7c15))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
