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

// Package config loads the netsec pipeline configuration.
//
// The configuration lives in .netsec/pipeline.yaml by default. A path
// ending in .toml is read as TOML instead. Fields missing from the file
// keep their defaults from Default.
//
// The document store URL is never required in the file: when database.url
// is empty it is read from the environment variable named by
// database.url_env (MONGO_DB_URL by default), which LoadEnvFile can
// populate from a .env file.
package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/kraklabs/netsec/internal/errors"
	"github.com/kraklabs/netsec/pkg/ingestion"
	"github.com/kraklabs/netsec/pkg/push"
)

// Defaults for file locations and the database.
const (
	DefaultConfigDir      = ".netsec"
	DefaultConfigFile     = "pipeline.yaml"
	DefaultEnvFile        = ".env"
	DefaultURLEnv         = "MONGO_DB_URL"
	DefaultDatabase       = "netsec"
	DefaultCollection     = "NetworkData"
	DefaultConnectTimeout = "5s"
	DefaultLogDir         = "logs"
	DefaultPushFile       = "Network_Data/phisingData.csv"
	CurrentVersion        = "1"
)

// Config is the pipeline configuration file.
type Config struct {
	Version   string          `yaml:"version" toml:"version"`
	Database  DatabaseConfig  `yaml:"database" toml:"database"`
	Ingestion IngestionConfig `yaml:"ingestion" toml:"ingestion"`
	Push      PushConfig      `yaml:"push" toml:"push"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
}

// DatabaseConfig locates the document store.
type DatabaseConfig struct {
	// URL is the connection URL. Leave empty to read it from URLEnv.
	URL string `yaml:"url,omitempty" toml:"url,omitempty"`

	// URLEnv names the environment variable holding the URL.
	URLEnv string `yaml:"url_env" toml:"url_env"`

	Name       string `yaml:"name" toml:"name"`
	Collection string `yaml:"collection" toml:"collection"`

	// ConnectTimeout is a Go duration string such as "5s".
	ConnectTimeout string `yaml:"connect_timeout" toml:"connect_timeout"`
}

// IngestionConfig controls the ingestion run and its output layout.
type IngestionConfig struct {
	ArtifactDir      string  `yaml:"artifact_dir" toml:"artifact_dir"`
	FeatureStoreFile string  `yaml:"feature_store_file" toml:"feature_store_file"`
	TrainFile        string  `yaml:"train_file" toml:"train_file"`
	TestFile         string  `yaml:"test_file" toml:"test_file"`
	SplitRatio       float64 `yaml:"split_ratio" toml:"split_ratio"`
	Seed             *uint64 `yaml:"seed,omitempty" toml:"seed,omitempty"`
	MissingSentinel  string  `yaml:"missing_sentinel" toml:"missing_sentinel"`
	Manifest         bool    `yaml:"manifest" toml:"manifest"`
}

// PushConfig controls the push command.
type PushConfig struct {
	File      string `yaml:"file" toml:"file"`
	BatchSize int    `yaml:"batch_size" toml:"batch_size"`
}

// LoggingConfig controls the run log file.
type LoggingConfig struct {
	Dir    string `yaml:"dir" toml:"dir"`
	Level  string `yaml:"level" toml:"level"`
	Stderr bool   `yaml:"stderr" toml:"stderr"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Database: DatabaseConfig{
			URLEnv:         DefaultURLEnv,
			Name:           DefaultDatabase,
			Collection:     DefaultCollection,
			ConnectTimeout: DefaultConnectTimeout,
		},
		Ingestion: IngestionConfig{
			ArtifactDir:      ingestion.DefaultArtifactDir,
			FeatureStoreFile: ingestion.DefaultFeatureStoreFileName,
			TrainFile:        ingestion.DefaultTrainFileName,
			TestFile:         ingestion.DefaultTestFileName,
			SplitRatio:       ingestion.DefaultSplitRatio,
			MissingSentinel:  ingestion.DefaultMissingSentinel,
			Manifest:         true,
		},
		Push: PushConfig{
			File:      DefaultPushFile,
			BatchSize: push.DefaultBatchSize,
		},
		Logging: LoggingConfig{
			Dir:   DefaultLogDir,
			Level: "info",
		},
	}
}

// DefaultPath returns .netsec/pipeline.yaml under dir.
func DefaultPath(dir string) string {
	return filepath.Join(dir, DefaultConfigDir, DefaultConfigFile)
}

// Load reads the configuration at path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.WrapWithHint(err, errors.KindNotFound, "configuration not found",
			fmt.Sprintf("No configuration file at %s", path),
			"Run 'netsec init' to create one")
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.KindIO, "read configuration %s", path)
	}

	cfg := Default()
	if isTOML(path) {
		err = toml.Unmarshal(data, cfg)
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(cfg)
		if stderrors.Is(err, io.EOF) {
			err = nil
		}
	}
	if err != nil {
		return nil, errors.WrapWithHint(err, errors.KindConfig, "parse configuration "+path,
			"The configuration file is not valid", "Fix the syntax or regenerate it with 'netsec init --force'")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Propagate(err, "invalid configuration "+path)
	}
	return cfg, nil
}

// Save writes the configuration to path, choosing YAML or TOML by extension.
func (c *Config) Save(path string) error {
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(c)
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return errors.Wrap(err, errors.KindInternal, "encode configuration")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.KindIO, "create directory for %s", path)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.KindIO, "write configuration %s", path)
	}
	return nil
}

// Validate checks values that have no usable default.
func (c *Config) Validate() error {
	switch {
	case c.Database.Name == "":
		return errors.New(errors.KindConfig, "database.name is empty")
	case c.Database.Collection == "":
		return errors.New(errors.KindConfig, "database.collection is empty")
	case c.Database.URL == "" && c.Database.URLEnv == "":
		return errors.New(errors.KindConfig, "database.url and database.url_env are both empty").
			WithHint("The pipeline cannot locate the document store", "Set database.url_env: MONGO_DB_URL")
	case !(c.Ingestion.SplitRatio > 0 && c.Ingestion.SplitRatio < 1):
		return errors.Newf(errors.KindConfig, "ingestion.split_ratio %v is outside (0, 1)", c.Ingestion.SplitRatio)
	case c.Push.BatchSize < 0:
		return errors.Newf(errors.KindConfig, "push.batch_size %d is negative", c.Push.BatchSize)
	}
	if _, err := c.ConnectTimeout(); err != nil {
		return err
	}
	return nil
}

// ConnectTimeout parses database.connect_timeout. Empty means zero (store default).
func (c *Config) ConnectTimeout() (time.Duration, error) {
	if c.Database.ConnectTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Database.ConnectTimeout)
	if err != nil {
		return 0, errors.Wrapf(err, errors.KindConfig, "database.connect_timeout %q", c.Database.ConnectTimeout)
	}
	if d < 0 {
		return 0, errors.Newf(errors.KindConfig, "database.connect_timeout %q is negative", c.Database.ConnectTimeout)
	}
	return d, nil
}

// ResolveDatabaseURL returns database.url, or the value of the environment
// variable named by database.url_env.
func (c *Config) ResolveDatabaseURL() (string, error) {
	if c.Database.URL != "" {
		return c.Database.URL, nil
	}
	name := c.Database.URLEnv
	if name == "" {
		name = DefaultURLEnv
	}
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v, nil
	}
	return "", errors.Newf(errors.KindConfig, "document store url is not set (%s is empty)", name).
		WithHint(fmt.Sprintf("Neither database.url nor the %s environment variable is set", name),
			fmt.Sprintf("export %s=mongodb+srv://... or add it to a .env file", name))
}

// LoadEnvFile loads variables from a .env file without overriding ones
// already set. A missing file is ignored unless required is true.
func LoadEnvFile(path string, required bool) error {
	if path == "" {
		path = DefaultEnvFile
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if required {
			return errors.Wrapf(err, errors.KindNotFound, "env file %s not found", path)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, errors.KindConfig, "load env file %s", path)
	}
	return nil
}

// IngestionRun builds the ingestion settings for a run started at 'at'.
func (c *Config) IngestionRun(url string, at time.Time) (ingestion.Config, error) {
	timeout, err := c.ConnectTimeout()
	if err != nil {
		return ingestion.Config{}, err
	}

	layout := ingestion.NewLayout(c.Ingestion.ArtifactDir, at,
		c.Ingestion.FeatureStoreFile, c.Ingestion.TrainFile, c.Ingestion.TestFile)
	run := layout.Apply(ingestion.Config{
		DatabaseURL:         url,
		DatabaseName:        c.Database.Name,
		CollectionName:      c.Database.Collection,
		TrainTestSplitRatio: c.Ingestion.SplitRatio,
		Seed:                c.Ingestion.Seed,
		ConnectTimeout:      timeout,
		MissingSentinel:     c.Ingestion.MissingSentinel,
	})
	if !c.Ingestion.Manifest {
		run.ManifestPath = ""
	}
	return run, nil
}

// PushRun builds the push settings. An empty file uses push.file.
func (c *Config) PushRun(url, file string) (push.Config, error) {
	timeout, err := c.ConnectTimeout()
	if err != nil {
		return push.Config{}, err
	}
	if file == "" {
		file = c.Push.File
	}
	return push.Config{
		DatabaseURL:    url,
		DatabaseName:   c.Database.Name,
		CollectionName: c.Database.Collection,
		FilePath:       file,
		BatchSize:      c.Push.BatchSize,
		ConnectTimeout: timeout,
	}, nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
