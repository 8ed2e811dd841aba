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
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kraklabs/netsec/internal/config"
	"github.com/kraklabs/netsec/internal/errors"
	"github.com/kraklabs/netsec/internal/logging"
	"github.com/kraklabs/netsec/internal/ui"
)

// session carries what every store-facing command needs: the loaded
// configuration, the run logger and the status printer.
type session struct {
	globals GlobalFlags
	cfg     *config.Config
	log     *logging.Logger
	printer *ui.Printer
}

// loadConfig reads the configuration named by --config. Without --config a
// missing ./.netsec/pipeline.yaml falls back to the defaults.
func loadConfig(configPath string) (*config.Config, error) {
	explicit := configPath != ""
	if !explicit {
		configPath = config.DefaultPath(".")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		if !explicit && errors.IsKind(err, errors.KindNotFound) {
			return config.Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// newSession loads configuration and the .env file, then opens the run
// log. debug forces LevelDebug regardless of logging.level.
func newSession(globals GlobalFlags, debug bool) (*session, error) {
	ui.InitColors(globals.NoColor)

	if err := config.LoadEnvFile(globals.EnvFile, globals.EnvFile != ""); err != nil {
		return nil, err
	}

	cfg, err := loadConfig(globals.ConfigPath)
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindConfig, "logging.level")
	}
	if debug {
		level = slog.LevelDebug
	}

	logger, err := logging.New(logging.Options{
		Dir:    cfg.Logging.Dir,
		Level:  level,
		Stderr: cfg.Logging.Stderr,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.KindIO, "open log file")
	}
	slog.SetDefault(logger.Logger)

	return &session{
		globals: globals,
		cfg:     cfg,
		log:     logger,
		printer: ui.New(os.Stdout, os.Stderr, globals.Quiet),
	}, nil
}

// fail closes the log file and exits through FatalError.
func (s *session) fail(err error) {
	s.log.Error("command.failed", "err", err, "kind", errors.KindOf(err).String())
	_ = s.log.Close()
	errors.FatalError(err, s.globals.JSON)
}

func (s *session) close() {
	if err := s.log.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: close log file: %v\n", err)
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("shutdown.signal", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}
