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
	"bytes"
	"os"
	"testing"
)

func TestNewProgressConfig(t *testing.T) {
	tests := []struct {
		name            string
		globals         GlobalFlags
		expectedEnabled bool
		expectedNoColor bool
	}{
		{
			name:            "default flags - progress disabled in test (not a TTY)",
			globals:         GlobalFlags{},
			expectedEnabled: false, // stderr is not a TTY in test environment
		},
		{
			name:            "quiet mode - progress disabled",
			globals:         GlobalFlags{Quiet: true},
			expectedEnabled: false,
		},
		{
			name:            "JSON mode - progress disabled",
			globals:         GlobalFlags{JSON: true},
			expectedEnabled: false,
		},
		{
			name:            "noColor flag propagates to config",
			globals:         GlobalFlags{NoColor: true},
			expectedEnabled: false, // stderr not a TTY in test
			expectedNoColor: true,
		},
		{
			name:            "all flags combined",
			globals:         GlobalFlags{JSON: true, Quiet: true, NoColor: true},
			expectedEnabled: false,
			expectedNoColor: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewProgressConfig(tt.globals)
			if cfg.Enabled != tt.expectedEnabled {
				t.Errorf("NewProgressConfig().Enabled = %v, want %v", cfg.Enabled, tt.expectedEnabled)
			}
			if cfg.NoColor != tt.expectedNoColor {
				t.Errorf("NewProgressConfig().NoColor = %v, want %v", cfg.NoColor, tt.expectedNoColor)
			}
			if cfg.Writer != os.Stderr {
				t.Error("NewProgressConfig().Writer should be os.Stderr")
			}
		})
	}
}

func TestNewProgressBar(t *testing.T) {
	t.Run("disabled config returns nil", func(t *testing.T) {
		bar := NewProgressBar(ProgressConfig{Enabled: false}, 100, "Test")
		if bar != nil {
			t.Error("NewProgressBar() should return nil when disabled")
		}
	})

	t.Run("enabled config returns usable bar", func(t *testing.T) {
		var buf bytes.Buffer
		bar := NewProgressBar(ProgressConfig{Enabled: true, Writer: &buf}, 100, "Test")
		if bar == nil {
			t.Fatal("NewProgressBar() should return non-nil when enabled")
		}
		_ = bar.Set(50)
		_ = bar.Finish()
	})

	t.Run("zero total creates valid bar", func(t *testing.T) {
		var buf bytes.Buffer
		bar := NewProgressBar(ProgressConfig{Enabled: true, Writer: &buf}, 0, "Empty")
		if bar == nil {
			t.Fatal("NewProgressBar() should handle zero total")
		}
		_ = bar.Finish()
	})
}

func TestNewSpinner(t *testing.T) {
	if NewSpinner(ProgressConfig{Enabled: false}, "Test") != nil {
		t.Error("NewSpinner() should return nil when disabled")
	}

	var buf bytes.Buffer
	spinner := NewSpinner(ProgressConfig{Enabled: true, Writer: &buf, NoColor: true}, "Connecting")
	if spinner == nil {
		t.Fatal("NewSpinner() should return non-nil when enabled")
	}
	_ = spinner.Add(1)
	_ = spinner.Finish()
}

func TestBatchProgress(t *testing.T) {
	t.Run("disabled never creates a bar", func(t *testing.T) {
		p := newBatchProgress(ProgressConfig{Enabled: false}, "Inserting")
		p.Update(10, 100)
		p.Finish()
		if p.bar != nil {
			t.Error("disabled batchProgress should not create a bar")
		}
	})

	t.Run("enabled creates the bar on first update", func(t *testing.T) {
		var buf bytes.Buffer
		p := newBatchProgress(ProgressConfig{Enabled: true, Writer: &buf, NoColor: true}, "Inserting")
		if p.bar != nil {
			t.Fatal("bar should not exist before the first update")
		}
		p.Update(10, 30)
		if p.bar == nil {
			t.Fatal("bar should exist after the first update")
		}
		if got := p.bar.GetMax64(); got != 30 {
			t.Errorf("bar max = %d, want 30", got)
		}
		p.Update(30, 30)
		p.Finish()
	})
}
