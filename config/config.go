/*
Copyright (c) FreeDV OFDM Core Contributors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package config loads the operational (not mode-table) configuration
// the modem CLIs run with: which mode to run, the acquisition variant's
// runtime knobs, and PTT/serial settings. The mode table itself (package
// modetable) is the authoritative ModeConfig source; this package
// only layers deployment-time choices on top of a mode name.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/freedv/ofdmcore/modetable"
)

// RuntimeConfig is the on-disk shape of a modem instance's deployment
// configuration.
type RuntimeConfig struct {
	Mode               string  `yaml:"mode"`
	VerboseLevel       int     `yaml:"verbose_level"`
	TimingEnable       bool    `yaml:"timing_enable"`
	FoffEstEnable      bool    `yaml:"foff_est_enable"`
	PhaseEstEnable     bool    `yaml:"phase_est_enable"`
	PhaseEstBandwidth  string  `yaml:"phase_est_bandwidth"` // "auto" | "locked"
	TxBPFEnable        bool    `yaml:"tx_bpf_enable"`
	DPSKEnable         bool    `yaml:"dpsk_enable"`
	PacketsPerBurst    int     `yaml:"packets_per_burst"`
	SyncMode           string  `yaml:"sync_mode"` // "autosync" | "manualsync" | "unsync"
	FoffEstHz          float64 `yaml:"foff_est_hz"`
	AdaptiveUWExpr     string  `yaml:"adaptive_uw_expr"`
	PTTSerialPort      string  `yaml:"ptt_serial_port"`
	PTTSerialBaud      int     `yaml:"ptt_serial_baud"`
	MetricsListenAddr  string  `yaml:"metrics_listen_addr"`
}

// Default returns a RuntimeConfig matching a mode's own defaults (no
// runtime overrides applied).
func Default(mode string) RuntimeConfig {
	return RuntimeConfig{
		Mode:              mode,
		TimingEnable:      true,
		FoffEstEnable:     true,
		PhaseEstEnable:    true,
		PhaseEstBandwidth: "auto",
		SyncMode:          "autosync",
	}
}

// Load reads and strictly unmarshals a RuntimeConfig from a YAML file,
// then validates it against the mode table.
func Load(path string) (*RuntimeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	c := Default("")
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the runtime config references a real mode and a
// sensible sync policy/phase-estimator setting.
func (c *RuntimeConfig) Validate() error {
	if _, err := modetable.Get(c.Mode); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.SyncMode {
	case "autosync", "manualsync", "unsync":
	default:
		return fmt.Errorf("config: unsupported sync_mode %q", c.SyncMode)
	}
	switch c.PhaseEstBandwidth {
	case "auto", "locked":
	default:
		return fmt.Errorf("config: unsupported phase_est_bandwidth %q", c.PhaseEstBandwidth)
	}
	return nil
}
