// Package settings loads the user-level configuration file consumed by the
// CLI: default and maximum connection counts, a default output directory and
// a bandwidth ceiling. The ceiling is parsed and surfaced but not enforced by
// the transfer core.
package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/snag-dl/snag/internal/utils"
	"gopkg.in/yaml.v3"
)

type Settings struct {
	DefaultConnections int    `yaml:"default_connections"`
	MaxConnections     int    `yaml:"max_connections"`
	OutputDir          string `yaml:"output_dir"`
	BandwidthLimitKBps int    `yaml:"bandwidth_limit_kbps"` // reserved, not enforced
}

func Default() Settings {
	return Settings{
		DefaultConnections: utils.DefaultConnections,
		MaxConnections:     utils.MaxConnections,
		OutputDir:          ".",
	}
}

// DefaultPath is the settings file location, ~/.snag.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".snag.yaml"
	}
	return filepath.Join(home, ".snag.yaml")
}

// Load reads settings from path. A missing file yields the defaults; a
// malformed one is an error. Out-of-range values are normalized instead of
// rejected.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("error reading settings file: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("error parsing settings file: %w", err)
	}
	s.normalize()
	return s, nil
}

func (s *Settings) normalize() {
	if s.MaxConnections < 1 || s.MaxConnections > utils.MaxConnections {
		s.MaxConnections = utils.MaxConnections
	}
	if s.DefaultConnections < 1 {
		s.DefaultConnections = utils.DefaultConnections
	}
	if s.DefaultConnections > s.MaxConnections {
		s.DefaultConnections = s.MaxConnections
	}
	if s.OutputDir == "" {
		s.OutputDir = "."
	}
	if s.BandwidthLimitKBps < 0 {
		s.BandwidthLimitKBps = 0
	}
}
