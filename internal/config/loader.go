// Package config provides configuration loading for the swd tools.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/coral-mesh/swd/internal/constants"
)

// Loader handles loading configuration files.
type Loader struct {
	homeDir string
}

// NewLoader creates a new config loader.
// The base directory is resolved in this order:
//  1. SWD_CONFIG environment variable.
//  2. User home directory (~/).
//  3. The system temp directory, where no config file is expected.
func NewLoader() *Loader {
	if baseDir := os.Getenv(constants.ConfigDirEnv); baseDir != "" {
		return &Loader{homeDir: baseDir}
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		return &Loader{homeDir: homeDir}
	}

	return &Loader{homeDir: filepath.Join(os.TempDir(), "swd-fallback")}
}

// Dir returns the swd configuration directory.
func (l *Loader) Dir() string {
	return filepath.Join(l.homeDir, constants.DefaultDir)
}

// ConfigPath returns the path to the config file.
func (l *Loader) ConfigPath() string {
	return filepath.Join(l.Dir(), constants.ConfigFile)
}

// Load loads the configuration from the default path.
func (l *Loader) Load() (*Config, error) {
	return l.LoadFile(l.ConfigPath())
}

// LoadFile loads configuration from path. A missing file yields the defaults.
// Environment variable overrides are applied last, then the result is validated.
func (l *Loader) LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	//nolint:gosec // G304: Path is the user's own config file.
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := LoadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if cfg.Shell.HistoryFile == "" {
		cfg.Shell.HistoryFile = filepath.Join(l.Dir(), constants.HistoryFile)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}
