package helpers

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/coral-mesh/swd/internal/config"
	"github.com/coral-mesh/swd/internal/logging"
	"github.com/coral-mesh/swd/internal/registry"
)

// Env carries the state commands share once global flags are parsed.
type Env struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Registry *registry.Registry
}

// Init loads configuration, builds the logger and the model registry.
// Log output goes to stderr.
func (e *Env) Init(flags GlobalFlags, stderr io.Writer) error {
	loader := config.NewLoader()

	var (
		cfg *config.Config
		err error
	)
	if flags.ConfigPath != "" {
		cfg, err = loader.LoadFile(flags.ConfigPath)
	} else {
		cfg, err = loader.Load()
	}
	if err != nil {
		return err
	}

	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
	}

	e.Config = cfg
	e.Logger = logging.NewWithComponent(logging.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
		Output: stderr,
	}, "cli")

	e.Registry, err = registry.New(e.Logger, cfg.Cache.Size)
	if err != nil {
		return err
	}
	return nil
}

// Formatter resolves the --format flag value against the configured default.
func (e *Env) Formatter(flagValue string) (Formatter, error) {
	format := flagValue
	if format == "" {
		format = e.Config.Output.Format
	}
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	return NewFormatter(OutputFormat(format))
}
