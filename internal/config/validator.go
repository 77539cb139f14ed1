package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/coral-mesh/swd/internal/constants"
)

// ValidLogLevels lists the accepted log.level values.
var ValidLogLevels = []string{"trace", "debug", "info", "warn", "error"}

// ValidOutputFormats lists the accepted output.format values.
var ValidOutputFormats = []string{"table", "json", "csv"}

// ValidationError represents a single validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// MultiValidationError represents multiple validation errors.
type MultiValidationError struct {
	Errors []ValidationError
}

// Error implements the error interface.
func (e *MultiValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}

	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "validation failed with %d errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&builder, "  %d. %s\n", i+1, err.Error())
	}
	return builder.String()
}

// Validate validates Config.
func (c *Config) Validate() error {
	var errs []ValidationError

	if c.Version == "" {
		errs = append(errs, ValidationError{
			Field:   "version",
			Message: "version is required",
		})
	}

	if !slices.Contains(ValidLogLevels, c.Log.Level) {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(ValidLogLevels, ", "), c.Log.Level),
		})
	}

	if c.Cache.Size < 1 || c.Cache.Size > constants.MaxCacheSize {
		errs = append(errs, ValidationError{
			Field:   "cache.size",
			Message: fmt.Sprintf("must be between 1 and %d, got %d", constants.MaxCacheSize, c.Cache.Size),
		})
	}

	if !slices.Contains(ValidOutputFormats, c.Output.Format) {
		errs = append(errs, ValidationError{
			Field:   "output.format",
			Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(ValidOutputFormats, ", "), c.Output.Format),
		})
	}

	if len(errs) > 0 {
		return &MultiValidationError{Errors: errs}
	}
	return nil
}
