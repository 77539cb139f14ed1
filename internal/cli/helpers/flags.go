package helpers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// AddFormatFlag adds a standard --format/-o flag to a command. An empty value
// means the configured default.
func AddFormatFlag(cmd *cobra.Command, formatVar *string) {
	formatNames := make([]string, len(SupportedFormats))
	for i, f := range SupportedFormats {
		formatNames[i] = string(f)
	}

	description := fmt.Sprintf("Output format (%s; default from config)", strings.Join(formatNames, ", "))
	cmd.Flags().StringVarP(formatVar, "format", "o", "", description)

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return formatNames, cobra.ShellCompDirectiveNoFileComp
	})
}

// GlobalFlags holds the persistent flags shared by every command.
type GlobalFlags struct {
	ConfigPath string
	LogLevel   string
}

// AddGlobalFlags registers the persistent flags on fs.
func AddGlobalFlags(fs *pflag.FlagSet, flags *GlobalFlags) {
	fs.StringVar(&flags.ConfigPath, "config", "", "Config file (default ~/.swd/config.yaml)")
	fs.StringVar(&flags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
}

// ValidateFormat checks if the format is in the supported list.
func ValidateFormat(format string) error {
	for _, s := range SupportedFormats {
		if format == string(s) {
			return nil
		}
	}

	supportedNames := make([]string, len(SupportedFormats))
	for i, s := range SupportedFormats {
		supportedNames[i] = string(s)
	}

	return fmt.Errorf("unsupported format %q, must be one of: %s",
		format, strings.Join(supportedNames, ", "))
}

// ParseUint32 parses a decimal or 0x-prefixed 32-bit value.
func ParseUint32(name, s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be an unsigned 32-bit integer", name, s)
	}
	return uint32(v), nil
}

// ParseFileLine parses a "<file-index>:<line>" pair.
func ParseFileLine(s string) (fileIndex, line uint32, err error) {
	idx, ln, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid location %q: want <file-index>:<line>", s)
	}
	if fileIndex, err = ParseUint32("file index", idx); err != nil {
		return 0, 0, err
	}
	if line, err = ParseUint32("line", ln); err != nil {
		return 0, 0, err
	}
	return fileIndex, line, nil
}
