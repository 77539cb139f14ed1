package debug

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coral-mesh/swd/internal/cli/helpers"
	"github.com/coral-mesh/swd/pkg/swd"
)

// NewLineCmd creates the line command.
func NewLineCmd(env *helpers.Env) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "line <file> <file-index> <line>",
		Short: "Resolve a source line to its bytecode offset",
		Example: `  swd line app.swd 1 42
  swd line app.swd 0x2 17 -o json`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, err := env.Formatter(format)
			if err != nil {
				return err
			}
			fileIndex, err := helpers.ParseUint32("file index", args[1])
			if err != nil {
				return err
			}
			line, err := helpers.ParseUint32("line", args[2])
			if err != nil {
				return err
			}

			h, err := env.Registry.Open(args[0])
			if err != nil {
				return err
			}

			var (
				row   helpers.LocationRow
				found bool
			)
			h.With(func(m *swd.Model) {
				var offset uint32
				if offset, found = m.ResolveLine(fileIndex, line); found {
					row = helpers.NewLocationRow(m, offset, fileIndex, line)
				}
			})
			if !found {
				return fmt.Errorf("line %d of file %d has no bytecode offset", line, fileIndex)
			}

			return formatter.Format([]helpers.LocationRow{row}, cmd.OutOrStdout())
		},
	}

	helpers.AddFormatFlag(cmd, &format)

	return cmd
}

// NewOffsetCmd creates the offset command.
func NewOffsetCmd(env *helpers.Env) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "offset <file> <offset>",
		Short: "Resolve a bytecode offset to a source line and breakpoint",
		Long: `Resolves a bytecode offset back to its source location.

A breakpoint placed at the offset takes precedence. Otherwise the offset is
looked up in the per-file offset tables; when several lines map to it the
lowest file index and line are reported.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, err := env.Formatter(format)
			if err != nil {
				return err
			}
			offset, err := helpers.ParseUint32("offset", args[1])
			if err != nil {
				return err
			}

			h, err := env.Registry.Open(args[0])
			if err != nil {
				return err
			}

			var (
				row   helpers.LocationRow
				found bool
			)
			h.With(func(m *swd.Model) {
				row, found = helpers.LocateOffset(m, offset)
			})
			if !found {
				return fmt.Errorf("offset %d (0x%x) does not map to any source line", offset, offset)
			}

			return formatter.Format([]helpers.LocationRow{row}, cmd.OutOrStdout())
		},
	}

	helpers.AddFormatFlag(cmd, &format)

	return cmd
}
