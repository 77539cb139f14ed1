package debug

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coral-mesh/swd/internal/cli/helpers"
	"github.com/coral-mesh/swd/pkg/swd"
)

// Summary is the JSON form of the inspect command.
type Summary struct {
	Path        string                `json:"path"`
	Version     uint8                 `json:"version"`
	Compressed  bool                  `json:"lz4"`
	Files       []helpers.FileRow     `json:"files"`
	Breakpoints []helpers.LocationRow `json:"breakpoints"`
}

// NewInspectCmd creates the inspect command.
func NewInspectCmd(env *helpers.Env) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show the file table and breakpoints of an SWD file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, err := env.Formatter(format)
			if err != nil {
				return err
			}

			h, err := env.Registry.Open(args[0])
			if err != nil {
				return err
			}

			var summary Summary
			h.With(func(m *swd.Model) {
				summary = Summary{
					Path:        args[0],
					Version:     m.Version,
					Compressed:  h.Compressed(),
					Files:       helpers.FileRows(m),
					Breakpoints: helpers.BreakpointRows(m),
				}
			})

			out := cmd.OutOrStdout()
			switch formatter.(type) {
			case *helpers.JSONFormatter:
				return formatter.Format(summary, out)
			case *helpers.CSVFormatter:
				return formatter.Format(summary.Files, out)
			}

			fmt.Fprintf(out, "Path:        %s\n", summary.Path)
			fmt.Fprintf(out, "Version:     %d\n", summary.Version)
			fmt.Fprintf(out, "Files:       %d\n", len(summary.Files))
			fmt.Fprintf(out, "Breakpoints: %d\n", len(summary.Breakpoints))
			if len(summary.Files) > 0 {
				fmt.Fprintln(out)
				if err := formatter.Format(summary.Files, out); err != nil {
					return err
				}
			}
			if len(summary.Breakpoints) > 0 {
				fmt.Fprintln(out)
				return formatter.Format(summary.Breakpoints, out)
			}
			return nil
		},
	}

	helpers.AddFormatFlag(cmd, &format)

	return cmd
}
