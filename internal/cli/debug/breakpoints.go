package debug

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coral-mesh/swd/internal/cli/helpers"
	"github.com/coral-mesh/swd/pkg/swd"
)

// NewBreakCmd creates the break command.
func NewBreakCmd(env *helpers.Env) *cobra.Command {
	var (
		format  string
		adds    []string
		removes []string
	)

	cmd := &cobra.Command{
		Use:   "break <file>",
		Short: "Add or remove breakpoints and list the result",
		Long: `Lists the breakpoints of an SWD file after applying edits.

Locations are given as <file-index>:<line>. Removals are applied after
additions. Lines without a bytecode offset are skipped silently.`,
		Example: `  swd break app.swd
  swd break app.swd --add 1:10 --add 1:12 --remove 1:3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, err := env.Formatter(format)
			if err != nil {
				return err
			}

			addLocs, err := parseLocations(adds)
			if err != nil {
				return err
			}
			removeLocs, err := parseLocations(removes)
			if err != nil {
				return err
			}

			h, err := env.Registry.Open(args[0])
			if err != nil {
				return err
			}

			var rows []helpers.LocationRow
			h.With(func(m *swd.Model) {
				applyBreakpoints(m, addLocs, removeLocs)
				rows = helpers.BreakpointRows(m)
			})

			out := cmd.OutOrStdout()
			if _, ok := formatter.(*helpers.TableFormatter); ok && len(rows) == 0 {
				fmt.Fprintln(out, "No breakpoints.")
				return nil
			}
			return formatter.Format(rows, out)
		},
	}

	cmd.Flags().StringArrayVar(&adds, "add", nil, "Add a breakpoint at <file-index>:<line> (repeatable)")
	cmd.Flags().StringArrayVar(&removes, "remove", nil, "Remove the breakpoint at <file-index>:<line> (repeatable)")
	helpers.AddFormatFlag(cmd, &format)

	return cmd
}

func parseLocations(specs []string) ([]swd.Location, error) {
	locs := make([]swd.Location, 0, len(specs))
	for _, s := range specs {
		fileIndex, line, err := helpers.ParseFileLine(s)
		if err != nil {
			return nil, err
		}
		locs = append(locs, swd.Location{FileIndex: fileIndex, Line: line})
	}
	return locs, nil
}

func applyBreakpoints(m *swd.Model, adds, removes []swd.Location) {
	for _, loc := range adds {
		m.AddBreakpoint(loc.FileIndex, loc.Line)
	}
	for _, loc := range removes {
		m.RemoveBreakpoint(loc.FileIndex, loc.Line)
	}
}
