package cli

import (
	"github.com/spf13/cobra"

	"github.com/coral-mesh/swd/internal/cli/debug"
	"github.com/coral-mesh/swd/internal/cli/helpers"
	"github.com/coral-mesh/swd/internal/cli/shell"
	cerrors "github.com/coral-mesh/swd/internal/errors"
	"github.com/coral-mesh/swd/pkg/version"
)

// NewRootCmd builds the swd command tree.
func NewRootCmd() *cobra.Command {
	var (
		flags helpers.GlobalFlags
		env   helpers.Env
	)

	rootCmd := &cobra.Command{
		Use:   "swd",
		Short: "swd - inspect SWD debug information",
		Long: `Decode SWD debug information files and query them.

An SWD file carries the source files of a compiled program, the bytecode
offset of each source line, and the breakpoints set when it was written.
swd resolves lines to offsets and back, and edits breakpoints.

Files compressed as lz4 frames are decompressed transparently.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := env.Init(flags, cmd.ErrOrStderr()); err != nil {
				return err
			}
			env.Logger.Debug().Str("build", version.Get().String()).Str("command", cmd.Name()).Msg("Starting")
			return nil
		},
	}

	helpers.AddGlobalFlags(rootCmd.PersistentFlags(), &flags)
	cerrors.Must(rootCmd.MarkPersistentFlagFilename("config", "yaml", "yml"), "failed to mark config flag")

	rootCmd.AddCommand(debug.NewInspectCmd(&env))
	rootCmd.AddCommand(debug.NewTagsCmd(&env))
	rootCmd.AddCommand(debug.NewLineCmd(&env))
	rootCmd.AddCommand(debug.NewOffsetCmd(&env))
	rootCmd.AddCommand(debug.NewBreakCmd(&env))
	rootCmd.AddCommand(shell.NewShellCmd(&env))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			if format == string(helpers.FormatJSON) {
				return (&helpers.JSONFormatter{}).Format(info, cmd.OutOrStdout())
			}
			cmd.Printf("swd version %s\n", info.Version)
			cmd.Printf("Git commit: %s\n", info.GitCommit)
			cmd.Printf("Build date: %s\n", info.BuildDate)
			cmd.Printf("Go version: %s\n", info.GoVersion)
			cmd.Printf("Platform:   %s\n", info.Platform)
			return nil
		},
	}

	helpers.AddFormatFlag(cmd, &format)

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
