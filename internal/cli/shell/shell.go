// Package shell implements the interactive SWD debugger console.
//
//nolint:errcheck
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/coral-mesh/swd/internal/cli/helpers"
	cerrors "github.com/coral-mesh/swd/internal/errors"
)

const prompt = "swd> "

// NewShellCmd creates the shell command.
func NewShellCmd(env *helpers.Env) *cobra.Command {
	return &cobra.Command{
		Use:   "shell [file...]",
		Short: "Open an interactive console over SWD files",
		Long: `Opens a REPL for resolving lines and offsets and editing breakpoints.

Files given as arguments are loaded up front; the last one is selected.
Breakpoints live as long as the shell and are kept per loaded model, so
switching between models with 'use' keeps each model's breakpoints.

When stdin is not a terminal, commands are read from it one per line and the
first failing command stops the run. Lines starting with # are ignored.

Type 'help' inside the shell for the list of commands.`,
		Example: `  swd shell app.swd
  printf 'break 1:10\nbps\n' | swd shell app.swd`,
		RunE: func(cmd *cobra.Command, args []string) error {
			session := NewSession(env, cmd.OutOrStdout())
			for _, path := range args {
				if err := session.Exec("load " + path); err != nil {
					return err
				}
			}
			if f, ok := cmd.InOrStdin().(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
				return runScript(session, cmd.InOrStdin())
			}
			return runInteractiveShell(env, session)
		},
	}
}

// runInteractiveShell runs the shell loop with readline support.
func runInteractiveShell(env *helpers.Env, session *Session) error {
	historyFile := env.Config.Shell.HistoryFile
	if historyFile != "" {
		//nolint:gosec // G301: History directory lives under the user's config dir.
		if err := os.MkdirAll(filepath.Dir(historyFile), 0o755); err != nil {
			env.Logger.Warn().Err(err).Msg("History disabled")
			historyFile = ""
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer cerrors.DeferClose(env.Logger, rl, "failed to close readline")

	fmt.Fprintln(rl.Stdout(), "SWD debugger shell. Type 'help' for commands, 'exit' to quit.")

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(rl.Stdout())
				return nil
			}
			return fmt.Errorf("readline error: %w", err)
		}

		if err := session.Exec(line); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			fmt.Fprintf(rl.Stdout(), "Error: %v\n", err)
		}
	}
}

// runScript executes commands read from r.
func runScript(session *Session, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := session.Exec(line); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			return fmt.Errorf("line %d: %w", n, err)
		}
	}
	return scanner.Err()
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("load", readline.PcItemDynamic(listFiles)),
		readline.PcItem("models"),
		readline.PcItem("use"),
		readline.PcItem("files"),
		readline.PcItem("line"),
		readline.PcItem("where"),
		readline.PcItem("break"),
		readline.PcItem("clear"),
		readline.PcItem("bps"),
		readline.PcItem("source"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)
}

// listFiles completes SWD file names in the working directory.
func listFiles(string) []string {
	var names []string
	for _, pattern := range []string{"*.swd", "*.swd.lz4"} {
		matches, _ := filepath.Glob(pattern)
		names = append(names, matches...)
	}
	return names
}
