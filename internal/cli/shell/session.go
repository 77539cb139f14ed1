package shell

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/coral-mesh/swd/internal/cli/helpers"
	"github.com/coral-mesh/swd/internal/registry"
	"github.com/coral-mesh/swd/pkg/swd"
)

// errExit ends the shell loop.
var errExit = errors.New("exit")

// ModelRow is one cached model in the models listing.
type ModelRow struct {
	Current string `header:" "`
	Slot    int    `header:"#"`
	Name    string `header:"NAME"`
	Version uint8  `header:"VERSION"`
	Files   int    `header:"FILES"`
	Size    string `header:"SIZE"`
}

// Session executes shell commands against the registry. It remembers the
// model selected last.
type Session struct {
	env     *helpers.Env
	out     io.Writer
	table   helpers.Formatter
	current *registry.Handle
}

// NewSession creates a session writing to out.
func NewSession(env *helpers.Env, out io.Writer) *Session {
	return &Session{env: env, out: out, table: &helpers.TableFormatter{}}
}

// Exec runs one command line.
func (s *Session) Exec(line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}
	cmd, args := parts[0], parts[1:]

	switch cmd {
	case "exit", "quit":
		return errExit
	case "help":
		s.printHelp()
		return nil
	case "load":
		return s.load(args)
	case "models":
		return s.models()
	case "use":
		return s.use(args)
	}

	if s.current == nil {
		return fmt.Errorf("no model loaded (try: load <file>)")
	}

	switch cmd {
	case "files":
		return s.withModel(func(m *swd.Model) error {
			return s.table.Format(helpers.FileRows(m), s.out)
		})
	case "line":
		return s.line(args)
	case "where":
		return s.where(args)
	case "break", "clear":
		return s.editBreakpoint(cmd, args)
	case "bps":
		return s.withModel(func(m *swd.Model) error {
			rows := helpers.BreakpointRows(m)
			if len(rows) == 0 {
				fmt.Fprintln(s.out, "No breakpoints.")
				return nil
			}
			return s.table.Format(rows, s.out)
		})
	case "source":
		return s.source(args)
	default:
		return fmt.Errorf("unknown command: %s (try help)", cmd)
	}
}

func (s *Session) withModel(fn func(m *swd.Model) error) error {
	var err error
	s.current.With(func(m *swd.Model) {
		err = fn(m)
	})
	return err
}

func (s *Session) load(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: load <file>")
	}
	h, err := s.env.Registry.Open(args[0])
	if err != nil {
		return err
	}
	s.current = h

	return s.withModel(func(m *swd.Model) error {
		fmt.Fprintf(s.out, "Loaded %s: version %d, %d files, %d breakpoints\n",
			h.Name(), m.Version, len(m.Files()), len(m.Breakpoints()))
		return nil
	})
}

func (s *Session) models() error {
	handles := s.env.Registry.Handles()
	if len(handles) == 0 {
		fmt.Fprintln(s.out, "No models loaded.")
		return nil
	}

	rows := make([]ModelRow, 0, len(handles))
	for i, h := range handles {
		row := ModelRow{Slot: i, Name: h.Name(), Size: humanize.Bytes(uint64(h.Size()))}
		if h == s.current {
			row.Current = "*"
		}
		h.With(func(m *swd.Model) {
			row.Version = m.Version
			row.Files = len(m.Files())
		})
		rows = append(rows, row)
	}
	return s.table.Format(rows, s.out)
}

func (s *Session) use(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: use <slot>")
	}
	slot, err := helpers.ParseUint32("slot", args[0])
	if err != nil {
		return err
	}
	handles := s.env.Registry.Handles()
	if int(slot) >= len(handles) {
		return fmt.Errorf("no model in slot %d", slot)
	}
	s.current = handles[slot]
	fmt.Fprintf(s.out, "Using %s\n", s.current.Name())
	return nil
}

func (s *Session) line(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: line <file-index> <line>")
	}
	fileIndex, err := helpers.ParseUint32("file index", args[0])
	if err != nil {
		return err
	}
	line, err := helpers.ParseUint32("line", args[1])
	if err != nil {
		return err
	}

	return s.withModel(func(m *swd.Model) error {
		offset, ok := m.ResolveLine(fileIndex, line)
		if !ok {
			fmt.Fprintf(s.out, "Line %d of file %d has no bytecode offset.\n", line, fileIndex)
			return nil
		}
		fmt.Fprintf(s.out, "%d (0x%x)\n", offset, offset)
		return nil
	})
}

func (s *Session) where(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: where <offset>")
	}
	offset, err := helpers.ParseUint32("offset", args[0])
	if err != nil {
		return err
	}

	return s.withModel(func(m *swd.Model) error {
		row, ok := helpers.LocateOffset(m, offset)
		if !ok {
			fmt.Fprintf(s.out, "Offset %d does not map to any source line.\n", offset)
			return nil
		}
		return s.table.Format([]helpers.LocationRow{row}, s.out)
	})
}

func (s *Session) editBreakpoint(cmd string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: %s <file-index>:<line>", cmd)
	}
	fileIndex, line, err := helpers.ParseFileLine(args[0])
	if err != nil {
		return err
	}

	return s.withModel(func(m *swd.Model) error {
		if cmd == "clear" {
			before := len(m.Breakpoints())
			m.RemoveBreakpoint(fileIndex, line)
			if removed := before - len(m.Breakpoints()); removed > 0 {
				fmt.Fprintf(s.out, "Cleared %d breakpoint(s) at %d:%d.\n", removed, fileIndex, line)
			} else {
				fmt.Fprintf(s.out, "No breakpoint at %d:%d.\n", fileIndex, line)
			}
			return nil
		}

		offset, ok := m.ResolveLine(fileIndex, line)
		if !ok {
			fmt.Fprintf(s.out, "Line %d of file %d has no bytecode offset.\n", line, fileIndex)
			return nil
		}
		m.AddBreakpoint(fileIndex, line)
		fmt.Fprintf(s.out, "Breakpoint set at offset %d.\n", offset)
		return nil
	})
}

func (s *Session) source(args []string) error {
	if len(args) < 1 || len(args) > 3 {
		return fmt.Errorf("usage: source <file-index> [from [to]]")
	}
	fileIndex, err := helpers.ParseUint32("file index", args[0])
	if err != nil {
		return err
	}
	from, to := uint32(1), uint32(0)
	if len(args) > 1 {
		if from, err = helpers.ParseUint32("from", args[1]); err != nil {
			return err
		}
	}
	if len(args) > 2 {
		if to, err = helpers.ParseUint32("to", args[2]); err != nil {
			return err
		}
	}

	return s.withModel(func(m *swd.Model) error {
		f := m.File(fileIndex)
		if f == nil {
			return fmt.Errorf("no file with index %d", fileIndex)
		}
		last := uint32(f.LineCount())
		if to == 0 || to > last {
			to = last
		}
		for n := max(from, 1); n <= to; n++ {
			text, _ := f.Line(n)
			marker := " "
			if off, ok := f.Offset(n); ok {
				marker = "."
				if _, isBP := m.ResolveBreakpoint(off); isBP {
					marker = "*"
				}
			}
			fmt.Fprintf(s.out, "%s %4d  %s\n", marker, n, text)
		}
		return nil
	})
}

func (s *Session) printHelp() {
	fmt.Fprintln(s.out, "Commands:")
	fmt.Fprintln(s.out, "  load <file>               Load an SWD file and select it")
	fmt.Fprintln(s.out, "  models                    List loaded models")
	fmt.Fprintln(s.out, "  use <slot>                Select a loaded model")
	fmt.Fprintln(s.out, "  files                     List source files")
	fmt.Fprintln(s.out, "  line <file-index> <line>  Resolve a line to its bytecode offset")
	fmt.Fprintln(s.out, "  where <offset>            Resolve an offset to its source line")
	fmt.Fprintln(s.out, "  break <file-index>:<line> Set a breakpoint")
	fmt.Fprintln(s.out, "  clear <file-index>:<line> Clear a breakpoint")
	fmt.Fprintln(s.out, "  bps                       List breakpoints")
	fmt.Fprintln(s.out, "  source <idx> [from [to]]  Print source (. mapped, * breakpoint)")
	fmt.Fprintln(s.out, "  help                      Show this help message")
	fmt.Fprintln(s.out, "  exit                      Exit shell (or Ctrl+D)")
}
