package helpers

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/coral-mesh/swd/pkg/swd"
)

// maxSourceWidth bounds the source text shown next to a location.
const maxSourceWidth = 60

// FileRow is one line of a file table.
type FileRow struct {
	Index  uint32 `header:"INDEX" json:"index"`
	Name   string `header:"NAME" json:"name"`
	Size   string `header:"SIZE" json:"size"`
	Lines  int    `header:"LINES" json:"lines"`
	Mapped int    `header:"MAPPED" json:"mapped_lines"`
	Hash   string `header:"HASH" json:"hash"`
}

// LocationRow describes a source line and its bytecode offset.
type LocationRow struct {
	Offset     uint32 `header:"OFFSET" json:"offset"`
	FileIndex  uint32 `header:"FILE" json:"file_index"`
	Name       string `header:"NAME" json:"name"`
	Line       uint32 `header:"LINE" json:"line"`
	Breakpoint bool   `header:"BREAK" json:"breakpoint"`
	Source     string `header:"SOURCE" json:"source"`
}

// FileRows lists the files of m in index order.
func FileRows(m *swd.Model) []FileRow {
	files := m.Files()
	rows := make([]FileRow, 0, len(files))
	for _, f := range files {
		rows = append(rows, FileRow{
			Index:  f.Index(),
			Name:   f.Name(),
			Size:   humanize.Bytes(uint64(len(f.Source()))),
			Lines:  f.LineCount(),
			Mapped: len(f.MappedLines()),
			Hash:   fmt.Sprintf("%016x", f.Hash()),
		})
	}
	return rows
}

// BreakpointRows lists the breakpoints of m in offset order.
func BreakpointRows(m *swd.Model) []LocationRow {
	bps := m.Breakpoints()
	rows := make([]LocationRow, 0, len(bps))
	for _, bp := range bps {
		rows = append(rows, breakpointRow(m, bp.Offset, bp.Breakpoint))
	}
	return rows
}

// NewLocationRow builds a row for a line of the live file fileIndex placed
// at offset.
func NewLocationRow(m *swd.Model, offset, fileIndex, line uint32) LocationRow {
	row := locationRow(m.File(fileIndex), offset, fileIndex, line)
	if _, ok := m.ResolveBreakpoint(offset); ok {
		row.Breakpoint = true
	}
	return row
}

// breakpointRow describes the breakpoint at offset using the file it was
// resolved against, which may since have been redefined.
func breakpointRow(m *swd.Model, offset uint32, bp swd.Breakpoint) LocationRow {
	row := locationRow(m.BreakpointFile(offset), offset, bp.FileIndex, bp.Line)
	row.Breakpoint = true
	return row
}

func locationRow(f *swd.File, offset, fileIndex, line uint32) LocationRow {
	row := LocationRow{Offset: offset, FileIndex: fileIndex, Line: line}
	if f != nil {
		row.Name = f.Name()
		if text, ok := f.Line(line); ok {
			row.Source = Truncate(strings.TrimSpace(text), maxSourceWidth)
		}
	}
	return row
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// TagDetail renders the fields of a decoded tag on one line.
func TagDetail(tag swd.Tag) string {
	switch t := tag.(type) {
	case swd.SourceFile:
		return fmt.Sprintf("file=%d unknown=%d name=%q source=%s",
			t.FileIndex, t.UnknownIndex, t.FileName, humanize.Bytes(uint64(len(t.SourceCode))))
	case swd.OffsetMap:
		return fmt.Sprintf("file=%d line=%d offset=%d", t.FileIndex, t.Line, t.Offset)
	case swd.SetBreakpoint:
		return fmt.Sprintf("file=%d line=%d", t.FileIndex, t.Line)
	case swd.ID:
		return "id=" + t.String()
	default:
		return ""
	}
}

// LocateOffset resolves offset through the breakpoint index first and the
// offset tables second.
func LocateOffset(m *swd.Model, offset uint32) (LocationRow, bool) {
	if bp, ok := m.ResolveBreakpoint(offset); ok {
		return breakpointRow(m, offset, bp), true
	}
	if loc, ok := m.Locate(offset); ok {
		return NewLocationRow(m, offset, loc.FileIndex, loc.Line), true
	}
	return LocationRow{}, false
}
