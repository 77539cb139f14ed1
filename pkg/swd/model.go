package swd

import (
	"maps"
	"slices"
)

// Breakpoint is a source location a debugger stops at. It refers to its file
// by index; use Model.File to get the file itself.
type Breakpoint struct {
	Line      uint32
	FileIndex uint32
}

// BreakpointAt pairs a breakpoint with the bytecode offset it is placed at.
type BreakpointAt struct {
	Offset uint32
	Breakpoint
}

// Location is a (file, line) pair found by reverse offset lookup.
type Location struct {
	FileIndex uint32
	Line      uint32
}

// Model is an assembled SWD stream: the file table and the breakpoint index.
//
// Files live in an append-only arena. A SourceFile tag that redefines a file
// index appends a new File and points the index at it; the old File stays in
// the arena. Breakpoints remember the File they were resolved against, so a
// breakpoint placed before a redefinition keeps its offset and its old file
// until it is removed.
type Model struct {
	Version uint8

	files       []*File
	live        map[uint32]int              // file index -> arena slot
	breakpoints map[uint32]placedBreakpoint // bytecode offset -> breakpoint
}

type placedBreakpoint struct {
	Breakpoint
	slot int
}

func newModel(version uint8) *Model {
	return &Model{
		Version:     version,
		live:        make(map[uint32]int),
		breakpoints: make(map[uint32]placedBreakpoint),
	}
}

// addFile appends f to the arena and makes it the live file for its index.
// It reports whether an earlier file was replaced.
func (m *Model) addFile(f *File) bool {
	_, replaced := m.live[f.index]
	m.live[f.index] = len(m.files)
	m.files = append(m.files, f)
	return replaced
}

// File returns the file currently registered under index, or nil.
func (m *Model) File(index uint32) *File {
	slot, ok := m.live[index]
	if !ok {
		return nil
	}
	return m.files[slot]
}

// Files returns the live files ordered by index.
func (m *Model) Files() []*File {
	files := make([]*File, 0, len(m.live))
	for _, idx := range slices.Sorted(maps.Keys(m.live)) {
		files = append(files, m.files[m.live[idx]])
	}
	return files
}

// ResolveLine returns the bytecode offset for a line of a file.
func (m *Model) ResolveLine(fileIndex, line uint32) (uint32, bool) {
	f := m.File(fileIndex)
	if f == nil {
		return 0, false
	}
	return f.Offset(line)
}

// ResolveBreakpoint returns the breakpoint placed at offset.
func (m *Model) ResolveBreakpoint(offset uint32) (Breakpoint, bool) {
	p, ok := m.breakpoints[offset]
	return p.Breakpoint, ok
}

// BreakpointFile returns the file the breakpoint at offset was resolved
// against, or nil when there is no breakpoint there. After a redefinition
// this is the old file, not Model.File(bp.FileIndex).
func (m *Model) BreakpointFile(offset uint32) *File {
	p, ok := m.breakpoints[offset]
	if !ok {
		return nil
	}
	return m.files[p.slot]
}

// AddBreakpoint places a breakpoint on a line. It does nothing when the file
// is unknown or the line has no offset.
func (m *Model) AddBreakpoint(fileIndex, line uint32) {
	m.placeBreakpoint(fileIndex, line)
}

func (m *Model) placeBreakpoint(fileIndex, line uint32) bool {
	slot, ok := m.live[fileIndex]
	if !ok {
		return false
	}
	offset, ok := m.files[slot].Offset(line)
	if !ok {
		return false
	}
	m.breakpoints[offset] = placedBreakpoint{
		Breakpoint: Breakpoint{Line: line, FileIndex: fileIndex},
		slot:       slot,
	}
	return true
}

// RemoveBreakpoint removes the breakpoint at the offset the line resolves to,
// and any breakpoint recorded for the same file index and line at another
// offset, such as one placed before the file was redefined. It does nothing
// when there is none.
func (m *Model) RemoveBreakpoint(fileIndex, line uint32) {
	if offset, ok := m.ResolveLine(fileIndex, line); ok {
		delete(m.breakpoints, offset)
	}
	for offset, p := range m.breakpoints {
		if p.FileIndex == fileIndex && p.Line == line {
			delete(m.breakpoints, offset)
		}
	}
}

// Breakpoints returns all breakpoints ordered by offset.
func (m *Model) Breakpoints() []BreakpointAt {
	out := make([]BreakpointAt, 0, len(m.breakpoints))
	for _, off := range slices.Sorted(maps.Keys(m.breakpoints)) {
		out = append(out, BreakpointAt{Offset: off, Breakpoint: m.breakpoints[off].Breakpoint})
	}
	return out
}

// Locate maps a bytecode offset back to a source line of a live file. When
// several lines map to the offset, the lowest file index and then the lowest
// line wins.
func (m *Model) Locate(offset uint32) (Location, bool) {
	for _, idx := range slices.Sorted(maps.Keys(m.live)) {
		if line, ok := m.files[m.live[idx]].lineAt(offset); ok {
			return Location{FileIndex: idx, Line: line}, true
		}
	}
	return Location{}, false
}
