package swd

import (
	"slices"
	"strings"

	"github.com/zeebo/xxh3"
)

// File is one source file registered by a SourceFile tag. Its name, source
// text and line table never change; only its offset table is filled in while
// the stream is being assembled, so a loaded File is safe for concurrent reads.
type File struct {
	index        uint32
	unknownIndex uint32
	name         string
	source       string
	hash         uint64

	offsets map[uint32]uint32 // line -> bytecode offset
	lines   []string
}

func newFile(t SourceFile) *File {
	return &File{
		index:        t.FileIndex,
		unknownIndex: t.UnknownIndex,
		name:         t.FileName,
		source:       t.SourceCode,
		hash:         xxh3.HashString(t.SourceCode),
		offsets:      make(map[uint32]uint32),
		lines:        splitLines(t.SourceCode),
	}
}

// Index returns the file index the file was registered under.
func (f *File) Index() uint32 { return f.index }

// UnknownIndex returns the second index of the SourceFile record. Its meaning
// is not known; it is kept verbatim.
func (f *File) UnknownIndex() uint32 { return f.unknownIndex }

// Name returns the display name of the file.
func (f *File) Name() string { return f.name }

// Source returns the full source text.
func (f *File) Source() string { return f.source }

// Hash returns the xxh3 hash of the source text.
func (f *File) Hash() uint64 { return f.hash }

// Offset returns the bytecode offset mapped to line.
func (f *File) Offset(line uint32) (uint32, bool) {
	off, ok := f.offsets[line]
	return off, ok
}

// MappedLines returns the lines that have an offset, in ascending order.
func (f *File) MappedLines() []uint32 {
	lines := make([]uint32, 0, len(f.offsets))
	for line := range f.offsets {
		lines = append(lines, line)
	}
	slices.Sort(lines)
	return lines
}

// LineCount returns the number of lines in the source text.
func (f *File) LineCount() int {
	return len(f.lines)
}

// Line returns the text of the 1-based source line n.
func (f *File) Line(n uint32) (string, bool) {
	if n == 0 || int(n) > len(f.lines) {
		return "", false
	}
	return f.lines[n-1], true
}

// lineAt returns the lowest line mapped to offset.
func (f *File) lineAt(offset uint32) (uint32, bool) {
	var (
		best  uint32
		found bool
	)
	for line, off := range f.offsets {
		if off == offset && (!found || line < best) {
			best, found = line, true
		}
	}
	return best, found
}

// splitLines splits source into lines, accepting \n and \r\n endings. A
// trailing newline does not start another line.
func splitLines(source string) []string {
	if source == "" {
		return nil
	}
	src := strings.ReplaceAll(source, "\r\n", "\n")
	return strings.Split(strings.TrimSuffix(src, "\n"), "\n")
}
