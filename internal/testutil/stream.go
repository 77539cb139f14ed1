// Package testutil provides testing utilities for the swd tools.
package testutil

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// Tag discriminants, repeated here so the builder has no dependency on the
// package it is used to test.
const (
	tagSourceFile    = 0
	tagOffsetMap     = 1
	tagSetBreakpoint = 2
	tagID            = 3
)

// StreamBuilder assembles SWD byte streams.
type StreamBuilder struct {
	buf []byte
}

// NewStream starts a stream with the magic and the given version byte.
func NewStream(version byte) *StreamBuilder {
	return &StreamBuilder{buf: []byte{'F', 'W', 'D', version}}
}

// SourceFile appends a SourceFile tag.
func (b *StreamBuilder) SourceFile(index, unknown uint32, name, src string) *StreamBuilder {
	return b.U32(tagSourceFile).U32(index).U32(unknown).Str(name).Str(src)
}

// OffsetMap appends an OffsetMap tag.
func (b *StreamBuilder) OffsetMap(index, line, offset uint32) *StreamBuilder {
	return b.U32(tagOffsetMap).U32(index).U32(line).U32(offset)
}

// SetBreakpoint appends a SetBreakpoint tag.
func (b *StreamBuilder) SetBreakpoint(index, line uint16) *StreamBuilder {
	return b.U32(tagSetBreakpoint).U16(index).U16(line)
}

// ID appends an ID tag.
func (b *StreamBuilder) ID(id [16]byte) *StreamBuilder {
	return b.U32(tagID).Raw(id[:]...)
}

// Raw appends arbitrary bytes.
func (b *StreamBuilder) Raw(p ...byte) *StreamBuilder {
	b.buf = append(b.buf, p...)
	return b
}

// Bytes returns the assembled stream.
func (b *StreamBuilder) Bytes() []byte {
	return b.buf
}

// WriteFile writes the stream into a temporary directory and returns its path.
func (b *StreamBuilder) WriteFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, b.buf, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// U16 appends a little-endian uint16.
func (b *StreamBuilder) U16(v uint16) *StreamBuilder {
	b.buf = binary.LittleEndian.AppendUint16(b.buf, v)
	return b
}

// U32 appends a little-endian uint32, for example a bare tag discriminant.
func (b *StreamBuilder) U32(v uint32) *StreamBuilder {
	b.buf = binary.LittleEndian.AppendUint32(b.buf, v)
	return b
}

// Str appends a zero terminated string.
func (b *StreamBuilder) Str(s string) *StreamBuilder {
	b.buf = append(append(b.buf, s...), 0)
	return b
}

// SampleProgram is a two file stream used across command tests:
//
//	file 1 "main.fl": lines 1-3 at offsets 0, 8, 16, breakpoint on line 2
//	file 2 "lib.fl":  line 1 at offset 32
func SampleProgram() *StreamBuilder {
	return NewStream(1).
		ID([16]byte{0xca, 0xfe}).
		SourceFile(1, 0, "main.fl", "let a = 1\nlet b = 2\nprint a + b\n").
		OffsetMap(1, 1, 0).
		OffsetMap(1, 2, 8).
		OffsetMap(1, 3, 16).
		SetBreakpoint(1, 2).
		SourceFile(2, 0, "lib.fl", "fn helper() {}\n").
		OffsetMap(2, 1, 32)
}
