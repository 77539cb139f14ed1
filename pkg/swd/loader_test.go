package swd

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coral-mesh/swd/internal/testutil"
)

func TestLoad_Version(t *testing.T) {
	for _, v := range []byte{0, 1, 7, 0xff} {
		model, err := Load(bytes.NewReader(testutil.NewStream(v).Bytes()))
		require.NoError(t, err)
		assert.Equal(t, v, model.Version)
	}
}

func TestLoad_InvalidMagic(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte("F"),
		[]byte("XWD\x01"),
		append([]byte("FWX\x01"), testutil.NewStream(1).SourceFile(1, 0, "a", "b").Bytes()[4:]...),
	}
	for _, in := range inputs {
		model, err := Load(bytes.NewReader(in))
		assert.ErrorIs(t, err, ErrInvalidMagic)
		assert.Nil(t, model)
	}
}

func TestLoad_MissingVersion(t *testing.T) {
	_, err := Load(strings.NewReader("FWD"))
	assert.ErrorIs(t, err, ErrUnexpectedEOF)
}

func TestLoad_Empty(t *testing.T) {
	model, err := Load(bytes.NewReader(testutil.NewStream(3).Bytes()))
	require.NoError(t, err)
	assert.Empty(t, model.Files())
	assert.Empty(t, model.Breakpoints())
}

func TestLoad_ResolveLine(t *testing.T) {
	data := testutil.NewStream(1).
		SourceFile(1, 0, "main.fl", "a\nb\n").
		OffsetMap(1, 10, 100).
		Bytes()

	model, err := Load(bytes.NewReader(data))
	require.NoError(t, err)

	off, ok := model.ResolveLine(1, 10)
	assert.True(t, ok)
	assert.Equal(t, uint32(100), off)

	_, ok = model.ResolveLine(1, 11)
	assert.False(t, ok)

	_, ok = model.ResolveLine(2, 10)
	assert.False(t, ok)
}

func TestLoad_OffsetMapLastWriteWins(t *testing.T) {
	data := testutil.NewStream(1).
		SourceFile(1, 0, "main.fl", "").
		OffsetMap(1, 4, 40).
		OffsetMap(1, 4, 44).
		Bytes()

	model, err := Load(bytes.NewReader(data))
	require.NoError(t, err)
	off, ok := model.ResolveLine(1, 4)
	require.True(t, ok)
	assert.Equal(t, uint32(44), off)
}

func TestLoad_OffsetMapBeforeSourceFileIsDropped(t *testing.T) {
	data := testutil.NewStream(1).
		OffsetMap(1, 4, 40).
		SourceFile(1, 0, "main.fl", "").
		Bytes()

	model, err := Load(bytes.NewReader(data))
	require.NoError(t, err)
	_, ok := model.ResolveLine(1, 4)
	assert.False(t, ok)
	assert.Empty(t, model.File(1).MappedLines())
}

func TestLoad_SetBreakpoint(t *testing.T) {
	data := testutil.NewStream(1).
		SourceFile(1, 0, "main.fl", "").
		OffsetMap(1, 5, 50).
		SetBreakpoint(1, 5).
		Bytes()

	model, err := Load(bytes.NewReader(data))
	require.NoError(t, err)

	bp, ok := model.ResolveBreakpoint(50)
	require.True(t, ok)
	assert.Equal(t, Breakpoint{Line: 5, FileIndex: 1}, bp)
	assert.Equal(t, "main.fl", model.File(bp.FileIndex).Name())
}

func TestLoad_SetBreakpointBeforeOffsetMap(t *testing.T) {
	data := testutil.NewStream(1).
		SourceFile(1, 0, "main.fl", "").
		SetBreakpoint(1, 5).
		OffsetMap(1, 5, 50).
		Bytes()

	model, err := Load(bytes.NewReader(data))
	require.NoError(t, err)

	_, ok := model.ResolveBreakpoint(50)
	assert.False(t, ok)
	assert.Empty(t, model.Breakpoints())
}

func TestLoad_SetBreakpointUnknownFile(t *testing.T) {
	data := testutil.NewStream(1).
		SourceFile(1, 0, "main.fl", "").
		OffsetMap(1, 5, 50).
		SetBreakpoint(2, 5).
		Bytes()

	model, err := Load(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Empty(t, model.Breakpoints())
}

func TestLoad_SetBreakpointWidensIndices(t *testing.T) {
	data := testutil.NewStream(1).
		SourceFile(0xffff, 0, "wide.fl", "").
		OffsetMap(0xffff, 0xfffe, 7).
		SetBreakpoint(0xffff, 0xfffe).
		Bytes()

	model, err := Load(bytes.NewReader(data))
	require.NoError(t, err)
	bp, ok := model.ResolveBreakpoint(7)
	require.True(t, ok)
	assert.Equal(t, Breakpoint{Line: 0xfffe, FileIndex: 0xffff}, bp)
}

func TestLoad_RedefinedFileKeepsBreakpoints(t *testing.T) {
	data := testutil.NewStream(1).
		SourceFile(1, 0, "old.fl", "old one\nold two\nold three\nold four\nold five\n").
		OffsetMap(1, 5, 50).
		SetBreakpoint(1, 5).
		SourceFile(1, 0, "new.fl", "").
		OffsetMap(1, 5, 60).
		Bytes()

	model, err := Load(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, "new.fl", model.File(1).Name())
	assert.Len(t, model.Files(), 1)
	off, ok := model.ResolveLine(1, 5)
	require.True(t, ok)
	assert.Equal(t, uint32(60), off)

	// The breakpoint stays at its old offset, bound to the old file.
	bp, ok := model.ResolveBreakpoint(50)
	require.True(t, ok)
	assert.Equal(t, Breakpoint{Line: 5, FileIndex: 1}, bp)
	old := model.BreakpointFile(50)
	require.NotNil(t, old)
	assert.Equal(t, "old.fl", old.Name())
	text, ok := old.Line(bp.Line)
	require.True(t, ok)
	assert.Equal(t, "old five", text)

	_, ok = model.Locate(50)
	assert.False(t, ok, "only live files take part in reverse lookup")

	model.RemoveBreakpoint(1, 5)
	_, ok = model.ResolveBreakpoint(50)
	assert.False(t, ok)
	assert.Empty(t, model.Breakpoints())
}

func TestLoad_RedefinedFileStaleBreakpointWithoutNewMapping(t *testing.T) {
	data := testutil.NewStream(1).
		SourceFile(1, 0, "old.fl", "").
		OffsetMap(1, 5, 50).
		SetBreakpoint(1, 5).
		SourceFile(1, 0, "new.fl", "").
		Bytes()

	model, err := Load(bytes.NewReader(data))
	require.NoError(t, err)
	_, ok := model.ResolveLine(1, 5)
	require.False(t, ok)

	model.RemoveBreakpoint(1, 5)
	assert.Empty(t, model.Breakpoints())
}

func TestLoad_IDIsIgnored(t *testing.T) {
	data := testutil.NewStream(1).
		ID(ID{1}).
		SourceFile(1, 0, "main.fl", "").
		ID(ID{2}).
		OffsetMap(1, 1, 1).
		Bytes()

	model, err := Load(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Len(t, model.Files(), 1)
}

func TestLoad_Truncated(t *testing.T) {
	data := testutil.NewStream(1).U32(uint32(KindSourceFile)).Raw(1, 0).Bytes()
	model, err := Load(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrUnexpectedEOF)
	assert.Nil(t, model)
}

func TestLoad_UnknownTag(t *testing.T) {
	data := testutil.NewStream(1).
		SourceFile(1, 0, "main.fl", "").
		U32(99).
		Raw(0xde, 0xad).
		Bytes()

	r := bytes.NewReader(data)
	model, err := Load(r)
	require.Error(t, err)
	assert.Nil(t, model)

	var unknown *UnknownTagError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, uint32(99), unknown.ID)
	assert.Equal(t, 2, r.Len())
}

func TestLoad_InvalidEncoding(t *testing.T) {
	data := testutil.NewStream(1).
		U32(uint32(KindSourceFile)).U32(1).U32(0).
		Raw(0xc3, 0x28, 0).
		Str("").
		Bytes()

	_, err := Load(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestLoader_LogsSkippedTags(t *testing.T) {
	var buf bytes.Buffer
	loader := NewLoader(zerolog.New(&buf).Level(zerolog.DebugLevel))

	data := testutil.NewStream(1).
		OffsetMap(3, 1, 1).
		SourceFile(1, 0, "main.fl", "").
		SetBreakpoint(1, 9).
		Bytes()

	_, err := loader.Load(bytes.NewReader(data))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Dropping offset entry for unknown file")
	assert.Contains(t, out, "Ignoring unresolvable breakpoint")
	assert.Contains(t, out, `"component":"swd-loader"`)
}

type plainReader struct {
	r io.Reader
}

func (e plainReader) Read(p []byte) (int, error) { return e.r.Read(p) }

func TestLoad_PlainReader(t *testing.T) {
	data := testutil.NewStream(9).
		SourceFile(2, 0, "x.fl", "line one\nline two").
		OffsetMap(2, 2, 16).
		Bytes()

	model, err := Load(plainReader{r: bytes.NewReader(data)})
	require.NoError(t, err)
	assert.Equal(t, uint8(9), model.Version)
	off, ok := model.ResolveLine(2, 2)
	require.True(t, ok)
	assert.Equal(t, uint32(16), off)
}
