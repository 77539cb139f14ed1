package helpers

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coral-mesh/swd/internal/testutil"
	"github.com/coral-mesh/swd/pkg/swd"
)

func loadSample(t *testing.T) *swd.Model {
	t.Helper()
	m, err := swd.Load(bytes.NewReader(testutil.SampleProgram().Bytes()))
	require.NoError(t, err)
	return m
}

func TestFileRows(t *testing.T) {
	rows := FileRows(loadSample(t))

	require.Len(t, rows, 2)
	assert.Equal(t, uint32(1), rows[0].Index)
	assert.Equal(t, "main.fl", rows[0].Name)
	assert.Equal(t, 3, rows[0].Lines)
	assert.Equal(t, 3, rows[0].Mapped)
	assert.Len(t, rows[0].Hash, 16)
	assert.Equal(t, "lib.fl", rows[1].Name)
	assert.Equal(t, "15 B", rows[1].Size)
}

func TestBreakpointRows(t *testing.T) {
	rows := BreakpointRows(loadSample(t))

	require.Len(t, rows, 1)
	assert.Equal(t, LocationRow{
		Offset:     8,
		FileIndex:  1,
		Name:       "main.fl",
		Line:       2,
		Breakpoint: true,
		Source:     "let b = 2",
	}, rows[0])
}

func TestLocateOffset(t *testing.T) {
	m := loadSample(t)

	row, ok := LocateOffset(m, 8)
	require.True(t, ok)
	assert.True(t, row.Breakpoint)
	assert.Equal(t, uint32(2), row.Line)

	row, ok = LocateOffset(m, 32)
	require.True(t, ok)
	assert.False(t, row.Breakpoint)
	assert.Equal(t, "lib.fl", row.Name)
	assert.Equal(t, "fn helper() {}", row.Source)

	_, ok = LocateOffset(m, 99)
	assert.False(t, ok)
}

func TestNewLocationRow_UnknownFile(t *testing.T) {
	row := NewLocationRow(loadSample(t), 100, 9, 1)
	assert.Empty(t, row.Name)
	assert.Empty(t, row.Source)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd...", Truncate("abcdefghij", 7))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
	assert.Equal(t, "héll...", Truncate("héllo wörld", 7))
}

func TestTagDetail(t *testing.T) {
	tests := []struct {
		tag  swd.Tag
		want string
	}{
		{swd.SourceFile{FileIndex: 1, FileName: "a.fl", SourceCode: "xy"}, `file=1 unknown=0 name="a.fl" source=2 B`},
		{swd.OffsetMap{FileIndex: 1, Line: 4, Offset: 40}, "file=1 line=4 offset=40"},
		{swd.SetBreakpoint{FileIndex: 2, Line: 7}, "file=2 line=7"},
		{swd.ID{}, "id=00000000-0000-0000-0000-000000000000"},
	}
	for _, tt := range tests {
		t.Run(tt.tag.Kind().String(), func(t *testing.T) {
			assert.Equal(t, tt.want, TagDetail(tt.tag))
		})
	}
}

func TestBreakpointRows_RedefinedFile(t *testing.T) {
	data := testutil.NewStream(1).
		SourceFile(1, 0, "old.fl", "a\nold line\n").
		OffsetMap(1, 2, 50).
		SetBreakpoint(1, 2).
		SourceFile(1, 0, "new.fl", "x\nnew line\n").
		OffsetMap(1, 2, 60).
		Bytes()
	m, err := swd.Load(bytes.NewReader(data))
	require.NoError(t, err)

	rows := BreakpointRows(m)
	require.Len(t, rows, 1)
	assert.Equal(t, "old.fl", rows[0].Name)
	assert.Equal(t, "old line", rows[0].Source)

	row, ok := LocateOffset(m, 50)
	require.True(t, ok)
	assert.Equal(t, "old.fl", row.Name)

	row, ok = LocateOffset(m, 60)
	require.True(t, ok)
	assert.False(t, row.Breakpoint)
	assert.Equal(t, "new line", row.Source)
}
