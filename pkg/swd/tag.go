package swd

import (
	"fmt"

	"github.com/google/uuid"
)

// TagKind is the on-disk discriminant of a tag.
type TagKind uint32

const (
	KindSourceFile    TagKind = 0
	KindOffsetMap     TagKind = 1
	KindSetBreakpoint TagKind = 2
	KindID            TagKind = 3
)

func (k TagKind) String() string {
	switch k {
	case KindSourceFile:
		return "source_file"
	case KindOffsetMap:
		return "offset_map"
	case KindSetBreakpoint:
		return "set_breakpoint"
	case KindID:
		return "id"
	default:
		return fmt.Sprintf("tag(%d)", uint32(k))
	}
}

// Tag is one decoded record of the SWD stream. The set of implementations is
// closed: SourceFile, OffsetMap, SetBreakpoint and ID.
type Tag interface {
	Kind() TagKind
	isTag()
}

// SourceFile registers a source file and its full text under FileIndex.
type SourceFile struct {
	FileIndex    uint32
	UnknownIndex uint32
	FileName     string
	SourceCode   string
}

// OffsetMap is one entry of a file's line to bytecode offset table.
type OffsetMap struct {
	FileIndex uint32
	Line      uint32
	Offset    uint32
}

// SetBreakpoint is a breakpoint recorded in the stream itself. Its fields are
// 16 bits wide on disk.
type SetBreakpoint struct {
	FileIndex uint16
	Line      uint16
}

// ID is the opaque 16 byte module/build identifier.
type ID [16]byte

func (SourceFile) Kind() TagKind    { return KindSourceFile }
func (OffsetMap) Kind() TagKind     { return KindOffsetMap }
func (SetBreakpoint) Kind() TagKind { return KindSetBreakpoint }
func (ID) Kind() TagKind            { return KindID }

func (SourceFile) isTag()    {}
func (OffsetMap) isTag()     {}
func (SetBreakpoint) isTag() {}
func (ID) isTag()            {}

// UUID returns the identifier as a UUID value.
func (id ID) UUID() uuid.UUID {
	return uuid.UUID(id)
}

// String renders the identifier in canonical UUID form.
func (id ID) String() string {
	return id.UUID().String()
}
