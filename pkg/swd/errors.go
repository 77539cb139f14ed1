package swd

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMagic is returned when the stream does not start with "FWD".
	ErrInvalidMagic = errors.New("swd: invalid magic")

	// ErrUnexpectedEOF is returned when the stream ends inside a field or record.
	ErrUnexpectedEOF = errors.New("swd: unexpected end of stream")

	// ErrInvalidEncoding is returned when a string field is not valid UTF-8.
	ErrInvalidEncoding = errors.New("swd: invalid string encoding")
)

// UnknownTagError reports a tag discriminant outside the known kinds.
// Tag bodies carry no length prefix, so an unknown tag cannot be skipped.
type UnknownTagError struct {
	ID uint32
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("swd: unknown tag %d", e.ID)
}
