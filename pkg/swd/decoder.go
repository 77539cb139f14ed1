package swd

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"
	"unicode/utf8"
)

// Magic is the fixed prefix of every SWD stream.
const Magic = "FWD"

type byteSource interface {
	io.Reader
	io.ByteReader
}

// Decoder reads tags from an SWD byte stream. It only moves forward; to read
// the stream again create a new Decoder at a fresh position.
type Decoder struct {
	r      byteSource
	offset int64
	buf    [4]byte
}

// NewDecoder returns a decoder reading from r. If r does not implement
// io.ByteReader it is wrapped in a bufio.Reader, which may read ahead.
func NewDecoder(r io.Reader) *Decoder {
	br, ok := r.(byteSource)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Decoder{r: br}
}

// Offset returns the number of bytes consumed so far.
func (d *Decoder) Offset() int64 { return d.offset }

// ReadMagic consumes the three byte magic and checks it equals "FWD".
func (d *Decoder) ReadMagic() error {
	var magic [len(Magic)]byte
	n, err := io.ReadFull(d.r, magic[:])
	d.offset += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: stream too short (%d bytes)", ErrInvalidMagic, n)
		}
		return fmt.Errorf("failed to read magic: %w", err)
	}
	if string(magic[:]) != Magic {
		return fmt.Errorf("%w: got %q", ErrInvalidMagic, magic[:])
	}
	return nil
}

// ReadVersion consumes and returns the version byte. Any value is accepted.
func (d *Decoder) ReadVersion() (uint8, error) {
	v, err := d.readByte()
	if err != nil {
		return 0, fmt.Errorf("failed to read version: %w", err)
	}
	return v, nil
}

// ReadString consumes a zero terminated UTF-8 string, terminator included.
func (d *Decoder) ReadString() (string, error) {
	var raw []byte
	for {
		b, err := d.readByte()
		if err != nil {
			return "", fmt.Errorf("unterminated string after %d bytes: %w", len(raw), err)
		}
		if b == 0 {
			break
		}
		raw = append(raw, b)
	}
	if !utf8.Valid(raw) {
		return "", ErrInvalidEncoding
	}
	return string(raw), nil
}

// Next decodes the next tag. It returns io.EOF when the stream ends exactly
// at a tag boundary; any other failure is terminal for the stream.
func (d *Decoder) Next() (Tag, error) {
	start := d.offset
	n, err := io.ReadFull(d.r, d.buf[:4])
	d.offset += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("tag at offset %d: %w", start, shortRead(err))
	}

	kind := TagKind(binary.LittleEndian.Uint32(d.buf[:4]))
	tag, err := d.readBody(kind)
	if err != nil {
		return nil, fmt.Errorf("%s tag at offset %d: %w", kind, start, err)
	}
	return tag, nil
}

// Tags returns the remaining tags as a lazy sequence. Iteration stops at the
// clean end of the stream or after yielding the first error.
func (d *Decoder) Tags() iter.Seq2[Tag, error] {
	return func(yield func(Tag, error) bool) {
		for {
			tag, err := d.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(tag, err) || err != nil {
				return
			}
		}
	}
}

func (d *Decoder) readBody(kind TagKind) (Tag, error) {
	switch kind {
	case KindSourceFile:
		var t SourceFile
		var err error
		if t.FileIndex, err = d.readUint32(); err != nil {
			return nil, err
		}
		if t.UnknownIndex, err = d.readUint32(); err != nil {
			return nil, err
		}
		if t.FileName, err = d.ReadString(); err != nil {
			return nil, fmt.Errorf("file name: %w", err)
		}
		if t.SourceCode, err = d.ReadString(); err != nil {
			return nil, fmt.Errorf("source code: %w", err)
		}
		return t, nil

	case KindOffsetMap:
		var t OffsetMap
		var err error
		if t.FileIndex, err = d.readUint32(); err != nil {
			return nil, err
		}
		if t.Line, err = d.readUint32(); err != nil {
			return nil, err
		}
		if t.Offset, err = d.readUint32(); err != nil {
			return nil, err
		}
		return t, nil

	case KindSetBreakpoint:
		var t SetBreakpoint
		var err error
		if t.FileIndex, err = d.readUint16(); err != nil {
			return nil, err
		}
		if t.Line, err = d.readUint16(); err != nil {
			return nil, err
		}
		return t, nil

	case KindID:
		var t ID
		n, err := io.ReadFull(d.r, t[:])
		d.offset += int64(n)
		if err != nil {
			return nil, shortRead(err)
		}
		return t, nil

	default:
		return nil, &UnknownTagError{ID: uint32(kind)}
	}
}

func (d *Decoder) readByte() (byte, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return 0, shortRead(err)
	}
	d.offset++
	return b, nil
}

func (d *Decoder) readUint16() (uint16, error) {
	n, err := io.ReadFull(d.r, d.buf[:2])
	d.offset += int64(n)
	if err != nil {
		return 0, shortRead(err)
	}
	return binary.LittleEndian.Uint16(d.buf[:2]), nil
}

func (d *Decoder) readUint32() (uint32, error) {
	n, err := io.ReadFull(d.r, d.buf[:4])
	d.offset += int64(n)
	if err != nil {
		return 0, shortRead(err)
	}
	return binary.LittleEndian.Uint32(d.buf[:4]), nil
}

// shortRead maps a short read inside a record to ErrUnexpectedEOF and leaves
// other I/O errors from the byte source untouched.
func shortRead(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrUnexpectedEOF
	}
	return err
}
