package swd

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// Loader assembles SWD streams into Models.
type Loader struct {
	logger zerolog.Logger
}

// NewLoader creates a loader that reports skipped tags to logger at debug level.
func NewLoader(logger zerolog.Logger) *Loader {
	return &Loader{
		logger: logger.With().Str("component", "swd-loader").Logger(),
	}
}

// Load reads a complete SWD stream from r with a silent logger.
func Load(r io.Reader) (*Model, error) {
	return NewLoader(zerolog.Nop()).Load(r)
}

// Load reads the magic, the version and every tag from r and folds them into
// a Model. Any decode error aborts the load and no model is returned.
func (l *Loader) Load(r io.Reader) (*Model, error) {
	dec := NewDecoder(r)
	if err := dec.ReadMagic(); err != nil {
		return nil, err
	}
	version, err := dec.ReadVersion()
	if err != nil {
		return nil, err
	}

	model := newModel(version)
	var count int
	for {
		tag, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load swd stream: %w", err)
		}
		l.apply(model, tag)
		count++
	}

	l.logger.Debug().
		Uint8("version", model.Version).
		Int("tags", count).
		Int("files", len(model.live)).
		Int("breakpoints", len(model.breakpoints)).
		Int64("bytes", dec.Offset()).
		Msg("Loaded swd stream")

	return model, nil
}

// apply folds a single tag into the model.
func (l *Loader) apply(m *Model, tag Tag) {
	switch t := tag.(type) {
	case SourceFile:
		if m.addFile(newFile(t)) {
			l.logger.Debug().
				Uint32("file_index", t.FileIndex).
				Str("name", t.FileName).
				Msg("Source file redefined")
		}

	case OffsetMap:
		f := m.File(t.FileIndex)
		if f == nil {
			l.logger.Debug().
				Uint32("file_index", t.FileIndex).
				Uint32("line", t.Line).
				Msg("Dropping offset entry for unknown file")
			return
		}
		f.offsets[t.Line] = t.Offset

	case SetBreakpoint:
		fileIndex, line := uint32(t.FileIndex), uint32(t.Line)
		if !m.placeBreakpoint(fileIndex, line) {
			l.logger.Debug().
				Uint32("file_index", fileIndex).
				Uint32("line", line).
				Msg("Ignoring unresolvable breakpoint")
		}

	case ID:
		l.logger.Trace().Str("id", t.String()).Msg("Skipping id tag")
	}
}
