// Package safe provides bounded file and stream reads.
package safe

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DefaultMaxFileSize is the default maximum size for safe reads (64MB).
const DefaultMaxFileSize = 64 << 20

// ReadOptions configures the behavior of ReadFile.
type ReadOptions struct {
	// MaxSize is the maximum allowed file size in bytes. Zero means DefaultMaxFileSize.
	MaxSize int64
	// AllowSymlinks allows reading through a symlink. Default is false.
	AllowSymlinks bool
}

func (o *ReadOptions) maxSize() int64 {
	if o == nil || o.MaxSize == 0 {
		return DefaultMaxFileSize
	}
	return o.MaxSize
}

// ReadFile reads a regular file after checking its size.
// Symlinks are rejected unless opts allows them.
func ReadFile(path string, opts *ReadOptions) ([]byte, error) {
	cleanPath := filepath.Clean(path)

	// Check file info without following symlinks.
	info, err := os.Lstat(cleanPath)
	if err != nil {
		return nil, err
	}

	if info.Mode()&os.ModeSymlink != 0 {
		if opts == nil || !opts.AllowSymlinks {
			return nil, fmt.Errorf("file %q is a symlink, which is not allowed", path)
		}
		if info, err = os.Stat(cleanPath); err != nil {
			return nil, err
		}
	}

	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("path %q is not a regular file", path)
	}

	if maxSize := opts.maxSize(); info.Size() > maxSize {
		return nil, fmt.Errorf("file %q exceeds maximum allowed size of %d bytes", path, maxSize)
	}

	// #nosec G304 - the path was validated above.
	return os.ReadFile(cleanPath)
}

// ReadAll reads r to the end, failing once more than maxSize bytes arrive.
func ReadAll(r io.Reader, maxSize int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("stream exceeds maximum allowed size of %d bytes", maxSize)
	}
	return data, nil
}
