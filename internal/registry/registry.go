// Package registry keeps recently loaded SWD models in memory.
//
// Models are keyed by the xxh3 hash of the raw file bytes, so reopening an
// unchanged file returns the already assembled model and its breakpoints.
// Each model is wrapped in a Handle that serializes access to it; swd.Model
// itself does no locking.
package registry

import (
	"bytes"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pierrec/lz4/v4"
	"github.com/rs/zerolog"
	"github.com/zeebo/xxh3"

	"github.com/coral-mesh/swd/internal/constants"
	"github.com/coral-mesh/swd/internal/safe"
	"github.com/coral-mesh/swd/pkg/swd"
)

// lz4FrameMagic starts every lz4 frame.
var lz4FrameMagic = []byte{0x04, 0x22, 0x4d, 0x18}

// Handle guards one loaded model.
type Handle struct {
	mu         sync.Mutex
	name       string
	key        uint64
	size       int64
	compressed bool
	model      *swd.Model
}

// Name returns the name the model was first opened under.
func (h *Handle) Name() string { return h.name }

// Key returns the content hash the model is cached under.
func (h *Handle) Key() uint64 { return h.key }

// Size returns the decoded stream size in bytes.
func (h *Handle) Size() int64 { return h.size }

// Compressed reports whether the source was an lz4 frame.
func (h *Handle) Compressed() bool { return h.compressed }

// With runs fn with exclusive access to the model.
func (h *Handle) With(fn func(m *swd.Model)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn(h.model)
}

// Registry loads SWD files and caches the resulting models.
type Registry struct {
	logger zerolog.Logger
	loader *swd.Loader
	cache  *lru.Cache[uint64, *Handle]
}

// New creates a registry holding at most size models.
func New(logger zerolog.Logger, size int) (*Registry, error) {
	logger = logger.With().Str("component", "registry").Logger()

	cache, err := lru.NewWithEvict(size, func(key uint64, h *Handle) {
		logger.Debug().Str("name", h.name).Uint64("key", key).Msg("Evicted model")
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create model cache: %w", err)
	}

	return &Registry{
		logger: logger,
		loader: swd.NewLoader(logger),
		cache:  cache,
	}, nil
}

// Open reads the SWD file at path and returns its model.
func (r *Registry) Open(path string) (*Handle, error) {
	data, err := safe.ReadFile(path, &safe.ReadOptions{MaxSize: constants.MaxStreamSize, AllowSymlinks: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return r.Load(path, data)
}

// Load returns the model for data, assembling it unless an identical stream
// is already cached. Streams starting with an lz4 frame are decompressed first.
func (r *Registry) Load(name string, data []byte) (*Handle, error) {
	key := xxh3.Hash(data)
	if h, ok := r.cache.Get(key); ok {
		r.logger.Debug().Str("name", name).Uint64("key", key).Msg("Cache hit for model")
		return h, nil
	}

	stream, compressed, err := Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", name, err)
	}

	model, err := r.loader.Load(bytes.NewReader(stream))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", name, err)
	}

	h := &Handle{
		name:       name,
		key:        key,
		size:       int64(len(stream)),
		compressed: compressed,
		model:      model,
	}
	r.cache.Add(key, h)

	r.logger.Info().
		Str("name", name).
		Uint8("version", model.Version).
		Int("files", len(model.Files())).
		Bool("lz4", compressed).
		Msg("Loaded model")

	return h, nil
}

// Decompress returns data unchanged unless it starts with an lz4 frame, in
// which case the frame is decoded.
func Decompress(data []byte) ([]byte, bool, error) {
	if !bytes.HasPrefix(data, lz4FrameMagic) {
		return data, false, nil
	}
	out, err := safe.ReadAll(lz4.NewReader(bytes.NewReader(data)), constants.MaxStreamSize)
	if err != nil {
		return nil, true, err
	}
	return out, true, nil
}

// Handles returns the cached models, most recently used first.
func (r *Registry) Handles() []*Handle {
	keys := r.cache.Keys()
	out := make([]*Handle, 0, len(keys))
	for i := len(keys) - 1; i >= 0; i-- {
		if h, ok := r.cache.Peek(keys[i]); ok {
			out = append(out, h)
		}
	}
	return out
}

// Len returns the number of cached models.
func (r *Registry) Len() int {
	return r.cache.Len()
}

// Purge drops every cached model.
func (r *Registry) Purge() {
	r.cache.Purge()
}
