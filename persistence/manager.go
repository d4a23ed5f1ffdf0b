package persistence

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/hupe1980/manigo/blobstore"
	"github.com/hupe1980/manigo/codec"
	"github.com/hupe1980/manigo/resource"
)

var (
	// ErrManagerClosed is returned when operations are attempted on a closed manager.
	ErrManagerClosed = errors.New("persistence manager is closed")

	// ErrNoStore is returned when the manager was built without a blob store.
	ErrNoStore = errors.New("blob store not configured")
)

// ManagerOptions configures the persistence manager.
type ManagerOptions struct {
	// Store receives artifact files. Required.
	Store blobstore.BlobStore

	// Codec encodes artifact metadata. Defaults to codec.Default.
	Codec codec.Codec

	// Compressor compresses section payloads. Defaults to Zstd.
	Compressor Compressor

	// Resources throttles background saves and IO. Optional.
	Resources *resource.Controller
}

// Manager coordinates artifact persistence against a blob store.
//
// It applies the configured compression and codec, routes IO through the
// resource controller's rate limiter, and bounds concurrent background
// saves by the controller's worker slots.
//
// The Manager is thread-safe and can be used concurrently.
type Manager struct {
	store blobstore.BlobStore
	codec codec.Codec
	comp  Compressor
	rc    *resource.Controller

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewManager creates a new persistence manager with the given options.
func NewManager(opts ManagerOptions) (*Manager, error) {
	if opts.Store == nil {
		return nil, ErrNoStore
	}
	m := &Manager{
		store: opts.Store,
		codec: opts.Codec,
		comp:  opts.Compressor,
		rc:    opts.Resources,
	}
	if m.codec == nil {
		m.codec = codec.Default
	}
	if m.comp == nil {
		m.comp = Zstd{}
	}
	return m, nil
}

// Save writes an archive to the named blob.
func (m *Manager) Save(ctx context.Context, name string, a *Archive, meta any) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrManagerClosed
	}

	w, err := m.store.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("persistence: create %q: %w", name, err)
	}

	var dst io.Writer = w
	if m.rc != nil {
		dst = resource.NewRateLimitedWriter(w, m.rc, ctx)
	}

	if err := Save(ctx, dst, a, meta, func(o *SaveOptions) {
		o.Codec = m.codec
		o.Compressor = m.comp
	}); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// SaveBackground schedules Save on a background worker slot and returns a
// channel that yields the result. The slot is acquired before returning,
// so callers observe backpressure when all slots are busy.
func (m *Manager) SaveBackground(ctx context.Context, name string, a *Archive, meta any) (<-chan error, error) {
	m.mu.RLock()
	if m.closed {
		m.mu.RUnlock()
		return nil, ErrManagerClosed
	}
	m.mu.RUnlock()

	if m.rc != nil {
		if err := m.rc.AcquireBackground(ctx); err != nil {
			return nil, err
		}
	}

	done := make(chan error, 1)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if m.rc != nil {
			defer m.rc.ReleaseBackground()
		}
		done <- m.Save(ctx, name, a, meta)
	}()
	return done, nil
}

// Load reads the named blob and decodes its metadata into meta.
func (m *Manager) Load(ctx context.Context, name string, meta any) (*Archive, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrManagerClosed
	}

	b, err := m.store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("persistence: open %q: %w", name, err)
	}
	defer b.Close()

	// Reserve the on-disk size against the memory budget while decoding.
	// Decompressed sections can exceed this, but it bounds the common case
	// of many concurrent loads.
	if err := m.rc.AcquireMemory(ctx, b.Size()); err != nil {
		return nil, err
	}
	defer m.rc.ReleaseMemory(b.Size())

	var src io.Reader = io.NewSectionReader(b, 0, b.Size())
	if m.rc != nil {
		src = resource.NewRateLimitedReader(src, m.rc, ctx)
	}

	a, c, err := Load(ctx, src)
	if err != nil {
		return nil, err
	}
	if meta != nil {
		if err := c.Unmarshal(a.Meta, meta); err != nil {
			return nil, fmt.Errorf("persistence: decode metadata: %w", err)
		}
	}
	return a, nil
}

// Delete removes the named artifact.
func (m *Manager) Delete(ctx context.Context, name string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrManagerClosed
	}
	return m.store.Delete(ctx, name)
}

// List returns artifact names with the given prefix.
func (m *Manager) List(ctx context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrManagerClosed
	}
	return m.store.List(ctx, prefix)
}

// Close waits for background saves and marks the manager closed.
// Close is idempotent.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	m.wg.Wait()
	return nil
}
