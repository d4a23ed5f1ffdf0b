package manigo

import (
	"log/slog"

	"github.com/hupe1980/manigo/blobstore"
	"github.com/hupe1980/manigo/codec"
	"github.com/hupe1980/manigo/persistence"
	"github.com/hupe1980/manigo/resource"
)

type options struct {
	codec      codec.Codec
	compressor persistence.Compressor
	store      blobstore.BlobStore
	resources  *resource.Controller
	logger     *Logger
	metrics    MetricsCollector
}

// Option configures pipeline construction behavior.
//
// Options exist to avoid exploding the builder surface with ambient
// concerns (logging, codecs, storage backends).
type Option func(*options)

// WithCodec configures the codec used for artifact metadata.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression configures the compression applied to artifact sections.
//
// If nil is passed, persistence.Zstd is used.
func WithCompression(c persistence.Compressor) Option {
	return func(o *options) {
		o.compressor = c
	}
}

// WithBlobStore configures the storage backend for artifacts.
// Without a store, Save and Load return ErrNoStore.
func WithBlobStore(store blobstore.BlobStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithResourceController configures limits for background saves and
// artifact IO throughput.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metrics = mc
	}
}
