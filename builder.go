package manigo

import (
	"github.com/hupe1980/manigo/diffusion"
)

// New creates a pipeline builder for a signalDim-channel signal on an
// embDim-dimensional manifold.
//
// The builder is immutable - each method returns a new builder with the
// updated configuration. This ensures thread-safety and prevents
// accidental state sharing.
//
// Example:
//
//	p, err := manigo.New(3, 2).
//	    Order(2).
//	    Depth(1).
//	    InnerProduct(true).
//	    Hidden(64).
//	    Out(16).
//	    Build()
func New(signalDim, embDim int) Builder {
	return Builder{
		signalDim:     signalDim,
		embDim:        embDim,
		order:         2,
		depth:         0,
		hidden:        64,
		out:           16,
		linLayers:     2,
		bias:          true,
		diffusionTime: 1.0,
		method:        diffusion.MethodSpectral,
		steps:         16,
	}
}

// Builder is an immutable fluent builder for creating Pipeline instances.
type Builder struct {
	signalDim     int
	embDim        int
	order         int
	depth         int
	innerProduct  bool
	hidden        int
	out           int
	linLayers     int
	dropout       float64
	batchNorm     bool
	bias          bool
	seed          int64
	diffusionTime float64
	method        diffusion.Method
	steps         int
	normalize     bool
}

// Order sets the number of directional derivative rounds.
// Default: 2.
func (b Builder) Order(o int) Builder {
	b.order = o
	return b
}

// Depth sets the number of message-passing layers between feature
// extraction and the head. Default: 0.
func (b Builder) Depth(d int) Builder {
	b.depth = d
	return b
}

// InnerProduct toggles reduction of directional features to
// rotation-invariant scalars. Default: false.
func (b Builder) InnerProduct(enabled bool) Builder {
	b.innerProduct = enabled
	return b
}

// Hidden sets the hidden width of the head. Default: 64.
func (b Builder) Hidden(h int) Builder {
	b.hidden = h
	return b
}

// Out sets the embedding dimension produced by the head. Default: 16.
func (b Builder) Out(o int) Builder {
	b.out = o
	return b
}

// LinLayers sets the number of linear layers in the head. Default: 2.
func (b Builder) LinLayers(n int) Builder {
	b.linLayers = n
	return b
}

// Dropout records the dropout probability. It is inert at inference and
// kept for parity with trained checkpoints. Default: 0.
func (b Builder) Dropout(p float64) Builder {
	b.dropout = p
	return b
}

// BatchNorm toggles batch normalization between head layers.
// Default: false.
func (b Builder) BatchNorm(enabled bool) Builder {
	b.batchNorm = enabled
	return b
}

// Bias toggles bias terms in linear layers. Default: true.
func (b Builder) Bias(enabled bool) Builder {
	b.bias = enabled
	return b
}

// Seed sets the seed for deterministic weight initialization. Default: 0.
func (b Builder) Seed(seed int64) Builder {
	b.seed = seed
	return b
}

// DiffusionTime sets the initial diffusion time. Non-positive values are
// clamped on read, never rejected. Default: 1.0.
func (b Builder) DiffusionTime(t float64) Builder {
	b.diffusionTime = t
	return b
}

// Spectral selects eigendecomposition-based diffusion. Default.
func (b Builder) Spectral() Builder {
	b.method = diffusion.MethodSpectral
	return b
}

// Implicit selects implicit Euler diffusion with the given number of
// substeps.
func (b Builder) Implicit(steps int) Builder {
	b.method = diffusion.MethodImplicit
	if steps > 0 {
		b.steps = steps
	}
	return b
}

// Normalize toggles column-energy renormalization after diffusion.
// Default: false.
func (b Builder) Normalize(enabled bool) Builder {
	b.normalize = enabled
	return b
}

// Build validates the configuration and creates the Pipeline.
func (b Builder) Build(opts ...Option) (*Pipeline, error) {
	switch {
	case b.signalDim < 1:
		return nil, &ErrInvalidConfig{Field: "signalDim", Reason: "must be positive"}
	case b.embDim < 1:
		return nil, &ErrInvalidConfig{Field: "embDim", Reason: "must be positive"}
	case b.order < 0:
		return nil, &ErrInvalidConfig{Field: "order", Reason: "must be non-negative"}
	case b.depth < 0:
		return nil, &ErrInvalidConfig{Field: "depth", Reason: "must be non-negative"}
	case b.hidden < 1:
		return nil, &ErrInvalidConfig{Field: "hidden", Reason: "must be positive"}
	case b.out < 1:
		return nil, &ErrInvalidConfig{Field: "out", Reason: "must be positive"}
	case b.linLayers < 1:
		return nil, &ErrInvalidConfig{Field: "linLayers", Reason: "must be positive"}
	case b.dropout < 0 || b.dropout >= 1:
		return nil, &ErrInvalidConfig{Field: "dropout", Reason: "must be in [0, 1)"}
	}

	return newPipeline(b, opts...)
}
