package manigo

import (
	"context"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/manigo/conv"
	"github.com/hupe1980/manigo/diffusion"
	"github.com/hupe1980/manigo/nn"
	"github.com/hupe1980/manigo/persistence"
)

// Pipeline computes geometry-aware embeddings: learned-time diffusion,
// repeated directional convolution, optional rotation-invariant reduction,
// message passing, and a feed-forward head.
//
// A Pipeline is safe for concurrent forward passes over distinct datasets;
// its weights are mutated only by an external training loop.
type Pipeline struct {
	signalDim    int
	embDim       int
	order        int
	innerProduct bool
	cum          int

	diff     *diffusion.Operator
	aniso    *conv.Aniso
	reducers []*conv.InnerProduct // one per derivative round, nil without reduction
	convs    []*nn.GraphConv
	mlp      *nn.MLP

	logger  *Logger
	metrics MetricsCollector
	mgr     *persistence.Manager
}

func newPipeline(b Builder, opts ...Option) (*Pipeline, error) {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.metrics == nil {
		o.metrics = NoopMetricsCollector{}
	}

	cum := nn.CumChannels(b.signalDim, b.embDim, b.order, b.innerProduct)

	p := &Pipeline{
		signalDim:    b.signalDim,
		embDim:       b.embDim,
		order:        b.order,
		innerProduct: b.innerProduct,
		cum:          cum,
		aniso:        conv.NewAniso(),
		logger:       o.logger,
		metrics:      o.metrics,
	}

	diffOpts := []diffusion.Option{
		diffusion.WithMethod(b.method),
		diffusion.WithSteps(b.steps),
		diffusion.WithNormalize(b.normalize),
	}
	p.diff = diffusion.New(diffusion.NewTime(b.diffusionTime), diffOpts...)

	if b.innerProduct {
		// One reducer per derivative round. For a multi-channel signal
		// each round contributes embDim^i direction channels of
		// dimension signalDim; a scalar signal contributes one channel
		// whose dimension is the round's direction-combination count.
		p.reducers = make([]*conv.InnerProduct, b.order+1)
		q := 1
		for i := 0; i <= b.order; i++ {
			if b.signalDim == 1 {
				p.reducers[i] = conv.NewInnerProduct(1, q)
			} else {
				p.reducers[i] = conv.NewInnerProduct(q, b.signalDim)
			}
			q *= b.embDim
		}
	}

	rng := rand.New(rand.NewSource(b.seed))
	for i := 0; i < b.depth; i++ {
		p.convs = append(p.convs, nn.NewGraphConv(cum, cum, b.bias, rng))
	}

	p.mlp = nn.NewMLP(nn.MLPConfig{
		In:        cum,
		Hidden:    b.hidden,
		Out:       b.out,
		Layers:    b.linLayers,
		Dropout:   b.dropout,
		BatchNorm: b.batchNorm,
		Bias:      b.bias,
		Seed:      b.seed,
	})

	if o.store != nil {
		mgr, err := persistence.NewManager(persistence.ManagerOptions{
			Store:      o.store,
			Codec:      o.codec,
			Compressor: o.compressor,
			Resources:  o.resources,
		})
		if err != nil {
			return nil, err
		}
		p.mgr = mgr
	}

	return p, nil
}

// Time returns the learned diffusion time parameter.
func (p *Pipeline) Time() *diffusion.Time {
	return p.diff.Time()
}

// Channels returns the feature width entering the head.
func (p *Pipeline) Channels() int {
	return p.cum
}

// Reducer returns the inner-product reducer of derivative round i, or nil
// when reduction is disabled. Exposed for loading trained maps.
func (p *Pipeline) Reducer(i int) *conv.InnerProduct {
	if p.reducers == nil || i < 0 || i >= len(p.reducers) {
		return nil
	}
	return p.reducers[i]
}

// MLP returns the feed-forward head. Exposed for loading trained weights.
func (p *Pipeline) MLP() *nn.MLP {
	return p.mlp
}

// Forward runs the pipeline over the dataset and attaches the embedding
// as ds.Emb. The returned matrix is the same instance.
func (p *Pipeline) Forward(ctx context.Context, ds *Dataset) (*mat.Dense, error) {
	start := time.Now()
	out, err := p.forward(ctx, ds)

	p.metrics.RecordForward(ds.Nodes(), time.Since(start), err)
	p.logger.LogForward(ctx, ds.Nodes(), p.cum, time.Since(start), err)
	return out, err
}

func (p *Pipeline) forward(ctx context.Context, ds *Dataset) (*mat.Dense, error) {
	if ds.X == nil {
		return nil, ErrNoSignal
	}
	// Vector-valued signals count each tangent component as a channel.
	_, cols := ds.X.Dims()
	if cols != p.signalDim {
		return nil, &ErrDimensionMismatch{Expected: p.signalDim, Actual: cols}
	}
	if p.order > 0 && len(ds.Kernels) != p.embDim {
		return nil, &ErrDimensionMismatch{Expected: p.embDim, Actual: len(ds.Kernels)}
	}

	// Smooth the raw signal; vector channels ride the connection
	// Laplacian when one is attached.
	var (
		x   *mat.Dense
		err error
	)
	if ds.Lc != nil {
		x, err = p.diff.DiffuseVector(ctx, ds.X, ds.Lc)
	} else {
		x, err = p.diff.Diffuse(ctx, ds.X, ds.L)
	}
	if err != nil {
		return nil, err
	}

	// Cumulative directional derivatives: round i holds the i-th
	// derivative of every channel along every kernel direction.
	blocks := []*mat.Dense{x}
	cur := x
	for i := 0; i < p.order; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cur, err = p.aniso.Forward(cur, ds.Kernels, ds.Rotations)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, cur)
	}

	var features *mat.Dense
	if p.innerProduct {
		features, err = p.reduce(blocks)
	} else {
		features = concatColumns(blocks)
	}
	if err != nil {
		return nil, err
	}

	for _, gc := range p.convs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		features, err = gc.Forward(features, ds.Prop)
		if err != nil {
			return nil, err
		}
	}

	out := p.mlp.Forward(features)
	ds.Emb = out
	return out, nil
}

// reduce collapses every derivative round to rotation-invariant scalars
// and concatenates the results.
func (p *Pipeline) reduce(blocks []*mat.Dense) (*mat.Dense, error) {
	reduced := make([]*mat.Dense, len(blocks))
	for i, b := range blocks {
		in := b
		if p.signalDim > 1 {
			in = directionMajor(b, p.signalDim)
		}
		out, err := p.reducers[i].Reduce([]*mat.Dense{in})
		if err != nil {
			return nil, err
		}
		reduced[i] = out
	}
	return concatColumns(reduced), nil
}

// directionMajor regroups a channel-major derivative block so the columns
// of one direction combination are contiguous, turning each combination
// into a signalDim-dimensional channel.
func directionMajor(b *mat.Dense, signalDim int) *mat.Dense {
	rows, cols := b.Dims()
	q := cols / signalDim
	out := mat.NewDense(rows, cols, nil)
	for c := 0; c < signalDim; c++ {
		for d := 0; d < q; d++ {
			for v := 0; v < rows; v++ {
				out.Set(v, d*signalDim+c, b.At(v, c*q+d))
			}
		}
	}
	return out
}

func concatColumns(blocks []*mat.Dense) *mat.Dense {
	rows, _ := blocks[0].Dims()
	total := 0
	for _, b := range blocks {
		_, c := b.Dims()
		total += c
	}
	out := mat.NewDense(rows, total, nil)
	off := 0
	for _, b := range blocks {
		_, c := b.Dims()
		out.Slice(0, rows, off, off+c).(*mat.Dense).Copy(b)
		off += c
	}
	return out
}
