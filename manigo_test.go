package manigo

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/manigo/diffusion"
	"github.com/hupe1980/manigo/graph"
)

// ringKernel builds a centered difference stencil along the ring.
func ringKernel(n int, scale float64) *graph.COO {
	k := graph.NewCOO(n, n)
	for i := 0; i < n; i++ {
		_ = k.Append(i, (i+1)%n, scale)
		_ = k.Append(i, (i-1+n)%n, -scale)
	}
	return k
}

func ringDataset(t *testing.T, n, channels int, kernels int, slices []int) *Dataset {
	t.Helper()
	g := graph.Ring(n)

	x := mat.NewDense(n, channels, nil)
	for i := 0; i < n; i++ {
		for c := 0; c < channels; c++ {
			x.Set(i, c, math.Sin(2*math.Pi*float64(i)/float64(n)+float64(c)))
		}
	}

	ks := make([]*graph.COO, kernels)
	for j := range ks {
		ks[j] = ringKernel(n, 0.5/float64(j+1))
	}

	ds, err := NewDataset(g, x, ks, WithSlices(slices))
	require.NoError(t, err)
	return ds
}

func TestBuilderValidation(t *testing.T) {
	tests := []struct {
		name  string
		build func() (*Pipeline, error)
	}{
		{"zero signal dim", func() (*Pipeline, error) { return New(0, 1).Build() }},
		{"zero emb dim", func() (*Pipeline, error) { return New(1, 0).Build() }},
		{"negative order", func() (*Pipeline, error) { return New(1, 1).Order(-1).Build() }},
		{"zero hidden", func() (*Pipeline, error) { return New(1, 1).Hidden(0).Build() }},
		{"zero out", func() (*Pipeline, error) { return New(1, 1).Out(0).Build() }},
		{"bad dropout", func() (*Pipeline, error) { return New(1, 1).Dropout(1).Build() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build()
			var cfgErr *ErrInvalidConfig
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestBuilderChannelDerivation(t *testing.T) {
	tests := []struct {
		signalDim, embDim, order int
		innerProduct             bool
		want                     int
	}{
		{1, 1, 1, false, 2},
		{2, 2, 2, false, 14},
		{2, 2, 1, true, 3},
		{1, 2, 2, true, 3},
		{3, 1, 2, false, 9},
	}
	for _, tt := range tests {
		p, err := New(tt.signalDim, tt.embDim).Order(tt.order).InnerProduct(tt.innerProduct).Build()
		require.NoError(t, err)
		assert.Equal(t, tt.want, p.Channels())
	}
}

func TestForward_ShapesAndAttachment(t *testing.T) {
	ctx := context.Background()
	ds := ringDataset(t, 12, 1, 1, []int{0, 6, 12})

	p, err := New(1, 1).Order(1).Depth(1).Hidden(8).Out(4).Seed(1).Build()
	require.NoError(t, err)

	out, err := p.Forward(ctx, ds)
	require.NoError(t, err)

	r, c := out.Dims()
	assert.Equal(t, 12, r)
	assert.Equal(t, 4, c)
	assert.Same(t, out, ds.Emb)
}

func TestForward_InnerProduct(t *testing.T) {
	ctx := context.Background()
	ds := ringDataset(t, 10, 2, 2, []int{0, 5, 10})

	p, err := New(2, 2).Order(1).InnerProduct(true).Hidden(8).Out(3).Seed(7).Build()
	require.NoError(t, err)
	require.Equal(t, 3, p.Channels())

	out, err := p.Forward(ctx, ds)
	require.NoError(t, err)
	_, c := out.Dims()
	assert.Equal(t, 3, c)
}

func TestForward_Deterministic(t *testing.T) {
	ctx := context.Background()

	run := func() *mat.Dense {
		ds := ringDataset(t, 10, 1, 1, []int{0, 10})
		p, err := New(1, 1).Order(1).Hidden(8).Out(4).Seed(42).Build()
		require.NoError(t, err)
		out, err := p.Forward(ctx, ds)
		require.NoError(t, err)
		return out
	}

	a, b := run(), run()
	assert.True(t, mat.EqualApprox(a, b, 1e-12))
}

func TestForward_Validation(t *testing.T) {
	ctx := context.Background()
	ds := ringDataset(t, 8, 2, 1, []int{0, 8})

	// Channel mismatch: pipeline expects 1 channel, dataset has 2.
	p, err := New(1, 1).Order(1).Build()
	require.NoError(t, err)
	_, err = p.Forward(ctx, ds)
	var dm *ErrDimensionMismatch
	assert.ErrorAs(t, err, &dm)

	// Kernel count mismatch: manifold dim 2 but one kernel attached.
	p, err = New(2, 2).Order(1).Build()
	require.NoError(t, err)
	_, err = p.Forward(ctx, ds)
	assert.ErrorAs(t, err, &dm)
}

func TestForward_ImplicitMethod(t *testing.T) {
	ctx := context.Background()
	ds := ringDataset(t, 10, 1, 1, []int{0, 10})

	p, err := New(1, 1).Order(1).Implicit(8).DiffusionTime(0.5).Out(4).Build()
	require.NoError(t, err)
	out, err := p.Forward(ctx, ds)
	require.NoError(t, err)
	r, _ := out.Dims()
	assert.Equal(t, 10, r)
}

func TestPipelineTimeClamp(t *testing.T) {
	p, err := New(1, 1).DiffusionTime(-3).Build()
	require.NoError(t, err)
	assert.Equal(t, diffusion.Floor, p.Time().Value())
}

func TestNewDataset_Validation(t *testing.T) {
	g := graph.Ring(6)

	_, err := NewDataset(g, nil, nil)
	assert.ErrorIs(t, err, ErrNoSignal)

	_, err = NewDataset(g, mat.NewDense(4, 1, nil), nil)
	var dm *ErrDimensionMismatch
	assert.ErrorAs(t, err, &dm)

	_, err = NewDataset(g, mat.NewDense(6, 1, nil), nil, WithSlices([]int{0, 9}))
	assert.Error(t, err)
}
