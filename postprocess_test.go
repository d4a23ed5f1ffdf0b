package manigo

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/manigo/cluster"
	"github.com/hupe1980/manigo/transport"
)

func forwardRing(t *testing.T, n int, slices []int) (*Pipeline, *Dataset) {
	t.Helper()
	ctx := context.Background()
	ds := ringDataset(t, n, 1, 1, slices)

	p, err := New(1, 1).Order(1).Hidden(8).Out(4).Seed(3).Build()
	require.NoError(t, err)
	_, err = p.Forward(ctx, ds)
	require.NoError(t, err)
	return p, ds
}

func TestPostprocess_AttachesArtifacts(t *testing.T) {
	ctx := context.Background()
	p, ds := forwardRing(t, 16, []int{0, 8, 16})

	require.NoError(t, p.Postprocess(ctx, ds, PostprocessOptions{K: 3, Seed: 1}))

	require.NotNil(t, ds.Clusters)
	assert.Equal(t, 3, ds.Clusters.K)
	assert.Len(t, ds.Clusters.Labels, 16)

	r, c := ds.Dist.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	assert.Zero(t, ds.Dist.At(0, 0))
	assert.Zero(t, ds.Dist.At(1, 1))

	assert.Nil(t, ds.Gamma[0][0])
	assert.NotNil(t, ds.Gamma[0][1])
	assert.NotNil(t, ds.Gamma[1][0])

	kr, kc := ds.CDist.Dims()
	assert.Equal(t, 3, kr)
	assert.Equal(t, 3, kc)

	er, ec := ds.Emb2D.Dims()
	assert.Equal(t, 16, er)
	assert.Equal(t, 2, ec)
	cr, cc := ds.Centroids2D.Dims()
	assert.Equal(t, 3, cr)
	assert.Equal(t, 2, cc)
}

func TestPostprocess_RequiresForward(t *testing.T) {
	ctx := context.Background()
	ds := ringDataset(t, 8, 1, 1, []int{0, 8})

	p, err := New(1, 1).Build()
	require.NoError(t, err)
	assert.ErrorIs(t, p.Postprocess(ctx, ds, PostprocessOptions{}), ErrNotEmbedded)
}

func TestPostprocess_UnknownMethod(t *testing.T) {
	ctx := context.Background()
	p, ds := forwardRing(t, 8, []int{0, 4, 8})

	err := p.Postprocess(ctx, ds, PostprocessOptions{K: 2, Method: "spectral"})
	assert.ErrorIs(t, err, cluster.ErrUnknownMethod)
}

func TestPostprocess_CapsK(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, nil))

	ds := ringDataset(t, 6, 1, 1, []int{0, 3, 6})
	p, err := New(1, 1).Order(1).Hidden(8).Out(4).Seed(3).Build(WithLogger(logger))
	require.NoError(t, err)
	_, err = p.Forward(ctx, ds)
	require.NoError(t, err)

	// Default K of 15 exceeds the vector count and must be capped.
	require.NoError(t, p.Postprocess(ctx, ds, PostprocessOptions{Seed: 2}))
	assert.LessOrEqual(t, ds.Clusters.K, 6)
	assert.Contains(t, buf.String(), "cluster count capped")
}

func TestPostprocess_DBSCANAllNoise(t *testing.T) {
	ctx := context.Background()
	p, ds := forwardRing(t, 8, []int{0, 4, 8})

	// Radius far below any pairwise distance marks every point noise;
	// an empty clustering must fail fast, not crash downstream.
	err := p.Postprocess(ctx, ds, PostprocessOptions{Method: "dbscan", Eps: 1e-12, MinPts: 3})
	assert.ErrorIs(t, err, transport.ErrNoClusters)
	assert.Nil(t, ds.Clusters)
}

func TestCompareSlices(t *testing.T) {
	ctx := context.Background()
	p, ds := forwardRing(t, 16, []int{0, 8, 16})
	require.NoError(t, p.Postprocess(ctx, ds, PostprocessOptions{K: 3, Seed: 1}))

	scores, err := CompareSlices(ds, 0, 1)
	require.NoError(t, err)
	require.Len(t, scores, 16)

	// Source vertices score >= 0, target vertices <= 0.
	for i := 0; i < 8; i++ {
		assert.GreaterOrEqual(t, scores[i], 0.0, "source vertex %d", i)
	}
	for i := 8; i < 16; i++ {
		assert.LessOrEqual(t, scores[i], 0.0, "target vertex %d", i)
	}
}

func TestCompareSlices_Preconditions(t *testing.T) {
	ctx := context.Background()
	p, ds := forwardRing(t, 16, []int{0, 8, 16})

	_, err := CompareSlices(ds, 0, 1)
	assert.ErrorIs(t, err, ErrNotPostprocessed)

	require.NoError(t, p.Postprocess(ctx, ds, PostprocessOptions{K: 3, Seed: 1}))

	_, err = CompareSlices(ds, 1, 1)
	assert.ErrorIs(t, err, ErrEqualSlices)

	_, err = CompareSlices(ds, -1, 1)
	assert.Error(t, err)
	_, err = CompareSlices(ds, 0, 2)
	assert.Error(t, err)
}
