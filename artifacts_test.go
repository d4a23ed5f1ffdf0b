package manigo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/manigo/blobstore"
	"github.com/hupe1980/manigo/persistence"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	ds := ringDataset(t, 16, 1, 1, []int{0, 8, 16})
	p, err := New(1, 1).Order(1).Hidden(8).Out(4).Seed(3).
		Build(WithBlobStore(store), WithCompression(persistence.LZ4{}))
	require.NoError(t, err)
	defer p.Close()

	_, err = p.Forward(ctx, ds)
	require.NoError(t, err)
	require.NoError(t, p.Postprocess(ctx, ds, PostprocessOptions{K: 3, Seed: 1}))
	require.NoError(t, p.Save(ctx, "runs/ring.mgo", ds))

	restored := ringDataset(t, 16, 1, 1, []int{0, 8, 16})
	require.NoError(t, p.Load(ctx, "runs/ring.mgo", restored))

	assert.True(t, mat.Equal(ds.Emb, restored.Emb))
	assert.True(t, mat.Equal(ds.Emb2D, restored.Emb2D))
	assert.True(t, mat.Equal(ds.Centroids2D, restored.Centroids2D))
	assert.True(t, mat.Equal(ds.Dist, restored.Dist))
	assert.True(t, mat.Equal(ds.CDist, restored.CDist))

	require.NotNil(t, restored.Clusters)
	assert.Equal(t, ds.Clusters.Labels, restored.Clusters.Labels)
	assert.Equal(t, ds.Clusters.Centroids, restored.Clusters.Centroids)
	assert.Equal(t, ds.Slices, restored.Slices)

	require.NotNil(t, restored.Gamma)
	assert.Nil(t, restored.Gamma[0][0])
	assert.True(t, mat.Equal(ds.Gamma[0][1], restored.Gamma[0][1]))

	// Loaded clustering supports slice comparison directly.
	scores, err := CompareSlices(restored, 0, 1)
	require.NoError(t, err)
	assert.Len(t, scores, 16)
}

func TestSave_RequiresStoreAndEmbedding(t *testing.T) {
	ctx := context.Background()
	ds := ringDataset(t, 8, 1, 1, []int{0, 8})

	p, err := New(1, 1).Order(1).Build()
	require.NoError(t, err)
	assert.ErrorIs(t, p.Save(ctx, "x", ds), ErrNoStore)
	assert.ErrorIs(t, p.Load(ctx, "x", ds), ErrNoStore)

	p, err = New(1, 1).Order(1).Build(WithBlobStore(blobstore.NewMemoryStore()))
	require.NoError(t, err)
	assert.ErrorIs(t, p.Save(ctx, "x", ds), ErrNotEmbedded)
}

func TestSave_EmbeddingOnly(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	ds := ringDataset(t, 8, 1, 1, []int{0, 8})

	p, err := New(1, 1).Order(1).Out(4).Build(WithBlobStore(store))
	require.NoError(t, err)
	_, err = p.Forward(ctx, ds)
	require.NoError(t, err)
	require.NoError(t, p.Save(ctx, "emb-only.mgo", ds))

	restored := ringDataset(t, 8, 1, 1, []int{0, 8})
	require.NoError(t, p.Load(ctx, "emb-only.mgo", restored))
	assert.True(t, mat.Equal(ds.Emb, restored.Emb))
	assert.Nil(t, restored.Clusters)
	assert.Nil(t, restored.Gamma)
}

func TestMetricsCollection(t *testing.T) {
	ctx := context.Background()
	mc := &BasicMetricsCollector{}

	ds := ringDataset(t, 8, 1, 1, []int{0, 8})
	p, err := New(1, 1).Order(1).Out(4).Build(WithMetricsCollector(mc))
	require.NoError(t, err)

	_, err = p.Forward(ctx, ds)
	require.NoError(t, err)
	_, _ = p.Forward(ctx, ringDataset(t, 8, 2, 1, []int{0, 8})) // channel mismatch

	stats := mc.GetStats()
	assert.EqualValues(t, 2, stats.ForwardCount)
	assert.EqualValues(t, 1, stats.ForwardErrors)
}
