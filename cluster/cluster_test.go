package cluster

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoBlobs() []float64 {
	return []float64{
		0, 0, 0, 1, 1, 0, // near (0,0)
		10, 10, 10, 11, 11, 10, // near (10,10)
	}
}

func TestKMeans_SeparatesBlobs(t *testing.T) {
	ctx := context.Background()

	res, err := KMeans(ctx, twoBlobs(), 2, 2, 0, 100)
	require.NoError(t, err)

	assert.Equal(t, 2, res.K)
	require.Len(t, res.Labels, 6)

	// First three points share a label, last three share the other.
	assert.Equal(t, res.Labels[0], res.Labels[1])
	assert.Equal(t, res.Labels[0], res.Labels[2])
	assert.Equal(t, res.Labels[3], res.Labels[4])
	assert.NotEqual(t, res.Labels[0], res.Labels[3])
}

func TestKMeans_Deterministic(t *testing.T) {
	ctx := context.Background()

	a, err := KMeans(ctx, twoBlobs(), 2, 2, 42, 100)
	require.NoError(t, err)
	b, err := KMeans(ctx, twoBlobs(), 2, 2, 42, 100)
	require.NoError(t, err)

	assert.Equal(t, a.Labels, b.Labels)
	assert.Equal(t, a.Centroids, b.Centroids)
}

func TestKMeans_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := KMeans(ctx, nil, 2, 2, 0, 10)
	assert.ErrorIs(t, err, ErrNoVectors)

	_, err = KMeans(ctx, []float64{0, 0}, 2, 2, 0, 10)
	assert.Error(t, err)

	_, err = KMeans(ctx, twoBlobs(), 2, 0, 0, 10)
	assert.ErrorIs(t, err, ErrInvalidK)

	_, err = KMeans(ctx, twoBlobs(), 2, -1, 0, 10)
	assert.ErrorIs(t, err, ErrInvalidK)
}

func TestKMeans_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	vecs := make([]float64, 100*2)
	_, err := KMeans(ctx, vecs, 2, 4, 0, 100)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDBSCAN_FindsBlobsAndNoise(t *testing.T) {
	vecs := append(twoBlobs(), 100, 100) // far outlier

	res, err := DBSCAN(vecs, 2, 2.0, 3)
	require.NoError(t, err)

	assert.Equal(t, 2, res.K)
	assert.Equal(t, res.Labels[0], res.Labels[1])
	assert.NotEqual(t, res.Labels[0], res.Labels[3])
	assert.Equal(t, -1, res.Labels[6])
}

func TestRelabelByProximity_Idempotent(t *testing.T) {
	res := &Result{
		K:         3,
		Dim:       2,
		Labels:    []int{2, 2, 0, 0, 1, 1},
		Centroids: []float64{5, 5, 10, 10, 0, 0},
	}

	RelabelByProximity(res)
	labels := append([]int(nil), res.Labels...)
	centroids := append([]float64(nil), res.Centroids...)

	RelabelByProximity(res)
	assert.Equal(t, labels, res.Labels)
	assert.Equal(t, centroids, res.Centroids)
}

func TestRelabelByProximity_CanonicalOrder(t *testing.T) {
	// Centroid at the origin corner becomes label 0, then its nearest
	// neighbor, and so on.
	res := &Result{
		K:         3,
		Dim:       2,
		Labels:    []int{0, 1, 2},
		Centroids: []float64{10, 10, 0, 0, 4, 4},
	}

	RelabelByProximity(res)

	// Old label 1 (origin) -> 0; old 2 (4,4) -> 1; old 0 (10,10) -> 2.
	assert.Equal(t, []int{2, 0, 1}, res.Labels)
	assert.Equal(t, []float64{0, 0, 4, 4, 10, 10}, res.Centroids)
}

func TestRelabelByProximity_KeepsNoise(t *testing.T) {
	res := &Result{
		K:         2,
		Dim:       1,
		Labels:    []int{1, -1, 0},
		Centroids: []float64{5, 0},
	}

	RelabelByProximity(res)
	assert.Equal(t, -1, res.Labels[1])
}

func TestResult_SetSlices(t *testing.T) {
	res := &Result{K: 1, Dim: 1, Labels: []int{0, 0, 0, 0}}

	require.NoError(t, res.SetSlices([]int{0, 2, 4}))
	assert.Equal(t, 2, res.NumSlices())

	var bad *ErrBadSlices
	assert.ErrorAs(t, res.SetSlices([]int{1, 4}), &bad)
	assert.ErrorAs(t, res.SetSlices([]int{0, 5}), &bad)
	assert.ErrorAs(t, res.SetSlices([]int{0, 3, 2, 4}), &bad)
	assert.ErrorAs(t, res.SetSlices([]int{0}), &bad)
}

func TestResult_Members(t *testing.T) {
	res := &Result{K: 2, Dim: 1, Labels: []int{0, 1, 0, -1}}

	m0 := res.Members(0)
	assert.True(t, m0.Contains(0))
	assert.True(t, m0.Contains(2))
	assert.False(t, m0.Contains(1))
	assert.EqualValues(t, 2, m0.GetCardinality())

	// Out-of-range labels yield an empty set.
	assert.EqualValues(t, 0, res.Members(9).GetCardinality())
}
