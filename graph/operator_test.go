package graph

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOperator_RequiresSquare(t *testing.T) {
	_, err := NewOperator(NewCOO(2, 3), 1)
	assert.ErrorIs(t, err, ErrNotSquare)
}

func TestOperator_EigenRingLaplacian(t *testing.T) {
	op := Ring(4).Laplacian(false)

	evals, evecs, err := op.Eigen()
	require.NoError(t, err)
	require.Len(t, evals, 4)

	// Cycle Laplacian spectrum for n=4: 0, 2, 2, 4.
	assert.InDelta(t, 0, evals[0], 1e-10)
	assert.InDelta(t, 2, evals[1], 1e-10)
	assert.InDelta(t, 2, evals[2], 1e-10)
	assert.InDelta(t, 4, evals[3], 1e-10)

	// The null-space eigenvector is constant.
	for i := 1; i < 4; i++ {
		assert.InDelta(t, evecs.At(0, 0), evecs.At(i, 0), 1e-10)
	}
}

func TestOperator_EigenMemoized(t *testing.T) {
	op := Ring(5).Laplacian(false)

	evals1, evecs1, err := op.Eigen()
	require.NoError(t, err)
	evals2, evecs2, err := op.Eigen()
	require.NoError(t, err)

	// Same backing slices and matrix: computed once, reused thereafter.
	assert.Equal(t, &evals1[0], &evals2[0])
	assert.Same(t, evecs1, evecs2)
}

func TestOperator_EigenConcurrentFirstUse(t *testing.T) {
	op := Ring(8).Laplacian(false)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := op.Eigen()
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestOperator_Nodes(t *testing.T) {
	m := NewCOO(6, 6)
	op, err := NewOperator(m, 2)
	require.NoError(t, err)

	assert.Equal(t, 6, op.Dim())
	assert.Equal(t, 3, op.Nodes())
}
