package embed

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/manigo/distance"
)

func TestEmbed_OutputShape(t *testing.T) {
	x := mat.NewDense(6, 4, nil)
	for i := 0; i < 6; i++ {
		for j := 0; j < 4; j++ {
			x.Set(i, j, float64((i*7+j*3)%5))
		}
	}

	for _, m := range []Method{MethodMDS, MethodPCA} {
		out, err := Embed(x, m, 2)
		require.NoError(t, err, m.String())

		rows, cols := out.Dims()
		assert.Equal(t, 6, rows)
		assert.Equal(t, 2, cols)
	}
}

func TestEmbed_MDSPreservesDistancesForPlanarData(t *testing.T) {
	// Points already in the plane: classical MDS recovers their pairwise
	// distances exactly (up to rotation/reflection).
	x := mat.NewDense(4, 2, []float64{0, 0, 1, 0, 0, 1, 1, 1})

	out, err := Embed(x, MethodMDS, 2)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			want := distance.L2(x.RawRowView(i), x.RawRowView(j))
			got := distance.L2(out.RawRowView(i), out.RawRowView(j))
			assert.InDelta(t, want, got, 1e-8, "pair (%d,%d)", i, j)
		}
	}
}

func TestEmbed_PCALeadingDirection(t *testing.T) {
	// Data varying only along one axis collapses onto a single component
	// carrying all the variance.
	x := mat.NewDense(4, 3, []float64{
		0, 5, 5,
		1, 5, 5,
		2, 5, 5,
		3, 5, 5,
	})

	out, err := Embed(x, MethodPCA, 2)
	require.NoError(t, err)

	// Second component is constant (no remaining variance).
	for i := 1; i < 4; i++ {
		assert.InDelta(t, out.At(0, 1), out.At(i, 1), 1e-8)
	}
	// First component separates the points.
	assert.Greater(t, math.Abs(out.At(0, 0)-out.At(3, 0)), 1e-6)
}

func TestEmbed_UnknownMethod(t *testing.T) {
	_, err := Embed(mat.NewDense(3, 3, nil), Method(99), 2)
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("mds")
	require.NoError(t, err)
	assert.Equal(t, MethodMDS, m)

	m, err = ParseMethod("pca")
	require.NoError(t, err)
	assert.Equal(t, MethodPCA, m)

	_, err = ParseMethod("umap")
	assert.ErrorIs(t, err, ErrUnknownMethod)
}
