package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestExpandAdjacency(t *testing.T) {
	k := NewCOO(2, 2)
	require.NoError(t, k.Append(0, 1, 3))

	out := ExpandAdjacency(k, 2)
	rows, cols := out.Dims()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 4, cols)
	assert.Equal(t, 4, out.NNZ())

	d := out.ToDense()
	for a := 0; a < 2; a++ {
		for b := 0; b < 2; b++ {
			assert.Equal(t, 3.0, d.At(a, 2+b))
		}
	}
}

func TestExpandAdjacency_DimOneIsIdentity(t *testing.T) {
	k := NewCOO(3, 3)
	require.NoError(t, k.Append(0, 1, 1))
	require.NoError(t, k.Append(2, 2, -2))

	out := ExpandAdjacency(k, 1)
	assert.True(t, mat.EqualApprox(k.ToDense(), out.ToDense(), 0))
}

func TestBlockRotations_SetValidation(t *testing.T) {
	r := NewBlockRotations(2, 2)

	err := r.Set(0, 1, mat.NewDense(3, 2, nil))
	var bs *ErrBlockSize
	require.ErrorAs(t, err, &bs)

	require.Error(t, r.Set(2, 0, mat.NewDense(2, 2, nil)))
	require.NoError(t, r.Set(0, 1, mat.NewDense(2, 2, []float64{0, -1, 1, 0})))
	assert.Equal(t, 1, r.Len())
}

func TestRotationLift(t *testing.T) {
	k := NewCOO(2, 2)
	require.NoError(t, k.Append(0, 1, 2))

	r := NewBlockRotations(2, 2)
	// 90 degree rotation.
	require.NoError(t, r.Set(0, 1, mat.NewDense(2, 2, []float64{0, -1, 1, 0})))

	// The block is stored transposed (see RotationLift), so the dense
	// layout of the lifted entry is weight * R^T.
	out := RotationLift(k, r).ToDense()
	assert.Equal(t, 0.0, out.At(0, 2))
	assert.Equal(t, 2.0, out.At(0, 3))
	assert.Equal(t, -2.0, out.At(1, 2))
	assert.Equal(t, 0.0, out.At(1, 3))
}

func TestRotationLift_IdentityBlocksMatchExpansion(t *testing.T) {
	// With identity rotation blocks the lift reduces to the plain block
	// expansion of the kernel.
	k := NewCOO(3, 3)
	require.NoError(t, k.Append(0, 1, 1.5))
	require.NoError(t, k.Append(1, 2, -0.5))

	r := NewBlockRotations(3, 2)
	eye := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	for _, e := range [][2]int{{0, 1}, {1, 2}} {
		require.NoError(t, r.Set(e[0], e[1], eye))
	}

	lift := RotationLift(k, r).ToDense()
	want := mat.NewDense(6, 6, nil)
	for _, e := range []struct {
		i, j int
		v    float64
	}{{0, 1, 1.5}, {1, 2, -0.5}} {
		for d := 0; d < 2; d++ {
			want.Set(e.i*2+d, e.j*2+d, e.v)
		}
	}
	assert.True(t, mat.EqualApprox(want, lift, 0))
}

func TestRotationLift_MissingBlockDropsEntry(t *testing.T) {
	k := NewCOO(2, 2)
	require.NoError(t, k.Append(0, 1, 2))
	require.NoError(t, k.Append(1, 0, 2))

	r := NewBlockRotations(2, 2)
	require.NoError(t, r.Set(0, 1, mat.NewDense(2, 2, []float64{1, 0, 0, 1})))

	out := RotationLift(k, r)
	// Only the (0,1) entry survives; (1,0) has no rotation block.
	assert.Equal(t, 2, out.NNZ())
}
