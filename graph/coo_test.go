package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestCOO_AppendAndDims(t *testing.T) {
	m := NewCOO(3, 4)
	require.NoError(t, m.Append(0, 1, 2.5))
	require.NoError(t, m.Append(2, 3, -1))

	rows, cols := m.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 4, cols)
	assert.Equal(t, 2, m.NNZ())

	err := m.Append(3, 0, 1)
	var oor *ErrIndexOutOfRange
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, 3, oor.Index)

	require.Error(t, m.Append(0, 4, 1))
}

func TestCOO_MulDense(t *testing.T) {
	// [[1, 2], [0, 3]]
	m := NewCOO(2, 2)
	require.NoError(t, m.Append(0, 0, 1))
	require.NoError(t, m.Append(0, 1, 2))
	require.NoError(t, m.Append(1, 1, 3))

	x := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	out, err := m.MulDense(x)
	require.NoError(t, err)

	assert.Equal(t, 1.0, out.At(0, 0))
	assert.Equal(t, 2.0, out.At(0, 1))
	assert.Equal(t, 0.0, out.At(1, 0))
	assert.Equal(t, 3.0, out.At(1, 1))
}

func TestCOO_MulDense_ShapeMismatch(t *testing.T) {
	m := NewCOO(2, 3)
	x := mat.NewDense(2, 2, nil)

	_, err := m.MulDense(x)
	var sm *ErrShapeMismatch
	require.ErrorAs(t, err, &sm)
	assert.Equal(t, 3, sm.WantRows)
}

func TestCOO_MulVec(t *testing.T) {
	m := NewCOO(2, 3)
	require.NoError(t, m.Append(0, 0, 2))
	require.NoError(t, m.Append(1, 2, -1))

	out, err := m.MulVec([]float64{1, 5, 4})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, -4}, out)

	_, err = m.MulVec([]float64{1, 2})
	require.Error(t, err)
}

func TestCOO_TransposeRoundTrip(t *testing.T) {
	m := NewCOO(2, 3)
	require.NoError(t, m.Append(0, 2, 7))
	require.NoError(t, m.Append(1, 0, -2))

	tt := m.T()
	rows, cols := tt.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, 7.0, tt.ToDense().At(2, 0))

	back := tt.T()
	assert.True(t, mat.EqualApprox(m.ToDense(), back.ToDense(), 0))
}

func TestCOO_SortDeterministic(t *testing.T) {
	m := NewCOO(3, 3)
	require.NoError(t, m.Append(2, 0, 1))
	require.NoError(t, m.Append(0, 1, 2))
	require.NoError(t, m.Append(0, 0, 3))

	m.Sort()
	assert.Equal(t, []int{0, 0, 2}, m.Row)
	assert.Equal(t, []int{0, 1, 0}, m.Col)
	assert.Equal(t, []float64{3, 2, 1}, m.Val)
}

func TestCOO_DuplicatesSumInDense(t *testing.T) {
	m := NewCOO(2, 2)
	require.NoError(t, m.Append(0, 0, 1))
	require.NoError(t, m.Append(0, 0, 2))

	assert.Equal(t, 3.0, m.ToDense().At(0, 0))
}

func TestFromDense_DropsSmallEntries(t *testing.T) {
	d := mat.NewDense(2, 2, []float64{1, 1e-12, -1e-12, -4})
	m := FromDense(d, 1e-9)

	assert.Equal(t, 2, m.NNZ())
	assert.Equal(t, 1.0, m.ToDense().At(0, 0))
	assert.Equal(t, -4.0, m.ToDense().At(1, 1))
}

func TestEye(t *testing.T) {
	m := Eye(3)
	assert.Equal(t, 3, m.NNZ())
	assert.True(t, mat.EqualApprox(m.ToDense(), mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}), 0))
}
