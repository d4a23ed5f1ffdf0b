package graph

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// COO is a sparse matrix in coordinate (triple) form.
//
// Triples are kept in insertion order; Sort establishes row-major order,
// which the multiplication kernels do not require but which makes output
// deterministic for serialization and tests. Duplicate (row, col) entries
// are additive.
type COO struct {
	rows, cols int

	Row []int
	Col []int
	Val []float64
}

// NewCOO creates an empty rows x cols sparse matrix.
func NewCOO(rows, cols int) *COO {
	return &COO{rows: rows, cols: cols}
}

// Dims returns the matrix dimensions.
func (m *COO) Dims() (rows, cols int) {
	return m.rows, m.cols
}

// NNZ returns the number of stored triples.
func (m *COO) NNZ() int {
	return len(m.Val)
}

// Append adds a triple. Out-of-range indices return an error.
func (m *COO) Append(i, j int, v float64) error {
	if i < 0 || i >= m.rows {
		return &ErrIndexOutOfRange{Index: i, Limit: m.rows}
	}
	if j < 0 || j >= m.cols {
		return &ErrIndexOutOfRange{Index: j, Limit: m.cols}
	}
	m.Row = append(m.Row, i)
	m.Col = append(m.Col, j)
	m.Val = append(m.Val, v)

	return nil
}

// Sort orders triples row-major (row, then col). Stable across calls.
func (m *COO) Sort() {
	idx := make([]int, len(m.Val))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ia, ib := idx[a], idx[b]
		if m.Row[ia] != m.Row[ib] {
			return m.Row[ia] < m.Row[ib]
		}
		return m.Col[ia] < m.Col[ib]
	})

	row := make([]int, len(idx))
	col := make([]int, len(idx))
	val := make([]float64, len(idx))
	for k, i := range idx {
		row[k], col[k], val[k] = m.Row[i], m.Col[i], m.Val[i]
	}
	m.Row, m.Col, m.Val = row, col, val
}

// T returns the transpose as a new matrix.
func (m *COO) T() *COO {
	t := NewCOO(m.cols, m.rows)
	t.Row = append(t.Row, m.Col...)
	t.Col = append(t.Col, m.Row...)
	t.Val = append(t.Val, m.Val...)

	return t
}

// Clone returns a deep copy.
func (m *COO) Clone() *COO {
	c := NewCOO(m.rows, m.cols)
	c.Row = append(c.Row, m.Row...)
	c.Col = append(c.Col, m.Col...)
	c.Val = append(c.Val, m.Val...)

	return c
}

// Scale multiplies all stored values by s in place.
func (m *COO) Scale(s float64) {
	for i := range m.Val {
		m.Val[i] *= s
	}
}

// MulDense computes m @ x for a dense operand.
// x must have exactly m.cols rows.
func (m *COO) MulDense(x *mat.Dense) (*mat.Dense, error) {
	xr, xc := x.Dims()
	if xr != m.cols {
		return nil, &ErrShapeMismatch{Rows: xr, Cols: xc, WantRows: m.cols}
	}

	out := mat.NewDense(m.rows, xc, nil)
	for k := range m.Val {
		i, j, v := m.Row[k], m.Col[k], m.Val[k]
		for c := 0; c < xc; c++ {
			out.Set(i, c, out.At(i, c)+v*x.At(j, c))
		}
	}

	return out, nil
}

// MulVec computes m @ x for a dense vector of length m.cols.
func (m *COO) MulVec(x []float64) ([]float64, error) {
	if len(x) != m.cols {
		return nil, &ErrShapeMismatch{Rows: len(x), Cols: 1, WantRows: m.cols}
	}

	out := make([]float64, m.rows)
	for k := range m.Val {
		out[m.Row[k]] += m.Val[k] * x[m.Col[k]]
	}

	return out, nil
}

// ToDense materializes the matrix. Duplicates are summed.
func (m *COO) ToDense() *mat.Dense {
	d := mat.NewDense(m.rows, m.cols, nil)
	for k := range m.Val {
		d.Set(m.Row[k], m.Col[k], d.At(m.Row[k], m.Col[k])+m.Val[k])
	}

	return d
}

// FromDense builds a COO from a dense matrix, dropping entries with
// absolute value <= tol.
func FromDense(d mat.Matrix, tol float64) *COO {
	rows, cols := d.Dims()
	m := NewCOO(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := d.At(i, j)
			if v > tol || v < -tol {
				m.Row = append(m.Row, i)
				m.Col = append(m.Col, j)
				m.Val = append(m.Val, v)
			}
		}
	}

	return m
}

// Eye returns the n x n identity in triple form.
func Eye(n int) *COO {
	m := NewCOO(n, n)
	for i := 0; i < n; i++ {
		m.Row = append(m.Row, i)
		m.Col = append(m.Col, i)
		m.Val = append(m.Val, 1)
	}

	return m
}
