package graph

import (
	"sync"

	"gonum.org/v1/gonum/mat"
)

// Operator wraps a symmetric sparse matrix (scalar Laplacian, BlockDim 1,
// or connection Laplacian, BlockDim D) and memoizes its eigendecomposition.
//
// The decomposition is computed on first use and reused thereafter. It is
// written exactly once per instance; concurrent first calls are safe, but
// the underlying matrix must not be mutated after construction. A changed
// matrix requires a new Operator.
type Operator struct {
	M        *COO
	BlockDim int

	once  sync.Once
	evals []float64
	evecs *mat.Dense
	err   error
}

// NewOperator validates and wraps a square sparse matrix.
// blockDim records the per-node frame dimension encoded in the matrix.
func NewOperator(m *COO, blockDim int) (*Operator, error) {
	r, c := m.Dims()
	if r != c {
		return nil, ErrNotSquare
	}
	if blockDim < 1 {
		blockDim = 1
	}

	return &Operator{M: m, BlockDim: blockDim}, nil
}

// Dim returns the operator size (rows of the wrapped matrix).
func (op *Operator) Dim() int {
	r, _ := op.M.Dims()
	return r
}

// Nodes returns the number of underlying nodes, Dim / BlockDim.
func (op *Operator) Nodes() int {
	return op.Dim() / op.BlockDim
}

// Eigen returns the memoized eigendecomposition of the wrapped matrix.
// Eigenvalues are ascending; column j of the vector matrix pairs with
// eigenvalue j. The matrix is symmetrized before factorization to absorb
// round-off asymmetry in the stored triples.
func (op *Operator) Eigen() (evals []float64, evecs *mat.Dense, err error) {
	op.once.Do(func() {
		n := op.Dim()
		d := op.M.ToDense()

		sym := mat.NewSymDense(n, nil)
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				sym.SetSym(i, j, 0.5*(d.At(i, j)+d.At(j, i)))
			}
		}

		var es mat.EigenSym
		if !es.Factorize(sym, true) {
			op.err = ErrEigenFailed
			return
		}

		op.evals = es.Values(nil)
		var ev mat.Dense
		es.VectorsTo(&ev)
		op.evecs = &ev
	})

	return op.evals, op.evecs, op.err
}
