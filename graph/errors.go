package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrNotSquare is returned when an operator matrix is not square.
	ErrNotSquare = errors.New("matrix must be square")

	// ErrEmptyGraph is returned when a graph has no nodes.
	ErrEmptyGraph = errors.New("graph has no nodes")

	// ErrEigenFailed is returned when the symmetric eigendecomposition
	// does not converge.
	ErrEigenFailed = errors.New("eigendecomposition failed")
)

// ErrIndexOutOfRange indicates a node or matrix index outside the valid range.
type ErrIndexOutOfRange struct {
	Index int
	Limit int
}

func (e *ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.Limit)
}

// ErrShapeMismatch indicates incompatible matrix shapes in a sparse product.
type ErrShapeMismatch struct {
	Rows, Cols int
	WantRows   int
}

func (e *ErrShapeMismatch) Error() string {
	return fmt.Sprintf("shape mismatch: operand is %dx%d, want %d rows", e.Rows, e.Cols, e.WantRows)
}

// ErrBlockSize indicates a rotation block whose shape does not match the
// configured frame dimension.
type ErrBlockSize struct {
	Rows, Cols int
	Dim        int
}

func (e *ErrBlockSize) Error() string {
	return fmt.Sprintf("rotation block is %dx%d, want %dx%d", e.Rows, e.Cols, e.Dim, e.Dim)
}
