package diffusion

import (
	"errors"
	"fmt"
)

// ErrUnknownMethod is returned for an unrecognized diffusion method.
var ErrUnknownMethod = errors.New("unknown diffusion method")

// ErrDimensionMismatch indicates a signal whose total size is not an
// integer multiple of the connection Laplacian dimension.
type ErrDimensionMismatch struct {
	Size int // total signal elements (rows * cols)
	Dim  int // connection Laplacian dimension
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("signal size %d is not a multiple of connection Laplacian dimension %d", e.Size, e.Dim)
}

// ErrSolveFailed indicates that the implicit (backward-Euler) linear solve
// did not succeed, which happens only for a non-PSD operator.
var ErrSolveFailed = errors.New("implicit diffusion solve failed")
