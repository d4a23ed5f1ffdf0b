package conv

import (
	"errors"
	"fmt"
)

// ErrNoKernels is returned when the convolution is invoked with an empty
// kernel list: without kernels no output channels are defined.
var ErrNoKernels = errors.New("no kernels defined")

// ErrShapeMismatch indicates a kernel whose dimensions are incompatible
// with the signal row count.
type ErrShapeMismatch struct {
	KernelCols int
	SignalRows int
}

func (e *ErrShapeMismatch) Error() string {
	return fmt.Sprintf("kernel columns %d incompatible with signal rows %d", e.KernelCols, e.SignalRows)
}

// ErrChannelMismatch indicates an inner-product input whose concatenated
// channel count differs from the configured one.
type ErrChannelMismatch struct {
	Want int
	Got  int
}

func (e *ErrChannelMismatch) Error() string {
	return fmt.Sprintf("channel count mismatch: want %d, got %d", e.Want, e.Got)
}
