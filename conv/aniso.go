package conv

import (
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/manigo/graph"
)

// Aniso is the anisotropic convolution: one aggregated directional feature
// block per kernel, stacked channel-major (all kernel responses of a channel
// are adjacent in the output).
type Aniso struct{}

// NewAniso creates an anisotropic convolution layer.
func NewAniso() *Aniso {
	return &Aniso{}
}

// Forward aggregates x (V x C) through every kernel (V x V sparse edge
// weights). When rotations are given, each kernel is lifted to the
// (V*D) x (V*D) block form first and the signal is treated as D-dimensional
// tangent vectors per channel group. The output has len(kernels)*C columns.
func (a *Aniso) Forward(x *mat.Dense, kernels []*graph.COO, r *graph.BlockRotations) (*mat.Dense, error) {
	if len(kernels) == 0 {
		return nil, ErrNoKernels
	}

	rows, cols := x.Dims()

	outs := make([]*mat.Dense, len(kernels))
	for i, k := range kernels {
		lifted := k
		if r != nil {
			lifted = graph.RotationLift(k, r)
		}

		// Transpose to aggregate from source to target.
		out, err := aggregate(lifted.T(), x)
		if err != nil {
			return nil, err
		}
		outs[i] = out
	}

	// Stack kernel blocks channel-major: output column c*K+k holds kernel
	// k applied to input channel c.
	nk := len(kernels)
	stacked := mat.NewDense(rows, cols*nk, nil)
	for k, out := range outs {
		for v := 0; v < rows; v++ {
			for c := 0; c < cols; c++ {
				stacked.Set(v, c*nk+k, out.At(v, c))
			}
		}
	}

	return stacked, nil
}

// aggregate computes kt @ x with the reshape rule of the block-expanded
// case: when the kernel columns span V*D with D > 1, each group of D signal
// columns is gathered into one stacked tangent field, multiplied, and
// scattered back. A kernel matching the plain row count is used as-is.
func aggregate(kt *graph.COO, x *mat.Dense) (*mat.Dense, error) {
	rows, cols := x.Dims()
	_, kc := kt.Dims()

	if kc == rows {
		return kt.MulDense(x)
	}

	// Block-expanded kernel: kernel columns must span rows*D and the
	// signal columns must group evenly into D components.
	if kc%rows != 0 {
		return nil, &ErrShapeMismatch{KernelCols: kc, SignalRows: rows}
	}
	d := kc / rows
	if cols%d != 0 {
		return nil, &ErrShapeMismatch{KernelCols: kc, SignalRows: rows}
	}
	channels := cols / d

	y := mat.NewDense(kc, channels, nil)
	for v := 0; v < rows; v++ {
		for c := 0; c < channels; c++ {
			for k := 0; k < d; k++ {
				y.Set(v*d+k, c, x.At(v, c*d+k))
			}
		}
	}

	prod, err := kt.MulDense(y)
	if err != nil {
		return nil, err
	}

	out := mat.NewDense(rows, cols, nil)
	for v := 0; v < rows; v++ {
		for c := 0; c < channels; c++ {
			for k := 0; k < d; k++ {
				out.Set(v, c*d+k, prod.At(v*d+k, c))
			}
		}
	}

	return out, nil
}
