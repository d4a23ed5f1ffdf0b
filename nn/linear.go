package nn

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Linear is a dense layer y = x W^T + b.
type Linear struct {
	In, Out int

	W *mat.Dense // Out x In
	B []float64  // nil without bias
}

// NewLinear creates a layer with uniform(-1/sqrt(in), 1/sqrt(in)) weights
// drawn from rng, the usual fan-in scaling.
func NewLinear(in, out int, bias bool, rng *rand.Rand) *Linear {
	l := &Linear{In: in, Out: out, W: mat.NewDense(out, in, nil)}

	bound := 1 / math.Sqrt(float64(in))
	for i := 0; i < out; i++ {
		for j := 0; j < in; j++ {
			l.W.Set(i, j, (rng.Float64()*2-1)*bound)
		}
	}
	if bias {
		l.B = make([]float64, out)
		for i := range l.B {
			l.B[i] = (rng.Float64()*2 - 1) * bound
		}
	}

	return l
}

// Forward applies the layer to x (V x In), returning V x Out.
func (l *Linear) Forward(x *mat.Dense) *mat.Dense {
	rows, _ := x.Dims()
	out := mat.NewDense(rows, l.Out, nil)
	out.Mul(x, l.W.T())
	if l.B != nil {
		for v := 0; v < rows; v++ {
			for c := 0; c < l.Out; c++ {
				out.Set(v, c, out.At(v, c)+l.B[c])
			}
		}
	}

	return out
}

// SetIdentity makes the layer a no-op (square layers only, bias zeroed).
func (l *Linear) SetIdentity() {
	l.W.Zero()
	n := l.In
	if l.Out < n {
		n = l.Out
	}
	for i := 0; i < n; i++ {
		l.W.Set(i, i, 1)
	}
	for i := range l.B {
		l.B[i] = 0
	}
}

func relu(x *mat.Dense) {
	rows, cols := x.Dims()
	for v := 0; v < rows; v++ {
		for c := 0; c < cols; c++ {
			if x.At(v, c) < 0 {
				x.Set(v, c, 0)
			}
		}
	}
}
