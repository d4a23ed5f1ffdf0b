package diffusion

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/manigo/graph"
)

// Method selects how the heat kernel is applied.
type Method int

const (
	// MethodSpectral applies the exact exponential in the eigenbasis.
	MethodSpectral Method = iota
	// MethodImplicit integrates backward-Euler steps (I + (t/k)L)^-k.
	MethodImplicit
)

func (m Method) String() string {
	switch m {
	case MethodSpectral:
		return "spectral"
	case MethodImplicit:
		return "implicit"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// ParseMethod maps a configuration string to a Method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "spectral":
		return MethodSpectral, nil
	case "implicit":
		return MethodImplicit, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
}

// Operator diffuses signals with a shared learned time parameter.
type Operator struct {
	time      *Time
	method    Method
	steps     int
	normalize bool
}

// Option configures an Operator.
type Option func(*Operator)

// WithMethod selects the diffusion method. Default is MethodSpectral.
func WithMethod(m Method) Option {
	return func(o *Operator) { o.method = m }
}

// WithSteps sets the number of backward-Euler steps for MethodImplicit.
func WithSteps(k int) Option {
	return func(o *Operator) {
		if k > 0 {
			o.steps = k
		}
	}
}

// WithNormalize rescales every diffused column back to the L2 norm of its
// input column.
func WithNormalize(enabled bool) Option {
	return func(o *Operator) { o.normalize = enabled }
}

// New creates a diffusion operator around the shared time parameter.
func New(t *Time, opts ...Option) *Operator {
	o := &Operator{time: t, method: MethodSpectral, steps: 16}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Time returns the shared diffusion time parameter.
func (o *Operator) Time() *Time {
	return o.time
}

// Diffuse smooths a scalar signal X (V x C): every column is diffused
// independently with the Laplacian l and the results are reassembled in
// column order. The output has the shape of the input.
func (o *Operator) Diffuse(ctx context.Context, x *mat.Dense, l *graph.Operator) (*mat.Dense, error) {
	xr, xc := x.Dims()
	if xr != l.Dim() {
		return nil, &ErrDimensionMismatch{Size: xr * xc, Dim: l.Dim()}
	}

	return o.apply(ctx, x, l)
}

// DiffuseVector smooths a vector-valued signal X (V x C*D) with a
// connection Laplacian lc of dimension V*D. The total signal size must be
// an integer multiple of the connection Laplacian dimension.
func (o *Operator) DiffuseVector(ctx context.Context, x *mat.Dense, lc *graph.Operator) (*mat.Dense, error) {
	xr, xc := x.Dims()
	dim := lc.Dim()
	if (xr*xc)%dim != 0 {
		return nil, &ErrDimensionMismatch{Size: xr * xc, Dim: dim}
	}

	d := lc.BlockDim
	if xr*d != dim || xc%d != 0 {
		return nil, &ErrDimensionMismatch{Size: xr * xc, Dim: dim}
	}
	channels := xc / d

	// Gather the column layout [dx1/du, dx1/dv, ..., dx2/du, ...] into one
	// stacked (V*D x C) matrix so each channel is a single tangent field.
	y := mat.NewDense(dim, channels, nil)
	for v := 0; v < xr; v++ {
		for c := 0; c < channels; c++ {
			for k := 0; k < d; k++ {
				y.Set(v*d+k, c, x.At(v, c*d+k))
			}
		}
	}

	out, err := o.apply(ctx, y, lc)
	if err != nil {
		return nil, err
	}

	// Scatter back to the per-node layout.
	res := mat.NewDense(xr, xc, nil)
	for v := 0; v < xr; v++ {
		for c := 0; c < channels; c++ {
			for k := 0; k < d; k++ {
				res.Set(v, c*d+k, out.At(v*d+k, c))
			}
		}
	}

	return res, nil
}

// apply diffuses every column of x with the operator l.
func (o *Operator) apply(ctx context.Context, x *mat.Dense, l *graph.Operator) (*mat.Dense, error) {
	t := o.time.Value()

	var (
		out *mat.Dense
		err error
	)
	switch o.method {
	case MethodSpectral:
		out, err = o.spectral(ctx, x, l, t)
	case MethodImplicit:
		out, err = o.implicit(x, l, t)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownMethod, int(o.method))
	}
	if err != nil {
		return nil, err
	}

	if o.normalize {
		renormalizeColumns(out, x)
	}

	return out, nil
}

// spectral computes evecs diag(exp(-t*evals)) evecs^T x, column by column.
// Columns are independent, so they fan out over a bounded errgroup; the
// result is deterministic regardless of scheduling.
func (o *Operator) spectral(ctx context.Context, x *mat.Dense, l *graph.Operator, t float64) (*mat.Dense, error) {
	evals, evecs, err := l.Eigen()
	if err != nil {
		return nil, err
	}

	n, cols := x.Dims()
	decay := make([]float64, len(evals))
	for i, ev := range evals {
		decay[i] = math.Exp(-t * ev)
	}

	out := mat.NewDense(n, cols, nil)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for c := 0; c < cols; c++ {
		c := c
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			coef := make([]float64, n)
			for i := 0; i < n; i++ {
				var s float64
				for v := 0; v < n; v++ {
					s += evecs.At(v, i) * x.At(v, c)
				}
				coef[i] = s * decay[i]
			}
			for v := 0; v < n; v++ {
				var s float64
				for i := 0; i < n; i++ {
					s += evecs.At(v, i) * coef[i]
				}
				out.Set(v, c, s)
			}

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// implicit integrates o.steps backward-Euler steps with step size t/steps.
// The system matrix I + h*L is SPD for a PSD Laplacian, so a single
// Cholesky factorization serves all steps and all columns.
func (o *Operator) implicit(x *mat.Dense, l *graph.Operator, t float64) (*mat.Dense, error) {
	n, cols := x.Dims()
	h := t / float64(o.steps)

	dense := l.M.ToDense()
	sys := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := 0.5 * h * (dense.At(i, j) + dense.At(j, i))
			if i == j {
				v++
			}
			sys.SetSym(i, j, v)
		}
	}

	var chol mat.Cholesky
	if !chol.Factorize(sys) {
		return nil, ErrSolveFailed
	}

	cur := mat.NewDense(n, cols, nil)
	cur.Copy(x)
	next := mat.NewDense(n, cols, nil)
	for s := 0; s < o.steps; s++ {
		if err := chol.SolveTo(next, cur); err != nil {
			return nil, ErrSolveFailed
		}
		cur, next = next, cur
	}

	return cur, nil
}

// renormalizeColumns rescales each column of out to the L2 norm of the
// matching column of ref. Zero-norm columns are left unchanged.
func renormalizeColumns(out, ref *mat.Dense) {
	n, cols := out.Dims()
	for c := 0; c < cols; c++ {
		var no, nr float64
		for v := 0; v < n; v++ {
			no += out.At(v, c) * out.At(v, c)
			nr += ref.At(v, c) * ref.At(v, c)
		}
		if no == 0 || nr == 0 {
			continue
		}
		scale := math.Sqrt(nr / no)
		for v := 0; v < n; v++ {
			out.Set(v, c, out.At(v, c)*scale)
		}
	}
}
