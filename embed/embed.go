package embed

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/mds"

	"github.com/hupe1980/manigo/distance"
)

// ErrUnknownMethod is returned for an unrecognized embedding method.
var ErrUnknownMethod = errors.New("unknown embed method")

// ErrDegenerate is returned when the reduction cannot produce the requested
// number of output dimensions.
var ErrDegenerate = errors.New("degenerate embedding input")

// Method selects the dimensionality-reduction algorithm.
type Method int

const (
	// MethodMDS applies classical multidimensional scaling.
	MethodMDS Method = iota
	// MethodPCA projects onto the leading principal components.
	MethodPCA
)

func (m Method) String() string {
	switch m {
	case MethodMDS:
		return "mds"
	case MethodPCA:
		return "pca"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// ParseMethod maps a configuration string to a Method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "mds":
		return MethodMDS, nil
	case "pca":
		return MethodPCA, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
}

// Embed reduces x (n x d) to n x outDim coordinates.
func Embed(x *mat.Dense, method Method, outDim int) (*mat.Dense, error) {
	switch method {
	case MethodMDS:
		return torgerson(x, outDim)
	case MethodPCA:
		return pca(x, outDim)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownMethod, int(method))
	}
}

func torgerson(x *mat.Dense, outDim int) (*mat.Dense, error) {
	n, _ := x.Dims()
	if n < outDim {
		return nil, ErrDegenerate
	}

	dis := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dis.SetSym(i, j, distance.L2(x.RawRowView(i), x.RawRowView(j)))
		}
	}

	var coords mat.Dense
	k, _ := mds.TorgersonScaling(&coords, nil, dis)
	if k == 0 {
		return nil, ErrDegenerate
	}

	out := mat.NewDense(n, outDim, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < outDim && j < k; j++ {
			out.Set(i, j, coords.At(i, j))
		}
	}

	return out, nil
}

func pca(x *mat.Dense, outDim int) (*mat.Dense, error) {
	n, d := x.Dims()
	if n < 2 || d < outDim {
		return nil, ErrDegenerate
	}

	var pc stat.PC
	if !pc.PrincipalComponents(x, nil) {
		return nil, ErrDegenerate
	}

	var vec mat.Dense
	pc.VectorsTo(&vec)

	var proj mat.Dense
	proj.Mul(x, vec.Slice(0, d, 0, outDim))

	out := mat.NewDense(n, outDim, nil)
	out.Copy(&proj)

	return out, nil
}
