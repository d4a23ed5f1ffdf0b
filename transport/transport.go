package transport

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/manigo/cluster"
	"github.com/hupe1980/manigo/distance"
)

var (
	// ErrNoSlices is returned when the clustering carries no slice
	// boundaries.
	ErrNoSlices = errors.New("clustering has no slice boundaries")

	// ErrNoClusters is returned when the clustering is empty, e.g. when
	// DBSCAN marked every point noise.
	ErrNoClusters = errors.New("clustering has no clusters")

	// ErrMarginalMismatch is returned when the transport inputs have
	// different total mass.
	ErrMarginalMismatch = errors.New("histogram masses differ")
)

// ErrSliceRange indicates a slice index outside the valid range.
type ErrSliceRange struct {
	Slice int
	N     int
}

func (e *ErrSliceRange) Error() string {
	return fmt.Sprintf("slice %d out of range [0, %d)", e.Slice, e.N)
}

// Histogram returns the normalized cluster-label distribution of slice s.
// Noise labels (-1) carry no mass.
func Histogram(res *cluster.Result, s int) ([]float64, error) {
	n := res.NumSlices()
	if n == 0 {
		return nil, ErrNoSlices
	}
	if s < 0 || s >= n {
		return nil, &ErrSliceRange{Slice: s, N: n}
	}

	h := make([]float64, res.K)
	total := 0.0
	for i := res.Slices[s]; i < res.Slices[s+1]; i++ {
		if l := res.Labels[i]; l >= 0 {
			h[l]++
			total++
		}
	}
	if total > 0 {
		for i := range h {
			h[i] /= total
		}
	}

	return h, nil
}

// CentroidDistances returns the K x K Euclidean base cost matrix between
// cluster centroids.
func CentroidDistances(res *cluster.Result) *mat.Dense {
	c := mat.NewDense(res.K, res.K, nil)
	for i := 0; i < res.K; i++ {
		for j := i + 1; j < res.K; j++ {
			d := distance.L2(res.Centroid(i), res.Centroid(j))
			c.Set(i, j, d)
			c.Set(j, i, d)
		}
	}

	return c
}

// Sinkhorn solves the entropy-regularized transport problem between the
// histograms a and b under the given cost matrix. eps is the entropic
// regularization strength; smaller values approach the exact plan at the
// price of more iterations. Returns the coupling and its transport cost.
func Sinkhorn(a, b []float64, cost *mat.Dense, eps float64, maxIter int) (*mat.Dense, float64, error) {
	n := len(a)
	m := len(b)

	var sa, sb float64
	for _, v := range a {
		sa += v
	}
	for _, v := range b {
		sb += v
	}
	if math.Abs(sa-sb) > 1e-9 {
		return nil, 0, ErrMarginalMismatch
	}

	gamma := mat.NewDense(n, m, nil)
	if sa == 0 {
		return gamma, 0, nil
	}

	// Degenerate zero-cost problem: the independent coupling is optimal.
	if mat.Max(cost) == 0 {
		for i := 0; i < n; i++ {
			for j := 0; j < m; j++ {
				gamma.Set(i, j, a[i]*b[j]/sa)
			}
		}
		return gamma, 0, nil
	}

	// Gibbs kernel.
	k := mat.NewDense(n, m, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			k.Set(i, j, math.Exp(-cost.At(i, j)/eps))
		}
	}

	u := make([]float64, n)
	v := make([]float64, m)
	for j := range v {
		v[j] = 1
	}

	for iter := 0; iter < maxIter; iter++ {
		for i := 0; i < n; i++ {
			var s float64
			for j := 0; j < m; j++ {
				s += k.At(i, j) * v[j]
			}
			if s > 0 {
				u[i] = a[i] / s
			} else {
				u[i] = 0
			}
		}
		for j := 0; j < m; j++ {
			var s float64
			for i := 0; i < n; i++ {
				s += k.At(i, j) * u[i]
			}
			if s > 0 {
				v[j] = b[j] / s
			} else {
				v[j] = 0
			}
		}

		// Row-marginal error drives convergence.
		var errSum float64
		for i := 0; i < n; i++ {
			var row float64
			for j := 0; j < m; j++ {
				row += u[i] * k.At(i, j) * v[j]
			}
			errSum += math.Abs(row - a[i])
		}
		if errSum < 1e-10 {
			break
		}
	}

	var total float64
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			g := u[i] * k.At(i, j) * v[j]
			gamma.Set(i, j, g)
			total += g * cost.At(i, j)
		}
	}

	return gamma, total, nil
}

// Distances aggregates the cross-slice transport artifacts.
type Distances struct {
	// Dist[s][t] is the transport cost from slice s to slice t; the
	// diagonal is 0 by definition.
	Dist *mat.Dense

	// Gamma[s][t] is the K x K coupling for the ordered pair (s, t);
	// diagonal entries are nil.
	Gamma [][]*mat.Dense

	// CDist is the K x K centroid base distance matrix shared by all
	// pairs.
	CDist *mat.Dense
}

// Options tune the transport solver.
type Options struct {
	// Epsilon is the entropic regularization strength. When 0 it defaults
	// to 5% of the maximum base distance.
	Epsilon float64

	// MaxIter bounds the Sinkhorn iterations per pair.
	MaxIter int
}

// SliceDistances computes histograms, couplings and costs for every
// ordered pair of slices. Pairs are independent and fan out over a bounded
// errgroup.
func SliceDistances(ctx context.Context, res *cluster.Result, opts Options) (*Distances, error) {
	nSlices := res.NumSlices()
	if nSlices == 0 {
		return nil, ErrNoSlices
	}
	if res.K == 0 {
		return nil, ErrNoClusters
	}

	cdist := CentroidDistances(res)

	eps := opts.Epsilon
	if eps <= 0 {
		eps = 0.05 * mat.Max(cdist)
		if eps <= 0 {
			eps = 1e-3
		}
	}
	maxIter := opts.MaxIter
	if maxIter <= 0 {
		maxIter = 1000
	}

	hists := make([][]float64, nSlices)
	for s := 0; s < nSlices; s++ {
		h, err := Histogram(res, s)
		if err != nil {
			return nil, err
		}
		hists[s] = h
	}

	d := &Distances{
		Dist:  mat.NewDense(nSlices, nSlices, nil),
		Gamma: make([][]*mat.Dense, nSlices),
		CDist: cdist,
	}
	for s := range d.Gamma {
		d.Gamma[s] = make([]*mat.Dense, nSlices)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for s := 0; s < nSlices; s++ {
		for t := 0; t < nSlices; t++ {
			if s == t {
				continue
			}
			s, t := s, t
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}

				gamma, cost, err := Sinkhorn(hists[s], hists[t], cdist, eps, maxIter)
				if err != nil {
					return err
				}
				d.Gamma[s][t] = gamma
				d.Dist.Set(s, t, cost)

				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return d, nil
}
