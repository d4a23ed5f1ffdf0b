package manigo

import (
	"fmt"

	"github.com/hupe1980/manigo/cluster"
	"github.com/hupe1980/manigo/graph"
	"gonum.org/v1/gonum/mat"
)

// Dataset bundles a manifold-sampled signal with the geometric operators a
// forward pass consumes, and collects the artifacts the pipeline attaches.
//
// Inputs are immutable after construction. Artifacts are attached
// wholesale: Forward sets Emb, Postprocess sets the clustering and
// transport fields together, so readers never observe a half-updated
// artifact set.
type Dataset struct {
	// X is the V x C signal sampled at graph vertices.
	X *mat.Dense

	// L is the vertex Laplacian driving scalar diffusion.
	L *graph.Operator

	// Lc is the connection Laplacian for vector-valued diffusion.
	// Optional; when set, Forward diffuses channel vectors through it.
	Lc *graph.Operator

	// Kernels are the directional derivative stencils, one per manifold
	// dimension.
	Kernels []*graph.COO

	// Rotations hold per-edge tangent alignments. Optional; when set,
	// kernels are rotation-lifted before aggregation.
	Rotations *graph.BlockRotations

	// Prop is the self-loop normalized adjacency used by message passing.
	Prop *graph.COO

	// Slices are boundary offsets partitioning vertices into conditions,
	// len S+1 with Slices[0]=0 and Slices[S]=V.
	Slices []int

	// Artifacts.
	Emb         *mat.Dense      // V x out embedding (Forward)
	Emb2D       *mat.Dense      // V x 2 reduced embedding (Postprocess)
	Centroids2D *mat.Dense      // K x 2 centroids in the same 2D frame
	Clusters    *cluster.Result // clustering over Emb rows
	Dist        *mat.Dense      // S x S transport cost
	Gamma       [][]*mat.Dense  // per ordered pair K x K couplings
	CDist       *mat.Dense      // K x K centroid base distances
}

// DatasetOption configures optional dataset inputs.
type DatasetOption func(*Dataset)

// WithConnectionLaplacian attaches a connection Laplacian for vector
// diffusion.
func WithConnectionLaplacian(lc *graph.Operator) DatasetOption {
	return func(d *Dataset) {
		d.Lc = lc
	}
}

// WithRotations attaches per-edge tangent alignment blocks.
func WithRotations(r *graph.BlockRotations) DatasetOption {
	return func(d *Dataset) {
		d.Rotations = r
	}
}

// WithSlices sets the condition boundary offsets.
func WithSlices(slices []int) DatasetOption {
	return func(d *Dataset) {
		d.Slices = append([]int(nil), slices...)
	}
}

// NewDataset builds a dataset from a graph and its vertex signal. The
// scalar Laplacian and propagation matrix are derived from the graph;
// kernels and optional geometry come from the caller.
func NewDataset(g *graph.Graph, x *mat.Dense, kernels []*graph.COO, opts ...DatasetOption) (*Dataset, error) {
	if x == nil {
		return nil, ErrNoSignal
	}
	rows, _ := x.Dims()
	if rows != g.N {
		return nil, &ErrDimensionMismatch{Expected: g.N, Actual: rows}
	}

	ds := &Dataset{
		X:       x,
		L:       g.Laplacian(true),
		Kernels: kernels,
		Prop:    g.NormalizedAdjacency(),
		Slices:  []int{0, g.N},
	}
	for _, fn := range opts {
		fn(ds)
	}

	if err := validSlices(ds.Slices, g.N); err != nil {
		return nil, err
	}
	return ds, nil
}

// NumSlices returns the number of conditions.
func (d *Dataset) NumSlices() int {
	if len(d.Slices) < 2 {
		return 0
	}
	return len(d.Slices) - 1
}

// Nodes returns the number of graph vertices.
func (d *Dataset) Nodes() int {
	if d.X == nil {
		return 0
	}
	r, _ := d.X.Dims()
	return r
}

func validSlices(slices []int, n int) error {
	if len(slices) < 2 || slices[0] != 0 || slices[len(slices)-1] != n {
		return &cluster.ErrBadSlices{Reason: fmt.Sprintf("boundaries %v do not span [0, %d]", slices, n)}
	}
	for i := 1; i < len(slices); i++ {
		if slices[i] <= slices[i-1] {
			return &cluster.ErrBadSlices{Reason: fmt.Sprintf("boundaries %v are not strictly increasing", slices)}
		}
	}
	return nil
}
