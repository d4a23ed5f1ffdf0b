package conv

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// InnerProduct computes scaled inner products between channel vectors,
// the only point where tangent-vector features become rotation-invariant
// scalars again.
//
// For a configured channel count C and vector dimension D it owns one
// learned D x D linear map per channel, initialized to the identity so an
// untrained reducer computes plain inner products. Maps are mutated only by
// an external training loop.
type InnerProduct struct {
	C int
	D int

	maps []*mat.Dense
}

// NewInnerProduct creates a reducer for C channels of dimension D.
func NewInnerProduct(c, d int) *InnerProduct {
	ip := &InnerProduct{C: c, D: d, maps: make([]*mat.Dense, c)}
	ip.Reset()

	return ip
}

// Reset restores every channel map to the identity.
func (ip *InnerProduct) Reset() {
	for j := range ip.maps {
		m := mat.NewDense(ip.D, ip.D, nil)
		for k := 0; k < ip.D; k++ {
			m.Set(k, k, 1)
		}
		ip.maps[j] = m
	}
}

// Map returns the learned map of channel j.
func (ip *InnerProduct) Map(j int) *mat.Dense {
	return ip.maps[j]
}

// SetMap replaces the learned map of channel j, used when loading trained
// parameters.
func (ip *InnerProduct) SetMap(j int, m *mat.Dense) error {
	r, c := m.Dims()
	if r != ip.D || c != ip.D {
		return &ErrChannelMismatch{Want: ip.D, Got: r}
	}
	ip.maps[j] = m

	return nil
}

// Reduce concatenates the blocks along the channel axis and reduces them to
// a V x C matrix of rotation-invariant features. Each block is V x (D*n_b)
// with channel-major column groups; the concatenated channel count must
// equal C.
//
// For D == 1 the reduction degenerates to the per-channel magnitude. For
// D > 1, feature i of a node is sum_j x_i^T (O_j x_j), the bilinear form
// over the channel axis.
func (ip *InnerProduct) Reduce(blocks []*mat.Dense) (*mat.Dense, error) {
	if len(blocks) == 0 {
		return nil, &ErrChannelMismatch{Want: ip.C, Got: 0}
	}

	rows, _ := blocks[0].Dims()

	total := 0
	for _, b := range blocks {
		br, bc := b.Dims()
		if br != rows {
			return nil, &ErrShapeMismatch{KernelCols: br, SignalRows: rows}
		}
		if bc%ip.D != 0 {
			return nil, &ErrChannelMismatch{Want: ip.C, Got: -1}
		}
		total += bc / ip.D
	}
	if total != ip.C {
		return nil, &ErrChannelMismatch{Want: ip.C, Got: total}
	}

	// Scalar channels: magnitude.
	if ip.D == 1 {
		out := mat.NewDense(rows, ip.C, nil)
		c := 0
		for _, b := range blocks {
			_, bc := b.Dims()
			for j := 0; j < bc; j++ {
				for v := 0; v < rows; v++ {
					out.Set(v, c, math.Abs(b.At(v, j)))
				}
				c++
			}
		}

		return out, nil
	}

	// Vector channels: gather per-node channel vectors, then the bilinear
	// form against the summed mapped channels.
	out := mat.NewDense(rows, ip.C, nil)
	xi := make([][]float64, ip.C) // channel vectors of one node
	for j := range xi {
		xi[j] = make([]float64, ip.D)
	}
	sum := make([]float64, ip.D)
	mapped := make([]float64, ip.D)

	for v := 0; v < rows; v++ {
		j := 0
		for _, b := range blocks {
			_, bc := b.Dims()
			for c := 0; c < bc/ip.D; c++ {
				for k := 0; k < ip.D; k++ {
					xi[j][k] = b.At(v, c*ip.D+k)
				}
				j++
			}
		}

		for k := range sum {
			sum[k] = 0
		}
		for j := 0; j < ip.C; j++ {
			o := ip.maps[j]
			for r := 0; r < ip.D; r++ {
				var s float64
				for c := 0; c < ip.D; c++ {
					s += o.At(r, c) * xi[j][c]
				}
				mapped[r] = s
			}
			for k := range sum {
				sum[k] += mapped[k]
			}
		}

		for i := 0; i < ip.C; i++ {
			var s float64
			for k := 0; k < ip.D; k++ {
				s += xi[i][k] * sum[k]
			}
			out.Set(v, i, s)
		}
	}

	return out, nil
}
