package graph

import "gonum.org/v1/gonum/mat"

// BlockRotations stores per-edge DxD rotation blocks aligning local tangent
// frames. It is sparse: absent blocks are zero, so a missing block removes
// the corresponding edge from a lifted kernel.
type BlockRotations struct {
	N   int
	Dim int

	blocks map[[2]int]*mat.Dense
}

// NewBlockRotations creates an empty rotation set for n nodes with frame
// dimension dim.
func NewBlockRotations(n, dim int) *BlockRotations {
	return &BlockRotations{N: n, Dim: dim, blocks: make(map[[2]int]*mat.Dense)}
}

// Set stores the rotation block for the node pair (i, j).
func (r *BlockRotations) Set(i, j int, block *mat.Dense) error {
	if i < 0 || i >= r.N {
		return &ErrIndexOutOfRange{Index: i, Limit: r.N}
	}
	if j < 0 || j >= r.N {
		return &ErrIndexOutOfRange{Index: j, Limit: r.N}
	}
	br, bc := block.Dims()
	if br != r.Dim || bc != r.Dim {
		return &ErrBlockSize{Rows: br, Cols: bc, Dim: r.Dim}
	}
	r.blocks[[2]int{i, j}] = block

	return nil
}

// Block returns the rotation block for (i, j), if present.
func (r *BlockRotations) Block(i, j int) (*mat.Dense, bool) {
	b, ok := r.blocks[[2]int{i, j}]
	return b, ok
}

// Len returns the number of stored blocks.
func (r *BlockRotations) Len() int {
	return len(r.blocks)
}

// ExpandAdjacency block-expands a VxV kernel to (V*dim)x(V*dim) by repeating
// every triple over a dim x dim stencil. With dim == 1 the result equals the
// input.
func ExpandAdjacency(k *COO, dim int) *COO {
	rows, cols := k.Dims()
	out := NewCOO(rows*dim, cols*dim)
	for t := range k.Val {
		i, j, v := k.Row[t], k.Col[t], k.Val[t]
		for a := 0; a < dim; a++ {
			for b := 0; b < dim; b++ {
				out.Row = append(out.Row, i*dim+a)
				out.Col = append(out.Col, j*dim+b)
				out.Val = append(out.Val, v)
			}
		}
	}

	return out
}

// RotationLift combines a VxV kernel with per-edge rotation blocks into a
// (V*D)x(V*D) kernel: the block expansion of k multiplied elementwise by the
// rotations (a Kronecker broadcast of the kernel weight over each block).
// Kernel entries without a stored rotation block are dropped.
//
// Blocks are laid down transposed, so that aggregating the transposed
// lifted kernel (the source-to-target direction used by the convolution)
// applies R(i, j) to the source vector.
func RotationLift(k *COO, r *BlockRotations) *COO {
	dim := r.Dim
	rows, cols := k.Dims()
	out := NewCOO(rows*dim, cols*dim)
	for t := range k.Val {
		i, j, v := k.Row[t], k.Col[t], k.Val[t]
		block, ok := r.Block(i, j)
		if !ok {
			continue
		}
		for a := 0; a < dim; a++ {
			for b := 0; b < dim; b++ {
				w := v * block.At(b, a)
				if w == 0 {
					continue
				}
				out.Row = append(out.Row, i*dim+a)
				out.Col = append(out.Col, j*dim+b)
				out.Val = append(out.Val, w)
			}
		}
	}

	return out
}
