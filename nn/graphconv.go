package nn

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/manigo/graph"
)

// GraphConv is a message-passing layer: prop @ (x W^T), where prop is the
// self-loop normalized adjacency D^-1/2 (A+I) D^-1/2.
type GraphConv struct {
	Lin *Linear
}

// NewGraphConv creates a layer mapping in channels to out channels.
func NewGraphConv(in, out int, bias bool, rng *rand.Rand) *GraphConv {
	return &GraphConv{Lin: NewLinear(in, out, bias, rng)}
}

// Forward propagates the transformed signal through prop.
func (gc *GraphConv) Forward(x *mat.Dense, prop *graph.COO) (*mat.Dense, error) {
	return prop.MulDense(gc.Lin.Forward(x))
}

// CumChannels derives the channel count after stacking `order` rounds of
// directional features on a signalDim-channel signal over an embDim
// manifold: signalDim * (1 + e + ... + e^order). With inner-product
// reduction the per-channel directions collapse, dividing it by signalDim;
// a scalar signal then contributes one channel per round.
func CumChannels(signalDim, embDim, order int, innerProduct bool) int {
	var cum int
	if embDim == 1 {
		cum = signalDim * (order + 1)
	} else {
		p := 1
		sum := 0
		for i := 0; i <= order; i++ {
			sum += p
			p *= embDim
		}
		cum = signalDim * sum
	}

	if innerProduct {
		cum /= signalDim
		if signalDim == 1 {
			cum = order + 1
		}
	}

	return cum
}
