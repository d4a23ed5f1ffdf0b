package nn

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// BatchNorm holds running statistics and affine parameters for one feature
// column set. At inference it applies the affine-normalized transform with
// the stored statistics.
type BatchNorm struct {
	Mean, Var   []float64
	Gamma, Beta []float64
	Eps         float64
}

// NewBatchNorm creates a unit-initialized normalization over dim features.
func NewBatchNorm(dim int) *BatchNorm {
	bn := &BatchNorm{
		Mean:  make([]float64, dim),
		Var:   make([]float64, dim),
		Gamma: make([]float64, dim),
		Beta:  make([]float64, dim),
		Eps:   1e-5,
	}
	for i := 0; i < dim; i++ {
		bn.Var[i] = 1
		bn.Gamma[i] = 1
	}

	return bn
}

// Forward normalizes x in place with the running statistics.
func (bn *BatchNorm) Forward(x *mat.Dense) {
	rows, cols := x.Dims()
	for c := 0; c < cols; c++ {
		inv := 1 / math.Sqrt(bn.Var[c]+bn.Eps)
		for v := 0; v < rows; v++ {
			x.Set(v, c, (x.At(v, c)-bn.Mean[c])*inv*bn.Gamma[c]+bn.Beta[c])
		}
	}
}

// MLPConfig mirrors the configuration surface of the pipeline builder.
type MLPConfig struct {
	In        int
	Hidden    int
	Out       int
	Layers    int // total linear layers, minimum 1
	Dropout   float64
	BatchNorm bool
	Bias      bool
	Seed      int64
}

// MLP is a feed-forward head: (Linear -> [BatchNorm] -> ReLU) x (n-1) ->
// Linear. Dropout probability is recorded for completeness but inert at
// inference.
type MLP struct {
	Layers  []*Linear
	Norms   []*BatchNorm // nil entries when disabled
	Dropout float64
}

// NewMLP builds the head with deterministic seeded initialization.
func NewMLP(cfg MLPConfig) *MLP {
	if cfg.Layers < 1 {
		cfg.Layers = 1
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	m := &MLP{Dropout: cfg.Dropout}
	in := cfg.In
	for i := 0; i < cfg.Layers; i++ {
		out := cfg.Hidden
		if i == cfg.Layers-1 {
			out = cfg.Out
		}
		m.Layers = append(m.Layers, NewLinear(in, out, cfg.Bias, rng))
		if cfg.BatchNorm && i < cfg.Layers-1 {
			m.Norms = append(m.Norms, NewBatchNorm(out))
		} else {
			m.Norms = append(m.Norms, nil)
		}
		in = out
	}

	return m
}

// Forward applies the head to x (V x In), returning V x Out.
func (m *MLP) Forward(x *mat.Dense) *mat.Dense {
	out := x
	for i, l := range m.Layers {
		out = l.Forward(out)
		if i == len(m.Layers)-1 {
			break
		}
		if m.Norms[i] != nil {
			m.Norms[i].Forward(out)
		}
		relu(out)
	}

	return out
}
