package distance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDot(t *testing.T) {
	assert.Equal(t, 11.0, Dot([]float64{1, 2}, []float64{3, 4}))
}

func TestSquaredL2(t *testing.T) {
	assert.Equal(t, 8.0, SquaredL2([]float64{0, 0}, []float64{2, 2}))
	assert.Equal(t, 0.0, SquaredL2([]float64{1, 1}, []float64{1, 1}))
}

func TestL2(t *testing.T) {
	assert.InDelta(t, 5, L2([]float64{0, 0}, []float64{3, 4}), 1e-12)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 0, Cosine([]float64{1, 0}, []float64{2, 0}), 1e-12)
	assert.InDelta(t, 1, Cosine([]float64{1, 0}, []float64{0, 3}), 1e-12)
	assert.InDelta(t, 2, Cosine([]float64{1, 0}, []float64{-1, 0}), 1e-12)

	// Zero-norm input maps to the maximum distance.
	assert.Equal(t, 1.0, Cosine([]float64{0, 0}, []float64{1, 0}))
}

func TestProvider(t *testing.T) {
	for _, m := range []Metric{MetricL2, MetricSquaredL2, MetricCosine} {
		fn, err := Provider(m)
		require.NoError(t, err, m.String())
		assert.NotNil(t, fn)
	}

	_, err := Provider(Metric(999))
	assert.Error(t, err)
}

func TestMetric_String(t *testing.T) {
	assert.Equal(t, "L2", MetricL2.String())
	assert.Equal(t, "Cosine", MetricCosine.String())
	assert.Contains(t, Metric(42).String(), "Unknown")
}
