package cluster

import (
	"context"
	"math"
	"math/rand"

	"github.com/hupe1980/manigo/distance"
)

// KMeans partitions the vectors (flat row-major, n = len(vectors)/dim) into
// k clusters with Lloyd's algorithm. Initialization samples k distinct data
// points with the given seed, so results are reproducible. Clustering fewer
// vectors than clusters is an error.
func KMeans(ctx context.Context, vectors []float64, dim, k int, seed int64, maxIter int) (*Result, error) {
	n := len(vectors) / dim
	if n == 0 {
		return nil, ErrNoVectors
	}
	if k < 1 {
		return nil, ErrInvalidK
	}
	if n < k {
		return nil, ErrTooFewVectors
	}

	rng := rand.New(rand.NewSource(seed))

	centroids := make([]float64, k*dim)
	perm := rng.Perm(n)
	for i := 0; i < k; i++ {
		copy(centroids[i*dim:(i+1)*dim], vectors[perm[i]*dim:(perm[i]+1)*dim])
	}

	assignments := make([]int, n)
	counts := make([]int, k)
	sums := make([]float64, k*dim)

	for iter := 0; iter < maxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		changed := false

		// Assignment step.
		for i := 0; i < n; i++ {
			vec := vectors[i*dim : (i+1)*dim]
			best := -1
			minDist := math.MaxFloat64

			for j := 0; j < k; j++ {
				d := distance.SquaredL2(vec, centroids[j*dim:(j+1)*dim])
				if d < minDist {
					minDist = d
					best = j
				}
			}

			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}

		if !changed && iter > 0 {
			break
		}

		// Update step.
		for i := range sums {
			sums[i] = 0
		}
		for i := range counts {
			counts[i] = 0
		}
		for i := 0; i < n; i++ {
			c := assignments[i]
			counts[c]++
			vec := vectors[i*dim : (i+1)*dim]
			for d := 0; d < dim; d++ {
				sums[c*dim+d] += vec[d]
			}
		}
		for j := 0; j < k; j++ {
			if counts[j] > 0 {
				scale := 1 / float64(counts[j])
				for d := 0; d < dim; d++ {
					centroids[j*dim+d] = sums[j*dim+d] * scale
				}
			} else {
				// Re-seed an empty cluster with a random point.
				idx := rng.Intn(n)
				copy(centroids[j*dim:(j+1)*dim], vectors[idx*dim:(idx+1)*dim])
			}
		}
	}

	return &Result{K: k, Dim: dim, Labels: assignments, Centroids: centroids}, nil
}
