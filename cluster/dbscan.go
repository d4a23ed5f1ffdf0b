package cluster

import "github.com/hupe1980/manigo/distance"

// DBSCAN is a density-based alternative to k-means: clusters grow from
// points with at least minPts neighbors within eps (Euclidean). Points in
// no dense region keep the noise label -1. The cluster count follows from
// the data.
func DBSCAN(vectors []float64, dim int, eps float64, minPts int) (*Result, error) {
	n := len(vectors) / dim
	if n == 0 {
		return nil, ErrNoVectors
	}

	const (
		undefined = 0
		noise     = -1
	)

	labels := make([]int, n)
	clusterID := 0

	vec := func(i int) []float64 {
		return vectors[i*dim : (i+1)*dim]
	}
	rangeQuery := func(i int) []int {
		var out []int
		for j := 0; j < n; j++ {
			if distance.L2(vec(i), vec(j)) <= eps {
				out = append(out, j)
			}
		}
		return out
	}

	for i := 0; i < n; i++ {
		if labels[i] != undefined {
			continue
		}

		neighbors := rangeQuery(i)
		if len(neighbors) < minPts {
			labels[i] = noise
			continue
		}

		clusterID++
		labels[i] = clusterID

		seed := make([]int, 0, len(neighbors))
		for _, j := range neighbors {
			if j != i {
				seed = append(seed, j)
			}
		}

		for len(seed) > 0 {
			q := seed[0]
			seed = seed[1:]

			if labels[q] == noise {
				labels[q] = clusterID
			}
			if labels[q] != undefined {
				continue
			}
			labels[q] = clusterID

			qn := rangeQuery(q)
			if len(qn) >= minPts {
				seed = append(seed, qn...)
			}
		}
	}

	// Shift to zero-based labels, keep -1 for noise, and compute means.
	k := clusterID
	centroids := make([]float64, k*dim)
	counts := make([]int, k)
	for i := range labels {
		if labels[i] > 0 {
			labels[i]--
			c := labels[i]
			counts[c]++
			for d := 0; d < dim; d++ {
				centroids[c*dim+d] += vectors[i*dim+d]
			}
		}
	}
	for c := 0; c < k; c++ {
		if counts[c] > 0 {
			for d := 0; d < dim; d++ {
				centroids[c*dim+d] /= float64(counts[c])
			}
		}
	}

	return &Result{K: k, Dim: dim, Labels: labels, Centroids: centroids}, nil
}
