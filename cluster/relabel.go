package cluster

import (
	"math"

	"github.com/hupe1980/manigo/distance"
)

// RelabelByProximity renames cluster labels along a canonical geometric
// order: starting from the centroid nearest the coordinate-wise minimum
// corner, it repeatedly moves to the nearest unvisited centroid. The order
// depends only on centroid geometry, never on the clustering algorithm's
// internal label assignment, so relabeling is idempotent and stable across
// repeated seeded runs.
//
// Labels and centroids are rewritten in place; noise labels (-1) pass
// through untouched.
func RelabelByProximity(r *Result) {
	if r.K == 0 {
		return
	}

	// Anchor: centroid closest to the bounding-box minimum corner.
	corner := make([]float64, r.Dim)
	for d := 0; d < r.Dim; d++ {
		corner[d] = math.Inf(1)
	}
	for j := 0; j < r.K; j++ {
		c := r.Centroid(j)
		for d := 0; d < r.Dim; d++ {
			if c[d] < corner[d] {
				corner[d] = c[d]
			}
		}
	}

	start, best := 0, math.Inf(1)
	for j := 0; j < r.K; j++ {
		if d := distance.SquaredL2(corner, r.Centroid(j)); d < best {
			best = d
			start = j
		}
	}

	// Greedy nearest-neighbor chain over centroids.
	order := make([]int, 0, r.K)
	visited := make([]bool, r.K)
	cur := start
	visited[cur] = true
	order = append(order, cur)
	for len(order) < r.K {
		next, nd := -1, math.Inf(1)
		for j := 0; j < r.K; j++ {
			if visited[j] {
				continue
			}
			if d := distance.SquaredL2(r.Centroid(cur), r.Centroid(j)); d < nd {
				nd = d
				next = j
			}
		}
		visited[next] = true
		order = append(order, next)
		cur = next
	}

	// order[new] = old; invert and apply.
	perm := make([]int, r.K)
	for newLabel, oldLabel := range order {
		perm[oldLabel] = newLabel
	}

	centroids := make([]float64, len(r.Centroids))
	for oldLabel, newLabel := range perm {
		copy(centroids[newLabel*r.Dim:(newLabel+1)*r.Dim], r.Centroid(oldLabel))
	}
	r.Centroids = centroids

	for i, l := range r.Labels {
		if l >= 0 {
			r.Labels[i] = perm[l]
		}
	}
	r.members = nil
}
