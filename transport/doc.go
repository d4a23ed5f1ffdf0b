// Package transport measures how cluster mass moves between data slices.
//
// For every ordered pair of slices it builds the normalized cluster-label
// histograms, then solves an entropy-regularized optimal transport problem
// between them over the centroid-to-centroid cost matrix. The returned
// coupling gamma is a true transport plan: its row sums reproduce the
// source histogram, its column sums the target histogram, and its total
// mass is 1. The aggregated cost matrix dist is therefore symmetric up to
// solver tolerance, but each ordered pair is solved independently and no
// exact symmetry is guaranteed.
package transport
