// Package cluster partitions pipeline embeddings into groups and prepares
// them for cross-slice comparison.
//
// Vectors are flat row-major float64 slices with an explicit dimension
// stride. Cluster labels are contiguous integers; RelabelByProximity maps
// them onto a canonical geometric order so labels are stable across runs
// with the same seed regardless of the clustering algorithm's internal
// label assignment.
package cluster
