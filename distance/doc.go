// Package distance provides the distance metrics used by clustering,
// transport cost matrices and cluster relabeling.
//
// Vectors are float64 slices; callers are responsible for matching lengths.
package distance
