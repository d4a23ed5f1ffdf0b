// Package embed reduces pipeline embeddings to low-dimensional coordinates
// for visualization.
//
// Two deterministic methods are provided: classical (Torgerson)
// multidimensional scaling of the pairwise Euclidean distances, and a
// principal-component projection. Callers that need points and centroids in
// one coordinate frame stack them into a single matrix before reduction.
package embed
