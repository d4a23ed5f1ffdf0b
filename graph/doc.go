// Package graph provides the sparse-matrix and Laplacian machinery used by
// the manigo pipeline.
//
// Graphs are assumed undirected: each edge is listed once and contributes a
// symmetric pair of adjacency entries. Sparse matrices use a coordinate
// (row, col, value) triple representation, which keeps the rotation
// block-expansion a matter of plain index arithmetic.
//
// Operator wraps a symmetric sparse matrix (a scalar Laplacian or a
// connection Laplacian) and owns its memoized eigendecomposition. The cache
// is written once per operator instance; rebuilding the matrix requires a
// fresh Operator.
package graph
