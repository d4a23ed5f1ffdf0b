// Package conv implements the directional feature extraction of the
// pipeline: an anisotropic convolution that aggregates neighbor signals
// through a set of sparse directional kernels (optionally lifted through
// per-edge rotations), and an inner-product reducer that converts the
// resulting multi-channel vector signal back into rotation-invariant
// scalars.
//
// Column layout is fixed throughout: a V x C*D signal stores, per node,
// channel-major groups of D vector components
// [dx1/du, dx1/dv, ..., dx2/du, dx2/dv, ...].
package conv
