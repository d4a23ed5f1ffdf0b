// Package diffusion applies heat-kernel smoothing to scalar and vector
// signals on a graph, driven by a single learned diffusion time.
//
// The diffusion time lives in an explicit shared parameter object (Time).
// An external training loop may update it between forward passes; every
// read clamps it to a strictly positive floor so the heat kernel stays
// well-defined even when the learned value drifts non-positive. The clamp
// is a pure read-side transformation, the stored value is never rewritten.
//
// Two methods are available: Spectral applies the exact exponential in the
// eigenbasis of the Laplacian (the decomposition is memoized on the
// graph.Operator), Implicit integrates backward-Euler steps
// (I + (t/k)L)^-k. Both agree in the limits: identity as t approaches 0
// and projection onto the Laplacian null space as t grows.
package diffusion
