// Package nn provides the forward-only neural building blocks consumed by
// the pipeline: linear layers, a multi-layer perceptron and a normalized
// graph convolution.
//
// Training (losses, optimizers, schedules) is an external collaborator;
// these layers expose deterministic seeded initialization and parameter
// setters for loading trained weights, and dropout is recorded but inert
// at inference.
package nn
