package manigo

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSignal is returned when a dataset carries no signal matrix.
	ErrNoSignal = errors.New("dataset has no signal")

	// ErrNotEmbedded is returned when postprocessing is attempted before
	// a forward pass has attached an embedding.
	ErrNotEmbedded = errors.New("dataset has no embedding: run Forward first")

	// ErrNotPostprocessed is returned when slice comparison is attempted
	// before postprocessing has attached clustering and transport results.
	ErrNotPostprocessed = errors.New("dataset has no clustering: run Postprocess first")

	// ErrEqualSlices is returned when a slice is compared against itself.
	ErrEqualSlices = errors.New("cannot compare a slice with itself")

	// ErrNoStore is returned when artifact operations are attempted on a
	// pipeline built without a blob store.
	ErrNoStore = errors.New("no blob store configured")
)

// ErrDimensionMismatch indicates a signal/operator dimensionality mismatch.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// ErrInvalidConfig indicates an invalid builder configuration value.
type ErrInvalidConfig struct {
	Field  string
	Reason string
}

func (e *ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid config: %s %s", e.Field, e.Reason)
}
