package cluster

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

var (
	// ErrNoVectors is returned when clustering is invoked without data.
	ErrNoVectors = errors.New("no vectors to cluster")

	// ErrTooFewVectors is returned when there are fewer vectors than
	// requested clusters.
	ErrTooFewVectors = errors.New("fewer vectors than clusters")

	// ErrInvalidK is returned when the requested cluster count is not
	// positive.
	ErrInvalidK = errors.New("cluster count must be positive")

	// ErrUnknownMethod is returned for an unrecognized clustering method.
	ErrUnknownMethod = errors.New("unknown cluster method")
)

// ErrBadSlices indicates slice boundary offsets that do not partition the
// node range.
type ErrBadSlices struct {
	Reason string
}

func (e *ErrBadSlices) Error() string {
	return fmt.Sprintf("invalid slice boundaries: %s", e.Reason)
}

// Result is a clustering of n vectors into K groups.
type Result struct {
	K   int
	Dim int

	// Labels[i] is the cluster of vector i; -1 marks noise (DBSCAN only).
	Labels []int

	// Centroids is K*Dim flat row-major.
	Centroids []float64

	// Slices holds boundary offsets partitioning vectors by originating
	// data slice: slice s covers [Slices[s], Slices[s+1]).
	Slices []int

	members []*roaring.Bitmap
}

// NumSlices returns the number of data slices, 0 if none were attached.
func (r *Result) NumSlices() int {
	if len(r.Slices) < 2 {
		return 0
	}

	return len(r.Slices) - 1
}

// SetSlices attaches slice boundary offsets. Offsets must start at 0, be
// non-decreasing, and end at the number of clustered vectors.
func (r *Result) SetSlices(slices []int) error {
	if len(slices) < 2 {
		return &ErrBadSlices{Reason: "need at least two offsets"}
	}
	if slices[0] != 0 {
		return &ErrBadSlices{Reason: "first offset must be 0"}
	}
	if slices[len(slices)-1] != len(r.Labels) {
		return &ErrBadSlices{Reason: fmt.Sprintf("last offset %d != %d vectors", slices[len(slices)-1], len(r.Labels))}
	}
	for i := 1; i < len(slices); i++ {
		if slices[i] < slices[i-1] {
			return &ErrBadSlices{Reason: "offsets must be non-decreasing"}
		}
	}
	r.Slices = slices

	return nil
}

// Members returns the set of vector indices assigned to label. The bitmaps
// are built lazily and rebuilt after relabeling.
func (r *Result) Members(label int) *roaring.Bitmap {
	if r.members == nil {
		r.buildMembers()
	}
	if label < 0 || label >= r.K {
		return roaring.New()
	}

	return r.members[label]
}

func (r *Result) buildMembers() {
	r.members = make([]*roaring.Bitmap, r.K)
	for i := range r.members {
		r.members[i] = roaring.New()
	}
	for i, l := range r.Labels {
		if l >= 0 && l < r.K {
			r.members[l].Add(uint32(i))
		}
	}
}

// Centroid returns the coordinates of centroid j.
func (r *Result) Centroid(j int) []float64 {
	return r.Centroids[j*r.Dim : (j+1)*r.Dim]
}
