package diffusion

// Floor is the smallest diffusion time ever applied. Values below it are
// clamped on read.
const Floor = 1e-8

// Time is the learned diffusion time shared between the training loop and
// the diffusion operator.
//
// Single-writer: only the training loop mutates it, and no internal locking
// is provided. Readers always observe a strictly positive value through
// Value.
type Time struct {
	v float64
}

// NewTime creates a diffusion time parameter with the given initial value.
func NewTime(initial float64) *Time {
	return &Time{v: initial}
}

// Set stores a new raw value. Intended for the external optimization loop.
func (t *Time) Set(v float64) {
	t.v = v
}

// Raw returns the stored value without clamping.
func (t *Time) Raw() float64 {
	return t.v
}

// Value returns the clamped diffusion time, max(raw, Floor).
func (t *Time) Value() float64 {
	if t.v < Floor {
		return Floor
	}

	return t.v
}
