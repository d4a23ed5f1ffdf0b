package persistence

import (
	"encoding/binary"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Section payload encodings. Matrices are stored as two uint64 dimensions
// followed by row-major float64 values, little-endian. Integer slices are
// stored as a uint64 count followed by int64 values.

// EncodeDense serializes a dense matrix. A nil matrix encodes as 0x0.
func EncodeDense(m *mat.Dense) []byte {
	if m == nil {
		return binary.LittleEndian.AppendUint64(binary.LittleEndian.AppendUint64(nil, 0), 0)
	}
	r, c := m.Dims()
	out := make([]byte, 0, 16+8*r*c)
	out = binary.LittleEndian.AppendUint64(out, uint64(r))
	out = binary.LittleEndian.AppendUint64(out, uint64(c))
	for i := 0; i < r; i++ {
		row := m.RawRowView(i)
		for _, v := range row {
			out = binary.LittleEndian.AppendUint64(out, math.Float64bits(v))
		}
	}
	return out
}

// DecodeDense deserializes a matrix written by EncodeDense. A 0x0 encoding
// decodes to nil.
func DecodeDense(data []byte) (*mat.Dense, error) {
	if len(data) < 16 {
		return nil, fmt.Errorf("%w: matrix header", ErrTruncated)
	}
	r := int(binary.LittleEndian.Uint64(data))
	c := int(binary.LittleEndian.Uint64(data[8:]))
	if r == 0 && c == 0 {
		return nil, nil
	}
	if r <= 0 || c <= 0 || len(data) != 16+8*r*c {
		return nil, fmt.Errorf("%w: matrix %dx%d with %d payload bytes", ErrTruncated, r, c, len(data)-16)
	}
	vals := make([]float64, r*c)
	for i := range vals {
		vals[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[16+8*i:]))
	}
	return mat.NewDense(r, c, vals), nil
}

// EncodeFloats serializes a float64 slice.
func EncodeFloats(v []float64) []byte {
	out := make([]byte, 0, 8+8*len(v))
	out = binary.LittleEndian.AppendUint64(out, uint64(len(v)))
	for _, x := range v {
		out = binary.LittleEndian.AppendUint64(out, math.Float64bits(x))
	}
	return out
}

// DecodeFloats deserializes a slice written by EncodeFloats.
func DecodeFloats(data []byte) ([]float64, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("%w: float slice header", ErrTruncated)
	}
	n := int(binary.LittleEndian.Uint64(data))
	if n < 0 || len(data) != 8+8*n {
		return nil, fmt.Errorf("%w: float slice of %d with %d payload bytes", ErrTruncated, n, len(data)-8)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[8+8*i:]))
	}
	return out, nil
}

// EncodeInts serializes an int slice as int64 values.
func EncodeInts(v []int) []byte {
	out := make([]byte, 0, 8+8*len(v))
	out = binary.LittleEndian.AppendUint64(out, uint64(len(v)))
	for _, x := range v {
		out = binary.LittleEndian.AppendUint64(out, uint64(int64(x)))
	}
	return out
}

// DecodeInts deserializes a slice written by EncodeInts.
func DecodeInts(data []byte) ([]int, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("%w: int slice header", ErrTruncated)
	}
	n := int(binary.LittleEndian.Uint64(data))
	if n < 0 || len(data) != 8+8*n {
		return nil, fmt.Errorf("%w: int slice of %d with %d payload bytes", ErrTruncated, n, len(data)-8)
	}
	out := make([]int, n)
	for i := range out {
		out[i] = int(int64(binary.LittleEndian.Uint64(data[8+8*i:])))
	}
	return out, nil
}
