package persistence

import "errors"

const (
	// MagicNumber identifies manigo artifact files (ASCII: "MGO1").
	MagicNumber = 0x4D474F31
	// Version is the current file format version (v1.0.0).
	Version = 0x00010000

	// maxSectionSize bounds a single section payload (1 GiB). Guards Load
	// against corrupt length fields allocating unbounded memory.
	maxSectionSize = 1 << 30
)

var (
	ErrInvalidMagic      = errors.New("invalid magic number")
	ErrInvalidVersion    = errors.New("unsupported version")
	ErrUnknownCodec      = errors.New("unknown metadata codec")
	ErrDuplicateSection  = errors.New("duplicate section name")
	ErrSectionNotFound   = errors.New("section not found")
	ErrSectionTooLarge   = errors.New("section exceeds size limit")
	ErrTruncated         = errors.New("truncated artifact file")
)

// FileHeader is the fixed-size header at the start of every artifact file.
// It is followed by the codec name, the compression name, the metadata
// section, and SectionCount data sections, in that order.
type FileHeader struct {
	Magic        uint32 // 0x4D474F31 ("MGO1")
	Version      uint32 // File format version
	SectionCount uint32 // Number of data sections after the metadata section
	Reserved     [20]byte
}
