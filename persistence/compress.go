package persistence

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// ErrUnknownCompression is returned when an artifact header names a
// compression scheme this build does not provide.
var ErrUnknownCompression = errors.New("unknown compression")

// Compressor compresses section payloads.
// Implementations must be safe for concurrent use.
type Compressor interface {
	// Compress returns a payload that Decompress can restore.
	Compress(src []byte) ([]byte, error)
	// Decompress restores the original bytes. rawLen is the exact
	// uncompressed size recorded in the section header.
	Decompress(src []byte, rawLen int) ([]byte, error)
	Name() string
}

// CompressorByName returns a built-in compressor by its stable name.
// Artifact files record the compression name in their header.
func CompressorByName(name string) (Compressor, bool) {
	switch name {
	case "none":
		return None{}, true
	case "zstd":
		return Zstd{}, true
	case "lz4":
		return LZ4{}, true
	default:
		return nil, false
	}
}

// None stores payloads uncompressed.
type None struct{}

func (None) Compress(src []byte) ([]byte, error) { return src, nil }

func (None) Decompress(src []byte, rawLen int) ([]byte, error) {
	if len(src) != rawLen {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrTruncated, rawLen, len(src))
	}
	return src, nil
}

func (None) Name() string { return "none" }

// Shared zstd coders. EncodeAll/DecodeAll on a nil-stream coder are safe
// for concurrent use.
var (
	zstdEncoder, _ = zstd.NewWriter(nil)
	zstdDecoder, _ = zstd.NewReader(nil)
)

// Zstd compresses payloads with Zstandard. Good ratio on float matrices
// with repeated structure, at moderate CPU cost.
type Zstd struct{}

func (Zstd) Compress(src []byte) ([]byte, error) {
	return zstdEncoder.EncodeAll(src, make([]byte, 0, len(src)/2)), nil
}

func (Zstd) Decompress(src []byte, rawLen int) ([]byte, error) {
	out, err := zstdDecoder.DecodeAll(src, make([]byte, 0, rawLen))
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	if len(out) != rawLen {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrTruncated, rawLen, len(out))
	}
	return out, nil
}

func (Zstd) Name() string { return "zstd" }

// LZ4 compresses payloads with LZ4 block compression. Faster than zstd
// with a lower ratio.
//
// Incompressible payloads are stored raw; they are recognized on load by
// the stored length equaling the raw length, which compressed blocks never
// reach (blocks are kept only when strictly smaller than the input).
type LZ4 struct{}

func (LZ4) Compress(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return src, nil
	}
	var c lz4.Compressor
	dst := make([]byte, lz4.CompressBlockBound(len(src)))
	n, err := c.CompressBlock(src, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	if n == 0 || n >= len(src) {
		out := make([]byte, len(src))
		copy(out, src)
		return out, nil
	}
	return dst[:n], nil
}

func (LZ4) Decompress(src []byte, rawLen int) ([]byte, error) {
	if len(src) == rawLen {
		return src, nil
	}
	out := make([]byte, rawLen)
	n, err := lz4.UncompressBlock(src, out)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	if n != rawLen {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrTruncated, rawLen, n)
	}
	return out, nil
}

func (LZ4) Name() string { return "lz4" }
