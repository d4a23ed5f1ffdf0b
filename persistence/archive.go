// Package persistence implements the on-disk artifact format.
//
// An artifact file is self-describing: a fixed header records the format
// version, followed by the metadata codec name, the compression name, a
// codec-encoded metadata section, and a sequence of named binary sections.
// Every section carries a CRC32 checksum that is verified on load.
package persistence

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hupe1980/manigo/codec"
)

// Archive is an in-memory representation of an artifact file: opaque
// metadata plus ordered, named binary sections.
type Archive struct {
	// Meta is caller-defined metadata, encoded with the archive's codec
	// on save and returned raw on load.
	Meta []byte

	names    []string
	sections map[string][]byte
}

// NewArchive creates an empty archive.
func NewArchive() *Archive {
	return &Archive{sections: make(map[string][]byte)}
}

// Add appends a named section. Section order is preserved on disk.
func (a *Archive) Add(name string, data []byte) error {
	if _, ok := a.sections[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateSection, name)
	}
	a.names = append(a.names, name)
	a.sections[name] = data
	return nil
}

// Section returns the payload of a named section.
func (a *Archive) Section(name string) ([]byte, error) {
	data, ok := a.sections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSectionNotFound, name)
	}
	return data, nil
}

// Has reports whether a section with the given name exists.
func (a *Archive) Has(name string) bool {
	_, ok := a.sections[name]
	return ok
}

// Names returns the section names in file order.
func (a *Archive) Names() []string {
	out := make([]string, len(a.names))
	copy(out, a.names)
	return out
}

// SaveOptions configures artifact serialization.
type SaveOptions struct {
	// Codec encodes the metadata section. Defaults to codec.Default.
	Codec codec.Codec

	// Compressor compresses section payloads. Defaults to Zstd.
	Compressor Compressor
}

// Save writes the archive to w in artifact format. The metadata in meta is
// encoded with the configured codec; section payloads are compressed with
// the configured compressor.
func Save(ctx context.Context, w io.Writer, a *Archive, meta any, opts ...func(*SaveOptions)) error {
	o := SaveOptions{
		Codec:      codec.Default,
		Compressor: Zstd{},
	}
	for _, fn := range opts {
		fn(&o)
	}

	metaBytes, err := o.Codec.Marshal(meta)
	if err != nil {
		return fmt.Errorf("persistence: encode metadata: %w", err)
	}

	hdr := FileHeader{
		Magic:        MagicNumber,
		Version:      Version,
		SectionCount: uint32(len(a.names)),
	}
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("persistence: write header: %w", err)
	}
	if err := writeString(w, o.Codec.Name()); err != nil {
		return err
	}
	if err := writeString(w, o.Compressor.Name()); err != nil {
		return err
	}

	// Metadata section: length, payload, checksum. Never compressed so
	// tooling can inspect it without the compression stack.
	if err := writeBlock(w, metaBytes); err != nil {
		return fmt.Errorf("persistence: write metadata: %w", err)
	}

	for _, name := range a.names {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw := a.sections[name]
		compressed, err := o.Compressor.Compress(raw)
		if err != nil {
			return fmt.Errorf("persistence: compress section %q: %w", name, err)
		}
		if err := writeString(w, name); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint64(len(raw))); err != nil {
			return err
		}
		if err := writeBlock(w, compressed); err != nil {
			return fmt.Errorf("persistence: write section %q: %w", name, err)
		}
	}

	return nil
}

// Load reads an artifact from r, verifying section checksums. The returned
// archive's Meta field holds the raw metadata bytes; decode them with the
// codec named in the file (also returned).
func Load(ctx context.Context, r io.Reader) (*Archive, codec.Codec, error) {
	var hdr FileHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, nil, fmt.Errorf("persistence: read header: %w", err)
	}
	if hdr.Magic != MagicNumber {
		return nil, nil, ErrInvalidMagic
	}
	if hdr.Version != Version {
		return nil, nil, ErrInvalidVersion
	}

	codecName, err := readString(r)
	if err != nil {
		return nil, nil, err
	}
	c, ok := codec.ByName(codecName)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownCodec, codecName)
	}
	compName, err := readString(r)
	if err != nil {
		return nil, nil, err
	}
	comp, ok := CompressorByName(compName)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownCompression, compName)
	}

	a := NewArchive()
	if a.Meta, err = readBlock(r); err != nil {
		return nil, nil, fmt.Errorf("persistence: read metadata: %w", err)
	}

	for i := uint32(0); i < hdr.SectionCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		name, err := readString(r)
		if err != nil {
			return nil, nil, err
		}
		var rawLen uint64
		if err := binary.Read(r, binary.LittleEndian, &rawLen); err != nil {
			return nil, nil, fmt.Errorf("persistence: read section %q: %w", name, err)
		}
		if rawLen > maxSectionSize {
			return nil, nil, fmt.Errorf("%w: section %q claims %d bytes", ErrSectionTooLarge, name, rawLen)
		}
		compressed, err := readBlock(r)
		if err != nil {
			return nil, nil, fmt.Errorf("persistence: read section %q: %w", name, err)
		}
		raw, err := comp.Decompress(compressed, int(rawLen))
		if err != nil {
			return nil, nil, fmt.Errorf("persistence: section %q: %w", name, err)
		}
		if err := a.Add(name, raw); err != nil {
			return nil, nil, err
		}
	}

	return a, c, nil
}

// writeBlock writes a length-prefixed, checksummed payload.
func writeBlock(w io.Writer, data []byte) error {
	if err := binary.Write(w, binary.LittleEndian, uint64(len(data))); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, ComputeChecksum(data))
}

// readBlock reads a length-prefixed payload and verifies its checksum.
func readBlock(r io.Reader) ([]byte, error) {
	var n uint64
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	if n > maxSectionSize {
		return nil, fmt.Errorf("%w: block claims %d bytes", ErrSectionTooLarge, n)
	}
	cr := NewChecksumReader(r)
	data := make([]byte, n)
	if _, err := io.ReadFull(cr, data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTruncated, err)
	}
	var sum uint32
	if err := binary.Read(r, binary.LittleEndian, &sum); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTruncated, err)
	}
	if err := cr.Verify(sum); err != nil {
		return nil, err
	}
	return data, nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint16(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", fmt.Errorf("%w: %w", ErrTruncated, err)
	}
	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, r, int64(n)); err != nil {
		return "", fmt.Errorf("%w: %w", ErrTruncated, err)
	}
	return buf.String(), nil
}
