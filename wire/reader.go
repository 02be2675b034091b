// Package wire decodes the serialized chunk-column wire format: up to 24
// back-to-back sections, each a solid-block count followed by a block
// container and a biome container, each container self-describing its
// representation (Single / Indirect / Direct) via a leading bits-per-value
// byte. The decoder is strict: out-of-range palette lengths, over-long
// VarInts and truncated long arrays are rejected outright rather than
// tolerated.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrMalformed wraps every decode failure that isn't a clean end-of-buffer:
// an invalid palette length, an over-long VarInt, a non-zero Single data
// length, or a long-array footprint that overruns the buffer.
var ErrMalformed = errors.New("wire: malformed chunk data")

type reader struct {
	data   []byte
	offset int
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

// atEnd reports whether every byte of the buffer has been consumed.
func (r *reader) atEnd() bool {
	return r.offset >= len(r.data)
}

func (r *reader) readByte() (byte, error) {
	if r.offset >= len(r.data) {
		return 0, io.EOF
	}
	b := r.data[r.offset]
	r.offset++
	return b, nil
}

func (r *reader) readInt16() (int16, error) {
	if r.offset+2 > len(r.data) {
		return 0, io.EOF
	}
	v := int16(binary.BigEndian.Uint16(r.data[r.offset:]))
	r.offset += 2
	return v, nil
}

func (r *reader) readUint64() (uint64, error) {
	if r.offset+8 > len(r.data) {
		return 0, io.EOF
	}
	v := binary.BigEndian.Uint64(r.data[r.offset:])
	r.offset += 8
	return v, nil
}

// readVarInt reads a standard 7-bits-per-byte little-endian VarInt with a
// continuation bit, at most 5 bytes. A 6th continuation byte is malformed,
// not a recoverable EOF.
func (r *reader) readVarInt() (int32, error) {
	var result int32
	var numRead uint
	for {
		b, err := r.readByte()
		if err != nil {
			return 0, err
		}
		result |= int32(b&0x7F) << (7 * numRead)
		numRead++
		if b&0x80 == 0 {
			return result, nil
		}
		if numRead >= 5 {
			return 0, fmt.Errorf("%w: VarInt longer than 5 bytes", ErrMalformed)
		}
	}
}

// readLongArray reads a VarInt-prefixed array of big-endian u64 words,
// rejecting a declared length whose byte footprint exceeds what remains in
// the buffer before attempting to allocate or read it.
func (r *reader) readLongArray() ([]uint64, error) {
	n, err := r.readVarInt()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative long array length %d", ErrMalformed, n)
	}
	remaining := len(r.data) - r.offset
	if int(n)*8 > remaining {
		return nil, fmt.Errorf("%w: long array of %d words exceeds remaining %d bytes", ErrMalformed, n, remaining)
	}
	words := make([]uint64, n)
	for i := range words {
		w, err := r.readUint64()
		if err != nil {
			return nil, err
		}
		words[i] = w
	}
	return words, nil
}
