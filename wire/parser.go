package wire

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-mclib/voxelworld/bitarray"
	"github.com/go-mclib/voxelworld/column"
	"github.com/go-mclib/voxelworld/coord"
	"github.com/go-mclib/voxelworld/palette"
	"github.com/go-mclib/voxelworld/section"
)

// ParsePaletteContainer decodes one self-describing paletted container:
// a leading bits-per-value byte chooses Single (bpv == 0), Indirect
// (0 < bpv <= params.MaxIndirectBits) or Direct (bpv > params.MaxIndirectBits).
func ParsePaletteContainer(r *reader, p palette.Params) (*palette.Container, error) {
	bppByte, err := r.readByte()
	if err != nil {
		return nil, err
	}
	bpv := int(bppByte)

	switch {
	case bpv == 0:
		value, err := r.readVarInt()
		if err != nil {
			return nil, err
		}
		dataLen, err := r.readVarInt()
		if err != nil {
			return nil, err
		}
		if dataLen != 0 {
			return nil, fmt.Errorf("%w: Single container carries non-empty data array (len %d)", ErrMalformed, dataLen)
		}
		return palette.NewSingle(uint32(value)), nil

	case bpv <= p.MaxIndirectBits:
		paletteLen, err := r.readVarInt()
		if err != nil {
			return nil, err
		}
		if paletteLen <= 0 || int(paletteLen) > p.Capacity {
			return nil, fmt.Errorf("%w: Indirect palette length %d outside (0, %d]", ErrMalformed, paletteLen, p.Capacity)
		}
		table := make([]uint32, paletteLen)
		for i := range table {
			v, err := r.readVarInt()
			if err != nil {
				return nil, err
			}
			table[i] = uint32(v)
		}
		words, err := r.readLongArray()
		if err != nil {
			return nil, err
		}
		ba, err := bitarray.FromData(bpv, p.Capacity, words)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return palette.NewIndirect(table, ba), nil

	default:
		words, err := r.readLongArray()
		if err != nil {
			return nil, err
		}
		ba, err := bitarray.FromData(p.GlobalBits, p.Capacity, words)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return palette.NewDirect(ba), nil
	}
}

// ParseSection decodes one chunk section: a solid-block count, a block
// container (4096 slots, 8-bit indirect ceiling) and a biome container
// (64 slots, 3-bit indirect ceiling).
func ParseSection(r *reader, globalBlockBits, globalBiomeBits int) (*section.Section, error) {
	solidCount, err := r.readInt16()
	if err != nil {
		return nil, err
	}
	blocks, err := ParsePaletteContainer(r, palette.BlockParams(globalBlockBits))
	if err != nil {
		return nil, err
	}
	biomes, err := ParsePaletteContainer(r, palette.BiomeParams(globalBiomeBits))
	if err != nil {
		return nil, err
	}
	return section.New(blocks, biomes, solidCount), nil
}

// ParseColumn decodes a full chunk column: coord.SectionCount sections in
// bottom-to-top order. A section that fails to decode because the buffer
// ran out (io.EOF or io.ErrUnexpectedEOF) ends the column early but is not
// an error — the caller gets back whatever sections parsed cleanly. Any
// other decode failure aborts the whole load and is returned wrapped.
func ParseColumn(data []byte, x, z int32, globalBlockBits, globalBiomeBits int) (*column.Column, error) {
	r := newReader(data)
	col := column.New(x, z)

	for sectionY := coord.MinSectionY; sectionY < coord.MinSectionY+coord.SectionCount; sectionY++ {
		if r.atEnd() {
			break
		}
		s, err := ParseSection(r, globalBlockBits, globalBiomeBits)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return nil, fmt.Errorf("parsing section at y=%d: %w", sectionY, err)
		}
		idx, ok := coord.SectionIndex(sectionY)
		if !ok {
			return nil, fmt.Errorf("%w: section y=%d out of range", ErrMalformed, sectionY)
		}
		col.Sections[idx] = s
	}

	return col, nil
}
