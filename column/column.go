// Package column implements ChunkColumn: a fixed-length vertical stack of
// optional sections spanning the world's full height.
package column

import (
	"encoding/binary"

	"github.com/go-mclib/voxelworld/coord"
	"github.com/go-mclib/voxelworld/section"
)

// Column is a 16x16xHeight vertical stack of sections at fixed chunk
// coordinates. Missing sections are nil slots.
type Column struct {
	X, Z     int32
	Sections [coord.SectionCount]*section.Section
}

// New creates an empty column (all sections absent) at the given chunk
// coordinates.
func New(x, z int32) *Column {
	return &Column{X: x, Z: z}
}

// GetBlockStateID returns the global block state ID at absolute block
// coordinates. Missing sections and out-of-range Y both read as 0 (air).
func (c *Column) GetBlockStateID(x, y, z int) uint32 {
	if !coord.InRange(y) {
		return 0
	}
	idx, ok := coord.SectionIndex(coord.SectionY(y))
	if !ok {
		return 0
	}
	s := c.Sections[idx]
	if s == nil {
		return 0
	}
	rx, ry, rz := coord.RelBlock(x, y, z)
	id, err := s.GetBlockStateID(rx, ry, rz)
	if err != nil {
		return 0
	}
	return id
}

// SetBlockStateID sets the global block state ID at absolute block
// coordinates. A missing section is lazily materialized (as all-air) only
// when the write is non-zero; writing 0 (air) into a missing section is a
// no-op. Y outside the world's vertical range is silently dropped.
func (c *Column) SetBlockStateID(x, y, z int, id uint32, globalBlockBits int) error {
	if !coord.InRange(y) {
		return nil
	}
	idx, ok := coord.SectionIndex(coord.SectionY(y))
	if !ok {
		return nil
	}

	if c.Sections[idx] == nil {
		if id == 0 {
			return nil
		}
		c.Sections[idx] = section.NewEmpty()
	}

	rx, ry, rz := coord.RelBlock(x, y, z)
	return c.Sections[idx].SetBlockStateID(rx, ry, rz, id, globalBlockBits)
}

// GetBiomeID returns the global biome ID at absolute block coordinates.
// Missing sections and out-of-range Y both read as 0.
func (c *Column) GetBiomeID(x, y, z int) uint32 {
	if !coord.InRange(y) {
		return 0
	}
	idx, ok := coord.SectionIndex(coord.SectionY(y))
	if !ok {
		return 0
	}
	s := c.Sections[idx]
	if s == nil {
		return 0
	}
	bx, by, bz := coord.BiomeCoords(x, y, z)
	id, err := s.GetBiomeID(bx, by, bz)
	if err != nil {
		return 0
	}
	return id
}

// SetBiomeID sets the global biome ID at absolute block coordinates,
// materializing a missing section only for a non-default write.
func (c *Column) SetBiomeID(x, y, z int, id uint32, globalBiomeBits int) error {
	if !coord.InRange(y) {
		return nil
	}
	idx, ok := coord.SectionIndex(coord.SectionY(y))
	if !ok {
		return nil
	}

	if c.Sections[idx] == nil {
		if id == 0 {
			return nil
		}
		c.Sections[idx] = section.NewEmpty()
	}

	bx, by, bz := coord.BiomeCoords(x, y, z)
	return c.Sections[idx].SetBiomeID(bx, by, bz, id, globalBiomeBits)
}

// GetBlockLight returns the block light level at absolute block
// coordinates. Light data isn't stored by this module; a loaded section
// always reports full light (15), the same placeholder the wire format's
// light layer itself encodes when absent.
func (c *Column) GetBlockLight(x, y, z int) uint8 {
	return 15
}

// GetSkyLight returns the sky light level at absolute block coordinates.
// Always 15 (full light); see GetBlockLight.
func (c *Column) GetSkyLight(x, y, z int) uint8 {
	return 15
}

// ExportSectionStates serializes the block state IDs of the section at the
// given section-Y index as 4096 little-endian u32 values, ordered
// y-major/z/x. It returns ok=false if sectionY is out of range or the
// section is absent.
func (c *Column) ExportSectionStates(sectionY int) (buf []byte, ok bool) {
	idx, inRange := coord.SectionIndex(sectionY)
	if !inRange {
		return nil, false
	}
	s := c.Sections[idx]
	if s == nil {
		return nil, false
	}

	out := make([]byte, coord.SectionVolume*4)
	i := 0
	for ry := 0; ry < coord.SectionHeight; ry++ {
		for rz := 0; rz < coord.SectionWidth; rz++ {
			for rx := 0; rx < coord.SectionWidth; rx++ {
				id, err := s.GetBlockStateID(rx, ry, rz)
				if err != nil {
					id = 0
				}
				binary.LittleEndian.PutUint32(out[i*4:i*4+4], id)
				i++
			}
		}
	}
	return out, true
}
