// Package section implements ChunkSection: a single 16x16x16 block volume
// paired with its 4x4x4 biome volume and a cached solid-block count.
package section

import (
	"github.com/go-mclib/voxelworld/coord"
	"github.com/go-mclib/voxelworld/palette"
)

// Section is one vertical 16-block slice of a chunk column.
type Section struct {
	blocks          *palette.Container
	biomes          *palette.Container
	solidBlockCount int16
}

// NewEmpty creates an all-air section: both containers start as Single(0)
// and the solid count starts at zero.
func NewEmpty() *Section {
	return &Section{
		blocks: palette.NewSingle(0),
		biomes: palette.NewSingle(0),
	}
}

// New wraps already-decoded containers (as produced by the wire parser),
// along with the solid block count read from the section header.
func New(blocks, biomes *palette.Container, solidBlockCount int16) *Section {
	return &Section{blocks: blocks, biomes: biomes, solidBlockCount: solidBlockCount}
}

// SolidBlockCount returns the cached count of non-air slots (id != 0).
func (s *Section) SolidBlockCount() int16 { return s.solidBlockCount }

// GetBlockStateID returns the global block state ID at section-relative
// coordinates (each in [0, 16)).
func (s *Section) GetBlockStateID(rx, ry, rz int) (uint32, error) {
	return s.blocks.Get(coord.BlockIndex(rx, ry, rz))
}

// SetBlockStateID sets the global block state ID at section-relative
// coordinates, maintaining solidBlockCount under the "id != 0 is solid"
// approximation, and promoting the block container's representation as
// needed.
func (s *Section) SetBlockStateID(rx, ry, rz int, id uint32, globalBlockBits int) error {
	idx := coord.BlockIndex(rx, ry, rz)
	old, err := s.blocks.Get(idx)
	if err != nil {
		return err
	}

	switch {
	case old != 0 && id == 0:
		s.solidBlockCount--
	case old == 0 && id != 0:
		s.solidBlockCount++
	}

	_, err = s.blocks.Set(idx, id, palette.BlockParams(globalBlockBits))
	return err
}

// GetBiomeID returns the global biome ID at biome-grid coordinates (each
// relative to the section's 4x4x4 biome grid).
func (s *Section) GetBiomeID(bx, by, bz int) (uint32, error) {
	return s.biomes.Get(coord.BiomeIndex(bx, by, bz))
}

// SetBiomeID sets the global biome ID at biome-grid coordinates. Biome
// writes never touch solidBlockCount.
func (s *Section) SetBiomeID(bx, by, bz int, id uint32, globalBiomeBits int) error {
	idx := coord.BiomeIndex(bx, by, bz)
	_, err := s.biomes.Set(idx, id, palette.BiomeParams(globalBiomeBits))
	return err
}
