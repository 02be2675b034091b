// Package coord converts between world block coordinates, chunk column
// coordinates, section indices and the flat indices used by the paletted
// containers in package palette.
package coord

// World geometry. These match the Minecraft 1.18+ wire format (24 vertical
// sections per column, Y from -64 to 319 inclusive).
const (
	SectionWidth  = 16
	SectionHeight = 16
	SectionVolume = SectionWidth * SectionHeight * SectionWidth // 4096

	BiomeDim    = 4
	BiomeVolume = BiomeDim * BiomeDim * BiomeDim // 64

	MinY   = -64
	Height = 384
	MaxY   = MinY + Height // exclusive upper bound

	MinSectionY  = MinY >> 4              // -4
	MaxSectionY  = (MinY+Height)>>4 - 1   // 19
	SectionCount = Height / SectionHeight // 24
)

// ChunkCoords identifies a chunk column by its X/Z grid position.
type ChunkCoords struct {
	X, Z int32
}

// BlockPos converts absolute block coordinates to the chunk column that
// contains them.
func BlockPos(x, z int) ChunkCoords {
	return ChunkCoords{X: int32(x >> 4), Z: int32(z >> 4)}
}

// SectionY returns the section-Y index (e.g. -4..19) containing block Y.
func SectionY(y int) int {
	return y >> 4
}

// SectionIndex converts a section-Y index to its slot in a column's fixed
// section slice. The second return value is false if y is outside the
// world's vertical range.
func SectionIndex(sectionY int) (int, bool) {
	idx := sectionY - MinSectionY
	if idx < 0 || idx >= SectionCount {
		return 0, false
	}
	return idx, true
}

// InRange reports whether a block Y coordinate falls within [MinY, MaxY).
func InRange(y int) bool {
	return y >= MinY && y < MaxY
}

// euclidMod returns a mod n for n > 0, always in [0, n), matching Euclidean
// modulo semantics for negative a (Go's % is truncated, not Euclidean).
func euclidMod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

// RelBlock converts absolute block coordinates to coordinates relative to
// the section's minimum corner, each in [0, 16).
func RelBlock(x, y, z int) (rx, ry, rz int) {
	return x & 15, euclidMod(y, SectionHeight), z & 15
}

// BlockIndex computes the flat index (Y-major, then Z, then X) of a block
// within its 16x16x16 section, from section-relative coordinates.
func BlockIndex(rx, ry, rz int) int {
	return ry*SectionWidth*SectionWidth + rz*SectionWidth + rx
}

// BiomeCoords converts absolute block coordinates to the biome grid
// (4x4x4 per section) they fall into.
func BiomeCoords(x, y, z int) (bx, by, bz int) {
	return x >> 2, y >> 2, z >> 2
}

// BiomeIndex computes the flat index (0-63) of a biome entry within its
// section from biome-grid coordinates. Coordinates are reduced modulo
// BiomeDim first, so callers may pass absolute biome-grid coordinates
// directly.
func BiomeIndex(bx, by, bz int) int {
	rx := euclidMod(bx, BiomeDim)
	ry := euclidMod(by, BiomeDim)
	rz := euclidMod(bz, BiomeDim)
	return ry*BiomeDim*BiomeDim + rz*BiomeDim + rx
}
