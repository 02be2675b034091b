// Package palette implements the paletted container: a capacity-bounded
// store that represents its values one of three ways depending on how many
// distinct values it has seen — Single, Indirect or Direct — promoting
// automatically as new values are written. This is a closed sum of three
// variants; the variant is implemented as a tag plus the fields each
// variant needs, matched exhaustively, rather than as an interface — a
// vtable buys nothing here and blocks inlining get/set on the hot path.
package palette

import (
	"errors"
	"fmt"

	"github.com/go-mclib/voxelworld/bitarray"
)

var ErrInvalidPaletteIndex = errors.New("palette: stored index exceeds palette length")

type kind uint8

const (
	kindSingle kind = iota
	kindIndirect
	kindDirect
)

// Params carries the per-type constants a Set call needs to decide
// whether and how to promote. Block states and biomes each have their own
// Params (see BlockParams and BiomeParams for their values).
type Params struct {
	// MinBits is the minimum bits-per-value an Indirect container uses,
	// even right after promoting from Single.
	MinBits int
	// MaxIndirectBits is the bits-per-value ceiling before an Indirect
	// container promotes to Direct.
	MaxIndirectBits int
	// GlobalBits is the bits-per-value a Direct container uses.
	GlobalBits int
	// Capacity is the number of logical slots (4096 for blocks, 64 for
	// biomes).
	Capacity int
}

// BlockParams returns the Params for a block-state container at the given
// global bits-per-block (version dependent; 15 for modern versions).
func BlockParams(globalBits int) Params {
	return Params{MinBits: 4, MaxIndirectBits: 8, GlobalBits: globalBits, Capacity: 4096}
}

// BiomeParams returns the Params for a biome container at the given global
// bits-per-biome (version dependent; 6 for modern versions).
func BiomeParams(globalBits int) Params {
	return Params{MinBits: 1, MaxIndirectBits: 3, GlobalBits: globalBits, Capacity: 64}
}

// Container is a tri-state paletted container.
type Container struct {
	kind   kind
	single uint32
	table  []uint32 // Indirect only: ordered, first-added-first, no duplicates
	data   *bitarray.BitArray
}

// NewSingle creates a container where every slot reads as v.
func NewSingle(v uint32) *Container {
	return &Container{kind: kindSingle, single: v}
}

// NewIndirect creates an Indirect container from an existing palette table
// and backing BitArray of per-slot palette indices, as produced by the wire
// parser.
func NewIndirect(table []uint32, data *bitarray.BitArray) *Container {
	return &Container{kind: kindIndirect, table: table, data: data}
}

// NewDirect creates a Direct container from an existing BitArray of global
// IDs, as produced by the wire parser.
func NewDirect(data *bitarray.BitArray) *Container {
	return &Container{kind: kindDirect, data: data}
}

// NeededBits returns the minimum number of bits needed to represent palette
// indices 0..n (inclusive), i.e. a palette of length n+1. Always at least 1.
func NeededBits(n int) int {
	if n == 0 {
		return 1
	}
	bits := 0
	for v := n; v != 0; v >>= 1 {
		bits++
	}
	return bits
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Get returns the global ID stored at slot i.
func (c *Container) Get(i int) (uint32, error) {
	switch c.kind {
	case kindSingle:
		return c.single, nil
	case kindIndirect:
		idx, err := c.data.Get(i)
		if err != nil {
			return 0, err
		}
		if int(idx) >= len(c.table) {
			// Defensive: should not occur post-parse.
			return 0, nil
		}
		return c.table[idx], nil
	case kindDirect:
		return c.data.Get(i)
	default:
		panic("palette: unreachable container kind")
	}
}

// Set stores newID at slot i, promoting the container's representation if
// necessary. It reports whether the representation changed (Single ->
// Indirect or Indirect -> Direct).
func (c *Container) Set(i int, newID uint32, p Params) (changed bool, err error) {
	switch c.kind {
	case kindSingle:
		return c.setFromSingle(i, newID, p)
	case kindIndirect:
		return c.setFromIndirect(i, newID, p)
	case kindDirect:
		return false, c.data.Set(i, newID)
	default:
		panic("palette: unreachable container kind")
	}
}

func (c *Container) setFromSingle(i int, newID uint32, p Params) (bool, error) {
	if newID == c.single {
		return false, nil
	}
	bits := maxInt(p.MinBits, NeededBits(1))
	data := bitarray.New(bits, p.Capacity)
	// Every slot implicitly holds palette index 0 (the old single value);
	// a freshly zeroed BitArray already encodes that, so only the target
	// slot needs an explicit write.
	if err := data.Set(i, 1); err != nil {
		return false, err
	}
	c.kind = kindIndirect
	c.table = []uint32{c.single, newID}
	c.data = data
	c.single = 0
	return true, nil
}

func (c *Container) setFromIndirect(i int, newID uint32, p Params) (bool, error) {
	for j, id := range c.table {
		if id == newID {
			return false, c.data.Set(i, uint32(j))
		}
	}

	newIdx := len(c.table)
	required := NeededBits(newIdx)

	if required <= c.data.BitsPerValue() {
		c.table = append(c.table, newID)
		return false, c.data.Set(i, uint32(newIdx))
	}

	if required <= p.MaxIndirectBits {
		newData := bitarray.New(required, c.data.Capacity())
		for slot := 0; slot < c.data.Capacity(); slot++ {
			v, err := c.data.Get(slot)
			if err != nil {
				return false, err
			}
			if err := newData.Set(slot, v); err != nil {
				return false, err
			}
		}
		c.table = append(c.table, newID)
		if err := newData.Set(i, uint32(newIdx)); err != nil {
			return false, err
		}
		c.data = newData
		return false, nil
	}

	// Overflow: promote to Direct. Build the replacement fully before
	// swapping it in, so a failure mid-promotion leaves the prior
	// Indirect state untouched.
	direct := bitarray.New(p.GlobalBits, c.data.Capacity())
	for slot := 0; slot < c.data.Capacity(); slot++ {
		idx, err := c.data.Get(slot)
		if err != nil {
			return false, err
		}
		if int(idx) >= len(c.table) {
			return false, fmt.Errorf("%w: %d >= %d", ErrInvalidPaletteIndex, idx, len(c.table))
		}
		if err := direct.Set(slot, c.table[idx]); err != nil {
			return false, err
		}
	}
	if err := direct.Set(i, newID); err != nil {
		return false, err
	}

	c.kind = kindDirect
	c.data = direct
	c.table = nil
	return true, nil
}

// IsSingle reports whether the container is currently in Single
// representation.
func (c *Container) IsSingle() bool { return c.kind == kindSingle }

// IsIndirect reports whether the container is currently in Indirect
// representation.
func (c *Container) IsIndirect() bool { return c.kind == kindIndirect }

// IsDirect reports whether the container is currently in Direct
// representation.
func (c *Container) IsDirect() bool { return c.kind == kindDirect }

// PaletteLen returns the number of distinct entries in the Indirect table,
// or 0 for Single/Direct containers.
func (c *Container) PaletteLen() int {
	if c.kind != kindIndirect {
		return 0
	}
	return len(c.table)
}

// BitsPerValue returns the backing BitArray's width, or 0 for Single
// containers (which allocate no BitArray).
func (c *Container) BitsPerValue() int {
	if c.kind == kindSingle {
		return 0
	}
	return c.data.BitsPerValue()
}
