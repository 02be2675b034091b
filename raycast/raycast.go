// Package raycast traces a straight line through a world and reports the
// first non-air block it crosses. It is a peripheral consumer of package
// world: the core storage model has no notion of geometry, so this
// package approximates every solid block as a full unit cube rather than
// depending on an external block-shape registry.
package raycast

import "math"

// Epsilon is the threshold below which a ray component is treated as
// exactly zero during traversal.
const Epsilon = 1.0e-7

// AABB is an axis-aligned bounding box, used here only to describe a
// single full-block hitbox during slab intersection.
type AABB struct {
	MinX, MinY, MinZ float64
	MaxX, MaxY, MaxZ float64
}

// BlockSource is the minimal read surface raycasting needs from a world.
// world.World satisfies it via GetBlockStateID.
type BlockSource interface {
	GetBlockStateID(x, y, z int) uint32
}

// Hit describes the outcome of a successful raycast.
type Hit struct {
	X, Y, Z                float64
	BlockX, BlockY, BlockZ int
	StateID                uint32
}

// Trace walks the ray from (fromX,fromY,fromZ) to (toX,toY,toZ) through
// src using Amanatides & Woo DDA traversal, stopping at the first block
// whose state ID is non-zero. Every non-air block is treated as a full
// unit cube. Traversal stops on reaching the block that contains the
// endpoint, without testing that block; it returns ok=false if no earlier
// block was hit.
func Trace(src BlockSource, fromX, fromY, fromZ, toX, toY, toZ float64) (hit Hit, ok bool) {
	dx := toX - fromX
	dy := toY - fromY
	dz := toZ - fromZ
	dist := math.Sqrt(dx*dx + dy*dy + dz*dz)
	if dist < Epsilon {
		return Hit{}, false
	}

	dirX := dx / dist
	dirY := dy / dist
	dirZ := dz / dist

	bx := int(math.Floor(fromX))
	by := int(math.Floor(fromY))
	bz := int(math.Floor(fromZ))

	endBX := int(math.Floor(toX))
	endBY := int(math.Floor(toY))
	endBZ := int(math.Floor(toZ))

	stepX, stepY, stepZ := 1, 1, 1
	if dirX < 0 {
		stepX = -1
	}
	if dirY < 0 {
		stepY = -1
	}
	if dirZ < 0 {
		stepZ = -1
	}

	tMaxX, tMaxY, tMaxZ := math.Inf(1), math.Inf(1), math.Inf(1)
	tDeltaX, tDeltaY, tDeltaZ := math.Inf(1), math.Inf(1), math.Inf(1)

	if math.Abs(dirX) > Epsilon {
		boundary := float64(bx)
		if stepX > 0 {
			boundary = float64(bx + 1)
		}
		tMaxX = (boundary - fromX) / dirX
		tDeltaX = float64(stepX) / dirX
	}
	if math.Abs(dirY) > Epsilon {
		boundary := float64(by)
		if stepY > 0 {
			boundary = float64(by + 1)
		}
		tMaxY = (boundary - fromY) / dirY
		tDeltaY = float64(stepY) / dirY
	}
	if math.Abs(dirZ) > Epsilon {
		boundary := float64(bz)
		if stepZ > 0 {
			boundary = float64(bz + 1)
		}
		tMaxZ = (boundary - fromZ) / dirZ
		tDeltaZ = float64(stepZ) / dirZ
	}

	maxSteps := int(dist*2) + 3
	for i := 0; i < maxSteps; i++ {
		if bx == endBX && by == endBY && bz == endBZ {
			break
		}

		stateID := src.GetBlockStateID(bx, by, bz)
		if stateID != 0 {
			box := AABB{
				MinX: float64(bx), MinY: float64(by), MinZ: float64(bz),
				MaxX: float64(bx + 1), MaxY: float64(by + 1), MaxZ: float64(bz + 1),
			}
			if t, ok := rayAABBIntersect(fromX, fromY, fromZ, dirX, dirY, dirZ, dist, box); ok {
				return Hit{
					X: fromX + dirX*t, Y: fromY + dirY*t, Z: fromZ + dirZ*t,
					BlockX: bx, BlockY: by, BlockZ: bz,
					StateID: stateID,
				}, true
			}
		}

		if tMaxX < tMaxY {
			if tMaxX < tMaxZ {
				bx += stepX
				tMaxX += tDeltaX
			} else {
				bz += stepZ
				tMaxZ += tDeltaZ
			}
		} else {
			if tMaxY < tMaxZ {
				by += stepY
				tMaxY += tDeltaY
			} else {
				bz += stepZ
				tMaxZ += tDeltaZ
			}
		}
	}

	return Hit{}, false
}

// rayAABBIntersect performs ray-AABB slab intersection, returning the t
// parameter of the closest intersection within [0, maxT].
func rayAABBIntersect(ox, oy, oz, dx, dy, dz, maxT float64, box AABB) (float64, bool) {
	tMin := 0.0
	tMax := maxT

	if math.Abs(dx) > Epsilon {
		invD := 1.0 / dx
		t1 := (box.MinX - ox) * invD
		t2 := (box.MaxX - ox) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	} else if ox < box.MinX || ox > box.MaxX {
		return 0, false
	}

	if math.Abs(dy) > Epsilon {
		invD := 1.0 / dy
		t1 := (box.MinY - oy) * invD
		t2 := (box.MaxY - oy) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	} else if oy < box.MinY || oy > box.MaxY {
		return 0, false
	}

	if math.Abs(dz) > Epsilon {
		invD := 1.0 / dz
		t1 := (box.MinZ - oz) * invD
		t2 := (box.MaxZ - oz) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	} else if oz < box.MinZ || oz > box.MaxZ {
		return 0, false
	}

	return tMin, true
}
