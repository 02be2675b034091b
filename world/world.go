// Package world implements World: the concurrent map of loaded chunk
// columns. The map is sharded by a hash of the chunk coordinates, with a
// per-column reader/writer lock underneath each entry, so unrelated
// columns never contend with each other.
package world

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/go-mclib/voxelworld/column"
	"github.com/go-mclib/voxelworld/coord"
	"github.com/go-mclib/voxelworld/wire"
)

// GlobalBlockBits and GlobalBiomeBits are the bits-per-entry used once a
// container promotes to Direct representation. These track the 1.18+
// vanilla registry sizes; a real host could make them configurable per
// dimension, but this module treats them as fixed constants.
const (
	GlobalBlockBits = 15
	GlobalBiomeBits = 6
)

var (
	// ErrChunkNotLoaded is returned by a write against a column that
	// hasn't been loaded (or has since been unloaded).
	ErrChunkNotLoaded = errors.New("world: chunk not loaded")
	// ErrLockContended is returned when a non-blocking lock acquisition
	// on a loaded column's lock fails. The caller is expected to retry.
	ErrLockContended = errors.New("world: lock contended")
)

const shardCount = 32

// BlockInfo aggregates everything a single GetBlock call needs, mirroring
// the host API surface's combined read.
type BlockInfo struct {
	StateID  uint32
	Light    uint8
	SkyLight uint8
	BiomeID  uint32
}

type entry struct {
	mu  sync.RWMutex
	col *column.Column
}

type shard struct {
	mu      sync.RWMutex
	columns map[coord.ChunkCoords]*entry
}

// Config controls optional World behavior. A nil Logger disables logging
// entirely (matching client.go's pattern of an optional *log.Logger).
type Config struct {
	Logger *log.Logger
}

// DefaultConfig returns a Config with logging disabled.
func DefaultConfig() Config {
	return Config{}
}

// World is the concurrent store of loaded chunk columns.
type World struct {
	cfg    Config
	shards [shardCount]*shard
}

// New creates an empty World.
func New(cfg Config) *World {
	w := &World{cfg: cfg}
	for i := range w.shards {
		w.shards[i] = &shard{columns: make(map[coord.ChunkCoords]*entry)}
	}
	return w
}

func (w *World) shardFor(c coord.ChunkCoords) *shard {
	var buf [8]byte
	buf[0] = byte(c.X)
	buf[1] = byte(c.X >> 8)
	buf[2] = byte(c.X >> 16)
	buf[3] = byte(c.X >> 24)
	buf[4] = byte(c.Z)
	buf[5] = byte(c.Z >> 8)
	buf[6] = byte(c.Z >> 16)
	buf[7] = byte(c.Z >> 24)
	h := xxhash.Sum64(buf[:])
	return w.shards[h%uint64(shardCount)]
}

func (w *World) logf(format string, args ...interface{}) {
	if w.cfg.Logger != nil {
		w.cfg.Logger.Printf(format, args...)
	}
}

// LoadColumn decodes data as a chunk column's wire format and installs it
// at chunk coordinates (x, z), replacing any prior column there. This is a
// plain map-entry swap, not an in-place mutation under the old column's
// lock: readers still holding the old column keep a consistent snapshot.
func (w *World) LoadColumn(x, z int32, data []byte) error {
	col, err := wire.ParseColumn(data, x, z, GlobalBlockBits, GlobalBiomeBits)
	if err != nil {
		return fmt.Errorf("loading column (%d, %d): %w", x, z, err)
	}

	gen := uuid.New()
	key := coord.ChunkCoords{X: x, Z: z}
	s := w.shardFor(key)

	s.mu.Lock()
	_, replaced := s.columns[key]
	s.columns[key] = &entry{col: col}
	s.mu.Unlock()

	if replaced {
		w.logf("world: replaced column (%d, %d) [gen=%s]", x, z, gen)
	} else {
		w.logf("world: loaded column (%d, %d) [gen=%s]", x, z, gen)
	}
	return nil
}

// loadParallelism bounds how many columns LoadColumns decodes at once.
const loadParallelism = 8

// LoadColumns loads many columns concurrently with bounded parallelism.
// The first failure is returned after the remaining in-flight loads
// finish; columns that loaded successfully stay loaded.
func (w *World) LoadColumns(ctx context.Context, batches map[coord.ChunkCoords][]byte) error {
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(loadParallelism)
	for key, data := range batches {
		key, data := key, data
		g.Go(func() error {
			return w.LoadColumn(key.X, key.Z, data)
		})
	}
	return g.Wait()
}

// UnloadColumn removes a loaded column, if present. Unloading a column
// that isn't loaded is a no-op.
func (w *World) UnloadColumn(x, z int32) {
	key := coord.ChunkCoords{X: x, Z: z}
	s := w.shardFor(key)
	s.mu.Lock()
	delete(s.columns, key)
	s.mu.Unlock()
}

// IsChunkLoaded reports whether a column is currently loaded at (x, z).
func (w *World) IsChunkLoaded(x, z int32) bool {
	key := coord.ChunkCoords{X: x, Z: z}
	s := w.shardFor(key)
	s.mu.RLock()
	_, ok := s.columns[key]
	s.mu.RUnlock()
	return ok
}

// GetLoadedChunkCount returns the number of currently loaded columns.
func (w *World) GetLoadedChunkCount() int {
	total := 0
	for _, s := range w.shards {
		s.mu.RLock()
		total += len(s.columns)
		s.mu.RUnlock()
	}
	return total
}

// ListLoadedChunks returns the coordinates of every loaded column, in no
// particular order.
func (w *World) ListLoadedChunks() []coord.ChunkCoords {
	var out []coord.ChunkCoords
	for _, s := range w.shards {
		s.mu.RLock()
		for k := range s.columns {
			out = append(out, k)
		}
		s.mu.RUnlock()
	}
	return out
}

func (w *World) lookup(x, z int32) *entry {
	key := coord.ChunkCoords{X: x, Z: z}
	s := w.shardFor(key)
	s.mu.RLock()
	e := s.columns[key]
	s.mu.RUnlock()
	return e
}

// GetBlockStateID returns the block state ID at world coordinates,
// defaulting to 0 (air) whenever the chunk isn't loaded or its lock is
// momentarily contended.
func (w *World) GetBlockStateID(x, y, z int) uint32 {
	cc := coord.BlockPos(x, z)
	e := w.lookup(cc.X, cc.Z)
	if e == nil {
		return 0
	}
	if !e.mu.TryRLock() {
		return 0
	}
	defer e.mu.RUnlock()
	return e.col.GetBlockStateID(x, y, z)
}

// GetBiomeID returns the biome ID at world coordinates, defaulting to 0
// on a missing chunk or contended lock.
func (w *World) GetBiomeID(x, y, z int) uint32 {
	cc := coord.BlockPos(x, z)
	e := w.lookup(cc.X, cc.Z)
	if e == nil {
		return 0
	}
	if !e.mu.TryRLock() {
		return 0
	}
	defer e.mu.RUnlock()
	return e.col.GetBiomeID(x, y, z)
}

// GetBlockLight returns the block light level at world coordinates,
// defaulting to 0 on a missing chunk or contended lock. Note the
// asymmetry with GetSkyLight's default: an unloaded chunk reads as dark
// at block level but fully sky-lit, the fallbacks a client renderer
// expects for terrain that hasn't arrived yet.
func (w *World) GetBlockLight(x, y, z int) uint8 {
	cc := coord.BlockPos(x, z)
	e := w.lookup(cc.X, cc.Z)
	if e == nil {
		return 0
	}
	if !e.mu.TryRLock() {
		return 0
	}
	defer e.mu.RUnlock()
	return e.col.GetBlockLight(x, y, z)
}

// GetSkyLight returns the sky light level at world coordinates,
// defaulting to 15 (full light) on a missing chunk or contended lock.
func (w *World) GetSkyLight(x, y, z int) uint8 {
	cc := coord.BlockPos(x, z)
	e := w.lookup(cc.X, cc.Z)
	if e == nil {
		return 15
	}
	if !e.mu.TryRLock() {
		return 15
	}
	defer e.mu.RUnlock()
	return e.col.GetSkyLight(x, y, z)
}

// GetBlock aggregates state ID, light, sky light and biome ID in a single
// lookup. The bool result reports whether the chunk is loaded at all; a
// contended lock on a loaded chunk still yields a BlockInfo (state 0,
// light 15, sky light 15, biome 0), not a missing-chunk result.
func (w *World) GetBlock(x, y, z int) (BlockInfo, bool) {
	cc := coord.BlockPos(x, z)
	e := w.lookup(cc.X, cc.Z)
	if e == nil {
		return BlockInfo{}, false
	}
	if !e.mu.TryRLock() {
		return BlockInfo{StateID: 0, Light: 15, SkyLight: 15, BiomeID: 0}, true
	}
	defer e.mu.RUnlock()
	return BlockInfo{
		StateID:  e.col.GetBlockStateID(x, y, z),
		Light:    e.col.GetBlockLight(x, y, z),
		SkyLight: e.col.GetSkyLight(x, y, z),
		BiomeID:  e.col.GetBiomeID(x, y, z),
	}, true
}

// SetBlockStateID writes a block state ID at world coordinates. It
// returns ErrChunkNotLoaded if no column is loaded there, or
// ErrLockContended if the column's lock could not be acquired
// non-blockingly.
func (w *World) SetBlockStateID(x, y, z int, id uint32) error {
	cc := coord.BlockPos(x, z)
	e := w.lookup(cc.X, cc.Z)
	if e == nil {
		return ErrChunkNotLoaded
	}
	if !e.mu.TryLock() {
		return ErrLockContended
	}
	defer e.mu.Unlock()
	return e.col.SetBlockStateID(x, y, z, id, GlobalBlockBits)
}

// SetBiomeID writes a biome ID at world coordinates, with the same
// locking discipline as SetBlockStateID.
func (w *World) SetBiomeID(x, y, z int, id uint32) error {
	cc := coord.BlockPos(x, z)
	e := w.lookup(cc.X, cc.Z)
	if e == nil {
		return ErrChunkNotLoaded
	}
	if !e.mu.TryLock() {
		return ErrLockContended
	}
	defer e.mu.Unlock()
	return e.col.SetBiomeID(x, y, z, id, GlobalBiomeBits)
}

// ExportSectionStates serializes one section's block states as described
// in package column. It returns ok=false if the chunk isn't loaded, the
// lock is contended, or the section itself is absent or out of range.
func (w *World) ExportSectionStates(chunkX, chunkZ int32, sectionY int) (buf []byte, ok bool) {
	e := w.lookup(chunkX, chunkZ)
	if e == nil {
		return nil, false
	}
	if !e.mu.TryRLock() {
		return nil, false
	}
	defer e.mu.RUnlock()
	return e.col.ExportSectionStates(sectionY)
}

// Clear removes every loaded column.
func (w *World) Clear() {
	for _, s := range w.shards {
		s.mu.Lock()
		s.columns = make(map[coord.ChunkCoords]*entry)
		s.mu.Unlock()
	}
}
