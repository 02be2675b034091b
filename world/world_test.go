package world

import (
	"context"
	"errors"
	"testing"

	"github.com/go-mclib/voxelworld/coord"
)

// buildAirColumnBytes constructs a minimal wire buffer for one all-air
// section, sized so ParseColumn stops cleanly after it (mirrors
// wire_test.go's fixtures).
func buildAirColumnBytes() []byte {
	return []byte{
		0x00, 0x00, // solid_block_count
		0x00, 0x00, 0x00, // block container: Single(0)
		0x00, 0x00, 0x00, // biome container: Single(0)
	}
}

func TestLoadAndGetBlock(t *testing.T) {
	w := New(DefaultConfig())
	if err := w.LoadColumn(0, 0, buildAirColumnBytes()); err != nil {
		t.Fatal(err)
	}
	if !w.IsChunkLoaded(0, 0) {
		t.Fatal("expected chunk (0,0) to be loaded")
	}
	if got := w.GetBlockStateID(5, -64, 5); got != 0 {
		t.Errorf("GetBlockStateID = %d, want 0", got)
	}
}

func TestGetBlockStateIDDefaultsOnUnloadedChunk(t *testing.T) {
	w := New(DefaultConfig())
	if got := w.GetBlockStateID(0, 0, 0); got != 0 {
		t.Errorf("GetBlockStateID on unloaded chunk = %d, want 0", got)
	}
}

func TestGetBlockDefaultsDistinguishAbsenceFromLockContention(t *testing.T) {
	w := New(DefaultConfig())

	if _, ok := w.GetBlock(0, 0, 0); ok {
		t.Fatal("GetBlock on an unloaded chunk should report ok=false")
	}

	if err := w.LoadColumn(0, 0, buildAirColumnBytes()); err != nil {
		t.Fatal(err)
	}

	key := coord.ChunkCoords{X: 0, Z: 0}
	e := w.shardFor(key).columns[key]
	e.mu.Lock() // hold the write lock to force contention
	defer e.mu.Unlock()

	info, ok := w.GetBlock(0, 0, 0)
	if !ok {
		t.Fatal("GetBlock on a contended but loaded chunk should still report ok=true")
	}
	if info.Light != 15 || info.SkyLight != 15 || info.StateID != 0 || info.BiomeID != 0 {
		t.Errorf("GetBlock under contention = %+v, want zero state/biome with full light", info)
	}
}

func TestGetBlockLightAndSkyLightAsymmetricDefaults(t *testing.T) {
	w := New(DefaultConfig())
	if got := w.GetBlockLight(0, 0, 0); got != 0 {
		t.Errorf("GetBlockLight on unloaded chunk = %d, want 0", got)
	}
	if got := w.GetSkyLight(0, 0, 0); got != 15 {
		t.Errorf("GetSkyLight on unloaded chunk = %d, want 15", got)
	}
}

func TestSetBlockStateIDChunkNotLoaded(t *testing.T) {
	w := New(DefaultConfig())
	err := w.SetBlockStateID(0, 0, 0, 5)
	if !errors.Is(err, ErrChunkNotLoaded) {
		t.Errorf("SetBlockStateID on unloaded chunk = %v, want ErrChunkNotLoaded", err)
	}
}

func TestSetBlockStateIDLockContended(t *testing.T) {
	w := New(DefaultConfig())
	if err := w.LoadColumn(0, 0, buildAirColumnBytes()); err != nil {
		t.Fatal(err)
	}

	key := coord.ChunkCoords{X: 0, Z: 0}
	e := w.shardFor(key).columns[key]
	e.mu.Lock()
	defer e.mu.Unlock()

	err := w.SetBlockStateID(0, 0, 0, 5)
	if !errors.Is(err, ErrLockContended) {
		t.Errorf("SetBlockStateID under contention = %v, want ErrLockContended", err)
	}
}

func TestSetBlockStateIDRoundTrip(t *testing.T) {
	w := New(DefaultConfig())
	if err := w.LoadColumn(0, 0, buildAirColumnBytes()); err != nil {
		t.Fatal(err)
	}
	if err := w.SetBlockStateID(5, -64, 5, 42); err != nil {
		t.Fatal(err)
	}
	if got := w.GetBlockStateID(5, -64, 5); got != 42 {
		t.Errorf("GetBlockStateID after set = %d, want 42", got)
	}
}

func TestUnloadColumn(t *testing.T) {
	w := New(DefaultConfig())
	if err := w.LoadColumn(3, -2, buildAirColumnBytes()); err != nil {
		t.Fatal(err)
	}
	w.UnloadColumn(3, -2)
	if w.IsChunkLoaded(3, -2) {
		t.Error("chunk should no longer be loaded after UnloadColumn")
	}
}

func TestLoadColumnsBatch(t *testing.T) {
	w := New(DefaultConfig())
	batch := map[coord.ChunkCoords][]byte{
		{X: 0, Z: 0}: buildAirColumnBytes(),
		{X: 1, Z: 0}: buildAirColumnBytes(),
		{X: 0, Z: 1}: buildAirColumnBytes(),
	}
	if err := w.LoadColumns(context.Background(), batch); err != nil {
		t.Fatal(err)
	}
	if w.GetLoadedChunkCount() != 3 {
		t.Errorf("GetLoadedChunkCount = %d, want 3", w.GetLoadedChunkCount())
	}
}

func TestLoadColumnsBatchPropagatesMalformedError(t *testing.T) {
	w := New(DefaultConfig())
	badBuf := []byte{0x00, 0x00, 0x00, 0x00, 0x01} // Single with non-zero data_len
	batch := map[coord.ChunkCoords][]byte{
		{X: 0, Z: 0}: badBuf,
	}
	if err := w.LoadColumns(context.Background(), batch); err == nil {
		t.Fatal("expected LoadColumns to surface a malformed-section error")
	}
}

func TestClear(t *testing.T) {
	w := New(DefaultConfig())
	if err := w.LoadColumn(0, 0, buildAirColumnBytes()); err != nil {
		t.Fatal(err)
	}
	w.Clear()
	if w.GetLoadedChunkCount() != 0 {
		t.Errorf("GetLoadedChunkCount after Clear = %d, want 0", w.GetLoadedChunkCount())
	}
}

func TestExportSectionStatesMissingChunk(t *testing.T) {
	w := New(DefaultConfig())
	if _, ok := w.ExportSectionStates(0, 0, 0); ok {
		t.Error("ExportSectionStates on an unloaded chunk should fail")
	}
}
