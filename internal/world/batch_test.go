package world

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxedit/internal/meshing"
	"voxedit/internal/registry"
)

func TestBatchCoalescesWrites(t *testing.T) {
	w, _ := newTestWorld(t, 0)
	w.StartBatch()
	for x := 0; x < 50; x++ {
		require.True(t, w.SetVoxel(x, 0, 0, registry.Stone))
	}
	assert.True(t, w.InBatch())
	assert.True(t, w.Pending())
	assert.Equal(t, 0, w.Stats().Recomputes)
	assert.Nil(t, w.Mesh())

	w.EndBatch()
	assert.False(t, w.InBatch())
	assert.False(t, w.Pending())
	assert.Equal(t, 1, w.Stats().Recomputes)
	assert.Equal(t, 50, w.Stats().Writes)
	assert.Equal(t, 6, w.Mesh().Metadata.FaceCount)
}

func TestNestedBatches(t *testing.T) {
	w, _ := newTestWorld(t, 0)
	w.StartBatch()
	w.StartBatch()
	w.SetVoxel(0, 0, 0, registry.Stone)
	w.EndBatch()
	assert.Equal(t, 0, w.Stats().Recomputes, "inner batch end")
	w.EndBatch()
	assert.Equal(t, 1, w.Stats().Recomputes)

	w.EndBatch()
	assert.Equal(t, 1, w.Stats().Recomputes, "unbalanced end is ignored")
}

func TestEmptyBatchDoesNotRecompute(t *testing.T) {
	w, _ := newTestWorld(t, 0)
	w.StartBatch()
	w.SetVoxel(0, -5, 0, registry.Stone)
	w.EndBatch()
	assert.Equal(t, 0, w.Stats().Recomputes)
}

func TestThrottledRecompute(t *testing.T) {
	w, clk := newTestWorld(t, 16)

	w.SetVoxel(0, 0, 0, registry.Stone)
	assert.Equal(t, 1, w.Stats().Recomputes, "first write recomputes at once")

	w.SetVoxel(1, 0, 0, registry.Stone)
	w.SetVoxel(2, 0, 0, registry.Stone)
	assert.Equal(t, 1, w.Stats().Recomputes)
	assert.True(t, w.Pending())

	clk.advance(10 * time.Millisecond)
	assert.False(t, w.Tick(), "interval not elapsed")

	clk.advance(6 * time.Millisecond)
	assert.True(t, w.Tick())
	assert.Equal(t, 2, w.Stats().Recomputes)
	assert.Equal(t, 3, w.Mesh().Metadata.OriginalVoxelCount)
	assert.False(t, w.Tick(), "nothing pending")

	clk.advance(time.Second)
	w.SetVoxel(3, 0, 0, registry.Stone)
	assert.Equal(t, 3, w.Stats().Recomputes, "idle long enough to recompute immediately")
}

func TestTickWaitsForBatch(t *testing.T) {
	w, clk := newTestWorld(t, 16)
	w.StartBatch()
	w.SetVoxel(0, 0, 0, registry.Stone)
	clk.advance(time.Second)
	assert.False(t, w.Tick())
	w.EndBatch()
	assert.Equal(t, 1, w.Stats().Recomputes)
}

func TestRecomputeReleasesPreviousMesh(t *testing.T) {
	w, _ := newTestWorld(t, 0)
	var released int
	w.SetVoxel(0, 0, 0, registry.Stone)
	first := w.Mesh()
	first.OnRelease = func(*meshing.MeshBuffers) { released++ }

	w.Recompute()
	assert.Equal(t, 1, released)
	assert.True(t, first.Released())
	assert.NotSame(t, first, w.Mesh())

	w.Close()
	assert.Nil(t, w.Mesh())
	assert.Equal(t, 1, released, "release runs once")
}
