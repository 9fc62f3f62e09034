package meshing

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxedit/internal/registry"
	"voxedit/internal/voxel"
)

func TestPoolExtractAllMatchesSerial(t *testing.T) {
	ex := NewExtractor(registry.New())
	p := NewPool(ex, 4, 8)
	defer p.Shutdown()

	jobs := make(map[string]voxel.Occupancy)
	for i := range 12 {
		jobs[fmt.Sprintf("job-%d", i)] = randomOccupancy(int64(i), 6, 0.4,
			[]voxel.MaterialTag{registry.Stone, registry.Glass})
	}

	got, err := p.ExtractAll(context.Background(), jobs)
	require.NoError(t, err)
	require.Len(t, got, len(jobs))
	for key, occ := range jobs {
		want := ex.Extract(occ)
		assert.Equal(t, want.Metadata, got[key].Metadata, key)
		assert.Equal(t, want.Opaque, got[key].Opaque, key)
		assert.Equal(t, want.Translucent, got[key].Translucent, key)
	}
}

func TestPoolSubmit(t *testing.T) {
	p := NewPool(NewExtractor(registry.New()), 1, 1)
	results := make(chan Result, 1)
	require.True(t, p.Submit(Job{Key: "a", Occupancy: cuboid(registry.Stone, voxel.Pos(0, 0, 0), voxel.Pos(1, 1, 1)), Result: results}))

	r := <-results
	assert.Equal(t, "a", r.Key)
	assert.Equal(t, 6, r.Mesh.Metadata.FaceCount)

	p.Shutdown()
	assert.False(t, p.Submit(Job{Key: "b", Result: results}))
	assert.Equal(t, 0, p.QueueLength())
}

func TestPoolExtractAllCancelled(t *testing.T) {
	p := NewPool(NewExtractor(registry.New()), 2, 0)
	defer p.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.ExtractAll(ctx, map[string]voxel.Occupancy{
		"a": cuboid(registry.Stone, voxel.Pos(0, 0, 0), voxel.Pos(3, 3, 3)),
	})
	assert.ErrorIs(t, err, context.Canceled)
}
