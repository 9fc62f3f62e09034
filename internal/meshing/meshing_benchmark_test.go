package meshing

import (
	"testing"

	"voxedit/internal/registry"
	"voxedit/internal/voxel"
)

func BenchmarkExtractDenseCube(b *testing.B) {
	e := NewExtractor(registry.New())
	occ := cuboid(registry.Stone, voxel.Pos(0, 0, 0), voxel.Pos(31, 31, 31))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = e.Extract(occ)
	}
}

// Same voxel count order as a 4^3 blob but spread over a 64^3 box: the mask
// cost follows the bounding box, not the voxel count.
func BenchmarkExtractSparseCorners(b *testing.B) {
	e := NewExtractor(registry.New())
	occ := make(voxel.Occupancy)
	for _, p := range []voxel.GridPosition{
		voxel.Pos(0, 0, 0), voxel.Pos(63, 0, 0), voxel.Pos(0, 63, 0), voxel.Pos(0, 0, 63),
		voxel.Pos(63, 63, 0), voxel.Pos(63, 0, 63), voxel.Pos(0, 63, 63), voxel.Pos(63, 63, 63),
	} {
		occ.Add(registry.Stone, p)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = e.Extract(occ)
	}
}

func BenchmarkExtractRandomMixed(b *testing.B) {
	e := NewExtractor(registry.New())
	occ := randomOccupancy(9, 24, 0.35, []voxel.MaterialTag{registry.Stone, registry.Water, registry.Grass})
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = e.Extract(occ)
	}
}
