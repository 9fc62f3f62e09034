package main

import (
	"context"
	"image/color"

	"voxedit/internal/logging"
	"voxedit/internal/registry"
	"voxedit/internal/voxel"
	"voxedit/internal/world"
)

// buildDemo fills w with a small terrain, a house on its own layer, a
// baked tree and a hidden reference layer.
func buildDemo(w *world.World) {
	w.StartBatch()
	defer w.EndBatch()

	ground := w.ActiveLayerID()
	w.RenameLayer(ground, "terrain")
	for x := -16; x < 16; x++ {
		for z := -16; z < 16; z++ {
			h := 1 + (x*x+z*z)/96
			for y := 0; y < h; y++ {
				tag := registry.Dirt
				if y == h-1 {
					tag = registry.Grass
				}
				w.SetVoxel(x, y, z, tag)
			}
		}
	}
	for x := 6; x < 10; x++ {
		for z := -4; z < 0; z++ {
			w.SetVoxel(x, 1, z, registry.Water)
		}
	}

	house := w.CreateLayer("house")
	for x := -3; x <= 3; x++ {
		for z := -3; z <= 3; z++ {
			for y := 1; y <= 4; y++ {
				edge := x == -3 || x == 3 || z == -3 || z == 3
				if !edge {
					continue
				}
				tag := registry.Brick
				if y == 2 && (x == 0 || z == 0) {
					tag = registry.Glass
				}
				w.SetVoxel(x, y, z, tag)
			}
			w.SetVoxel(x, 5, z, registry.Wood)
		}
	}
	w.SetVoxel(0, 1, -3, voxel.Air)
	w.SetVoxel(0, 2, -3, voxel.Air)

	tree := w.CreateLayer("tree")
	for y := 1; y <= 5; y++ {
		w.SetVoxel(-10, y, 8, registry.Wood)
	}
	for x := -12; x <= -8; x++ {
		for z := 6; z <= 10; z++ {
			for y := 5; y <= 7; y++ {
				if x == -10 && z == 8 && y == 5 {
					continue
				}
				w.SetVoxel(x, y, z, registry.Leaves)
			}
		}
	}
	if _, err := w.BakeLayers(context.Background(), tree); err != nil {
		logging.Logger().Warn("demo bake failed", "err", err)
	}

	ref := w.CreateLayer("reference")
	marker, ok := w.Materials().AssignOrGet(color.RGBA{R: 0xff, G: 0x00, B: 0xaa, A: 0xff}, 1)
	if ok {
		for y := 0; y < 12; y++ {
			w.SetVoxel(14, y, 14, marker)
		}
	}
	w.SetLayerVisible(ref, false)
	w.SetLayerLocked(ref, true)
	w.SetActiveLayer(house)
}
