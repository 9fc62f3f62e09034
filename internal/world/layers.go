package world

import (
	"context"
	"runtime"

	"voxedit/internal/logging"
	"voxedit/internal/meshing"
	"voxedit/internal/profiling"
	"voxedit/internal/voxel"
)

// Layers returns the layers bottom to top. The slice is a copy; the layers
// are not.
func (w *World) Layers() []*Layer {
	out := make([]*Layer, len(w.layers))
	copy(out, w.layers)
	return out
}

// Layer looks a layer up by id.
func (w *World) Layer(id string) (*Layer, bool) {
	i := w.indexOf(id)
	if i < 0 {
		return nil, false
	}
	return w.layers[i], true
}

// ActiveLayer returns the layer writes go to.
func (w *World) ActiveLayer() *Layer {
	l, _ := w.Layer(w.activeID)
	return l
}

// ActiveLayerID returns the id of the active layer.
func (w *World) ActiveLayerID() string { return w.activeID }

// SetActiveLayer selects the layer writes go to.
func (w *World) SetActiveLayer(id string) bool {
	if w.indexOf(id) < 0 {
		return false
	}
	w.activeID = id
	return true
}

func (w *World) indexOf(id string) int {
	for i, l := range w.layers {
		if l.id == id {
			return i
		}
	}
	return -1
}

// CreateLayer adds an empty layer on top and makes it active.
func (w *World) CreateLayer(name string) string {
	l := NewLayer(name)
	w.layers = append(w.layers, l)
	w.activeID = l.id
	return l.id
}

// DeleteLayer removes a layer. The last remaining layer cannot be deleted.
// If the active layer goes, the layer below it (or the new bottom) becomes
// active.
func (w *World) DeleteLayer(id string) bool {
	i := w.indexOf(id)
	if i < 0 || len(w.layers) == 1 {
		return false
	}
	l := w.layers[i]
	w.layers = append(w.layers[:i], w.layers[i+1:]...)
	l.release()
	if w.activeID == id {
		w.activeID = w.layers[max(i-1, 0)].id
	}
	if l.visible && l.Len() > 0 {
		w.invalidate()
	}
	return true
}

// MoveLayer moves a layer to index (0 = bottom).
func (w *World) MoveLayer(id string, index int) bool {
	i := w.indexOf(id)
	if i < 0 || index < 0 || index >= len(w.layers) {
		return false
	}
	if i == index {
		return true
	}
	l := w.layers[i]
	w.layers = append(w.layers[:i], w.layers[i+1:]...)
	w.layers = append(w.layers[:index], append([]*Layer{l}, w.layers[index:]...)...)
	w.invalidate()
	return true
}

// DuplicateLayer deep-copies a layer's content into a new unbaked layer
// directly above it.
func (w *World) DuplicateLayer(id string) (string, bool) {
	i := w.indexOf(id)
	if i < 0 {
		return "", false
	}
	dup := w.layers[i].clone(w.layers[i].name + " copy")
	w.layers = append(w.layers[:i+1], append([]*Layer{dup}, w.layers[i+1:]...)...)
	if dup.visible && dup.Len() > 0 {
		w.invalidate()
	}
	return dup.id, true
}

// MergeDown folds a layer into the one below it and deletes it. The merged
// layer's voxels win where both have one. Rejected for the bottom layer and
// when either layer is baked or the target is locked.
func (w *World) MergeDown(id string) bool {
	i := w.indexOf(id)
	if i <= 0 {
		return false
	}
	src, dst := w.layers[i], w.layers[i-1]
	if src.baked || dst.baked || dst.locked {
		logging.Logger().Warn("merge down rejected", "layer", src.id, "target", dst.id)
		return false
	}
	for p, tag := range src.voxels {
		dst.SetVoxel(p, tag)
	}
	w.layers = append(w.layers[:i], w.layers[i+1:]...)
	src.release()
	if w.activeID == src.id {
		w.activeID = dst.id
	}
	w.invalidate()
	return true
}

// RenameLayer sets a layer's display name.
func (w *World) RenameLayer(id, name string) bool {
	l, ok := w.Layer(id)
	if !ok {
		return false
	}
	l.name = name
	return true
}

// SetLayerVisible shows or hides a layer.
func (w *World) SetLayerVisible(id string, visible bool) bool {
	l, ok := w.Layer(id)
	if !ok {
		return false
	}
	if l.visible != visible {
		l.visible = visible
		w.invalidate()
	}
	return true
}

// SetLayerLocked locks or unlocks a layer against writes.
func (w *World) SetLayerLocked(id string, locked bool) bool {
	l, ok := w.Layer(id)
	if !ok {
		return false
	}
	l.locked = locked
	return true
}

// SetLayerOpacity sets a layer's display opacity, clamped to [0,1].
func (w *World) SetLayerOpacity(id string, opacity float32) bool {
	l, ok := w.Layer(id)
	if !ok {
		return false
	}
	l.setOpacity(opacity)
	return true
}

// ClearLayer empties a layer. Rejected for locked or baked layers.
func (w *World) ClearLayer(id string) bool {
	l, ok := w.Layer(id)
	if !ok || l.locked {
		return false
	}
	had := l.Len() > 0
	if !l.Clear() {
		return false
	}
	if had {
		w.invalidate()
	}
	return true
}

// BakeLayer bakes a layer with the world's extractor. Its voxels leave the
// live mesh and render from the baked mesh instead.
func (w *World) BakeLayer(id string) bool {
	l, ok := w.Layer(id)
	if !ok || !l.Bake(w.extractor) {
		return false
	}
	w.invalidate()
	return true
}

// BakeLayers bakes several layers, extracting their meshes concurrently.
// Missing, empty and already baked layers are skipped. It returns how many
// layers were baked; on error none are.
func (w *World) BakeLayers(ctx context.Context, ids ...string) (int, error) {
	defer profiling.Track("world.BakeLayers")()
	jobs := make(map[string]voxel.Occupancy, len(ids))
	for _, id := range ids {
		if l, ok := w.Layer(id); ok && l.bakeable() {
			jobs[id] = l.byTag
		}
	}
	if len(jobs) == 0 {
		return 0, nil
	}

	pool := meshing.NewPool(w.extractor, min(len(jobs), runtime.NumCPU()), len(jobs))
	defer pool.Shutdown()
	meshes, err := pool.ExtractAll(ctx, jobs)
	if err != nil {
		return 0, err
	}
	for id, mesh := range meshes {
		l, _ := w.Layer(id)
		l.install(mesh)
	}
	w.invalidate()
	return len(meshes), nil
}

// UnbakeLayer reverses BakeLayer.
func (w *World) UnbakeLayer(id string) bool {
	l, ok := w.Layer(id)
	if !ok || !l.Unbake() {
		return false
	}
	w.invalidate()
	return true
}
