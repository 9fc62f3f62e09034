package world

import (
	"github.com/google/uuid"

	"voxedit/internal/logging"
	"voxedit/internal/meshing"
	"voxedit/internal/voxel"
)

// Extractor produces a mesh for a layer being baked.
type Extractor interface {
	Extract(voxel.Occupancy) *meshing.MeshBuffers
}

// Layer is a sparse voxel container. voxels and byTag always agree: a
// position is in byTag[t] iff voxels[position] == t. Both maps are only
// touched through Layer methods.
type Layer struct {
	id      string
	name    string
	visible bool
	opacity float32
	locked  bool

	voxels map[voxel.GridPosition]voxel.MaterialTag
	byTag  voxel.Occupancy

	baked    bool
	snapshot map[voxel.GridPosition]voxel.MaterialTag
	mesh     meshing.Slot
}

// NewLayer returns an empty, visible, unlocked layer with a fresh id.
func NewLayer(name string) *Layer {
	return newLayerWithID(uuid.NewString(), name)
}

func newLayerWithID(id, name string) *Layer {
	return &Layer{
		id:      id,
		name:    name,
		visible: true,
		opacity: 1,
		voxels:  make(map[voxel.GridPosition]voxel.MaterialTag),
		byTag:   make(voxel.Occupancy),
	}
}

func (l *Layer) ID() string       { return l.id }
func (l *Layer) Name() string     { return l.name }
func (l *Layer) Visible() bool    { return l.visible }
func (l *Layer) Opacity() float32 { return l.opacity }
func (l *Layer) Locked() bool     { return l.locked }
func (l *Layer) Baked() bool      { return l.baked }

// Len returns the number of occupied positions.
func (l *Layer) Len() int { return len(l.voxels) }

func (l *Layer) setOpacity(v float32) {
	l.opacity = min(max(v, 0), 1)
}

// SetVoxel writes tag at p; Air removes the entry. It returns false without
// touching anything when the value is unchanged or the layer is baked.
func (l *Layer) SetVoxel(p voxel.GridPosition, tag voxel.MaterialTag) bool {
	if l.baked {
		return false
	}
	old, had := l.voxels[p]
	if (had && old == tag) || (!had && tag == voxel.Air) {
		return false
	}
	if had {
		l.unindex(old, p)
	}
	if tag == voxel.Air {
		delete(l.voxels, p)
		return true
	}
	l.voxels[p] = tag
	l.byTag.Add(tag, p)
	return true
}

func (l *Layer) unindex(tag voxel.MaterialTag, p voxel.GridPosition) {
	set := l.byTag[tag]
	set.Remove(p)
	if set.Len() == 0 {
		delete(l.byTag, tag)
	}
}

// GetVoxel returns the tag at p, Air if absent.
func (l *Layer) GetVoxel(p voxel.GridPosition) voxel.MaterialTag {
	return l.voxels[p]
}

// Clear empties the layer. Rejected while baked.
func (l *Layer) Clear() bool {
	if l.baked {
		return false
	}
	l.voxels = make(map[voxel.GridPosition]voxel.MaterialTag)
	l.byTag = make(voxel.Occupancy)
	return true
}

// Occupancy returns a copy of the tag index.
func (l *Layer) Occupancy() voxel.Occupancy {
	return l.byTag.Clone()
}

// Positions returns the positions holding tag.
func (l *Layer) Positions(tag voxel.MaterialTag) []voxel.GridPosition {
	return l.byTag[tag].Sorted()
}

// Bounds returns the inclusive bounding box of the layer's voxels.
func (l *Layer) Bounds() (voxel.Box, bool) {
	var b voxel.Box
	for p := range l.voxels {
		b.Extend(p)
	}
	return b, !b.Empty()
}

// ExportData returns the layer content as tag -> canonical position
// strings. Positions are sorted so repeated exports are identical.
func (l *Layer) ExportData() map[voxel.MaterialTag][]string {
	out := make(map[voxel.MaterialTag][]string, len(l.byTag))
	for tag, set := range l.byTag {
		list := make([]string, 0, set.Len())
		for _, p := range set.Sorted() {
			list = append(list, p.String())
		}
		out[tag] = list
	}
	return out
}

// ImportStats reports what ImportData accepted and skipped.
type ImportStats struct {
	Imported         int
	SkippedTags      int
	SkippedPositions int
}

// ImportData replaces the layer content with data. Tags for which known
// returns false and malformed position strings are skipped rather than
// failing the load. Rejected while baked.
func (l *Layer) ImportData(data map[voxel.MaterialTag][]string, known func(voxel.MaterialTag) bool) (ImportStats, bool) {
	var st ImportStats
	if !l.Clear() {
		return st, false
	}
	for tag, list := range data {
		if tag == voxel.Air || (known != nil && !known(tag)) {
			st.SkippedTags++
			st.SkippedPositions += len(list)
			continue
		}
		for _, s := range list {
			p, ok := voxel.ParsePosition(s)
			if !ok {
				st.SkippedPositions++
				continue
			}
			if l.SetVoxel(p, tag) {
				st.Imported++
			}
		}
	}
	if st.SkippedTags > 0 || st.SkippedPositions > 0 {
		logging.Logger().Warn("layer import skipped entries",
			"layer", l.id,
			"skipped_tags", st.SkippedTags,
			"skipped_positions", st.SkippedPositions)
	}
	return st, true
}

// Bake snapshots the voxels and replaces their live rendering with a
// precomputed mesh. The voxels stay queryable but the layer becomes
// read-only. Rejected when already baked or empty.
func (l *Layer) Bake(ex Extractor) bool {
	if !l.bakeable() {
		return false
	}
	l.install(ex.Extract(l.byTag))
	return true
}

func (l *Layer) bakeable() bool {
	if l.baked {
		logging.Logger().Warn("bake rejected: layer already baked", "layer", l.id)
		return false
	}
	if len(l.voxels) == 0 {
		logging.Logger().Warn("bake rejected: layer is empty", "layer", l.id)
		return false
	}
	return true
}

// install takes ownership of mesh as the layer's baked rendering.
func (l *Layer) install(mesh *meshing.MeshBuffers) {
	l.snapshot = make(map[voxel.GridPosition]voxel.MaterialTag, len(l.voxels))
	for p, tag := range l.voxels {
		l.snapshot[p] = tag
	}
	l.mesh.Replace(mesh)
	l.baked = true
}

// Unbake discards the baked mesh and restores the snapshot taken by Bake.
func (l *Layer) Unbake() bool {
	if !l.baked {
		logging.Logger().Warn("unbake rejected: layer not baked", "layer", l.id)
		return false
	}
	if l.snapshot == nil {
		panic("world: baked layer " + l.id + " has no snapshot")
	}
	l.mesh.Clear()
	l.voxels = l.snapshot
	l.snapshot = nil
	l.byTag = make(voxel.Occupancy)
	for p, tag := range l.voxels {
		l.byTag.Add(tag, p)
	}
	l.baked = false
	return true
}

// BakedMesh returns the precomputed mesh of a baked layer, nil otherwise.
func (l *Layer) BakedMesh() *meshing.MeshBuffers {
	return l.mesh.Mesh()
}

// release frees GPU-facing resources before the layer is dropped.
func (l *Layer) release() {
	l.mesh.Clear()
}

// clone deep-copies the logical content into a new unbaked layer.
func (l *Layer) clone(name string) *Layer {
	c := NewLayer(name)
	c.visible, c.opacity, c.locked = l.visible, l.opacity, l.locked
	for p, tag := range l.voxels {
		c.voxels[p] = tag
		c.byTag.Add(tag, p)
	}
	return c
}
