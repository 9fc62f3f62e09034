package world

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"voxedit/internal/config"
	"voxedit/internal/logging"
	"voxedit/internal/meshing"
	"voxedit/internal/physics"
	"voxedit/internal/profiling"
	"voxedit/internal/registry"
	"voxedit/internal/voxel"
)

// World is an ordered stack of layers (last = topmost) with one active
// layer. It owns the layers, the material registry and the live mesh.
// A World is not safe for concurrent use.
type World struct {
	layers   []*Layer
	activeID string

	cfg       config.Config
	materials *registry.Materials
	extractor *meshing.Extractor
	raycaster physics.Raycaster

	live   meshing.Slot
	onMesh func(*meshing.MeshBuffers)
	batch  batcher
	stats  Stats
}

// Stats counts world activity.
type Stats struct {
	Writes     int
	Recomputes int
}

// Option configures a World.
type Option func(*World)

// WithConfig sets voxel size, ray distance, batching interval and policy.
func WithConfig(cfg config.Config) Option {
	return func(w *World) {
		cfg.Normalize()
		w.cfg = cfg
	}
}

// WithMaterials injects the material registry.
func WithMaterials(m *registry.Materials) Option {
	return func(w *World) { w.materials = m }
}

// WithClock replaces time.Now for recompute throttling.
func WithClock(now func() time.Time) Option {
	return func(w *World) { w.batch.now = now }
}

// WithMeshHandler receives every new live mesh. The handler takes
// ownership; the previous mesh has already been released when it runs.
func WithMeshHandler(fn func(*meshing.MeshBuffers)) Option {
	return func(w *World) { w.onMesh = fn }
}

// New returns a world holding one empty active layer.
func New(opts ...Option) *World {
	w := &World{cfg: config.Default()}
	w.batch.now = time.Now
	for _, opt := range opts {
		opt(w)
	}
	if w.materials == nil {
		w.materials = registry.New()
	}
	w.extractor = meshing.NewExtractor(w.materials,
		meshing.WithVoxelSize(float32(w.cfg.VoxelSize)),
		meshing.WithPolicy(meshing.ParsePolicy(w.cfg.MeshPolicy)),
	)
	w.raycaster = physics.NewRaycaster(w.cfg.VoxelSize, w.cfg.MaxRayDistance)
	w.batch.interval = w.cfg.BatchInterval()

	first := NewLayer("Layer 1")
	w.layers = []*Layer{first}
	w.activeID = first.id
	return w
}

// Materials returns the world's material registry.
func (w *World) Materials() *registry.Materials { return w.materials }

// Extractor returns the extractor used for live meshes and baking.
func (w *World) Extractor() *meshing.Extractor { return w.extractor }

// VoxelSize is the world-space edge length of a cell.
func (w *World) VoxelSize() float64 { return w.cfg.VoxelSize }

// Stats returns activity counters.
func (w *World) Stats() Stats { return w.stats }

// SetVoxel writes tag into the active layer. It returns false without
// mutating anything for y < 0, a missing, locked or baked active layer, or
// an unchanged value.
func (w *World) SetVoxel(x, y, z int, tag voxel.MaterialTag) bool {
	defer profiling.Track("world.SetVoxel")()
	if y < 0 {
		return false
	}
	l := w.ActiveLayer()
	if l == nil || l.locked || l.baked {
		return false
	}
	if !l.SetVoxel(voxel.Pos(x, y, z), tag) {
		return false
	}
	w.stats.Writes++
	w.invalidate()
	return true
}

// GetVoxel returns the tag of the topmost visible layer that has one at
// (x,y,z). Lower layers are occluded, not merged. Baked layers take part.
func (w *World) GetVoxel(x, y, z int) voxel.MaterialTag {
	return w.sample(voxel.Pos(x, y, z)).Tag
}

func (w *World) sample(p voxel.GridPosition) physics.Sample {
	for i := len(w.layers) - 1; i >= 0; i-- {
		l := w.layers[i]
		if !l.visible {
			continue
		}
		if tag := l.voxels[p]; tag != voxel.Air {
			return physics.Sample{Tag: tag, LayerID: l.id, Baked: l.baked}
		}
	}
	return physics.Sample{}
}

// CombinedOccupancy is the live mesher input. Each position contributes
// only its GetVoxel winner, so a lower layer's material never shows through
// a covering layer. Positions won by a baked layer are left out because
// that layer renders from its own mesh.
func (w *World) CombinedOccupancy() voxel.Occupancy {
	defer profiling.Track("world.CombinedOccupancy")()
	occ := make(voxel.Occupancy)
	claimed := make(voxel.PositionSet)
	for i := len(w.layers) - 1; i >= 0; i-- {
		l := w.layers[i]
		if !l.visible {
			continue
		}
		for tag, set := range l.byTag {
			for p := range set {
				if claimed.Has(p) {
					continue
				}
				claimed.Add(p)
				if !l.baked {
					occ.Add(tag, p)
				}
			}
		}
	}
	return occ
}

// Bounds returns the bounding box over every layer's voxels, visible or not.
func (w *World) Bounds() (voxel.Box, bool) {
	var b voxel.Box
	for _, l := range w.layers {
		for p := range l.voxels {
			b.Extend(p)
		}
	}
	return b, !b.Empty()
}

// Raycast picks against GetVoxel. Direction must be normalized.
func (w *World) Raycast(origin, dir mgl64.Vec3) (physics.Hit, bool) {
	defer profiling.Track("world.Raycast")()
	return w.raycaster.Cast(origin, dir, w.sample)
}

// Mesh returns the current live mesh, nil before the first recompute.
func (w *World) Mesh() *meshing.MeshBuffers { return w.live.Mesh() }

// Recompute rebuilds the live mesh immediately.
func (w *World) Recompute() *meshing.MeshBuffers {
	defer profiling.Track("world.Recompute")()
	mesh := w.extractor.Extract(w.CombinedOccupancy())
	w.live.Replace(mesh)
	w.batch.done(w.batch.now())
	w.stats.Recomputes++
	profiling.Count("world.recomputes", 1)
	logging.Logger().Debug("live mesh rebuilt",
		"faces", mesh.Metadata.FaceCount,
		"voxels", mesh.Metadata.OriginalVoxelCount)
	if w.onMesh != nil {
		w.onMesh(mesh)
	}
	return mesh
}

// Close releases the live mesh and every baked mesh.
func (w *World) Close() {
	w.live.Clear()
	for _, l := range w.layers {
		l.release()
	}
}
