package meshing

import (
	"image/color"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"voxedit/internal/logging"
	"voxedit/internal/profiling"
	"voxedit/internal/voxel"
)

// MaterialSource resolves per-material classification and display data.
// *registry.Materials satisfies it.
type MaterialSource interface {
	IsTranslucent(voxel.MaterialTag) bool
	ColorOf(voxel.MaterialTag) (color.RGBA, bool)
	Opacity(voxel.MaterialTag) float32
}

// fallbackColor is used for tags the registry does not know.
var fallbackColor = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}

// Extractor converts occupancy into MeshBuffers.
type Extractor struct {
	materials MaterialSource
	voxelSize float32
	policy    Policy
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithVoxelSize sets the world-space edge length of one cell.
func WithVoxelSize(size float32) Option {
	return func(e *Extractor) {
		if size > 0 {
			e.voxelSize = size
		}
	}
}

// WithPolicy selects greedy merging or one face per unit square.
func WithPolicy(p Policy) Option {
	return func(e *Extractor) { e.policy = p }
}

// NewExtractor returns an extractor using materials for classification and
// colors. Defaults: voxel size 1, greedy merging.
func NewExtractor(materials MaterialSource, opts ...Option) *Extractor {
	e := &Extractor{materials: materials, voxelSize: 1, policy: PolicyGreedy}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// VoxelSize returns the configured cell size.
func (e *Extractor) VoxelSize() float32 { return e.voxelSize }

// Policy returns the face-emission policy.
func (e *Extractor) Policy() Policy { return e.policy }

// Faces returns the exposed surface of occ as rectangles, split by
// visibility class. The classes do not occlude each other, so a boundary
// between an opaque and a translucent voxel yields a face in both lists.
func (e *Extractor) Faces(occ voxel.Occupancy) (opaque, translucent []Face) {
	var o, t classCells
	o.cells = make(map[voxel.GridPosition]voxel.MaterialTag)
	t.cells = make(map[voxel.GridPosition]voxel.MaterialTag)
	for tag, set := range occ {
		if tag == voxel.Air {
			continue
		}
		dst := &o
		if e.materials != nil && e.materials.IsTranslucent(tag) {
			dst = &t
		}
		for p := range set {
			dst.add(p, tag)
		}
	}
	return sweep(&o, e.policy, nil), sweep(&t, e.policy, nil)
}

// Extract meshes occ. Empty input yields nil buffers and zero metadata.
func (e *Extractor) Extract(occ voxel.Occupancy) *MeshBuffers {
	defer profiling.Track("meshing.Extract")()
	start := time.Now()

	opaque, translucent := e.Faces(occ)
	mb := &MeshBuffers{
		Opaque:      e.buffer(opaque),
		Translucent: e.buffer(translucent),
	}
	mb.Metadata.FaceCount = len(opaque) + len(translucent)
	mb.Metadata.OriginalVoxelCount = occ.VoxelCount()
	mb.Metadata.VertexCount = mb.Opaque.VertexCount() + mb.Translucent.VertexCount()

	profiling.Count("meshing.faces", mb.Metadata.FaceCount)
	logging.Logger().Debug("surface extracted",
		"policy", e.policy,
		"voxels", mb.Metadata.OriginalVoxelCount,
		"faces", mb.Metadata.FaceCount,
		"vertices", mb.Metadata.VertexCount,
		"elapsed", time.Since(start))
	return mb
}

func (e *Extractor) buffer(faces []Face) *VertexBuffer {
	if len(faces) == 0 {
		return nil
	}
	b := &VertexBuffer{
		Positions: make([]float32, 0, len(faces)*4*3),
		Normals:   make([]float32, 0, len(faces)*4*3),
		Colors:    make([]float32, 0, len(faces)*4*4),
		Indices:   make([]uint32, 0, len(faces)*6),
	}
	for _, f := range faces {
		b.addFace(f, e.voxelSize, e.rgba(f.Tag))
	}
	return b
}

func (e *Extractor) rgba(tag voxel.MaterialTag) mgl32.Vec4 {
	c, alpha := fallbackColor, float32(1)
	if e.materials != nil {
		if known, ok := e.materials.ColorOf(tag); ok {
			c = known
		}
		alpha = e.materials.Opacity(tag)
	}
	return mgl32.Vec4{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, alpha}
}

// addFace appends the rectangle as a quad of two triangles. Corners are
// ordered counter-clockwise when seen from outside, so the triangle normal
// matches the face's outward direction.
func (b *VertexBuffer) addFace(f Face, size float32, rgba mgl32.Vec4) {
	u, v := (f.Axis+1)%3, (f.Axis+2)%3
	var o, du, dv, n mgl32.Vec3
	o = mgl32.Vec3{float32(f.Origin.X), float32(f.Origin.Y), float32(f.Origin.Z)}.Mul(size)
	du[u] = float32(f.Width) * size
	dv[v] = float32(f.Height) * size
	n[f.Axis] = float32(f.Sign)

	corners := [4]mgl32.Vec3{o, o.Add(du), o.Add(du).Add(dv), o.Add(dv)}
	if f.Sign < 0 {
		corners[1], corners[3] = corners[3], corners[1]
	}

	base := uint32(len(b.Positions) / 3)
	for _, c := range corners {
		b.Positions = append(b.Positions, c[0], c[1], c[2])
		b.Normals = append(b.Normals, n[0], n[1], n[2])
		b.Colors = append(b.Colors, rgba[0], rgba[1], rgba[2], rgba[3])
	}
	b.Indices = append(b.Indices, base, base+1, base+2, base, base+2, base+3)
}
