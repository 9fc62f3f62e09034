package meshing

// VertexBuffer holds flat per-vertex arrays: Positions and Normals carry 3
// floats per vertex, Colors carries RGBA (4 floats). Indices form
// triangles.
type VertexBuffer struct {
	Positions []float32
	Normals   []float32
	Colors    []float32
	Indices   []uint32
}

// VertexCount is nil-safe.
func (b *VertexBuffer) VertexCount() int {
	if b == nil {
		return 0
	}
	return len(b.Positions) / 3
}

// TriangleCount is nil-safe.
func (b *VertexBuffer) TriangleCount() int {
	if b == nil {
		return 0
	}
	return len(b.Indices) / 3
}

// Metadata summarizes an extraction.
type Metadata struct {
	OriginalVoxelCount int
	VertexCount        int
	FaceCount          int
}

// MeshBuffers is the product of one extraction. Ownership passes to the
// renderer, which may set OnRelease to free resources it derived from the
// buffers.
type MeshBuffers struct {
	Opaque      *VertexBuffer
	Translucent *VertexBuffer
	Metadata    Metadata

	OnRelease func(*MeshBuffers)
	released  bool
}

// Empty reports whether neither class produced geometry.
func (m *MeshBuffers) Empty() bool {
	return m == nil || (m.Opaque == nil && m.Translucent == nil)
}

// Release drops the buffers and runs OnRelease once. Safe on nil and on an
// already released mesh.
func (m *MeshBuffers) Release() {
	if m == nil || m.released {
		return
	}
	m.released = true
	if m.OnRelease != nil {
		m.OnRelease(m)
	}
	m.Opaque, m.Translucent = nil, nil
}

// Released reports whether Release has run.
func (m *MeshBuffers) Released() bool {
	return m != nil && m.released
}

// Slot holds the current mesh for one owner (the live world view or a
// baked layer). Replacing releases the previous mesh first.
type Slot struct {
	mesh *MeshBuffers
}

// Replace releases the held mesh, then holds m.
func (s *Slot) Replace(m *MeshBuffers) {
	if s.mesh != nil && s.mesh != m {
		s.mesh.Release()
	}
	s.mesh = m
}

// Clear releases and forgets the held mesh.
func (s *Slot) Clear() { s.Replace(nil) }

// Mesh returns the held mesh, possibly nil.
func (s *Slot) Mesh() *MeshBuffers { return s.mesh }
