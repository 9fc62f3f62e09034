package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"voxedit/internal/profiling"
	"voxedit/internal/voxel"
)

const (
	// DefaultMaxDistance bounds the grid search, in world units.
	DefaultMaxDistance = 512.0

	// rayInfinity stands in for 1/0 on axes the ray does not move along.
	rayInfinity = 1e30
)

// Sample is what a probe reports for one cell: the material plus the
// provenance the caller wants attached to a hit.
type Sample struct {
	Tag     voxel.MaterialTag
	LayerID string
	Baked   bool
}

// Probe answers occupancy queries for the raycaster.
type Probe func(voxel.GridPosition) Sample

// TagProbe adapts a plain occupancy lookup.
func TagProbe(get func(x, y, z int) voxel.MaterialTag) Probe {
	return func(p voxel.GridPosition) Sample {
		return Sample{Tag: get(p.X, p.Y, p.Z)}
	}
}

// Hit describes the first solid cell a ray reaches.
type Hit struct {
	VoxelPos    voxel.GridPosition
	AdjacentPos voxel.GridPosition
	WorldPoint  mgl64.Vec3
	Normal      voxel.GridPosition
	Distance    float64
	Tag         voxel.MaterialTag
	LayerID     string
	Baked       bool
	// Ground is set when the hit came from the y=0 plane fallback.
	Ground bool
}

// NormalVec returns the face normal as a vector.
func (h Hit) NormalVec() mgl64.Vec3 {
	return mgl64.Vec3{float64(h.Normal.X), float64(h.Normal.Y), float64(h.Normal.Z)}
}

// Raycaster walks a ray through the voxel grid. Cell (i,j,k) covers
// [i*VoxelSize, (i+1)*VoxelSize) on each axis.
type Raycaster struct {
	VoxelSize   float64
	MaxDistance float64
}

// NewRaycaster returns a raycaster, substituting defaults for
// non-positive arguments.
func NewRaycaster(voxelSize, maxDistance float64) Raycaster {
	if voxelSize <= 0 {
		voxelSize = 1
	}
	if maxDistance <= 0 {
		maxDistance = DefaultMaxDistance
	}
	return Raycaster{VoxelSize: voxelSize, MaxDistance: maxDistance}
}

// Cast traces the ray origin + t*dir (dir normalized, world units) and
// returns the first non-air cell. When the grid search runs past
// MaxDistance it falls back to the infinite ground plane y=0. The second
// result is false when neither produced a hit.
//
// At each step the axis with the smallest tMax advances. Ties go to x, then
// y, then z; for rays passing exactly through a cell edge or corner this
// picks one of several equally valid cells.
func (r Raycaster) Cast(origin, dir mgl64.Vec3, probe Probe) (Hit, bool) {
	defer profiling.Track("physics.Raycast")()

	r = NewRaycaster(r.VoxelSize, r.MaxDistance)
	size, maxDist := r.VoxelSize, r.MaxDistance

	o := origin.Mul(1 / size)
	cell := [3]int{floor(o[0]), floor(o[1]), floor(o[2])}
	var step [3]int
	var tDelta, tMax [3]float64
	for a := 0; a < 3; a++ {
		switch {
		case dir[a] > 0:
			step[a] = 1
			tDelta[a] = 1 / dir[a]
			tMax[a] = (float64(cell[a]+1) - o[a]) / dir[a]
		case dir[a] < 0:
			step[a] = -1
			tDelta[a] = -1 / dir[a]
			tMax[a] = (o[a] - float64(cell[a])) / -dir[a]
		default:
			tDelta[a] = rayInfinity
			tMax[a] = rayInfinity
		}
	}

	stepped := -1
	t := 0.0 // voxel units travelled when entering the current cell
	for t*size <= maxDist {
		pos := voxel.Pos(cell[0], cell[1], cell[2])
		if s := probe(pos); s.Tag != voxel.Air {
			return r.solidHit(o, dir, pos, stepped, step, s), true
		}

		axis := 2
		if tMax[0] <= tMax[1] && tMax[0] <= tMax[2] {
			axis = 0
		} else if tMax[1] <= tMax[2] {
			axis = 1
		}
		if tMax[axis] >= rayInfinity {
			// zero direction
			break
		}
		t = tMax[axis]
		cell[axis] += step[axis]
		tMax[axis] += tDelta[axis]
		stepped = axis
	}

	return r.groundHit(origin, dir)
}

func (r Raycaster) solidHit(o, dir mgl64.Vec3, pos voxel.GridPosition, stepped int, step [3]int, s Sample) Hit {
	var normal [3]int
	axis := stepped
	if axis >= 0 {
		normal[axis] = -step[axis]
	} else {
		// No step yet: the ray starts in or on the struck cell. Use the axis
		// where the origin lies furthest from the cell centre.
		center := mgl64.Vec3{float64(pos.X) + 0.5, float64(pos.Y) + 0.5, float64(pos.Z) + 0.5}
		off := o.Sub(center)
		axis = 0
		for a := 1; a < 3; a++ {
			if math.Abs(off[a]) > math.Abs(off[axis]) {
				axis = a
			}
		}
		normal[axis] = 1
		if off[axis] < 0 {
			normal[axis] = -1
		}
	}

	// Intersect the ray with the plane of the struck face.
	plane := float64(pos.Axis(axis))
	if normal[axis] > 0 {
		plane++
	}
	t := 0.0
	if dir[axis] != 0 {
		t = max((plane-o[axis])/dir[axis], 0)
	}
	point := o.Add(dir.Mul(t)).Mul(r.VoxelSize)

	n := voxel.Pos(normal[0], normal[1], normal[2])
	adj := pos.Add(n)
	if adj.Y < 0 {
		adj.Y = 0
	}
	return Hit{
		VoxelPos:    pos,
		AdjacentPos: adj,
		WorldPoint:  point,
		Normal:      n,
		Distance:    t * r.VoxelSize,
		Tag:         s.Tag,
		LayerID:     s.LayerID,
		Baked:       s.Baked,
	}
}

// groundHit intersects the ray with the plane y=0.
func (r Raycaster) groundHit(origin, dir mgl64.Vec3) (Hit, bool) {
	if dir[1] == 0 {
		return Hit{}, false
	}
	t := -origin[1] / dir[1]
	if t < 0 {
		return Hit{}, false
	}
	point := origin.Add(dir.Mul(t))
	point[1] = 0
	x, z := floor(point[0]/r.VoxelSize), floor(point[2]/r.VoxelSize)

	h := Hit{
		AdjacentPos: voxel.Pos(x, 0, z),
		WorldPoint:  point,
		Distance:    t,
		Ground:      true,
	}
	if dir[1] < 0 {
		// from above: the virtual ground cell sits just below the plane
		h.VoxelPos = voxel.Pos(x, -1, z)
		h.Normal = voxel.Pos(0, 1, 0)
	} else {
		h.VoxelPos = voxel.Pos(x, 0, z)
		h.Normal = voxel.Pos(0, -1, 0)
	}
	return h, true
}

func floor(v float64) int {
	return int(math.Floor(v))
}
