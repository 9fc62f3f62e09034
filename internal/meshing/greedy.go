// Package meshing turns voxel occupancy into renderable surface meshes.
//
// Extraction sweeps each principal axis slice by slice. For every slice it
// builds a 2D mask over the bounding box cross-section and merges equal
// cells into rectangles. Mask construction costs one lookup per cell of the
// bounding box per slice, so the work scales with the volume of the
// bounding box rather than with the number of voxels: a few voxels far
// apart cost more than a dense blob of the same extent.
package meshing

import (
	"voxedit/internal/voxel"
)

// Policy selects how exposed unit faces are emitted.
type Policy int

const (
	// PolicyGreedy merges equal neighbouring mask cells into rectangles.
	PolicyGreedy Policy = iota
	// PolicyNoMerge emits one face per exposed unit square.
	PolicyNoMerge
)

// ParsePolicy maps "naive" to PolicyNoMerge and anything else to PolicyGreedy.
func ParsePolicy(s string) Policy {
	if s == "naive" {
		return PolicyNoMerge
	}
	return PolicyGreedy
}

func (p Policy) String() string {
	if p == PolicyNoMerge {
		return "naive"
	}
	return "greedy"
}

// Face is an axis-aligned rectangle of exposed surface. Origin is the
// rectangle's minimum corner on the plane Origin[Axis]. Width runs along
// axis (Axis+1)%3 and Height along (Axis+2)%3, both in grid units.
type Face struct {
	Axis   int
	Sign   int
	Origin voxel.GridPosition
	Width  int
	Height int
	Tag    voxel.MaterialTag
}

// Direction returns the outward facing direction.
func (f Face) Direction() voxel.Direction {
	return voxel.DirectionOf(f.Axis, f.Sign)
}

// UnitFace is one exposed face of one voxel.
type UnitFace struct {
	Pos voxel.GridPosition
	Dir voxel.Direction
	Tag voxel.MaterialTag
}

// UnitFaces expands the rectangle back into the unit faces it covers.
func (f Face) UnitFaces() []UnitFace {
	u, v := (f.Axis+1)%3, (f.Axis+2)%3
	dir := f.Direction()
	out := make([]UnitFace, 0, f.Width*f.Height)
	for j := 0; j < f.Height; j++ {
		for i := 0; i < f.Width; i++ {
			p := f.Origin.
				WithAxis(u, f.Origin.Axis(u)+i).
				WithAxis(v, f.Origin.Axis(v)+j)
			if f.Sign > 0 {
				// the plane sits on the far side of the owning voxel
				p = p.WithAxis(f.Axis, p.Axis(f.Axis)-1)
			}
			out = append(out, UnitFace{Pos: p, Dir: dir, Tag: f.Tag})
		}
	}
	return out
}

// classCells is one visibility class flattened to position -> tag.
type classCells struct {
	cells map[voxel.GridPosition]voxel.MaterialTag
	box   voxel.Box
}

func (c *classCells) add(p voxel.GridPosition, tag voxel.MaterialTag) {
	c.cells[p] = tag
	c.box.Extend(p)
}

// sweep emits the faces of one class. The sweep order (axis x, y, z; slice
// ascending; mask row-major) is fixed, so equal input gives equal output.
func sweep(c *classCells, policy Policy, out []Face) []Face {
	if c.box.Empty() {
		return out
	}
	for a := 0; a < 3; a++ {
		u, v := (a+1)%3, (a+2)%3
		u0, v0 := c.box.Min.Axis(u), c.box.Min.Axis(v)
		w := c.box.Max.Axis(u) - u0 + 1
		h := c.box.Max.Axis(v) - v0 + 1

		cur := make([]voxel.MaterialTag, w*h)
		prev := make([]voxel.MaterialTag, w*h)
		mask := make([]int32, w*h)

		dMin, dMax := c.box.Min.Axis(a)-1, c.box.Max.Axis(a)+1
		for d := dMin; d <= dMax; d++ {
			// cells at d-1 were loaded as cur on the previous slice
			prev, cur = cur, prev
			exposed := false
			for j := 0; j < h; j++ {
				for i := 0; i < w; i++ {
					k := j*w + i
					var p voxel.GridPosition
					p = p.WithAxis(a, d).WithAxis(u, u0+i).WithAxis(v, v0+j)
					cur[k] = c.cells[p]
					if d == dMin {
						prev[k] = voxel.Air
					}
					switch {
					case cur[k] != voxel.Air && prev[k] == voxel.Air:
						mask[k] = -int32(cur[k])
						exposed = true
					case prev[k] != voxel.Air && cur[k] == voxel.Air:
						mask[k] = int32(prev[k])
						exposed = true
					default:
						mask[k] = 0
					}
				}
			}
			if !exposed {
				continue
			}
			var origin voxel.GridPosition
			origin = origin.WithAxis(a, d).WithAxis(u, u0).WithAxis(v, v0)
			out = mergeMask(mask, w, h, a, origin, policy, out)
		}
	}
	return out
}

// mergeMask scans mask row-major. A positive cell is a +axis face owned by
// the voxel behind the plane, a negative cell a -axis face owned by the
// voxel in front of it. Covered cells are zeroed as they are emitted.
func mergeMask(mask []int32, w, h, axis int, origin voxel.GridPosition, policy Policy, out []Face) []Face {
	u, v := (axis+1)%3, (axis+2)%3
	for j := 0; j < h; j++ {
		for i := 0; i < w; {
			m := mask[j*w+i]
			if m == 0 {
				i++
				continue
			}
			width, height := 1, 1
			if policy == PolicyGreedy {
				for i+width < w && mask[j*w+i+width] == m {
					width++
				}
			grow:
				for j+height < h {
					row := (j + height) * w
					for k := i; k < i+width; k++ {
						if mask[row+k] != m {
							break grow
						}
					}
					height++
				}
			}
			for jj := j; jj < j+height; jj++ {
				for ii := i; ii < i+width; ii++ {
					mask[jj*w+ii] = 0
				}
			}

			sign := 1
			if m < 0 {
				sign, m = -1, -m
			}
			out = append(out, Face{
				Axis: axis,
				Sign: sign,
				Origin: origin.
					WithAxis(u, origin.Axis(u)+i).
					WithAxis(v, origin.Axis(v)+j),
				Width:  width,
				Height: height,
				Tag:    voxel.MaterialTag(m),
			})
			i += width
		}
	}
	return out
}
