package voxel

import "sort"

// PositionSet is a set of grid positions.
type PositionSet map[GridPosition]struct{}

func (s PositionSet) Add(p GridPosition)      { s[p] = struct{}{} }
func (s PositionSet) Remove(p GridPosition)   { delete(s, p) }
func (s PositionSet) Len() int                { return len(s) }
func (s PositionSet) Has(p GridPosition) bool { _, ok := s[p]; return ok }

// Clone returns an independent copy.
func (s PositionSet) Clone() PositionSet {
	out := make(PositionSet, len(s))
	for p := range s {
		out[p] = struct{}{}
	}
	return out
}

// Sorted returns the positions ordered by GridPosition.Less.
func (s PositionSet) Sorted() []GridPosition {
	out := make([]GridPosition, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Occupancy maps each material to the positions it occupies. A position
// should appear under at most one tag.
type Occupancy map[MaterialTag]PositionSet

// Add records p under tag. Air is ignored.
func (o Occupancy) Add(tag MaterialTag, p GridPosition) {
	if tag == Air {
		return
	}
	set, ok := o[tag]
	if !ok {
		set = make(PositionSet)
		o[tag] = set
	}
	set.Add(p)
}

// VoxelCount returns the total number of occupied positions.
func (o Occupancy) VoxelCount() int {
	n := 0
	for _, set := range o {
		n += len(set)
	}
	return n
}

// Clone deep-copies the occupancy.
func (o Occupancy) Clone() Occupancy {
	out := make(Occupancy, len(o))
	for tag, set := range o {
		out[tag] = set.Clone()
	}
	return out
}

// Bounds returns the inclusive bounding box of all positions.
func (o Occupancy) Bounds() (min, max GridPosition, ok bool) {
	var b Box
	for _, set := range o {
		for p := range set {
			b.Extend(p)
		}
	}
	return b.Min, b.Max, !b.Empty()
}

// Box is an inclusive integer bounding box. The zero value is empty.
type Box struct {
	Min, Max GridPosition
	n        int
}

// Extend grows the box to include p.
func (b *Box) Extend(p GridPosition) {
	if b.n == 0 {
		b.Min, b.Max = p, p
		b.n = 1
		return
	}
	b.n++
	b.Min.X = min(b.Min.X, p.X)
	b.Min.Y = min(b.Min.Y, p.Y)
	b.Min.Z = min(b.Min.Z, p.Z)
	b.Max.X = max(b.Max.X, p.X)
	b.Max.Y = max(b.Max.Y, p.Y)
	b.Max.Z = max(b.Max.Z, p.Z)
}

// Empty reports whether no position has been added.
func (b Box) Empty() bool { return b.n == 0 }
