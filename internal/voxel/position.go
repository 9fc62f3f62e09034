package voxel

import (
	"strconv"
	"strings"
)

// GridPosition is an integer cell coordinate.
type GridPosition struct {
	X, Y, Z int
}

// Pos is shorthand for GridPosition{x, y, z}.
func Pos(x, y, z int) GridPosition {
	return GridPosition{X: x, Y: y, Z: z}
}

// String returns the canonical "x,y,z" form.
func (p GridPosition) String() string {
	b := make([]byte, 0, 24)
	b = strconv.AppendInt(b, int64(p.X), 10)
	b = append(b, ',')
	b = strconv.AppendInt(b, int64(p.Y), 10)
	b = append(b, ',')
	b = strconv.AppendInt(b, int64(p.Z), 10)
	return string(b)
}

// ParsePosition is the exact inverse of GridPosition.String. Only canonical
// input is accepted: no whitespace, no '+', no leading zeros and no "-0",
// so that ParsePosition(s).String() == s for every accepted s.
func ParsePosition(s string) (GridPosition, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return GridPosition{}, false
	}
	var v [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || strconv.Itoa(n) != part {
			return GridPosition{}, false
		}
		v[i] = n
	}
	return GridPosition{X: v[0], Y: v[1], Z: v[2]}, true
}

// Add returns the component-wise sum.
func (p GridPosition) Add(o GridPosition) GridPosition {
	return GridPosition{X: p.X + o.X, Y: p.Y + o.Y, Z: p.Z + o.Z}
}

// Offset returns the neighbouring cell across the face d.
func (p GridPosition) Offset(d Direction) GridPosition {
	return p.Add(d.Offset())
}

// Axis returns the coordinate along axis a (0=x, 1=y, 2=z).
func (p GridPosition) Axis(a int) int {
	switch a {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

// WithAxis returns p with the coordinate along axis a replaced by v.
func (p GridPosition) WithAxis(a, v int) GridPosition {
	switch a {
	case 0:
		p.X = v
	case 1:
		p.Y = v
	default:
		p.Z = v
	}
	return p
}

// Less orders positions by x, then y, then z.
func (p GridPosition) Less(o GridPosition) bool {
	if p.X != o.X {
		return p.X < o.X
	}
	if p.Y != o.Y {
		return p.Y < o.Y
	}
	return p.Z < o.Z
}
