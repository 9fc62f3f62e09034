package voxel

// Direction identifies one of the six faces of a cell.
type Direction int

const (
	PosX Direction = iota
	NegX
	PosY
	NegY
	PosZ
	NegZ
)

// Directions lists all six faces in axis order.
var Directions = [6]Direction{PosX, NegX, PosY, NegY, PosZ, NegZ}

// DirectionOf returns the face along axis with the given sign (+1 or -1).
func DirectionOf(axis, sign int) Direction {
	d := Direction(axis * 2)
	if sign < 0 {
		d++
	}
	return d
}

// Axis returns 0, 1 or 2 for x, y, z.
func (d Direction) Axis() int { return int(d) / 2 }

// Sign returns +1 for positive faces and -1 for negative ones.
func (d Direction) Sign() int {
	if d%2 == 0 {
		return 1
	}
	return -1
}

// Offset is the unit step from a cell to its neighbour across this face.
func (d Direction) Offset() GridPosition {
	var p GridPosition
	return p.WithAxis(d.Axis(), d.Sign())
}

// Opposite returns the face pointing the other way.
func (d Direction) Opposite() Direction {
	return d ^ 1
}

func (d Direction) String() string {
	switch d {
	case PosX:
		return "+x"
	case NegX:
		return "-x"
	case PosY:
		return "+y"
	case NegY:
		return "-y"
	case PosZ:
		return "+z"
	case NegZ:
		return "-z"
	default:
		return "?"
	}
}
