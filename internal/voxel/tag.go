package voxel

import "strconv"

// MaterialTag identifies a voxel material. Tags form an open 16-bit id space;
// Air is reserved and never stored.
type MaterialTag uint16

const Air MaterialTag = 0

// IsAir reports whether the tag is the empty material.
func (t MaterialTag) IsAir() bool { return t == Air }

func (t MaterialTag) String() string {
	return strconv.FormatUint(uint64(t), 10)
}

// ParseTag parses the decimal form produced by String.
func ParseTag(s string) (MaterialTag, bool) {
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return Air, false
	}
	return MaterialTag(v), true
}
