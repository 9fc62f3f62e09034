package voxel

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		p := Pos(rng.Intn(2001)-1000, rng.Intn(2001)-1000, rng.Intn(2001)-1000)
		got, ok := ParsePosition(p.String())
		require.True(t, ok, p.String())
		assert.Equal(t, p, got)
	}
}

func TestParsePositionRejectsNonCanonical(t *testing.T) {
	for _, s := range []string{
		"", "1,2", "1,2,3,4", " 1,2,3", "1, 2,3", "+1,2,3", "01,2,3", "-0,0,0", "a,b,c", "1.5,2,3",
	} {
		_, ok := ParsePosition(s)
		assert.False(t, ok, "%q should be rejected", s)
	}
}

func TestParsePositionAccepted(t *testing.T) {
	p, ok := ParsePosition("-3,0,12")
	require.True(t, ok)
	assert.Equal(t, Pos(-3, 0, 12), p)
	assert.Equal(t, "-3,0,12", p.String())
}

func TestDirections(t *testing.T) {
	for _, d := range Directions {
		off := d.Offset()
		assert.Equal(t, d.Sign(), off.Axis(d.Axis()))
		assert.Equal(t, d, DirectionOf(d.Axis(), d.Sign()))
		assert.Equal(t, Pos(0, 0, 0), off.Add(d.Opposite().Offset()))
	}
}

func TestOccupancyBounds(t *testing.T) {
	occ := make(Occupancy)
	_, _, ok := occ.Bounds()
	assert.False(t, ok)

	occ.Add(3, Pos(1, 2, 3))
	occ.Add(4, Pos(-1, 5, 0))
	occ.Add(Air, Pos(100, 100, 100))
	lo, hi, ok := occ.Bounds()
	require.True(t, ok)
	assert.Equal(t, Pos(-1, 2, 0), lo)
	assert.Equal(t, Pos(1, 5, 3), hi)
	assert.Equal(t, 2, occ.VoxelCount())
}
