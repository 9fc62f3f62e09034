package main

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRay(t *testing.T) {
	origin, dir, err := parseRay("0.5, 10, 0.5/0,-2,0")
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec3{0.5, 10, 0.5}, origin)
	assert.Equal(t, mgl64.Vec3{0, -1, 0}, dir)

	for _, bad := range []string{"", "1,2,3", "1,2/0,1,0", "1,2,3/0,0,0", "a,b,c/0,1,0"} {
		_, _, err := parseRay(bad)
		assert.Error(t, err, bad)
	}
}
