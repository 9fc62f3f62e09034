package registry

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxedit/internal/voxel"
)

func TestBuiltinClasses(t *testing.T) {
	m := New()
	for _, tag := range []voxel.MaterialTag{Leaves, Water, Snow, Ice, Glass} {
		assert.True(t, m.IsTranslucent(tag), "tag %d", tag)
	}
	for _, tag := range []voxel.MaterialTag{Grass, Dirt, Stone, Wood, Sand, Brick, Metal} {
		assert.False(t, m.IsTranslucent(tag), "tag %d", tag)
	}
	assert.False(t, m.Known(voxel.Air))
	assert.False(t, m.IsTranslucent(999))
}

func TestAssignOrGetIsStable(t *testing.T) {
	m := New()
	c := color.RGBA{R: 1, G: 2, B: 3, A: 255}

	tag, ok := m.AssignOrGet(c, 1)
	require.True(t, ok)
	assert.Equal(t, DynamicBase, tag)

	again, ok := m.AssignOrGet(c, 0.5)
	require.True(t, ok)
	assert.Equal(t, tag, again)
	assert.False(t, m.IsTranslucent(tag), "first binding wins")

	other, ok := m.AssignOrGet(color.RGBA{R: 9, A: 255}, 0.5)
	require.True(t, ok)
	assert.Equal(t, DynamicBase+1, other)
	assert.True(t, m.IsTranslucent(other))

	got, ok := m.ColorOf(tag)
	require.True(t, ok)
	assert.Equal(t, c, got)
}

func TestAssignOrGetReturnsBuiltin(t *testing.T) {
	m := New()
	stone, _ := m.ColorOf(Stone)
	tag, ok := m.AssignOrGet(stone, 1)
	require.True(t, ok)
	assert.Equal(t, Stone, tag)
}

func TestRegisterNeverRebinds(t *testing.T) {
	m := New()
	err := m.Register(Material{ID: Stone, Name: "pink stone", Color: color.RGBA{R: 255, A: 255}})
	assert.True(t, errors.Is(err, ErrRebind))

	c, _ := m.ColorOf(Stone)
	assert.Equal(t, rgb(0x80, 0x80, 0x80), c)

	assert.NoError(t, m.Register(Material{ID: Stone, Color: c}))
	assert.Error(t, m.Register(Material{ID: voxel.Air}))
}

func TestRegisterAdvancesDynamicIDs(t *testing.T) {
	m := New()
	require.NoError(t, m.Register(Material{ID: 100, Name: "x", Color: color.RGBA{G: 1, A: 255}}))
	tag, ok := m.AssignOrGet(color.RGBA{G: 2, A: 255}, 1)
	require.True(t, ok)
	assert.Equal(t, voxel.MaterialTag(101), tag)
}

func TestLoadPalette(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palette.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
materials:
  - id: 70
    name: lava
    color: "#ff4500"
  - id: 71
    name: mist
    color: lavender
    opacity: 0.4
`), 0o644))

	m := New()
	require.NoError(t, m.LoadPalette(path))

	lava, ok := m.Lookup(70)
	require.True(t, ok)
	assert.Equal(t, color.RGBA{R: 0xff, G: 0x45, A: 0xff}, lava.Color)
	assert.False(t, lava.Translucent)
	assert.True(t, m.IsTranslucent(71))
	assert.InDelta(t, 0.4, m.Opacity(71), 1e-6)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#10203040")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40}, c)
	assert.Equal(t, "#10203040", FormatColor(c))

	c, err = ParseColor("Red")
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", FormatColor(c))

	_, err = ParseColor("#12")
	assert.Error(t, err)
	_, err = ParseColor("#zzzzzz")
	assert.Error(t, err)
}
