package registry

import (
	"errors"
	"fmt"
	"image/color"
	"sort"

	"voxedit/internal/logging"
	"voxedit/internal/voxel"
)

// Built-in material tags. Their ids are part of the persisted format and
// must not change.
const (
	Grass voxel.MaterialTag = iota + 1
	Dirt
	Stone
	Wood
	Leaves
	Water
	Sand
	Snow
	Ice
	Brick
	Glass
	Metal
)

// DynamicBase is the first id handed out to runtime materials.
const DynamicBase voxel.MaterialTag = 64

// ErrRebind is returned when a tag that is already bound would receive a
// different definition.
var ErrRebind = errors.New("registry: material tag already bound")

// Material describes how a tag is displayed and classified.
type Material struct {
	ID          voxel.MaterialTag
	Name        string
	Color       color.RGBA
	Translucent bool
	Opacity     float32
	Dynamic     bool
}

// Materials is the material table owned by a World. Bindings are
// append-only: once a tag has a color it keeps it for the life of the
// registry.
type Materials struct {
	defs    map[voxel.MaterialTag]Material
	byColor map[color.RGBA]voxel.MaterialTag
	next    voxel.MaterialTag
}

// New returns a registry preloaded with the built-in palette.
func New() *Materials {
	m := &Materials{
		defs:    make(map[voxel.MaterialTag]Material),
		byColor: make(map[color.RGBA]voxel.MaterialTag),
		next:    DynamicBase,
	}
	for _, def := range builtins {
		if err := m.Register(def); err != nil {
			panic(err)
		}
	}
	return m
}

var builtins = []Material{
	{ID: Grass, Name: "grass", Color: rgb(0x5f, 0x9e, 0x3a), Opacity: 1},
	{ID: Dirt, Name: "dirt", Color: rgb(0x86, 0x5c, 0x3c), Opacity: 1},
	{ID: Stone, Name: "stone", Color: rgb(0x80, 0x80, 0x80), Opacity: 1},
	{ID: Wood, Name: "wood", Color: rgb(0x9c, 0x6b, 0x30), Opacity: 1},
	{ID: Leaves, Name: "leaves", Color: rgb(0x3b, 0x7d, 0x23), Translucent: true, Opacity: 0.8},
	{ID: Water, Name: "water", Color: rgb(0x3f, 0x76, 0xe4), Translucent: true, Opacity: 0.6},
	{ID: Sand, Name: "sand", Color: rgb(0xdb, 0xcf, 0x8e), Opacity: 1},
	{ID: Snow, Name: "snow", Color: rgb(0xf5, 0xf8, 0xfa), Translucent: true, Opacity: 0.9},
	{ID: Ice, Name: "ice", Color: rgb(0xa5, 0xd8, 0xf3), Translucent: true, Opacity: 0.7},
	{ID: Brick, Name: "brick", Color: rgb(0x96, 0x4a, 0x3a), Opacity: 1},
	{ID: Glass, Name: "glass", Color: rgb(0xd8, 0xee, 0xf2), Translucent: true, Opacity: 0.3},
	{ID: Metal, Name: "metal", Color: rgb(0xb4, 0xb8, 0xbd), Opacity: 1},
}

func rgb(r, g, b uint8) color.RGBA { return color.RGBA{R: r, G: g, B: b, A: 0xff} }

// Register binds def.ID. Re-registering an identical color is a no-op;
// binding a bound tag to a different color fails with ErrRebind.
func (m *Materials) Register(def Material) error {
	if def.ID == voxel.Air {
		return fmt.Errorf("registry: air cannot be registered")
	}
	if existing, ok := m.defs[def.ID]; ok {
		if existing.Color != def.Color {
			logging.Logger().Warn("material rebind rejected", "tag", def.ID, "name", def.Name)
			return fmt.Errorf("%w: %d (%s)", ErrRebind, def.ID, existing.Name)
		}
		return nil
	}
	if def.Opacity <= 0 || def.Opacity > 1 {
		def.Opacity = 1
	}
	if def.Opacity < 1 {
		def.Translucent = true
	}
	m.defs[def.ID] = def
	if _, taken := m.byColor[def.Color]; !taken {
		m.byColor[def.Color] = def.ID
	}
	if def.ID >= m.next {
		m.next = def.ID + 1
	}
	return nil
}

// AssignOrGet returns the tag bound to c, binding the next free id when c
// has not been seen. An opacity below 1 puts the new material in the
// translucent class. The second result is false only when the id space is
// exhausted.
func (m *Materials) AssignOrGet(c color.RGBA, opacity float32) (voxel.MaterialTag, bool) {
	if tag, ok := m.byColor[c]; ok {
		return tag, true
	}
	for m.next != 0 {
		if _, used := m.defs[m.next]; !used {
			break
		}
		m.next++
	}
	if m.next == 0 {
		return voxel.Air, false
	}
	tag := m.next
	def := Material{
		ID:      tag,
		Name:    fmt.Sprintf("custom-%02x%02x%02x", c.R, c.G, c.B),
		Color:   c,
		Opacity: opacity,
		Dynamic: true,
	}
	if err := m.Register(def); err != nil {
		return voxel.Air, false
	}
	return tag, true
}

// ColorOf returns the display color bound to tag.
func (m *Materials) ColorOf(tag voxel.MaterialTag) (color.RGBA, bool) {
	def, ok := m.defs[tag]
	return def.Color, ok
}

// Opacity returns the tag's opacity, 1 for unknown tags.
func (m *Materials) Opacity(tag voxel.MaterialTag) float32 {
	if def, ok := m.defs[tag]; ok {
		return def.Opacity
	}
	return 1
}

// IsTranslucent reports whether tag belongs to the translucent class.
func (m *Materials) IsTranslucent(tag voxel.MaterialTag) bool {
	return m.defs[tag].Translucent
}

// Known reports whether tag is bound.
func (m *Materials) Known(tag voxel.MaterialTag) bool {
	_, ok := m.defs[tag]
	return ok
}

// Lookup returns the full definition of tag.
func (m *Materials) Lookup(tag voxel.MaterialTag) (Material, bool) {
	def, ok := m.defs[tag]
	return def, ok
}

// Materials returns every definition ordered by id.
func (m *Materials) Materials() []Material {
	out := make([]Material, 0, len(m.defs))
	for _, def := range m.defs {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
