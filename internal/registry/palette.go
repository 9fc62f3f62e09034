package registry

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"

	"voxedit/internal/voxel"
)

// PaletteEntry is one material in a palette file.
type PaletteEntry struct {
	ID          uint16  `yaml:"id"`
	Name        string  `yaml:"name"`
	Color       string  `yaml:"color"`
	Translucent bool    `yaml:"translucent"`
	Opacity     float32 `yaml:"opacity"`
}

type paletteFile struct {
	Materials []PaletteEntry `yaml:"materials"`
}

// LoadPalette reads a YAML palette and registers its entries into m.
// Colors are "#rrggbb", "#rrggbbaa" or a CSS color name.
func (m *Materials) LoadPalette(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read palette: %w", err)
	}
	var pf paletteFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	for _, e := range pf.Materials {
		c, err := ParseColor(e.Color)
		if err != nil {
			return fmt.Errorf("%s: material %d: %w", path, e.ID, err)
		}
		def := Material{
			ID:          voxel.MaterialTag(e.ID),
			Name:        e.Name,
			Color:       c,
			Translucent: e.Translucent,
			Opacity:     e.Opacity,
		}
		if err := m.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// ParseColor accepts "#rrggbb", "#rrggbbaa" or a CSS color name.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return c, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// FormatColor renders c as "#rrggbb" (or "#rrggbbaa" when not opaque).
func FormatColor(c color.RGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
