package world

import (
	"errors"
	"fmt"

	"voxedit/internal/layerio"
	"voxedit/internal/logging"
	"voxedit/internal/registry"
	"voxedit/internal/voxel"
)

// ExportDocument captures every layer, the active layer and the runtime
// materials referenced by the document.
func (w *World) ExportDocument() *layerio.Document {
	doc := &layerio.Document{
		Version:       layerio.Version,
		VoxelSize:     w.cfg.VoxelSize,
		ActiveLayerID: w.activeID,
	}
	for _, m := range w.materials.Materials() {
		if !m.Dynamic {
			continue
		}
		doc.Materials = append(doc.Materials, layerio.MaterialDoc{
			ID:          uint16(m.ID),
			Name:        m.Name,
			Color:       registry.FormatColor(m.Color),
			Translucent: m.Translucent,
			Opacity:     m.Opacity,
		})
	}
	for _, l := range w.layers {
		ld := layerio.LayerDoc{
			ID:      l.id,
			Name:    l.name,
			Visible: l.visible,
			Locked:  l.locked,
			Baked:   l.baked,
			Opacity: l.opacity,
			Voxels:  make(map[string][]string),
		}
		for tag, list := range l.ExportData() {
			ld.Voxels[tag.String()] = list
		}
		doc.Layers = append(doc.Layers, ld)
	}
	return doc
}

// ImportDocument replaces all layers with the document's. Materials the
// document declares are registered first; a declaration that conflicts
// with an existing binding is skipped with a warning, as are voxels with
// unknown tags or malformed positions. Layers marked baked are re-baked.
// On error the world is left unchanged.
func (w *World) ImportDocument(doc *layerio.Document) error {
	if doc == nil || len(doc.Layers) == 0 {
		return fmt.Errorf("%w: no layers", layerio.ErrInvalidDocument)
	}
	if doc.VoxelSize > 0 && doc.VoxelSize != w.cfg.VoxelSize {
		logging.Logger().Warn("document voxel size differs from world",
			"document", doc.VoxelSize, "world", w.cfg.VoxelSize)
	}
	for _, md := range doc.Materials {
		c, err := registry.ParseColor(md.Color)
		if err != nil {
			return fmt.Errorf("material %d: %w", md.ID, err)
		}
		err = w.materials.Register(registry.Material{
			ID:          voxel.MaterialTag(md.ID),
			Name:        md.Name,
			Color:       c,
			Translucent: md.Translucent,
			Opacity:     md.Opacity,
			Dynamic:     true,
		})
		if errors.Is(err, registry.ErrRebind) {
			continue
		}
		if err != nil {
			return err
		}
	}

	layers := make([]*Layer, 0, len(doc.Layers))
	seen := make(map[string]bool, len(doc.Layers))
	for _, ld := range doc.Layers {
		id := ld.ID
		if id == "" || seen[id] {
			id = NewLayer("").id
		}
		seen[id] = true
		l := newLayerWithID(id, ld.Name)
		l.visible, l.locked = ld.Visible, ld.Locked
		l.setOpacity(ld.Opacity)

		data := make(map[voxel.MaterialTag][]string, len(ld.Voxels))
		skipped := 0
		for key, list := range ld.Voxels {
			tag, ok := voxel.ParseTag(key)
			if !ok {
				skipped += len(list)
				continue
			}
			data[tag] = list
		}
		if skipped > 0 {
			logging.Logger().Warn("layer import skipped unparsable tags", "layer", id, "positions", skipped)
		}
		l.ImportData(data, w.materials.Known)
		if ld.Baked && l.Len() > 0 {
			l.Bake(w.extractor)
		}
		layers = append(layers, l)
	}

	for _, l := range w.layers {
		l.release()
	}
	w.layers = layers
	w.activeID = layers[len(layers)-1].id
	if _, ok := w.Layer(doc.ActiveLayerID); ok {
		w.activeID = doc.ActiveLayerID
	}
	w.invalidate()
	return nil
}
