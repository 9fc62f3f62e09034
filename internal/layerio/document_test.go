package layerio

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() *Document {
	return &Document{
		Version:       Version,
		VoxelSize:     0.5,
		ActiveLayerID: "b",
		Materials: []MaterialDoc{
			{ID: 64, Name: "custom", Color: "#102030", Opacity: 1},
		},
		Layers: []LayerDoc{
			{ID: "a", Name: "Ground", Visible: true, Opacity: 1, Voxels: map[string][]string{
				"3": {"0,0,0", "1,0,0"},
			}},
			{ID: "b", Name: "Detail", Visible: false, Locked: true, Baked: true, Opacity: 0.5, Voxels: map[string][]string{
				"64": {"-1,2,3"},
			}},
		},
	}
}

func TestEncodeDecode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleDocument()))

	doc, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, sampleDocument(), doc)
}

func TestFileRoundTripCompressed(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"scene.json", "nested/scene.json.zst"} {
		path := filepath.Join(dir, name)
		require.NoError(t, WriteFile(path, sampleDocument()))

		doc, err := ReadFile(path)
		require.NoError(t, err, name)
		assert.Equal(t, sampleDocument(), doc)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "nested/scene.json.zst"))
	require.NoError(t, err)
	assert.False(t, bytes.HasPrefix(raw, []byte("{")), "compressed file should not be plain JSON")
}

func TestDecodeRejectsSchemaViolations(t *testing.T) {
	cases := map[string]string{
		"not json":       `{`,
		"no layers":      `{"version":1,"layers":[]}`,
		"bad tag key":    `{"version":1,"layers":[{"id":"a","name":"n","visible":true,"opacity":1,"voxels":{"stone":["0,0,0"]}}]}`,
		"bad opacity":    `{"version":1,"layers":[{"id":"a","name":"n","visible":true,"opacity":3,"voxels":{}}]}`,
		"bad color":      `{"version":1,"materials":[{"id":70,"color":"red"}],"layers":[{"id":"a","name":"n","visible":true,"opacity":1,"voxels":{}}]}`,
		"missing voxels": `{"version":1,"layers":[{"id":"a","name":"n","visible":true,"opacity":1}]}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(raw))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDocument), err.Error())
		})
	}
}

func TestDecodeRejectsFutureVersion(t *testing.T) {
	raw := `{"version":2,"layers":[{"id":"a","name":"n","visible":true,"opacity":1,"voxels":{}}]}`
	_, err := Decode(strings.NewReader(raw))
	assert.True(t, errors.Is(err, ErrUnsupportedVersion))
}

func TestDecodeKeepsMalformedPositions(t *testing.T) {
	// Position strings are validated by the importer, which skips bad ones.
	raw := `{"version":1,"layers":[{"id":"a","name":"n","visible":true,"opacity":1,"voxels":{"3":["0,0,0","junk"]}}]}`
	doc, err := Decode(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, []string{"0,0,0", "junk"}, doc.Layers[0].Voxels["3"])
}

func TestEncodeSetsVersion(t *testing.T) {
	doc := sampleDocument()
	doc.Version = 0
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc))
	assert.Equal(t, Version, doc.Version)
}
