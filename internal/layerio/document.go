// Package layerio reads and writes the logical layer document: per layer a
// map from material tag to canonical position strings, plus the layer
// metadata and any runtime materials the layers rely on.
package layerio

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Version is the document format written by Encode.
const Version = 1

var (
	ErrUnsupportedVersion = errors.New("layerio: unsupported document version")
	ErrInvalidDocument    = errors.New("layerio: invalid document")
)

// Document is the persisted shape of a world.
type Document struct {
	Version       int           `json:"version"`
	VoxelSize     float64       `json:"voxel_size,omitempty"`
	ActiveLayerID string        `json:"active_layer_id,omitempty"`
	Materials     []MaterialDoc `json:"materials,omitempty"`
	Layers        []LayerDoc    `json:"layers"`
}

// MaterialDoc records a runtime material binding.
type MaterialDoc struct {
	ID          uint16  `json:"id"`
	Name        string  `json:"name,omitempty"`
	Color       string  `json:"color"`
	Translucent bool    `json:"translucent,omitempty"`
	Opacity     float32 `json:"opacity,omitempty"`
}

// LayerDoc is one layer. Voxels maps a decimal material tag to position
// strings ("x,y,z"); order carries no meaning.
type LayerDoc struct {
	ID      string              `json:"id"`
	Name    string              `json:"name"`
	Visible bool                `json:"visible"`
	Locked  bool                `json:"locked,omitempty"`
	Baked   bool                `json:"baked,omitempty"`
	Opacity float32             `json:"opacity"`
	Voxels  map[string][]string `json:"voxels"`
}

//go:embed schema.json
var schemaJSON string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("layerio/schema.json", schemaJSON)
	})
	return schema, schemaErr
}

// Validate checks raw JSON against the document schema.
func Validate(raw []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return nil
}

// Encode writes doc as indented JSON.
func Encode(w io.Writer, doc *Document) error {
	if doc.Version == 0 {
		doc.Version = Version
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return nil
}

// Decode reads, validates and decodes a document.
func Decode(r io.Reader) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if err := Validate(raw); err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if doc.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}
	return &doc, nil
}

// Compressed reports whether path selects the zstd-compressed form.
func Compressed(path string) bool {
	return strings.HasSuffix(path, ".zst")
}

// WriteFile writes doc to path, zstd-compressed when path ends in ".zst".
func WriteFile(path string, doc *Document) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if !Compressed(path) {
		return Encode(f, doc)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if err := Encode(enc, doc); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// ReadFile reads a document written by WriteFile.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if !Compressed(path) {
		return Decode(f)
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return Decode(dec)
}
