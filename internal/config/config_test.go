package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("VOXEDIT_CONFIG", "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 8*time.Millisecond, cfg.BatchInterval())
}

func TestLoadFileAndClamp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
voxel_size: 0.5
batch_interval_ms: 99999
mesh_policy: NAIVE
palette_path: palette.yaml
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.VoxelSize)
	assert.Equal(t, DefaultMaxRayDistance, cfg.MaxRayDistance)
	assert.Equal(t, 1000, cfg.BatchIntervalMs)
	assert.Equal(t, PolicyNaive, cfg.MeshPolicy)
	assert.Equal(t, "palette.yaml", cfg.PalettePath)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("VOXEDIT_CONFIG", "")
	t.Setenv("VOXEDIT_VOXEL_SIZE", "2")
	t.Setenv("VOXEDIT_MAX_RAY_DISTANCE", "64")
	t.Setenv("VOXEDIT_MESH_POLICY", "bogus")
	t.Setenv("VOXEDIT_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2.0, cfg.VoxelSize)
	assert.Equal(t, 64.0, cfg.MaxRayDistance)
	assert.Equal(t, PolicyGreedy, cfg.MeshPolicy)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("voxel_size: [1, 2"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
