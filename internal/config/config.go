package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Mesh face-emission policies.
const (
	PolicyGreedy = "greedy"
	PolicyNaive  = "naive"
)

const (
	DefaultVoxelSize       = 1.0
	DefaultMaxRayDistance  = 512.0
	DefaultBatchIntervalMs = 8
	DefaultLogLevel        = "warn"

	maxBatchIntervalMs = 1000
	minVoxelSize       = 1e-3
)

// Config holds engine settings.
type Config struct {
	VoxelSize       float64 `yaml:"voxel_size"`
	MaxRayDistance  float64 `yaml:"max_ray_distance"`
	BatchIntervalMs int     `yaml:"batch_interval_ms"`
	MeshPolicy      string  `yaml:"mesh_policy"`
	PalettePath     string  `yaml:"palette_path"`
	LogLevel        string  `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		VoxelSize:       DefaultVoxelSize,
		MaxRayDistance:  DefaultMaxRayDistance,
		BatchIntervalMs: DefaultBatchIntervalMs,
		MeshPolicy:      PolicyGreedy,
		LogLevel:        DefaultLogLevel,
	}
}

// Load reads a YAML config file. If path is empty VOXEDIT_CONFIG is used;
// if that is empty too the defaults are returned. Fields missing from the
// file keep their defaults. Environment overrides are applied last.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("VOXEDIT_CONFIG")
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	cfg.Normalize()
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v, ok := envFloat("VOXEDIT_VOXEL_SIZE"); ok {
		cfg.VoxelSize = v
	}
	if v, ok := envFloat("VOXEDIT_MAX_RAY_DISTANCE"); ok {
		cfg.MaxRayDistance = v
	}
	if v := os.Getenv("VOXEDIT_MESH_POLICY"); v != "" {
		cfg.MeshPolicy = v
	}
	if v := os.Getenv("VOXEDIT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

func envFloat(name string) (float64, bool) {
	s := os.Getenv(name)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Normalize clamps out-of-range values back to usable ones.
func (c *Config) Normalize() {
	if c.VoxelSize < minVoxelSize {
		c.VoxelSize = DefaultVoxelSize
	}
	if c.MaxRayDistance <= 0 {
		c.MaxRayDistance = DefaultMaxRayDistance
	}
	if c.BatchIntervalMs < 0 {
		c.BatchIntervalMs = 0
	}
	if c.BatchIntervalMs > maxBatchIntervalMs {
		c.BatchIntervalMs = maxBatchIntervalMs
	}
	switch strings.ToLower(c.MeshPolicy) {
	case PolicyNaive:
		c.MeshPolicy = PolicyNaive
	default:
		c.MeshPolicy = PolicyGreedy
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// BatchInterval is the minimum time between two throttled recomputes.
func (c Config) BatchInterval() time.Duration {
	return time.Duration(c.BatchIntervalMs) * time.Millisecond
}
