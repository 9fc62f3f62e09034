package main

import (
	"fmt"
	"log/slog"
	"os"

	"voxedit/internal/config"
	"voxedit/internal/logging"
	"voxedit/internal/profiling"
	"voxedit/internal/registry"
	"voxedit/internal/world"
)

func setupWorld(opts options) (*world.World, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.policy != "" {
		cfg.MeshPolicy = opts.policy
		cfg.Normalize()
	}

	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logging.ParseLevel(cfg.LogLevel),
	})))

	materials := registry.New()
	if cfg.PalettePath != "" {
		if err := materials.LoadPalette(cfg.PalettePath); err != nil {
			return nil, fmt.Errorf("palette: %w", err)
		}
	}
	logging.Logger().Info("config loaded",
		"voxel_size", cfg.VoxelSize,
		"policy", cfg.MeshPolicy,
		"materials", len(materials.Materials()))

	return world.New(world.WithConfig(cfg), world.WithMaterials(materials)), nil
}

func printMetrics() error {
	families, err := profiling.Registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			label := ""
			for _, lp := range m.GetLabel() {
				label += lp.GetName() + "=" + lp.GetValue() + " "
			}
			switch {
			case m.GetCounter() != nil:
				fmt.Printf("%s{%s} %g\n", mf.GetName(), label, m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				fmt.Printf("%s{%s} count=%d sum=%.6fs\n", mf.GetName(), label, h.GetSampleCount(), h.GetSampleSum())
			}
		}
	}
	return nil
}
