package main

import (
	"flag"
	"fmt"
	"os"

	"voxedit/internal/layerio"
	"voxedit/internal/profiling"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML config file (defaults to $VOXEDIT_CONFIG)")
		inPath     = flag.String("in", "", "layer document to load (.json or .json.zst)")
		outPath    = flag.String("out", "", "write the scene document here (.zst suffix compresses)")
		demo       = flag.Bool("demo", false, "build the demo scene instead of loading -in")
		ray        = flag.String("ray", "", `pick ray "ox,oy,oz/dx,dy,dz"`)
		policy     = flag.String("policy", "", "mesh policy override: greedy or naive")
		metrics    = flag.Bool("metrics", false, "print the collected metric families")
	)
	flag.Parse()

	if err := run(options{
		configPath: *configPath,
		inPath:     *inPath,
		outPath:    *outPath,
		demo:       *demo,
		ray:        *ray,
		policy:     *policy,
		metrics:    *metrics,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "voxedit:", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	inPath     string
	outPath    string
	demo       bool
	ray        string
	policy     string
	metrics    bool
}

func run(opts options) error {
	w, err := setupWorld(opts)
	if err != nil {
		return err
	}
	defer w.Close()

	switch {
	case opts.inPath != "":
		doc, err := layerio.ReadFile(opts.inPath)
		if err != nil {
			return err
		}
		if err := w.ImportDocument(doc); err != nil {
			return fmt.Errorf("import %s: %w", opts.inPath, err)
		}
	case opts.demo:
		buildDemo(w)
	}

	mesh := w.Recompute()
	fmt.Printf("layers: %d  active: %s\n", len(w.Layers()), w.ActiveLayerID())
	for _, l := range w.Layers() {
		fmt.Printf("  %-12s voxels=%-6d visible=%-5t locked=%-5t baked=%t\n",
			l.Name(), l.Len(), l.Visible(), l.Locked(), l.Baked())
	}
	if b, ok := w.Bounds(); ok {
		fmt.Printf("bounds: %s .. %s\n", b.Min, b.Max)
	}
	fmt.Printf("mesh: voxels=%d faces=%d vertices=%d policy=%s\n",
		mesh.Metadata.OriginalVoxelCount, mesh.Metadata.FaceCount,
		mesh.Metadata.VertexCount, w.Extractor().Policy())

	if opts.ray != "" {
		origin, dir, err := parseRay(opts.ray)
		if err != nil {
			return err
		}
		printHit(w, origin, dir)
	}

	if opts.outPath != "" {
		if err := layerio.WriteFile(opts.outPath, w.ExportDocument()); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", opts.outPath)
	}

	fmt.Printf("timings: %s\n", profiling.TopN(5))
	if opts.metrics {
		return printMetrics()
	}
	return nil
}
