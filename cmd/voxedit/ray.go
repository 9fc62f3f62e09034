package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"voxedit/internal/world"
)

// parseRay reads "ox,oy,oz/dx,dy,dz". The direction is normalized.
func parseRay(s string) (origin, dir mgl64.Vec3, err error) {
	o, d, ok := strings.Cut(s, "/")
	if !ok {
		return origin, dir, fmt.Errorf("ray %q: want origin/direction", s)
	}
	if origin, err = parseVec3(o); err != nil {
		return origin, dir, fmt.Errorf("ray origin: %w", err)
	}
	if dir, err = parseVec3(d); err != nil {
		return origin, dir, fmt.Errorf("ray direction: %w", err)
	}
	if dir.Len() == 0 {
		return origin, dir, fmt.Errorf("ray %q: zero direction", s)
	}
	return origin, dir.Normalize(), nil
}

func parseVec3(s string) (mgl64.Vec3, error) {
	var v mgl64.Vec3
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return v, fmt.Errorf("%q: want three components", s)
	}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return v, fmt.Errorf("%q: %w", s, err)
		}
		v[i] = f
	}
	return v, nil
}

func printHit(w *world.World, origin, dir mgl64.Vec3) {
	hit, ok := w.Raycast(origin, dir)
	if !ok {
		fmt.Println("ray: no hit")
		return
	}
	if hit.Ground {
		fmt.Printf("ray: ground at %.3f,%.3f,%.3f place=%s dist=%.3f\n",
			hit.WorldPoint.X(), hit.WorldPoint.Y(), hit.WorldPoint.Z(), hit.AdjacentPos, hit.Distance)
		return
	}
	name := hit.LayerID
	if l, ok := w.Layer(hit.LayerID); ok {
		name = l.Name()
	}
	fmt.Printf("ray: voxel %s tag=%d layer=%s baked=%t normal=%s place=%s dist=%.3f\n",
		hit.VoxelPos, hit.Tag, name, hit.Baked, hit.Normal, hit.AdjacentPos, hit.Distance)
}
