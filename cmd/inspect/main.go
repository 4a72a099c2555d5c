package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"bonerig/internal/anim"
	"bonerig/internal/mathutil"
	"bonerig/internal/raster"
	"bonerig/internal/skeleton"
	"bonerig/internal/viewmatrix"
)

func main() {
	animPath := flag.String("anim", "", "Animation clip to pose the skeleton with")
	at := flag.Duration("time", 0, "Sample time, e.g. 250ms")
	ray := flag.String("ray", "", "Ray ox,oy,oz,dx,dy,dz to test against every bone")
	pixel := flag.String("pixel", "", "Canvas pixel x,y to cast a pick ray through (see -camera, -size)")
	camera := flag.String("camera", "iso", "Camera preset used with -pixel")
	size := flag.Int("size", 256, "Canvas edge in pixels used with -pixel")
	matrix := flag.Bool("matrix", false, "Print each bone's world matrix")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: inspect [-anim clip] [-time d] [-ray ox,oy,oz,dx,dy,dz | -pixel x,y] skeleton")
		os.Exit(2)
	}

	skel, err := skeleton.Load(flag.Arg(0))
	if err != nil {
		log.Error("loading skeleton", "error", err)
		os.Exit(1)
	}

	if *animPath != "" {
		clip, err := anim.Load(*animPath)
		if err != nil {
			log.Error("loading animation", "error", err)
			os.Exit(1)
		}
		skel.SetAnim(clip)
	}
	skel.Animate(*at)

	fmt.Printf("=== %s (bones=%d roots=%d) at %v ===\n", flag.Arg(0), skel.Len(), len(skel.Roots()), *at)
	for _, root := range skel.Roots() {
		printTree(skel, root, 0, *matrix)
	}

	var r *mathutil.Ray
	switch {
	case *ray != "":
		parsed, err := mathutil.ParseRay(*ray)
		if err != nil {
			log.Error("ray", "error", err)
			os.Exit(1)
		}
		r = &parsed
	case *pixel != "":
		cast, err := pixelRay(skel, *pixel, *camera, *size)
		if err != nil {
			log.Error("pixel", "error", err)
			os.Exit(1)
		}
		fmt.Printf("pixel %s -> ray origin=(%.3f,%.3f,%.3f) dir=(%.3f,%.3f,%.3f)\n", *pixel,
			cast.Origin[0], cast.Origin[1], cast.Origin[2], cast.Dir[0], cast.Dir[1], cast.Dir[2])
		r = &cast
	}
	if r != nil {
		printHits(skel, *r)
	}
}

// pixelRay casts through a pixel of the canvas the render tool would draw
// for the current pose.
func pixelRay(skel *skeleton.Skeleton, pixel, camera string, size int) (mathutil.Ray, error) {
	var x, y float64
	if _, err := fmt.Sscanf(pixel, "%g,%g", &x, &y); err != nil {
		return mathutil.Ray{}, fmt.Errorf("parse %q: want x,y", pixel)
	}
	view, err := viewmatrix.Camera(camera)
	if err != nil {
		return mathutil.Ray{}, err
	}
	proj := raster.FitPose(skel, view, size, 8)
	return proj.Unproject(x+0.5, y+0.5), nil
}

func printHits(skel *skeleton.Skeleton, r mathutil.Ray) {
	fmt.Println("--- RAY HITS ---")
	hits := 0
	for i := range skel.Bones() {
		b := &skel.Bones()[i]
		if !b.IntersectRay(r) {
			continue
		}
		t, p, _ := r.Entry(b.WorldBox)
		fmt.Printf("  [%d] %s entry t=%.3f at (%.3f,%.3f,%.3f)\n", b.Index, b.Name, t, p[0], p[1], p[2])
		hits++
	}
	if hits == 0 {
		fmt.Println("  none")
	}
}

func printTree(skel *skeleton.Skeleton, idx, depth int, matrix bool) {
	b := skel.Bone(idx)
	w := b.WorldBox
	fmt.Printf("%s[%d] %s rest=%g pos=(%.3f,%.3f,%.3f) box=(%.2f,%.2f,%.2f)..(%.2f,%.2f,%.2f)\n",
		strings.Repeat("  ", depth), b.Index, b.Name, b.RestOffset,
		b.AnimPos[0], b.AnimPos[1], b.AnimPos[2],
		w.Min[0], w.Min[1], w.Min[2], w.Max[0], w.Max[1], w.Max[2])
	if matrix {
		m := b.World().Mat4()
		for r := 0; r < 3; r++ {
			fmt.Printf("%s    | %8.4f %8.4f %8.4f %8.4f |\n", strings.Repeat("  ", depth),
				m[r*4], m[r*4+1], m[r*4+2], m[r*4+3])
		}
	}
	for _, c := range b.Children {
		printTree(skel, c, depth+1, matrix)
	}
}
