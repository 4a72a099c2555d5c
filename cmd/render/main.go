package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bonerig/internal/anim"
	"bonerig/internal/batch"
	"bonerig/internal/bmd"
	"bonerig/internal/config"
	"bonerig/internal/mathutil"
	"bonerig/internal/skeleton"
	"bonerig/internal/viewmatrix"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json or .toml)")
	skelPath := flag.String("skeleton", "", "Skeleton file")
	animPath := flag.String("anim", "", "Animation clip (default: rest pose only)")
	outputDir := flag.String("output", "", "Output directory (default: renders/ next to the skeleton)")
	format := flag.String("format", "", "Output format: webp or tga (default: webp)")
	camera := flag.String("camera", "", "Camera preset: front, side, top, iso, zup (default: iso)")
	size := flag.Int("size", 0, "Output edge in pixels (default: 256)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	step := flag.Int("step", 0, "Milliseconds between frames (default: 33)")
	action := flag.Int("action", 0, "Embedded action to play when the skeleton is a .bmd model")
	pick := flag.String("pick", "", "Ray ox,oy,oz,dx,dy,dz; the first bone hit is highlighted")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			log.Error("loading config", "error", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		SkeletonPath: *skelPath,
		AnimPath:     *animPath,
		OutputDir:    *outputDir,
		Format:       *format,
		Camera:       *camera,
		Size:         *size,
		Workers:      *workers,
		FrameStepMS:  *step,
		Action:       *action,
	})
	if err := cfg.Validate(); err != nil {
		log.Error("invalid settings", "error", err)
		os.Exit(1)
	}

	view, err := viewmatrix.Camera(cfg.Camera)
	if err != nil {
		log.Error("camera", "error", err)
		os.Exit(1)
	}

	var ray *mathutil.Ray
	if *pick != "" {
		r, err := mathutil.ParseRay(*pick)
		if err != nil {
			log.Error("pick ray", "error", err)
			os.Exit(1)
		}
		ray = &r
	}

	skel, model, err := loadSkeleton(cfg.SkeletonPath)
	if err != nil {
		log.Error("loading skeleton", "error", err)
		os.Exit(1)
	}
	log.Debug("skeleton loaded", "path", cfg.SkeletonPath, "bones", skel.Len(), "roots", len(skel.Roots()))

	// Without a clip the single frame shows the rest pose.
	var clip *anim.Clip
	switch {
	case cfg.AnimPath != "":
		clip, err = anim.Load(cfg.AnimPath)
		if err != nil {
			log.Error("loading animation", "error", err)
			os.Exit(1)
		}
	case model != nil && cfg.Action < len(model.Actions):
		clip, err = model.Clip(cfg.Action, bmd.DefaultFrameTime)
		if err != nil {
			log.Error("converting action", "error", err)
			os.Exit(1)
		}
	case model != nil:
		log.Warn("model has no such action, rendering rest pose", "action", cfg.Action, "actions", len(model.Actions))
	}

	var src skeleton.AnimationSource
	var duration time.Duration
	if clip != nil {
		clip.Loop = cfg.Loop
		src = clip
		duration = clip.Duration
		for _, tr := range clip.Tracks() {
			if skel.BoneIndex(tr.Bone) < 0 {
				log.Warn("track has no matching bone", "bone", tr.Bone)
			}
		}
	}

	frames := batch.Frames(duration, time.Duration(cfg.FrameStepMS)*time.Millisecond)

	fmt.Printf("Skeleton: %s (%d bones)\n", cfg.SkeletonPath, skel.Len())
	fmt.Printf("Frames: %d, Workers: %d, Camera: %s\n", len(frames), cfg.Workers, cfg.Camera)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	results := batch.Run(batch.Config{
		Skeleton:    skel,
		Source:      src,
		View:        view,
		OutputDir:   cfg.OutputDir,
		Format:      cfg.Format,
		RenderSize:  cfg.RenderSize,
		Supersample: cfg.Supersample,
		Workers:     cfg.Workers,
		Pick:        ray,
		Logger:      log,
	}, frames)

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", time.Since(start).Seconds())

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}
	fmt.Printf("Rendered: %d/%d\n", len(results)-failed, len(results))

	manifest := batch.BuildManifest(cfg.SkeletonPath, cfg.AnimPath, skel.Len(), results, func(i int) string {
		return skel.Bone(i).Name
	})
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		log.Warn("manifest dir", "error", err)
	} else if err := batch.WriteManifest(manifestPath, manifest); err != nil {
		log.Warn("manifest write failed", "error", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// loadSkeleton reads a skeleton file, importing BMD models on the fly. The
// model is returned so its actions can be played.
func loadSkeleton(path string) (*skeleton.Skeleton, *bmd.Model, error) {
	if !strings.EqualFold(filepath.Ext(path), ".bmd") {
		skel, err := skeleton.Load(path)
		return skel, nil, err
	}
	m, err := bmd.Parse(path)
	if err != nil {
		return nil, nil, err
	}
	skel, err := m.Skeleton()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return skel, m, nil
}
