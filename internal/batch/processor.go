package batch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"bonerig/internal/mathutil"
	"bonerig/internal/postprocess"
	"bonerig/internal/raster"
	"bonerig/internal/skeleton"
)

// Config holds all shared resources for a batch run.
type Config struct {
	// Skeleton is the template rig. It is only cloned, never animated, so
	// each worker owns a private copy.
	Skeleton *skeleton.Skeleton
	// Source is shared by all workers and must be safe for concurrent reads;
	// anim.Clip and anim.Pose are. Nil renders the rest pose.
	Source skeleton.AnimationSource

	View        mathutil.Mat3
	OutputDir   string
	Format      string
	RenderSize  int
	Supersample int
	Workers     int

	// Pick, when set, is tested against every frame; the first bone hit is
	// highlighted and reported.
	Pick *mathutil.Ray

	Logger *slog.Logger
}

// Frame is one sample time of the animation.
type Frame struct {
	Index int
	Time  time.Duration
}

// Frames samples [0, duration] every step. The last frame lands on duration
// even when step does not divide it. A zero duration yields one frame.
func Frames(duration, step time.Duration) []Frame {
	if step <= 0 || duration <= 0 {
		return []Frame{{Index: 0, Time: 0}}
	}
	var frames []Frame
	for t := time.Duration(0); t < duration; t += step {
		frames = append(frames, Frame{Index: len(frames), Time: t})
	}
	return append(frames, Frame{Index: len(frames), Time: duration})
}

// Result holds the outcome of rendering one frame.
type Result struct {
	Frame   Frame
	File    string
	Picked  int
	Success bool
	Error   string
}

// Run renders all frames using a worker pool.
func Run(cfg Config, frames []Frame) []Result {
	total := len(frames)
	results := make([]Result, total)
	var processed atomic.Int64

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					log.Info("progress", "done", p, "total", total, "fps", float64(p)/elapsed)
				}
			}
		}
	}()

	// Worker pool
	frameChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rig := cfg.Skeleton.Clone()
			rig.SetAnim(cfg.Source)
			for idx := range frameChan {
				results[idx] = renderFrame(cfg, rig, frames[idx])
				if !results[idx].Success {
					log.Warn("frame failed", "frame", frames[idx].Index, "error", results[idx].Error)
				}
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range frames {
		frameChan <- i
	}
	close(frameChan)

	wg.Wait()
	close(done)

	log.Info("batch finished", "frames", total, "elapsed", time.Since(start).Round(time.Millisecond))
	return results
}

func renderFrame(cfg Config, rig *skeleton.Skeleton, f Frame) Result {
	res := Result{Frame: f, Picked: -1}

	rig.Animate(f.Time)

	if cfg.Pick != nil {
		if i, ok := rig.IntersectRay(*cfg.Pick); ok {
			res.Picked = i
		}
	}

	img := raster.RenderPose(rig, cfg.View, raster.Options{
		Size:        cfg.RenderSize,
		Supersample: cfg.Supersample,
		Margin:      8,
		Highlight:   res.Picked,
	})
	if cfg.Supersample > 1 {
		img = postprocess.Downsample(img, cfg.RenderSize)
	}

	name := fmt.Sprintf("frame_%04d.%s", f.Index, cfg.Format)
	outPath := filepath.Join(cfg.OutputDir, name)
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		res.Error = err.Error()
		return res
	}

	out, err := os.Create(outPath)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer out.Close()

	if err := Encode(out, img, cfg.Format); err != nil {
		res.Error = err.Error()
		return res
	}

	res.File = name
	res.Success = true
	return res
}
