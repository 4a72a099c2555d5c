package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bonerig/internal/bmd"
)

func main() {
	outDir := flag.String("out", "", "Output directory (default: next to the input)")
	action := flag.Int("action", -1, "Export only this action index (default: all)")
	frame := flag.Duration("frame", bmd.DefaultFrameTime, "Time between action keys")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: bmd2skel [-out dir] [-action n] [-frame d] model.bmd...")
		os.Exit(2)
	}

	failed := 0
	for _, path := range flag.Args() {
		if err := convert(log, path, *outDir, *action, *frame); err != nil {
			log.Error("convert failed", "file", path, "error", err)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func convert(log *slog.Logger, path, outDir string, action int, frame time.Duration) error {
	m, err := bmd.Parse(path)
	if err != nil {
		return err
	}
	skel, err := m.Skeleton()
	if err != nil {
		return err
	}

	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	base := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

	if err := skel.Save(base + ".skel"); err != nil {
		return err
	}
	log.Info("wrote skeleton", "file", base+".skel", "bones", skel.Len(), "actions", len(m.Actions))

	for a := range m.Actions {
		if action >= 0 && a != action {
			continue
		}
		if m.Actions[a].Keys == 0 {
			continue
		}
		clip, err := m.Clip(a, frame)
		if err != nil {
			return err
		}
		out := fmt.Sprintf("%s_%02d.bani", base, a)
		if err := clip.Save(out); err != nil {
			return err
		}
		log.Info("wrote clip", "file", out, "keys", m.Actions[a].Keys, "duration", clip.Duration)
	}
	return nil
}
