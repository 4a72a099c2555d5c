package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config holds input paths and render settings for the pose tools.
type Config struct {
	// Paths
	BaseDir      string `json:"base_dir" toml:"base_dir"`
	SkeletonPath string `json:"skeleton" toml:"skeleton"`
	AnimPath     string `json:"anim" toml:"anim"`
	OutputDir    string `json:"output_dir" toml:"output_dir"`

	// Render settings
	Format      string `json:"format" toml:"format"` // "webp" or "tga"
	Camera      string `json:"camera" toml:"camera"` // "front", "side", "top", "iso"
	RenderSize  int    `json:"render_size" toml:"render_size"`
	Supersample int    `json:"supersample" toml:"supersample"`
	Workers     int    `json:"workers" toml:"workers"`

	// Playback
	FrameStepMS int  `json:"frame_step_ms" toml:"frame_step_ms"`
	Loop        bool `json:"loop" toml:"loop"`

	// Action selects the embedded animation when the skeleton is a BMD
	// model and no separate clip is given.
	Action int `json:"action" toml:"action"`
}

// Load reads a JSON or TOML config file, chosen by extension.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	SkeletonPath string
	AnimPath     string
	OutputDir    string
	Format       string
	Camera       string
	Size         int
	Workers      int
	FrameStepMS  int
	Action       int
}

// Resolve applies flags over file values, resolves relative paths against
// BaseDir and fills remaining defaults.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.SkeletonPath != "" {
		c.SkeletonPath = flags.SkeletonPath
	}
	if flags.AnimPath != "" {
		c.AnimPath = flags.AnimPath
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Camera != "" {
		c.Camera = flags.Camera
	}
	if flags.Size > 0 {
		c.RenderSize = flags.Size
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.FrameStepMS > 0 {
		c.FrameStepMS = flags.FrameStepMS
	}
	if flags.Action > 0 {
		c.Action = flags.Action
	}

	if c.BaseDir != "" {
		c.SkeletonPath = resolvePath(c.BaseDir, c.SkeletonPath)
		c.AnimPath = resolvePath(c.BaseDir, c.AnimPath)
		c.OutputDir = resolvePath(c.BaseDir, c.OutputDir)
	}
	if c.OutputDir == "" {
		c.OutputDir = "renders"
		if c.SkeletonPath != "" {
			c.OutputDir = filepath.Join(filepath.Dir(c.SkeletonPath), "renders")
		}
	}

	c.Format = strings.ToLower(c.Format)
	if c.Format == "" {
		c.Format = "webp"
	}
	if c.Camera == "" {
		c.Camera = "iso"
	}
	if c.RenderSize <= 0 {
		c.RenderSize = 256
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.FrameStepMS <= 0 {
		c.FrameStepMS = 33
	}
}

// Validate reports settings Resolve cannot repair.
func (c *Config) Validate() error {
	if c.SkeletonPath == "" {
		return fmt.Errorf("config: no skeleton file given")
	}
	switch c.Format {
	case "webp", "tga":
	default:
		return fmt.Errorf("config: unknown output format %q", c.Format)
	}
	if c.Action < 0 {
		return fmt.Errorf("config: negative action %d", c.Action)
	}
	return nil
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
