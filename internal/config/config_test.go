package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "cfg.json", `{"skeleton": "rig.skel", "render_size": 128, "loop": true}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "rig.skel", cfg.SkeletonPath)
	assert.Equal(t, 128, cfg.RenderSize)
	assert.True(t, cfg.Loop)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "cfg.toml", "skeleton = \"rig.skel\"\nanim = \"walk.ani\"\ncamera = \"side\"\nframe_step_ms = 40\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "walk.ani", cfg.AnimPath)
	assert.Equal(t, "side", cfg.Camera)
	assert.Equal(t, 40, cfg.FrameStepMS)
}

func TestActionOverride(t *testing.T) {
	cfg, err := Load(writeFile(t, "cfg.toml", "skeleton = \"hero.bmd\"\naction = 2\n"))
	require.NoError(t, err)

	cfg.Resolve(Flags{})
	assert.Equal(t, 2, cfg.Action)

	cfg.Resolve(Flags{Action: 5})
	assert.Equal(t, 5, cfg.Action)
	assert.NoError(t, cfg.Validate())

	cfg.Action = -1
	assert.ErrorContains(t, cfg.Validate(), "negative action")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.json"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.json", "{"))
	assert.ErrorContains(t, err, "config: parse")
}

func TestResolvePrecedenceAndDefaults(t *testing.T) {
	cfg := Config{BaseDir: "/data", SkeletonPath: "rig.skel", RenderSize: 64, Format: "TGA"}
	cfg.Resolve(Flags{AnimPath: "/abs/walk.ani", Size: 512})

	assert.Equal(t, filepath.Join("/data", "rig.skel"), cfg.SkeletonPath)
	assert.Equal(t, "/abs/walk.ani", cfg.AnimPath)
	assert.Equal(t, filepath.Join("/data", "renders"), cfg.OutputDir)
	assert.Equal(t, 512, cfg.RenderSize)
	assert.Equal(t, "tga", cfg.Format)
	assert.Equal(t, "iso", cfg.Camera)
	assert.Equal(t, 2, cfg.Supersample)
	assert.Equal(t, 33, cfg.FrameStepMS)
	assert.Positive(t, cfg.Workers)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := Config{}
	cfg.Resolve(Flags{})
	assert.Error(t, cfg.Validate())

	cfg.SkeletonPath = "rig.skel"
	cfg.Format = "png"
	assert.ErrorContains(t, cfg.Validate(), "png")
}
