package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/rendertest"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderpass"
	"github.com/Carmen-Shannon/oxy-shadow/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAppliesDefaults(t *testing.T) {
	cfg, err := Read(strings.NewReader(`
workers = 4

[shadow]
resolution = 2048
depth_cutoff = 20
`))
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 2048, cfg.Shadow.Resolution)
	assert.Equal(t, float32(20), cfg.Shadow.DepthCutoff)
	assert.Equal(t, float32(25), cfg.Shadow.ShadowCutoff)
	assert.Equal(t, "oxy-shadow", cfg.Window.Title)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, float64(60), cfg.Engine.TickRate)
	assert.False(t, cfg.Engine.Profiling)
}

func TestReadEmptyIsDefault(t *testing.T) {
	cfg, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, renderer.DefaultShadowMapResolution, cfg.Shadow.Resolution)
}

func TestReadRejectsUnknownKeys(t *testing.T) {
	_, err := Read(strings.NewReader(`
[shadow]
resolutoin = 2048
`))
	assert.Error(t, err)
}

func TestReadRejectsMalformed(t *testing.T) {
	_, err := Read(strings.NewReader(`[shadow`))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Workers = -1
	cfg.Shadow.Resolution = 16384
	cfg.Window.Height = -5
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "workers")
	assert.Contains(t, err.Error(), "shadow.resolution")
	assert.Contains(t, err.Error(), "window.height")
}

func TestReadReportsInvalidValues(t *testing.T) {
	_, err := Read(strings.NewReader(`
[shadow]
light_distance = -10
`))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestSaveThenOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.toml")
	cfg := Default()
	cfg.Workers = 2
	cfg.Engine.Profiling = true
	cfg.Shadow.DepthCutoff = 20
	cfg.Shadow.ShadowCutoff = 20
	require.NoError(t, Save(cfg, path))

	got, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestPassOptions(t *testing.T) {
	cfg := Default()
	cfg.Shadow.Resolution = 512
	cfg.Shadow.DepthCutoff = 20
	cfg.Shadow.ShadowCutoff = 30
	cfg.Shadow.LightDistance = 80

	s := scene.NewScene("test", rendertest.NewRecorder())
	l := light.NewShadowSceneLight(s, "sun", cfg.LightOptions()...)
	assert.Equal(t, float32(80), l.Distance())

	depth := renderpass.NewLoDDepthRenderPass(l, cfg.DepthPassOptions()...)
	assert.Equal(t, 512, depth.Resolution())

	shadow := renderpass.NewLoDShadowMapRenderPass(l, depth, cfg.ShadowPassOptions()...)
	cutoff, lod := shadow.Cutoff()
	assert.True(t, lod)
	assert.Equal(t, float32(900), cutoff)
}
