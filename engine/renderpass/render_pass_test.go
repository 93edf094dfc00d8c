package renderpass

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/Carmen-Shannon/oxy-shadow/engine/camera"
	"github.com/Carmen-Shannon/oxy-shadow/engine/component"
	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/rendertest"
	"github.com/Carmen-Shannon/oxy-shadow/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	rec   *rendertest.Recorder
	s     scene.Scene
	cam   *camera.SceneCamera
	light *light.ShadowSceneLight
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	rec := rendertest.NewRecorder()
	s := scene.NewScene("test", rec)
	cam := camera.NewSceneCamera(s, "main", camera.WithTarget(mgl32.Vec3{1, 0, 0}))
	s.SetMainCamera(cam)
	l := light.NewShadowSceneLight(s, "sun", light.WithDirection(mgl32.Vec3{-50, -30, 50}))
	s.Update(0)
	return &fixture{rec: rec, s: s, cam: cam, light: l}
}

// addCube places a 2x2x2 cube centered at x on the X axis. Seen from the origin its squared
// box distance is (x-1)^2.
func (fx *fixture) addCube(t *testing.T, name string, x float32, options ...component.ComponentBuilderOption) *component.Cube {
	t.Helper()
	a := fx.s.NewActor(name)
	a.Position = mgl32.Vec3{x, 0, 0}
	c := component.NewCube(fx.rec, mgl32.Vec3{2, 2, 2}, renderer.Material{Tint: common.ColorWhite}, options...)
	require.True(t, a.AddComponent(c))
	a.Update(0)
	return c
}

func drawsOf(rec *rendertest.Recorder, p *Pass) []rendertest.Draw {
	var out []rendertest.Draw
	for _, d := range rec.Draws() {
		if d.Program == p.Shader().Program() {
			out = append(out, d)
		}
	}
	return out
}

func xs(draws []rendertest.Draw) []float32 {
	out := make([]float32, len(draws))
	for i, d := range draws {
		out[i] = d.Position[0]
	}
	return out
}

var casts = component.WithShadowCasting(scene.Shadow)

func TestLoDDepthPassDropsFarCasters(t *testing.T) {
	fx := newFixture(t)
	fx.addCube(t, "near", 11, casts)
	fx.addCube(t, "mid", 21, casts)
	fx.addCube(t, "far", 31, casts)

	depth := NewLoDDepthRenderPass(fx.light)
	require.NoError(t, depth.Create(fx.s))
	defer depth.Release()

	stats, err := depth.DrawShadowMap()
	require.NoError(t, err)
	assert.Equal(t, FrameStats{Queued: 2, Skipped: 1}, stats)
	assert.Equal(t, stats, depth.LastStats())

	draws := drawsOf(fx.rec, depth.Pass)
	require.Len(t, draws, 2)
	assert.Equal(t, []float32{11, 21}, xs(draws))
	for _, d := range draws {
		assert.Equal(t, depth.ShadowMap().ID, d.Target)
		assert.Equal(t, int32(1), d.Uniforms["alphaTest"])
		assert.Equal(t, fx.light.ViewMatrix(), d.View)
	}
}

func TestLoDDepthPassCutoffOption(t *testing.T) {
	fx := newFixture(t)
	fx.addCube(t, "near", 11, casts)
	fx.addCube(t, "mid", 21, casts)

	depth := NewLoDDepthRenderPass(fx.light, WithCutoff(20*20-1))
	require.NoError(t, depth.Create(fx.s))
	defer depth.Release()

	stats, err := depth.DrawShadowMap()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Queued)
	assert.Equal(t, 1, stats.Skipped)
}

func TestDepthPassQueuesOnlyShadowCasters(t *testing.T) {
	fx := newFixture(t)
	fx.addCube(t, "caster", 11, casts)
	fx.addCube(t, "alpha", 12, component.WithShadowCasting(scene.ShadowWithAlpha))
	fx.addCube(t, "plain", 13)

	depth := NewDepthRenderPass(fx.light)
	require.NoError(t, depth.Create(fx.s))
	defer depth.Release()

	stats, err := depth.DrawShadowMap()
	require.NoError(t, err)
	assert.Equal(t, FrameStats{Queued: 2, Rejected: 1}, stats)
}

func TestDepthPassNarrowedByUserPolicy(t *testing.T) {
	fx := newFixture(t)
	fx.addCube(t, "keep", 11, casts)
	fx.addCube(t, "drop", 12, casts)

	onlyKeep := AcceptFunc(func(_ *Frame, _ scene.Component, owner scene.Node) bool {
		return owner.Name() == "keep"
	})
	depth := NewDepthRenderPass(fx.light, WithAcceptPolicy(onlyKeep))
	require.NoError(t, depth.Create(fx.s))
	defer depth.Release()

	stats, err := depth.DrawShadowMap()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Queued)
	assert.Equal(t, 1, stats.Rejected)
}

func TestShadowMapLifecycle(t *testing.T) {
	fx := newFixture(t)
	fx.addCube(t, "caster", 11, casts)

	depth := NewDepthRenderPass(fx.light, WithShadowMapResolution(512))
	require.NoError(t, depth.Create(fx.s))

	target := depth.ShadowMap()
	require.True(t, target.Valid())
	assert.Equal(t, uint32(512), target.Descriptor.Width)
	assert.Contains(t, fx.rec.LiveDepthTargets(), target.ID)

	require.NoError(t, depth.BeginShadowMap())
	assert.Error(t, depth.BeginShadowMap())
	depth.EndShadowMap()
	depth.EndShadowMap()

	calls := fx.rec.Calls()
	assert.Subset(t, calls, []string{"ClearDepth", "BeginMode3D", "EndMode3D", "UnbindDepthTarget"})

	depth.Release()
	assert.Empty(t, fx.rec.LiveDepthTargets())
	assert.False(t, depth.ShadowMap().Valid())
	assert.ErrorIs(t, depth.BeginShadowMap(), ErrNotCreated)
}

func TestBeginShadowMapAimsLightAtFocus(t *testing.T) {
	fx := newFixture(t)
	depth := NewDepthRenderPass(fx.light)
	require.NoError(t, depth.Create(fx.s))
	defer depth.Release()

	focus := mgl32.Vec3{4, 0, -2}
	depth.SetFocus(focus)
	require.NoError(t, depth.BeginShadowMap())
	depth.EndShadowMap()

	want := focus.Sub(fx.light.Direction().Mul(light.DefaultLightDistance))
	got := fx.light.Position()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-3)
	}
	assert.Equal(t, fx.light.ProjectionMatrix().Mul4(fx.light.ViewMatrix()), fx.light.LightViewProj())
}

func TestShadowScenarioReceiveShadowPerDraw(t *testing.T) {
	fx := newFixture(t)
	fx.addCube(t, "near", 11, casts, component.WithReceiveShadow(true))
	fx.addCube(t, "edge", 21, casts, component.WithReceiveShadow(true))
	fx.addCube(t, "far", 31, casts, component.WithReceiveShadow(true))
	fx.addCube(t, "unlit", 16, casts)

	depth := NewLoDDepthRenderPass(fx.light, WithCutoff(400))
	shadow := NewLoDShadowMapRenderPass(fx.light, depth, WithCutoff(400))
	require.NoError(t, depth.Create(fx.s))
	require.NoError(t, shadow.Create(fx.s))
	defer depth.Release()
	defer shadow.Release()

	_, err := depth.DrawShadowMap()
	require.NoError(t, err)
	stats, err := shadow.DrawFrame(nil)
	require.NoError(t, err)
	assert.Equal(t, FrameStats{Queued: 4}, stats)

	draws := drawsOf(fx.rec, shadow.Pass)
	require.Len(t, draws, 4)
	assert.Equal(t, []float32{11, 16, 21, 31}, xs(draws))

	receive := map[float32]int32{}
	for _, d := range draws {
		receive[d.Position[0]] = d.Uniforms["receiveShadow"].(int32)
		assert.Equal(t, uint32(0), d.Target)
		assert.Equal(t, fx.light.LightViewProj(), d.Uniforms["lightVP"])
		assert.Equal(t, int32(light.ShadowMapTextureSlot), d.Uniforms["shadowMap"])
		assert.Equal(t, fx.light.Direction(), d.Uniforms["lightDir"])
		assert.Equal(t, int32(renderer.DefaultShadowMapResolution), d.Uniforms["shadowMapResolution"])
		assert.Equal(t, fx.cam.Position(), d.Uniforms["viewPos"])
	}
	assert.Equal(t, map[float32]int32{11: 1, 16: 0, 21: 1, 31: 0}, receive)
	assert.Equal(t, depth.ShadowMap().Texture, fx.rec.BoundTexture(light.ShadowMapTextureSlot))
}

func TestPlainShadowPassKeepsFarReceivers(t *testing.T) {
	fx := newFixture(t)
	fx.addCube(t, "far", 31, component.WithReceiveShadow(true))

	depth := NewDepthRenderPass(fx.light)
	shadow := NewShadowMapRenderPass(fx.light, depth)
	require.NoError(t, depth.Create(fx.s))
	require.NoError(t, shadow.Create(fx.s))
	defer depth.Release()
	defer shadow.Release()

	_, err := shadow.DrawFrame(nil)
	require.NoError(t, err)
	draws := drawsOf(fx.rec, shadow.Pass)
	require.Len(t, draws, 1)
	assert.Equal(t, int32(1), draws[0].Uniforms["receiveShadow"])
	_, lod := shadow.Cutoff()
	assert.False(t, lod)
}

func TestRenderBucketOrderAndAlphaState(t *testing.T) {
	fx := newFixture(t)
	fx.addCube(t, "overlay", 5, component.WithQueue(scene.QueueOverlay), component.WithBlendMode(pipeline.BlendMultiplied))
	fx.addCube(t, "glass-near", 11, component.WithQueue(scene.QueueAlphaBlend), component.WithBlendMode(pipeline.BlendAdditive))
	fx.addCube(t, "glass-far", 21, component.WithQueue(scene.QueueAlphaBlend), component.WithBlendMode(pipeline.BlendAdditive))
	fx.addCube(t, "solid-far", 31)
	fx.addCube(t, "cutout", 15, component.WithQueue(scene.QueueAlphaTest))
	fx.addCube(t, "sky", 41, component.WithQueue(scene.QueueBackground))

	p := NewPass("plain", nil, Hooks{})
	require.NoError(t, p.Create(fx.s))
	defer p.Release()

	_, err := p.DrawFrame(nil)
	require.NoError(t, err)

	draws := fx.rec.Draws()
	require.Len(t, draws, 6)
	assert.Equal(t, []float32{41, 15, 31, 21, 11, 5}, xs(draws))

	for _, d := range draws[:3] {
		assert.True(t, d.State.DepthWriteEnabled())
		assert.False(t, d.State.BlendEnabled())
	}
	for _, d := range draws[3:5] {
		assert.False(t, d.State.DepthWriteEnabled())
		assert.Equal(t, wgpu.CullModeNone, d.State.CullMode())
		assert.True(t, d.State.BlendEnabled())
		assert.Equal(t, pipeline.BlendAdditive, d.State.BlendMode())
	}
	overlay := draws[5]
	assert.True(t, overlay.State.BlendEnabled())
	assert.Equal(t, pipeline.BlendMultiplied, overlay.State.BlendMode())
	assert.True(t, overlay.State.DepthWriteEnabled())

	depthMask, culling, blending := fx.rec.RasterState()
	assert.True(t, depthMask)
	assert.True(t, culling)
	assert.False(t, blending)
}

func TestOnePassAtATime(t *testing.T) {
	fx := newFixture(t)
	a := NewPass("a", nil, Hooks{})
	b := NewPass("b", nil, Hooks{})
	require.NoError(t, a.Create(fx.s))
	require.NoError(t, b.Create(fx.s))
	defer a.Release()
	defer b.Release()

	f, err := a.BeginScene(nil)
	require.NoError(t, err)

	_, err = b.BeginScene(nil)
	assert.ErrorIs(t, err, scene.ErrPassActive)

	assert.ErrorIs(t, b.Render(f), ErrForeignFrame)
	require.NoError(t, a.Render(f))
	require.NoError(t, a.EndScene(f))
	assert.True(t, f.Finished())

	assert.ErrorIs(t, a.Render(f), ErrFrameFinished)
	assert.ErrorIs(t, a.EndScene(f), ErrFrameFinished)

	_, err = b.DrawFrame(nil)
	assert.NoError(t, err)
}

func TestReleaseMidFrameFreesScene(t *testing.T) {
	fx := newFixture(t)
	fx.addCube(t, "caster", 5, casts)
	depth := NewDepthRenderPass(fx.light)
	other := NewPass("other", nil, Hooks{})
	require.NoError(t, depth.Create(fx.s))
	require.NoError(t, other.Create(fx.s))
	defer other.Release()

	f, err := depth.BeginScene(nil)
	require.NoError(t, err)
	require.True(t, fx.s.PassActive())

	depth.Release()
	assert.False(t, fx.s.PassActive())
	assert.True(t, f.Finished())
	assert.Contains(t, fx.rec.Calls(), "EndShader")
	assert.Equal(t, 0, fx.rec.LivePrograms())
	assert.Empty(t, fx.rec.LiveDepthTargets())

	assert.ErrorIs(t, depth.Render(f), ErrFrameFinished)
	assert.ErrorIs(t, depth.EndScene(f), ErrFrameFinished)

	_, err = other.DrawFrame(nil)
	assert.NoError(t, err)
}

func TestBeginSceneTypedNilOverrideFallsBack(t *testing.T) {
	fx := newFixture(t)
	plain := NewPass("plain", nil, Hooks{})
	require.NoError(t, plain.Create(fx.s))
	defer plain.Release()

	var none *camera.SceneCamera
	f, err := plain.BeginScene(none)
	require.NoError(t, err)
	assert.Equal(t, scene.Camera(fx.cam), f.Camera)
	require.NoError(t, plain.Render(f))
	require.NoError(t, plain.EndScene(f))

	lit := NewPass("lit", nil, Hooks{}, WithCamera(fx.light))
	require.NoError(t, lit.Create(fx.s))
	defer lit.Release()
	f, err = lit.BeginScene(none)
	require.NoError(t, err)
	assert.Equal(t, scene.Camera(fx.light), f.Camera)
	require.NoError(t, lit.EndScene(f))
}

func TestBeginSceneCameraSelection(t *testing.T) {
	fx := newFixture(t)
	other := camera.NewSceneCamera(fx.s, "other")

	plain := NewPass("plain", nil, Hooks{})
	lit := NewPass("lit", nil, Hooks{}, WithCamera(fx.light))
	require.NoError(t, plain.Create(fx.s))
	require.NoError(t, lit.Create(fx.s))
	defer plain.Release()
	defer lit.Release()

	f, err := plain.BeginScene(nil)
	require.NoError(t, err)
	assert.Equal(t, scene.Camera(fx.cam), f.Camera)
	assert.Nil(t, f.Hints.Camera)
	require.NoError(t, plain.EndScene(f))

	f, err = lit.BeginScene(nil)
	require.NoError(t, err)
	assert.Equal(t, scene.Camera(fx.light), f.Camera)
	assert.Equal(t, scene.Camera(fx.light), f.Hints.Camera)
	require.NoError(t, lit.EndScene(f))

	f, err = lit.BeginScene(other)
	require.NoError(t, err)
	assert.Equal(t, scene.Camera(other), f.Camera)
	require.NoError(t, lit.EndScene(f))
}

func TestCreateFailures(t *testing.T) {
	t.Run("shader", func(t *testing.T) {
		fx := newFixture(t)
		fx.rec.FailShaders[DefaultDepthVertexShader] = true
		depth := NewDepthRenderPass(fx.light)

		assert.False(t, depth.CreateOK(fx.s))
		assert.False(t, depth.Created())
		assert.Empty(t, fx.rec.LiveDepthTargets())

		_, err := depth.BeginScene(nil)
		assert.ErrorIs(t, err, ErrNotCreated)
		assert.False(t, fx.s.PassActive())
	})

	t.Run("depth target", func(t *testing.T) {
		fx := newFixture(t)
		fx.rec.FailDepthTargets = true
		depth := NewDepthRenderPass(fx.light)

		err := depth.Create(fx.s)
		require.Error(t, err)
		assert.False(t, depth.Created())
		assert.Equal(t, 0, fx.rec.LivePrograms())
	})

	t.Run("begin hook", func(t *testing.T) {
		fx := newFixture(t)
		boom := errors.New("boom")
		p := NewPass("failing", nil, Hooks{Begin: func(*Frame) error { return boom }})
		require.NoError(t, p.Create(fx.s))
		defer p.Release()

		_, err := p.BeginScene(nil)
		assert.ErrorIs(t, err, boom)
		assert.False(t, fx.s.PassActive())
	})
}

func TestCreateTwiceFails(t *testing.T) {
	fx := newFixture(t)
	p := NewPass("plain", nil, Hooks{})
	require.NoError(t, p.Create(fx.s))
	defer p.Release()
	assert.Error(t, p.Create(fx.s))
}

func TestReleaseOnce(t *testing.T) {
	fx := newFixture(t)
	released := 0
	p := NewPass("plain", nil, Hooks{Release: func() { released++ }})
	require.NoError(t, p.Create(fx.s))

	p.Release()
	p.Release()
	assert.Equal(t, 1, released)
	assert.False(t, p.Created())

	require.NoError(t, p.Create(fx.s))
	p.Release()
	assert.Equal(t, 2, released)
}

func TestWorkerPoolMatchesSerial(t *testing.T) {
	fx := newFixture(t)
	for i := range 24 {
		q := scene.QueueGeometry
		if i%3 == 0 {
			q = scene.QueueAlphaBlend
		}
		fx.addCube(t, "cube", float32(3+(i*7)%40), component.WithQueue(q))
	}

	serial := NewPass("serial", nil, Hooks{}, WithCutoffPolicy(DistanceCutoff(500)))
	pooled := NewPass("pooled", nil, Hooks{}, WithCutoffPolicy(DistanceCutoff(500)), WithWorkers(4))
	require.NoError(t, serial.Create(fx.s))
	require.NoError(t, pooled.Create(fx.s))
	defer serial.Release()
	defer pooled.Release()

	want, err := serial.DrawFrame(nil)
	require.NoError(t, err)
	wantOrder := xs(fx.rec.Draws())
	fx.rec.Reset()

	got, err := pooled.DrawFrame(nil)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, wantOrder, xs(fx.rec.Draws()))
	assert.NotZero(t, got.Skipped)
}

func TestAcceptInFrustum(t *testing.T) {
	fx := newFixture(t)
	fx.addCube(t, "ahead", 11)
	fx.addCube(t, "behind", -11)

	p := NewPass("culled", nil, Hooks{}, WithAcceptPolicy(AcceptInFrustum(nil)))
	require.NoError(t, p.Create(fx.s))
	defer p.Release()

	stats, err := p.DrawFrame(nil)
	require.NoError(t, err)
	assert.Equal(t, FrameStats{Queued: 1, Rejected: 1}, stats)
	assert.Equal(t, []float32{11}, xs(fx.rec.Draws()))
}

func TestDistanceSqr(t *testing.T) {
	fx := newFixture(t)
	fx.addCube(t, "box", 11)
	var box scene.Node
	for _, n := range fx.s.Root().Children() {
		if n.Name() == "box" {
			box = n
		}
	}
	require.NotNil(t, box)

	assert.InDelta(t, 100, DistanceSqr(fx.cam, box), 1e-3)
	assert.Zero(t, DistanceSqr(nil, box))
	assert.Zero(t, DistanceSqr(fx.cam, fx.s.NewObject("plain")))

	empty := fx.s.NewActor("empty")
	empty.Position = mgl32.Vec3{0, 3, 4}
	empty.Update(0)
	assert.InDelta(t, 25, DistanceSqr(fx.cam, empty), 1e-3)
}
