package renderpass

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-shadow/engine/scene"
)

const (
	// DefaultShadowVertexShader is the vertex source of the shadow map passes.
	DefaultShadowVertexShader = "resources/shaders/glsl330/shadowmap.vs"
	// DefaultShadowFragmentShader is the fragment source of the shadow map passes, a lit
	// shader with percentage-closer filtering of the shadow map.
	DefaultShadowFragmentShader = "resources/shaders/glsl330/kn-lit-sm-pcf.fs"
)

// ShadowMapSource provides the shadow map a ShadowMapRenderPass samples.
// Implemented by DepthRenderPass.
type ShadowMapSource interface {
	// ShadowMap returns the depth target holding the light's depth.
	//
	// Returns:
	//   - renderer.DepthTarget: the target whose texture is sampled
	ShadowMap() renderer.DepthTarget
}

// ShadowMapRenderPass renders the scene from the player camera with a lit shader that
// samples the shadow map, darkening components that receive shadows.
type ShadowMapRenderPass struct {
	*Pass

	mu *sync.Mutex

	light      *light.ShadowSceneLight
	source     ShadowMapSource
	resolution int

	lod       bool
	cutoffSqr float32
}

// NewShadowMapRenderPass creates a shadow-sampling pass. Every component is queued and
// uploads its own receive-shadow flag before drawing.
//
// Parameters:
//   - l: the light whose recorded matrices map world positions into the shadow map
//   - src: the shadow map, usually the DepthRenderPass rendering from l
//   - options: functional options to configure the pass
//
// Returns:
//   - *ShadowMapRenderPass: the pass, not yet created
func NewShadowMapRenderPass(l *light.ShadowSceneLight, src ShadowMapSource, options ...PassBuilderOption) *ShadowMapRenderPass {
	return newShadowMapRenderPass("ShadowMapRenderPass", l, src, newPassConfig(options), false)
}

// NewLoDShadowMapRenderPass creates a shadow-sampling pass that stops sampling the shadow map
// for components further than a cutoff from the camera. Such components still draw, lit but
// unshadowed. The cutoff defaults to DefaultLoDCutoffSqr and is set with WithCutoff.
//
// Parameters:
//   - l: the light whose recorded matrices map world positions into the shadow map
//   - src: the shadow map, usually the DepthRenderPass rendering from l
//   - options: functional options to configure the pass
//
// Returns:
//   - *ShadowMapRenderPass: the pass, not yet created
func NewLoDShadowMapRenderPass(l *light.ShadowSceneLight, src ShadowMapSource, options ...PassBuilderOption) *ShadowMapRenderPass {
	return newShadowMapRenderPass("LoDShadowMapRenderPass", l, src, newPassConfig(options), true)
}

func newShadowMapRenderPass(name string, l *light.ShadowSceneLight, src ShadowMapSource, cfg *passConfig, lod bool) *ShadowMapRenderPass {
	if l == nil || src == nil {
		panic("renderpass: NewShadowMapRenderPass requires a non-nil light and shadow map source")
	}
	sm := &ShadowMapRenderPass{
		mu:         &sync.Mutex{},
		light:      l,
		source:     src,
		resolution: common.Coalesce(cfg.resolution, renderer.DefaultShadowMapResolution),
		lod:        lod,
		cutoffSqr:  DefaultLoDCutoffSqr,
	}
	if cfg.cutoffExplicit {
		sm.cutoffSqr = cfg.cutoffSqr
	}

	extra := cfg.shade
	cfg.shade = func(f *Frame, rc scene.RenderContext) {
		sm.shade(f, rc)
		if extra != nil {
			extra(f, rc)
		}
	}

	sh := shader.NewShader(name,
		common.Coalesce(cfg.vertexPath, DefaultShadowVertexShader),
		common.Coalesce(cfg.fragmentPath, DefaultShadowFragmentShader),
	)
	sm.Pass = newPass(name, sh, Hooks{
		Create: sm.create,
		Begin:  sm.begin,
	}, cfg)
	return sm
}

func (sm *ShadowMapRenderPass) create(s scene.Scene) error {
	u := uniformWriter{b: s.Backend(), sh: sm.Shader()}
	u.Vec3("lightDir", sm.light.Direction())
	u.Vec4("lightColor", sm.light.Color().Normalize())
	u.Vec4("ambient", sm.light.Ambient().Normalize())
	u.Int("shadowMapResolution", int32(sm.resolution))
	return nil
}

func (sm *ShadowMapRenderPass) begin(f *Frame) error {
	b := f.Scene().Backend()
	u := uniformWriter{b: b, sh: sm.Shader()}

	sm.light.Record(sm.light.View(), sm.light.Proj())
	u.Mat4("lightVP", sm.light.LightViewProj())

	b.BindTexture(light.ShadowMapTextureSlot, sm.source.ShadowMap().Texture)
	u.Int("shadowMap", light.ShadowMapTextureSlot)

	u.Vec4("lightColor", sm.light.Color().Normalize())
	u.Vec4("ambient", sm.light.Ambient().Normalize())
	u.Vec3("lightDir", sm.light.Direction())
	if f.Camera != nil {
		u.Vec3("viewPos", f.Camera.Position())
	}
	return nil
}

func (sm *ShadowMapRenderPass) shade(f *Frame, rc scene.RenderContext) {
	u := uniformWriter{b: f.Scene().Backend(), sh: sm.Shader()}
	u.Int("receiveShadow", boolToInt(sm.ReceivesShadow(rc)))
}

// ReceivesShadow reports whether a queued component samples the shadow map: its own flag,
// and for the level-of-detail variant, a distance no greater than the cutoff.
//
// Parameters:
//   - rc: the queued component and its squared distance
//
// Returns:
//   - bool: true if the receiveShadow uniform is set for the draw
func (sm *ShadowMapRenderPass) ReceivesShadow(rc scene.RenderContext) bool {
	if !rc.Component.ReceiveShadow() {
		return false
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return !sm.lod || rc.DistanceSqr <= sm.cutoffSqr
}

// Light returns the light the pass shades with.
func (sm *ShadowMapRenderPass) Light() *light.ShadowSceneLight {
	return sm.light
}

// Cutoff returns the squared cutoff distance, and whether the pass applies it.
func (sm *ShadowMapRenderPass) Cutoff() (float32, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.cutoffSqr, sm.lod
}

// SetCutoff changes the squared cutoff distance of a level-of-detail pass.
func (sm *ShadowMapRenderPass) SetCutoff(distanceSqr float32) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.cutoffSqr = distanceSqr
}
