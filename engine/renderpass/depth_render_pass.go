package renderpass

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-shadow/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultDepthVertexShader is the vertex source of the depth passes.
	DefaultDepthVertexShader = "resources/shaders/glsl330/kn-lit-depth.vs"
	// DefaultDepthFragmentShader is the fragment source of the depth passes.
	DefaultDepthFragmentShader = "resources/shaders/glsl330/shadow_depth.fs"

	// DefaultLoDCutoffSqr is the squared cutoff distance of the level-of-detail passes.
	DefaultLoDCutoffSqr float32 = 25 * 25
)

var errInvalidDepthTarget = errors.New("depth target is incomplete")

// DepthRenderPass renders the depth of every shadow-casting component from a light's point
// of view into a depth-only target, the shadow map sampled by ShadowMapRenderPass.
//
// A frame is wrapped in BeginShadowMap and EndShadowMap:
//
//	d.BeginShadowMap()
//	f, _ := d.BeginScene(nil)
//	d.Render(f)
//	d.EndScene(f)
//	d.EndShadowMap()
type DepthRenderPass struct {
	*Pass

	mu *sync.Mutex

	light      *light.ShadowSceneLight
	resolution int
	focus      mgl32.Vec3

	backend   renderer.Backend
	target    renderer.DepthTarget
	inTexture bool
}

// NewDepthRenderPass creates a depth pass rendering from a shadow light.
// Only components that cast shadows are queued; WithAcceptPolicy narrows that further.
//
// Parameters:
//   - l: the light to render from
//   - options: functional options to configure the pass
//
// Returns:
//   - *DepthRenderPass: the pass, not yet created
func NewDepthRenderPass(l *light.ShadowSceneLight, options ...PassBuilderOption) *DepthRenderPass {
	return newDepthRenderPass("DepthRenderPass", l, newPassConfig(options))
}

// NewLoDDepthRenderPass creates a depth pass that additionally drops shadow casters further
// than a cutoff from the scene's main camera. The cutoff defaults to DefaultLoDCutoffSqr
// and is set with WithCutoff.
//
// Parameters:
//   - l: the light to render from
//   - options: functional options to configure the pass
//
// Returns:
//   - *DepthRenderPass: the pass, not yet created
func NewLoDDepthRenderPass(l *light.ShadowSceneLight, options ...PassBuilderOption) *DepthRenderPass {
	cfg := newPassConfig(options)
	cutoff := DefaultLoDCutoffSqr
	if cfg.cutoffExplicit {
		cutoff = cfg.cutoffSqr
	}
	cfg.cutoff = DistanceCutoff(cutoff)
	cfg.distanceSource = FromMainCamera
	return newDepthRenderPass("LoDDepthRenderPass", l, cfg)
}

func newDepthRenderPass(name string, l *light.ShadowSceneLight, cfg *passConfig) *DepthRenderPass {
	if l == nil {
		panic("renderpass: NewDepthRenderPass requires a non-nil light")
	}
	narrow := cfg.accept
	cfg.accept = AcceptFunc(func(f *Frame, c scene.Component, owner scene.Node) bool {
		return AcceptShadowCasters.Accept(f, c, owner) && narrow.Accept(f, c, owner)
	})
	cfg.camera = l

	d := &DepthRenderPass{
		mu:         &sync.Mutex{},
		light:      l,
		resolution: common.Coalesce(cfg.resolution, renderer.DefaultShadowMapResolution),
	}
	sh := shader.NewShader(name,
		common.Coalesce(cfg.vertexPath, DefaultDepthVertexShader),
		common.Coalesce(cfg.fragmentPath, DefaultDepthFragmentShader),
	)
	d.Pass = newPass(name, sh, Hooks{
		Create:  d.create,
		Release: d.release,
	}, cfg)
	return d
}

func (d *DepthRenderPass) create(s scene.Scene) error {
	b := s.Backend()
	target, err := b.CreateDepthTarget(renderer.ShadowDepthTargetDescriptor(d.resolution))
	if err != nil {
		return fmt.Errorf("shadow map: %w", err)
	}
	if !target.Valid() {
		b.ReleaseDepthTarget(target)
		return fmt.Errorf("shadow map: %w", errInvalidDepthTarget)
	}

	d.mu.Lock()
	d.backend = b
	d.target = target
	focus := d.focus
	d.mu.Unlock()

	d.light.Aim(focus)
	uniformWriter{b: b, sh: d.Shader()}.Int("alphaTest", 1)
	return nil
}

func (d *DepthRenderPass) release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.backend == nil {
		return
	}
	if d.inTexture {
		d.backend.EndMode3D()
		d.backend.UnbindDepthTarget()
		d.inTexture = false
	}
	if d.target.Valid() {
		d.backend.ReleaseDepthTarget(d.target)
	}
	d.target = renderer.DepthTarget{}
	d.backend = nil
}

// Light returns the light the pass renders from.
func (d *DepthRenderPass) Light() *light.ShadowSceneLight {
	return d.light
}

// Resolution returns the edge length of the shadow map in texels.
func (d *DepthRenderPass) Resolution() int {
	return d.resolution
}

// ShadowMap returns the depth target, invalid until Create succeeds.
func (d *DepthRenderPass) ShadowMap() renderer.DepthTarget {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.target
}

// Focus returns the world point the shadow map is centered on.
func (d *DepthRenderPass) Focus() mgl32.Vec3 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.focus
}

// SetFocus sets the world point the shadow map is centered on, usually the player position.
// It takes effect at the next BeginShadowMap.
func (d *DepthRenderPass) SetFocus(p mgl32.Vec3) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.focus = p
}

// BeginShadowMap aims the light at the focus point, records the light's view and projection
// on the light, and redirects drawing into the cleared shadow map with the light's matrices.
//
// Returns:
//   - error: ErrNotCreated (wrapped) if the pass has no shadow map
func (d *DepthRenderPass) BeginShadowMap() error {
	d.mu.Lock()
	b, target, focus, open := d.backend, d.target, d.focus, d.inTexture
	d.mu.Unlock()
	if b == nil || !target.Valid() {
		return fmt.Errorf("renderpass: %s: %w", d.Name(), ErrNotCreated)
	}
	if open {
		return fmt.Errorf("renderpass: %s: shadow map already begun", d.Name())
	}

	d.light.Aim(focus)
	view, proj := d.light.ViewMatrix(), d.light.ProjectionMatrix()
	d.light.Record(view, proj)

	b.BindDepthTarget(target)
	b.ClearDepth()
	b.BeginMode3D(view, proj)

	d.mu.Lock()
	d.inTexture = true
	d.mu.Unlock()
	return nil
}

// EndShadowMap restores the previous matrices and the default framebuffer.
// Calling it without BeginShadowMap is a no-op.
func (d *DepthRenderPass) EndShadowMap() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.inTexture {
		return
	}
	d.backend.EndMode3D()
	d.backend.UnbindDepthTarget()
	d.inTexture = false
}

// DrawShadowMap renders one complete shadow map: BeginShadowMap, one frame, EndShadowMap.
//
// Returns:
//   - FrameStats: the counters of the frame
//   - error: the first error encountered
func (d *DepthRenderPass) DrawShadowMap() (FrameStats, error) {
	if err := d.BeginShadowMap(); err != nil {
		return FrameStats{}, err
	}
	defer d.EndShadowMap()
	return d.DrawFrame(nil)
}
