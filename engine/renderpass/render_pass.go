package renderpass

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-shadow/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrNotCreated is returned by BeginScene on a pass that was never created or was released.
	ErrNotCreated = errors.New("renderpass: pass not created")
	// ErrFrameFinished is returned when a frame is used after EndScene.
	ErrFrameFinished = errors.New("renderpass: frame already finished")
	// ErrForeignFrame is returned when a frame is handed to a pass that did not begin it.
	ErrForeignFrame = errors.New("renderpass: frame belongs to another pass")
)

// FrameStats counts what happened to the components offered to a pass in one frame.
type FrameStats struct {
	// Queued is the number of components inserted into the render queue.
	Queued int
	// Skipped is the number of components dropped by the distance cutoff.
	Skipped int
	// Rejected is the number of components dropped by the acceptance policy or an unknown queue type.
	Rejected int
}

// Frame is the state of one BeginScene/Render/EndScene cycle of a pass. It replaces any
// global "current pass" or "current camera" bookkeeping: everything a draw needs to know
// about the running pass travels with the frame.
type Frame struct {
	// Camera is the camera the frame renders from.
	Camera scene.Camera
	// Hints is handed to every component Draw.
	Hints *scene.RenderHints

	pass  *Pass
	scene scene.Scene
	stats FrameStats

	frustum    common.Frustum
	hasFrustum bool
	frustumSet bool

	finished bool
}

// Scene returns the scene the frame renders.
func (f *Frame) Scene() scene.Scene {
	return f.scene
}

// Stats returns the counters of the frame so far.
func (f *Frame) Stats() FrameStats {
	return f.stats
}

// Finished reports whether EndScene was called for the frame.
func (f *Frame) Finished() bool {
	return f.finished
}

// Frustum returns the view volume of the frame camera, computed once per frame.
//
// Returns:
//   - common.Frustum: the frustum
//   - bool: false if the frame has no camera
func (f *Frame) Frustum() (common.Frustum, bool) {
	if !f.frustumSet {
		f.frustumSet = true
		if f.Camera != nil {
			f.frustum = common.ExtractFrustum(f.Camera.ProjectionMatrix().Mul4(f.Camera.ViewMatrix()))
			f.hasFrustum = true
		}
	}
	return f.frustum, f.hasFrustum
}

// Hooks are the pass-specific steps a concrete pass plugs into the skeleton.
// Every hook is optional.
type Hooks struct {
	// Create runs after the shader loaded, to create targets and upload constant uniforms.
	Create func(s scene.Scene) error
	// Begin runs after the camera is selected and before the queue is built.
	Begin func(f *Frame) error
	// End runs before the shader is deactivated.
	End func(f *Frame)
	// Release frees pass-specific resources.
	Release func()
}

// Pass is the render pass skeleton: it owns the frame lifecycle, queue building and the
// fixed bucket order, and delegates what differs between passes to injected policies and hooks.
//
// Lifecycle per frame: BeginScene -> Render -> EndScene. A scene renders one pass at a time.
type Pass struct {
	mu *sync.Mutex

	name   string
	shader shader.Shader
	hooks  Hooks

	camera         scene.Camera
	levelOfDetail  int
	accept         AcceptPolicy
	cutoff         CutoffPolicy
	distanceSource DistanceSource
	shade          ShadeHook

	workers int
	pool    worker.DynamicWorkerPool

	scene       scene.Scene
	open        *Frame
	created     bool
	releaseOnce *sync.Once
	lastStats   FrameStats
}

// NewPass creates a pass skeleton. Concrete passes embed the result and supply hooks.
//
// Parameters:
//   - name: the pass name used in logs
//   - sh: the override shader every draw of the pass uses, or nil to keep component shaders
//   - hooks: the pass-specific steps
//   - options: functional options to configure policies and the worker pool
//
// Returns:
//   - *Pass: the pass, not yet created
func NewPass(name string, sh shader.Shader, hooks Hooks, options ...PassBuilderOption) *Pass {
	return newPass(name, sh, hooks, newPassConfig(options))
}

func newPass(name string, sh shader.Shader, hooks Hooks, cfg *passConfig) *Pass {
	return &Pass{
		mu:             &sync.Mutex{},
		name:           name,
		shader:         sh,
		hooks:          hooks,
		camera:         cfg.camera,
		levelOfDetail:  cfg.levelOfDetail,
		accept:         cfg.accept,
		cutoff:         cfg.cutoff,
		distanceSource: cfg.distanceSource,
		shade:          cfg.shade,
		workers:        cfg.workers,
		releaseOnce:    &sync.Once{},
	}
}

// Name returns the pass name.
func (p *Pass) Name() string {
	return p.name
}

// Shader returns the pass override shader, or nil.
func (p *Pass) Shader() shader.Shader {
	return p.shader
}

// Camera returns the pass camera, or nil if the pass renders from the main camera.
func (p *Pass) Camera() scene.Camera {
	return p.camera
}

// Scene returns the scene the pass was created for, or nil.
func (p *Pass) Scene() scene.Scene {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.scene
}

// Created reports whether Create succeeded and Release was not called yet.
func (p *Pass) Created() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.created
}

// LastStats returns the counters of the last finished frame.
func (p *Pass) LastStats() FrameStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastStats
}

// Create binds the pass to a scene: it loads the shader through the scene backend, then runs
// the Create hook. On failure everything loaded so far is released again.
//
// Parameters:
//   - s: the scene to render
//
// Returns:
//   - error: a wrapped error if the shader or the pass resources could not be created
func (p *Pass) Create(s scene.Scene) error {
	if s == nil {
		panic("renderpass: Create requires a non-nil Scene")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.created {
		return fmt.Errorf("renderpass: %s: already created", p.name)
	}

	if p.shader != nil {
		if err := p.shader.Load(s.Backend()); err != nil {
			log.Printf("[RenderPass] %s: create failed: %v", p.name, err)
			return fmt.Errorf("renderpass: %s: %w", p.name, err)
		}
	}
	p.scene = s
	if p.hooks.Create != nil {
		if err := p.hooks.Create(s); err != nil {
			if p.shader != nil {
				p.shader.Unload()
			}
			p.scene = nil
			log.Printf("[RenderPass] %s: create failed: %v", p.name, err)
			return fmt.Errorf("renderpass: %s: %w", p.name, err)
		}
	}
	if p.workers > 0 {
		p.pool = worker.NewDynamicWorkerPool(p.workers, 256, time.Second)
	}
	p.created = true
	p.releaseOnce = &sync.Once{}
	log.Printf("[RenderPass] %s: created", p.name)
	return nil
}

// CreateOK is Create for callers that only need success or failure; the error is logged.
func (p *Pass) CreateOK(s scene.Scene) bool {
	return p.Create(s) == nil
}

// Release frees the shader, the worker pool and the pass resources. Only the first call
// after a successful Create has an effect. A frame still open on the pass is finished: its
// shader is deactivated and the scene is handed back so other passes can begin.
func (p *Pass) Release() {
	p.mu.Lock()
	if !p.created {
		p.mu.Unlock()
		return
	}
	once := p.releaseOnce
	p.mu.Unlock()

	once.Do(func() {
		if p.hooks.Release != nil {
			p.hooks.Release()
		}

		p.mu.Lock()
		s, open := p.scene, p.open
		p.open = nil
		p.mu.Unlock()
		if open != nil && !open.finished {
			if p.shader != nil {
				open.scene.Backend().EndShader()
			}
			open.finished = true
			log.Printf("[RenderPass] %s: released with an open frame", p.name)
		}
		if s != nil {
			s.ReleasePass(p)
		}

		if p.shader != nil {
			p.shader.Unload()
		}
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.pool != nil {
			p.pool.Stop()
			p.pool = nil
		}
		p.created = false
		p.scene = nil
	})
}

// BeginScene starts a frame: it takes the scene for this pass, selects the camera, runs the
// Begin hook, activates the pass shader and rebuilds the render queue from the scene graph.
//
// The camera is the first non-nil of: override, the pass camera, the scene main camera.
//
// Parameters:
//   - override: a camera to render from for this frame only, may be nil
//
// Returns:
//   - *Frame: the frame to pass to Render and EndScene
//   - error: ErrNotCreated, scene.ErrPassActive or a Begin hook error, all wrapped
func (p *Pass) BeginScene(override scene.Camera) (*Frame, error) {
	p.mu.Lock()
	s, created := p.scene, p.created
	p.mu.Unlock()
	if !created {
		return nil, fmt.Errorf("renderpass: %s: %w", p.name, ErrNotCreated)
	}
	if err := s.AcquirePass(p); err != nil {
		return nil, fmt.Errorf("renderpass: %s: %w", p.name, err)
	}

	f := &Frame{
		Camera: common.Coalesce(override, p.camera, s.MainCamera()),
		Hints: &scene.RenderHints{
			Shader:        p.shader,
			Camera:        p.camera,
			LevelOfDetail: p.levelOfDetail,
		},
		pass:  p,
		scene: s,
	}

	if p.hooks.Begin != nil {
		if err := p.hooks.Begin(f); err != nil {
			s.ReleasePass(p)
			return nil, fmt.Errorf("renderpass: %s: begin: %w", p.name, err)
		}
	}
	if p.shader != nil {
		s.Backend().BeginShader(p.shader.Program())
	}

	p.mu.Lock()
	p.open = f
	p.mu.Unlock()

	s.ClearRenderQueue()
	p.buildQueue(f)
	return f, nil
}

// OnAddToRender offers one component to the frame's render queue. The acceptance policy
// runs first, then the squared distance is measured and the cutoff policy applied; accepted
// components are inserted into the bucket of their queue type.
//
// Parameters:
//   - f: the frame being built
//   - c: the candidate component
//   - owner: the node the component is attached to
//
// Returns:
//   - bool: true if the component was queued
func (p *Pass) OnAddToRender(f *Frame, c scene.Component, owner scene.Node) bool {
	if !p.accept.Accept(f, c, owner) {
		f.stats.Rejected++
		return false
	}
	return p.enqueue(f, c, DistanceSqr(p.distanceSource(f), owner))
}

func (p *Pass) enqueue(f *Frame, c scene.Component, distanceSqr float32) bool {
	if !p.cutoff.Keep(distanceSqr) {
		f.stats.Skipped++
		return false
	}
	if !f.scene.Queue().Insert(c, distanceSqr) {
		f.stats.Rejected++
		return false
	}
	f.stats.Queued++
	return true
}

// buildQueue walks the enabled graph and offers every component to the queue. Distances are
// measured once per node, on the worker pool when one is configured; insertion stays serial
// and in walk order, so the queue is identical either way.
func (p *Pass) buildQueue(f *Frame) {
	type candidate struct {
		c    scene.Component
		node int
	}

	var nodes []scene.Node
	f.scene.Walk(func(n scene.Node) bool {
		if len(n.Components()) > 0 {
			nodes = append(nodes, n)
		}
		return true
	})

	var candidates []candidate
	want := make([]bool, len(nodes))
	for i, n := range nodes {
		for _, c := range n.Components() {
			if !p.accept.Accept(f, c, n) {
				f.stats.Rejected++
				continue
			}
			want[i] = true
			candidates = append(candidates, candidate{c: c, node: i})
		}
	}

	dists := make([]float32, len(nodes))
	p.measure(p.distanceSource(f), nodes, want, dists)

	for _, cd := range candidates {
		p.enqueue(f, cd.c, dists[cd.node])
	}
}

// measure fills dists for every node flagged in want.
func (p *Pass) measure(cam scene.Camera, nodes []scene.Node, want []bool, dists []float32) {
	p.mu.Lock()
	pool, workers := p.pool, p.workers
	p.mu.Unlock()

	if cam == nil {
		return
	}
	eye := cam.Position()

	if pool == nil || len(nodes) < 2 {
		for i, n := range nodes {
			if want[i] {
				dists[i] = distanceSqrFrom(eye, n)
			}
		}
		return
	}

	// A WaitGroup is the per-frame barrier; pool.Wait blocks until workers idle-exit.
	var wg sync.WaitGroup
	chunk := (len(nodes) + workers - 1) / workers
	for start := 0; start < len(nodes); start += chunk {
		end := min(start+chunk, len(nodes))
		lo, hi := start, end
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: lo,
			Do: func() (any, error) {
				defer wg.Done()
				for i := lo; i < hi; i++ {
					if want[i] {
						dists[i] = distanceSqrFrom(eye, nodes[i])
					}
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
}

// Render draws the frame's queue in the order Background, Geometry, AlphaBlending, Overlay.
// Alpha-blended entries draw with depth writes and back-face culling disabled and inside
// their own blend mode; overlay entries draw inside their own blend mode.
//
// Parameters:
//   - f: the frame returned by BeginScene
//
// Returns:
//   - error: ErrFrameFinished or ErrForeignFrame, wrapped
func (p *Pass) Render(f *Frame) error {
	if err := p.check(f); err != nil {
		return err
	}
	b := f.scene.Backend()
	q := f.scene.Queue()

	for _, rc := range q.Background {
		p.draw(f, rc)
	}
	for _, rc := range q.Geometry {
		p.draw(f, rc)
	}
	for _, rc := range q.AlphaBlending {
		b.SetDepthMask(false)
		b.SetBackfaceCulling(false)
		b.BeginBlendMode(rc.Component.BlendMode())
		p.draw(f, rc)
		b.EndBlendMode()
		b.SetDepthMask(true)
		b.SetBackfaceCulling(true)
	}
	for _, rc := range q.Overlay {
		b.BeginBlendMode(rc.Component.BlendMode())
		p.draw(f, rc)
		b.EndBlendMode()
	}
	return nil
}

func (p *Pass) draw(f *Frame, rc scene.RenderContext) {
	if p.shade != nil {
		p.shade(f, rc)
	}
	rc.Component.Draw(f.Hints)
}

// EndScene finishes the frame: it runs the End hook, deactivates the shader and releases the
// scene for the next pass.
//
// Parameters:
//   - f: the frame returned by BeginScene
//
// Returns:
//   - error: ErrFrameFinished or ErrForeignFrame, wrapped
func (p *Pass) EndScene(f *Frame) error {
	if err := p.check(f); err != nil {
		return err
	}
	if p.hooks.End != nil {
		p.hooks.End(f)
	}
	if p.shader != nil {
		f.scene.Backend().EndShader()
	}
	f.scene.ReleasePass(p)
	f.finished = true

	p.mu.Lock()
	if p.open == f {
		p.open = nil
	}
	p.lastStats = f.stats
	p.mu.Unlock()
	return nil
}

func (p *Pass) check(f *Frame) error {
	if f == nil || f.pass != p {
		return fmt.Errorf("renderpass: %s: %w", p.name, ErrForeignFrame)
	}
	if f.finished {
		return fmt.Errorf("renderpass: %s: %w", p.name, ErrFrameFinished)
	}
	return nil
}

// DrawFrame runs BeginScene, Render and EndScene in order.
//
// Parameters:
//   - override: a camera to render from for this frame only, may be nil
//
// Returns:
//   - FrameStats: the counters of the frame
//   - error: the first error of the three steps
func (p *Pass) DrawFrame(override scene.Camera) (FrameStats, error) {
	f, err := p.BeginScene(override)
	if err != nil {
		return FrameStats{}, err
	}
	if err := p.Render(f); err != nil {
		return f.stats, err
	}
	if err := p.EndScene(f); err != nil {
		return f.stats, err
	}
	return f.stats, nil
}

// DistanceSqr returns the squared distance used to sort and cut off a node's components:
// point-to-box distance when the node is spatial with a valid world box, point-to-point
// distance to its world position when the box is not valid, and zero for non-spatial nodes
// or a nil camera.
//
// Parameters:
//   - cam: the measuring camera, may be nil
//   - owner: the node
//
// Returns:
//   - float32: the squared distance
func DistanceSqr(cam scene.Camera, owner scene.Node) float32 {
	if cam == nil || owner == nil {
		return 0
	}
	return distanceSqrFrom(cam.Position(), owner)
}

func distanceSqrFrom(eye mgl32.Vec3, owner scene.Node) float32 {
	sp := owner.Spatial()
	if sp == nil {
		return 0
	}
	if box := sp.WorldBoundingBox(); common.IsBoundingBoxValid(box) {
		return common.PointToBoxDistanceSqr(eye, box)
	}
	return common.DistanceSqr(eye, sp.WorldPosition())
}
