package engine

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-shadow/engine/profiler"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderpass"
	"github.com/Carmen-Shannon/oxy-shadow/engine/scene"
	"github.com/Carmen-Shannon/oxy-shadow/engine/window"
)

// Game is the application the engine drives. Every frame the engine calls, in order and on
// one goroutine: Update, DrawOffscreen, DrawFrame, DrawGUI.
type Game interface {
	// Update advances game logic. The engine updates its scenes right after.
	//
	// Parameters:
	//   - dt: elapsed seconds since the last frame
	Update(dt float32)

	// DrawOffscreen renders into off-screen targets, such as shadow maps.
	//
	// Returns:
	//   - error: a failure that is logged; the frame continues
	DrawOffscreen() error

	// DrawFrame renders the scenes to the screen.
	//
	// Returns:
	//   - error: a failure that is logged; the frame continues
	DrawFrame() error

	// DrawGUI draws debug and interface overlays last.
	DrawGUI()
}

// engine implements the Engine interface.
type engine struct {
	mu *sync.Mutex

	quitChannel chan struct{}
	quitOnce    *sync.Once

	window window.Window

	profiler         *profiler.Profiler
	profilingEnabled bool

	frameDuration time.Duration
	maxFrames     int

	scenes map[int]scene.Scene
	passes []*renderpass.Pass
}

// Engine is the main entry point for the engine. It owns the frame loop, the scenes and
// the window.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance, nil when headless
	Window() window.Window

	// Profiler returns the profiler the engine feeds.
	//
	// Returns:
	//   - *profiler.Profiler: the profiler
	Profiler() *profiler.Profiler

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the target frame rate.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// AddScene registers a scene at the given z-index key.
	// Scenes are updated in ascending key order.
	//
	// Parameters:
	//   - key: the z-index determining update order (lower first)
	//   - s: the Scene to register
	AddScene(key int, s scene.Scene)

	// RemoveScene removes the scene at the given z-index key.
	//
	// Parameters:
	//   - key: the z-index of the scene to remove
	RemoveScene(key int)

	// Scene retrieves the scene registered at the given z-index key.
	//
	// Parameters:
	//   - key: the z-index of the scene to retrieve
	//
	// Returns:
	//   - scene.Scene: the scene at the key, or nil if not found
	Scene(key int) scene.Scene

	// Scenes returns a copy of all registered scenes keyed by z-index.
	//
	// Returns:
	//   - map[int]scene.Scene: a copy of the scenes map
	Scenes() map[int]scene.Scene

	// TrackPass reports the queued and skipped counts of a pass to the profiler after
	// every frame.
	//
	// Parameters:
	//   - p: the pass to track
	TrackPass(p *renderpass.Pass)

	// Step runs one frame: Update, scene updates, DrawOffscreen, DrawFrame, DrawGUI.
	//
	// Parameters:
	//   - g: the game
	//   - dt: elapsed seconds since the last frame
	//
	// Returns:
	//   - error: the joined errors of the draw phases, already logged
	Step(g Game, dt float32) error

	// Run steps the game until the window closes, Quit is called or the frame limit is hit.
	// It blocks and must be called from the main goroutine when a window is used.
	//
	// Parameters:
	//   - g: the game
	Run(g Game)

	// Quit stops Run after the current frame.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:            &sync.Mutex{},
		quitChannel:   make(chan struct{}),
		quitOnce:      &sync.Once{},
		scenes:        make(map[int]scene.Scene),
		frameDuration: time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler()
	}

	if e.window != nil {
		e.window.SetResizeCallback(e.resize)
	}
	return e
}

// aspectSetter is implemented by cameras whose projection follows the window shape.
type aspectSetter interface {
	SetAspect(aspect float32)
}

func (e *engine) resize(width, height int) {
	if height <= 0 {
		return
	}
	for _, s := range e.Scenes() {
		if c, ok := s.MainCamera().(aspectSetter); ok {
			c.SetAspect(float32(width) / float32(height))
		}
	}
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Profiler() *profiler.Profiler {
	return e.profiler
}

func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.frameDuration = time.Duration(float64(time.Second) / fps)
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scenes[key] = s
}

func (e *engine) RemoveScene(key int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	cp := make(map[int]scene.Scene, len(e.scenes))
	for k, v := range e.scenes {
		cp[k] = v
	}
	return cp
}

func (e *engine) TrackPass(p *renderpass.Pass) {
	if p == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.passes = append(e.passes, p)
}

// activeScenes returns the active scenes in ascending key order.
func (e *engine) activeScenes() []scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	keys := make([]int, 0, len(e.scenes))
	for k := range e.scenes {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := make([]scene.Scene, 0, len(keys))
	for _, k := range keys {
		if s := e.scenes[k]; s.Active() {
			out = append(out, s)
		}
	}
	return out
}

func (e *engine) Step(g Game, dt float32) error {
	if g == nil {
		panic("engine: Step requires a non-nil Game")
	}
	prof := e.profiler
	var errs []error

	prof.Measure(profiler.PhaseUpdate, func() {
		g.Update(dt)
		for _, s := range e.activeScenes() {
			s.Update(dt)
		}
	})
	prof.Measure(profiler.PhaseOffscreen, func() {
		if err := g.DrawOffscreen(); err != nil {
			log.Printf("[Engine] offscreen: %v", err)
			errs = append(errs, fmt.Errorf("engine: offscreen: %w", err))
		}
	})
	prof.Measure(profiler.PhaseFrame, func() {
		if err := g.DrawFrame(); err != nil {
			log.Printf("[Engine] frame: %v", err)
			errs = append(errs, fmt.Errorf("engine: frame: %w", err))
		}
	})
	prof.Measure(profiler.PhaseGUI, g.DrawGUI)

	e.mu.Lock()
	profiling := e.profilingEnabled
	passes := append([]*renderpass.Pass(nil), e.passes...)
	e.mu.Unlock()

	if profiling {
		for _, p := range passes {
			st := p.LastStats()
			prof.RecordPass(p.Name(), st.Queued, st.Skipped)
		}
		prof.Tick()
	}
	return errors.Join(errs...)
}

func (e *engine) Run(g Game) {
	log.Printf("[Engine] running")
	defer log.Printf("[Engine] stopped")

	last := time.Now()
	for frame := 0; e.maxFrames <= 0 || frame < e.maxFrames; frame++ {
		select {
		case <-e.quitChannel:
			return
		default:
		}
		if e.window != nil && !e.window.PollEvents() {
			return
		}

		start := time.Now()
		dt := float32(start.Sub(last).Seconds())
		last = start
		_ = e.Step(g, dt)

		e.mu.Lock()
		limit := e.frameDuration
		e.mu.Unlock()
		if remaining := limit - time.Since(start); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

// Quit signals Run to return. Uses sync.Once to ensure the channel is only closed once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}
