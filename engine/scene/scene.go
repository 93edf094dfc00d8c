package scene

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer"
)

// ErrPassActive is returned when a pass tries to begin on a scene another pass is rendering.
var ErrPassActive = errors.New("scene: another render pass is active")

// scene is the implementation of the Scene interface.
type scene struct {
	mu *sync.Mutex

	name   string
	active bool

	backend renderer.Backend
	root    *Object
	camera  Camera
	queue   *RenderQueue

	// pass is the opaque token of the pass currently between BeginScene and EndScene.
	pass any

	released bool
}

// Scene owns a scene graph, its main camera and the render queue the passes rebuild every frame.
// It is the factory for scene nodes.
type Scene interface {
	// Name returns the scene name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Active reports whether the engine should update and render the scene.
	//
	// Returns:
	//   - bool: true if active
	Active() bool

	// SetActive toggles the scene for the engine loop.
	//
	// Parameters:
	//   - active: the new state
	SetActive(active bool)

	// Backend returns the drawing backend components render through.
	//
	// Returns:
	//   - renderer.Backend: the backend
	Backend() renderer.Backend

	// Root returns the root node. The root is a plain Object.
	//
	// Returns:
	//   - Node: the root
	Root() Node

	// NewObject creates a plain node attached under the root.
	//
	// Parameters:
	//   - name: the node name
	//
	// Returns:
	//   - *Object: the node
	NewObject(name string) *Object

	// NewActor creates an actor attached under the root.
	// Reparent it with AddChild on another node.
	//
	// Parameters:
	//   - name: the node name
	//
	// Returns:
	//   - *Actor: the actor
	NewActor(name string) *Actor

	// MainCamera returns the camera passes render from when nothing overrides it.
	//
	// Returns:
	//   - Camera: the main camera, or nil if unset
	MainCamera() Camera

	// SetMainCamera sets the main camera.
	//
	// Parameters:
	//   - c: the camera
	SetMainCamera(c Camera)

	// Queue returns the render queue the active pass builds into.
	//
	// Returns:
	//   - *RenderQueue: the queue
	Queue() *RenderQueue

	// ClearRenderQueue empties the render queue.
	ClearRenderQueue()

	// Update updates the whole graph from the root.
	//
	// Parameters:
	//   - dt: elapsed seconds since the last update
	//
	// Returns:
	//   - bool: false if the scene is released
	Update(dt float32) bool

	// Walk visits enabled nodes depth first, parents before children, in child order.
	// Returning false from fn skips the subtree of that node.
	//
	// Parameters:
	//   - fn: the visitor
	Walk(fn func(n Node) bool)

	// AcquirePass marks a pass as the one rendering the scene.
	//
	// Parameters:
	//   - token: an identity for the pass, compared with ==
	//
	// Returns:
	//   - error: ErrPassActive (wrapped) if another pass holds the scene
	AcquirePass(token any) error

	// ReleasePass clears the pass token if it is held by token.
	//
	// Parameters:
	//   - token: the identity passed to AcquirePass
	ReleasePass(token any)

	// PassActive reports whether a pass holds the scene.
	//
	// Returns:
	//   - bool: true between AcquirePass and ReleasePass
	PassActive() bool

	// Release releases the scene graph. Subsequent calls are no-ops.
	Release()
}

var _ Scene = &scene{}

// NewScene creates a scene rendering through the given backend.
//
// Parameters:
//   - name: the scene name
//   - backend: the drawing backend
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the scene
func NewScene(name string, backend renderer.Backend, options ...SceneBuilderOption) Scene {
	if backend == nil {
		panic("scene: NewScene requires a non-nil Backend")
	}
	s := &scene{
		mu:      &sync.Mutex{},
		name:    name,
		active:  true,
		backend: backend,
		queue:   NewRenderQueue(),
	}
	s.root = newObject(s, "root")
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Active() bool {
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.active = active
}

func (s *scene) Backend() renderer.Backend {
	return s.backend
}

func (s *scene) Root() Node {
	return s.root
}

func (s *scene) NewObject(name string) *Object {
	o := newObject(s, name)
	s.root.AddChild(o)
	return o
}

func (s *scene) NewActor(name string) *Actor {
	a := newActor(s, name)
	s.root.AddChild(a)
	return a
}

func (s *scene) MainCamera() Camera {
	return s.camera
}

func (s *scene) SetMainCamera(c Camera) {
	s.camera = c
}

func (s *scene) Queue() *RenderQueue {
	return s.queue
}

func (s *scene) ClearRenderQueue() {
	s.queue.Clear()
}

func (s *scene) Update(dt float32) bool {
	if s.released {
		return false
	}
	s.root.Update(dt)
	return true
}

func (s *scene) Walk(fn func(n Node) bool) {
	var visit func(n Node)
	visit = func(n Node) {
		if !n.Enabled() || n.Released() {
			return
		}
		if !fn(n) {
			return
		}
		for _, child := range n.object().children {
			visit(child)
		}
	}
	visit(s.root)
}

func (s *scene) AcquirePass(token any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pass != nil && s.pass != token {
		return fmt.Errorf("scene %s: %w", s.name, ErrPassActive)
	}
	s.pass = token
	return nil
}

func (s *scene) ReleasePass(token any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pass == token {
		s.pass = nil
	}
}

func (s *scene) PassActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pass != nil
}

func (s *scene) Release() {
	if s.released {
		return
	}
	s.released = true
	s.queue.Clear()
	s.root.Release()
	s.camera = nil
}
