package scene

import (
	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// ComponentKind tags the kind of a component. A node holds at most one component per kind.
type ComponentKind int

const (
	// KindUndefined is never accepted by AddComponent.
	KindUndefined ComponentKind = iota
	KindMesh
	KindCube
	KindBillboard
	KindModel

	// KindCustom is the first kind available to components defined outside this module.
	KindCustom ComponentKind = 100
)

// ShadowCasting classifies how a component takes part in shadow map rendering.
type ShadowCasting int

const (
	// NoShadow components are skipped by depth passes.
	NoShadow ShadowCasting = iota
	// Shadow components cast opaque shadows.
	Shadow
	// ShadowWithAlpha components cast shadows with alpha-tested cutouts.
	ShadowWithAlpha
)

// CastsShadow reports whether the classification takes part in depth passes.
func (s ShadowCasting) CastsShadow() bool {
	return s == Shadow || s == ShadowWithAlpha
}

// QueueType selects the render queue bucket a component is drawn from.
type QueueType int

const (
	QueueBackground QueueType = iota + 1
	QueueGeometry
	QueueAlphaTest
	QueueAlphaBlend
	QueueOverlay
)

// Camera is the view a pass renders from. Implemented by camera.SceneCamera and the shadow light.
type Camera interface {
	// Position returns the world-space eye position.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Position() mgl32.Vec3

	// ViewMatrix returns the world-to-view transform.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the view-to-clip transform.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4
}

// RenderHints is the per-draw override bundle a pass hands to every component it draws.
// A nil *RenderHints means no overrides.
type RenderHints struct {
	// Shader, if set, replaces the component's own shader.
	Shader shader.Shader
	// Camera, if set, replaces the scene main camera for camera-dependent drawing.
	Camera Camera
	// LevelOfDetail selects a detail level; zero when unused.
	LevelOfDetail int
}

// OverrideProgram returns the program of the override shader, or zero without one.
func (h *RenderHints) OverrideProgram() shader.Program {
	if h == nil || h.Shader == nil {
		return 0
	}
	return h.Shader.Program()
}

// OverrideCamera returns the override camera, or nil without one.
func (h *RenderHints) OverrideCamera() Camera {
	if h == nil {
		return nil
	}
	return h.Camera
}

// Component is a drawable or behavioral unit attached to one scene node.
// Implementations embed *ComponentBase, which carries the render attributes and the owner
// back-reference, and provide Kind, Update and Draw.
type Component interface {
	// Kind returns the kind tag used by the node's component registry.
	//
	// Returns:
	//   - ComponentKind: the kind; KindUndefined is rejected by AddComponent
	Kind() ComponentKind

	// Owner returns the node this component is attached to.
	//
	// Returns:
	//   - Node: the owner, or nil if detached
	Owner() Node

	// ShadowCasting returns how the component takes part in depth passes.
	//
	// Returns:
	//   - ShadowCasting: the classification
	ShadowCasting() ShadowCasting

	// ReceiveShadow returns whether shadow-sampling passes darken this component.
	//
	// Returns:
	//   - bool: true if the component receives shadows
	ReceiveShadow() bool

	// BlendMode returns the blend mode used when drawn from the alpha-blending bucket.
	//
	// Returns:
	//   - pipeline.BlendMode: the blend mode
	BlendMode() pipeline.BlendMode

	// Queue returns the render queue bucket.
	//
	// Returns:
	//   - QueueType: the bucket
	Queue() QueueType

	// AlphaTest returns whether fragments below the alpha cutoff are discarded.
	//
	// Returns:
	//   - bool: true if alpha testing is enabled
	AlphaTest() bool

	// LocalBoundingBox returns the component bounds in the owner's local space.
	//
	// Returns:
	//   - common.BoundingBox: the local bounds
	LocalBoundingBox() common.BoundingBox

	// Update advances the component by dt seconds.
	//
	// Parameters:
	//   - dt: elapsed seconds since the last update
	//   - hints: the active overrides, may be nil
	Update(dt float32, hints *RenderHints)

	// Draw issues the component's draw calls.
	//
	// Parameters:
	//   - hints: the active pass overrides, may be nil
	Draw(hints *RenderHints)

	// Release frees backend resources held by the component.
	Release()

	base() *ComponentBase
}

// ComponentBase holds the attributes shared by every component. Embed a *ComponentBase
// created with NewComponentBase in concrete components.
type ComponentBase struct {
	owner         Node
	shadowCasting ShadowCasting
	receiveShadow bool
	blendMode     pipeline.BlendMode
	queue         QueueType
	alphaTest     bool
	localBox      common.BoundingBox
}

// NewComponentBase creates the shared component state with the defaults of an opaque,
// non-shadowing, geometry-queued component.
//
// Returns:
//   - *ComponentBase: the base state
func NewComponentBase() *ComponentBase {
	return &ComponentBase{
		shadowCasting: NoShadow,
		blendMode:     pipeline.BlendAlpha,
		queue:         QueueGeometry,
	}
}

func (b *ComponentBase) base() *ComponentBase {
	return b
}

func (b *ComponentBase) Owner() Node {
	return b.owner
}

func (b *ComponentBase) ShadowCasting() ShadowCasting {
	return b.shadowCasting
}

func (b *ComponentBase) ReceiveShadow() bool {
	return b.receiveShadow
}

func (b *ComponentBase) BlendMode() pipeline.BlendMode {
	return b.blendMode
}

func (b *ComponentBase) Queue() QueueType {
	return b.queue
}

func (b *ComponentBase) AlphaTest() bool {
	return b.alphaTest
}

func (b *ComponentBase) LocalBoundingBox() common.BoundingBox {
	return b.localBox
}

// SetShadowCasting sets how the component takes part in depth passes.
func (b *ComponentBase) SetShadowCasting(s ShadowCasting) {
	b.shadowCasting = s
}

// SetReceiveShadow sets whether shadow-sampling passes darken the component.
func (b *ComponentBase) SetReceiveShadow(receive bool) {
	b.receiveShadow = receive
}

// SetBlendMode sets the blend mode.
func (b *ComponentBase) SetBlendMode(m pipeline.BlendMode) {
	b.blendMode = m
}

// SetQueue sets the render queue bucket.
func (b *ComponentBase) SetQueue(q QueueType) {
	b.queue = q
}

// SetAlphaTest toggles alpha testing.
func (b *ComponentBase) SetAlphaTest(enabled bool) {
	b.alphaTest = enabled
}

// SetLocalBoundingBox sets the local-space bounds. Owners pick the change up on their next Update.
func (b *ComponentBase) SetLocalBoundingBox(box common.BoundingBox) {
	b.localBox = box
}

// Transform returns the owner's world transform, or identity when the owner has no
// spatial capability.
//
// Returns:
//   - mgl32.Mat4: the world transform to draw at
func (b *ComponentBase) Transform() mgl32.Mat4 {
	if b.owner == nil {
		return mgl32.Ident4()
	}
	if s := b.owner.Spatial(); s != nil {
		return s.WorldTransform()
	}
	return mgl32.Ident4()
}

// Scene returns the scene of the owner, or nil when detached.
func (b *ComponentBase) Scene() Scene {
	if b.owner == nil {
		return nil
	}
	return b.owner.Scene()
}
