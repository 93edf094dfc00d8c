package scene

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Spatial is the capability of nodes that carry a world transform and world bounds.
// Callers discover it through Node.Spatial instead of asserting concrete node types.
type Spatial interface {
	// WorldTransform returns the world matrix computed by the last Update.
	//
	// Returns:
	//   - mgl32.Mat4: the world transform
	WorldTransform() mgl32.Mat4

	// WorldPosition returns the translation of the world matrix.
	//
	// Returns:
	//   - mgl32.Vec3: the world position
	WorldPosition() mgl32.Vec3

	// WorldBoundingBox returns the cached world bounds, the zero box when the node has no components.
	//
	// Returns:
	//   - common.BoundingBox: the world bounds
	WorldBoundingBox() common.BoundingBox
}

// Node is a scene graph node. *Object and *Actor are the implementations; both are created
// through the Scene factory.
type Node interface {
	// Name returns the node name.
	//
	// Returns:
	//   - string: the name given at creation
	Name() string

	// Scene returns the owning scene.
	//
	// Returns:
	//   - Scene: the scene that created the node
	Scene() Scene

	// Parent returns the parent node.
	//
	// Returns:
	//   - Node: the parent, or nil for the root and detached nodes
	Parent() Node

	// Children returns a copy of the child list in insertion order.
	//
	// Returns:
	//   - []Node: the children
	Children() []Node

	// AddChild attaches a node, detaching it from its previous parent first.
	//
	// Parameters:
	//   - child: the node to attach
	//
	// Returns:
	//   - bool: false if the child is nil, released, from another scene, or an ancestor of this node
	AddChild(child Node) bool

	// RemoveChild detaches a direct child without releasing it.
	//
	// Parameters:
	//   - child: the node to detach
	//
	// Returns:
	//   - bool: false if the node is not a direct child
	RemoveChild(child Node) bool

	// AddComponent attaches a component and sets its owner.
	//
	// Parameters:
	//   - c: the component to attach
	//
	// Returns:
	//   - bool: false if the kind is undefined or already present, or c is attached elsewhere
	AddComponent(c Component) bool

	// GetComponent returns the component of a kind.
	//
	// Parameters:
	//   - kind: the kind tag
	//
	// Returns:
	//   - Component: the component, or nil if absent
	GetComponent(kind ComponentKind) Component

	// RemoveComponent detaches the component of a kind without releasing it.
	//
	// Parameters:
	//   - kind: the kind tag
	//
	// Returns:
	//   - Component: the detached component, or nil if absent
	RemoveComponent(kind ComponentKind) Component

	// Components returns the attached components ordered by kind.
	//
	// Returns:
	//   - []Component: the components
	Components() []Component

	// Enabled reports whether the node takes part in updates and rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled toggles the node. Disabled nodes skip Update and are not queued, and neither are their children.
	//
	// Parameters:
	//   - enabled: the new state
	SetEnabled(enabled bool)

	// Update advances the node, its components and its children.
	//
	// Parameters:
	//   - dt: elapsed seconds since the last update
	//
	// Returns:
	//   - bool: false if the node is disabled or released
	Update(dt float32) bool

	// Release recursively releases children, then components, and detaches from the parent.
	// Subsequent calls are no-ops.
	Release()

	// Released reports whether Release has run.
	//
	// Returns:
	//   - bool: true once released
	Released() bool

	// Spatial returns the world-transform capability of the node.
	//
	// Returns:
	//   - Spatial: the capability, or nil for plain objects
	Spatial() Spatial

	object() *Object
}

// Object is a plain scene graph node: a name, a component registry and children, without a
// transform of its own. Use it to group actors; transforms pass through it unchanged.
type Object struct {
	self     Node
	scene    Scene
	name     string
	parent   Node
	children []Node

	components map[ComponentKind]Component
	kinds      []ComponentKind // sorted keys of components

	enabled  bool
	released bool
}

var _ Node = &Object{}

func newObject(s Scene, name string) *Object {
	o := &Object{
		scene:      s,
		name:       name,
		components: make(map[ComponentKind]Component),
		enabled:    true,
	}
	o.self = o
	return o
}

func (o *Object) object() *Object {
	return o
}

func (o *Object) Name() string {
	return o.name
}

func (o *Object) Scene() Scene {
	return o.scene
}

func (o *Object) Parent() Node {
	return o.parent
}

func (o *Object) Children() []Node {
	return slices.Clone(o.children)
}

func (o *Object) AddChild(child Node) bool {
	if child == nil || o.released || child.Released() || child.Scene() != o.scene {
		return false
	}
	child = child.object().self
	for n := Node(o.self); n != nil; n = n.Parent() {
		if n == child {
			return false
		}
	}
	if p := child.Parent(); p != nil {
		p.RemoveChild(child)
	}
	child.object().parent = o.self
	o.children = append(o.children, child)
	return true
}

func (o *Object) RemoveChild(child Node) bool {
	if child == nil {
		return false
	}
	child = child.object().self
	i := slices.Index(o.children, child)
	if i < 0 {
		return false
	}
	o.children = slices.Delete(o.children, i, i+1)
	child.object().parent = nil
	return true
}

func (o *Object) AddComponent(c Component) bool {
	if c == nil || o.released {
		return false
	}
	kind := c.Kind()
	if kind == KindUndefined || c.Owner() != nil {
		return false
	}
	if _, exists := o.components[kind]; exists {
		return false
	}
	c.base().owner = o.self
	o.components[kind] = c
	i, _ := slices.BinarySearch(o.kinds, kind)
	o.kinds = slices.Insert(o.kinds, i, kind)
	return true
}

func (o *Object) GetComponent(kind ComponentKind) Component {
	return o.components[kind]
}

func (o *Object) RemoveComponent(kind ComponentKind) Component {
	c, ok := o.components[kind]
	if !ok {
		return nil
	}
	delete(o.components, kind)
	if i, found := slices.BinarySearch(o.kinds, kind); found {
		o.kinds = slices.Delete(o.kinds, i, i+1)
	}
	c.base().owner = nil
	return c
}

func (o *Object) Components() []Component {
	out := make([]Component, 0, len(o.kinds))
	for _, k := range o.kinds {
		out = append(out, o.components[k])
	}
	return out
}

func (o *Object) Enabled() bool {
	return o.enabled
}

func (o *Object) SetEnabled(enabled bool) {
	o.enabled = enabled
}

func (o *Object) Update(dt float32) bool {
	if !o.live() {
		return false
	}
	o.updateComponents(dt)
	o.updateChildren(dt)
	return true
}

func (o *Object) Release() {
	if o.released {
		return
	}
	o.released = true

	for _, child := range slices.Clone(o.children) {
		child.Release()
	}
	o.children = nil

	for _, k := range o.kinds {
		c := o.components[k]
		c.Release()
		c.base().owner = nil
	}
	clear(o.components)
	o.kinds = nil

	if o.parent != nil {
		o.parent.RemoveChild(o.self)
	}
}

func (o *Object) Released() bool {
	return o.released
}

func (o *Object) Spatial() Spatial {
	return nil
}

// live reports whether the node's own bookkeeping allows an update this frame.
func (o *Object) live() bool {
	return o.enabled && !o.released
}

func (o *Object) updateComponents(dt float32) {
	for _, k := range o.kinds {
		o.components[k].Update(dt, nil)
	}
}

func (o *Object) updateChildren(dt float32) {
	for _, child := range slices.Clone(o.children) {
		child.Update(dt)
	}
}

// nearestSpatialAncestor walks up from a node's parent, skipping nodes without the
// spatial capability, and returns the first one that has it.
func nearestSpatialAncestor(n Node) Spatial {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if s := p.Spatial(); s != nil {
			return s
		}
	}
	return nil
}
