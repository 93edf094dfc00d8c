package component

import (
	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shadow/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// Cube is a Mesh whose box mesh is generated by the backend and freed on Release.
type Cube struct {
	*Mesh

	size mgl32.Vec3
}

// NewCube generates a box mesh of the given full size, centered on the owner's origin.
//
// Parameters:
//   - b: the backend generating the mesh
//   - size: the full width, height and depth
//   - mat: the surface material
//   - options: functional options for the render attributes
//
// Returns:
//   - *Cube: the component, ready to be added to a node
func NewCube(b renderer.Backend, size mgl32.Vec3, mat renderer.Material, options ...ComponentBuilderOption) *Cube {
	if b == nil {
		panic("component: NewCube requires a non-nil Backend")
	}
	m := NewMesh(b.GenCube(size), mat, common.BoxFromSize(size), options...)
	m.unloader = b
	return &Cube{Mesh: m, size: size}
}

func (c *Cube) Kind() scene.ComponentKind {
	return scene.KindCube
}

// Size returns the full size of the cube.
func (c *Cube) Size() mgl32.Vec3 {
	return c.size
}
