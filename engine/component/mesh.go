package component

import (
	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shadow/engine/scene"
)

// Mesh draws a backend mesh with a material at its owner's world transform.
type Mesh struct {
	*scene.ComponentBase

	mesh     renderer.MeshHandle
	material renderer.Material

	// unloader is set when the component owns the mesh and frees it on Release.
	unloader renderer.Backend
}

var _ scene.Component = &Mesh{}

// NewMesh creates a Mesh component for an existing mesh. The mesh stays owned by the caller.
//
// Parameters:
//   - mesh: the backend mesh to draw
//   - mat: the surface material
//   - box: the mesh bounds in local space
//   - options: functional options for the render attributes
//
// Returns:
//   - *Mesh: the component, ready to be added to a node
func NewMesh(mesh renderer.MeshHandle, mat renderer.Material, box common.BoundingBox, options ...ComponentBuilderOption) *Mesh {
	m := &Mesh{
		ComponentBase: scene.NewComponentBase(),
		mesh:          mesh,
		material:      mat,
	}
	m.SetLocalBoundingBox(box)
	m.SetAlphaTest(mat.AlphaTest)
	applyOptions(m.ComponentBase, options)
	return m
}

func (m *Mesh) Kind() scene.ComponentKind {
	return scene.KindMesh
}

// MeshHandle returns the drawn mesh.
func (m *Mesh) MeshHandle() renderer.MeshHandle {
	return m.mesh
}

// Material returns the surface material.
func (m *Mesh) Material() renderer.Material {
	return m.material
}

// SetMaterial replaces the surface material.
func (m *Mesh) SetMaterial(mat renderer.Material) {
	m.material = mat
}

func (m *Mesh) Update(float32, *scene.RenderHints) {}

func (m *Mesh) Draw(hints *scene.RenderHints) {
	s := m.Scene()
	if s == nil || m.mesh == 0 {
		return
	}
	mat := m.material
	if p := hints.OverrideProgram(); p != 0 {
		mat.Shader = p
	}
	mat.AlphaTest = m.AlphaTest()
	s.Backend().DrawMesh(m.mesh, mat, m.Transform())
}

func (m *Mesh) Release() {
	if m.unloader != nil && m.mesh != 0 {
		m.unloader.UnloadMesh(m.mesh)
	}
	m.mesh = 0
	m.unloader = nil
}
