package component

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-shadow/engine/loader"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shadow/engine/scene"
)

// Model draws every mesh of an imported model with one material. The meshes are uploaded
// by NewModel and freed on Release.
type Model struct {
	*scene.ComponentBase

	name     string
	meshes   []renderer.MeshHandle
	material renderer.Material
	backend  renderer.Backend
}

var _ scene.Component = &Model{}

// NewModel uploads the meshes of an imported model. If any upload fails the meshes already
// uploaded are freed again.
//
// Parameters:
//   - b: the backend receiving the meshes
//   - data: the imported model
//   - mat: the surface material shared by every mesh
//   - options: functional options for the render attributes
//
// Returns:
//   - *Model: the component, ready to be added to a node
//   - error: error if the model is empty or a mesh fails to upload
func NewModel(b renderer.Backend, data *loader.ModelData, mat renderer.Material, options ...ComponentBuilderOption) (*Model, error) {
	if b == nil {
		panic("component: NewModel requires a non-nil Backend")
	}
	if data == nil || len(data.Meshes) == 0 {
		return nil, fmt.Errorf("component: model has no meshes")
	}

	m := &Model{
		ComponentBase: scene.NewComponentBase(),
		name:          data.Name,
		material:      mat,
		backend:       b,
	}
	for _, mesh := range data.Meshes {
		h, err := b.UploadMesh(mesh)
		if err != nil {
			m.Release()
			return nil, fmt.Errorf("component: upload %s/%s: %w", data.Name, mesh.Name, err)
		}
		m.meshes = append(m.meshes, h)
	}

	m.SetLocalBoundingBox(data.Bounds)
	m.SetAlphaTest(mat.AlphaTest)
	applyOptions(m.ComponentBase, options)
	return m, nil
}

// LoadModel imports a model file through l and uploads it.
//
// Parameters:
//   - b: the backend receiving the meshes
//   - l: the loader importing and caching the file
//   - path: the model file
//   - mat: the surface material
//   - options: functional options for the render attributes
//
// Returns:
//   - *Model: the component
//   - error: error if the import or an upload fails
func LoadModel(b renderer.Backend, l loader.Loader, path string, mat renderer.Material, options ...ComponentBuilderOption) (*Model, error) {
	data, err := l.Load(path)
	if err != nil {
		return nil, err
	}
	return NewModel(b, data, mat, options...)
}

func (m *Model) Kind() scene.ComponentKind {
	return scene.KindModel
}

// Name returns the name of the imported model.
func (m *Model) Name() string {
	return m.name
}

// Meshes returns the uploaded meshes.
func (m *Model) Meshes() []renderer.MeshHandle {
	return append([]renderer.MeshHandle(nil), m.meshes...)
}

// Material returns the surface material.
func (m *Model) Material() renderer.Material {
	return m.material
}

// SetMaterial replaces the surface material.
func (m *Model) SetMaterial(mat renderer.Material) {
	m.material = mat
}

func (m *Model) Update(float32, *scene.RenderHints) {}

func (m *Model) Draw(hints *scene.RenderHints) {
	s := m.Scene()
	if s == nil {
		return
	}
	mat := m.material
	if p := hints.OverrideProgram(); p != 0 {
		mat.Shader = p
	}
	mat.AlphaTest = m.AlphaTest()
	transform := m.Transform()
	for _, h := range m.meshes {
		s.Backend().DrawMesh(h, mat, transform)
	}
}

func (m *Model) Release() {
	for _, h := range m.meshes {
		m.backend.UnloadMesh(h)
	}
	m.meshes = nil
}
