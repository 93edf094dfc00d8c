package component

import (
	"bytes"
	"testing"

	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/Carmen-Shannon/oxy-shadow/engine/loader"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/rendertest"
	"github.com/Carmen-Shannon/oxy-shadow/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoTriangles() *loader.ModelData {
	tri := func(name string, x float32) renderer.MeshData {
		return renderer.MeshData{
			Name:      name,
			Positions: []mgl32.Vec3{{x, 0, 0}, {x + 1, 0, 0}, {x, 1, 0}},
			Indices:   []uint32{0, 1, 2},
		}
	}
	return &loader.ModelData{
		Name:   "pair",
		Meshes: []renderer.MeshData{tri("left", 0), tri("right", 2)},
		Bounds: common.NewBoundingBox(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{3, 1, 0}),
	}
}

func TestModelUploadsAndDrawsEveryMesh(t *testing.T) {
	rec := rendertest.NewRecorder()
	s := scene.NewScene("test", rec)
	a := s.NewActor("statue")
	a.Position = mgl32.Vec3{0, 0, 5}

	m, err := NewModel(rec, twoTriangles(), renderer.Material{Tint: common.ColorWhite},
		WithShadowCasting(scene.Shadow))
	require.NoError(t, err)
	require.True(t, a.AddComponent(m))
	assert.Equal(t, scene.KindModel, m.Kind())
	assert.Equal(t, "pair", m.Name())
	assert.Equal(t, 2, rec.LiveMeshes())
	assert.Equal(t, scene.Shadow, m.ShadowCasting())

	s.Update(0)
	m.Draw(nil)
	draws := rec.Draws()
	require.Len(t, draws, 2)
	assert.Equal(t, m.Meshes(), []renderer.MeshHandle{draws[0].Mesh, draws[1].Mesh})
	assert.InDelta(t, 5, draws[1].Position[2], 1e-5)

	a.Release()
	assert.Equal(t, 0, rec.LiveMeshes())
}

func TestModelUploadFailureFreesMeshes(t *testing.T) {
	rec := rendertest.NewRecorder()
	rec.FailMeshes = true

	_, err := NewModel(rec, twoTriangles(), renderer.Material{})
	assert.Error(t, err)
	assert.Equal(t, 0, rec.LiveMeshes())
}

func TestModelRejectsEmptyData(t *testing.T) {
	_, err := NewModel(rendertest.NewRecorder(), &loader.ModelData{Name: "empty"}, renderer.Material{})
	assert.Error(t, err)
	assert.Panics(t, func() { _, _ = NewModel(nil, twoTriangles(), renderer.Material{}) })
}

func TestLoadModelUsesLoaderCache(t *testing.T) {
	rec := rendertest.NewRecorder()
	l := loader.NewLoader(loader.WithModel("pair.glb", twoTriangles()))

	m, err := LoadModel(rec, l, "pair.glb", renderer.Material{})
	require.NoError(t, err)
	assert.Len(t, m.Meshes(), 2)
	assert.Equal(t, common.NewBoundingBox(mgl32.Vec3{}, mgl32.Vec3{3, 1, 0}), m.LocalBoundingBox())

	_, err = LoadModel(rec, l, "missing.obj", renderer.Material{})
	assert.ErrorIs(t, err, loader.ErrUnsupportedFormat)

	_, err = loader.NewLoader().LoadReader("junk", bytes.NewReader([]byte("{")), false)
	assert.Error(t, err)
}
