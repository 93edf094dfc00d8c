package component

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/rendertest"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-shadow/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedCamera struct {
	pos  mgl32.Vec3
	view mgl32.Mat4
}

func (c fixedCamera) Position() mgl32.Vec3         { return c.pos }
func (c fixedCamera) ViewMatrix() mgl32.Mat4       { return c.view }
func (c fixedCamera) ProjectionMatrix() mgl32.Mat4 { return mgl32.Ident4() }

func TestCubeBoundsAndDraw(t *testing.T) {
	rec := rendertest.NewRecorder()
	s := scene.NewScene("test", rec)
	a := s.NewActor("box")
	a.Position = mgl32.Vec3{3, 0, 0}

	cube := NewCube(rec, mgl32.Vec3{2, 4, 6}, renderer.Material{Tint: common.ColorWhite},
		WithShadowCasting(scene.Shadow), WithReceiveShadow(true))
	require.True(t, a.AddComponent(cube))
	assert.Equal(t, scene.KindCube, cube.Kind())
	assert.Equal(t, common.BoxFromSize(mgl32.Vec3{2, 4, 6}), cube.LocalBoundingBox())
	assert.Equal(t, 1, rec.LiveMeshes())

	s.Update(0)
	box := a.WorldBoundingBox()
	assert.InDelta(t, 2, box.Min[0], 1e-5)
	assert.InDelta(t, 4, box.Max[0], 1e-5)
	assert.InDelta(t, -3, box.Min[2], 1e-5)

	cube.Draw(nil)
	draws := rec.Draws()
	require.Len(t, draws, 1)
	assert.Equal(t, rendertest.DrawMesh, draws[0].Kind)
	assert.Equal(t, cube.MeshHandle(), draws[0].Mesh)
	assert.InDelta(t, 3, draws[0].Position[0], 1e-5)
	assert.False(t, draws[0].Material.AlphaTest)
}

func TestMeshHonorsOverrideShader(t *testing.T) {
	rec := rendertest.NewRecorder()
	s := scene.NewScene("test", rec)
	a := s.NewActor("box")
	cube := NewCube(rec, mgl32.Vec3{1, 1, 1}, renderer.Material{}, WithAlphaTest(true))
	require.True(t, a.AddComponent(cube))

	sh := shader.NewShader("override", "a.vs", "a.fs")
	require.NoError(t, sh.Load(rec))

	cube.Draw(&scene.RenderHints{Shader: sh})
	draws := rec.Draws()
	require.Len(t, draws, 1)
	assert.Equal(t, sh.Program(), draws[0].Program)
	assert.True(t, draws[0].Material.AlphaTest)
}

func TestMeshDetachedDrawsNothing(t *testing.T) {
	rec := rendertest.NewRecorder()
	m := NewMesh(rec.GenCube(mgl32.Vec3{1, 1, 1}), renderer.Material{}, common.BoxFromSize(mgl32.Vec3{1, 1, 1}))
	m.Draw(nil)
	assert.Empty(t, rec.Draws())
}

func TestCubeReleaseUnloadsMesh(t *testing.T) {
	rec := rendertest.NewRecorder()
	s := scene.NewScene("test", rec)
	a := s.NewActor("box")
	require.True(t, a.AddComponent(NewCube(rec, mgl32.Vec3{1, 1, 1}, renderer.Material{})))
	require.Equal(t, 1, rec.LiveMeshes())

	a.Release()
	assert.Equal(t, 0, rec.LiveMeshes())
}

func TestMeshKeepsCallerMesh(t *testing.T) {
	rec := rendertest.NewRecorder()
	s := scene.NewScene("test", rec)
	a := s.NewActor("mesh")
	handle := rec.GenCube(mgl32.Vec3{1, 1, 1})
	require.True(t, a.AddComponent(NewMesh(handle, renderer.Material{}, common.BoxFromSize(mgl32.Vec3{1, 1, 1}))))

	a.Release()
	assert.Equal(t, 1, rec.LiveMeshes())
}

func TestBillboardDefaults(t *testing.T) {
	bb := NewBillboard(7, mgl32.Vec2{2, 3}, common.ColorWhite)
	assert.Equal(t, scene.KindBillboard, bb.Kind())
	assert.Equal(t, scene.QueueGeometry, bb.Queue())
	assert.True(t, bb.AlphaTest())

	box := bb.LocalBoundingBox()
	assert.Equal(t, mgl32.Vec3{-1, -1.5, -0.1}, box.Min)
	assert.Equal(t, mgl32.Vec3{1, 1.5, 0.1}, box.Max)
}

func TestBillboardFacesMainCamera(t *testing.T) {
	rec := rendertest.NewRecorder()
	main := fixedCamera{view: mgl32.Translate3D(0, 0, -10)}
	s := scene.NewScene("test", rec, scene.WithMainCamera(main))
	a := s.NewActor("tree")
	a.Position = mgl32.Vec3{1, 2, 3}
	bb := NewBillboard(7, mgl32.Vec2{2, 3}, common.ColorWhite)
	require.True(t, a.AddComponent(bb))
	s.Update(0)

	bb.Draw(nil)
	draws := rec.Draws()
	require.Len(t, draws, 1)
	assert.Equal(t, rendertest.DrawBillboard, draws[0].Kind)
	assert.Equal(t, main.view, draws[0].View)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, draws[0].Position)
	assert.Equal(t, renderer.TextureID(7), draws[0].Material.Texture)
	assert.True(t, draws[0].Material.AlphaTest)
}

func TestBillboardPrefersHintCamera(t *testing.T) {
	rec := rendertest.NewRecorder()
	main := fixedCamera{view: mgl32.Translate3D(0, 0, -10)}
	hinted := fixedCamera{view: mgl32.Translate3D(5, 0, 0)}
	s := scene.NewScene("test", rec, scene.WithMainCamera(main))
	a := s.NewActor("tree")
	bb := NewBillboard(7, mgl32.Vec2{1, 1}, common.ColorWhite)
	require.True(t, a.AddComponent(bb))

	bb.Draw(&scene.RenderHints{Camera: hinted})
	draws := rec.Draws()
	require.Len(t, draws, 1)
	assert.Equal(t, hinted.view, draws[0].View)
}

func TestBillboardWithoutCameraDrawsNothing(t *testing.T) {
	rec := rendertest.NewRecorder()
	s := scene.NewScene("test", rec)
	a := s.NewActor("tree")
	bb := NewBillboard(7, mgl32.Vec2{1, 1}, common.ColorWhite)
	require.True(t, a.AddComponent(bb))

	bb.Draw(nil)
	assert.Empty(t, rec.Draws())
}

func TestNewCubeRequiresBackend(t *testing.T) {
	assert.Panics(t, func() { NewCube(nil, mgl32.Vec3{1, 1, 1}, renderer.Material{}) })
}
