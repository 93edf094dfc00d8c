package rendertest

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderSnapshotsStatePerDraw(t *testing.T) {
	r := NewRecorder()
	p, err := r.LoadShader("a.vs", "a.fs")
	require.NoError(t, err)

	r.BeginShader(p)
	r.SetUniformInt(p, r.ShaderLocation(p, "receiveShadow"), 1)
	mesh := r.GenCube(mgl32.Vec3{1, 1, 1})
	r.DrawMesh(mesh, renderer.Material{Tint: common.ColorWhite}, mgl32.Translate3D(1, 2, 3))

	r.SetDepthMask(false)
	r.SetBackfaceCulling(false)
	r.BeginBlendMode(pipeline.BlendAdditive)
	r.SetUniformInt(p, r.ShaderLocation(p, "receiveShadow"), 0)
	r.DrawMesh(mesh, renderer.Material{}, mgl32.Ident4())
	r.EndBlendMode()

	draws := r.Draws()
	require.Len(t, draws, 2)

	assert.Equal(t, p, draws[0].Program)
	assert.Equal(t, int32(1), draws[0].Uniforms["receiveShadow"])
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, draws[0].Position)
	assert.True(t, draws[0].State.DepthWriteEnabled())
	assert.Equal(t, wgpu.CullModeBack, draws[0].State.CullMode())

	assert.Equal(t, int32(0), draws[1].Uniforms["receiveShadow"])
	assert.False(t, draws[1].State.DepthWriteEnabled())
	assert.Equal(t, wgpu.CullModeNone, draws[1].State.CullMode())
	assert.Equal(t, pipeline.BlendAdditive, draws[1].State.BlendMode())
}

func TestRecorderMaterialShaderOverridesCurrent(t *testing.T) {
	r := NewRecorder()
	a, _ := r.LoadShader("a.vs", "a.fs")
	b, _ := r.LoadShader("b.vs", "b.fs")

	r.BeginShader(a)
	r.DrawMesh(1, renderer.Material{Shader: b}, mgl32.Ident4())
	assert.Equal(t, b, r.Draws()[0].Program)
}

func TestRecorderDepthTargets(t *testing.T) {
	r := NewRecorder()
	target, err := r.CreateDepthTarget(renderer.ShadowDepthTargetDescriptor(0))
	require.NoError(t, err)
	assert.True(t, target.Valid())
	assert.Equal(t, uint32(renderer.DefaultShadowMapResolution), target.Descriptor.Width)
	assert.Equal(t, wgpu.TextureFormatDepth32Float, target.Descriptor.Format)

	r.BindDepthTarget(target)
	r.DrawMesh(1, renderer.Material{}, mgl32.Ident4())
	r.UnbindDepthTarget()
	r.DrawMesh(1, renderer.Material{}, mgl32.Ident4())

	draws := r.Draws()
	assert.Equal(t, target.ID, draws[0].Target)
	assert.Zero(t, draws[1].Target)

	r.ReleaseDepthTarget(target)
	assert.Empty(t, r.LiveDepthTargets())

	r.FailDepthTargets = true
	_, err = r.CreateDepthTarget(renderer.ShadowDepthTargetDescriptor(512))
	assert.Error(t, err)
}

func TestRecorderMode3DRestoresPrevious(t *testing.T) {
	r := NewRecorder()
	v1 := mgl32.Translate3D(1, 0, 0)
	v2 := mgl32.Translate3D(2, 0, 0)

	r.BeginMode3D(v1, mgl32.Ident4())
	r.BeginMode3D(v2, mgl32.Ident4())
	r.EndMode3D()
	r.DrawMesh(1, renderer.Material{}, mgl32.Ident4())
	r.EndMode3D()

	assert.Equal(t, v1, r.Draws()[0].View)
}

func TestRecorderUploadMesh(t *testing.T) {
	r := NewRecorder()
	data := renderer.MeshData{Name: "tri", Positions: []mgl32.Vec3{{}, {1, 0, 0}, {0, 1, 0}}}

	m, err := r.UploadMesh(data)
	require.NoError(t, err)
	assert.NotZero(t, m)
	assert.Equal(t, 1, r.LiveMeshes())
	assert.Contains(t, r.Calls(), "UploadMesh(tri,3)")

	r.UnloadMesh(m)
	assert.Equal(t, 0, r.LiveMeshes())

	r.FailMeshes = true
	_, err = r.UploadMesh(data)
	assert.Error(t, err)
	assert.Equal(t, 0, r.LiveMeshes())
}
