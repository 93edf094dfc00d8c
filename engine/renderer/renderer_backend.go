package renderer

import (
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// Backend is the drawing contract the render passes and components are written against.
// It mirrors an immediate-mode GPU wrapper: draw calls, blend and raster toggles, shader
// programs with named uniforms, and off-screen depth targets. All calls are made from the
// frame goroutine.
type Backend interface {
	shader.Loader

	// SetUniformInt uploads an integer uniform. Calls with shader.InvalidLocation are ignored.
	//
	// Parameters:
	//   - p: the program owning the uniform
	//   - loc: the uniform location
	//   - v: the value
	SetUniformInt(p shader.Program, loc int, v int32)

	// SetUniformFloat uploads a float uniform. Calls with shader.InvalidLocation are ignored.
	//
	// Parameters:
	//   - p: the program owning the uniform
	//   - loc: the uniform location
	//   - v: the value
	SetUniformFloat(p shader.Program, loc int, v float32)

	// SetUniformVec3 uploads a vec3 uniform. Calls with shader.InvalidLocation are ignored.
	//
	// Parameters:
	//   - p: the program owning the uniform
	//   - loc: the uniform location
	//   - v: the value
	SetUniformVec3(p shader.Program, loc int, v mgl32.Vec3)

	// SetUniformVec4 uploads a vec4 uniform. Calls with shader.InvalidLocation are ignored.
	//
	// Parameters:
	//   - p: the program owning the uniform
	//   - loc: the uniform location
	//   - v: the value
	SetUniformVec4(p shader.Program, loc int, v mgl32.Vec4)

	// SetUniformMat4 uploads a mat4 uniform. Calls with shader.InvalidLocation are ignored.
	//
	// Parameters:
	//   - p: the program owning the uniform
	//   - loc: the uniform location
	//   - v: the value
	SetUniformMat4(p shader.Program, loc int, v mgl32.Mat4)

	// BeginShader makes a program current for subsequent draws that do not carry their own.
	//
	// Parameters:
	//   - p: the program to activate
	BeginShader(p shader.Program)

	// EndShader restores the backend default program.
	EndShader()

	// BeginBlendMode enables blending with the given mode until EndBlendMode.
	//
	// Parameters:
	//   - m: the blend mode
	BeginBlendMode(m pipeline.BlendMode)

	// EndBlendMode disables blending.
	EndBlendMode()

	// SetDepthMask toggles depth writes.
	//
	// Parameters:
	//   - enabled: true to write depth
	SetDepthMask(enabled bool)

	// SetBackfaceCulling toggles back-face culling.
	//
	// Parameters:
	//   - enabled: true to cull back faces
	SetBackfaceCulling(enabled bool)

	// BeginMode3D sets the view and projection used by subsequent draws.
	//
	// Parameters:
	//   - view: the view matrix
	//   - proj: the projection matrix
	BeginMode3D(view, proj mgl32.Mat4)

	// EndMode3D restores the previous view and projection.
	EndMode3D()

	// CreateDepthTarget creates an off-screen target with a depth attachment only.
	//
	// Parameters:
	//   - desc: size, format, usage and comparison of the depth texture
	//
	// Returns:
	//   - DepthTarget: the created target
	//   - error: error if the target could not be created or is incomplete
	CreateDepthTarget(desc DepthTargetDescriptor) (DepthTarget, error)

	// BindDepthTarget redirects subsequent draws into the target.
	//
	// Parameters:
	//   - t: the target to render into
	BindDepthTarget(t DepthTarget)

	// UnbindDepthTarget restores the default framebuffer.
	UnbindDepthTarget()

	// ClearDepth clears the depth of the currently bound target.
	ClearDepth()

	// ReleaseDepthTarget frees the target and its depth texture.
	//
	// Parameters:
	//   - t: the target to free
	ReleaseDepthTarget(t DepthTarget)

	// BindTexture binds a texture to a numbered texture slot.
	//
	// Parameters:
	//   - slot: the texture slot
	//   - tex: the texture to bind
	BindTexture(slot int, tex TextureID)

	// GenCube builds a cube mesh centered on the origin.
	//
	// Parameters:
	//   - size: the full width, height and depth
	//
	// Returns:
	//   - MeshHandle: the mesh
	GenCube(size mgl32.Vec3) MeshHandle

	// UploadMesh copies triangle geometry to the GPU.
	//
	// Parameters:
	//   - data: the geometry, already validated
	//
	// Returns:
	//   - MeshHandle: the mesh
	//   - error: error if the upload fails
	UploadMesh(data MeshData) (MeshHandle, error)

	// UnloadMesh frees a mesh.
	//
	// Parameters:
	//   - m: the mesh to free
	UnloadMesh(m MeshHandle)

	// DrawMesh draws a mesh with a material at a world transform.
	//
	// Parameters:
	//   - mesh: the mesh to draw
	//   - mat: the material; a non-zero Shader overrides the current program
	//   - transform: the world transform
	DrawMesh(mesh MeshHandle, mat Material, transform mgl32.Mat4)

	// DrawBillboard draws a textured quad facing the camera described by view.
	//
	// Parameters:
	//   - view: the view matrix of the facing camera
	//   - mat: the material; a non-zero Shader overrides the current program
	//   - position: the world position of the quad center
	//   - up: the quad up vector
	//   - size: the quad width and height
	DrawBillboard(view mgl32.Mat4, mat Material, position, up mgl32.Vec3, size mgl32.Vec2)
}
