package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// MeshHandle is an opaque backend mesh. The zero handle is invalid.
type MeshHandle uint32

// TextureID is an opaque backend texture. The zero ID is invalid.
type TextureID uint32

// MeshData is CPU-side triangle geometry ready for upload. Normals and TexCoords are either
// empty or one per position.
type MeshData struct {
	Name      string
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	TexCoords []mgl32.Vec2
	Indices   []uint32
}

// Validate checks that the attribute counts agree and every index addresses a position.
func (m MeshData) Validate() error {
	n := len(m.Positions)
	if n == 0 {
		return fmt.Errorf("renderer: mesh %q has no positions", m.Name)
	}
	if len(m.Normals) != 0 && len(m.Normals) != n {
		return fmt.Errorf("renderer: mesh %q has %d normals for %d positions", m.Name, len(m.Normals), n)
	}
	if len(m.TexCoords) != 0 && len(m.TexCoords) != n {
		return fmt.Errorf("renderer: mesh %q has %d texcoords for %d positions", m.Name, len(m.TexCoords), n)
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("renderer: mesh %q index count %d is not a multiple of 3", m.Name, len(m.Indices))
	}
	for _, i := range m.Indices {
		if int(i) >= n {
			return fmt.Errorf("renderer: mesh %q index %d out of range", m.Name, i)
		}
	}
	return nil
}

// Material carries the per-draw surface inputs.
type Material struct {
	// Shader overrides the current program when non-zero.
	Shader shader.Program
	// Texture is the albedo texture; zero draws untextured.
	Texture TextureID
	// Tint multiplies the surface color.
	Tint common.Color
	// AlphaTest discards fragments below the cutoff when set.
	AlphaTest bool
}

// DefaultShadowMapResolution is the edge length, in texels, of the square shadow depth target.
const DefaultShadowMapResolution = 1024

// DepthTargetDescriptor describes a depth-only off-screen target.
type DepthTargetDescriptor struct {
	Label   string
	Width   uint32
	Height  uint32
	Format  wgpu.TextureFormat
	Usage   wgpu.TextureUsage
	Compare wgpu.CompareFunction
}

// ShadowDepthTargetDescriptor describes a square shadow map that is rendered into by the depth
// pass and then sampled with comparison by the shadow pass.
//
// Parameters:
//   - resolution: the edge length in texels (values <= 0 select DefaultShadowMapResolution)
//
// Returns:
//   - DepthTargetDescriptor: the descriptor
func ShadowDepthTargetDescriptor(resolution int) DepthTargetDescriptor {
	if resolution <= 0 {
		resolution = DefaultShadowMapResolution
	}
	return DepthTargetDescriptor{
		Label:   "shadow_map",
		Width:   uint32(resolution),
		Height:  uint32(resolution),
		Format:  wgpu.TextureFormatDepth32Float,
		Usage:   wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
		Compare: wgpu.CompareFunctionLess,
	}
}

// DepthTarget is a created depth-only off-screen target.
type DepthTarget struct {
	// ID identifies the framebuffer; zero is invalid.
	ID uint32
	// Texture is the depth texture, bound by the shadow pass for sampling.
	Texture TextureID
	// Descriptor is the descriptor the target was created from.
	Descriptor DepthTargetDescriptor
}

// Valid reports whether the target was created.
func (t DepthTarget) Valid() bool {
	return t.ID != 0 && t.Texture != 0
}
