package component

import (
	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-shadow/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// billboardDepth is the half thickness given to a billboard's local box.
const billboardDepth float32 = 0.1

// Billboard draws a textured quad that always faces the camera.
// It is alpha-tested so its cutouts also shape its shadow.
type Billboard struct {
	*scene.ComponentBase

	texture renderer.TextureID
	size    mgl32.Vec2
	tint    common.Color
	up      mgl32.Vec3
}

var _ scene.Component = &Billboard{}

// NewBillboard creates a camera-facing quad of the given width and height.
// It defaults to the geometry queue, alpha blending and alpha testing.
//
// Parameters:
//   - tex: the texture to draw
//   - size: the width and height in world units
//   - tint: the color the texture is multiplied with
//   - options: functional options for the render attributes
//
// Returns:
//   - *Billboard: the component, ready to be added to a node
func NewBillboard(tex renderer.TextureID, size mgl32.Vec2, tint common.Color, options ...ComponentBuilderOption) *Billboard {
	bb := &Billboard{
		ComponentBase: scene.NewComponentBase(),
		texture:       tex,
		size:          size,
		tint:          tint,
		up:            mgl32.Vec3{0, 1, 0},
	}
	bb.SetQueue(scene.QueueGeometry)
	bb.SetBlendMode(pipeline.BlendAlpha)
	bb.SetAlphaTest(true)
	bb.SetLocalBoundingBox(common.NewBoundingBox(
		mgl32.Vec3{-size[0] / 2, -size[1] / 2, -billboardDepth},
		mgl32.Vec3{size[0] / 2, size[1] / 2, billboardDepth},
	))
	applyOptions(bb.ComponentBase, options)
	return bb
}

func (bb *Billboard) Kind() scene.ComponentKind {
	return scene.KindBillboard
}

// Size returns the width and height of the quad.
func (bb *Billboard) Size() mgl32.Vec2 {
	return bb.size
}

// Texture returns the drawn texture.
func (bb *Billboard) Texture() renderer.TextureID {
	return bb.texture
}

// SetTint changes the color the texture is multiplied with.
func (bb *Billboard) SetTint(c common.Color) {
	bb.tint = c
}

func (bb *Billboard) Update(float32, *scene.RenderHints) {}

// Draw faces the quad towards the hinted camera, or the scene main camera without one.
// Nothing is drawn when neither exists.
func (bb *Billboard) Draw(hints *scene.RenderHints) {
	s := bb.Scene()
	if s == nil {
		return
	}
	cam := hints.OverrideCamera()
	if cam == nil {
		cam = s.MainCamera()
	}
	if cam == nil {
		return
	}
	mat := renderer.Material{
		Shader:    hints.OverrideProgram(),
		Texture:   bb.texture,
		Tint:      bb.tint,
		AlphaTest: bb.AlphaTest(),
	}
	pos := common.MatrixTranslation(bb.Transform())
	s.Backend().DrawBillboard(cam.ViewMatrix(), mat, pos, bb.up, bb.size)
}

func (bb *Billboard) Release() {}
