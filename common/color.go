package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Color is an 8-bit per channel RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Common colors.
var (
	ColorWhite = Color{255, 255, 255, 255}
	ColorBlack = Color{0, 0, 0, 255}
	ColorGray  = Color{130, 130, 130, 255}
)

// Normalize converts the color to floating point channels in the [0, 1] range,
// the layout shaders expect for vec4 color uniforms.
//
// Returns:
//   - mgl32.Vec4: the normalized RGBA color
func (c Color) Normalize() mgl32.Vec4 {
	return mgl32.Vec4{
		float32(c.R) / 255,
		float32(c.G) / 255,
		float32(c.B) / 255,
		float32(c.A) / 255,
	}
}
