package pipeline

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// BlendMode selects how a draw's color is combined with the color already in the target.
type BlendMode int

const (
	// BlendAlpha blends by source alpha. This is the default for translucent surfaces.
	BlendAlpha BlendMode = iota

	// BlendAdditive adds the alpha-weighted source color to the target.
	BlendAdditive

	// BlendMultiplied multiplies the source color into the target.
	BlendMultiplied

	// BlendAddColors adds source and target colors unweighted.
	BlendAddColors

	// BlendSubtractColors subtracts the source color from the target.
	BlendSubtractColors

	// BlendAlphaPremultiply blends a source whose color is already multiplied by its alpha.
	BlendAlphaPremultiply
)

// String returns a readable name for the blend mode.
func (m BlendMode) String() string {
	switch m {
	case BlendAlpha:
		return "alpha"
	case BlendAdditive:
		return "additive"
	case BlendMultiplied:
		return "multiplied"
	case BlendAddColors:
		return "add_colors"
	case BlendSubtractColors:
		return "subtract_colors"
	case BlendAlphaPremultiply:
		return "alpha_premultiply"
	default:
		return "unknown"
	}
}

// BlendState maps the blend mode to the WebGPU blend state a pipeline would be created with.
// Unknown modes fall back to BlendAlpha.
//
// Returns:
//   - *wgpu.BlendState: a freshly allocated blend state for this mode
func (m BlendMode) BlendState() *wgpu.BlendState {
	alpha := wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	}

	var color wgpu.BlendComponent
	switch m {
	case BlendAdditive:
		color = wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorSrcAlpha, DstFactor: wgpu.BlendFactorOne, Operation: wgpu.BlendOperationAdd}
	case BlendMultiplied:
		color = wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorDst, DstFactor: wgpu.BlendFactorOneMinusSrcAlpha, Operation: wgpu.BlendOperationAdd}
	case BlendAddColors:
		color = wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorOne, DstFactor: wgpu.BlendFactorOne, Operation: wgpu.BlendOperationAdd}
		alpha = color
	case BlendSubtractColors:
		color = wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorOne, DstFactor: wgpu.BlendFactorOne, Operation: wgpu.BlendOperationReverseSubtract}
		alpha = color
	case BlendAlphaPremultiply:
		color = wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorOne, DstFactor: wgpu.BlendFactorOneMinusSrcAlpha, Operation: wgpu.BlendOperationAdd}
	default:
		color = wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorSrcAlpha, DstFactor: wgpu.BlendFactorOneMinusSrcAlpha, Operation: wgpu.BlendOperationAdd}
	}

	return &wgpu.BlendState{Color: color, Alpha: alpha}
}
