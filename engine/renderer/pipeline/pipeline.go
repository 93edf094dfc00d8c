package pipeline

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
// It is an immutable description of the fixed-function state a draw runs with.
type pipeline struct {
	// pipelineKey is the unique identifier for this state, used for caching and lookups
	pipelineKey string

	depthTestEnabled    bool
	depthWriteEnabled   bool
	depthCompare        wgpu.CompareFunction
	depthBias           int32
	depthBiasSlopeScale float32
	blendEnabled        bool
	blendMode           BlendMode
	cullMode            wgpu.CullMode
	blendState          *wgpu.BlendState
}

// Pipeline describes the fixed-function render state of a draw: depth test and write, face
// culling and blending. Backends translate it into their native pipeline objects; the WebGPU
// types are used directly so a wgpu backend can build a wgpu.RenderPipelineDescriptor from it
// without conversion.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this state, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this state
	PipelineKey() string

	// DepthTestEnabled returns whether depth testing is enabled.
	//
	// Returns:
	//   - bool: true if depth testing is enabled, false otherwise
	DepthTestEnabled() bool

	// DepthWriteEnabled returns whether depth writing is enabled.
	//
	// Returns:
	//   - bool: true if depth writing is enabled, false otherwise
	DepthWriteEnabled() bool

	// DepthCompare returns the depth comparison function.
	//
	// Returns:
	//   - wgpu.CompareFunction: the comparison used by the depth test
	DepthCompare() wgpu.CompareFunction

	// DepthBias returns the constant depth bias and its slope scale.
	//
	// Returns:
	//   - int32: the constant depth bias
	//   - float32: the slope scale depth bias
	DepthBias() (int32, float32)

	// BlendEnabled returns whether blending is enabled.
	//
	// Returns:
	//   - bool: true if blending is enabled, false otherwise
	BlendEnabled() bool

	// BlendMode returns the blend mode the blend state was derived from.
	//
	// Returns:
	//   - BlendMode: the blend mode (meaningful only when blending is enabled)
	BlendMode() BlendMode

	// CullMode returns the face culling mode.
	//
	// Returns:
	//   - wgpu.CullMode: wgpu.CullModeNone, wgpu.CullModeFront or wgpu.CullModeBack
	CullMode() wgpu.CullMode

	// BlendState returns the blend state.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state, or nil if blending is not enabled
	BlendState() *wgpu.BlendState
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a render state description. Defaults describe opaque geometry:
// depth test and write on with a Less comparison, back faces culled, no blending.
//
// Parameters:
//   - pipelineKey: the unique key for this state
//   - opts: a variadic list of PipelineBuilderOption functions to configure the state
//
// Returns:
//   - Pipeline: the configured state
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       pipelineKey,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		depthCompare:      wgpu.CompareFunctionLess,
		cullMode:          wgpu.CullModeBack,
		blendMode:         BlendAlpha,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.blendEnabled && p.blendState == nil {
		p.blendState = p.blendMode.BlendState()
	}
	if !p.blendEnabled {
		p.blendState = nil
	}
	return p
}

// StateKey builds the cache key for a combination of dynamic render state toggles.
// Equal inputs produce equal keys, so backends can memoize pipelines by it.
//
// Parameters:
//   - depthWrite: whether depth writing is enabled
//   - culling: whether back-face culling is enabled
//   - blending: whether a blend mode is active
//   - mode: the active blend mode
//
// Returns:
//   - string: the cache key
func StateKey(depthWrite, culling, blending bool, mode BlendMode) string {
	if !blending {
		return fmt.Sprintf("dw=%t,cull=%t,blend=off", depthWrite, culling)
	}
	return fmt.Sprintf("dw=%t,cull=%t,blend=%s", depthWrite, culling, mode)
}

// FromState builds the Pipeline for a combination of dynamic render state toggles.
//
// Parameters:
//   - depthWrite: whether depth writing is enabled
//   - culling: whether back-face culling is enabled
//   - blending: whether a blend mode is active
//   - mode: the active blend mode
//
// Returns:
//   - Pipeline: the matching state description
func FromState(depthWrite, culling, blending bool, mode BlendMode) Pipeline {
	cull := wgpu.CullModeNone
	if culling {
		cull = wgpu.CullModeBack
	}
	return NewPipeline(StateKey(depthWrite, culling, blending, mode),
		WithDepthWriteEnabled(depthWrite),
		WithCullMode(cull),
		WithBlendEnabled(blending),
		WithBlendMode(mode),
	)
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) DepthCompare() wgpu.CompareFunction {
	return p.depthCompare
}

func (p *pipeline) DepthBias() (int32, float32) {
	return p.depthBias, p.depthBiasSlopeScale
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) BlendMode() BlendMode {
	return p.blendMode
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}
