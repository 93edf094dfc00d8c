package pipeline

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPipelineDefaultsAreOpaque(t *testing.T) {
	p := NewPipeline("opaque")

	assert.Equal(t, "opaque", p.PipelineKey())
	assert.True(t, p.DepthTestEnabled())
	assert.True(t, p.DepthWriteEnabled())
	assert.Equal(t, wgpu.CompareFunctionLess, p.DepthCompare())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
	assert.False(t, p.BlendEnabled())
	assert.Nil(t, p.BlendState())
}

func TestFromStateAlphaBucket(t *testing.T) {
	p := FromState(false, false, true, BlendAlpha)

	assert.False(t, p.DepthWriteEnabled())
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	require.NotNil(t, p.BlendState())
	assert.Equal(t, wgpu.BlendFactorSrcAlpha, p.BlendState().Color.SrcFactor)
	assert.Equal(t, wgpu.BlendFactorOneMinusSrcAlpha, p.BlendState().Color.DstFactor)
	assert.Equal(t, "dw=false,cull=false,blend=alpha", p.PipelineKey())
}

func TestStateKeyIgnoresModeWhenNotBlending(t *testing.T) {
	assert.Equal(t, StateKey(true, true, false, BlendAdditive), StateKey(true, true, false, BlendAlpha))
	assert.NotEqual(t, StateKey(true, true, true, BlendAdditive), StateKey(true, true, true, BlendAlpha))
}

func TestBlendModesMapToDistinctStates(t *testing.T) {
	additive := BlendAdditive.BlendState()
	assert.Equal(t, wgpu.BlendFactorOne, additive.Color.DstFactor)

	sub := BlendSubtractColors.BlendState()
	assert.Equal(t, wgpu.BlendOperationReverseSubtract, sub.Color.Operation)

	unknown := BlendMode(99).BlendState()
	assert.Equal(t, BlendAlpha.BlendState(), unknown)
	assert.Equal(t, "unknown", BlendMode(99).String())
}
