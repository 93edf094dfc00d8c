package light

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/Carmen-Shannon/oxy-shadow/engine/camera"
	"github.com/Carmen-Shannon/oxy-shadow/engine/renderer/rendertest"
	"github.com/Carmen-Shannon/oxy-shadow/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type heldKeys map[uint32]bool

func (h heldKeys) IsKeyDown(k uint32) bool { return h[k] }

func newLight(t *testing.T, opts ...LightBuilderOption) *ShadowSceneLight {
	t.Helper()
	s := scene.NewScene("light", rendertest.NewRecorder())
	return NewShadowSceneLight(s, "sun", opts...)
}

func TestShadowSceneLightDefaults(t *testing.T) {
	l := newLight(t)

	assert.InDelta(t, 1, l.Direction().Len(), 1e-6)
	assert.True(t, l.Direction().ApproxEqual(mgl32.Vec3{1, -0.5, -1}.Normalize()))
	assert.Equal(t, common.ColorWhite, l.Color())
	assert.Equal(t, common.Color{R: 50, G: 50, B: 50, A: 255}, l.Ambient())
	assert.Equal(t, LightTypeDirectional, l.Type())
	assert.Equal(t, camera.Orthographic, l.Projection())
	assert.Equal(t, DefaultOrthoHeight, l.OrthoHeight())
	assert.Equal(t, mgl32.Ident4(), l.LightViewProj())
}

func TestSetLightNormalizes(t *testing.T) {
	l := newLight(t)
	require.NoError(t, l.SetLight(mgl32.Vec3{-50, -30, 50}, common.ColorGray))

	assert.InDelta(t, 1, l.Direction().Len(), 1e-6)
	assert.True(t, l.Direction().ApproxEqual(mgl32.Vec3{-50, -30, 50}.Normalize()))
	assert.Equal(t, common.ColorGray, l.Color())
}

func TestSetLightRejectsZero(t *testing.T) {
	l := newLight(t)
	before := l.Direction()

	assert.ErrorIs(t, l.SetLight(mgl32.Vec3{}, common.ColorBlack), ErrZeroDirection)
	assert.Equal(t, before, l.Direction())
	assert.Equal(t, common.ColorWhite, l.Color())
}

func TestAimPlacesLightBehindFocus(t *testing.T) {
	l := newLight(t, WithDirection(mgl32.Vec3{0, -1, 1}), WithDistance(10))
	focus := mgl32.Vec3{5, 0, 5}
	l.Aim(focus)

	want := focus.Sub(mgl32.Vec3{0, -1, 1}.Normalize().Mul(10))
	assert.True(t, l.Position().ApproxEqualThreshold(want, 1e-4), "got %v want %v", l.Position(), want)
	assert.Equal(t, focus, l.Target())

	inView := common.TransformPoint(l.ViewMatrix(), focus)
	assert.InDelta(t, -10, inView[2], 1e-3, "focus lies down the view axis")
}

func TestAimStraightDownUsesZUp(t *testing.T) {
	l := newLight(t, WithDirection(mgl32.Vec3{0, -1, 0}))
	l.Aim(mgl32.Vec3{})

	assert.Equal(t, mgl32.Vec3{0, 0, 1}, l.Up())
	for _, f := range l.ViewMatrix() {
		assert.False(t, f != f, "view matrix has NaN")
	}
}

func TestRecordProducesViewProj(t *testing.T) {
	l := newLight(t)
	view := mgl32.LookAtV(mgl32.Vec3{0, 10, 0}, mgl32.Vec3{}, mgl32.Vec3{0, 0, 1})
	proj := mgl32.Ortho(-25, 25, -25, 25, 0.1, 1000)
	l.Record(view, proj)

	assert.Equal(t, view, l.View())
	assert.Equal(t, proj, l.Proj())
	assert.Equal(t, proj.Mul4(view), l.LightViewProj())
}

func TestDirectionControls(t *testing.T) {
	l := newLight(t, WithDirection(mgl32.Vec3{0, -1, 0}))
	keys := heldKeys{}
	dc := NewDirectionControls(l, keys, 0.5)

	assert.False(t, dc.Update(1.0/60), "no keys held")

	keys[common.KeyJ] = true
	require.True(t, dc.Update(1.0/60))
	assert.Greater(t, dc.Direction()[0], float32(0))
	assert.InDelta(t, 1, dc.Direction().Len(), 1e-5)
}

func TestDirectionControlsGuardK(t *testing.T) {
	l := newLight(t, WithDirection(mgl32.Vec3{-1, -0.1, 0}))
	keys := heldKeys{common.KeyK: true}
	dc := NewDirectionControls(l, keys, 0.5)

	assert.Less(t, l.Direction()[0], float32(-0.6))
	assert.False(t, dc.Update(1.0/60), "K stops at the guard")
}

func TestDirectionControlsAxes(t *testing.T) {
	cases := []struct {
		key  uint32
		axis int
		sign float32
	}{
		{common.KeyI, 2, 1},
		{common.KeyM, 2, -1},
		{common.KeyO, 1, 1},
		{common.KeyP, 1, -1},
	}
	for _, tc := range cases {
		l := newLight(t, WithDirection(mgl32.Vec3{1, 0, 0}))
		dc := NewDirectionControls(l, heldKeys{tc.key: true}, 0.1)
		require.True(t, dc.Update(1.0/60))
		assert.Greater(t, dc.Direction()[tc.axis]*tc.sign, float32(0), "key %d", tc.key)
	}
}
