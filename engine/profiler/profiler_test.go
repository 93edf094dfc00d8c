package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestProfiler() (*Profiler, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	p := NewProfiler(WithSilent(), WithUpdateInterval(time.Second), withClock(clock.now))
	return p, clock
}

func withClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.now = now
	}
}

func TestTickReportsAverages(t *testing.T) {
	p, clock := newTestProfiler()

	for range 4 {
		p.AddPhase(PhaseUpdate, 2*time.Millisecond)
		p.AddPhase(PhaseOffscreen, 4*time.Millisecond)
		p.RecordPass("LoDDepthRenderPass", 10, 2)
		p.RecordPass("LoDShadowMapRenderPass", 12, 0)
		clock.advance(250 * time.Millisecond)
		p.Tick()
	}

	r := p.Last()
	assert.InDelta(t, 4.0, r.FPS, 1e-9)
	assert.Equal(t, 2*time.Millisecond, r.Phases[PhaseUpdate])
	assert.Equal(t, 4*time.Millisecond, r.Phases[PhaseOffscreen])
	assert.Zero(t, r.Phases[PhaseGUI])
	require.Len(t, r.Passes, 2)
	assert.Equal(t, PassReport{Name: "LoDDepthRenderPass", Queued: 10, Skipped: 2}, r.Passes[0])
	assert.Equal(t, "LoDShadowMapRenderPass", r.Passes[1].Name)
}

func TestTickWaitsForInterval(t *testing.T) {
	p, clock := newTestProfiler()
	clock.advance(500 * time.Millisecond)
	assert.False(t, p.Tick())
	clock.advance(500 * time.Millisecond)
	assert.True(t, p.Tick())
	clock.advance(100 * time.Millisecond)
	assert.False(t, p.Tick())
}

func TestIntervalsReset(t *testing.T) {
	p, clock := newTestProfiler()
	p.RecordPass("a", 5, 5)
	clock.advance(time.Second)
	require.True(t, p.Tick())

	clock.advance(time.Second)
	require.True(t, p.Tick())
	assert.Empty(t, p.Last().Passes)
}

func TestMeasure(t *testing.T) {
	p, clock := newTestProfiler()
	p.Measure(PhaseFrame, func() { clock.advance(3 * time.Millisecond) })
	clock.advance(time.Second)
	require.True(t, p.Tick())
	assert.Equal(t, 3*time.Millisecond, p.Last().Phases[PhaseFrame])
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "offscreen", PhaseOffscreen.String())
	assert.Equal(t, "phase(9)", Phase(9).String())
}
