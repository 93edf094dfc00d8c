package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queued(kind ComponentKind, q QueueType) *testComponent {
	c := newTestComponent(kind, unitBox())
	c.SetQueue(q)
	return c
}

func distances(entries []RenderContext) []float32 {
	out := make([]float32, len(entries))
	for i, e := range entries {
		out[i] = e.DistanceSqr
	}
	return out
}

func TestRenderQueueGeometryFrontToBack(t *testing.T) {
	q := NewRenderQueue()
	for _, d := range []float32{400, 25, 900, 100, 0} {
		require.True(t, q.Insert(queued(KindMesh, QueueGeometry), d))
	}
	assert.Equal(t, []float32{0, 25, 100, 400, 900}, distances(q.Geometry))
}

func TestRenderQueueAlphaBackToFront(t *testing.T) {
	q := NewRenderQueue()
	for _, d := range []float32{400, 25, 900, 100} {
		q.Insert(queued(KindMesh, QueueAlphaBlend), d)
	}
	assert.Equal(t, []float32{900, 400, 100, 25}, distances(q.AlphaBlending))
}

func TestRenderQueueTiesKeepInsertionOrder(t *testing.T) {
	q := NewRenderQueue()
	a := queued(KindMesh, QueueGeometry)
	b := queued(KindCube, QueueGeometry)
	c := queued(KindBillboard, QueueGeometry)
	q.Insert(a, 10)
	q.Insert(b, 10)
	q.Insert(c, 5)

	require.Len(t, q.Geometry, 3)
	assert.Same(t, c, q.Geometry[0].Component)
	assert.Same(t, a, q.Geometry[1].Component)
	assert.Same(t, b, q.Geometry[2].Component)
	assert.Less(t, q.Geometry[1].Seq(), q.Geometry[2].Seq())

	x := queued(KindMesh, QueueAlphaBlend)
	y := queued(KindCube, QueueAlphaBlend)
	q.Insert(x, 7)
	q.Insert(y, 7)
	assert.Same(t, x, q.AlphaBlending[0].Component)
	assert.Same(t, y, q.AlphaBlending[1].Component)
}

func TestRenderQueueUnsortedBuckets(t *testing.T) {
	q := NewRenderQueue()
	q.Insert(queued(KindMesh, QueueBackground), 50)
	q.Insert(queued(KindMesh, QueueBackground), 1)
	q.Insert(queued(KindMesh, QueueOverlay), 9)
	q.Insert(queued(KindMesh, QueueOverlay), 100)

	assert.Equal(t, []float32{50, 1}, distances(q.Background))
	assert.Equal(t, []float32{9, 100}, distances(q.Overlay))
}

func TestRenderQueueClassification(t *testing.T) {
	q := NewRenderQueue()
	assert.True(t, q.Insert(queued(KindMesh, QueueAlphaTest), 3))
	assert.Len(t, q.Geometry, 1, "alpha-tested components draw with opaque geometry")
	assert.False(t, q.Insert(queued(KindMesh, QueueType(42)), 3))
	assert.Equal(t, 1, q.Len())

	q.Clear()
	assert.Zero(t, q.Len())
	q.Insert(queued(KindMesh, QueueGeometry), 1)
	assert.Zero(t, q.Geometry[0].Seq(), "sequence restarts each frame")
}
