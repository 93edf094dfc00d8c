package scene

import (
	"slices"
	"sort"
)

// RenderContext pairs a queued component with its squared distance to the active camera.
// It is only valid for the frame that built it.
type RenderContext struct {
	Component   Component
	DistanceSqr float32

	seq uint64
}

// Seq returns the insertion sequence number, which breaks distance ties.
func (rc RenderContext) Seq() uint64 {
	return rc.seq
}

// RenderQueue is the per-frame classification of queued components into draw-order buckets.
//
// Background and Overlay keep insertion order. Geometry is ordered by ascending distance
// (front to back) and AlphaBlending by descending distance (back to front). Equal distances
// keep insertion order, so iteration is fully deterministic.
type RenderQueue struct {
	Background    []RenderContext
	Geometry      []RenderContext
	AlphaBlending []RenderContext
	Overlay       []RenderContext

	seq uint64
}

// NewRenderQueue creates an empty queue.
func NewRenderQueue() *RenderQueue {
	return &RenderQueue{}
}

// Insert classifies a component into the bucket of its queue type.
// QueueAlphaTest components are opaque with cutouts and go to Geometry.
//
// Parameters:
//   - c: the component
//   - distanceSqr: the squared distance to the active camera
//
// Returns:
//   - bool: false if the queue type is unknown
func (q *RenderQueue) Insert(c Component, distanceSqr float32) bool {
	rc := RenderContext{Component: c, DistanceSqr: distanceSqr, seq: q.seq}

	switch c.Queue() {
	case QueueBackground:
		q.Background = append(q.Background, rc)
	case QueueGeometry, QueueAlphaTest:
		i := sort.Search(len(q.Geometry), func(i int) bool {
			return q.Geometry[i].DistanceSqr > distanceSqr
		})
		q.Geometry = slices.Insert(q.Geometry, i, rc)
	case QueueAlphaBlend:
		i := sort.Search(len(q.AlphaBlending), func(i int) bool {
			return q.AlphaBlending[i].DistanceSqr < distanceSqr
		})
		q.AlphaBlending = slices.Insert(q.AlphaBlending, i, rc)
	case QueueOverlay:
		q.Overlay = append(q.Overlay, rc)
	default:
		return false
	}

	q.seq++
	return true
}

// Clear empties every bucket, keeping the allocated capacity for the next frame.
func (q *RenderQueue) Clear() {
	clear(q.Background)
	clear(q.Geometry)
	clear(q.AlphaBlending)
	clear(q.Overlay)
	q.Background = q.Background[:0]
	q.Geometry = q.Geometry[:0]
	q.AlphaBlending = q.AlphaBlending[:0]
	q.Overlay = q.Overlay[:0]
	q.seq = 0
}

// Len returns the number of queued entries across all buckets.
func (q *RenderQueue) Len() int {
	return len(q.Background) + len(q.Geometry) + len(q.AlphaBlending) + len(q.Overlay)
}
