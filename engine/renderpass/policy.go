package renderpass

import (
	"github.com/Carmen-Shannon/oxy-shadow/common"
	"github.com/Carmen-Shannon/oxy-shadow/engine/scene"
)

// AcceptPolicy decides whether a component enters the render queue at all.
// It runs before the distance is known.
type AcceptPolicy interface {
	// Accept reports whether the component should be queued this frame.
	//
	// Parameters:
	//   - f: the frame being built
	//   - c: the candidate component
	//   - owner: the node the component is attached to
	//
	// Returns:
	//   - bool: true to continue towards the queue
	Accept(f *Frame, c scene.Component, owner scene.Node) bool
}

// AcceptFunc adapts a function to AcceptPolicy.
type AcceptFunc func(f *Frame, c scene.Component, owner scene.Node) bool

func (fn AcceptFunc) Accept(f *Frame, c scene.Component, owner scene.Node) bool {
	return fn(f, c, owner)
}

// AcceptAll queues every component.
var AcceptAll AcceptPolicy = AcceptFunc(func(*Frame, scene.Component, scene.Node) bool {
	return true
})

// AcceptShadowCasters queues only components that cast shadows.
var AcceptShadowCasters AcceptPolicy = AcceptFunc(func(_ *Frame, c scene.Component, _ scene.Node) bool {
	return c.ShadowCasting().CastsShadow()
})

// AcceptInFrustum wraps a policy and additionally rejects components whose owner's world
// box lies fully outside the frame camera's view volume. Owners without a valid world box
// are never rejected by the frustum test.
//
// Parameters:
//   - next: the policy to consult first
//
// Returns:
//   - AcceptPolicy: the combined policy
func AcceptInFrustum(next AcceptPolicy) AcceptPolicy {
	if next == nil {
		next = AcceptAll
	}
	return AcceptFunc(func(f *Frame, c scene.Component, owner scene.Node) bool {
		if !next.Accept(f, c, owner) {
			return false
		}
		sp := owner.Spatial()
		if sp == nil {
			return true
		}
		box := sp.WorldBoundingBox()
		if !common.IsBoundingBoxValid(box) {
			return true
		}
		fr, ok := f.Frustum()
		if !ok {
			return true
		}
		return fr.IntersectsBox(box)
	})
}

// CutoffPolicy decides, once the distance is known, whether a component stays queued.
type CutoffPolicy interface {
	// Keep reports whether a component at the given squared distance is queued.
	//
	// Parameters:
	//   - distanceSqr: the squared distance to the measuring camera
	//
	// Returns:
	//   - bool: true to queue the component
	Keep(distanceSqr float32) bool
}

type noCutoff struct{}

func (noCutoff) Keep(float32) bool { return true }

// NoCutoff keeps every component regardless of distance.
var NoCutoff CutoffPolicy = noCutoff{}

// DistanceCutoff keeps components no further than a squared distance.
type DistanceCutoff float32

// Keep reports whether distanceSqr <= the cutoff.
func (d DistanceCutoff) Keep(distanceSqr float32) bool {
	return distanceSqr <= float32(d)
}

// DistanceSource picks the camera distances are measured from.
type DistanceSource func(f *Frame) scene.Camera

// FromFrameCamera measures from the camera the frame renders with.
func FromFrameCamera(f *Frame) scene.Camera {
	return f.Camera
}

// FromMainCamera measures from the scene's main camera, whatever the frame renders with.
// Level-of-detail depth passes render from the light but cut off by distance to the viewer.
func FromMainCamera(f *Frame) scene.Camera {
	return f.scene.MainCamera()
}

// ShadeHook runs right before each queued component is drawn, typically to upload
// per-draw uniforms.
type ShadeHook func(f *Frame, rc scene.RenderContext)
