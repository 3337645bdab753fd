// Package clipping derives the global clip planes of a render target from
// the slice objects in the tree.
package clipping

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/scenekit/scenekit/internal/domain"
	"github.com/scenekit/scenekit/internal/geometry"
)

// Target receives the global clip planes.
type Target interface {
	// Transform maps tree coordinates into the target's coordinates.
	Transform() mgl64.Mat4
	// SetGlobalClipping replaces the current plane set. An empty list turns
	// clipping off.
	SetGlobalClipping(planes []geometry.Plane)
}

// SetClippingPlanes installs one plane per committed slice under root on
// target and returns how many were installed. Slices still being created
// are skipped.
func SetClippingPlanes(root *domain.Object, target Target) int {
	planes := Planes(root, target.Transform())
	target.SetGlobalClipping(planes)
	return len(planes)
}

// Planes collects copies of the committed slice planes under root,
// transformed by m.
func Planes(root *domain.Object, m mgl64.Mat4) []geometry.Plane {
	planes := []geometry.Plane{}
	for o := range root.Filter(IsSource) {
		if o.Focus() == domain.FocusPending {
			continue
		}
		shape, ok := o.Shape().(*geometry.PlaneShape)
		if !ok {
			continue
		}
		planes = append(planes, shape.Plane.Clone().ApplyMatrix(m))
	}
	return planes
}

// IsSource reports whether o contributes a global clip plane.
func IsSource(o *domain.Object) bool {
	return o.Kind().Info().ClipSource
}

// CropBoxPlanes returns the planes that keep the inside of box, transformed by m.
func CropBoxPlanes(box *geometry.Box, m mgl64.Mat4) []geometry.Plane {
	planes := box.ClippingPlanes()
	for i, p := range planes {
		planes[i] = p.ApplyMatrix(m)
	}
	return planes
}
