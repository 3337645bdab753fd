// Package geometry holds the numeric shapes the scene core edits: boxes,
// cylinders, polylines, points and planes, plus the rays and ranges used to
// build them from pointer input.
//
// Coordinates are z-up. Vectors are mgl64 vectors.
package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a 3D vector or point.
type Vec3 = mgl64.Vec3

// Epsilon is the tolerance used for parallel and degeneracy checks.
const Epsilon = 1e-10

// Up is the world up direction.
var Up = Vec3{0, 0, 1}

// Horizontal drops the z component of v.
func Horizontal(v Vec3) Vec3 {
	return Vec3{v[0], v[1], 0}
}

// HorizontalLength returns the length of v projected onto the xy plane.
func HorizontalLength(v Vec3) float64 {
	return math.Hypot(v[0], v[1])
}

// HorizontalAngle returns the angle of v in the xy plane, in [0, 2π).
func HorizontalAngle(v Vec3) float64 {
	angle := math.Atan2(v[1], v[0])
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle
}

// IsZero reports whether v has (almost) no length.
func IsZero(v Vec3) bool {
	return v.Dot(v) < Epsilon*Epsilon
}

// Normalized returns v with unit length, or the zero vector if v is zero.
func Normalized(v Vec3) Vec3 {
	if IsZero(v) {
		return Vec3{}
	}
	return v.Normalize()
}

// Transform applies m to the point v.
func Transform(v Vec3, m mgl64.Mat4) Vec3 {
	return mgl64.TransformCoordinate(v, m)
}

// ApproxEqual compares two vectors component-wise with the given tolerance.
func ApproxEqual(a, b Vec3, tolerance float64) bool {
	return a.ApproxEqualThreshold(b, tolerance)
}
