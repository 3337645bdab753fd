package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Plane holds every point p where Normal·p + Constant = 0. Points with a
// negative distance are on the clipped side.
type Plane struct {
	Normal   Vec3
	Constant float64
}

// NewPlane creates a plane from a normal and a constant, normalizing both.
func NewPlane(normal Vec3, constant float64) Plane {
	length := normal.Len()
	if length < Epsilon {
		return Plane{Normal: Up, Constant: constant}
	}
	return Plane{Normal: normal.Mul(1 / length), Constant: constant / length}
}

// NewPlaneFromNormalAndPoint creates the plane through point with the given normal.
func NewPlaneFromNormalAndPoint(normal, point Vec3) Plane {
	n := Normalized(normal)
	if IsZero(n) {
		n = Up
	}
	return Plane{Normal: n, Constant: -point.Dot(n)}
}

// Clone returns a copy of the plane.
func (p Plane) Clone() Plane {
	return Plane{Normal: p.Normal, Constant: p.Constant}
}

// DistanceToPoint returns the signed distance from the plane to point.
func (p Plane) DistanceToPoint(point Vec3) float64 {
	return p.Normal.Dot(point) + p.Constant
}

// CoplanarPoint returns the point of the plane closest to the origin.
func (p Plane) CoplanarPoint() Vec3 {
	return p.Normal.Mul(-p.Constant)
}

// ProjectPoint returns the orthogonal projection of point onto the plane.
func (p Plane) ProjectPoint(point Vec3) Vec3 {
	return point.Sub(p.Normal.Mul(p.DistanceToPoint(point)))
}

// Negate flips the clipped side.
func (p Plane) Negate() Plane {
	return Plane{Normal: p.Normal.Mul(-1), Constant: -p.Constant}
}

// ApplyMatrix transforms the plane by m. Normals go through the inverse
// transpose so non-uniform scaling stays correct.
func (p Plane) ApplyMatrix(m mgl64.Mat4) Plane {
	reference := Transform(p.CoplanarPoint(), m)
	normalMatrix := m.Mat3().Inv().Transpose()
	normal := Normalized(normalMatrix.Mul3x1(p.Normal))
	if IsZero(normal) {
		return p
	}
	return Plane{Normal: normal, Constant: -reference.Dot(normal)}
}

// ApproxEqual compares two planes with the given tolerance.
func (p Plane) ApproxEqual(other Plane, tolerance float64) bool {
	return ApproxEqual(p.Normal, other.Normal, tolerance) &&
		math.Abs(p.Constant-other.Constant) <= tolerance
}
