package geometry

// Shape is the closed set of primitive geometries a domain object can carry.
// Implementations are *Box, *Cylinder, *Polyline, *Point and *PlaneShape.
type Shape interface {
	// Clone returns a deep copy.
	Clone() Shape
	// Translate moves the shape by delta.
	Translate(delta Vec3)
	// IsValid reports whether the shape is above its minimum size.
	IsValid() bool
	// CenterPoint returns a representative center point.
	CenterPoint() Vec3
}
