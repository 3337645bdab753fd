package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BoxMinSize is the smallest extent a committed box may have along any axis.
const BoxMinSize = 0.01

// Box is an oriented box rotated about the z axis.
type Box struct {
	Center    Vec3
	Size      Vec3
	ZRotation float64 // radians
}

// NewBox returns a minimum size box at the origin.
func NewBox() *Box {
	return &Box{Size: Vec3{BoxMinSize, BoxMinSize, BoxMinSize}}
}

// Clone implements Shape.
func (b *Box) Clone() Shape {
	c := *b
	return &c
}

// Translate implements Shape.
func (b *Box) Translate(delta Vec3) {
	b.Center = b.Center.Add(delta)
}

// IsValid implements Shape.
func (b *Box) IsValid() bool {
	for i := 0; i < 3; i++ {
		if b.Size[i] < BoxMinSize || math.IsNaN(b.Size[i]) {
			return false
		}
	}
	return true
}

// CenterPoint implements Shape.
func (b *Box) CenterPoint() Vec3 {
	return b.Center
}

// ForceMinSize raises every extent below BoxMinSize to BoxMinSize.
func (b *Box) ForceMinSize() {
	for i := 0; i < 3; i++ {
		if b.Size[i] < BoxMinSize {
			b.Size[i] = BoxMinSize
		}
	}
}

// Volume returns the box volume.
func (b *Box) Volume() float64 {
	return b.Size[0] * b.Size[1] * b.Size[2]
}

// RotationMatrix returns the rotation about z.
func (b *Box) RotationMatrix() mgl64.Mat4 {
	return mgl64.HomogRotate3DZ(b.ZRotation)
}

// Matrix maps the unit cube centered at the origin onto the box.
func (b *Box) Matrix() mgl64.Mat4 {
	return mgl64.Translate3D(b.Center[0], b.Center[1], b.Center[2]).
		Mul4(b.RotationMatrix()).
		Mul4(mgl64.Scale3D(b.Size[0], b.Size[1], b.Size[2]))
}

// Corners returns the eight box corners in world space.
func (b *Box) Corners() [8]Vec3 {
	var corners [8]Vec3
	m := b.Matrix()
	i := 0
	for _, x := range []float64{-0.5, 0.5} {
		for _, y := range []float64{-0.5, 0.5} {
			for _, z := range []float64{-0.5, 0.5} {
				corners[i] = Transform(Vec3{x, y, z}, m)
				i++
			}
		}
	}
	return corners
}

// ClippingPlanes returns the six face planes with normals pointing inward,
// so everything outside the box is clipped.
func (b *Box) ClippingPlanes() []Plane {
	rotation := b.RotationMatrix()
	planes := make([]Plane, 0, 6)
	for axis := 0; axis < 3; axis++ {
		var unit Vec3
		unit[axis] = 1
		direction := Normalized(mgl64.TransformNormal(unit, rotation))
		half := b.Size[axis] / 2
		for _, sign := range []float64{1, -1} {
			outward := direction.Mul(sign)
			face := b.Center.Add(outward.Mul(half))
			planes = append(planes, NewPlaneFromNormalAndPoint(outward.Mul(-1), face))
		}
	}
	return planes
}
