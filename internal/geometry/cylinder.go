package geometry

// CylinderMinSize is the smallest radius and height a committed cylinder may have.
const CylinderMinSize = 0.01

// Cylinder is defined by the centers of its two end caps and a radius.
type Cylinder struct {
	CenterA Vec3
	CenterB Vec3
	Radius  float64
}

// NewCylinder returns a minimum size vertical cylinder at the origin.
func NewCylinder() *Cylinder {
	return &Cylinder{
		CenterB: Vec3{0, 0, CylinderMinSize},
		Radius:  CylinderMinSize,
	}
}

// Clone implements Shape.
func (c *Cylinder) Clone() Shape {
	copied := *c
	return &copied
}

// Translate implements Shape.
func (c *Cylinder) Translate(delta Vec3) {
	c.CenterA = c.CenterA.Add(delta)
	c.CenterB = c.CenterB.Add(delta)
}

// IsValid implements Shape.
func (c *Cylinder) IsValid() bool {
	return c.Radius >= CylinderMinSize && c.Height() >= CylinderMinSize
}

// CenterPoint implements Shape.
func (c *Cylinder) CenterPoint() Vec3 {
	return c.CenterA.Add(c.CenterB).Mul(0.5)
}

// Height returns the distance between the two end centers.
func (c *Cylinder) Height() float64 {
	return c.CenterB.Sub(c.CenterA).Len()
}

// Axis returns the unit direction from CenterA to CenterB, or Up when the
// cylinder has no height.
func (c *Cylinder) Axis() Vec3 {
	axis := Normalized(c.CenterB.Sub(c.CenterA))
	if IsZero(axis) {
		return Up
	}
	return axis
}

// ForceMinSize raises radius and height to CylinderMinSize.
func (c *Cylinder) ForceMinSize() {
	if c.Radius < CylinderMinSize {
		c.Radius = CylinderMinSize
	}
	if c.Height() < CylinderMinSize {
		c.CenterB = c.CenterA.Add(c.Axis().Mul(CylinderMinSize))
	}
}
