package geometry

// PointMinSize is the smallest marker size.
const PointMinSize = 0.001

// Point is a marker with a world-space size.
type Point struct {
	Position Vec3
	Size     float64
}

// Clone implements Shape.
func (p *Point) Clone() Shape {
	c := *p
	return &c
}

// Translate implements Shape.
func (p *Point) Translate(delta Vec3) {
	p.Position = p.Position.Add(delta)
}

// IsValid implements Shape.
func (p *Point) IsValid() bool {
	return p.Size >= PointMinSize
}

// CenterPoint implements Shape.
func (p *Point) CenterPoint() Vec3 {
	return p.Position
}

// PlaneShape is a slice plane carried by a domain object.
type PlaneShape struct {
	Plane Plane
	// Anchor is a point on the plane used for display and picking.
	Anchor Vec3
}

// Clone implements Shape.
func (p *PlaneShape) Clone() Shape {
	c := *p
	return &c
}

// Translate implements Shape.
func (p *PlaneShape) Translate(delta Vec3) {
	p.Anchor = p.Anchor.Add(delta)
	p.Plane = NewPlaneFromNormalAndPoint(p.Plane.Normal, p.Anchor)
}

// IsValid implements Shape.
func (p *PlaneShape) IsValid() bool {
	return !IsZero(p.Plane.Normal)
}

// CenterPoint implements Shape.
func (p *PlaneShape) CenterPoint() Vec3 {
	return p.Anchor
}
