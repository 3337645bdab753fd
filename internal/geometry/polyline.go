package geometry

import "math"

// Polyline is an ordered point list. A closed polyline is a polygon.
type Polyline struct {
	Points []Vec3
	Closed bool
}

// Clone implements Shape.
func (p *Polyline) Clone() Shape {
	points := make([]Vec3, len(p.Points))
	copy(points, p.Points)
	return &Polyline{Points: points, Closed: p.Closed}
}

// Translate implements Shape.
func (p *Polyline) Translate(delta Vec3) {
	for i := range p.Points {
		p.Points[i] = p.Points[i].Add(delta)
	}
}

// IsValid implements Shape. A polyline needs two points, a polygon three.
func (p *Polyline) IsValid() bool {
	if p.Closed {
		return len(p.Points) >= 3
	}
	return len(p.Points) >= 2
}

// CenterPoint implements Shape.
func (p *Polyline) CenterPoint() Vec3 {
	var r Range3
	for _, point := range p.Points {
		r.ExpandByPoint(point)
	}
	return r.Center()
}

// Length returns the total length, including the closing segment of a polygon.
func (p *Polyline) Length() float64 {
	n := len(p.Points)
	if n < 2 {
		return 0
	}
	length := 0.0
	for i := 1; i < n; i++ {
		length += p.Points[i].Sub(p.Points[i-1]).Len()
	}
	if p.Closed && n > 2 {
		length += p.Points[0].Sub(p.Points[n-1]).Len()
	}
	return length
}

// HorizontalArea returns the area of the polygon projected onto the xy plane.
func (p *Polyline) HorizontalArea() float64 {
	n := len(p.Points)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		a := p.Points[i]
		b := p.Points[(i+1)%n]
		sum += a[0]*b[1] - b[0]*a[1]
	}
	return math.Abs(sum) / 2
}

// Last returns the last point, if any.
func (p *Polyline) Last() (Vec3, bool) {
	if len(p.Points) == 0 {
		return Vec3{}, false
	}
	return p.Points[len(p.Points)-1], true
}
