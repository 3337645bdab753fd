package geometry

import "math"

// Ray is a half-line starting at Origin. Direction is kept normalized.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a ray and normalizes its direction.
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: Normalized(direction)}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// DistanceTo returns the distance from the ray origin to p.
func (r Ray) DistanceTo(p Vec3) float64 {
	return p.Sub(r.Origin).Len()
}

// IntersectPlane returns where the ray hits the plane. There is no hit when
// the ray is parallel to the plane or the plane lies behind the origin.
func (r Ray) IntersectPlane(p Plane) (Vec3, bool) {
	denominator := p.Normal.Dot(r.Direction)
	if math.Abs(denominator) < Epsilon {
		if math.Abs(p.DistanceToPoint(r.Origin)) < Epsilon {
			return r.Origin, true
		}
		return Vec3{}, false
	}
	t := -(r.Origin.Dot(p.Normal) + p.Constant) / denominator
	if t < 0 {
		return Vec3{}, false
	}
	return r.At(t), true
}

// ClosestPointOnLine returns the point on the infinite line through
// linePoint along lineDirection that is closest to the ray's supporting
// line. It fails when the two are parallel.
func (r Ray) ClosestPointOnLine(linePoint, lineDirection Vec3) (Vec3, bool) {
	e := Normalized(lineDirection)
	if IsZero(e) {
		return Vec3{}, false
	}
	d := r.Direction
	w0 := r.Origin.Sub(linePoint)

	a := d.Dot(d)
	b := d.Dot(e)
	c := e.Dot(e)
	dw := d.Dot(w0)
	ew := e.Dot(w0)

	denominator := a*c - b*b
	if math.Abs(denominator) < Epsilon {
		return Vec3{}, false
	}
	t := (a*ew - b*dw) / denominator
	return linePoint.Add(e.Mul(t)), true
}

// ClosestPointToPoint projects p onto the ray's supporting line.
func (r Ray) ClosestPointToPoint(p Vec3) Vec3 {
	t := p.Sub(r.Origin).Dot(r.Direction)
	return r.At(t)
}
