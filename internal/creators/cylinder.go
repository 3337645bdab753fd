package creators

import (
	"math"

	"github.com/scenekit/scenekit/internal/geometry"
	"github.com/scenekit/scenekit/internal/primitives"
)

func cylinderPointCount(t primitives.PrimitiveType) (int, int) {
	switch t {
	case primitives.HorizontalCircle:
		return 2, 2
	case primitives.VerticalCylinder, primitives.HorizontalCylinder:
		return 2, 3
	}
	return 3, 3
}

// cylinderShaper builds cylinders.
//
// Horizontal circle: two points on a diameter. Vertical and general
// cylinder: the first point is the center of one end, the second sets the
// radius about a vertical axis, the third moves the other end along the
// axis. Horizontal cylinder: the first point is the center of one end and
// the second sets the other end, the axis and the radius together. The
// other end sits level with the first, under or over the second point, and
// the radius is the second point's height above or below the axis. The
// third slides the other end along that axis.
type cylinderShaper struct {
	cylinder *geometry.Cylinder
	typ      primitives.PrimitiveType
	axis     geometry.Vec3 // axis guess taken from the first ray
}

func (s *cylinderShaper) resolve(points []geometry.Vec3, index int, ray geometry.Ray, point *geometry.Vec3) (geometry.Vec3, bool) {
	switch index {
	case 0:
		if point == nil {
			return geometry.Vec3{}, false
		}
		if s.typ == primitives.HorizontalCylinder {
			s.axis = geometry.Normalized(geometry.Horizontal(ray.Direction))
		} else {
			s.axis = geometry.Normalized(ray.Direction.Mul(-1))
		}
		if geometry.IsZero(s.axis) {
			if s.typ == primitives.HorizontalCylinder {
				s.axis = geometry.Vec3{1, 0, 0}
			} else {
				s.axis = geometry.Up
			}
		}
		return *point, true
	case 1:
		if s.typ == primitives.HorizontalCylinder {
			return onVerticalPlane(points[0], ray, point)
		}
		return onHorizontalPlane(points[0], ray, point)
	}
	if s.typ == primitives.HorizontalCylinder {
		return ray.ClosestPointOnLine(points[0], geometry.Horizontal(points[1].Sub(points[0])))
	}
	return ray.ClosestPointOnLine(points[0], geometry.Up)
}

// onVerticalPlane resolves a point on the vertical plane through origin that
// faces the ray, or on the horizontal plane when the ray looks straight down.
func onVerticalPlane(origin geometry.Vec3, ray geometry.Ray, point *geometry.Vec3) (geometry.Vec3, bool) {
	if point != nil {
		return *point, true
	}
	normal := geometry.Normalized(geometry.Horizontal(ray.Direction))
	if geometry.IsZero(normal) {
		return onHorizontalPlane(origin, ray, nil)
	}
	return ray.IntersectPlane(geometry.NewPlaneFromNormalAndPoint(normal, origin))
}

func (s *cylinderShaper) rebuild(points []geometry.Vec3) bool {
	c := s.cylinder
	p0 := points[0]
	if len(points) == 1 {
		c.CenterA = p0
		c.CenterB = p0.Add(s.axis.Mul(geometry.CylinderMinSize))
		c.Radius = geometry.CylinderMinSize
		return true
	}
	p1 := points[1]

	switch s.typ {
	case primitives.HorizontalCircle:
		center := p0.Add(p1).Mul(0.5)
		half := geometry.Up.Mul(geometry.CylinderMinSize / 2)
		c.CenterA = center.Sub(half)
		c.CenterB = center.Add(half)
		c.Radius = geometry.HorizontalLength(p1.Sub(p0)) / 2

	case primitives.HorizontalCylinder:
		offset := geometry.Horizontal(p1.Sub(p0))
		if geometry.IsZero(offset) {
			return false
		}
		c.CenterA = p0
		c.CenterB = p0.Add(offset)
		c.Radius = math.Abs(p1[2] - p0[2])
		if len(points) == 3 {
			if geometry.IsZero(points[2].Sub(p0)) {
				return false
			}
			c.CenterB = points[2]
		}

	default:
		c.CenterA = p0
		c.Radius = geometry.HorizontalLength(p1.Sub(p0))
		c.CenterB = p0.Add(geometry.Up.Mul(geometry.CylinderMinSize))
		if len(points) == 3 {
			if geometry.IsZero(points[2].Sub(p0)) {
				return false
			}
			c.CenterB = points[2]
		}
	}
	c.ForceMinSize()
	return true
}
