package creators

import (
	"github.com/scenekit/scenekit/internal/geometry"
	"github.com/scenekit/scenekit/internal/primitives"
)

// pointShaper places a marker whose size grows with the distance to the
// camera, so markers look the same size on screen.
type pointShaper struct {
	point  *geometry.Point
	factor float64
	size   float64
}

func (s *pointShaper) resolve(_ []geometry.Vec3, _ int, ray geometry.Ray, point *geometry.Vec3) (geometry.Vec3, bool) {
	if point == nil {
		return geometry.Vec3{}, false
	}
	s.size = ray.DistanceTo(*point) * s.factor
	return *point, true
}

func (s *pointShaper) rebuild(points []geometry.Vec3) bool {
	s.point.Position = points[0]
	s.point.Size = max(s.size, geometry.PointMinSize)
	return true
}

func planePointCount(t primitives.PrimitiveType) int {
	if t == primitives.PlaneXY {
		return 2
	}
	return 1
}

// planeShaper places slice planes. Axis planes go through the click. A
// PlaneXY is the vertical plane through two clicks.
type planeShaper struct {
	plane *geometry.PlaneShape
	typ   primitives.PrimitiveType
}

func (s *planeShaper) resolve(points []geometry.Vec3, index int, ray geometry.Ray, point *geometry.Vec3) (geometry.Vec3, bool) {
	if index == 0 {
		if point == nil {
			return geometry.Vec3{}, false
		}
		return *point, true
	}
	return onHorizontalPlane(points[0], ray, point)
}

func (s *planeShaper) rebuild(points []geometry.Vec3) bool {
	p0 := points[0]
	normal := primitives.PlaneNormal(s.typ)
	if len(points) == 2 {
		d := geometry.Horizontal(points[1].Sub(p0))
		if geometry.IsZero(d) {
			return false
		}
		normal = geometry.Normalized(geometry.Vec3{-d[1], d[0], 0})
	}
	s.plane.Anchor = p0
	s.plane.Plane = geometry.NewPlaneFromNormalAndPoint(normal, p0)
	return true
}
