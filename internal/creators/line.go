package creators

import (
	"slices"

	"github.com/scenekit/scenekit/internal/geometry"
	"github.com/scenekit/scenekit/internal/primitives"
)

func linePointCount(t primitives.PrimitiveType) (int, int) {
	switch t {
	case primitives.Line:
		return 2, 2
	case primitives.Polygon:
		return 3, Unbounded
	}
	return 2, Unbounded
}

// lineShaper builds lines, polylines and polygons. A sample without a
// surface hit lands on the plane through the last point that faces the ray.
type lineShaper struct {
	line *geometry.Polyline
}

func (s *lineShaper) resolve(points []geometry.Vec3, index int, ray geometry.Ray, point *geometry.Vec3) (geometry.Vec3, bool) {
	if point != nil {
		return *point, true
	}
	if index == 0 {
		return geometry.Vec3{}, false
	}
	last := points[index-1]
	return ray.IntersectPlane(geometry.NewPlaneFromNormalAndPoint(ray.Direction, last))
}

func (s *lineShaper) rebuild(points []geometry.Vec3) bool {
	s.line.Points = slices.Clone(points)
	return true
}
