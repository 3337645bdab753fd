package creators

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/scenekit/scenekit/internal/geometry"
	"github.com/scenekit/scenekit/internal/primitives"
)

func boxPointCount(t primitives.PrimitiveType) int {
	switch t {
	case primitives.VerticalArea:
		return 2
	case primitives.HorizontalArea:
		return 3
	}
	return 4
}

// boxShaper builds boxes and the two area variants.
//
// The first point is a minimum cube at the click. The second fixes the
// rotation about z. Every point after the first widens the footprint, the
// bounding range of all points in the rotated frame. The fourth also sets
// the height from its z offset to the third: a surface hit is taken as is,
// otherwise the ray is projected onto the vertical line through the third
// point. A vertical area is spanned by two points in a vertical plane.
type boxShaper struct {
	box *geometry.Box
	typ primitives.PrimitiveType
}

func (s *boxShaper) resolve(points []geometry.Vec3, index int, ray geometry.Ray, point *geometry.Vec3) (geometry.Vec3, bool) {
	switch {
	case index == 0:
		if point == nil {
			return geometry.Vec3{}, false
		}
		return *point, true
	case s.typ == primitives.VerticalArea:
		if point != nil {
			return *point, true
		}
		normal := geometry.Normalized(geometry.Horizontal(ray.Direction))
		if geometry.IsZero(normal) {
			return geometry.Vec3{}, false
		}
		return ray.IntersectPlane(geometry.NewPlaneFromNormalAndPoint(normal, points[0]))
	case index < 3:
		return onHorizontalPlane(points[0], ray, point)
	default:
		if point != nil {
			return *point, true
		}
		return ray.ClosestPointOnLine(points[2], geometry.Up)
	}
}

func (s *boxShaper) rebuild(points []geometry.Vec3) bool {
	b := s.box
	p0 := points[0]
	if len(points) == 1 {
		b.ZRotation = 0
		b.Size = geometry.Vec3{geometry.BoxMinSize, geometry.BoxMinSize, geometry.BoxMinSize}
		b.Center = p0
		if s.typ != primitives.VerticalArea {
			b.Center[2] += geometry.BoxMinSize / 2
		}
		return true
	}

	if delta := geometry.Horizontal(points[1].Sub(p0)); !geometry.IsZero(delta) {
		b.ZRotation = geometry.HorizontalAngle(delta)
	}
	if s.typ == primitives.VerticalArea {
		s.fitVertical(points[0], points[1])
		return true
	}

	s.fitFootprint(points)

	switch {
	case len(points) == 4:
		p2, p3 := points[2], points[3]
		b.Size[2] = math.Abs(p3[2] - p2[2])
		b.Center[2] = p2[2] + (p3[2]-p2[2])/2
	case s.typ == primitives.HorizontalArea:
		b.Size[2] = geometry.BoxMinSize
		b.Center[2] = p0[2]
	default:
		b.Size[2] = geometry.BoxMinSize
		b.Center[2] = p0[2] + geometry.BoxMinSize/2
	}
	b.ForceMinSize()
	return true
}

// fitFootprint sets the horizontal center and extent to the bounding range
// of points in the box's rotated frame.
func (s *boxShaper) fitFootprint(points []geometry.Vec3) {
	b := s.box
	toLocal := mgl64.HomogRotate3DZ(-b.ZRotation)
	var r geometry.Range3
	for _, p := range points {
		r.ExpandByPoint(geometry.Transform(geometry.Horizontal(p), toLocal))
	}
	center := geometry.Transform(r.Center(), mgl64.HomogRotate3DZ(b.ZRotation))
	size := r.Size()
	b.Center[0], b.Center[1] = center[0], center[1]
	b.Size[0], b.Size[1] = size[0], size[1]
}

func (s *boxShaper) fitVertical(p0, p1 geometry.Vec3) {
	b := s.box
	b.Center = p0.Add(p1).Mul(0.5)
	b.Size = geometry.Vec3{
		geometry.HorizontalLength(p1.Sub(p0)),
		geometry.BoxMinSize,
		math.Abs(p1[2] - p0[2]),
	}
	b.ForceMinSize()
}
