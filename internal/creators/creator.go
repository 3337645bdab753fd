// Package creators turns sequences of pointer samples into primitive
// geometry. A creator owns one domain object from its first click until it
// is finished or escaped.
package creators

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/scenekit/scenekit/internal/domain"
	"github.com/scenekit/scenekit/internal/geometry"
	"github.com/scenekit/scenekit/internal/primitives"
)

// Unbounded is the maximum point count of shapes finished with Escape.
const Unbounded = math.MaxInt

// Creator accumulates points for one object.
type Creator interface {
	// Object is the object under construction.
	Object() *domain.Object
	MinimumPointCount() int
	MaximumPointCount() int
	// PreferIntersection tells the caller to resolve a surface hit for every sample.
	PreferIntersection() bool
	// AddPoint adds a sample. point is the surface hit, or nil when the ray
	// missed. A pending sample replaces the previous pending one. It returns
	// false and leaves the creator unchanged when the sample is rejected.
	AddPoint(ray geometry.Ray, point *geometry.Vec3, isPending bool) bool
	// NotPendingPointCount is the number of committed points.
	NotPendingPointCount() int
	IsFinished() bool
	// Escape ends creation. The object is finished if it has enough points
	// and removed otherwise. It reports whether the object was kept.
	Escape() bool
}

// Options tune the creators.
type Options struct {
	// PointSizeFactor scales the distance from the camera to a point marker.
	PointSizeFactor float64
	Logger          *slog.Logger
}

// shaper is the per-shape part of a creator.
type shaper interface {
	// resolve turns a sample into the point stored at index.
	resolve(points []geometry.Vec3, index int, ray geometry.Ray, point *geometry.Vec3) (geometry.Vec3, bool)
	// rebuild writes the geometry for points into the object's shape.
	rebuild(points []geometry.Vec3) bool
}

// base holds the point bookkeeping shared by all creators.
type base struct {
	object        *domain.Object
	shaper        shaper
	points        []geometry.Vec3
	lastIsPending bool
	min, max      int
	preferHit     bool
	finished      bool
	escaped       bool
	logger        *slog.Logger
}

// New returns the creator for obj, chosen by the primitive type obj was
// created as. The object is put in the Pending focus.
func New(obj *domain.Object, opts Options) (Creator, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.PointSizeFactor <= 0 {
		opts.PointSizeFactor = primitives.CurrentDefaults().PointSizeFactor
	}
	t := primitives.TypeOf(obj)
	b := &base{object: obj, logger: opts.Logger.With("creator", t.String(), "object", obj.ID())}
	switch {
	case t.IsBox():
		box, ok := obj.Shape().(*geometry.Box)
		if !ok {
			return nil, fmt.Errorf("box creator: object %s has %T geometry", obj.ID(), obj.Shape())
		}
		b.shaper = &boxShaper{box: box, typ: t}
		b.min, b.max = boxPointCount(t), boxPointCount(t)
		b.preferHit = true
	case t.IsCylinder():
		cylinder, ok := obj.Shape().(*geometry.Cylinder)
		if !ok {
			return nil, fmt.Errorf("cylinder creator: object %s has %T geometry", obj.ID(), obj.Shape())
		}
		b.shaper = &cylinderShaper{cylinder: cylinder, typ: t}
		b.min, b.max = cylinderPointCount(t)
		b.preferHit = true
	case t.IsLine():
		line, ok := obj.Shape().(*geometry.Polyline)
		if !ok {
			return nil, fmt.Errorf("line creator: object %s has %T geometry", obj.ID(), obj.Shape())
		}
		b.shaper = &lineShaper{line: line}
		b.min, b.max = linePointCount(t)
		b.preferHit = true
	case t == primitives.Point:
		point, ok := obj.Shape().(*geometry.Point)
		if !ok {
			return nil, fmt.Errorf("point creator: object %s has %T geometry", obj.ID(), obj.Shape())
		}
		b.shaper = &pointShaper{point: point, factor: opts.PointSizeFactor}
		b.min, b.max = 1, 1
		b.preferHit = true
	case t.IsPlane():
		plane, ok := obj.Shape().(*geometry.PlaneShape)
		if !ok {
			return nil, fmt.Errorf("plane creator: object %s has %T geometry", obj.ID(), obj.Shape())
		}
		b.shaper = &planeShaper{plane: plane, typ: t}
		b.min, b.max = planePointCount(t), planePointCount(t)
		b.preferHit = true
	default:
		return nil, fmt.Errorf("no creator for primitive type %s", t)
	}
	obj.SetFocus(domain.FocusPending)
	return b, nil
}

func (b *base) Object() *domain.Object   { return b.object }
func (b *base) MinimumPointCount() int   { return b.min }
func (b *base) MaximumPointCount() int   { return b.max }
func (b *base) PreferIntersection() bool { return b.preferHit }
func (b *base) IsFinished() bool         { return b.finished }

func (b *base) NotPendingPointCount() int {
	if b.lastIsPending {
		return len(b.points) - 1
	}
	return len(b.points)
}

func (b *base) AddPoint(ray geometry.Ray, point *geometry.Vec3, isPending bool) bool {
	if b.finished || b.escaped {
		return false
	}
	points := slices.Clone(b.points)
	if b.lastIsPending {
		points = points[:len(points)-1]
	}
	resolved, ok := b.shaper.resolve(points, len(points), ray, point)
	if !ok {
		b.logger.Debug("point rejected", "index", len(points), "pending", isPending)
		return false
	}
	points = append(points, resolved)

	before := b.object.Shape().Clone()
	if !b.shaper.rebuild(points) {
		b.restore(before)
		b.logger.Debug("geometry rejected", "index", len(points)-1, "pending", isPending)
		return false
	}
	b.points = points
	b.lastIsPending = isPending

	if b.NotPendingPointCount() >= b.max {
		b.finish()
		return true
	}
	b.object.Notify(domain.ChangeGeometry)
	return true
}

func (b *base) Escape() bool {
	if b.finished {
		return true
	}
	if b.escaped {
		return false
	}
	b.escaped = true
	if b.lastIsPending {
		b.points = b.points[:len(b.points)-1]
		b.lastIsPending = false
	}
	if len(b.points) >= b.min {
		before := b.object.Shape().Clone()
		if b.shaper.rebuild(b.points) && b.object.Shape().IsValid() {
			b.finish()
			return true
		}
		b.restore(before)
	}
	b.logger.Debug("creation abandoned", "points", len(b.points), "minimum", b.min)
	b.object.ForceRemoveInteractive()
	return false
}

func (b *base) finish() {
	b.finished = true
	b.object.SetFocusInteractive(domain.FocusFocus)
	b.object.Notify(domain.ChangeGeometry)
}

// restore copies a saved shape back into the object's shape in place, so
// the shaper's pointer stays valid.
func (b *base) restore(saved geometry.Shape) {
	switch s := b.object.Shape().(type) {
	case *geometry.Box:
		*s = *saved.(*geometry.Box)
	case *geometry.Cylinder:
		*s = *saved.(*geometry.Cylinder)
	case *geometry.Polyline:
		*s = *saved.(*geometry.Polyline)
	case *geometry.Point:
		*s = *saved.(*geometry.Point)
	case *geometry.PlaneShape:
		*s = *saved.(*geometry.PlaneShape)
	}
}

// onHorizontalPlane resolves a sample on the horizontal plane through
// origin. A surface hit is projected onto the plane, a miss is intersected
// with it.
func onHorizontalPlane(origin geometry.Vec3, ray geometry.Ray, point *geometry.Vec3) (geometry.Vec3, bool) {
	plane := geometry.NewPlaneFromNormalAndPoint(geometry.Up, origin)
	if point != nil {
		return plane.ProjectPoint(*point), true
	}
	return ray.IntersectPlane(plane)
}
