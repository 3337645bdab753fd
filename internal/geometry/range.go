package geometry

import "math"

// Range3 is an axis-aligned bounding range. The zero value is empty.
type Range3 struct {
	Min      Vec3
	Max      Vec3
	nonEmpty bool
}

// IsEmpty reports whether no point has been added.
func (r Range3) IsEmpty() bool {
	return !r.nonEmpty
}

// ExpandByPoint grows the range to contain p.
func (r *Range3) ExpandByPoint(p Vec3) {
	if !r.nonEmpty {
		r.Min, r.Max, r.nonEmpty = p, p, true
		return
	}
	for i := 0; i < 3; i++ {
		r.Min[i] = math.Min(r.Min[i], p[i])
		r.Max[i] = math.Max(r.Max[i], p[i])
	}
}

// Union returns the smallest range containing both ranges.
func (r Range3) Union(other Range3) Range3 {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	r.ExpandByPoint(other.Min)
	r.ExpandByPoint(other.Max)
	return r
}

// Center returns the midpoint of the range.
func (r Range3) Center() Vec3 {
	return r.Min.Add(r.Max).Mul(0.5)
}

// Size returns the extent of the range along each axis.
func (r Range3) Size() Vec3 {
	if r.IsEmpty() {
		return Vec3{}
	}
	return r.Max.Sub(r.Min)
}
