// Package primitives registers the editable scene objects: measurements,
// crop boxes, slice planes, annotations and point markers, the folders they
// are grouped in, and their render styles.
package primitives

import (
	"fmt"
	"strings"
)

// PrimitiveType names the shape a creator builds.
type PrimitiveType int

const (
	None PrimitiveType = iota
	Line
	Polyline
	Polygon
	HorizontalArea
	VerticalArea
	Box
	HorizontalCircle
	VerticalCylinder
	HorizontalCylinder
	Cylinder
	Point
	PlaneX
	PlaneY
	PlaneZ
	PlaneXY
)

var typeNames = [...]string{
	None:               "none",
	Line:               "line",
	Polyline:           "polyline",
	Polygon:            "polygon",
	HorizontalArea:     "horizontalArea",
	VerticalArea:       "verticalArea",
	Box:                "box",
	HorizontalCircle:   "horizontalCircle",
	VerticalCylinder:   "verticalCylinder",
	HorizontalCylinder: "horizontalCylinder",
	Cylinder:           "cylinder",
	Point:              "point",
	PlaneX:             "planeX",
	PlaneY:             "planeY",
	PlaneZ:             "planeZ",
	PlaneXY:            "planeXY",
}

func (t PrimitiveType) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("PrimitiveType(%d)", int(t))
	}
	return typeNames[t]
}

// ParsePrimitiveType accepts the names returned by String, ignoring case.
func ParsePrimitiveType(s string) (PrimitiveType, error) {
	for i, name := range typeNames {
		if strings.EqualFold(name, s) {
			return PrimitiveType(i), nil
		}
	}
	return None, fmt.Errorf("unknown primitive type %q", s)
}

// IsBox reports whether t is built as a box.
func (t PrimitiveType) IsBox() bool {
	return t == Box || t == HorizontalArea || t == VerticalArea
}

// IsCylinder reports whether t is built as a cylinder.
func (t PrimitiveType) IsCylinder() bool {
	switch t {
	case HorizontalCircle, VerticalCylinder, HorizontalCylinder, Cylinder:
		return true
	}
	return false
}

// IsLine reports whether t is built as a point list.
func (t PrimitiveType) IsLine() bool {
	return t == Line || t == Polyline || t == Polygon
}

// IsPlane reports whether t is a slice plane.
func (t PrimitiveType) IsPlane() bool {
	switch t {
	case PlaneX, PlaneY, PlaneZ, PlaneXY:
		return true
	}
	return false
}
