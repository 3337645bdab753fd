package primitives

import (
	"fmt"

	"github.com/scenekit/scenekit/internal/domain"
	"github.com/scenekit/scenekit/internal/geometry"
)

// KindFor returns the measurement kind built for t.
func KindFor(t PrimitiveType) (domain.Kind, error) {
	switch {
	case t.IsBox():
		return KindMeasureBox, nil
	case t.IsCylinder():
		return KindMeasureCylinder, nil
	case t == Line:
		return KindMeasureLine, nil
	case t == Polyline:
		return KindMeasurePolyline, nil
	case t == Polygon:
		return KindMeasurePolygon, nil
	case t == Point:
		return KindPoint, nil
	case t.IsPlane():
		return KindSlicePlane, nil
	}
	return 0, fmt.Errorf("no object kind for primitive type %s", t)
}

// NewObject creates a detached, initialized object for t with minimal
// geometry. Creators grow the geometry from there.
func NewObject(tree *domain.Tree, t PrimitiveType) (*domain.Object, error) {
	kind, err := KindFor(t)
	if err != nil {
		return nil, err
	}
	return NewObjectOfKind(tree, kind, t)
}

// NewObjectOfKind creates a detached object of kind with the geometry of t.
// Crop boxes and annotations use it with Box.
func NewObjectOfKind(tree *domain.Tree, kind domain.Kind, t PrimitiveType) (*domain.Object, error) {
	shape, err := newShape(t)
	if err != nil {
		return nil, err
	}
	o := tree.New(kind)
	o.SetVariant(int(t))
	o.SetShape(shape)
	o.Initialize()
	return o, nil
}

func newShape(t PrimitiveType) (geometry.Shape, error) {
	switch {
	case t.IsBox():
		return geometry.NewBox(), nil
	case t.IsCylinder():
		return geometry.NewCylinder(), nil
	case t.IsLine():
		return &geometry.Polyline{Closed: t == Polygon}, nil
	case t == Point:
		return &geometry.Point{Size: geometry.PointMinSize}, nil
	case t.IsPlane():
		return &geometry.PlaneShape{Plane: geometry.NewPlane(PlaneNormal(t), 0)}, nil
	}
	return nil, fmt.Errorf("no geometry for primitive type %s", t)
}

// PlaneNormal is the fixed normal of an axis aligned slice. PlaneXY starts
// facing x and is turned by its second point.
func PlaneNormal(t PrimitiveType) geometry.Vec3 {
	switch t {
	case PlaneY:
		return geometry.Vec3{0, 1, 0}
	case PlaneZ:
		return geometry.Up
	}
	return geometry.Vec3{1, 0, 0}
}

// FolderKindFor returns the folder kind objects of kind are grouped in.
func FolderKindFor(kind domain.Kind) domain.Kind {
	switch kind {
	case KindCropBox:
		return KindCropBoxFolder
	case KindSlicePlane:
		return KindSliceFolder
	case KindAnnotation:
		return KindAnnotationFolder
	case KindPoint:
		return KindPointFolder
	}
	return KindMeasurementFolder
}

// FolderFor returns the folder objects of kind belong in, creating it under
// root the first time.
func FolderFor(root *domain.Object, kind domain.Kind) *domain.Object {
	folderKind := FolderKindFor(kind)
	if folder := root.ChildByKind(folderKind); folder != nil {
		return folder
	}
	folder := root.Tree().New(folderKind)
	folder.Initialize()
	root.AddChildInteractive(folder, false)
	return folder
}
