package primitives

import (
	"fmt"

	"github.com/scenekit/scenekit/internal/domain"
	"github.com/scenekit/scenekit/internal/geometry"
)

// Folders group primitives of one family under the root.
var (
	KindMeasurementFolder = registerFolder("Measurements", false)
	KindCropBoxFolder     = registerFolder("Crop boxes", false)
	KindSliceFolder       = registerFolder("Slices", false)
	KindAnnotationFolder  = registerFolder("Annotations", false)
	KindPointFolder       = registerFolder("Points", true)
)

var (
	KindMeasureBox      = registerPrimitive(domain.KindInfo{TypeName: "Box"})
	KindMeasureCylinder = registerPrimitive(domain.KindInfo{TypeName: "Cylinder"})
	KindMeasureLine     = registerPrimitive(domain.KindInfo{TypeName: "Line"})
	KindMeasurePolyline = registerPrimitive(domain.KindInfo{TypeName: "Polyline"})
	KindMeasurePolygon  = registerPrimitive(domain.KindInfo{TypeName: "Polygon"})
	KindCropBox         = registerPrimitive(domain.KindInfo{TypeName: "Crop box", CanBeActive: true})
	KindSlicePlane      = registerPrimitive(domain.KindInfo{TypeName: "Slice", ClipSource: true})
	KindAnnotation      = registerPrimitive(domain.KindInfo{TypeName: "Annotation", Extension: annotationText})
	KindPoint           = registerPrimitive(domain.KindInfo{TypeName: "Point", StyleFromParent: true})
)

func registerFolder(name string, styleRoot bool) domain.Kind {
	info := domain.KindInfo{
		TypeName:          name,
		FixedName:         true,
		FixedColor:        true,
		ExpandedByDefault: true,
	}
	if styleRoot {
		info.IsRenderStyleRoot = true
		info.NewRenderStyle = newStyle
		info.VerifyRenderStyle = verifyStyle
	}
	return domain.RegisterKind(info)
}

func registerPrimitive(info domain.KindInfo) domain.Kind {
	info.Visual = true
	info.NewRenderStyle = newStyle
	info.VerifyRenderStyle = verifyStyle
	if info.Extension == nil {
		info.Extension = measurement
	}
	info.Initialize = func(o *domain.Object) { o.SetVisible(true) }
	return domain.RegisterKind(info)
}

// IsPrimitive reports whether o is one of the editable primitives.
func IsPrimitive(o *domain.Object) bool {
	switch o.Kind() {
	case KindMeasureBox, KindMeasureCylinder, KindMeasureLine, KindMeasurePolyline,
		KindMeasurePolygon, KindCropBox, KindSlicePlane, KindAnnotation, KindPoint:
		return true
	}
	return false
}

// IsMeasurement reports whether o is a measuring primitive.
func IsMeasurement(o *domain.Object) bool {
	switch o.Kind() {
	case KindMeasureBox, KindMeasureCylinder, KindMeasureLine, KindMeasurePolyline, KindMeasurePolygon:
		return true
	}
	return false
}

// TypeOf returns the primitive type o was created as.
func TypeOf(o *domain.Object) PrimitiveType {
	return PrimitiveType(o.Variant())
}

// measurement renders the main measure of a primitive for its display name.
func measurement(o *domain.Object) string {
	switch s := o.Shape().(type) {
	case *geometry.Box:
		switch TypeOf(o) {
		case HorizontalArea:
			return fmt.Sprintf("A=%.3f", s.Size[0]*s.Size[1])
		case VerticalArea:
			return fmt.Sprintf("A=%.3f", s.Size[0]*s.Size[2])
		}
		return fmt.Sprintf("V=%.3f", s.Volume())
	case *geometry.Cylinder:
		if TypeOf(o) == HorizontalCircle {
			return fmt.Sprintf("R=%.3f", s.Radius)
		}
		return fmt.Sprintf("R=%.3f H=%.3f", s.Radius, s.Height())
	case *geometry.Polyline:
		if s.Closed {
			return fmt.Sprintf("A=%.3f", s.HorizontalArea())
		}
		return fmt.Sprintf("L=%.3f", s.Length())
	}
	return ""
}

func annotationText(o *domain.Object) string {
	return o.Text()
}
