// Package export writes measurement reports for a scene.
package export

import (
	"fmt"
	"math"

	"github.com/scenekit/scenekit/internal/domain"
	"github.com/scenekit/scenekit/internal/geometry"
	"github.com/scenekit/scenekit/internal/primitives"
)

// Row is one measured quantity of one object.
type Row struct {
	ObjectID string  `json:"objectId"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Quantity string  `json:"quantity"`
	Value    float64 `json:"value"`
}

var measurementKinds = []domain.Kind{
	primitives.KindMeasureBox,
	primitives.KindMeasureCylinder,
	primitives.KindMeasureLine,
	primitives.KindMeasurePolyline,
	primitives.KindMeasurePolygon,
	primitives.KindPoint,
}

// Measurements lists the quantities of every committed measurement and
// point under root, in tree order. Call it on the engine's event loop.
func Measurements(root *domain.Object) []Row {
	rows := []Row{}
	isMeasurement := func(o *domain.Object) bool {
		for _, k := range measurementKinds {
			if o.Kind() == k {
				return o.IsLegal() && !o.IsRemoved()
			}
		}
		return false
	}
	for o := range root.Filter(isMeasurement) {
		for _, q := range quantities(o.Shape()) {
			rows = append(rows, Row{
				ObjectID: o.ID(),
				Name:     o.DisplayName(),
				Type:     primitives.TypeOf(o).String(),
				Quantity: q.name,
				Value:    q.value,
			})
		}
	}
	return rows
}

type quantity struct {
	name  string
	value float64
}

func quantities(s geometry.Shape) []quantity {
	switch s := s.(type) {
	case *geometry.Box:
		return []quantity{
			{"width", s.Size[0]},
			{"depth", s.Size[1]},
			{"height", s.Size[2]},
			{"volume", s.Volume()},
		}
	case *geometry.Cylinder:
		return []quantity{
			{"radius", s.Radius},
			{"height", s.Height()},
			{"volume", math.Pi * s.Radius * s.Radius * s.Height()},
		}
	case *geometry.Polyline:
		if s.Closed {
			return []quantity{
				{"perimeter", s.Length()},
				{"area", s.HorizontalArea()},
			}
		}
		return []quantity{{"length", s.Length()}}
	case *geometry.Point:
		return []quantity{{"x", s.Position[0]}, {"y", s.Position[1]}, {"z", s.Position[2]}}
	}
	return nil
}

// FormatValue renders a value the way the report prints it.
func FormatValue(v float64) string {
	return fmt.Sprintf("%.4f", v)
}
