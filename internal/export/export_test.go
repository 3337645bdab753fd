package export_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenekit/scenekit/internal/commands"
	"github.com/scenekit/scenekit/internal/domain"
	"github.com/scenekit/scenekit/internal/engine"
	"github.com/scenekit/scenekit/internal/export"
	"github.com/scenekit/scenekit/internal/geometry"
	"github.com/scenekit/scenekit/internal/primitives"
)

func addObject(t *testing.T, tree *domain.Tree, pt primitives.PrimitiveType, shape func(geometry.Shape)) *domain.Object {
	t.Helper()
	o, err := primitives.NewObject(tree, pt)
	require.NoError(t, err)
	shape(o.Shape())
	primitives.FolderFor(tree.Root(), o.Kind()).AddChild(o, false)
	return o
}

func fillScene(t *testing.T, tree *domain.Tree) {
	t.Helper()
	addObject(t, tree, primitives.Line, func(s geometry.Shape) {
		s.(*geometry.Polyline).Points = []geometry.Vec3{{0, 0, 0}, {3, 4, 0}}
	})
	addObject(t, tree, primitives.Polygon, func(s geometry.Shape) {
		s.(*geometry.Polyline).Points = []geometry.Vec3{{0, 0, 0}, {2, 0, 0}, {2, 2, 0}, {0, 2, 0}}
	})
	addObject(t, tree, primitives.Box, func(s geometry.Shape) {
		s.(*geometry.Box).Size = geometry.Vec3{1, 2, 3}
	})
	addObject(t, tree, primitives.PlaneZ, func(geometry.Shape) {})
}

func TestMeasurements(t *testing.T) {
	tree := domain.NewTree()
	fillScene(t, tree)

	pending, err := primitives.NewObject(tree, primitives.Line)
	require.NoError(t, err)
	pending.SetFocus(domain.FocusPending)
	primitives.FolderFor(tree.Root(), pending.Kind()).AddChild(pending, false)

	rows := export.Measurements(tree.Root())
	quantities := map[string]float64{}
	for _, row := range rows {
		assert.NotEqual(t, pending.ID(), row.ObjectID, "pending objects are skipped")
		quantities[row.Type+"."+row.Quantity] = row.Value
	}
	assert.InDelta(t, 5.0, quantities["line.length"], 1e-9)
	assert.InDelta(t, 8.0, quantities["polygon.perimeter"], 1e-9)
	assert.InDelta(t, 4.0, quantities["polygon.area"], 1e-9)
	assert.InDelta(t, 6.0, quantities["box.volume"], 1e-9)
	assert.Len(t, quantities, 7, "slices are not measurements")
}

func TestWriteCSV(t *testing.T) {
	var b strings.Builder
	err := export.WriteCSV(&b, []export.Row{{ObjectID: "obj_1", Name: "Line, 1", Type: "Line", Quantity: "length", Value: 2.5}})
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(b.String())).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"id", "name", "type", "quantity", "value"},
		{"obj_1", "Line, 1", "Line", "length", "2.5000"},
	}, records)
}

type nopViewer struct{}

func (nopViewer) Transform() mgl64.Mat4 { return mgl64.Ident4() }
func (nopViewer) Intersect(context.Context, commands.PointerEvent, func(string) bool) (*engine.Pick, error) {
	return nil, nil
}
func (nopViewer) SetClippingPlanes([]geometry.Plane) {}
func (nopViewer) SetCropBoxPlanes([]geometry.Plane)  {}
func (nopViewer) SetCursor(commands.Cursor)          {}

type sessions map[string]*engine.Engine

func (s sessions) SessionEngine(id string) (*engine.Engine, bool) {
	e, ok := s[id]
	return e, ok
}

func newRouter(t *testing.T) *mux.Router {
	t.Helper()
	e := engine.New(nopViewer{}, engine.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go e.Run(ctx)

	callCtx, callCancel := context.WithTimeout(context.Background(), time.Second)
	defer callCancel()
	require.NoError(t, e.Call(callCtx, func() { fillScene(t, e.Tree()) }))

	r := mux.NewRouter()
	r.HandleFunc("/sessions/{sessionId}/measurements", export.NewHandler(sessions{"s1": e}).Measurements)
	return r
}

func TestHandler_Measurements(t *testing.T) {
	r := newRouter(t)

	t.Run("csv", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/s1/measurements?name=site%201", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="site-1.csv"`)
		records, err := csv.NewReader(rec.Body).ReadAll()
		require.NoError(t, err)
		assert.Len(t, records, 8)
	})

	t.Run("json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/s1/measurements?format=json", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var rows []export.Row
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&rows))
		assert.Len(t, rows, 7)
	})

	t.Run("bad format", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/s1/measurements?format=xml", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/s2/measurements", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
