package creators_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenekit/scenekit/internal/creators"
	"github.com/scenekit/scenekit/internal/domain"
	"github.com/scenekit/scenekit/internal/geometry"
	"github.com/scenekit/scenekit/internal/primitives"
)

const tolerance = 1e-9

func vec(x, y, z float64) geometry.Vec3 { return geometry.Vec3{x, y, z} }

// rayTo returns a ray along direction that passes through target.
func rayTo(target, direction geometry.Vec3) geometry.Ray {
	return geometry.NewRay(target.Sub(geometry.Normalized(direction)), direction)
}

func hit(p geometry.Vec3) *geometry.Vec3 { return &p }

func start(t *testing.T, typ primitives.PrimitiveType) (*domain.Tree, *domain.Object, creators.Creator) {
	t.Helper()
	tree := domain.NewTree()
	obj, err := primitives.NewObject(tree, typ)
	require.NoError(t, err)
	primitives.FolderFor(tree.Root(), obj.Kind()).AddChild(obj, false)
	c, err := creators.New(obj, creators.Options{PointSizeFactor: 0.01})
	require.NoError(t, err)
	require.Equal(t, domain.FocusPending, obj.Focus())
	return tree, obj, c
}

func assertVec(t *testing.T, want, got geometry.Vec3) {
	t.Helper()
	assert.True(t, geometry.ApproxEqual(want, got, tolerance), "want %v, got %v", want, got)
}

func TestBoxCreator(t *testing.T) {
	_, obj, c := start(t, primitives.Box)
	dir := vec(1, 0, -1)
	assert.Equal(t, 4, c.MinimumPointCount())
	assert.Equal(t, 4, c.MaximumPointCount())

	require.True(t, c.AddPoint(rayTo(vec(0, 0, 0), dir), hit(vec(0, 0, 0)), false))
	box := obj.Shape().(*geometry.Box)
	assertVec(t, vec(0, 0, geometry.BoxMinSize/2), box.Center)
	assertVec(t, vec(geometry.BoxMinSize, geometry.BoxMinSize, geometry.BoxMinSize), box.Size)

	// A hover preview is replaced by the next click.
	require.True(t, c.AddPoint(rayTo(vec(5, 5, 0), dir), nil, true))
	assert.Equal(t, 1, c.NotPendingPointCount())

	require.True(t, c.AddPoint(rayTo(vec(2, 0, 0), dir), nil, false))
	require.True(t, c.AddPoint(rayTo(vec(2, 1, 0), dir), hit(vec(2, 1, 0)), false))
	assert.False(t, c.IsFinished())
	require.True(t, c.AddPoint(rayTo(vec(2, 1, 1), dir), nil, false))

	assert.True(t, c.IsFinished())
	assertVec(t, vec(2, 1, 1), box.Size)
	assertVec(t, vec(1, 0.5, 0.5), box.Center)
	assert.InDelta(t, 0, box.ZRotation, tolerance)
	assert.Equal(t, domain.FocusFocus, obj.Focus())

	assert.False(t, c.AddPoint(rayTo(vec(9, 9, 9), dir), nil, false), "finished creators take no points")
}

func TestBoxCreator_FootprintUsesEveryPoint(t *testing.T) {
	dir := vec(1, 0, -1)
	clickAll := func(t *testing.T, clicks ...geometry.Vec3) *geometry.Box {
		t.Helper()
		_, obj, c := start(t, primitives.Box)
		for _, p := range clicks {
			require.True(t, c.AddPoint(rayTo(p, dir), hit(p), false))
		}
		require.True(t, c.IsFinished())
		return obj.Shape().(*geometry.Box)
	}

	t.Run("base on the ground", func(t *testing.T) {
		box := clickAll(t, vec(0, 0, 0), vec(1, 0, 0), vec(1, 1, 0), vec(2, 1, 1))
		assertVec(t, vec(2, 1, 1), box.Size)
		assertVec(t, vec(1, 0.5, 0.5), box.Center)
		assert.InDelta(t, 0, box.ZRotation, tolerance)
	})

	t.Run("all clicks at one height", func(t *testing.T) {
		box := clickAll(t, vec(0, 0, 1), vec(1, 0, 1), vec(1, 1, 1), vec(2, 1, 1))
		// The fourth click widens the footprint to x in [0,2].
		assert.InDelta(t, 2, box.Size[0], tolerance)
		assert.InDelta(t, 1, box.Size[1], tolerance)
		assert.InDelta(t, 1, box.Center[0], tolerance)
		assert.InDelta(t, 0.5, box.Center[1], tolerance)
		// No z offset between the last two clicks, so the height floors.
		assert.InDelta(t, geometry.BoxMinSize, box.Size[2], tolerance)
		assert.InDelta(t, 1, box.Center[2], tolerance)
	})
}

func TestBoxCreator_Rotated(t *testing.T) {
	_, obj, c := start(t, primitives.HorizontalArea)
	down := vec(0, 0, -1)
	require.True(t, c.AddPoint(rayTo(vec(0, 0, 0), down), hit(vec(0, 0, 0)), false))
	require.True(t, c.AddPoint(rayTo(vec(1, 1, 0), down), nil, false))
	require.True(t, c.AddPoint(rayTo(vec(0, 2, 0), down), nil, false))

	assert.True(t, c.IsFinished())
	box := obj.Shape().(*geometry.Box)
	assert.InDelta(t, 0.25*3.141592653589793, box.ZRotation, tolerance)
	assert.InDelta(t, 1.4142135623730951, box.Size[0], tolerance)
	assert.InDelta(t, 1.4142135623730951, box.Size[1], tolerance)
	assertVec(t, vec(0, 1, 0), box.Center)
}

func TestBoxCreator_VerticalArea(t *testing.T) {
	_, obj, c := start(t, primitives.VerticalArea)
	require.True(t, c.AddPoint(rayTo(vec(0, 0, 0), vec(0, 1, 0)), hit(vec(0, 0, 0)), false))
	box := obj.Shape().(*geometry.Box)
	assert.InDelta(t, 0, box.Center[2], tolerance, "no vertical offset")

	require.True(t, c.AddPoint(rayTo(vec(3, 0, 2), vec(0, 1, 0)), nil, false))
	assert.True(t, c.IsFinished())
	assertVec(t, vec(3, geometry.BoxMinSize, 2), box.Size)
	assertVec(t, vec(1.5, 0, 1), box.Center)
}

func TestBoxCreator_RejectsPoint(t *testing.T) {
	tree, obj, c := start(t, primitives.Box)
	require.True(t, c.AddPoint(rayTo(vec(0, 0, 0), vec(0, 0, -1)), hit(vec(0, 0, 0)), false))
	before := obj.Shape().Clone()

	var notified int
	tree.Subscribe(func(*domain.Object, domain.Change) { notified++ })

	parallel := geometry.NewRay(vec(0, 0, 5), vec(1, 0, 0))
	assert.False(t, c.AddPoint(parallel, nil, false))
	assert.Equal(t, 1, c.NotPendingPointCount())
	assert.Equal(t, before, obj.Shape())
	assert.Zero(t, notified)

	_, obj2, first := start(t, primitives.Box)
	assert.False(t, first.AddPoint(parallel, nil, false), "first point needs a surface hit")
	assert.Equal(t, 0, first.NotPendingPointCount())
	assert.Equal(t, domain.FocusPending, obj2.Focus())
}

func TestCylinderCreator_HorizontalCircle(t *testing.T) {
	center := vec(1, 1, 2)
	a, b := vec(-0.5, 1, 2), vec(2.5, 1, 2)
	slanted := vec(1, 1, -1)

	tests := []struct {
		name   string
		second *geometry.Vec3
	}{
		{"surface hits", hit(b)},
		{"plane fallback", nil},
		{"hit off the plane", hit(vec(2.5, 1, 2.7))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, obj, c := start(t, primitives.HorizontalCircle)
			require.True(t, c.AddPoint(rayTo(a, slanted), hit(a), false))
			require.True(t, c.AddPoint(rayTo(b, slanted), tt.second, false))

			assert.True(t, c.IsFinished())
			cylinder := obj.Shape().(*geometry.Cylinder)
			assertVec(t, center, cylinder.CenterPoint())
			assert.InDelta(t, 1.5, cylinder.Radius, tolerance)
			assertVec(t, geometry.Up, cylinder.Axis())
		})
	}
}

func TestCylinderCreator_Vertical(t *testing.T) {
	_, obj, c := start(t, primitives.VerticalCylinder)
	assert.Equal(t, 2, c.MinimumPointCount())
	assert.Equal(t, 3, c.MaximumPointCount())

	require.True(t, c.AddPoint(rayTo(vec(0, 0, 0), vec(0, 0, -1)), hit(vec(0, 0, 0)), false))
	require.True(t, c.AddPoint(rayTo(vec(2, 0, 0), vec(0, 0, -1)), hit(vec(2, 0, 0)), false))
	require.True(t, c.AddPoint(rayTo(vec(0, 0, 3), vec(0, 1, 0)), nil, true))
	assert.False(t, c.IsFinished())

	cylinder := obj.Shape().(*geometry.Cylinder)
	assert.InDelta(t, 2, cylinder.Radius, tolerance)
	assertVec(t, vec(0, 0, 3), cylinder.CenterB)

	// Escape drops the pending height and keeps the two committed points.
	assert.True(t, c.Escape())
	assert.InDelta(t, geometry.CylinderMinSize, cylinder.Height(), tolerance)
	assert.Equal(t, domain.FocusFocus, obj.Focus())
	assert.False(t, obj.IsRemoved())
}

func TestCylinderCreator_Horizontal(t *testing.T) {
	side := vec(0, 1, 0)
	tests := []struct {
		name   string
		second *geometry.Vec3
	}{
		{"surface hit", hit(vec(4, 0, 3))},
		{"vertical plane fallback", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, obj, c := start(t, primitives.HorizontalCylinder)
			assert.Equal(t, 2, c.MinimumPointCount())
			assert.Equal(t, 3, c.MaximumPointCount())
			require.True(t, c.AddPoint(rayTo(vec(0, 0, 1), vec(0, 0, -1)), hit(vec(0, 0, 1)), false))
			cylinder := obj.Shape().(*geometry.Cylinder)
			assert.InDelta(t, 0, cylinder.Axis()[2], tolerance, "axis guess stays horizontal")

			// The second click alone fixes the other end, the axis and the radius.
			require.True(t, c.AddPoint(rayTo(vec(4, 0, 3), side), tt.second, false))
			assert.False(t, c.IsFinished())
			assertVec(t, vec(0, 0, 1), cylinder.CenterA)
			assertVec(t, vec(4, 0, 1), cylinder.CenterB)
			assertVec(t, vec(1, 0, 0), cylinder.Axis())
			assert.InDelta(t, 2, cylinder.Radius, tolerance)

			// The third slides the end along the axis and keeps the radius.
			require.True(t, c.AddPoint(rayTo(vec(6, 0, 5), side), nil, false))
			assert.True(t, c.IsFinished())
			assertVec(t, vec(0, 0, 1), cylinder.CenterA)
			assertVec(t, vec(6, 0, 1), cylinder.CenterB)
			assert.InDelta(t, 2, cylinder.Radius, tolerance)
			assert.InDelta(t, 6, cylinder.Height(), tolerance)
		})
	}
}

func TestLineCreator(t *testing.T) {
	t.Run("line stops at two points", func(t *testing.T) {
		_, obj, c := start(t, primitives.Line)
		require.True(t, c.AddPoint(rayTo(vec(0, 0, 0), vec(0, 0, -1)), hit(vec(0, 0, 0)), false))
		require.True(t, c.AddPoint(rayTo(vec(3, 4, 0), vec(0, 0, -1)), hit(vec(3, 4, 0)), false))
		assert.True(t, c.IsFinished())
		assert.InDelta(t, 5, obj.Shape().(*geometry.Polyline).Length(), tolerance)
	})

	t.Run("miss lands on the plane through the last point", func(t *testing.T) {
		_, obj, c := start(t, primitives.Polyline)
		require.True(t, c.AddPoint(rayTo(vec(1, 1, 1), vec(0, 0, -1)), hit(vec(1, 1, 1)), false))
		ray := geometry.NewRay(vec(0, 0, 5), vec(0, 1, 0))
		require.True(t, c.AddPoint(ray, nil, true))

		last, ok := obj.Shape().(*geometry.Polyline).Last()
		require.True(t, ok)
		assertVec(t, vec(0, 1, 5), last)
	})

	t.Run("escape below minimum removes the object", func(t *testing.T) {
		_, obj, c := start(t, primitives.Polygon)
		folder := obj.Parent()
		require.True(t, c.AddPoint(rayTo(vec(0, 0, 0), vec(0, 0, -1)), hit(vec(0, 0, 0)), false))
		require.True(t, c.AddPoint(rayTo(vec(1, 0, 0), vec(0, 0, -1)), hit(vec(1, 0, 0)), false))
		require.True(t, c.AddPoint(rayTo(vec(1, 1, 0), vec(0, 0, -1)), hit(vec(1, 1, 0)), true))

		assert.False(t, c.Escape())
		assert.True(t, obj.IsRemoved())
		assert.Equal(t, 0, folder.ChildCount())
	})

	t.Run("escape finishes an open polygon", func(t *testing.T) {
		_, obj, c := start(t, primitives.Polygon)
		for _, p := range []geometry.Vec3{{0, 0, 0}, {2, 0, 0}, {2, 2, 0}} {
			require.True(t, c.AddPoint(rayTo(p, vec(0, 0, -1)), hit(p), false))
		}
		require.True(t, c.AddPoint(rayTo(vec(0, 2, 0), vec(0, 0, -1)), hit(vec(0, 2, 0)), true))
		assert.False(t, c.IsFinished())

		assert.True(t, c.Escape())
		polygon := obj.Shape().(*geometry.Polyline)
		assert.Len(t, polygon.Points, 3)
		assert.InDelta(t, 2, polygon.HorizontalArea(), tolerance)
		assert.Equal(t, domain.FocusFocus, obj.Focus())
	})
}

func TestPointCreator(t *testing.T) {
	_, obj, c := start(t, primitives.Point)
	require.True(t, c.AddPoint(geometry.NewRay(vec(0, 0, 10), vec(0, 0, -1)), hit(vec(0, 0, 0)), false))

	assert.True(t, c.IsFinished())
	point := obj.Shape().(*geometry.Point)
	assert.InDelta(t, 0.1, point.Size, tolerance)
	assertVec(t, vec(0, 0, 0), point.Position)
}

func TestPlaneCreator(t *testing.T) {
	t.Run("axis plane", func(t *testing.T) {
		_, obj, c := start(t, primitives.PlaneX)
		require.True(t, c.AddPoint(rayTo(vec(3, 0, 0), vec(1, 0, 0)), hit(vec(3, 0, 0)), false))
		assert.True(t, c.IsFinished())
		plane := obj.Shape().(*geometry.PlaneShape).Plane
		assert.InDelta(t, 0, plane.DistanceToPoint(vec(3, 7, 7)), tolerance)
	})

	t.Run("vertical plane through two points", func(t *testing.T) {
		_, obj, c := start(t, primitives.PlaneXY)
		require.True(t, c.AddPoint(rayTo(vec(0, 0, 0), vec(0, 0, -1)), hit(vec(0, 0, 0)), false))
		require.True(t, c.AddPoint(rayTo(vec(1, 0, 0), vec(0, 0, -1)), hit(vec(1, 0, 0)), false))
		plane := obj.Shape().(*geometry.PlaneShape).Plane
		assertVec(t, vec(0, 1, 0), plane.Normal)
	})
}

func TestNew_UnknownType(t *testing.T) {
	tree := domain.NewTree()
	folder := tree.New(domain.KindFolder)
	_, err := creators.New(folder, creators.Options{})
	assert.Error(t, err)
}
