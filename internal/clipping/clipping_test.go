package clipping_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenekit/scenekit/internal/clipping"
	"github.com/scenekit/scenekit/internal/domain"
	"github.com/scenekit/scenekit/internal/geometry"
	"github.com/scenekit/scenekit/internal/primitives"
)

type fakeTarget struct {
	transform mgl64.Mat4
	planes    []geometry.Plane
	calls     int
}

func (f *fakeTarget) Transform() mgl64.Mat4 { return f.transform }

func (f *fakeTarget) SetGlobalClipping(planes []geometry.Plane) {
	f.planes = planes
	f.calls++
}

func addSlice(t *testing.T, tree *domain.Tree, typ primitives.PrimitiveType, at geometry.Vec3) *domain.Object {
	t.Helper()
	o, err := primitives.NewObject(tree, typ)
	require.NoError(t, err)
	o.SetShape(&geometry.PlaneShape{
		Plane:  geometry.NewPlaneFromNormalAndPoint(primitives.PlaneNormal(typ), at),
		Anchor: at,
	})
	primitives.FolderFor(tree.Root(), o.Kind()).AddChild(o, false)
	return o
}

func TestSetClippingPlanes(t *testing.T) {
	tree := domain.NewTree()
	target := &fakeTarget{transform: mgl64.Ident4()}

	a := addSlice(t, tree, primitives.PlaneX, geometry.Vec3{1, 0, 0})
	b := addSlice(t, tree, primitives.PlaneZ, geometry.Vec3{0, 0, 2})
	pending := addSlice(t, tree, primitives.PlaneY, geometry.Vec3{0, 3, 0})
	pending.SetFocus(domain.FocusPending)

	// Other primitives never contribute.
	box, err := primitives.NewObject(tree, primitives.Box)
	require.NoError(t, err)
	primitives.FolderFor(tree.Root(), box.Kind()).AddChild(box, false)

	assert.Equal(t, 2, clipping.SetClippingPlanes(tree.Root(), target))
	require.Len(t, target.planes, 2)
	assert.Equal(t, a.Shape().(*geometry.PlaneShape).Plane, target.planes[0])

	// Installed planes are copies.
	target.planes[0].Constant = 99
	assert.InDelta(t, -1, a.Shape().(*geometry.PlaneShape).Plane.Constant, 1e-12)

	pending.SetFocus(domain.FocusFocus)
	assert.Equal(t, 3, clipping.SetClippingPlanes(tree.Root(), target))

	for _, o := range []*domain.Object{a, b, pending} {
		o.RemoveInteractive()
	}
	assert.Equal(t, 0, clipping.SetClippingPlanes(tree.Root(), target))
	assert.NotNil(t, target.planes)
	assert.Empty(t, target.planes)
	assert.Equal(t, 3, target.calls)
}

func TestSetClippingPlanes_Transform(t *testing.T) {
	tree := domain.NewTree()
	addSlice(t, tree, primitives.PlaneX, geometry.Vec3{1, 0, 0})
	target := &fakeTarget{transform: mgl64.Translate3D(0, 0, 5).Mul4(mgl64.HomogRotate3DZ(1.5707963267948966))}

	clipping.SetClippingPlanes(tree.Root(), target)
	require.Len(t, target.planes, 1)
	plane := target.planes[0]
	assert.True(t, geometry.ApproxEqual(geometry.Vec3{0, 1, 0}, plane.Normal, 1e-9), "got %v", plane.Normal)
	assert.InDelta(t, 0, plane.DistanceToPoint(geometry.Vec3{7, 1, 5}), 1e-9)
}

func TestCropBoxPlanes(t *testing.T) {
	box := &geometry.Box{Center: geometry.Vec3{0, 0, 0}, Size: geometry.Vec3{2, 2, 2}}
	planes := clipping.CropBoxPlanes(box, mgl64.Translate3D(10, 0, 0))
	require.Len(t, planes, 6)
	for _, p := range planes {
		assert.Greater(t, p.DistanceToPoint(geometry.Vec3{10, 0, 0}), 0.0)
	}
}
