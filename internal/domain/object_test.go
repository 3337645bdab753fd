package domain_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenekit/scenekit/internal/domain"
	"github.com/scenekit/scenekit/internal/geometry"
)

var (
	kindShape = domain.RegisterKind(domain.KindInfo{
		TypeName: "Shape",
		Visual:   true,
	})
	kindActive = domain.RegisterKind(domain.KindInfo{
		TypeName:    "Crop",
		Visual:      true,
		CanBeActive: true,
	})
	// Same display name as kindActive, unrelated kind.
	kindActiveTwin = domain.RegisterKind(domain.KindInfo{
		TypeName:    "Crop",
		Visual:      true,
		CanBeActive: true,
	})
	kindPermanent = domain.RegisterKind(domain.KindInfo{
		TypeName:  "Fixed",
		Visual:    true,
		Permanent: true,
	})
	initCalls   int
	kindCounted = domain.RegisterKind(domain.KindInfo{
		TypeName:   "Counted",
		Initialize: func(*domain.Object) { initCalls++ },
	})
)

type recorder struct {
	events []event
}

type event struct {
	id     string
	change domain.Change
}

func (r *recorder) listen(o *domain.Object, c domain.Change) {
	r.events = append(r.events, event{id: o.ID(), change: c})
}

func (r *recorder) ids(change domain.Change) []string {
	var ids []string
	for _, e := range r.events {
		if e.change.Has(change) {
			ids = append(ids, e.id)
		}
	}
	return ids
}

func newShape(t *domain.Tree, parent *domain.Object) *domain.Object {
	o := t.New(kindShape)
	o.Initialize()
	o.SetVisible(true)
	parent.AddChild(o, false)
	return o
}

func TestObject_AddAndRemove(t *testing.T) {
	t.Run("remove restores child count and detaches subtree", func(t *testing.T) {
		tree := domain.NewTree()
		root := tree.Root()
		folder := tree.New(domain.KindFolder)
		root.AddChildInteractive(folder, false)
		before := folder.ChildCount()

		parent := tree.New(domain.KindFolder)
		folder.AddChildInteractive(parent, false)
		leaf := newShape(tree, parent)
		require.Equal(t, before+1, folder.ChildCount())

		assert.True(t, parent.RemoveInteractive())

		assert.Equal(t, before, folder.ChildCount())
		assert.Nil(t, parent.Parent())
		assert.Nil(t, leaf.Parent())
		assert.True(t, leaf.IsRemoved())
		_, ok := tree.ByID(leaf.ID())
		assert.False(t, ok)
		for d := range root.Descendants() {
			assert.NotEqual(t, parent.ID(), d.ID())
		}
	})

	t.Run("child deleted reaches the parent only", func(t *testing.T) {
		tree := domain.NewTree()
		folder := tree.New(domain.KindFolder)
		tree.Root().AddChild(folder, false)
		leaf := newShape(tree, folder)

		rec := &recorder{}
		tree.Subscribe(rec.listen)
		require.True(t, leaf.RemoveInteractive())

		assert.Equal(t, []string{folder.ID()}, rec.ids(domain.ChangeChildDeleted))
		assert.Equal(t, []string{leaf.ID()}, rec.ids(domain.ChangeDeleted))
	})

	t.Run("children are deleted before their parent", func(t *testing.T) {
		tree := domain.NewTree()
		folder := tree.New(domain.KindFolder)
		tree.Root().AddChild(folder, false)
		a := newShape(tree, folder)
		b := newShape(tree, folder)

		rec := &recorder{}
		tree.Subscribe(rec.listen)
		folder.RemoveInteractive()

		assert.Equal(t, []string{a.ID(), b.ID(), folder.ID()}, rec.ids(domain.ChangeDeleted))
	})

	t.Run("permanent object is not removed", func(t *testing.T) {
		tree := domain.NewTree()
		fixed := tree.New(kindPermanent)
		tree.Root().AddChild(fixed, false)

		assert.False(t, fixed.RemoveInteractive())
		assert.Equal(t, 1, tree.Root().ChildCount())
		assert.False(t, tree.Root().RemoveInteractive())
	})

	t.Run("insert first", func(t *testing.T) {
		tree := domain.NewTree()
		a := newShape(tree, tree.Root())
		b := tree.New(kindShape)
		tree.Root().AddChild(b, true)

		assert.Equal(t, b, tree.Root().Child(0))
		index, ok := a.ChildIndex()
		assert.True(t, ok)
		assert.Equal(t, 1, index)
	})
}

func TestObject_AddChildPanics(t *testing.T) {
	tree := domain.NewTree()
	parent := tree.New(domain.KindFolder)
	tree.Root().AddChild(parent, false)
	child := newShape(tree, parent)

	assert.Panics(t, func() { tree.Root().AddChild(child, false) }, "double parent")
	assert.Panics(t, func() { parent.AddChild(parent, false) }, "self child")

	grandchild := tree.New(domain.KindFolder)
	parent.AddChild(grandchild, false)
	parent.Detach()
	assert.Panics(t, func() { grandchild.AddChild(parent, false) }, "cycle")

	other := domain.NewTree()
	assert.Panics(t, func() { tree.Root().AddChild(other.New(kindShape), false) }, "foreign tree")
}

func TestObject_Initialize(t *testing.T) {
	tree := domain.NewTree()
	o := tree.New(kindCounted)
	before := initCalls

	assert.True(t, o.Initialize())
	assert.False(t, o.Initialize())
	assert.False(t, o.Initialize())
	assert.Equal(t, before+1, initCalls)
	assert.True(t, tree.Root().IsExpanded())
}

func TestObject_GeneratedNames(t *testing.T) {
	tree := domain.NewTree()
	a := newShape(tree, tree.Root())
	folder := tree.New(domain.KindFolder)
	tree.Root().AddChild(folder, false)
	b := newShape(tree, tree.Root())

	assert.Equal(t, "Shape 1", a.Name())
	assert.Equal(t, "Shape 2", b.Name())
	assert.Equal(t, "Folder 1", folder.Name())
	assert.Equal(t, "Root", tree.Root().Name())

	// The suffix follows the position among siblings.
	a.Detach()
	folder.AddChild(a, false)
	assert.Equal(t, "Shape 1", b.Name())
	assert.Equal(t, "Shape 1", a.Name())
	assert.Equal(t, `\Root\Folder 1\Shape 1`, a.Path())

	a.SetName("Mine")
	assert.Equal(t, "Mine", a.Name())
	assert.True(t, a.HasEqualName("MINE"))
	assert.Same(t, a, tree.Root().DescendantByName("mine"))
}

func TestObject_Color(t *testing.T) {
	tree := domain.NewTree()
	a := newShape(tree, tree.Root())
	b := newShape(tree, tree.Root())

	assert.NotEqual(t, a.Color(), b.Color())
	assert.Equal(t, a.Color(), a.Color(), "color is stable once drawn")
	assert.Equal(t, domain.White, tree.Root().Color())
	assert.True(t, domain.IsGrey(tree.Root().Color()))
	assert.Equal(t, tree.Root().Color(), a.ColorByType(domain.ColorParent))
	assert.Equal(t, domain.Black, a.ColorByType(domain.ColorBlack))

	assert.False(t, tree.Root().SetColorInteractive(domain.Black))
}

func TestObject_SingleActivePerKind(t *testing.T) {
	tree := domain.NewTree()
	root := tree.Root()
	a := tree.New(kindActive)
	b := tree.New(kindActive)
	twin := tree.New(kindActiveTwin)
	folder := tree.New(domain.KindFolder)
	root.AddChild(a, false)
	root.AddChild(folder, false)
	folder.AddChild(b, false)
	root.AddChild(twin, false)

	twin.SetActiveInteractive()
	a.SetActiveInteractive()
	assert.True(t, a.IsActive())

	rec := &recorder{}
	tree.Subscribe(rec.listen)
	b.SetActiveInteractive()

	assert.False(t, a.IsActive())
	assert.True(t, b.IsActive())
	assert.True(t, twin.IsActive(), "same type name, different kind")
	assert.Equal(t, []string{a.ID(), b.ID()}, rec.ids(domain.ChangeActive))

	shape := newShape(tree, root)
	shape.SetActiveInteractive()
	assert.False(t, shape.IsActive())
}

func TestObject_InteractiveSetters(t *testing.T) {
	tree := domain.NewTree()
	o := newShape(tree, tree.Root())
	rec := &recorder{}
	o.Subscribe(rec.listen)

	assert.True(t, o.SetSelectedInteractive(true))
	assert.False(t, o.SetSelectedInteractive(true))
	assert.True(t, o.SetExpandedInteractive(true))
	assert.True(t, o.SetFocusInteractive(domain.FocusPending))
	assert.False(t, o.IsLegal())
	assert.True(t, o.SetFocusInteractive(domain.FocusFocus))
	assert.True(t, o.IsLegal())
	assert.True(t, o.SetNameInteractive("n"))

	var changes []domain.Change
	for _, e := range rec.events {
		changes = append(changes, e.change)
	}
	assert.Equal(t, []domain.Change{
		domain.ChangeSelected,
		domain.ChangeExpanded,
		domain.ChangeFocus,
		domain.ChangeFocus,
		domain.ChangeNaming,
	}, changes)
}

func TestObject_Subscribe(t *testing.T) {
	tree := domain.NewTree()
	o := newShape(tree, tree.Root())

	var order []string
	o.Subscribe(func(*domain.Object, domain.Change) { order = append(order, "object") })
	tree.Subscribe(func(*domain.Object, domain.Change) { order = append(order, "tree") })
	unsubscribe := o.Subscribe(func(*domain.Object, domain.Change) { order = append(order, "removed") })
	unsubscribe()

	o.Notify(domain.ChangeGeometry)
	assert.Equal(t, []string{"object", "tree"}, order)
}

func TestObject_Traversal(t *testing.T) {
	tree := domain.NewTree()
	root := tree.Root()
	folder := tree.New(domain.KindFolder)
	root.AddChild(folder, false)
	a := newShape(tree, folder)
	b := newShape(tree, folder)
	c := newShape(tree, root)

	got := slices.Collect(root.Descendants())
	assert.Equal(t, []*domain.Object{folder, a, b, c}, got)
	assert.Equal(t, []*domain.Object{a, b, c}, slices.Collect(root.DescendantsByKind(kindShape)))
	assert.Equal(t, []*domain.Object{folder, root}, slices.Collect(a.Ancestors()))
	assert.Equal(t, root, slices.Collect(root.ThisAndDescendants())[0])

	t.Run("removal during iteration", func(t *testing.T) {
		var visited []*domain.Object
		for d := range root.Descendants() {
			visited = append(visited, d)
			if d == folder {
				folder.RemoveInteractive()
			}
		}
		assert.Equal(t, []*domain.Object{folder, c}, visited)
	})
}

func TestObject_SnapshotRestore(t *testing.T) {
	tree := domain.NewTree()
	folder := tree.New(domain.KindFolder)
	tree.Root().AddChild(folder, false)
	first := newShape(tree, folder)
	target := newShape(tree, folder)
	target.SetShape(&geometry.Box{Center: geometry.Vec3{1, 2, 3}, Size: geometry.Vec3{1, 1, 1}})
	target.SetName("target")
	last := newShape(tree, folder)

	snap := target.Snapshot()
	require.True(t, target.RemoveInteractive())
	_, err := tree.Restore(snap, folder)
	require.NoError(t, err)

	restored, ok := tree.ByID(snap.ID)
	require.True(t, ok)
	assert.Equal(t, []*domain.Object{first, restored, last}, folder.Children())
	assert.Equal(t, "target", restored.Name())
	assert.Equal(t, snap.Shape, restored.Shape())
	assert.NotSame(t, snap.Shape, restored.Shape())

	_, err = tree.Restore(snap, folder)
	assert.ErrorIs(t, err, domain.ErrExists)
}
