// Package domain holds the scene's domain-object tree: identity, naming,
// color, selection, activation, focus and visibility of every user-visible
// entity, plus the change notifications the view layer listens to.
//
// Objects live in an arena owned by a Tree and reference each other by id.
// A node has at most one parent, and the parent's child list is the single
// source of truth for order.
package domain

import (
	"errors"
	"fmt"

	"github.com/scenekit/scenekit/internal/typeid"
)

// ErrNotFound is returned when an id does not resolve to a live object.
var ErrNotFound = errors.New("object not found")

// ErrExists is returned when restoring an object whose id is still in use.
var ErrExists = errors.New("object already exists")

// Listener receives change notifications.
type Listener func(o *Object, change Change)

type subscription struct {
	id int
	fn Listener
}

// Tree is the arena of domain objects.
type Tree struct {
	objects   map[string]*Object
	root      *Object
	listeners []subscription
	nextSubID int
	palette   *Palette
}

// NewTree creates a tree with an initialized root object.
func NewTree() *Tree {
	t := &Tree{
		objects: make(map[string]*Object),
		palette: NewPalette(16),
	}
	t.root = t.New(KindRoot)
	t.root.Initialize()
	return t
}

// Root returns the root object.
func (t *Tree) Root() *Object {
	return t.root
}

// Len returns the number of live objects, attached or not.
func (t *Tree) Len() int {
	return len(t.objects)
}

// Palette returns the color rotation used for generated colors.
func (t *Tree) Palette() *Palette {
	return t.palette
}

// SetPalette replaces the color rotation.
func (t *Tree) SetPalette(p *Palette) {
	t.palette = p
}

// New creates a detached object of the given kind with a fresh id.
func (t *Tree) New(kind Kind) *Object {
	return t.newObject(kind, typeid.NewObjectID())
}

// NewWithID creates a detached object with a caller supplied id.
func (t *Tree) NewWithID(kind Kind, id string) (*Object, error) {
	if id == "" {
		return nil, fmt.Errorf("new object: empty id")
	}
	if _, ok := t.objects[id]; ok {
		return nil, fmt.Errorf("new object %s: %w", id, ErrExists)
	}
	return t.newObject(kind, id), nil
}

func (t *Tree) newObject(kind Kind, id string) *Object {
	o := &Object{tree: t, id: id, kind: kind}
	t.objects[id] = o
	return o
}

// ByID returns the live object with the given id.
func (t *Tree) ByID(id string) (*Object, bool) {
	o, ok := t.objects[id]
	return o, ok
}

// Subscribe registers fn for every notification in the tree, after the
// object's own subscribers. The returned function unsubscribes.
func (t *Tree) Subscribe(fn Listener) func() {
	t.nextSubID++
	id := t.nextSubID
	t.listeners = append(t.listeners, subscription{id: id, fn: fn})
	return func() {
		for i, s := range t.listeners {
			if s.id == id {
				t.listeners = append(t.listeners[:i:i], t.listeners[i+1:]...)
				return
			}
		}
	}
}

func (t *Tree) publish(o *Object, change Change) {
	if len(t.listeners) == 0 {
		return
	}
	listeners := make([]subscription, len(t.listeners))
	copy(listeners, t.listeners)
	for _, s := range listeners {
		s.fn(o, change)
	}
}

// forget drops o from the arena.
func (t *Tree) forget(o *Object) {
	delete(t.objects, o.id)
}
