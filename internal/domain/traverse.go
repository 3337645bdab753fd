package domain

import (
	"iter"
	"strings"
)

// Traversals take a copy of the ids they will visit before yielding the first
// object. Objects removed while the loop runs are skipped; objects added while
// it runs are not visited.

// Descendants yields every descendant of o in pre-order.
func (o *Object) Descendants() iter.Seq[*Object] {
	return o.walk(false)
}

// ThisAndDescendants yields o followed by its descendants in pre-order.
func (o *Object) ThisAndDescendants() iter.Seq[*Object] {
	return o.walk(true)
}

// Ancestors yields the parent, grandparent and so on up to the root.
func (o *Object) Ancestors() iter.Seq[*Object] {
	var ids []string
	for p := o.Parent(); p != nil; p = p.Parent() {
		ids = append(ids, p.id)
	}
	return o.tree.yieldIDs(ids)
}

// DescendantsByKind yields descendants of the given kind.
func (o *Object) DescendantsByKind(kind Kind) iter.Seq[*Object] {
	return o.Filter(func(d *Object) bool { return d.kind == kind })
}

// Filter yields descendants accepted by match.
func (o *Object) Filter(match func(*Object) bool) iter.Seq[*Object] {
	return func(yield func(*Object) bool) {
		for d := range o.Descendants() {
			if match(d) && !yield(d) {
				return
			}
		}
	}
}

// DescendantByKind returns the first descendant of the given kind.
func (o *Object) DescendantByKind(kind Kind) *Object {
	for d := range o.DescendantsByKind(kind) {
		return d
	}
	return nil
}

// DescendantByName returns the first descendant whose name matches,
// ignoring case.
func (o *Object) DescendantByName(name string) *Object {
	for d := range o.Descendants() {
		if strings.EqualFold(d.Name(), name) {
			return d
		}
	}
	return nil
}

// ChildByKind returns the first direct child of the given kind.
func (o *Object) ChildByKind(kind Kind) *Object {
	for _, c := range o.Children() {
		if c.kind == kind {
			return c
		}
	}
	return nil
}

// ActiveDescendantByKind returns the active descendant of the given kind.
func (o *Object) ActiveDescendantByKind(kind Kind) *Object {
	for d := range o.DescendantsByKind(kind) {
		if d.active {
			return d
		}
	}
	return nil
}

// SelectedDescendant returns the first selected descendant.
func (o *Object) SelectedDescendant() *Object {
	for d := range o.Descendants() {
		if d.selected {
			return d
		}
	}
	return nil
}

func (o *Object) walk(includeSelf bool) iter.Seq[*Object] {
	var ids []string
	if includeSelf {
		ids = append(ids, o.id)
	}
	ids = o.appendDescendantIDs(ids)
	return o.tree.yieldIDs(ids)
}

func (o *Object) appendDescendantIDs(ids []string) []string {
	for _, id := range o.children {
		ids = append(ids, id)
		if child, ok := o.tree.objects[id]; ok {
			ids = child.appendDescendantIDs(ids)
		}
	}
	return ids
}

func (t *Tree) yieldIDs(ids []string) iter.Seq[*Object] {
	return func(yield func(*Object) bool) {
		for _, id := range ids {
			obj, ok := t.objects[id]
			if !ok {
				continue
			}
			if !yield(obj) {
				return
			}
		}
	}
}
