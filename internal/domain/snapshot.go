package domain

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/scenekit/scenekit/internal/geometry"
)

// Snapshot is a detached deep copy of an object and its subtree. It is the
// before-state recorded by undo transactions.
type Snapshot struct {
	ID       string
	Kind     Kind
	Name     string
	Color    colorful.Color
	HasColor bool
	Text     string
	Selected bool
	Active   bool
	Expanded bool
	Visible  bool
	Focus    FocusType
	Style    RenderStyle
	Shape    geometry.Shape
	Variant  int

	ParentID   string
	ChildIndex int
	Children   []*Snapshot
}

// Snapshot copies o and its subtree.
func (o *Object) Snapshot() *Snapshot {
	s := &Snapshot{
		ID:       o.id,
		Kind:     o.kind,
		Name:     o.name,
		Color:    o.color,
		HasColor: o.hasColor,
		Text:     o.text,
		Selected: o.selected,
		Active:   o.active,
		Expanded: o.expanded,
		Visible:  o.visible,
		Focus:    o.focus,
		Variant:  o.variant,
		ParentID: o.parent,
	}
	if o.style != nil {
		s.Style = o.style.Clone()
	}
	if o.shape != nil {
		s.Shape = o.shape.Clone()
	}
	if index, ok := o.ChildIndex(); ok {
		s.ChildIndex = index
	}
	for _, child := range o.Children() {
		s.Children = append(s.Children, child.Snapshot())
	}
	return s
}

// CopyFrom restores the parts of o selected by what from s. Geometry restores
// the shape, RenderStyle the style, Color the color, Naming the name and
// text; the flag bits restore their flags.
func (o *Object) CopyFrom(s *Snapshot, what Change) {
	if what.Has(ChangeGeometry) {
		o.shape = nil
		if s.Shape != nil {
			o.shape = s.Shape.Clone()
		}
	}
	if what.Has(ChangeRenderStyle) {
		o.style = nil
		if s.Style != nil {
			o.style = s.Style.Clone()
		}
	}
	if what.Has(ChangeColor) {
		o.color, o.hasColor = s.Color, s.HasColor
	}
	if what.Has(ChangeNaming) {
		o.name, o.text = s.Name, s.Text
	}
	if what.Has(ChangeSelected) {
		o.selected = s.Selected
	}
	if what.Has(ChangeActive) {
		o.active = s.Active
	}
	if what.Has(ChangeExpanded) {
		o.expanded = s.Expanded
	}
	if what.Has(ChangeVisibleState) {
		o.visible = s.Visible
	}
	if what.Has(ChangeFocus) {
		o.focus = s.Focus
	}
}

// Restore recreates the subtree captured by s under parent, at the recorded
// child index when it is still in range. The restored objects keep their
// original ids, so it fails if any of them is live again.
func (t *Tree) Restore(s *Snapshot, parent *Object) (*Object, error) {
	if parent == nil || parent.removed {
		return nil, fmt.Errorf("restore %s: %w", s.ID, ErrNotFound)
	}
	o, err := t.rebuild(s)
	if err != nil {
		return nil, err
	}
	parent.InsertChild(o, s.ChildIndex, false)
	return o, nil
}

func (t *Tree) rebuild(s *Snapshot) (*Object, error) {
	o, err := t.NewWithID(s.Kind, s.ID)
	if err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}
	o.initialized = true
	o.variant = s.Variant
	o.CopyFrom(s, ChangeAll|ChangeSelected|ChangeActive|ChangeExpanded|ChangeVisibleState|ChangeFocus)
	for _, cs := range s.Children {
		child, err := t.rebuild(cs)
		if err != nil {
			return nil, err
		}
		o.AddChild(child, false)
	}
	return o, nil
}
