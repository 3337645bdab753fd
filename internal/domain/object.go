package domain

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/scenekit/scenekit/internal/geometry"
)

// Object is one node of the domain tree: a folder, a shape, a marker.
type Object struct {
	tree *Tree
	id   string
	kind Kind

	name     string
	color    colorful.Color
	hasColor bool
	text     string

	selected bool
	active   bool
	expanded bool
	visible  bool
	focus    FocusType

	style   RenderStyle
	shape   geometry.Shape
	variant int

	parent   string
	children []string

	initialized bool
	removed     bool

	subscribers []subscription
	nextSubID   int
}

// ID returns the stable unique id.
func (o *Object) ID() string { return o.id }

// Kind returns the registered kind.
func (o *Object) Kind() Kind { return o.kind }

// Tree returns the arena the object lives in.
func (o *Object) Tree() *Tree { return o.tree }

// TypeName returns the display name of the kind.
func (o *Object) TypeName() string { return o.kind.TypeName() }

// IsRemoved reports whether the object has been removed from its tree.
func (o *Object) IsRemoved() bool { return o.removed }

// Initialize runs the kind's one-time setup. Only the first call has an
// effect; it reports whether this call did the work.
func (o *Object) Initialize() bool {
	if o.initialized {
		return false
	}
	o.initialized = true
	info := o.kind.Info()
	if info.ExpandedByDefault {
		o.expanded = true
	}
	if info.Initialize != nil {
		info.Initialize(o)
	}
	return true
}

// IsInitialized reports whether Initialize has run.
func (o *Object) IsInitialized() bool { return o.initialized }

// Capabilities

func (o *Object) CanBeRemoved() bool   { return !o.kind.Info().Permanent }
func (o *Object) CanBeSelected() bool  { return !o.kind.Info().Unselectable }
func (o *Object) CanBeActive() bool    { return o.kind.Info().CanBeActive }
func (o *Object) CanChangeName() bool  { return !o.kind.Info().FixedName }
func (o *Object) CanChangeColor() bool { return !o.kind.Info().FixedColor }
func (o *Object) CanBeExpanded() bool  { return len(o.children) > 0 }
func (o *Object) IsVisual() bool       { return o.kind.Info().Visual }

// IsLegal is false while the object is still being created.
func (o *Object) IsLegal() bool { return o.focus != FocusPending }

// Naming

// Name returns the user given name, or a generated one. A generated name is
// the type name followed by the 1-based index among preceding siblings of
// the same kind, so it follows the object when it is moved.
func (o *Object) Name() string {
	if o.name != "" {
		return o.name
	}
	return o.generateName()
}

// HasName reports whether the name was set explicitly.
func (o *Object) HasName() bool { return o.name != "" }

// SetName sets the name without notifying.
func (o *Object) SetName(name string) { o.name = name }

// SetNameInteractive sets the name and notifies ChangeNaming.
func (o *Object) SetNameInteractive(name string) bool {
	if !o.CanChangeName() || o.name == name {
		return false
	}
	o.name = name
	o.Notify(ChangeNaming)
	return true
}

// HasEqualName compares names case-insensitively.
func (o *Object) HasEqualName(name string) bool {
	return strings.EqualFold(o.Name(), name)
}

// DisplayName is the name followed by the kind's extension in brackets.
func (o *Object) DisplayName() string {
	info := o.kind.Info()
	if info.Extension == nil {
		return o.Name()
	}
	ext := info.Extension(o)
	if ext == "" {
		return o.Name()
	}
	return fmt.Sprintf("%s [%s]", o.Name(), ext)
}

// Path is the backslash separated chain of names from the root.
func (o *Object) Path() string {
	prefix := ""
	if parent := o.Parent(); parent != nil {
		prefix = parent.Path()
	}
	return prefix + `\` + o.Name()
}

func (o *Object) generateName() string {
	typeName := o.TypeName()
	if !o.CanChangeName() {
		return typeName
	}
	parent := o.Parent()
	if parent == nil {
		return typeName
	}
	index := 0
	for _, id := range parent.children {
		if id == o.id {
			break
		}
		if sibling, ok := o.tree.objects[id]; ok && sibling.kind == o.kind {
			index++
		}
	}
	return typeName + " " + strconv.Itoa(index+1)
}

// Text is free text carried by annotations.
func (o *Object) Text() string { return o.text }

// SetTextInteractive sets the text and notifies ChangeNaming.
func (o *Object) SetTextInteractive(text string) bool {
	if o.text == text {
		return false
	}
	o.text = text
	o.Notify(ChangeNaming)
	return true
}

// Color

// Color returns the object's color, drawing one from the tree palette the
// first time. Objects that cannot change color are white.
func (o *Object) Color() colorful.Color {
	if !o.hasColor {
		if o.CanChangeColor() {
			o.color = o.tree.palette.Next()
		} else {
			o.color = White
		}
		o.hasColor = true
	}
	return o.color
}

// SetColor sets the color without notifying.
func (o *Object) SetColor(c colorful.Color) {
	o.color = c
	o.hasColor = true
}

// SetColorInteractive sets the color and notifies ChangeColor.
func (o *Object) SetColorInteractive(c colorful.Color) bool {
	if !o.CanChangeColor() || (o.hasColor && o.color == c) {
		return false
	}
	o.SetColor(c)
	o.Notify(ChangeColor)
	return true
}

// ColorByType resolves a color type against o.
func (o *Object) ColorByType(t ColorType) colorful.Color {
	switch t {
	case ColorSpecified:
		return o.Color()
	case ColorParent:
		if parent := o.Parent(); parent != nil {
			return parent.Color()
		}
	case ColorBlack:
		return Black
	}
	return White
}

// Selection, activation, expansion, focus

func (o *Object) IsSelected() bool     { return o.selected }
func (o *Object) SetSelected(v bool)   { o.selected = v }
func (o *Object) IsActive() bool       { return o.active }
func (o *Object) SetActive(v bool)     { o.active = v }
func (o *Object) IsExpanded() bool     { return o.expanded }
func (o *Object) SetExpanded(v bool)   { o.expanded = v }
func (o *Object) Focus() FocusType     { return o.focus }
func (o *Object) SetFocus(f FocusType) { o.focus = f }

// SetSelectedInteractive changes the selection flag and notifies.
func (o *Object) SetSelectedInteractive(selected bool) bool {
	if o.selected == selected {
		return false
	}
	if selected && !o.CanBeSelected() {
		return false
	}
	o.selected = selected
	o.Notify(ChangeSelected)
	return true
}

// SetActiveInteractive makes o the single active object of its kind: every
// other active object of the same kind in the tree is switched off first.
func (o *Object) SetActiveInteractive() {
	if o.active || !o.CanBeActive() {
		return
	}
	if o.Parent() != nil {
		for other := range o.Root().Descendants() {
			if other == o || other.kind != o.kind || !other.CanBeActive() || !other.active {
				continue
			}
			other.active = false
			other.Notify(ChangeActive)
		}
	}
	o.active = true
	o.Notify(ChangeActive)
}

// SetInactiveInteractive clears the active flag.
func (o *Object) SetInactiveInteractive() bool {
	if !o.active {
		return false
	}
	o.active = false
	o.Notify(ChangeActive)
	return true
}

// SetExpandedInteractive changes the expanded flag and notifies.
func (o *Object) SetExpandedInteractive(expanded bool) bool {
	if o.expanded == expanded {
		return false
	}
	o.expanded = expanded
	o.Notify(ChangeExpanded)
	return true
}

// SetFocusInteractive changes the focus and notifies.
func (o *Object) SetFocusInteractive(focus FocusType) bool {
	if o.focus == focus {
		return false
	}
	o.focus = focus
	o.Notify(ChangeFocus)
	return true
}

// Geometry

// Shape returns the geometry carried by o, or nil for containers.
func (o *Object) Shape() geometry.Shape { return o.shape }

// SetShape replaces the geometry without notifying.
func (o *Object) SetShape(s geometry.Shape) { o.shape = s }

// Variant is a kind specific subtype, such as the primitive a measurement
// was created as.
func (o *Object) Variant() int { return o.variant }

// SetVariant sets the subtype without notifying.
func (o *Object) SetVariant(v int) { o.variant = v }

// Parent-child relationship

// Parent returns the parent, or nil.
func (o *Object) Parent() *Object {
	if o.parent == "" {
		return nil
	}
	return o.tree.objects[o.parent]
}

// HasParent reports whether o is attached.
func (o *Object) HasParent() bool { return o.parent != "" }

// IsRoot reports whether o is the tree root.
func (o *Object) IsRoot() bool { return o.tree.root == o }

// Root returns the top of o's hierarchy, which is the tree root once attached.
func (o *Object) Root() *Object {
	root := o
	for parent := o.Parent(); parent != nil; parent = parent.Parent() {
		root = parent
	}
	return root
}

// ChildCount returns the number of children.
func (o *Object) ChildCount() int { return len(o.children) }

// Child returns the child at index.
func (o *Object) Child(index int) *Object {
	return o.tree.objects[o.children[index]]
}

// Children returns a copy of the child list.
func (o *Object) Children() []*Object {
	children := make([]*Object, 0, len(o.children))
	for _, id := range o.children {
		if c, ok := o.tree.objects[id]; ok {
			children = append(children, c)
		}
	}
	return children
}

// ChildIndex returns the position of o in its parent's child list.
func (o *Object) ChildIndex() (int, bool) {
	parent := o.Parent()
	if parent == nil {
		return 0, false
	}
	i := slices.Index(parent.children, o.id)
	return i, i >= 0
}

// AddChild attaches child as the last child, or the first if insertFirst.
// Adding a child that already has a parent, adding o to itself, adding an
// ancestor or an object from another tree are programmer errors and panic.
func (o *Object) AddChild(child *Object, insertFirst bool) {
	o.InsertChild(child, -1, insertFirst)
}

// InsertChild attaches child at index. An index out of range appends, or
// prepends when insertFirst is set.
func (o *Object) InsertChild(child *Object, index int, insertFirst bool) {
	switch {
	case child == nil:
		panic("domain: add nil child")
	case child.tree != o.tree:
		panic(fmt.Sprintf("domain: child %s belongs to another tree", child.TypeName()))
	case child.HasParent():
		panic(fmt.Sprintf("domain: the child %s already has a parent", child.TypeName()))
	case child == o:
		panic(fmt.Sprintf("domain: trying to add illegal child %s", child.TypeName()))
	case child.IsRoot():
		panic("domain: the root cannot be a child")
	case child.removed || o.removed:
		panic(fmt.Sprintf("domain: cannot attach removed object %s", child.TypeName()))
	}
	for ancestor := o.Parent(); ancestor != nil; ancestor = ancestor.Parent() {
		if ancestor == child {
			panic(fmt.Sprintf("domain: adding %s would create a cycle", child.TypeName()))
		}
	}
	switch {
	case index >= 0 && index <= len(o.children):
		o.children = slices.Insert(o.children, index, child.id)
	case insertFirst:
		o.children = slices.Insert(o.children, 0, child.id)
	default:
		o.children = append(o.children, child.id)
	}
	child.parent = o.id
}

// AddChildInteractive attaches child and notifies ChildAdded on o and Added on child.
func (o *Object) AddChildInteractive(child *Object, insertFirst bool) {
	o.AddChild(child, insertFirst)
	o.Notify(ChangeChildAdded)
	child.Notify(ChangeAdded)
}

// RemoveInteractive removes o and its subtree if o can be removed. Children
// are removed depth first before o is detached; only the direct parent gets
// ChildDeleted.
func (o *Object) RemoveInteractive() bool {
	return o.removeInteractive(true)
}

// ForceRemoveInteractive removes o even if its kind is permanent.
func (o *Object) ForceRemoveInteractive() bool {
	return o.removeInteractive(false)
}

func (o *Object) removeInteractive(check bool) bool {
	if o.removed {
		return false
	}
	if check && !o.CanBeRemoved() {
		return false
	}
	for _, child := range o.Children() {
		child.removeInteractive(false)
	}
	parent := o.Parent()
	o.Notify(ChangeDeleted)
	o.remove()
	if parent != nil {
		parent.Notify(ChangeChildDeleted)
	}
	return true
}

func (o *Object) remove() {
	if parent := o.Parent(); parent != nil {
		index, ok := o.ChildIndex()
		if !ok {
			panic(fmt.Sprintf("domain: the child %s is not child of its parent", o.TypeName()))
		}
		parent.children = slices.Delete(parent.children, index, index+1)
		o.parent = ""
	}
	o.children = nil
	o.subscribers = nil
	o.removed = true
	o.tree.forget(o)
}

// Detach removes o from its parent without notifying and without finalizing
// it, so it can be attached elsewhere.
func (o *Object) Detach() {
	parent := o.Parent()
	if parent == nil {
		return
	}
	index, ok := o.ChildIndex()
	if !ok {
		panic(fmt.Sprintf("domain: the child %s is not child of its parent", o.TypeName()))
	}
	parent.children = slices.Delete(parent.children, index, index+1)
	o.parent = ""
}

// SortChildrenByName orders the children by name.
func (o *Object) SortChildrenByName() {
	slices.SortStableFunc(o.children, func(a, b string) int {
		return strings.Compare(o.tree.objects[a].Name(), o.tree.objects[b].Name())
	})
}

// Notification

// Subscribe registers fn for notifications on o. The returned function unsubscribes.
func (o *Object) Subscribe(fn Listener) func() {
	o.nextSubID++
	id := o.nextSubID
	o.subscribers = append(o.subscribers, subscription{id: id, fn: fn})
	return func() {
		for i, s := range o.subscribers {
			if s.id == id {
				o.subscribers = append(o.subscribers[:i:i], o.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Notify delivers change to o's subscribers, then to the tree listeners. A
// render style change on a style root is forwarded to all descendants.
func (o *Object) Notify(change Change) {
	if change == 0 {
		return
	}
	subscribers := slices.Clone(o.subscribers)
	for _, s := range subscribers {
		s.fn(o, change)
	}
	o.tree.publish(o, change)

	if change.Has(ChangeRenderStyle) && o.IsRenderStyleRoot() {
		o.NotifyDescendants(ChangeRenderStyle)
	}
}

// NotifyDescendants notifies every descendant, in pre-order.
func (o *Object) NotifyDescendants(change Change) {
	for _, d := range slices.Collect(o.Descendants()) {
		d.Notify(change)
	}
}

// NotifyVisibleStateChange notifies o, then all ancestors nearest first, then
// all descendants in pre-order. The recipients are collected before the
// first notification is sent.
func (o *Object) NotifyVisibleStateChange() {
	recipients := []*Object{o}
	recipients = slices.AppendSeq(recipients, o.Ancestors())
	recipients = slices.AppendSeq(recipients, o.Descendants())
	for _, r := range recipients {
		r.Notify(ChangeVisibleState)
	}
}

func (o *Object) String() string {
	return fmt.Sprintf("%s(%s)", o.TypeName(), o.id)
}
