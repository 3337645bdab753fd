package domain

// VisibleState derives the visibility summary of o's subtree.
//
// A visual object reports its own flag. A container tallies its children:
// Disabled children are ignored, a mix of visible and hidden children gives
// Some, no eligible child gives Disabled.
func (o *Object) VisibleState(ctx Context) VisibleState {
	if o.IsVisual() {
		switch {
		case o.visible:
			return VisibleAll
		case o.canBeSetVisibleNow(ctx):
			return VisibleNone
		default:
			return VisibleCanNotBeChecked
		}
	}

	var candidates, all, none int
	for _, child := range o.Children() {
		state := child.VisibleState(ctx)
		if state == VisibleDisabled {
			continue
		}
		candidates++
		switch state {
		case VisibleAll:
			all++
		case VisibleNone, VisibleCanNotBeChecked:
			none++
		}
		if candidates > all && candidates > none {
			return VisibleSome
		}
	}
	switch {
	case candidates == 0:
		return VisibleDisabled
	case candidates == all:
		return VisibleAll
	case o.canBeSetVisibleNow(ctx):
		return VisibleNone
	default:
		return VisibleCanNotBeChecked
	}
}

// IsVisible reports whether any part of o's subtree is shown.
func (o *Object) IsVisible(ctx Context) bool {
	state := o.VisibleState(ctx)
	return state == VisibleAll || state == VisibleSome
}

// SetVisibleInteractive shows or hides o's subtree. Notification fires once,
// for the whole subtree, and only if something changed.
func (o *Object) SetVisibleInteractive(visible bool, ctx Context) bool {
	if !o.setVisible(visible, ctx) {
		return false
	}
	o.NotifyVisibleStateChange()
	return true
}

func (o *Object) setVisible(visible bool, ctx Context) bool {
	state := o.VisibleState(ctx)
	if state == VisibleDisabled {
		return false
	}
	if visible && !o.visibleNow(state, ctx) {
		return false
	}
	if o.IsVisual() {
		if o.visible == visible {
			return false
		}
		o.visible = visible
		return true
	}
	changed := false
	for _, child := range o.Children() {
		if child.setVisible(visible, ctx) {
			changed = true
		}
	}
	return changed
}

func (o *Object) visibleNow(state VisibleState, ctx Context) bool {
	return state != VisibleCanNotBeChecked && o.canBeSetVisibleNow(ctx)
}

// ToggleVisibleInteractive hides a (partly) visible subtree and shows a hidden one.
func (o *Object) ToggleVisibleInteractive(ctx Context) bool {
	switch o.VisibleState(ctx) {
	case VisibleNone:
		return o.SetVisibleInteractive(true, ctx)
	case VisibleSome, VisibleAll:
		return o.SetVisibleInteractive(false, ctx)
	}
	return false
}

// SetVisible sets the flag of a visual object without notifying.
func (o *Object) SetVisible(visible bool) {
	o.visible = visible
}

func (o *Object) canBeSetVisibleNow(ctx Context) bool {
	if ctx == nil {
		return true
	}
	return ctx.CanBeSetVisibleNow(o)
}
