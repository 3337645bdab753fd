package domain

// RenderStyle holds display parameters. Styles are values: an object owns its
// style privately unless it delegates to a style root.
type RenderStyle interface {
	Clone() RenderStyle
}

// styleRoot returns the object whose style o uses, or nil when o owns its own.
func (o *Object) styleRoot() *Object {
	info := o.kind.Info()
	if info.StyleFromParent {
		if parent := o.Parent(); parent != nil {
			return parent
		}
	}
	return nil
}

// RenderStyle returns the style used for o, creating it through the kind's
// factory on first use. Objects with a style root return the root's style.
func (o *Object) RenderStyle() RenderStyle {
	if root := o.styleRoot(); root != nil && root != o {
		return root.RenderStyle()
	}
	info := o.kind.Info()
	if o.style == nil && info.NewRenderStyle != nil {
		o.style = info.NewRenderStyle()
	}
	if o.style != nil && info.VerifyRenderStyle != nil {
		info.VerifyRenderStyle(o, o.style)
	}
	return o.style
}

// SetRenderStyle replaces the private style of o. Passing nil makes the next
// RenderStyle call create a fresh one.
func (o *Object) SetRenderStyle(style RenderStyle) {
	o.style = style
}

// IsRenderStyleRoot reports whether descendants share o's style.
func (o *Object) IsRenderStyleRoot() bool {
	return o.kind.Info().IsRenderStyleRoot
}
