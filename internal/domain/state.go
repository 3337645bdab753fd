package domain

// FocusType is the edit focus of an object. Pending marks an object that is
// still being created and has not been committed.
type FocusType int

const (
	FocusNone FocusType = iota
	FocusPending
	FocusFocus
	FocusBody
	FocusFace
	FocusCorner
	FocusRotation
)

func (f FocusType) String() string {
	switch f {
	case FocusNone:
		return "none"
	case FocusPending:
		return "pending"
	case FocusFocus:
		return "focus"
	case FocusBody:
		return "body"
	case FocusFace:
		return "face"
	case FocusCorner:
		return "corner"
	case FocusRotation:
		return "rotation"
	default:
		return "unknown"
	}
}

// VisibleState summarizes the visibility of a subtree. It is derived on
// demand and never stored.
type VisibleState int

const (
	VisibleAll VisibleState = iota
	VisibleNone
	VisibleSome
	VisibleDisabled
	VisibleCanNotBeChecked
)

func (v VisibleState) String() string {
	switch v {
	case VisibleAll:
		return "all"
	case VisibleNone:
		return "none"
	case VisibleSome:
		return "some"
	case VisibleDisabled:
		return "disabled"
	case VisibleCanNotBeChecked:
		return "canNotBeChecked"
	default:
		return "unknown"
	}
}

// Context is the editing context visibility is evaluated in. A nil Context
// allows everything.
type Context interface {
	// CanBeSetVisibleNow reports whether o may be switched visible in this context.
	CanBeSetVisibleNow(o *Object) bool
}
