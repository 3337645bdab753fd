// Package commands binds user intent to tree mutations. Commands report
// whether they are enabled or checked and mutate the tree only through
// Invoke. Tools are commands that own pointer and keyboard input while they
// are active.
package commands

import (
	"reflect"

	"github.com/scenekit/scenekit/internal/typeid"
)

// ButtonType tells the view how to present a command.
type ButtonType int

const (
	ButtonNormal ButtonType = iota
	ButtonToggle
	ButtonOption
)

func (b ButtonType) String() string {
	switch b {
	case ButtonToggle:
		return "toggle"
	case ButtonOption:
		return "option"
	default:
		return "normal"
	}
}

// Cursor is a cursor hint for the view.
type Cursor string

const (
	CursorDefault   Cursor = "default"
	CursorPointer   Cursor = "pointer"
	CursorCrosshair Cursor = "crosshair"
	CursorMove      Cursor = "move"
)

// Command is an action with an enabled/checked state.
type Command interface {
	// ID is unique per command instance.
	ID() string
	// Name identifies the action, e.g. for shortcuts and logs.
	Name() string
	Tooltip() string
	Icon() string
	Shortcut() string
	ButtonType() ButtonType
	IsVisible() bool
	IsEnabled() bool
	IsChecked() bool
	// invokeCore performs the action. Call it through Invoke.
	invokeCore() bool
}

// Equaler is implemented by commands that can stand in for other instances
// of the same logical action.
type Equaler interface {
	Equals(other Command) bool
}

// Invoke runs c if it is enabled. Disabled commands do nothing and return false.
func Invoke(c Command) bool {
	if !c.IsEnabled() {
		return false
	}
	return c.invokeCore()
}

// Equal reports whether a and b represent the same action. Commands without
// an Equals method are equal when they have the same type.
func Equal(a, b Command) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if e, ok := a.(Equaler); ok {
		return e.Equals(b)
	}
	return reflect.TypeOf(a) == reflect.TypeOf(b)
}

// Base provides the defaults of a plain, always enabled command.
type Base struct {
	id string
}

func (b *Base) ID() string {
	if b.id == "" {
		b.id = typeid.NewCommandID()
	}
	return b.id
}

func (*Base) Tooltip() string        { return "" }
func (*Base) Icon() string           { return "" }
func (*Base) Shortcut() string       { return "" }
func (*Base) ButtonType() ButtonType { return ButtonNormal }
func (*Base) IsVisible() bool        { return true }
func (*Base) IsEnabled() bool        { return true }
func (*Base) IsChecked() bool        { return false }

// State is the derived view state of a command.
type State struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Tooltip    string     `json:"tooltip"`
	Icon       string     `json:"icon,omitempty"`
	Shortcut   string     `json:"shortcut,omitempty"`
	ButtonType ButtonType `json:"-"`
	Button     string     `json:"button"`
	Visible    bool       `json:"visible"`
	Enabled    bool       `json:"enabled"`
	Checked    bool       `json:"checked"`
}

// StateOf derives the current state of c.
func StateOf(c Command) State {
	return State{
		ID:         c.ID(),
		Name:       c.Name(),
		Tooltip:    c.Tooltip(),
		Icon:       c.Icon(),
		Shortcut:   c.Shortcut(),
		ButtonType: c.ButtonType(),
		Button:     c.ButtonType().String(),
		Visible:    c.IsVisible(),
		Enabled:    c.IsEnabled(),
		Checked:    c.IsChecked(),
	}
}
