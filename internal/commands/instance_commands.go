package commands

import (
	"slices"

	"github.com/scenekit/scenekit/internal/domain"
	"github.com/scenekit/scenekit/internal/primitives"
)

// ToggleVisibleAllCommand shows or hides every object of its kinds.
type ToggleVisibleAllCommand struct {
	InstanceCommand
}

func NewToggleVisibleAllCommand(target Target, kinds ...domain.Kind) *ToggleVisibleAllCommand {
	return &ToggleVisibleAllCommand{InstanceCommand: NewInstanceCommand(target, kinds...)}
}

func (*ToggleVisibleAllCommand) Name() string           { return "toggleVisibleAll" }
func (*ToggleVisibleAllCommand) Tooltip() string        { return "Show or hide all" }
func (*ToggleVisibleAllCommand) Icon() string           { return "visible" }
func (*ToggleVisibleAllCommand) ButtonType() ButtonType { return ButtonToggle }

func (c *ToggleVisibleAllCommand) IsEnabled() bool { return c.AnyInstance() }

// IsChecked reports whether every instance is visible.
func (c *ToggleVisibleAllCommand) IsChecked() bool {
	ctx := c.Target().VisibilityContext()
	found := false
	for o := range c.Instances() {
		if !o.IsVisible(ctx) {
			return false
		}
		found = true
	}
	return found
}

func (c *ToggleVisibleAllCommand) invokeCore() bool {
	visible := !c.IsChecked()
	ctx := c.Target().VisibilityContext()
	changed := false
	for o := range c.Instances() {
		if o.SetVisibleInteractive(visible, ctx) {
			changed = true
		}
	}
	return changed
}

func (c *ToggleVisibleAllCommand) Equals(other Command) bool {
	o, ok := other.(*ToggleVisibleAllCommand)
	return ok && c.sameKinds(&o.InstanceCommand)
}

// DeleteAllCommand removes every removable object of its kinds as one undo unit.
type DeleteAllCommand struct {
	InstanceCommand
}

func NewDeleteAllCommand(target Target, kinds ...domain.Kind) *DeleteAllCommand {
	return &DeleteAllCommand{InstanceCommand: NewInstanceCommand(target, kinds...)}
}

func (*DeleteAllCommand) Name() string    { return "deleteAll" }
func (*DeleteAllCommand) Tooltip() string { return "Delete all" }
func (*DeleteAllCommand) Icon() string    { return "delete-all" }

func (c *DeleteAllCommand) removable() []*domain.Object {
	var objects []*domain.Object
	for o := range c.Instances() {
		if o.CanBeRemoved() && o.IsLegal() {
			objects = append(objects, o)
		}
	}
	return objects
}

func (c *DeleteAllCommand) IsEnabled() bool { return len(c.removable()) > 0 }

func (c *DeleteAllCommand) invokeCore() bool {
	objects := c.removable()
	for _, o := range objects {
		if o.IsRemoved() {
			continue
		}
		c.AddTransaction(o, domain.ChangeDeleted)
		o.RemoveInteractive()
	}
	return len(objects) > 0
}

func (c *DeleteAllCommand) Equals(other Command) bool {
	o, ok := other.(*DeleteAllCommand)
	return ok && c.sameKinds(&o.InstanceCommand)
}

// ShowOnTopCommand draws its objects through the scene by switching off the
// depth test.
type ShowOnTopCommand struct {
	InstanceCommand
}

func NewShowOnTopCommand(target Target, kinds ...domain.Kind) *ShowOnTopCommand {
	return &ShowOnTopCommand{InstanceCommand: NewInstanceCommand(target, kinds...)}
}

func (*ShowOnTopCommand) Name() string           { return "showOnTop" }
func (*ShowOnTopCommand) Tooltip() string        { return "Show on top" }
func (*ShowOnTopCommand) Icon() string           { return "on-top" }
func (*ShowOnTopCommand) ButtonType() ButtonType { return ButtonToggle }

func (c *ShowOnTopCommand) IsEnabled() bool { return c.AnyInstance() }

// IsChecked reports whether every instance is drawn on top.
func (c *ShowOnTopCommand) IsChecked() bool {
	found := false
	for o := range c.Instances() {
		style, ok := primitives.StyleOf(o)
		if !ok {
			continue
		}
		if style.DepthTest {
			return false
		}
		found = true
	}
	return found
}

func (c *ShowOnTopCommand) invokeCore() bool {
	depthTest := c.IsChecked()
	objects := slices.Collect(c.Instances())
	changed := false
	for _, o := range objects {
		style, ok := primitives.StyleOf(o)
		if !ok || style.DepthTest == depthTest {
			continue
		}
		c.AddTransaction(o, domain.ChangeRenderStyle)
		style.DepthTest = depthTest
		o.Notify(domain.ChangeRenderStyle)
		changed = true
	}
	return changed
}

func (c *ShowOnTopCommand) Equals(other Command) bool {
	o, ok := other.(*ShowOnTopCommand)
	return ok && c.sameKinds(&o.InstanceCommand)
}
