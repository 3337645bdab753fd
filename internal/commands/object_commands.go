package commands

import (
	"github.com/scenekit/scenekit/internal/domain"
	"github.com/scenekit/scenekit/internal/primitives"
)

// DeleteDomainObjectCommand removes one object, recording it for undo.
type DeleteDomainObjectCommand struct {
	DomainObjectCommand
}

func NewDeleteDomainObjectCommand(target Target, o *domain.Object) *DeleteDomainObjectCommand {
	return &DeleteDomainObjectCommand{DomainObjectCommand: NewDomainObjectCommand(target, o)}
}

func (*DeleteDomainObjectCommand) Name() string     { return "delete" }
func (*DeleteDomainObjectCommand) Tooltip() string  { return "Delete" }
func (*DeleteDomainObjectCommand) Icon() string     { return "delete" }
func (*DeleteDomainObjectCommand) Shortcut() string { return "Delete" }

func (c *DeleteDomainObjectCommand) IsEnabled() bool {
	return c.DomainObjectCommand.IsEnabled() && c.Object().CanBeRemoved()
}

func (c *DeleteDomainObjectCommand) invokeCore() bool {
	o := c.Object()
	c.AddTransaction(o, domain.ChangeDeleted)
	return o.RemoveInteractive()
}

func (c *DeleteDomainObjectCommand) Equals(other Command) bool {
	o, ok := other.(*DeleteDomainObjectCommand)
	return ok && o.Object() == c.Object()
}

// ToggleExpandCommand opens or closes an object in the object tree view.
type ToggleExpandCommand struct {
	DomainObjectCommand
}

func NewToggleExpandCommand(target Target, o *domain.Object) *ToggleExpandCommand {
	return &ToggleExpandCommand{DomainObjectCommand: NewDomainObjectCommand(target, o)}
}

func (*ToggleExpandCommand) Name() string           { return "toggleExpand" }
func (*ToggleExpandCommand) Tooltip() string        { return "Expand" }
func (*ToggleExpandCommand) ButtonType() ButtonType { return ButtonToggle }

func (c *ToggleExpandCommand) IsEnabled() bool {
	return c.DomainObjectCommand.IsEnabled() && c.Object().CanBeExpanded()
}

func (c *ToggleExpandCommand) IsChecked() bool { return c.Object().IsExpanded() }

func (c *ToggleExpandCommand) invokeCore() bool {
	o := c.Object()
	return o.SetExpandedInteractive(!o.IsExpanded())
}

func (c *ToggleExpandCommand) Equals(other Command) bool {
	o, ok := other.(*ToggleExpandCommand)
	return ok && o.Object() == c.Object()
}

// ApplyCropBoxCommand makes a crop box the active one, or switches it off.
// The active crop box clips the scene.
type ApplyCropBoxCommand struct {
	DomainObjectCommand
}

func NewApplyCropBoxCommand(target Target, o *domain.Object) *ApplyCropBoxCommand {
	return &ApplyCropBoxCommand{DomainObjectCommand: NewDomainObjectCommand(target, o)}
}

func (*ApplyCropBoxCommand) Name() string           { return "applyCropBox" }
func (*ApplyCropBoxCommand) Tooltip() string        { return "Apply crop box" }
func (*ApplyCropBoxCommand) Icon() string           { return "crop" }
func (*ApplyCropBoxCommand) ButtonType() ButtonType { return ButtonToggle }

func (c *ApplyCropBoxCommand) IsEnabled() bool {
	o := c.Object()
	return c.DomainObjectCommand.IsEnabled() && o.Kind() == primitives.KindCropBox && o.IsLegal()
}

func (c *ApplyCropBoxCommand) IsChecked() bool { return c.Object().IsActive() }

func (c *ApplyCropBoxCommand) invokeCore() bool {
	o := c.Object()
	if o.IsActive() {
		return o.SetInactiveInteractive()
	}
	o.SetActiveInteractive()
	return o.IsActive()
}

func (c *ApplyCropBoxCommand) Equals(other Command) bool {
	o, ok := other.(*ApplyCropBoxCommand)
	return ok && o.Object() == c.Object()
}
