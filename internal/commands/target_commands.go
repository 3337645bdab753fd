package commands

import (
	"errors"

	"github.com/scenekit/scenekit/internal/clipping"
	"github.com/scenekit/scenekit/internal/primitives"
	"github.com/scenekit/scenekit/internal/undo"
)

// UndoCommand undoes the last unit of changes. A tool in the middle of an
// operation gets the request first.
type UndoCommand struct {
	RenderTargetCommand
}

func NewUndoCommand(target Target) *UndoCommand {
	return &UndoCommand{RenderTargetCommand: NewRenderTargetCommand(target)}
}

func (*UndoCommand) Name() string     { return "undo" }
func (*UndoCommand) Tooltip() string  { return "Undo" }
func (*UndoCommand) Icon() string     { return "undo" }
func (*UndoCommand) Shortcut() string { return "Ctrl+Z" }

func (c *UndoCommand) IsEnabled() bool {
	if tool := c.ActiveTool(); tool != nil && tool.IsBusy() {
		return true
	}
	return c.Target().UndoManager().CanUndo()
}

func (c *UndoCommand) invokeCore() bool {
	if tool := c.ActiveTool(); tool != nil && tool.OnUndo() {
		return true
	}
	applied, err := c.Target().UndoManager().Undo(c.Target().Tree())
	if errors.Is(err, undo.ErrNothingToUndo) {
		return false
	}
	if err != nil {
		c.Target().Logger().Error("undo failed", "error", err)
		return false
	}
	c.Target().Logger().Debug("undo", "applied", applied)
	return true
}

// ToggleGlobalClippingCommand switches clipping by slice planes on and off.
type ToggleGlobalClippingCommand struct {
	RenderTargetCommand
}

func NewToggleGlobalClippingCommand(target Target) *ToggleGlobalClippingCommand {
	return &ToggleGlobalClippingCommand{RenderTargetCommand: NewRenderTargetCommand(target)}
}

func (*ToggleGlobalClippingCommand) Name() string           { return "toggleClipping" }
func (*ToggleGlobalClippingCommand) Tooltip() string        { return "Clip by slices" }
func (*ToggleGlobalClippingCommand) Icon() string           { return "clip" }
func (*ToggleGlobalClippingCommand) ButtonType() ButtonType { return ButtonToggle }

// IsEnabled reports whether there is a slice to clip with, or clipping is
// still on.
func (c *ToggleGlobalClippingCommand) IsEnabled() bool {
	if c.Target().IsGlobalClippingEnabled() {
		return true
	}
	for range c.Root().Filter(clipping.IsSource) {
		return true
	}
	return false
}

func (c *ToggleGlobalClippingCommand) IsChecked() bool { return c.Target().IsGlobalClippingEnabled() }

func (c *ToggleGlobalClippingCommand) invokeCore() bool {
	c.Target().SetGlobalClippingEnabled(!c.Target().IsGlobalClippingEnabled())
	return true
}

// SetPrimitiveTypeCommand selects the primitive type of an edit tool and
// activates the tool.
type SetPrimitiveTypeCommand struct {
	RenderTargetCommand
	tool          *PrimitiveEditTool
	primitiveType primitives.PrimitiveType
}

func NewSetPrimitiveTypeCommand(target Target, tool *PrimitiveEditTool, pt primitives.PrimitiveType) *SetPrimitiveTypeCommand {
	return &SetPrimitiveTypeCommand{
		RenderTargetCommand: NewRenderTargetCommand(target),
		tool:                tool,
		primitiveType:       pt,
	}
}

func (c *SetPrimitiveTypeCommand) Name() string {
	return c.tool.Name() + "." + c.primitiveType.String()
}
func (c *SetPrimitiveTypeCommand) Tooltip() string { return c.primitiveType.String() }
func (c *SetPrimitiveTypeCommand) Icon() string    { return c.primitiveType.String() }

func (*SetPrimitiveTypeCommand) ButtonType() ButtonType { return ButtonOption }

func (c *SetPrimitiveTypeCommand) PrimitiveType() primitives.PrimitiveType { return c.primitiveType }

func (c *SetPrimitiveTypeCommand) IsEnabled() bool { return c.tool.Supports(c.primitiveType) }

func (c *SetPrimitiveTypeCommand) IsChecked() bool {
	return c.tool.IsChecked() && c.tool.PrimitiveType() == c.primitiveType
}

func (c *SetPrimitiveTypeCommand) invokeCore() bool {
	if !c.tool.SetPrimitiveType(c.primitiveType) {
		return false
	}
	c.Target().Controller().SetActiveTool(c.tool)
	return true
}

func (c *SetPrimitiveTypeCommand) Equals(other Command) bool {
	o, ok := other.(*SetPrimitiveTypeCommand)
	return ok && o.primitiveType == c.primitiveType && Equal(o.tool, c.tool)
}

// ActivateToolCommand toggles a tool: it activates the tool, or returns to
// the previous tool when it is already active.
type ActivateToolCommand struct {
	RenderTargetCommand
	tool Tool
}

func NewActivateToolCommand(target Target, tool Tool) *ActivateToolCommand {
	return &ActivateToolCommand{RenderTargetCommand: NewRenderTargetCommand(target), tool: tool}
}

func (c *ActivateToolCommand) Name() string     { return "activate." + c.tool.Name() }
func (c *ActivateToolCommand) Tooltip() string  { return c.tool.Tooltip() }
func (c *ActivateToolCommand) Icon() string     { return c.tool.Icon() }
func (c *ActivateToolCommand) Shortcut() string { return c.tool.Shortcut() }

func (*ActivateToolCommand) ButtonType() ButtonType { return ButtonToggle }

func (c *ActivateToolCommand) Tool() Tool { return c.tool }

func (c *ActivateToolCommand) IsChecked() bool { return c.Target().Controller().IsActive(c.tool) }

func (c *ActivateToolCommand) invokeCore() bool {
	controller := c.Target().Controller()
	if controller.IsActive(c.tool) {
		if controller.DefaultTool() == c.tool {
			return false
		}
		return controller.ActivatePreviousTool()
	}
	return controller.SetActiveTool(c.tool)
}

func (c *ActivateToolCommand) Equals(other Command) bool {
	o, ok := other.(*ActivateToolCommand)
	return ok && Equal(o.tool, c.tool)
}
