package commands

import (
	"iter"
	"log/slog"
	"slices"

	"github.com/scenekit/scenekit/internal/creators"
	"github.com/scenekit/scenekit/internal/domain"
	"github.com/scenekit/scenekit/internal/undo"
)

// Target is the render target commands act on.
type Target interface {
	Tree() *domain.Tree
	Controller() *Controller
	UndoManager() *undo.Manager
	// VisibilityContext decides which objects may be shown right now.
	VisibilityContext() domain.Context
	IsGlobalClippingEnabled() bool
	SetGlobalClippingEnabled(enabled bool)
	SetCursor(cursor Cursor)
	CreatorOptions() creators.Options
	Logger() *slog.Logger
}

// RenderTargetCommand is a command bound to one render target.
type RenderTargetCommand struct {
	Base
	target Target
}

func NewRenderTargetCommand(target Target) RenderTargetCommand {
	return RenderTargetCommand{target: target}
}

func (c *RenderTargetCommand) Target() Target { return c.target }

func (c *RenderTargetCommand) Root() *domain.Object { return c.target.Tree().Root() }

// ActiveTool returns the target's active tool.
func (c *RenderTargetCommand) ActiveTool() Tool { return c.target.Controller().ActiveTool() }

// AddTransaction records the state of o before a change.
func (c *RenderTargetCommand) AddTransaction(o *domain.Object, change domain.Change) {
	c.target.UndoManager().Record(o, change)
}

// DomainObjectCommand is a command scoped to one object.
type DomainObjectCommand struct {
	RenderTargetCommand
	object *domain.Object
}

func NewDomainObjectCommand(target Target, o *domain.Object) DomainObjectCommand {
	return DomainObjectCommand{RenderTargetCommand: NewRenderTargetCommand(target), object: o}
}

func (c *DomainObjectCommand) Object() *domain.Object { return c.object }

func (c *DomainObjectCommand) IsEnabled() bool { return !c.object.IsRemoved() }

// InstanceCommand is a command over every object of the given kinds.
type InstanceCommand struct {
	RenderTargetCommand
	kinds []domain.Kind
}

func NewInstanceCommand(target Target, kinds ...domain.Kind) InstanceCommand {
	return InstanceCommand{RenderTargetCommand: NewRenderTargetCommand(target), kinds: kinds}
}

// IsInstance reports whether o is in the command's scope.
func (c *InstanceCommand) IsInstance(o *domain.Object) bool {
	return slices.Contains(c.kinds, o.Kind())
}

// Instances yields the objects in scope, evaluated when iteration starts.
func (c *InstanceCommand) Instances() iter.Seq[*domain.Object] {
	return c.Root().Filter(c.IsInstance)
}

// AnyInstance reports whether at least one object is in scope.
func (c *InstanceCommand) AnyInstance() bool {
	for range c.Instances() {
		return true
	}
	return false
}

// sameKinds compares the scopes of two instance commands.
func (c *InstanceCommand) sameKinds(other *InstanceCommand) bool {
	if len(c.kinds) != len(other.kinds) {
		return false
	}
	for _, k := range c.kinds {
		if !slices.Contains(other.kinds, k) {
			return false
		}
	}
	return true
}
