package commands

import (
	"log/slog"
	"slices"
	"strings"
)

// Controller tracks the registered commands and the active tool of one
// render target.
type Controller struct {
	commands     []Command
	activeTool   Tool
	defaultTool  Tool
	previousTool Tool
	listeners    []func([]State)
	logger       *slog.Logger
}

func NewController(logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{logger: logger}
}

// Add registers cmd. When an equal command is already registered that one is
// returned instead.
func (c *Controller) Add(cmd Command) Command {
	if existing := c.Find(cmd); existing != nil {
		return existing
	}
	c.commands = append(c.commands, cmd)
	return cmd
}

// Find returns the registered command equal to cmd.
func (c *Controller) Find(cmd Command) Command {
	for _, existing := range c.commands {
		if Equal(existing, cmd) {
			return existing
		}
	}
	return nil
}

// ByID returns the registered command with the given id.
func (c *Controller) ByID(id string) (Command, bool) {
	for _, cmd := range c.commands {
		if cmd.ID() == id {
			return cmd, true
		}
	}
	return nil, false
}

// Commands returns the registered commands in registration order.
func (c *Controller) Commands() []Command { return slices.Clone(c.commands) }

// FindTool returns the first registered tool of type T.
func FindTool[T Tool](c *Controller) (T, bool) {
	for _, cmd := range c.commands {
		if t, ok := cmd.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

func (c *Controller) ActiveTool() Tool   { return c.activeTool }
func (c *Controller) DefaultTool() Tool  { return c.defaultTool }
func (c *Controller) PreviousTool() Tool { return c.previousTool }

// IsActive reports whether t is the active tool.
func (c *Controller) IsActive(t Tool) bool { return c.activeTool != nil && c.activeTool == t }

// SetDefaultTool sets the fallback tool and activates it if no tool is active.
func (c *Controller) SetDefaultTool(t Tool) {
	c.defaultTool = t
	c.Add(t)
	if c.activeTool == nil {
		c.SetActiveTool(t)
	}
}

// SetActiveTool deactivates the current tool and activates t.
func (c *Controller) SetActiveTool(t Tool) bool {
	if t == nil || c.IsActive(t) {
		return false
	}
	previous := c.activeTool
	if previous != nil {
		previous.OnDeactivate()
	}
	c.previousTool = previous
	c.activeTool = t
	t.OnActivate()
	c.logger.Debug("tool activated", "tool", t.Name())
	c.Update()
	return true
}

// ActivateDefaultTool switches back to the default tool.
func (c *Controller) ActivateDefaultTool() bool {
	return c.SetActiveTool(c.defaultTool)
}

// ActivatePreviousTool switches back to the tool active before the current
// one, or to the default tool.
func (c *Controller) ActivatePreviousTool() bool {
	if c.previousTool != nil {
		return c.SetActiveTool(c.previousTool)
	}
	return c.ActivateDefaultTool()
}

// OnKey gives a key to the active tool first and then to the command with a
// matching shortcut.
func (c *Controller) OnKey(key string, down bool) bool {
	if c.activeTool != nil && c.activeTool.OnKey(key, down) {
		return true
	}
	if !down {
		return false
	}
	for _, cmd := range c.commands {
		if shortcut := cmd.Shortcut(); shortcut != "" && strings.EqualFold(shortcut, key) {
			ok := Invoke(cmd)
			c.Update()
			return ok
		}
	}
	return false
}

// Invoke runs the registered command with the given id.
func (c *Controller) Invoke(id string) bool {
	cmd, ok := c.ByID(id)
	if !ok {
		return false
	}
	done := Invoke(cmd)
	c.logger.Debug("command invoked", "command", cmd.Name(), "done", done)
	c.Update()
	return done
}

// Subscribe registers fn for state updates.
func (c *Controller) Subscribe(fn func([]State)) {
	c.listeners = append(c.listeners, fn)
}

// States derives the current state of every registered command.
func (c *Controller) States() []State {
	states := make([]State, 0, len(c.commands))
	for _, cmd := range c.commands {
		states = append(states, StateOf(cmd))
	}
	return states
}

// Update re-derives command states and hands them to the listeners.
func (c *Controller) Update() {
	if len(c.listeners) == 0 {
		return
	}
	states := c.States()
	for _, fn := range c.listeners {
		fn(states)
	}
}
