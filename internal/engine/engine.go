// Package engine is the render target: it owns the domain tree, the command
// controller and the undo history of one scene, and serializes all access to
// them on a single event loop.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/scenekit/scenekit/internal/clipping"
	"github.com/scenekit/scenekit/internal/commands"
	"github.com/scenekit/scenekit/internal/config"
	"github.com/scenekit/scenekit/internal/creators"
	"github.com/scenekit/scenekit/internal/domain"
	"github.com/scenekit/scenekit/internal/geometry"
	"github.com/scenekit/scenekit/internal/primitives"
	"github.com/scenekit/scenekit/internal/undo"
)

// ErrStopped is returned when the event loop is not running anymore.
var ErrStopped = errors.New("engine stopped")

// Pick is a surface hit reported by the viewer.
type Pick struct {
	Point geometry.Vec3
	// ObjectID is the domain object hit, empty for other scene content.
	ObjectID string
}

// Viewer is the renderer side of the render target.
type Viewer interface {
	// Transform maps model coordinates to world coordinates.
	Transform() mgl64.Mat4
	// Intersect returns the nearest hit along ev.Ray on an object accepted by
	// accept, or nil. It is called off the event loop.
	Intersect(ctx context.Context, ev commands.PointerEvent, accept func(objectID string) bool) (*Pick, error)
	// SetClippingPlanes replaces the global slice planes.
	SetClippingPlanes(planes []geometry.Plane)
	// SetCropBoxPlanes replaces the planes of the active crop box. They
	// clip independently of the global set.
	SetCropBoxPlanes(planes []geometry.Plane)
	SetCursor(cursor commands.Cursor)
}

// Options configure an engine.
type Options struct {
	HoverDebounce   time.Duration
	UndoGroupWindow time.Duration
	PointSizeFactor float64
	// Context restricts which objects may be shown. Nil allows all.
	Context domain.Context
	// Clock is used for undo grouping. Nil uses time.Now.
	Clock  func() time.Time
	Logger *slog.Logger
}

// OptionsFromConfig maps the service configuration onto engine options.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) Options {
	return Options{
		HoverDebounce:   cfg.HoverDebounce,
		UndoGroupWindow: cfg.UndoGroupWindow,
		PointSizeFactor: cfg.PointSizeFactor,
		Logger:          logger,
	}
}

// EventType tells listeners what an Event carries.
type EventType int

const (
	EventChange EventType = iota
	EventCursor
	EventClipping
	EventCropBox
	EventCommands
)

// Event is emitted on the event loop whenever observable state changes.
type Event struct {
	Type     EventType
	Object   *domain.Object
	Change   domain.Change
	Cursor   commands.Cursor
	Planes   []geometry.Plane
	Commands []commands.State
}

// Engine is the render target of one scene.
type Engine struct {
	tree       *domain.Tree
	controller *commands.Controller
	undo       *undo.Manager
	viewer     Viewer
	opts       Options
	logger     *slog.Logger

	globalClipping bool
	cursor         commands.Cursor

	// Set by notifications, flushed after every job.
	clipDirty   bool
	cropDirty   bool
	statesDirty bool

	jobs     chan func()
	picks    chan pickRequest
	done     chan struct{}
	stopOnce sync.Once

	hoverTimer *time.Timer
	hoverSeq   uint64

	mu        sync.Mutex
	listeners []func(Event)
}

// New creates an engine with the standard tools and commands. Call Run to
// start processing input.
func New(viewer Viewer, opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.HoverDebounce <= 0 {
		opts.HoverDebounce = 80 * time.Millisecond
	}
	undoOpts := []undo.Option{undo.WithLogger(opts.Logger)}
	if opts.UndoGroupWindow > 0 {
		undoOpts = append(undoOpts, undo.WithGroupWindow(opts.UndoGroupWindow))
	}
	if opts.Clock != nil {
		undoOpts = append(undoOpts, undo.WithClock(opts.Clock))
	}

	e := &Engine{
		tree:       domain.NewTree(),
		controller: commands.NewController(opts.Logger),
		undo:       undo.NewManager(undoOpts...),
		viewer:     viewer,
		opts:       opts,
		logger:     opts.Logger,
		cursor:     commands.CursorDefault,
		jobs:       make(chan func(), 64),
		picks:      make(chan pickRequest, 16),
		done:       make(chan struct{}),
	}
	e.tree.Subscribe(e.onChange)
	e.undo.OnChange(func() { e.statesDirty = true })
	e.controller.Subscribe(func(states []commands.State) {
		e.emit(Event{Type: EventCommands, Commands: states})
	})
	e.registerCommands()
	return e
}

func (e *Engine) registerCommands() {
	c := e.controller
	c.SetDefaultTool(commands.NewNavigationTool(e))

	for _, tool := range []*commands.PrimitiveEditTool{
		commands.NewMeasurementTool(e),
		commands.NewSliceTool(e),
		commands.NewCropBoxTool(e),
		commands.NewAnnotationTool(e),
		commands.NewPointTool(e),
	} {
		c.Add(tool)
		for _, pt := range tool.Types() {
			c.Add(commands.NewSetPrimitiveTypeCommand(e, tool, pt))
		}
	}

	measurements := []domain.Kind{
		primitives.KindMeasureBox, primitives.KindMeasureCylinder, primitives.KindMeasureLine,
		primitives.KindMeasurePolyline, primitives.KindMeasurePolygon,
	}
	c.Add(commands.NewUndoCommand(e))
	c.Add(commands.NewToggleGlobalClippingCommand(e))
	c.Add(commands.NewToggleVisibleAllCommand(e, measurements...))
	c.Add(commands.NewToggleVisibleAllCommand(e, primitives.KindSlicePlane))
	c.Add(commands.NewToggleVisibleAllCommand(e, primitives.KindAnnotation))
	c.Add(commands.NewToggleVisibleAllCommand(e, primitives.KindPoint))
	c.Add(commands.NewShowOnTopCommand(e, measurements...))
	c.Add(commands.NewDeleteAllCommand(e, measurements...))
	c.Add(commands.NewDeleteAllCommand(e, primitives.KindPoint))
}

// commands.Target

func (e *Engine) Tree() *domain.Tree                { return e.tree }
func (e *Engine) Controller() *commands.Controller  { return e.controller }
func (e *Engine) UndoManager() *undo.Manager        { return e.undo }
func (e *Engine) VisibilityContext() domain.Context { return e.opts.Context }
func (e *Engine) IsGlobalClippingEnabled() bool     { return e.globalClipping }
func (e *Engine) Logger() *slog.Logger              { return e.logger }
func (e *Engine) CreatorOptions() creators.Options {
	return creators.Options{PointSizeFactor: e.opts.PointSizeFactor, Logger: e.logger}
}
func (e *Engine) Cursor() commands.Cursor { return e.cursor }

func (e *Engine) SetGlobalClippingEnabled(enabled bool) {
	if e.globalClipping == enabled {
		return
	}
	e.globalClipping = enabled
	e.clipDirty = true
	e.statesDirty = true
	e.logger.Info("global clipping", "enabled", enabled)
}

func (e *Engine) SetCursor(cursor commands.Cursor) {
	if e.cursor == cursor {
		return
	}
	e.cursor = cursor
	e.viewer.SetCursor(cursor)
	e.emit(Event{Type: EventCursor, Cursor: cursor})
}

// Subscribe registers fn for engine events. fn runs on the event loop and
// must not block.
func (e *Engine) Subscribe(fn func(Event)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
	index := len(e.listeners) - 1
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if index < len(e.listeners) {
			e.listeners[index] = nil
		}
	}
}

func (e *Engine) emit(ev Event) {
	e.mu.Lock()
	listeners := make([]func(Event), 0, len(e.listeners))
	for _, fn := range e.listeners {
		if fn != nil {
			listeners = append(listeners, fn)
		}
	}
	e.mu.Unlock()
	for _, fn := range listeners {
		fn(ev)
	}
}

func (e *Engine) onChange(o *domain.Object, change domain.Change) {
	e.statesDirty = true
	if change.Has(domain.ChangeGeometry, domain.ChangeAdded, domain.ChangeDeleted,
		domain.ChangeFocus, domain.ChangeActive, domain.ChangeVisibleState) {
		switch {
		case clipping.IsSource(o):
			e.clipDirty = true
		case o.Kind() == primitives.KindCropBox:
			e.cropDirty = true
		}
	}
	e.emit(Event{Type: EventChange, Object: o, Change: change})
}

// Run processes jobs until ctx is canceled.
func (e *Engine) Run(ctx context.Context) error {
	defer e.stop()
	go e.pickLoop(ctx)

	e.logger.Info("engine started")
	for {
		select {
		case <-ctx.Done():
			e.logger.Info("engine stopped")
			return ctx.Err()
		case job := <-e.jobs:
			job()
			e.flush()
		}
	}
}

func (e *Engine) stop() {
	e.stopOnce.Do(func() {
		close(e.done)
		if e.hoverTimer != nil {
			e.hoverTimer.Stop()
		}
	})
}

// Post queues fn to run on the event loop. It returns false when the engine
// has stopped.
func (e *Engine) Post(fn func()) bool {
	select {
	case <-e.done:
		return false
	default:
	}
	select {
	case e.jobs <- fn:
		return true
	case <-e.done:
		return false
	}
}

// Call runs fn on the event loop and waits until it and the work it
// deferred have finished.
func (e *Engine) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !e.Post(func() {
		defer close(finished)
		fn()
		e.flush()
	}) {
		return ErrStopped
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-e.done:
		return ErrStopped
	}
}

// flush applies the work deferred by notifications during a job.
func (e *Engine) flush() {
	if e.clipDirty {
		e.clipDirty = false
		e.updateClipping()
	}
	if e.cropDirty {
		e.cropDirty = false
		e.updateCropBox()
	}
	if e.statesDirty {
		e.statesDirty = false
		e.controller.Update()
	}
}

// updateClipping installs the slice planes when global clipping is on and
// an empty set otherwise.
func (e *Engine) updateClipping() {
	root := e.tree.Root()
	if e.globalClipping {
		clipping.SetClippingPlanes(root, clipTarget{e})
		return
	}
	e.applyClipping([]geometry.Plane{})
}

func (e *Engine) applyClipping(planes []geometry.Plane) {
	e.viewer.SetClippingPlanes(planes)
	e.emit(Event{Type: EventClipping, Planes: planes})
}

// updateCropBox installs the planes of the active crop box, or none.
func (e *Engine) updateCropBox() {
	planes := []geometry.Plane{}
	if box := e.tree.Root().ActiveDescendantByKind(primitives.KindCropBox); box != nil && box.IsLegal() {
		if shape, ok := box.Shape().(*geometry.Box); ok {
			planes = clipping.CropBoxPlanes(shape, e.viewer.Transform())
		}
	}
	e.viewer.SetCropBoxPlanes(planes)
	e.emit(Event{Type: EventCropBox, Planes: planes})
}

// clipTarget adapts the engine to the clipping aggregator.
type clipTarget struct{ e *Engine }

func (t clipTarget) Transform() mgl64.Mat4 { return t.e.viewer.Transform() }

func (t clipTarget) SetGlobalClipping(planes []geometry.Plane) { t.e.applyClipping(planes) }

// Input. All methods are safe to call from any goroutine.

// Click resolves a pick and hands it to the active tool.
func (e *Engine) Click(ev commands.PointerEvent) bool {
	return e.enqueuePick(pickRequest{ev: ev, apply: func(tool commands.Tool, hit *commands.Hit) {
		tool.OnClick(ev, hit)
	}})
}

// Hover debounces pointer moves. Only the last move of a burst is resolved.
func (e *Engine) Hover(ev commands.PointerEvent) bool {
	return e.Post(func() {
		e.hoverSeq++
		seq := e.hoverSeq
		if e.hoverTimer != nil {
			e.hoverTimer.Stop()
		}
		e.hoverTimer = time.AfterFunc(e.opts.HoverDebounce, func() {
			e.enqueuePick(pickRequest{ev: ev, hoverSeq: seq, apply: func(tool commands.Tool, hit *commands.Hit) {
				tool.OnHover(ev, hit)
			}})
		})
	})
}

// Wheel offers a wheel event to the active tool and reports whether it was used.
func (e *Engine) Wheel(ctx context.Context, ev commands.PointerEvent, delta float64) (bool, error) {
	var used bool
	err := e.Call(ctx, func() {
		if tool := e.controller.ActiveTool(); tool != nil {
			used = tool.OnWheel(ev, delta)
		}
	})
	return used, err
}

// Key routes a key to the active tool and then to command shortcuts.
func (e *Engine) Key(key string, down bool) bool {
	return e.Post(func() {
		tool := e.controller.ActiveTool()
		if down && tool != nil {
			switch key {
			case "Delete", "Backspace":
				tool.OnDeleteKey()
				return
			case "Escape":
				tool.OnEscapeKey()
				return
			}
		}
		e.controller.OnKey(key, down)
	})
}

// Invoke runs a registered command by id.
func (e *Engine) Invoke(ctx context.Context, commandID string) (bool, error) {
	var done bool
	err := e.Call(ctx, func() { done = e.controller.Invoke(commandID) })
	return done, err
}
