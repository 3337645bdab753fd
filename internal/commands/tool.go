package commands

import (
	"github.com/scenekit/scenekit/internal/domain"
	"github.com/scenekit/scenekit/internal/geometry"
)

// PointerEvent is a pointer sample in world space.
type PointerEvent struct {
	Ray geometry.Ray
	// X and Y are the view coordinates the ray was cast from.
	X, Y  float64
	Shift bool
	Ctrl  bool
	// Candidates are intersections computed by a remote renderer, nearest
	// first. Local viewers leave it empty.
	Candidates []Candidate
}

// Candidate is a precomputed intersection.
type Candidate struct {
	Point    geometry.Vec3
	ObjectID string
}

// Hit is the result of an intersection query.
type Hit struct {
	Point geometry.Vec3
	// Object is the domain object hit, or nil for other scene content.
	Object *domain.Object
}

// PointOf returns the hit point, or nil when nothing was hit.
func PointOf(hit *Hit) *geometry.Vec3 {
	if hit == nil {
		return nil
	}
	p := hit.Point
	return &p
}

// Tool is a command that owns input while it is active.
type Tool interface {
	Command
	OnActivate()
	OnDeactivate()
	// IntersectionFilter restricts which domain objects a pick may return.
	// A nil filter accepts all.
	IntersectionFilter() func(*domain.Object) bool
	OnClick(ev PointerEvent, hit *Hit)
	OnHover(ev PointerEvent, hit *Hit)
	// OnWheel reports whether the tool used the wheel. Otherwise the view zooms.
	OnWheel(ev PointerEvent, delta float64) bool
	OnDeleteKey()
	OnEscapeKey()
	OnKey(key string, down bool) bool
	// OnUndo reports whether the tool consumed the undo request.
	OnUndo() bool
	// IsBusy reports whether the tool is in the middle of an operation.
	IsBusy() bool
	// Generation changes whenever pending asynchronous results become stale.
	Generation() uint64
}

// BaseTool implements the no-op defaults of a tool.
type BaseTool struct {
	RenderTargetCommand
	generation uint64
}

func NewBaseTool(target Target) BaseTool {
	return BaseTool{RenderTargetCommand: NewRenderTargetCommand(target)}
}

func (*BaseTool) ButtonType() ButtonType                        { return ButtonToggle }
func (*BaseTool) IntersectionFilter() func(*domain.Object) bool { return nil }
func (*BaseTool) OnActivate()                                   {}
func (*BaseTool) OnClick(PointerEvent, *Hit)                    {}
func (*BaseTool) OnHover(PointerEvent, *Hit)                    {}
func (*BaseTool) OnWheel(PointerEvent, float64) bool            { return false }
func (*BaseTool) OnDeleteKey()                                  {}
func (*BaseTool) OnEscapeKey()                                  {}
func (*BaseTool) OnKey(string, bool) bool                       { return false }
func (*BaseTool) OnUndo() bool                                  { return false }
func (*BaseTool) IsBusy() bool                                  { return false }

func (t *BaseTool) OnDeactivate() { t.Invalidate() }

func (t *BaseTool) Generation() uint64 { return t.generation }

// Invalidate marks pending asynchronous results as stale.
func (t *BaseTool) Invalidate() { t.generation++ }

// NavigationTool is the default tool. It leaves the camera to the view and
// only reports a hover cursor.
type NavigationTool struct {
	BaseTool
}

func NewNavigationTool(target Target) *NavigationTool {
	return &NavigationTool{BaseTool: NewBaseTool(target)}
}

func (*NavigationTool) Name() string     { return "navigate" }
func (*NavigationTool) Tooltip() string  { return "Navigate" }
func (*NavigationTool) Icon() string     { return "navigate" }
func (*NavigationTool) Shortcut() string { return "N" }

func (t *NavigationTool) IsChecked() bool { return t.Target().Controller().IsActive(t) }

func (t *NavigationTool) invokeCore() bool { return t.Target().Controller().SetActiveTool(t) }

func (t *NavigationTool) OnHover(_ PointerEvent, hit *Hit) {
	if hit != nil && hit.Object != nil {
		t.Target().SetCursor(CursorPointer)
		return
	}
	t.Target().SetCursor(CursorDefault)
}
