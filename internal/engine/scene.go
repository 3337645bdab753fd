package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/scenekit/scenekit/internal/commands"
	"github.com/scenekit/scenekit/internal/domain"
	"github.com/scenekit/scenekit/internal/geometry"
	"github.com/scenekit/scenekit/internal/primitives"
)

// SceneNode is the render-ready description of one domain object. Derived
// properties are resolved: label, color, visible state and style.
type SceneNode struct {
	ID           string                        `json:"id"`
	ParentID     string                        `json:"parentId,omitempty"`
	Type         string                        `json:"type"`
	Primitive    string                        `json:"primitive,omitempty"`
	Label        string                        `json:"label"`
	Color        string                        `json:"color,omitempty"`
	Visible      bool                          `json:"visible"`
	VisibleState string                        `json:"visibleState"`
	Selected     bool                          `json:"selected,omitempty"`
	Active       bool                          `json:"active,omitempty"`
	Expanded     bool                          `json:"expanded,omitempty"`
	Focus        string                        `json:"focus,omitempty"`
	Style        *primitives.CommonRenderStyle `json:"style,omitempty"`
	Geometry     *Geometry                     `json:"geometry,omitempty"`
	Children     []string                      `json:"children,omitempty"`
}

// Geometry is the renderer view of a shape. Op selects which fields apply.
type Geometry struct {
	Op       string          `json:"op"` // "box", "cylinder", "polyline", "point", "plane"
	Center   *geometry.Vec3  `json:"center,omitempty"`
	Size     *geometry.Vec3  `json:"size,omitempty"`
	Rotation float64         `json:"rotation,omitempty"`
	Points   []geometry.Vec3 `json:"points,omitempty"`
	Closed   bool            `json:"closed,omitempty"`
	Radius   float64         `json:"radius,omitempty"`
	Normal   *geometry.Vec3  `json:"normal,omitempty"`
	Constant float64         `json:"constant,omitempty"`
}

// Describe resolves o into a scene node.
func Describe(o *domain.Object, ctx domain.Context) SceneNode {
	n := SceneNode{
		ID:           o.ID(),
		Type:         o.TypeName(),
		Label:        o.DisplayName(),
		Visible:      o.IsVisible(ctx),
		VisibleState: o.VisibleState(ctx).String(),
		Selected:     o.IsSelected(),
		Active:       o.IsActive(),
		Expanded:     o.IsExpanded(),
	}
	if parent := o.Parent(); parent != nil {
		n.ParentID = parent.ID()
	}
	if o.Focus() != domain.FocusNone {
		n.Focus = o.Focus().String()
	}
	if primitives.IsPrimitive(o) {
		n.Primitive = primitives.TypeOf(o).String()
		n.Color = o.Color().Hex()
	}
	if style, ok := primitives.StyleOf(o); ok {
		n.Style = style.Clone().(*primitives.CommonRenderStyle)
	}
	n.Geometry = DescribeGeometry(o.Shape())
	for _, child := range o.Children() {
		n.Children = append(n.Children, child.ID())
	}
	return n
}

// DescribeGeometry converts a shape, or returns nil for containers. The
// result shares no memory with the shape.
func DescribeGeometry(s geometry.Shape) *Geometry {
	switch s := s.(type) {
	case *geometry.Box:
		return &Geometry{Op: "box", Center: ptr(s.Center), Size: ptr(s.Size), Rotation: s.ZRotation}
	case *geometry.Cylinder:
		return &Geometry{Op: "cylinder", Points: []geometry.Vec3{s.CenterA, s.CenterB}, Radius: s.Radius}
	case *geometry.Polyline:
		return &Geometry{Op: "polyline", Points: slices.Clone(s.Points), Closed: s.Closed}
	case *geometry.Point:
		return &Geometry{Op: "point", Center: ptr(s.Position), Radius: s.Size}
	case *geometry.PlaneShape:
		return &Geometry{Op: "plane", Center: ptr(s.Anchor), Normal: ptr(s.Plane.Normal), Constant: s.Plane.Constant}
	}
	return nil
}

func ptr(v geometry.Vec3) *geometry.Vec3 { return &v }

// Scene describes every object in pre-order. Call it on the event loop.
func (e *Engine) Scene() []SceneNode {
	var nodes []SceneNode
	for o := range e.tree.Root().ThisAndDescendants() {
		nodes = append(nodes, Describe(o, e.opts.Context))
	}
	return nodes
}

// SceneToJSON serializes scene nodes for the frontend.
func SceneToJSON(nodes []SceneNode) (string, error) {
	if nodes == nil {
		return "[]", nil
	}
	data, err := json.Marshal(nodes)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ObjectCommand creates the command called name for the object with the
// given id. Call it on the event loop.
func (e *Engine) ObjectCommand(name, objectID string) (commands.Command, error) {
	o, ok := e.tree.ByID(objectID)
	if !ok || o.IsRemoved() {
		return nil, fmt.Errorf("object %s: %w", objectID, domain.ErrNotFound)
	}
	switch name {
	case "delete":
		return commands.NewDeleteDomainObjectCommand(e, o), nil
	case "toggleExpand":
		return commands.NewToggleExpandCommand(e, o), nil
	case "applyCropBox":
		return commands.NewApplyCropBoxCommand(e, o), nil
	}
	return nil, fmt.Errorf("unknown object command %q", name)
}

// InvokeOn runs an object command and reports whether it did anything.
func (e *Engine) InvokeOn(ctx context.Context, name, objectID string) (bool, error) {
	var (
		done bool
		err  error
	)
	callErr := e.Call(ctx, func() {
		var cmd commands.Command
		cmd, err = e.ObjectCommand(name, objectID)
		if err != nil {
			return
		}
		done = commands.Invoke(cmd)
		e.statesDirty = true
	})
	if callErr != nil {
		return false, callErr
	}
	return done, err
}

// Select makes the object with the given id the only selected object, or
// clears the selection when id is empty.
func (e *Engine) Select(ctx context.Context, objectID string) error {
	var err error
	callErr := e.Call(ctx, func() {
		var target *domain.Object
		if objectID != "" {
			o, ok := e.tree.ByID(objectID)
			if !ok {
				err = fmt.Errorf("object %s: %w", objectID, domain.ErrNotFound)
				return
			}
			target = o
		}
		for o := range e.tree.Root().Descendants() {
			if o != target {
				o.SetSelectedInteractive(false)
			}
		}
		if target != nil {
			target.SetSelectedInteractive(true)
		}
	})
	if callErr != nil {
		return callErr
	}
	return err
}
