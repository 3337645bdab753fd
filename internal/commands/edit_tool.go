package commands

import (
	"slices"

	"github.com/scenekit/scenekit/internal/creators"
	"github.com/scenekit/scenekit/internal/domain"
	"github.com/scenekit/scenekit/internal/primitives"
)

// EditToolConfig describes a primitive edit tool.
type EditToolConfig struct {
	Name     string
	Tooltip  string
	Icon     string
	Shortcut string
	// Kinds are the object kinds the tool selects and edits.
	Kinds []domain.Kind
	// Types are the primitive types the tool can create.
	Types []primitives.PrimitiveType
	// DefaultType is selected when the tool is created. None starts in edit mode.
	DefaultType primitives.PrimitiveType
	// KindFor picks the kind created for a type. Nil uses primitives.KindFor.
	KindFor func(primitives.PrimitiveType) (domain.Kind, error)

	ShowOnActivate   bool
	HideOnDeactivate bool
}

// PrimitiveEditTool creates primitives with a creator and selects, focuses
// and deletes existing ones. With primitive type None it only edits.
type PrimitiveEditTool struct {
	BaseTool
	config        EditToolConfig
	primitiveType primitives.PrimitiveType
	creator       creators.Creator
}

func NewPrimitiveEditTool(target Target, config EditToolConfig) *PrimitiveEditTool {
	return &PrimitiveEditTool{
		BaseTool:      NewBaseTool(target),
		config:        config,
		primitiveType: config.DefaultType,
	}
}

// NewMeasurementTool measures with lines, areas, boxes and cylinders.
func NewMeasurementTool(target Target) *PrimitiveEditTool {
	return NewPrimitiveEditTool(target, EditToolConfig{
		Name:     "measure",
		Tooltip:  "Measure",
		Icon:     "ruler",
		Shortcut: "M",
		Kinds: []domain.Kind{
			primitives.KindMeasureBox, primitives.KindMeasureCylinder, primitives.KindMeasureLine,
			primitives.KindMeasurePolyline, primitives.KindMeasurePolygon,
		},
		Types: []primitives.PrimitiveType{
			primitives.Line, primitives.Polyline, primitives.Polygon,
			primitives.HorizontalArea, primitives.VerticalArea, primitives.Box,
			primitives.HorizontalCircle, primitives.VerticalCylinder,
			primitives.HorizontalCylinder, primitives.Cylinder,
		},
		DefaultType:    primitives.Line,
		ShowOnActivate: true,
	})
}

// NewSliceTool places slice planes.
func NewSliceTool(target Target) *PrimitiveEditTool {
	return NewPrimitiveEditTool(target, EditToolConfig{
		Name:           "slice",
		Tooltip:        "Slice",
		Icon:           "slice",
		Shortcut:       "S",
		Kinds:          []domain.Kind{primitives.KindSlicePlane},
		Types:          []primitives.PrimitiveType{primitives.PlaneX, primitives.PlaneY, primitives.PlaneZ, primitives.PlaneXY},
		DefaultType:    primitives.PlaneZ,
		ShowOnActivate: true,
	})
}

// NewCropBoxTool draws crop boxes.
func NewCropBoxTool(target Target) *PrimitiveEditTool {
	return NewPrimitiveEditTool(target, EditToolConfig{
		Name:           "crop",
		Tooltip:        "Crop box",
		Icon:           "crop",
		Shortcut:       "C",
		Kinds:          []domain.Kind{primitives.KindCropBox},
		Types:          []primitives.PrimitiveType{primitives.Box},
		DefaultType:    primitives.Box,
		KindFor:        fixedKind(primitives.KindCropBox),
		ShowOnActivate: true,
	})
}

// NewAnnotationTool draws annotation boxes. Annotations are hidden while the
// tool is not active.
func NewAnnotationTool(target Target) *PrimitiveEditTool {
	return NewPrimitiveEditTool(target, EditToolConfig{
		Name:             "annotate",
		Tooltip:          "Annotate",
		Icon:             "annotation",
		Shortcut:         "A",
		Kinds:            []domain.Kind{primitives.KindAnnotation},
		Types:            []primitives.PrimitiveType{primitives.Box},
		DefaultType:      primitives.Box,
		KindFor:          fixedKind(primitives.KindAnnotation),
		ShowOnActivate:   true,
		HideOnDeactivate: true,
	})
}

// NewPointTool places point markers.
func NewPointTool(target Target) *PrimitiveEditTool {
	return NewPrimitiveEditTool(target, EditToolConfig{
		Name:           "point",
		Tooltip:        "Point",
		Icon:           "point",
		Shortcut:       "P",
		Kinds:          []domain.Kind{primitives.KindPoint},
		Types:          []primitives.PrimitiveType{primitives.Point},
		DefaultType:    primitives.Point,
		ShowOnActivate: true,
	})
}

func fixedKind(kind domain.Kind) func(primitives.PrimitiveType) (domain.Kind, error) {
	return func(primitives.PrimitiveType) (domain.Kind, error) { return kind, nil }
}

func (t *PrimitiveEditTool) Name() string     { return t.config.Name }
func (t *PrimitiveEditTool) Tooltip() string  { return t.config.Tooltip }
func (t *PrimitiveEditTool) Icon() string     { return t.config.Icon }
func (t *PrimitiveEditTool) Shortcut() string { return t.config.Shortcut }

func (t *PrimitiveEditTool) IsChecked() bool { return t.Target().Controller().IsActive(t) }

func (t *PrimitiveEditTool) invokeCore() bool { return t.Target().Controller().SetActiveTool(t) }

func (t *PrimitiveEditTool) Equals(other Command) bool {
	o, ok := other.(*PrimitiveEditTool)
	return ok && o.config.Name == t.config.Name
}

// Types returns the primitive types the tool can create.
func (t *PrimitiveEditTool) Types() []primitives.PrimitiveType { return slices.Clone(t.config.Types) }

func (t *PrimitiveEditTool) PrimitiveType() primitives.PrimitiveType { return t.primitiveType }

// Supports reports whether the tool can be switched to pt.
func (t *PrimitiveEditTool) Supports(pt primitives.PrimitiveType) bool {
	return pt == primitives.None || slices.Contains(t.config.Types, pt)
}

// SetPrimitiveType switches the type created by the next click. A creation in
// progress is escaped first.
func (t *PrimitiveEditTool) SetPrimitiveType(pt primitives.PrimitiveType) bool {
	if !t.Supports(pt) {
		return false
	}
	t.escapeCreator()
	t.primitiveType = pt
	return true
}

// Creator returns the creation in progress, or nil.
func (t *PrimitiveEditTool) Creator() creators.Creator { return t.creator }

func (t *PrimitiveEditTool) IsBusy() bool { return t.creator != nil }

// IsInstance reports whether o is edited by this tool.
func (t *PrimitiveEditTool) IsInstance(o *domain.Object) bool {
	return slices.Contains(t.config.Kinds, o.Kind())
}

func (t *PrimitiveEditTool) instances() []*domain.Object {
	return slices.Collect(t.Root().Filter(t.IsInstance))
}

func (t *PrimitiveEditTool) IntersectionFilter() func(*domain.Object) bool {
	if t.creator == nil {
		return nil
	}
	creating := t.creator.Object()
	return func(o *domain.Object) bool { return o != creating }
}

func (t *PrimitiveEditTool) OnActivate() {
	if t.config.ShowOnActivate {
		t.setFoldersVisible(true)
	}
	t.updateCursor(nil)
}

func (t *PrimitiveEditTool) OnDeactivate() {
	t.escapeCreator()
	for _, o := range t.instances() {
		o.SetSelectedInteractive(false)
		if o.Focus() != domain.FocusPending {
			o.SetFocusInteractive(domain.FocusNone)
		}
	}
	if t.config.HideOnDeactivate {
		t.setFoldersVisible(false)
	}
	t.BaseTool.OnDeactivate()
}

func (t *PrimitiveEditTool) setFoldersVisible(visible bool) {
	root := t.Root()
	ctx := t.Target().VisibilityContext()
	var done []domain.Kind
	for _, kind := range t.config.Kinds {
		folderKind := primitives.FolderKindFor(kind)
		if slices.Contains(done, folderKind) {
			continue
		}
		done = append(done, folderKind)
		if folder := root.ChildByKind(folderKind); folder != nil {
			folder.SetVisibleInteractive(visible, ctx)
		}
	}
}

func (t *PrimitiveEditTool) OnClick(ev PointerEvent, hit *Hit) {
	switch {
	case t.creator != nil:
		if t.creator.AddPoint(ev.Ray, PointOf(hit), false) {
			t.afterPoint()
		}
	case t.primitiveType != primitives.None:
		t.startCreation(ev, hit)
	default:
		t.selectHit(hit, ev.Ctrl)
	}
}

func (t *PrimitiveEditTool) OnHover(ev PointerEvent, hit *Hit) {
	if t.creator != nil {
		t.creator.AddPoint(ev.Ray, PointOf(hit), true)
		t.Target().SetCursor(CursorCrosshair)
		return
	}
	var hovered *domain.Object
	if t.primitiveType == primitives.None && hit != nil && hit.Object != nil && t.IsInstance(hit.Object) {
		hovered = hit.Object
	}
	for _, o := range t.instances() {
		if o.Focus() == domain.FocusPending {
			continue
		}
		if o == hovered {
			o.SetFocusInteractive(domain.FocusFocus)
		} else {
			o.SetFocusInteractive(domain.FocusNone)
		}
	}
	t.updateCursor(hovered)
}

func (t *PrimitiveEditTool) updateCursor(hovered *domain.Object) {
	switch {
	case t.primitiveType != primitives.None:
		t.Target().SetCursor(CursorCrosshair)
	case hovered != nil:
		t.Target().SetCursor(CursorPointer)
	default:
		t.Target().SetCursor(CursorDefault)
	}
}

// OnDeleteKey discards the creation in progress or deletes the selection.
func (t *PrimitiveEditTool) OnDeleteKey() {
	if t.creator != nil {
		t.discard()
		return
	}
	for _, o := range t.instances() {
		if !o.IsSelected() || !o.CanBeRemoved() || o.IsRemoved() {
			continue
		}
		t.AddTransaction(o, domain.ChangeDeleted)
		o.RemoveInteractive()
	}
}

// OnEscapeKey ends the creation in progress, keeping the object if it has
// enough points, or clears the selection.
func (t *PrimitiveEditTool) OnEscapeKey() {
	if t.creator != nil {
		t.escapeCreator()
		return
	}
	for _, o := range t.instances() {
		o.SetSelectedInteractive(false)
	}
}

// OnKey finishes open-ended shapes on Enter.
func (t *PrimitiveEditTool) OnKey(key string, down bool) bool {
	if key == "Enter" && down && t.creator != nil {
		t.escapeCreator()
		return true
	}
	return false
}

// OnUndo drops the creation in progress instead of undoing history.
func (t *PrimitiveEditTool) OnUndo() bool {
	if t.creator == nil {
		return false
	}
	t.discard()
	return true
}

func (t *PrimitiveEditTool) kindFor(pt primitives.PrimitiveType) (domain.Kind, error) {
	if t.config.KindFor != nil {
		return t.config.KindFor(pt)
	}
	return primitives.KindFor(pt)
}

func (t *PrimitiveEditTool) startCreation(ev PointerEvent, hit *Hit) {
	logger := t.Target().Logger()
	if hit == nil {
		logger.Debug("creation needs a surface hit", "tool", t.config.Name)
		return
	}
	kind, err := t.kindFor(t.primitiveType)
	if err != nil {
		logger.Error("cannot create primitive", "type", t.primitiveType, "error", err)
		return
	}
	obj, err := primitives.NewObjectOfKind(t.Target().Tree(), kind, t.primitiveType)
	if err != nil {
		logger.Error("cannot create primitive", "type", t.primitiveType, "error", err)
		return
	}
	creator, err := creators.New(obj, t.Target().CreatorOptions())
	if err != nil {
		logger.Error("cannot create primitive", "type", t.primitiveType, "error", err)
		return
	}
	for _, o := range t.instances() {
		o.SetSelectedInteractive(false)
	}
	primitives.FolderFor(t.Root(), kind).AddChildInteractive(obj, false)
	t.creator = creator
	if !creator.AddPoint(ev.Ray, PointOf(hit), false) {
		t.discard()
		return
	}
	t.afterPoint()
}

func (t *PrimitiveEditTool) afterPoint() {
	if t.creator != nil && t.creator.IsFinished() {
		t.commit()
	}
}

// commit hands the finished object over to the undo history.
func (t *PrimitiveEditTool) commit() {
	obj := t.creator.Object()
	t.creator = nil
	t.AddTransaction(obj, domain.ChangeAdded)
	t.Invalidate()
	t.Target().Logger().Info("primitive created", "object", obj.ID(), "type", primitives.TypeOf(obj), "name", obj.DisplayName())
}

// discard removes the object under construction.
func (t *PrimitiveEditTool) discard() {
	obj := t.creator.Object()
	t.creator = nil
	if !obj.IsRemoved() {
		obj.ForceRemoveInteractive()
	}
	t.Invalidate()
}

func (t *PrimitiveEditTool) escapeCreator() {
	if t.creator == nil {
		return
	}
	if t.creator.Escape() {
		t.commit()
		return
	}
	t.creator = nil
	t.Invalidate()
}

func (t *PrimitiveEditTool) selectHit(hit *Hit, additive bool) {
	var target *domain.Object
	if hit != nil && hit.Object != nil && t.IsInstance(hit.Object) {
		target = hit.Object
	}
	if !additive {
		for _, o := range t.instances() {
			if o != target {
				o.SetSelectedInteractive(false)
			}
		}
	}
	if target == nil {
		return
	}
	if additive {
		target.SetSelectedInteractive(!target.IsSelected())
		return
	}
	target.SetSelectedInteractive(true)
}
