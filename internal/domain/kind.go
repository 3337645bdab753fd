package domain

import (
	"fmt"
	"sync"
)

// Kind identifies a registered family of domain objects. Two objects share a
// kind only if they were created from the same RegisterKind handle, so kinds
// with the same display name never collide.
type Kind uint16

// KindInfo describes the capabilities of a kind. The zero value is a plain,
// removable, selectable, renameable, recolorable container.
type KindInfo struct {
	// TypeName is the display name used for generated object names.
	TypeName string

	// Visual objects own their visibility flag; containers derive it from children.
	Visual bool

	Permanent    bool // cannot be removed
	Unselectable bool
	CanBeActive  bool // at most one active object per kind
	FixedName    bool // name is always TypeName
	FixedColor   bool // renders in a neutral color

	// ExpandedByDefault is applied when the object is initialized.
	ExpandedByDefault bool

	// IsRenderStyleRoot marks objects whose style is shared by descendants.
	IsRenderStyleRoot bool
	// StyleFromParent delegates the render style to the parent.
	StyleFromParent bool
	// NewRenderStyle is the render style factory; nil means no style.
	NewRenderStyle func() RenderStyle
	// VerifyRenderStyle may adjust a style before it is handed out.
	VerifyRenderStyle func(o *Object, style RenderStyle)

	// ClipSource marks slice objects that contribute global clip planes.
	ClipSource bool

	// Extension returns extra text shown after the name, e.g. a measurement.
	Extension func(o *Object) string

	// Initialize runs once per object, from Object.Initialize.
	Initialize func(o *Object)
}

var (
	kindsMu sync.RWMutex
	kinds   = []KindInfo{{TypeName: "Invalid", Permanent: true}}
)

// RegisterKind adds a kind to the registry and returns its handle.
func RegisterKind(info KindInfo) Kind {
	if info.TypeName == "" {
		panic("domain: kind must have a type name")
	}
	kindsMu.Lock()
	defer kindsMu.Unlock()
	kinds = append(kinds, info)
	return Kind(len(kinds) - 1)
}

// Info returns the registered description of k.
func (k Kind) Info() KindInfo {
	kindsMu.RLock()
	defer kindsMu.RUnlock()
	if int(k) >= len(kinds) {
		panic(fmt.Sprintf("domain: unknown kind %d", k))
	}
	return kinds[k]
}

// TypeName returns the display type name of k.
func (k Kind) TypeName() string {
	return k.Info().TypeName
}

func (k Kind) String() string {
	return fmt.Sprintf("%s#%d", k.TypeName(), uint16(k))
}

// Built-in kinds.
var (
	KindRoot = RegisterKind(KindInfo{
		TypeName:          "Root",
		Permanent:         true,
		FixedName:         true,
		FixedColor:        true,
		ExpandedByDefault: true,
	})
	KindFolder = RegisterKind(KindInfo{
		TypeName:          "Folder",
		FixedColor:        true,
		ExpandedByDefault: true,
	})
)
