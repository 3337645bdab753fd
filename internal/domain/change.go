package domain

import (
	"encoding/json"
	"strings"
)

// Change is a bit set describing what happened to an object.
type Change uint32

const (
	ChangeAdded Change = 1 << iota
	ChangeDeleted
	ChangeChildAdded
	ChangeChildDeleted
	ChangeGeometry
	ChangeRenderStyle
	ChangeColor
	ChangeSelected
	ChangeActive
	ChangeExpanded
	ChangeVisibleState
	ChangeFocus
	ChangeNaming
	ChangeClipping
)

// ChangeAll covers every non-structural property. CopyFrom uses it as "everything".
const ChangeAll = ChangeGeometry | ChangeRenderStyle | ChangeColor | ChangeNaming

var changeNames = []struct {
	change Change
	name   string
}{
	{ChangeAdded, "added"},
	{ChangeDeleted, "deleted"},
	{ChangeChildAdded, "childAdded"},
	{ChangeChildDeleted, "childDeleted"},
	{ChangeGeometry, "geometry"},
	{ChangeRenderStyle, "renderStyle"},
	{ChangeColor, "color"},
	{ChangeSelected, "selected"},
	{ChangeActive, "active"},
	{ChangeExpanded, "expanded"},
	{ChangeVisibleState, "visibleState"},
	{ChangeFocus, "focus"},
	{ChangeNaming, "naming"},
	{ChangeClipping, "clipping"},
}

// Has reports whether any of the given changes is set.
func (c Change) Has(changes ...Change) bool {
	for _, other := range changes {
		if c&other != 0 {
			return true
		}
	}
	return false
}

// Names returns the names of the set bits in declaration order.
func (c Change) Names() []string {
	var names []string
	for _, n := range changeNames {
		if c&n.change != 0 {
			names = append(names, n.name)
		}
	}
	return names
}

func (c Change) String() string {
	if c == 0 {
		return "none"
	}
	return strings.Join(c.Names(), "|")
}

// MarshalJSON encodes the change as a list of names.
func (c Change) MarshalJSON() ([]byte, error) {
	names := c.Names()
	if names == nil {
		names = []string{}
	}
	return json.Marshal(names)
}

// ParseChange returns the change with the given name.
func ParseChange(name string) (Change, bool) {
	for _, n := range changeNames {
		if n.name == name {
			return n.change, true
		}
	}
	return 0, false
}
