// Package undo records reversible changes to the domain tree and groups
// changes made in quick succession into one undo step.
package undo

import (
	"time"

	"github.com/scenekit/scenekit/internal/domain"
	"github.com/scenekit/scenekit/internal/typeid"
)

// Transaction is a reversible record of one change.
type Transaction interface {
	ID() string
	ObjectID() string
	Change() domain.Change
	Timestamp() time.Time
	// Undo reverses the change. It reports false, and changes nothing, when
	// the target is gone or no longer where the record expects it.
	Undo(tree *domain.Tree) bool
}

// DomainObjectTransaction records the state of one object before a change.
type DomainObjectTransaction struct {
	id        string
	objectID  string
	change    domain.Change
	timestamp time.Time
	before    *domain.Snapshot
}

// NewTransaction captures o before a change of the given kind. Call it
// before mutating o. For ChangeAdded call it after o is attached.
func NewTransaction(o *domain.Object, change domain.Change, now time.Time) *DomainObjectTransaction {
	return &DomainObjectTransaction{
		id:        typeid.NewTransactionID(),
		objectID:  o.ID(),
		change:    change,
		timestamp: now,
		before:    o.Snapshot(),
	}
}

func (t *DomainObjectTransaction) ID() string            { return t.id }
func (t *DomainObjectTransaction) ObjectID() string      { return t.objectID }
func (t *DomainObjectTransaction) Change() domain.Change { return t.change }
func (t *DomainObjectTransaction) Timestamp() time.Time  { return t.timestamp }

func (t *DomainObjectTransaction) Undo(tree *domain.Tree) bool {
	switch {
	case t.change.Has(domain.ChangeAdded):
		return t.undoAdded(tree)
	case t.change.Has(domain.ChangeDeleted):
		return t.undoDeleted(tree)
	}
	o, ok := tree.ByID(t.objectID)
	if !ok {
		return false
	}
	o.CopyFrom(t.before, t.change)
	if t.change.Has(domain.ChangeVisibleState) {
		o.NotifyVisibleStateChange()
		if rest := t.change &^ domain.ChangeVisibleState; rest != 0 {
			o.Notify(rest)
		}
		return true
	}
	o.Notify(t.change)
	return true
}

func (t *DomainObjectTransaction) undoAdded(tree *domain.Tree) bool {
	o, ok := tree.ByID(t.objectID)
	if !ok || o.Parent() == nil {
		return false
	}
	return o.ForceRemoveInteractive()
}

func (t *DomainObjectTransaction) undoDeleted(tree *domain.Tree) bool {
	if _, ok := tree.ByID(t.objectID); ok {
		return false
	}
	parent, ok := tree.ByID(t.before.ParentID)
	if !ok {
		return false
	}
	restored, err := tree.Restore(t.before, parent)
	if err != nil {
		return false
	}
	parent.Notify(domain.ChangeChildAdded)
	for o := range restored.ThisAndDescendants() {
		o.Notify(domain.ChangeAdded)
	}
	return true
}
