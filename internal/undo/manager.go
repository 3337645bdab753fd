package undo

import (
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/scenekit/scenekit/internal/domain"
)

// ErrNothingToUndo is returned by Undo when the history is empty.
var ErrNothingToUndo = errors.New("nothing to undo")

// DefaultGroupWindow joins transactions recorded less than a second apart.
const DefaultGroupWindow = time.Second

// Unit is one undo step.
type Unit struct {
	ID           uuid.UUID
	Transactions []Transaction
}

func (u *Unit) last() time.Time {
	return u.Transactions[len(u.Transactions)-1].Timestamp()
}

// Manager keeps the undo history.
type Manager struct {
	window   time.Duration
	now      func() time.Time
	logger   *slog.Logger
	units    []*Unit
	onChange []func()
}

type Option func(*Manager)

// WithGroupWindow sets how close transactions must be to share a unit.
func WithGroupWindow(d time.Duration) Option {
	return func(m *Manager) {
		m.window = d
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		window: DefaultGroupWindow,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Now returns the manager's clock reading, used to stamp new transactions.
func (m *Manager) Now() time.Time {
	return m.now()
}

// Record captures o before a change and adds the transaction.
func (m *Manager) Record(o *domain.Object, change domain.Change) Transaction {
	tx := NewTransaction(o, change, m.now())
	m.AddTransaction(tx)
	return tx
}

// AddTransaction appends tx to the newest unit when it was recorded within
// the group window of that unit's last transaction, and starts a new unit
// otherwise.
func (m *Manager) AddTransaction(tx Transaction) {
	if n := len(m.units); n > 0 {
		unit := m.units[n-1]
		if gap := tx.Timestamp().Sub(unit.last()); gap >= 0 && gap <= m.window {
			unit.Transactions = append(unit.Transactions, tx)
			m.changed()
			return
		}
	}
	m.units = append(m.units, &Unit{ID: uuid.New(), Transactions: []Transaction{tx}})
	m.changed()
}

// CanUndo reports whether a unit is left.
func (m *Manager) CanUndo() bool {
	return len(m.units) > 0
}

// Len returns the number of units.
func (m *Manager) Len() int {
	return len(m.units)
}

// Undo reverses the newest unit, last transaction first, and returns how
// many transactions took effect. Transactions whose target is gone are
// skipped.
func (m *Manager) Undo(tree *domain.Tree) (int, error) {
	if len(m.units) == 0 {
		return 0, ErrNothingToUndo
	}
	unit := m.units[len(m.units)-1]
	m.units = m.units[:len(m.units)-1]

	applied := 0
	for _, tx := range slices.Backward(unit.Transactions) {
		if tx.Undo(tree) {
			applied++
			continue
		}
		m.logger.Debug("transaction skipped", "unit", unit.ID, "object", tx.ObjectID(), "change", tx.Change())
	}
	m.logger.Debug("undo", "unit", unit.ID, "applied", applied, "total", len(unit.Transactions))
	m.changed()
	return applied, nil
}

// RemoveObject drops the transactions of one object, e.g. one that was
// abandoned before it was committed. Empty units go too.
func (m *Manager) RemoveObject(id string) {
	units := m.units[:0]
	for _, u := range m.units {
		u.Transactions = slices.DeleteFunc(u.Transactions, func(tx Transaction) bool {
			return tx.ObjectID() == id
		})
		if len(u.Transactions) > 0 {
			units = append(units, u)
		}
	}
	clear(m.units[len(units):])
	m.units = units
	m.changed()
}

// Clear forgets the history.
func (m *Manager) Clear() {
	m.units = nil
	m.changed()
}

// OnChange registers fn to run whenever the history changes.
func (m *Manager) OnChange(fn func()) {
	m.onChange = append(m.onChange, fn)
}

func (m *Manager) changed() {
	for _, fn := range m.onChange {
		fn()
	}
}
