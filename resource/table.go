package resource

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/bindgen/errors"
	"github.com/wippyai/bindgen/schema"
)

// Table maps resource ids to host values. Each entry records the resource
// kind it was inserted as, the schema name of the resource, so ids
// received in handle arguments can be checked against the parameter type.
// A Table is safe for concurrent use.
type Table struct {
	store     *store
	observers []Observer
	obsMu     sync.RWMutex
}

func NewTable() *Table {
	return &Table{store: newStore()}
}

// Insert stores value as a kind resource and returns its id.
func (t *Table) Insert(kind string, value any) (ID, error) {
	id, err := t.store.create(kind, value)
	if err != nil {
		return 0, err
	}
	debugf("insert %s #%d", kind, id)
	t.notify(Event{Type: EventCreated, ID: id, Kind: kind, Value: value})
	return id, nil
}

// Get returns the value stored under id.
func (t *Table) Get(id ID) (any, bool) {
	e, ok := t.store.get(id)
	return e.value, ok
}

// Contains reports whether id is live.
func (t *Table) Contains(id ID) bool {
	_, ok := t.store.get(id)
	return ok
}

// Kind returns the resource kind id was inserted as.
func (t *Table) Kind(id ID) (string, bool) {
	e, ok := t.store.get(id)
	return e.kind, ok
}

// Resolve returns the value behind a handle argument, checking that the
// entry is a resource of the handle's type.
func (t *Table) Resolve(h schema.Handle, id ID) (any, error) {
	e, ok := t.store.get(id)
	if !ok {
		return nil, errUnknown(id)
	}
	if e.kind != h.Name {
		return nil, errors.New(errors.PhaseTransport, errors.KindTypeMismatch).
			Subject(h.Name).
			Detail("resource #%d is a %s", id, e.kind).
			Build()
	}
	return e.value, nil
}

// Remove drops the entry and returns its value. A value implementing
// Dropper has Drop called. Borrowed entries cannot be removed.
func (t *Table) Remove(id ID) (any, error) {
	e, err := t.store.drop(id)
	if err != nil {
		return nil, err
	}
	if d, ok := e.value.(Dropper); ok {
		d.Drop()
	}
	debugf("remove %s #%d", e.kind, id)
	t.notify(Event{Type: EventDropped, ID: id, Kind: e.kind, Value: e.value})
	return e.value, nil
}

// Borrow marks id as in use and returns its value. Each Borrow must be
// paired with a Return before the entry can be removed.
func (t *Table) Borrow(id ID) (any, error) {
	e, err := t.store.borrow(id)
	if err != nil {
		return nil, err
	}
	t.notify(Event{Type: EventBorrowed, ID: id, Kind: e.kind, Value: e.value})
	return e.value, nil
}

// Return ends one borrow of id. It reports false if id had none.
func (t *Table) Return(id ID) bool {
	e, ok := t.store.release(id)
	if ok {
		t.notify(Event{Type: EventBorrowReturned, ID: id, Kind: e.kind, Value: e.value})
	}
	return ok
}

// Len returns the number of live entries.
func (t *Table) Len() int {
	return t.store.len()
}

// IDs lists the live ids, sorted.
func (t *Table) IDs() []ID {
	ids := t.store.ids()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Clear removes every entry that is not borrowed.
func (t *Table) Clear() {
	for _, id := range t.store.ids() {
		if _, err := t.Remove(id); err != nil {
			Logger().Debug("clear kept entry", zap.Uint32("id", uint32(id)), zap.Error(err))
		}
	}
}

// Close drops every entry, borrowed or not, and rejects later inserts.
// Observers are not notified.
func (t *Table) Close() error {
	entries := t.store.close()
	for id, e := range entries {
		if e.borrows > 0 {
			Logger().Warn("closing table with borrowed resource",
				zap.Uint32("id", uint32(id)),
				zap.String("kind", e.kind),
				zap.Uint32("borrows", e.borrows))
		}
		if d, ok := e.value.(Dropper); ok {
			d.Drop()
		}
	}
	return nil
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer added with Subscribe.
func (t *Table) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	observers := t.observers
	t.obsMu.RUnlock()
	for _, o := range observers {
		o.OnResourceEvent(e)
	}
}

// Lookup returns the value under id as a T.
func Lookup[T any](t *Table, id ID) (T, error) {
	var zero T
	v, ok := t.Get(id)
	if !ok {
		return zero, errUnknown(id)
	}
	out, ok := v.(T)
	if !ok {
		return zero, errors.New(errors.PhaseTransport, errors.KindTypeMismatch).
			Detail("resource #%d holds %T, not %T", id, v, zero).
			Build()
	}
	return out, nil
}

func errUnknown(id ID) error {
	return errors.NotFound(errors.PhaseTransport, "resource", fmt.Sprintf("#%d", id))
}

func errBorrowed(id ID, kind string, borrows uint32) error {
	return errors.New(errors.PhaseTransport, errors.KindInvalidInput).
		Subject(kind).
		Detail("resource #%d has %d outstanding borrows", id, borrows).
		Build()
}

func errClosed() error {
	return errors.InvalidInput(errors.PhaseTransport, "resource table closed")
}

func errFull() error {
	return errors.InvalidInput(errors.PhaseTransport, "resource table has no free ids")
}
