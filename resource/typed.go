package resource

// Typed is a view of a Table holding one resource kind as values of T.
// Entries inserted through other views or kinds are not visible.
type Typed[T any] struct {
	table *Table
	kind  string
}

// As returns a view of t for kind.
func As[T any](t *Table, kind string) *Typed[T] {
	return &Typed[T]{table: t, kind: kind}
}

func (v *Typed[T]) Insert(value T) (ID, error) {
	return v.table.Insert(v.kind, value)
}

func (v *Typed[T]) Get(id ID) (T, bool) {
	var zero T
	e, ok := v.table.store.get(id)
	if !ok || e.kind != v.kind {
		return zero, false
	}
	out, ok := e.value.(T)
	return out, ok
}

// Remove drops id if it is one of this view's entries.
func (v *Typed[T]) Remove(id ID) (T, bool) {
	var zero T
	if _, ok := v.Get(id); !ok {
		return zero, false
	}
	val, err := v.table.Remove(id)
	if err != nil {
		return zero, false
	}
	out, _ := val.(T)
	return out, true
}

// Each calls fn for the view's entries in id order until fn returns false.
func (v *Typed[T]) Each(fn func(ID, T) bool) {
	for _, id := range v.table.IDs() {
		if val, ok := v.Get(id); ok && !fn(id, val) {
			return
		}
	}
}

func (v *Typed[T]) Len() int {
	n := 0
	v.Each(func(ID, T) bool { n++; return true })
	return n
}
