package resource

import (
	stderrors "errors"
	"sync"
	"testing"

	"github.com/wippyai/bindgen/errors"
	"github.com/wippyai/bindgen/schema"
)

type testObserver struct {
	mu     sync.Mutex
	events []Event
}

func (o *testObserver) OnResourceEvent(e Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func mustInsert(t *testing.T, table *Table, kind string, v any) ID {
	t.Helper()
	id, err := table.Insert(kind, v)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	return id
}

func TestTable_Basic(t *testing.T) {
	table := NewTable()

	id := mustInsert(t, table, "file", "test")
	if id != 1 {
		t.Fatalf("first id = %d, want 1", id)
	}

	val, ok := table.Get(id)
	if !ok || val != "test" {
		t.Fatalf("Get = %v, %v", val, ok)
	}
	if kind, _ := table.Kind(id); kind != "file" {
		t.Fatalf("Kind = %q", kind)
	}

	val, err := table.Remove(id)
	if err != nil || val != "test" {
		t.Fatalf("Remove = %v, %v", val, err)
	}
	if table.Len() != 0 || table.Contains(id) {
		t.Fatal("entry still present after Remove")
	}

	_, err = table.Remove(id)
	if !stderrors.Is(err, &errors.Error{Kind: errors.KindNotFound}) {
		t.Fatalf("second Remove: %v", err)
	}
}

func TestTable_IDsNotReused(t *testing.T) {
	table := NewTable()
	a := mustInsert(t, table, "file", "a")
	if _, err := table.Remove(a); err != nil {
		t.Fatal(err)
	}
	b := mustInsert(t, table, "file", "b")
	if b == a {
		t.Fatalf("id %d reused", a)
	}
}

func TestTable_WrapSkipsLiveIDs(t *testing.T) {
	table := NewTable()
	one := mustInsert(t, table, "file", "one")

	table.store.next = ^ID(0)
	last := mustInsert(t, table, "file", "last")
	if last != ^ID(0) {
		t.Fatalf("id = %d, want max", last)
	}
	// 0 is skipped and 1 is taken
	next := mustInsert(t, table, "file", "next")
	if next != 2 {
		t.Fatalf("id after wrap = %d, want 2", next)
	}
	if v, _ := table.Get(one); v != "one" {
		t.Fatal("wrapped insert overwrote a live entry")
	}
}

func TestTable_Resolve(t *testing.T) {
	table := NewTable()
	id := mustInsert(t, table, "file", "f")
	file := schema.Handle{Name: "file"}

	v, err := table.Resolve(file, id)
	if err != nil || v != "f" {
		t.Fatalf("Resolve = %v, %v", v, err)
	}
	if _, err := table.Resolve(schema.Handle{Name: "socket"}, id); !stderrors.Is(err, &errors.Error{Kind: errors.KindTypeMismatch}) {
		t.Fatalf("Resolve with wrong kind: %v", err)
	}
	if _, err := table.Resolve(file, 99); !stderrors.Is(err, &errors.Error{Kind: errors.KindNotFound}) {
		t.Fatalf("Resolve unknown id: %v", err)
	}
}

func TestTable_Lookup(t *testing.T) {
	table := NewTable()
	id := mustInsert(t, table, "counter", &dropCounter{})

	if _, err := Lookup[*dropCounter](table, id); err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if _, err := Lookup[string](table, id); !stderrors.Is(err, &errors.Error{Kind: errors.KindTypeMismatch}) {
		t.Fatalf("Lookup wrong type: %v", err)
	}
	if _, err := Lookup[string](table, 42); err == nil {
		t.Fatal("Lookup of unknown id should fail")
	}
}

func TestTable_Observer(t *testing.T) {
	table := NewTable()
	obs := &testObserver{}
	table.Subscribe(obs)

	id := mustInsert(t, table, "file", "test")
	if _, err := table.Borrow(id); err != nil {
		t.Fatal(err)
	}
	table.Return(id)
	if _, err := table.Remove(id); err != nil {
		t.Fatal(err)
	}

	want := []EventType{EventCreated, EventBorrowed, EventBorrowReturned, EventDropped}
	if len(obs.events) != len(want) {
		t.Fatalf("got %d events, want %d", len(obs.events), len(want))
	}
	for i, e := range obs.events {
		if e.Type != want[i] || e.ID != id || e.Kind != "file" {
			t.Errorf("event %d = %+v, want %s", i, e, want[i])
		}
	}

	table.Unsubscribe(obs)
	mustInsert(t, table, "file", "test2")
	if len(obs.events) != len(want) {
		t.Fatal("should not receive events after Unsubscribe")
	}

	var created int
	table.Subscribe(ObserverFunc(func(e Event) {
		if e.Type == EventCreated {
			created++
		}
	}))
	mustInsert(t, table, "file", "test3")
	if created != 1 {
		t.Fatalf("ObserverFunc saw %d creations", created)
	}
}

func TestTable_Borrow(t *testing.T) {
	table := NewTable()
	id := mustInsert(t, table, "file", "f")

	for range 2 {
		if _, err := table.Borrow(id); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := table.Remove(id); err == nil {
		t.Fatal("Remove of a borrowed entry should fail")
	}
	table.Return(id)
	if _, err := table.Remove(id); err == nil {
		t.Fatal("Remove with one borrow left should fail")
	}
	table.Return(id)
	if table.Return(id) {
		t.Fatal("Return without a borrow should report false")
	}
	if _, err := table.Remove(id); err != nil {
		t.Fatalf("Remove after returns: %v", err)
	}
	if _, err := table.Borrow(id); err == nil {
		t.Fatal("Borrow of removed entry should fail")
	}
}

func TestTable_Clear(t *testing.T) {
	table := NewTable()
	mustInsert(t, table, "file", "a")
	kept := mustInsert(t, table, "file", "b")
	mustInsert(t, table, "file", "c")
	if _, err := table.Borrow(kept); err != nil {
		t.Fatal(err)
	}

	table.Clear()
	if table.Len() != 1 || !table.Contains(kept) {
		t.Fatalf("after Clear: %v", table.IDs())
	}
}

func TestTable_Close(t *testing.T) {
	table := NewTable()
	d := &dropCounter{}
	mustInsert(t, table, "counter", d)
	borrowed := mustInsert(t, table, "counter", &dropCounter{})
	if _, err := table.Borrow(borrowed); err != nil {
		t.Fatal(err)
	}

	if err := table.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if d.count != 1 {
		t.Fatalf("Drop called %d times on Close", d.count)
	}
	if table.Len() != 0 {
		t.Fatal("Close left entries")
	}
	if _, err := table.Insert("file", "c"); err == nil {
		t.Fatal("Insert should fail after Close")
	}
	if err := table.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

type dropCounter struct {
	count int
}

func (d *dropCounter) Drop() {
	d.count++
}

func TestTable_DropperInterface(t *testing.T) {
	table := NewTable()
	d := &dropCounter{}

	id := mustInsert(t, table, "counter", d)
	if _, err := table.Remove(id); err != nil {
		t.Fatal(err)
	}
	if d.count != 1 {
		t.Fatalf("Expected Drop() to be called once, called %d times", d.count)
	}
}

func TestTable_Concurrent(t *testing.T) {
	table := NewTable()
	var wg sync.WaitGroup
	ids := make(chan ID, 400)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 50 {
				id, err := table.Insert("file", i)
				if err != nil {
					t.Error(err)
					return
				}
				ids <- id
				table.Get(id)
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[ID]bool{}
	for id := range ids {
		if seen[id] {
			t.Fatalf("id %d issued twice", id)
		}
		seen[id] = true
	}
	if table.Len() != 400 {
		t.Fatalf("Len = %d, want 400", table.Len())
	}
}

func TestTyped(t *testing.T) {
	table := NewTable()
	files := As[string](table, "file")
	sockets := As[int](table, "socket")

	a, err := files.Insert("a")
	if err != nil {
		t.Fatal(err)
	}
	s, err := sockets.Insert(7)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := files.Insert("b")

	if v, ok := files.Get(a); !ok || v != "a" {
		t.Fatalf("Get = %q, %v", v, ok)
	}
	if _, ok := files.Get(s); ok {
		t.Fatal("file view returned a socket")
	}
	if _, ok := files.Remove(s); ok {
		t.Fatal("file view removed a socket")
	}

	var order []ID
	files.Each(func(id ID, _ string) bool {
		order = append(order, id)
		return true
	})
	if len(order) != 2 || order[0] != a || order[1] != b {
		t.Fatalf("Each order = %v", order)
	}
	if files.Len() != 2 || sockets.Len() != 1 {
		t.Fatalf("Len files=%d sockets=%d", files.Len(), sockets.Len())
	}

	if v, ok := files.Remove(a); !ok || v != "a" {
		t.Fatalf("Remove = %q, %v", v, ok)
	}
	if table.Len() != 2 {
		t.Fatalf("table Len = %d", table.Len())
	}
}
