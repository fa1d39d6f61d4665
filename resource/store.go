package resource

import (
	"math"
	"sync"
)

type entry struct {
	value   any
	kind    string
	borrows uint32
}

// store maps ids to entries. Ids are issued in increasing order and skip
// live entries after wrapping, so a dropped id is not reused until the
// counter comes around again.
type store struct {
	entries map[ID]*entry
	next    ID
	mu      sync.RWMutex
	closed  bool
}

func newStore() *store {
	return &store{entries: make(map[ID]*entry), next: 1}
}

func (s *store) create(kind string, value any) (ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, errClosed()
	}
	if uint64(len(s.entries)) >= math.MaxUint32 {
		return 0, errFull()
	}
	for {
		id := s.next
		s.next++
		if s.next == 0 {
			s.next = 1
		}
		if _, taken := s.entries[id]; taken {
			continue
		}
		s.entries[id] = &entry{kind: kind, value: value}
		return id, nil
	}
}

func (s *store) get(id ID) (entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return entry{}, false
	}
	return *e, true
}

// drop removes the entry unless it is borrowed.
func (s *store) drop(id ID) (entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return entry{}, errUnknown(id)
	}
	if e.borrows > 0 {
		return entry{}, errBorrowed(id, e.kind, e.borrows)
	}
	delete(s.entries, id)
	return *e, nil
}

func (s *store) borrow(id ID) (entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return entry{}, errUnknown(id)
	}
	e.borrows++
	return *e, nil
}

func (s *store) release(id ID) (entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok || e.borrows == 0 {
		return entry{}, false
	}
	e.borrows--
	return *e, true
}

func (s *store) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *store) ids() []ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ID, 0, len(s.entries))
	for id := range s.entries {
		out = append(out, id)
	}
	return out
}

// close empties the store and returns what it held.
func (s *store) close() map[ID]*entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	out := s.entries
	s.entries = make(map[ID]*entry)
	return out
}
