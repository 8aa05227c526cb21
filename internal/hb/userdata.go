package hb

import "sync"

// UserDataKey is an identity key for attaching client data to faces and
// fonts. Keys compare by pointer, so two packages can never collide even if
// they pick the same name.
type UserDataKey struct {
	// Name is purely diagnostic.
	Name string
}

type userDataSlot struct {
	value   any
	destroy func(any)
}

// userDataStore maps keys to values plus an optional destructor. The store
// guarantees each destructor runs exactly once, no matter whether the slot
// is replaced, removed, or torn down with its owner.
type userDataStore struct {
	mu    sync.Mutex
	slots map[*UserDataKey]userDataSlot
}

func (s *userDataStore) set(key *UserDataKey, value any, destroy func(any)) {
	s.mu.Lock()
	if s.slots == nil {
		s.slots = make(map[*UserDataKey]userDataSlot)
	}
	old, had := s.slots[key]
	s.slots[key] = userDataSlot{value: value, destroy: destroy}
	s.mu.Unlock()
	if had && old.destroy != nil {
		old.destroy(old.value)
	}
}

func (s *userDataStore) get(key *UserDataKey) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slots[key].value
}

func (s *userDataStore) remove(key *UserDataKey) {
	s.mu.Lock()
	old, had := s.slots[key]
	delete(s.slots, key)
	s.mu.Unlock()
	if had && old.destroy != nil {
		old.destroy(old.value)
	}
}

// destroyAll runs every remaining destructor and empties the store.
// Called from the owner's destroy path, after the refcount hit zero.
func (s *userDataStore) destroyAll() {
	s.mu.Lock()
	slots := s.slots
	s.slots = nil
	s.mu.Unlock()
	for _, slot := range slots {
		if slot.destroy != nil {
			slot.destroy(slot.value)
		}
	}
}
