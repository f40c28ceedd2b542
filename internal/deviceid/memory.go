package deviceid

import "sync"

// MemoryStore is an in-process Storage for tests and callers that do
// not want to touch OS state. It honors the same no-overwrite contract
// as the real stores. Safe for concurrent use.
type MemoryStore struct {
	mu  sync.Mutex
	id  DeviceID
	set bool
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Retrieve() (DeviceID, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return DeviceID{}, false, nil
	}
	return m.id, true, nil
}

func (m *MemoryStore) Store(id DeviceID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.set {
		return ErrAlreadySet
	}
	m.id = id
	m.set = true
	return nil
}
