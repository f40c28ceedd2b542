package deviceid

import "errors"

// Storage persists a single device identifier at a well-known per-user
// location. Implementations are selected per OS at build time; tests
// inject a MemoryStore.
type Storage interface {
	// Retrieve returns the persisted identifier. The second return is
	// false when no record exists yet. It fails with *StorageError on
	// access faults and *FormatError when the record is corrupted.
	Retrieve() (DeviceID, bool, error)

	// Store persists id. It fails with ErrAlreadySet when a record
	// already exists (Store never overwrites) and with *StorageError on
	// access faults.
	Store(id DeviceID) error
}

// Get returns the persisted identifier from s, or ok=false when none
// exists yet.
func Get(s Storage) (DeviceID, bool, error) {
	return s.Retrieve()
}

// GetOrGenerate returns the persisted identifier, creating one first if
// none exists. When the store loses a race against a concurrent writer
// (ErrAlreadySet), the winner's persisted value is returned instead of
// an error; the function converges on whatever is persisted rather than
// insisting its own write won.
func GetOrGenerate(s Storage) (DeviceID, error) {
	id, ok, err := s.Retrieve()
	if err != nil {
		return DeviceID{}, err
	}
	if ok {
		return id, nil
	}

	generated := Generate()
	if err := s.Store(generated); err != nil && !errors.Is(err, ErrAlreadySet) {
		return DeviceID{}, err
	}

	// Re-read so a concurrent writer's value wins over ours. Fall back
	// to the generated id only if the record is somehow still absent.
	id, ok, err = s.Retrieve()
	if err != nil {
		return DeviceID{}, err
	}
	if !ok {
		return generated, nil
	}
	return id, nil
}
