package deviceid

import (
	"errors"
	"fmt"
)

// ErrAlreadySet is returned by Storage.Store when a record already
// exists at the target location. GetOrGenerate swallows it and recovers
// the persisted value; direct callers of Store see it as-is.
var ErrAlreadySet = errors.New("device id already set")

// StorageError reports an I/O, registry, or location-resolution fault
// from the underlying store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("device id storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// FormatError reports that persisted text could not be parsed as a
// UUID. It signals external corruption of the record; the record is not
// regenerated automatically.
type FormatError struct {
	Raw string
	Err error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("device id is not a valid UUID: %v", e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
