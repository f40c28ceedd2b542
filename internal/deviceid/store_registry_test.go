//go:build windows

package deviceid

import (
	"errors"
	"sync"
	"testing"
)

// fakeRegistry is an in-memory registryAPI guarded by a mutex, so
// registry store tests never touch the real hive and can run in
// parallel.
type fakeRegistry struct {
	mu   sync.Mutex
	keys map[string]map[string]string
	err  error
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{keys: map[string]map[string]string{}}
}

func (f *fakeRegistry) getValue(path, name string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", false, f.err
	}
	v, ok := f.keys[path][name]
	return v, ok, nil
}

func (f *fakeRegistry) setValue(path, name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.keys[path] == nil {
		f.keys[path] = map[string]string{}
	}
	f.keys[path][name] = value
	return nil
}

func TestRegistryStoreAbsent(t *testing.T) {
	t.Parallel()
	s := RegistryStore{reg: newFakeRegistry()}

	if _, ok, err := s.Retrieve(); err != nil {
		t.Fatalf("Retrieve: %v", err)
	} else if ok {
		t.Fatal("empty registry should be absent")
	}
}

func TestRegistryStoreRoundTrip(t *testing.T) {
	t.Parallel()
	s := RegistryStore{reg: newFakeRegistry()}
	id := Generate()

	if err := s.Store(id); err != nil {
		t.Fatalf("Store: %v", err)
	}
	got, ok, err := s.Retrieve()
	if err != nil || !ok {
		t.Fatalf("Retrieve: ok=%v err=%v", ok, err)
	}
	if got != id {
		t.Fatalf("got %s, want %s", got, id)
	}
}

func TestRegistryStoreNoOverwrite(t *testing.T) {
	t.Parallel()
	reg := newFakeRegistry()
	s := RegistryStore{reg: reg}
	first := Generate()

	if err := s.Store(first); err != nil {
		t.Fatalf("first Store: %v", err)
	}
	if err := s.Store(Generate()); !errors.Is(err, ErrAlreadySet) {
		t.Fatalf("second Store: want ErrAlreadySet, got %v", err)
	}
	if got := reg.keys[registryPath][registryValueName]; got != first.String() {
		t.Fatalf("persisted %q, want first write %q", got, first.String())
	}
}

func TestRegistryStoreCorruptValue(t *testing.T) {
	t.Parallel()
	reg := newFakeRegistry()
	if err := reg.setValue(registryPath, registryValueName, "not-a-uuid"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	s := RegistryStore{reg: reg}

	_, _, err := s.Retrieve()
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("want *FormatError, got %v", err)
	}
}

func TestRegistryStorePropagatesFaults(t *testing.T) {
	t.Parallel()
	reg := newFakeRegistry()
	reg.err = storageErr("open key", errors.New("access denied"))
	s := RegistryStore{reg: reg}

	if _, _, err := s.Retrieve(); !errors.Is(err, reg.err) {
		t.Fatalf("Retrieve: want fault propagated, got %v", err)
	}
	if err := s.Store(Generate()); !errors.Is(err, reg.err) {
		t.Fatalf("Store: want fault propagated, got %v", err)
	}
}

func TestRegistryStoreGetOrGenerate(t *testing.T) {
	t.Parallel()
	s := RegistryStore{reg: newFakeRegistry()}

	id, err := GetOrGenerate(s)
	if err != nil {
		t.Fatalf("GetOrGenerate: %v", err)
	}
	again, err := GetOrGenerate(s)
	if err != nil || again != id {
		t.Fatalf("repeated GetOrGenerate = (%s, %v), want (%s, nil)", again, err, id)
	}
}
