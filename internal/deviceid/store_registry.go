//go:build windows

package deviceid

import (
	"errors"

	"golang.org/x/sys/windows/registry"
)

const (
	registryPath      = `SOFTWARE\Microsoft\DeveloperTools`
	registryValueName = "deviceid"
)

// registryAPI is the slice of registry behavior RegistryStore needs.
// The real implementation goes through golang.org/x/sys; tests swap in
// an in-memory fake.
type registryAPI interface {
	// getValue reads a string value under HKCU. ok is false when the
	// key or the value does not exist.
	getValue(path, name string) (value string, ok bool, err error)
	// setValue writes a string value under HKCU, creating the key when
	// needed.
	setValue(path, name, value string) error
}

// RegistryStore persists the identifier as a string value under the
// per-user registry hive.
type RegistryStore struct {
	reg registryAPI
}

// DefaultStorage returns the platform store: a RegistryStore on
// Windows.
func DefaultStorage() Storage {
	return RegistryStore{reg: windowsRegistry{}}
}

func (s RegistryStore) Retrieve() (DeviceID, bool, error) {
	raw, ok, err := s.reg.getValue(registryPath, registryValueName)
	if err != nil {
		return DeviceID{}, false, err
	}
	if !ok {
		return DeviceID{}, false, nil
	}

	id, err := Parse(raw)
	if err != nil {
		return DeviceID{}, false, err
	}
	return id, true, nil
}

func (s RegistryStore) Store(id DeviceID) error {
	// Read-check first; the registry has no create-exclusive primitive
	// for values, so the check and the write are two operations.
	if _, ok, err := s.reg.getValue(registryPath, registryValueName); err != nil {
		return err
	} else if ok {
		return ErrAlreadySet
	}
	return s.reg.setValue(registryPath, registryValueName, id.String())
}

// windowsRegistry talks to the real per-user hive. All access targets
// the 64-bit registry view so 32-bit and 64-bit processes see the same
// record.
type windowsRegistry struct{}

func (windowsRegistry) getValue(path, name string) (string, bool, error) {
	k, err := registry.OpenKey(registry.CURRENT_USER, path, registry.QUERY_VALUE|registry.WOW64_64KEY)
	if errors.Is(err, registry.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storageErr("open key "+path, err)
	}
	defer k.Close()

	v, _, err := k.GetStringValue(name)
	if errors.Is(err, registry.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storageErr("read value "+name, err)
	}
	return v, true, nil
}

func (windowsRegistry) setValue(path, name, value string) error {
	k, _, err := registry.CreateKey(registry.CURRENT_USER, path, registry.QUERY_VALUE|registry.SET_VALUE|registry.WOW64_64KEY)
	if err != nil {
		return storageErr("create key "+path, err)
	}
	defer k.Close()

	if err := k.SetStringValue(name, value); err != nil {
		return storageErr("write value "+name, err)
	}
	return nil
}
