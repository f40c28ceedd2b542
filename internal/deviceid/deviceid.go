// Package deviceid stores and retrieves a stable per-user device
// identifier. The identifier survives process restarts and reboots; it
// lives in a file under the user's cache directory on POSIX systems and
// in a per-user registry value on Windows.
package deviceid

import (
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// DeviceID is an immutable 128-bit identifier. The zero value is not a
// valid identifier; obtain one via Generate, Parse, or a Storage.
// DeviceID is comparable, equality is over the full 128 bits.
type DeviceID struct {
	id uuid.UUID
}

// Generate returns a fresh version-4 DeviceID from a cryptographic
// random source.
func Generate() DeviceID {
	return DeviceID{id: uuid.New()}
}

// Parse constructs a DeviceID from its textual form. The canonical
// lowercase hyphenated form is always accepted; the braced, urn-prefixed
// and unhyphenated variants are tolerated on input. Surrounding
// whitespace is ignored. Invalid text yields a *FormatError.
func Parse(s string) (DeviceID, error) {
	u, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return DeviceID{}, &FormatError{Raw: s, Err: err}
	}
	return DeviceID{id: u}, nil
}

// String renders the canonical lowercase hyphenated form
// (xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx).
func (d DeviceID) String() string {
	return d.id.String()
}

// MarshalText implements encoding.TextMarshaler.
func (d DeviceID) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *DeviceID) UnmarshalText(b []byte) error {
	id, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = id
	return nil
}

// MarshalYAML encodes the identifier as its canonical string.
func (d DeviceID) MarshalYAML() (any, error) {
	return d.String(), nil
}

// UnmarshalYAML decodes the identifier from a YAML string node.
func (d *DeviceID) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	id, err := Parse(s)
	if err != nil {
		return err
	}
	*d = id
	return nil
}
