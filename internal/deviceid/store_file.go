//go:build !windows

package deviceid

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

const (
	recordSubdir   = "Microsoft/DeveloperTools"
	recordFilename = "deviceid"
)

// FileStore persists the identifier as a plain-text file under the
// user's cache directory.
type FileStore struct{}

// DefaultStorage returns the platform store: a FileStore on POSIX
// systems.
func DefaultStorage() Storage {
	return FileStore{}
}

// rootDirFor resolves the per-user cache root for the given GOOS.
// Linux-family systems honor XDG_CACHE_HOME and fall back to
// $HOME/.cache; Darwin uses $HOME/Library/Application Support.
func rootDirFor(goos string) (string, error) {
	if goos == "darwin" {
		home := os.Getenv("HOME")
		if home == "" {
			return "", storageErr("resolve path", errors.New("HOME environment variable not set"))
		}
		return filepath.Join(home, "Library", "Application Support"), nil
	}
	if cache := os.Getenv("XDG_CACHE_HOME"); cache != "" {
		return cache, nil
	}
	home := os.Getenv("HOME")
	if home == "" {
		return "", storageErr("resolve path", errors.New("XDG_CACHE_HOME and HOME environment variables not set"))
	}
	return filepath.Join(home, ".cache"), nil
}

func recordDir() (string, error) {
	root, err := rootDirFor(runtime.GOOS)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, filepath.FromSlash(recordSubdir)), nil
}

func recordPath() (string, error) {
	dir, err := recordDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, recordFilename), nil
}

func (FileStore) Retrieve() (DeviceID, bool, error) {
	path, err := recordPath()
	if err != nil {
		return DeviceID{}, false, err
	}

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DeviceID{}, false, nil
	}
	if err != nil {
		return DeviceID{}, false, storageErr("read "+path, err)
	}

	id, err := Parse(string(b))
	if err != nil {
		return DeviceID{}, false, err
	}
	return id, true, nil
}

func (FileStore) Store(id DeviceID) error {
	dir, err := recordDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return storageErr("create "+dir, err)
	}

	path := filepath.Join(dir, recordFilename)
	// O_EXCL makes the exists-check and the create one operation, so two
	// local processes cannot both think they wrote first.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if errors.Is(err, os.ErrExist) {
		return ErrAlreadySet
	}
	if err != nil {
		return storageErr("create "+path, err)
	}

	if _, err := f.WriteString(id.String()); err != nil {
		f.Close()
		return storageErr("write "+path, err)
	}
	if err := f.Close(); err != nil {
		return storageErr("write "+path, err)
	}
	return nil
}
