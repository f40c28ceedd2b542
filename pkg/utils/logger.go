package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// rotatingFile is an append-only log sink that rotates once the current
// file exceeds maxSize bytes. Rotated copies are kept as path.1..path.N,
// oldest last.
type rotatingFile struct {
	mu         sync.Mutex
	f          *os.File
	path       string
	size       int64
	maxSize    int64
	maxBackups int
}

// NewLogger returns a logger writing to a size-rotating file at path.
func NewLogger(path string, maxSizeMB, maxBackups int) (*log.Logger, io.Closer, error) {
	if maxSizeMB <= 0 || maxBackups <= 0 {
		return nil, nil, fmt.Errorf("invalid rotation settings: size=%d backups=%d", maxSizeMB, maxBackups)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	w := &rotatingFile{
		f:          f,
		path:       path,
		size:       fi.Size(),
		maxSize:    int64(maxSizeMB) * 1024 * 1024,
		maxBackups: maxBackups,
	}
	return log.New(w, "deviceid ", log.LstdFlags|log.LUTC), w, nil
}

func (w *rotatingFile) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.size+int64(len(p)) > w.maxSize {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := w.f.Write(p)
	w.size += int64(n)
	return n, err
}

func (w *rotatingFile) rotate() error {
	if err := w.f.Close(); err != nil {
		return err
	}

	for i := w.maxBackups; i >= 1; i-- {
		src := fmt.Sprintf("%s.%d", w.path, i)
		if i == w.maxBackups {
			_ = os.Remove(src)
			continue
		}
		_ = os.Rename(src, fmt.Sprintf("%s.%d", w.path, i+1))
	}
	if err := os.Rename(w.path, w.path+".1"); err != nil {
		return err
	}

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	w.f = f
	w.size = 0
	return nil
}

func (w *rotatingFile) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.Close()
}
