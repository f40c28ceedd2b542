//go:build !windows

package ipc

import (
	"errors"
	"net"
	"os"
	"path/filepath"
)

// DefaultSocketPath returns the conventional per-user socket location:
// $XDG_RUNTIME_DIR/devdeviceid.sock, else the system temp directory.
func DefaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "devdeviceid.sock")
	}
	return filepath.Join(os.TempDir(), "devdeviceid.sock")
}

// StartServer listens on the unix socket at addr (DefaultSocketPath
// when empty). A stale socket left by a dead server is removed first.
func StartServer(addr string, handler Handler) (Server, error) {
	if addr == "" {
		addr = DefaultSocketPath()
	}

	if _, err := os.Stat(addr); err == nil {
		if conn, err := net.Dial("unix", addr); err == nil {
			conn.Close()
			return nil, errors.New("another server is already listening on " + addr)
		}
		_ = os.Remove(addr)
	}

	listener, err := net.Listen("unix", addr)
	if err != nil {
		return nil, err
	}
	return newServer(listener, handler), nil
}

// SendRequest performs one request against the socket server.
func SendRequest(addr string, req Request) (*Response, error) {
	if addr == "" {
		addr = DefaultSocketPath()
	}
	conn, err := net.Dial("unix", addr)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	return roundTrip(conn, req)
}
