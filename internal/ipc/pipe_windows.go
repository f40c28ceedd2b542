//go:build windows

package ipc

import (
	"time"

	"github.com/Microsoft/go-winio"
)

const PipeName = `\\.\pipe\DevDeviceID`

// StartServer listens on the device id pipe. The addr override is
// ignored on Windows; the pipe name is fixed so clients can find it.
func StartServer(addr string, handler Handler) (Server, error) {
	_ = addr

	config := &winio.PipeConfig{
		// Readable by everyone; the id is not a secret, it exists to be
		// queried by other applications on this host.
		SecurityDescriptor: "D:P(A;;GA;;;WD)",
		MessageMode:        true,
		InputBufferSize:    4096,
		OutputBufferSize:   4096,
	}

	listener, err := winio.ListenPipe(PipeName, config)
	if err != nil {
		return nil, err
	}
	return newServer(listener, handler), nil
}

// SendRequest performs one request against the pipe server.
func SendRequest(addr string, req Request) (*Response, error) {
	_ = addr

	timeout := 5 * time.Second
	conn, err := winio.DialPipe(PipeName, &timeout)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	return roundTrip(conn, req)
}
