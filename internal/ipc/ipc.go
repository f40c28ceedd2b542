// Package ipc exposes the device identifier to other processes on the
// same host over a local transport: a named pipe on Windows, a unix
// domain socket elsewhere. One JSON request and one JSON response per
// connection.
package ipc

import (
	"encoding/json"
	"net"
	"sync"

	"golang.org/x/time/rate"

	"devdeviceid/internal/deviceid"
)

const (
	ActionGet           = "get"
	ActionGetOrGenerate = "get_or_generate"
)

type Request struct {
	Action string `json:"action"`
}

type Response struct {
	Status   string `json:"status"` // "ok", "absent", or "error"
	DeviceID string `json:"device_id,omitempty"`
	Message  string `json:"message,omitempty"`
}

type Handler func(Request) Response

type Server interface {
	Close() error
}

// NewHandler serves get and get_or_generate requests from s.
func NewHandler(s deviceid.Storage) Handler {
	return func(req Request) Response {
		switch req.Action {
		case ActionGet:
			id, ok, err := deviceid.Get(s)
			if err != nil {
				return Response{Status: "error", Message: err.Error()}
			}
			if !ok {
				return Response{Status: "absent"}
			}
			return Response{Status: "ok", DeviceID: id.String()}
		case ActionGetOrGenerate:
			id, err := deviceid.GetOrGenerate(s)
			if err != nil {
				return Response{Status: "error", Message: err.Error()}
			}
			return Response{Status: "ok", DeviceID: id.String()}
		default:
			return Response{Status: "error", Message: "unknown action: " + req.Action}
		}
	}
}

type server struct {
	listener net.Listener
	limiter  *rate.Limiter
	closeCh  chan struct{}
	once     sync.Once
}

func newServer(listener net.Listener, handler Handler) *server {
	s := &server{
		listener: listener,
		// A device id query is cheap; the limiter only guards against a
		// runaway client hammering the socket.
		limiter: rate.NewLimiter(rate.Limit(50), 100),
		closeCh: make(chan struct{}),
	}
	go s.acceptLoop(handler)
	return s
}

func (s *server) acceptLoop(handler Handler) {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.closeCh:
				return
			default:
			}
			continue
		}
		if !s.limiter.Allow() {
			conn.Close()
			continue
		}
		go handleConnection(conn, handler)
	}
}

func (s *server) Close() error {
	var err error
	s.once.Do(func() {
		close(s.closeCh)
		err = s.listener.Close()
	})
	return err
}

func handleConnection(conn net.Conn, handler Handler) {
	defer conn.Close()

	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)

	var req Request
	if err := dec.Decode(&req); err != nil {
		_ = enc.Encode(Response{Status: "error", Message: "invalid request"})
		return
	}

	resp := handler(req)
	if resp.Status == "" {
		resp.Status = "ok"
	}
	_ = enc.Encode(resp)
}

func roundTrip(conn net.Conn, req Request) (*Response, error) {
	enc := json.NewEncoder(conn)
	dec := json.NewDecoder(conn)

	if err := enc.Encode(req); err != nil {
		return nil, err
	}
	var resp Response
	if err := dec.Decode(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
