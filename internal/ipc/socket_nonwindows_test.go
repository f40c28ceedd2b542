//go:build !windows

package ipc

import (
	"path/filepath"
	"testing"

	"devdeviceid/internal/deviceid"
)

func TestSocketServerRoundTrip(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "deviceid.sock")
	store := deviceid.NewMemoryStore()

	srv, err := StartServer(sock, NewHandler(store))
	if err != nil {
		t.Fatalf("StartServer: %v", err)
	}
	defer srv.Close()

	resp, err := SendRequest(sock, Request{Action: ActionGet})
	if err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if resp.Status != "absent" {
		t.Fatalf("status = %q, want absent", resp.Status)
	}

	resp, err = SendRequest(sock, Request{Action: ActionGetOrGenerate})
	if err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if resp.Status != "ok" || resp.DeviceID == "" {
		t.Fatalf("generate response: %+v", resp)
	}

	again, err := SendRequest(sock, Request{Action: ActionGet})
	if err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if again.DeviceID != resp.DeviceID {
		t.Fatalf("id changed across requests: %q != %q", again.DeviceID, resp.DeviceID)
	}
}

func TestSocketServerRejectsSecondListener(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "deviceid.sock")

	srv, err := StartServer(sock, NewHandler(deviceid.NewMemoryStore()))
	if err != nil {
		t.Fatalf("StartServer: %v", err)
	}
	defer srv.Close()

	if _, err := StartServer(sock, NewHandler(deviceid.NewMemoryStore())); err == nil {
		t.Fatal("expected error for second listener on same socket")
	}
}

func TestDefaultSocketPathHonorsRuntimeDir(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	if got := DefaultSocketPath(); got != "/run/user/1000/devdeviceid.sock" {
		t.Fatalf("got %q", got)
	}
}
