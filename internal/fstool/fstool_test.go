package fstool

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// fakeServer writes a shell script that answers one request per line so
// the client can be exercised without a real tool server binary.
func fakeServer(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatalf("failed to write fake server: %v", err)
	}
	return path
}

func TestCallDecodesResult(t *testing.T) {
	server := fakeServer(t, `read line
printf '{"jsonrpc":"2.0","id":1,"result":{"ok":true}}\n'
`)

	client, err := Start(context.Background(), "sh "+server, "")
	if err != nil {
		t.Fatalf("failed to start client: %v", err)
	}
	defer client.Close()

	var result struct {
		OK bool `json:"ok"`
	}
	if err := client.Call("ping", nil, &result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.OK {
		t.Error("expected ok result")
	}
}

func TestCallSurfacesServerError(t *testing.T) {
	server := fakeServer(t, `read line
printf '{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"method not found"}}\n'
`)

	client, err := Start(context.Background(), "sh "+server, "")
	if err != nil {
		t.Fatalf("failed to start client: %v", err)
	}
	defer client.Close()

	err = client.Call("bogus", nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "tool server error -32601: method not found" {
		t.Errorf("unexpected error message: %q", got)
	}
}

func TestCallSkipsNotifications(t *testing.T) {
	server := fakeServer(t, `read line
printf '{"jsonrpc":"2.0","id":0,"result":"notification"}\n'
printf '{"jsonrpc":"2.0","id":1,"result":"real"}\n'
`)

	client, err := Start(context.Background(), "sh "+server, "")
	if err != nil {
		t.Fatalf("failed to start client: %v", err)
	}
	defer client.Close()

	var result string
	if err := client.Call("ping", nil, &result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "real" {
		t.Errorf("expected response matching the request id, got %q", result)
	}
}

func TestCallServerClosedOutput(t *testing.T) {
	server := fakeServer(t, `read line
exit 0
`)

	client, err := Start(context.Background(), "sh "+server, "")
	if err != nil {
		t.Fatalf("failed to start client: %v", err)
	}
	defer client.Close()

	if err := client.Call("ping", nil, nil); err == nil {
		t.Error("expected error when server exits without responding")
	}
}

func TestStartEmptyCommand(t *testing.T) {
	if _, err := Start(context.Background(), "   ", ""); err == nil {
		t.Error("expected error for empty command")
	}
}
