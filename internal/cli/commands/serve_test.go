package commands

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewServeCommand(t *testing.T) {
	cmd := NewServeCommand(&GlobalOptions{})

	if cmd.Use != "serve" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}
	for _, flag := range []string{"listen", "work-dir"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Missing flag: %s", flag)
		}
	}
}

func TestRunServe_GracefulShutdown(t *testing.T) {
	workDir := filepath.Join(t.TempDir(), "work")

	cmd := NewServeCommand(&GlobalOptions{})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--listen", "127.0.0.1:0", "--work-dir", workDir})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- cmd.ExecuteContext(ctx)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop after cancellation")
	}

	// A configured work dir is kept.
	if _, err := os.Stat(workDir); err != nil {
		t.Errorf("Work dir removed: %v", err)
	}
}

func TestRunServe_ListenError(t *testing.T) {
	cmd := NewServeCommand(&GlobalOptions{})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--listen", "not-an-address"})

	done := make(chan error, 1)
	go func() {
		done <- cmd.ExecuteContext(context.Background())
	}()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("Expected error for invalid listen address")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not fail on an invalid address")
	}
}

func TestRunServe_BadConfig(t *testing.T) {
	cmd := NewServeCommand(&GlobalOptions{ConfigPath: "/nonexistent/srtfix.yaml"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{})

	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Error("Expected error for missing config")
	}
}
