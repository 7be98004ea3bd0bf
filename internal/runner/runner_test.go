package runner

import (
	"context"
	"errors"
	"os/exec"
	"testing"
)

func TestRunCapturesStdout(t *testing.T) {
	if _, err := exec.LookPath("echo"); err != nil {
		t.Skip("echo binary not available on PATH")
	}

	out, err := New().Run(context.Background(), "echo", "^,*,192.0.2.1")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if string(out) != "^,*,192.0.2.1\n" {
		t.Errorf("Run output = %q, want %q", out, "^,*,192.0.2.1\n")
	}
}

func TestRunNonZeroExit(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh binary not available on PATH")
	}

	_, err := New().Run(context.Background(), "sh", "-c", "echo 506 Cannot talk to daemon >&2; exit 3")
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError, got %T: %v", err, err)
	}
	if exitErr.Code != 3 {
		t.Errorf("exit code = %d, want 3", exitErr.Code)
	}
	if exitErr.Stderr != "506 Cannot talk to daemon" {
		t.Errorf("stderr = %q", exitErr.Stderr)
	}
}

func TestRunMissingBinary(t *testing.T) {
	_, err := New().Run(context.Background(), "definitely-not-a-real-query-tool")
	if err == nil {
		t.Fatal("expected error for missing binary")
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		t.Errorf("missing binary should not be an ExitError: %v", err)
	}
}
