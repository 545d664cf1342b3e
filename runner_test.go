package mdfusion

// Notes:
// - Uses sh, so the process tests are skipped on Windows.

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestExecRunner_Run(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}

	stdout, stderr, err := (&ExecRunner{}).Run(context.Background(), "sh", "-c", "echo out; echo err >&2; exit 3")
	if err == nil {
		t.Fatal("Run() expected exit error")
	}
	if strings.TrimSpace(stdout) != "out" || strings.TrimSpace(stderr) != "err" {
		t.Errorf("stdout = %q, stderr = %q", stdout, stderr)
	}
}

func TestExecRunner_MissingTool(t *testing.T) {
	t.Parallel()

	_, _, err := (&ExecRunner{}).Run(context.Background(), "mdfusion-missing-tool")
	if !errors.Is(err, ErrMissingDependency) {
		t.Fatalf("Run() error = %v, want ErrMissingDependency", err)
	}
	if !strings.Contains(err.Error(), "mdfusion-missing-tool") {
		t.Errorf("error = %q, want tool name", err)
	}
}

func TestExecRunner_Cancel(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, _, err := (&ExecRunner{}).Run(ctx, "sh", "-c", "sleep 30 & sleep 30")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run() error = %v, want DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("Run() took %v after cancellation", elapsed)
	}
}
