package process

// Notes:
// - KillProcessGroup: only an invalid PID is exercised. PID 0 would target the
//   current process group and real PIDs would hit live processes.
// - Group termination of a running child is covered by the pandoc runner tests
//   through context cancellation.
// These are acceptable gaps: we test observable behavior, not syscall internals.

import (
	"os/exec"
	"runtime"
	"testing"
)

// ---------------------------------------------------------------------------
// TestKillProcessGroup - Invalid PID Handling
// ---------------------------------------------------------------------------

func TestKillProcessGroup_InvalidPID(t *testing.T) {
	t.Parallel()

	KillProcessGroup(999999999)
}

// ---------------------------------------------------------------------------
// TestConfigure - Process group setup
// ---------------------------------------------------------------------------

func TestConfigure(t *testing.T) {
	t.Parallel()

	cmd := exec.Command("pandoc", "--version")
	Configure(cmd)

	if runtime.GOOS != "windows" && cmd.SysProcAttr == nil {
		t.Error("Configure() left SysProcAttr nil, want process group attributes")
	}
}
