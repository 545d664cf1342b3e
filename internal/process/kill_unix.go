//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// Configure starts cmd in its own process group so KillProcessGroup reaches
// every child it spawns (pandoc runs xelatex, for instance).
func Configure(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// KillProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) {
	// Best-effort; callers fall back to killing the leader.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
