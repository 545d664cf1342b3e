package mdfusion

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/alnah/go-mdfusion/internal/process"
)

// waitDelay bounds how long a canceled tool may keep its pipes open.
const waitDelay = 5 * time.Second

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
// Canceling ctx kills the tool and every process it started.
type ExecRunner struct{}

var _ CommandRunner = (*ExecRunner)(nil)

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", "", &MissingDependencyError{Tools: []string{name}}
	}

	cmd := exec.CommandContext(ctx, path, args...) // #nosec G204 -- arguments are built by the renderer
	process.Configure(cmd)
	cmd.Cancel = func() error {
		process.KillProcessGroup(cmd.Process.Pid)
		return cmd.Process.Kill()
	}
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	if err != nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	return stdout.String(), stderr.String(), err
}
