package worker

import (
	"context"
	"io"
	"os"
	"os/exec"
)

// Runner executes one task command synchronously. A nil return means the
// command succeeded (exit status zero); any error is a failure subject to
// the worker's retry policy.
type Runner interface {
	Run(ctx context.Context, command string) error
}

// ShellRunner runs task text through a shell interpreter, so a single
// line may chain several commands with the shell's own separators
// (e.g. "cd /data; ./sim > sim.log").
type ShellRunner struct {
	// Shell is the interpreter binary. Defaults to /bin/sh.
	Shell string
	// Stdout and Stderr receive the command's output. They default to the
	// worker's own streams; job files are expected to redirect noisy
	// output themselves.
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes command as "<shell> -c <command>" and waits for it.
func (r *ShellRunner) Run(ctx context.Context, command string) error {
	shell := r.Shell
	if shell == "" {
		shell = "/bin/sh"
	}

	cmd := exec.CommandContext(ctx, shell, "-c", command)
	cmd.Stdout = r.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	return cmd.Run()
}
