package worker

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestShellRunner_Success(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	r := &ShellRunner{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	if err := r.Run(context.Background(), "true"); err != nil {
		t.Fatalf("Run(true): %v", err)
	}
}

func TestShellRunner_Failure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	r := &ShellRunner{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	if err := r.Run(context.Background(), "exit 1"); err == nil {
		t.Fatal("Run(exit 1) should fail")
	}
}

func TestShellRunner_ShellSequencing(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	// Semicolon-joined commands on one line run as a single task with
	// shell-defined ordering.
	dir := t.TempDir()
	marker := filepath.Join(dir, "done")
	r := &ShellRunner{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}

	cmd := "cd " + dir + "; echo step1 > step.log; touch done"
	if err := r.Run(context.Background(), cmd); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if _, err := os.Stat(marker); err != nil {
		t.Errorf("marker not created: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "step.log"))
	if err != nil {
		t.Fatalf("read step.log: %v", err)
	}
	if string(data) != "step1\n" {
		t.Errorf("step.log = %q, want %q", data, "step1\n")
	}
}

func TestShellRunner_CapturesOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	var stdout, stderr bytes.Buffer
	r := &ShellRunner{Stdout: &stdout, Stderr: &stderr}

	if err := r.Run(context.Background(), "echo out; echo err >&2"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stdout.String() != "out\n" {
		t.Errorf("stdout = %q, want %q", stdout.String(), "out\n")
	}
	if stderr.String() != "err\n" {
		t.Errorf("stderr = %q, want %q", stderr.String(), "err\n")
	}
}

func TestShellRunner_EmptyTaskIsNoOp(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	// A blank line claimed from the queue executes as a successful no-op.
	r := &ShellRunner{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	if err := r.Run(context.Background(), ""); err != nil {
		t.Fatalf("Run(\"\"): %v", err)
	}
}

func TestWorker_EndToEndWithShell(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	dir := t.TempDir()
	content := "echo a > " + filepath.Join(dir, "a.log") + "\n" +
		"exit 1\n" +
		"echo c > " + filepath.Join(dir, "c.log") + "\n"

	q := newTestQueue(t, content)
	r := &ShellRunner{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	w, _ := newTestWorker(q, r, Options{})

	if err := w.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Both echo tasks produced their logs; the failing task was dropped.
	for _, name := range []string{"a.log", "c.log"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not created: %v", name, err)
		}
	}
	data, err := os.ReadFile(q.Path())
	if err != nil {
		t.Fatalf("read job file: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("job file should be empty, got %q", data)
	}
}
