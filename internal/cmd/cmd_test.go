package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// executeCommand runs a cobra command with args and returns captured output.
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err = root.Execute()
	return buf.String(), err
}

func tempJobFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobs.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write job file: %v", err)
	}
	return path
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "taskfarmer" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "taskfarmer")
	}

	expected := []string{"run", "add", "status", "watch"}
	cmdMap := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		cmdMap[cmd.Name()] = true
	}
	for _, name := range expected {
		if !cmdMap[name] {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestAddCommand(t *testing.T) {
	path := tempJobFile(t, "existing\n")

	out, err := executeCommand(rootCmd, "add", "-f", path, "echo one", "echo two")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "Added 2 tasks") {
		t.Errorf("output = %q, want added-2 confirmation", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read job file: %v", err)
	}
	if string(data) != "existing\necho one\necho two\n" {
		t.Errorf("job file = %q", data)
	}
}

func TestAddCommand_RequiresTask(t *testing.T) {
	path := tempJobFile(t, "")

	if _, err := executeCommand(rootCmd, "add", "-f", path); err == nil {
		t.Fatal("add with no tasks should fail")
	}
}

func TestStatusCommand_JSON(t *testing.T) {
	path := tempJobFile(t, "echo a\necho b\n")

	out, err := executeCommand(rootCmd, "status", "-f", path, "--json")
	if err != nil {
		t.Fatalf("status: %v", err)
	}

	var st queueStatus
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatalf("unmarshal %q: %v", out, err)
	}
	if st.Pending != 2 {
		t.Errorf("pending = %d, want 2", st.Pending)
	}
	if len(st.Tasks) != 2 || st.Tasks[0] != "echo a" {
		t.Errorf("tasks = %v", st.Tasks)
	}
}

func TestStatusCommand_Text(t *testing.T) {
	path := tempJobFile(t, "echo a\n")

	// The --json flag binds a package-level variable that persists across
	// Execute calls; clear any value left by a previous test.
	statusJSON = false

	out, err := executeCommand(rootCmd, "status", "-f", path)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "Pending tasks: 1") {
		t.Errorf("output = %q, want pending count", out)
	}
	if !strings.Contains(out, "[1] echo a") {
		t.Errorf("output = %q, want task listing", out)
	}

	// Reset for other tests sharing the global flag.
	statusJSON = false
}

func TestRunCommand_RequiresFile(t *testing.T) {
	// The persistent -f flag may hold a value from a previous test run;
	// clear it explicitly.
	if _, err := executeCommand(rootCmd, "run", "-f", ""); err == nil {
		t.Fatal("run without a job file should fail")
	}
}

func TestRunCommand_DrainsQueue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobs.txt")
	marker := filepath.Join(dir, "done")
	content := "touch " + marker + "\nexit 1\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write job file: %v", err)
	}

	// The failing job is dropped (retry off) and the worker exits
	// cleanly once the file is empty.
	if _, err := executeCommand(rootCmd, "run", "-f", path); err != nil {
		t.Fatalf("run: %v", err)
	}

	if _, err := os.Stat(marker); err != nil {
		t.Errorf("first job did not run: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read job file: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("job file not drained: %q", data)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is far too long", 10, "this is..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
