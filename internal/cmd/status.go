package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lohedges/taskfarmer/internal/config"
	"github.com/lohedges/taskfarmer/internal/errors"
	"github.com/lohedges/taskfarmer/internal/queue"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pending tasks in the job file",
	Long: `Display the number of pending tasks and the tasks themselves, read
under a shared lock so the listing is consistent with concurrent
workers. The listing is a snapshot: by the time it prints, workers may
already have claimed some of the tasks shown.`,
	RunE: runStatus,
}

var statusJSON bool

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output status as JSON")
	rootCmd.AddCommand(statusCmd)
}

// queueStatus is the JSON shape emitted by --json.
type queueStatus struct {
	File    string   `json:"file"`
	Pending int      `json:"pending"`
	Tasks   []string `json:"tasks"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Queue.File == "" {
		return errors.NewConfigError("file", errors.ErrMissingQueuePath)
	}

	q := queue.New(cfg.Queue.File)
	tasks, err := q.Snapshot()
	if err != nil {
		return err
	}

	if statusJSON {
		if tasks == nil {
			tasks = []string{}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(queueStatus{
			File:    cfg.Queue.File,
			Pending: len(tasks),
			Tasks:   tasks,
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Job file: %s\n", cfg.Queue.File)
	fmt.Fprintf(out, "Pending tasks: %d\n", len(tasks))
	if len(tasks) == 0 {
		return nil
	}

	width := taskDisplayWidth()
	fmt.Fprintln(out)
	for i, task := range tasks {
		fmt.Fprintf(out, "[%d] %s\n", i+1, truncate(task, width))
	}
	return nil
}

// taskDisplayWidth returns how many columns a task line may occupy,
// leaving room for the "[n] " prefix. Falls back to a generous width
// when stdout is not a terminal.
func taskDisplayWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 16 {
		return w - 8
	}
	return 120
}

// truncate shortens s to at most width runes, marking the cut.
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}
