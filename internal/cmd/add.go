package cmd

import (
	"fmt"

	"github.com/lohedges/taskfarmer/internal/config"
	"github.com/lohedges/taskfarmer/internal/errors"
	"github.com/lohedges/taskfarmer/internal/queue"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [task]...",
	Short: "Append tasks to the job file",
	Long: `Append one or more tasks to the end of the job file, taking the same
exclusive lock the workers use. This is safer than editing the file by
hand while workers are claiming from it. Each argument becomes one
line, so quote tasks containing spaces:

  taskfarmer add -f jobs.txt './sim --seed 1 > 1.log' './sim --seed 2 > 2.log'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Queue.File == "" {
		return errors.NewConfigError("file", errors.ErrMissingQueuePath)
	}

	q := queue.New(cfg.Queue.File)
	if err := q.Append(args...); err != nil {
		return err
	}

	plural := "s"
	if len(args) == 1 {
		plural = ""
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %d task%s to %s\n", len(args), plural, cfg.Queue.File)
	return nil
}
