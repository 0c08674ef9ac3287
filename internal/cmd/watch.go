package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/lohedges/taskfarmer/internal/config"
	"github.com/lohedges/taskfarmer/internal/errors"
	"github.com/lohedges/taskfarmer/internal/queue"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the job file and report queue depth as it changes",
	Long: `Watch the job file for modifications and print the pending-task count
whenever it changes, until interrupted. Purely observational: the
watcher takes only the shared read lock and never claims tasks.
Workers do not use filesystem notifications; an idle worker always
sleeps its full configured duration.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Queue.File == "" {
		return errors.NewConfigError("file", errors.ErrMissingQueuePath)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the parent directory rather than the file itself so the
	// watch survives editors or tooling that replace the file.
	path, err := filepath.Abs(cfg.Queue.File)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	q := queue.New(path)
	out := cmd.OutOrStdout()

	report := func() error {
		n, err := q.Len()
		if err != nil {
			if errors.Is(err, errors.ErrQueueNotFound) {
				fmt.Fprintf(out, "%s  job file missing\n", time.Now().Format("15:04:05"))
				return nil
			}
			return err
		}
		fmt.Fprintf(out, "%s  pending: %d\n", time.Now().Format("15:04:05"), n)
		return nil
	}

	if err := report(); err != nil {
		return err
	}

	last := -1 // force a report on the first event
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != path {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Remove) {
				continue
			}
			// Depth may be unchanged when a worker rewrites the file
			// mid-claim; only report real changes.
			n, err := q.Len()
			if err != nil {
				if errors.Is(err, errors.ErrQueueNotFound) {
					continue
				}
				return err
			}
			if n != last {
				last = n
				fmt.Fprintf(out, "%s  pending: %d\n", time.Now().Format("15:04:05"), n)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher: %w", err)
		}
	}
}
