package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/lohedges/taskfarmer/internal/config"
	"github.com/lohedges/taskfarmer/internal/errors"
	"github.com/lohedges/taskfarmer/internal/logging"
	"github.com/lohedges/taskfarmer/internal/queue"
	"github.com/lohedges/taskfarmer/internal/rank"
	"github.com/lohedges/taskfarmer/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a worker against the shared job file",
	Long: `Run one worker process. The worker claims the first line of the job
file under an exclusive lock, executes it through the shell, and
repeats until the file is empty.

Launch one instance per core of the allocation, e.g.:

  mpirun -np 16 taskfarmer run -f jobs.txt

With --wait-on-idle the worker sleeps instead of exiting when the file
is empty, so jobs appended later (taskfarmer add, or cat >> jobs.txt)
are picked up after the next wake.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolP("verbose", "v", false, "print status updates to stdout")
	runCmd.Flags().BoolP("wait-on-idle", "w", false, "wait for more jobs when idle")
	runCmd.Flags().BoolP("retry", "r", false, "retry failed jobs")
	runCmd.Flags().IntP("sleep-time", "s", 300, "sleep duration when idle (seconds)")
	runCmd.Flags().IntP("max-retries", "m", 10, "maximum number of times to retry failed jobs")
	runCmd.Flags().String("log-file", "", "write a structured debug log to this file")

	_ = viper.BindPFlag("worker.verbose", runCmd.Flags().Lookup("verbose"))
	_ = viper.BindPFlag("worker.wait_on_idle", runCmd.Flags().Lookup("wait-on-idle"))
	_ = viper.BindPFlag("worker.retry", runCmd.Flags().Lookup("retry"))
	_ = viper.BindPFlag("worker.sleep_time", runCmd.Flags().Lookup("sleep-time"))
	_ = viper.BindPFlag("worker.max_retries", runCmd.Flags().Lookup("max-retries"))
	_ = viper.BindPFlag("logging.file", runCmd.Flags().Lookup("log-file"))

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Queue.File == "" {
		return errors.NewConfigError("file", errors.ErrMissingQueuePath)
	}

	log := logging.NopLogger()
	if cfg.Logging.File != "" {
		log, err = logging.NewLogger(cfg.Logging.File, cfg.Logging.Level, logging.RotationConfig{
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
		})
		if err != nil {
			return err
		}
		defer func() { _ = log.Close() }()
	}

	id := rank.Detect()
	log = log.WithQueue(cfg.Queue.File)

	// Stop claiming new tasks on SIGINT/SIGTERM; the task currently
	// executing is interrupted through the context.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := worker.New(
		queue.New(cfg.Queue.File),
		&worker.ShellRunner{},
		id,
		worker.Options{
			Verbose:    cfg.Worker.Verbose,
			WaitOnIdle: cfg.Worker.WaitOnIdle,
			SleepTime:  cfg.Worker.SleepDuration(),
			Retry:      cfg.Worker.Retry,
			MaxRetries: cfg.Worker.MaxRetries,
		},
		log,
	)

	if err := w.Run(ctx); err != nil {
		// External termination is not a worker failure.
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	return nil
}
