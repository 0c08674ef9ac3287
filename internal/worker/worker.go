package worker

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lohedges/taskfarmer/internal/logging"
	"github.com/lohedges/taskfarmer/internal/rank"
)

// Dequeuer is the queue capability the worker needs: one atomic claiming
// operation. The worker is fully decoupled from the locking mechanism
// behind it.
type Dequeuer interface {
	Dequeue() (task string, ok bool, err error)
}

// Options holds the immutable per-worker configuration, fixed at startup.
type Options struct {
	// Verbose enables one status line per claimed task, failed attempt,
	// idle wait, and termination.
	Verbose bool
	// WaitOnIdle makes the worker sleep and re-check instead of exiting
	// when the queue is empty.
	WaitOnIdle bool
	// SleepTime is the fixed idle-wait duration. The sleep is never cut
	// short by new tasks arriving; it only bounds how stale an idle
	// worker's view of the queue can get.
	SleepTime time.Duration
	// Retry re-executes a failed task immediately on the same worker.
	Retry bool
	// MaxRetries is the total attempt budget per task when Retry is set.
	// Without Retry every task gets exactly one attempt.
	MaxRetries int
}

// maxAttempts returns the effective attempt budget.
func (o Options) maxAttempts() int {
	if !o.Retry {
		return 1
	}
	return o.MaxRetries
}

// Worker repeatedly claims and executes tasks from a shared queue.
type Worker struct {
	queue  Dequeuer
	runner Runner
	opts   Options
	id     rank.Info
	log    *logging.Logger

	// out receives the verbose status lines; stdout in production.
	out io.Writer
	// sleep parks the worker during idle waits; replaced in tests.
	sleep func(ctx context.Context, d time.Duration)
}

// New creates a Worker. The logger may be nil, in which case structured
// logging is discarded.
func New(q Dequeuer, r Runner, id rank.Info, opts Options, log *logging.Logger) *Worker {
	if log == nil {
		log = logging.NopLogger()
	}
	return &Worker{
		queue:  q,
		runner: r,
		opts:   opts,
		id:     id,
		log:    log.WithRank(id.Rank, id.Size),
		out:    os.Stdout,
		sleep:  sleepCtx,
	}
}

// Run drives the claim/execute loop until the queue is empty (nil return,
// worker should exit 0), the context is cancelled, or a fatal queue error
// occurs. Task failures never surface here; they are consumed by the
// retry policy.
func (w *Worker) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		task, ok, err := w.queue.Dequeue()
		if err != nil {
			w.log.Error("dequeue failed", "error", err)
			return err
		}

		if !ok {
			if !w.opts.WaitOnIdle {
				if w.opts.Verbose {
					fmt.Fprintf(w.out, "Job file is empty: Rank %04d exiting\n", w.id.Rank)
				}
				w.log.Info("queue empty, exiting")
				return nil
			}

			if w.opts.Verbose {
				fmt.Fprintf(w.out, "Rank %04d waiting for more jobs\n", w.id.Rank)
			}
			w.log.Debug("queue empty, idling", "sleep", w.opts.SleepTime.String())
			w.sleep(ctx, w.opts.SleepTime)
			continue
		}

		w.execute(ctx, task)
	}
}

// execute runs one claimed task through the attempt budget. The task is
// abandoned afterwards regardless of outcome; it never returns to the
// queue file.
func (w *Worker) execute(ctx context.Context, task string) {
	if w.opts.Verbose {
		fmt.Fprintf(w.out, "Rank %04d launching: %s\n", w.id.Rank, task)
	}
	w.log.Info("launching task", "command", task)

	max := w.opts.maxAttempts()
	for attempt := 1; attempt <= max; attempt++ {
		err := w.runner.Run(ctx, task)
		if err == nil {
			w.log.Debug("task succeeded", "command", task, "attempt", attempt)
			return
		}

		if w.opts.Verbose {
			if w.opts.Retry {
				fmt.Fprintf(w.out, "Warning: system command failed, %s (%d/%d)\n", task, attempt, max)
			} else {
				fmt.Fprintf(w.out, "Warning: system command failed, %s\n", task)
			}
		}
		w.log.Warn("task attempt failed", "command", task, "attempt", attempt, "max_attempts", max, "error", err)

		// A cancelled context fails every further attempt the same way;
		// stop burning the budget and let Run observe the cancellation.
		if ctx.Err() != nil {
			return
		}
	}

	w.log.Warn("task abandoned after exhausting attempts", "command", task, "attempts", max)
}

// sleepCtx sleeps for the full duration unless the context is cancelled.
// New tasks arriving do not wake the worker early.
func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
