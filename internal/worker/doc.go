// Package worker implements the taskfarmer worker loop: claim a task from
// the shared queue, execute it, and repeat until the queue is empty.
//
// The loop is a small state machine. A worker is Claiming (one atomic
// dequeue, lock held only for the file rewrite), then Executing (the
// claimed command runs synchronously with no lock held), then back to
// Claiming. An empty queue either terminates the worker or, with
// wait-on-idle, parks it in a fixed-duration sleep before the next claim.
//
// Failed commands are retried immediately by the same worker, up to the
// configured attempt budget, and then dropped: a task is never written
// back to the queue file. If the worker dies mid-retry the task is lost.
// That trade-off keeps the queue file protocol trivial and is acceptable
// for the farm's use case of independent, re-submittable jobs.
//
// Command execution is behind the [Runner] interface so tests can script
// results without spawning processes; [ShellRunner] is the production
// implementation.
package worker
