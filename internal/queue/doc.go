// Package queue implements the shared job-file queue that taskfarmer
// workers draw from.
//
// The queue is a plain text file on a shared filesystem: one line per task,
// claimed strictly from the front. There is no master process; mutual
// exclusion between workers comes from an exclusive flock(2) on the job
// file itself. Every mutation happens inside a single critical section:
//
//   - acquire an exclusive, blocking lock on the whole file
//   - read the file in full
//   - claim the first line
//   - truncate and write back the remainder
//   - release the lock
//
// Because the rewrite happens before the lock is released, no other worker
// can ever observe both the old content and the claimed task. If the
// rewrite itself fails partway, the file state is unknown and the error is
// wrapped with errors.ErrQueueCorrupted; callers must treat that as fatal
// rather than risk duplicating or dropping tasks.
//
// The core type is [Queue], with one claiming operation:
//
//	q := queue.New("/scratch/jobs.txt")
//	task, ok, err := q.Dequeue()
//	if ok {
//	    // ... execute task ...
//	}
//
// Append, Snapshot and Len take the same lock and exist for the operator
// surfaces (add, status, watch); workers only ever call Dequeue.
package queue
