package queue

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/lohedges/taskfarmer/internal/errors"
)

// Queue is a handle on a shared job file. It holds no open descriptor
// between operations: every call opens the file, takes the lock, and
// closes the file again, so the lock is never held across task execution.
type Queue struct {
	path string
}

// New creates a Queue for the job file at path. The file is not touched
// until the first operation.
func New(path string) *Queue {
	return &Queue{path: path}
}

// Path returns the job file path.
func (q *Queue) Path() string {
	return q.path
}

// Dequeue atomically claims the first line of the job file.
//
// It returns the claimed task text and ok=true, or ok=false when the file
// is empty. A missing or unreadable file, a failed lock, or a failed
// rewrite all return an error; rewrite failures wrap
// errors.ErrQueueCorrupted because the file may hold partial state and
// the caller must not continue.
//
// Any line is a valid task, including an empty one produced by
// consecutive newlines. No trimming or validation is performed.
func (q *Queue) Dequeue() (task string, ok bool, err error) {
	f, err := os.OpenFile(q.path, os.O_RDWR, 0)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, errors.NewQueueError("open", errors.ErrQueueNotFound).WithPath(q.path)
		}
		return "", false, errors.NewQueueError("open", err).WithPath(q.path)
	}
	defer f.Close()

	fl := NewFileLock(f)
	if err := fl.Lock(); err != nil {
		return "", false, errors.NewQueueError("acquire lock", errors.Join(errors.ErrQueueLocked, err)).WithPath(q.path)
	}
	defer func() {
		if uerr := fl.Unlock(); uerr != nil && err == nil {
			err = errors.NewQueueError("release lock", uerr).WithPath(q.path)
		}
	}()

	buf, err := readAllLocked(f)
	if err != nil {
		return "", false, errors.NewQueueError("read", err).WithPath(q.path)
	}

	if len(buf) == 0 {
		return "", false, nil
	}

	var rest []byte
	if i := bytes.IndexByte(buf, '\n'); i >= 0 {
		task = string(buf[:i])
		rest = buf[i+1:]
	} else {
		// Final line without a terminating newline: claim it all.
		task = string(buf)
	}

	if err := rewriteLocked(f, rest); err != nil {
		// The file was truncated but the remainder may not have landed.
		return "", false, errors.NewQueueError("write back", errors.Join(errors.ErrQueueCorrupted, err)).WithPath(q.path)
	}

	return task, true, nil
}

// Append adds tasks to the end of the job file under the exclusive lock,
// creating the file if it does not exist. If the existing content does not
// end with a newline, one is inserted first so the new tasks never merge
// into the final pending line.
func (q *Queue) Append(tasks ...string) (err error) {
	if len(tasks) == 0 {
		return nil
	}

	f, err := os.OpenFile(q.path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return errors.NewQueueError("open", err).WithPath(q.path)
	}
	defer f.Close()

	fl := NewFileLock(f)
	if err := fl.Lock(); err != nil {
		return errors.NewQueueError("acquire lock", errors.Join(errors.ErrQueueLocked, err)).WithPath(q.path)
	}
	defer func() {
		if uerr := fl.Unlock(); uerr != nil && err == nil {
			err = errors.NewQueueError("release lock", uerr).WithPath(q.path)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return errors.NewQueueError("stat", err).WithPath(q.path)
	}

	var sb strings.Builder
	if size := info.Size(); size > 0 {
		last := make([]byte, 1)
		if _, err := f.ReadAt(last, size-1); err != nil {
			return errors.NewQueueError("read", err).WithPath(q.path)
		}
		if last[0] != '\n' {
			sb.WriteByte('\n')
		}
	}
	for _, t := range tasks {
		sb.WriteString(t)
		sb.WriteByte('\n')
	}

	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		return errors.NewQueueError("seek", err).WithPath(q.path)
	}
	if _, err := f.WriteString(sb.String()); err != nil {
		return errors.NewQueueError("append", errors.Join(errors.ErrQueueCorrupted, err)).WithPath(q.path)
	}

	return nil
}

// Snapshot returns a copy of all pending task lines under a shared lock.
// It never mutates the file. A trailing newline does not produce a final
// empty task, but empty lines inside the file are preserved since the
// dequeue protocol treats them as valid (no-op) tasks.
func (q *Queue) Snapshot() (lines []string, err error) {
	f, err := os.Open(q.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewQueueError("open", errors.ErrQueueNotFound).WithPath(q.path)
		}
		return nil, errors.NewQueueError("open", err).WithPath(q.path)
	}
	defer f.Close()

	fl := NewFileLock(f)
	if err := fl.RLock(); err != nil {
		return nil, errors.NewQueueError("acquire lock", errors.Join(errors.ErrQueueLocked, err)).WithPath(q.path)
	}
	defer func() {
		if uerr := fl.Unlock(); uerr != nil && err == nil {
			err = errors.NewQueueError("release lock", uerr).WithPath(q.path)
		}
	}()

	buf, err := readAllLocked(f)
	if err != nil {
		return nil, errors.NewQueueError("read", err).WithPath(q.path)
	}

	return splitLines(buf), nil
}

// Len returns the number of pending tasks.
func (q *Queue) Len() (int, error) {
	lines, err := q.Snapshot()
	if err != nil {
		return 0, err
	}
	return len(lines), nil
}

// readAllLocked reads the entire file contents. The file's current length
// is taken first; since the lock is held, the two observations are
// consistent.
func readAllLocked(f *os.File) ([]byte, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		return nil, nil
	}

	buf := make([]byte, info.Size())
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// rewriteLocked replaces the file contents with rest. Must be called with
// the exclusive lock held: the truncate and write must never be visible
// to another locker as separate steps.
func rewriteLocked(f *os.File, rest []byte) error {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if err := f.Truncate(0); err != nil {
		return err
	}
	if len(rest) == 0 {
		return nil
	}
	if _, err := f.Write(rest); err != nil {
		return err
	}
	return nil
}

// splitLines turns file content into task lines. A terminating newline on
// the final line does not create an empty trailing task.
func splitLines(buf []byte) []string {
	if len(buf) == 0 {
		return nil
	}
	s := string(buf)
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
