package queue

import (
	"fmt"
	"os"
	"syscall"
)

// FileLock provides cross-process mutual exclusion over an open file using
// flock(2). The lock is taken on the job file itself, not a sidecar lock
// file, so the OS releases it automatically when a worker dies with the
// descriptor open.
type FileLock struct {
	file   *os.File
	locked bool
}

// NewFileLock wraps an already-open file. The caller keeps ownership of
// the file handle; closing it also releases any held lock.
func NewFileLock(f *os.File) *FileLock {
	return &FileLock{file: f}
}

// Lock acquires an exclusive lock, blocking until available.
func (fl *FileLock) Lock() error {
	if err := syscall.Flock(int(fl.file.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("flock: %w", err)
	}
	fl.locked = true
	return nil
}

// RLock acquires a shared lock, blocking until available. Used by
// read-only observers so they serialize against dequeuers but not against
// each other.
func (fl *FileLock) RLock() error {
	if err := syscall.Flock(int(fl.file.Fd()), syscall.LOCK_SH); err != nil {
		return fmt.Errorf("flock: %w", err)
	}
	fl.locked = true
	return nil
}

// TryLock attempts to acquire the exclusive lock without blocking.
// Returns true if the lock was acquired, false if another process holds it.
func (fl *FileLock) TryLock() (bool, error) {
	err := syscall.Flock(int(fl.file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
	if err != nil {
		if err == syscall.EWOULDBLOCK {
			return false, nil
		}
		return false, fmt.Errorf("flock: %w", err)
	}
	fl.locked = true
	return true, nil
}

// Unlock releases the lock. Safe to call when the lock is not held.
func (fl *FileLock) Unlock() error {
	if !fl.locked {
		return nil
	}
	if err := syscall.Flock(int(fl.file.Fd()), syscall.LOCK_UN); err != nil {
		return fmt.Errorf("funlock: %w", err)
	}
	fl.locked = false
	return nil
}
