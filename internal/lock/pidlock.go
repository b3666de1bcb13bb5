// Package lock keeps two ringclock processes from sharing one preference
// database.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/uuid"
)

// ErrHeld is returned when another process owns the lock.
var ErrHeld = errors.New("another ringclock instance is running")

// Owner is what the lock file records about its holder.
type Owner struct {
	PID      int
	Instance string
}

// PIDLock is a single-instance lock implemented via a PID file + flock(2).
// Keep the lock alive by keeping the file descriptor open.
type PIDLock struct {
	path     string
	instance string
	f        *os.File
}

// Acquire takes an exclusive non-blocking lock at lockPath and records the
// current PID and a fresh instance id in it.
func Acquire(lockPath string) (*PIDLock, error) {
	if lockPath == "" {
		return nil, fmt.Errorf("lock path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = f.Close()
		if errors.Is(err, syscall.EWOULDBLOCK) {
			if owner, rerr := ReadOwner(lockPath); rerr == nil && owner.PID > 0 {
				return nil, fmt.Errorf("%w (pid %d, lock %s)", ErrHeld, owner.PID, lockPath)
			}
			return nil, fmt.Errorf("%w (lock %s)", ErrHeld, lockPath)
		}
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	l := &PIDLock{path: lockPath, instance: uuid.NewString(), f: f}
	if err := l.writeOwner(); err != nil {
		_ = l.Release()
		return nil, err
	}
	return l, nil
}

func (l *PIDLock) writeOwner() error {
	if err := l.f.Truncate(0); err != nil {
		return fmt.Errorf("truncate lock file: %w", err)
	}
	if _, err := l.f.Seek(0, 0); err != nil {
		return fmt.Errorf("seek lock file: %w", err)
	}
	if _, err := fmt.Fprintf(l.f, "%d\n%s\n", os.Getpid(), l.instance); err != nil {
		return fmt.Errorf("write pid: %w", err)
	}
	if err := l.f.Sync(); err != nil {
		return fmt.Errorf("sync lock file: %w", err)
	}
	return nil
}

func (l *PIDLock) Path() string { return l.path }

// Instance is the id written for this run.
func (l *PIDLock) Instance() string { return l.instance }

func (l *PIDLock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	_ = syscall.Flock(int(l.f.Fd()), syscall.LOCK_UN)
	err := l.f.Close()
	l.f = nil
	return err
}

// ReadOwner parses the lock file without locking it. The file may be stale.
func ReadOwner(lockPath string) (Owner, error) {
	b, err := os.ReadFile(lockPath)
	if err != nil {
		return Owner{}, err
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	var o Owner
	if len(lines) > 0 && lines[0] != "" {
		pid, err := strconv.Atoi(strings.TrimSpace(lines[0]))
		if err != nil {
			return Owner{}, fmt.Errorf("parse pid in %s: %w", lockPath, err)
		}
		o.PID = pid
	}
	if len(lines) > 1 {
		o.Instance = strings.TrimSpace(lines[1])
	}
	return o, nil
}
