// Package timerlock keeps a single foreground Pomodoro timer per state
// directory. The lock is a PID file; a file left by a dead process is
// taken over.
package timerlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// FileName is the lock file created inside the state directory.
const FileName = "focus-timer.pid"

// ErrHeld is returned by Acquire when another live process owns the lock.
var ErrHeld = errors.New("timer already running")

// Lock is a PID file guarding the timer.
type Lock struct {
	Path string
	pid  int
}

// New returns a Lock for dir/focus-timer.pid.
func New(dir string) *Lock {
	return &Lock{Path: filepath.Join(dir, FileName), pid: os.Getpid()}
}

// Acquire claims the lock for the current process. A lock file whose
// owner is gone or unreadable is replaced.
func (l *Lock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.Path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(l.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			_, werr := f.WriteString(strconv.Itoa(l.pid) + "\n")
			cerr := f.Close()
			if werr != nil {
				return fmt.Errorf("write lock file: %w", werr)
			}
			return cerr
		}
		if !os.IsExist(err) {
			return fmt.Errorf("create lock file: %w", err)
		}

		owner, rerr := l.Owner()
		if rerr == nil && owner != l.pid && alive(owner) {
			return fmt.Errorf("%w (pid %d)", ErrHeld, owner)
		}
		if rerr == nil && owner == l.pid {
			return nil
		}
		if err := os.Remove(l.Path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove stale lock: %w", err)
		}
	}
	return fmt.Errorf("%w: lock file contended", ErrHeld)
}

// Owner reads the PID recorded in the lock file.
func (l *Lock) Owner() (int, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid lock file content: %w", err)
	}
	return pid, nil
}

// Held reports whether a live process other than this one holds the lock.
func (l *Lock) Held() (int, bool) {
	pid, err := l.Owner()
	if err != nil || pid == l.pid {
		return pid, false
	}
	return pid, alive(pid)
}

// Release removes the lock file if this process owns it.
func (l *Lock) Release() error {
	pid, err := l.Owner()
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if pid != l.pid {
		return nil
	}
	return os.Remove(l.Path)
}
