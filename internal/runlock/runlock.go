// Package runlock enforces at-most-one concurrent pipeline run via a lock
// file. Concurrent runs would break the atomic-rename and commit invariants
// the pipeline relies on.
package runlock

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrLocked is returned when another run already holds the lock.
var ErrLocked = errors.New("another pipeline run is in progress")

// Lock is a held run lock. Release it when the run finishes.
type Lock struct {
	path string
}

// Acquire takes the lock, failing with ErrLocked if the lock file already
// exists. The file records the holder's pid for diagnostics.
func Acquire(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("%w (lock file %s, held by pid %s)", ErrLocked, path, holderPid(path))
		}

		return nil, fmt.Errorf("creating lock file %s: %w", path, err)
	}

	if _, err := fmt.Fprintf(f, "%d\n", os.Getpid()); err != nil {
		_ = f.Close()
		_ = os.Remove(path)

		return nil, fmt.Errorf("writing lock file %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(path)

		return nil, fmt.Errorf("closing lock file %s: %w", path, err)
	}

	return &Lock{path: path}, nil
}

// Release removes the lock file.
func (l *Lock) Release() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing lock file %s: %w", l.path, err)
	}

	return nil
}

// holderPid reads the pid recorded in an existing lock file, best effort.
func holderPid(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return "unknown"
	}

	pid := strings.TrimSpace(string(data))
	if _, err := strconv.Atoi(pid); err != nil {
		return "unknown"
	}

	return pid
}
