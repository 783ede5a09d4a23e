// Package lock guards the bootstrap sequence against concurrent runs with an
// exclusive lock file.
package lock

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// FileName is the lock file created inside the state directory.
	FileName = "bootstrap.lock"

	// StaleThreshold is the maximum age of a lock before it's considered stale.
	StaleThreshold = 10 * time.Minute
)

var ErrLockExists = errors.New("bootstrap lock exists: another bootstrap may be in progress")

// Lock is a held bootstrap lock.
type Lock struct {
	path string
	file *os.File
}

// Acquire creates dir if needed and takes the lock inside it. A stale lock
// is replaced once; any other existing lock yields ErrLockExists.
func Acquire(ctx context.Context, dir string) (*Lock, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lockPath := filepath.Join(dir, FileName)

	file, err := create(lockPath)
	if errors.Is(err, os.ErrExist) {
		if !isStale(lockPath) {
			return nil, existsError(lockPath)
		}
		_ = os.Remove(lockPath)
		file, err = create(lockPath)
		if errors.Is(err, os.ErrExist) {
			return nil, existsError(lockPath)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create lock file: %w", err)
	}

	data := fmt.Sprintf("pid=%d\ntimestamp=%s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339))
	if _, err := file.WriteString(data); err != nil {
		file.Close()
		os.Remove(lockPath)
		return nil, fmt.Errorf("write lock data: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(lockPath)
		return nil, fmt.Errorf("sync lock file: %w", err)
	}

	return &Lock{path: lockPath, file: file}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Release removes the lock. Releasing twice is a no-op.
func (l *Lock) Release() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}

	if l.path != "" {
		path := l.path
		l.path = ""
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove lock file: %w", err)
		}
	}

	return nil
}

func create(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o600)
}

func isStale(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) > StaleThreshold
}

// existsError names the holder recorded in the lock file when it can be read.
func existsError(path string) error {
	if pid := holderPID(path); pid != "" {
		return fmt.Errorf("%w (pid %s, %s)", ErrLockExists, pid, path)
	}
	return fmt.Errorf("%w (%s)", ErrLockExists, path)
}

func holderPID(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if pid, ok := strings.CutPrefix(scanner.Text(), "pid="); ok {
			return pid
		}
	}
	return ""
}
