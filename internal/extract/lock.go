package extract

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is created inside every locked output directory.
const LockFileName = ".cuesplit.lock"

// ErrOutputLocked indicates another split holds the output directory.
var ErrOutputLocked = errors.New("output directory is locked by another split")

// OutputLock is a held output directory lock.
type OutputLock struct {
	path string
	lock *flock.Flock
}

// LockOutputDir takes a non-blocking lock on dir. The directory must exist.
func LockOutputDir(dir string) (*OutputLock, error) {
	path := filepath.Join(dir, LockFileName)
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOutputLocked, dir)
	}
	return &OutputLock{path: path, lock: lock}, nil
}

// Path returns the lock file location.
func (l *OutputLock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Release unlocks the directory. The lock file itself is left behind.
func (l *OutputLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
