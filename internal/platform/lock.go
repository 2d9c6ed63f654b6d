package platform

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is created inside the output directory while a download runs
const LockFileName = ".ytfetch.lock"

// ErrDirLocked is returned when another process is downloading into the directory
var ErrDirLocked = errors.New("output directory is in use by another download")

// DirLock guards an output directory across processes
type DirLock struct {
	fl *flock.Flock
}

// LockOutputDir takes a non-blocking lock on dir
func LockOutputDir(dir string) (*DirLock, error) {
	if err := CreateDirectoryIfNotExists(dir); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	fl := flock.New(filepath.Join(dir, LockFileName))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock output dir: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrDirLocked, dir)
	}
	return &DirLock{fl: fl}, nil
}

// Release unlocks the directory. Safe to call on nil.
func (l *DirLock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
