package catalog

import (
	"fmt"

	"github.com/gofrs/flock"

	"crate/internal/config"
)

// AcquireWriteLock takes the advisory file lock guarding catalog mutations so
// two crate processes cannot interleave merges or imports. The returned
// release function must be called once the mutation completes.
func AcquireWriteLock(cfg *config.Config) (func(), error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire catalog lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("catalog lock at %s is held by another process", cfg.LockPath())
	}
	return func() { _ = lock.Unlock() }, nil
}
