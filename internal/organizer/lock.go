package organizer

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockPattern = "file-organizer-*.lock"

// lockPath returns the lock file guarding root.
func (o *Organizer) lockPath(root string) string {
	h := fnv.New64a()
	h.Write([]byte(root))
	return filepath.Join(o.lockDir, fmt.Sprintf("file-organizer-%016x.lock", h.Sum64()))
}

// lockFilter returns a predicate matching organizer lock files, ours or those
// of runs on other roots. The lock directory can sit inside the tree being
// organized (the temp dir itself, say), and moving a lock file releases it.
func (o *Organizer) lockFilter() func(path string) bool {
	dir := o.lockDir
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}

	return func(path string) bool {
		if filepath.Dir(path) != dir {
			return false
		}
		ok, _ := filepath.Match(lockPattern, filepath.Base(path))
		return ok
	}
}

// lockRoot takes an exclusive advisory lock for root and returns its release func.
func (o *Organizer) lockRoot(root string) (func(), error) {
	if err := os.MkdirAll(o.lockDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	path := o.lockPath(root)
	lock := flock.New(path)

	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", root, ErrRootBusy)
	}

	o.logger.Debug("acquired root lock", "root", root, "lock", path)
	return func() {
		if err := lock.Unlock(); err != nil {
			o.logger.Warn("failed to release root lock", "lock", path, "error", err)
		}
	}, nil
}
