//go:build linux

package organizer

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// renameNoReplace uses renameat2(RENAME_NOREPLACE) so an existing dest is never
// clobbered, even if it appeared after ResolveDestination.
func renameNoReplace(src, dest string) error {
	err := unix.Renameat2(unix.AT_FDCWD, src, unix.AT_FDCWD, dest, unix.RENAME_NOREPLACE)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, unix.EEXIST):
		return fmt.Errorf("%s: %w", dest, ErrDestinationExists)
	case errors.Is(err, unix.ENOSYS), errors.Is(err, unix.EINVAL):
		// Kernel or filesystem without renameat2 flags.
		return renameChecked(src, dest)
	default:
		return &os.LinkError{Op: "rename", Old: src, New: dest, Err: err}
	}
}
