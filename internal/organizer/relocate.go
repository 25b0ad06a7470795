package organizer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/fenilsonani/file-organizer/internal/category"
)

// Relocate moves src into destDir, creating destDir if needed, and returns the
// path the file ended up at. Name collisions are resolved by suffixing _1, _2, ...
// before the extension. The file is at the returned path iff err is nil.
func Relocate(src, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", CategorizeError(OpMove, src, fmt.Errorf("failed to create %s: %w", destDir, err))
	}

	if same, err := alreadyInPlace(src, destDir); err != nil {
		return "", CategorizeError(OpMove, src, err)
	} else if same {
		return src, nil
	}

	dest, err := ResolveDestination(destDir, filepath.Base(src))
	if err != nil {
		return "", CategorizeError(OpMove, src, err)
	}

	if err := moveFile(src, dest); err != nil {
		return "", CategorizeError(OpMove, src, err)
	}

	return dest, nil
}

// ResolveDestination returns the first name in destDir, starting with name
// itself, that does not exist on disk right now.
func ResolveDestination(destDir, name string) (string, error) {
	stem, ext := splitName(name)

	candidate := filepath.Join(destDir, name)
	for i := 1; ; i++ {
		_, err := os.Lstat(candidate)
		if errors.Is(err, os.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = filepath.Join(destDir, stem+"_"+strconv.Itoa(i)+ext)
	}
}

// splitName splits name at its extension using the classifier's rule, keeping
// the original case of both halves.
func splitName(name string) (stem, ext string) {
	if category.Extension(name) == "" {
		return name, ""
	}
	i := len(name) - len(category.Extension(name))
	return name[:i], name[i:]
}

// alreadyInPlace reports whether src already sits directly in destDir.
func alreadyInPlace(src, destDir string) (bool, error) {
	srcDir, err := filepath.Abs(filepath.Dir(src))
	if err != nil {
		return false, err
	}
	dst, err := filepath.Abs(destDir)
	if err != nil {
		return false, err
	}
	return srcDir == dst, nil
}

// moveFile renames src to dest without replacing an existing dest, falling back
// to copy and remove when the two are on different devices.
func moveFile(src, dest string) error {
	err := renameNoReplace(src, dest)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}
	return copyThenRemove(src, dest)
}

// renameChecked re-verifies dest right before a plain rename. Used where the
// kernel offers no atomic no-replace rename.
func renameChecked(src, dest string) error {
	if _, err := os.Lstat(dest); err == nil {
		return fmt.Errorf("%s: %w", dest, ErrDestinationExists)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.Rename(src, dest)
}

func copyThenRemove(src, dest string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s: %w", dest, ErrDestinationExists)
		}
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(dest)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err = out.Close(); err != nil {
		return err
	}
	if err = os.Chtimes(dest, info.ModTime(), info.ModTime()); err != nil {
		return err
	}

	return os.Remove(src)
}
