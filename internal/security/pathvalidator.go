// Package security validates the directories the organizer is asked to work on.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidRoot marks every rejection by ValidateRoot
var ErrInvalidRoot = errors.New("invalid directory")

// PathValidator rejects roots that must never be reorganized
type PathValidator struct {
	protectedPaths []string
}

// NewPathValidator creates a new PathValidator with default protected paths
func NewPathValidator() *PathValidator {
	return &PathValidator{
		protectedPaths: []string{
			// Unix system directories
			"/",
			"/bin",
			"/boot",
			"/dev",
			"/etc",
			"/lib",
			"/lib64",
			"/proc",
			"/sbin",
			"/sys",
			"/usr",
			"/var",
			// macOS system directories
			"/System",
			"/Applications",
			"/Library",
		},
	}
}

// ValidateRoot checks that path names an existing directory that is not a
// protected system location, and returns it absolute with symlinks resolved.
// Every error wraps ErrInvalidRoot.
func (pv *PathValidator) ValidateRoot(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("%w: no directory given", ErrInvalidRoot)
	}
	if strings.ContainsRune(path, 0) {
		return "", fmt.Errorf("%w: path contains a null byte", ErrInvalidRoot)
	}

	abs, err := filepath.Abs(expandHome(path))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidRoot, path, err)
	}

	// Resolve symlinks so /tmp/link-to-etc is judged as /etc
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: directory does not exist: %s", ErrInvalidRoot, path)
		}
		return "", fmt.Errorf("%w: failed to resolve %s: %v", ErrInvalidRoot, path, err)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidRoot, path, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: not a directory: %s", ErrInvalidRoot, path)
	}

	if err := pv.checkProtectedPaths(filepath.Clean(resolved)); err != nil {
		return "", err
	}

	return resolved, nil
}

// checkProtectedPaths rejects a protected directory and its direct children.
// Deeper paths such as /usr/local/share/inbox are allowed.
func (pv *PathValidator) checkProtectedPaths(cleanPath string) error {
	for _, protected := range pv.protectedPaths {
		if cleanPath == protected {
			return fmt.Errorf("%w: refusing to organize protected path: %s", ErrInvalidRoot, cleanPath)
		}

		if protected != "/" && strings.HasPrefix(cleanPath, protected+"/") {
			rel, _ := filepath.Rel(protected, cleanPath)
			if !strings.Contains(rel, string(filepath.Separator)) {
				return fmt.Errorf("%w: refusing to organize system path: %s", ErrInvalidRoot, cleanPath)
			}
		}
	}

	return nil
}

// IsProtectedPath checks if a path is a protected system path or lies below one
func (pv *PathValidator) IsProtectedPath(path string) bool {
	cleanPath := filepath.Clean(path)
	for _, protected := range pv.protectedPaths {
		if cleanPath == protected || strings.HasPrefix(cleanPath, protected+"/") {
			return true
		}
	}
	return false
}

// AddProtectedPath adds a custom protected path
func (pv *PathValidator) AddProtectedPath(path string) {
	cleanPath := filepath.Clean(path)
	pv.protectedPaths = append(pv.protectedPaths, cleanPath)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
