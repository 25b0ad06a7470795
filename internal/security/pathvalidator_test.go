package security

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateRoot(t *testing.T) {
	pv := NewPathValidator()
	tmp := t.TempDir()

	dir := filepath.Join(tmp, "inbox")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(tmp, "plain.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(tmp, "link")
	if err := os.Symlink(dir, link); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		path        string
		shouldError bool
		errorMsg    string
	}{
		{
			name: "existing directory",
			path: dir,
		},
		{
			name: "symlink to directory",
			path: link,
		},
		{
			name: "trailing slash",
			path: dir + "/",
		},
		{
			name:        "empty path",
			path:        "   ",
			shouldError: true,
			errorMsg:    "no directory given",
		},
		{
			name:        "missing directory",
			path:        filepath.Join(tmp, "missing"),
			shouldError: true,
			errorMsg:    "does not exist",
		},
		{
			name:        "regular file",
			path:        file,
			shouldError: true,
			errorMsg:    "not a directory",
		},
		{
			name:        "null byte",
			path:        dir + "\x00evil",
			shouldError: true,
			errorMsg:    "null byte",
		},
		{
			name:        "root directory - protected",
			path:        "/",
			shouldError: true,
			errorMsg:    "protected path",
		},
		{
			name:        "/etc - protected",
			path:        "/etc",
			shouldError: true,
			errorMsg:    "protected path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pv.ValidateRoot(tt.path)

			if tt.shouldError {
				if err == nil {
					t.Fatalf("Expected error containing '%s', got nil", tt.errorMsg)
				}
				if !errors.Is(err, ErrInvalidRoot) {
					t.Errorf("Expected error to wrap ErrInvalidRoot, got %v", err)
				}
				if !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("Expected error containing '%s', got '%s'", tt.errorMsg, err.Error())
				}
				return
			}

			if err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
			want, _ := filepath.EvalSymlinks(dir)
			if got != want {
				t.Errorf("ValidateRoot(%s) = %s, want %s", tt.path, got, want)
			}
		})
	}
}

func TestValidateRootRelativePath(t *testing.T) {
	pv := NewPathValidator()
	tmp := t.TempDir()
	t.Chdir(tmp)

	if err := os.Mkdir("downloads", 0755); err != nil {
		t.Fatal(err)
	}

	got, err := pv.ValidateRoot("downloads")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("Expected absolute path, got %s", got)
	}
	if filepath.Base(got) != "downloads" {
		t.Errorf("Expected path ending in downloads, got %s", got)
	}
}

func TestCheckProtectedPaths(t *testing.T) {
	pv := NewPathValidator()

	tests := []struct {
		name        string
		path        string
		shouldError bool
	}{
		{"root directory", "/", true},
		{"bin directory", "/bin", true},
		{"direct child of etc", "/etc/ssh", true},
		{"direct child of usr", "/usr/local", true},
		{"deep under usr", "/usr/local/share/inbox", false},
		{"temp dir", "/tmp/inbox", false},
		{"home directory", "/home/user/Downloads", false},
		{"macOS library child", "/Library/Caches", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pv.checkProtectedPaths(tt.path)
			if tt.shouldError && err == nil {
				t.Errorf("checkProtectedPaths(%s) = nil, want error", tt.path)
			}
			if !tt.shouldError && err != nil {
				t.Errorf("checkProtectedPaths(%s) = %v, want nil", tt.path, err)
			}
		})
	}
}

func TestIsProtectedPath(t *testing.T) {
	pv := NewPathValidator()

	tests := []struct {
		name        string
		path        string
		isProtected bool
	}{
		{"root directory", "/", true},
		{"etc directory", "/etc", true},
		{"usr directory", "/usr", true},
		{"system directory (macOS)", "/System", true},
		{"file in etc", "/etc/hosts", true},
		{"file in usr", "/usr/bin/ls", true},
		{"var cache", "/var/cache/test", true},
		{"temp file", "/tmp/test.txt", false},
		{"home user subdir", "/home/user/Downloads/test", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := pv.IsProtectedPath(tt.path)
			if result != tt.isProtected {
				t.Errorf("IsProtectedPath(%s) = %v, want %v", tt.path, result, tt.isProtected)
			}
		})
	}
}

func TestAddProtectedPath(t *testing.T) {
	pv := NewPathValidator()
	tmp := t.TempDir()
	resolved, err := filepath.EvalSymlinks(tmp)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := pv.ValidateRoot(tmp); err != nil {
		t.Fatalf("Expected temp dir to be allowed, got: %v", err)
	}

	pv.AddProtectedPath(resolved + "/")

	if _, err := pv.ValidateRoot(tmp); err == nil {
		t.Error("Expected custom protected path to be rejected")
	}
}
