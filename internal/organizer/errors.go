package organizer

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
)

var (
	// ErrDestinationExists is returned when the resolved destination was taken
	// between name resolution and the move.
	ErrDestinationExists = errors.New("destination already exists")

	// ErrRootBusy is returned when another run holds the lock for the same root.
	ErrRootBusy = errors.New("another organizer run is using this directory")
)

// Op names the per-file operation that failed
type Op string

const (
	OpHash Op = "hash"
	OpMove Op = "move"
	OpStat Op = "stat"
	OpWalk Op = "walk"
)

// ErrorReason categorizes why a per-file operation failed
type ErrorReason int

const (
	ErrorPermissionDenied ErrorReason = iota
	ErrorFileInUse
	ErrorFileNotFound
	ErrorIsDirectory
	ErrorCrossDevice
	ErrorDestinationExists
	ErrorUnknown
)

// String returns a human-readable error reason
func (e ErrorReason) String() string {
	switch e {
	case ErrorPermissionDenied:
		return "Permission denied"
	case ErrorFileInUse:
		return "File is in use"
	case ErrorFileNotFound:
		return "File not found"
	case ErrorIsDirectory:
		return "Is a directory"
	case ErrorCrossDevice:
		return "Cross-device move"
	case ErrorDestinationExists:
		return "Destination exists"
	case ErrorUnknown:
		return "Unknown error"
	default:
		return "Unspecified error"
	}
}

// FileError is the failure of one operation on one file. It never aborts a batch.
type FileError struct {
	Op     Op
	Path   string
	Reason ErrorReason
	Err    error
}

// Error implements the error interface
func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %s (%v)", e.Op, e.Path, e.Reason, e.Err)
}

// Unwrap exposes the underlying error to errors.Is/As
func (e *FileError) Unwrap() error {
	return e.Err
}

// MarshalText renders the error for json/yaml reports
func (e *FileError) MarshalText() ([]byte, error) {
	return []byte(e.Error()), nil
}

// UserMessage returns a short message naming the file and the cause
func (e *FileError) UserMessage() string {
	switch e.Reason {
	case ErrorPermissionDenied:
		return fmt.Sprintf("Permission denied: %s", e.Path)
	case ErrorFileInUse:
		return fmt.Sprintf("File is being used: %s", e.Path)
	case ErrorFileNotFound:
		return fmt.Sprintf("Disappeared during the run: %s", e.Path)
	case ErrorIsDirectory:
		return fmt.Sprintf("Not a regular file: %s", e.Path)
	case ErrorCrossDevice:
		return fmt.Sprintf("Could not move across devices: %s (%v)", e.Path, e.Err)
	case ErrorDestinationExists:
		return fmt.Sprintf("Destination was taken during the move: %s", e.Path)
	default:
		return fmt.Sprintf("Error processing %s: %v", e.Path, e.Err)
	}
}

// CategorizeError wraps err into a FileError with its reason filled in.
// It returns nil for a nil error.
func CategorizeError(op Op, path string, err error) *FileError {
	if err == nil {
		return nil
	}

	var fe *FileError
	if errors.As(err, &fe) {
		return fe
	}

	fileErr := &FileError{
		Op:     op,
		Path:   path,
		Err:    err,
		Reason: ErrorUnknown,
	}

	switch {
	case errors.Is(err, ErrDestinationExists), errors.Is(err, os.ErrExist):
		fileErr.Reason = ErrorDestinationExists
		return fileErr
	case errors.Is(err, os.ErrNotExist):
		fileErr.Reason = ErrorFileNotFound
		return fileErr
	case errors.Is(err, os.ErrPermission):
		fileErr.Reason = ErrorPermissionDenied
		return fileErr
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EACCES, syscall.EPERM:
			fileErr.Reason = ErrorPermissionDenied
		case syscall.EBUSY, syscall.ETXTBSY:
			fileErr.Reason = ErrorFileInUse
		case syscall.ENOENT:
			fileErr.Reason = ErrorFileNotFound
		case syscall.EISDIR:
			fileErr.Reason = ErrorIsDirectory
		case syscall.EXDEV:
			fileErr.Reason = ErrorCrossDevice
		case syscall.EEXIST, syscall.ENOTEMPTY:
			fileErr.Reason = ErrorDestinationExists
		}
	}

	return fileErr
}

// GroupErrors groups file errors by reason
func GroupErrors(errs []*FileError) map[ErrorReason][]*FileError {
	grouped := make(map[ErrorReason][]*FileError)
	for _, err := range errs {
		grouped[err.Reason] = append(grouped[err.Reason], err)
	}
	return grouped
}

// FormatErrorSummary creates a user-friendly summary of errors
func FormatErrorSummary(errs []*FileError) string {
	if len(errs) == 0 {
		return ""
	}

	grouped := GroupErrors(errs)
	var b strings.Builder
	b.WriteString("\nIssues encountered:\n")

	if perms, ok := grouped[ErrorPermissionDenied]; ok {
		fmt.Fprintf(&b, "   ├─ Permission denied: %d files\n", len(perms))
		b.WriteString("   │  └─ Tip: check ownership of the files and the target folder\n")
	}

	if busy, ok := grouped[ErrorFileInUse]; ok {
		fmt.Fprintf(&b, "   ├─ File in use: %d files\n", len(busy))
		b.WriteString("   │  └─ Tip: close applications and run again\n")
	}

	if notFound, ok := grouped[ErrorFileNotFound]; ok {
		fmt.Fprintf(&b, "   ├─ Disappeared during the run: %d files\n", len(notFound))
	}

	if dirs, ok := grouped[ErrorIsDirectory]; ok {
		fmt.Fprintf(&b, "   ├─ Not regular files: %d items\n", len(dirs))
	}

	if xdev, ok := grouped[ErrorCrossDevice]; ok {
		fmt.Fprintf(&b, "   ├─ Cross-device moves: %d files\n", len(xdev))
	}

	if taken, ok := grouped[ErrorDestinationExists]; ok {
		fmt.Fprintf(&b, "   ├─ Destination taken mid-move: %d files\n", len(taken))
		b.WriteString("   │  └─ Tip: another program is writing to this folder\n")
	}

	if unknown, ok := grouped[ErrorUnknown]; ok {
		fmt.Fprintf(&b, "   └─ Other errors: %d files\n", len(unknown))
	}

	return b.String()
}
