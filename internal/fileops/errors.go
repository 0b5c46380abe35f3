package fileops

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedOperation is returned for operations the engine does not
	// implement, such as copying a directory.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrNameSpaceExhausted is returned when the resolver runs out of
	// candidate names before finding a free one.
	ErrNameSpaceExhausted = errors.New("no free name found")

	// ErrInvalidName is returned for names that cannot be a single path
	// component (empty, ".", "..", or containing a separator).
	ErrInvalidName = errors.New("invalid name")
)

// Operation names carried by FilesystemError.
const (
	OpReadDir = "readdir"
	OpStat    = "stat"
	OpCreate  = "create"
	OpMkdir   = "mkdir"
	OpRemove  = "remove"
	OpCopy    = "copy"
	OpRename  = "rename"
)

// FilesystemError wraps an OS-level failure with the operation and the
// path it was attempted on.
type FilesystemError struct {
	Op   string // Operation that failed (e.g., "readdir", "rename")
	Path string // Affected path
	Err  error  // Underlying error
}

func (e *FilesystemError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap lets errors.Is match fs.ErrNotExist, fs.ErrPermission and friends.
func (e *FilesystemError) Unwrap() error {
	return e.Err
}

func newFSError(op, path string, err error) *FilesystemError {
	return &FilesystemError{Op: op, Path: path, Err: err}
}

// FormatError turns an engine error into a short message for display.
// It returns nil for a nil error.
func FormatError(err error, path, operation string) error {
	if err == nil {
		return nil
	}

	var fsErr *FilesystemError
	switch {
	case errors.Is(err, ErrUnsupportedOperation):
		return fmt.Errorf("cannot %s %s: %w", operation, path, err)
	case errors.Is(err, ErrNameSpaceExhausted):
		return fmt.Errorf("cannot %s %s: too many similarly named entries: %w", operation, path, err)
	case errors.As(err, &fsErr):
		return fmt.Errorf("%s failed on %s: %w", operation, fsErr.Path, fsErr.Err)
	default:
		return fmt.Errorf("%s failed on %s: %w", operation, path, err)
	}
}
