package fileops

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// Default names for newly created entries.
const (
	DefaultFileName   = "new_file.txt"
	DefaultFolderName = "new_folder"
)

// Observer is told about every mutating operation once it finishes.
type Observer func(op string, elapsed time.Duration, err error)

// Executor performs the mutating filesystem operations. Target names are
// produced by its Resolver, so no operation overwrites an existing entry.
type Executor struct {
	fs       billy.Filesystem
	resolver *Resolver
	observe  Observer
}

// Option configures an Executor.
type Option func(*Executor)

// WithObserver registers fn to be called after each operation.
func WithObserver(fn Observer) Option {
	return func(e *Executor) {
		e.observe = fn
	}
}

// WithNameSearchLimit bounds the resolver's candidate search.
func WithNameSearchLimit(limit int) Option {
	return func(e *Executor) {
		e.resolver = NewResolver(e.fs, limit)
	}
}

// NewExecutor returns an Executor operating on filesystem.
func NewExecutor(filesystem billy.Filesystem, opts ...Option) *Executor {
	e := &Executor{
		fs:       filesystem,
		resolver: NewResolver(filesystem, DefaultNameSearchLimit),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resolver exposes the executor's name resolver.
func (e *Executor) Resolver() *Resolver {
	return e.resolver
}

// RenameResult describes a completed rename.
type RenameResult struct {
	From      string // Original path
	To        string // Final path
	Requested string // Name the caller asked for
}

// Adjusted reports whether the final name differs from the requested one
// because of a collision.
func (r RenameResult) Adjusted() bool {
	return filepath.Base(r.To) != r.Requested
}

// CreateFile creates an empty file named new_file.txt, or the first free
// new_file_N.txt, in dir and returns its path.
func (e *Executor) CreateFile(dir string) (created string, err error) {
	defer e.track(OpCreate, time.Now(), &err)

	if err := e.requireDir(OpCreate, dir); err != nil {
		return "", err
	}
	name, err := e.resolver.Resolve(dir, DefaultFileName, SchemeBeforeExt)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, name)
	file, err := e.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", newFSError(OpCreate, path, err)
	}
	if err := file.Close(); err != nil {
		return "", newFSError(OpCreate, path, err)
	}
	return path, nil
}

// CreateDir creates a directory named new_folder, or the first free
// new_folder_N, in dir and returns its path.
func (e *Executor) CreateDir(dir string) (created string, err error) {
	defer e.track(OpMkdir, time.Now(), &err)

	if err := e.requireDir(OpMkdir, dir); err != nil {
		return "", err
	}
	name, err := e.resolver.Resolve(dir, DefaultFolderName, SchemeBeforeExt)
	if err != nil {
		return "", err
	}

	// MkdirAll succeeds on an existing directory, so a name taken after
	// Resolve has to be caught here. billy has no exclusive mkdir; the
	// window between this check and the create remains.
	path := filepath.Join(dir, name)
	if _, err := e.fs.Lstat(path); err == nil {
		return "", newFSError(OpMkdir, path, fs.ErrExist)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", newFSError(OpMkdir, path, err)
	}
	if err := e.fs.MkdirAll(path, 0755); err != nil {
		return "", newFSError(OpMkdir, path, err)
	}
	return path, nil
}

// Delete permanently removes entry. Directories are removed with all of
// their contents. Confirmation is the caller's job.
func (e *Executor) Delete(entry Entry) (err error) {
	defer e.track(OpRemove, time.Now(), &err)

	if _, err := e.fs.Lstat(entry.Path); err != nil {
		return newFSError(OpRemove, entry.Path, err)
	}

	if entry.IsDir() {
		if err := util.RemoveAll(e.fs, entry.Path); err != nil {
			return newFSError(OpRemove, entry.Path, err)
		}
		return nil
	}

	if err := e.fs.Remove(entry.Path); err != nil {
		return newFSError(OpRemove, entry.Path, err)
	}
	return nil
}

// CopyInto copies the file at src into destDir under a free name derived
// from src's base name and returns the new path.
//
// Only regular files are supported; a directory source fails with
// ErrUnsupportedOperation. A failure part way through the copy may leave a
// partial destination if it cannot be removed afterwards.
func (e *Executor) CopyInto(src, destDir string) (created string, err error) {
	defer e.track(OpCopy, time.Now(), &err)

	srcInfo, err := e.fs.Stat(src)
	if err != nil {
		return "", newFSError(OpCopy, src, err)
	}
	if srcInfo.IsDir() {
		return "", fmt.Errorf("%w: cannot copy directory %s", ErrUnsupportedOperation, src)
	}
	if err := e.requireDir(OpCopy, destDir); err != nil {
		return "", err
	}

	name, err := e.resolver.Resolve(destDir, filepath.Base(src), SchemeAppend)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(destDir, name)

	if err := e.copyFile(src, dst, srcInfo.Mode().Perm()); err != nil {
		return "", err
	}
	return dst, nil
}

// copyFile streams src into a newly created dst
func (e *Executor) copyFile(src, dst string, perm os.FileMode) error {
	in, err := e.fs.Open(src)
	if err != nil {
		return newFSError(OpCopy, src, err)
	}
	defer in.Close()

	out, err := e.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return newFSError(OpCopy, dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		e.fs.Remove(dst)
		return newFSError(OpCopy, dst, err)
	}
	if err := out.Close(); err != nil {
		e.fs.Remove(dst)
		return newFSError(OpCopy, dst, err)
	}
	return nil
}

// Rename renames oldPath within its directory. If newName is taken the
// first free newNameN is used instead; the result reports the final path.
// Renaming an entry to its current name is a no-op.
func (e *Executor) Rename(oldPath, newName string) (result RenameResult, err error) {
	defer e.track(OpRename, time.Now(), &err)

	if err := ValidateName(newName); err != nil {
		return RenameResult{}, err
	}
	if _, err := e.fs.Lstat(oldPath); err != nil {
		return RenameResult{}, newFSError(OpRename, oldPath, err)
	}

	result = RenameResult{From: oldPath, To: oldPath, Requested: newName}
	if filepath.Base(oldPath) == newName {
		return result, nil
	}

	dir := filepath.Dir(oldPath)
	name, err := e.resolver.Resolve(dir, newName, SchemeAppend)
	if err != nil {
		return RenameResult{}, err
	}

	newPath := filepath.Join(dir, name)
	if err := e.fs.Rename(oldPath, newPath); err != nil {
		return RenameResult{}, newFSError(OpRename, oldPath, err)
	}
	result.To = newPath
	return result, nil
}

// ValidateName checks that name can be used as a single path component.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsRune(name, '/') || strings.ContainsRune(name, os.PathSeparator):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: %q contains a NUL byte", ErrInvalidName, name)
	}
	return nil
}

// requireDir fails unless dir is an existing directory. billy creates
// missing parents on create, which would silently materialize dir.
func (e *Executor) requireDir(op, dir string) error {
	info, err := e.fs.Stat(dir)
	if err != nil {
		return newFSError(op, dir, err)
	}
	if !info.IsDir() {
		return newFSError(op, dir, syscall.ENOTDIR)
	}
	return nil
}

func (e *Executor) track(op string, start time.Time, errp *error) {
	if e.observe != nil {
		e.observe(op, time.Since(start), *errp)
	}
}
