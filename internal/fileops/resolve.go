package fileops

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-git/go-billy/v5"
)

// DefaultNameSearchLimit bounds how many numbered candidates the resolver
// tries before giving up.
const DefaultNameSearchLimit = 100000

// Scheme selects how a numeric disambiguator is added to a taken name.
type Scheme int

const (
	// SchemeAppend appends the counter directly: "report" -> "report0".
	// Used for rename and paste.
	SchemeAppend Scheme = iota
	// SchemeBeforeExt inserts "_N" before the final extension:
	// "new_file.txt" -> "new_file_0.txt", "new_folder" -> "new_folder_0".
	// Used for newly created entries.
	SchemeBeforeExt
)

// Resolver finds names that do not collide with existing entries.
type Resolver struct {
	fs    billy.Filesystem
	limit int
}

// NewResolver returns a Resolver checking names against filesystem. A limit
// of zero or less selects DefaultNameSearchLimit.
func NewResolver(filesystem billy.Filesystem, limit int) *Resolver {
	if limit <= 0 {
		limit = DefaultNameSearchLimit
	}
	return &Resolver{fs: filesystem, limit: limit}
}

// Resolve returns desired if dir/desired is free, otherwise the first free
// numbered variant under scheme, counting from 0.
func (r *Resolver) Resolve(dir, desired string, scheme Scheme) (string, error) {
	free, err := r.free(dir, desired)
	if err != nil {
		return "", err
	}
	if free {
		return desired, nil
	}

	for i := 0; i < r.limit; i++ {
		candidate := numbered(desired, i, scheme)
		free, err := r.free(dir, candidate)
		if err != nil {
			return "", err
		}
		if free {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: %q in %s after %d attempts", ErrNameSpaceExhausted, desired, dir, r.limit)
}

// free reports whether nothing, not even a dangling symlink, occupies name.
func (r *Resolver) free(dir, name string) (bool, error) {
	p := filepath.Join(dir, name)
	_, err := r.fs.Lstat(p)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	return false, newFSError(OpStat, p, err)
}

func numbered(name string, i int, scheme Scheme) string {
	n := strconv.Itoa(i)
	if scheme == SchemeAppend {
		return name + n
	}
	stem, ext := splitExt(name)
	return stem + "_" + n + ext
}

// splitExt splits off the final extension. A leading dot does not start an
// extension, so ".env" has none.
func splitExt(name string) (string, string) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if stem == "" || strings.Trim(stem, ".") == "" {
		return name, ""
	}
	return stem, ext
}
