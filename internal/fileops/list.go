package fileops

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/djherbis/times"
	"github.com/go-git/go-billy/v5"
)

// Lister reads directory snapshots.
type Lister struct {
	fs  billy.Filesystem
	loc *time.Location
}

// ListerOption configures a Lister.
type ListerOption func(*Lister)

// WithLocation sets the zone access times are formatted in. Defaults to UTC.
func WithLocation(loc *time.Location) ListerOption {
	return func(l *Lister) {
		if loc != nil {
			l.loc = loc
		}
	}
}

// NewLister returns a Lister reading from filesystem.
func NewLister(filesystem billy.Filesystem, opts ...ListerOption) *Lister {
	l := &Lister{fs: filesystem, loc: time.UTC}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// List returns the immediate children of dir, directories first, each group
// ordered by name. The result is rebuilt from scratch on every call.
func (l *Lister) List(dir string) ([]Entry, error) {
	dir = filepath.Clean(dir)

	infos, err := l.fs.ReadDir(dir)
	if err != nil {
		return nil, newFSError(OpReadDir, dir, err)
	}

	entries := make([]Entry, 0, len(infos))
	for _, linfo := range infos {
		itemPath := filepath.Join(dir, linfo.Name())

		// Follow symlinks so a link to a directory is listed as one
		info, err := l.fs.Stat(itemPath)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, newFSError(OpStat, itemPath, err)
			}
			// A dangling symlink still lstats; a vanished entry does not
			if _, lerr := l.fs.Lstat(itemPath); lerr != nil {
				return nil, newFSError(OpStat, itemPath, lerr)
			}
			info = linfo
		}

		if info.IsDir() {
			entries = append(entries, Entry{
				Kind: KindDirectory,
				Name: linfo.Name(),
				Path: itemPath,
			})
			continue
		}

		entries = append(entries, Entry{
			Kind:         KindFile,
			Name:         linfo.Name(),
			Path:         itemPath,
			Size:         info.Size(),
			LastAccessed: l.accessTime(info),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return less(entries[i], entries[j])
	})

	return entries, nil
}

// accessTime formats the access time carried by info, or returns "" when
// the backing filesystem does not expose platform stat data.
func (l *Lister) accessTime(info os.FileInfo) string {
	if info.Sys() == nil {
		return ""
	}
	atime := times.Get(info).AccessTime()
	if atime.IsZero() {
		return ""
	}
	return atime.In(l.loc).Format(TimestampLayout)
}
