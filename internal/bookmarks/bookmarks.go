package bookmarks

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/LFroesch/fex/internal/logger"
)

// Bookmark is a named sidebar location.
type Bookmark struct {
	Name string
	Path string
}

// Load returns the standard locations followed by extra, skipping paths
// already present. A standard location that is unset or missing falls
// back to the home directory.
func Load(extra []string) []Bookmark {
	return build(xdg.Home, []Bookmark{
		{"Downloads", xdg.UserDirs.Download},
		{"Documents", xdg.UserDirs.Documents},
		{"Pictures", xdg.UserDirs.Pictures},
		{"Music", xdg.UserDirs.Music},
		{"Videos", xdg.UserDirs.Videos},
	}, extra)
}

func build(home string, standard []Bookmark, extra []string) []Bookmark {
	out := []Bookmark{{Name: "Home", Path: home}}
	for _, b := range standard {
		if !isDir(b.Path) {
			b.Path = home
		}
		out = append(out, b)
	}

	seen := make(map[string]bool, len(out))
	for _, b := range out {
		seen[b.Path] = true
	}
	for _, p := range extra {
		p = filepath.Clean(p)
		if seen[p] {
			continue
		}
		if !isDir(p) {
			logger.Warn("Bookmark %s is not a directory", p)
		}
		seen[p] = true
		out = append(out, Bookmark{Name: filepath.Base(p), Path: p})
	}
	return out
}

func isDir(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
