package fileops

// Kind distinguishes the two entry variants a listing can contain.
type Kind int

const (
	KindDirectory Kind = iota
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

// TimestampLayout is the format of Entry.LastAccessed.
const TimestampLayout = "2006-01-02 15:04"

// Entry is one classified child of a listed directory.
//
// Size and LastAccessed are only populated for files. LastAccessed is empty
// when the platform or filesystem cannot report an access time.
type Entry struct {
	Kind         Kind
	Name         string
	Path         string
	Size         int64
	LastAccessed string
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Kind == KindDirectory
}

// less orders directories before files, then by name, then by path.
func less(a, b Entry) bool {
	if a.Kind != b.Kind {
		return a.Kind == KindDirectory
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.Path < b.Path
}
