package session

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/LFroesch/fex/internal/fileops"
	"github.com/LFroesch/fex/internal/logger"
)

var (
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrEmptyName        = errors.New("name is empty")
	ErrNoSelection      = errors.New("nothing selected")
	ErrClipboardEmpty   = errors.New("clipboard is empty")
	ErrRenameInProgress = errors.New("rename already in progress")
	ErrNotEditing       = errors.New("no rename in progress")
)

// Lister produces the sorted listing of a directory.
type Lister interface {
	List(dir string) ([]fileops.Entry, error)
}

// Executor performs the mutating operations.
type Executor interface {
	CreateFile(dir string) (string, error)
	CreateDir(dir string) (string, error)
	Delete(entry fileops.Entry) error
	CopyInto(src, destDir string) (string, error)
	Rename(oldPath, newName string) (fileops.RenameResult, error)
}

// Session is the state of one browser window: the working directory, its
// listing, the selection into that listing, the clipboard and the rename
// edit. It is not safe for concurrent use; Op.Run is the only part that
// may leave the owning goroutine.
type Session struct {
	lister    Lister
	exec      Executor
	dir       string
	entries   []fileops.Entry
	selection Selection
	clipboard Clipboard
	rename    Rename
}

// New opens a session on dir. It fails if dir cannot be listed.
func New(lister Lister, exec Executor, dir string) (*Session, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve %s: %w", dir, err)
	}
	s := &Session{lister: lister, exec: exec}
	if err := s.load(abs); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) Dir() string { return s.dir }

// Entries returns a copy of the current listing.
func (s *Session) Entries() []fileops.Entry {
	out := make([]fileops.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Navigate makes dir the working directory. On failure the session is
// left as it was.
func (s *Session) Navigate(dir string) error {
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(s.dir, dir)
	}
	if err := s.load(filepath.Clean(dir)); err != nil {
		logger.Warn("Navigate to %s failed: %v", dir, err)
		return err
	}
	return nil
}

// Up navigates to the parent directory. At the root it does nothing.
func (s *Session) Up() error {
	parent := filepath.Dir(s.dir)
	if parent == s.dir {
		return nil
	}
	return s.Navigate(parent)
}

// Refresh relists the working directory.
func (s *Session) Refresh() error {
	return s.load(s.dir)
}

func (s *Session) load(dir string) error {
	entries, err := s.lister.List(dir)
	if err != nil {
		return err
	}
	s.dir = dir
	s.entries = entries
	s.selection.Clear()
	return nil
}

// Select marks the entry at index in the current listing.
func (s *Session) Select(index int) error {
	return s.selection.Select(index, len(s.entries))
}

func (s *Session) ClearSelection() { s.selection.Clear() }

// Selected returns the selected entry, if any.
func (s *Session) Selected() (fileops.Entry, bool) {
	i, ok := s.selection.Current()
	if !ok || i >= len(s.entries) {
		return fileops.Entry{}, false
	}
	return s.entries[i], true
}

// SelectedIndex returns the selected index, if any.
func (s *Session) SelectedIndex() (int, bool) {
	return s.selection.Current()
}

// Copy puts the selected entry's path on the clipboard.
func (s *Session) Copy() (string, error) {
	entry, ok := s.Selected()
	if !ok {
		return "", ErrNoSelection
	}
	s.clipboard.Set(entry.Path)
	return entry.Path, nil
}

// Clipboard returns the held source path, if any.
func (s *Session) Clipboard() (string, bool) {
	return s.clipboard.Path()
}

// Activate opens the selected entry. A directory becomes the working
// directory and "" is returned; a file's path is returned for an external
// opener.
func (s *Session) Activate() (string, error) {
	entry, ok := s.Selected()
	if !ok {
		return "", ErrNoSelection
	}
	if entry.IsDir() {
		return "", s.Navigate(entry.Path)
	}
	return entry.Path, nil
}

// Rename returns the rename edit state.
func (s *Session) Rename() *Rename {
	return &s.rename
}

// BeginRename starts editing the selected entry's name.
func (s *Session) BeginRename() error {
	entry, ok := s.Selected()
	if !ok {
		return ErrNoSelection
	}
	return s.rename.Begin(entry.Path, entry.Name)
}

func (s *Session) SetRenameText(text string) error {
	return s.rename.SetText(text)
}

func (s *Session) CancelRename() {
	s.rename.Cancel()
}

// PrepareCreateFile captures a new-file operation in the working directory.
func (s *Session) PrepareCreateFile() (Op, error) {
	dir := s.dir
	return Op{Kind: OpCreateFile, Target: dir, run: func() Outcome {
		path, err := s.exec.CreateFile(dir)
		return Outcome{Path: path, Err: err}
	}}, nil
}

// PrepareCreateDir captures a new-folder operation in the working directory.
func (s *Session) PrepareCreateDir() (Op, error) {
	dir := s.dir
	return Op{Kind: OpCreateDir, Target: dir, run: func() Outcome {
		path, err := s.exec.CreateDir(dir)
		return Outcome{Path: path, Err: err}
	}}, nil
}

// PrepareDelete captures deleting the selected entry.
func (s *Session) PrepareDelete() (Op, error) {
	entry, ok := s.Selected()
	if !ok {
		return Op{}, ErrNoSelection
	}
	return Op{Kind: OpDelete, Target: entry.Path, run: func() Outcome {
		return Outcome{Path: entry.Path, Err: s.exec.Delete(entry)}
	}}, nil
}

// PreparePaste captures copying the clipboard's source into the working
// directory.
func (s *Session) PreparePaste() (Op, error) {
	src, ok := s.clipboard.Path()
	if !ok {
		return Op{}, ErrClipboardEmpty
	}
	dir := s.dir
	return Op{Kind: OpPaste, Target: src, run: func() Outcome {
		path, err := s.exec.CopyInto(src, dir)
		return Outcome{Path: path, Err: err}
	}}, nil
}

// PrepareRename captures committing the rename edit.
func (s *Session) PrepareRename() (Op, error) {
	if !s.rename.Active() {
		return Op{}, ErrNotEditing
	}
	name := s.rename.Text()
	if name == "" {
		return Op{}, ErrEmptyName
	}
	target := s.rename.Target()
	return Op{Kind: OpRename, Target: target, run: func() Outcome {
		res, err := s.exec.Rename(target, name)
		return Outcome{Path: res.To, Rename: res, Err: err}
	}}, nil
}

// Apply folds a finished operation back into the session. A failed
// operation changes nothing and its error is returned. A successful one
// ends the rename edit if it was a rename, clears the selection and
// relists the working directory.
func (s *Session) Apply(out Outcome) error {
	if out.Err != nil {
		logger.Error("%s %s failed: %v", out.Kind, out.Target, out.Err)
		return out.Err
	}

	if out.Kind == OpRename {
		s.rename.finish()
	}
	s.selection.Clear()
	logger.Info("%s %s -> %s", out.Kind, out.Target, out.Path)

	if err := s.Refresh(); err != nil {
		logger.Warn("Relist of %s after %s failed: %v", s.dir, out.Kind, err)
		return fmt.Errorf("%s succeeded but relisting failed: %w", out.Kind, err)
	}
	return nil
}

// CreateFile creates a new file in the working directory and relists.
func (s *Session) CreateFile() (string, error) {
	return s.runPrepared(s.PrepareCreateFile)
}

// CreateDir creates a new folder in the working directory and relists.
func (s *Session) CreateDir() (string, error) {
	return s.runPrepared(s.PrepareCreateDir)
}

// Delete removes the selected entry and relists.
func (s *Session) Delete() error {
	_, err := s.runPrepared(s.PrepareDelete)
	return err
}

// Paste copies the clipboard's source into the working directory and
// relists. The clipboard keeps its path.
func (s *Session) Paste() (string, error) {
	return s.runPrepared(s.PreparePaste)
}

// CommitRename applies the rename edit. On failure the edit stays open.
func (s *Session) CommitRename() (fileops.RenameResult, error) {
	op, err := s.PrepareRename()
	if err != nil {
		return fileops.RenameResult{}, err
	}
	out := op.Run()
	if err := s.Apply(out); err != nil {
		return fileops.RenameResult{}, err
	}
	return out.Rename, nil
}

func (s *Session) runPrepared(prepare func() (Op, error)) (string, error) {
	op, err := prepare()
	if err != nil {
		return "", err
	}
	out := op.Run()
	if err := s.Apply(out); err != nil {
		return "", err
	}
	return out.Path, nil
}
