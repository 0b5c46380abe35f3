package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LFroesch/fex/internal/fileops"
	"github.com/LFroesch/fex/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Disable()
	os.Exit(m.Run())
}

func newMemSession(t *testing.T, dir string, files, dirs []string) (*Session, billy.Filesystem) {
	t.Helper()
	mfs := memfs.New()
	require.NoError(t, mfs.MkdirAll(dir, 0755))
	for _, d := range dirs {
		require.NoError(t, mfs.MkdirAll(d, 0755))
	}
	for _, f := range files {
		file, err := mfs.Create(f)
		require.NoError(t, err)
		_, err = file.Write([]byte(filepath.Base(f)))
		require.NoError(t, err)
		require.NoError(t, file.Close())
	}
	s, err := New(fileops.NewLister(mfs), fileops.NewExecutor(mfs), dir)
	require.NoError(t, err)
	return s, mfs
}

func entryNames(s *Session) []string {
	var out []string
	for _, e := range s.Entries() {
		out = append(out, e.Name)
	}
	return out
}

// selectName selects the entry called name in the current listing.
func selectName(t *testing.T, s *Session, name string) {
	t.Helper()
	for i, e := range s.Entries() {
		if e.Name == name {
			require.NoError(t, s.Select(i))
			return
		}
	}
	t.Fatalf("no entry %q in %v", name, entryNames(s))
}

func TestSelectOutOfRange(t *testing.T) {
	s, _ := newMemSession(t, "/w", []string{"/w/a", "/w/b", "/w/c"}, nil)

	require.NoError(t, s.Select(1))
	err := s.Select(5)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.ErrorIs(t, s.Select(-1), ErrIndexOutOfRange)

	// Previous selection survives a rejected select
	i, ok := s.SelectedIndex()
	assert.True(t, ok)
	assert.Equal(t, 1, i)
}

func TestCreateFileTwice(t *testing.T) {
	s, _ := newMemSession(t, "/w", nil, nil)

	first, err := s.CreateFile()
	require.NoError(t, err)
	assert.Equal(t, "/w/new_file.txt", first)

	second, err := s.CreateFile()
	require.NoError(t, err)
	assert.Equal(t, "/w/new_file_0.txt", second)

	assert.Equal(t, []string{"new_file.txt", "new_file_0.txt"}, entryNames(s))
}

func TestCreateDirRelists(t *testing.T) {
	s, _ := newMemSession(t, "/w", []string{"/w/a.txt"}, nil)
	require.NoError(t, s.Select(0))

	path, err := s.CreateDir()
	require.NoError(t, err)
	assert.Equal(t, "/w/new_folder", path)
	assert.Equal(t, []string{"new_folder", "a.txt"}, entryNames(s))

	_, ok := s.Selected()
	assert.False(t, ok, "selection is cleared after a mutation")
}

func TestRenameThenList(t *testing.T) {
	s, _ := newMemSession(t, "/w", []string{"/w/a.txt", "/w/b.txt"}, nil)
	selectName(t, s, "a.txt")

	require.NoError(t, s.BeginRename())
	assert.Equal(t, RenameEditing, s.Rename().State())
	assert.Equal(t, "a.txt", s.Rename().Text())
	assert.ErrorIs(t, s.BeginRename(), ErrRenameInProgress)

	require.NoError(t, s.SetRenameText("c.txt"))
	res, err := s.CommitRename()
	require.NoError(t, err)
	assert.Equal(t, "/w/c.txt", res.To)
	assert.False(t, res.Adjusted())

	assert.Equal(t, RenameIdle, s.Rename().State())
	assert.Empty(t, s.Rename().Text())
	assert.Equal(t, []string{"b.txt", "c.txt"}, entryNames(s))
}

func TestRenameCollision(t *testing.T) {
	s, _ := newMemSession(t, "/w", []string{"/w/a", "/w/b"}, nil)
	selectName(t, s, "a")
	require.NoError(t, s.BeginRename())
	require.NoError(t, s.SetRenameText("b"))

	res, err := s.CommitRename()
	require.NoError(t, err)
	assert.Equal(t, "/w/b0", res.To)
	assert.True(t, res.Adjusted())
	assert.Equal(t, []string{"b", "b0"}, entryNames(s))
}

func TestRenameEmptyName(t *testing.T) {
	s, _ := newMemSession(t, "/w", []string{"/w/a"}, nil)
	selectName(t, s, "a")
	require.NoError(t, s.BeginRename())
	require.NoError(t, s.SetRenameText(""))

	_, err := s.CommitRename()
	assert.ErrorIs(t, err, ErrEmptyName)
	assert.Equal(t, RenameEditing, s.Rename().State())
	assert.Equal(t, []string{"a"}, entryNames(s))
}

func TestRenameCancel(t *testing.T) {
	s, _ := newMemSession(t, "/w", []string{"/w/a"}, nil)
	selectName(t, s, "a")
	require.NoError(t, s.BeginRename())
	require.NoError(t, s.SetRenameText("zzz"))

	s.CancelRename()
	assert.False(t, s.Rename().Active())
	assert.ErrorIs(t, s.SetRenameText("x"), ErrNotEditing)

	_, err := s.CommitRename()
	assert.ErrorIs(t, err, ErrNotEditing)
	assert.Equal(t, []string{"a"}, entryNames(s))
}

func TestRenameFailureKeepsEditing(t *testing.T) {
	s, _ := newMemSession(t, "/w", []string{"/w/a"}, nil)
	selectName(t, s, "a")
	require.NoError(t, s.BeginRename())
	require.NoError(t, s.SetRenameText("bad/name"))

	_, err := s.CommitRename()
	assert.ErrorIs(t, err, fileops.ErrInvalidName)
	assert.True(t, s.Rename().Active())
	assert.Equal(t, "bad/name", s.Rename().Text())

	_, ok := s.Selected()
	assert.True(t, ok, "selection survives a failed rename")
}

func TestDeleteDirectory(t *testing.T) {
	s, mfs := newMemSession(t, "/w",
		[]string{"/w/d/inner.txt", "/w/d/deep/x", "/w/keep.txt"},
		[]string{"/w/d/deep"},
	)
	selectName(t, s, "d")

	require.NoError(t, s.Delete())
	assert.Equal(t, []string{"keep.txt"}, entryNames(s))

	_, err := mfs.Lstat("/w/d")
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteWithoutSelection(t *testing.T) {
	s, _ := newMemSession(t, "/w", []string{"/w/a"}, nil)
	assert.ErrorIs(t, s.Delete(), ErrNoSelection)
	assert.Equal(t, []string{"a"}, entryNames(s))
}

func TestCopyRequiresSelection(t *testing.T) {
	s, _ := newMemSession(t, "/w", []string{"/w/src/report.txt"}, nil)

	_, err := s.Paste()
	assert.ErrorIs(t, err, ErrClipboardEmpty)
	_, err = s.Copy()
	assert.ErrorIs(t, err, ErrNoSelection)

	require.NoError(t, s.Navigate("src"))
	assert.Equal(t, "/w/src", s.Dir())
	selectName(t, s, "report.txt")
	src, err := s.Copy()
	require.NoError(t, err)
	assert.Equal(t, "/w/src/report.txt", src)

	// Navigating keeps the clipboard
	require.NoError(t, s.Up())
	held, ok := s.Clipboard()
	assert.True(t, ok)
	assert.Equal(t, src, held)
}

func TestPasteIntoOtherDirectory(t *testing.T) {
	s, mfs := newMemSession(t, "/w",
		[]string{"/w/src/report.txt"},
		[]string{"/w/dst"},
	)
	require.NoError(t, s.Navigate("/w/src"))
	selectName(t, s, "report.txt")
	_, err := s.Copy()
	require.NoError(t, err)

	require.NoError(t, s.Navigate("/w/dst"))
	first, err := s.Paste()
	require.NoError(t, err)
	assert.Equal(t, "/w/dst/report.txt", first)

	// The clipboard is not consumed
	second, err := s.Paste()
	require.NoError(t, err)
	assert.Equal(t, "/w/dst/report.txt0", second)
	assert.Equal(t, []string{"report.txt", "report.txt0"}, entryNames(s))

	f, err := mfs.Open("/w/dst/report.txt0")
	require.NoError(t, err)
	defer f.Close()
	buf := make([]byte, 64)
	n, _ := f.Read(buf)
	assert.Equal(t, "report.txt", string(buf[:n]))
}

func TestPasteDirectoryUnsupported(t *testing.T) {
	s, _ := newMemSession(t, "/w", nil, []string{"/w/d"})
	selectName(t, s, "d")
	_, err := s.Copy()
	require.NoError(t, err)

	_, err = s.Paste()
	assert.ErrorIs(t, err, fileops.ErrUnsupportedOperation)
	assert.Equal(t, []string{"d"}, entryNames(s))
}

func TestNavigation(t *testing.T) {
	s, _ := newMemSession(t, "/w", []string{"/w/sub/f"}, nil)

	selectName(t, s, "sub")
	path, err := s.Activate()
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, "/w/sub", s.Dir())
	assert.Equal(t, []string{"f"}, entryNames(s))

	require.NoError(t, s.Select(0))
	path, err = s.Activate()
	require.NoError(t, err)
	assert.Equal(t, "/w/sub/f", path)
	assert.Equal(t, "/w/sub", s.Dir())

	require.NoError(t, s.Up())
	assert.Equal(t, "/w", s.Dir())
	_, ok := s.Selected()
	assert.False(t, ok)

	require.NoError(t, s.Up())
	require.NoError(t, s.Up())
	assert.Equal(t, "/", s.Dir())
}

func TestNavigateFailureKeepsState(t *testing.T) {
	s, _ := newMemSession(t, "/w", []string{"/w/a"}, nil)
	require.NoError(t, s.Select(0))

	err := s.Navigate("/nope")
	require.Error(t, err)
	assert.Equal(t, "/w", s.Dir())
	assert.Equal(t, []string{"a"}, entryNames(s))
	_, ok := s.Selected()
	assert.True(t, ok)
}

func TestEntriesIsACopy(t *testing.T) {
	s, _ := newMemSession(t, "/w", []string{"/w/a"}, nil)
	entries := s.Entries()
	entries[0].Name = "changed"
	assert.Equal(t, []string{"a"}, entryNames(s))
}

// failingExecutor fails every operation with err.
type failingExecutor struct {
	err   error
	calls int
}

func (f *failingExecutor) CreateFile(string) (string, error) {
	f.calls++
	return "", f.err
}

func (f *failingExecutor) CreateDir(string) (string, error) {
	f.calls++
	return "", f.err
}

func (f *failingExecutor) Delete(fileops.Entry) error {
	f.calls++
	return f.err
}

func (f *failingExecutor) CopyInto(string, string) (string, error) {
	f.calls++
	return "", f.err
}

func (f *failingExecutor) Rename(string, string) (fileops.RenameResult, error) {
	f.calls++
	return fileops.RenameResult{}, f.err
}

func TestFailureLeavesStateUnchanged(t *testing.T) {
	mfs := memfs.New()
	require.NoError(t, mfs.MkdirAll("/w/d", 0755))
	f, err := mfs.Create("/w/a")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	boom := errors.New("boom")
	exec := &failingExecutor{err: boom}
	s, err := New(fileops.NewLister(mfs), exec, "/w")
	require.NoError(t, err)

	selectName(t, s, "a")
	_, err = s.Copy()
	require.NoError(t, err)
	before := s.Entries()

	_, err = s.CreateFile()
	assert.ErrorIs(t, err, boom)
	_, err = s.CreateDir()
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, s.Delete(), boom)
	_, err = s.Paste()
	assert.ErrorIs(t, err, boom)

	require.NoError(t, s.BeginRename())
	require.NoError(t, s.SetRenameText("b"))
	_, err = s.CommitRename()
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, 5, exec.calls)
	assert.Equal(t, before, s.Entries())
	entry, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, "a", entry.Name)
	assert.True(t, s.Rename().Active())
	src, ok := s.Clipboard()
	assert.True(t, ok)
	assert.Equal(t, "/w/a", src)
}

func TestPrepareRunApply(t *testing.T) {
	s, _ := newMemSession(t, "/w", nil, nil)

	op, err := s.PrepareCreateFile()
	require.NoError(t, err)
	assert.Equal(t, OpCreateFile, op.Kind)
	assert.Equal(t, "/w", op.Target)

	done := make(chan Outcome)
	go func() { done <- op.Run() }()
	out := <-done

	assert.Equal(t, OpCreateFile, out.Kind)
	assert.Equal(t, "/w/new_file.txt", out.Path)
	assert.Empty(t, s.Entries(), "listing only changes in Apply")

	require.NoError(t, s.Apply(out))
	assert.Equal(t, []string{"new_file.txt"}, entryNames(s))
}

func TestSessionOnDisk(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0644))

	fsys := osfs.New("/")
	s, err := New(fileops.NewLister(fsys), fileops.NewExecutor(fsys), dir)
	require.NoError(t, err)

	selectName(t, s, "a.txt")
	_, err = s.Copy()
	require.NoError(t, err)
	pasted, err := s.Paste()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.txt0"), pasted)

	data, err := os.ReadFile(pasted)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, []string{"a.txt", "a.txt0"}, entryNames(s))
	for _, e := range s.Entries() {
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}$`, e.LastAccessed)
	}
}
