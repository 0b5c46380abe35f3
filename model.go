package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/LFroesch/fex/internal/bookmarks"
	"github.com/LFroesch/fex/internal/config"
	"github.com/LFroesch/fex/internal/fileops"
	"github.com/LFroesch/fex/internal/logger"
	"github.com/LFroesch/fex/internal/session"
)

// opDoneMsg carries a finished file operation back to Update
type opDoneMsg struct{ out session.Outcome }

// File open result message
type fileOpenResultMsg struct {
	path string
	err  error
}

// Terminal dimension constants
const (
	minTerminalWidth  = 60
	minTerminalHeight = 12
	uiOverhead        = 6 // Header (1) + column header (1) + borders (2) + status (1) + help (1)
	sidebarWidth      = 22
)

const (
	statusDuration       = 3 * time.Second
	doubleClickThreshold = 400 * time.Millisecond
)

type mode int

const (
	modeNormal mode = iota
	modeFilter
	modeRename
	modeConfirmDelete
	modeHelp
	modeErrorDialog
)

type focus int

const (
	focusList focus = iota
	focusSidebar
)

type model struct {
	mode  mode
	focus focus
	sess  *session.Session
	cfg   *config.Config
	keys  keyMap
	help  help.Model

	bookmarks       []bookmarks.Bookmark
	sidebarCursor   int
	sidebarExpanded bool

	// visible holds listing indexes in display order; matches holds the
	// fuzzy-matched rune positions for each visible row.
	visible      []int
	matches      [][]int
	cursor       int
	scrollOffset int

	filterInput textinput.Model
	renameInput textinput.Model

	busy          bool
	width         int
	height        int
	statusMsg     string
	statusExpiry  time.Time
	errorMsg      string
	errorDetails  string
	afterError    mode
	lastClickTime time.Time
	lastClickRow  int
}

func newModel(sess *session.Session, cfg *config.Config, marks []bookmarks.Bookmark) *model {
	fi := textinput.New()
	fi.Placeholder = "Type to filter..."
	fi.Prompt = "/ "
	fi.CharLimit = 256

	ri := textinput.New()
	ri.CharLimit = 255
	ri.Prompt = "Name: "

	m := &model{
		mode:            modeNormal,
		focus:           focusList,
		sess:            sess,
		cfg:             cfg,
		keys:            defaultKeyMap(),
		help:            help.New(),
		bookmarks:       marks,
		sidebarExpanded: cfg.SidebarExpanded,
		filterInput:     fi,
		renameInput:     ri,
	}
	m.refreshView("")
	return m
}

func (m *model) getSafeWidth() int {
	if m.width < minTerminalWidth {
		return minTerminalWidth
	}
	return m.width
}

// getContentHeight returns the number of list rows that fit on screen
func (m *model) getContentHeight() int {
	h := m.height
	if h < minTerminalHeight {
		h = minTerminalHeight
	}
	h -= uiOverhead
	if h < 3 {
		h = 3
	}
	return h
}

// entrySource adapts a listing to fuzzy.Source
type entrySource []fileops.Entry

func (s entrySource) String(i int) string { return s[i].Name }
func (s entrySource) Len() int            { return len(s) }

// applyFilter recomputes the visible rows from the listing and the filter
// query. An empty query shows the whole listing in its sorted order.
func (m *model) applyFilter() {
	entries := m.sess.Entries()
	query := m.filterInput.Value()

	m.visible = m.visible[:0]
	m.matches = m.matches[:0]
	if query == "" {
		for i := range entries {
			m.visible = append(m.visible, i)
			m.matches = append(m.matches, nil)
		}
		return
	}

	for _, match := range fuzzy.FindFrom(query, entrySource(entries)) {
		m.visible = append(m.visible, match.Index)
		m.matches = append(m.matches, match.MatchedIndexes)
	}
}

// refreshView rebuilds the rows after the listing changed. The cursor
// lands on focusPath when it is listed, otherwise it is clamped.
func (m *model) refreshView(focusPath string) {
	m.applyFilter()

	if focusPath != "" {
		entries := m.sess.Entries()
		for row, idx := range m.visible {
			if entries[idx].Path == focusPath {
				m.cursor = row
				break
			}
		}
	}
	m.syncSelection()
}

// syncSelection clamps the cursor and mirrors it into the session
func (m *model) syncSelection() {
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if len(m.visible) == 0 {
		m.sess.ClearSelection()
		return
	}
	if err := m.sess.Select(m.visible[m.cursor]); err != nil {
		logger.Warn("Select row %d: %v", m.cursor, err)
		m.sess.ClearSelection()
	}

	visibleRows := m.getContentHeight()
	if m.scrollOffset > m.cursor {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+visibleRows {
		m.scrollOffset = m.cursor - visibleRows + 1
	}
}

func (m *model) moveCursor(delta int) {
	m.cursor += delta
	m.syncSelection()
}

// resetView is used after navigation: the filter and cursor start over
func (m *model) resetView() {
	m.filterInput.SetValue("")
	m.cursor = 0
	m.scrollOffset = 0
	m.refreshView("")
}

func (m *model) setStatus(format string, args ...any) {
	m.statusMsg = fmt.Sprintf(format, args...)
	m.statusExpiry = time.Now().Add(statusDuration)
}

// showError opens the error dialog; dismissing it returns to the current
// mode unless the caller changes afterError.
func (m *model) showError(title string, details string) {
	logger.Error("%s: %s", title, details)
	m.errorMsg = title
	m.errorDetails = details
	if m.mode != modeErrorDialog {
		m.afterError = m.mode
	}
	m.mode = modeErrorDialog
}

// startOp prepares a mutation and returns a command that runs it off the
// update loop. Only one operation may be in flight.
func (m *model) startOp(prepare func() (session.Op, error)) tea.Cmd {
	if m.busy {
		m.setStatus("Another operation is still running")
		return nil
	}
	op, err := prepare()
	if err != nil {
		m.showError("Cannot start operation", err.Error())
		return nil
	}
	m.busy = true
	return func() tea.Msg {
		return opDoneMsg{out: op.Run()}
	}
}

// finishOp applies a finished operation to the session
func (m *model) finishOp(out session.Outcome) {
	m.busy = false
	if err := m.sess.Apply(out); err != nil {
		title := fmt.Sprintf("Cannot %s", out.Kind)
		if out.Kind == session.OpRename && m.sess.Rename().Active() {
			m.mode = modeRename
			m.renameInput.Focus()
		}
		m.showError(title, err.Error())
		m.refreshView("")
		return
	}

	switch out.Kind {
	case session.OpDelete:
		m.setStatus("Deleted %s", out.Target)
		m.refreshView("")
	case session.OpRename:
		if out.Rename.Adjusted() {
			m.setStatus("Renamed to %s (%s was taken)", out.Path, out.Rename.Requested)
		} else {
			m.setStatus("Renamed to %s", out.Path)
		}
		m.refreshView(out.Path)
	default:
		m.setStatus("Created %s", out.Path)
		m.refreshView(out.Path)
	}
}

// beginRename opens the rename editor on the selected entry
func (m *model) beginRename() tea.Cmd {
	if m.busy {
		m.setStatus("Another operation is still running")
		return nil
	}
	if err := m.sess.BeginRename(); err != nil {
		m.showError("Cannot rename", err.Error())
		return nil
	}
	m.renameInput.SetValue(m.sess.Rename().Text())
	m.renameInput.CursorEnd()
	m.mode = modeRename
	return m.renameInput.Focus()
}

// commitRename submits the edited name. It is used both for enter and for
// the editor losing focus. The editor stays open when the rename cannot
// start, so the user can fix the name or cancel with esc.
func (m *model) commitRename() (tea.Cmd, bool) {
	if m.busy {
		m.setStatus("Another operation is still running")
		return nil, false
	}
	if err := m.sess.SetRenameText(m.renameInput.Value()); err != nil {
		m.cancelRename()
		m.showError("Cannot rename", err.Error())
		return nil, false
	}
	op, err := m.sess.PrepareRename()
	if err != nil {
		m.showError("Cannot rename", err.Error())
		return nil, false
	}
	m.renameInput.Blur()
	m.mode = modeNormal
	m.busy = true
	return func() tea.Msg {
		return opDoneMsg{out: op.Run()}
	}, true
}

func (m *model) cancelRename() {
	m.sess.CancelRename()
	m.renameInput.Blur()
	m.renameInput.SetValue("")
	m.mode = modeNormal
}

func (m *model) navigate(dir string) {
	if err := m.sess.Navigate(dir); err != nil {
		m.showError("Cannot open directory", err.Error())
		return
	}
	m.resetView()
}

func (m *model) goUp() {
	if err := m.sess.Up(); err != nil {
		m.showError("Cannot open parent directory", err.Error())
		return
	}
	m.resetView()
}

func (m *model) activate() tea.Cmd {
	before := m.sess.Dir()
	path, err := m.sess.Activate()
	if err != nil {
		m.showError("Cannot open", err.Error())
		return nil
	}
	if path == "" {
		if m.sess.Dir() != before {
			m.resetView()
		}
		return nil
	}
	return openFile(path)
}

func (m *model) refresh() {
	var keep string
	if entry, ok := m.sess.Selected(); ok {
		keep = entry.Path
	}
	if err := m.sess.Refresh(); err != nil {
		m.showError("Cannot refresh", err.Error())
		return
	}
	m.refreshView(keep)
}
