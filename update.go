package main

import (
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/LFroesch/fex/internal/logger"
)

func (m *model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("fex"),
		tea.EnableMouseCellMotion,
	)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.statusMsg != "" && time.Now().After(m.statusExpiry) {
		m.statusMsg = ""
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.syncSelection()
		return m, nil

	case opDoneMsg:
		m.finishOp(msg.out)
		return m, nil

	case fileOpenResultMsg:
		if msg.err != nil {
			m.showError("Cannot open file", msg.err.Error())
		} else {
			m.setStatus("Opened %s", filepath.Base(msg.path))
		}
		return m, nil

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.KeyMsg:
		switch m.mode {
		case modeErrorDialog:
			// Any key dismisses the error dialog
			m.mode = m.afterError
			if m.mode == modeRename {
				return m, m.renameInput.Focus()
			}
			return m, nil
		case modeHelp:
			m.mode = modeNormal
			return m, nil
		case modeConfirmDelete:
			return m, m.handleConfirmDeleteKey(msg)
		case modeRename:
			return m, m.handleRenameKey(msg)
		case modeFilter:
			return m, m.handleFilterKey(msg)
		}

		if m.focus == focusSidebar {
			return m, m.handleSidebarKey(msg)
		}
		return m, m.handleNormalKey(msg)
	}

	return m, nil
}

func (m *model) handleNormalKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Open):
		return m.activate()
	case key.Matches(msg, m.keys.Parent):
		m.goUp()
	case key.Matches(msg, m.keys.Copy):
		path, err := m.sess.Copy()
		if err != nil {
			m.showError("Cannot copy", err.Error())
			return nil
		}
		m.setStatus("Copied %s", filepath.Base(path))
	case key.Matches(msg, m.keys.Paste):
		return m.startOp(m.sess.PreparePaste)
	case key.Matches(msg, m.keys.Delete):
		if _, ok := m.sess.Selected(); !ok {
			m.setStatus("Nothing selected")
			return nil
		}
		if m.busy {
			m.setStatus("Another operation is still running")
			return nil
		}
		m.mode = modeConfirmDelete
	case key.Matches(msg, m.keys.Rename):
		return m.beginRename()
	case key.Matches(msg, m.keys.NewFile):
		return m.startOp(m.sess.PrepareCreateFile)
	case key.Matches(msg, m.keys.NewFolder):
		return m.startOp(m.sess.PrepareCreateDir)
	case key.Matches(msg, m.keys.Filter):
		m.mode = modeFilter
		return m.filterInput.Focus()
	case key.Matches(msg, m.keys.Refresh):
		m.refresh()
	case key.Matches(msg, m.keys.CopyPath):
		if entry, ok := m.sess.Selected(); ok {
			m.copyPath(entry.Path)
		}
	case key.Matches(msg, m.keys.Sidebar):
		m.toggleSidebar()
	case key.Matches(msg, m.keys.Focus):
		if m.sidebarExpanded {
			m.focus = focusSidebar
		}
	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp
	case msg.String() == "esc":
		if m.filterInput.Value() != "" {
			m.filterInput.SetValue("")
			m.refreshView(m.selectedPath())
		}
	}
	return nil
}

func (m *model) handleSidebarKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.sidebarCursor > 0 {
			m.sidebarCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.sidebarCursor < len(m.bookmarks)-1 {
			m.sidebarCursor++
		}
	case key.Matches(msg, m.keys.Open):
		if m.sidebarCursor < len(m.bookmarks) {
			m.navigate(m.bookmarks[m.sidebarCursor].Path)
			m.focus = focusList
		}
	case key.Matches(msg, m.keys.Focus), msg.String() == "esc":
		m.focus = focusList
	case key.Matches(msg, m.keys.Sidebar):
		m.toggleSidebar()
	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp
	}
	return nil
}

func (m *model) handleConfirmDeleteKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.mode = modeNormal
		return m.startOp(m.sess.PrepareDelete)
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeNormal
	}
	return nil
}

func (m *model) handleRenameKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		cmd, _ := m.commitRename()
		return cmd
	case "esc":
		m.cancelRename()
		return nil
	case "tab", "ctrl+s":
		// Leaving the editor commits it
		cmd, ok := m.commitRename()
		if !ok {
			return nil
		}
		if msg.String() == "ctrl+s" {
			m.toggleSidebar()
		} else if m.sidebarExpanded {
			m.focus = focusSidebar
		}
		return cmd
	}

	var cmd tea.Cmd
	m.renameInput, cmd = m.renameInput.Update(msg)
	if err := m.sess.SetRenameText(m.renameInput.Value()); err != nil {
		logger.Warn("Rename text update: %v", err)
	}
	return cmd
}

func (m *model) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.filterInput.SetValue("")
		m.filterInput.Blur()
		m.mode = modeNormal
		m.refreshView(m.selectedPath())
		return nil
	case "enter":
		m.filterInput.Blur()
		m.mode = modeNormal
		return nil
	case "up", "down":
		if msg.String() == "up" {
			m.moveCursor(-1)
		} else {
			m.moveCursor(1)
		}
		return nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.cursor = 0
	m.scrollOffset = 0
	m.refreshView("")
	return cmd
}

// listTop is the screen row of the first entry: header, border and
// column header.
const listTop = 3

func (m *model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.mode != modeNormal {
		return nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.moveCursor(-1)
	case tea.MouseButtonWheelDown:
		m.moveCursor(1)
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return nil
		}
		if m.sidebarExpanded && msg.X < sidebarWidth {
			row := msg.Y - listTop
			if row >= 0 && row < len(m.bookmarks) {
				m.sidebarCursor = row
				m.navigate(m.bookmarks[row].Path)
			}
			return nil
		}
		if msg.Y == 0 {
			m.goUp()
			return nil
		}

		row := m.scrollOffset + msg.Y - listTop
		if row < 0 || row >= len(m.visible) {
			return nil
		}
		m.focus = focusList
		now := time.Now()
		double := row == m.lastClickRow && now.Sub(m.lastClickTime) < doubleClickThreshold
		m.lastClickRow = row
		m.lastClickTime = now
		m.cursor = row
		m.syncSelection()
		if double {
			return m.activate()
		}
	}
	return nil
}

func (m *model) toggleSidebar() {
	m.sidebarExpanded = !m.sidebarExpanded
	if !m.sidebarExpanded {
		m.focus = focusList
	}
	m.cfg.SidebarExpanded = m.sidebarExpanded
}

func (m *model) selectedPath() string {
	if entry, ok := m.sess.Selected(); ok {
		return entry.Path
	}
	return ""
}
