package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/LFroesch/fex/internal/utils"
)

const (
	sizeColumnWidth = 10
	timeColumnWidth = 16
)

func (m *model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var mainContent string
	switch m.mode {
	case modeErrorDialog:
		mainContent = m.renderErrorDialog()
	case modeConfirmDelete:
		mainContent = m.renderConfirmDeleteView()
	case modeHelp:
		mainContent = m.renderHelpView()
	default:
		listWidth := m.getSafeWidth()
		if m.sidebarExpanded {
			listWidth -= sidebarWidth
			mainContent = lipgloss.JoinHorizontal(lipgloss.Top,
				m.renderSidebar(),
				m.renderFileList(listWidth),
			)
		} else {
			mainContent = m.renderFileList(listWidth)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		mainContent,
		m.renderStatusBar(),
	)
}

func (m *model) renderHeader() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		Background(lipgloss.Color("235")).
		Padding(0, 1).
		Width(m.getSafeWidth())

	upStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Background(lipgloss.Color("235")).
		Bold(true)

	return titleStyle.Render(upStyle.Render("⬆ up") + "  " + m.sess.Dir())
}

func (m *model) renderSidebar() string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth - 2).
		Height(m.getContentHeight() + 1)
	if m.focus == focusSidebar {
		boxStyle = boxStyle.BorderForeground(lipgloss.Color("105"))
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("105"))
	selectedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color("62")).
		Bold(true)
	normalStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	lines := []string{titleStyle.Render("Places")}
	for i, b := range m.bookmarks {
		label := utils.Truncate(b.Name, sidebarWidth-4)
		if m.focus == focusSidebar && i == m.sidebarCursor {
			lines = append(lines, selectedStyle.Render(label))
		} else {
			lines = append(lines, normalStyle.Render(label))
		}
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func (m *model) renderFileList(width int) string {
	contentHeight := m.getContentHeight()
	innerWidth := width - 2
	nameWidth := innerWidth - sizeColumnWidth - timeColumnWidth - 4
	if nameWidth < 10 {
		nameWidth = 10
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("105"))
	header := headerStyle.Render(
		utils.PadRight("Name", nameWidth+3) +
			utils.PadRight("Size", sizeColumnWidth+1) +
			"Last accessed",
	)

	lines := []string{header}
	entries := m.sess.Entries()
	if len(m.visible) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
		if m.filterInput.Value() != "" {
			lines = append(lines, emptyStyle.Render("No matches"))
		} else {
			lines = append(lines, emptyStyle.Render("Empty directory"))
		}
	}

	selectedStyle := lipgloss.NewStyle().
		Background(lipgloss.Color("62")).
		Foreground(lipgloss.Color("255"))
	dirStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	timeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	end := m.scrollOffset + contentHeight
	if end > len(m.visible) {
		end = len(m.visible)
	}
	for row := m.scrollOffset; row < end; row++ {
		entry := entries[m.visible[row]]
		selected := row == m.cursor && m.focus == focusList

		var name string
		if selected && m.mode == modeRename {
			name = m.renameInput.View()
		} else {
			plain := utils.Truncate(entry.Name, nameWidth)
			if selected {
				name = plain
			} else {
				name = utils.HighlightMatches(plain, m.matches[row])
				if entry.IsDir() {
					name = dirStyle.Render(name)
				}
			}
		}

		line := utils.EntryIcon(entry.Name, entry.IsDir()) + " " +
			utils.PadRight(name, nameWidth+1) +
			utils.PadRight(utils.FormatEntrySize(entry.Size, entry.IsDir()), sizeColumnWidth+1) +
			timeStyle.Render(entry.LastAccessed)
		if selected && m.mode != modeRename {
			line = selectedStyle.Render(utils.PadRight(line, innerWidth))
		}
		lines = append(lines, line)
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(innerWidth).
		Height(contentHeight + 1)
	if m.focus == focusList {
		boxStyle = boxStyle.BorderForeground(lipgloss.Color("105"))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func (m *model) renderStatusBar() string {
	statusStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Background(lipgloss.Color("235")).
		Padding(0, 1).
		Width(m.getSafeWidth())

	var left string
	switch {
	case m.mode == modeFilter:
		left = m.filterInput.View()
	case m.mode == modeRename:
		left = "Renaming: enter to apply, esc to cancel"
	case m.busy:
		left = "Working..."
	case m.statusMsg != "":
		left = m.statusMsg
	default:
		left = fmt.Sprintf("%d items", len(m.sess.Entries()))
		if q := m.filterInput.Value(); q != "" {
			left = fmt.Sprintf("%d of %d items match %q", len(m.visible), len(m.sess.Entries()), q)
		}
		if src, ok := m.sess.Clipboard(); ok {
			left += "  |  clipboard: " + utils.Truncate(src, 40)
		}
	}

	return statusStyle.Render(left) + "\n" + m.help.View(m.keys)
}

func (m *model) renderConfirmDeleteView() string {
	entry, _ := m.sess.Selected()
	kind := "file"
	if entry.IsDir() {
		kind = "folder and everything in it"
	}
	body := fmt.Sprintf("Permanently delete this %s?\n\n%s", kind, entry.Path)
	return m.renderDialog("🗑  Delete", body, "y/enter to delete, n/esc to cancel", lipgloss.Color("214"))
}

func (m *model) renderErrorDialog() string {
	body := fmt.Sprintf("%s\n\nDetails:\n%s", m.errorMsg, m.errorDetails)
	return m.renderDialog("❌ Error", body, "Press any key to continue", lipgloss.Color("196"))
}

func (m *model) renderHelpView() string {
	h := m.help
	h.ShowAll = true
	return m.renderDialog("Keys", h.View(m.keys), "Press any key to close", lipgloss.Color("105"))
}

func (m *model) renderDialog(title, body, prompt string, accent lipgloss.Color) string {
	dialogWidth := 70
	if dialogWidth > m.getSafeWidth()-4 {
		dialogWidth = m.getSafeWidth() - 4
	}

	dialogStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(1, 2).
		Width(dialogWidth)

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	contentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Padding(1, 0)
	promptStyle := lipgloss.NewStyle().Bold(true)

	rendered := dialogStyle.Render(
		titleStyle.Render(title) + "\n" +
			contentStyle.Render(body) + "\n" +
			promptStyle.Render(prompt),
	)

	return lipgloss.Place(m.getSafeWidth(), m.getContentHeight()+2,
		lipgloss.Center, lipgloss.Center, rendered)
}
