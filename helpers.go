package main

import (
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/skratchdot/open-golang/open"
)

// openFile hands path to the system's default application
func openFile(path string) tea.Cmd {
	return func() tea.Msg {
		return fileOpenResultMsg{path: path, err: open.Start(path)}
	}
}

// copyPath puts path on the system clipboard. This is separate from the
// in-app clipboard used by copy and paste.
func (m *model) copyPath(path string) {
	if err := clipboard.WriteAll(path); err != nil {
		m.setStatus("Failed to copy path: %v", err)
		return
	}
	m.setStatus("Copied path: %s", path)
}

func versionString() string {
	return fmt.Sprintf("fex %s", version)
}
