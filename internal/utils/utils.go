package utils

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// EntryIcon returns the icon shown before an entry name
func EntryIcon(name string, isDir bool) string {
	if isDir {
		return "📁"
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".go", ".rs", ".py", ".js", ".ts", ".c", ".h", ".cpp", ".java", ".rb":
		return "📜"
	case ".json", ".yaml", ".yml", ".toml", ".ini", ".cfg":
		return "📋"
	case ".md", ".markdown", ".txt", ".log":
		return "📝"
	case ".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico", ".webp", ".bmp":
		return "🖼️"
	case ".mp4", ".avi", ".mov", ".mkv", ".webm":
		return "🎬"
	case ".mp3", ".wav", ".flac", ".ogg", ".m4a":
		return "🎵"
	case ".zip", ".tar", ".gz", ".rar", ".7z", ".xz":
		return "📦"
	case ".pdf":
		return "📕"
	case ".sh", ".bash", ".zsh":
		return "🖥️"
	default:
		return "📄"
	}
}

// FormatFileSize formats a size in bytes as a human-readable string
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

// FormatEntrySize renders the size column. Directories have no size.
func FormatEntrySize(size int64, isDir bool) string {
	if isDir {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render("-")
	}

	const (
		KB    = 1024
		MB    = 1024 * KB
		MB100 = 100 * MB
	)

	var style lipgloss.Style
	switch {
	case size < KB:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	case size < MB:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	case size < MB100:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	default:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	}
	return style.Render(FormatFileSize(size))
}

// HighlightMatches renders the runes at the given indexes in the match style
func HighlightMatches(text string, matches []int) string {
	if len(matches) == 0 {
		return text
	}

	highlight := lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	matched := make(map[int]bool, len(matches))
	for _, idx := range matches {
		matched[idx] = true
	}

	var b strings.Builder
	for i, r := range []rune(text) {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Truncate shortens s to at most width cells, marking the cut with "…"
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// PadRight pads s with spaces to width cells
func PadRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
