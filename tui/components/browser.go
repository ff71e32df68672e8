package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/metropolis/tui/styles"
)

// BrowserEntry is one row of the file browser listing.
type BrowserEntry struct {
	Name  string
	Size  int64
	IsDir bool
	// Video marks entries loadable into a grid slot; other files are shown
	// dimmed and are not clickable.
	Video bool
}

// BrowserState holds the file browser panel state.
type BrowserState struct {
	// Dir is the directory being listed.
	Dir string
	// Entries is the current listing, directories first.
	Entries []BrowserEntry
	// SelectedIndex is the highlighted entry.
	SelectedIndex int
	// ScrollOffset is the index of the first visible entry.
	ScrollOffset int
	// Focused indicates the browser has keyboard focus.
	Focused bool
}

// MoveUp moves the selection to the previous entry.
func (s *BrowserState) MoveUp() {
	if s.SelectedIndex > 0 {
		s.SelectedIndex--
	}
	if s.SelectedIndex < s.ScrollOffset {
		s.ScrollOffset = s.SelectedIndex
	}
}

// MoveDown moves the selection to the next entry.
func (s *BrowserState) MoveDown() {
	if s.SelectedIndex < len(s.Entries)-1 {
		s.SelectedIndex++
	}
}

// GetSelected returns the selected entry, or nil for an empty listing.
func (s *BrowserState) GetSelected() *BrowserEntry {
	if s.SelectedIndex < 0 || s.SelectedIndex >= len(s.Entries) {
		return nil
	}
	return &s.Entries[s.SelectedIndex]
}

// Browser renders the file browser panel: current directory header plus the
// listing, with video files highlighted as loadable.
func Browser(state BrowserState, width, height int) string {
	headerStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)
	if state.Focused {
		headerStyle = headerStyle.Foreground(styles.Pink)
	}
	dirStyle := lipgloss.NewStyle().
		Foreground(styles.Amber)
	videoStyle := lipgloss.NewStyle().
		Foreground(styles.LightLavender)
	otherStyle := lipgloss.NewStyle().
		Foreground(styles.Purple)
	selectedStyle := lipgloss.NewStyle().
		Background(styles.BrightPurple).
		Foreground(styles.LightLavender).
		Bold(true)

	dir := state.Dir
	maxDir := width - 10
	if maxDir > 0 && len(dir) > maxDir {
		dir = "…" + dir[len(dir)-maxDir+1:]
	}
	lines := []string{headerStyle.Render(" Browser ") + dirStyle.Render(dir), ""}

	visible := height - len(lines)
	if visible < 1 {
		visible = 1
	}
	offset := state.ScrollOffset
	if state.SelectedIndex >= offset+visible {
		offset = state.SelectedIndex - visible + 1
	}
	end := offset + visible
	if end > len(state.Entries) {
		end = len(state.Entries)
	}

	for i := offset; i < end; i++ {
		e := state.Entries[i]
		var line string
		switch {
		case e.IsDir:
			line = fmt.Sprintf(" ▸ %s/", e.Name)
		case e.Video:
			line = fmt.Sprintf("   %s %s", e.Name, formatSize(e.Size))
		default:
			line = fmt.Sprintf("   %s", e.Name)
		}

		switch {
		case i == state.SelectedIndex && state.Focused:
			line = selectedStyle.Render(line)
		case e.IsDir:
			line = dirStyle.Render(line)
		case e.Video:
			line = videoStyle.Render(line)
		default:
			line = otherStyle.Render(line)
		}
		lines = append(lines, line)
	}

	if len(state.Entries) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(styles.Lavender).
			Italic(true)
		lines = append(lines, emptyStyle.Render(" (empty directory)"))
	}

	return joinLines(lines)
}

// formatSize renders a byte count in a compact human form.
func formatSize(size int64) string {
	const (
		kb = 1 << 10
		mb = 1 << 20
		gb = 1 << 30
	)
	switch {
	case size >= gb:
		return fmt.Sprintf("(%.1fG)", float64(size)/gb)
	case size >= mb:
		return fmt.Sprintf("(%.0fM)", float64(size)/mb)
	case size >= kb:
		return fmt.Sprintf("(%.0fK)", float64(size)/kb)
	default:
		return fmt.Sprintf("(%dB)", size)
	}
}
