package components

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/metropolis/tui/styles"
)

// CueItem is one cue point of the selected clip for display.
type CueItem struct {
	ID   string
	Time float64
}

// CueListState holds the cue list contents and selection.
type CueListState struct {
	// Items is sorted ascending by time, matching the clip's cue order.
	Items []CueItem
	// SelectedIndex is the highlighted cue.
	SelectedIndex int
	// ScrollOffset is the index of the first visible item.
	ScrollOffset int
}

// MoveUp moves the selection to the previous cue.
func (s *CueListState) MoveUp() {
	if s.SelectedIndex > 0 {
		s.SelectedIndex--
	}
	if s.SelectedIndex < s.ScrollOffset {
		s.ScrollOffset = s.SelectedIndex
	}
}

// MoveDown moves the selection to the next cue.
func (s *CueListState) MoveDown() {
	if s.SelectedIndex < len(s.Items)-1 {
		s.SelectedIndex++
	}
}

// GetSelected returns the selected cue, or nil when the list is empty.
func (s *CueListState) GetSelected() *CueItem {
	if s.SelectedIndex < 0 || s.SelectedIndex >= len(s.Items) {
		return nil
	}
	return &s.Items[s.SelectedIndex]
}

// CueList renders the cue points of the selected clip. The cue nearest the
// playhead is marked so the performer can see where the next jump lands.
func CueList(state CueListState, width, height int, timePos float64) string {
	headerStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)
	itemStyle := lipgloss.NewStyle().
		Foreground(styles.LightLavender)
	selectedStyle := lipgloss.NewStyle().
		Background(styles.BrightPurple).
		Foreground(styles.LightLavender).
		Bold(true)
	nearStyle := lipgloss.NewStyle().
		Foreground(styles.Green).
		Bold(true)
	emptyStyle := lipgloss.NewStyle().
		Foreground(styles.Lavender).
		Italic(true)

	lines := []string{headerStyle.Render(" Cue Points"), ""}

	if len(state.Items) == 0 {
		lines = append(lines, emptyStyle.Render(" No cues. Press c to mark one."))
		return joinLines(lines)
	}

	// Find the cue nearest the playhead.
	nearest := -1
	best := math.MaxFloat64
	for i, item := range state.Items {
		d := math.Abs(item.Time - timePos)
		if d < best {
			best = d
			nearest = i
		}
	}

	visible := height - len(lines)
	if visible < 1 {
		visible = 1
	}
	// Clamp scroll so the selection stays visible.
	offset := state.ScrollOffset
	if state.SelectedIndex >= offset+visible {
		offset = state.SelectedIndex - visible + 1
	}
	end := offset + visible
	if end > len(state.Items) {
		end = len(state.Items)
	}

	for i := offset; i < end; i++ {
		item := state.Items[i]
		marker := " "
		if i == nearest {
			marker = "◆"
		}
		line := fmt.Sprintf(" %s %2d  %s", marker, i+1, formatTime(item.Time))
		switch {
		case i == state.SelectedIndex:
			line = selectedStyle.Render(line)
		case i == nearest:
			line = nearStyle.Render(line)
		default:
			line = itemStyle.Render(line)
		}
		lines = append(lines, line)
	}

	return joinLines(lines)
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}
