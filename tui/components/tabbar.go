package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/metropolis/tui/styles"
)

// TabBarState holds the tab strip contents.
type TabBarState struct {
	// Names is the tab list in display order.
	Names []string
	// ActiveIndex is the index of the active tab.
	ActiveIndex int
	// Dirty indicates unsaved session changes.
	Dirty bool
}

// TabBar renders the tab strip with the active tab highlighted and an
// unsaved-changes marker on the right.
func TabBar(state TabBarState, width int) string {
	activeStyle := lipgloss.NewStyle().
		Background(styles.BrightPurple).
		Foreground(styles.LightLavender).
		Bold(true).
		Padding(0, 1)
	inactiveStyle := lipgloss.NewStyle().
		Foreground(styles.Lavender).
		Padding(0, 1)
	dirtyStyle := lipgloss.NewStyle().
		Foreground(styles.Amber).
		Bold(true)

	var parts []string
	for i, name := range state.Names {
		label := fmt.Sprintf("%d:%s", i+1, name)
		if i == state.ActiveIndex {
			parts = append(parts, activeStyle.Render(label))
		} else {
			parts = append(parts, inactiveStyle.Render(label))
		}
	}
	left := " " + strings.Join(parts, " ")

	right := ""
	if state.Dirty {
		right = dirtyStyle.Render("● unsaved ")
	}

	pad := width - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 0 {
		pad = 0
	}

	barStyle := lipgloss.NewStyle().
		Background(styles.DarkPurple).
		Width(width)
	return barStyle.Render(left + strings.Repeat(" ", pad) + right)
}
