package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/metropolis/tui/styles"
)

// centerContent centers a block of content within the terminal, wrapped in a
// bordered panel.
func centerContent(content string, width, height int) string {
	contentLines := strings.Split(content, "\n")
	contentHeight := len(contentLines)
	contentWidth := 0
	for _, line := range contentLines {
		w := lipgloss.Width(line)
		if w > contentWidth {
			contentWidth = w
		}
	}

	// Account for panel border and padding.
	paddedWidth := contentWidth + 4
	paddedHeight := contentHeight + 2

	marginLeft := (width - paddedWidth) / 2
	if marginLeft < 0 {
		marginLeft = 0
	}
	marginTop := (height - paddedHeight) / 2
	if marginTop < 0 {
		marginTop = 0
	}

	panelStyle := lipgloss.NewStyle().
		Background(styles.DarkPurple).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.BrightPurple).
		Padding(1, 2)

	positionedStyle := lipgloss.NewStyle().
		MarginLeft(marginLeft).
		MarginTop(marginTop)

	return positionedStyle.Render(panelStyle.Render(content))
}
