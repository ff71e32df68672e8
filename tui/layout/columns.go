package layout

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/metropolis/tui/styles"
)

// Responsive layout constants.
const (
	MinTerminalWidth = 70 // minimum terminal width for the grid + sidebar layout
	SidebarMinWidth  = 26 // minimum width for the cue/browser sidebar
)

// ComputeColumnWidths splits the terminal into the grid column and the
// sidebar column. The grid takes roughly 60% of the usable width; the
// sidebar never shrinks below SidebarMinWidth.
func ComputeColumnWidths(termWidth int) (grid, sidebar int) {
	// One border character between the columns.
	usable := termWidth - 1
	grid = usable * 3 / 5
	sidebar = usable - grid
	if sidebar < SidebarMinWidth {
		sidebar = SidebarMinWidth
		grid = usable - sidebar
	}
	return grid, sidebar
}

// JoinColumns joins pre-rendered column strings side by side with border
// separators. Each column is normalized to the given height and padded to
// its width.
func JoinColumns(columns []string, widths []int, height int) string {
	borderStr := lipgloss.NewStyle().
		Foreground(styles.Purple).
		Render("│")

	// Split each column into lines and normalize to height
	colLines := make([][]string, len(columns))
	for i, col := range columns {
		colLines[i] = NormalizeLines(strings.Split(col, "\n"), height)
	}

	var rows []string
	for row := 0; row < height; row++ {
		var parts []string
		for i, lines := range colLines {
			parts = append(parts, PadToWidth(lines[row], widths[i]))
		}
		rows = append(rows, strings.Join(parts, borderStr))
	}

	return strings.Join(rows, "\n")
}
