// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/user/metropolis/tui/styles"
)

// GridCols and GridRows fix the clip grid dimensions.
const (
	GridCols = 6
	GridRows = 6
)

// GridCell is the display state of one slot.
type GridCell struct {
	// Name is the clip label; empty for an unassigned slot.
	Name string
	// Loaded indicates a clip is assigned to the slot.
	Loaded bool
	// CueCount is the number of cue points on the loaded clip.
	CueCount int
}

// GridState holds the grid selection and cell contents.
type GridState struct {
	// Cells is indexed by slot (0..35), row-major.
	Cells [GridRows * GridCols]GridCell
	// Selected is the selected slot index.
	Selected int
	// PlayingSlot is the slot whose clip is loaded in the player, or -1.
	PlayingSlot int
}

// MoveLeft moves the selection one column left, stopping at the edge.
func (s *GridState) MoveLeft() {
	if s.Selected%GridCols > 0 {
		s.Selected--
	}
}

// MoveRight moves the selection one column right, stopping at the edge.
func (s *GridState) MoveRight() {
	if s.Selected%GridCols < GridCols-1 {
		s.Selected++
	}
}

// MoveUp moves the selection one row up, stopping at the edge.
func (s *GridState) MoveUp() {
	if s.Selected >= GridCols {
		s.Selected -= GridCols
	}
}

// MoveDown moves the selection one row down, stopping at the edge.
func (s *GridState) MoveDown() {
	if s.Selected < (GridRows-1)*GridCols {
		s.Selected += GridCols
	}
}

// Grid renders the 6x6 clip grid. Each cell shows the slot number and the
// clip label, with distinct styles for empty, loaded, selected, and playing
// slots.
func Grid(state GridState, width, height int) string {
	// Cell width: grid width minus a left margin, split evenly.
	cellW := (width - 1) / GridCols
	if cellW < 5 {
		cellW = 5
	}
	// Each cell renders as 2 lines plus a spacer row between grid rows.
	cellH := (height - 1) / GridRows
	if cellH < 2 {
		cellH = 2
	}

	emptyStyle := lipgloss.NewStyle().
		Foreground(styles.Purple)
	loadedStyle := lipgloss.NewStyle().
		Foreground(styles.LightLavender)
	selectedStyle := lipgloss.NewStyle().
		Background(styles.BrightPurple).
		Foreground(styles.LightLavender).
		Bold(true)
	playingStyle := lipgloss.NewStyle().
		Foreground(styles.Green).
		Bold(true)

	var rows []string
	for row := 0; row < GridRows; row++ {
		// Each grid row becomes cellH terminal lines.
		lines := make([]string, cellH)
		for i := range lines {
			lines[i] = " "
		}
		for col := 0; col < GridCols; col++ {
			slot := row*GridCols + col
			cell := state.Cells[slot]

			style := emptyStyle
			if cell.Loaded {
				style = loadedStyle
			}
			if slot == state.PlayingSlot {
				style = playingStyle
			}
			if slot == state.Selected {
				style = selectedStyle
			}

			lines[0] += renderCellLine(cellTopLine(slot, cell, cellW), cellW, style)
			if cellH > 1 {
				lines[1] += renderCellLine(cellNameLine(cell, cellW), cellW, style)
			}
			for i := 2; i < cellH; i++ {
				lines[i] += renderCellLine("", cellW, style)
			}
		}
		rows = append(rows, strings.Join(lines, "\n"))
	}

	return strings.Join(rows, "\n\n")
}

// cellTopLine builds the first line of a cell: slot number plus cue count.
func cellTopLine(slot int, cell GridCell, width int) string {
	label := fmt.Sprintf("%02d", slot)
	if cell.Loaded && cell.CueCount > 0 {
		label += fmt.Sprintf(" ◆%d", cell.CueCount)
	}
	return label
}

// cellNameLine builds the second line of a cell: the truncated clip name.
func cellNameLine(cell GridCell, width int) string {
	if !cell.Loaded {
		return "·"
	}
	name := cell.Name
	max := width - 2
	if max < 3 {
		max = 3
	}
	if lipgloss.Width(name) > max {
		// Grapheme-aware truncation; byte slicing would split multibyte
		// runes in non-ASCII file names.
		name = ansi.Truncate(name, max, "…")
	}
	return name
}

// renderCellLine pads one cell line to the cell width and applies the style.
func renderCellLine(text string, width int, style lipgloss.Style) string {
	inner := width - 1
	if inner < 1 {
		inner = 1
	}
	if lipgloss.Width(text) > inner {
		text = ansi.Truncate(text, inner, "")
	}
	pad := inner - lipgloss.Width(text)
	if pad < 0 {
		pad = 0
	}
	padded := " " + text + strings.Repeat(" ", pad)
	return style.Render(padded)
}
