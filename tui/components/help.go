package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/metropolis/tui/styles"
)

// HelpOverlay renders the help overlay showing all keybindings, grouped by
// function. Any key dismisses it.
func HelpOverlay(width, height int) string {
	groups := []struct {
		title    string
		bindings []struct {
			key  string
			desc string
		}
	}{
		{
			title: "Transport",
			bindings: []struct {
				key  string
				desc string
			}{
				{"Space", "Toggle play/pause"},
				{"f", "Play forward"},
				{"r", "Play reverse"},
				{"0", "Restart (first cue, or start)"},
				{"m", "Toggle mute"},
			},
		},
		{
			title: "Grid",
			bindings: []struct {
				key  string
				desc string
			}{
				{"↑↓←→ / hjkl", "Move slot selection"},
				{"Enter", "Trigger selected slot"},
				{"x", "Clear selected slot"},
				{"Tab / Shift+Tab", "Next / previous tab"},
			},
		},
		{
			title: "Cue points",
			bindings: []struct {
				key  string
				desc string
			}{
				{"c", "Record cue at playhead"},
				{"[", "Jump to previous cue"},
				{"]", "Jump to next cue"},
				{"d", "Delete selected cue"},
			},
		},
		{
			title: "Browser & commands",
			bindings: []struct {
				key  string
				desc string
			}{
				{"b", "Focus/unfocus file browser"},
				{"Enter (browser)", "Open dir / load file into slot"},
				{"Backspace (browser)", "Parent directory"},
				{":", "Command mode"},
				{"?", "Show/hide this help"},
				{"q", "Quit"},
			},
		},
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true).
		Padding(0, 1)
	groupHeaderStyle := lipgloss.NewStyle().
		Foreground(styles.Pink).
		Bold(true).
		MarginTop(1)
	keyStyle := lipgloss.NewStyle().
		Foreground(styles.Lavender).
		Bold(true).
		Width(22)
	descStyle := lipgloss.NewStyle().
		Foreground(styles.LightLavender)

	var lines []string
	lines = append(lines, titleStyle.Render("Metropolis Keys"))
	for _, g := range groups {
		lines = append(lines, groupHeaderStyle.Render(g.title))
		for _, b := range g.bindings {
			lines = append(lines, keyStyle.Render(" "+b.key)+descStyle.Render(b.desc))
		}
	}

	hintStyle := lipgloss.NewStyle().
		Foreground(styles.Lavender).
		Italic(true).
		MarginTop(1)
	lines = append(lines, hintStyle.Render("Press any key to close"))

	return centerContent(strings.Join(lines, "\n"), width, height)
}
