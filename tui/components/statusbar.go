package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/metropolis/tui/styles"
)

// StatusBarState holds the current transport state for the status bar.
type StatusBarState struct {
	// PlayIntent is the user's desired play state.
	PlayIntent bool
	// Playing is the player's reported play state.
	Playing bool
	// Rate is the signed playback rate; negative means reverse.
	Rate float64
	// TimePos is the current playback position in seconds.
	TimePos float64
	// Duration is the loaded clip's duration in seconds.
	Duration float64
	// Muted indicates if audio is muted.
	Muted bool
	// SelectedSlot is the selected grid slot, or -1 when nothing is selected.
	SelectedSlot int
	// ClipName is the loaded clip's label, empty when the slot is empty.
	ClipName string
	// OutputOn indicates the external output mirror is connected.
	OutputOn bool
}

// StatusBar renders the transport status line: play state (intent vs actual),
// position, rate and direction, selected slot, and the output indicator.
func StatusBar(state StatusBarState, width int) string {
	// Intent and actual state can disagree while a load is in flight or
	// after end-of-media; the armed icon shows intent waiting for a clip.
	var playIcon string
	switch {
	case state.Playing:
		playIcon = "▶"
	case state.PlayIntent:
		playIcon = "▶…"
	default:
		playIcon = "⏸"
	}

	timeStr := formatTime(state.TimePos)
	durationStr := formatTime(state.Duration)

	slotStr := "--"
	if state.SelectedSlot >= 0 {
		slotStr = fmt.Sprintf("%02d", state.SelectedSlot)
	}
	clip := state.ClipName
	if clip == "" {
		clip = "(empty)"
	}

	leftContent := fmt.Sprintf(" %s %s / %s  slot %s %s", playIcon, timeStr, durationStr, slotStr, clip)

	direction := "fwd"
	rate := state.Rate
	if rate < 0 {
		direction = "rev"
		rate = -rate
	}
	var muteIcon string
	if state.Muted {
		muteIcon = " 🔇"
	}
	var outputIcon string
	if state.OutputOn {
		outputIcon = " 📺"
	}
	rightContent := fmt.Sprintf("%.1fx %s%s%s ", rate, direction, muteIcon, outputIcon)

	// Calculate padding between left and right content
	leftWidth := lipgloss.Width(leftContent)
	rightWidth := lipgloss.Width(rightContent)
	padding := width - leftWidth - rightWidth
	if padding < 0 {
		padding = 0
	}

	middle := ""
	for i := 0; i < padding; i++ {
		middle += " "
	}

	content := leftContent + middle + rightContent

	statusBarStyle := lipgloss.NewStyle().
		Background(styles.DarkPurple).
		Foreground(styles.LightLavender).
		Bold(true).
		Width(width)

	return statusBarStyle.Render(content)
}

// formatTime formats seconds as MM:SS.
func formatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalSeconds := int(seconds)
	mins := totalSeconds / 60
	secs := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d", mins, secs)
}
