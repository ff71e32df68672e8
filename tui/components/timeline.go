package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/metropolis/tui/styles"
)

// Timeline renders a progress bar with cue-point markers for the selected
// clip. Cue markers show where navigation jumps will land.
func Timeline(timePos, duration float64, cues []float64, width int) string {
	if width < 20 {
		return ""
	}

	filledStyle := lipgloss.NewStyle().Foreground(styles.BrightPurple)
	unfilledStyle := lipgloss.NewStyle().Foreground(styles.Purple)
	timeStyle := lipgloss.NewStyle().Foreground(styles.LightLavender).Bold(true)
	markerStyle := lipgloss.NewStyle().Foreground(styles.Cyan)
	posStyle := lipgloss.NewStyle().Foreground(styles.Pink).Bold(true)

	currentStr := formatTime(timePos)
	totalStr := formatTime(duration)
	timeDisplay := fmt.Sprintf(" %s / %s", currentStr, totalStr)
	timeDisplayWidth := lipgloss.Width(timeDisplay)

	// Bar width = width minus time display, margins, and spacing.
	barWidth := width - timeDisplayWidth - 3
	if barWidth < 10 {
		barWidth = 10
	}

	var fillPos int
	if duration > 0 {
		fillPos = int(math.Round(float64(barWidth) * timePos / duration))
	}
	if fillPos < 0 {
		fillPos = 0
	}
	if fillPos > barWidth {
		fillPos = barWidth
	}

	// Place cue markers along the bar.
	markerPositions := make([]bool, barWidth)
	if duration > 0 {
		for _, t := range cues {
			pos := int(math.Round(float64(barWidth-1) * t / duration))
			if pos >= 0 && pos < barWidth {
				markerPositions[pos] = true
			}
		}
	}

	var barBuilder strings.Builder
	for i := 0; i < barWidth; i++ {
		switch {
		case markerPositions[i]:
			barBuilder.WriteString(markerStyle.Render("◆"))
		case i < fillPos:
			barBuilder.WriteString(filledStyle.Render("━"))
		case i == fillPos:
			barBuilder.WriteString(posStyle.Render("╸"))
		default:
			barBuilder.WriteString(unfilledStyle.Render("─"))
		}
	}

	return " " + barBuilder.String() + " " + timeStyle.Render(timeDisplay)
}
