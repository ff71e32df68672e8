package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/user/metropolis/tui/styles"
)

// CommandInputState holds the state for the command input line. The cursor
// is always at the end of the buffer.
type CommandInputState struct {
	// Active indicates if command mode is active
	Active bool
	// Input is the current command input buffer
	Input string
	// Result is the result message to display (success or error)
	Result string
	// IsError indicates if the result is an error message
	IsError bool
}

// CommandInput renders the command input line.
// When active, it shows a ':' prompt with the current input.
// When not active but there's a result, it shows the result message.
func CommandInput(state CommandInputState, width int) string {
	lineStyle := lipgloss.NewStyle().
		Background(styles.DarkPurple).
		Width(width)

	if state.Active {
		promptStyle := lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)
		inputStyle := lipgloss.NewStyle().
			Foreground(styles.LightLavender)
		return lineStyle.Render(promptStyle.Render(":") + inputStyle.Render(state.Input+"_"))
	}

	if state.Result != "" {
		var resultStyle lipgloss.Style
		if state.IsError {
			resultStyle = lipgloss.NewStyle().
				Foreground(styles.Pink).
				Bold(true)
		} else {
			resultStyle = lipgloss.NewStyle().
				Foreground(styles.Cyan).
				Bold(true)
		}
		return lineStyle.Render(" " + resultStyle.Render(state.Result))
	}

	return lineStyle.Render(" ")
}

// InsertChar appends a character to the input buffer.
func (s *CommandInputState) InsertChar(c rune) {
	s.Input += string(c)
}

// Backspace deletes the last character of the input buffer.
func (s *CommandInputState) Backspace() {
	if len(s.Input) > 0 {
		s.Input = s.Input[:len(s.Input)-1]
	}
}

// Clear clears the input buffer and deactivates command mode.
func (s *CommandInputState) Clear() {
	s.Input = ""
	s.Active = false
}

// GetCommand returns the current command and clears the input.
func (s *CommandInputState) GetCommand() string {
	cmd := s.Input
	s.Clear()
	return cmd
}

// SetResult sets the result message.
func (s *CommandInputState) SetResult(msg string, isError bool) {
	s.Result = msg
	s.IsError = isError
}

// ClearResult clears the result message.
func (s *CommandInputState) ClearResult() {
	s.Result = ""
	s.IsError = false
}
