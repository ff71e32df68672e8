// Package forms provides huh-based form components for Metropolis prompts.
package forms

import (
	"github.com/charmbracelet/huh"
)

// NewResumeSessionForm creates a confirm form asking whether to resume the
// previously saved session or start fresh. The result pointer is bound to
// the confirm field value.
func NewResumeSessionForm(resume *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Resume saved session?").
				Description("A saved session with clip assignments and cue points was found.").
				Affirmative("Resume").
				Negative("Start fresh").
				Value(resume),
		),
	).WithTheme(Theme())
}

// NewConfirmDiscardForm creates a confirm form asking whether to quit with
// unsaved session changes.
func NewConfirmDiscardForm(discard *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Discard unsaved changes?").
				Description("The session has unsaved clip or cue changes.").
				Affirmative("Yes, discard").
				Negative("No, go back").
				Value(discard),
		),
	).WithTheme(Theme())
}

// NewMediaDirForm creates an input form asking for the media directory the
// file browser should start in.
func NewMediaDirForm(dir *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Media directory").
				Description("Directory the file browser opens in.").
				Value(dir),
		),
	).WithTheme(Theme())
}
