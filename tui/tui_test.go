package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/user/metropolis/session"
	"github.com/user/metropolis/transport"
)

// nopPlayer accepts every transport command.
type nopPlayer struct{}

func (nopPlayer) Load(string) error  { return nil }
func (nopPlayer) Play(float64) error { return nil }
func (nopPlayer) Pause() error       { return nil }
func (nopPlayer) Seek(float64) error { return nil }
func (nopPlayer) Stop() error        { return nil }

// rejectingPlayer refuses every load.
type rejectingPlayer struct{ nopPlayer }

func (rejectingPlayer) Load(string) error { return errors.New("load refused") }

func newTestModel() *Model {
	sess := session.New()
	rec := transport.New(nopPlayer{}, session.DefaultRate)
	return NewModel(nil, rec, sess, nil, "")
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func typeString(m *Model, s string) {
	for _, r := range s {
		m.Update(keyRune(r))
	}
}

func TestGridMovement(t *testing.T) {
	m := newTestModel()

	m.Update(keyRune('l'))
	if m.grid.Selected != 1 {
		t.Errorf("selected = %d, want 1", m.grid.Selected)
	}
	m.Update(keyRune('j'))
	if m.grid.Selected != 7 {
		t.Errorf("selected = %d, want 7", m.grid.Selected)
	}
	m.Update(keyRune('h'))
	m.Update(keyRune('k'))
	if m.grid.Selected != 0 {
		t.Errorf("selected = %d, want 0", m.grid.Selected)
	}

	// Edges stop movement.
	m.Update(keyRune('h'))
	m.Update(keyRune('k'))
	if m.grid.Selected != 0 {
		t.Errorf("selection moved past the edge: %d", m.grid.Selected)
	}
}

func TestTriggerEmptySlotStopsPlayback(t *testing.T) {
	m := newTestModel()
	m.rec.TogglePlay()

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.statusBar.SelectedSlot != 0 {
		t.Errorf("selected slot = %d, want 0", m.statusBar.SelectedSlot)
	}
	if m.grid.PlayingSlot != -1 {
		t.Errorf("playing slot = %d, want -1", m.grid.PlayingSlot)
	}
	if m.rec.ActualPlaying() {
		t.Error("empty slot should stop playback")
	}
	if !m.rec.PlayIntent() {
		t.Error("empty slot must not clear play intent")
	}
}

func TestTriggerLoadedSlotStartsLoad(t *testing.T) {
	m := newTestModel()
	m.sess.AssignClip(m.sess.ActiveTabID(), 0, "/media/a.mp4", "a.mp4")
	m.refreshGrid()

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if !m.awaitingReady {
		t.Error("trigger should await readiness")
	}
	if m.pendingGen != m.rec.Generation() {
		t.Errorf("pending gen = %d, rec gen = %d", m.pendingGen, m.rec.Generation())
	}
	if m.grid.PlayingSlot != 0 {
		t.Errorf("playing slot = %d, want 0", m.grid.PlayingSlot)
	}
	if m.statusBar.ClipName != "a.mp4" {
		t.Errorf("clip name = %q", m.statusBar.ClipName)
	}
}

func TestTriggerRejectedLoadNeverShowsPlaying(t *testing.T) {
	sess := session.New()
	rec := transport.New(rejectingPlayer{}, session.DefaultRate)
	m := NewModel(nil, rec, sess, nil, "")
	m.sess.AssignClip(m.sess.ActiveTabID(), 0, "/media/a.mp4", "a.mp4")
	m.refreshGrid()
	m.rec.TogglePlay()

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.grid.PlayingSlot != -1 {
		t.Errorf("playing slot = %d, want -1 for a rejected load", m.grid.PlayingSlot)
	}
	if m.awaitingReady {
		t.Error("rejected load must not await readiness")
	}
	if !m.commandInput.IsError {
		t.Errorf("result = %q, want an error", m.commandInput.Result)
	}
	if !m.rec.PlayIntent() {
		t.Error("rejected load must not clear play intent")
	}
}

func TestReadyClearsPendingLoad(t *testing.T) {
	m := newTestModel()
	m.sess.AssignClip(m.sess.ActiveTabID(), 0, "/media/a.mp4", "a.mp4")
	m.refreshGrid()
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	m.applyPlayerStatus(playerStatus{durationKnown: true, duration: 42.5})

	if m.awaitingReady {
		t.Error("duration report should complete the pending load")
	}
	if m.statusBar.Duration != 42.5 {
		t.Errorf("duration = %v, want 42.5", m.statusBar.Duration)
	}
	if m.grid.PlayingSlot != 0 {
		t.Errorf("playing slot = %d, want 0", m.grid.PlayingSlot)
	}
}

func TestDeadLoadDetectedAfterGrace(t *testing.T) {
	m := newTestModel()
	m.sess.AssignClip(m.sess.ActiveTabID(), 0, "/media/broken.mp4", "broken.mp4")
	m.refreshGrid()
	m.rec.TogglePlay()
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	// Idle inside the grace window is inconclusive: a slow file looks the
	// same as a rejected one at first.
	for i := 0; i < loadFailureGraceTicks; i++ {
		m.applyPlayerStatus(playerStatus{idle: true})
	}
	if !m.awaitingReady {
		t.Fatal("load declared dead inside the grace window")
	}

	m.applyPlayerStatus(playerStatus{idle: true})

	if m.awaitingReady {
		t.Error("load still pending after the grace window expired")
	}
	if m.grid.PlayingSlot != -1 {
		t.Errorf("playing slot = %d, want -1", m.grid.PlayingSlot)
	}
	if m.rec.ActualPlaying() {
		t.Error("dead load must not report actual playback")
	}
	if !m.rec.PlayIntent() {
		t.Error("dead load must not clear play intent")
	}
	if !m.commandInput.IsError || !strings.Contains(m.commandInput.Result, "could not load") {
		t.Errorf("result = %q (err=%v)", m.commandInput.Result, m.commandInput.IsError)
	}
}

func TestRetriggerResetsDeadLoadGrace(t *testing.T) {
	m := newTestModel()
	m.sess.AssignClip(m.sess.ActiveTabID(), 0, "/media/a.mp4", "a.mp4")
	m.refreshGrid()
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	for i := 0; i < loadFailureGraceTicks; i++ {
		m.applyPlayerStatus(playerStatus{idle: true})
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	m.applyPlayerStatus(playerStatus{idle: true})
	if !m.awaitingReady {
		t.Error("a fresh trigger must restart the grace window")
	}
}

func TestRecordCueWithoutSelection(t *testing.T) {
	m := newTestModel()

	m.Update(keyRune('c'))

	if m.commandInput.Result != "No clip selected" || !m.commandInput.IsError {
		t.Errorf("result = %q (err=%v)", m.commandInput.Result, m.commandInput.IsError)
	}
}

func TestRecordCueOnCurrentClip(t *testing.T) {
	m := newTestModel()
	m.sess.AssignClip(m.sess.ActiveTabID(), 0, "/media/a.mp4", "a.mp4")
	m.refreshGrid()
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.statusBar.TimePos = 7.5

	m.Update(keyRune('c'))

	clip := m.sess.Clip(m.sess.ActiveTabID(), 0)
	if len(clip.CuePoints) != 1 || clip.CuePoints[0].Time != 7.5 {
		t.Errorf("cues = %+v", clip.CuePoints)
	}
	if !m.sess.Dirty() {
		t.Error("recording a cue should dirty the session")
	}
	if len(m.cueList.Items) != 1 {
		t.Errorf("cue list items = %d", len(m.cueList.Items))
	}
}

func TestSeekNextExhaustedShowsError(t *testing.T) {
	m := newTestModel()
	m.sess.AssignClip(m.sess.ActiveTabID(), 0, "/media/a.mp4", "a.mp4")
	m.refreshGrid()
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	m.Update(keyRune(']'))

	if m.commandInput.Result != "No more cue points" || !m.commandInput.IsError {
		t.Errorf("result = %q (err=%v)", m.commandInput.Result, m.commandInput.IsError)
	}
}

func TestSeekPreviousFallsBackSilently(t *testing.T) {
	m := newTestModel()
	m.sess.AssignClip(m.sess.ActiveTabID(), 0, "/media/a.mp4", "a.mp4")
	m.refreshGrid()
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.statusBar.TimePos = 30.0
	m.commandInput.ClearResult()

	m.Update(keyRune('['))

	if m.commandInput.IsError {
		t.Errorf("previous with no cues errored: %q", m.commandInput.Result)
	}
	if m.statusBar.TimePos != 0 {
		t.Errorf("time pos = %v, want 0", m.statusBar.TimePos)
	}
}

func TestTabCycleKeepsIntent(t *testing.T) {
	m := newTestModel()
	m.sess.AddTab("Act Two")
	firstID := m.sess.Tabs()[0].ID
	m.rec.TogglePlay()
	m.grid.Selected = 10

	m.Update(tea.KeyMsg{Type: tea.KeyTab})

	if m.sess.ActiveTabID() == firstID {
		t.Error("tab did not switch")
	}
	if m.rec.Selected() != nil {
		t.Error("tab switch should deselect the transport")
	}
	if !m.rec.PlayIntent() {
		t.Error("tab switch must not clear play intent")
	}
	if m.grid.Selected != 0 {
		t.Errorf("grid selection = %d, want 0", m.grid.Selected)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.sess.ActiveTabID() != firstID {
		t.Error("shift+tab did not cycle back")
	}
}

func TestQuitConfirmWhenDirty(t *testing.T) {
	m := newTestModel()
	m.sess.AssignClip(m.sess.ActiveTabID(), 0, "/a", "a")

	m.Update(keyRune('q'))
	if m.quitting {
		t.Fatal("first q should not quit a dirty session")
	}
	if !m.confirmQuit {
		t.Fatal("first q should arm confirmation")
	}

	// Any other key disarms.
	m.Update(keyRune('h'))
	if m.confirmQuit {
		t.Error("other key should disarm quit confirmation")
	}

	m.Update(keyRune('q'))
	_, cmd := m.Update(keyRune('q'))
	if !m.quitting {
		t.Error("second q should quit")
	}
	if cmd == nil {
		t.Error("quit should produce a command")
	}
}

func TestCommandModeRate(t *testing.T) {
	m := newTestModel()

	m.Update(keyRune(':'))
	if !m.commandInput.Active {
		t.Fatal("colon should enter command mode")
	}
	typeString(m, "rate 2")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.commandInput.Active {
		t.Error("enter should leave command mode")
	}
	if m.rec.Rate() != 2.0 {
		t.Errorf("rate = %v, want 2.0", m.rec.Rate())
	}
	if m.statusBar.Rate != 2.0 {
		t.Errorf("status bar rate = %v", m.statusBar.Rate)
	}
}

func TestCommandModeUnknownCommand(t *testing.T) {
	m := newTestModel()

	m.Update(keyRune(':'))
	typeString(m, "bogus")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if !m.commandInput.IsError {
		t.Errorf("result = %q, want error", m.commandInput.Result)
	}
}

func TestCommandModeEscCancels(t *testing.T) {
	m := newTestModel()

	m.Update(keyRune(':'))
	typeString(m, "rate 9")
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if m.commandInput.Active {
		t.Error("esc should leave command mode")
	}
	if m.rec.Rate() != 1.0 {
		t.Errorf("cancelled command ran: rate = %v", m.rec.Rate())
	}
}

func TestCommandTabNewAndClose(t *testing.T) {
	m := newTestModel()

	m.Update(keyRune(':'))
	typeString(m, "tab new Act Two")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if len(m.sess.Tabs()) != 2 {
		t.Fatalf("tabs = %d, want 2", len(m.sess.Tabs()))
	}
	if m.sess.ActiveTab().Name != "Act Two" {
		t.Errorf("active tab = %q, want the new one", m.sess.ActiveTab().Name)
	}

	m.Update(keyRune(':'))
	typeString(m, "tab close")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if len(m.sess.Tabs()) != 1 {
		t.Errorf("tabs = %d, want 1", len(m.sess.Tabs()))
	}

	// Closing the last tab is rejected.
	m.Update(keyRune(':'))
	typeString(m, "tab close")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if len(m.sess.Tabs()) != 1 {
		t.Errorf("last tab removed: %d tabs", len(m.sess.Tabs()))
	}
	if !m.commandInput.IsError {
		t.Error("closing the last tab should error")
	}
}

func TestClearSlotKey(t *testing.T) {
	m := newTestModel()
	m.sess.AssignClip(m.sess.ActiveTabID(), 0, "/media/a.mp4", "a.mp4")
	m.refreshGrid()
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.rec.TogglePlay()
	m.rec.Playing()

	m.Update(keyRune('x'))

	if m.sess.Clip(m.sess.ActiveTabID(), 0) != nil {
		t.Error("slot still holds a clip")
	}
	if m.rec.ActualPlaying() {
		t.Error("clearing the playing slot should stop playback")
	}
	if !m.rec.PlayIntent() {
		t.Error("clearing the playing slot must not clear intent")
	}
	if m.grid.Cells[0].Loaded {
		t.Error("grid cell still marked loaded")
	}
}

func TestBrowserFocusToggle(t *testing.T) {
	m := newTestModel()

	m.Update(keyRune('b'))
	if !m.browser.Focused {
		t.Error("b should focus the browser")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.browser.Focused {
		t.Error("esc should unfocus the browser")
	}
}

func TestHelpOverlayToggle(t *testing.T) {
	m := newTestModel()

	m.Update(keyRune('?'))
	if !m.showHelp {
		t.Fatal("? should show help")
	}
	m.Update(keyRune('x'))
	if m.showHelp {
		t.Error("any key should dismiss help")
	}
	// The dismissing key is consumed, not acted on.
	if m.grid.Cells[0].Loaded || m.commandInput.Result != "" {
		t.Error("dismissing key leaked into normal handling")
	}
}
