// Package tui implements the Metropolis performance surface: the clip grid,
// transport controls, cue list, and file browser, driven by a bubbletea
// update loop that polls mpv and feeds lifecycle edges into the transport
// reconciler.
package tui

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/user/metropolis/browse"
	"github.com/user/metropolis/cue"
	"github.com/user/metropolis/mpv"
	"github.com/user/metropolis/session"
	"github.com/user/metropolis/transport"
	"github.com/user/metropolis/tui/components"
	"github.com/user/metropolis/tui/layout"
	"github.com/user/metropolis/tui/styles"
)

const (
	// tickInterval is the interval for polling mpv status.
	tickInterval = 100 * time.Millisecond
	// resultDisplayDuration is how long to show command results.
	resultDisplayDuration = 3 * time.Second
)

// tickMsg is a message sent on every tick interval to update playback status.
type tickMsg time.Time

// clearResultMsg is sent to clear the command result message.
type clearResultMsg struct{}

// Model is the Bubbletea model for the performance TUI.
// It implements the tea.Model interface with Init, Update, and View methods.
type Model struct {
	// client is the mpv status source for the poll tick; nil in tests.
	client *mpv.Client
	// rec reconciles play intent against the player's reported state.
	rec *transport.Reconciler
	// sess is the clip registry (tabs, slots, cue points).
	sess *session.Session
	// store is the session database for :save/:load; may be nil.
	store *sql.DB
	// outputOn indicates the external output mirror is wired in.
	outputOn bool

	err      error
	quitting bool
	// confirmQuit arms the second q press when the session is dirty.
	confirmQuit bool
	width       int
	height      int

	grid         components.GridState
	cueList      components.CueListState
	browser      components.BrowserState
	statusBar    components.StatusBarState
	commandInput components.CommandInputState
	showHelp     bool

	// Poll edge detection: the reconciler gets events, not levels.
	lastPaused bool
	lastEOF    bool
	// awaitingReady is set between issuing a load and the media reporting a
	// duration; pendingGen identifies which load is awaited so a stale
	// completion after a newer selection is dropped. loadTicks counts poll
	// ticks spent waiting, for dead-load detection.
	awaitingReady bool
	pendingGen    uint64
	loadTicks     int
}

// NewModel creates a new TUI model. client may be nil (no status polling);
// the reconciler's player decides what commands actually reach mpv.
func NewModel(client *mpv.Client, rec *transport.Reconciler, sess *session.Session, store *sql.DB, mediaDir string) *Model {
	m := &Model{
		client:     client,
		rec:        rec,
		sess:       sess,
		store:      store,
		lastPaused: true,
	}
	m.grid.PlayingSlot = -1
	m.statusBar.SelectedSlot = -1
	m.statusBar.Rate = rec.Rate()
	m.loadBrowserDir(mediaDir)
	m.refreshGrid()
	return m
}

// SetOutputOn marks the external output mirror as wired for the status bar.
func (m *Model) SetOutputOn(on bool) {
	m.outputOn = on
}

// Session returns the session so the caller can offer to save it on exit.
func (m *Model) Session() *session.Session {
	return m.sess
}

// Init initializes the model. It returns an optional command to run.
func (m *Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tickMsg after the tick interval.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// resultCmd schedules clearing the result line.
func resultCmd() tea.Cmd {
	return tea.Tick(resultDisplayDuration, func(t time.Time) tea.Msg {
		return clearResultMsg{}
	})
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.pollPlayer()
		return m, tickCmd()

	case clearResultMsg:
		m.commandInput.ClearResult()
		return m, nil

	case tea.KeyMsg:
		// Any key dismisses the help overlay.
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		if m.commandInput.Active {
			return m.handleCommandInput(msg)
		}

		// A non-q key disarms the pending quit confirmation.
		if m.confirmQuit && msg.String() != "q" {
			m.confirmQuit = false
		}

		if m.browser.Focused {
			if handled, model, cmd := m.handleBrowserInput(msg); handled {
				return model, cmd
			}
		}

		return m.handleNormalInput(msg)
	}

	return m, nil
}

// handleNormalInput handles key events in normal (grid) mode.
func (m *Model) handleNormalInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "?":
		m.showHelp = true
		return m, nil

	case "q", "ctrl+c":
		if m.sess.Dirty() && !m.confirmQuit {
			m.confirmQuit = true
			return m.result("Unsaved changes — press q again to quit", true)
		}
		m.quitting = true
		return m, tea.Quit

	case ":":
		m.commandInput.Active = true
		m.commandInput.Input = ""
		m.commandInput.ClearResult()
		return m, nil

	case "b":
		m.browser.Focused = !m.browser.Focused
		return m, nil

	case "up", "k":
		m.grid.MoveUp()
		return m, nil
	case "down", "j":
		m.grid.MoveDown()
		return m, nil
	case "left", "h":
		m.grid.MoveLeft()
		return m, nil
	case "right", "l":
		m.grid.MoveRight()
		return m, nil

	case "enter":
		return m.triggerSlot(m.grid.Selected)

	case "x":
		return m.clearSelectedSlot()

	case " ":
		if err := m.rec.TogglePlay(); err != nil {
			return m.result(err.Error(), true)
		}
		m.syncTransportBar()
		return m, nil

	case "f":
		if err := m.rec.Forward(); err != nil {
			return m.result(err.Error(), true)
		}
		m.syncTransportBar()
		return m, nil

	case "r":
		if err := m.rec.Reverse(); err != nil {
			return m.result(err.Error(), true)
		}
		m.syncTransportBar()
		return m, nil

	case "m":
		if m.client != nil && m.client.IsConnected() {
			muted, err := m.client.GetMute()
			if err == nil {
				_ = m.client.SetMute(!muted)
			}
		}
		return m, nil

	case "c":
		return m.recordCue()

	case "[":
		return m.seekPreviousCue()

	case "]":
		return m.seekNextCue()

	case "0":
		return m.restartClip()

	case "d":
		return m.deleteSelectedCue()

	case "J":
		m.cueList.MoveDown()
		return m, nil
	case "K":
		m.cueList.MoveUp()
		return m, nil

	case "tab":
		return m.cycleTab(1)
	case "shift+tab":
		return m.cycleTab(-1)
	}

	return m, nil
}

// handleBrowserInput handles key events while the browser panel has focus.
// Keys it does not consume fall through to normal handling.
func (m *Model) handleBrowserInput(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.browser.MoveUp()
		return true, m, nil
	case "down", "j":
		m.browser.MoveDown()
		return true, m, nil
	case "backspace":
		m.loadBrowserDir(browse.Parent(m.browser.Dir))
		return true, m, nil
	case "enter":
		entry := m.browser.GetSelected()
		if entry == nil {
			return true, m, nil
		}
		if entry.IsDir {
			m.loadBrowserDir(filepath.Join(m.browser.Dir, entry.Name))
			return true, m, nil
		}
		if !entry.Video {
			model, cmd := m.result("Not a recognized video file", true)
			return true, model, cmd
		}
		model, cmd := m.assignToSelectedSlot(filepath.Join(m.browser.Dir, entry.Name), entry.Name)
		return true, model, cmd
	case "esc":
		m.browser.Focused = false
		return true, m, nil
	}
	return false, m, nil
}

// handleCommandInput handles key events when in command mode.
func (m *Model) handleCommandInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.commandInput.Clear()
		return m, nil

	case "enter":
		cmdStr := m.commandInput.GetCommand()
		if cmdStr == "" {
			return m, nil
		}
		result, err := m.executeCommand(cmdStr)
		if err != nil {
			return m.result("Error: "+err.Error(), true)
		}
		if m.quitting {
			return m, tea.Quit
		}
		return m.result(result, false)

	case "backspace":
		m.commandInput.Backspace()
		return m, nil

	default:
		if len(msg.String()) == 1 {
			m.commandInput.InsertChar(rune(msg.String()[0]))
		} else if msg.Type == tea.KeyRunes {
			for _, r := range msg.Runes {
				m.commandInput.InsertChar(r)
			}
		}
		return m, nil
	}
}

// result sets the command result line and schedules its clearing.
func (m *Model) result(msg string, isError bool) (tea.Model, tea.Cmd) {
	m.commandInput.SetResult(msg, isError)
	return m, resultCmd()
}

// triggerSlot selects a grid slot and points the transport at it. A loaded
// clip starts its load; the reconciler resumes playback on readiness when
// play intent is set. An empty slot stops playback without touching intent.
func (m *Model) triggerSlot(slot int) (tea.Model, tea.Cmd) {
	tabID := m.sess.ActiveTabID()
	clip := m.sess.Clip(tabID, slot)
	m.statusBar.SelectedSlot = slot

	if clip == nil {
		m.rec.SelectEmpty(transport.Slot{TabID: tabID, Index: slot})
		m.awaitingReady = false
		m.grid.PlayingSlot = -1
		m.statusBar.ClipName = ""
		m.statusBar.Duration = 0
		m.statusBar.TimePos = 0
		m.refreshCueList()
		m.syncTransportBar()
		return m, nil
	}

	gen, err := m.rec.Select(transport.Slot{TabID: tabID, Index: slot}, clip.Source)
	m.statusBar.ClipName = clip.Name
	m.refreshCueList()
	if err != nil {
		// A rejected load never renders as playing.
		m.awaitingReady = false
		m.grid.PlayingSlot = -1
		m.syncTransportBar()
		return m.result(err.Error(), true)
	}
	m.grid.PlayingSlot = slot
	m.awaitingReady = true
	m.pendingGen = gen
	m.loadTicks = 0
	m.syncTransportBar()
	return m, nil
}

// clearSelectedSlot clears the clip in the selected slot. If that slot is
// the one playing, playback stops but play intent persists.
func (m *Model) clearSelectedSlot() (tea.Model, tea.Cmd) {
	tabID := m.sess.ActiveTabID()
	slot := m.grid.Selected
	if m.sess.Clip(tabID, slot) == nil {
		return m, nil
	}
	m.sess.ClearSlot(tabID, slot)
	if sel := m.rec.Selected(); sel != nil && sel.TabID == tabID && sel.Index == slot {
		m.rec.SelectEmpty(transport.Slot{TabID: tabID, Index: slot})
		m.awaitingReady = false
		m.grid.PlayingSlot = -1
		m.statusBar.ClipName = ""
		m.refreshCueList()
	}
	m.refreshGrid()
	m.syncTransportBar()
	return m.result(fmt.Sprintf("Cleared slot %02d", slot), false)
}

// assignToSelectedSlot loads a browsed video file into the selected slot,
// replacing any clip already there.
func (m *Model) assignToSelectedSlot(path, name string) (tea.Model, tea.Cmd) {
	slot := m.grid.Selected
	_, err := m.sess.AssignClip(m.sess.ActiveTabID(), slot, path, name)
	if err != nil {
		return m.result(err.Error(), true)
	}
	m.refreshGrid()
	return m.result(fmt.Sprintf("Loaded %s into slot %02d", name, slot), false)
}

// currentClip returns the clip the transport points at, and its slot.
func (m *Model) currentClip() (*session.Clip, int) {
	sel := m.rec.Selected()
	if sel == nil {
		return nil, -1
	}
	return m.sess.Clip(sel.TabID, sel.Index), sel.Index
}

// recordCue marks a cue point at the playhead on the current clip.
func (m *Model) recordCue() (tea.Model, tea.Cmd) {
	clip, slot := m.currentClip()
	cp, err := cue.Record(clip, slot, m.statusBar.TimePos)
	if err != nil {
		return m.result("No clip selected", true)
	}
	m.sess.MarkDirty()
	m.refreshCueList()
	m.refreshGrid()
	return m.result(fmt.Sprintf("Cue marked at %s", formatTimeString(cp.Time)), false)
}

// seekPreviousCue jumps to the cue before the playhead, or the clip start.
func (m *Model) seekPreviousCue() (tea.Model, tea.Cmd) {
	clip, _ := m.currentClip()
	if clip == nil {
		return m.result("No clip selected", true)
	}
	target := cue.SeekPrevious(clip, m.statusBar.TimePos)
	if err := m.rec.Seek(target); err != nil {
		return m.result(err.Error(), true)
	}
	m.statusBar.TimePos = target
	return m, nil
}

// seekNextCue jumps to the cue after the playhead. Exhausted navigation is
// surfaced, not retried.
func (m *Model) seekNextCue() (tea.Model, tea.Cmd) {
	clip, _ := m.currentClip()
	if clip == nil {
		return m.result("No clip selected", true)
	}
	target, err := cue.SeekNext(clip, m.statusBar.TimePos)
	if err != nil {
		return m.result("No more cue points", true)
	}
	if err := m.rec.Seek(target); err != nil {
		return m.result(err.Error(), true)
	}
	m.statusBar.TimePos = target
	return m, nil
}

// restartClip jumps to the first cue point, or the top of the clip when
// none is marked.
func (m *Model) restartClip() (tea.Model, tea.Cmd) {
	clip, _ := m.currentClip()
	if clip == nil {
		return m.result("No clip selected", true)
	}
	target := cue.Restart(clip)
	if err := m.rec.Seek(target); err != nil {
		return m.result(err.Error(), true)
	}
	m.statusBar.TimePos = target
	return m, nil
}

// deleteSelectedCue removes the cue highlighted in the cue list.
func (m *Model) deleteSelectedCue() (tea.Model, tea.Cmd) {
	clip, _ := m.currentClip()
	item := m.cueList.GetSelected()
	if clip == nil || item == nil {
		return m.result("No cue selected", true)
	}
	cue.Remove(clip, item.ID)
	m.sess.MarkDirty()
	m.refreshCueList()
	m.refreshGrid()
	return m.result("Cue removed", false)
}

// cycleTab switches to the next/previous tab. Playback stops and the slot
// selection resets; play intent persists, the same rule as slot switching.
func (m *Model) cycleTab(delta int) (tea.Model, tea.Cmd) {
	tabs := m.sess.Tabs()
	if len(tabs) < 2 {
		return m, nil
	}
	idx := 0
	for i, t := range tabs {
		if t.ID == m.sess.ActiveTabID() {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(tabs)) % len(tabs)
	return m.switchToTab(tabs[idx].ID)
}

// switchToTab activates a tab and resets transient selection state.
func (m *Model) switchToTab(tabID string) (tea.Model, tea.Cmd) {
	if err := m.sess.SwitchTo(tabID); err != nil {
		return m.result(err.Error(), true)
	}
	m.rec.Deselect()
	m.awaitingReady = false
	m.grid.Selected = 0
	m.grid.PlayingSlot = -1
	m.statusBar.SelectedSlot = -1
	m.statusBar.ClipName = ""
	m.statusBar.Duration = 0
	m.statusBar.TimePos = 0
	m.refreshGrid()
	m.refreshCueList()
	m.syncTransportBar()
	return m, nil
}

// refreshGrid rebuilds the grid cells from the active tab's clip registry.
func (m *Model) refreshGrid() {
	tab := m.sess.ActiveTab()
	for slot := range m.grid.Cells {
		m.grid.Cells[slot] = components.GridCell{}
		if c, ok := tab.Clips[slot]; ok {
			m.grid.Cells[slot] = components.GridCell{
				Name:     c.Name,
				Loaded:   true,
				CueCount: len(c.CuePoints),
			}
		}
	}
}

// refreshCueList rebuilds the cue list from the current clip.
func (m *Model) refreshCueList() {
	clip, _ := m.currentClip()
	items := []components.CueItem{}
	if clip != nil {
		for _, cp := range clip.CuePoints {
			items = append(items, components.CueItem{ID: cp.ID, Time: cp.Time})
		}
	}
	m.cueList.Items = items
	if m.cueList.SelectedIndex >= len(items) {
		m.cueList.SelectedIndex = 0
		m.cueList.ScrollOffset = 0
	}
}

// syncTransportBar copies reconciler state into the status bar.
func (m *Model) syncTransportBar() {
	m.statusBar.PlayIntent = m.rec.PlayIntent()
	m.statusBar.Playing = m.rec.ActualPlaying()
	m.statusBar.Rate = m.rec.Rate()
	m.statusBar.OutputOn = m.outputOn
}

// loadBrowserDir loads a directory listing into the browser panel. Errors
// leave the previous listing in place.
func (m *Model) loadBrowserDir(dir string) {
	if dir == "" {
		return
	}
	entries, err := browse.List(dir)
	if err != nil {
		m.commandInput.SetResult("Error: "+err.Error(), true)
		return
	}
	m.browser.Dir = dir
	m.browser.Entries = make([]components.BrowserEntry, len(entries))
	for i, e := range entries {
		m.browser.Entries[i] = components.BrowserEntry{
			Name:  e.Name,
			Size:  e.Size,
			IsDir: e.IsDir,
			Video: e.Video,
		}
	}
	m.browser.SelectedIndex = 0
	m.browser.ScrollOffset = 0
}

// View renders the current state of the model as a string.
func (m *Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	if m.showHelp {
		return components.HelpOverlay(m.width, m.height)
	}

	if m.width > 0 && m.width < layout.MinTerminalWidth {
		warningStyle := lipgloss.NewStyle().
			Foreground(styles.Pink).
			Bold(true)
		hintStyle := lipgloss.NewStyle().
			Foreground(styles.Lavender).
			Italic(true)
		return warningStyle.Render(fmt.Sprintf("Terminal too narrow (%d cols)", m.width)) + "\n" +
			hintStyle.Render(fmt.Sprintf("Minimum width: %d columns", layout.MinTerminalWidth)) + "\n" +
			hintStyle.Render("Please resize your terminal.")
	}

	statusBar := components.StatusBar(m.statusBar, m.width)
	tabBar := components.TabBar(m.tabBarState(), m.width)

	// Columns: grid | cue list + browser. Height: total minus status bar,
	// tab bar, timeline, and command input lines.
	colHeight := m.height - 4
	if colHeight < 8 {
		colHeight = 8
	}
	gridW, sideW := layout.ComputeColumnWidths(m.width)

	gridView := layout.Container{Width: gridW, Height: colHeight}.
		Render(components.Grid(m.grid, gridW, colHeight))

	cueHeight := colHeight / 2
	browserHeight := colHeight - cueHeight
	cueView := layout.Container{Width: sideW, Height: cueHeight}.
		Render(components.CueList(m.cueList, sideW, cueHeight, m.statusBar.TimePos))
	browserView := layout.Container{Width: sideW, Height: browserHeight}.
		Render(components.Browser(m.browser, sideW, browserHeight))
	sideView := cueView + "\n" + browserView

	columns := layout.JoinColumns([]string{gridView, sideView}, []int{gridW, sideW}, colHeight)

	cueTimes := make([]float64, len(m.cueList.Items))
	for i, item := range m.cueList.Items {
		cueTimes[i] = item.Time
	}
	timeline := components.Timeline(m.statusBar.TimePos, m.statusBar.Duration, cueTimes, m.width)

	commandInput := components.CommandInput(m.commandInput, m.width)

	return statusBar + "\n" + tabBar + "\n" + columns + "\n" + timeline + "\n" + commandInput
}

// tabBarState builds the tab strip state from the session.
func (m *Model) tabBarState() components.TabBarState {
	tabs := m.sess.Tabs()
	state := components.TabBarState{Dirty: m.sess.Dirty()}
	for i, t := range tabs {
		state.Names = append(state.Names, t.Name)
		if t.ID == m.sess.ActiveTabID() {
			state.ActiveIndex = i
		}
	}
	return state
}

// formatTimeString formats seconds as MM:SS.
func formatTimeString(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalSeconds := int(seconds)
	mins := totalSeconds / 60
	secs := totalSeconds % 60
	return fmt.Sprintf("%d:%02d", mins, secs)
}

// Run starts the Bubbletea program with the given model.
// It returns an error if the program fails to start or run.
func Run(m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
