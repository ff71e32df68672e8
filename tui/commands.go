package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/user/metropolis/db"
	"github.com/user/metropolis/pkg/timeutil"
	"github.com/user/metropolis/session"
)

// executeCommand parses and runs a command-mode command, returning the result
// line to display.
func (m *Model) executeCommand(cmdStr string) (string, error) {
	fields := strings.Fields(cmdStr)
	if len(fields) == 0 {
		return "", fmt.Errorf("empty command")
	}

	switch fields[0] {
	case "save", "w":
		return m.cmdSave()

	case "load":
		return m.cmdLoad()

	case "tab":
		return m.cmdTab(fields[1:])

	case "clear":
		return m.cmdClear()

	case "rate":
		if len(fields) < 2 {
			return "", fmt.Errorf("usage: rate <multiplier>")
		}
		return m.cmdRate(fields[1])

	case "seek":
		if len(fields) < 2 {
			return "", fmt.Errorf("usage: seek <time> (e.g. 1:23 or 45)")
		}
		return m.cmdSeek(fields[1])

	case "open":
		if len(fields) < 2 {
			return "", fmt.Errorf("usage: open <directory>")
		}
		m.loadBrowserDir(strings.Join(fields[1:], " "))
		m.browser.Focused = true
		return "Opened " + m.browser.Dir, nil

	case "mute":
		if m.client == nil || !m.client.IsConnected() {
			return "", fmt.Errorf("player not connected")
		}
		muted, err := m.client.GetMute()
		if err != nil {
			return "", err
		}
		if err := m.client.SetMute(!muted); err != nil {
			return "", err
		}
		if muted {
			return "Unmuted", nil
		}
		return "Muted", nil

	case "help":
		m.showHelp = true
		return "", nil

	case "quit", "q":
		if m.sess.Dirty() && len(fields) > 1 && fields[1] == "!" {
			m.quitting = true
			return "", nil
		}
		if m.sess.Dirty() {
			return "", fmt.Errorf("unsaved changes (use 'save' first, or 'q !' to discard)")
		}
		m.quitting = true
		return "", nil

	case "q!":
		m.quitting = true
		return "", nil

	default:
		return "", fmt.Errorf("unknown command: %s", fields[0])
	}
}

// cmdSave writes the current session snapshot to the database.
func (m *Model) cmdSave() (string, error) {
	if m.store == nil {
		return "", fmt.Errorf("no session database available")
	}
	snap := m.sess.Snapshot()
	if err := db.Save(m.store, snap); err != nil {
		return "", fmt.Errorf("saving session: %w", err)
	}
	m.sess.MarkSaved()
	return fmt.Sprintf("Session saved (%d tabs)", len(snap.Tabs)), nil
}

// cmdLoad replaces the in-memory session with the saved one. Playback stops;
// play intent persists like any other content switch.
func (m *Model) cmdLoad() (string, error) {
	if m.store == nil {
		return "", fmt.Errorf("no session database available")
	}
	if m.sess.Dirty() {
		return "", fmt.Errorf("unsaved changes (use 'save' first)")
	}
	snap, found, err := db.Load(m.store)
	if err != nil {
		return "", fmt.Errorf("loading session: %w", err)
	}
	if !found {
		return "", fmt.Errorf("no saved session found")
	}
	m.sess = session.Restore(snap)
	m.rec.Deselect()
	// Saved rate carries over; an out-of-range value is clamped.
	_ = m.rec.SetRate(m.sess.Rate())
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
	return fmt.Sprintf("Session loaded (%d tabs)", len(snap.Tabs)), nil
}

// cmdTab handles the tab subcommands: new, rename, close.
func (m *Model) cmdTab(args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("usage: tab new <name> | tab rename <name> | tab close")
	}

	switch args[0] {
	case "new":
		name := strings.Join(args[1:], " ")
		if name == "" {
			name = fmt.Sprintf("Tab %d", len(m.sess.Tabs())+1)
		}
		tab := m.sess.AddTab(name)
		m.switchToTab(tab.ID)
		return fmt.Sprintf("Added tab %q", name), nil

	case "rename":
		name := strings.Join(args[1:], " ")
		if name == "" {
			return "", fmt.Errorf("usage: tab rename <name>")
		}
		if err := m.sess.RenameTab(m.sess.ActiveTabID(), name); err != nil {
			return "", err
		}
		return fmt.Sprintf("Renamed tab to %q", name), nil

	case "close":
		name := m.sess.ActiveTab().Name
		if err := m.sess.RemoveTab(m.sess.ActiveTabID()); err != nil {
			return "", err
		}
		m.switchToTab(m.sess.ActiveTabID())
		return fmt.Sprintf("Closed tab %q", name), nil

	default:
		return "", fmt.Errorf("unknown tab subcommand: %s", args[0])
	}
}

// cmdClear clears every slot on the active tab.
func (m *Model) cmdClear() (string, error) {
	tab := m.sess.ActiveTab()
	n := len(tab.Clips)
	if n == 0 {
		return "Tab already empty", nil
	}
	for slot := range tab.Clips {
		m.sess.ClearSlot(tab.ID, slot)
	}
	if sel := m.rec.Selected(); sel != nil && sel.TabID == tab.ID {
		m.rec.SelectEmpty(*sel)
		m.awaitingReady = false
		m.grid.PlayingSlot = -1
		m.statusBar.ClipName = ""
	}
	m.refreshGrid()
	m.refreshCueList()
	m.syncTransportBar()
	return fmt.Sprintf("Cleared %d slots", n), nil
}

// cmdRate sets the playback rate magnitude, preserving direction.
func (m *Model) cmdRate(arg string) (string, error) {
	rate, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return "", fmt.Errorf("invalid rate: %s", arg)
	}
	if err := m.rec.SetRate(rate); err != nil {
		return "", err
	}
	m.sess.SetRate(m.rec.Rate())
	m.syncTransportBar()
	mag := m.rec.Rate()
	if mag < 0 {
		mag = -mag
	}
	return fmt.Sprintf("Rate set to %.2fx", mag), nil
}

// cmdSeek jumps the playhead to an absolute time on the current clip.
func (m *Model) cmdSeek(arg string) (string, error) {
	clip, _ := m.currentClip()
	if clip == nil {
		return "", fmt.Errorf("no clip selected")
	}
	seconds, err := timeutil.ParseTimeToSeconds(arg)
	if err != nil {
		return "", err
	}
	if err := m.rec.Seek(seconds); err != nil {
		return "", err
	}
	m.statusBar.TimePos = seconds
	return "Seeked to " + timeutil.FormatTime(seconds), nil
}
