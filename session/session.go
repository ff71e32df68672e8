// Package session holds the clip registry: tabs, grid slots, and the cue
// points attached to each loaded clip. It is the single source of truth for
// everything the performer has loaded; the transport and cue packages operate
// on clips by reference through the active tab.
package session

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

const (
	// GridSize is the number of rows (and columns) of the clip grid.
	GridSize = 6
	// GridSlots is the number of slots per tab.
	GridSlots = GridSize * GridSize
	// DefaultRate is the playback rate a fresh session starts with.
	DefaultRate = 1.0
)

var (
	// ErrLastTab is returned when removing the only remaining tab.
	ErrLastTab = errors.New("session: cannot remove the last tab")
	// ErrBadSlot is returned for slot indices outside 0..35.
	ErrBadSlot = errors.New("session: slot index out of range")
	// ErrUnknownTab is returned when a tab id does not exist.
	ErrUnknownTab = errors.New("session: unknown tab")
)

// CuePoint is a user-marked timestamp within a clip.
type CuePoint struct {
	// ID is unique within the owning clip.
	ID string
	// Time is the playback position in seconds, >= 0.
	Time float64
}

// Clip is one loaded video assigned to a grid slot.
type Clip struct {
	// Name is the display label, usually the file base name.
	Name string
	// Source is an opaque locator for the playable media (file path).
	Source string
	// CuePoints is kept sorted ascending by Time. Duplicate times are
	// allowed; order among equal times follows insertion order.
	CuePoints []CuePoint
}

// Tab is an independent grid of 36 slots with its own clip assignments.
type Tab struct {
	ID    string
	Name  string
	Clips map[int]*Clip
}

// Session is the process-wide registry of tabs and clips. Exactly one tab is
// active at a time; the active tab is always resolved by id lookup so there
// is no second mutable binding to drift out of sync.
type Session struct {
	tabs     []*Tab
	activeID string
	rate     float64
	dirty    bool
}

// New creates a session with a single empty tab.
func New() *Session {
	s := &Session{rate: DefaultRate}
	t := s.AddTab("Tab 1")
	s.activeID = t.ID
	s.dirty = false
	return s
}

// Tabs returns the tab list in order.
func (s *Session) Tabs() []*Tab {
	return s.tabs
}

// ActiveTab returns the currently active tab.
func (s *Session) ActiveTab() *Tab {
	for _, t := range s.tabs {
		if t.ID == s.activeID {
			return t
		}
	}
	// Should not happen; keep the registry usable regardless.
	if len(s.tabs) > 0 {
		s.activeID = s.tabs[0].ID
		return s.tabs[0]
	}
	return nil
}

// ActiveTabID returns the id of the active tab.
func (s *Session) ActiveTabID() string {
	return s.activeID
}

// SwitchTo makes the given tab active. Switching to the already-active tab
// is a no-op.
func (s *Session) SwitchTo(tabID string) error {
	if tabID == s.activeID {
		return nil
	}
	if s.findTab(tabID) == nil {
		return ErrUnknownTab
	}
	s.activeID = tabID
	return nil
}

// AddTab appends a new empty tab and returns it.
func (s *Session) AddTab(name string) *Tab {
	t := &Tab{
		ID:    uuid.NewString(),
		Name:  name,
		Clips: make(map[int]*Clip),
	}
	s.tabs = append(s.tabs, t)
	s.dirty = true
	return t
}

// RenameTab changes a tab's display name.
func (s *Session) RenameTab(tabID, name string) error {
	t := s.findTab(tabID)
	if t == nil {
		return ErrUnknownTab
	}
	t.Name = name
	s.dirty = true
	return nil
}

// RemoveTab deletes a tab and all its clips. Removing the sole remaining tab
// is rejected with ErrLastTab. If the removed tab was active, the first
// remaining tab becomes active.
func (s *Session) RemoveTab(tabID string) error {
	if len(s.tabs) <= 1 {
		return ErrLastTab
	}
	idx := -1
	for i, t := range s.tabs {
		if t.ID == tabID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrUnknownTab
	}
	s.tabs = append(s.tabs[:idx], s.tabs[idx+1:]...)
	if s.activeID == tabID {
		s.activeID = s.tabs[0].ID
	}
	s.dirty = true
	return nil
}

// AssignClip creates a new clip with an empty cue list in the given slot,
// overwriting any existing clip there. Old cue points are discarded.
func (s *Session) AssignClip(tabID string, slot int, source, name string) (*Clip, error) {
	if slot < 0 || slot >= GridSlots {
		return nil, fmt.Errorf("%w: %d", ErrBadSlot, slot)
	}
	t := s.findTab(tabID)
	if t == nil {
		return nil, ErrUnknownTab
	}
	c := &Clip{Name: name, Source: source}
	t.Clips[slot] = c
	s.dirty = true
	return c, nil
}

// ClearSlot removes the clip in the given slot if present; no-op otherwise.
func (s *Session) ClearSlot(tabID string, slot int) {
	t := s.findTab(tabID)
	if t == nil {
		return
	}
	if _, ok := t.Clips[slot]; ok {
		delete(t.Clips, slot)
		s.dirty = true
	}
}

// Clip returns the clip in the given slot, or nil if the slot is empty.
func (s *Session) Clip(tabID string, slot int) *Clip {
	t := s.findTab(tabID)
	if t == nil {
		return nil
	}
	return t.Clips[slot]
}

// Rate returns the session's default playback rate.
func (s *Session) Rate() float64 {
	return s.rate
}

// SetRate stores the session's default playback rate.
func (s *Session) SetRate(rate float64) {
	if s.rate == rate {
		return
	}
	s.rate = rate
	s.dirty = true
}

// Dirty reports whether the session has unsaved mutations.
func (s *Session) Dirty() bool {
	return s.dirty
}

// MarkDirty flags the session as having unsaved mutations. Cue-point edits
// go through the cue package, which mutates clips by reference, so the TUI
// calls this after recording or removing a cue.
func (s *Session) MarkDirty() {
	s.dirty = true
}

// MarkSaved clears the dirty flag after a successful save.
func (s *Session) MarkSaved() {
	s.dirty = false
}

func (s *Session) findTab(tabID string) *Tab {
	for _, t := range s.tabs {
		if t.ID == tabID {
			return t
		}
	}
	return nil
}

// SortedSlots returns the occupied slot indices of a tab in ascending order.
func (t *Tab) SortedSlots() []int {
	slots := make([]int, 0, len(t.Clips))
	for slot := range t.Clips {
		slots = append(slots, slot)
	}
	sort.Ints(slots)
	return slots
}
