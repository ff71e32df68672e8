package session

// Snapshot is a value copy of everything worth persisting: tab order, clip
// assignments, cue points, and transport defaults. The persistence layer
// stores it opaquely and returns it unchanged on load.
type Snapshot struct {
	ActiveTabID string
	Rate        float64
	Tabs        []TabSnapshot
}

// TabSnapshot is one tab's persisted state.
type TabSnapshot struct {
	ID    string
	Name  string
	Clips []ClipSnapshot
}

// ClipSnapshot is one slot assignment with its cue points.
type ClipSnapshot struct {
	Slot      int
	Name      string
	Source    string
	CuePoints []CuePoint
}

// Snapshot copies the session into a persistable value. Cue-point slices are
// copied so later edits do not leak into a snapshot already handed to the
// store.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		ActiveTabID: s.activeID,
		Rate:        s.rate,
	}
	for _, t := range s.tabs {
		ts := TabSnapshot{ID: t.ID, Name: t.Name}
		for _, slot := range t.SortedSlots() {
			c := t.Clips[slot]
			cues := make([]CuePoint, len(c.CuePoints))
			copy(cues, c.CuePoints)
			ts.Clips = append(ts.Clips, ClipSnapshot{
				Slot:      slot,
				Name:      c.Name,
				Source:    c.Source,
				CuePoints: cues,
			})
		}
		snap.Tabs = append(snap.Tabs, ts)
	}
	return snap
}

// Restore builds a session from a snapshot. A snapshot with no tabs yields a
// fresh single-tab session. The restored session starts clean.
func Restore(snap Snapshot) *Session {
	if len(snap.Tabs) == 0 {
		return New()
	}
	s := &Session{rate: snap.Rate}
	if s.rate == 0 {
		s.rate = DefaultRate
	}
	for _, ts := range snap.Tabs {
		t := &Tab{ID: ts.ID, Name: ts.Name, Clips: make(map[int]*Clip)}
		for _, cs := range ts.Clips {
			if cs.Slot < 0 || cs.Slot >= GridSlots {
				continue
			}
			cues := make([]CuePoint, len(cs.CuePoints))
			copy(cues, cs.CuePoints)
			t.Clips[cs.Slot] = &Clip{
				Name:      cs.Name,
				Source:    cs.Source,
				CuePoints: cues,
			}
		}
		s.tabs = append(s.tabs, t)
	}
	s.activeID = snap.ActiveTabID
	if s.findTab(s.activeID) == nil {
		s.activeID = s.tabs[0].ID
	}
	s.dirty = false
	return s
}
