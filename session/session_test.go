package session

import (
	"errors"
	"testing"
)

func TestNewSession(t *testing.T) {
	s := New()
	if len(s.Tabs()) != 1 {
		t.Fatalf("tabs = %d, want 1", len(s.Tabs()))
	}
	if s.ActiveTab().Name != "Tab 1" {
		t.Errorf("tab name = %q", s.ActiveTab().Name)
	}
	if s.Rate() != DefaultRate {
		t.Errorf("rate = %v, want %v", s.Rate(), DefaultRate)
	}
	if s.Dirty() {
		t.Error("new session should be clean")
	}
}

func TestAssignClipOverwritesAndDiscardsCues(t *testing.T) {
	s := New()
	tabID := s.ActiveTabID()

	c, err := s.AssignClip(tabID, 7, "/media/a.mp4", "a.mp4")
	if err != nil {
		t.Fatal(err)
	}
	c.CuePoints = append(c.CuePoints, CuePoint{ID: "x", Time: 3.0})

	replaced, err := s.AssignClip(tabID, 7, "/media/b.mp4", "b.mp4")
	if err != nil {
		t.Fatal(err)
	}
	if replaced.Name != "b.mp4" {
		t.Errorf("name = %q, want b.mp4", replaced.Name)
	}
	if len(replaced.CuePoints) != 0 {
		t.Errorf("replacement clip inherited %d cues", len(replaced.CuePoints))
	}
	if got := s.Clip(tabID, 7); got != replaced {
		t.Error("slot does not hold the replacement clip")
	}
}

func TestAssignClipBadSlot(t *testing.T) {
	s := New()
	if _, err := s.AssignClip(s.ActiveTabID(), GridSlots, "/x", "x"); !errors.Is(err, ErrBadSlot) {
		t.Errorf("err = %v, want ErrBadSlot", err)
	}
	if _, err := s.AssignClip(s.ActiveTabID(), -1, "/x", "x"); !errors.Is(err, ErrBadSlot) {
		t.Errorf("err = %v, want ErrBadSlot", err)
	}
}

func TestClearSlot(t *testing.T) {
	s := New()
	tabID := s.ActiveTabID()
	s.AssignClip(tabID, 3, "/media/a.mp4", "a.mp4")
	s.MarkSaved()

	s.ClearSlot(tabID, 3)
	if s.Clip(tabID, 3) != nil {
		t.Error("slot still occupied after clear")
	}
	if !s.Dirty() {
		t.Error("clear should dirty the session")
	}

	// Clearing an empty slot changes nothing.
	s.MarkSaved()
	s.ClearSlot(tabID, 3)
	if s.Dirty() {
		t.Error("clearing an empty slot should not dirty the session")
	}
}

func TestRemoveLastTabRejected(t *testing.T) {
	s := New()
	err := s.RemoveTab(s.ActiveTabID())
	if !errors.Is(err, ErrLastTab) {
		t.Fatalf("err = %v, want ErrLastTab", err)
	}
	if len(s.Tabs()) != 1 {
		t.Errorf("tab list changed on rejected removal: %d tabs", len(s.Tabs()))
	}
}

func TestRemoveActiveTabActivatesFirst(t *testing.T) {
	s := New()
	first := s.ActiveTabID()
	second := s.AddTab("Second")
	if err := s.SwitchTo(second.ID); err != nil {
		t.Fatal(err)
	}

	if err := s.RemoveTab(second.ID); err != nil {
		t.Fatal(err)
	}
	if s.ActiveTabID() != first {
		t.Errorf("active = %q, want first tab %q", s.ActiveTabID(), first)
	}
}

func TestSwitchTo(t *testing.T) {
	s := New()
	second := s.AddTab("Second")

	if err := s.SwitchTo(second.ID); err != nil {
		t.Fatal(err)
	}
	if s.ActiveTabID() != second.ID {
		t.Error("switch did not activate tab")
	}
	if err := s.SwitchTo("nope"); !errors.Is(err, ErrUnknownTab) {
		t.Errorf("err = %v, want ErrUnknownTab", err)
	}
	// Unknown target leaves the active tab alone.
	if s.ActiveTabID() != second.ID {
		t.Error("failed switch changed the active tab")
	}
}

func TestRenameTab(t *testing.T) {
	s := New()
	if err := s.RenameTab(s.ActiveTabID(), "Act One"); err != nil {
		t.Fatal(err)
	}
	if s.ActiveTab().Name != "Act One" {
		t.Errorf("name = %q", s.ActiveTab().Name)
	}
	if err := s.RenameTab("nope", "x"); !errors.Is(err, ErrUnknownTab) {
		t.Errorf("err = %v, want ErrUnknownTab", err)
	}
}

func TestDirtyTracking(t *testing.T) {
	s := New()
	if s.Dirty() {
		t.Fatal("fresh session dirty")
	}

	s.AssignClip(s.ActiveTabID(), 0, "/a", "a")
	if !s.Dirty() {
		t.Error("assign should dirty")
	}
	s.MarkSaved()
	if s.Dirty() {
		t.Error("MarkSaved should clear dirty")
	}

	s.SetRate(2.0)
	if !s.Dirty() {
		t.Error("rate change should dirty")
	}
	s.MarkSaved()
	s.SetRate(2.0)
	if s.Dirty() {
		t.Error("unchanged rate should not dirty")
	}
}

func TestSortedSlots(t *testing.T) {
	s := New()
	tabID := s.ActiveTabID()
	for _, slot := range []int{20, 3, 35, 0} {
		s.AssignClip(tabID, slot, "/x", "x")
	}
	got := s.ActiveTab().SortedSlots()
	want := []int{0, 3, 20, 35}
	if len(got) != len(want) {
		t.Fatalf("slots = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("slots = %v, want %v", got, want)
			break
		}
	}
}

func TestSnapshotRestoreRoundtrip(t *testing.T) {
	s := New()
	tabID := s.ActiveTabID()
	s.RenameTab(tabID, "Act One")
	c, _ := s.AssignClip(tabID, 5, "/media/a.mp4", "a.mp4")
	c.CuePoints = []CuePoint{{ID: "c1", Time: 2.0}, {ID: "c2", Time: 8.5}}
	second := s.AddTab("Act Two")
	s.AssignClip(second.ID, 0, "/media/b.mp4", "b.mp4")
	s.SwitchTo(second.ID)
	s.SetRate(1.5)

	restored := Restore(s.Snapshot())

	if restored.Dirty() {
		t.Error("restored session should start clean")
	}
	if restored.Rate() != 1.5 {
		t.Errorf("rate = %v, want 1.5", restored.Rate())
	}
	if restored.ActiveTabID() != second.ID {
		t.Errorf("active = %q, want %q", restored.ActiveTabID(), second.ID)
	}
	if len(restored.Tabs()) != 2 {
		t.Fatalf("tabs = %d, want 2", len(restored.Tabs()))
	}
	rc := restored.Clip(tabID, 5)
	if rc == nil {
		t.Fatal("clip missing after restore")
	}
	if len(rc.CuePoints) != 2 || rc.CuePoints[1].Time != 8.5 {
		t.Errorf("cues = %+v", rc.CuePoints)
	}
}

func TestSnapshotIsolatedFromLaterEdits(t *testing.T) {
	s := New()
	c, _ := s.AssignClip(s.ActiveTabID(), 0, "/a", "a")
	c.CuePoints = []CuePoint{{ID: "c1", Time: 1.0}}

	snap := s.Snapshot()
	c.CuePoints[0].Time = 99.0

	if snap.Tabs[0].Clips[0].CuePoints[0].Time != 1.0 {
		t.Error("snapshot shares cue storage with the live session")
	}
}

func TestRestoreEmptySnapshot(t *testing.T) {
	s := Restore(Snapshot{})
	if len(s.Tabs()) != 1 {
		t.Fatalf("tabs = %d, want 1", len(s.Tabs()))
	}
	if s.Rate() != DefaultRate {
		t.Errorf("rate = %v, want default", s.Rate())
	}
}

func TestRestoreRepairsBadReferences(t *testing.T) {
	snap := Snapshot{
		ActiveTabID: "gone",
		Rate:        0,
		Tabs: []TabSnapshot{{
			ID:   "t1",
			Name: "Tab 1",
			Clips: []ClipSnapshot{
				{Slot: 2, Name: "ok.mp4", Source: "/ok.mp4"},
				{Slot: 99, Name: "bad.mp4", Source: "/bad.mp4"},
			},
		}},
	}
	s := Restore(snap)

	if s.ActiveTabID() != "t1" {
		t.Errorf("active = %q, want first tab", s.ActiveTabID())
	}
	if s.Rate() != DefaultRate {
		t.Errorf("rate = %v, want default", s.Rate())
	}
	if s.Clip("t1", 2) == nil {
		t.Error("valid clip dropped")
	}
	if len(s.ActiveTab().Clips) != 1 {
		t.Errorf("out-of-range slot kept: %d clips", len(s.ActiveTab().Clips))
	}
}
