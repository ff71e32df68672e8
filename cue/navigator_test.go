package cue

import (
	"errors"
	"testing"
	"time"

	"github.com/user/metropolis/session"
)

// clipWithCues builds a clip with pre-sorted cue points at the given times.
func clipWithCues(times ...float64) *session.Clip {
	c := &session.Clip{Name: "test.mp4", Source: "/media/test.mp4"}
	for i, at := range times {
		c.CuePoints = append(c.CuePoints, session.CuePoint{
			ID:   string(rune('a' + i)),
			Time: at,
		})
	}
	return c
}

func cueTimes(c *session.Clip) []float64 {
	times := make([]float64, len(c.CuePoints))
	for i, cp := range c.CuePoints {
		times[i] = cp.Time
	}
	return times
}

func TestRecordNilClip(t *testing.T) {
	if _, err := Record(nil, 0, 1.0); !errors.Is(err, ErrNoClip) {
		t.Fatalf("err = %v, want ErrNoClip", err)
	}
}

func TestRecordKeepsSorted(t *testing.T) {
	c := clipWithCues()
	for _, at := range []float64{5.0, 2.0, 9.0, 2.0, 7.5} {
		if _, err := Record(c, 3, at); err != nil {
			t.Fatal(err)
		}
	}

	want := []float64{2.0, 2.0, 5.0, 7.5, 9.0}
	got := cueTimes(c)
	if len(got) != len(want) {
		t.Fatalf("cue count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cue[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRecordEqualTimesKeepInsertionOrder(t *testing.T) {
	restore := now
	defer func() { now = restore }()

	tick := time.Unix(0, 0)
	now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}

	c := clipWithCues()
	first, _ := Record(c, 0, 3.0)
	second, _ := Record(c, 0, 3.0)

	if c.CuePoints[0].ID != first.ID {
		t.Errorf("first cue at equal time should stay first, got %q", c.CuePoints[0].ID)
	}
	if c.CuePoints[1].ID != second.ID {
		t.Errorf("second cue at equal time should go after, got %q", c.CuePoints[1].ID)
	}
}

func TestRecordClampsNegativeTime(t *testing.T) {
	c := clipWithCues()
	cp, err := Record(c, 0, -2.5)
	if err != nil {
		t.Fatal(err)
	}
	if cp.Time != 0 {
		t.Errorf("time = %v, want 0", cp.Time)
	}
}

func TestRemove(t *testing.T) {
	c := clipWithCues(1.0, 2.0, 3.0)
	Remove(c, "b")
	got := cueTimes(c)
	if len(got) != 2 || got[0] != 1.0 || got[1] != 3.0 {
		t.Errorf("after remove: %v", got)
	}

	// Unknown id is a no-op.
	Remove(c, "zzz")
	if len(c.CuePoints) != 2 {
		t.Errorf("unknown id removed something: %v", cueTimes(c))
	}

	// Nil clip is a no-op.
	Remove(nil, "a")
}

func TestRestart(t *testing.T) {
	if got := Restart(clipWithCues(4.2, 8.0)); got != 4.2 {
		t.Errorf("Restart = %v, want 4.2", got)
	}
	if got := Restart(clipWithCues()); got != 0 {
		t.Errorf("Restart with no cues = %v, want 0", got)
	}
	if got := Restart(nil); got != 0 {
		t.Errorf("Restart(nil) = %v, want 0", got)
	}
}

func TestSeekNavigation(t *testing.T) {
	c := clipWithCues(2.0, 5.0, 9.0)

	// Playhead just past a cue: the tolerance keeps 5.0 out of both
	// directions, so previous lands on 2.0 and next on 9.0.
	at := 5.05
	if got := SeekPrevious(c, at); got != 2.0 {
		t.Errorf("SeekPrevious(%v) = %v, want 2.0", at, got)
	}
	got, err := SeekNext(c, at)
	if err != nil {
		t.Fatalf("SeekNext(%v): %v", at, err)
	}
	if got != 9.0 {
		t.Errorf("SeekNext(%v) = %v, want 9.0", at, got)
	}
}

func TestSeekPreviousFallsBackToStart(t *testing.T) {
	c := clipWithCues(2.0, 5.0)
	if got := SeekPrevious(c, 1.0); got != 0 {
		t.Errorf("SeekPrevious before all cues = %v, want 0", got)
	}
	if got := SeekPrevious(clipWithCues(), 30.0); got != 0 {
		t.Errorf("SeekPrevious with no cues = %v, want 0", got)
	}
	if got := SeekPrevious(nil, 30.0); got != 0 {
		t.Errorf("SeekPrevious(nil) = %v, want 0", got)
	}
}

func TestSeekNextExhausted(t *testing.T) {
	c := clipWithCues(2.0, 5.0)
	if _, err := SeekNext(c, 5.0); !errors.Is(err, ErrNoMoreCues) {
		t.Errorf("err = %v, want ErrNoMoreCues", err)
	}
	if _, err := SeekNext(clipWithCues(), 0); !errors.Is(err, ErrNoMoreCues) {
		t.Errorf("empty list err = %v, want ErrNoMoreCues", err)
	}
	if _, err := SeekNext(nil, 0); !errors.Is(err, ErrNoClip) {
		t.Errorf("nil clip err = %v, want ErrNoClip", err)
	}
}

func TestSeekWithinTolerance(t *testing.T) {
	c := clipWithCues(5.0)

	// Sitting exactly on the cue: neither direction re-targets it.
	if got := SeekPrevious(c, 5.0); got != 0 {
		t.Errorf("SeekPrevious on cue = %v, want 0", got)
	}
	if _, err := SeekNext(c, 5.0); !errors.Is(err, ErrNoMoreCues) {
		t.Errorf("SeekNext on cue err = %v, want ErrNoMoreCues", err)
	}

	// Just outside the tolerance it is reachable again.
	if got := SeekPrevious(c, 5.2); got != 5.0 {
		t.Errorf("SeekPrevious(5.2) = %v, want 5.0", got)
	}
	got, err := SeekNext(c, 4.8)
	if err != nil || got != 5.0 {
		t.Errorf("SeekNext(4.8) = %v, %v, want 5.0", got, err)
	}
}
