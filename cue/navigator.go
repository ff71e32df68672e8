// Package cue implements cue-point recording and navigation for a loaded
// clip. All functions are pure over the clip's ordered cue list plus the
// playhead position read from the player.
package cue

import (
	"errors"
	"fmt"
	"time"

	"github.com/user/metropolis/session"
)

// Tolerance is the seek dead zone in seconds. A cue point within Tolerance
// of the playhead is excluded from both directions so a jump never
// re-triggers the cue the playhead is already sitting on.
const Tolerance = 0.1

var (
	// ErrNoClip is returned when an operation requires a loaded clip but the
	// active slot is empty.
	ErrNoClip = errors.New("cue: no clip selected")
	// ErrNoMoreCues is returned by SeekNext when no cue point lies beyond
	// the playhead.
	ErrNoMoreCues = errors.New("cue: no more cue points")
)

// now is stubbed in tests to make generated ids deterministic.
var now = time.Now

// Record creates a cue point at the current playhead position and inserts it
// into the clip's cue list, keeping the list sorted ascending by time.
// Insertion is stable: a cue recorded at a time equal to an existing one goes
// after it. The slot identity feeds the generated id.
func Record(c *session.Clip, slot int, at float64) (session.CuePoint, error) {
	if c == nil {
		return session.CuePoint{}, ErrNoClip
	}
	if at < 0 {
		at = 0
	}
	cp := session.CuePoint{
		ID:   fmt.Sprintf("%d-%02d", now().UnixNano(), slot),
		Time: at,
	}

	// Find the first cue strictly later than the new one; inserting there
	// keeps ties in insertion order.
	idx := len(c.CuePoints)
	for i, existing := range c.CuePoints {
		if existing.Time > at {
			idx = i
			break
		}
	}
	c.CuePoints = append(c.CuePoints, session.CuePoint{})
	copy(c.CuePoints[idx+1:], c.CuePoints[idx:])
	c.CuePoints[idx] = cp
	return cp, nil
}

// Remove deletes the cue point with the given id. Unknown ids are a no-op.
func Remove(c *session.Clip, id string) {
	if c == nil {
		return
	}
	for i, cp := range c.CuePoints {
		if cp.ID == id {
			c.CuePoints = append(c.CuePoints[:i], c.CuePoints[i+1:]...)
			return
		}
	}
}

// Restart returns the time of the first cue point, or 0 when the clip has
// none. Restarting a clip jumps to the earliest marked point rather than
// always the top of the file.
func Restart(c *session.Clip) float64 {
	if c == nil || len(c.CuePoints) == 0 {
		return 0
	}
	return c.CuePoints[0].Time
}

// SeekPrevious returns the time of the last cue point strictly before
// at-Tolerance. When none qualifies (including an empty list) it falls back
// to 0, the beginning of the clip.
func SeekPrevious(c *session.Clip, at float64) float64 {
	if c == nil {
		return 0
	}
	for i := len(c.CuePoints) - 1; i >= 0; i-- {
		if c.CuePoints[i].Time < at-Tolerance {
			return c.CuePoints[i].Time
		}
	}
	return 0
}

// SeekNext returns the time of the first cue point strictly after
// at+Tolerance, or ErrNoMoreCues when navigation is exhausted.
func SeekNext(c *session.Clip, at float64) (float64, error) {
	if c == nil {
		return 0, ErrNoClip
	}
	for _, cp := range c.CuePoints {
		if cp.Time > at+Tolerance {
			return cp.Time, nil
		}
	}
	return 0, ErrNoMoreCues
}
