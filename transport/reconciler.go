// Package transport reconciles the user's desired play state with what the
// player actually reports. The user's intent (play vs pause) is tracked
// separately from the player's lifecycle events so that clip switches and
// natural end-of-media never silently override what the performer asked for.
package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrPlaybackRejected wraps a player command the collaborator refused.
	// Intent is not rolled back; the performer retries manually.
	ErrPlaybackRejected = errors.New("transport: playback rejected")
	// ErrNothingSelected is returned for transport actions with no slot
	// selected.
	ErrNothingSelected = errors.New("transport: nothing selected")
)

const (
	// MinRate and MaxRate clamp the playback rate magnitude. The direction
	// sign itself is unclamped.
	MinRate = 0.1
	MaxRate = 10.0
)

// Player is the playback collaborator the reconciler commands. Completion is
// never assumed synchronous; readiness and lifecycle arrive later as events.
type Player interface {
	Load(source string) error
	Play(rate float64) error
	Pause() error
	Seek(t float64) error
	Stop() error
}

// Slot identifies a grid cell within a tab.
type Slot struct {
	TabID string
	Index int
}

// Reconciler tracks play intent against actual playback and drives the
// player. All methods run on the UI goroutine; there is no locking here.
type Reconciler struct {
	player Player

	playIntent    bool
	actualPlaying bool
	// rate is signed: negative means reverse. Magnitude stays in
	// [MinRate, MaxRate].
	rate float64

	selected    *Slot
	source      string
	// gen identifies the most recent load. A ready/error event carrying an
	// older generation arrived after a newer selection superseded it and is
	// dropped.
	gen uint64
}

// New creates a reconciler driving the given player at the given starting
// rate (sign included).
func New(player Player, rate float64) *Reconciler {
	if rate == 0 {
		rate = 1
	}
	return &Reconciler{player: player, rate: clampRate(rate)}
}

// PlayIntent reports the user's last requested play state.
func (r *Reconciler) PlayIntent() bool { return r.playIntent }

// ActualPlaying reports the player's last reported play state.
func (r *Reconciler) ActualPlaying() bool { return r.actualPlaying }

// Rate returns the signed playback rate.
func (r *Reconciler) Rate() float64 { return r.rate }

// Selected returns the selected slot, or nil.
func (r *Reconciler) Selected() *Slot { return r.selected }

// Source returns the locator of the currently loaded media, or "".
func (r *Reconciler) Source() string { return r.source }

// Generation returns the current load generation. The poller stamps it on
// readiness events so stale completions can be recognized.
func (r *Reconciler) Generation() uint64 { return r.gen }

// TogglePlay flips play intent. When intent becomes true the player is
// commanded to play at the current signed rate; otherwise to pause. A
// rejected command leaves intent as the user set it.
func (r *Reconciler) TogglePlay() error {
	r.playIntent = !r.playIntent
	if r.playIntent {
		return r.play()
	}
	if err := r.player.Pause(); err != nil {
		return fmt.Errorf("%w: %v", ErrPlaybackRejected, err)
	}
	return nil
}

// Forward sets intent to play with positive direction, preserving the rate
// magnitude.
func (r *Reconciler) Forward() error {
	r.playIntent = true
	if r.rate < 0 {
		r.rate = -r.rate
	}
	return r.play()
}

// Reverse sets intent to play with negative direction, preserving the rate
// magnitude. Whether the player can actually run backward is the player's
// limitation, surfaced through the returned error if it refuses.
func (r *Reconciler) Reverse() error {
	r.playIntent = true
	if r.rate > 0 {
		r.rate = -r.rate
	}
	return r.play()
}

// SetRate sets the rate magnitude, clamped to [MinRate, MaxRate], keeping
// the current direction. A playing player is re-commanded at the new rate.
func (r *Reconciler) SetRate(magnitude float64) error {
	if magnitude < 0 {
		magnitude = -magnitude
	}
	sign := 1.0
	if r.rate < 0 {
		sign = -1
	}
	r.rate = sign * clampMagnitude(magnitude)
	if r.playIntent {
		return r.play()
	}
	return nil
}

// Seek commands an absolute seek. Intent and actual state are untouched.
func (r *Reconciler) Seek(t float64) error {
	if r.selected == nil {
		return ErrNothingSelected
	}
	if err := r.player.Seek(t); err != nil {
		return fmt.Errorf("%w: %v", ErrPlaybackRejected, err)
	}
	return nil
}

// Select points the transport at a loaded slot and issues the load. Play
// intent is never reset by slot selection; if it is true, playback resumes
// once the new source reports ready. The returned generation identifies this
// load for Ready/LoadFailed.
func (r *Reconciler) Select(slot Slot, source string) (uint64, error) {
	r.selected = &slot
	r.source = source
	r.gen++
	if err := r.player.Load(source); err != nil {
		return r.gen, fmt.Errorf("%w: %v", ErrPlaybackRejected, err)
	}
	return r.gen, nil
}

// SelectEmpty points the transport at an empty slot (or the cleared current
// slot). Nothing can play, so actual state drops to false and any in-flight
// load is superseded; intent is left alone so the next loaded clip can
// resume automatically.
func (r *Reconciler) SelectEmpty(slot Slot) {
	r.selected = &slot
	r.source = ""
	r.gen++
	r.actualPlaying = false
	_ = r.player.Stop()
}

// Deselect clears the selection entirely (tab switch). Playback stops,
// intent persists — the same rule as slot switching, applied deliberately.
func (r *Reconciler) Deselect() {
	r.selected = nil
	r.source = ""
	r.gen++
	r.actualPlaying = false
	_ = r.player.Stop()
}

// Ready handles the player reporting a source ready to play. Events stamped
// with a superseded generation are dropped. With the live generation and
// intent true, playback starts at the current signed rate.
func (r *Reconciler) Ready(gen uint64) error {
	if gen != r.gen || r.source == "" {
		return nil
	}
	if r.playIntent {
		return r.play()
	}
	return nil
}

// LoadFailed handles a load error. Stale generations are dropped; intent is
// left as the user set it so a manual retry works.
func (r *Reconciler) LoadFailed(gen uint64) {
	if gen != r.gen {
		return
	}
	r.actualPlaying = false
}

// Playing handles the player reporting that playback started. Intent is
// never touched by lifecycle events.
func (r *Reconciler) Playing() {
	r.actualPlaying = true
}

// Paused handles the player reporting a pause.
func (r *Reconciler) Paused() {
	r.actualPlaying = false
}

// Ended handles natural end-of-media. Intent must survive: end-of-media is
// not a user pause, so selecting the next clip while intent is true makes it
// auto-play.
func (r *Reconciler) Ended() {
	r.actualPlaying = false
}

func (r *Reconciler) play() error {
	if err := r.player.Play(r.rate); err != nil {
		return fmt.Errorf("%w: %v", ErrPlaybackRejected, err)
	}
	return nil
}

func clampRate(rate float64) float64 {
	sign := 1.0
	if rate < 0 {
		sign = -1
		rate = -rate
	}
	return sign * clampMagnitude(rate)
}

func clampMagnitude(m float64) float64 {
	if m < MinRate {
		return MinRate
	}
	if m > MaxRate {
		return MaxRate
	}
	return m
}
