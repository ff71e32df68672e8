// Package output forwards transport commands to a secondary player so an
// external display can mirror the performance. The mirror is one-way: the
// reconciler never waits on it and its failures never affect the main
// player.
package output

import "github.com/user/metropolis/transport"

// Mirror wraps a player and swallows every error, turning commands into
// fire-and-forget notifications.
type Mirror struct {
	player transport.Player
}

// NewMirror creates a mirror over the given player.
func NewMirror(player transport.Player) *Mirror {
	return &Mirror{player: player}
}

func (m *Mirror) Load(source string) error {
	_ = m.player.Load(source)
	return nil
}

func (m *Mirror) Play(rate float64) error {
	_ = m.player.Play(rate)
	return nil
}

func (m *Mirror) Pause() error {
	_ = m.player.Pause()
	return nil
}

func (m *Mirror) Seek(t float64) error {
	_ = m.player.Seek(t)
	return nil
}

func (m *Mirror) Stop() error {
	_ = m.player.Stop()
	return nil
}

// Tee drives a primary player and any number of mirrors with the same
// commands. The primary's error is the tee's error; mirrors are expected to
// report nil (see Mirror).
type Tee struct {
	primary transport.Player
	mirrors []transport.Player
}

// NewTee creates a tee over a primary player and optional mirrors.
func NewTee(primary transport.Player, mirrors ...transport.Player) *Tee {
	return &Tee{primary: primary, mirrors: mirrors}
}

func (t *Tee) Load(source string) error {
	for _, m := range t.mirrors {
		_ = m.Load(source)
	}
	return t.primary.Load(source)
}

func (t *Tee) Play(rate float64) error {
	for _, m := range t.mirrors {
		_ = m.Play(rate)
	}
	return t.primary.Play(rate)
}

func (t *Tee) Pause() error {
	for _, m := range t.mirrors {
		_ = m.Pause()
	}
	return t.primary.Pause()
}

func (t *Tee) Seek(at float64) error {
	for _, m := range t.mirrors {
		_ = m.Seek(at)
	}
	return t.primary.Seek(at)
}

func (t *Tee) Stop() error {
	for _, m := range t.mirrors {
		_ = m.Stop()
	}
	return t.primary.Stop()
}
