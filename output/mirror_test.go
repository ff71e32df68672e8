package output

import (
	"errors"
	"testing"
)

type recordingPlayer struct {
	calls []string
	fail  bool
}

func (p *recordingPlayer) record(name string) error {
	p.calls = append(p.calls, name)
	if p.fail {
		return errors.New("refused")
	}
	return nil
}

func (p *recordingPlayer) Load(source string) error { return p.record("load") }
func (p *recordingPlayer) Play(rate float64) error  { return p.record("play") }
func (p *recordingPlayer) Pause() error             { return p.record("pause") }
func (p *recordingPlayer) Seek(t float64) error     { return p.record("seek") }
func (p *recordingPlayer) Stop() error              { return p.record("stop") }

func TestMirrorSwallowsErrors(t *testing.T) {
	inner := &recordingPlayer{fail: true}
	m := NewMirror(inner)

	if err := m.Load("/a"); err != nil {
		t.Errorf("Load: %v", err)
	}
	if err := m.Play(1.0); err != nil {
		t.Errorf("Play: %v", err)
	}
	if err := m.Pause(); err != nil {
		t.Errorf("Pause: %v", err)
	}
	if err := m.Seek(1.0); err != nil {
		t.Errorf("Seek: %v", err)
	}
	if err := m.Stop(); err != nil {
		t.Errorf("Stop: %v", err)
	}
	if len(inner.calls) != 5 {
		t.Errorf("inner calls = %v", inner.calls)
	}
}

func TestTeeFansOut(t *testing.T) {
	primary := &recordingPlayer{}
	mirror := &recordingPlayer{}
	tee := NewTee(primary, NewMirror(mirror))

	if err := tee.Load("/a"); err != nil {
		t.Fatal(err)
	}
	if err := tee.Play(2.0); err != nil {
		t.Fatal(err)
	}

	if len(primary.calls) != 2 {
		t.Errorf("primary calls = %v", primary.calls)
	}
	if len(mirror.calls) != 2 {
		t.Errorf("mirror calls = %v", mirror.calls)
	}
}

func TestTeeReturnsPrimaryError(t *testing.T) {
	primary := &recordingPlayer{fail: true}
	mirror := &recordingPlayer{fail: true}
	tee := NewTee(primary, NewMirror(mirror))

	if err := tee.Play(1.0); err == nil {
		t.Error("primary error should surface")
	}

	// A failing mirror alone never fails the tee.
	okPrimary := &recordingPlayer{}
	tee = NewTee(okPrimary, NewMirror(mirror))
	if err := tee.Stop(); err != nil {
		t.Errorf("mirror failure leaked: %v", err)
	}
}
