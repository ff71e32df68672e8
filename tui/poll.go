package tui

// playerStatus is one tick's worth of polled player state. Properties mpv
// refused to report (no file loaded yet) carry a known=false flag so the
// decision logic can tell "paused" from "unknown".
type playerStatus struct {
	durationKnown bool
	duration      float64
	pausedKnown   bool
	paused        bool
	eof           bool
	idle          bool
}

// loadFailureGraceTicks is how many poll ticks a pending load may sit with
// mpv still idle before it is declared dead. mpv drops back to idle-active
// when it rejects a file, but it is also idle for a moment while a slow file
// opens; one second of grace separates the two.
const loadFailureGraceTicks = 10

// pollPlayer reads mpv status on each tick and hands it to the decision
// logic. The reconciler only ever sees events (playing/paused/ended,
// ready/failed), never raw property values, so the decisions stay separate
// from the polling plumbing.
func (m *Model) pollPlayer() {
	if m.client == nil || !m.client.IsConnected() {
		return
	}

	var st playerStatus
	if d, err := m.client.GetDuration(); err == nil {
		st.durationKnown = true
		st.duration = d
	}
	if p, err := m.client.GetPaused(); err == nil {
		st.pausedKnown = true
		st.paused = p
		st.eof, _ = m.client.GetEOFReached()
	}
	st.idle, _ = m.client.GetIdleActive()

	m.applyPlayerStatus(st)

	if muted, err := m.client.GetMute(); err == nil {
		m.statusBar.Muted = muted
	}
	if t, err := m.client.GetTimePos(); err == nil {
		m.statusBar.TimePos = t
	}

	m.syncTransportBar()
}

// applyPlayerStatus turns one tick of polled state into reconciler events.
func (m *Model) applyPlayerStatus(st playerStatus) {
	if m.awaitingReady {
		switch {
		case st.durationKnown && st.duration > 0:
			// Readiness: a freshly loaded file reports a duration once mpv
			// has it open. The pending generation ties the readiness to the
			// load that requested it; a selection made in the meantime
			// supersedes it inside the reconciler.
			m.awaitingReady = false
			m.statusBar.Duration = st.duration
			if err := m.rec.Ready(m.pendingGen); err != nil {
				m.commandInput.SetResult("Error: "+err.Error(), true)
			}
		case st.idle && m.loadTicks >= loadFailureGraceTicks:
			// mpv went back to idle without ever reporting a duration: the
			// file was unreadable or undecodable. Intent is left as the user
			// set it so re-triggering the slot retries.
			m.awaitingReady = false
			m.rec.LoadFailed(m.pendingGen)
			m.grid.PlayingSlot = -1
			m.statusBar.Duration = 0
			m.commandInput.SetResult("Error: could not load "+m.statusBar.ClipName, true)
		default:
			m.loadTicks++
		}
	} else if st.durationKnown {
		m.statusBar.Duration = st.duration
	}

	if st.pausedKnown {
		switch {
		case st.eof && !m.lastEOF:
			// Natural end-of-media. Not a user pause: intent survives.
			m.rec.Ended()
		case st.paused != m.lastPaused:
			if st.paused {
				m.rec.Paused()
			} else {
				m.rec.Playing()
			}
		}
		m.lastPaused = st.paused
		m.lastEOF = st.eof
	}
}
