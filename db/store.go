package db

import (
	"database/sql"
	"fmt"

	"github.com/user/metropolis/session"
)

// Save writes the whole snapshot in one transaction, replacing whatever was
// stored before. The store holds exactly one session.
func Save(db *sql.DB, snap session.Snapshot) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"cue_points", "clips", "tabs", "session_meta"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	_, err = tx.Exec(
		"INSERT INTO session_meta (id, active_tab_id, rate) VALUES (1, ?, ?)",
		snap.ActiveTabID, snap.Rate,
	)
	if err != nil {
		return fmt.Errorf("inserting meta: %w", err)
	}

	for pos, tab := range snap.Tabs {
		_, err = tx.Exec(
			"INSERT INTO tabs (id, name, position) VALUES (?, ?, ?)",
			tab.ID, tab.Name, pos,
		)
		if err != nil {
			return fmt.Errorf("inserting tab %s: %w", tab.ID, err)
		}
		for _, clip := range tab.Clips {
			_, err = tx.Exec(
				"INSERT INTO clips (tab_id, slot, name, source) VALUES (?, ?, ?, ?)",
				tab.ID, clip.Slot, clip.Name, clip.Source,
			)
			if err != nil {
				return fmt.Errorf("inserting clip %s/%d: %w", tab.ID, clip.Slot, err)
			}
			for cuePos, cp := range clip.CuePoints {
				_, err = tx.Exec(
					"INSERT INTO cue_points (tab_id, slot, cue_id, time_seconds, position) VALUES (?, ?, ?, ?, ?)",
					tab.ID, clip.Slot, cp.ID, cp.Time, cuePos,
				)
				if err != nil {
					return fmt.Errorf("inserting cue %s: %w", cp.ID, err)
				}
			}
		}
	}

	return tx.Commit()
}

// Load reads the stored snapshot. A database with no saved session returns
// (Snapshot{}, false, nil).
func Load(db *sql.DB) (session.Snapshot, bool, error) {
	var snap session.Snapshot

	err := db.QueryRow("SELECT active_tab_id, rate FROM session_meta WHERE id = 1").
		Scan(&snap.ActiveTabID, &snap.Rate)
	if err == sql.ErrNoRows {
		return snap, false, nil
	}
	if err != nil {
		return snap, false, fmt.Errorf("reading meta: %w", err)
	}

	rows, err := db.Query("SELECT id, name FROM tabs ORDER BY position")
	if err != nil {
		return snap, false, fmt.Errorf("reading tabs: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tab session.TabSnapshot
		if err := rows.Scan(&tab.ID, &tab.Name); err != nil {
			return snap, false, fmt.Errorf("scanning tab: %w", err)
		}
		snap.Tabs = append(snap.Tabs, tab)
	}
	if err := rows.Err(); err != nil {
		return snap, false, fmt.Errorf("iterating tabs: %w", err)
	}

	for i := range snap.Tabs {
		clips, err := loadClips(db, snap.Tabs[i].ID)
		if err != nil {
			return snap, false, err
		}
		snap.Tabs[i].Clips = clips
	}

	return snap, true, nil
}

func loadClips(db *sql.DB, tabID string) ([]session.ClipSnapshot, error) {
	rows, err := db.Query(
		"SELECT slot, name, source FROM clips WHERE tab_id = ? ORDER BY slot", tabID)
	if err != nil {
		return nil, fmt.Errorf("reading clips for %s: %w", tabID, err)
	}
	defer rows.Close()

	var clips []session.ClipSnapshot
	for rows.Next() {
		var c session.ClipSnapshot
		if err := rows.Scan(&c.Slot, &c.Name, &c.Source); err != nil {
			return nil, fmt.Errorf("scanning clip: %w", err)
		}
		clips = append(clips, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating clips: %w", err)
	}

	for i := range clips {
		cues, err := loadCues(db, tabID, clips[i].Slot)
		if err != nil {
			return nil, err
		}
		clips[i].CuePoints = cues
	}
	return clips, nil
}

func loadCues(db *sql.DB, tabID string, slot int) ([]session.CuePoint, error) {
	// Position preserves insertion order among equal times.
	rows, err := db.Query(
		"SELECT cue_id, time_seconds FROM cue_points WHERE tab_id = ? AND slot = ? ORDER BY time_seconds, position",
		tabID, slot)
	if err != nil {
		return nil, fmt.Errorf("reading cues for %s/%d: %w", tabID, slot, err)
	}
	defer rows.Close()

	var cues []session.CuePoint
	for rows.Next() {
		var cp session.CuePoint
		if err := rows.Scan(&cp.ID, &cp.Time); err != nil {
			return nil, fmt.Errorf("scanning cue: %w", err)
		}
		cues = append(cues, cp)
	}
	return cues, rows.Err()
}
