package journal

import (
	"database/sql"
	"fmt"
	"time"
)

// #region types

// TransitionEntry records one posture transition for operators.
type TransitionEntry struct {
	SessionID   string
	Turn        int
	FromPosture string
	ToPosture   string
	Trigger     string
	SignalsJSON string
	CreatedAt   time.Time
}

// CrisisEntry records one crisis notification.
type CrisisEntry struct {
	SessionID string
	Turn      int
	Reason    string
	CreatedAt time.Time
}

// #endregion types

// #region journal

// Journal appends posture-transition and crisis provenance rows. It shares
// the session store's database handle.
type Journal struct {
	db *sql.DB
}

// New creates the journal tables if needed and returns a Journal.
func New(db *sql.DB) (*Journal, error) {
	const ddl = `
CREATE TABLE IF NOT EXISTS posture_transitions (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id    TEXT NOT NULL,
	turn          INTEGER NOT NULL,
	from_posture  TEXT NOT NULL,
	to_posture    TEXT NOT NULL,
	trigger_rule  TEXT NOT NULL,
	signals_json  TEXT,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS crisis_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id    TEXT NOT NULL,
	turn          INTEGER NOT NULL,
	reason        TEXT NOT NULL,
	created_at    TEXT NOT NULL
);
`
	if _, err := db.Exec(ddl); err != nil {
		return nil, fmt.Errorf("journal migrate: %w", err)
	}
	return &Journal{db: db}, nil
}

// LogTransition writes one transition row.
func (j *Journal) LogTransition(e TransitionEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := j.db.Exec(
		`INSERT INTO posture_transitions (session_id, turn, from_posture, to_posture, trigger_rule, signals_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.SessionID, e.Turn, e.FromPosture, e.ToPosture, e.Trigger,
		nullIfEmpty(e.SignalsJSON),
		e.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log transition: %w", err)
	}
	return nil
}

// LogCrisis writes one crisis row.
func (j *Journal) LogCrisis(e CrisisEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := j.db.Exec(
		`INSERT INTO crisis_log (session_id, turn, reason, created_at) VALUES (?, ?, ?, ?)`,
		e.SessionID, e.Turn, e.Reason, e.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log crisis: %w", err)
	}
	return nil
}

// #endregion journal

// #region read

// RecentTransitions returns the newest transition rows, for inspection.
func (j *Journal) RecentTransitions(limit int) ([]TransitionEntry, error) {
	rows, err := j.db.Query(
		`SELECT session_id, turn, from_posture, to_posture, trigger_rule, COALESCE(signals_json, ''), created_at
		 FROM posture_transitions ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent transitions: %w", err)
	}
	defer rows.Close()

	var out []TransitionEntry
	for rows.Next() {
		var e TransitionEntry
		var createdStr string
		if err := rows.Scan(&e.SessionID, &e.Turn, &e.FromPosture, &e.ToPosture, &e.Trigger, &e.SignalsJSON, &createdStr); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, e)
	}
	return out, rows.Err()
}

// #endregion read

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
