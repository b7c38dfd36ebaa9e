package session

import (
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"time"

	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS session_snapshots (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id   TEXT NOT NULL,
	turn         INTEGER NOT NULL,
	posture      TEXT NOT NULL,
	balance      BLOB NOT NULL,
	state_json   TEXT NOT NULL,
	created_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_session_snapshots_session
ON session_snapshots(session_id, turn);
`

// #endregion schema

// #region store-struct
// Store archives end-of-turn session snapshots in SQLite. It is a
// diagnostic facility: the in-memory State stays authoritative and the
// external memory collaborator owns long-term retention.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens the SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. the
// journal).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion constructor

// #region save
// SaveSnapshot appends one end-of-turn snapshot.
func (s *Store) SaveSnapshot(st *State) error {
	stateJSON, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO session_snapshots (session_id, turn, posture, balance, state_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		st.SessionID,
		st.SessionTurns,
		string(st.CurrentPosture),
		encodeBalance(st.Balance),
		string(stateJSON),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// #endregion save

// #region latest
// LatestSnapshot returns the most recent snapshot for a session, or
// sql.ErrNoRows wrapped when none exists.
func (s *Store) LatestSnapshot(sessionID string) (*State, error) {
	var stateJSON string
	err := s.db.QueryRow(
		`SELECT state_json FROM session_snapshots
		 WHERE session_id = ? ORDER BY turn DESC, id DESC LIMIT 1`,
		sessionID,
	).Scan(&stateJSON)
	if err != nil {
		return nil, fmt.Errorf("latest snapshot %s: %w", sessionID, err)
	}
	var st State
	if err := json.Unmarshal([]byte(stateJSON), &st); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot %s: %w", sessionID, err)
	}
	return &st, nil
}

// #endregion latest

// #region list
// SnapshotRow is a summary row for diagnostics listings.
type SnapshotRow struct {
	SessionID string
	Turn      int
	Posture   string
	Balance   Balance
	CreatedAt time.Time
}

// ListSnapshots returns the most recent snapshots across sessions.
func (s *Store) ListSnapshots(limit int) ([]SnapshotRow, error) {
	rows, err := s.db.Query(
		`SELECT session_id, turn, posture, balance, created_at
		 FROM session_snapshots ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []SnapshotRow
	for rows.Next() {
		var r SnapshotRow
		var blob []byte
		var createdStr string
		if err := rows.Scan(&r.SessionID, &r.Turn, &r.Posture, &blob, &createdStr); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		r.Balance = decodeBalance(blob)
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, r)
	}
	return out, rows.Err()
}

// #endregion list

// #region balance-encoding
func encodeBalance(b Balance) []byte {
	vals := [5]float32{b.Fire, b.Water, b.Earth, b.Air, b.Aether}
	buf := make([]byte, 5*4)
	for i, f := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeBalance(blob []byte) Balance {
	var vals [5]float32
	for i := range vals {
		if i*4+4 <= len(blob) {
			vals[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
		}
	}
	return Balance{Fire: vals[0], Water: vals[1], Earth: vals[2], Air: vals[3], Aether: vals[4]}
}

// #endregion balance-encoding
