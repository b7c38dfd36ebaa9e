package journal

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func tempJournal(t *testing.T) *Journal {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	j, err := New(db)
	require.NoError(t, err)
	return j
}

func TestLogAndReadTransitions(t *testing.T) {
	j := tempJournal(t)

	require.NoError(t, j.LogTransition(TransitionEntry{
		SessionID:   "s1",
		Turn:        2,
		FromPosture: "casual",
		ToPosture:   "rapport",
		Trigger:     "disclosure_after_min_turns",
		SignalsJSON: `{"sentiment":"sad"}`,
	}))
	require.NoError(t, j.LogTransition(TransitionEntry{
		SessionID:   "s1",
		Turn:        3,
		FromPosture: "rapport",
		ToPosture:   "pivoting",
		Trigger:     "reflective_theme_shift",
	}))

	got, err := j.RecentTransitions(10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Newest first.
	require.Equal(t, "pivoting", got[0].ToPosture)
	require.Equal(t, "", got[0].SignalsJSON)
	require.Equal(t, "rapport", got[1].ToPosture)
	require.Equal(t, `{"sentiment":"sad"}`, got[1].SignalsJSON)
	require.False(t, got[0].CreatedAt.IsZero())
}

func TestRecentTransitionsLimit(t *testing.T) {
	j := tempJournal(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, j.LogTransition(TransitionEntry{
			SessionID: "s1", Turn: i, FromPosture: "casual", ToPosture: "rapport", Trigger: "t",
		}))
	}
	got, err := j.RecentTransitions(3)
	require.NoError(t, err)
	require.Len(t, got, 3)
}

func TestLogCrisis(t *testing.T) {
	j := tempJournal(t)
	entry := CrisisEntry{
		SessionID: "s1",
		Turn:      7,
		Reason:    "despairing sentiment at confidence 0.75",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, j.LogCrisis(entry))
}
