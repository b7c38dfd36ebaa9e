package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/soullab/oracle-engine/internal/analyzer"
	"github.com/soullab/oracle-engine/internal/catalog"
	"github.com/soullab/oracle-engine/internal/config"
	"github.com/soullab/oracle-engine/internal/journal"
	"github.com/soullab/oracle-engine/internal/posture"
	"github.com/soullab/oracle-engine/internal/session"
)

type notifyRecorder struct {
	calls chan string
}

func newNotifyRecorder() *notifyRecorder {
	return &notifyRecorder{calls: make(chan string, 8)}
}

func (n *notifyRecorder) Notify(sessionID, reason string) {
	n.calls <- sessionID + ": " + reason
}

func (n *notifyRecorder) waitOne(t *testing.T) string {
	t.Helper()
	select {
	case c := <-n.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("no crisis notification arrived")
		return ""
	}
}

func (n *notifyRecorder) assertNone(t *testing.T) {
	t.Helper()
	select {
	case c := <-n.calls:
		t.Fatalf("unexpected crisis notification: %s", c)
	case <-time.After(100 * time.Millisecond):
	}
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(config.Default(), catalog.Builtin(), opts...)
	require.NoError(t, err)
	return e
}

// runTurns feeds texts through one session, accumulating rolling context
// the way a history collaborator would.
func runTurns(t *testing.T, e *Engine, sessionID string, texts []string) []TurnResult {
	t.Helper()
	var recent []analyzer.Turn
	results := make([]TurnResult, 0, len(texts))
	for _, text := range texts {
		res, err := e.ProcessTurn(context.Background(), sessionID, text, recent)
		require.NoError(t, err)
		results = append(results, res)
		recent = append(recent, analyzer.Turn{Role: "user", Text: text, Timestamp: time.Now()})
	}
	return results
}

func TestProcessTurnLowConfidenceFallsBack(t *testing.T) {
	e := newTestEngine(t)
	res, err := e.ProcessTurn(context.Background(), "s1", "k", nil)
	require.NoError(t, err)

	require.True(t, res.Signal.LowConfidence)
	require.True(t, res.Selection.Fallback)
	require.Equal(t, "maya", res.Selection.Primary.ID)
	require.Equal(t, posture.Casual, res.Posture)
	require.NotEmpty(t, res.TurnID)
	require.NotEmpty(t, res.StyleDirective)
}

func TestEscalationScenario(t *testing.T) {
	e := newTestEngine(t)
	results := runTurns(t, e, "s1", []string{
		"I feel so sad about losing my dad",
		"I feel like I can't stop crying, the grief is too heavy",
		"I feel stuck in this grief, why does it hurt so much",
	})

	require.Equal(t, posture.Casual, results[0].Posture)
	require.Equal(t, posture.Rapport, results[1].Posture)
	require.True(t, results[1].Transitioned)
	require.Equal(t, posture.Looping, results[2].Posture)

	st := e.SessionSnapshot("s1")
	require.NotNil(t, st)
	require.Equal(t, 3, st.SessionTurns)
	require.GreaterOrEqual(t, st.Disclosures, 2)
	require.Equal(t, analyzer.ThemeEmotional, st.LastTheme)
	require.GreaterOrEqual(t, st.ThemeRepeats, 3)
}

func TestEscalationUnderUrgency(t *testing.T) {
	rec := newNotifyRecorder()
	e := newTestEngine(t, WithNotifier(rec))

	// Rising exclamation pressure with no resolution language deepens the
	// posture without ever tripping the crisis signature.
	results := runTurns(t, e, "s1", []string{
		"I feel like it's all too much, I can't keep up with this deadline!",
		"I feel so overwhelmed, everything is urgent and I'm drowning in it!!",
		"I feel like I'm at my limit, this pressure never stops!!!",
	})

	require.Equal(t, posture.Casual, results[0].Posture)
	require.Equal(t, posture.Looping, results[2].Posture)
	rec.assertNone(t)

	// The looping transition happened this turn, so its turn counter is
	// freshly reset.
	require.Equal(t, 0, e.SessionSnapshot("s1").TurnsInPosture)
}

func TestTurnsInPostureBookkeeping(t *testing.T) {
	e := newTestEngine(t)

	// Turn 1 holds casual: one completed turn in posture.
	runTurns(t, e, "s1", []string{"hello there"})
	require.Equal(t, 1, e.SessionSnapshot("s1").TurnsInPosture)

	// Turn 2 holds again.
	runTurns(t, e, "s1", []string{"nice day"})
	require.Equal(t, 2, e.SessionSnapshot("s1").TurnsInPosture)

	// A disclosure past the minimum turn count transitions and resets.
	runTurns(t, e, "s1", []string{"I feel so sad about losing my dad"})
	st := e.SessionSnapshot("s1")
	require.Equal(t, posture.Rapport, st.CurrentPosture)
	require.Equal(t, 0, st.TurnsInPosture)
}

func TestCrisisNotifiedExactlyOnce(t *testing.T) {
	rec := newNotifyRecorder()
	e := newTestEngine(t, WithNotifier(rec))

	res, err := e.ProcessTurn(context.Background(), "s1", "I feel hopeless, like there's no way out", nil)
	require.NoError(t, err)
	require.Equal(t, posture.CrisisHold, res.Posture)
	require.Contains(t, rec.waitOne(t), "s1")

	// Still in crisis: a repeat distress turn is held, not re-notified.
	res, err = e.ProcessTurn(context.Background(), "s1", "it still feels hopeless, no way out", nil)
	require.NoError(t, err)
	require.Equal(t, posture.CrisisHold, res.Posture)
	require.False(t, res.Transitioned)
	rec.assertNone(t)

	// Normal turns do not exit the hold either.
	res, err = e.ProcessTurn(context.Background(), "s1", "I feel calmer now, much better", nil)
	require.NoError(t, err)
	require.Equal(t, posture.CrisisHold, res.Posture)
}

func TestAcknowledgeCrisisExitsHold(t *testing.T) {
	rec := newNotifyRecorder()
	e := newTestEngine(t, WithNotifier(rec))

	_, err := e.ProcessTurn(context.Background(), "s1", "I feel hopeless, like there's no way out", nil)
	require.NoError(t, err)
	rec.waitOne(t)

	acked, err := e.AcknowledgeCrisis("s1")
	require.NoError(t, err)
	require.True(t, acked)
	require.Equal(t, posture.Lightening, e.SessionSnapshot("s1").CurrentPosture)

	// Acknowledging twice is a no-op.
	acked, err = e.AcknowledgeCrisis("s1")
	require.NoError(t, err)
	require.False(t, acked)

	// Unknown sessions are a no-op too.
	acked, err = e.AcknowledgeCrisis("missing")
	require.NoError(t, err)
	require.False(t, acked)
}

func TestTurnInFlightRejected(t *testing.T) {
	e := newTestEngine(t)

	slot, err := e.acquire("s1")
	require.NoError(t, err)

	_, err = e.ProcessTurn(context.Background(), "s1", "hello there", nil)
	require.ErrorIs(t, err, ErrTurnInFlight)

	// Other sessions are unaffected.
	_, err = e.ProcessTurn(context.Background(), "s2", "hello there", nil)
	require.NoError(t, err)

	e.release(slot)
	_, err = e.ProcessTurn(context.Background(), "s1", "hello there", nil)
	require.NoError(t, err)
}

func TestCancelledTurnLeavesStateUntouched(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.ProcessTurn(context.Background(), "s1", "hello there", nil)
	require.NoError(t, err)
	before := e.SessionSnapshot("s1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.ProcessTurn(ctx, "s1", "I feel so sad about this", nil)
	require.Error(t, err)

	after := e.SessionSnapshot("s1")
	require.Equal(t, before.SessionTurns, after.SessionTurns)
	require.Equal(t, before.Disclosures, after.Disclosures)

	// And the session is not left in flight.
	_, err = e.ProcessTurn(context.Background(), "s1", "hello again", nil)
	require.NoError(t, err)
}

func TestDeterministicAcrossEngines(t *testing.T) {
	texts := []string{
		"I feel so sad about losing my dad",
		"Should I take the new job or stay where I am",
		"I'm so fired up, I want to change everything NOW!",
	}
	a := runTurns(t, newTestEngine(t), "s1", texts)
	b := runTurns(t, newTestEngine(t), "s1", texts)

	for i := range a {
		require.Equal(t, a[i].Signal, b[i].Signal, "turn %d signal", i)
		require.Equal(t, a[i].Selection, b[i].Selection, "turn %d selection", i)
		require.Equal(t, a[i].Posture, b[i].Posture, "turn %d posture", i)
		require.Equal(t, a[i].Prosody, b[i].Prosody, "turn %d prosody", i)
	}
}

func TestSnapshotPersistenceAcrossEngines(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sessions.db")

	store, err := session.NewStore(dbPath)
	require.NoError(t, err)
	jrnl, err := journal.New(store.DB())
	require.NoError(t, err)

	e1 := newTestEngine(t, WithStore(store), WithJournal(jrnl))
	runTurns(t, e1, "s1", []string{
		"I feel so sad about losing my dad",
		"I feel like I can't stop crying, the grief is too heavy",
	})
	require.Equal(t, posture.Rapport, e1.SessionSnapshot("s1").CurrentPosture)
	require.NoError(t, store.Close())

	// A fresh engine over the same archive resumes where the last left off.
	store2, err := session.NewStore(dbPath)
	require.NoError(t, err)
	defer store2.Close()

	e2 := newTestEngine(t, WithStore(store2))
	res, err := e2.ProcessTurn(context.Background(), "s1", "hello again", nil)
	require.NoError(t, err)
	require.Equal(t, "s1", res.SessionID)
	require.Equal(t, 3, e2.SessionSnapshot("s1").SessionTurns)

	// Transitions were journaled by the first engine.
	jrnl2, err := journal.New(store2.DB())
	require.NoError(t, err)
	transitions, err := jrnl2.RecentTransitions(10)
	require.NoError(t, err)
	require.NotEmpty(t, transitions)
	require.Equal(t, "rapport", transitions[0].ToPosture)
}

func TestJournalRecordsTrigger(t *testing.T) {
	store, err := session.NewStore(filepath.Join(t.TempDir(), "s.db"))
	require.NoError(t, err)
	defer store.Close()
	jrnl, err := journal.New(store.DB())
	require.NoError(t, err)

	e := newTestEngine(t, WithJournal(jrnl))
	runTurns(t, e, "s1", []string{
		"I feel so sad about losing my dad",
		"I feel like I can't stop crying, the grief is too heavy",
	})

	transitions, err := jrnl.RecentTransitions(10)
	require.NoError(t, err)
	require.Len(t, transitions, 1)
	require.Equal(t, "disclosure_after_min_turns", transitions[0].Trigger)
	require.Contains(t, transitions[0].SignalsJSON, `"sentiment"`)
}
