package replay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soullab/oracle-engine/internal/config"
)

func boolPtr(b bool) *bool { return &b }

func TestRunEscalationFixture(t *testing.T) {
	f := &Fixture{
		Description: "grief escalation settles into looping",
		SessionID:   "fixture-1",
		Turns: []FixtureTurn{
			{
				Text:          "I feel so sad about losing my dad",
				ExpectPosture: "casual",
			},
			{
				Text:               "I feel like I can't stop crying, the grief is too heavy",
				ExpectPosture:      "rapport",
				ExpectTransitioned: boolPtr(true),
			},
			{
				Text:          "I feel stuck in this grief, why does it hurt so much",
				ExpectPosture: "looping",
			},
		},
	}

	outcomes, err := Run(f, config.Default())
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	summary := Summarize(outcomes)
	require.True(t, summary.AllPassed(), "outcomes: %+v", outcomes)
	require.Equal(t, 3, summary.Passed)
}

func TestRunReportsMismatches(t *testing.T) {
	f := &Fixture{
		Description: "deliberately wrong expectation",
		SessionID:   "fixture-2",
		Turns: []FixtureTurn{
			{Text: "hello there", ExpectPosture: "heightened", ExpectAgent: "fire-oracle"},
		},
	}

	outcomes, err := Run(f, config.Default())
	require.NoError(t, err)
	require.Len(t, outcomes[0].Mismatches, 2)

	summary := Summarize(outcomes)
	require.False(t, summary.AllPassed())
	require.Equal(t, 1, summary.Failed)
}

func TestRunChecksFallback(t *testing.T) {
	f := &Fixture{
		SessionID: "fixture-3",
		Turns: []FixtureTurn{
			{Text: "k", ExpectAgent: "maya", ExpectFallback: boolPtr(true)},
		},
	}
	outcomes, err := Run(f, config.Default())
	require.NoError(t, err)
	require.Empty(t, outcomes[0].Mismatches)
}

func TestLoadFixture(t *testing.T) {
	doc := `{
  "description": "smoke",
  "session_id": "s1",
  "turns": [
    {"text": "hello", "expect_posture": "casual"},
    {"text": "I feel sad", "expect_transitioned": false}
  ]
}`
	path := filepath.Join(t.TempDir(), "fixture.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	f, err := LoadFixture(path)
	require.NoError(t, err)
	require.Equal(t, "smoke", f.Description)
	require.Len(t, f.Turns, 2)
	require.Equal(t, "casual", f.Turns[0].ExpectPosture)
	require.NotNil(t, f.Turns[1].ExpectTransitioned)
	require.False(t, *f.Turns[1].ExpectTransitioned)
}

func TestLoadFixtureRejectsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"description":"x"}`), 0o644))
	_, err := LoadFixture(path)
	require.Error(t, err)
}

func TestLoadFixtureDefaultsSessionID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nosid.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"turns":[{"text":"hi"}]}`), 0o644))
	f, err := LoadFixture(path)
	require.NoError(t, err)
	require.Equal(t, "replay", f.SessionID)
}
