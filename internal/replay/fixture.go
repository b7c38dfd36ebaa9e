package replay

import (
	"encoding/json"
	"fmt"
	"os"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a scripted-session fixture.
type Fixture struct {
	Description string        `json:"description"`
	SessionID   string        `json:"session_id"`
	Turns       []FixtureTurn `json:"turns"`
}

// FixtureTurn is one scripted user turn with its optional expectations.
// Empty expectation fields are not checked.
type FixtureTurn struct {
	Text string `json:"text"`

	// ExpectPosture is the posture the session should hold after this turn.
	ExpectPosture string `json:"expect_posture,omitempty"`

	// ExpectAgent is the primary agent id that should front this turn.
	ExpectAgent string `json:"expect_agent,omitempty"`

	// ExpectFallback, when set, checks whether the turn routed through the
	// fallback path.
	ExpectFallback *bool `json:"expect_fallback,omitempty"`

	// ExpectTransitioned, when set, checks whether this turn changed posture.
	ExpectTransitioned *bool `json:"expect_transitioned,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if len(f.Turns) == 0 {
		return nil, fmt.Errorf("fixture %s: no turns", path)
	}
	if f.SessionID == "" {
		f.SessionID = "replay"
	}
	return &f, nil
}

// #endregion fixture-loader
