package selector

import "github.com/soullab/oracle-engine/internal/catalog"

// #region config

// Config holds the selection thresholds.
type Config struct {
	// SelectionThreshold is the minimum match score for a primary agent to
	// win outright.
	SelectionThreshold float32 `yaml:"selection_threshold"`

	// ConfidenceFloor is the minimum ContextSignal.OverallConfidence for
	// primary routing to be trusted at all.
	ConfidenceFloor float32 `yaml:"confidence_floor"`

	// TieEpsilon is the score gap under which two agents are considered
	// tied and specificity breaks the tie.
	TieEpsilon float32 `yaml:"tie_epsilon"`

	// SecondaryThemeFloor is the confidence a secondary theme needs before
	// supporting agents ride along with a confident primary.
	SecondaryThemeFloor float32 `yaml:"secondary_theme_floor"`

	// SupportFloor is the minimum match score for an agent to appear as a
	// supporting influence.
	SupportFloor float32 `yaml:"support_floor"`

	// MaxSupporting caps the supporting-agent list.
	MaxSupporting int `yaml:"max_supporting"`
}

// DefaultConfig returns the selector defaults.
func DefaultConfig() Config {
	return Config{
		SelectionThreshold:  0.75,
		ConfidenceFloor:     0.6,
		TieEpsilon:          0.02,
		SecondaryThemeFloor: 0.5,
		SupportFloor:        0.3,
		MaxSupporting:       2,
	}
}

// #endregion

// #region result

// ScoredAgent pairs a profile with its match score for this turn.
type ScoredAgent struct {
	Agent catalog.AgentProfile
	Score float32
}

// SelectionResult is the per-turn routing outcome. Ephemeral: consumed by
// the state machine and shaper within the same turn.
type SelectionResult struct {
	Primary    catalog.AgentProfile
	Confidence float32

	// Supporting agents influence the response directive without driving
	// it. Populated on fallback routing or when secondary themes are strong.
	Supporting []ScoredAgent

	// Strategy is the resolved response-strategy tag, possibly suffixed
	// with a supporting agent's modifier.
	Strategy string

	// Fallback marks that the default agent was chosen because no match
	// cleared the thresholds.
	Fallback bool
}

// #endregion
