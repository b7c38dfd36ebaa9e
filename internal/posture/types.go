package posture

import "github.com/soullab/oracle-engine/internal/analyzer"

// #region posture

// Posture is the session's conversational stance, representing depth and
// intensity. The ladder is linear-biased but not strictly linear.
type Posture string

const (
	Casual     Posture = "casual"
	Rapport    Posture = "rapport"
	Pivoting   Posture = "pivoting"
	Looping    Posture = "looping"
	Heightened Posture = "heightened"
	Lightening Posture = "lightening"
	CrisisHold Posture = "crisis_hold"
)

// Known reports whether p is a recognized posture value.
func Known(p Posture) bool {
	switch p {
	case Casual, Rapport, Pivoting, Looping, Heightened, Lightening, CrisisHold:
		return true
	}
	return false
}

// #endregion

// #region config

// Config holds the transition thresholds.
type Config struct {
	// MinTurnsBeforeRapport is the session turn count required before
	// Casual can deepen to Rapport.
	MinTurnsBeforeRapport int `yaml:"min_turns_before_rapport"`

	// DisclosureConfidence is the sentiment confidence a non-neutral turn
	// needs to count as an emotional disclosure.
	DisclosureConfidence float32 `yaml:"disclosure_confidence"`

	// ThemeRepeatsForLooping is the consecutive same-theme turn count
	// (with non-decreasing energy) that reads as circling a topic.
	ThemeRepeatsForLooping int `yaml:"theme_repeats_for_looping"`

	// HeightenedFireSkew is the rolling fire-balance share required for
	// Looping to escalate. Rolling balance, not a single-turn spike.
	HeightenedFireSkew float32 `yaml:"heightened_fire_skew"`

	// ConfidenceFloor gates the Looping→Heightened escalation.
	ConfidenceFloor float32 `yaml:"confidence_floor"`

	// MaxHeightenedTurns forces de-escalation after this many turns.
	MaxHeightenedTurns int `yaml:"max_heightened_turns"`

	// CalmConfidence is the confidence a calm/resolved sentiment needs to
	// trigger Heightened→Lightening.
	CalmConfidence float32 `yaml:"calm_confidence"`

	// RapportReturnDisclosures decides the Lightening exit: with at least
	// this many disclosures on record the session settles back to Rapport
	// rather than Casual.
	RapportReturnDisclosures int `yaml:"rapport_return_disclosures"`
}

// DefaultConfig returns the transition defaults.
func DefaultConfig() Config {
	return Config{
		MinTurnsBeforeRapport:    2,
		DisclosureConfidence:     0.5,
		ThemeRepeatsForLooping:   2,
		HeightenedFireSkew:       0.4,
		ConfidenceFloor:          0.6,
		MaxHeightenedTurns:       3,
		CalmConfidence:           0.5,
		RapportReturnDisclosures: 2,
	}
}

// #endregion

// #region view

// View is the slice of session state the transition rules read. The engine
// populates it with counters that already include the current turn, while
// TurnsInPosture counts completed turns since the last transition.
type View struct {
	Current        Posture
	TurnsInPosture int
	SessionTurns   int

	// Disclosures counts confident non-neutral sentiment turns this session.
	Disclosures int

	// LastTheme / ThemeRepeats / LastEnergy track topic circling. A repeat
	// count of n means the current theme held for n consecutive turns.
	LastTheme    analyzer.Theme
	ThemeRepeats int
	LastEnergy   analyzer.Energy

	// FireBalance is the rolling (decayed) fire share of element balance.
	FireBalance float32
}

// #endregion

// #region decision

// Decision is the outcome of advancing the state machine one turn.
type Decision struct {
	Next         Posture
	Transitioned bool

	// Trigger names the rule that fired, for the journal.
	Trigger string

	// Crisis is set when this turn entered CrisisHold.
	Crisis bool

	// CrisisReason carries the detector's reason when Crisis is set.
	CrisisReason string

	// Anomaly is set when the input posture was unrecognized and the
	// machine recovered by resetting to Casual.
	Anomaly bool
}

// #endregion
