package analyzer

import "time"

// #region sentiment

// Sentiment classifies the emotional register of a user turn.
type Sentiment string

const (
	SentimentNeutral     Sentiment = "neutral"
	SentimentJoyful      Sentiment = "joyful"
	SentimentExcited     Sentiment = "excited"
	SentimentCalm        Sentiment = "calm"
	SentimentStressed    Sentiment = "stressed"
	SentimentOverwhelmed Sentiment = "overwhelmed"
	SentimentConfused    Sentiment = "confused"
	SentimentSad         Sentiment = "sad"
	SentimentDespairing  Sentiment = "despairing"
)

// #endregion

// #region theme

// Theme classifies the topical category of a user turn.
type Theme string

const (
	ThemeGeneral       Theme = "general"
	ThemeDecision      Theme = "decision-making"
	ThemeEmotional     Theme = "emotional-processing"
	ThemeCreative      Theme = "creative-exploration"
	ThemePractical     Theme = "practical-planning"
	ThemePhilosophical Theme = "philosophical-reflection"
)

// ThemeScore pairs a secondary theme with its own confidence.
type ThemeScore struct {
	Theme      Theme
	Confidence float32
}

// #endregion

// #region energy

// Energy is the ordinal energy level read from a turn.
type Energy string

const (
	EnergyLow    Energy = "low"
	EnergyMedium Energy = "medium"
	EnergyHigh   Energy = "high"
)

// energyRank orders energy levels for non-decreasing comparisons.
func energyRank(e Energy) int {
	switch e {
	case EnergyLow:
		return 0
	case EnergyHigh:
		return 2
	default:
		return 1
	}
}

// EnergyNonDecreasing reports whether b is at least as energetic as a.
func EnergyNonDecreasing(a, b Energy) bool {
	return energyRank(b) >= energyRank(a)
}

// #endregion

// #region element

// Element is one of the five-way tonal categories driving agent selection
// and delivery shaping. Aether is the integrative "both/neither" category.
type Element string

const (
	ElementFire   Element = "fire"
	ElementWater  Element = "water"
	ElementEarth  Element = "earth"
	ElementAir    Element = "air"
	ElementAether Element = "aether"
)

// Elements lists all element categories in canonical order.
// The order doubles as the deterministic tie-break for Dominant.
var Elements = []Element{ElementFire, ElementWater, ElementEarth, ElementAir, ElementAether}

// ElementScores holds one detector score per element. Scores are not
// normalized to sum 1; hybrid signals are meaningful, not noise.
type ElementScores struct {
	Fire   float32
	Water  float32
	Earth  float32
	Air    float32
	Aether float32
}

// Score returns the score for a single element.
func (s ElementScores) Score(e Element) float32 {
	switch e {
	case ElementFire:
		return s.Fire
	case ElementWater:
		return s.Water
	case ElementEarth:
		return s.Earth
	case ElementAir:
		return s.Air
	case ElementAether:
		return s.Aether
	}
	return 0
}

// Dominant returns the highest-scoring element. Ties resolve in canonical
// element order so results stay deterministic.
func (s ElementScores) Dominant() (Element, float32) {
	best := Elements[0]
	bestScore := s.Score(best)
	for _, e := range Elements[1:] {
		if sc := s.Score(e); sc > bestScore {
			best = e
			bestScore = sc
		}
	}
	return best, bestScore
}

// #endregion

// #region turn

// Turn is one prior conversation turn supplied by the external
// memory/history collaborator. The engine never fetches history itself.
type Turn struct {
	Role      string
	Text      string
	Timestamp time.Time
}

// #endregion

// #region context-signal

// ContextSignal is the structured, confidence-scored reading of one user
// turn. Created fresh per turn, never mutated after creation.
type ContextSignal struct {
	Sentiment           Sentiment
	SentimentConfidence float32

	Theme           Theme
	ThemeConfidence float32
	SecondaryThemes []ThemeScore

	Energy           Energy
	EnergyConfidence float32

	Elements ElementScores

	// OverallConfidence blends the three scorer confidences
	// (sentiment 0.3, theme 0.4, energy 0.3).
	OverallConfidence float32

	// LowConfidence is set when every scorer came in under the floor.
	// This flag, not an error, is how the selector learns to fall back.
	LowConfidence bool
}

// #endregion
