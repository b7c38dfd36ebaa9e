package prosody

import "github.com/soullab/oracle-engine/internal/analyzer"

// #region phases

// PhaseParams are the delivery parameters for one shaping phase. The
// rendering collaborator consumes them to modulate pacing and tone.
type PhaseParams struct {
	Element         analyzer.Element `yaml:"element" json:"element"`
	SpeedMultiplier float32          `yaml:"speed_multiplier" json:"speed_multiplier"`
	PitchShift      float32          `yaml:"pitch_shift" json:"pitch_shift"` // semitones
	Emphasis        float32          `yaml:"emphasis" json:"emphasis"`       // 0..1
	Warmth          float32          `yaml:"warmth" json:"warmth"`           // 0..1
}

// MirrorPhase matches the user's current energy so the response feels
// heard before redirecting.
type MirrorPhase struct {
	PhaseParams `yaml:",inline"`
	DurationHint string `yaml:"duration_hint" json:"duration_hint"`
}

// BalancePhase nudges delivery toward the complementary, more regulated
// energy.
type BalancePhase struct {
	PhaseParams     `yaml:",inline"`
	TransitionStyle string `yaml:"transition_style" json:"transition_style"`
}

// Profile is the two-phase delivery profile for one turn. Ephemeral: the
// most recent instance is cached on the session for continuity smoothing.
type Profile struct {
	Mirror    MirrorPhase  `json:"mirror"`
	Balance   BalancePhase `json:"balance"`
	Directive string       `json:"directive"`
}

// #endregion

// #region config

// Config holds the shaping tables and smoothing bounds.
type Config struct {
	// ComplementaryMap resolves each element's balancing target. Aether
	// maps to itself: an already-integrated state needs no correction.
	ComplementaryMap map[analyzer.Element]analyzer.Element `yaml:"complementary_map"`

	// MaxSpeedStep etc. clamp per-parameter movement between consecutive
	// turns so noisy signals cannot cause jarring oscillation.
	MaxSpeedStep    float32 `yaml:"max_speed_step"`
	MaxPitchStep    float32 `yaml:"max_pitch_step"`
	MaxEmphasisStep float32 `yaml:"max_emphasis_step"`
	MaxWarmthStep   float32 `yaml:"max_warmth_step"`
}

// DefaultConfig returns the standard complementary map and smoothing steps.
// High-intensity elements ground, low-energy elements activate, scattered
// grounds, the integrative holds steady.
func DefaultConfig() Config {
	return Config{
		ComplementaryMap: map[analyzer.Element]analyzer.Element{
			analyzer.ElementFire:   analyzer.ElementEarth,
			analyzer.ElementWater:  analyzer.ElementFire,
			analyzer.ElementEarth:  analyzer.ElementAir,
			analyzer.ElementAir:    analyzer.ElementEarth,
			analyzer.ElementAether: analyzer.ElementAether,
		},
		MaxSpeedStep:    0.1,
		MaxPitchStep:    0.6,
		MaxEmphasisStep: 0.2,
		MaxWarmthStep:   0.2,
	}
}

// #endregion
