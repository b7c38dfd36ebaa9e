package prosody

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/soullab/oracle-engine/internal/analyzer"
	"github.com/soullab/oracle-engine/internal/posture"
	"github.com/soullab/oracle-engine/internal/selector"
)

// #region tables

// mirrorTable maps element × energy to the mirror-phase parameters. Values
// center on the default voice baseline (speed 0.95, slight negative pitch,
// high warmth) and fan out by element temperament.
var mirrorTable = map[analyzer.Element]map[analyzer.Energy]PhaseParams{
	analyzer.ElementFire: {
		analyzer.EnergyHigh:   {SpeedMultiplier: 1.2, PitchShift: 1.0, Emphasis: 0.8, Warmth: 0.45},
		analyzer.EnergyMedium: {SpeedMultiplier: 1.1, PitchShift: 0.5, Emphasis: 0.65, Warmth: 0.5},
		analyzer.EnergyLow:    {SpeedMultiplier: 1.0, PitchShift: 0.2, Emphasis: 0.5, Warmth: 0.5},
	},
	analyzer.ElementWater: {
		analyzer.EnergyHigh:   {SpeedMultiplier: 0.95, PitchShift: -0.2, Emphasis: 0.45, Warmth: 0.8},
		analyzer.EnergyMedium: {SpeedMultiplier: 0.9, PitchShift: -0.5, Emphasis: 0.35, Warmth: 0.85},
		analyzer.EnergyLow:    {SpeedMultiplier: 0.85, PitchShift: -1.0, Emphasis: 0.3, Warmth: 0.9},
	},
	analyzer.ElementEarth: {
		analyzer.EnergyHigh:   {SpeedMultiplier: 1.0, PitchShift: -0.3, Emphasis: 0.5, Warmth: 0.7},
		analyzer.EnergyMedium: {SpeedMultiplier: 0.95, PitchShift: -0.5, Emphasis: 0.4, Warmth: 0.7},
		analyzer.EnergyLow:    {SpeedMultiplier: 0.9, PitchShift: -0.6, Emphasis: 0.35, Warmth: 0.75},
	},
	analyzer.ElementAir: {
		analyzer.EnergyHigh:   {SpeedMultiplier: 1.15, PitchShift: 0.5, Emphasis: 0.6, Warmth: 0.5},
		analyzer.EnergyMedium: {SpeedMultiplier: 1.08, PitchShift: 0.3, Emphasis: 0.55, Warmth: 0.55},
		analyzer.EnergyLow:    {SpeedMultiplier: 1.0, PitchShift: 0.1, Emphasis: 0.45, Warmth: 0.6},
	},
	analyzer.ElementAether: {
		analyzer.EnergyHigh:   {SpeedMultiplier: 1.0, PitchShift: -0.1, Emphasis: 0.45, Warmth: 0.75},
		analyzer.EnergyMedium: {SpeedMultiplier: 0.95, PitchShift: -0.3, Emphasis: 0.4, Warmth: 0.8},
		analyzer.EnergyLow:    {SpeedMultiplier: 0.9, PitchShift: -0.4, Emphasis: 0.35, Warmth: 0.85},
	},
}

// baseProfiles are the resting parameters per element, the interpolation
// targets for the balance phase.
var baseProfiles = map[analyzer.Element]PhaseParams{
	analyzer.ElementFire:   {SpeedMultiplier: 1.15, PitchShift: 0.8, Emphasis: 0.75, Warmth: 0.5},
	analyzer.ElementWater:  {SpeedMultiplier: 0.88, PitchShift: -0.8, Emphasis: 0.35, Warmth: 0.85},
	analyzer.ElementEarth:  {SpeedMultiplier: 0.92, PitchShift: -0.5, Emphasis: 0.4, Warmth: 0.75},
	analyzer.ElementAir:    {SpeedMultiplier: 1.08, PitchShift: 0.4, Emphasis: 0.55, Warmth: 0.6},
	analyzer.ElementAether: {SpeedMultiplier: 0.95, PitchShift: -0.3, Emphasis: 0.4, Warmth: 0.8},
}

// neutralParams is the safe fallback when a lookup table has a gap:
// unity multipliers, no shifts.
var neutralParams = PhaseParams{SpeedMultiplier: 1.0, PitchShift: 0, Emphasis: 0.5, Warmth: 0.7}

// postureDamping scales how far the balance phase moves from the mirror
// values toward the complement's base profile. Heightened damps hardest,
// no whiplash during intensity; Casual moves quickest.
var postureDamping = map[posture.Posture]float32{
	posture.Casual:     0.7,
	posture.Rapport:    0.6,
	posture.Pivoting:   0.55,
	posture.Looping:    0.5,
	posture.Heightened: 0.35,
	posture.Lightening: 0.6,
	posture.CrisisHold: 0.25,
}

var transitionStyles = map[posture.Posture]string{
	posture.Casual:     "brisk",
	posture.Heightened: "gentle",
	posture.CrisisHold: "steady",
}

// #endregion

// #region shaper

// Shaper computes the two-phase mirror-then-balance delivery profile.
type Shaper struct {
	config Config
	log    *zap.Logger
}

// NewShaper creates a Shaper.
func NewShaper(config Config, log *zap.Logger) *Shaper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Shaper{config: config, log: log}
}

// Shape builds the profile for one turn. last is the previously emitted
// profile for this session (nil on the first turn) used for continuity
// smoothing. Never fails: table gaps fall back to the neutral profile.
func (s *Shaper) Shape(sel selector.SelectionResult, p posture.Posture, sig analyzer.ContextSignal, last *Profile) Profile {
	dominant, _ := sig.Elements.Dominant()

	// Phase 1: mirror the dominant element at the observed energy.
	mirrorParams, ok := lookupMirror(dominant, sig.Energy)
	if !ok {
		s.log.Warn("mirror table gap, using neutral profile",
			zap.String("element", string(dominant)),
			zap.String("energy", string(sig.Energy)))
		mirrorParams = neutralParams
	}
	mirrorParams.Element = dominant

	mirror := MirrorPhase{
		PhaseParams:  mirrorParams,
		DurationHint: durationHint(sig.Energy),
	}

	// Phase 2: resolve the complementary element and damp toward its base
	// profile. Not a numeric opposite but an interpolation whose distance
	// depends on posture.
	complement, ok := s.config.ComplementaryMap[dominant]
	var balanceParams PhaseParams
	if !ok {
		s.log.Warn("complementary map gap, using neutral balance",
			zap.String("element", string(dominant)))
		complement = dominant
		balanceParams = neutralParams
	} else {
		target, haveBase := baseProfiles[complement]
		if !haveBase {
			s.log.Warn("base profile gap, using neutral balance",
				zap.String("element", string(complement)))
			target = neutralParams
		}
		damp := postureDamping[p]
		if damp == 0 {
			damp = 0.5
		}
		balanceParams = interpolate(mirrorParams, target, damp)
	}
	balanceParams.Element = complement

	balance := BalancePhase{
		PhaseParams:     balanceParams,
		TransitionStyle: styleFor(p),
	}

	// Continuity smoothing: clamp per-parameter movement against the last
	// emitted profile.
	if last != nil {
		mirror.PhaseParams = s.smooth(last.Mirror.PhaseParams, mirror.PhaseParams)
		balance.PhaseParams = s.smooth(last.Balance.PhaseParams, balance.PhaseParams)
	}

	return Profile{
		Mirror:    mirror,
		Balance:   balance,
		Directive: directive(sel, p, dominant, complement),
	}
}

func lookupMirror(e analyzer.Element, en analyzer.Energy) (PhaseParams, bool) {
	byEnergy, ok := mirrorTable[e]
	if !ok {
		return PhaseParams{}, false
	}
	params, ok := byEnergy[en]
	return params, ok
}

// interpolate moves each parameter from its mirror value toward the
// target by factor.
func interpolate(from, target PhaseParams, factor float32) PhaseParams {
	return PhaseParams{
		SpeedMultiplier: from.SpeedMultiplier + factor*(target.SpeedMultiplier-from.SpeedMultiplier),
		PitchShift:      from.PitchShift + factor*(target.PitchShift-from.PitchShift),
		Emphasis:        from.Emphasis + factor*(target.Emphasis-from.Emphasis),
		Warmth:          from.Warmth + factor*(target.Warmth-from.Warmth),
	}
}

// smooth clamps each parameter's movement to the configured maximum step.
func (s *Shaper) smooth(prev, next PhaseParams) PhaseParams {
	next.SpeedMultiplier = stepClamp(prev.SpeedMultiplier, next.SpeedMultiplier, s.config.MaxSpeedStep)
	next.PitchShift = stepClamp(prev.PitchShift, next.PitchShift, s.config.MaxPitchStep)
	next.Emphasis = stepClamp(prev.Emphasis, next.Emphasis, s.config.MaxEmphasisStep)
	next.Warmth = stepClamp(prev.Warmth, next.Warmth, s.config.MaxWarmthStep)
	return next
}

func stepClamp(prev, next, maxStep float32) float32 {
	if next > prev+maxStep {
		return prev + maxStep
	}
	if next < prev-maxStep {
		return prev - maxStep
	}
	return next
}

func durationHint(en analyzer.Energy) string {
	switch en {
	case analyzer.EnergyHigh:
		return "brief"
	case analyzer.EnergyLow:
		return "extended"
	}
	return "moderate"
}

func styleFor(p posture.Posture) string {
	if style, ok := transitionStyles[p]; ok {
		return style
	}
	return "gradual"
}

// #endregion

// #region directive

// elementFeel names the felt quality each element mirrors and guides toward.
var elementFeel = map[analyzer.Element]struct{ mirror, guide string }{
	analyzer.ElementFire:   {"the urgency", "grounded pacing"},
	analyzer.ElementWater:  {"the softness", "gentle activation"},
	analyzer.ElementEarth:  {"the steadiness", "lighter clarity"},
	analyzer.ElementAir:    {"the quick clarity", "settled ground"},
	analyzer.ElementAether: {"the spacious calm", "spacious calm"},
}

// directive renders the short style instruction for the text-generation
// collaborator. The shaper never generates prose itself.
func directive(sel selector.SelectionResult, p posture.Posture, dominant, complement analyzer.Element) string {
	if p == posture.CrisisHold {
		return "hold a steady, warm, unhurried presence; defer to safety guidance"
	}

	feel := elementFeel[dominant]
	var d string
	if dominant == complement {
		d = fmt.Sprintf("stay with %s; no redirection needed", feel.mirror)
	} else {
		d = fmt.Sprintf("mirror %s briefly, then guide toward %s", feel.mirror, feel.guide)
	}

	if sel.Primary.Archetype != "" {
		d = fmt.Sprintf("speak as the %s: %s", sel.Primary.Archetype, d)
	}
	if p == posture.Heightened {
		d += "; keep every shift gentle"
	}
	return d
}

// #endregion
