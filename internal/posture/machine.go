package posture

import "github.com/soullab/oracle-engine/internal/analyzer"

// #region advance

// maxGateHops bounds how many deepening gates a single turn may pass. Two
// hops let a session that is plainly circling a topic compress
// Rapport→Pivoting→Looping into one turn instead of trailing a posture
// behind the conversation; de-escalating moves never chain.
const maxGateHops = 2

// Advance computes the next posture for one turn. Pure function of its
// inputs: the caller owns the session object and applies the decision.
// Never errors: an unrecognized posture resets to Casual and is reported
// as an anomaly, not raised, so one corrupted session cannot take down the
// orchestration layer.
func Advance(v View, sig analyzer.ContextSignal, cfg Config) Decision {
	anomaly := false
	if !Known(v.Current) {
		v.Current = Casual
		v.TurnsInPosture = 0
		anomaly = true
	}

	// Crisis override: evaluated first, from any posture.
	if crisis, reason := DetectCrisis(sig); crisis {
		return Decision{
			Next:         CrisisHold,
			Transitioned: v.Current != CrisisHold,
			Trigger:      "crisis_override",
			Crisis:       v.Current != CrisisHold,
			CrisisReason: reason,
			Anomaly:      anomaly,
		}
	}

	// CrisisHold freezes normal transition logic; only the external
	// acknowledgment event (engine.AcknowledgeCrisis) exits it.
	if v.Current == CrisisHold {
		return Decision{Next: CrisisHold, Trigger: "crisis_hold", Anomaly: anomaly}
	}

	cur := v.Current
	// dwell counts turns handled in the posture including the one that
	// entered it, while TurnsInPosture itself holds completed turns.
	dwell := v.TurnsInPosture + 1
	trigger := ""

	for hop := 0; hop < maxGateHops; hop++ {
		next, why, deepening := step(cur, dwell, v, sig, cfg)
		if next == cur {
			break
		}
		cur = next
		trigger = why
		dwell = 0 // freshly entered this turn
		if !deepening {
			break
		}
	}

	return Decision{
		Next:         cur,
		Transitioned: cur != v.Current,
		Trigger:      trigger,
		Anomaly:      anomaly,
	}
}

// #endregion

// #region step

// step evaluates the single applicable gate for the current posture.
// Returns the next posture, the rule name, and whether the move deepens
// (deepening moves may chain within a turn).
func step(cur Posture, dwell int, v View, sig analyzer.ContextSignal, cfg Config) (Posture, string, bool) {
	switch cur {
	case Casual:
		if v.SessionTurns >= cfg.MinTurnsBeforeRapport && v.Disclosures > 0 {
			return Rapport, "disclosure_after_min_turns", true
		}

	case Rapport:
		if dwell >= 1 && reflectiveTheme(sig.Theme) {
			return Pivoting, "reflective_theme_shift", true
		}

	case Pivoting:
		if v.ThemeRepeats >= cfg.ThemeRepeatsForLooping && sig.Theme == v.LastTheme {
			return Looping, "theme_circling", true
		}

	case Looping:
		if v.FireBalance >= cfg.HeightenedFireSkew && sig.OverallConfidence >= cfg.ConfidenceFloor {
			return Heightened, "sustained_intensity_skew", true
		}

	case Heightened:
		if dwell >= cfg.MaxHeightenedTurns {
			return Lightening, "heightened_turn_ceiling", false
		}
		if calmSentiment(sig.Sentiment) && sig.SentimentConfidence >= cfg.CalmConfidence {
			return Lightening, "calm_shift", false
		}

	case Lightening:
		// Transitional, not resting: unconditional exit after one turn.
		if dwell >= 1 {
			if v.Disclosures >= cfg.RapportReturnDisclosures {
				return Rapport, "lightening_settled_rapport", false
			}
			return Casual, "lightening_settled_casual", false
		}
	}

	return cur, "", false
}

// reflectiveTheme reports whether the theme pivots toward depth.
func reflectiveTheme(t analyzer.Theme) bool {
	switch t {
	case analyzer.ThemeEmotional, analyzer.ThemeDecision, analyzer.ThemePhilosophical:
		return true
	}
	return false
}

// calmSentiment reports whether the sentiment reads as calm or resolved.
func calmSentiment(s analyzer.Sentiment) bool {
	switch s {
	case analyzer.SentimentCalm, analyzer.SentimentJoyful, analyzer.SentimentNeutral:
		return true
	}
	return false
}

// #endregion
