package posture

import (
	"fmt"

	"github.com/soullab/oracle-engine/internal/analyzer"
)

// #region crisis-detection

// DetectCrisis checks the reserved acute-distress signature. It is
// evaluated before every other transition rule, every turn. Hard cues
// first, then the sustained-intensity combination.
func DetectCrisis(sig analyzer.ContextSignal) (bool, string) {
	// 1. Explicit distress lexicon hit with usable confidence.
	if sig.Sentiment == analyzer.SentimentDespairing && sig.SentimentConfidence >= 0.5 {
		return true, fmt.Sprintf("despairing sentiment at confidence %.2f", sig.SentimentConfidence)
	}

	// 2. Overwhelm at high energy with near-saturated fire reading.
	if sig.Sentiment == analyzer.SentimentOverwhelmed &&
		sig.Energy == analyzer.EnergyHigh &&
		sig.Elements.Fire >= 0.8 {
		return true, fmt.Sprintf("overwhelmed at high energy, fire score %.2f", sig.Elements.Fire)
	}

	return false, ""
}

// #endregion
