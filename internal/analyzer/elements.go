package analyzer

// #region detectors

// scoreElements runs the five independent lexical/tempo detectors. Each
// returns a score in [0,1]; scores are intentionally not normalized to sum
// 1, so hybrid turns can light up several elements at once.
func scoreElements(f features) ElementScores {
	scores := ElementScores{
		Fire:   fireScore(f),
		Water:  waterScore(f),
		Earth:  earthScore(f),
		Air:    airScore(f),
		Aether: aetherScore(f),
	}
	// A turn with no tonal evidence at all reads as faintly integrative,
	// which routes ambiguous input to the default agent's home element.
	if scores == (ElementScores{}) {
		scores.Aether = 0.05
	}
	return scores
}

// fireScore reads catalytic intensity: fire vocabulary, exclamation
// pressure, shouting.
func fireScore(f features) float32 {
	s := 0.28 * float32(countHits(f, elementLexicons[ElementFire]))
	s += 0.25 * clamp(f.ExclaimDensity)
	s += 0.15 * clamp(f.CapsRatio*4)
	return clamp(s)
}

// waterScore reads emotional depth: water vocabulary plus slow tempo cues.
func waterScore(f features) float32 {
	s := 0.28 * float32(countHits(f, elementLexicons[ElementWater]))
	s += 0.1 * clamp(0.5*float32(f.Ellipses))
	return clamp(s)
}

// earthScore reads grounded practicality.
func earthScore(f features) float32 {
	return clamp(0.28 * float32(countHits(f, elementLexicons[ElementEarth])))
}

// airScore reads mental clarity-seeking: air vocabulary plus question tempo.
func airScore(f features) float32 {
	s := 0.28 * float32(countHits(f, elementLexicons[ElementAir]))
	s += 0.1 * clamp(0.5*float32(f.Questions))
	return clamp(s)
}

// aetherScore reads integrative register.
func aetherScore(f features) float32 {
	return clamp(0.28 * float32(countHits(f, elementLexicons[ElementAether])))
}

// #endregion
