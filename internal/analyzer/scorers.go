package analyzer

// The three primary scorers are independent classifiers behind small
// interfaces so a learned model can replace any of them later without
// touching downstream components.

// #region interfaces

// SentimentScorer classifies the emotional register of a turn.
type SentimentScorer interface {
	ScoreSentiment(f features) (Sentiment, float32)
}

// ThemeScorer classifies the topical category of a turn and any
// secondary themes.
type ThemeScorer interface {
	ScoreTheme(f features) (Theme, float32, []ThemeScore)
}

// EnergyScorer reads the ordinal energy level of a turn.
type EnergyScorer interface {
	ScoreEnergy(f features) (Energy, float32)
}

// #endregion

// #region lexical-sentiment

// lexicalSentiment scores sentiment from keyword hits plus punctuation cues.
type lexicalSentiment struct{}

func (lexicalSentiment) ScoreSentiment(f features) (Sentiment, float32) {
	bestSentiment := SentimentNeutral
	bestHits := 0
	for _, s := range sentimentOrder {
		if hits := countHits(f, sentimentLexicons[s]); hits > bestHits {
			bestSentiment = s
			bestHits = hits
		}
	}

	if bestHits == 0 {
		// No lexicon evidence. Confidence scales with how much text there
		// was to read: "k" yields near-zero, a full paragraph of neutral
		// prose yields a usable neutral reading.
		conf := clamp(0.1 + 0.02*float32(min(f.WordCount, 10)))
		return SentimentNeutral, conf
	}

	conf := clamp(0.45 + 0.15*float32(bestHits))

	// Exclamation-heavy stressed/excited turns read more reliably.
	if (bestSentiment == SentimentExcited || bestSentiment == SentimentStressed ||
		bestSentiment == SentimentOverwhelmed) && f.ExclaimDensity >= 1 {
		conf = clamp(conf + 0.1)
	}
	return bestSentiment, conf
}

// #endregion

// #region lexical-theme

type lexicalTheme struct{}

func (lexicalTheme) ScoreTheme(f features) (Theme, float32, []ThemeScore) {
	type scored struct {
		theme Theme
		hits  int
	}
	var hitThemes []scored
	for _, th := range themeOrder {
		if hits := countHits(f, themeLexicons[th]); hits > 0 {
			hitThemes = append(hitThemes, scored{th, hits})
		}
	}

	if len(hitThemes) == 0 {
		conf := clamp(0.1 + 0.02*float32(min(f.WordCount, 10)))
		return ThemeGeneral, conf, nil
	}

	// Stable sort by hits descending; themeOrder breaks ties.
	for i := 1; i < len(hitThemes); i++ {
		for j := i; j > 0 && hitThemes[j].hits > hitThemes[j-1].hits; j-- {
			hitThemes[j], hitThemes[j-1] = hitThemes[j-1], hitThemes[j]
		}
	}

	primary := hitThemes[0]
	primaryConf := clamp(0.45 + 0.15*float32(primary.hits))

	var secondary []ThemeScore
	for _, s := range hitThemes[1:] {
		if len(secondary) == 2 {
			break
		}
		secondary = append(secondary, ThemeScore{
			Theme:      s.theme,
			Confidence: clamp(0.3 + 0.15*float32(s.hits)),
		})
	}
	return primary.theme, primaryConf, secondary
}

// #endregion

// #region lexical-energy

type lexicalEnergy struct{}

func (lexicalEnergy) ScoreEnergy(f features) (Energy, float32) {
	highCues := countHits(f, highEnergyWords)
	lowCues := countHits(f, lowEnergyWords)

	var highScore float32
	highScore += 0.4 * clamp(f.ExclaimDensity)
	highScore += 0.3 * clamp(f.CapsRatio*4)
	highScore += 0.2 * clamp(0.34*float32(highCues))
	if f.RepeatedWord {
		highScore += 0.1
	}

	var lowScore float32
	lowScore += 0.4 * clamp(0.34*float32(lowCues))
	lowScore += 0.3 * clamp(0.5*float32(f.Ellipses))
	if f.WordCount > 0 && f.WordCount < 6 && f.Exclamations == 0 {
		lowScore += 0.2
	}

	switch {
	case highScore >= 0.35 && highScore > lowScore:
		return EnergyHigh, clamp(0.4 + highScore)
	case lowScore >= 0.35 && lowScore > highScore:
		return EnergyLow, clamp(0.4 + lowScore)
	}

	// Medium is the default reading; confidence grows with text volume.
	conf := clamp(0.2 + 0.03*float32(min(f.WordCount, 15)))
	return EnergyMedium, conf
}

// #endregion
