package analyzer

import (
	"strings"

	"go.uber.org/zap"
)

// #region config

// Config holds the analyzer's tuning knobs.
type Config struct {
	// MinScorerConfidence is the floor under which all three scorers must
	// fall for the signal to be tagged low-confidence.
	MinScorerConfidence float32 `yaml:"min_scorer_confidence"`

	// ShortInputWordLimit bounds the turns eligible for rolling-context
	// disambiguation. Longer turns always stand on their own signal.
	ShortInputWordLimit int `yaml:"short_input_word_limit"`

	// ContextTurns caps how many recent turns feed disambiguation.
	ContextTurns int `yaml:"context_turns"`

	// ContextDamping scales confidences inherited from rolling context so
	// older context never outranks a strong current-turn signal.
	ContextDamping float32 `yaml:"context_damping"`
}

// DefaultConfig returns the analyzer defaults.
func DefaultConfig() Config {
	return Config{
		MinScorerConfidence: 0.25,
		ShortInputWordLimit: 3,
		ContextTurns:        3,
		ContextDamping:      0.6,
	}
}

// #endregion

// #region analyzer

// Analyzer converts raw turn text into a ContextSignal. It never errors:
// empty or non-linguistic input yields a neutral, low-confidence signal.
type Analyzer struct {
	config    Config
	sentiment SentimentScorer
	theme     ThemeScorer
	energy    EnergyScorer
	log       *zap.Logger
}

// New creates an Analyzer with the built-in lexical scorers.
func New(config Config, log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{
		config:    config,
		sentiment: lexicalSentiment{},
		theme:     lexicalTheme{},
		energy:    lexicalEnergy{},
		log:       log,
	}
}

// WithScorers replaces individual scorers; nil arguments keep the current
// scorer. Used to swap in learned models without touching downstream code.
func (a *Analyzer) WithScorers(s SentimentScorer, t ThemeScorer, e EnergyScorer) *Analyzer {
	if s != nil {
		a.sentiment = s
	}
	if t != nil {
		a.theme = t
	}
	if e != nil {
		a.energy = e
	}
	return a
}

// #endregion

// #region analyze

// Overall-confidence blend weights. Theme weighs highest because routing
// depends most on topical fit.
const (
	sentimentWeight = 0.3
	themeWeight     = 0.4
	energyWeight    = 0.3
)

// Analyze produces the signal for one turn. recent is the rolling context
// from the external history collaborator, newest last; it is consulted only
// to disambiguate short, weak input.
func (a *Analyzer) Analyze(text string, recent []Turn) ContextSignal {
	f := extractFeatures(text)

	sentiment, sentConf := a.sentiment.ScoreSentiment(f)
	theme, themeConf, secondary := a.theme.ScoreTheme(f)
	energy, energyConf := a.energy.ScoreEnergy(f)

	// Short ambiguous input: let the last few turns fill in sentiment and
	// theme, with damped confidence. A strong current-turn signal is never
	// overridden.
	if f.WordCount <= a.config.ShortInputWordLimit && len(recent) > 0 {
		cf := extractFeatures(a.contextText(recent))
		if sentConf < a.config.MinScorerConfidence {
			if ctxSent, ctxConf := a.sentiment.ScoreSentiment(cf); ctxConf >= a.config.MinScorerConfidence {
				sentiment = ctxSent
				sentConf = clamp(ctxConf * a.config.ContextDamping)
			}
		}
		if themeConf < a.config.MinScorerConfidence {
			if ctxTheme, ctxConf, _ := a.theme.ScoreTheme(cf); ctxConf >= a.config.MinScorerConfidence {
				theme = ctxTheme
				themeConf = clamp(ctxConf * a.config.ContextDamping)
			}
		}
	}

	overall := clamp(sentimentWeight*sentConf + themeWeight*themeConf + energyWeight*energyConf)
	low := sentConf < a.config.MinScorerConfidence &&
		themeConf < a.config.MinScorerConfidence &&
		energyConf < a.config.MinScorerConfidence

	if low {
		a.log.Debug("low-confidence signal",
			zap.Int("word_count", f.WordCount),
			zap.Float32("overall", overall))
	}

	return ContextSignal{
		Sentiment:           sentiment,
		SentimentConfidence: sentConf,
		Theme:               theme,
		ThemeConfidence:     themeConf,
		SecondaryThemes:     secondary,
		Energy:              energy,
		EnergyConfidence:    energyConf,
		Elements:            scoreElements(f),
		OverallConfidence:   overall,
		LowConfidence:       low,
	}
}

// contextText joins the newest ContextTurns of rolling context.
func (a *Analyzer) contextText(recent []Turn) string {
	n := a.config.ContextTurns
	if n <= 0 || n > len(recent) {
		n = len(recent)
	}
	parts := make([]string, 0, n)
	for _, t := range recent[len(recent)-n:] {
		parts = append(parts, t.Text)
	}
	return strings.Join(parts, "\n")
}

// #endregion
