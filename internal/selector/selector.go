package selector

import (
	"sort"

	"go.uber.org/zap"

	"github.com/soullab/oracle-engine/internal/analyzer"
	"github.com/soullab/oracle-engine/internal/catalog"
)

// #region bonus-table

// compatBonus maps {theme, sentiment} pairs to small per-agent score
// bonuses, blending topical fit into the element affinity matrix.
var compatBonus = map[analyzer.Theme]map[analyzer.Sentiment]map[string]float32{
	analyzer.ThemeEmotional: {
		analyzer.SentimentSad:         {"water-oracle": 0.15},
		analyzer.SentimentOverwhelmed: {"water-oracle": 0.1, "earth-oracle": 0.05},
		analyzer.SentimentJoyful:      {"water-oracle": 0.05, "fire-oracle": 0.05},
	},
	analyzer.ThemeDecision: {
		analyzer.SentimentConfused: {"air-oracle": 0.1, "earth-oracle": 0.1},
		analyzer.SentimentStressed: {"earth-oracle": 0.1},
	},
	analyzer.ThemeCreative: {
		analyzer.SentimentExcited: {"fire-oracle": 0.15},
		analyzer.SentimentNeutral: {"fire-oracle": 0.05, "air-oracle": 0.05},
	},
	analyzer.ThemePractical: {
		analyzer.SentimentStressed:    {"earth-oracle": 0.15},
		analyzer.SentimentOverwhelmed: {"earth-oracle": 0.15},
	},
	analyzer.ThemePhilosophical: {
		analyzer.SentimentNeutral:  {"aether-oracle": 0.15},
		analyzer.SentimentConfused: {"aether-oracle": 0.1, "air-oracle": 0.05},
	},
}

func bonusFor(theme analyzer.Theme, sentiment analyzer.Sentiment, agentID string) float32 {
	if byTheme, ok := compatBonus[theme]; ok {
		if bySent, ok := byTheme[sentiment]; ok {
			return bySent[agentID]
		}
	}
	return 0
}

// #endregion

// #region selector

// Selector applies the deterministic selection matrix. Given identical
// inputs it always produces identical results, with no hidden randomness.
type Selector struct {
	config  Config
	catalog catalog.Catalog
	log     *zap.Logger
}

// New creates a Selector over a validated catalog.
func New(config Config, cat catalog.Catalog, log *zap.Logger) *Selector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Selector{config: config, catalog: cat, log: log}
}

// #endregion

// #region select

// Select chooses the primary agent and any supporting agents for the turn.
// It is total: absence of a qualifying match resolves to the default agent,
// never to an error.
func (s *Selector) Select(sig analyzer.ContextSignal) SelectionResult {
	ranked := s.rank(sig)
	dominant, _ := sig.Elements.Dominant()

	top := ranked[0]

	// Tie-break: within epsilon, specificity wins over generality: the
	// agent whose home element is the dominant one beats a blended profile.
	for _, cand := range ranked[1:] {
		if top.Score-cand.Score > s.config.TieEpsilon {
			break
		}
		if cand.Agent.HomeElement() == dominant && top.Agent.HomeElement() != dominant {
			top = cand
			continue
		}
		if cand.Agent.HomeElement() == dominant && top.Agent.HomeElement() == dominant &&
			cand.Agent.Specificity() > top.Agent.Specificity() {
			top = cand
		}
	}

	qualified := top.Score >= s.config.SelectionThreshold &&
		sig.OverallConfidence >= s.config.ConfidenceFloor &&
		!sig.LowConfidence

	if qualified {
		res := SelectionResult{
			Primary:    top.Agent,
			Confidence: clamp(top.Score),
		}
		if s.strongSecondaryTheme(sig) {
			res.Supporting = s.supportingFrom(ranked, top.Agent.ID)
		}
		res.Strategy = resolveStrategy(res.Primary, res.Supporting)
		return res
	}

	// Fallback routing: the default agent fronts the turn and the top
	// scorers blend in as supporting influences.
	def := s.catalog.DefaultAgent()
	res := SelectionResult{
		Primary:    def,
		Confidence: clamp(sig.OverallConfidence),
		Fallback:   true,
		Supporting: s.supportingFrom(ranked, def.ID),
	}
	res.Strategy = resolveStrategy(def, res.Supporting)

	s.log.Debug("fallback routing",
		zap.String("top_agent", top.Agent.ID),
		zap.Float32("top_score", top.Score),
		zap.Float32("overall_confidence", sig.OverallConfidence),
		zap.Bool("low_confidence", sig.LowConfidence))
	return res
}

// rank scores every agent and sorts descending, catalog order on ties.
func (s *Selector) rank(sig analyzer.ContextSignal) []ScoredAgent {
	ranked := make([]ScoredAgent, 0, len(s.catalog.Agents))
	for _, agent := range s.catalog.Agents {
		var score float32
		for _, e := range analyzer.Elements {
			score += sig.Elements.Score(e) * agent.Affinity(e)
		}
		score += bonusFor(sig.Theme, sig.Sentiment, agent.ID)
		ranked = append(ranked, ScoredAgent{Agent: agent, Score: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// supportingFrom picks the best-scoring agents other than exclude that
// clear the support floor.
func (s *Selector) supportingFrom(ranked []ScoredAgent, exclude string) []ScoredAgent {
	var out []ScoredAgent
	for _, cand := range ranked {
		if len(out) == s.config.MaxSupporting {
			break
		}
		if cand.Agent.ID == exclude || cand.Score < s.config.SupportFloor {
			continue
		}
		out = append(out, cand)
	}
	return out
}

func (s *Selector) strongSecondaryTheme(sig analyzer.ContextSignal) bool {
	for _, ts := range sig.SecondaryThemes {
		if ts.Confidence >= s.config.SecondaryThemeFloor {
			return true
		}
	}
	return false
}

// resolveStrategy suffixes the primary strategy with the strongest
// supporting agent's modifier token.
func resolveStrategy(primary catalog.AgentProfile, supporting []ScoredAgent) string {
	if len(supporting) == 0 || supporting[0].Agent.SupportModifier == "" {
		return primary.ResponseStrategy
	}
	return primary.ResponseStrategy + "_with_" + supporting[0].Agent.SupportModifier
}

func clamp(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion
