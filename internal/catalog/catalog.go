package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/soullab/oracle-engine/internal/analyzer"
)

// #region agent-profile

// AgentProfile is a static catalog entry describing one response persona.
// Profiles are loaded once at startup and immutable during runtime.
type AgentProfile struct {
	ID          string `yaml:"id"`
	DisplayName string `yaml:"display_name"`
	Archetype   string `yaml:"archetype"`

	// ElementAffinities maps element category to an affinity weight in [0,1].
	ElementAffinities map[analyzer.Element]float32 `yaml:"element_affinities"`

	// ResponseStrategy tags how the text-generation collaborator should
	// invoke this agent.
	ResponseStrategy string `yaml:"response_strategy"`

	// SupportModifier is the suffix token contributed when this agent acts
	// as a supporting influence rather than the primary voice.
	SupportModifier string `yaml:"support_modifier"`

	// Default marks the general-purpose fallback agent. Exactly one profile
	// in a valid catalog carries it.
	Default bool `yaml:"default"`
}

// Affinity returns the agent's weight for an element, zero when unset.
func (p AgentProfile) Affinity(e analyzer.Element) float32 {
	return p.ElementAffinities[e]
}

// HomeElement returns the element this agent is most affine to, with ties
// resolved in canonical element order.
func (p AgentProfile) HomeElement() analyzer.Element {
	best := analyzer.Elements[0]
	var bestAff float32 = -1
	for _, e := range analyzer.Elements {
		if aff := p.ElementAffinities[e]; aff > bestAff {
			best = e
			bestAff = aff
		}
	}
	return best
}

// Specificity measures how concentrated the agent's affinities are on its
// home element. 1.0 means a single-element specialist.
func (p AgentProfile) Specificity() float32 {
	var sum, top float32
	for _, e := range analyzer.Elements {
		aff := p.ElementAffinities[e]
		sum += aff
		if aff > top {
			top = aff
		}
	}
	if sum == 0 {
		return 0
	}
	return top / sum
}

// #endregion

// #region catalog

// Catalog is the ordered agent roster. Order is load order and fixes
// deterministic ranking for equal scores.
type Catalog struct {
	Agents []AgentProfile
}

// ByID returns the profile with the given id.
func (c Catalog) ByID(id string) (AgentProfile, bool) {
	for _, a := range c.Agents {
		if a.ID == id {
			return a, true
		}
	}
	return AgentProfile{}, false
}

// DefaultAgent returns the fallback profile. A catalog with no marked
// default falls back to the first entry: the selector must always have
// somewhere to land.
func (c Catalog) DefaultAgent() AgentProfile {
	for _, a := range c.Agents {
		if a.Default {
			return a
		}
	}
	return c.Agents[0]
}

// Validate checks catalog invariants: at least one agent, exactly one
// default, affinities within [0,1].
func (c Catalog) Validate() error {
	if len(c.Agents) == 0 {
		return fmt.Errorf("catalog has no agents")
	}
	defaults := 0
	for _, a := range c.Agents {
		if a.ID == "" {
			return fmt.Errorf("agent with empty id")
		}
		if a.Default {
			defaults++
		}
		for e, aff := range a.ElementAffinities {
			if aff < 0 || aff > 1 {
				return fmt.Errorf("agent %s: affinity %s=%.2f out of [0,1]", a.ID, e, aff)
			}
		}
	}
	if defaults != 1 {
		return fmt.Errorf("catalog must mark exactly one default agent, found %d", defaults)
	}
	return nil
}

// #endregion

// #region builtin

// Builtin returns the standard oracle roster: the five element voices plus
// Maya, the integrative default guide.
func Builtin() Catalog {
	return Catalog{Agents: []AgentProfile{
		{
			ID:          "maya",
			DisplayName: "Maya",
			Archetype:   "Guide",
			ElementAffinities: map[analyzer.Element]float32{
				analyzer.ElementFire:   0.3,
				analyzer.ElementWater:  0.4,
				analyzer.ElementEarth:  0.4,
				analyzer.ElementAir:    0.3,
				analyzer.ElementAether: 0.6,
			},
			ResponseStrategy: "supportive_presence",
			SupportModifier:  "warmth",
			Default:          true,
		},
		{
			ID:          "fire-oracle",
			DisplayName: "Fire Oracle",
			Archetype:   "Catalyst",
			ElementAffinities: map[analyzer.Element]float32{
				analyzer.ElementFire: 1.0,
				analyzer.ElementAir:  0.3,
			},
			ResponseStrategy: "catalytic_challenge",
			SupportModifier:  "spark",
		},
		{
			ID:          "water-oracle",
			DisplayName: "Water Oracle",
			Archetype:   "Deep Current",
			ElementAffinities: map[analyzer.Element]float32{
				analyzer.ElementWater:  1.0,
				analyzer.ElementAether: 0.3,
			},
			ResponseStrategy: "empathic_reflection",
			SupportModifier:  "depth",
		},
		{
			ID:          "earth-oracle",
			DisplayName: "Earth Oracle",
			Archetype:   "Builder",
			ElementAffinities: map[analyzer.Element]float32{
				analyzer.ElementEarth: 1.0,
				analyzer.ElementWater: 0.2,
			},
			ResponseStrategy: "grounded_structure",
			SupportModifier:  "structure",
		},
		{
			ID:          "air-oracle",
			DisplayName: "Air Oracle",
			Archetype:   "Clarifier",
			ElementAffinities: map[analyzer.Element]float32{
				analyzer.ElementAir:  1.0,
				analyzer.ElementFire: 0.2,
			},
			ResponseStrategy: "clarifying_inquiry",
			SupportModifier:  "clarity",
		},
		{
			ID:          "aether-oracle",
			DisplayName: "Aether Oracle",
			Archetype:   "Witness",
			ElementAffinities: map[analyzer.Element]float32{
				analyzer.ElementAether: 1.0,
				analyzer.ElementWater:  0.2,
				analyzer.ElementAir:    0.2,
			},
			ResponseStrategy: "integrative_witnessing",
			SupportModifier:  "perspective",
		},
	}}
}

// #endregion

// #region load

// Load reads an agent catalog from a YAML file and validates it.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog %s: %w", path, err)
	}
	var doc struct {
		Agents []AgentProfile `yaml:"agents"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	c := Catalog{Agents: doc.Agents}
	if err := c.Validate(); err != nil {
		return Catalog{}, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// #endregion
