package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/soullab/oracle-engine/internal/analyzer"
)

func TestBuiltinIsValid(t *testing.T) {
	c := Builtin()
	if err := c.Validate(); err != nil {
		t.Fatalf("builtin catalog invalid: %v", err)
	}
	if got := c.DefaultAgent().ID; got != "maya" {
		t.Fatalf("default agent: got %q, want maya", got)
	}
}

func TestByID(t *testing.T) {
	c := Builtin()
	if _, ok := c.ByID("fire-oracle"); !ok {
		t.Fatal("fire-oracle missing")
	}
	if _, ok := c.ByID("unknown"); ok {
		t.Fatal("unknown id should not resolve")
	}
}

func TestHomeElementAndSpecificity(t *testing.T) {
	c := Builtin()

	fire, _ := c.ByID("fire-oracle")
	if got := fire.HomeElement(); got != analyzer.ElementFire {
		t.Errorf("fire-oracle home: got %q", got)
	}

	maya, _ := c.ByID("maya")
	if got := maya.HomeElement(); got != analyzer.ElementAether {
		t.Errorf("maya home: got %q", got)
	}

	// A single-element specialist is strictly more specific than the
	// blended default.
	if fire.Specificity() <= maya.Specificity() {
		t.Errorf("specificity: fire %.2f should exceed maya %.2f", fire.Specificity(), maya.Specificity())
	}
}

func TestValidateRejectsBadCatalogs(t *testing.T) {
	tests := []struct {
		name string
		cat  Catalog
	}{
		{"empty", Catalog{}},
		{"no-default", Catalog{Agents: []AgentProfile{{ID: "a"}}}},
		{"two-defaults", Catalog{Agents: []AgentProfile{
			{ID: "a", Default: true}, {ID: "b", Default: true},
		}}},
		{"empty-id", Catalog{Agents: []AgentProfile{{Default: true}}}},
		{"affinity-out-of-range", Catalog{Agents: []AgentProfile{
			{ID: "a", Default: true, ElementAffinities: map[analyzer.Element]float32{analyzer.ElementFire: 1.5}},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cat.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadYAML(t *testing.T) {
	doc := `
agents:
  - id: sage
    display_name: Sage
    archetype: Guide
    element_affinities:
      aether: 0.8
      water: 0.3
    response_strategy: quiet_counsel
    support_modifier: stillness
    default: true
  - id: spark
    display_name: Spark
    archetype: Catalyst
    element_affinities:
      fire: 1.0
    response_strategy: bold_challenge
`
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.Agents) != 2 {
		t.Fatalf("agents: got %d, want 2", len(c.Agents))
	}
	sage, ok := c.ByID("sage")
	if !ok || !sage.Default {
		t.Fatalf("sage not loaded as default: %+v", sage)
	}
	if sage.Affinity(analyzer.ElementAether) != 0.8 {
		t.Errorf("affinity: got %.2f", sage.Affinity(analyzer.ElementAether))
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("agents:\n  - id: a\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for catalog without a default agent")
	}
}
