package prosody

import (
	"strings"
	"testing"

	"github.com/soullab/oracle-engine/internal/analyzer"
	"github.com/soullab/oracle-engine/internal/catalog"
	"github.com/soullab/oracle-engine/internal/posture"
	"github.com/soullab/oracle-engine/internal/selector"
)

func newTestShaper() *Shaper {
	return NewShaper(DefaultConfig(), nil)
}

func fireHighSignal() analyzer.ContextSignal {
	return analyzer.ContextSignal{
		Sentiment: analyzer.SentimentStressed,
		Energy:    analyzer.EnergyHigh,
		Elements:  analyzer.ElementScores{Fire: 0.9},
	}
}

func selectionFor(id string) selector.SelectionResult {
	agent, _ := catalog.Builtin().ByID(id)
	return selector.SelectionResult{Primary: agent, Strategy: agent.ResponseStrategy}
}

func TestShapeMirrorsThenBalances(t *testing.T) {
	s := newTestShaper()
	profile := s.Shape(selectionFor("fire-oracle"), posture.Casual, fireHighSignal(), nil)

	// Mirror phase matches the dominant element at observed energy.
	if profile.Mirror.Element != analyzer.ElementFire {
		t.Fatalf("mirror element: got %q", profile.Mirror.Element)
	}
	want := mirrorTable[analyzer.ElementFire][analyzer.EnergyHigh]
	if profile.Mirror.SpeedMultiplier != want.SpeedMultiplier {
		t.Errorf("mirror speed: got %.2f, want %.2f", profile.Mirror.SpeedMultiplier, want.SpeedMultiplier)
	}
	if profile.Mirror.DurationHint != "brief" {
		t.Errorf("high energy should mirror briefly, got %q", profile.Mirror.DurationHint)
	}

	// Balance phase targets the complement, not a numeric inversion: the
	// result sits between the mirror values and earth's base profile.
	if profile.Balance.Element != analyzer.ElementEarth {
		t.Fatalf("balance element: got %q, want earth", profile.Balance.Element)
	}
	earthBase := baseProfiles[analyzer.ElementEarth]
	if profile.Balance.SpeedMultiplier >= profile.Mirror.SpeedMultiplier {
		t.Errorf("balance should slow from the fire mirror: %.2f vs %.2f",
			profile.Balance.SpeedMultiplier, profile.Mirror.SpeedMultiplier)
	}
	if profile.Balance.SpeedMultiplier <= earthBase.SpeedMultiplier {
		t.Errorf("balance should stop short of the full earth base: %.2f vs %.2f",
			profile.Balance.SpeedMultiplier, earthBase.SpeedMultiplier)
	}
}

func TestShapePostureDamping(t *testing.T) {
	s := newTestShaper()
	sig := fireHighSignal()

	casual := s.Shape(selectionFor("fire-oracle"), posture.Casual, sig, nil)
	heightened := s.Shape(selectionFor("fire-oracle"), posture.Heightened, sig, nil)

	// Heightened damps the balance move: its result stays closer to the
	// mirror values than the casual one.
	mirror := casual.Mirror.SpeedMultiplier
	casualDist := mirror - casual.Balance.SpeedMultiplier
	heightenedDist := mirror - heightened.Balance.SpeedMultiplier
	if heightenedDist >= casualDist {
		t.Fatalf("heightened should move less than casual: %.3f vs %.3f", heightenedDist, casualDist)
	}
}

func TestShapeContinuitySmoothing(t *testing.T) {
	s := newTestShaper()

	// Previous turn was a slow water profile; a sudden fire-high reading
	// may move each parameter by at most the configured step.
	last := &Profile{
		Mirror:  MirrorPhase{PhaseParams: mirrorTable[analyzer.ElementWater][analyzer.EnergyLow]},
		Balance: BalancePhase{PhaseParams: baseProfiles[analyzer.ElementFire]},
	}
	profile := s.Shape(selectionFor("fire-oracle"), posture.Rapport, fireHighSignal(), last)

	cfg := DefaultConfig()
	prev := last.Mirror.SpeedMultiplier
	if diff := profile.Mirror.SpeedMultiplier - prev; diff > cfg.MaxSpeedStep+1e-6 {
		t.Fatalf("speed jumped %.3f, max step %.3f", diff, cfg.MaxSpeedStep)
	}
	if diff := profile.Mirror.PitchShift - last.Mirror.PitchShift; diff > cfg.MaxPitchStep+1e-6 {
		t.Fatalf("pitch jumped %.3f, max step %.3f", diff, cfg.MaxPitchStep)
	}
}

func TestShapeAetherHoldsSteady(t *testing.T) {
	s := newTestShaper()
	sig := analyzer.ContextSignal{
		Energy:   analyzer.EnergyMedium,
		Elements: analyzer.ElementScores{Aether: 0.6},
	}
	profile := s.Shape(selectionFor("maya"), posture.Rapport, sig, nil)

	if profile.Balance.Element != analyzer.ElementAether {
		t.Fatalf("aether complements itself, got %q", profile.Balance.Element)
	}
	if !strings.Contains(profile.Directive, "stay with") {
		t.Fatalf("self-complement should not redirect: %q", profile.Directive)
	}
}

func TestShapeTableGapFallsBackToNeutral(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ComplementaryMap = map[analyzer.Element]analyzer.Element{}
	s := NewShaper(cfg, nil)

	profile := s.Shape(selectionFor("fire-oracle"), posture.Casual, fireHighSignal(), nil)
	if profile.Balance.SpeedMultiplier != neutralParams.SpeedMultiplier {
		t.Fatalf("gap should use neutral params: %+v", profile.Balance.PhaseParams)
	}
}

func TestShapeCrisisDirective(t *testing.T) {
	s := newTestShaper()
	profile := s.Shape(selectionFor("maya"), posture.CrisisHold, fireHighSignal(), nil)

	if !strings.Contains(profile.Directive, "steady") || !strings.Contains(profile.Directive, "safety") {
		t.Fatalf("crisis directive: %q", profile.Directive)
	}
	if profile.Balance.TransitionStyle != "steady" {
		t.Fatalf("crisis transition style: %q", profile.Balance.TransitionStyle)
	}
}

func TestDirectiveNamesArchetype(t *testing.T) {
	s := newTestShaper()
	profile := s.Shape(selectionFor("water-oracle"), posture.Rapport, analyzer.ContextSignal{
		Energy:   analyzer.EnergyLow,
		Elements: analyzer.ElementScores{Water: 0.8},
	}, nil)
	if !strings.Contains(profile.Directive, "Deep Current") {
		t.Fatalf("directive should name the archetype: %q", profile.Directive)
	}
}

func TestHeightenedDirectiveStaysGentle(t *testing.T) {
	s := newTestShaper()
	profile := s.Shape(selectionFor("fire-oracle"), posture.Heightened, fireHighSignal(), nil)
	if !strings.Contains(profile.Directive, "gentle") {
		t.Fatalf("heightened directive: %q", profile.Directive)
	}
}
