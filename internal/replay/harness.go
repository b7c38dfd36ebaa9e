// Package replay runs scripted sessions through an in-memory engine and
// checks the per-turn expectations. Used for regression fixtures and for
// tuning threshold changes against known conversations.
package replay

import (
	"context"
	"fmt"
	"time"

	"github.com/soullab/oracle-engine/internal/analyzer"
	"github.com/soullab/oracle-engine/internal/config"
	"github.com/soullab/oracle-engine/internal/engine"
)

// #region types

// TurnOutcome is the result of replaying one scripted turn.
type TurnOutcome struct {
	Index  int
	Text   string
	Result engine.TurnResult

	// Mismatches lists every expectation this turn failed, empty on pass.
	Mismatches []string
}

// Summary aggregates a replay run.
type Summary struct {
	TotalTurns int
	Passed     int
	Failed     int
}

// AllPassed reports whether every turn met its expectations.
func (s Summary) AllPassed() bool {
	return s.Failed == 0
}

// #endregion types

// #region run

// Run replays a fixture through a fresh in-memory engine. The rolling
// context grows turn by turn the way a live history collaborator would
// feed it.
func Run(f *Fixture, cfg config.Config) ([]TurnOutcome, error) {
	cat, err := cfg.Catalog()
	if err != nil {
		return nil, fmt.Errorf("replay catalog: %w", err)
	}
	eng, err := engine.New(cfg, cat)
	if err != nil {
		return nil, fmt.Errorf("replay engine: %w", err)
	}

	ctx := context.Background()
	var recent []analyzer.Turn
	outcomes := make([]TurnOutcome, 0, len(f.Turns))

	for i, ft := range f.Turns {
		res, err := eng.ProcessTurn(ctx, f.SessionID, ft.Text, recent)
		if err != nil {
			return nil, fmt.Errorf("turn %d: %w", i, err)
		}

		outcomes = append(outcomes, TurnOutcome{
			Index:      i,
			Text:       ft.Text,
			Result:     res,
			Mismatches: check(ft, res),
		})

		recent = append(recent, analyzer.Turn{
			Role:      "user",
			Text:      ft.Text,
			Timestamp: time.Now().UTC(),
		})
	}
	return outcomes, nil
}

// check compares one turn's result against its expectations.
func check(ft FixtureTurn, res engine.TurnResult) []string {
	var mismatches []string
	if ft.ExpectPosture != "" && string(res.Posture) != ft.ExpectPosture {
		mismatches = append(mismatches,
			fmt.Sprintf("posture: want %s, got %s", ft.ExpectPosture, res.Posture))
	}
	if ft.ExpectAgent != "" && res.Selection.Primary.ID != ft.ExpectAgent {
		mismatches = append(mismatches,
			fmt.Sprintf("agent: want %s, got %s", ft.ExpectAgent, res.Selection.Primary.ID))
	}
	if ft.ExpectFallback != nil && res.Selection.Fallback != *ft.ExpectFallback {
		mismatches = append(mismatches,
			fmt.Sprintf("fallback: want %v, got %v", *ft.ExpectFallback, res.Selection.Fallback))
	}
	if ft.ExpectTransitioned != nil && res.Transitioned != *ft.ExpectTransitioned {
		mismatches = append(mismatches,
			fmt.Sprintf("transitioned: want %v, got %v", *ft.ExpectTransitioned, res.Transitioned))
	}
	return mismatches
}

// Summarize aggregates outcomes into pass/fail counts.
func Summarize(outcomes []TurnOutcome) Summary {
	s := Summary{TotalTurns: len(outcomes)}
	for _, o := range outcomes {
		if len(o.Mismatches) == 0 {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}

// #endregion run
