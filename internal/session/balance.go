package session

import "github.com/soullab/oracle-engine/internal/analyzer"

// #region balance

// Balance is the rolling element balance: an exponentially decayed running
// average of per-turn element scores, sum-normalized to 1. Sustained skew
// detection reads this, never a rescan of history, so per-turn cost stays
// bounded regardless of session length.
type Balance struct {
	Fire   float32 `json:"fire"`
	Water  float32 `json:"water"`
	Earth  float32 `json:"earth"`
	Air    float32 `json:"air"`
	Aether float32 `json:"aether"`
}

// UniformBalance returns the session-start balance: 0.2 per element.
func UniformBalance() Balance {
	return Balance{Fire: 0.2, Water: 0.2, Earth: 0.2, Air: 0.2, Aether: 0.2}
}

// Share returns one element's share.
func (b Balance) Share(e analyzer.Element) float32 {
	switch e {
	case analyzer.ElementFire:
		return b.Fire
	case analyzer.ElementWater:
		return b.Water
	case analyzer.ElementEarth:
		return b.Earth
	case analyzer.ElementAir:
		return b.Air
	case analyzer.ElementAether:
		return b.Aether
	}
	return 0
}

// #endregion

// #region update

// defaultBalanceDecay is the per-turn blend weight of the new observation.
const defaultBalanceDecay float32 = 0.35

// UpdateBalance is a pure function: it blends the turn's element scores
// into the rolling balance and renormalizes to sum 1. A zero-score turn
// leaves the balance unchanged; silence is not evidence of neutrality.
func UpdateBalance(b Balance, scores analyzer.ElementScores, decay float32) Balance {
	if decay <= 0 {
		decay = defaultBalanceDecay
	}

	total := scores.Fire + scores.Water + scores.Earth + scores.Air + scores.Aether
	if total == 0 {
		return b
	}

	obs := Balance{
		Fire:   scores.Fire / total,
		Water:  scores.Water / total,
		Earth:  scores.Earth / total,
		Air:    scores.Air / total,
		Aether: scores.Aether / total,
	}

	keep := 1 - decay
	next := Balance{
		Fire:   keep*b.Fire + decay*obs.Fire,
		Water:  keep*b.Water + decay*obs.Water,
		Earth:  keep*b.Earth + decay*obs.Earth,
		Air:    keep*b.Air + decay*obs.Air,
		Aether: keep*b.Aether + decay*obs.Aether,
	}

	// Renormalize; float drift must not erode the sum-to-1 invariant.
	sum := next.Fire + next.Water + next.Earth + next.Air + next.Aether
	if sum > 0 {
		next.Fire /= sum
		next.Water /= sum
		next.Earth /= sum
		next.Air /= sum
		next.Aether /= sum
	}
	return next
}

// #endregion
