package session

import (
	"time"

	"github.com/soullab/oracle-engine/internal/analyzer"
	"github.com/soullab/oracle-engine/internal/posture"
	"github.com/soullab/oracle-engine/internal/prosody"
)

// #region posture-entry

// PostureEntry is one row of the bounded posture history.
type PostureEntry struct {
	Posture       posture.Posture `json:"posture"`
	EnteredAtTurn int             `json:"entered_at_turn"`
}

// historyLimit bounds PostureHistory; diagnostics only need the tail.
const historyLimit = 20

// #endregion

// #region state

// State is the per-conversation session object. Owned exclusively by the
// in-flight turn for its session; the engine applies updates atomically at
// the end of a turn, never incrementally during the stages.
type State struct {
	SessionID string `json:"session_id"`

	CurrentPosture posture.Posture `json:"current_posture"`

	// TurnsInPosture counts completed turns since the last transition.
	// Resets to 0 on any transition.
	TurnsInPosture int `json:"turns_in_posture"`

	// SessionTurns counts all turns processed this session.
	SessionTurns int `json:"session_turns"`

	// Disclosures counts confident non-neutral sentiment turns.
	Disclosures int `json:"disclosures"`

	// LastTheme / ThemeRepeats / LastEnergy track topic circling across
	// consecutive turns.
	LastTheme    analyzer.Theme  `json:"last_theme"`
	ThemeRepeats int             `json:"theme_repeats"`
	LastEnergy   analyzer.Energy `json:"last_energy"`

	// PostureHistory holds the most recent posture entries, bounded.
	PostureHistory []PostureEntry `json:"posture_history"`

	// Balance is the exponentially decayed element balance; always
	// sum-normalized to 1 so skew comparisons stay meaningful.
	Balance Balance `json:"balance"`

	// LastProfile is the most recently emitted prosody profile, kept for
	// continuity smoothing.
	LastProfile *prosody.Profile `json:"last_profile,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewState creates a session at the default posture with a uniform
// element balance.
func NewState(sessionID string) *State {
	now := time.Now().UTC()
	return &State{
		SessionID:      sessionID,
		CurrentPosture: posture.Casual,
		Balance:        UniformBalance(),
		PostureHistory: []PostureEntry{{Posture: posture.Casual, EnteredAtTurn: 0}},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Clone deep-copies the state so a turn can stage mutations and apply them
// atomically.
func (s *State) Clone() *State {
	out := *s
	out.PostureHistory = make([]PostureEntry, len(s.PostureHistory))
	copy(out.PostureHistory, s.PostureHistory)
	if s.LastProfile != nil {
		profile := *s.LastProfile
		out.LastProfile = &profile
	}
	return &out
}

// RecordPosture appends a history entry, trimming to the bounded length.
func (s *State) RecordPosture(p posture.Posture, atTurn int) {
	s.PostureHistory = append(s.PostureHistory, PostureEntry{Posture: p, EnteredAtTurn: atTurn})
	if len(s.PostureHistory) > historyLimit {
		s.PostureHistory = s.PostureHistory[len(s.PostureHistory)-historyLimit:]
	}
}

// View projects the transition-relevant slice for the state machine.
func (s *State) View() posture.View {
	return posture.View{
		Current:        s.CurrentPosture,
		TurnsInPosture: s.TurnsInPosture,
		SessionTurns:   s.SessionTurns,
		Disclosures:    s.Disclosures,
		LastTheme:      s.LastTheme,
		ThemeRepeats:   s.ThemeRepeats,
		LastEnergy:     s.LastEnergy,
		FireBalance:    s.Balance.Fire,
	}
}

// #endregion
