package engine

import (
	"errors"

	"github.com/soullab/oracle-engine/internal/analyzer"
	"github.com/soullab/oracle-engine/internal/posture"
	"github.com/soullab/oracle-engine/internal/prosody"
	"github.com/soullab/oracle-engine/internal/selector"
)

// #region errors

// ErrTurnInFlight is returned when a turn arrives for a session whose
// previous turn is still processing. Retryable: the caller re-submits
// after the in-flight turn completes. This is the engine's only
// caller-visible failure for syntactically valid input.
var ErrTurnInFlight = errors.New("turn already in flight for session")

// #endregion

// #region turn-result

// TurnResult is the complete per-turn output, handed to the external
// text-generation and rendering collaborators.
type TurnResult struct {
	TurnID    string
	SessionID string

	Signal    analyzer.ContextSignal
	Selection selector.SelectionResult

	Posture      posture.Posture
	Transitioned bool

	Prosody        prosody.Profile
	StyleDirective string
}

// #endregion

// #region collaborators

// CrisisNotifier receives the fire-and-forget crisis signal when a session
// enters CrisisHold. Implementations must not block turn processing.
type CrisisNotifier interface {
	Notify(sessionID, reason string)
}

// NopNotifier discards crisis signals. Default when no collaborator is
// wired.
type NopNotifier struct{}

// Notify implements CrisisNotifier.
func (NopNotifier) Notify(string, string) {}

// #endregion
