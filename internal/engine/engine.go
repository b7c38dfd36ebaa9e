// Package engine runs the per-turn orchestration pipeline: context
// analysis, agent selection, posture advance, prosody shaping. It owns
// the session registry and guarantees each session processes one turn
// at a time with atomically applied state.
package engine

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/soullab/oracle-engine/internal/analyzer"
	"github.com/soullab/oracle-engine/internal/catalog"
	"github.com/soullab/oracle-engine/internal/config"
	"github.com/soullab/oracle-engine/internal/journal"
	"github.com/soullab/oracle-engine/internal/posture"
	"github.com/soullab/oracle-engine/internal/prosody"
	"github.com/soullab/oracle-engine/internal/selector"
	"github.com/soullab/oracle-engine/internal/session"
)

// #region engine

// sessionSlot pairs a session's state with its in-flight marker. The
// marker enforces single-turn-at-a-time per session without holding the
// engine lock across the pipeline.
type sessionSlot struct {
	state    *session.State
	inFlight bool
}

// Engine is the orchestration entry point. One Engine serves many
// sessions; all collaborators are optional except the catalog.
type Engine struct {
	cfg      config.Config
	analyzer *analyzer.Analyzer
	selector *selector.Selector
	shaper   *prosody.Shaper

	mu    sync.Mutex
	slots map[string]*sessionSlot

	store    *session.Store
	journal  *journal.Journal
	notifier CrisisNotifier
	log      *zap.Logger
}

// Option configures optional collaborators.
type Option func(*Engine)

// WithStore wires the snapshot archive. Sessions unknown in memory are
// restored from their latest snapshot.
func WithStore(s *session.Store) Option {
	return func(e *Engine) { e.store = s }
}

// WithJournal wires the transition/crisis journal.
func WithJournal(j *journal.Journal) Option {
	return func(e *Engine) { e.journal = j }
}

// WithNotifier wires the crisis notification collaborator.
func WithNotifier(n CrisisNotifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// WithLogger wires the structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// New builds an Engine over a validated agent catalog.
func New(cfg config.Config, cat catalog.Catalog, opts ...Option) (*Engine, error) {
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	e := &Engine{
		cfg:      cfg,
		slots:    map[string]*sessionSlot{},
		notifier: NopNotifier{},
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.analyzer = analyzer.New(cfg.Analyzer, e.log)
	e.selector = selector.New(cfg.Selector, cat, e.log)
	e.shaper = prosody.NewShaper(cfg.Prosody, e.log)
	return e, nil
}

// #endregion

// #region process-turn

// ProcessTurn runs the full pipeline for one user turn. recent is the
// rolling context from the external conversation-history collaborator,
// newest last. State mutations are staged on a clone and applied in one
// step after all stages complete; a turn aborted mid-pipeline (context
// cancellation) leaves the session exactly as it was.
//
// The only error returned for well-formed input is ErrTurnInFlight,
// when the session's previous turn has not finished. It is retryable.
func (e *Engine) ProcessTurn(ctx context.Context, sessionID, text string, recent []analyzer.Turn) (TurnResult, error) {
	slot, err := e.acquire(sessionID)
	if err != nil {
		return TurnResult{}, err
	}
	defer e.release(slot)

	// The in-flight marker makes this turn the sole owner of the slot's
	// state, so the clone needs no lock.
	staged := slot.state.Clone()

	// Stage 1: context analysis.
	sig := e.analyzer.Analyze(text, recent)
	if err := ctx.Err(); err != nil {
		return TurnResult{}, err
	}

	// Per-turn bookkeeping feeding the posture gates. Counters include
	// the current turn before the state machine reads them.
	staged.SessionTurns++
	if sig.Sentiment != analyzer.SentimentNeutral && sig.SentimentConfidence >= e.cfg.Posture.DisclosureConfidence {
		staged.Disclosures++
	}
	if sig.Theme == staged.LastTheme && analyzer.EnergyNonDecreasing(staged.LastEnergy, sig.Energy) {
		staged.ThemeRepeats++
	} else {
		staged.ThemeRepeats = 1
	}
	staged.LastTheme = sig.Theme
	staged.LastEnergy = sig.Energy
	staged.Balance = session.UpdateBalance(staged.Balance, sig.Elements, e.cfg.BalanceDecay)

	// Stage 2: agent selection.
	sel := e.selector.Select(sig)
	if err := ctx.Err(); err != nil {
		return TurnResult{}, err
	}

	// Stage 3: posture advance.
	prev := staged.CurrentPosture
	dec := posture.Advance(staged.View(), sig, e.cfg.Posture)
	if dec.Anomaly {
		e.log.Warn("unrecognized posture reset to casual",
			zap.String("session_id", sessionID),
			zap.String("was", string(prev)))
		prev = posture.Casual
	}
	if dec.Transitioned {
		staged.CurrentPosture = dec.Next
		staged.TurnsInPosture = 0
		staged.RecordPosture(dec.Next, staged.SessionTurns)
	} else {
		staged.TurnsInPosture++
	}
	if err := ctx.Err(); err != nil {
		return TurnResult{}, err
	}

	// Stage 4: prosody shaping.
	profile := e.shaper.Shape(sel, dec.Next, sig, staged.LastProfile)
	staged.LastProfile = &profile
	staged.UpdatedAt = time.Now().UTC()

	// Atomic apply: the staged state becomes the session state in one
	// pointer swap.
	e.mu.Lock()
	slot.state = staged
	e.mu.Unlock()

	e.afterTurn(sessionID, staged, sig, prev, dec)

	return TurnResult{
		TurnID:         uuid.NewString(),
		SessionID:      sessionID,
		Signal:         sig,
		Selection:      sel,
		Posture:        dec.Next,
		Transitioned:   dec.Transitioned,
		Prosody:        profile,
		StyleDirective: profile.Directive,
	}, nil
}

// acquire looks up or creates the session slot and marks it in flight.
func (e *Engine) acquire(sessionID string) (*sessionSlot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	slot, ok := e.slots[sessionID]
	if !ok {
		slot = &sessionSlot{state: e.restoreOrNew(sessionID)}
		e.slots[sessionID] = slot
	}
	if slot.inFlight {
		return nil, ErrTurnInFlight
	}
	slot.inFlight = true
	return slot, nil
}

func (e *Engine) release(slot *sessionSlot) {
	e.mu.Lock()
	slot.inFlight = false
	e.mu.Unlock()
}

// restoreOrNew loads the latest archived snapshot when a store is wired,
// otherwise starts a fresh session.
func (e *Engine) restoreOrNew(sessionID string) *session.State {
	if e.store != nil {
		st, err := e.store.LatestSnapshot(sessionID)
		if err == nil {
			e.log.Info("session restored from snapshot",
				zap.String("session_id", sessionID),
				zap.Int("turn", st.SessionTurns))
			return st
		}
		if !errors.Is(err, sql.ErrNoRows) {
			e.log.Warn("snapshot restore failed, starting fresh",
				zap.String("session_id", sessionID), zap.Error(err))
		}
	}
	return session.NewState(sessionID)
}

// #endregion

// #region side-effects

// afterTurn runs the post-apply side effects: journal rows, snapshot
// archive, crisis notification. None of them can fail the turn.
func (e *Engine) afterTurn(sessionID string, st *session.State, sig analyzer.ContextSignal, prev posture.Posture, dec posture.Decision) {
	if dec.Transitioned && e.journal != nil {
		if err := e.journal.LogTransition(journal.TransitionEntry{
			SessionID:   sessionID,
			Turn:        st.SessionTurns,
			FromPosture: string(prev),
			ToPosture:   string(dec.Next),
			Trigger:     dec.Trigger,
			SignalsJSON: signalsJSON(sig, st.Balance),
		}); err != nil {
			e.log.Warn("journal transition failed", zap.String("session_id", sessionID), zap.Error(err))
		}
	}

	if dec.Crisis {
		if e.journal != nil {
			if err := e.journal.LogCrisis(journal.CrisisEntry{
				SessionID: sessionID,
				Turn:      st.SessionTurns,
				Reason:    dec.CrisisReason,
			}); err != nil {
				e.log.Warn("journal crisis failed", zap.String("session_id", sessionID), zap.Error(err))
			}
		}
		e.log.Warn("session entered crisis hold",
			zap.String("session_id", sessionID),
			zap.String("reason", dec.CrisisReason))
		// Fire-and-forget: the notifier must never block or fail a turn.
		go e.notifier.Notify(sessionID, dec.CrisisReason)
	}

	if e.store != nil {
		if err := e.store.SaveSnapshot(st); err != nil {
			e.log.Warn("snapshot save failed", zap.String("session_id", sessionID), zap.Error(err))
		}
	}
}

// signalsJSON renders the compact signal summary stored with a
// transition row.
func signalsJSON(sig analyzer.ContextSignal, b session.Balance) string {
	summary := struct {
		Sentiment string  `json:"sentiment"`
		Theme     string  `json:"theme"`
		Energy    string  `json:"energy"`
		Overall   float32 `json:"overall_confidence"`
		Fire      float32 `json:"fire_balance"`
	}{
		Sentiment: string(sig.Sentiment),
		Theme:     string(sig.Theme),
		Energy:    string(sig.Energy),
		Overall:   sig.OverallConfidence,
		Fire:      b.Fire,
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return ""
	}
	return string(data)
}

// #endregion

// #region acknowledge

// AcknowledgeCrisis is the explicit external exit from CrisisHold: the
// session moves to Lightening and normal transition logic resumes next
// turn. Returns false when the session is unknown or not in CrisisHold.
func (e *Engine) AcknowledgeCrisis(sessionID string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	slot, ok := e.slots[sessionID]
	if !ok {
		return false, nil
	}
	if slot.inFlight {
		return false, ErrTurnInFlight
	}
	if slot.state.CurrentPosture != posture.CrisisHold {
		return false, nil
	}

	staged := slot.state.Clone()
	staged.CurrentPosture = posture.Lightening
	staged.TurnsInPosture = 0
	staged.RecordPosture(posture.Lightening, staged.SessionTurns)
	staged.UpdatedAt = time.Now().UTC()
	slot.state = staged

	if e.journal != nil {
		if err := e.journal.LogTransition(journal.TransitionEntry{
			SessionID:   sessionID,
			Turn:        staged.SessionTurns,
			FromPosture: string(posture.CrisisHold),
			ToPosture:   string(posture.Lightening),
			Trigger:     "crisis_acknowledged",
		}); err != nil {
			e.log.Warn("journal acknowledgment failed", zap.String("session_id", sessionID), zap.Error(err))
		}
	}
	e.log.Info("crisis acknowledged", zap.String("session_id", sessionID))
	return true, nil
}

// #endregion

// #region inspect

// SessionSnapshot returns a copy of the current in-memory state for a
// session, for diagnostics. Nil when the session is unknown.
func (e *Engine) SessionSnapshot(sessionID string) *session.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	slot, ok := e.slots[sessionID]
	if !ok {
		return nil
	}
	return slot.state.Clone()
}

// #endregion
