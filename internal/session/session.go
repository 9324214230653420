// Package session models one play-through and the process-wide registry of
// active sessions per player. The simulation engine owns the in-progress
// world; the session records mode, outcome and the settlement fields the
// coordinator layers on after the session ends.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Mode tags a session as free play or wagered.
// Practice sessions never touch the settlement coordinator or the ledger.
type Mode int

const (
	ModePractice Mode = iota
	ModeWager
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	if m == ModeWager {
		return "wager"
	}
	return "practice"
}

// Outcome is the locally observed result of a finished session.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWon
	OutcomeLost
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeWon:
		return "won"
	case OutcomeLost:
		return "lost"
	default:
		return "none"
	}
}

// SettlementState tracks how far a wagered session's outcome has travelled
// toward the ledger. The local result is shown immediately; settlement
// completes in the background.
type SettlementState int

const (
	// SettlementNone: practice session, or wager not yet ended.
	SettlementNone SettlementState = iota
	// SettlementSubmitting: outcome submission in flight.
	SettlementSubmitting
	// SettlementConfirmed: the ledger acknowledged the terminal status.
	SettlementConfirmed
	// SettlementFailed: retries exhausted; result known locally but not
	// confirmed on the ledger. Reconcile is the recovery path.
	SettlementFailed
)

// String returns a human-readable settlement state name.
func (s SettlementState) String() string {
	switch s {
	case SettlementSubmitting:
		return "submitting"
	case SettlementConfirmed:
		return "confirmed"
	case SettlementFailed:
		return "failed"
	default:
		return "none"
	}
}

// Session is one play-through. Fields are guarded by a mutex because the
// settlement coordinator mutates settlement state from a goroutine while
// the UI loop reads it.
type Session struct {
	ID       string
	PlayerID string
	Mode     Mode
	GameID   string // Ledger game id; wager mode only

	mu         sync.Mutex
	score      int
	outcome    Outcome
	settlement SettlementState
	reward     float64
	startedAt  time.Time
	endedAt    time.Time
	inflight   bool
}

// New creates an active session.
func New(playerID string, mode Mode, gameID string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		PlayerID:  playerID,
		Mode:      mode,
		GameID:    gameID,
		startedAt: time.Now(),
	}
}

// End records the terminal outcome. A session is immutable once ended
// except for the settlement fields; a second End is a no-op.
func (s *Session) End(score int, outcome Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outcome != OutcomeNone {
		return
	}
	s.score = score
	s.outcome = outcome
	s.endedAt = time.Now()
}

// Ended reports whether the session reached a terminal outcome.
func (s *Session) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome != OutcomeNone
}

// Score returns the final (or current) recorded score.
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// Outcome returns the locally observed result.
func (s *Session) Outcome() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// Settlement returns the current settlement state.
func (s *Session) Settlement() SettlementState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settlement
}

// SetSettlement updates the settlement state.
func (s *Session) SetSettlement(state SettlementState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settlement = state
}

// SetReward records the claimed reward amount.
func (s *Session) SetReward(reward float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reward = reward
}

// Reward returns the claimed reward amount, zero until claimed.
func (s *Session) Reward() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reward
}

// StartedAt returns the session start time.
func (s *Session) StartedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startedAt
}

// TryBeginSettle claims the per-session in-flight slot. Only one outcome
// submission may run at a time; a second concurrent ReportOutcome for the
// same session must not race the ledger.
func (s *Session) TryBeginSettle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight {
		return false
	}
	s.inflight = true
	s.settlement = SettlementSubmitting
	return true
}

// FinishSettle releases the in-flight slot and records the final state.
func (s *Session) FinishSettle(state SettlementState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight = false
	s.settlement = state
}
