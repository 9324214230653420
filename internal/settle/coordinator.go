// Package settle bridges terminated wager sessions to the external ledger.
// The coordinator owns the Session-to-WagerRecord mapping and is the only
// writer of settlement status. The local simulation outcome is
// authoritative for what happened in the game; the ledger is authoritative
// for settlement status, and the coordinator's job is to make the ledger
// match the simulation outcome.
package settle

import (
	"context"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dobi-games/flappy-dobi/internal/ledger"
	"github.com/dobi-games/flappy-dobi/internal/session"
)

// Config holds coordinator tunables.
type Config struct {
	// WinScore is the score threshold; the coordinator re-derives the win
	// flag from the final score rather than trusting a caller-supplied
	// boolean.
	WinScore int

	// MaxAttempts bounds outcome submissions before SettlementFailed.
	// Defaults to 5 if zero.
	MaxAttempts int

	// BaseDelay is the initial backoff between attempts. Defaults to 1s.
	BaseDelay time.Duration

	// MaxDelay caps the backoff. Defaults to 30s.
	MaxDelay time.Duration

	// CallTimeout is the deadline for each ledger call. Defaults to 15s.
	CallTimeout time.Duration
}

// Coordinator drives wager settlement for local sessions.
type Coordinator struct {
	ledger   ledger.Client
	sessions *session.Registry
	logger   *log.Logger
	cfg      Config
}

// New creates a coordinator. logger may be nil for a silent coordinator.
func New(client ledger.Client, sessions *session.Registry, logger *log.Logger, cfg Config) *Coordinator {
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.BaseDelay == 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.MaxDelay == 0 {
		cfg.MaxDelay = 30 * time.Second
	}
	if cfg.CallTimeout == 0 {
		cfg.CallTimeout = 15 * time.Second
	}
	if logger == nil {
		logger = log.New(nil)
	}
	return &Coordinator{
		ledger:   client,
		sessions: sessions,
		logger:   logger,
		cfg:      cfg,
	}
}

// CreateSession registers a new wagered session for the player.
// The ledger's per-player active-game slot is checked first: an existing
// active game fails with AlreadyActiveError carrying its gameID. If the
// ledger is unreachable no local session is created, so there is never a
// local session without a corresponding ledger record.
func (c *Coordinator) CreateSession(ctx context.Context, playerID string) (*session.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	existing, ok, err := c.ledger.ActiveGame(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, &AlreadyActiveError{GameID: existing}
	}

	gameID, err := c.ledger.CreateGame(ctx, playerID)
	if err != nil {
		// Lost the race for the active slot: surface the winner's gameID.
		if ae, isAPI := ledger.AsAPIError(err); isAPI && ae.Code == ledger.CodeAlreadyActive {
			return nil, &AlreadyActiveError{GameID: ae.GameID}
		}
		return nil, err
	}

	sess := session.New(playerID, session.ModeWager, gameID)
	c.sessions.Put(sess)
	c.logger.Info("wager session created", "player", playerID, "game", gameID)
	return sess, nil
}

// SettlementHandle makes an asynchronous outcome submission observable.
// The caller never blocks on it for UI purposes; Wait exists for tests and
// for callers that want confirmation.
type SettlementHandle struct {
	done chan struct{}
	sess *session.Session
	err  error
}

// Done is closed when the submission finished, successfully or not.
func (h *SettlementHandle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the submission finishes or ctx expires.
func (h *SettlementHandle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns the session's settlement state.
func (h *SettlementHandle) State() session.SettlementState {
	return h.sess.Settlement()
}

// ReportOutcome submits a finished session's result to the ledger.
// The win flag is re-derived from the score; a caller-supplied boolean
// would be a forgeable client-only signal. The call is fire-and-forget for
// the caller: the local result is visible immediately while submission
// retries in the background with bounded exponential backoff. Exhaustion
// leaves SettlementFailed for Reconcile to recover. A submission already
// in flight for the session is not duplicated; the returned handle then
// completes immediately.
func (c *Coordinator) ReportOutcome(sess *session.Session, finalScore int) *SettlementHandle {
	won := finalScore >= c.cfg.WinScore
	outcome := session.OutcomeLost
	if won {
		outcome = session.OutcomeWon
	}
	sess.End(finalScore, outcome)

	h := &SettlementHandle{done: make(chan struct{}), sess: sess}

	if sess.Mode != session.ModeWager || sess.GameID == "" {
		sess.SetSettlement(session.SettlementNone)
		close(h.done)
		return h
	}

	if !sess.TryBeginSettle() {
		close(h.done)
		return h
	}

	go func() {
		defer close(h.done)
		h.err = c.submit(sess, won)
	}()
	return h
}

// submit drives the bounded retry loop for one outcome submission.
func (c *Coordinator) submit(sess *session.Session, won bool) error {
	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			time.Sleep(c.backoff(attempt - 1))
		}

		ctx, cancel := context.WithTimeout(context.Background(), c.cfg.CallTimeout)
		err := c.ledger.SetResult(ctx, sess.GameID, won)
		cancel()

		if err == nil {
			sess.FinishSettle(session.SettlementConfirmed)
			c.logger.Info("settlement confirmed", "game", sess.GameID, "won", won, "attempt", attempt)
			return nil
		}
		lastErr = err

		if !ledger.IsUnavailable(err) {
			// Policy rejection: retrying will not change the answer.
			sess.FinishSettle(session.SettlementFailed)
			c.logger.Error("settlement rejected", "game", sess.GameID, "error", err)
			return err
		}
		c.logger.Warn("settlement attempt failed", "game", sess.GameID, "attempt", attempt, "error", err)
	}

	sess.FinishSettle(session.SettlementFailed)
	c.logger.Error("settlement attempts exhausted", "game", sess.GameID, "attempts", c.cfg.MaxAttempts)
	return lastErr
}

// backoff computes the delay before retry n, capped at MaxDelay.
func (c *Coordinator) backoff(n int) time.Duration {
	delay := time.Duration(float64(c.cfg.BaseDelay) * math.Pow(2, float64(n-1)))
	if delay > c.cfg.MaxDelay {
		delay = c.cfg.MaxDelay
	}
	return delay
}

// ClaimResult is the outcome of a successful claim.
type ClaimResult struct {
	GameID string
	Reward float64
}

// Claim requests the won -> claimed transition for a game.
// Failure checks are strictly ordered: ownership first (a stale client may
// try to claim a game it no longer owns after the active slot was
// reassigned), then already-claimed, then not-won. The ledger re-checks
// on its side; the local ordering guarantees the caller sees the right
// typed error.
func (c *Coordinator) Claim(ctx context.Context, gameID, playerID string) (ClaimResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	status, err := c.ledger.GameStatus(ctx, gameID)
	if err != nil {
		return ClaimResult{}, err
	}

	if status.Player != playerID {
		return ClaimResult{}, &ledger.APIError{Code: ledger.CodeNotOwner, Message: "game belongs to another player", GameID: gameID}
	}
	if status.Status == ledger.StatusClaimed {
		return ClaimResult{}, &ledger.APIError{Code: ledger.CodeAlreadyClaimed, Message: "reward already claimed", GameID: gameID}
	}
	if status.Status != ledger.StatusWon {
		return ClaimResult{}, &ledger.APIError{Code: ledger.CodeNotWon, Message: "game is not won", GameID: gameID}
	}

	reward, err := c.ledger.Claim(ctx, gameID, playerID)
	if err != nil {
		return ClaimResult{}, err
	}

	if sess, ok := c.sessions.Active(playerID); ok && sess.GameID == gameID {
		sess.SetReward(reward)
	}
	c.logger.Info("reward claimed", "player", playerID, "game", gameID, "reward", reward)
	return ClaimResult{GameID: gameID, Reward: reward}, nil
}
