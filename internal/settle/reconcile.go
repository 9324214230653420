package settle

import (
	"context"
	"time"

	"github.com/dobi-games/flappy-dobi/internal/ledger"
	"github.com/dobi-games/flappy-dobi/internal/session"
)

// ReconcileAction names what Reconcile did for a player.
type ReconcileAction string

const (
	// ReconcileNoop: local and ledger state already agree.
	ReconcileNoop ReconcileAction = "noop"
	// ReconcileBackfilled: the ledger has an active game the process did
	// not know about; a local session was recreated for it.
	ReconcileBackfilled ReconcileAction = "backfilled"
	// ReconcileResubmitted: a locally finished session was still pending
	// on the ledger; its outcome was submitted again.
	ReconcileResubmitted ReconcileAction = "resubmitted"
	// ReconcileConfirmed: the ledger already resolved the session's game;
	// local settlement state was backfilled from the ledger.
	ReconcileConfirmed ReconcileAction = "confirmed"
	// ReconcileCleared: the ledger has no record of the local session's
	// game; the stale local binding was dropped.
	ReconcileCleared ReconcileAction = "cleared"
)

// ReconcileResult describes the resolution.
type ReconcileResult struct {
	Action ReconcileAction
	GameID string
	Status ledger.Status // Ledger status of GameID, when known
}

// Reconcile resyncs a player's local state to the ledger after a
// discontinuity (reload, crash, lost process memory). The ledger is
// authoritative for settlement status; the local simulation outcome is
// authoritative for whether the player actually reached the win condition.
// Discrepancies are resolved, never silently dropped.
func (c *Coordinator) Reconcile(ctx context.Context, playerID string) (ReconcileResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	local, hasLocal := c.sessions.Active(playerID)
	activeID, hasActive, err := c.ledger.ActiveGame(ctx, playerID)
	if err != nil {
		return ReconcileResult{}, err
	}

	if hasActive {
		if !hasLocal || local.GameID != activeID {
			// Process lost the session (or tracked a different one): the
			// ledger's pending game becomes the local active session.
			sess := session.New(playerID, session.ModeWager, activeID)
			c.sessions.Put(sess)
			c.logger.Info("reconcile: backfilled local session", "player", playerID, "game", activeID)
			return ReconcileResult{Action: ReconcileBackfilled, GameID: activeID, Status: ledger.StatusPending}, nil
		}

		if local.Ended() && local.Settlement() != session.SettlementConfirmed {
			// The game finished locally but the ledger still shows pending:
			// make the ledger match the simulation outcome.
			c.ReportOutcome(local, local.Score())
			c.logger.Info("reconcile: resubmitted outcome", "player", playerID, "game", activeID, "score", local.Score())
			return ReconcileResult{Action: ReconcileResubmitted, GameID: activeID, Status: ledger.StatusPending}, nil
		}

		return ReconcileResult{Action: ReconcileNoop, GameID: activeID, Status: ledger.StatusPending}, nil
	}

	if !hasLocal {
		return ReconcileResult{Action: ReconcileNoop}, nil
	}

	// Local state believes a game is active but the ledger disagrees.
	if local.GameID != "" {
		status, err := c.ledger.GameStatus(ctx, local.GameID)
		switch {
		case err == nil && status.Status.Resolved():
			local.SetSettlement(session.SettlementConfirmed)
			c.sessions.Clear(playerID)
			c.logger.Info("reconcile: ledger already resolved", "player", playerID, "game", local.GameID, "status", status.Status)
			return ReconcileResult{Action: ReconcileConfirmed, GameID: local.GameID, Status: status.Status}, nil
		case err != nil && !ledger.IsNotFound(err):
			return ReconcileResult{}, err
		}
	}

	c.sessions.Clear(playerID)
	c.logger.Info("reconcile: cleared stale local session", "player", playerID, "game", local.GameID)
	return ReconcileResult{Action: ReconcileCleared, GameID: local.GameID}, nil
}

// SweepResult reports what a stale-session sweep did.
type SweepResult struct {
	Examined int
	Expired  int
}

// SweepStale expires abandoned wager sessions older than maxAge: sessions
// whose player walked away mid-game are reported as lost and unbound. The
// sweep never starts itself; an external scheduler calls it.
func (c *Coordinator) SweepStale(ctx context.Context, maxAge time.Duration) SweepResult {
	var res SweepResult
	cutoff := time.Now().Add(-maxAge)

	for _, sess := range c.sessions.All() {
		if sess.Mode != session.ModeWager {
			continue
		}
		res.Examined++
		if sess.Ended() || sess.StartedAt().After(cutoff) {
			continue
		}

		// Abandoned mid-game: settle with whatever score was reached,
		// which for an unfinished session means a loss.
		c.ReportOutcome(sess, sess.Score())
		c.sessions.Clear(sess.PlayerID)
		res.Expired++
		c.logger.Info("sweep: expired abandoned session", "player", sess.PlayerID, "game", sess.GameID)
	}
	return res
}
