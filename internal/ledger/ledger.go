// Package ledger defines the external wager ledger boundary: the narrow
// client interface the settlement coordinator talks to, the wager status
// model, and an HTTP implementation with typed errors and retry.
//
// All calls are fallible and retryable; the ledger is the source of truth
// for settlement status.
package ledger

import "context"

// Status is a WagerRecord's settlement status.
// Transitions are monotonic: pending -> won|lost, won -> claimed.
// lost and claimed are terminal.
type Status string

const (
	StatusPending Status = "pending"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
	StatusClaimed Status = "claimed"
)

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusLost || s == StatusClaimed
}

// Resolved reports whether an outcome has been recorded.
func (s Status) Resolved() bool {
	return s != StatusPending
}

// GameStatus is the ledger's view of one wagered game.
type GameStatus struct {
	GameID string `json:"gameId"`
	Player string `json:"player"`
	Status Status `json:"status"`
}

// Client is the wager ledger interface consumed by the settlement
// coordinator. Implementations must treat SetResult as idempotent:
// submitting the same outcome twice for a gameID converges to the same
// terminal status.
type Client interface {
	// CreateGame registers a new wagered game for the player and returns
	// its gameID. Fails with an alreadyActive error (carrying the existing
	// gameID) if the player already has a pending game.
	CreateGame(ctx context.Context, player string) (string, error)

	// ActiveGame returns the player's pending game, if any.
	ActiveGame(ctx context.Context, player string) (gameID string, ok bool, err error)

	// GameStatus returns the ledger's record for a game.
	GameStatus(ctx context.Context, gameID string) (GameStatus, error)

	// SetResult requests the pending -> won|lost transition.
	SetResult(ctx context.Context, gameID string, won bool) error

	// Claim requests the won -> claimed transition for the owning player
	// and returns the reward amount.
	Claim(ctx context.Context, gameID, player string) (reward float64, err error)
}
