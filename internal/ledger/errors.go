package ledger

import (
	"errors"
	"fmt"
)

// Error codes returned in the ledger's error envelope.
const (
	CodeAlreadyActive     = "alreadyActive"
	CodeNotFound          = "notFound"
	CodeNotWon            = "notWon"
	CodeAlreadyClaimed    = "alreadyClaimed"
	CodeNotOwner          = "notOwner"
	CodeInvalidTransition = "invalidTransition"
)

// APIError is a policy rejection from the ledger.
// GameID is set for alreadyActive errors so the caller can resume the
// existing game instead of creating a duplicate.
type APIError struct {
	Code    string `json:"errorType"`
	Message string `json:"message"`
	GameID  string `json:"gameId,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ledger: %s: %s", e.Code, e.Message)
}

// UnavailableError wraps a transport failure: network error, timeout or a
// 5xx response. Callers treat it as "the ledger could not be reached",
// never as a result.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("ledger: unavailable: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// IsUnavailable reports whether err is a transport-level failure.
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}

// AsAPIError extracts the typed ledger rejection, if any.
func AsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func hasCode(err error, code string) bool {
	ae, ok := AsAPIError(err)
	return ok && ae.Code == code
}

// IsAlreadyActive reports an existing pending game for the player.
func IsAlreadyActive(err error) bool { return hasCode(err, CodeAlreadyActive) }

// IsNotFound reports an unknown gameID or no active game.
func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }

// IsNotWon reports a claim on a record that is not in won status.
func IsNotWon(err error) bool { return hasCode(err, CodeNotWon) }

// IsAlreadyClaimed reports a claim on an already claimed record.
func IsAlreadyClaimed(err error) bool { return hasCode(err, CodeAlreadyClaimed) }

// IsNotOwner reports a claim by a player who does not own the record.
func IsNotOwner(err error) bool { return hasCode(err, CodeNotOwner) }
