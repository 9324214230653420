package settle

import (
	"errors"
	"fmt"
)

// AlreadyActiveError rejects a CreateSession for a player who already has
// an active wager. It carries the existing gameID so the caller can resume
// or observe that game instead of creating a duplicate.
type AlreadyActiveError struct {
	GameID string
}

func (e *AlreadyActiveError) Error() string {
	return fmt.Sprintf("settle: player already has active game %s", e.GameID)
}

// IsAlreadyActive reports whether err is an AlreadyActiveError.
func IsAlreadyActive(err error) bool {
	var ae *AlreadyActiveError
	return errors.As(err, &ae)
}
