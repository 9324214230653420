// Package wagerstore persists WagerRecords in SQLite behind a narrow
// interface with compare-and-swap status transitions. It backs the dev
// ledger server and keeps the status state machine monotonic at the
// storage layer: a transition only applies if the record is still in the
// expected prior status.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package wagerstore

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/dobi-games/flappy-dobi/internal/ledger"
)

// Store manages the SQLite database holding wager records.
type Store struct {
	db *sql.DB
}

// Record is one wagered game as the ledger sees it.
type Record struct {
	GameID    string
	Player    string
	Status    ledger.Status
	Stake     float64
	Reward    float64 // Set on claim
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Typed store errors mapped to the ledger error taxonomy by the server.
var (
	ErrNotFound          = errors.New("wagerstore: game not found")
	ErrActiveExists      = errors.New("wagerstore: player already has a pending game")
	ErrInvalidTransition = errors.New("wagerstore: invalid status transition")
	ErrNotWon            = errors.New("wagerstore: game is not won")
	ErrAlreadyClaimed    = errors.New("wagerstore: reward already claimed")
	ErrNotOwner          = errors.New("wagerstore: game belongs to another player")
)

// Open creates or opens the wager database at the given path, creating
// parent directories and running migrations as needed.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("wagerstore: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("wagerstore: cannot create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("wagerstore: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("wagerstore: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("wagerstore: migration failed: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS wagers (
			game_id TEXT PRIMARY KEY,
			player TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			stake REAL NOT NULL DEFAULT 0,
			reward REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_wagers_player ON wagers(player);
		CREATE INDEX IF NOT EXISTS idx_wagers_player_status ON wagers(player, status);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Create registers a new pending wager for the player and returns its
// gameID. If the player already has a pending wager, the existing gameID
// is returned alongside ErrActiveExists.
func (s *Store) Create(player string, stake float64) (string, error) {
	var existing string
	err := s.db.QueryRow(
		"SELECT game_id FROM wagers WHERE player = ? AND status = 'pending' LIMIT 1",
		player,
	).Scan(&existing)
	if err == nil {
		return existing, ErrActiveExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("wagerstore: cannot check active game: %w", err)
	}

	gameID := uuid.NewString()
	_, err = s.db.Exec(
		"INSERT INTO wagers (game_id, player, status, stake) VALUES (?, ?, 'pending', ?)",
		gameID, player, stake,
	)
	if err != nil {
		return "", fmt.Errorf("wagerstore: cannot create wager: %w", err)
	}
	return gameID, nil
}

// ActiveGame returns the player's pending wager, if any.
func (s *Store) ActiveGame(player string) (string, bool, error) {
	var gameID string
	err := s.db.QueryRow(
		"SELECT game_id FROM wagers WHERE player = ? AND status = 'pending' ORDER BY created_at DESC LIMIT 1",
		player,
	).Scan(&gameID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("wagerstore: cannot query active game: %w", err)
	}
	return gameID, true, nil
}

// Get returns the record for a gameID.
func (s *Store) Get(gameID string) (Record, error) {
	var r Record
	var created, updated any
	err := s.db.QueryRow(
		"SELECT game_id, player, status, stake, reward, created_at, updated_at FROM wagers WHERE game_id = ?",
		gameID,
	).Scan(&r.GameID, &r.Player, &r.Status, &r.Stake, &r.Reward, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("wagerstore: cannot query wager: %w", err)
	}
	r.CreatedAt = parseTime(created)
	r.UpdatedAt = parseTime(updated)
	return r, nil
}

// SetResult applies the pending -> won|lost transition via compare-and-swap.
// Idempotent: if the record already carries the requested terminal status
// the call succeeds without touching the row; a conflicting terminal status
// fails with ErrInvalidTransition. Duplicate concurrent submissions
// converge to whichever transition won the CAS.
func (s *Store) SetResult(gameID string, won bool) error {
	target := ledger.StatusLost
	if won {
		target = ledger.StatusWon
	}

	res, err := s.db.Exec(
		"UPDATE wagers SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE game_id = ? AND status = 'pending'",
		string(target), gameID,
	)
	if err != nil {
		return fmt.Errorf("wagerstore: cannot set result: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("wagerstore: cannot read rows affected: %w", err)
	}
	if affected == 1 {
		return nil
	}

	// CAS missed: the record is gone or already resolved.
	rec, err := s.Get(gameID)
	if err != nil {
		return err
	}
	if rec.Status == target || (rec.Status == ledger.StatusClaimed && target == ledger.StatusWon) {
		return nil // Same outcome already applied
	}
	return ErrInvalidTransition
}

// Claim applies the won -> claimed transition for the owning player and
// records the reward. Check order matters: ownership first, then
// already-claimed, then not-won.
func (s *Store) Claim(gameID, player string, reward float64) (float64, error) {
	rec, err := s.Get(gameID)
	if err != nil {
		return 0, err
	}
	if rec.Player != player {
		return 0, ErrNotOwner
	}
	if rec.Status == ledger.StatusClaimed {
		return 0, ErrAlreadyClaimed
	}
	if rec.Status != ledger.StatusWon {
		return 0, ErrNotWon
	}

	res, err := s.db.Exec(
		"UPDATE wagers SET status = 'claimed', reward = ?, updated_at = CURRENT_TIMESTAMP WHERE game_id = ? AND status = 'won'",
		reward, gameID,
	)
	if err != nil {
		return 0, fmt.Errorf("wagerstore: cannot claim: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("wagerstore: cannot read rows affected: %w", err)
	}
	if affected != 1 {
		// Lost a claim race
		return 0, ErrAlreadyClaimed
	}
	return reward, nil
}

// ExpireOlderThan marks pending wagers older than age as lost.
// Returns the number of expired records. Called by an external scheduler
// (the sweep command), never from a self-starting interval.
func (s *Store) ExpireOlderThan(age time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-age).Format("2006-01-02 15:04:05")
	res, err := s.db.Exec(
		"UPDATE wagers SET status = 'lost', updated_at = CURRENT_TIMESTAMP WHERE status = 'pending' AND created_at < ?",
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("wagerstore: cannot expire wagers: %w", err)
	}
	return res.RowsAffected()
}

// parseTime handles both time.Time and string datetime representations
// returned by the sqlite driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
