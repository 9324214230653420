// Package ledgerd implements the development wager ledger: an HTTP JSON
// server over the wager store. It stands in for the production contract
// backend and enforces the same state machine: pending -> won|lost,
// won -> claimed, with idempotent result submission.
package ledgerd

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/dobi-games/flappy-dobi/internal/ledger"
	"github.com/dobi-games/flappy-dobi/internal/wagerstore"
)

// Config holds server tunables.
type Config struct {
	Stake            float64 // Stake recorded per created wager
	RewardMultiplier float64 // Reward = stake * multiplier
}

// Server exposes the wager ledger HTTP API.
type Server struct {
	store  *wagerstore.Store
	cfg    Config
	logger *log.Logger
	mux    *http.ServeMux
}

// New creates a ledger server over the given store.
// logger may be nil for a silent server.
func New(store *wagerstore.Store, cfg Config, logger *log.Logger) *Server {
	if cfg.RewardMultiplier == 0 {
		cfg.RewardMultiplier = 2.0
	}
	if logger == nil {
		logger = log.New(nil)
	}

	s := &Server{store: store, cfg: cfg, logger: logger, mux: http.NewServeMux()}
	s.mux.HandleFunc("POST /games", s.handleCreate)
	s.mux.HandleFunc("GET /games/active", s.handleActive)
	s.mux.HandleFunc("GET /games/{id}", s.handleStatus)
	s.mux.HandleFunc("POST /games/{id}/result", s.handleResult)
	s.mux.HandleFunc("POST /games/{id}/claim", s.handleClaim)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Player string `json:"player"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Player == "" {
		writeError(w, http.StatusBadRequest, &ledger.APIError{Code: "badRequest", Message: "player is required"})
		return
	}

	gameID, err := s.store.Create(req.Player, s.cfg.Stake)
	if errors.Is(err, wagerstore.ErrActiveExists) {
		// gameID carries the existing pending game so the client can resume
		writeError(w, http.StatusConflict, &ledger.APIError{
			Code:    ledger.CodeAlreadyActive,
			Message: "player already has an active game",
			GameID:  gameID,
		})
		return
	}
	if err != nil {
		s.internalError(w, "create game", err)
		return
	}

	s.logger.Info("game created", "player", req.Player, "game", gameID)
	writeJSON(w, map[string]string{"gameId": gameID})
}

func (s *Server) handleActive(w http.ResponseWriter, r *http.Request) {
	player := r.URL.Query().Get("player")
	if player == "" {
		writeError(w, http.StatusBadRequest, &ledger.APIError{Code: "badRequest", Message: "player is required"})
		return
	}

	gameID, ok, err := s.store.ActiveGame(player)
	if err != nil {
		s.internalError(w, "active game", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, &ledger.APIError{Code: ledger.CodeNotFound, Message: "no active game"})
		return
	}
	writeJSON(w, ledger.GameStatus{GameID: gameID, Player: player, Status: ledger.StatusPending})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.PathValue("id"))
	if errors.Is(err, wagerstore.ErrNotFound) {
		writeError(w, http.StatusNotFound, &ledger.APIError{Code: ledger.CodeNotFound, Message: "unknown game"})
		return
	}
	if err != nil {
		s.internalError(w, "game status", err)
		return
	}
	writeJSON(w, ledger.GameStatus{GameID: rec.GameID, Player: rec.Player, Status: rec.Status})
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	var req struct {
		Won bool `json:"won"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, &ledger.APIError{Code: "badRequest", Message: "invalid body"})
		return
	}

	err := s.store.SetResult(gameID, req.Won)
	switch {
	case errors.Is(err, wagerstore.ErrNotFound):
		writeError(w, http.StatusNotFound, &ledger.APIError{Code: ledger.CodeNotFound, Message: "unknown game", GameID: gameID})
		return
	case errors.Is(err, wagerstore.ErrInvalidTransition):
		writeError(w, http.StatusConflict, &ledger.APIError{Code: ledger.CodeInvalidTransition, Message: "game already resolved with a different result", GameID: gameID})
		return
	case err != nil:
		s.internalError(w, "set result", err)
		return
	}

	status := ledger.StatusLost
	if req.Won {
		status = ledger.StatusWon
	}
	s.logger.Info("result recorded", "game", gameID, "won", req.Won)
	writeJSON(w, map[string]string{"gameId": gameID, "status": string(status)})
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	var req struct {
		Player string `json:"player"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Player == "" {
		writeError(w, http.StatusBadRequest, &ledger.APIError{Code: "badRequest", Message: "player is required"})
		return
	}

	rec, err := s.store.Get(gameID)
	if errors.Is(err, wagerstore.ErrNotFound) {
		writeError(w, http.StatusNotFound, &ledger.APIError{Code: ledger.CodeNotFound, Message: "unknown game", GameID: gameID})
		return
	}
	if err != nil {
		s.internalError(w, "claim lookup", err)
		return
	}

	reward, err := s.store.Claim(gameID, req.Player, rec.Stake*s.cfg.RewardMultiplier)
	switch {
	case errors.Is(err, wagerstore.ErrNotOwner):
		writeError(w, http.StatusForbidden, &ledger.APIError{Code: ledger.CodeNotOwner, Message: "game belongs to another player", GameID: gameID})
		return
	case errors.Is(err, wagerstore.ErrAlreadyClaimed):
		writeError(w, http.StatusConflict, &ledger.APIError{Code: ledger.CodeAlreadyClaimed, Message: "reward already claimed", GameID: gameID})
		return
	case errors.Is(err, wagerstore.ErrNotWon):
		writeError(w, http.StatusConflict, &ledger.APIError{Code: ledger.CodeNotWon, Message: "game is not won", GameID: gameID})
		return
	case err != nil:
		s.internalError(w, "claim", err)
		return
	}

	s.logger.Info("reward claimed", "game", gameID, "player", req.Player, "reward", reward)
	writeJSON(w, map[string]float64{"reward": reward})
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.logger.Error(op, "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, apiErr *ledger.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiErr)
}
