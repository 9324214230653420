package session

import "sync"

// Registry maps players to their active wager session. It is the one piece
// of process-wide mutable state in the core and is guarded for concurrent
// use (the SSH server runs one UI loop per connection). The ledger's
// per-player active-game slot remains the authoritative concurrency
// control; this registry only mirrors it locally.
type Registry struct {
	mu       sync.RWMutex
	byPlayer map[string]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byPlayer: make(map[string]*Session)}
}

// Put binds a session as the player's active one, replacing any previous
// binding.
func (r *Registry) Put(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byPlayer[s.PlayerID] = s
}

// Active returns the player's bound session, if any.
func (r *Registry) Active(playerID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byPlayer[playerID]
	return s, ok
}

// Clear removes the player's binding.
func (r *Registry) Clear(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byPlayer, playerID)
}

// All returns a snapshot of all bound sessions.
func (r *Registry) All() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Session, 0, len(r.byPlayer))
	for _, s := range r.byPlayer {
		out = append(out, s)
	}
	return out
}
