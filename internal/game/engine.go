// Package game implements the Flappy DOBI simulation engine: a dt-driven
// tick loop over agent and obstacle state that reports discrete outcome
// events. The engine is pure computation over in-memory state; it never
// blocks and never talks to the ledger.
package game

import (
	"github.com/dobi-games/flappy-dobi/internal/config"
	"github.com/dobi-games/flappy-dobi/internal/core"
)

// State is the per-session engine state machine.
// Won and Lost are terminal: once reached, Tick stops advancing the world
// and produces no further events.
type State int

const (
	StateNotStarted State = iota
	StatePlaying
	StateWon
	StateLost
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StatePlaying:
		return "playing"
	case StateWon:
		return "won"
	case StateLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state accepts no further ticks.
func (s State) Terminal() bool {
	return s == StateWon || s == StateLost
}

// EventKind identifies a discrete outcome event emitted by a tick.
type EventKind int

const (
	EventScored EventKind = iota
	EventCollided
	EventWon
)

// Event is a discrete outcome reported by Tick.
type Event struct {
	Kind   EventKind
	Points int // Only set for EventScored
}

// TickResult carries the events of one tick plus a render-ready snapshot.
type TickResult struct {
	Events   []Event
	Snapshot Snapshot
}

// Has reports whether the result contains an event of the given kind.
func (r TickResult) Has(kind EventKind) bool {
	for _, e := range r.Events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// Engine advances one session's world state one tick at a time.
// It is not safe for concurrent use; each session owns its engine and
// drives it from a single loop.
type Engine struct {
	cfg       config.Config
	obstacles *ObstacleManager

	agentY   float64
	agentVel float64
	elapsed  float64 // Seconds since Start
	score    int
	state    State
	jump     bool // Flap requested since the last tick
}

// New creates an engine for one session.
func New(cfg config.Config, seed int64) *Engine {
	return &Engine{
		cfg:       cfg,
		obstacles: NewObstacleManager(seed, cfg.Obstacles, cfg.World),
		state:     StateNotStarted,
	}
}

// Reset rewinds the engine to a fresh, started session with a new seed.
func (e *Engine) Reset(seed int64) {
	e.obstacles.Reset(seed)
	e.agentY = (e.cfg.World.FloorY - e.cfg.Agent.Size) / 2
	e.agentVel = 0
	e.elapsed = 0
	e.score = 0
	e.jump = false
	e.state = StatePlaying
}

// Start begins play. A no-op unless the session has not started yet.
func (e *Engine) Start(seed int64) {
	if e.state != StateNotStarted {
		return
	}
	e.Reset(seed)
}

// Jump requests a flap: on the next tick the agent's velocity is set to the
// impulse constant, unconditionally. Repeat jumps before landing are legal
// and expected; an intent may arrive every tick.
func (e *Engine) Jump() {
	if e.state != StatePlaying {
		return
	}
	e.jump = true
}

// State returns the current session state.
func (e *Engine) State() State {
	return e.state
}

// Score returns the current score.
func (e *Engine) Score() int {
	return e.score
}

// Tick advances the simulation by dt seconds and reports the events that
// occurred. dt is caller-supplied and sanitized by clamping to
// [0, MaxTickDelta]; an oversized delta would otherwise tunnel the agent
// through obstacles. Once the session is terminal, Tick leaves the world
// untouched and emits nothing.
func (e *Engine) Tick(dt float64) TickResult {
	if e.state != StatePlaying {
		return TickResult{Snapshot: e.Snapshot()}
	}

	dt = core.Clamp(dt, 0, e.cfg.Physics.MaxTickDelta)
	e.elapsed += dt

	if e.jump {
		e.agentVel = e.cfg.Physics.JumpImpulse
		e.jump = false
	}

	e.agentVel += e.cfg.Physics.Gravity * dt
	if e.agentVel > e.cfg.Physics.MaxFallSpeed {
		e.agentVel = e.cfg.Physics.MaxFallSpeed
	}
	e.agentY += e.agentVel * dt

	// Ceiling clamps without damage
	if e.agentY < 0 {
		e.agentY = 0
		e.agentVel = 0
	}

	// Floor is a terminal collision
	floorHit := e.agentY+e.cfg.Agent.Size >= e.cfg.World.FloorY
	if floorHit {
		e.agentY = e.cfg.World.FloorY - e.cfg.Agent.Size
	}

	enabled := e.elapsed >= e.cfg.Obstacles.Delay
	passed := e.obstacles.Advance(e.cfg.Physics.ObstacleSpeed*dt, e.cfg.Agent.X, enabled)

	var events []Event
	if passed > 0 {
		points := passed * e.cfg.Rules.ScorePerObstacle
		e.score += points
		events = append(events, Event{Kind: EventScored, Points: points})
	}

	// Won before Collided: scoring of this tick counts toward the threshold,
	// and the tie within one tick resolves to the win.
	if e.score >= e.cfg.Rules.WinScore {
		e.state = StateWon
		events = append(events, Event{Kind: EventWon})
		return TickResult{Events: events, Snapshot: e.Snapshot()}
	}

	if floorHit || e.obstacles.Collides(e.agentRect()) {
		e.state = StateLost
		events = append(events, Event{Kind: EventCollided})
	}

	return TickResult{Events: events, Snapshot: e.Snapshot()}
}

// agentRect returns the agent's collision box.
func (e *Engine) agentRect() core.Rect {
	return core.NewRect(e.cfg.Agent.X, e.agentY, e.cfg.Agent.Size, e.cfg.Agent.Size)
}
