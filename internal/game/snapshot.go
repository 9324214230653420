package game

import "github.com/dobi-games/flappy-dobi/internal/core"

// ObstacleView is the render-facing view of one obstacle.
type ObstacleView struct {
	X         float64
	GapTop    float64
	GapBottom float64
	Passed    bool
}

// Snapshot is a read-only view of the world after a tick, consumed by the
// presentation layer. Rotation is derived from velocity and is visual only.
type Snapshot struct {
	State     State
	Score     int
	Elapsed   float64
	AgentX    float64
	AgentY    float64
	AgentVel  float64
	Rotation  float64 // Degrees; negative = nose up
	Obstacles []ObstacleView
}

// Snapshot captures the current world state.
func (e *Engine) Snapshot() Snapshot {
	obstacles := make([]ObstacleView, len(e.obstacles.Obstacles()))
	for i, o := range e.obstacles.Obstacles() {
		obstacles[i] = ObstacleView{
			X:         o.X,
			GapTop:    o.GapTop,
			GapBottom: o.GapBottom,
			Passed:    o.Passed,
		}
	}

	// Tilt up briefly after a flap, pitch down toward the dive
	rotation := core.Clamp(e.agentVel/e.cfg.Physics.MaxFallSpeed, -0.4, 1.0) * 90

	return Snapshot{
		State:     e.state,
		Score:     e.score,
		Elapsed:   e.elapsed,
		AgentX:    e.cfg.Agent.X,
		AgentY:    e.agentY,
		AgentVel:  e.agentVel,
		Rotation:  rotation,
		Obstacles: obstacles,
	}
}
