package game

import (
	"math/rand"

	"github.com/dobi-games/flappy-dobi/internal/config"
	"github.com/dobi-games/flappy-dobi/internal/core"
)

// Obstacle is a pillar pair with a gap the agent must pass through.
// GapBottom - GapTop is always the configured gap constant.
type Obstacle struct {
	X         float64 // Left edge in world pixels
	GapTop    float64 // Y where the gap starts
	GapBottom float64 // Y where the gap ends
	Passed    bool    // Set once when the agent passes the trailing edge
}

// TopRect returns the collision box of the upper pillar.
func (o Obstacle) TopRect(width float64) core.Rect {
	return core.NewRect(o.X, 0, width, o.GapTop)
}

// BottomRect returns the collision box of the lower pillar.
// The pillar extends from the gap bottom down to the floor.
func (o Obstacle) BottomRect(width, floorY float64) core.Rect {
	return core.NewRect(o.X, o.GapBottom, width, floorY-o.GapBottom)
}

// ObstacleManager handles spawning, movement, scoring and removal of
// obstacles. Spawns are deterministic for a given seed.
type ObstacleManager struct {
	obstacles []Obstacle
	rng       *rand.Rand
	cfg       config.ObstaclesConfig
	world     config.WorldConfig
}

// NewObstacleManager creates a manager with the given RNG seed.
func NewObstacleManager(seed int64, cfg config.ObstaclesConfig, world config.WorldConfig) *ObstacleManager {
	m := &ObstacleManager{
		obstacles: make([]Obstacle, 0, 8),
		cfg:       cfg,
		world:     world,
	}
	m.Reset(seed)
	return m
}

// Reset clears all obstacles and reseeds the RNG.
func (m *ObstacleManager) Reset(seed int64) {
	m.obstacles = m.obstacles[:0]
	m.rng = rand.New(rand.NewSource(seed))
}

// Advance moves all obstacles left by dist pixels, marks newly passed ones,
// retires those fully off-screen and spawns the next obstacle when the most
// recent spawn has travelled the spacing distance. Spawning only happens
// while enabled (the engine keeps it off during the initial grace period).
// Returns the number of obstacles passed this step.
func (m *ObstacleManager) Advance(dist, agentX float64, enabled bool) int {
	for i := range m.obstacles {
		m.obstacles[i].X -= dist
	}

	// Score: trailing edge fell behind the agent, exactly once per obstacle
	passed := 0
	for i := range m.obstacles {
		if !m.obstacles[i].Passed && m.obstacles[i].X+m.cfg.Width < agentX {
			m.obstacles[i].Passed = true
			passed++
		}
	}

	// Retire obstacles that scrolled fully off the left edge
	live := m.obstacles[:0]
	for _, o := range m.obstacles {
		if o.X+m.cfg.Width > 0 {
			live = append(live, o)
		}
	}
	m.obstacles = live

	if enabled && (len(m.obstacles) == 0 || m.obstacles[len(m.obstacles)-1].X <= m.world.Width-m.cfg.Spacing) {
		m.spawn()
	}

	return passed
}

// spawn creates a new obstacle at the right edge of the world.
func (m *ObstacleManager) spawn() {
	minTop := m.cfg.TopMargin
	maxTop := m.world.FloorY - m.cfg.BottomMargin - m.cfg.Gap
	if maxTop < minTop {
		maxTop = minTop
	}

	gapTop := minTop
	if maxTop > minTop {
		gapTop = minTop + m.rng.Float64()*(maxTop-minTop)
	}

	m.obstacles = append(m.obstacles, Obstacle{
		X:         m.world.Width,
		GapTop:    gapTop,
		GapBottom: gapTop + m.cfg.Gap,
	})
}

// Collides reports whether the agent box overlaps any pillar.
// An agent whose vertical span stays inside [GapTop, GapBottom] clears the
// obstacle even while inside its horizontal span.
func (m *ObstacleManager) Collides(agent core.Rect) bool {
	for _, o := range m.obstacles {
		if agent.Intersects(o.TopRect(m.cfg.Width)) || agent.Intersects(o.BottomRect(m.cfg.Width, m.world.FloorY)) {
			return true
		}
	}
	return false
}

// Obstacles returns the live obstacle list.
func (m *ObstacleManager) Obstacles() []Obstacle {
	return m.obstacles
}
