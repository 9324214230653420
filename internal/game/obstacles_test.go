package game

import (
	"math"
	"testing"

	"github.com/dobi-games/flappy-dobi/internal/config"
	"github.com/dobi-games/flappy-dobi/internal/core"
)

func testObstacleManager(seed int64) *ObstacleManager {
	cfg := config.Default()
	return NewObstacleManager(seed, cfg.Obstacles, cfg.World)
}

func TestObstacleSpawnAtRightEdge(t *testing.T) {
	m := testObstacleManager(42)

	m.Advance(0, 100, true)
	obs := m.Obstacles()
	if len(obs) != 1 {
		t.Fatalf("len(Obstacles()) = %d, want 1", len(obs))
	}
	if obs[0].X != m.world.Width {
		t.Errorf("spawn X = %f, want %f", obs[0].X, m.world.Width)
	}
}

func TestObstacleGapIsConstant(t *testing.T) {
	m := testObstacleManager(42)

	for i := 0; i < 200; i++ {
		m.Advance(50, 100, true)
	}
	for _, o := range m.Obstacles() {
		if gap := o.GapBottom - o.GapTop; gap != m.cfg.Gap {
			t.Errorf("gap = %f, want %f", gap, m.cfg.Gap)
		}
		if o.GapTop < m.cfg.TopMargin {
			t.Errorf("GapTop = %f above the top margin %f", o.GapTop, m.cfg.TopMargin)
		}
		if o.GapBottom > m.world.FloorY-m.cfg.BottomMargin {
			t.Errorf("GapBottom = %f below the bottom margin", o.GapBottom)
		}
	}
}

func TestObstacleSpawnCadence(t *testing.T) {
	m := testObstacleManager(42)

	// 25px per step, so a spawn lands every 12 steps; stop right on a
	// spawn step to observe the fullest live set
	for i := 0; i < 193; i++ {
		m.Advance(25, 100, true)
	}

	obs := m.Obstacles()
	if len(obs) < 2 {
		t.Fatalf("len(Obstacles()) = %d, want at least 2", len(obs))
	}
	// Consecutive spawns keep the spacing apart; with dist dividing the
	// spacing evenly the separation is exact
	for i := 1; i < len(obs); i++ {
		sep := obs[i].X - obs[i-1].X
		if math.Abs(sep-m.cfg.Spacing) > 1e-9 {
			t.Errorf("separation between obstacles %d and %d = %f, want %f", i-1, i, sep, m.cfg.Spacing)
		}
	}

	// Steady state holds as many live obstacles as the world width admits
	want := int((m.world.Width+m.cfg.Width)/m.cfg.Spacing) + 1
	if len(obs) != want {
		t.Errorf("steady-state obstacle count = %d, want %d", len(obs), want)
	}
}

func TestObstaclePassedExactlyOnce(t *testing.T) {
	m := testObstacleManager(42)
	agentX := 100.0

	total := 0
	for i := 0; i < 40; i++ {
		total += m.Advance(25, agentX, false)
	}
	if total != 0 {
		t.Fatalf("passed %d obstacles with spawning disabled", total)
	}

	// One obstacle, marched past the agent in small steps
	m.Advance(0, agentX, true)
	for i := 0; i < 200; i++ {
		total += m.Advance(5, agentX, false)
	}
	if total != 1 {
		t.Errorf("obstacle passed %d times, want exactly 1", total)
	}
}

func TestObstacleRetiredOffScreen(t *testing.T) {
	m := testObstacleManager(42)

	m.Advance(0, 100, true)
	// Push it fully past the left edge
	m.Advance(m.world.Width+m.cfg.Width+1, 100, false)
	if n := len(m.Obstacles()); n != 0 {
		t.Errorf("len(Obstacles()) = %d after retire, want 0", n)
	}
}

func TestObstacleCollisionGeometry(t *testing.T) {
	cfg := config.Default()
	m := NewObstacleManager(42, cfg.Obstacles, cfg.World)
	m.obstacles = []Obstacle{{X: 100, GapTop: 200, GapBottom: 520}}

	tests := []struct {
		name  string
		agent core.Rect
		want  bool
	}{
		{"inside top pillar", core.NewRect(100, 100, 80, 80), true},
		{"inside the gap", core.NewRect(100, 300, 80, 80), false},
		{"clipping the bottom pillar", core.NewRect(100, 460, 80, 80), true},
		{"touching the gap top edge", core.NewRect(100, 200, 80, 80), false},
		{"left of the pillars", core.NewRect(0, 100, 80, 80), false},
		{"right of the pillars", core.NewRect(240, 100, 80, 80), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Collides(tt.agent); got != tt.want {
				t.Errorf("Collides(%+v) = %v, want %v", tt.agent, got, tt.want)
			}
		})
	}
}

func TestObstacleDeterministicSpawns(t *testing.T) {
	m1 := testObstacleManager(7)
	m2 := testObstacleManager(7)

	for i := 0; i < 200; i++ {
		m1.Advance(25, 100, true)
		m2.Advance(25, 100, true)
	}

	o1, o2 := m1.Obstacles(), m2.Obstacles()
	if len(o1) != len(o2) {
		t.Fatalf("obstacle counts diverged: %d vs %d", len(o1), len(o2))
	}
	for i := range o1 {
		if o1[i] != o2[i] {
			t.Errorf("obstacle %d diverged: %+v vs %+v", i, o1[i], o2[i])
		}
	}
}

func TestObstacleResetClearsAndReseeds(t *testing.T) {
	m := testObstacleManager(7)
	for i := 0; i < 50; i++ {
		m.Advance(25, 100, true)
	}
	firstRun := append([]Obstacle(nil), m.Obstacles()...)

	m.Reset(7)
	if n := len(m.Obstacles()); n != 0 {
		t.Fatalf("len(Obstacles()) = %d after Reset, want 0", n)
	}
	for i := 0; i < 50; i++ {
		m.Advance(25, 100, true)
	}

	secondRun := m.Obstacles()
	if len(firstRun) != len(secondRun) {
		t.Fatalf("obstacle counts diverged after reseed: %d vs %d", len(firstRun), len(secondRun))
	}
	for i := range firstRun {
		if firstRun[i] != secondRun[i] {
			t.Errorf("obstacle %d diverged after reseed", i)
		}
	}
}
