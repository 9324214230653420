// Package config provides YAML-based configuration loading for the game
// and its wager settlement components.
package config

// Config contains all tunables for the game and the wager path.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Obstacles ObstaclesConfig `yaml:"obstacles"`
	Agent     AgentConfig     `yaml:"agent"`
	Rules     RulesConfig     `yaml:"rules"`
	Wager     WagerConfig     `yaml:"wager"`
	Ledger    LedgerConfig    `yaml:"ledger"`
}

// WorldConfig defines the simulation canvas in world pixels.
// The terminal renderer scales this down to character cells.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	FloorY float64 `yaml:"floor_y"` // Top of the ground band; crossing it is terminal
}

// PhysicsConfig defines agent physics. Units are pixels and seconds.
type PhysicsConfig struct {
	Gravity       float64 `yaml:"gravity"`        // Downward acceleration (px/s^2)
	JumpImpulse   float64 `yaml:"jump_impulse"`   // Velocity set on flap (negative = up)
	MaxFallSpeed  float64 `yaml:"max_fall_speed"` // Terminal velocity (px/s)
	ObstacleSpeed float64 `yaml:"obstacle_speed"` // Leftward scroll speed (px/s)
	MaxTickDelta  float64 `yaml:"max_tick_delta"` // Upper bound for one tick's dt (s)
}

// ObstaclesConfig defines obstacle geometry and spawn behavior.
type ObstaclesConfig struct {
	Width        float64 `yaml:"width"`         // Horizontal extent of a pillar pair
	Gap          float64 `yaml:"gap"`           // Fixed gap height (gap_bottom - gap_top)
	Spacing      float64 `yaml:"spacing"`       // Distance the last spawn must travel before the next
	TopMargin    float64 `yaml:"top_margin"`    // Minimum gap_top
	BottomMargin float64 `yaml:"bottom_margin"` // Minimum distance of gap_bottom from the floor
	Delay        float64 `yaml:"delay"`         // Grace period before the first spawn (s)
}

// AgentConfig defines the player hitbox.
type AgentConfig struct {
	X    float64 `yaml:"x"`    // Fixed horizontal position
	Size float64 `yaml:"size"` // Square hitbox edge length
}

// RulesConfig defines scoring and the win condition.
type RulesConfig struct {
	WinScore         int `yaml:"win_score"`          // Score at which the session is won
	ScorePerObstacle int `yaml:"score_per_obstacle"` // Increment per passed obstacle
}

// WagerConfig defines the stake model for wagered sessions.
type WagerConfig struct {
	Stake            float64 `yaml:"stake"`             // Fixed stake per wager, in DOBI
	RewardMultiplier float64 `yaml:"reward_multiplier"` // Reward = stake * multiplier
}

// LedgerConfig defines how to reach the external wager ledger.
type LedgerConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSecs    int    `yaml:"timeout_secs"`     // Per-call deadline
	MaxRetries     int    `yaml:"max_retries"`      // Transport retries for write calls
	RetryBaseMs    int    `yaml:"retry_base_ms"`    // Initial backoff delay
	RetryMaxMs     int    `yaml:"retry_max_ms"`     // Backoff cap
	SettleAttempts int    `yaml:"settle_attempts"`  // Outcome submission attempts before SettlementFailed
	StaleAfterSecs int    `yaml:"stale_after_secs"` // Age at which a pending wager is sweepable
}
