package config

import (
	_ "embed"
)

//go:embed defaults/dobi.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
// Values mirror defaults/dobi.yaml and act as the fallback of last resort.
func Default() Config {
	return Config{
		World: WorldConfig{
			Width:  800,
			Height: 600,
			FloorY: 560,
		},
		Physics: PhysicsConfig{
			Gravity:       1800,
			JumpImpulse:   -600,
			MaxFallSpeed:  900,
			ObstacleSpeed: 180,
			MaxTickDelta:  0.05,
		},
		Obstacles: ObstaclesConfig{
			Width:        120,
			Gap:          320,
			Spacing:      300,
			TopMargin:    60,
			BottomMargin: 60,
			Delay:        2.0,
		},
		Agent: AgentConfig{
			X:    100,
			Size: 80,
		},
		Rules: RulesConfig{
			WinScore:         50,
			ScorePerObstacle: 1,
		},
		Wager: WagerConfig{
			Stake:            10,
			RewardMultiplier: 2.0,
		},
		Ledger: LedgerConfig{
			BaseURL:        "http://localhost:8090",
			TimeoutSecs:    15,
			MaxRetries:     3,
			RetryBaseMs:    500,
			RetryMaxMs:     10000,
			SettleAttempts: 5,
			StaleAfterSecs: 3600,
		},
	}
}
