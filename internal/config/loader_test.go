package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	custom := `
world:
  width: 400
  height: 300
  floor_y: 280
rules:
  win_score: 5
  score_per_obstacle: 1
`
	if err := os.WriteFile(path, []byte(custom), 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.World.Width != 400 {
		t.Errorf("World.Width = %f, expected 400", cfg.World.Width)
	}
	if cfg.Rules.WinScore != 5 {
		t.Errorf("Rules.WinScore = %d, expected 5", cfg.Rules.WinScore)
	}
}

func TestLoadMissingCustomPathFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() with a missing explicit path should fail")
	}
}

func TestLoadInvalidYAMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	os.WriteFile(path, []byte("world: ["), 0o644)

	if _, err := Load(path); err == nil {
		t.Error("Load() with broken YAML should fail")
	}
}

func TestEmbeddedDefaultMatchesDefault(t *testing.T) {
	var fromYAML Config
	if err := yaml.Unmarshal(defaultYAML, &fromYAML); err != nil {
		t.Fatalf("embedded YAML does not parse: %v", err)
	}

	// The embedded file and the code fallback must agree
	if fromYAML != Default() {
		t.Errorf("embedded defaults diverge from Default():\nyaml: %+v\ncode: %+v", fromYAML, Default())
	}
}

func TestDefaultIsPlayable(t *testing.T) {
	cfg := Default()

	if cfg.World.FloorY >= cfg.World.Height {
		t.Error("floor sits below the world")
	}
	if cfg.Obstacles.Gap <= cfg.Agent.Size {
		t.Error("gap is too small for the agent")
	}
	if cfg.Obstacles.TopMargin+cfg.Obstacles.Gap+cfg.Obstacles.BottomMargin > cfg.World.FloorY {
		t.Error("margins and gap do not fit above the floor")
	}
	if cfg.Rules.WinScore <= 0 || cfg.Rules.ScorePerObstacle <= 0 {
		t.Error("scoring rules are not positive")
	}
	if cfg.Physics.JumpImpulse >= 0 {
		t.Error("jump impulse must point up (negative)")
	}
}
