package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.hcl"))
	if err != nil {
		t.Fatalf("Load returned error for a missing file: %v", err)
	}
	if cfg.Game.Variant != "leduc" || cfg.Game.Players != 2 {
		t.Fatalf("expected default leduc config, got %+v", cfg.Game)
	}
}

func TestLoad_ParsesHCLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.hcl")
	contents := `
game {
  variant      = "kuhn"
  players      = 2
  total_rounds = 1
  max_raises   = 1
}

training {
  iterations = 10000
  seed       = 42
}
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Game.Variant != "kuhn" {
		t.Fatalf("expected variant kuhn, got %q", cfg.Game.Variant)
	}
	if cfg.Training.Iterations != 10000 || cfg.Training.Seed != 42 {
		t.Fatalf("unexpected training config: %+v", cfg.Training)
	}
	// Defaults should still be applied to fields the file left unset.
	if cfg.Training.StrategyInterval != 100 {
		t.Fatalf("expected default strategy interval, got %d", cfg.Training.StrategyInterval)
	}
}

func TestValidate_RejectsMismatchedKuhnRounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Game.Variant = "kuhn"
	cfg.Game.TotalRounds = 2

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for kuhn with 2 rounds")
	}
}

func TestValidate_AcceptsDefaults(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("expected default config to validate, got %v", err)
	}
}
