// Package config loads the declarative game-variant and training
// hyperparameter configuration from an optional HCL file, with CLI flags
// taking precedence over file values.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/cfr-solver/internal/cards"
)

// GameConfig selects the game variant: "leduc" deals from the six-card deck,
// "kuhn" from the three-card deck with exactly two players and one round.
// Both variants are trained by solver.Driver with MCCFR over game.State and
// its C/F/raise alphabet; the two-action game.KuhnState and vanilla
// solver.CFR are not reached from this configuration.
type GameConfig struct {
	Variant     string `hcl:"variant,optional"`
	Players     int    `hcl:"players,optional"`
	TotalRounds int    `hcl:"total_rounds,optional"`
	MaxRaises   int    `hcl:"max_raises,optional"`
}

// TrainingConfig holds the MCCFR hyperparameters. Zero values mean "use the
// spec default" and are filled in by applyDefaults.
type TrainingConfig struct {
	Iterations       int     `hcl:"iterations,optional"`
	Seed             int64   `hcl:"seed,optional"`
	RegretMin        float64 `hcl:"regret_min,optional"`
	StrategyInterval int     `hcl:"strategy_interval,optional"`
	PruneThreshold   int     `hcl:"prune_threshold,optional"`
	DiscountInterval int     `hcl:"discount_interval,optional"`
	LinearCFRCutoff  int     `hcl:"linear_cfr_cutoff,optional"`
	// BotUsesCurrentStrategy surfaces the play-loop open question (spec §4.F
	// / §9): the reference play() samples the bot's own action from the
	// current, regret-matched strategy rather than its converged average —
	// true reproduces that behavior, false switches the bot to sample from
	// the average strategy instead.
	BotUsesCurrentStrategy bool `hcl:"bot_uses_current_strategy,optional"`
}

// Config is the top-level game.hcl document.
type Config struct {
	Game     GameConfig     `hcl:"game,block"`
	Training TrainingConfig `hcl:"training,block"`
}

// DefaultConfig returns the spec's default two-player Leduc configuration.
func DefaultConfig() *Config {
	return &Config{
		Game: GameConfig{
			Variant:     "leduc",
			Players:     2,
			TotalRounds: 2,
			MaxRaises:   2,
		},
		Training: TrainingConfig{
			Iterations:             1000000,
			Seed:                   0,
			RegretMin:              -300000,
			StrategyInterval:       100,
			PruneThreshold:         200,
			DiscountInterval:       100,
			LinearCFRCutoff:        400,
			BotUsesCurrentStrategy: true,
		},
	}
}

// Load reads filename as HCL if it exists, falling back to DefaultConfig
// when it does not. A missing file is not an error: config is optional and
// the defaults stand in for it.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: parse %s: %s", filename, diags.Error())
	}

	cfg := DefaultConfig()
	diags = gohcl.DecodeBody(file.Body, nil, cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: decode %s: %s", filename, diags.Error())
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills in zero-valued fields left absent from the HCL file.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Game.Variant == "" {
		c.Game.Variant = d.Game.Variant
	}
	if c.Game.Players == 0 {
		c.Game.Players = d.Game.Players
	}
	if c.Game.TotalRounds == 0 {
		c.Game.TotalRounds = d.Game.TotalRounds
	}
	if c.Game.MaxRaises == 0 {
		c.Game.MaxRaises = d.Game.MaxRaises
	}
	if c.Training.Iterations == 0 {
		c.Training.Iterations = d.Training.Iterations
	}
	if c.Training.RegretMin == 0 {
		c.Training.RegretMin = d.Training.RegretMin
	}
	if c.Training.StrategyInterval == 0 {
		c.Training.StrategyInterval = d.Training.StrategyInterval
	}
	if c.Training.PruneThreshold == 0 {
		c.Training.PruneThreshold = d.Training.PruneThreshold
	}
	if c.Training.DiscountInterval == 0 {
		c.Training.DiscountInterval = d.Training.DiscountInterval
	}
	if c.Training.LinearCFRCutoff == 0 {
		c.Training.LinearCFRCutoff = d.Training.LinearCFRCutoff
	}
}

// Deck returns the unshuffled template deck for the configured variant.
func (c *Config) Deck() cards.Deck {
	if c.Game.Variant == "kuhn" {
		return cards.NewKuhnDeck()
	}
	return cards.NewLeducDeck()
}

// Validate rejects configurations that the game state machine cannot express.
func (c *Config) Validate() error {
	if c.Game.Variant != "kuhn" && c.Game.Variant != "leduc" {
		return fmt.Errorf("config: unknown game variant %q", c.Game.Variant)
	}
	if c.Game.Players < 2 {
		return fmt.Errorf("config: players must be >= 2, got %d", c.Game.Players)
	}
	if c.Game.Variant == "kuhn" {
		if c.Game.Players != 2 {
			return fmt.Errorf("config: kuhn variant requires exactly 2 players")
		}
		if c.Game.TotalRounds != 1 {
			return fmt.Errorf("config: kuhn variant requires exactly 1 round")
		}
	}
	if c.Game.Variant == "leduc" && c.Game.TotalRounds < 1 {
		return fmt.Errorf("config: total_rounds must be >= 1")
	}
	if c.Game.MaxRaises < 0 {
		return fmt.Errorf("config: max_raises cannot be negative")
	}
	if c.Training.Iterations <= 0 {
		return fmt.Errorf("config: iterations must be > 0")
	}
	return nil
}
