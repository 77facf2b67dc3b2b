// Command cfr-solver trains, plays, and evaluates the MCCFR Leduc/Kuhn
// solver described by this module.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/cfr-solver/internal/cards"
	"github.com/lox/cfr-solver/internal/config"
	"github.com/lox/cfr-solver/internal/play"
	"github.com/lox/cfr-solver/internal/policy"
	"github.com/lox/cfr-solver/internal/solver"
)

var cli struct {
	Debug  bool   `help:"enable debug logging"`
	Config string `help:"path to an HCL game/training config file" default:"game.hcl"`

	Train TrainCmd `cmd:"" help:"run MCCFR training and write a blueprint"`
	Play  PlayCmd  `cmd:"" help:"play an interactive hand against a trained blueprint"`
	Eval  EvalCmd  `cmd:"" help:"evaluate a trained blueprint's exploitability"`
}

type TrainCmd struct {
	Out             string `help:"path to write the blueprint" required:""`
	Iterations      int    `help:"override the configured iteration count"`
	CheckpointPath  string `help:"path to write a periodic checkpoint"`
	CheckpointEvery int    `help:"checkpoint interval in iterations (0 disables)" default:"0"`
	ResumeFrom      string `help:"resume training from a checkpoint file"`
}

type PlayCmd struct {
	Blueprint string `help:"path to a trained blueprint to seed the solver's table" required:""`
}

type EvalCmd struct {
	Blueprint     string `help:"path to blueprint" required:""`
	BestResponse  bool   `help:"also compute each player's best-response exploitability"`
	InspectKey    string `help:"print the stored action weights for a single info-set key instead of running a full sweep"`
	InspectPlayer int    `help:"player index the inspected info-set key belongs to" default:"0"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("cfr-solver"),
		kong.Description("MCCFR Leduc/Kuhn poker solver"),
		kong.UsageOnError(),
	)

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if cli.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		logger.Fatal("load config", "err", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid config", "err", err)
	}

	var cmdErr error
	switch ctx.Command() {
	case "train":
		cmdErr = cli.Train.Run(context.Background(), cfg, logger)
	case "play":
		cmdErr = cli.Play.Run(cfg, logger)
	case "eval":
		cmdErr = cli.Eval.Run(context.Background(), cfg, logger)
	default:
		cmdErr = fmt.Errorf("unknown command: %s", ctx.Command())
	}
	if cmdErr != nil {
		logger.Fatal(cmdErr)
	}
}

func newDriver(cfg *config.Config, logger *log.Logger) *solver.Driver {
	return solver.NewDriver(solverConfig(cfg), logger)
}

// solverConfig translates the loaded, defaulted game.hcl document into the
// shape Driver trains against, threading every MCCFR hyperparameter through
// instead of leaving the solver package's own defaults to silently win.
func solverConfig(cfg *config.Config) solver.Config {
	return solver.Config{
		NumPlayers:  cfg.Game.Players,
		TotalRounds: cfg.Game.TotalRounds,
		MaxRaises:   cfg.Game.MaxRaises,
		Deck:        cfg.Deck(),
		Seed:        cfg.Training.Seed,

		RegretMin:        cfg.Training.RegretMin,
		StrategyInterval: cfg.Training.StrategyInterval,
		PruneThreshold:   cfg.Training.PruneThreshold,
		DiscountInterval: cfg.Training.DiscountInterval,
		LinearCFRCutoff:  cfg.Training.LinearCFRCutoff,
	}
}

func (cmd *TrainCmd) Run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	iterations := cfg.Training.Iterations
	if cmd.Iterations > 0 {
		iterations = cmd.Iterations
	}

	var driver *solver.Driver
	if cmd.ResumeFrom != "" {
		var err error
		driver, err = solver.LoadTrainerFromCheckpoint(cmd.ResumeFrom, logger)
		if err != nil {
			return fmt.Errorf("load checkpoint: %w", err)
		}
		logger.Info("resumed training run", "from_iteration", driver.Iteration(), "checkpoint", cmd.ResumeFrom)
	} else {
		driver = newDriver(cfg, logger)
		logger.Info("starting training run",
			"variant", cfg.Game.Variant,
			"players", cfg.Game.Players,
			"iterations", iterations,
			"seed", cfg.Training.Seed)
	}

	clock := quartz.NewReal()
	start := clock.Now()

	if cmd.CheckpointPath != "" && cmd.CheckpointEvery > 0 {
		remaining := iterations
		for remaining > 0 {
			batch := cmd.CheckpointEvery
			if batch > remaining {
				batch = remaining
			}
			driver.Train(batch)
			remaining -= batch
			if err := driver.SaveCheckpoint(cmd.CheckpointPath); err != nil {
				return fmt.Errorf("save checkpoint: %w", err)
			}
			logger.Info("checkpoint written", "iteration", driver.Iteration(), "path", cmd.CheckpointPath)
		}
	} else {
		driver.Train(iterations)
	}

	duration := clock.Since(start)
	logger.Info("training complete", "duration", duration, "infosets", driver.Table().Size())

	bp := solver.NewBlueprint(driver)
	if err := bp.Save(cmd.Out); err != nil {
		return fmt.Errorf("save blueprint: %w", err)
	}
	logger.Info("blueprint saved", "path", cmd.Out)
	return nil
}

func (cmd *PlayCmd) Run(cfg *config.Config, logger *log.Logger) error {
	if cfg.Game.Variant != "leduc" {
		return fmt.Errorf("play is only supported for the leduc variant, got %q", cfg.Game.Variant)
	}

	bp, err := solver.LoadBlueprint(cmd.Blueprint)
	if err != nil {
		return fmt.Errorf("load blueprint: %w", err)
	}
	playCfg := solverConfig(cfg)
	playCfg.Deck = cards.NewLeducDeck()
	driver := solver.NewDriverWithTable(playCfg, bp.RestoreTable(), logger)

	model := play.New(logger)
	program := tea.NewProgram(model)

	go func() {
		if _, err := play.RunHand(driver, cfg, model); err != nil {
			logger.Error("hand ended with error", "err", err)
		}
		program.Send(play.QuitMsg{})
	}()

	_, err = program.Run()
	return err
}

func (cmd *EvalCmd) Run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	if cmd.InspectKey != "" {
		p, err := policy.Load(cmd.Blueprint)
		if err != nil {
			return fmt.Errorf("load policy: %w", err)
		}
		records, ok := p.Blueprint().Nodes[cmd.InspectPlayer]
		if !ok {
			return fmt.Errorf("no info sets stored for player %d", cmd.InspectPlayer)
		}
		record, ok := records[cmd.InspectKey]
		if !ok {
			return fmt.Errorf("info set %q not found for player %d", cmd.InspectKey, cmd.InspectPlayer)
		}
		weights, err := p.ActionWeights(cmd.InspectPlayer, cmd.InspectKey, len(record.ValidActions))
		if err != nil {
			return fmt.Errorf("inspect key: %w", err)
		}
		logger.Info("action weights", "player", cmd.InspectPlayer, "key", cmd.InspectKey, "actions", record.ValidActions, "weights", weights)
		return nil
	}

	bp, err := solver.LoadBlueprint(cmd.Blueprint)
	if err != nil {
		return fmt.Errorf("load blueprint: %w", err)
	}

	driver := solver.NewDriverWithTable(solverConfig(cfg), bp.RestoreTable(), logger)

	utility, err := driver.ExpectedUtility(ctx)
	if err != nil {
		return fmt.Errorf("expected utility: %w", err)
	}
	logger.Info("expected utility", "per_player", utility)

	if cmd.BestResponse {
		for p := 0; p < cfg.Game.Players; p++ {
			br := driver.BestResponse(p)
			logger.Info("best response", "player", p, "value", br)
		}
	}

	return nil
}
