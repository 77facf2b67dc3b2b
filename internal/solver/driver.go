package solver

import (
	"context"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/cfr-solver/internal/cards"
	"github.com/lox/cfr-solver/internal/fastrng"
	"github.com/lox/cfr-solver/internal/game"
	"github.com/lox/cfr-solver/internal/randutil"
)

// Config describes the game variant and hyperparameters a Driver trains
// against: player count, round structure, raise budget, the unshuffled
// template deck, the seed both PRNG streams derive from, and the MCCFR
// pruning/linear-CFR discount schedule (config.TrainingConfig's values, once
// loaded and defaulted).
type Config struct {
	NumPlayers  int
	TotalRounds int
	MaxRaises   int
	Deck        cards.Deck
	Seed        int64

	RegretMin        float64
	StrategyInterval int
	PruneThreshold   int
	DiscountInterval int
	LinearCFRCutoff  int
}

// applyDefaults fills in hyperparameters left zero-valued, the same defaults
// config.DefaultConfig ships, so a Config built by hand (as the test suite
// does) still produces a sane, non-dividing-by-zero training schedule.
func (c Config) applyDefaults() Config {
	if c.RegretMin == 0 {
		c.RegretMin = -300000
	}
	if c.StrategyInterval == 0 {
		c.StrategyInterval = 100
	}
	if c.PruneThreshold == 0 {
		c.PruneThreshold = 200
	}
	if c.DiscountInterval == 0 {
		c.DiscountInterval = 100
	}
	if c.LinearCFRCutoff == 0 {
		c.LinearCFRCutoff = 400
	}
	return c
}

// Driver orchestrates CFR/MCCFR training: it owns the node table and the two
// independent PRNG streams (deck shuffling, action sampling) required by
// the engine.
type Driver struct {
	cfg       Config
	table     *Table
	deckRNG   *rand.Rand
	actionRNG *rand.Rand
	iteration int
	logger    *log.Logger
}

// NewDriver constructs a Driver with a fresh, empty node table. logger may be
// nil to suppress progress output.
func NewDriver(cfg Config, logger *log.Logger) *Driver {
	cfg = cfg.applyDefaults()
	return &Driver{
		cfg:       cfg,
		table:     NewTable(cfg.NumPlayers),
		deckRNG:   randutil.New(cfg.Seed),
		actionRNG: fastrng.New(cfg.Seed + 1),
		logger:    logger,
	}
}

// NewDriverWithTable constructs a Driver around an already-populated node
// table, such as one restored from a saved blueprint, instead of starting
// from an empty one.
func NewDriverWithTable(cfg Config, table *Table, logger *log.Logger) *Driver {
	d := NewDriver(cfg, logger)
	d.table = table
	return d
}

// Table exposes the underlying node table, for persistence and for the
// subgame solver to share accumulated regret with the blueprint.
func (d *Driver) Table() *Table { return d.table }

// Iteration returns the number of completed training iterations.
func (d *Driver) Iteration() int { return d.iteration }

// NumPlayers, TotalRounds, and MaxRaises expose the game shape a Driver was
// configured for, so callers outside this package (the interactive play
// loop) can build root states without reaching into Config directly.
func (d *Driver) NumPlayers() int  { return d.cfg.NumPlayers }
func (d *Driver) TotalRounds() int { return d.cfg.TotalRounds }
func (d *Driver) MaxRaises() int   { return d.cfg.MaxRaises }

// ShuffledDeck clones the template deck and shuffles it with the driver's
// own deck PRNG stream, the same one Train uses for every hand it deals.
func (d *Driver) ShuffledDeck() cards.Deck {
	deck := d.cfg.Deck.Clone()
	deck.Shuffle(d.deckRNG)
	return deck
}

// SampleAction draws an index from the discrete distribution sigma using the
// driver's own action PRNG stream, the same one training uses to sample
// opponent branches during MCCFR.
func (d *Driver) SampleAction(sigma []float64) int {
	return sampleIndex(sigma, d.actionRNG)
}

// Train runs the blueprint training loop: shuffle, build the root state, run
// updateStrategy and mccfr for every player, apply the linear-CFR discount
// schedule, and repeat for the requested number of iterations. Iteration
// numbers continue from Iteration(), so repeated calls (or a run resumed from
// a checkpoint) keep one schedule rather than restarting it.
func (d *Driver) Train(iterations int) {
	for n := 0; n < iterations; n++ {
		i := d.iteration + 1
		deck := d.cfg.Deck.Clone()
		deck.Shuffle(d.deckRNG)
		root := game.New(d.cfg.NumPlayers, d.cfg.TotalRounds, deck, d.cfg.MaxRaises)

		for player := 0; player < d.cfg.NumPlayers; player++ {
			if i%d.cfg.StrategyInterval == 0 {
				UpdateStrategy(root, player, d.table, d.actionRNG)
			}
			if i > d.cfg.PruneThreshold {
				if d.actionRNG.Float64() < unprunedFraction {
					MCCFR(root, player, false, d.table, d.actionRNG, d.cfg.RegretMin)
				} else {
					MCCFR(root, player, true, d.table, d.actionRNG, d.cfg.RegretMin)
				}
			} else {
				MCCFR(root, player, false, d.table, d.actionRNG, d.cfg.RegretMin)
			}
		}

		if i < d.cfg.LinearCFRCutoff && i%d.cfg.DiscountInterval == 0 {
			t := i / d.cfg.DiscountInterval
			d.table.DiscountAll(float64(t) / float64(t+1))
		}

		d.iteration = i
		if d.logger != nil && i%1000 == 0 {
			d.logger.Info("training progress", "iteration", i, "infosets", d.table.Size())
		}
	}
}

// ExpectedUtility sorts the template deck and averages the full-tree utility,
// under every InfoNode's average strategy, over every distinct permutation
// of the deck. It only reads getAverageStrategy, never regret or
// strategy-sum, so the permutation sweep is parallelized with errgroup.
func (d *Driver) ExpectedUtility(ctx context.Context) ([]float64, error) {
	perms := distinctPermutations(d.cfg.Deck)
	results := make([][]float64, len(perms))

	g, _ := errgroup.WithContext(ctx)
	for i, perm := range perms {
		i, perm := i, perm
		g.Go(func() error {
			root := game.New(d.cfg.NumPlayers, d.cfg.TotalRounds, perm, d.cfg.MaxRaises)
			results[i] = traverseAverage(root, d.table)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := make([]float64, d.cfg.NumPlayers)
	for _, r := range results {
		for i := range total {
			total[i] += r[i]
		}
	}
	for i := range total {
		total[i] /= float64(len(perms))
	}
	return total, nil
}

// BestResponse computes player's best-response value against every other
// player's current average strategy, averaged over every deal of the
// template deck. It measures how exploitable the trained blueprint is.
func (d *Driver) BestResponse(player int) float64 {
	perms := distinctPermutations(d.cfg.Deck)
	total := 0.0
	for _, perm := range perms {
		root := game.New(d.cfg.NumPlayers, d.cfg.TotalRounds, perm, d.cfg.MaxRaises)
		total += bestResponseValue(root, player, d.table)
	}
	return total / float64(len(perms))
}

func traverseAverage(s *game.State, table *Table) []float64 {
	if s.IsTerminal() {
		return s.Payoff()
	}
	p := s.Turn()
	actions := s.ValidActions()
	sigma := averageStrategyOrUniform(table, p, s.InfoSet(), len(actions))

	util := make([]float64, s.NumPlayers())
	for a, action := range actions {
		u := traverseAverage(s.Act(action), table)
		for i := range util {
			util[i] += u[i] * sigma[a]
		}
	}
	return util
}

func bestResponseValue(s *game.State, player int, table *Table) float64 {
	if s.IsTerminal() {
		return s.Payoff()[player]
	}
	actions := s.ValidActions()
	if s.Turn() == player {
		best := math.Inf(-1)
		for _, action := range actions {
			if v := bestResponseValue(s.Act(action), player, table); v > best {
				best = v
			}
		}
		return best
	}

	sigma := averageStrategyOrUniform(table, s.Turn(), s.InfoSet(), len(actions))
	sum := 0.0
	for a, action := range actions {
		sum += sigma[a] * bestResponseValue(s.Act(action), player, table)
	}
	return sum
}

func averageStrategyOrUniform(table *Table, player int, key string, numActions int) []float64 {
	if node, ok := table.Lookup(player, key); ok {
		return node.GetAverageStrategy()
	}
	return uniform(numActions)
}

func uniform(n int) []float64 {
	v := make([]float64, n)
	p := 1.0 / float64(n)
	for i := range v {
		v[i] = p
	}
	return v
}

// distinctPermutations returns every distinct permutation of deck, treating
// equal ranks as indistinguishable so a two-suit Leduc deck like
// {1,2,3,1,2,3} yields 6!/(2!·2!·2!) = 90 permutations rather than 720.
func distinctPermutations(deck []int) [][]int {
	sorted := append([]int(nil), deck...)
	sort.Ints(sorted)

	used := make([]bool, len(sorted))
	cur := make([]int, 0, len(sorted))
	var out [][]int

	var backtrack func()
	backtrack = func() {
		if len(cur) == len(sorted) {
			out = append(out, append([]int(nil), cur...))
			return
		}
		for i := range sorted {
			if used[i] {
				continue
			}
			if i > 0 && sorted[i] == sorted[i-1] && !used[i-1] {
				continue
			}
			used[i] = true
			cur = append(cur, sorted[i])
			backtrack()
			cur = cur[:len(cur)-1]
			used[i] = false
		}
	}
	backtrack()
	return out
}
