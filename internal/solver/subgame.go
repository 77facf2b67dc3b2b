package solver

import (
	"math/rand/v2"

	"github.com/lox/cfr-solver/internal/game"
)

// SubgameSolve behaves like MCCFR except that any node whose information set
// is a key in frozen is not read from or written to: the solver simply
// recurses into the already-chosen frozen action, regardless of whose turn
// it is. This lets a driver re-solve everything downstream of the realized
// path of an actual hand in progress without disturbing the blueprint's
// regret for actions that have already happened.
func SubgameSolve(state *game.State, traversingPlayer int, prune bool, table *Table, rng *rand.Rand, frozen map[string]string, regretMin float64) []float64 {
	if state.IsTerminal() {
		return state.Payoff()
	}

	key := state.InfoSet()
	if action, ok := frozen[key]; ok {
		return SubgameSolve(state.Act(action), traversingPlayer, prune, table, rng, frozen, regretMin)
	}

	c := state.Turn()
	actions := state.ValidActions()
	node := table.GetOrCreate(c, key, actions)
	sigma := node.GetStrategy()

	if c != traversingPlayer {
		a := sampleIndex(sigma, rng)
		return SubgameSolve(state.Act(actions[a]), traversingPlayer, prune, table, rng, frozen, regretMin)
	}

	nodeUtil := make([]float64, state.NumPlayers())
	utilities := make([]float64, len(actions))
	explored := make([]bool, len(actions))

	for a, action := range actions {
		if prune && node.RegretAt(a) <= regretMin {
			continue
		}
		explored[a] = true
		u := SubgameSolve(state.Act(action), traversingPlayer, prune, table, rng, frozen, regretMin)
		utilities[a] = u[c]
		for i := range nodeUtil {
			nodeUtil[i] += u[i] * sigma[a]
		}
	}

	for a := range actions {
		if !explored[a] {
			continue
		}
		node.AddRegret(a, utilities[a]-nodeUtil[c])
	}

	return nodeUtil
}

// SubgameUpdate is the frozen-aware variant of UpdateStrategy.
func SubgameUpdate(state *game.State, traversingPlayer int, table *Table, rng *rand.Rand, frozen map[string]string) {
	if state.IsTerminal() {
		return
	}

	key := state.InfoSet()
	if action, ok := frozen[key]; ok {
		SubgameUpdate(state.Act(action), traversingPlayer, table, rng, frozen)
		return
	}

	c := state.Turn()
	actions := state.ValidActions()
	node := table.GetOrCreate(c, key, actions)

	if c == traversingPlayer {
		sigma := node.GetStrategy()
		a := sampleIndex(sigma, rng)
		node.AddStrategySum(a, 1)
		SubgameUpdate(state.Act(actions[a]), traversingPlayer, table, rng, frozen)
		return
	}

	for _, action := range actions {
		SubgameUpdate(state.Act(action), traversingPlayer, table, rng, frozen)
	}
}

// Search re-solves the subgame below the realized path recorded in frozen,
// running the same loop as Train but through SubgameSolve/SubgameUpdate.
func (d *Driver) Search(iterations int, frozen map[string]string) {
	for i := 1; i <= iterations; i++ {
		deck := d.cfg.Deck.Clone()
		deck.Shuffle(d.deckRNG)
		root := game.New(d.cfg.NumPlayers, d.cfg.TotalRounds, deck, d.cfg.MaxRaises)

		for player := 0; player < d.cfg.NumPlayers; player++ {
			if i%d.cfg.StrategyInterval == 0 {
				SubgameUpdate(root, player, d.table, d.actionRNG, frozen)
			}
			if i > d.cfg.PruneThreshold {
				if d.actionRNG.Float64() < unprunedFraction {
					SubgameSolve(root, player, false, d.table, d.actionRNG, frozen, d.cfg.RegretMin)
				} else {
					SubgameSolve(root, player, true, d.table, d.actionRNG, frozen, d.cfg.RegretMin)
				}
			} else {
				SubgameSolve(root, player, false, d.table, d.actionRNG, frozen, d.cfg.RegretMin)
			}
		}

		if i < d.cfg.LinearCFRCutoff && i%d.cfg.DiscountInterval == 0 {
			t := i / d.cfg.DiscountInterval
			d.table.DiscountAll(float64(t) / float64(t+1))
		}
	}
}
