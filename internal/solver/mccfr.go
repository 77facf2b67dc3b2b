package solver

import (
	"math/rand/v2"

	"github.com/lox/cfr-solver/internal/game"
)

// unprunedFraction is the share of post-threshold iterations that still
// traverse every branch unpruned, keeping long-dormant regrets from being
// permanently locked out. Not config-driven: it tunes how pruning itself
// behaves rather than describing the game or training schedule.
const unprunedFraction = 0.05

// sampleIndex draws an index from a discrete distribution sigma using rng.
// Ties in floating-point rounding fall through to the last action, matching
// the usual cumulative-sampling idiom.
func sampleIndex(sigma []float64, rng *rand.Rand) int {
	target := rng.Float64()
	cumulative := 0.0
	for i, p := range sigma {
		cumulative += p
		if target < cumulative {
			return i
		}
	}
	return len(sigma) - 1
}

// MCCFR runs external-sampling MCCFR from state on behalf of traversingPlayer.
// The traversing player's node branches over every legal action (or, when
// prune is true, every action whose regret exceeds regretMin); every other
// player's node samples a single action from the current strategy and
// recurses without any regret or strategy-sum update.
func MCCFR(state *game.State, traversingPlayer int, prune bool, table *Table, rng *rand.Rand, regretMin float64) []float64 {
	if state.IsTerminal() {
		return state.Payoff()
	}

	c := state.Turn()
	key := state.InfoSet()
	actions := state.ValidActions()
	node := table.GetOrCreate(c, key, actions)
	sigma := node.GetStrategy()

	if c != traversingPlayer {
		a := sampleIndex(sigma, rng)
		return MCCFR(state.Act(actions[a]), traversingPlayer, prune, table, rng, regretMin)
	}

	nodeUtil := make([]float64, state.NumPlayers())
	utilities := make([]float64, len(actions))
	explored := make([]bool, len(actions))

	for a, action := range actions {
		if prune && node.RegretAt(a) <= regretMin {
			continue
		}
		explored[a] = true
		u := MCCFR(state.Act(action), traversingPlayer, prune, table, rng, regretMin)
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

// UpdateStrategy performs the separate strategy-sum accumulation pass: at the
// traversing player's node it samples one action and increments that
// action's strategySum, then recurses only into it. At every other node it
// recurses into all legal actions without accumulating.
func UpdateStrategy(state *game.State, traversingPlayer int, table *Table, rng *rand.Rand) {
	if state.IsTerminal() {
		return
	}

	c := state.Turn()
	key := state.InfoSet()
	actions := state.ValidActions()
	node := table.GetOrCreate(c, key, actions)

	if c == traversingPlayer {
		sigma := node.GetStrategy()
		a := sampleIndex(sigma, rng)
		node.AddStrategySum(a, 1)
		UpdateStrategy(state.Act(actions[a]), traversingPlayer, table, rng)
		return
	}

	for _, action := range actions {
		UpdateStrategy(state.Act(action), traversingPlayer, table, rng)
	}
}
