package solver

import "github.com/lox/cfr-solver/internal/game"

// CFR runs vanilla external-regret CFR from state, given the reach
// probability of every player reaching state. It returns the utility vector
// for state under the current strategy profile, and updates regretSum and
// strategySum in table as a side effect.
//
// This is the two-player Kuhn configuration: it operates on the reduced
// KuhnState rather than the general raise-aware Leduc State.
func CFR(state *game.KuhnState, reach []float64, table *Table) []float64 {
	if state.IsTerminal() {
		return state.Payoff()
	}

	p := state.Turn()
	key := state.InfoSet()
	actions := state.ValidActions()
	node := table.GetOrCreate(p, key, actions)

	sigma := node.GetStrategy()
	for a := range actions {
		node.AddStrategySum(a, sigma[a]*reach[p])
	}

	nodeUtil := make([]float64, len(reach))
	utilities := make([]float64, len(actions))
	for a, action := range actions {
		childReach := append([]float64(nil), reach...)
		childReach[p] *= sigma[a]
		u := CFR(state.Act(action), childReach, table)
		utilities[a] = u[p]
		for i := range nodeUtil {
			nodeUtil[i] += u[i] * sigma[a]
		}
	}

	opponentReach := 1.0
	for i, r := range reach {
		if i != p {
			opponentReach *= r
		}
	}
	for a := range actions {
		node.AddRegret(a, (utilities[a]-nodeUtil[p])*opponentReach)
	}

	return nodeUtil
}
