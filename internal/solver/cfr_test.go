package solver

import (
	"testing"

	"github.com/lox/cfr-solver/internal/game"
)

func TestCFR_TerminalReturnsPayoffDirectly(t *testing.T) {
	s := game.NewKuhn(cards1())
	s = s.Act("P")
	s = s.Act("P")

	table := NewTable(2)
	got := CFR(s, []float64{1, 1}, table)
	want := s.Payoff()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("terminal CFR utility = %v, want %v", got, want)
		}
	}
}

func TestCFR_ProducesZeroSumUtility(t *testing.T) {
	table := NewTable(2)
	root := game.NewKuhn(cards1())
	got := CFR(root, []float64{1, 1}, table)
	sum := got[0] + got[1]
	if !approxEqual(sum, 0, 1e-9) {
		t.Fatalf("expected zero-sum root utility, got %v (sum %v)", got, sum)
	}
}

func TestCFR_ConvergesTowardKuhnGameValue(t *testing.T) {
	table := NewTable(2)
	deck := cards1()
	deals := permute(deck)
	for i := 1; i <= 20000; i++ {
		for _, deal := range deals {
			CFR(game.NewKuhn(deal), []float64{1, 1}, table)
		}
	}

	util := expectedKuhnUtility(table, deck)
	// The known game value for player 0 is -1/18.
	if !approxEqual(util, -1.0/18.0, 0.02) {
		t.Fatalf("expected utility near -1/18, got %v", util)
	}
}

// cards1 returns an unshuffled Kuhn deck; enumerating its permutations, both
// in training and in expectedKuhnUtility, supplies the chance distribution
// over deals.
func cards1() gameDeck { return gameDeck{1, 2, 3} }

type gameDeck = []int

// expectedKuhnUtility averages player 0's utility, under the trained average
// strategy, over every deal of the 3-card Kuhn deck.
func expectedKuhnUtility(table *Table, deck []int) float64 {
	perms := permute(deck)
	total := 0.0
	for _, p := range perms {
		root := game.NewKuhn(p)
		u := traverseKuhnAverage(root, table)
		total += u[0]
	}
	return total / float64(len(perms))
}

func traverseKuhnAverage(s *game.KuhnState, table *Table) []float64 {
	if s.IsTerminal() {
		return s.Payoff()
	}
	p := s.Turn()
	actions := s.ValidActions()
	node, ok := table.Lookup(p, s.InfoSet())
	var sigma []float64
	if ok {
		sigma = node.GetAverageStrategy()
	} else {
		sigma = make([]float64, len(actions))
		for i := range sigma {
			sigma[i] = 1.0 / float64(len(actions))
		}
	}

	util := make([]float64, 2)
	for a, action := range actions {
		u := traverseKuhnAverage(s.Act(action), table)
		for i := range util {
			util[i] += u[i] * sigma[a]
		}
	}
	return util
}

func permute(deck []int) [][]int {
	if len(deck) <= 1 {
		return [][]int{append([]int(nil), deck...)}
	}
	var out [][]int
	for i := range deck {
		rest := make([]int, 0, len(deck)-1)
		rest = append(rest, deck[:i]...)
		rest = append(rest, deck[i+1:]...)
		for _, p := range permute(rest) {
			out = append(out, append([]int{deck[i]}, p...))
		}
	}
	return out
}
