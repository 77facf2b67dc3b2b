package solver

import (
	"context"
	"math"
	"testing"

	"github.com/lox/cfr-solver/internal/cards"
)

func TestDistinctPermutations_DedupesLeducDeck(t *testing.T) {
	perms := distinctPermutations(cards.NewLeducDeck())
	// 6! / (2! * 2! * 2!) = 90
	if len(perms) != 90 {
		t.Fatalf("expected 90 distinct permutations of the Leduc deck, got %d", len(perms))
	}
}

func TestDistinctPermutations_KuhnDeckHasNoDuplicates(t *testing.T) {
	perms := distinctPermutations(cards.NewKuhnDeck())
	if len(perms) != 6 {
		t.Fatalf("expected 3! = 6 permutations of the Kuhn deck, got %d", len(perms))
	}
}

func TestDriver_TrainDoesNotPanic(t *testing.T) {
	cfg := Config{
		NumPlayers:  2,
		TotalRounds: 2,
		MaxRaises:   1,
		Deck:        cards.NewLeducDeck(),
		Seed:        42,
	}
	d := NewDriver(cfg, nil)
	d.Train(500)

	if d.Iteration() != 500 {
		t.Fatalf("expected iteration counter to reach 500, got %d", d.Iteration())
	}
	if d.Table().Size() == 0 {
		t.Fatalf("expected training to populate the node table")
	}
}

func TestDriver_ExpectedUtilityIsApproximatelyZeroSum(t *testing.T) {
	cfg := Config{
		NumPlayers:  2,
		TotalRounds: 2,
		MaxRaises:   1,
		Deck:        cards.NewLeducDeck(),
		Seed:        7,
	}
	d := NewDriver(cfg, nil)
	d.Train(1000)

	util, err := d.ExpectedUtility(context.Background())
	if err != nil {
		t.Fatalf("ExpectedUtility returned error: %v", err)
	}
	sum := util[0] + util[1]
	if !approxEqual(sum, 0, 0.05) {
		t.Fatalf("expected approximately zero-sum expected utility, got %v (sum %v)", util, sum)
	}
}

func TestDriver_BestResponseIsFinite(t *testing.T) {
	cfg := Config{
		NumPlayers:  2,
		TotalRounds: 2,
		MaxRaises:   1,
		Deck:        cards.NewLeducDeck(),
		Seed:        11,
	}
	d := NewDriver(cfg, nil)
	d.Train(500)

	br := d.BestResponse(0)
	if math.IsNaN(br) || math.IsInf(br, 0) {
		t.Fatalf("expected finite best-response value, got %v", br)
	}
}
