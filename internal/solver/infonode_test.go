package solver

import "testing"

func approxEqual(a, b, eps float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func TestInfoNode_RegretMatching(t *testing.T) {
	node := newInfoNode([]string{"A", "B", "C"})
	node.AddRegret(0, -5)
	node.AddRegret(1, 10)
	node.AddRegret(2, 3)

	got := node.GetStrategy()
	want := []float64{0, 10.0 / 13, 3.0 / 13}
	for i := range want {
		if !approxEqual(got[i], want[i], 1e-9) {
			t.Fatalf("strategy = %v, want %v", got, want)
		}
	}
}

func TestInfoNode_UniformWhenAllRegretsNonPositive(t *testing.T) {
	node := newInfoNode([]string{"A", "B", "C"})
	got := node.GetStrategy()
	for _, p := range got {
		if !approxEqual(p, 1.0/3, 1e-9) {
			t.Fatalf("expected uniform strategy, got %v", got)
		}
	}
}

func TestInfoNode_StrategyIdempotent(t *testing.T) {
	node := newInfoNode([]string{"A", "B"})
	node.AddRegret(0, 4)
	first := node.GetStrategy()
	second := node.GetStrategy()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("GetStrategy is not idempotent on an unchanged node: %v vs %v", first, second)
		}
	}
}

func TestInfoNode_AverageStrategyUniformWhenUnvisited(t *testing.T) {
	node := newInfoNode([]string{"A", "B"})
	got := node.GetAverageStrategy()
	if !approxEqual(got[0], 0.5, 1e-9) || !approxEqual(got[1], 0.5, 1e-9) {
		t.Fatalf("expected uniform average strategy, got %v", got)
	}
}

func TestTable_GetOrCreatePanicsOnActionMismatch(t *testing.T) {
	table := NewTable(2)
	table.GetOrCreate(0, "key", []string{"C", "F"})

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on validActions mismatch")
		}
	}()
	table.GetOrCreate(0, "key", []string{"C", "F", "2R"})
}

func TestTable_DiscountAll(t *testing.T) {
	table := NewTable(1)
	node := table.GetOrCreate(0, "key", []string{"C", "F"})
	node.AddRegret(0, 10)
	node.AddStrategySum(1, 4)

	table.DiscountAll(0.5)

	if node.RegretAt(0) != 5 {
		t.Fatalf("expected discounted regret 5, got %v", node.RegretAt(0))
	}
	avg := node.GetAverageStrategy()
	if !approxEqual(avg[1], 1.0, 1e-9) {
		t.Fatalf("expected strategySum ratio preserved after discount, got %v", avg)
	}
}
