package solver

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/lox/cfr-solver/internal/cards"
)

func TestBlueprint_RoundTripsAverageStrategy(t *testing.T) {
	cfg := Config{
		NumPlayers:  2,
		TotalRounds: 2,
		MaxRaises:   1,
		Deck:        cards.NewLeducDeck(),
		Seed:        21,
	}
	d := NewDriver(cfg, nil)
	d.Train(1000)

	before := map[string][]float64{}
	for player, entries := range d.Table().Entries() {
		for key, node := range entries {
			before[fmt.Sprintf("%d|%s", player, key)] = node.GetAverageStrategy()
		}
	}

	bp := NewBlueprint(d)
	path := filepath.Join(t.TempDir(), "blueprint")
	if err := bp.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadBlueprint(path)
	if err != nil {
		t.Fatalf("LoadBlueprint failed: %v", err)
	}
	table := loaded.RestoreTable()

	for player, entries := range d.Table().Entries() {
		for key := range entries {
			want := before[fmt.Sprintf("%d|%s", player, key)]
			node, ok := table.Lookup(player, key)
			if !ok {
				t.Fatalf("restored table missing node %d/%q", player, key)
			}
			got := node.GetAverageStrategy()
			for i := range want {
				if !approxEqual(got[i], want[i], 1e-9) {
					t.Fatalf("average strategy mismatch for %d/%q: got %v, want %v", player, key, got, want)
				}
			}
		}
	}
}
