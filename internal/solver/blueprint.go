package solver

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/lox/cfr-solver/internal/fileutil"
)

const blueprintFileVersion = 1

// nodeRecord is the persisted form of a single InfoNode: its fixed action
// set plus the two accumulators, positional against it.
type nodeRecord struct {
	ValidActions []string  `json:"valid_actions"`
	RegretSum    []float64 `json:"regret_sum"`
	StrategySum  []float64 `json:"strategy_sum"`
}

// Blueprint is the serializable pair (mNodeMap, mValidActionsMap) from spec:
// every player's information-set table, with validActions carried alongside
// each node rather than recovered by replaying states.
type Blueprint struct {
	Version    int                           `json:"version"`
	NumPlayers int                           `json:"num_players"`
	Iteration  int                           `json:"iteration"`
	Nodes      map[int]map[string]nodeRecord `json:"nodes"`
}

// NewBlueprint snapshots a Driver's node table into a persistable Blueprint.
func NewBlueprint(d *Driver) *Blueprint {
	bp := &Blueprint{
		Version:    blueprintFileVersion,
		NumPlayers: d.cfg.NumPlayers,
		Iteration:  d.iteration,
		Nodes:      make(map[int]map[string]nodeRecord),
	}
	for player, entries := range d.table.Entries() {
		records := make(map[string]nodeRecord, len(entries))
		for key, node := range entries {
			node.mu.Lock()
			records[key] = nodeRecord{
				ValidActions: append([]string(nil), node.validActions...),
				RegretSum:    append([]float64(nil), node.regretSum...),
				StrategySum:  append([]float64(nil), node.strategySum...),
			}
			node.mu.Unlock()
		}
		bp.Nodes[player] = records
	}
	return bp
}

// Save atomically writes the blueprint to path as JSON, so a crash mid-write
// never leaves a corrupt file in place of a previously good one.
func (b *Blueprint) Save(path string) error {
	if b == nil {
		return errors.New("solver: nil blueprint")
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("solver: encode blueprint: %w", err)
	}
	return fileutil.WriteFileAtomic(path, data, 0o644)
}

// LoadBlueprint reads and validates a blueprint previously written by Save.
func LoadBlueprint(path string) (*Blueprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var bp Blueprint
	if err := json.Unmarshal(data, &bp); err != nil {
		return nil, fmt.Errorf("solver: decode blueprint: %w", err)
	}
	if bp.Version != blueprintFileVersion {
		return nil, fmt.Errorf("solver: unsupported blueprint version %d", bp.Version)
	}
	return &bp, nil
}

// RestoreTable rebuilds a node Table from the blueprint's persisted
// accumulators, exactly as they were at save time.
func (b *Blueprint) RestoreTable() *Table {
	table := NewTable(b.NumPlayers)
	for player, records := range b.Nodes {
		for key, rec := range records {
			table.Restore(player, key, rec.ValidActions, rec.RegretSum, rec.StrategySum)
		}
	}
	return table
}

// Strategy returns the persisted average strategy for (player, key), if any.
func (b *Blueprint) Strategy(player int, key string) ([]float64, bool) {
	records, ok := b.Nodes[player]
	if !ok {
		return nil, false
	}
	rec, ok := records[key]
	if !ok {
		return nil, false
	}
	total := 0.0
	for _, s := range rec.StrategySum {
		total += s
	}
	if total <= 0 {
		return uniform(len(rec.ValidActions)), true
	}
	avg := make([]float64, len(rec.StrategySum))
	for i, s := range rec.StrategySum {
		avg[i] = s / total
	}
	return avg, true
}
