package game

import (
	"fmt"
	"strings"

	"github.com/lox/cfr-solver/internal/cards"
)

// KuhnState is the minimal two-player, single-round, single-bet-size game
// used by the vanilla CFR engine. Unlike the general Leduc State, Kuhn has no
// separate fold token: "P" (pass) means check when nothing is owed and fold
// when facing a bet, exactly as in the original reduced game.
type KuhnState struct {
	deck    cards.Deck
	bets    []int
	turn    int
	in      []bool
	history []string
}

// NewKuhn constructs the root Kuhn state: both players ante 1, player 0 acts
// first with no history.
func NewKuhn(deck cards.Deck) *KuhnState {
	return &KuhnState{
		deck:    deck,
		bets:    []int{1, 1},
		turn:    0,
		in:      []bool{true, true},
		history: nil,
	}
}

// Act returns the successor reached by taking "P" (pass) or "B" (bet/call).
func (s *KuhnState) Act(action string) *KuhnState {
	next := &KuhnState{
		deck:    s.deck,
		bets:    append([]int(nil), s.bets...),
		turn:    s.turn,
		in:      append([]bool(nil), s.in...),
		history: append([]string(nil), s.history...),
	}

	var last string
	if len(next.history) > 0 {
		last = next.history[len(next.history)-1]
	}
	next.history = append(next.history, action)

	switch action {
	case "P":
		if last == "B" {
			next.in[next.turn] = false
		}
	case "B":
		next.bets[next.turn]++
	default:
		panic(fmt.Sprintf("game: unrecognized Kuhn action %q", action))
	}

	next.turn = (next.turn + 1) % 2
	return next
}

// InfoSet returns the acting player's hole card and the action history so
// far; Kuhn has no board card.
func (s *KuhnState) InfoSet() string {
	return fmt.Sprintf("%d | %s", s.deck[s.turn], strings.Join(s.history, ""))
}

// IsTerminal reports whether the hand has concluded: a fold, or both players
// having acted with bets matched.
func (s *KuhnState) IsTerminal() bool {
	if !s.in[0] || !s.in[1] {
		return true
	}
	return len(s.history) >= 2 && s.bets[0] == s.bets[1]
}

// ValidActions returns the two Kuhn actions, always both legal at a
// non-terminal node.
func (s *KuhnState) ValidActions() []string {
	return []string{"P", "B"}
}

// Payoff returns the zero-sum payoff vector for a terminal Kuhn state.
func (s *KuhnState) Payoff() []float64 {
	if !s.IsTerminal() {
		panic("game: Payoff called on non-terminal KuhnState")
	}

	pot := s.bets[0] + s.bets[1]
	payoff := []float64{-float64(s.bets[0]), -float64(s.bets[1])}

	winner := 0
	switch {
	case !s.in[0]:
		winner = 1
	case !s.in[1]:
		winner = 0
	case s.deck[0] > s.deck[1]:
		winner = 0
	default:
		winner = 1
	}
	payoff[winner] += float64(pot)
	return payoff
}

// Turn returns the index of the player to act.
func (s *KuhnState) Turn() int { return s.turn }
