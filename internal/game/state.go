// Package game implements the Leduc-style poker state machine: an immutable
// snapshot of a hand in progress, with successor construction, information-set
// keys, terminality, payoffs, and legal actions. It is the Game State
// component the CFR/MCCFR engines traverse.
package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/cfr-solver/internal/cards"
)

// State is an immutable snapshot of a Leduc hand. Successor construction
// clones the receiver; callers never mutate a State in place.
type State struct {
	numPlayers  int
	totalRounds int
	maxRaises   int
	deck        cards.Deck
	bets        []int
	turn        int
	round       int
	raisesSoFar int
	in          []bool
	history     [][]string
}

// New constructs the root state of a hand: all players ante 1, player 0 acts
// first in round 0 with an empty history.
func New(numPlayers, totalRounds int, deck cards.Deck, maxRaises int) *State {
	bets := make([]int, numPlayers)
	in := make([]bool, numPlayers)
	for i := range bets {
		bets[i] = 1
		in[i] = true
	}
	history := make([][]string, totalRounds)
	for r := range history {
		history[r] = nil
	}
	return &State{
		numPlayers:  numPlayers,
		totalRounds: totalRounds,
		maxRaises:   maxRaises,
		deck:        deck,
		bets:        bets,
		turn:        0,
		round:       0,
		raisesSoFar: 0,
		in:          in,
		history:     history,
	}
}

// raiseIncrement returns the fixed raise size for the current round: 2 in
// round 0, 4 in every round after.
func (s *State) raiseIncrement() int {
	if s.round == 0 {
		return 2
	}
	return 4
}

func maxInt(xs []int) int {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

// allCalledOrFolded reports whether every active player has matched the
// current maximum bet.
func (s *State) allCalledOrFolded() bool {
	max := maxInt(s.bets)
	for i, active := range s.in {
		if active && s.bets[i] < max {
			return false
		}
	}
	return true
}

func (s *State) activeCount() int {
	n := 0
	for _, active := range s.in {
		if active {
			n++
		}
	}
	return n
}

// Act returns the successor state reached by taking action from s. action is
// one of "C" (call/check), "F" (fold), or "kR" for the round's raise
// increment (e.g. "2R" in round 0, "4R" afterward).
func (s *State) Act(action string) *State {
	next := &State{
		numPlayers:  s.numPlayers,
		totalRounds: s.totalRounds,
		maxRaises:   s.maxRaises,
		deck:        s.deck,
		bets:        append([]int(nil), s.bets...),
		turn:        s.turn,
		round:       s.round,
		raisesSoFar: s.raisesSoFar,
		in:          append([]bool(nil), s.in...),
		history:     cloneHistory(s.history),
	}

	var lastAction string
	if round := next.history[next.round]; len(round) > 0 {
		lastAction = round[len(round)-1]
	}
	next.history[next.round] = append(next.history[next.round], action)

	switch {
	case action == "F":
		next.in[next.turn] = false
	case strings.HasSuffix(action, "R"):
		k, err := strconv.Atoi(strings.TrimSuffix(action, "R"))
		if err != nil {
			panic(fmt.Sprintf("game: malformed raise action %q", action))
		}
		next.bets[next.turn] = maxInt(next.bets) + k
		next.raisesSoFar++
	case action == "C":
		if strings.HasSuffix(lastAction, "R") {
			next.bets[next.turn] = maxInt(next.bets)
		}
		// Otherwise a check with no preceding raise: bets unchanged.
	default:
		panic(fmt.Sprintf("game: unrecognized action %q", action))
	}

	next.turn = (next.turn + 1) % next.numPlayers

	minActions := next.activeCount()
	actionsInRound := len(next.history[next.round])
	if minActions <= actionsInRound && next.allCalledOrFolded() {
		next.round++
		next.raisesSoFar = 0
	}

	return next
}

func cloneHistory(h [][]string) [][]string {
	out := make([][]string, len(h))
	for i, round := range h {
		out[i] = append([]string(nil), round...)
	}
	return out
}

// InfoSet returns the information-set key visible to the acting player:
// their hole card, the board card once round > 0, and the full action
// history. It never reveals opponents' hole cards.
func (s *State) InfoSet() string {
	player := s.turn
	holeCard := s.deck[player]

	var b strings.Builder
	fmt.Fprintf(&b, "%d | ", holeCard)
	if s.round > 0 {
		fmt.Fprintf(&b, "%d | ", s.deck[s.numPlayers])
	}
	for _, chunk := range s.history {
		if len(chunk) == 0 {
			continue
		}
		for _, piece := range chunk {
			b.WriteString(piece)
		}
		b.WriteByte('|')
	}
	return b.String()
}

// IsTerminal reports whether the hand has concluded: either exactly one
// player remains active, or the final betting round has closed.
func (s *State) IsTerminal() bool {
	if s.activeCount() == 1 {
		return true
	}
	if s.round < s.totalRounds {
		return false
	}
	lastRound := s.history[s.totalRounds-1]
	minActions := s.activeCount()
	return minActions <= len(lastRound) && s.allCalledOrFolded()
}

// ValidActions returns the legal action labels at this state, in the fixed
// order (call/check, fold, raise) required for info-set key stability.
// Engines must never call ValidActions on a terminal state.
func (s *State) ValidActions() []string {
	actions := []string{"C", "F"}
	if s.raisesSoFar < s.maxRaises {
		actions = append(actions, fmt.Sprintf("%dR", s.raiseIncrement()))
	}
	return actions
}

// Payoff returns the zero-sum payoff vector for a terminal state. It panics
// if called on a non-terminal state: requesting a payoff before the hand
// has concluded is an invariant violation, not a recoverable error.
func (s *State) Payoff() []float64 {
	if !s.IsTerminal() {
		panic("game: Payoff called on non-terminal state")
	}

	var winners []int
	if s.activeCount() == 1 {
		for i, active := range s.in {
			if active {
				winners = []int{i}
				break
			}
		}
	} else {
		winners = s.showdownWinners()
	}

	pot := 0
	for _, b := range s.bets {
		pot += b
	}
	share := float64(pot) / float64(len(winners))

	payoff := make([]float64, s.numPlayers)
	for i, b := range s.bets {
		payoff[i] = -float64(b)
	}
	for _, w := range winners {
		payoff[w] += share
	}
	return payoff
}

// showdownWinners scores every active player's hole card against the board
// card and returns the (possibly tied) set of argmax indices. A pocket pair
// with the board (hole == board) scores 5*4+board; otherwise the score is
// 4*max(hole,board)+min(hole,board).
func (s *State) showdownWinners() []int {
	board := s.deck[s.numPlayers]
	scores := make([]int, s.numPlayers)
	for i := 0; i < s.numPlayers; i++ {
		hole := s.deck[i]
		if hole == board {
			scores[i] = 5*4 + board
			continue
		}
		hi, lo := hole, board
		if lo > hi {
			hi, lo = lo, hi
		}
		scores[i] = 4*hi + lo
	}

	best := -1
	var winners []int
	for i, active := range s.in {
		if !active {
			continue
		}
		switch {
		case scores[i] > best:
			best = scores[i]
			winners = []int{i}
		case scores[i] == best:
			winners = append(winners, i)
		}
	}
	return winners
}

// Turn returns the index of the player to act.
func (s *State) Turn() int { return s.turn }

// Round returns the current betting round.
func (s *State) Round() int { return s.round }

// NumPlayers returns the number of players in the hand.
func (s *State) NumPlayers() int { return s.numPlayers }

// Bets returns a copy of the current per-player bet amounts.
func (s *State) Bets() []int { return append([]int(nil), s.bets...) }

// Active reports whether player i has not folded.
func (s *State) Active(i int) bool { return s.in[i] }

// HoleCard returns player's own hole card. Callers must never use this to
// inspect another player's card — the whole point of InfoSet is that only
// the acting player's own hole card is visible to them.
func (s *State) HoleCard(player int) int { return s.deck[player] }
