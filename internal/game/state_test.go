package game

import (
	"testing"

	"github.com/lox/cfr-solver/internal/cards"
)

// leducDeck returns a fixed, non-shuffled deck: player 0 holds 1, player 1
// holds 2, the round-1 board card is 3.
func leducDeck() cards.Deck {
	return cards.Deck{1, 2, 3}
}

func TestState_CheckCheckShowdown(t *testing.T) {
	s := New(2, 2, leducDeck(), 1)
	s = s.Act("C")
	s = s.Act("C")
	if s.IsTerminal() {
		t.Fatalf("round 0 should not be terminal after a single check-check")
	}
	s = s.Act("C")
	s = s.Act("C")

	if !s.IsTerminal() {
		t.Fatalf("expected terminal after both rounds check through")
	}
	got := s.Payoff()
	want := []float64{-1, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("payoff = %v, want %v", got, want)
		}
	}
}

func TestState_RaiseReraiseFold(t *testing.T) {
	s := New(2, 2, leducDeck(), 1)
	s = s.Act("2R")
	if s.ValidActions()[0] != "C" || s.ValidActions()[1] != "F" {
		t.Fatalf("expected fixed action order C,F,[raise]; got %v", s.ValidActions())
	}
	s = s.Act("C")
	if s.Round() != 1 {
		t.Fatalf("expected round to advance after call, got round %d", s.Round())
	}
	s = s.Act("4R")
	s = s.Act("F")

	if !s.IsTerminal() {
		t.Fatalf("expected terminal after fold")
	}
	got := s.Payoff()
	want := []float64{3, -3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("payoff = %v, want %v", got, want)
		}
	}
}

func TestState_HoleCardReturnsOwnCardOnly(t *testing.T) {
	s := New(2, 2, leducDeck(), 1)
	if s.HoleCard(0) != 1 {
		t.Fatalf("expected player 0's hole card to be 1, got %d", s.HoleCard(0))
	}
	if s.HoleCard(1) != 2 {
		t.Fatalf("expected player 1's hole card to be 2, got %d", s.HoleCard(1))
	}
}

func TestState_InfoSetHidesOpponentCard(t *testing.T) {
	s := New(2, 2, leducDeck(), 1)
	key := s.InfoSet()
	if key != "1 | " {
		t.Fatalf("expected root info set to show only the acting player's hole card, got %q", key)
	}
}

func TestState_InfoSetRevealsBoardAfterRound0(t *testing.T) {
	s := New(2, 2, leducDeck(), 1)
	s = s.Act("C")
	s = s.Act("C")
	key := s.InfoSet()
	if key != "1 | 3 | CC|" {
		t.Fatalf("unexpected round-1 info set: %q", key)
	}
}

func TestState_ValidActionsShrinkAfterMaxRaises(t *testing.T) {
	s := New(2, 2, leducDeck(), 1)
	s = s.Act("2R")
	actions := s.ValidActions()
	if len(actions) != 2 {
		t.Fatalf("expected raise to be exhausted after maxRaises=1, got %v", actions)
	}
}

func TestState_PayoffPanicsOnNonTerminal(t *testing.T) {
	s := New(2, 2, leducDeck(), 1)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected Payoff to panic on a non-terminal state")
		}
	}()
	s.Payoff()
}

func TestState_PayoffIsZeroSum(t *testing.T) {
	s := New(2, 2, leducDeck(), 1)
	s = s.Act("C")
	s = s.Act("C")
	s = s.Act("C")
	s = s.Act("C")
	got := s.Payoff()
	sum := 0.0
	for _, v := range got {
		sum += v
	}
	if sum != 0 {
		t.Fatalf("expected zero-sum payoff, got sum %v from %v", sum, got)
	}
}
