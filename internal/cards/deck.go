// Package cards implements the small, fixed-composition deck used by the
// Leduc/Kuhn game abstractions: a handful of integer ranks, duplicated once
// per suit, with no suit information retained (Leduc hands never key off
// suit).
package cards

import "math/rand/v2"

// Deck is an ordered sequence of integer ranks. For Leduc the canonical deck
// is {1,2,3,1,2,3}; for Kuhn it is {1,2,3}. Positions [0..numPlayers) are
// dealt as hole cards, position [numPlayers] (if present) is the board card
// revealed at round 1.
type Deck []int

// NewLeducDeck returns the canonical two-suit, three-rank Leduc deck.
func NewLeducDeck() Deck {
	return Deck{1, 2, 3, 1, 2, 3}
}

// NewKuhnDeck returns the canonical three-card Kuhn deck.
func NewKuhnDeck() Deck {
	return Deck{1, 2, 3}
}

// Shuffle permutes the deck in place using Fisher-Yates, drawing from rng.
// Callers own the RNG so that deck shuffling and action sampling can use
// independent, separately-seeded streams (see internal/randutil).
func (d Deck) Shuffle(rng *rand.Rand) {
	for i := len(d) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d[i], d[j] = d[j], d[i]
	}
}

// Clone returns a copy of the deck, safe to shuffle independently of the
// original.
func (d Deck) Clone() Deck {
	out := make(Deck, len(d))
	copy(out, d)
	return out
}
