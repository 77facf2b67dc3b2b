// Package fastrng provides a small, fast PCG32 generator for the
// high-frequency action-sampling draws MCCFR performs, kept independent from
// the deck-shuffle stream in internal/randutil so the two never interfere.
package fastrng

import rand "math/rand/v2"

// PCG32 is PCG-XSH-RR with 64-bit state and 32-bit output.
type PCG32 struct {
	state uint64
}

// NewPCG32 creates a new PCG32 RNG with the given seed.
func NewPCG32(seed int64) *PCG32 {
	return &PCG32{state: uint64(seed)*2 + 1}
}

// InitSeed reinitializes with a new seed, avoiding an allocation.
func (r *PCG32) InitSeed(seed int64) {
	r.state = uint64(seed)*2 + 1
}

// Uint32 generates a random uint32.
func (r *PCG32) Uint32() uint32 {
	oldstate := r.state
	r.state = oldstate*6364136223846793005 + 1442695040888963407
	xorshifted := uint32(((oldstate >> 18) ^ oldstate) >> 27)
	rot := uint32(oldstate >> 59)
	return (xorshifted >> rot) | (xorshifted << ((-rot) & 31))
}

// IntN returns a random int in [0, n).
func (r *PCG32) IntN(n int) int {
	return int(r.Uint32() % uint32(n))
}

// wrapperSource adapts PCG32 to the math/rand/v2 Source interface.
type wrapperSource struct {
	rng *PCG32
}

func (w *wrapperSource) Uint64() uint64 {
	hi := uint64(w.rng.Uint32())
	lo := uint64(w.rng.Uint32())
	return hi<<32 | lo
}

// New returns a *rand.Rand backed by PCG32, for callers that want the
// standard Rand API (Float64, IntN, ...) over the action-sampling stream.
func New(seed int64) *rand.Rand {
	return rand.New(&wrapperSource{rng: NewPCG32(seed)})
}
