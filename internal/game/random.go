package game

import (
	"golang.org/x/exp/rand"
)

// RandomSource supplies every random decision the engine makes.
// Tests inject scripted sources to make scenarios deterministic.
type RandomSource interface {
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
	// Intn returns a value in [0, n). n must be positive.
	Intn(n int) int
	// IntRange returns a value in [lo, hi], both inclusive.
	IntRange(lo, hi int) int
}

// Choose returns a uniformly chosen element of items. items must not be empty.
func Choose[T any](rng RandomSource, items []T) T {
	return items[rng.Intn(len(items))]
}

// Random is the seedable RandomSource used outside tests.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a random source from a seed.
func NewRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

// Float64 returns a value in [0.0, 1.0).
func (r *Random) Float64() float64 {
	return r.rng.Float64()
}

// Intn returns a value in [0, n).
func (r *Random) Intn(n int) int {
	return r.rng.Intn(n)
}

// IntRange returns a value in [lo, hi].
func (r *Random) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.rng.Intn(hi-lo+1)
}
