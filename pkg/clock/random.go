package clock

import (
	"math/rand"
	"time"
)

// Rand is the subset of *rand.Rand the schedulers need. Tests pass a seeded
// source so randomized timings are reproducible.
type Rand interface {
	Intn(n int) int
}

// NewRand returns a Rand seeded from seed. A zero seed uses the wall clock.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Between returns a value in [lo, hi). If hi <= lo it returns lo.
func Between(r Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo)
}

// Millis returns a random duration in [lo, hi) milliseconds.
func Millis(r Rand, lo, hi int) time.Duration {
	return time.Duration(Between(r, lo, hi)) * time.Millisecond
}
