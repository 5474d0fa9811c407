package subscription

import "math/rand"

// newCounterSeededGenerator returns a closure producing pseudo-random
// non-negative ints (callers reduce them to six digits), seeded from seed
// (the registry size at call time).
// This mirrors the source's std::mt19937 seeded from knownSubscriptions's
// size: deterministic given the same sequence of registrations, and more
// collision-prone the more subscriptions already exist. See DESIGN.md for
// why this is kept rather than swapped for a collision-resistant generator.
func newCounterSeededGenerator(seed int) func() int {
	r := rand.New(rand.NewSource(int64(seed)))
	return func() int {
		return r.Int()
	}
}
