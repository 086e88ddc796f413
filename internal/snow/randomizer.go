package snow

import "math/rand"

// Randomizer produces the bounded random values used for every particle
// attribute. It is not safe for concurrent use; a field's randomizer is only
// touched by the goroutine that owns the field's update ticks.
type Randomizer struct {
	rng *rand.Rand
}

// NewRandomizer returns a randomizer seeded with seed.
func NewRandomizer(seed int64) *Randomizer {
	return &Randomizer{rng: rand.New(rand.NewSource(seed))}
}

// IntRange returns a uniformly distributed integer in [min, max].
// Reversed bounds are swapped.
func (r *Randomizer) IntRange(min, max int) int {
	if min > max {
		min, max = max, min
	}
	return min + r.IntUpTo(max-min)
}

// IntUpTo returns a uniformly distributed integer in [0, max].
func (r *Randomizer) IntUpTo(max int) int {
	if max <= 0 {
		return 0
	}
	return r.rng.Intn(max + 1)
}

// Bool returns true or false with equal probability.
func (r *Randomizer) Bool() bool {
	return r.rng.Intn(2) == 1
}
