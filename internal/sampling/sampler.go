package sampling

import (
	"math/rand"

	"gosift/domain/filter"
)

// Sampler deterministically downsamples views that exceed the display cap.
// The fixed seed makes repeated sampling of the identical view reproduce
// the identical row set, which display consumers and tests both rely on.
type Sampler struct {
	cap  int
	seed int64
}

// NewSampler creates a sampler with the given cap and seed
func NewSampler(cap int, seed int64) *Sampler {
	return &Sampler{cap: cap, seed: seed}
}

// DefaultSampler returns a sampler with the stated policy defaults
func DefaultSampler() *Sampler {
	return NewSampler(5000, 42)
}

// Cap returns the row bound
func (s *Sampler) Cap() int {
	return s.cap
}

// Sample bounds a view for display-cost-sensitive consumers. A view within
// the cap is returned unchanged. A larger view yields exactly cap rows
// drawn without replacement; sampled row order is not meaningful.
func (s *Sampler) Sample(v *filter.View) *filter.View {
	rows := v.Rows()
	if len(rows) <= s.cap {
		return v
	}

	rng := rand.New(rand.NewSource(s.seed))
	for i := 0; i < s.cap; i++ {
		j := i + rng.Intn(len(rows)-i)
		rows[i], rows[j] = rows[j], rows[i]
	}
	return filter.NewView(v.Source(), rows[:s.cap])
}
