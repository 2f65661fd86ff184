package curator

import "math/rand"

// DefaultSampleRate is the probability that a successfully scored event is
// pulled aside for coarse human review (0.5%).
const DefaultSampleRate = 0.005

// Sampler decides, independently per call, whether an interaction should
// become a strategic_sample review item.
type Sampler struct {
	rate float64
	rng  *rand.Rand
}

// NewSampler creates a sampler with the given rate. A nil rng uses the
// shared math/rand source; tests inject a seeded one.
func NewSampler(rate float64, rng *rand.Rand) *Sampler {
	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}
	return &Sampler{rate: rate, rng: rng}
}

// ShouldSample returns true with probability equal to the configured rate.
func (s *Sampler) ShouldSample() bool {
	if s == nil || s.rate == 0 {
		return false
	}
	if s.rng != nil {
		return s.rng.Float64() < s.rate
	}
	return rand.Float64() < s.rate
}

// Rate returns the configured sample rate.
func (s *Sampler) Rate() float64 {
	if s == nil {
		return 0
	}
	return s.rate
}
