package walk

import (
	"math"
	"math/rand"
)

// Sampler draws the per-step random quantities. It owns its random source so
// independent engines never share state and a seed replays a run exactly.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler creates a sampler backed by a source seeded with seed.
func NewSampler(seed int64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// SampleStep draws stepLength ~ N(MeanStepLength, StepLengthSpread) and
// speed ~ N(MeanSpeed, SpeedSpread) independently. Values are returned raw;
// clamping is the engine's concern.
func (s *Sampler) SampleStep(m MotionConfig) (stepLength, speed float64) {
	stepLength = sampleGaussian(s.rng, m.MeanStepLength, m.StepLengthSpread)
	speed = sampleGaussian(s.rng, m.MeanSpeed, m.SpeedSpread)
	return stepLength, speed
}

// Heading draws a direction uniformly from [0, 2π).
func (s *Sampler) Heading() float64 {
	return s.rng.Float64() * 2 * math.Pi
}

// Gate draws the uniform [0, 1) value compared against the still probability.
func (s *Sampler) Gate() float64 {
	return s.rng.Float64()
}

func sampleGaussian(rng *rand.Rand, mean, stdDev float64) float64 {
	return mean + rng.NormFloat64()*stdDev
}
