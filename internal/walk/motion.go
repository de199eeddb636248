package walk

import "math"

// DefaultMinSpeed is the floor applied to sampled speeds so that step
// durations stay finite.
const DefaultMinSpeed = 1e-6

// MotionConfig holds the empirical locomotion parameters. Spreads are the
// standard deviations of the Gaussian draws.
type MotionConfig struct {
	MeanStepLength   float64 `json:"mean_step_length" yaml:"mean_step_length"`
	StepLengthSpread float64 `json:"step_length_spread" yaml:"step_length_spread"`
	MeanSpeed        float64 `json:"mean_speed" yaml:"mean_speed"`
	SpeedSpread      float64 `json:"speed_spread" yaml:"speed_spread"`
	// StillProbability is only consulted by the gated policy.
	StillProbability float64 `json:"still_probability" yaml:"still_probability"`
	MinSpeed         float64 `json:"min_speed" yaml:"min_speed"`
}

// DefaultMotion returns the C57BL/6J locomotion parameters (step length and
// speed mean/SEM) with a 0.7 probability of staying still.
func DefaultMotion() MotionConfig {
	return MotionConfig{
		MeanStepLength:   5.56,
		StepLengthSpread: 0.019,
		MeanSpeed:        25.5,
		SpeedSpread:      0.69,
		StillProbability: 0.7,
		MinSpeed:         DefaultMinSpeed,
	}
}

// Validate rejects parameters the engine cannot honor.
func (m MotionConfig) Validate() error {
	switch {
	case !(m.MeanStepLength > 0) || math.IsInf(m.MeanStepLength, 0):
		return configErr("motion.mean_step_length", "must be a positive finite length, got %v", m.MeanStepLength)
	case !(m.StepLengthSpread >= 0) || math.IsInf(m.StepLengthSpread, 0):
		return configErr("motion.step_length_spread", "must be non-negative, got %v", m.StepLengthSpread)
	case !(m.MeanSpeed > 0) || math.IsInf(m.MeanSpeed, 0):
		return configErr("motion.mean_speed", "must be a positive finite speed, got %v", m.MeanSpeed)
	case !(m.SpeedSpread >= 0) || math.IsInf(m.SpeedSpread, 0):
		return configErr("motion.speed_spread", "must be non-negative, got %v", m.SpeedSpread)
	case !(m.StillProbability >= 0 && m.StillProbability <= 1):
		return configErr("motion.still_probability", "must be within [0, 1], got %v", m.StillProbability)
	case m.MinSpeed < 0 || math.IsNaN(m.MinSpeed):
		return configErr("motion.min_speed", "must be non-negative, got %v", m.MinSpeed)
	}
	return nil
}

// speedFloor returns the configured clamp, falling back to DefaultMinSpeed.
func (m MotionConfig) speedFloor() float64 {
	if m.MinSpeed > 0 {
		return m.MinSpeed
	}
	return DefaultMinSpeed
}
