package walk

// Variant names a movement policy.
type Variant string

const (
	// VariantContinuous displaces the agent on every step (the plot walker).
	VariantContinuous Variant = "continuous"
	// VariantGated freezes the agent on a step with probability StillProbability (the video walker).
	VariantGated Variant = "gated"
)

// draw holds the random quantities sampled at the start of every tick.
type draw struct {
	stepLength float64
	speed      float64
	angle      float64

	clampedStep  bool
	clampedSpeed bool
}

// Policy turns one tick's draws into a committed step. The two policies are
// kept distinct even though their moved branches travel the same distance:
// the continuous walker derives displacement as speed*duration, the gated
// walker uses the raw step length.
type Policy interface {
	Variant() Variant
	apply(s *Sampler, current Position, d draw, arena ArenaConfig) StepRecord
}

// ContinuousPolicy moves the agent on every tick.
type ContinuousPolicy struct{}

// Variant implements Policy.
func (ContinuousPolicy) Variant() Variant { return VariantContinuous }

func (ContinuousPolicy) apply(_ *Sampler, current Position, d draw, arena ArenaConfig) StepRecord {
	duration := d.stepLength / d.speed
	displacement := d.speed * duration
	next, _ := Reflect(current, d.angle, displacement, arena)
	return StepRecord{
		Moved:    true,
		Distance: displacement,
		Speed:    d.speed,
		Duration: duration,
		Position: next,
	}
}

// GatedPolicy draws a gate every tick and leaves the agent in place when the
// gate falls below StillProbability.
type GatedPolicy struct {
	StillProbability float64
}

// Variant implements Policy.
func (GatedPolicy) Variant() Variant { return VariantGated }

func (p GatedPolicy) apply(s *Sampler, current Position, d draw, arena ArenaConfig) StepRecord {
	if s.Gate() < p.StillProbability {
		return StepRecord{Moved: false, Position: current}
	}
	next, _ := Reflect(current, d.angle, d.stepLength, arena)
	return StepRecord{
		Moved:    true,
		Distance: d.stepLength,
		Speed:    d.speed,
		Duration: d.stepLength / d.speed,
		Position: next,
	}
}

// PolicyFor resolves a variant name into its policy.
func PolicyFor(variant Variant, motion MotionConfig) (Policy, error) {
	switch variant {
	case VariantContinuous:
		return ContinuousPolicy{}, nil
	case VariantGated:
		return GatedPolicy{StillProbability: motion.StillProbability}, nil
	default:
		return nil, configErr("simulation.variant", "unknown variant %q (want %q or %q)", variant, VariantContinuous, VariantGated)
	}
}

func (v Variant) String() string { return string(v) }
