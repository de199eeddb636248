// internal/walk/engine.go
package walk

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// State is the lifecycle stage of an Engine.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Config is everything an engine needs for one run. It is copied at
// construction and never mutated afterwards.
type Config struct {
	Arena   ArenaConfig
	Motion  MotionConfig
	Variant Variant
	Steps   int
	// Seed selects the random stream and must not be negative. Zero derives a
	// seed from the clock; the seed actually used is reported in Result.Seed.
	Seed int64
	// ProgressInterval throttles progress logging. Zero disables it.
	ProgressInterval time.Duration
}

// Engine runs a single random walk. It is not safe for concurrent Run calls;
// use one engine per run.
type Engine struct {
	cfg     Config
	policy  Policy
	sampler *Sampler
	logger  *zap.Logger
	runID   string
	state   atomic.Int32
}

// New validates cfg and prepares an idle engine.
func New(cfg Config, logger *zap.Logger) (*Engine, error) {
	if err := cfg.Arena.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Motion.Validate(); err != nil {
		return nil, err
	}
	if cfg.Steps < 0 {
		return nil, configErr("simulation.steps", "must be non-negative, got %d", cfg.Steps)
	}
	if err := ValidateSeed(cfg.Seed); err != nil {
		return nil, err
	}
	policy, err := PolicyFor(cfg.Variant, cfg.Motion)
	if err != nil {
		return nil, err
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	runID := uuid.NewString()
	return &Engine{
		cfg:     cfg,
		policy:  policy,
		sampler: NewSampler(cfg.Seed),
		logger:  logger.With(zap.String("run_id", runID)),
		runID:   runID,
	}, nil
}

// State returns the current lifecycle stage.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Seed returns the seed the engine's random stream was created from.
func (e *Engine) Seed() int64 {
	return e.cfg.Seed
}

// Run executes exactly cfg.Steps ticks and returns the finished result.
// The context is checked once per tick; a cancelled run yields no result.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	if !e.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return nil, ErrAlreadyRun
	}
	defer e.state.Store(int32(StateFinished))

	cfg := e.cfg
	res := &Result{
		RunID:      e.runID,
		Seed:       cfg.Seed,
		Variant:    e.policy.Variant(),
		Arena:      cfg.Arena,
		Motion:     cfg.Motion,
		NumSteps:   cfg.Steps,
		Trajectory: make([]Position, 0, cfg.Steps+1),
		Records:    make([]StepRecord, 0, cfg.Steps),
	}

	e.logger.Debug("Starting random walk",
		zap.Int64("seed", cfg.Seed),
		zap.String("variant", res.Variant.String()),
		zap.Int("steps", cfg.Steps),
	)

	progress := &rate.Sometimes{Interval: cfg.ProgressInterval}
	current := cfg.Arena.Center()
	res.Trajectory = append(res.Trajectory, current)

	for i := 1; i <= cfg.Steps; i++ {
		if err := ctx.Err(); err != nil {
			e.logger.Debug("Random walk cancelled", zap.Int("step", i), zap.Error(err))
			return nil, err
		}

		d := e.draw()
		rec := e.policy.apply(e.sampler, current, d, cfg.Arena)
		rec.Step = i

		if rec.Moved {
			if d.clampedStep {
				res.ClampedSteps++
			}
			if d.clampedSpeed {
				res.ClampedSpeeds++
			}
			res.ElapsedSeconds += rec.Duration
			if !cfg.Arena.Contains(rec.Position) {
				res.BoundaryViolations++
			}
		}

		current = rec.Position
		res.Records = append(res.Records, rec)
		res.Trajectory = append(res.Trajectory, current)

		if cfg.ProgressInterval > 0 {
			progress.Do(func() {
				e.logger.Info("Simulation progress", zap.Int("step", i), zap.Int("steps", cfg.Steps))
			})
		}
	}

	if res.BoundaryViolations > 0 {
		e.logger.Warn("Single-pass reflection left the agent outside the arena",
			zap.Int("violations", res.BoundaryViolations),
			zap.Int("steps", cfg.Steps),
		)
	}
	e.logger.Debug("Random walk finished",
		zap.Int("records", len(res.Records)),
		zap.Int("clamped_speeds", res.ClampedSpeeds),
		zap.Int("clamped_steps", res.ClampedSteps),
	)
	return res, nil
}

// draw samples step length, speed and heading in that order and applies the
// degeneracy clamps: a negative step length becomes 0 and a speed below the
// floor is raised to it. Clamps only count toward the result when the tick
// moves, since a still tick never uses the sampled values.
func (e *Engine) draw() draw {
	stepLength, speed := e.sampler.SampleStep(e.cfg.Motion)
	angle := e.sampler.Heading()

	d := draw{stepLength: stepLength, speed: speed, angle: angle}
	if stepLength < 0 {
		d.stepLength = 0
		d.clampedStep = true
	}
	if floor := e.cfg.Motion.speedFloor(); speed < floor {
		e.logger.Debug("Clamped degenerate speed sample", zap.Float64("speed", speed), zap.Float64("floor", floor))
		d.speed = floor
		d.clampedSpeed = true
	}
	return d
}
