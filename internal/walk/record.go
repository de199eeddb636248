package walk

// StepRecord is the outcome of one tick. Records are appended in tick order
// and never modified afterwards.
type StepRecord struct {
	// Step is the 1-based tick index.
	Step     int      `json:"step"`
	Moved    bool     `json:"moved"`
	Distance float64  `json:"distance"`
	Speed    float64  `json:"speed"`
	Duration float64  `json:"duration"`
	Position Position `json:"position"`
}

// Result is the immutable output of a finished run.
type Result struct {
	RunID   string       `json:"run_id"`
	Seed    int64        `json:"seed"`
	Variant Variant      `json:"variant"`
	Arena   ArenaConfig  `json:"arena"`
	Motion  MotionConfig `json:"motion"`
	// NumSteps is the configured step count.
	NumSteps int `json:"num_steps"`
	// Trajectory holds the initial position followed by one position per tick.
	Trajectory []Position   `json:"trajectory"`
	Records    []StepRecord `json:"records"`

	BoundaryViolations int     `json:"boundary_violations"`
	ClampedSpeeds      int     `json:"clamped_speeds"`
	ClampedSteps       int     `json:"clamped_steps"`
	ElapsedSeconds     float64 `json:"elapsed_seconds"`
}

// Positions returns the per-tick positions, excluding the initial one.
func (r *Result) Positions() []Position {
	if len(r.Trajectory) == 0 {
		return nil
	}
	return r.Trajectory[1:]
}
