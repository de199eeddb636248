// Package stats derives locomotion summaries from the step records of a run.
// Everything here is a pure function of its inputs.
package stats

import "github.com/xkilldash9x/openfield/internal/walk"

// Report is the summary of one run.
type Report struct {
	TotalDistance float64 `json:"total_distance"`
	MeanDistance  float64 `json:"mean_distance"`
	MeanSpeed     float64 `json:"mean_speed"`

	CenterCount   int `json:"center_count"`
	OuterCount    int `json:"outer_count"`
	MovementCount int `json:"movement_count"`
	NumSteps      int `json:"num_steps"`

	CenterPercent   float64 `json:"center_percent"`
	OuterPercent    float64 `json:"outer_percent"`
	MovedPercent    float64 `json:"moved_percent"`
	NotMovedPercent float64 `json:"not_moved_percent"`
}

// NotMovedCount is the number of configured steps on which the agent stayed still.
func (r Report) NotMovedCount() int {
	return r.NumSteps - r.MovementCount
}

// Summarize computes the report for records. Zone occupancy is counted over
// the per-step positions only; the initial position is not a step and is not
// counted. Percentages are taken against numSteps, the configured step count.
func Summarize(records []walk.StepRecord, arena walk.ArenaConfig, numSteps int) Report {
	r := Report{NumSteps: numSteps}

	var speedSum float64
	for _, rec := range records {
		r.TotalDistance += rec.Distance
		speedSum += rec.Speed
		if rec.Moved {
			r.MovementCount++
		}
		if arena.InOuterZone(rec.Position) {
			r.OuterCount++
		} else {
			r.CenterCount++
		}
	}

	if n := len(records); n > 0 {
		r.MeanDistance = r.TotalDistance / float64(n)
		r.MeanSpeed = speedSum / float64(n)
	}

	if numSteps > 0 {
		steps := float64(numSteps)
		r.CenterPercent = float64(r.CenterCount) / steps * 100
		r.OuterPercent = float64(r.OuterCount) / steps * 100
		moved := float64(r.MovementCount) / steps
		r.MovedPercent = moved * 100
		r.NotMovedPercent = (1 - moved) * 100
	}
	return r
}

// FromResult summarizes a finished run.
func FromResult(res *walk.Result) Report {
	return Summarize(res.Records, res.Arena, res.NumSteps)
}
