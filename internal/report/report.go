// File: internal/report/report.go
package report

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/xkilldash9x/openfield/internal/stats"
	"github.com/xkilldash9x/openfield/internal/walk"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Summary couples a run's statistics with the metadata needed to replay it.
type Summary struct {
	RunID              string       `json:"run_id"`
	Seed               int64        `json:"seed"`
	Variant            walk.Variant `json:"variant"`
	TotalSteps         int          `json:"total_steps"`
	ElapsedSeconds     float64      `json:"elapsed_seconds"`
	BoundaryViolations int          `json:"boundary_violations"`
	Stats              stats.Report `json:"stats"`
}

// NewSummary builds the summary for a finished run.
func NewSummary(res *walk.Result) Summary {
	return Summary{
		RunID:              res.RunID,
		Seed:               res.Seed,
		Variant:            res.Variant,
		TotalSteps:         len(res.Positions()),
		ElapsedSeconds:     res.ElapsedSeconds,
		BoundaryViolations: res.BoundaryViolations,
		Stats:              stats.FromResult(res),
	}
}

// errWriter remembers the first write error so a report can be written
// without checking every line.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

// WriteText renders the summary the way the console report reads: floats
// with two decimals, counts as integers.
func WriteText(w io.Writer, s Summary) error {
	ew := &errWriter{w: w}
	r := s.Stats

	ew.printf("Run %s (variant %s, seed %d)\n", s.RunID, s.Variant, s.Seed)
	ew.printf("Statistics:\n")
	ew.printf("Total distance: %.2f cm\n", r.TotalDistance)
	ew.printf("Mean distance: %.2f cm\n", r.MeanDistance)
	ew.printf("Mean speed: %.2f cm/s\n", r.MeanSpeed)
	ew.printf("Total time spent in the center area: %d steps\n", r.CenterCount)
	ew.printf("Total time spent in the outer area: %d steps\n", r.OuterCount)
	ew.printf("Number of movements: %d\n", r.MovementCount)
	ew.printf("Percentage of time spent in the center area: %.2f%%\n", r.CenterPercent)
	ew.printf("Percentage of time spent in the outer area: %.2f%%\n", r.OuterPercent)
	ew.printf("Percentage of movements: %.2f%%\n", r.MovedPercent)
	ew.printf("Percentage of no movements: %.2f%%\n", r.NotMovedPercent)
	ew.printf("Simulated moving time: %.2f s\n", s.ElapsedSeconds)
	if s.BoundaryViolations > 0 {
		ew.printf("Boundary violations: %d\n", s.BoundaryViolations)
	}
	ew.printf("Total steps: %d\n", s.TotalSteps)
	return ew.err
}

// WriteAggregate renders one line per run followed by the cross-run moments.
func WriteAggregate(w io.Writer, runs []Summary, agg stats.Aggregate) error {
	ew := &errWriter{w: w}
	ew.printf("%-36s  %20s  %10s  %10s  %8s  %8s\n", "run", "seed", "distance", "speed", "center%", "moved%")
	for _, s := range runs {
		ew.printf("%-36s  %20d  %10.2f  %10.2f  %8.2f  %8.2f\n",
			s.RunID, s.Seed, s.Stats.TotalDistance, s.Stats.MeanSpeed, s.Stats.CenterPercent, s.Stats.MovedPercent)
	}
	ew.printf("Runs: %d\n", agg.Runs)
	ew.printf("Total distance: %.2f ± %.2f cm\n", agg.TotalDistance.Mean, agg.TotalDistance.StdDev)
	ew.printf("Mean speed: %.2f ± %.2f cm/s\n", agg.MeanSpeed.Mean, agg.MeanSpeed.StdDev)
	ew.printf("Percentage of time spent in the center area: %.2f ± %.2f%%\n", agg.CenterPercent.Mean, agg.CenterPercent.StdDev)
	ew.printf("Percentage of movements: %.2f ± %.2f%%\n", agg.MovedPercent.Mean, agg.MovedPercent.StdDev)
	return ew.err
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON report: %w", err)
	}
	return nil
}
