package stats

import "math"

// Moments holds the sample mean and standard deviation of one quantity.
type Moments struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Aggregate summarizes a batch of independent runs.
type Aggregate struct {
	Runs          int     `json:"runs"`
	TotalDistance Moments `json:"total_distance"`
	MeanSpeed     Moments `json:"mean_speed"`
	CenterPercent Moments `json:"center_percent"`
	MovedPercent  Moments `json:"moved_percent"`
}

// Combine aggregates reports from independent runs.
func Combine(reports []Report) Aggregate {
	agg := Aggregate{Runs: len(reports)}
	if len(reports) == 0 {
		return agg
	}
	agg.TotalDistance = moments(reports, func(r Report) float64 { return r.TotalDistance })
	agg.MeanSpeed = moments(reports, func(r Report) float64 { return r.MeanSpeed })
	agg.CenterPercent = moments(reports, func(r Report) float64 { return r.CenterPercent })
	agg.MovedPercent = moments(reports, func(r Report) float64 { return r.MovedPercent })
	return agg
}

// moments uses the sample (n-1) standard deviation; a single run has zero spread.
func moments(reports []Report, value func(Report) float64) Moments {
	n := float64(len(reports))
	var sum float64
	for _, r := range reports {
		sum += value(r)
	}
	mean := sum / n
	if len(reports) < 2 {
		return Moments{Mean: mean}
	}
	var sq float64
	for _, r := range reports {
		d := value(r) - mean
		sq += d * d
	}
	return Moments{Mean: mean, StdDev: math.Sqrt(sq / (n - 1))}
}
