package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/xkilldash9x/openfield/internal/walk"
)

// PlotOptions sizes the trajectory chart.
type PlotOptions struct {
	Width, Height int
	Title         string
}

// ErrTooFewPositions is returned when a trajectory has nothing to connect.
var ErrTooFewPositions = errors.New("render: a plot needs at least two positions")

// DefaultPlotTitle names the plot after the agent and arena dimensions.
func DefaultPlotTitle(arena walk.ArenaConfig) string {
	return fmt.Sprintf("Random Walk of a %gx%g cm Box in %gx%g cm Arena", arena.AgentSize, arena.AgentSize, arena.Size, arena.Size)
}

// PlotTrajectory draws the trajectory as a connected path with small markers,
// axes fixed to [0, arena.Size], and writes it to w as PNG.
func PlotTrajectory(w io.Writer, trajectory []walk.Position, arena walk.ArenaConfig, opts PlotOptions) error {
	if len(trajectory) < 2 {
		return ErrTooFewPositions
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 800, 800
	}
	if opts.Title == "" {
		opts.Title = DefaultPlotTitle(arena)
	}

	xs := make([]float64, len(trajectory))
	ys := make([]float64, len(trajectory))
	for i, p := range trajectory {
		xs[i], ys[i] = p.X, p.Y
	}

	pathColor := drawing.ColorFromHex("1f77b4")
	graph := chart.Chart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		XAxis: chart.XAxis{
			Name:  "X Position (cm)",
			Range: &chart.ContinuousRange{Min: 0, Max: arena.Size},
		},
		YAxis: chart.YAxis{
			Name:  "Y Position (cm)",
			Range: &chart.ContinuousRange{Min: 0, Max: arena.Size},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "trajectory",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: pathColor,
					StrokeWidth: 1.0,
					DotColor:    pathColor,
					DotWidth:    1.0,
				},
			},
		},
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render: failed to render trajectory plot: %w", err)
	}
	return nil
}
