package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/openfield/internal/stats"
	"github.com/xkilldash9x/openfield/internal/walk"
)

func newResult(t *testing.T, steps int) *walk.Result {
	t.Helper()
	e, err := walk.New(walk.Config{
		Arena:   walk.DefaultArena(),
		Motion:  walk.DefaultMotion(),
		Variant: walk.VariantGated,
		Steps:   steps,
		Seed:    42,
	}, nil)
	require.NoError(t, err)
	res, err := e.Run(context.Background())
	require.NoError(t, err)
	return res
}

func TestWriteText(t *testing.T) {
	s := Summary{
		RunID:          "run-1",
		Seed:           42,
		Variant:        walk.VariantGated,
		TotalSteps:     4,
		ElapsedSeconds: 0.654321,
		Stats: stats.Report{
			TotalDistance:   16.6789,
			MeanDistance:    4.169725,
			MeanSpeed:       19.126,
			CenterCount:     3,
			OuterCount:      1,
			MovementCount:   3,
			NumSteps:        4,
			CenterPercent:   75,
			OuterPercent:    25,
			MovedPercent:    75,
			NotMovedPercent: 25,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, s))
	out := buf.String()

	for _, line := range []string{
		"Run run-1 (variant gated, seed 42)",
		"Statistics:",
		"Total distance: 16.68 cm",
		"Mean distance: 4.17 cm",
		"Mean speed: 19.13 cm/s",
		"Total time spent in the center area: 3 steps",
		"Total time spent in the outer area: 1 steps",
		"Number of movements: 3",
		"Percentage of time spent in the center area: 75.00%",
		"Percentage of time spent in the outer area: 25.00%",
		"Percentage of movements: 75.00%",
		"Percentage of no movements: 25.00%",
		"Simulated moving time: 0.65 s",
		"Total steps: 4",
	} {
		assert.Contains(t, out, line+"\n")
	}
	assert.NotContains(t, out, "Boundary violations", "the line only appears when the reflector failed")
}

type failingWriter struct{ after int }

func (f *failingWriter) Write(p []byte) (int, error) {
	if f.after <= 0 {
		return 0, errors.New("sink closed")
	}
	f.after--
	return len(p), nil
}

func TestWriteText_PropagatesWriteError(t *testing.T) {
	err := WriteText(&failingWriter{after: 2}, Summary{})
	assert.EqualError(t, err, "sink closed")
}

func TestWriteAggregate(t *testing.T) {
	runs := []Summary{
		{RunID: "a", Seed: 1, Stats: stats.Report{TotalDistance: 10, CenterPercent: 40}},
		{RunID: "b", Seed: 2, Stats: stats.Report{TotalDistance: 20, CenterPercent: 60}},
	}
	agg := stats.Combine([]stats.Report{runs[0].Stats, runs[1].Stats})

	var buf bytes.Buffer
	require.NoError(t, WriteAggregate(&buf, runs, agg))
	out := buf.String()

	assert.Contains(t, out, "Runs: 2\n")
	assert.Contains(t, out, "Total distance: 15.00 ± 7.07 cm")
	assert.Equal(t, 1+len(runs)+5, strings.Count(out, "\n"), "header, one line per run, and five summary lines")
}

func TestWriteJSON_Summary(t *testing.T) {
	res := newResult(t, 20)
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, NewSummary(res)))

	var decoded Summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, res.RunID, decoded.RunID)
	assert.Equal(t, res.Seed, decoded.Seed)
	assert.Equal(t, 20, decoded.TotalSteps)
	assert.Equal(t, 20, decoded.Stats.NumSteps)
}

func TestExportTrajectory(t *testing.T) {
	res := newResult(t, 10)

	t.Run("json includes the initial position", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, ExportTrajectory(&buf, FormatJSON, res))

		var doc trajectoryDocument
		require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
		require.Len(t, doc.Points, 11)
		assert.Equal(t, 0, doc.Points[0].Step)
		assert.Equal(t, 50.0, doc.Points[0].X)
		assert.Equal(t, res.Trajectory[10].X, doc.Points[10].X)
		assert.Equal(t, res.Records[9].Moved, doc.Points[10].Moved)
	})

	t.Run("csv has a header and one row per position", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, ExportTrajectory(&buf, FormatCSV, res))

		rows, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 12)
		assert.Equal(t, []string{"step", "x", "y", "moved", "distance", "speed"}, rows[0])
		assert.Equal(t, "0", rows[1][0])
		assert.Equal(t, "10", rows[11][0])
	})

	t.Run("unknown format is rejected", func(t *testing.T) {
		err := ExportTrajectory(&bytes.Buffer{}, Format("xml"), res)
		assert.Error(t, err)
	})
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("out/run.JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = FormatFromPath("run.csv")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = FormatFromPath("run.parquet")
	assert.Error(t, err)
}
