package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xkilldash9x/openfield/internal/walk"
)

// Format selects the trajectory export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// FormatFromPath infers the export format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported export extension %q (want .json or .csv)", ext)
	}
}

// trajectoryPoint is one exported row. Step 0 is the initial position.
type trajectoryPoint struct {
	Step     int     `json:"step"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Moved    bool    `json:"moved"`
	Distance float64 `json:"distance"`
	Speed    float64 `json:"speed"`
}

type trajectoryDocument struct {
	RunID    string            `json:"run_id"`
	Seed     int64             `json:"seed"`
	Variant  walk.Variant      `json:"variant"`
	Arena    walk.ArenaConfig  `json:"arena"`
	Motion   walk.MotionConfig `json:"motion"`
	NumSteps int               `json:"num_steps"`
	Points   []trajectoryPoint `json:"points"`
}

func points(res *walk.Result) []trajectoryPoint {
	out := make([]trajectoryPoint, 0, len(res.Trajectory))
	if len(res.Trajectory) == 0 {
		return out
	}
	start := res.Trajectory[0]
	out = append(out, trajectoryPoint{Step: 0, X: start.X, Y: start.Y})
	for _, rec := range res.Records {
		out = append(out, trajectoryPoint{
			Step:     rec.Step,
			X:        rec.Position.X,
			Y:        rec.Position.Y,
			Moved:    rec.Moved,
			Distance: rec.Distance,
			Speed:    rec.Speed,
		})
	}
	return out
}

// ExportTrajectory writes every committed position of res, initial position first.
func ExportTrajectory(w io.Writer, format Format, res *walk.Result) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, trajectoryDocument{
			RunID:    res.RunID,
			Seed:     res.Seed,
			Variant:  res.Variant,
			Arena:    res.Arena,
			Motion:   res.Motion,
			NumSteps: res.NumSteps,
			Points:   points(res),
		})
	case FormatCSV:
		return writeCSV(w, points(res))
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func writeCSV(w io.Writer, pts []trajectoryPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"step", "x", "y", "moved", "distance", "speed"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, p := range pts {
		row := []string{
			strconv.Itoa(p.Step),
			strconv.FormatFloat(p.X, 'g', -1, 64),
			strconv.FormatFloat(p.Y, 'g', -1, 64),
			strconv.FormatBool(p.Moved),
			strconv.FormatFloat(p.Distance, 'g', -1, 64),
			strconv.FormatFloat(p.Speed, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", p.Step, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
