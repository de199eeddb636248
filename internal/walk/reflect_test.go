// Filename: internal/walk/reflect_test.go
package walk

import (
	"math"
	"testing"

	fuzz "github.com/AdaLogics/go-fuzz-headers"
	"github.com/stretchr/testify/assert"
)

const tolerance = 1e-9

func TestReflect(t *testing.T) {
	t.Parallel()

	arena := DefaultArena()

	testCases := []struct {
		name          string
		current       Position
		angle         float64
		displacement  float64
		expectedPos   Position
		expectedAngle float64
	}{
		{
			name:          "move without touching a wall keeps heading",
			current:       Position{X: 50, Y: 50},
			angle:         0,
			displacement:  5,
			expectedPos:   Position{X: 55, Y: 50},
			expectedAngle: 0,
		},
		{
			name:          "right wall mirrors heading horizontally",
			current:       Position{X: 95, Y: 50},
			angle:         0,
			displacement:  5.56,
			expectedPos:   Position{X: 89.44, Y: 50},
			expectedAngle: math.Pi,
		},
		{
			name:          "left wall mirrors heading horizontally",
			current:       Position{X: 4, Y: 50},
			angle:         math.Pi,
			displacement:  3,
			expectedPos:   Position{X: 7, Y: 50},
			expectedAngle: 0,
		},
		{
			name:          "top wall negates heading",
			current:       Position{X: 50, Y: 96},
			angle:         math.Pi / 2,
			displacement:  5,
			expectedPos:   Position{X: 50, Y: 91},
			expectedAngle: -math.Pi / 2,
		},
		{
			name:          "corner applies both reflections in order",
			current:       Position{X: 96, Y: 96},
			angle:         math.Pi / 4,
			displacement:  4,
			expectedPos:   Position{X: 96 - 4*math.Sqrt2/2, Y: 96 - 4*math.Sqrt2/2},
			expectedAngle: -3 * math.Pi / 4,
		},
		{
			name:          "zero displacement never reflects",
			current:       Position{X: 2.5, Y: 97.5},
			angle:         1.234,
			displacement:  0,
			expectedPos:   Position{X: 2.5, Y: 97.5},
			expectedAngle: 1.234,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			pos, angle := Reflect(tc.current, tc.angle, tc.displacement, arena)
			assert.InDelta(t, tc.expectedPos.X, pos.X, tolerance)
			assert.InDelta(t, tc.expectedPos.Y, pos.Y, tolerance)
			assert.InDelta(t, tc.expectedAngle, angle, tolerance)
		})
	}
}

// The reflector does not re-validate the corrected candidate. A step longer
// than the free space bounces straight through the opposite wall.
func TestReflect_SinglePassCanLeaveArena(t *testing.T) {
	arena := ArenaConfig{Size: 10, AgentSize: 2, OuterAreaSize: 2}

	pos, angle := Reflect(Position{X: 5, Y: 5}, 0, 8, arena)

	assert.InDelta(t, -3.0, pos.X, tolerance)
	assert.InDelta(t, 5.0, pos.Y, tolerance)
	assert.InDelta(t, math.Pi, angle, tolerance)
	assert.False(t, arena.Contains(pos), "single-pass reflection is expected to leave the agent out of bounds here")
}

// The y check must see the x-corrected candidate, not the original one.
func TestReflect_VerticalCheckUsesUpdatedCandidate(t *testing.T) {
	arena := DefaultArena()
	// Heading up-right from near the right wall: x violates, y does not.
	pos, angle := Reflect(Position{X: 96, Y: 50}, math.Pi/3, 6, arena)

	assert.InDelta(t, 2*math.Pi/3, angle, tolerance)
	assert.InDelta(t, 96-3.0, pos.X, tolerance)
	assert.InDelta(t, 50+6*math.Sin(math.Pi/3), pos.Y, tolerance)
	assert.True(t, arena.Contains(pos))
}

type reflectInput struct {
	Size         float64
	AgentRatio   float64
	FracX, FracY float64
	Angle        float64
	Displacement float64
}

func FuzzReflect(f *testing.F) {
	f.Add([]byte("openfield-reflect-seed"))
	f.Fuzz(func(t *testing.T, data []byte) {
		consumer := fuzz.NewConsumer(data)
		in := reflectInput{}
		if err := consumer.GenerateStruct(&in); err != nil {
			return
		}
		for _, v := range []float64{in.Size, in.AgentRatio, in.FracX, in.FracY, in.Angle, in.Displacement} {
			if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > 1e6 {
				return
			}
		}

		size := math.Abs(in.Size) + 1
		arena := ArenaConfig{Size: size, AgentSize: size * (0.01 + 0.98*frac(in.AgentRatio))}
		if arena.Validate() != nil {
			return
		}
		half := arena.HalfAgentSize()
		free := size - arena.AgentSize
		current := Position{X: half + free*frac(in.FracX), Y: half + free*frac(in.FracY)}
		displacement := math.Abs(in.Displacement)

		pos, angle := Reflect(current, in.Angle, displacement, arena)

		if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsNaN(angle) {
			t.Fatalf("non-finite reflection for %+v: pos=%v angle=%v", in, pos, angle)
		}
		// Reflection only rewrites the heading; the step length is preserved.
		if d := pos.Dist(current); math.Abs(d-displacement) > 1e-6*(1+displacement) {
			t.Fatalf("reflection changed step length: got %v want %v", d, displacement)
		}
		// A step no longer than half the free space always stays inside.
		eps := 1e-9 * (1 + size)
		inside := pos.X >= half-eps && pos.X <= size-half+eps && pos.Y >= half-eps && pos.Y <= size-half+eps
		if displacement <= free/2 && !inside {
			t.Fatalf("short step left the arena: current=%v pos=%v arena=%+v", current, pos, arena)
		}
	})
}

func frac(v float64) float64 {
	return math.Abs(v) - math.Floor(math.Abs(v))
}
