package walk

import "math"

// Reflect moves the agent displacement units from current along angle and
// keeps it inside the arena by reflecting the heading.
//
// A horizontal wall hit mirrors the heading about the vertical axis
// (angle = π - angle); a vertical wall hit, checked on the possibly updated
// candidate, negates it. Each correction recomputes the candidate from
// current, never from the rejected candidate.
//
// The check is a single pass: the reflected candidate is not re-validated.
// When displacement is large relative to the free space (roughly more than
// half of Size-AgentSize) the returned position can still lie outside the
// arena. Callers that need to know can test the result with arena.Contains.
func Reflect(current Position, angle, displacement float64, arena ArenaConfig) (Position, float64) {
	half := arena.HalfAgentSize()

	candidate := current.Add(Polar(displacement, angle))

	if candidate.X-half < 0 || candidate.X+half > arena.Size {
		angle = math.Pi - angle
		candidate = current.Add(Polar(displacement, angle))
	}

	if candidate.Y-half < 0 || candidate.Y+half > arena.Size {
		angle = -angle
		candidate = current.Add(Polar(displacement, angle))
	}

	return candidate, angle
}
