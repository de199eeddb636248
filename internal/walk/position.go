// internal/walk/position.go
package walk

import "math"

// Position represents a point in arena coordinates (centimeters).
// It is a value type: every committed step stores its own copy.
type Position struct {
	X, Y float64
}

// Add returns the vector sum of p and other.
func (p Position) Add(other Position) Position {
	return Position{X: p.X + other.X, Y: p.Y + other.Y}
}

// Dist calculates the Euclidean distance between p and other.
func (p Position) Dist(other Position) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Polar returns the displacement vector of the given length along angle (radians).
func Polar(distance, angle float64) Position {
	return Position{X: distance * math.Cos(angle), Y: distance * math.Sin(angle)}
}
