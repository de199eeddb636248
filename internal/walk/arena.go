package walk

import "math"

// ArenaConfig describes the square arena and the square agent moving inside it.
// All lengths are in centimeters.
type ArenaConfig struct {
	Size          float64 `json:"size" yaml:"size"`
	AgentSize     float64 `json:"agent_size" yaml:"agent_size"`
	OuterAreaSize float64 `json:"outer_area_size" yaml:"outer_area_size"`
}

// DefaultArena returns the 100x100 cm open field with a 5x5 cm agent and a 20 cm outer band.
func DefaultArena() ArenaConfig {
	return ArenaConfig{Size: 100, AgentSize: 5, OuterAreaSize: 20}
}

// HalfAgentSize is the distance from the agent's center to its edges.
func (a ArenaConfig) HalfAgentSize() float64 {
	return a.AgentSize / 2
}

// Center returns the midpoint of the arena, where every run starts.
func (a ArenaConfig) Center() Position {
	return Position{X: a.Size / 2, Y: a.Size / 2}
}

// Contains reports whether the agent footprint centered at p lies fully inside the arena.
func (a ArenaConfig) Contains(p Position) bool {
	half := a.HalfAgentSize()
	return p.X >= half && p.X <= a.Size-half && p.Y >= half && p.Y <= a.Size-half
}

// InOuterZone reports whether the agent footprint centered at p lies entirely
// inside the outer band on at least one axis.
func (a ArenaConfig) InOuterZone(p Position) bool {
	half := a.HalfAgentSize()
	inner := a.Size - a.OuterAreaSize
	return p.X+half < a.OuterAreaSize || p.X-half > inner ||
		p.Y+half < a.OuterAreaSize || p.Y-half > inner
}

// Validate checks the sizing invariants.
func (a ArenaConfig) Validate() error {
	switch {
	case !(a.Size > 0) || math.IsInf(a.Size, 0):
		return configErr("arena.size", "must be a positive finite length, got %v", a.Size)
	case !(a.AgentSize > 0):
		return configErr("arena.agent_size", "must be positive, got %v", a.AgentSize)
	case a.AgentSize >= a.Size:
		return configErr("arena.agent_size", "agent (%v) must be smaller than the arena (%v)", a.AgentSize, a.Size)
	case a.OuterAreaSize < 0 || a.OuterAreaSize > a.Size/2 || math.IsNaN(a.OuterAreaSize):
		return configErr("arena.outer_area_size", "must be within [0, %v], got %v", a.Size/2, a.OuterAreaSize)
	}
	return nil
}
