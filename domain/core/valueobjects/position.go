package valueobjects

import "math"

// Position is the location of a thought card on the canvas plane
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPosition creates a position at the given coordinates
func NewPosition(x, y float64) Position {
	return Position{X: x, Y: y}
}

// Translate returns a position shifted by the given deltas
func (p Position) Translate(dx, dy float64) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// DistanceTo returns the euclidean distance to another position
func (p Position) DistanceTo(other Position) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Equals checks positional equality within a small tolerance, since
// coordinates pass through float serialization on the way to clients.
func (p Position) Equals(other Position) bool {
	const epsilon = 1e-6
	return math.Abs(p.X-other.X) < epsilon && math.Abs(p.Y-other.Y) < epsilon
}
