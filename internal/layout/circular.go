// Package layout computes node positions for graph rendering.
package layout

import "math"

// Point is a 2D position in render space.
type Point struct {
	X float64
	Y float64
}

// Circular places n node IDs evenly on a circle of the given radius around
// center. Order is preserved: the first ID sits at angle zero (east) and
// the rest follow counterclockwise.
func Circular(ids []string, center Point, radius float64) map[string]Point {
	positions := make(map[string]Point, len(ids))
	n := len(ids)
	if n == 0 {
		return positions
	}
	if n == 1 {
		positions[ids[0]] = center
		return positions
	}
	for i, id := range ids {
		angle := 2 * math.Pi * float64(i) / float64(n)
		positions[id] = Point{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y + radius*math.Sin(angle),
		}
	}
	return positions
}
