// Package point provides the three-field coordinate value used by the hooks.
package point

// Name is the constructor's name in the call graph.
const Name = "Point"

// Point is an immutable (x, y, z) coordinate. Compare with ==.
type Point struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
	Z int64 `json:"z"`
}

// New returns the point (x, y, z).
func New(x, y, z int64) Point {
	return Point{X: x, Y: y, Z: z}
}

// NewXY returns the point (x, y, 0).
func NewXY(x, y int64) Point {
	return Point{X: x, Y: y}
}

// Sum returns x+y+z.
func (p Point) Sum() int64 {
	return p.X + p.Y + p.Z
}
