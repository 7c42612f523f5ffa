package lasercavity

// Point is a position in the cavity plane (mm).
type Point struct {
	X, Y Real
}

// Add lets you translate a Point by a Vector2.
func (p Point) Add(v Vector2) Point {
	return Point{p.X + v.X, p.Y + v.Y}
}

// Sub returns the displacement from q to p.
func (p Point) Sub(q Point) Vector2 {
	return Vector2{p.X - q.X, p.Y - q.Y}
}

// Axis is a point plus the angle of the beam axis leaving it.
type Axis struct {
	X, Y, Q Real
}

func (a Axis) Point() Point { return Point{a.X, a.Y} }

// Location is the placed state of an element: position, incoming
// axis angle P and outgoing axis angle Q (radians).
type Location struct {
	X, Y, P, Q Real
}

func (l Location) Point() Point { return Point{l.X, l.Y} }
