package lasercavity

import "math"

// Vector2 is a displacement in the cavity plane (mm).
type Vector2 struct {
	X, Y Real
}

// Vector functions
func (a Vector2) Add(b Vector2) Vector2 { return Vector2{a.X + b.X, a.Y + b.Y} }
func (a Vector2) Sub(b Vector2) Vector2 { return Vector2{a.X - b.X, a.Y - b.Y} }
func (v Vector2) Mul(s Real) Vector2    { return Vector2{v.X * s, v.Y * s} }

// Dot returns the dot product between two 2D vectors.
func (a Vector2) Dot(b Vector2) Real { return a.X*b.X + a.Y*b.Y }

// Cross returns the scalar (z) component of the 2D cross product a×b.
func (a Vector2) Cross(b Vector2) Real { return a.X*b.Y - a.Y*b.X }

// Len returns the Euclidean length of the vector.
func (v Vector2) Len() Real { return math.Hypot(v.X, v.Y) }

// Norm returns a unit-length version of the vector.
func (v Vector2) Norm() Vector2 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return Vector2{v.X / l, v.Y / l}
}

// NormDot is the cosine of the angle between a and b, clamped to [-1,1].
// It is 0 when either vector has zero length.
func (a Vector2) NormDot(b Vector2) Real {
	l := a.Len() * b.Len()
	if l == 0 {
		return 0
	}
	return clamp(a.Dot(b)/l, -1, 1)
}

// NormCross is the sine of the angle from a to b, clamped to [-1,1].
func (a Vector2) NormCross(b Vector2) Real {
	l := a.Len() * b.Len()
	if l == 0 {
		return 0
	}
	return clamp(a.Cross(b)/l, -1, 1)
}

// Rotate turns the vector counterclockwise by q radians.
func (v Vector2) Rotate(q Real) Vector2 {
	c, s := math.Cos(q), math.Sin(q)
	return Vector2{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

// Atan2 returns the direction of the vector.
func (v Vector2) Atan2() Real { return math.Atan2(v.Y, v.X) }

// direction returns the unit vector at angle q.
func direction(q Real) Vector2 { return Vector2{math.Cos(q), math.Sin(q)} }
