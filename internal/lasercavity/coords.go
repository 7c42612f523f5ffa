package lasercavity

import "math"

// walk lays out elements kstart..kend. The element at kstart keeps its
// location and seeds the axis; each following element is placed on the
// axis left by its predecessor.
func (s *System) walk(kstart, kend int) {
	if len(s.elements) == 0 {
		return
	}
	if kstart < 0 {
		kstart = 0
	}
	if kend < 0 || kend > s.last() {
		kend = s.last()
	}
	loc := s.elements[kstart].Location()
	ax := Axis{X: loc.X, Y: loc.Y, Q: loc.Q}
	for k := kstart; k <= kend; k++ {
		el := s.elements[k]
		if k != kstart {
			loc = el.SetLocation(ax, s.vars)
		}
		d := el.DistanceToNext(s.vars)
		ax.Q = loc.Q
		ax.X += d * math.Cos(ax.Q)
		ax.Y += d * math.Sin(ax.Q)
	}
}

// CalculateCartesianCoordinates lays out elements kstart..kend (kend < 0
// for the whole chain) and then re-aligns the cavity ends. A ring is only
// closed once the walk reaches its last element; closing can fail with
// ErrRingNotClosed.
func (s *System) CalculateCartesianCoordinates(kstart, kend int) error {
	s.walk(kstart, kend)
	if s.isRing() && kend >= 0 && kend < s.last() {
		return nil
	}
	return s.alignEndElements()
}

// alignEndElements retroreflects the ends of a standing-wave cavity, or
// closes a ring.
func (s *System) alignEndElements() error {
	if len(s.elements) == 0 {
		return nil
	}
	if s.isRing() {
		return s.closeRing()
	}
	first, last := s.elements[0], s.elements[s.last()]
	switch e := first.(type) {
	case *Mirror:
		e.loc.P = e.loc.Q + math.Pi
	case *Screen:
		e.loc.P = e.loc.Q + math.Pi
	case *Dielectric:
		e.loc.P = e.loc.Q + math.Pi
	}
	switch e := last.(type) {
	case *Mirror:
		e.distance = Num(0)
	case *Screen:
		e.distance = Num(0)
	}
	last.SetDeflection(math.Pi)
	return nil
}

// Path returns the element locations in chain order followed by the end
// of the final gap, for drawing or reporting the beam axis.
func (s *System) Path() []Point {
	pts := make([]Point, 0, len(s.elements)+1)
	for _, el := range s.elements {
		pts = append(pts, el.Location().Point())
	}
	if n := len(s.elements); n > 0 {
		el := s.elements[n-1]
		loc := el.Location()
		pts = append(pts, loc.Point().Add(direction(loc.Q).Mul(el.DistanceToNext(s.vars))))
	}
	return pts
}
