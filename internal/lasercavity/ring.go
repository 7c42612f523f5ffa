package lasercavity

import (
	"errors"
	"fmt"
	"math"
)

var ErrRingNotClosed = errors.New("ring not closed")

// ringConstruct is the closing triangle of a ring: the leg from the
// closing pivot to the first element is split into a stretchable gap A of
// fixed direction and the fixed displacement B of everything else.
type ringConstruct struct {
	pivot, stretch int
	a              Vector2 // unit direction of the stretch gap
	b              Vector2 // fixed leg
	c              Vector2 // pivot to first element
}

// ringPivots finds the last element that can turn its outgoing axis and
// the first element from it onwards that can change its gap.
func (s *System) ringPivots() (pivot, stretch int, err error) {
	pivot = -1
	for k := s.last(); k > 0; k-- {
		if s.elements[k].CanSetProperty(PropOutgoingAngle) {
			pivot = k
			break
		}
	}
	if pivot < 0 {
		return 0, 0, fmt.Errorf("%w: no pivot after the first element", ErrRingNotClosed)
	}
	stretch = s.last()
	for k := pivot; k <= s.last(); k++ {
		if s.elements[k].CanSetProperty(PropDistanceToNext) {
			stretch = k
			break
		}
	}
	return pivot, stretch, nil
}

func (s *System) ringConstruct() (ringConstruct, error) {
	kp, ks, err := s.ringPivots()
	if err != nil {
		return ringConstruct{}, err
	}
	rc := ringConstruct{pivot: kp, stretch: ks}
	target := s.elements[0].Location().Point()
	rc.c = target.Sub(s.elements[kp].Location().Point())
	for k := kp; k <= s.last(); k++ {
		if k == ks {
			continue
		}
		loc := s.elements[k].Location()
		rc.b = rc.b.Add(direction(loc.Q).Mul(s.elements[k].DistanceToNext(s.vars)))
	}
	rc.a = direction(s.elements[ks].Location().Q)
	return rc, nil
}

// stretchLength solves |C|² = |A|² + |B|² - 2|A||B|cos(cc) for the stretch
// gap, cc being the angle between A and B at their joint.
func (rc ringConstruct) stretchLength() (Real, error) {
	c := rc.c.Len()
	b := rc.b.Len()
	if b < DragEps {
		return c, nil
	}
	// |B|cos(cc) with cc = π - angle(A, B)
	bcos := -rc.a.Dot(rc.b)
	det := bcos*bcos + c*c - b*b
	if det < 0 || math.IsNaN(det) {
		return 0, fmt.Errorf("%w: no triangle for fixed leg %.6g and closing leg %.6g", ErrRingNotClosed, b, c)
	}
	a := bcos + math.Sqrt(det)
	if a <= 0 || math.IsNaN(a) {
		return 0, fmt.Errorf("%w: stretch length %.6g", ErrRingNotClosed, a)
	}
	return a, nil
}

// closeRing adjusts the closing pivot's angle and the stretch gap so the
// final gap ends on the first element, then sets the first element's
// incidence from the arriving axis.
func (s *System) closeRing() error {
	rc, err := s.ringConstruct()
	if err != nil {
		return err
	}
	a, err := rc.stretchLength()
	if err != nil {
		return err
	}
	stretch := s.elements[rc.stretch]
	if err := stretch.Set(PropDistanceToNext, a); err != nil {
		return fmt.Errorf("%w: %v", ErrRingNotClosed, err)
	}

	// Rotate the constructed leg onto the target.
	p := rc.a.Mul(a).Add(rc.b)
	q := math.Atan2(p.Cross(rc.c), p.Dot(rc.c))
	pivot := s.elements[rc.pivot]
	pivot.SetOutgoingAngle(pivot.Location().Q+q, false)
	s.walk(rc.pivot-1, -1)

	last := s.elements[s.last()]
	end := last.Location()
	arrive := end.Q
	tip := end.Point().Add(direction(arrive).Mul(last.DistanceToNext(s.vars)))

	first := s.elements[0]
	switch e := first.(type) {
	case *Mirror:
		e.loc.P = arrive
	case *Screen:
		e.loc.P = arrive
	}
	first.SetDeflection(first.Location().Q - arrive)

	target := first.Location().Point()
	residual := tip.Sub(target).Len() / math.Max(rc.c.Len(), 1)
	if residual > RingClosureTol || math.IsNaN(residual) {
		return fmt.Errorf("%w: residual %.3g", ErrRingNotClosed, residual)
	}
	DebugLog("Ring closed: pivot %s, stretch %s = %.6f, rotation %.3g rad",
		pivot.Name(), stretch.Name(), a, q)
	return nil
}
