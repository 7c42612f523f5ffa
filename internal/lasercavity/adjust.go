package lasercavity

import "math"

// Dragging an element re-solves the cavity around it.
//
// At the start of a drag each side of the dragged element is reduced to
// a triangle anchored at the nearest pivot (an element that can turn its
// outgoing axis):
//
//	   Q             /\___
//	    |           / cc  \___
//	     \         /          \___  A
//	      |     B /               \___
//	       \     /                    \___
//	        |   /                         \___
//	         \ / aa                      bb   \___
//	          #-----------------------------------+
//	       Pivot              C                  Drag
//
// A is the stretch gap, with fixed direction and variable length. B is
// the fixed displacement of everything else between pivot and drag
// element. C runs from the pivot to the drag point. cc and the sense of
// the triangle are frozen for the whole gesture; each move solves
//
//	|C|² = |A|² + |B|² - 2|A||B|cos(cc)
//
// for |A| and the sine rule for the new pivot angle.

// dragItem is a pivot, stretch or dragged element as found at drag start.
type dragItem struct {
	index    int
	el       Element
	loc      Location
	l        Real // distance to next
	canPivot bool
}

type dragConstruct struct {
	a, b, c  Vector2
	cc       Real // rad, angle between fixed and stretch legs
	sincc    Real
	bcoscc   Real
	b2sin2cc Real
	bq       Real // rad, angle between the fixed leg and the pivot axis
	cb       Real // C×B, sense of the triangle
}

type dragSide struct {
	pivot, stretch *dragItem
	construct      *dragConstruct
}

type dragData struct {
	prev, next  dragSide
	drag        dragItem
	offset      Vector2
	stretchOnly bool
}

func (s *System) newDragItem(k int) *dragItem {
	el := s.elements[k]
	return &dragItem{
		index:    k,
		el:       el,
		loc:      el.Location(),
		l:        el.DistanceToNext(s.vars),
		canPivot: el.CanSetProperty(PropOutgoingAngle),
	}
}

func newDragConstruct(start Point, pivot, stretch *dragItem, dir Real) *dragConstruct {
	c := start.Sub(pivot.loc.Point()).Mul(-dir)
	a := direction(stretch.loc.Q).Mul(stretch.l)
	b := c.Sub(a)
	q := direction(pivot.loc.Q)
	dc := &dragConstruct{a: a, b: b, c: c, cc: math.Pi}
	if b.Len() > DragEps {
		dc.cc = math.Pi - math.Acos(a.NormDot(b))
		dc.bq = math.Asin(b.NormCross(q))
		dc.cb = c.Cross(b)
	} else {
		dc.b = Vector2{}
	}
	bn := dc.b.Len()
	dc.sincc = math.Sin(dc.cc)
	dc.bcoscc = bn * math.Cos(dc.cc)
	bsincc := bn * dc.sincc
	dc.b2sin2cc = bsincc * bsincc
	return dc
}

// findPivotStretch searches from k in direction dir for the nearest
// pivot and stretch elements. The dragged element itself is never the
// next pivot.
func (s *System) findPivotStretch(start Point, indx, k, dir int) dragSide {
	var side dragSide
	for ; k >= 0 && k < len(s.elements) && (side.pivot == nil || side.stretch == nil); k += dir {
		el := s.elements[k]
		if side.pivot == nil && el.CanSetProperty(PropOutgoingAngle) && (dir < 0 || k > indx) {
			side.pivot = s.newDragItem(k)
		}
		if side.stretch == nil && el.CanSetProperty(PropDistanceToNext) {
			side.stretch = s.newDragItem(k)
		}
	}
	if side.pivot != nil && side.stretch != nil {
		side.construct = newDragConstruct(start, side.pivot, side.stretch, Real(dir))
	}
	return side
}

// DragStart prepares to drag el from the point pt. It returns false when
// nothing around el can absorb the move.
func (s *System) DragStart(pt Point, el Element) bool {
	indx := s.indexOf(el)
	if indx < 0 {
		return false
	}
	loc := el.Location()
	start := loc.Point()
	d := &dragData{
		drag:   *s.newDragItem(indx),
		offset: start.Sub(pt),
	}
	d.prev = s.findPivotStretch(start, indx, indx-1, -1)
	d.next = s.findPivotStretch(start, indx, indx, +1)
	if d.prev.construct == nil && d.next.construct == nil {
		return false
	}
	d.stretchOnly = (d.prev.construct != nil && d.prev.construct.a.Dot(d.prev.construct.b) < 0) ||
		(d.next.construct != nil && d.next.construct.a.Dot(d.next.construct.b) < 0)
	s.drag = d
	DebugLog("Drag start %s: stretchOnly=%v", el.Name(), d.stretchOnly)
	return true
}

// Drag moves the dragged element towards pt. It reports whether the
// cavity changed; rejected moves leave the cavity as it was.
func (s *System) Drag(pt Point) bool {
	d := s.drag
	if d == nil {
		return false
	}
	pt = pt.Add(d.offset)
	saved := s.snapshot()
	var ok bool
	if d.stretchOnly {
		ok = s.dragStretch(pt)
	} else {
		ok = s.dragPivot(pt)
	}
	if ok {
		ok = s.CalculateCartesianCoordinates(0, -1) == nil
	}
	if !ok {
		s.restore(saved)
	}
	return ok
}

// DragEnd finishes the gesture.
func (s *System) DragEnd() {
	s.drag = nil
}

func (s *System) snapshot() []elementState {
	st := make([]elementState, len(s.elements))
	for k, el := range s.elements {
		st[k] = el.snapshot()
	}
	return st
}

func (s *System) restore(st []elementState) {
	for k, el := range s.elements {
		el.restore(st[k])
	}
}

// moveTo sets the position of el without touching its angles.
func moveTo(el Element, p Point) {
	st := el.snapshot()
	st.loc.X, st.loc.Y = p.X, p.Y
	el.restore(st)
}

// dragStretch only changes gap lengths along their present directions.
func (s *System) dragStretch(pt Point) bool {
	d := s.drag
	prev, next := d.prev, d.next
	if prev.construct == nil {
		st := next.stretch
		v := direction(st.loc.Q).Mul(st.l)
		end := st.loc.Point().Add(v)
		a := v.Norm().Dot(end.Sub(pt))
		if a <= 0 {
			return false
		}
		if st.el.Set(PropDistanceToNext, a) != nil {
			return false
		}
		moveTo(st.el, end.Add(v.Norm().Mul(-a)))
		return true
	}
	st := prev.stretch
	a := pt.Sub(st.loc.Point()).Dot(direction(st.loc.Q))
	if a <= 0 {
		return false
	}
	if st.el.Set(PropDistanceToNext, a) != nil {
		return false
	}
	if next.construct != nil {
		if next.stretch.el.Set(PropDistanceToNext, st.l+next.stretch.l-a) != nil {
			return false
		}
	}
	return true
}

func (s *System) dragPivot(pt Point) bool {
	d := s.drag
	switch {
	case d.prev.construct == nil:
		return s.solveSide(pt, &d.next, +1)
	case d.next.construct == nil:
		if !s.solveSide(pt, &d.prev, -1) {
			return false
		}
		return s.CalculateCartesianCoordinates(d.prev.pivot.index-1, -1) == nil
	}
	if !s.solveSide(pt, &d.prev, -1) {
		return false
	}
	if d.drag.canPivot {
		return s.pivotDrag(pt)
	}
	return s.fixedDrag()
}

// solveSide finds the new stretch length of one side of the drag and,
// when the dragged element can pivot, the new pivot angle.
//
// From the law of cosines
//
//	|A| = B cos cc ± sqrt(|C|² - B² sin² cc)
func (s *System) solveSide(pt Point, side *dragSide, dir int) bool {
	d := s.drag
	dc := side.construct
	c := pt.Sub(side.pivot.loc.Point()).Mul(-Real(dir))
	cn := c.Len()
	det := c.Dot(c) - dc.b2sin2cc
	if det < 0 || cn <= dc.b.Len() {
		return false
	}
	root := math.Sqrt(det)
	if dc.cc < math.Pi/2 {
		root = -root
	}
	// The absolute value keeps the root positive for reversed
	// prism and grating layouts.
	a := math.Abs(dc.bcoscc + root)
	if a <= 0 {
		return false
	}
	if side.stretch.el.Set(PropDistanceToNext, a) != nil {
		return false
	}
	if !d.drag.canPivot {
		return true
	}

	aa := math.Asin(clamp(dc.sincc*a/cn, -1, 1))
	q := c.Atan2() + dc.bq + sign(dc.cb)*aa
	if dir < 0 {
		side.pivot.el.SetOutgoingAngle(q, side.pivot.index == 0)
		return true
	}
	if d.prev.construct != nil {
		return true
	}

	// First element: lay out to the next pivot with no rotation, then turn
	// the first element so that the pivot returns to where it was.
	first := d.drag.el
	first.SetLocation(Axis{X: pt.X, Y: pt.Y}, s.vars)
	first.SetOutgoingAngle(0, true)
	s.walk(0, side.pivot.index)
	loc := side.pivot.el.Location()
	first.SetOutgoingAngle(c.Atan2()-loc.Point().Sub(pt).Atan2(), true)
	s.walk(0, side.pivot.index)
	side.pivot.el.SetOutgoingAngle(side.pivot.loc.Q, false)
	return true
}

// pivotDrag finishes an interior pivoting drag: solve the far side, then
// turn the dragged element so the far pivot stays in place.
func (s *System) pivotDrag(pt Point) bool {
	d := s.drag
	next := d.next
	if !s.solveSide(pt, &d.next, +1) {
		return false
	}
	s.walk(0, next.pivot.index)

	dragLoc := d.drag.el.Location()
	v := next.pivot.el.Location().Point().Sub(dragLoc.Point()).Norm()
	w := next.pivot.loc.Point().Sub(dragLoc.Point()).Norm()
	q := math.Asin(v.NormCross(w))
	d.drag.el.SetOutgoingAngle(dragLoc.Q+q, false)
	s.walk(d.prev.pivot.index, next.pivot.index)

	// The far pivot's angle is derived, not edited.
	next.pivot.el.SetOutgoingAngle(next.pivot.loc.Q, false)
	return true
}

// fixedDrag moves a non-pivoting element between its stretch legs,
// keeping their total length.
func (s *System) fixedDrag() bool {
	d := s.drag
	a := d.next.stretch.l + d.prev.stretch.l - d.prev.stretch.el.DistanceToNext(s.vars)
	if a <= 0 {
		return false
	}
	return d.next.stretch.el.Set(PropDistanceToNext, a) == nil
}
