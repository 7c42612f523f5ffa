package lasercavity

import (
	"errors"
	"fmt"
	"math"
)

// Configuration is the cavity topology.
type Configuration string

const (
	ConfigLinear      Configuration = "linear"      // two end mirrors, retraced
	ConfigRing        Configuration = "ring"        // closed loop
	ConfigEndcap      Configuration = "endcap"      // end-coated dielectric as first element
	ConfigUltrafast   Configuration = "ultrafast"   // dispersion-compensated linear cavity
	ConfigPropagation Configuration = "propagation" // single pass from a given waist
)

var Configurations = []Configuration{ConfigLinear, ConfigRing, ConfigEndcap, ConfigUltrafast, ConfigPropagation}

func ParseConfiguration(s string) (Configuration, error) {
	for _, c := range Configurations {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown configuration %q", s)
}

var (
	ErrNotRemovable = errors.New("element cannot be removed")
	ErrNoSegment    = errors.New("no segment accepts the element")
)

// System is the ordered chain of elements making up a cavity. It is not
// safe for concurrent use.
type System struct {
	Name          string
	configuration Configuration
	wavelength    Equation // nm
	initialWaist  Equation // um, propagation only
	vars          Variables
	elements      []Element
	offset        int // ring rotation applied by MoveStart
	drag          *dragData
}

// newSystem returns an empty chain.
func newSystem(c Configuration) *System {
	return &System{
		configuration: c,
		wavelength:    Num(Wavelength),
		initialWaist:  Num(InitialWaist),
	}
}

func (s *System) Configuration() Configuration { return s.configuration }

// SetConfiguration switches the topology. A ring needs at least
// RingMinMirrors mirrors.
func (s *System) SetConfiguration(c Configuration) error {
	if c == ConfigRing && s.countMirrors() < RingMinMirrors {
		return fmt.Errorf("ring needs %d mirrors, have %d", RingMinMirrors, s.countMirrors())
	}
	s.configuration = c
	s.updateEndFlags()
	return nil
}

func (s *System) Wavelength() Real   { return s.wavelength.Value(s.vars) }
func (s *System) InitialWaist() Real { return s.initialWaist.Value(s.vars) }

func (s *System) SetWavelength(value interface{}) error   { return s.wavelength.Set(value) }
func (s *System) SetInitialWaist(value interface{}) error { return s.initialWaist.Set(value) }

// Variables returns the scan-variable context all reads use.
func (s *System) Variables() Variables     { return s.vars }
func (s *System) SetVariables(v Variables) { s.vars = v }

func (s *System) Len() int                 { return len(s.elements) }
func (s *System) Element(k int) Element    { return s.elements[k] }
func (s *System) Elements() []Element      { return append([]Element(nil), s.elements...) }
func (s *System) isRing() bool             { return s.configuration == ConfigRing }
func (s *System) isPropagation() bool      { return s.configuration == ConfigPropagation }
func (s *System) last() int                { return len(s.elements) - 1 }
func (s *System) IndexOf(el Element) int   { return s.indexOf(el) }
func (s *System) Offset() int              { return s.offset }

// IterateElements calls fn for each element in chain order until it
// returns false.
func (s *System) IterateElements(fn func(k int, el Element) bool) {
	for k, el := range s.elements {
		if !fn(k, el) {
			return
		}
	}
}

func (s *System) indexOf(el Element) int {
	for k, e := range s.elements {
		if e == el {
			return k
		}
	}
	return -1
}

// Append adds elements at the end of the chain, as when building a
// cavity from a description.
func (s *System) Append(els ...Element) {
	s.elements = append(s.elements, els...)
	s.updateEndFlags()
	s.UpdateElementNames()
}

func (s *System) countMirrors() int {
	n := 0
	for _, el := range s.elements {
		if el.Kind() == KindMirror {
			n++
		}
	}
	return n
}

// updateEndFlags marks the first element as the start optic and, except
// in a ring, the last as the end optic.
func (s *System) updateEndFlags() {
	for k, el := range s.elements {
		start := k == 0
		end := k == s.last() && !s.isRing()
		switch e := el.(type) {
		case *Mirror:
			e.startOptic, e.endOptic = start, end
		case *Screen:
			e.startOptic, e.endOptic = start, end
		}
	}
}

// UpdateElementNames names elements by kind and position, e.g. M1, M2, L1.
func (s *System) UpdateElementNames() {
	count := map[Kind]int{}
	for _, el := range s.elements {
		k := el.Kind()
		count[k]++
		el.SetName(fmt.Sprintf("%s%d", k.Symbol(), count[k]))
	}
}

// Segment is the point of a gap closest to a query point.
type Segment struct {
	Index    int   // element the gap follows
	Z        Real  // distance along the gap (mm)
	Length   Real  // gap length (mm)
	Point    Point // closest point on the gap
	Q        Real  // axis angle (rad)
	Distance Real  // from the query point (mm)
}

// SegmentNearLocation finds the gap closest to pt, considering only gaps
// after elements that can set filter (all gaps when filter is empty).
func (s *System) SegmentNearLocation(pt Point, filter Property) (Segment, bool) {
	var best Segment
	found := false
	kmax := len(s.elements) - 1
	if s.isRing() {
		kmax = len(s.elements)
	}
	for k := 0; k < kmax; k++ {
		el := s.elements[k]
		if filter != "" && !el.CanSetProperty(filter) {
			continue
		}
		loc := el.Location()
		zMax := el.DistanceToNext(s.vars)
		v := direction(loc.Q)
		z := clamp(v.Dot(pt.Sub(loc.Point())), 0, math.Max(0, zMax))
		on := loc.Point().Add(v.Mul(z))
		r := pt.Sub(on).Len()
		if !found || r < best.Distance {
			best = Segment{Index: k, Z: z, Length: zMax, Point: on, Q: loc.Q, Distance: r}
			found = true
		}
	}
	return best, found
}

// ElementNearLocation returns the element within tol of pt, or nil.
// Dielectric blocks are hit anywhere along their thickness.
func (s *System) ElementNearLocation(pt Point, tol Real) Element {
	for _, el := range s.elements {
		loc := el.Location()
		if d, ok := el.(*Dielectric); ok {
			if d.Role() != RoleInput {
				continue
			}
			u := pt.Sub(loc.Point()).Rotate(-loc.Q)
			if math.Abs(u.Y) < tol && u.X > -tol && u.X < d.group.geometry(s.vars).length+tol {
				return el
			}
			continue
		}
		if math.Abs(loc.X-pt.X) < tol && math.Abs(loc.Y-pt.Y) < tol {
			return el
		}
	}
	return nil
}

// InsertElement splits the gap nearest pt and inserts a new element of the
// given kind. Dielectric blocks and prism pairs are inserted with all
// their members; the created elements are returned in chain order.
func (s *System) InsertElement(pt Point, kind Kind) ([]Element, error) {
	seg, ok := s.SegmentNearLocation(pt, PropInsertElement)
	if !ok {
		return nil, ErrNoSegment
	}
	prev := s.elements[seg.Index]
	segLen, z := seg.Length, seg.Z
	var created []Element
	prevDist := z
	switch kind {
	case KindMirror, KindLens, KindScreen:
		var el Element
		switch kind {
		case KindMirror:
			el = NewMirror()
		case KindLens:
			el = NewLens()
		default:
			el = NewScreen()
		}
		if err := el.Set(PropDistanceToNext, segLen-z); err != nil {
			return nil, err
		}
		created = []Element{el}
	case KindDielectric:
		g := NewDielectricGroup(Plate)
		length := g.geometry(s.vars).length
		g.output.distance = Num(math.Max(0, segLen-z-length/2))
		prevDist = math.Max(0, z-length/2)
		created = g.Members()
	case KindDispersion:
		p := NewPrismPair()
		rem := math.Max(0, segLen-z)
		p.first.distance = Num(rem / 2)
		p.second.distance = Num(rem - rem/2)
		created = p.Members()
	default:
		return nil, fmt.Errorf("cannot insert %v", kind)
	}
	if err := prev.Set(PropDistanceToNext, prevDist); err != nil {
		return nil, err
	}

	k := seg.Index + 1
	els := make([]Element, 0, len(s.elements)+len(created))
	els = append(els, s.elements[:k]...)
	els = append(els, created...)
	els = append(els, s.elements[k:]...)
	s.elements = els
	s.updateEndFlags()
	s.UpdateElementNames()
	DebugLog("Inserted %s after %s at z=%.3f", created[0].Name(), prev.Name(), z)
	return created, s.CalculateCartesianCoordinates(0, -1)
}

// groupSpan returns the chain index range [k0, k1] of the group el
// belongs to, or of el alone.
func (s *System) groupSpan(el Element) (int, int) {
	var first, last Element = el, el
	switch e := el.(type) {
	case *Dielectric:
		first, last = e.group.input, e.group.output
	case *Lens:
		if e.group != nil {
			first, last = e.group.input, e.group.output
		}
	case *Dispersion:
		first, last = e.pair.first, e.pair.second
	}
	return s.indexOf(first), s.indexOf(last)
}

// CanRemoveElement reports whether RemoveElement would succeed. The
// first and last elements are fixed, and a ring keeps at least
// RingMinMirrors mirrors.
func (s *System) CanRemoveElement(el Element) bool {
	k0, k1 := s.groupSpan(el)
	if k0 < 1 || k1 < 0 || k1 > len(s.elements)-2 {
		return false
	}
	if s.isRing() && el.Kind() == KindMirror && s.countMirrors()-1 < RingMinMirrors {
		return false
	}
	return true
}

// RemoveElement removes el (its whole group, for grouped elements) and
// adds its length to the preceding gap.
func (s *System) RemoveElement(el Element) error {
	if !s.CanRemoveElement(el) {
		return fmt.Errorf("%w: %s", ErrNotRemovable, el.Name())
	}
	k0, k1 := s.groupSpan(el)
	prev := s.elements[k0-1]
	add := 0.0
	switch e := s.elements[k0].(type) {
	case *Dielectric:
		add = math.Max(0, e.group.thickness.Value(s.vars)) + e.group.output.DistanceToNext(s.vars)
	case *Dispersion:
		add = e.pair.first.DistanceToNext(s.vars) + e.pair.second.DistanceToNext(s.vars)
	default:
		add = e.DistanceToNext(s.vars)
	}
	if err := prev.Set(PropDistanceToNext, prev.DistanceToNext(s.vars)+add); err != nil {
		return err
	}
	s.elements = append(s.elements[:k0:k0], s.elements[k1+1:]...)
	s.updateEndFlags()
	s.UpdateElementNames()
	return s.CalculateCartesianCoordinates(0, -1)
}

// MoveStart rotates a ring so that the next mirror (dir > 0) or the
// previous one (dir < 0) becomes the first element. It returns the number
// of elements moved from the front to the back. Locations are not
// recomputed; call Update or CalculateCartesianCoordinates afterwards.
func (s *System) MoveStart(dir int) int {
	if !s.isRing() {
		return 0
	}
	isMirror := func(k int) bool { return s.elements[k].Kind() == KindMirror }
	count := 0
	if dir < 0 {
		for k := s.last(); k > 0; k-- {
			if isMirror(k) {
				count = k
				break
			}
		}
	} else {
		for k := 1; k < len(s.elements); k++ {
			if isMirror(k) {
				count = k
				break
			}
		}
	}
	if count == 0 {
		return 0
	}
	n := len(s.elements)
	s.offset = (s.offset + n - count) % n
	s.elements = append(s.elements[count:], s.elements[:count]...)
	s.updateEndFlags()
	return count
}

// Update runs the ordered pipeline: apply edit, lay out the chain, solve
// the ABCD model and hand the result to emit.
func (s *System) Update(edit func(*System) error, emit func(*SolveResult)) (*SolveResult, error) {
	if edit != nil {
		if err := edit(s); err != nil {
			return nil, err
		}
	}
	if err := s.CalculateCartesianCoordinates(0, -1); err != nil {
		return nil, err
	}
	res := s.CalculateABCD()
	if emit != nil {
		emit(res)
	}
	return res, nil
}
