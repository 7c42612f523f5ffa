package lasercavity

import "fmt"

var configurationNames = map[Configuration]string{
	ConfigLinear:      "Linear resonator",
	ConfigRing:        "Ring resonator",
	ConfigEndcap:      "End coated resonator",
	ConfigUltrafast:   "Ultrafast resonator",
	ConfigPropagation: "Propagation",
}

func mirror(roc, aoi, d Real) *Mirror {
	return &Mirror{base: base{name: "M", distance: Num(d)}, radius: Num(roc), incidence: Num(aoi)}
}

func screen(d Real) *Screen {
	return &Screen{base: base{name: "I", distance: Num(d)}}
}

// NewSystem builds the default cavity for a configuration and lays it out.
func NewSystem(c Configuration) (*System, error) {
	s := newSystem(c)
	s.Name = configurationNames[c]
	var start Location
	switch c {
	case ConfigLinear:
		s.Append(mirror(200, 0, 250), mirror(200, 0, 0))
		start = Location{X: -125}
	case ConfigRing:
		s.Append(mirror(0, 0, 250), mirror(0, -30, 250), mirror(500, -30, 0))
		start = Location{X: -125, Y: 80}
	case ConfigEndcap:
		g := NewDielectricGroup(Endcap)
		g.roc1 = Num(-200)
		g.thickness = Num(50)
		g.output.distance = Num(200)
		s.Append(g.Members()...)
		s.Append(mirror(200, 0, 0))
		start = Location{X: -125}
	case ConfigPropagation:
		s.Append(screen(250), screen(0))
		start = Location{X: -125}
	case ConfigUltrafast:
		s.wavelength = Num(800)
		g := NewDielectricGroup(Crystal)
		g.index = Num(1.76)
		g.gvd = Num(0.064)
		g.incidence = Num(60)
		g.face = Num(29.62)
		g.thickness = Num(2)
		g.output.distance = Num(105)
		p := NewPrismPair()
		p.first.distance = Num(217)
		p.second.distance = Num(40)
		s.Append(mirror(0, 0, 300), mirror(200, 9, 105))
		s.Append(g.Members()...)
		s.Append(mirror(200, 9, 170))
		s.Append(p.Members()...)
		s.Append(mirror(0, 0, 0))
		start = Location{X: -150, Q: 0.3}
	default:
		return nil, fmt.Errorf("unknown configuration %q", c)
	}
	s.PlaceStart(start.X, start.Y, start.Q)
	if err := s.CalculateCartesianCoordinates(0, -1); err != nil {
		return nil, err
	}
	return s, nil
}

// PlaceStart moves the first element to (x, y) with outgoing axis q (rad).
// Coordinates are not recomputed.
func (s *System) PlaceStart(x, y, q Real) {
	if len(s.elements) == 0 {
		return
	}
	el := s.elements[0]
	el.SetLocation(Axis{X: x, Y: y, Q: q}, s.vars)
	el.SetOutgoingAngle(q, true)
}
