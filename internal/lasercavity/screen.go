package lasercavity

import "fmt"

// Screen is a pass-through marker, used for the ends of a single-pass
// propagation and as an inspection plane.
type Screen struct {
	base
	startOptic, endOptic bool
}

func NewScreen() *Screen {
	return &Screen{base: base{name: "I"}}
}

func (s *Screen) Kind() Kind { return KindScreen }

func (s *Screen) SetLocation(ax Axis, _ Variables) Location { return s.place(ax) }

func (s *Screen) SetOutgoingAngle(q Real, first bool) {
	if first {
		s.loc.Q = q
	}
}

func (s *Screen) SetDeflection(Real) {}

func (s *Screen) ElementABCD(Direction, Plane, Variables) Matrix2x2 { return I2() }

func (s *Screen) Get(prop Property, vars Variables) (Real, error) {
	switch prop {
	case PropDistanceToNext:
		return s.DistanceToNext(vars), nil
	case PropOutgoingAngle:
		return deg(s.loc.Q), nil
	case PropStartOptic:
		return b2f(s.startOptic), nil
	case PropEndOptic:
		return b2f(s.endOptic), nil
	}
	return 0, fmt.Errorf("%w: screen %s", ErrUnknownProperty, prop)
}

func (s *Screen) Set(prop Property, value interface{}) error {
	switch prop {
	case PropDistanceToNext:
		return s.distance.Set(value)
	case PropOutgoingAngle:
		v, err := realValue(value)
		if err != nil {
			return err
		}
		s.SetOutgoingAngle(rad(v), s.startOptic)
		return nil
	case PropStartOptic, PropEndOptic:
		b, err := boolValue(value)
		if err != nil {
			return err
		}
		if prop == PropStartOptic {
			s.startOptic = b
		} else {
			s.endOptic = b
		}
		return nil
	}
	return fmt.Errorf("%w: screen %s", ErrUnknownProperty, prop)
}

func (s *Screen) CanSetProperty(prop Property) bool {
	switch prop {
	case PropDistanceToNext, PropInsertElement:
		return true
	case PropOutgoingAngle:
		return s.startOptic || s.endOptic
	}
	return false
}

func (s *Screen) UserProperties() []PropertyDescriptor {
	return []PropertyDescriptor{distanceDescriptor}
}
