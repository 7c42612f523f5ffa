package lasercavity

import (
	"fmt"
	"math"
)

// Standard mirror radii of curvature (mm).
var standardRadii = []Real{
	-1000, -750, -500, -400, -300, -250, -200, -175, -150, -125, -100, -75, -50, -25, 0,
	25, 50, 75, 100, 125, 150, 175, 200, 250, 300, 400, 500, 750, 1000,
}

// Mirror is a flat or spherical reflector. Its angle of incidence sets the
// deflection of the beam axis.
type Mirror struct {
	base
	startOptic, endOptic bool
	radius               Equation // mm, 0 for flat
	incidence            Equation // deg
}

// NewMirror returns a flat mirror at 90° incidence, i.e. no deflection.
func NewMirror() *Mirror {
	return &Mirror{base: base{name: "M"}, incidence: Num(90)}
}

func (m *Mirror) Kind() Kind { return KindMirror }

func (m *Mirror) angleOfIncidence(vars Variables) Real { return rad(m.incidence.Value(vars)) }

// deflection is the rotation of the axis at the mirror (rad). Normal
// incidence folds the beam straight back.
func (m *Mirror) deflection(vars Variables) Real {
	i := m.angleOfIncidence(vars)
	s := 1.0
	if i < 0 {
		s = -1
	}
	return s * (math.Pi - 2*math.Abs(i))
}

func (m *Mirror) SetLocation(ax Axis, vars Variables) Location {
	m.place(ax)
	m.loc.Q += m.deflection(vars)
	return m.loc
}

func (m *Mirror) SetOutgoingAngle(q Real, first bool) {
	if first {
		m.loc.Q = q
		return
	}
	m.SetDeflection(q - m.loc.P)
}

func (m *Mirror) SetDeflection(q Real) {
	q = wrapAngle(q)
	s := 1.0
	if q < 0 {
		s = -1
	}
	m.incidence = Num(deg(s * (math.Pi - math.Abs(q)) / 2))
}

// ElementABCD uses the effective radius R/cosθ (sagittal) or R·cosθ
// (tangential).
func (m *Mirror) ElementABCD(_ Direction, plane Plane, vars Variables) Matrix2x2 {
	r := m.radius.Value(vars)
	if r == 0 {
		return I2()
	}
	c := math.Cos(m.angleOfIncidence(vars))
	re := r / c
	if plane == Tangential {
		re = r * c
	}
	return Matrix2x2{A: 1, C: -2 / re, D: 1}
}

func (m *Mirror) Get(prop Property, vars Variables) (Real, error) {
	switch prop {
	case PropDistanceToNext:
		return m.DistanceToNext(vars), nil
	case PropRadiusOfCurvature:
		return m.radius.Value(vars), nil
	case PropAngleOfIncidence:
		return m.incidence.Value(vars), nil
	case PropDeflectionAngle:
		return deg(m.deflection(vars)), nil
	case PropOutgoingAngle:
		return deg(m.loc.Q), nil
	case PropStartOptic:
		return b2f(m.startOptic), nil
	case PropEndOptic:
		return b2f(m.endOptic), nil
	}
	return 0, fmt.Errorf("%w: mirror %s", ErrUnknownProperty, prop)
}

func (m *Mirror) Set(prop Property, value interface{}) error {
	switch prop {
	case PropDistanceToNext:
		return m.distance.Set(value)
	case PropRadiusOfCurvature:
		return m.radius.Set(value)
	case PropAngleOfIncidence:
		return m.incidence.Set(value)
	case PropDeflectionAngle, PropOutgoingAngle:
		v, err := realValue(value)
		if err != nil {
			return err
		}
		q := rad(v)
		if prop == PropDeflectionAngle {
			m.SetDeflection(q)
		} else {
			m.SetOutgoingAngle(q, m.startOptic)
		}
		return nil
	case PropStartOptic, PropEndOptic:
		b, err := boolValue(value)
		if err != nil {
			return err
		}
		if prop == PropStartOptic {
			m.startOptic = b
		} else {
			m.endOptic = b
		}
		return nil
	}
	return fmt.Errorf("%w: mirror %s", ErrUnknownProperty, prop)
}

func (m *Mirror) CanSetProperty(prop Property) bool {
	switch prop {
	case PropAngleOfIncidence, PropDeflectionAngle:
		return !(m.startOptic || m.endOptic)
	case PropDistanceToNext, PropInsertElement:
		return !m.endOptic
	case PropOutgoingAngle, PropRadiusOfCurvature:
		return true
	}
	return false
}

func (m *Mirror) UserProperties() []PropertyDescriptor {
	props := []PropertyDescriptor{
		{Name: PropRadiusOfCurvature, Unit: "mm", Increment: 5, Standard: standardRadii},
	}
	if m.CanSetProperty(PropAngleOfIncidence) {
		props = append(props, PropertyDescriptor{Name: PropAngleOfIncidence, Unit: "deg", Increment: 1, Wrap: 90})
	}
	if m.CanSetProperty(PropDistanceToNext) {
		props = append(props, distanceDescriptor)
	}
	return props
}

func (m *Mirror) snapshot() elementState {
	s := m.base.snapshot()
	s.angle = m.incidence
	return s
}

func (m *Mirror) restore(s elementState) {
	m.base.restore(s)
	m.incidence = s.angle
}

var distanceDescriptor = PropertyDescriptor{Name: PropDistanceToNext, Unit: "mm", Increment: 5, Min: 0, Max: math.Inf(1), HasRange: true}
