package lasercavity

import (
	"fmt"
	"math"
)

// PrismPair owns the properties of a Brewster prism-pair compressor. The
// first prism's distance to next is the prism separation.
type PrismPair struct {
	flip            bool
	insertion       Equation // mm
	index           Equation
	indexDispersion Equation // dn/dλ, 1/um
	gvd             Equation // d²n/dλ², 1/um²

	first, second *Dispersion
}

func NewPrismPair() *PrismPair {
	p := &PrismPair{index: Num(DefaultIndex)}
	p.first = &Dispersion{base: base{name: "DC"}, pair: p, role: RolePrismA}
	p.second = &Dispersion{base: base{name: "DC"}, pair: p, role: RolePrismB}
	return p
}

func (p *PrismPair) Members() []Element { return []Element{p.first, p.second} }
func (p *PrismPair) Flip() bool         { return p.flip }

func (p *PrismPair) refractiveIndex(vars Variables) Real {
	return math.Max(1, p.index.Value(vars))
}

type prismGeometry struct {
	apex           Real // rad
	deflection     Real // rad, applied by the first prism
	internalLength Real // mm, both prisms
}

// brewsterPrism derives the geometry of a prism cut for minimum
// deviation at Brewster's angle.
func brewsterPrism(n, insertion Real, flip bool) prismGeometry {
	qB := brewsterAngle(n)
	a := math.Pi - 2*qB
	q2 := internalAngle(qB, n)
	d := 2 * (qB - q2)
	if !flip {
		d = -d
	}
	return prismGeometry{apex: a, deflection: d, internalLength: 2 * insertion * math.Tan(a)}
}

func (p *PrismPair) geometry(vars Variables) prismGeometry {
	return brewsterPrism(p.refractiveIndex(vars), p.insertion.Value(vars), p.flip)
}

// Dispersion is one prism of a prism pair.
type Dispersion struct {
	base
	pair *PrismPair
	role Role
}

func (d *Dispersion) Kind() Kind        { return KindDispersion }
func (d *Dispersion) Pair() *PrismPair  { return d.pair }
func (d *Dispersion) Role() Role        { return d.role }
func (d *Dispersion) isFirst() bool     { return d.role == RolePrismA }
func (d *Dispersion) SetDeflection(Real) {}

// deflection is undone by the second prism, so the pair output is
// parallel to its input.
func (d *Dispersion) deflection(vars Variables) Real {
	q := d.pair.geometry(vars).deflection
	if d.isFirst() {
		return q
	}
	return -q
}

func (d *Dispersion) SetLocation(ax Axis, vars Variables) Location {
	d.place(ax)
	d.loc.Q += d.deflection(vars)
	return d.loc
}

func (d *Dispersion) SetOutgoingAngle(q Real, first bool) {
	if first {
		d.loc.Q = q
	}
}

func (d *Dispersion) ElementABCD(Direction, Plane, Variables) Matrix2x2 { return I2() }

// GroupDelayDispersion combines the angular dispersion of the separation
// with the material dispersion of the inserted glass.
func (d *Dispersion) GroupDelayDispersion(wavelength Real, vars Variables) (Real, bool) {
	if !d.isFirst() {
		return 0, false
	}
	p := d.pair
	c := SpeedOfLightUmFs
	l3pic2 := wavelength * wavelength * wavelength / (math.Pi * c * c)
	dndl := p.indexDispersion.Value(vars)
	sep := d.DistanceToNext(vars)
	gdd := -1e-6 * sep * 2 * l3pic2 * dndl * dndl
	gdd += materialGDD(wavelength, p.gvd.Value(vars), p.geometry(vars).internalLength)
	return gdd, true
}

func (d *Dispersion) Get(prop Property, vars Variables) (Real, error) {
	p := d.pair
	switch prop {
	case PropDistanceToNext:
		return d.DistanceToNext(vars), nil
	case PropType:
		return Real(Prism), nil
	case PropFlip:
		return b2f(p.flip), nil
	case PropPrismInsertion:
		return p.insertion.Value(vars), nil
	case PropRefractiveIndex:
		return p.refractiveIndex(vars), nil
	case PropIndexDispersion:
		return p.indexDispersion.Value(vars), nil
	case PropGroupVelocityDispersion:
		return p.gvd.Value(vars), nil
	case PropAngleOfIncidence:
		q := brewsterAngle(p.refractiveIndex(vars))
		if p.flip {
			q = -q
		}
		return deg(q), nil
	case PropDeflectionAngle:
		return deg(d.deflection(vars)), nil
	case PropOutgoingAngle:
		return deg(d.loc.Q), nil
	}
	return 0, fmt.Errorf("%w: dispersion %s", ErrUnknownProperty, prop)
}

func (d *Dispersion) Set(prop Property, value interface{}) error {
	p := d.pair
	switch prop {
	case PropDistanceToNext:
		return d.distance.Set(value)
	case PropType:
		// prism pairs only, for now
		switch v := value.(type) {
		case BlockType:
			if v == Prism {
				return nil
			}
		case string:
			if v == Prism.String() {
				return nil
			}
		}
		return fmt.Errorf("%w: dispersion type %v", ErrInvalidExpression, value)
	case PropFlip:
		b, err := boolValue(value)
		if err != nil {
			return err
		}
		p.flip = b
		return nil
	case PropPrismInsertion:
		return p.insertion.Set(value)
	case PropRefractiveIndex:
		return setClamped(&p.index, value, 1, math.Inf(1))
	case PropIndexDispersion:
		return p.indexDispersion.Set(value)
	case PropGroupVelocityDispersion:
		return p.gvd.Set(value)
	}
	return fmt.Errorf("%w: dispersion %s", ErrUnknownProperty, prop)
}

func (d *Dispersion) CanSetProperty(prop Property) bool {
	switch prop {
	case PropDistanceToNext, PropType, PropFlip, PropPrismInsertion,
		PropRefractiveIndex, PropIndexDispersion, PropGroupVelocityDispersion:
		return true
	case PropInsertElement:
		return d.role == RolePrismB
	}
	return false
}

func (d *Dispersion) UserProperties() []PropertyDescriptor {
	return []PropertyDescriptor{
		{Name: PropType, Options: []string{Prism.String()}},
		distanceDescriptor,
		{Name: PropPrismInsertion, Unit: "mm", Increment: 0.5, Min: 0, Max: math.Inf(1), HasRange: true},
		{Name: PropRefractiveIndex, Increment: 0.1, Min: 1, Max: math.Inf(1), HasRange: true},
		{Name: PropIndexDispersion, Unit: "1/um", Increment: 0.001},
		{Name: PropGroupVelocityDispersion, Unit: "1/um²", Increment: 0.001},
		{Name: PropFlip, Boolean: true},
	}
}
