package lasercavity

import "fmt"

// Lens is a thin lens. Inside a dielectric block it is the block's
// thermal lens and takes its focal length, index and spacing from the
// block.
type Lens struct {
	base
	focal Equation // mm, 0 for no lens
	group *DielectricGroup
}

func NewLens() *Lens {
	return &Lens{base: base{name: "L"}}
}

func (l *Lens) Kind() Kind { return KindLens }

// IsThermalLens reports whether the lens belongs to a dielectric block.
func (l *Lens) IsThermalLens() bool { return l.group != nil }

// Group returns the owning dielectric block, or nil.
func (l *Lens) Group() *DielectricGroup { return l.group }

func (l *Lens) focalLength(vars Variables) Real {
	if l.group != nil {
		return l.group.thermalLens.Value(vars)
	}
	return l.focal.Value(vars)
}

func (l *Lens) SetLocation(ax Axis, _ Variables) Location { return l.place(ax) }

func (l *Lens) SetOutgoingAngle(Real, bool) {}
func (l *Lens) SetDeflection(Real)          {}

func (l *Lens) DistanceToNext(vars Variables) Real {
	if l.group != nil {
		return l.group.geometry(vars).lensLeg
	}
	return l.base.DistanceToNext(vars)
}

func (l *Lens) SpaceRefractiveIndex(vars Variables) Real {
	if l.group != nil {
		return l.group.refractiveIndex(vars)
	}
	return 1
}

func (l *Lens) ElementABCD(_ Direction, _ Plane, vars Variables) Matrix2x2 {
	f := l.focalLength(vars)
	if f == 0 {
		return I2()
	}
	return Matrix2x2{A: 1, C: -1 / f, D: 1}
}

func (l *Lens) Get(prop Property, vars Variables) (Real, error) {
	switch prop {
	case PropDistanceToNext:
		return l.DistanceToNext(vars), nil
	case PropFocalLength:
		return l.focalLength(vars), nil
	case PropRefractiveIndex:
		return l.SpaceRefractiveIndex(vars), nil
	case PropOutgoingAngle:
		return deg(l.loc.Q), nil
	}
	return 0, fmt.Errorf("%w: lens %s", ErrUnknownProperty, prop)
}

func (l *Lens) Set(prop Property, value interface{}) error {
	switch prop {
	case PropDistanceToNext:
		if l.group != nil {
			return fmt.Errorf("%w: %s of thermal lens", ErrReadOnlyProperty, prop)
		}
		return l.distance.Set(value)
	case PropFocalLength:
		if l.group != nil {
			return l.group.thermalLens.Set(value)
		}
		return l.focal.Set(value)
	}
	return fmt.Errorf("%w: lens %s", ErrUnknownProperty, prop)
}

func (l *Lens) CanSetProperty(prop Property) bool {
	switch prop {
	case PropDistanceToNext, PropInsertElement:
		return l.group == nil
	case PropFocalLength:
		return true
	}
	return false
}

func (l *Lens) UserProperties() []PropertyDescriptor {
	props := []PropertyDescriptor{{Name: PropFocalLength, Unit: "mm", Increment: 5}}
	if l.CanSetProperty(PropDistanceToNext) {
		props = append(props, distanceDescriptor)
	}
	return props
}
