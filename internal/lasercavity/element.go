package lasercavity

import (
	"errors"
	"fmt"
	"math"
)

// Kind is the closed set of element variants.
type Kind int

const (
	KindMirror Kind = iota
	KindLens
	KindScreen
	KindDielectric
	KindDispersion
)

var kindNames = [...]string{"Mirror", "Lens", "Screen", "Dielectric", "Dispersion"}

// Element name prefixes used by UpdateElementNames.
var kindSymbols = [...]string{"M", "L", "I", "D", "DC"}

func (k Kind) String() string { return kindNames[k] }
func (k Kind) Symbol() string { return kindSymbols[k] }

func ParseKind(s string) (Kind, error) {
	for i, n := range kindNames {
		if n == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown element type %q", s)
}

// Plane selects the transverse plane of an ABCD calculation.
type Plane int

const (
	Sagittal   Plane = 0
	Tangential Plane = 1
)

func (p Plane) String() string {
	if p == Sagittal {
		return "sagittal"
	}
	return "tangential"
}

// Direction of propagation through an element.
type Direction int

const (
	Forward  Direction = 1
	Backward Direction = -1
)

// Property names, as used by Get, Set and CanSetProperty.
type Property string

const (
	PropDistanceToNext          Property = "distanceToNext"
	PropElementDistanceToNext   Property = "elementDistanceToNext"
	PropOutgoingAngle           Property = "outgoingAngle"
	PropInsertElement           Property = "insertElement"
	PropStartOptic              Property = "startOptic"
	PropEndOptic                Property = "endOptic"
	PropDeflectionAngle         Property = "deflectionAngle"
	PropRadiusOfCurvature       Property = "radiusOfCurvature"
	PropAngleOfIncidence        Property = "angleOfIncidence"
	PropFocalLength             Property = "focalLength"
	PropType                    Property = "type"
	PropRefractiveIndex         Property = "refractiveIndex"
	PropThickness               Property = "thickness"
	PropGroupVelocityDispersion Property = "groupVelocityDispersion"
	PropIndexDispersion         Property = "indexDispersion"
	PropFaceAngle               Property = "faceAngle"
	PropCurvatureFace1          Property = "curvatureFace1"
	PropCurvatureFace2          Property = "curvatureFace2"
	PropThermalLens             Property = "thermalLens"
	PropPrismInsertion          Property = "prismInsertion"
	PropFlip                    Property = "flip"
)

var (
	ErrUnknownProperty  = errors.New("unknown property")
	ErrReadOnlyProperty = errors.New("property cannot be set")
)

// PropertyDescriptor describes one user-editable property, in display order.
type PropertyDescriptor struct {
	Name      Property
	Unit      string
	Increment Real
	Min, Max  Real // used when HasRange
	HasRange  bool
	Wrap      Real     // angles wrap at ±Wrap when non-zero
	Standard  []Real   // stock values, e.g. mirror radii
	Options   []string // enumerated values
	Boolean   bool
}

// Element is one node of the cavity chain.
//
// Angle-valued properties are read and written in degrees through Get and
// Set; SetOutgoingAngle, SetDeflection and Location use radians.
// Boolean properties read as 0 or 1.
type Element interface {
	Kind() Kind
	Name() string
	SetName(name string)

	// Location returns the current placement; SetLocation places the element
	// on the incoming axis ax and returns the new placement.
	Location() Location
	SetLocation(ax Axis, vars Variables) Location
	// SetOutgoingAngle rotates the outgoing axis. The first element of a
	// chain stores q directly; other pivots change their deflection.
	SetOutgoingAngle(q Real, first bool)
	// SetDeflection sets the deflection angle, where the kind supports it.
	SetDeflection(q Real)

	DistanceToNext(vars Variables) Real
	// SpaceRefractiveIndex is the index of the gap after the element.
	SpaceRefractiveIndex(vars Variables) Real
	ElementABCD(dir Direction, plane Plane, vars Variables) Matrix2x2
	// GroupDelayDispersion returns the element's GDD contribution (fs²)
	// and false when the element contributes nothing.
	GroupDelayDispersion(wavelength Real, vars Variables) (Real, bool)

	Get(prop Property, vars Variables) (Real, error)
	Set(prop Property, value interface{}) error
	CanSetProperty(prop Property) bool
	UserProperties() []PropertyDescriptor

	snapshot() elementState
	restore(elementState)
}

// elementState is the part of an element the geometry solvers mutate.
type elementState struct {
	loc      Location
	distance Equation
	angle    Equation
}

// base carries the fields every element kind shares.
type base struct {
	name     string
	loc      Location
	distance Equation // mm
}

func (b *base) Name() string        { return b.name }
func (b *base) SetName(name string) { b.name = name }
func (b *base) Location() Location  { return b.loc }

// place puts the element on ax with no deflection.
func (b *base) place(ax Axis) Location {
	b.loc = Location{X: ax.X, Y: ax.Y, P: ax.Q, Q: ax.Q}
	return b.loc
}

func (b *base) DistanceToNext(vars Variables) Real {
	return b.distance.Value(vars)
}

func (b *base) SpaceRefractiveIndex(Variables) Real { return 1 }

func (b *base) GroupDelayDispersion(Real, Variables) (Real, bool) { return 0, false }

func (b *base) snapshot() elementState { return elementState{loc: b.loc, distance: b.distance} }

func (b *base) restore(s elementState) {
	b.loc = s.loc
	b.distance = s.distance
}

// setClamped stores value in dst, clamping plain numbers to [lo, hi].
func setClamped(dst *Equation, value interface{}, lo, hi Real) error {
	var e Equation
	if err := e.Set(value); err != nil {
		return err
	}
	if !e.IsExpression() {
		e = Num(clamp(e.Value(Variables{}), lo, hi))
	}
	*dst = e
	return nil
}

// realValue evaluates a number or constant expression.
func realValue(value interface{}) (Real, error) {
	var e Equation
	if err := e.Set(value); err != nil {
		return 0, err
	}
	return e.Value(Variables{}), nil
}

func boolValue(value interface{}) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case Real:
		return v != 0, nil
	case int:
		return v != 0, nil
	case string:
		return v == "true" || v == "1", nil
	}
	return false, fmt.Errorf("%w: not a boolean: %T", ErrInvalidExpression, value)
}

func b2f(b bool) Real {
	if b {
		return 1
	}
	return 0
}

// materialGDD is the group-delay dispersion (fs²) of length mm of
// material with group-velocity dispersion gvd (d²n/dλ², 1/um²) at
// wavelength nm.
func materialGDD(wavelength, gvd, length Real) Real {
	c := SpeedOfLightUmFs
	return 1e-6 * wavelength * wavelength * wavelength / (2 * math.Pi * c * c) * gvd * length
}
