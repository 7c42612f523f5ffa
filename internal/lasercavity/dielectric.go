package lasercavity

import (
	"fmt"
	"math"
)

// BlockType is the cut of a dielectric block.
type BlockType int

const (
	Plate    BlockType = iota // plate at an arbitrary incidence angle
	Brewster                  // plate at Brewster's angle
	Crystal                   // face angle given relative to the internal beam
	Prism                     // Brewster-angled prism
	Endcap                    // end-coated block, first element of the cavity
)

var blockTypeNames = [...]string{"Plate", "Brewster", "Crystal", "Prism", "Endcap"}

func (t BlockType) String() string { return blockTypeNames[t] }

func ParseBlockType(s string) (BlockType, error) {
	for i, n := range blockTypeNames {
		if n == s {
			return BlockType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown block type %q", s)
}

func (t BlockType) brewsterCut() bool { return t == Brewster || t == Prism }

// Role is the position of an element within its group.
type Role int

const (
	RoleInput Role = iota
	RoleThermalLens
	RoleOutput
	RolePrismA
	RolePrismB
)

// DielectricGroup owns the properties of one dielectric block. The chain
// holds its three members in order: input face, thermal lens, output face.
type DielectricGroup struct {
	blockType   BlockType
	flip        bool
	index       Equation
	gvd         Equation // d²n/dλ², 1/um²
	incidence   Equation // deg, Plate only
	face        Equation // deg, Crystal and Endcap only
	roc1, roc2  Equation // mm, 0 for flat
	thermalLens Equation // mm, 0 for none
	thickness   Equation // mm

	input  *Dielectric
	lens   *Lens
	output *Dielectric
}

// NewDielectricGroup creates a block of the given type with default index
// and thickness.
func NewDielectricGroup(t BlockType) *DielectricGroup {
	g := &DielectricGroup{
		blockType: t,
		index:     Num(DefaultIndex),
		thickness: Num(DefaultThickness),
	}
	g.input = &Dielectric{base: base{name: "D"}, group: g, role: RoleInput}
	g.lens = &Lens{base: base{name: "L"}, group: g}
	g.output = &Dielectric{base: base{name: "D"}, group: g, role: RoleOutput}
	return g
}

// Members returns the chain elements of the block in order.
func (g *DielectricGroup) Members() []Element {
	return []Element{g.input, g.lens, g.output}
}

func (g *DielectricGroup) Type() BlockType { return g.blockType }
func (g *DielectricGroup) Flip() bool      { return g.flip }

// SetType changes the cut. Plates lose their thermal lens; Brewster cuts
// also lose their face curvatures.
func (g *DielectricGroup) SetType(t BlockType) {
	switch t {
	case Plate:
		g.thermalLens = Num(0)
	case Brewster, Prism:
		g.thermalLens = Num(0)
		g.roc1 = Num(0)
		g.roc2 = Num(0)
	}
	g.blockType = t
}

func (g *DielectricGroup) refractiveIndex(vars Variables) Real {
	return math.Max(1, g.index.Value(vars))
}

// blockGeometry is derived from the group properties on every read.
type blockGeometry struct {
	n          Real
	incidence  Real // external angle of incidence (rad)
	internal   Real // internal angle to the face normal (rad)
	deflection Real // incidence - internal (rad)
	length     Real // internal propagation length (mm)
	inputLeg   Real // input face to thermal lens (mm)
	lensLeg    Real // thermal lens to output face (mm)
}

func (g *DielectricGroup) geometry(vars Variables) blockGeometry {
	limit := rad(MaxIncidenceDeg)
	n := g.refractiveIndex(vars)
	a := rad(g.incidence.Value(vars))
	if g.blockType.brewsterCut() {
		a = brewsterAngle(n)
		if g.flip {
			a = -a
		}
	}
	a = clamp(a, -limit, limit)

	var ext, in Real
	switch g.blockType {
	case Crystal, Endcap:
		in = clamp(rad(g.face.Value(vars)), -limit, limit)
		ext = externalAngle(in, n)
	default:
		ext = a
		in = internalAngle(ext, n)
	}

	thickness := math.Max(0, g.thickness.Value(vars))
	length := thickness
	if g.blockType != Endcap {
		length = thickness / math.Cos(in)
	}
	l1 := length
	if g.thermalLens.Value(vars) != 0 {
		l1 = length / 2
	}
	return blockGeometry{
		n:          n,
		incidence:  ext,
		internal:   in,
		deflection: ext - in,
		length:     length,
		inputLeg:   l1,
		lensLeg:    length - l1,
	}
}

// Dielectric is one face of a dielectric block.
type Dielectric struct {
	base
	group *DielectricGroup
	role  Role
}

func (d *Dielectric) Kind() Kind              { return KindDielectric }
func (d *Dielectric) Group() *DielectricGroup { return d.group }
func (d *Dielectric) Role() Role              { return d.role }
func (d *Dielectric) first() bool             { return d.role == RoleInput }

func (d *Dielectric) SetLocation(ax Axis, vars Variables) Location {
	d.place(ax)
	c := d.group.geometry(vars).deflection
	if d.first() || d.group.blockType == Prism {
		d.loc.Q += c
	} else {
		d.loc.Q -= c
	}
	return d.loc
}

func (d *Dielectric) SetOutgoingAngle(q Real, first bool) {
	if first {
		d.loc.Q = q
	}
}

// SetDeflection is a no-op: the deflection follows from the block angles.
func (d *Dielectric) SetDeflection(Real) {}

func (d *Dielectric) DistanceToNext(vars Variables) Real {
	if d.first() {
		return d.group.geometry(vars).inputLeg
	}
	return math.Max(0, d.distance.Value(vars))
}

func (d *Dielectric) SpaceRefractiveIndex(vars Variables) Real {
	if d.first() {
		return d.group.refractiveIndex(vars)
	}
	return 1
}

// ElementABCD returns the interface matrix of this face. Both faces use
// the external angle pair in the curvature numerator, which reproduces
// the thin-lens limit.
func (d *Dielectric) ElementABCD(dir Direction, plane Plane, vars Variables) Matrix2x2 {
	g := d.group
	first := d.first()
	roc := g.roc2.Value(vars)
	if first {
		roc = g.roc1.Value(vars)
	}
	if first && g.blockType == Endcap {
		if roc == 0 {
			return I2()
		}
		return Matrix2x2{A: 1, C: 2 / roc, D: 1}
	}

	geo := g.geometry(vars)
	n := geo.n
	qext := geo.incidence
	qint := internalAngle(qext, n)
	q1, q2 := qint, qext
	if (first && dir > 0) || (!first && dir < 0) {
		q1, q2 = qext, qint
	}
	c1, c2 := math.Cos(q1), math.Cos(q2)

	dnR := 0.0
	if plane == Sagittal {
		if roc != 0 {
			dnR = (n*math.Cos(qint) - math.Cos(qext)) / roc
		}
		return Matrix2x2{A: 1, C: dnR, D: 1}
	}
	if roc != 0 {
		dnR = (n*math.Cos(qint) - math.Cos(qext)) / (c1 * c2) / roc
	}
	return Matrix2x2{A: c2 / c1, C: dnR, D: c1 / c2}
}

func (d *Dielectric) GroupDelayDispersion(wavelength Real, vars Variables) (Real, bool) {
	if !d.first() {
		return 0, false
	}
	geo := d.group.geometry(vars)
	return materialGDD(wavelength, d.group.gvd.Value(vars), geo.length), true
}

func (d *Dielectric) Get(prop Property, vars Variables) (Real, error) {
	g := d.group
	switch prop {
	case PropDistanceToNext:
		return d.DistanceToNext(vars), nil
	case PropElementDistanceToNext:
		return g.output.DistanceToNext(vars), nil
	case PropType:
		return Real(g.blockType), nil
	case PropFlip:
		return b2f(g.flip), nil
	case PropRefractiveIndex:
		return g.refractiveIndex(vars), nil
	case PropThickness:
		return math.Max(0, g.thickness.Value(vars)), nil
	case PropGroupVelocityDispersion:
		return g.gvd.Value(vars), nil
	case PropAngleOfIncidence:
		return deg(g.geometry(vars).incidence), nil
	case PropFaceAngle:
		return deg(g.geometry(vars).internal), nil
	case PropDeflectionAngle:
		return deg(g.geometry(vars).deflection), nil
	case PropCurvatureFace1:
		return g.roc1.Value(vars), nil
	case PropCurvatureFace2:
		return g.roc2.Value(vars), nil
	case PropThermalLens:
		return g.thermalLens.Value(vars), nil
	case PropOutgoingAngle:
		return deg(d.loc.Q), nil
	}
	return 0, fmt.Errorf("%w: dielectric %s", ErrUnknownProperty, prop)
}

func (d *Dielectric) Set(prop Property, value interface{}) error {
	g := d.group
	switch prop {
	case PropType:
		t, ok := value.(BlockType)
		if !ok {
			s, isStr := value.(string)
			if !isStr {
				return fmt.Errorf("%w: block type %T", ErrInvalidExpression, value)
			}
			var err error
			if t, err = ParseBlockType(s); err != nil {
				return err
			}
		}
		g.SetType(t)
		return nil
	case PropFlip:
		b, err := boolValue(value)
		if err != nil {
			return err
		}
		g.flip = b
		return nil
	case PropRefractiveIndex:
		return setClamped(&g.index, value, 1, math.Inf(1))
	case PropThickness:
		return g.thickness.Set(value)
	case PropGroupVelocityDispersion:
		return g.gvd.Set(value)
	case PropAngleOfIncidence:
		return setClamped(&g.incidence, value, -MaxIncidenceDeg, MaxIncidenceDeg)
	case PropFaceAngle:
		return setClamped(&g.face, value, -MaxIncidenceDeg, MaxIncidenceDeg)
	case PropCurvatureFace1:
		return g.roc1.Set(value)
	case PropCurvatureFace2:
		return g.roc2.Set(value)
	case PropThermalLens:
		return g.thermalLens.Set(value)
	case PropDistanceToNext:
		if d.first() {
			return fmt.Errorf("%w: %s inside a block", ErrReadOnlyProperty, prop)
		}
		return d.distance.Set(value)
	case PropElementDistanceToNext:
		return g.output.distance.Set(value)
	case PropOutgoingAngle:
		v, err := realValue(value)
		if err != nil {
			return err
		}
		d.SetOutgoingAngle(rad(v), d.first())
		return nil
	}
	return fmt.Errorf("%w: dielectric %s", ErrUnknownProperty, prop)
}

func (d *Dielectric) CanSetProperty(prop Property) bool {
	t := d.group.blockType
	first := d.first()
	switch prop {
	case PropType:
		return first && t != Endcap
	case PropThickness, PropRefractiveIndex, PropGroupVelocityDispersion:
		return first
	case PropAngleOfIncidence:
		return first && t == Plate
	case PropFaceAngle:
		return first && (t == Crystal || t == Endcap)
	case PropFlip:
		return first && t.brewsterCut()
	case PropThermalLens, PropCurvatureFace1, PropCurvatureFace2:
		return first && !t.brewsterCut()
	case PropDistanceToNext, PropInsertElement:
		return d.role == RoleOutput
	case PropElementDistanceToNext:
		return true
	case PropOutgoingAngle:
		return first && t == Endcap
	}
	return false
}

// UserProperties lists the block properties on the input face only.
func (d *Dielectric) UserProperties() []PropertyDescriptor {
	if !d.first() {
		return nil
	}
	all := map[Property]PropertyDescriptor{
		PropType:                    {Name: PropType, Options: blockTypeNames[:Endcap]},
		PropElementDistanceToNext:   {Name: PropElementDistanceToNext, Unit: "mm", Increment: 5, Min: 0, Max: math.Inf(1), HasRange: true},
		PropRefractiveIndex:         {Name: PropRefractiveIndex, Increment: 0.1, Min: 1, Max: math.Inf(1), HasRange: true},
		PropGroupVelocityDispersion: {Name: PropGroupVelocityDispersion, Unit: "1/um²", Increment: 0.001},
		PropThickness:               {Name: PropThickness, Unit: "mm", Increment: 1, Min: 1, Max: math.Inf(1), HasRange: true},
		PropCurvatureFace1:          {Name: PropCurvatureFace1, Unit: "mm", Increment: 10},
		PropCurvatureFace2:          {Name: PropCurvatureFace2, Unit: "mm", Increment: 10},
		PropAngleOfIncidence:        {Name: PropAngleOfIncidence, Unit: "deg", Increment: 1, Min: -MaxIncidenceDeg, Max: MaxIncidenceDeg, HasRange: true},
		PropFlip:                    {Name: PropFlip, Boolean: true},
		PropFaceAngle:               {Name: PropFaceAngle, Unit: "deg", Increment: 1, Min: -MaxIncidenceDeg, Max: MaxIncidenceDeg, HasRange: true},
		PropThermalLens:             {Name: PropThermalLens, Unit: "mm", Increment: 10},
	}
	var names []Property
	switch d.group.blockType {
	case Plate:
		names = []Property{PropType, PropElementDistanceToNext, PropRefractiveIndex, PropGroupVelocityDispersion, PropThickness, PropCurvatureFace1, PropCurvatureFace2, PropAngleOfIncidence}
	case Brewster:
		names = []Property{PropType, PropElementDistanceToNext, PropRefractiveIndex, PropGroupVelocityDispersion, PropThickness, PropFlip}
	case Crystal:
		names = []Property{PropType, PropElementDistanceToNext, PropRefractiveIndex, PropGroupVelocityDispersion, PropThickness, PropCurvatureFace1, PropCurvatureFace2, PropFaceAngle, PropThermalLens}
	case Prism:
		names = []Property{PropType, PropElementDistanceToNext, PropRefractiveIndex, PropThickness, PropFlip}
	case Endcap:
		names = []Property{PropElementDistanceToNext, PropRefractiveIndex, PropGroupVelocityDispersion, PropThickness, PropCurvatureFace1, PropCurvatureFace2, PropFaceAngle, PropThermalLens}
	}
	props := make([]PropertyDescriptor, 0, len(names))
	for _, n := range names {
		props = append(props, all[n])
	}
	return props
}
