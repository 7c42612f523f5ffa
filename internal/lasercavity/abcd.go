package lasercavity

import "math"

// Q is the reciprocal complex beam parameter 1/q = R - iV, with R the
// reciprocal wavefront curvature (1/mm) and V = λ/(πw²).
type Q struct {
	R, V Real
}

// Apply propagates q through mx:
//
//	Q' = (C + QD) / (A + QB)
func (q Q) Apply(mx Matrix2x2) Q {
	arb := mx.A + q.R*mx.B
	crd := mx.C + q.R*mx.D
	vb := q.V * mx.B
	vd := q.V * mx.D
	s := 1 / (arb*arb + vb*vb)
	return Q{
		R: s * (crd*arb + vb*vd),
		V: s * (arb*vd - crd*vb),
	}
}

// BeamParameters describe the beam just after an element.
type BeamParameters struct {
	Valid bool // false when the cavity is unstable in this plane
	W     Real // um, mode radius
	R     Real // mm, wavefront curvature (+Inf for flat)
	W0    Real // um, waist
	Z0    Real // mm, distance to the waist
	ZR    Real // mm, Rayleigh range
}

// Parameters converts q to physical beam sizes at wavelength (nm).
func (q Q) Parameters(wavelength Real) BeamParameters {
	w := math.Sqrt(wavelength / (math.Pi * q.V))
	p := BeamParameters{Valid: true, W: w}
	if q.R == 0 {
		p.R = math.Inf(1)
		p.W0 = w
	} else {
		r := 1 / q.R
		rv2 := (r * q.V) * (r * q.V)
		p.R = r
		p.W0 = w / math.Sqrt(1+1/rv2)
		p.Z0 = -r / (1 + rv2)
	}
	p.ZR = math.Pi * p.W0 * p.W0 / wavelength
	return p
}

// PlaneResult is the solution in one transverse plane.
type PlaneResult struct {
	Matrix    Matrix2x2 // round trip, or single pass for propagation
	Stable    bool
	Stability Real // trace/2
	Q         Q    // at the first element, when stable
	Beams     []BeamParameters
}

// SolveResult is a full ABCD solution of the chain.
type SolveResult struct {
	Planes               [2]PlaneResult // indexed by Plane
	PhysicalLength       Real           // mm
	OpticalLength        Real           // mm
	GroupDelayDispersion Real           // fs²
	ModeSpacing          Real           // MHz
	Wavelength           Real           // nm

	spaceIndex []Real
}

// Stable reports whether both planes are stable.
func (r *SolveResult) Stable() bool {
	return r.Planes[Sagittal].Stable && r.Planes[Tangential].Stable
}

// InspectSegment returns the mode radius (um) at distance d (mm) into the
// gap following element k.
func (r *SolveResult) InspectSegment(k int, plane Plane, d Real) (Real, bool) {
	pr := r.Planes[plane]
	if k < 0 || k >= len(pr.Beams) || !pr.Beams[k].Valid {
		return 0, false
	}
	b := pr.Beams[k]
	n := r.spaceIndex[k]
	zR := n * b.ZR
	z0 := n * b.Z0
	z := (d - z0) / zR
	return b.W0 * math.Sqrt(1+z*z), true
}

// lengths accumulates along the forward pass.
type lengths struct {
	physical, optical, gdd Real
}

func (s *System) gapABCD(k int, wavelength Real, acc *lengths) Matrix2x2 {
	el := s.elements[k]
	l := el.DistanceToNext(s.vars)
	n := el.SpaceRefractiveIndex(s.vars)
	if acc != nil {
		acc.physical += l
		acc.optical += n * l
		if gdd, ok := el.GroupDelayDispersion(wavelength, s.vars); ok {
			acc.gdd += gdd
		}
	}
	return Matrix2x2{A: 1, B: l / n, C: 0, D: 1}
}

func (s *System) elementABCD(k int, dir Direction, plane Plane) Matrix2x2 {
	return s.elements[k].ElementABCD(dir, plane, s.vars)
}

// roundTrip multiplies the chain matrices: forward from the first element,
// then back down a standing-wave cavity or once around a ring.
func (s *System) roundTrip(plane Plane, wavelength Real, acc *lengths) Matrix2x2 {
	n := len(s.elements)
	mx := I2()
	if s.isPropagation() {
		for k := 0; k < n; k++ {
			mx = s.elementABCD(k, Forward, plane).Mul(mx)
			mx = s.gapABCD(k, wavelength, acc).Mul(mx)
		}
		return mx
	}
	for k := 0; k < n; k++ {
		if k > 0 {
			mx = s.elementABCD(k, Forward, plane).Mul(mx)
		}
		if k < n-1 {
			mx = s.gapABCD(k, wavelength, acc).Mul(mx)
		}
	}
	if s.isRing() {
		mx = s.gapABCD(n-1, wavelength, acc).Mul(mx)
		return s.elementABCD(0, Forward, plane).Mul(mx)
	}
	for k := n - 2; k >= 0; k-- {
		mx = s.gapABCD(k, wavelength, nil).Mul(mx)
		mx = s.elementABCD(k, Backward, plane).Mul(mx)
	}
	return mx
}

// initialQ is the self-consistent beam of a round-trip matrix:
//
//	1/q = (D-A)/2B - i·sqrt(4-(A+D)²)/2|B|
func initialQ(mx Matrix2x2) (Q, bool) {
	tr := mx.Trace()
	if math.Abs(tr) > 2 {
		return Q{}, false
	}
	return Q{
		R: (mx.D - mx.A) / (2 * mx.B),
		V: math.Sqrt(4-tr*tr) / (2 * math.Abs(mx.B)),
	}, true
}

func (s *System) solvePlane(plane Plane, wavelength Real, acc *lengths) PlaneResult {
	mx := s.roundTrip(plane, wavelength, acc)
	res := PlaneResult{
		Matrix:    mx,
		Stability: mx.Trace() / 2,
		Beams:     make([]BeamParameters, len(s.elements)),
	}
	var q Q
	if s.isPropagation() {
		w0 := s.InitialWaist()
		q, res.Stable = Q{R: 0, V: wavelength / (math.Pi * w0 * w0)}, true
	} else {
		q, res.Stable = initialQ(mx)
	}
	if !res.Stable {
		return res
	}
	res.Q = q
	for k := range s.elements {
		if k > 0 {
			q = q.Apply(s.elementABCD(k, Forward, plane))
		}
		res.Beams[k] = q.Parameters(wavelength)
		q = q.Apply(s.gapABCD(k, wavelength, nil))
	}
	return res
}

// CalculateABCD solves both planes of the chain as currently laid out.
func (s *System) CalculateABCD() *SolveResult {
	wavelength := s.Wavelength()
	var acc lengths
	res := &SolveResult{Wavelength: wavelength}
	res.Planes[Sagittal] = s.solvePlane(Sagittal, wavelength, &acc)
	res.Planes[Tangential] = s.solvePlane(Tangential, wavelength, nil)
	res.PhysicalLength = acc.physical
	res.OpticalLength = acc.optical
	res.GroupDelayDispersion = acc.gdd
	res.ModeSpacing = SpeedOfLightMHz / (2 * acc.optical)
	res.spaceIndex = make([]Real, len(s.elements))
	for k, el := range s.elements {
		res.spaceIndex[k] = el.SpaceRefractiveIndex(s.vars)
	}
	DebugLog("ABCD: sag %v stab %.4f, tan %v stab %.4f", res.Planes[Sagittal].Matrix,
		res.Planes[Sagittal].Stability, res.Planes[Tangential].Matrix, res.Planes[Tangential].Stability)
	return res
}
