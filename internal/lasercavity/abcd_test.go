package lasercavity

import (
	"math"
	"testing"
)

func eq(v interface{}) *Equation {
	e := NewEquation(v)
	return &e
}

// buildLinear lays out a linear cavity from element descriptions.
func buildLinear(t *testing.T, vars []VariableRange, els ...ElementCfg) *System {
	t.Helper()
	cfg := &Config{Configuration: string(ConfigLinear), Variables: vars, Elements: els}
	s, err := cfg.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return s
}

func checkABCD(t *testing.T, res *SolveResult, sag, tan Matrix2x2) {
	t.Helper()
	if got := res.Planes[Sagittal].Matrix; !got.Equal(sag, 3) {
		t.Fatalf("sagittal: got %v want %v", got, sag)
	}
	if got := res.Planes[Tangential].Matrix; !got.Equal(tan, 3) {
		t.Fatalf("tangential: got %v want %v", got, tan)
	}
}

func TestABCDTwoCurvedMirrors(t *testing.T) {
	s, err := NewSystem(ConfigLinear)
	if err != nil {
		t.Fatal(err)
	}
	res := s.CalculateABCD()
	want := Matrix2x2{A: -1.5, B: -125, C: 0.005, D: -0.25}
	checkABCD(t, res, want, want)
	if !res.Stable() {
		t.Fatal("expected a stable cavity")
	}
	if math.Abs(res.PhysicalLength-250) > 1e-12 || math.Abs(res.OpticalLength-250) > 1e-12 {
		t.Fatalf("lengths: %v %v", res.PhysicalLength, res.OpticalLength)
	}
	if math.Abs(res.ModeSpacing-SpeedOfLightMHz/500) > 1e-9 {
		t.Fatalf("mode spacing: %v", res.ModeSpacing)
	}
}

func TestABCDFlatMirrorsWithLens(t *testing.T) {
	s := buildLinear(t, nil,
		ElementCfg{Type: "Mirror", DistanceToNext: eq(125)},
		ElementCfg{Type: "Lens", FocalLength: eq(500), DistanceToNext: eq(125)},
		ElementCfg{Type: "Mirror"},
	)
	want := Matrix2x2{A: 0.125, B: 328, C: -0.003, D: 0.125}
	checkABCD(t, s.CalculateABCD(), want, want)
}

func TestABCDBrewsterBlock(t *testing.T) {
	s := buildLinear(t, nil,
		ElementCfg{Type: "Mirror", RadiusOfCurvature: eq(200), DistanceToNext: eq(120)},
		ElementCfg{Type: "Dielectric", BlockType: "Brewster", RefractiveIndex: eq(1.5), Thickness: eq(10), DistanceToNext: eq(120)},
		ElementCfg{Type: "Mirror", RadiusOfCurvature: eq(200)},
	)
	checkABCD(t, s.CalculateABCD(),
		Matrix2x2{A: -1.48, B: -119, C: 0.0048, D: -0.289},
		Matrix2x2{A: -1.44, B: -106, C: 0.00436, D: -0.375})
}

func TestABCDCurvedMirrorAndBrewster(t *testing.T) {
	s := buildLinear(t, nil,
		ElementCfg{Type: "Mirror", DistanceToNext: eq(125)},
		ElementCfg{Type: "Mirror", RadiusOfCurvature: eq(200), AngleOfIncidence: eq(10.3504), DistanceToNext: eq(50.9129)},
		ElementCfg{Type: "Dielectric", BlockType: "Brewster", RefractiveIndex: eq(2), Thickness: eq(15), DistanceToNext: eq(165.983)},
		ElementCfg{Type: "Mirror"},
	)
	res := s.CalculateABCD()
	for _, c := range []struct {
		plane Plane
		want  Matrix2x2
	}{
		{Sagittal, Matrix2x2{A: -0.441, B: -33.65, C: 0.0239, D: -0.441}},
		{Tangential, Matrix2x2{A: -0.336, B: -35.58, C: 0.0249, D: -0.336}},
	} {
		got := res.Planes[c.plane].Matrix
		for i, pair := range [][2]Real{{got.A, c.want.A}, {got.B, c.want.B}, {got.C, c.want.C}, {got.D, c.want.D}} {
			if math.Abs(pair[0]-pair[1]) > 3e-3*math.Abs(pair[1]) {
				t.Fatalf("%s entry %d: got %v want %v", c.plane, i, got, c.want)
			}
		}
	}
	if !res.Stable() {
		t.Fatal("expected a stable cavity")
	}
}

func TestABCDCrystalAndPlate(t *testing.T) {
	s := buildLinear(t, nil,
		ElementCfg{Type: "Mirror", RadiusOfCurvature: eq(200), DistanceToNext: eq(120)},
		ElementCfg{Type: "Dielectric", BlockType: "Crystal", RefractiveIndex: eq(2.1), FaceAngle: eq(23), Thickness: eq(19), DistanceToNext: eq(120)},
		ElementCfg{Type: "Mirror", RadiusOfCurvature: eq(200)},
	)
	checkABCD(t, s.CalculateABCD(),
		Matrix2x2{A: -1.5, B: -124, C: 0.00498, D: -0.253},
		Matrix2x2{A: -1.44, B: -107, C: 0.00438, D: -0.37})

	s = buildLinear(t, nil,
		ElementCfg{Type: "Mirror", RadiusOfCurvature: eq(200), DistanceToNext: eq(120)},
		ElementCfg{Type: "Dielectric", BlockType: "Plate", RefractiveIndex: eq(1.7), AngleOfIncidence: eq(23), Thickness: eq(21), DistanceToNext: eq(120)},
		ElementCfg{Type: "Mirror", RadiusOfCurvature: eq(200)},
	)
	checkABCD(t, s.CalculateABCD(),
		Matrix2x2{A: -1.53, B: -133, C: 0.00527, D: -0.195},
		Matrix2x2{A: -1.51, B: -129, C: 0.00514, D: -0.223})
}

func TestABCDUltrafast(t *testing.T) {
	s := buildLinear(t, []VariableRange{{Name: "x", Value: 105.99, Min: 80, Max: 150}},
		ElementCfg{Type: "Mirror", DistanceToNext: eq(146.932)},
		ElementCfg{Type: "Screen", DistanceToNext: eq(231.33)},
		ElementCfg{Type: "Mirror", RadiusOfCurvature: eq(200), AngleOfIncidence: eq(-11.0658), DistanceToNext: eq("x")},
		ElementCfg{Type: "Dielectric", BlockType: "Brewster", RefractiveIndex: eq(1.5), Thickness: eq(10), DistanceToNext: eq("x")},
		ElementCfg{Type: "Mirror", RadiusOfCurvature: eq(200), AngleOfIncidence: eq(-12.8854), DistanceToNext: eq(203.38)},
		ElementCfg{Type: "Dispersion", RefractiveIndex: eq(1.5), Separation: eq(64.1979), DistanceToNext: eq(113.342)},
		ElementCfg{Type: "Mirror"},
	)
	res := s.CalculateABCD()
	checkABCD(t, res,
		Matrix2x2{A: -0.308, B: 514, C: -0.00176, D: -0.308},
		Matrix2x2{A: -0.658, B: 337, C: -0.00168, D: -0.658})
	if !res.Stable() {
		t.Fatal("expected a stable cavity")
	}
}

func TestABCDUnimodular(t *testing.T) {
	for _, c := range Configurations {
		s, err := NewSystem(c)
		if err != nil {
			t.Fatalf("%s: %v", c, err)
		}
		res := s.CalculateABCD()
		for p := Sagittal; p <= Tangential; p++ {
			pr := res.Planes[p]
			if d := pr.Matrix.Det(); math.Abs(d-1) > 1e-9 {
				t.Fatalf("%s %s: det = %v", c, p, d)
			}
			if pr.Stability != pr.Matrix.Trace()/2 {
				t.Fatalf("%s %s: stability %v != trace/2", c, p, pr.Stability)
			}
			if pr.Stable != (math.Abs(pr.Matrix.Trace()) <= 2) {
				t.Fatalf("%s %s: stable flag %v for trace %v", c, p, pr.Stable, pr.Matrix.Trace())
			}
		}
	}
}

func TestABCDStabilityRange(t *testing.T) {
	s, err := NewSystem(ConfigLinear)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range []struct {
		l      Real
		stable bool
	}{{20, true}, {150, true}, {250, true}, {390, true}, {410, false}, {600, false}} {
		res, err := s.Update(func(s *System) error {
			return s.Element(0).Set(PropDistanceToNext, c.l)
		}, nil)
		if err != nil {
			t.Fatal(err)
		}
		if res.Stable() != c.stable {
			t.Fatalf("L=%v: stable=%v, want %v (trace %v)", c.l, res.Stable(), c.stable, res.Planes[Sagittal].Matrix.Trace())
		}
		for k, b := range res.Planes[Tangential].Beams {
			if b.Valid != c.stable {
				t.Fatalf("L=%v: beam %d valid=%v", c.l, k, b.Valid)
			}
		}
	}
}

func TestABCDSymmetricWaist(t *testing.T) {
	s, err := NewSystem(ConfigLinear)
	if err != nil {
		t.Fatal(err)
	}
	res := s.CalculateABCD()
	b := res.Planes[Sagittal].Beams[0]
	if !b.Valid {
		t.Fatal("beam should be valid")
	}
	// symmetric cavity: waist in the middle
	if math.Abs(b.Z0-125) > 1e-9 {
		t.Fatalf("waist position %v, want 125", b.Z0)
	}
	// w0² = λ/π · sqrt(L(2R-L))/2, in um with λ in nm and lengths in mm
	w0 := math.Sqrt(1000 / math.Pi * math.Sqrt(250*150) / 2)
	if math.Abs(b.W0-w0) > 1e-9*w0 {
		t.Fatalf("waist %v, want %v", b.W0, w0)
	}
	w, ok := res.InspectSegment(0, Sagittal, 125)
	if !ok || math.Abs(w-w0) > 1e-9*w0 {
		t.Fatalf("mode radius at the middle %v, want %v", w, w0)
	}
	if _, ok := res.InspectSegment(5, Sagittal, 0); ok {
		t.Fatal("segment out of range should fail")
	}
}

func TestABCDPropagation(t *testing.T) {
	s, err := NewSystem(ConfigPropagation)
	if err != nil {
		t.Fatal(err)
	}
	res := s.CalculateABCD()
	if !res.Stable() {
		t.Fatal("single pass is always stable")
	}
	zR := math.Pi * InitialWaist * InitialWaist / Wavelength
	b0 := res.Planes[Sagittal].Beams[0]
	if math.Abs(b0.W-InitialWaist) > 1e-9 || !math.IsInf(b0.R, 1) || math.Abs(b0.ZR-zR) > 1e-9 {
		t.Fatalf("initial beam: %+v", b0)
	}
	b1 := res.Planes[Sagittal].Beams[1]
	want := InitialWaist * math.Sqrt(1+(250/zR)*(250/zR))
	if math.Abs(b1.W-want) > 1e-9*want {
		t.Fatalf("beam after 250 mm: %v, want %v", b1.W, want)
	}
	if math.Abs(b1.Z0+250) > 1e-6 {
		t.Fatalf("waist should be 250 mm behind, got %v", b1.Z0)
	}
	if w, ok := res.InspectSegment(0, Tangential, 250); !ok || math.Abs(w-want) > 1e-9*want {
		t.Fatalf("inspect at 250 mm: %v", w)
	}
}

func TestGroupDelayDispersion(t *testing.T) {
	s, err := NewSystem(ConfigUltrafast)
	if err != nil {
		t.Fatal(err)
	}
	res := s.CalculateABCD()
	crystal := materialGDD(800, 0.064, 2/math.Cos(rad(29.62)))
	if res.GroupDelayDispersion <= 0 || math.Abs(res.GroupDelayDispersion-crystal) > 1e-9 {
		t.Fatalf("GDD %v, want crystal only %v", res.GroupDelayDispersion, crystal)
	}
	if res.Wavelength != 800 {
		t.Fatalf("wavelength %v", res.Wavelength)
	}
	if res.OpticalLength <= res.PhysicalLength {
		t.Fatalf("optical length %v should exceed physical %v", res.OpticalLength, res.PhysicalLength)
	}
}
