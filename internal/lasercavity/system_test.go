package lasercavity

import (
	"errors"
	"math"
	"testing"
)

func elementNames(s *System) []string {
	var out []string
	s.IterateElements(func(_ int, el Element) bool {
		out = append(out, el.Name())
		return true
	})
	return out
}

func sameNames(got []string, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestNewSystemConfigurations(t *testing.T) {
	for _, c := range Configurations {
		s, err := NewSystem(c)
		if err != nil {
			t.Fatalf("%s: %v", c, err)
		}
		if s.Configuration() != c || s.Name == "" || s.Len() < 2 {
			t.Fatalf("%s: unexpected system %q with %d elements", c, s.Name, s.Len())
		}
	}
	if _, err := NewSystem("folded"); err == nil {
		t.Fatal("unknown configuration accepted")
	}
	if _, err := ParseConfiguration("ring"); err != nil {
		t.Fatal(err)
	}
}

func TestInsertAndRemoveLens(t *testing.T) {
	s, err := NewSystem(ConfigLinear)
	if err != nil {
		t.Fatal(err)
	}
	before := s.CalculateABCD().Planes[Sagittal].Matrix

	created, err := s.InsertElement(Point{X: 0, Y: 5}, KindLens)
	if err != nil {
		t.Fatal(err)
	}
	if len(created) != 1 || created[0].Kind() != KindLens {
		t.Fatalf("created %v", created)
	}
	if got := elementNames(s); !sameNames(got, "M1", "L1", "M2") {
		t.Fatalf("names %v", got)
	}
	if l := s.Element(0).DistanceToNext(s.vars); math.Abs(l-125) > 1e-12 {
		t.Fatalf("M1 distance %v", l)
	}
	if p := created[0].Location().Point(); math.Abs(p.X) > 1e-9 || math.Abs(p.Y) > 1e-9 {
		t.Fatalf("lens placed at %+v", p)
	}
	// zero focal length: same cavity
	if after := s.CalculateABCD().Planes[Sagittal].Matrix; !after.Equal(before, 1e-9) {
		t.Fatalf("matrix changed: %v -> %v", before, after)
	}

	if !s.CanRemoveElement(created[0]) {
		t.Fatal("lens should be removable")
	}
	if err := s.RemoveElement(created[0]); err != nil {
		t.Fatal(err)
	}
	if got := elementNames(s); !sameNames(got, "M1", "M2") {
		t.Fatalf("names after remove %v", got)
	}
	if l := s.Element(0).DistanceToNext(s.vars); math.Abs(l-250) > 1e-12 {
		t.Fatalf("M1 distance after remove %v", l)
	}
	if err := s.RemoveElement(s.Element(1)); !errors.Is(err, ErrNotRemovable) {
		t.Fatalf("end mirror removed: %v", err)
	}
}

func TestInsertDielectricBlock(t *testing.T) {
	s, err := NewSystem(ConfigLinear)
	if err != nil {
		t.Fatal(err)
	}
	created, err := s.InsertElement(Point{X: 0, Y: -3}, KindDielectric)
	if err != nil {
		t.Fatal(err)
	}
	if len(created) != 3 {
		t.Fatalf("block should insert 3 members, got %d", len(created))
	}
	if got := elementNames(s); !sameNames(got, "M1", "D1", "L1", "D2", "M2") {
		t.Fatalf("names %v", got)
	}
	res := s.CalculateABCD()
	if math.Abs(res.PhysicalLength-250) > 1e-9 {
		t.Fatalf("physical length %v", res.PhysicalLength)
	}
	if want := 250 + (DefaultIndex-1)*DefaultThickness; math.Abs(res.OpticalLength-want) > 1e-9 {
		t.Fatalf("optical length %v, want %v", res.OpticalLength, want)
	}
	// the thermal lens goes with its block
	if !s.CanRemoveElement(created[1]) {
		t.Fatal("block should be removable through its thermal lens")
	}
	if err := s.RemoveElement(created[2]); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 2 || math.Abs(s.Element(0).DistanceToNext(s.vars)-250) > 1e-9 {
		t.Fatalf("after removing the block: %d elements, %v mm", s.Len(), s.Element(0).DistanceToNext(s.vars))
	}
}

func TestInsertPrismPair(t *testing.T) {
	s, err := NewSystem(ConfigLinear)
	if err != nil {
		t.Fatal(err)
	}
	created, err := s.InsertElement(Point{X: -25}, KindDispersion)
	if err != nil {
		t.Fatal(err)
	}
	if len(created) != 2 {
		t.Fatalf("pair should insert 2 members, got %d", len(created))
	}
	if got := elementNames(s); !sameNames(got, "M1", "DC1", "DC2", "M2") {
		t.Fatalf("names %v", got)
	}
	if created[0].(*Dispersion).Pair() != created[1].(*Dispersion).Pair() {
		t.Fatal("prisms should share their pair")
	}
	if s.IndexOf(created[1]) != 2 || s.IndexOf(NewLens()) != -1 {
		t.Fatalf("index of DC2 %d", s.IndexOf(created[1]))
	}
	total := 0.0
	for k := 0; k < s.Len()-1; k++ {
		total += s.Element(k).DistanceToNext(s.vars)
	}
	if math.Abs(total-250) > 1e-9 {
		t.Fatalf("total length %v", total)
	}
}

func TestSegmentAndElementNearLocation(t *testing.T) {
	s, err := NewSystem(ConfigLinear)
	if err != nil {
		t.Fatal(err)
	}
	seg, ok := s.SegmentNearLocation(Point{X: 25, Y: 7}, "")
	if !ok || seg.Index != 0 || math.Abs(seg.Z-150) > 1e-12 || math.Abs(seg.Distance-7) > 1e-12 {
		t.Fatalf("segment %+v", seg)
	}
	if el := s.ElementNearLocation(Point{X: 123, Y: 2}, SelectTolerance); el != s.Element(1) {
		t.Fatalf("expected M2, got %v", el)
	}
	if el := s.ElementNearLocation(Point{X: 0, Y: 0}, SelectTolerance); el != nil {
		t.Fatalf("expected nothing, got %s", el.Name())
	}

	if _, err := s.InsertElement(Point{X: 0}, KindDielectric); err != nil {
		t.Fatal(err)
	}
	// a block is hit anywhere along its thickness
	if el := s.ElementNearLocation(Point{X: 8, Y: 1}, 2); el == nil || el.Kind() != KindDielectric {
		t.Fatalf("expected the block, got %v", el)
	}
}

func TestUpdatePipeline(t *testing.T) {
	s, err := NewSystem(ConfigLinear)
	if err != nil {
		t.Fatal(err)
	}
	var emitted *SolveResult
	res, err := s.Update(func(s *System) error {
		return s.Element(0).Set(PropDistanceToNext, "x + 100")
	}, func(r *SolveResult) { emitted = r })
	if err != nil {
		t.Fatal(err)
	}
	if emitted != res || math.Abs(res.PhysicalLength-100) > 1e-12 {
		t.Fatalf("emitted %p, result %p, length %v", emitted, res, res.PhysicalLength)
	}

	s.SetVariables(Variables{X: 50})
	res, err = s.Update(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.PhysicalLength-150) > 1e-12 {
		t.Fatalf("variable not applied: %v", res.PhysicalLength)
	}
	if p := s.Element(1).Location().Point(); math.Abs(p.X-25) > 1e-9 {
		t.Fatalf("M2 at %+v", p)
	}

	bad := errors.New("bad edit")
	if _, err := s.Update(func(*System) error { return bad }, nil); !errors.Is(err, bad) {
		t.Fatalf("edit error lost: %v", err)
	}
}

func TestWavelengthAndWaist(t *testing.T) {
	s, err := NewSystem(ConfigPropagation)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetWavelength("500 + y"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetInitialWaist(50); err != nil {
		t.Fatal(err)
	}
	s.SetVariables(Variables{Y: 100})
	if s.Wavelength() != 600 || s.InitialWaist() != 50 {
		t.Fatalf("wavelength %v, waist %v", s.Wavelength(), s.InitialWaist())
	}
	res := s.CalculateABCD()
	if w := res.Planes[Sagittal].Beams[0].W; math.Abs(w-50) > 1e-9 {
		t.Fatalf("initial mode radius %v", w)
	}
	if err := s.SetWavelength("lambda"); err == nil {
		t.Fatal("invalid wavelength accepted")
	}
}

func TestPath(t *testing.T) {
	s, err := NewSystem(ConfigLinear)
	if err != nil {
		t.Fatal(err)
	}
	pts := s.Path()
	if len(pts) != 3 {
		t.Fatalf("path has %d points", len(pts))
	}
	if pts[0] != (Point{X: -125}) || math.Abs(pts[1].X-125) > 1e-9 {
		t.Fatalf("path %v", pts)
	}
}
