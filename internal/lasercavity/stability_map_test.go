package lasercavity

import (
	"errors"
	"math"
	"testing"
)

func twoMirrorConfig() *Config {
	return &Config{
		Variables: []VariableRange{{Name: "x", Value: 250, Min: 100, Max: 500}},
		Elements: []ElementCfg{
			{Type: "Mirror", RadiusOfCurvature: eq(200), DistanceToNext: eq("x")},
			{Type: "Mirror", RadiusOfCurvature: eq(200)},
		},
	}
}

func TestNewStabilityMap(t *testing.T) {
	m := NewStabilityMap(VariableRange{Name: "x"}, VariableRange{}, VariableRange{Name: "z"}, 3, 5, 2)
	if m.Nx != 3 || m.Ny != 1 || m.Nz != 2 || len(m.Buf) != 6 {
		t.Fatalf("resolution %d %d %d, %d cells", m.Nx, m.Ny, m.Nz, len(m.Buf))
	}
	for i, v := range m.Buf {
		if !math.IsNaN(v) {
			t.Fatalf("cell %d = %v", i, v)
		}
	}
	if m.idx(2, 0, 1) != 5 {
		t.Fatalf("idx %d", m.idx(2, 0, 1))
	}
	v := m.vars(Variables{Y: 7}, 2, 0, 1)
	if v.Y != 7 {
		t.Fatalf("unscanned variable changed: %+v", v)
	}
}

func TestComputeStabilityMap(t *testing.T) {
	resetSamples()
	Debug = true
	defer func() { Debug = false }()
	cfg := twoMirrorConfig()
	x, _ := cfg.variableRange("x")
	m, err := ComputeStabilityMap(cfg.Build, x, VariableRange{}, VariableRange{}, 4, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Buf) != 4 {
		t.Fatalf("%d cells", len(m.Buf))
	}
	// |2g² - 1| with g = 1 - L/200
	for i, l := range []Real{100, 700.0 / 3, 1100.0 / 3, 500} {
		g := 1 - l/200
		want := math.Abs(2*g*g - 1)
		if got := m.At(i, 0, 0); math.Abs(got-want) > 1e-9 {
			t.Fatalf("cell %d (L=%v): %v, want %v", i, l, got, want)
		}
	}
	if m.At(3, 0, 0) <= 1 {
		t.Fatal("last cell should be unstable")
	}
	if n := sampleCounts("map")[Stable]; n != 3 {
		t.Fatalf("%d stable samples logged", n)
	}
}

func TestComputeStabilityMapBuildError(t *testing.T) {
	bad := errors.New("no cavity")
	build := func() (*System, error) { return nil, bad }
	if _, err := ComputeStabilityMap(build, VariableRange{Name: "x", Max: 1}, VariableRange{}, VariableRange{}, 4, 1, 1); !errors.Is(err, bad) {
		t.Fatalf("expected build error, got %v", err)
	}
}

func TestComputeStabilityMapNoLogWithoutDebug(t *testing.T) {
	resetSamples()
	Debug = false
	cfg := twoMirrorConfig()
	x, _ := cfg.variableRange("x")
	if _, err := ComputeStabilityMap(cfg.Build, x, VariableRange{Name: "y", Max: 1}, VariableRange{}, 20, 20, 1); err != nil {
		t.Fatal(err)
	}
	if n := len(cache.samples["map"]); n != 0 {
		t.Fatalf("%d samples kept with Debug off", n)
	}
}
