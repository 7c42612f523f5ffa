package lasercavity

import (
	"errors"
	"fmt"
	"math"
)

// ScanSample is one point of a one-variable sweep.
type ScanSample struct {
	Value     Real
	Category  Category
	Stability [2]Real // trace/2 per plane
	Waist     [2]Real // um, mode radius at the probed element; NaN when unstable
	Err       error
}

func classify(res *SolveResult, err error) Category {
	switch {
	case errors.Is(err, ErrRingNotClosed):
		return RingOpen
	case err != nil:
		return Failed
	case res.Stable():
		return Stable
	}
	return Unstable
}

// solveAt lays out and solves the chain for one variable context. Failed
// layouts are rolled back so later samples start from a sane geometry.
func (s *System) solveAt(vars Variables) (*SolveResult, error) {
	saved := s.snapshot()
	s.vars = vars
	if err := s.CalculateCartesianCoordinates(0, -1); err != nil {
		s.restore(saved)
		return nil, err
	}
	return s.CalculateABCD(), nil
}

// Scan1D sweeps the named variable over steps values from..to, solving
// the cavity at each and probing the mode at element probe. The variable
// context is restored afterwards. Samples that fail are recorded, not
// returned as errors.
func (s *System) Scan1D(name string, from, to Real, steps, probe int) ([]ScanSample, error) {
	if steps < 1 {
		return nil, fmt.Errorf("scan needs at least one step, got %d", steps)
	}
	if probe < 0 || probe >= len(s.elements) {
		return nil, fmt.Errorf("probe element %d out of range", probe)
	}
	if _, err := s.vars.With(name, 0); err != nil {
		return nil, err
	}
	orig := s.vars
	defer func() {
		s.vars = orig
		_ = s.CalculateCartesianCoordinates(0, -1)
	}()

	r := VariableRange{Name: name, Min: from, Max: to}
	out := make([]ScanSample, steps)
	for k := range out {
		v := r.Sample(k, steps)
		vars, _ := orig.With(name, v)
		res, err := s.solveAt(vars)
		smp := ScanSample{Value: v, Category: classify(res, err), Err: err}
		for p := Sagittal; p <= Tangential; p++ {
			smp.Stability[p] = math.NaN()
			smp.Waist[p] = math.NaN()
			if res == nil {
				continue
			}
			pr := res.Planes[p]
			smp.Stability[p] = pr.Stability
			if pr.Stable {
				smp.Waist[p] = pr.Beams[probe].W
			}
		}
		if Debug {
			logSample("scan:"+name, smp.Category, vars, smp.Stability, err)
		}
		out[k] = smp
	}
	DebugLog("Scan %s: %d samples over [%g, %g]", name, steps, from, to)
	return out, nil
}
