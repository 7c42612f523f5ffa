package lasercavity

import (
	"fmt"
	"math"
	"runtime"
	"sync"
)

// StabilityMap stores max(|stab_sag|, |stab_tan|) over a grid of up to
// three scan variables. Failed samples are NaN; values above 1 are
// unstable.
type StabilityMap struct {
	X, Y, Z    VariableRange
	Nx, Ny, Nz int
	Buf        []Real // flat: (i*Ny + j)*Nz + k
}

// NewStabilityMap allocates a NaN-filled grid. A range with an empty name
// collapses to a single sample.
func NewStabilityMap(x, y, z VariableRange, nx, ny, nz int) *StabilityMap {
	if x.Name == "" {
		nx = 1
	}
	if y.Name == "" {
		ny = 1
	}
	if z.Name == "" {
		nz = 1
	}
	if nx <= 0 || ny <= 0 || nz <= 0 {
		panic("stability map resolution must be positive")
	}
	m := &StabilityMap{X: x, Y: y, Z: z, Nx: nx, Ny: ny, Nz: nz, Buf: make([]Real, nx*ny*nz)}
	for i := range m.Buf {
		m.Buf[i] = math.NaN()
	}
	DebugLog("Created stability map x=%+v y=%+v z=%+v, resolution=(%d, %d, %d)", x, y, z, nx, ny, nz)
	return m
}

// Flat buffer index helper.
func (m *StabilityMap) idx(i, j, k int) int {
	return (i*m.Ny+j)*m.Nz + k
}

// At returns the value of cell (i, j, k).
func (m *StabilityMap) At(i, j, k int) Real { return m.Buf[m.idx(i, j, k)] }

// vars returns the variable context of cell (i, j, k) on top of base.
func (m *StabilityMap) vars(base Variables, i, j, k int) Variables {
	v := base
	for _, c := range []struct {
		r    VariableRange
		k, n int
	}{{m.X, i, m.Nx}, {m.Y, j, m.Ny}, {m.Z, k, m.Nz}} {
		if c.r.Name == "" {
			continue
		}
		v, _ = v.With(c.r.Name, c.r.Sample(c.k, c.n))
	}
	return v
}

// ComputeStabilityMap fills a stability map in parallel. Every worker
// builds its own chain with build, so chains are never shared between
// goroutines.
func ComputeStabilityMap(build func() (*System, error), x, y, z VariableRange, nx, ny, nz int) (*StabilityMap, error) {
	m := NewStabilityMap(x, y, z, nx, ny, nz)
	total := len(m.Buf)
	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	if workers > total {
		workers = total
	}

	per, rem := total/workers, total%workers
	var wg sync.WaitGroup
	errCh := make(chan error, workers)

	start := 0
	for w := 0; w < workers; w++ {
		n := per
		if w < rem {
			n++
		}
		if n == 0 {
			continue
		}
		wg.Add(1)
		go func(wid, start, n int) {
			defer wg.Done()
			sys, err := build()
			if err != nil {
				errCh <- fmt.Errorf("worker %d: %w", wid, err)
				return
			}
			base := sys.Variables()
			for f := start; f < start+n; f++ {
				i, j, k := f/(m.Ny*m.Nz), (f/m.Nz)%m.Ny, f%m.Nz
				vars := m.vars(base, i, j, k)
				res, err := sys.solveAt(vars)
				stab := [2]Real{math.NaN(), math.NaN()}
				if err == nil {
					stab[0] = res.Planes[Sagittal].Stability
					stab[1] = res.Planes[Tangential].Stability
					m.Buf[f] = math.Max(math.Abs(stab[0]), math.Abs(stab[1]))
				}
				if Debug {
					logSample("map", classify(res, err), vars, stab, err)
				}
			}
		}(w, start, n)
		start += n
	}

	wg.Wait()
	close(errCh)
	for err := range errCh {
		return nil, err
	}
	return m, nil
}
