package lasercavity

import (
	"fmt"
	"io"
)

// Report writes a plain-text summary of a solved chain: round-trip
// matrices and stability per plane, the mode after every element and the
// cavity totals.
func Report(w io.Writer, s *System, res *SolveResult) error {
	p := &reportWriter{w: w}
	p.printf("%s (%s), wavelength %.1f nm\n", s.Name, s.configuration, res.Wavelength)
	for pl := Sagittal; pl <= Tangential; pl++ {
		pr := res.Planes[pl]
		p.printf("%-10s %v  stability %+.4f  stable %v\n", pl, pr.Matrix, pr.Stability, pr.Stable)
	}
	for k, el := range s.elements {
		loc := el.Location()
		p.printf("%-4s (%9.3f, %9.3f) q=%8.3f°", el.Name(), loc.X, loc.Y, deg(loc.Q))
		for pl := Sagittal; pl <= Tangential; pl++ {
			b := res.Planes[pl].Beams[k]
			if !b.Valid {
				p.printf("  %s: unstable", pl.String()[:3])
				continue
			}
			r := "flat"
			if isFinite(b.R) {
				r = fmt.Sprintf("%.1f", b.R)
			}
			p.printf("  %s: w=%.1f w0=%.1f R=%s z0=%.2f", pl.String()[:3], b.W, b.W0, r, b.Z0)
		}
		p.printf("\n")
	}
	p.printf("length %.3f mm, optical %.3f mm, GDD %.1f fs², mode spacing %.3f MHz\n",
		res.PhysicalLength, res.OpticalLength, res.GroupDelayDispersion, res.ModeSpacing)
	return p.err
}

// reportWriter keeps the first write error.
type reportWriter struct {
	w   io.Writer
	err error
}

func (p *reportWriter) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
