package lasercavity

import (
	"fmt"
	"math"
	"strconv"
)

// Matrix2x2 is an ABCD ray transfer matrix [[A,B],[C,D]].
type Matrix2x2 struct {
	A, B, C, D Real
}

func I2() Matrix2x2 {
	return Matrix2x2{A: 1, D: 1}
}

// Mul returns the product m·n. Propagating through n then m is m.Mul(n).
func (m Matrix2x2) Mul(n Matrix2x2) Matrix2x2 {
	return Matrix2x2{
		A: m.A*n.A + m.B*n.C,
		B: m.A*n.B + m.B*n.D,
		C: m.C*n.A + m.D*n.C,
		D: m.C*n.B + m.D*n.D,
	}
}

func (m Matrix2x2) Trace() Real { return m.A + m.D }
func (m Matrix2x2) Det() Real   { return m.A*m.D - m.B*m.C }

// Equal compares two matrices. A tolerance below 1 is an absolute
// tolerance on each entry; 1 or more is a number of significant
// figures that every entry must agree to.
func (m Matrix2x2) Equal(n Matrix2x2, tol Real) bool {
	a := [4]Real{m.A, m.B, m.C, m.D}
	b := [4]Real{n.A, n.B, n.C, n.D}
	for i := range a {
		if tol < 1 {
			if math.Abs(a[i]-b[i]) > tol {
				return false
			}
			continue
		}
		if !sameFigures(a[i], b[i], int(tol)) {
			return false
		}
	}
	return true
}

func sameFigures(a, b Real, figs int) bool {
	return strconv.FormatFloat(a, 'g', figs, 64) == strconv.FormatFloat(b, 'g', figs, 64)
}

func (m Matrix2x2) String() string {
	return fmt.Sprintf("[[%.6g, %.6g], [%.6g, %.6g]]", m.A, m.B, m.C, m.D)
}
