package lasercavity

import (
	"math"
)

func isFinite(x Real) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) }

func imax(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clamp(x, lo, hi Real) Real {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// sign returns -1, 0 or +1; unlike math.Signbit it treats 0 as 0.
func sign(x Real) Real {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func deg(rad Real) Real { return rad * 180 / math.Pi }
func rad(deg Real) Real { return deg * math.Pi / 180 }

// wrapAngle maps q into [-pi, pi].
func wrapAngle(q Real) Real {
	for q > math.Pi {
		q -= 2 * math.Pi
	}
	for q < -math.Pi {
		q += 2 * math.Pi
	}
	return q
}
