package lasercavity

import "math"

// Refraction at a planar interface between air and index n, with angles
// measured from the face normal.
//
//   - air → inside: internal = asin(sin(external)/n)
//   - inside → air: external = asin(n·sin(internal)), ±90° past the
//     critical angle (total internal reflection)
func internalAngle(external, n Real) Real {
	return math.Asin(math.Sin(external) / n)
}

func externalAngle(internal, n Real) Real {
	s := n * math.Sin(internal)
	if s < -1 {
		return -math.Pi / 2
	}
	if s > 1 {
		return math.Pi / 2
	}
	return math.Asin(s)
}

// brewsterAngle is the incidence angle with no p-polarized reflection.
func brewsterAngle(n Real) Real { return math.Atan(n) }
