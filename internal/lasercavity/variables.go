package lasercavity

import "fmt"

// Variables is the scan-variable context every property read is evaluated
// against. Values default to 0.
type Variables struct {
	X, Y, Z Real
}

// Value returns the named variable ("x", "y" or "z").
func (v Variables) Value(name string) (Real, bool) {
	switch name {
	case "x":
		return v.X, true
	case "y":
		return v.Y, true
	case "z":
		return v.Z, true
	}
	return 0, false
}

// With returns a copy of v with one variable replaced.
func (v Variables) With(name string, value Real) (Variables, error) {
	switch name {
	case "x":
		v.X = value
	case "y":
		v.Y = value
	case "z":
		v.Z = value
	default:
		return v, fmt.Errorf("unknown variable %q", name)
	}
	return v, nil
}

// VariableRange is the scan range of one variable.
type VariableRange struct {
	Name  string `json:"name"`
	Value Real   `json:"value"`
	Min   Real   `json:"min"`
	Max   Real   `json:"max"`
}

// Sample returns the k-th of n evenly spaced values across the range,
// including both ends.
func (r VariableRange) Sample(k, n int) Real {
	if n <= 1 {
		return r.Min
	}
	return r.Min + (r.Max-r.Min)*Real(k)/Real(n-1)
}
