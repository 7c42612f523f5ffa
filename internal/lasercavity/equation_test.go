package lasercavity

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestEquationValue(t *testing.T) {
	for _, c := range []struct {
		value interface{}
		vars  Variables
		want  Real
	}{
		{1, Variables{}, 1},
		{"1", Variables{}, 1},
		{"pi", Variables{}, math.Pi},
		{"cos(0)", Variables{}, 1},
		{"cos(pi)", Variables{}, -1},
		{"sin(pi)", Variables{}, 0},
		{"sin(pi / 2)", Variables{}, 1},
		{"sin(pi) + cos(2*pi)", Variables{}, 1},
		{"nope", Variables{}, 0},
		{"1 + nope", Variables{}, 0},
		{"2 / nope + 1", Variables{}, 0},
		{"x", Variables{X: 22}, 22},
		{"x", Variables{}, 0},
		{"2 * x + sin(y)", Variables{X: 2.5, Y: math.Pi / 2}, 6},
		{"-(x - 3) * 2", Variables{X: 1}, 4},
		{"abs(z) / 4", Variables{Z: -2}, 0.5},
		{"2 * q + 1", Variables{X: 5}, 1},
	} {
		e := NewEquation(c.value)
		if got := e.Value(c.vars); math.Abs(got-c.want) > 1e-7 {
			t.Fatalf("%v: got %v want %v", c.value, got, c.want)
		}
	}
}

func TestEquationSetInvalidKeepsValue(t *testing.T) {
	e := Num(3)
	err := e.Set("2 * qq")
	if !errors.Is(err, ErrInvalidExpression) {
		t.Fatalf("expected ErrInvalidExpression, got %v", err)
	}
	if e.Value(Variables{}) != 3 || e.IsExpression() {
		t.Fatalf("invalid Set changed the value: %v", e)
	}
	if err := e.Set(math.NaN()); err == nil {
		t.Fatal("NaN should be rejected")
	}
}

func TestEquationIncrement(t *testing.T) {
	for _, c := range []struct {
		initial interface{}
		amount  Real
		number  Real   // when expr == ""
		expr    string // expected expression text
	}{
		{initial: 1, amount: 3, number: 4},
		{initial: 1, amount: -3, number: -2},
		{initial: -5, amount: 3, number: -2},
		{initial: -5, amount: 8, number: 3},
		{initial: -5, amount: -3, number: -8},
		{initial: "4", amount: 2, number: 6},
		{initial: "4", amount: -6, number: -2},
		{initial: "-4", amount: 2, number: -2},
		{initial: "-4", amount: 12, number: 8},
		{initial: "-4", amount: -6, number: -10},
		{initial: "3 + 4", amount: 3, expr: "3 + 7"},
		{initial: "3 + 4", amount: -3, expr: "3 + 1"},
		{initial: "3 + 4", amount: -6, expr: "3 - 2"},
		{initial: "x+4", amount: 3, expr: "x + 7"},
		{initial: "x+4", amount: -3, expr: "x + 1"},
		{initial: "x+4", amount: -6, expr: "x - 2"},
		{initial: "x * 2", amount: 3, expr: "x * 2 + 3"},
		{initial: "x * 2", amount: -3, expr: "x * 2 - 3"},
		{initial: "sin(x)", amount: 3, expr: "sin(x) + 3"},
		{initial: "sin(x)", amount: -3, expr: "sin(x) - 3"},
		{initial: "sin(x) + pi", amount: 3, expr: "sin(x) + pi + 3"},
		{initial: "sin(x) - pi", amount: -3, expr: "sin(x) - pi - 3"},
		{initial: "x + 3e2", amount: 5, expr: "x + 3e2 + 5"},
		{initial: "x + 3e+2", amount: -5, expr: "x + 3e+2 - 5"},
		{initial: "x + 3e-2", amount: 5, expr: "x + 3e-2 + 5"},
	} {
		e := NewEquation(c.initial)
		e.Increment(c.amount)
		if c.expr == "" {
			if e.IsExpression() || e.Value(Variables{}) != c.number {
				t.Fatalf("%v (+) %v: got %v want %v", c.initial, c.amount, e, c.number)
			}
			continue
		}
		if !e.IsExpression() || e.String() != c.expr {
			t.Fatalf("%v (+) %v: got %q want %q", c.initial, c.amount, e.String(), c.expr)
		}
	}
}

func TestEquationJSON(t *testing.T) {
	var v struct {
		A Equation `json:"a"`
		B Equation `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a": 12.5, "b": "x + 1"}`), &v); err != nil {
		t.Fatal(err)
	}
	if v.A.IsExpression() || v.A.Value(Variables{}) != 12.5 {
		t.Fatalf("a: %v", v.A)
	}
	if got := v.B.Value(Variables{X: 2}); got != 3 {
		t.Fatalf("b(x=2) = %v, want 3", got)
	}
	out, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"a":12.5,"b":"x + 1"}` {
		t.Fatalf("unexpected JSON: %s", out)
	}
	if err := json.Unmarshal([]byte(`{"a": "x +"}`), &v); !errors.Is(err, ErrInvalidExpression) {
		t.Fatalf("expected ErrInvalidExpression, got %v", err)
	}
}

func TestVariables(t *testing.T) {
	v, err := Variables{}.With("y", 4)
	if err != nil {
		t.Fatal(err)
	}
	if y, ok := v.Value("y"); !ok || y != 4 {
		t.Fatalf("y = %v, %v", y, ok)
	}
	if _, err := v.With("w", 1); err == nil {
		t.Fatal("unknown variable accepted")
	}
	r := VariableRange{Name: "x", Min: 10, Max: 20}
	if a, b := r.Sample(0, 3), r.Sample(2, 3); a != 10 || b != 20 {
		t.Fatalf("range ends: %v %v", a, b)
	}
	if m := r.Sample(1, 3); m != 15 {
		t.Fatalf("range middle: %v", m)
	}
	if s := r.Sample(0, 1); s != 10 {
		t.Fatalf("single sample: %v", s)
	}
}
