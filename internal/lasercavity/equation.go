package lasercavity

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var ErrInvalidExpression = errors.New("invalid expression")

// Expr is a parsed property expression.
type Expr interface {
	Eval(v Variables) Real
	String() string
}

type numExpr struct {
	v    Real
	text string
}

type varExpr struct{ name string }

type negExpr struct{ x Expr }

type binExpr struct {
	op   byte
	l, r Expr
}

type callExpr struct {
	fn  string
	arg Expr
}

func (e numExpr) Eval(Variables) Real { return e.v }
func (e numExpr) String() string      { return e.text }

func (e varExpr) Eval(v Variables) Real {
	if e.name == "pi" {
		return math.Pi
	}
	x, _ := v.Value(e.name)
	return x
}
func (e varExpr) String() string { return e.name }

func (e negExpr) Eval(v Variables) Real { return -e.x.Eval(v) }
func (e negExpr) String() string        { return "-" + e.x.String() }

func (e binExpr) Eval(v Variables) Real {
	l, r := e.l.Eval(v), e.r.Eval(v)
	switch e.op {
	case '+':
		return l + r
	case '-':
		return l - r
	case '*':
		return l * r
	}
	return l / r
}
func (e binExpr) String() string {
	return "(" + e.l.String() + " " + string(e.op) + " " + e.r.String() + ")"
}

var functions = map[string]func(Real) Real{
	"abs": math.Abs,
	"cos": math.Cos,
	"sin": math.Sin,
	"tan": math.Tan,
}

func (e callExpr) Eval(v Variables) Real { return functions[e.fn](e.arg.Eval(v)) }
func (e callExpr) String() string        { return e.fn + "(" + e.arg.String() + ")" }

// ParseExpr parses an arithmetic expression over x, y, z and pi with
// + - * /, parentheses and abs, cos, sin, tan.
func ParseExpr(src string) (Expr, error) {
	p := &exprParser{src: src}
	p.next()
	e, err := p.sum()
	if err != nil {
		return nil, err
	}
	if p.tok != tokEOF {
		return nil, fmt.Errorf("%w: unexpected %q in %q", ErrInvalidExpression, p.text, src)
	}
	return e, nil
}

type token int

const (
	tokEOF token = iota
	tokNum
	tokIdent
	tokOp
)

type exprParser struct {
	src  string
	pos  int
	tok  token
	text string
}

func (p *exprParser) next() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
	if p.pos >= len(p.src) {
		p.tok, p.text = tokEOF, ""
		return
	}
	start := p.pos
	c := rune(p.src[p.pos])
	switch {
	case unicode.IsDigit(c) || c == '.':
		for p.pos < len(p.src) && (unicode.IsDigit(rune(p.src[p.pos])) || p.src[p.pos] == '.') {
			p.pos++
		}
		// exponent
		if p.pos < len(p.src) && (p.src[p.pos] == 'e' || p.src[p.pos] == 'E') {
			q := p.pos + 1
			if q < len(p.src) && (p.src[q] == '+' || p.src[q] == '-') {
				q++
			}
			if q < len(p.src) && unicode.IsDigit(rune(p.src[q])) {
				for q < len(p.src) && unicode.IsDigit(rune(p.src[q])) {
					q++
				}
				p.pos = q
			}
		}
		p.tok = tokNum
	case unicode.IsLetter(c):
		for p.pos < len(p.src) && (unicode.IsLetter(rune(p.src[p.pos])) || unicode.IsDigit(rune(p.src[p.pos]))) {
			p.pos++
		}
		p.tok = tokIdent
	default:
		p.pos++
		p.tok = tokOp
	}
	p.text = p.src[start:p.pos]
}

func (p *exprParser) sum() (Expr, error) {
	l, err := p.product()
	if err != nil {
		return nil, err
	}
	for p.tok == tokOp && (p.text == "+" || p.text == "-") {
		op := p.text[0]
		p.next()
		r, err := p.product()
		if err != nil {
			return nil, err
		}
		l = binExpr{op: op, l: l, r: r}
	}
	return l, nil
}

func (p *exprParser) product() (Expr, error) {
	l, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.tok == tokOp && (p.text == "*" || p.text == "/") {
		op := p.text[0]
		p.next()
		r, err := p.unary()
		if err != nil {
			return nil, err
		}
		l = binExpr{op: op, l: l, r: r}
	}
	return l, nil
}

func (p *exprParser) unary() (Expr, error) {
	if p.tok == tokOp && (p.text == "-" || p.text == "+") {
		neg := p.text == "-"
		p.next()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		if neg {
			return negExpr{x}, nil
		}
		return x, nil
	}
	return p.primary()
}

func (p *exprParser) primary() (Expr, error) {
	switch p.tok {
	case tokNum:
		v, err := strconv.ParseFloat(p.text, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad number %q", ErrInvalidExpression, p.text)
		}
		e := numExpr{v: v, text: p.text}
		p.next()
		return e, nil
	case tokIdent:
		name := p.text
		p.next()
		if _, ok := functions[name]; ok {
			if p.tok != tokOp || p.text != "(" {
				return nil, fmt.Errorf("%w: %s needs an argument", ErrInvalidExpression, name)
			}
			arg, err := p.group()
			if err != nil {
				return nil, err
			}
			return callExpr{fn: name, arg: arg}, nil
		}
		// unknown single letters read as 0
		if len(name) == 1 || name == "pi" {
			return varExpr{name}, nil
		}
		return nil, fmt.Errorf("%w: unknown name %q", ErrInvalidExpression, name)
	case tokOp:
		if p.text == "(" {
			return p.group()
		}
	}
	if p.tok == tokEOF {
		return nil, fmt.Errorf("%w: unexpected end of %q", ErrInvalidExpression, p.src)
	}
	return nil, fmt.Errorf("%w: unexpected %q in %q", ErrInvalidExpression, p.text, p.src)
}

// group parses "( sum )" with the current token at "(".
func (p *exprParser) group() (Expr, error) {
	p.next()
	e, err := p.sum()
	if err != nil {
		return nil, err
	}
	if p.tok != tokOp || p.text != ")" {
		return nil, fmt.Errorf("%w: missing ) in %q", ErrInvalidExpression, p.src)
	}
	p.next()
	return e, nil
}

// Equation is a property value: either a plain number or an expression
// evaluated against the scan variables on every read.
type Equation struct {
	number     Real
	expression string
	expr       Expr
}

// Num returns an Equation holding a plain number.
func Num(v Real) Equation { return Equation{number: v} }

// NewEquation accepts a number or an expression string. Invalid input
// leaves the value at 0.
func NewEquation(value interface{}) Equation {
	var e Equation
	_ = e.Set(value)
	return e
}

// Set replaces the value. Strings holding a plain number are stored as
// numbers; invalid expressions are rejected and the old value kept.
func (e *Equation) Set(value interface{}) error {
	switch v := value.(type) {
	case Equation:
		*e = v
	case Real:
		if math.IsNaN(v) {
			return fmt.Errorf("%w: NaN", ErrInvalidExpression)
		}
		*e = Equation{number: v}
	case int:
		*e = Equation{number: Real(v)}
	case string:
		s := strings.TrimSpace(v)
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			*e = Equation{number: f}
			return nil
		}
		x, err := ParseExpr(s)
		if err != nil {
			return err
		}
		*e = Equation{expression: s, expr: x}
	default:
		return fmt.Errorf("%w: unsupported value %T", ErrInvalidExpression, value)
	}
	return nil
}

// Value evaluates the equation in the given variable context.
func (e Equation) Value(v Variables) Real {
	if e.expr == nil {
		return e.number
	}
	return e.expr.Eval(v)
}

func (e Equation) IsExpression() bool { return e.expr != nil }

func (e Equation) String() string {
	if e.expr != nil {
		return e.expression
	}
	return strconv.FormatFloat(e.number, 'g', -1, 64)
}

var trailingLiteral = regexp.MustCompile(`^(.*?)\s*([+-])\s*(\d+(?:\.\d+)?)\s*$`)

// Increment nudges the value by amount. Numbers are added to; for an
// expression ending in "± literal" the literal is adjusted, otherwise
// "+ amount" is appended.
func (e *Equation) Increment(amount Real) {
	if e.expr == nil {
		e.number += amount
		return
	}
	expr := e.expression
	if m := trailingLiteral.FindStringSubmatch(expr); m != nil && m[1] != "" && !strings.HasSuffix(m[1], "e") && !strings.HasSuffix(m[1], "E") {
		lit, _ := strconv.ParseFloat(m[3], 64)
		if m[2] == "-" {
			lit = -lit
		}
		expr = m[1] + signedTerm(lit+amount)
	} else {
		expr += signedTerm(amount)
	}
	_ = e.Set(expr)
}

func signedTerm(v Real) string {
	if v < 0 {
		return " - " + strconv.FormatFloat(-v, 'f', -1, 64)
	}
	return " + " + strconv.FormatFloat(v, 'f', -1, 64)
}

func (e Equation) MarshalJSON() ([]byte, error) {
	if e.expr != nil {
		return json.Marshal(e.expression)
	}
	return json.Marshal(e.number)
}

func (e *Equation) UnmarshalJSON(data []byte) error {
	var f Real
	if err := json.Unmarshal(data, &f); err == nil {
		*e = Equation{number: f}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidExpression, string(data))
	}
	return e.Set(s)
}
