// Package exprgen generates random fully-parenthesized expressions along with
// their values computed in float64 arithmetic.
package exprgen

import (
	"math"
	"math/rand"
	"strconv"
)

// Ops contains every binary operator.
var Ops = []string{"+", "-", "*", "/", "^"}

// DefaultMaxLiteral is the default largest numeral generated.
const DefaultMaxLiteral = 99

// MaxExponent is the largest exponent a generated ^ operation uses.
const MaxExponent = 3

// An Expr is a generated expression.
type Expr struct {
	// Src is the expression text.
	Src string
	// Value is the expression's value computed with float64.
	Value float64
}

// A Generator generates random expressions.
type Generator struct {
	// MaxLiteral is the largest numeral to generate.
	// If this is 0, DefaultMaxLiteral is used.
	MaxLiteral int

	// Ops stores the allowed operators. If it is empty, Ops is used.
	Ops []string

	// Spaces makes the generator put spaces around operators.
	Spaces bool

	// Rand is the source of randomness. If it is nil, the top-level
	// functions of math/rand are used.
	Rand *rand.Rand
}

// Generate generates a random expression with a given maximum bracket
// nesting depth. If maxDepth is 0, the result is a single numeral.
//
// Both operands of ^ are numerals, and the exponent is at most MaxExponent,
// so that the float64 value stays exact enough to compare against.
func (g *Generator) Generate(maxDepth int) Expr {
	if maxDepth <= 0 || g.intn(maxDepth+1) == 0 {
		return g.literal(g.maxLiteral())
	}
	ops := g.Ops
	if len(ops) == 0 {
		ops = Ops
	}
	op := ops[g.intn(len(ops))]
	var l, r Expr
	if op == "^" {
		l = g.literal(g.maxLiteral())
		r = g.literal(MaxExponent)
	} else {
		l = g.Generate(maxDepth - 1)
		r = g.Generate(maxDepth - 1)
	}
	sep := ""
	if g.Spaces {
		sep = " "
	}
	return Expr{
		Src:   "(" + l.Src + sep + op + sep + r.Src + ")",
		Value: Apply(op, l.Value, r.Value),
	}
}

// Apply computes l op r in float64.
func Apply(op string, l, r float64) float64 {
	switch op {
	case "+":
		return l + r
	case "-":
		return l - r
	case "*":
		return l * r
	case "/":
		return l / r
	case "^":
		return math.Pow(l, r)
	}
	panic("unknown operator: " + op)
}

func (g *Generator) literal(max int) Expr {
	n := g.intn(max + 1)
	return Expr{Src: strconv.Itoa(n), Value: float64(n)}
}

func (g *Generator) maxLiteral() int {
	if g.MaxLiteral <= 0 {
		return DefaultMaxLiteral
	}
	return g.MaxLiteral
}

func (g *Generator) intn(n int) int {
	if g.Rand == nil {
		return rand.Intn(n)
	}
	return g.Rand.Intn(n)
}
