package compare

import (
	"fmt"
	"strconv"

	"github.com/sparqlcore/engine/rdfterm"
)

// Op identifies a binary arithmetic operator.
type Op int

const (
	Add Op = iota
	Sub
	Mul
	Div
)

// Arithmetic evaluates a+b, a-b, a*b, or a/b per §4.5: operands promote
// through the numeric lattice, and the result carries the promoted type —
// except that integer / integer always promotes to xsd:decimal, matching
// SPARQL's division semantics.
func Arithmetic(op Op, a, b rdfterm.Term) (rdfterm.Term, bool) {
	ak, bk := numericKind(a), numericKind(b)
	if ak == NotNumeric || bk == NotNumeric {
		return rdfterm.UnboundTerm, false
	}
	af, aok := AsFloat(a)
	bf, bok := AsFloat(b)
	if !aok || !bok {
		return rdfterm.UnboundTerm, false
	}

	result := promote(ak, bk)
	if op == Div && ak == KindInteger && bk == KindInteger {
		result = KindDecimal
	}
	if op == Div && bf == 0 {
		return rdfterm.UnboundTerm, false
	}

	var v float64
	switch op {
	case Add:
		v = af + bf
	case Sub:
		v = af - bf
	case Mul:
		v = af * bf
	case Div:
		v = af / bf
	}

	return formatNumeric(v, result), true
}

func promote(a, b NumericKind) NumericKind {
	if a > b {
		return a
	}
	return b
}

func formatNumeric(v float64, kind NumericKind) rdfterm.Term {
	var lex, dt string
	switch kind {
	case KindInteger:
		lex = strconv.FormatInt(int64(v), 10)
		dt = rdfterm.XSDInteger
	case KindDecimal:
		lex = strconv.FormatFloat(v, 'f', -1, 64)
		dt = rdfterm.XSDDecimal
	case KindFloat:
		lex = fmt.Sprintf("%g", v)
		dt = rdfterm.XSDFloat
	default:
		lex = fmt.Sprintf("%g", v)
		dt = rdfterm.XSDDouble
	}
	return rdfterm.NewTypedLiteral(lex, dt)
}
