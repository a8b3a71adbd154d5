// Package compare implements the RDF value comparator, numeric promotion
// lattice, and arithmetic used by ORDER BY, FILTER expressions, and the
// aggregator.
package compare

import (
	"strconv"
	"strings"

	"github.com/sparqlcore/engine/rdfterm"
)

// NumericKind ranks the XSD numeric promotion lattice: integer -> decimal
// -> float -> double, matching the comparator rule "promote to a common
// type and compare numerically".
type NumericKind int

const (
	NotNumeric NumericKind = iota
	KindInteger
	KindDecimal
	KindFloat
	KindDouble
)

func numericKind(t rdfterm.Term) NumericKind {
	if t.Kind != rdfterm.TypedLiteral {
		return NotNumeric
	}
	switch t.Datatype {
	case rdfterm.XSDDouble:
		return KindDouble
	case rdfterm.XSDFloat:
		return KindFloat
	case rdfterm.XSDDecimal:
		return KindDecimal
	}
	if rdfterm.IsIntegerDatatype(t.Datatype) {
		return KindInteger
	}
	return NotNumeric
}

// AsFloat parses a numeric literal's lexical form as float64; ok is false
// for a non-numeric term or an unparseable lexical form.
func AsFloat(t rdfterm.Term) (float64, bool) {
	if numericKind(t) == NotNumeric {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(t.Lexical), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Order defines a three-way ordering result, the conventional -1/0/1
// comparator return shape.
type Order int

const (
	Less    Order = -1
	Equal   Order = 0
	Greater Order = 1
)

// Compare implements the §4.5 comparator. The bool return is false when the
// two terms are genuinely incomparable (e.g. mismatched language tags),
// in which case callers needing a total order should fall back to
// CrossKindOrder.
func Compare(a, b rdfterm.Term) (Order, bool) {
	ak, bk := numericKind(a), numericKind(b)
	if ak != NotNumeric && bk != NotNumeric {
		af, aok := AsFloat(a)
		bf, bok := AsFloat(b)
		if aok && bok {
			switch {
			case af < bf:
				return Less, true
			case af > bf:
				return Greater, true
			default:
				return Equal, true
			}
		}
	}

	aIsPlain := a.Kind == rdfterm.PlainLiteral || a.Kind == rdfterm.LangLiteral
	bIsPlain := b.Kind == rdfterm.PlainLiteral || b.Kind == rdfterm.LangLiteral
	if aIsPlain && bIsPlain {
		if !strings.EqualFold(a.Lang, b.Lang) {
			return 0, false
		}
		return compareStrings(a.Lexical, b.Lexical), true
	}

	if a.Kind == rdfterm.IRI && b.Kind == rdfterm.IRI {
		return compareStrings(a.Lexical, b.Lexical), true
	}

	if a.Kind == b.Kind && a.Kind == rdfterm.TypedLiteral && a.Datatype == b.Datatype {
		return compareStrings(a.Lexical, b.Lexical), true
	}

	return 0, false
}

func compareStrings(a, b string) Order {
	switch {
	case a < b:
		return Less
	case a > b:
		return Greater
	default:
		return Equal
	}
}

// CrossKindOrder produces a total order for ORDER BY determinism, falling
// back to term-kind order (unbound < blank < IRI < literal) whenever
// Compare reports incomparability, and otherwise using Compare's result.
func CrossKindOrder(a, b rdfterm.Term) Order {
	if a.Kind != b.Kind {
		ao, bo := rdfterm.KindOrder(a.Kind), rdfterm.KindOrder(b.Kind)
		switch {
		case ao < bo:
			return Less
		case ao > bo:
			return Greater
		default:
			return Equal
		}
	}
	if ord, ok := Compare(a, b); ok {
		return ord
	}
	return compareStrings(a.Lexical, b.Lexical)
}

// Equals reports RDF term equality per the §3 data-model rule: same kind,
// same lexical form, same datatype/language — NOT numeric value equality
// (so "1"^^xsd:integer and "1.0"^^xsd:decimal are unequal terms even
// though Compare ranks them equal).
func Equals(a, b rdfterm.Term) bool {
	return a.Equals(b)
}
