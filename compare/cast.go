package compare

import (
	"github.com/spf13/cast"

	"github.com/sparqlcore/engine/rdfterm"
)

// CastInteger, CastDecimal, CastDouble, CastBoolean, CastString, and
// CastDateTime implement the §4.5 XSD constructor-function casts. A failed
// cast returns (UnboundTerm, false); the caller's expression evaluator
// treats that as an error value that propagates per EBV rules.
func CastInteger(t rdfterm.Term) (rdfterm.Term, bool) {
	n, err := cast.ToInt64E(lexicalOf(t))
	if err != nil {
		return rdfterm.UnboundTerm, false
	}
	return rdfterm.NewTypedLiteral(cast.ToString(n), rdfterm.XSDInteger), true
}

func CastDecimal(t rdfterm.Term) (rdfterm.Term, bool) {
	f, err := cast.ToFloat64E(lexicalOf(t))
	if err != nil {
		return rdfterm.UnboundTerm, false
	}
	return formatNumeric(f, KindDecimal), true
}

func CastDouble(t rdfterm.Term) (rdfterm.Term, bool) {
	f, err := cast.ToFloat64E(lexicalOf(t))
	if err != nil {
		return rdfterm.UnboundTerm, false
	}
	return formatNumeric(f, KindDouble), true
}

func CastBoolean(t rdfterm.Term) (rdfterm.Term, bool) {
	b, err := cast.ToBoolE(lexicalOf(t))
	if err != nil {
		return rdfterm.UnboundTerm, false
	}
	lex := "false"
	if b {
		lex = "true"
	}
	return rdfterm.NewTypedLiteral(lex, rdfterm.XSDBoolean), true
}

func CastString(t rdfterm.Term) (rdfterm.Term, bool) {
	return rdfterm.NewTypedLiteral(lexicalOf(t), rdfterm.XSDString), true
}

func CastDateTime(t rdfterm.Term) (rdfterm.Term, bool) {
	s := lexicalOf(t)
	if s == "" {
		return rdfterm.UnboundTerm, false
	}
	return rdfterm.NewTypedLiteral(s, rdfterm.XSDDateTime), true
}

func lexicalOf(t rdfterm.Term) string {
	if !t.IsBound() {
		return ""
	}
	return t.Lexical
}
