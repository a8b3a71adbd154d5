package exec

import (
	"strings"

	"github.com/sparqlcore/engine/ast"
	"github.com/sparqlcore/engine/rdfterm"
)

// ConstantTerm resolves a non-variable TermOrVar slot to its rdfterm.Term
// value, reading the IRI/blank/literal text from q.Source (or the
// resolved-IRI side table for prefixed names and the "a" shorthand).
func ConstantTerm(q *ast.Query, t ast.TermOrVar) rdfterm.Term {
	return constantTerm(q, t)
}

// constantTerm is ConstantTerm's unexported body, kept so in-package
// callers don't pay an extra indirection.
func constantTerm(q *ast.Query, t ast.TermOrVar) rdfterm.Term {
	switch t.Kind {
	case ast.TermIRI:
		return rdfterm.NewIRI(ast.ResolveIRI(q, t))
	case ast.TermBlank:
		return rdfterm.NewBlankNode(t.Lexical.Text(q.Source))
	case ast.TermLiteral:
		lex := unescapeLiteral(t.Lexical.Text(q.Source))
		switch {
		case t.Lang.Length > 0:
			return rdfterm.NewLangLiteral(lex, t.Lang.Text(q.Source))
		case t.Datatype.Length > 0 || t.Datatype.Start < 0:
			return rdfterm.NewTypedLiteral(lex, ast.ResolveIRI(q, ast.TermOrVar{Lexical: t.Datatype}))
		default:
			return rdfterm.NewPlainLiteral(lex)
		}
	}
	return rdfterm.UnboundTerm
}

// unescapeLiteral interprets the \n \t \r backslash escapes the parser
// leaves raw in a literal's recorded lexical span.
func unescapeLiteral(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(s[i])
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
