package parser

import (
	"github.com/sparqlcore/engine/ast"
	"github.com/sparqlcore/engine/binding"
)

// parseVar parses "?name" or "$name" (the leading byte must be next).
func (p *Parser) parseVar() (*ast.Variable, error) {
	p.skipWS()
	if p.eof() || (p.src[p.pos] != '?' && p.src[p.pos] != '$') {
		return nil, p.fail("expected variable")
	}
	start := p.pos
	p.pos++
	name := p.readName()
	if name == "" {
		return nil, p.fail("empty variable name")
	}
	return &ast.Variable{
		Name: name,
		Hash: uint32(binding.HashVar(name)),
		Span: ast.NewSpan(start, p.pos),
	}, nil
}

// parseVarOrIRI parses either a "?var" or an IRI/prefixed-name, used by
// DESCRIBE's resource list and GRAPH's name.
func (p *Parser) parseVarOrIRI() (ast.TermOrVar, error) {
	p.skipWS()
	if !p.eof() && p.src[p.pos] == '?' {
		v, err := p.parseVar()
		if err != nil {
			return ast.TermOrVar{}, err
		}
		return ast.TermOrVar{Kind: ast.TermVar, Var: v}, nil
	}
	return p.parseIRITerm()
}

// parseIRITerm parses "<iri>" or "prefix:local", returning a constant IRI
// TermOrVar whose Lexical span covers the resolved IRI text. Since a
// prefixed name expands to text not present verbatim at a single source
// span when the prefix table substitutes it, the parser resolves it
// eagerly and stores the expansion as an out-of-band string on a
// synthetic span recorded in the parser's resolved-IRI table; for the
// direct "<iri>" form the span covers the literal source bytes.
func (p *Parser) parseIRITerm() (ast.TermOrVar, error) {
	p.skipWS()
	if p.eof() {
		return ast.TermOrVar{}, p.fail("expected IRI")
	}
	if p.src[p.pos] == '<' {
		start := p.pos + 1
		if _, err := p.parseIRIRefLiteral(); err != nil {
			return ast.TermOrVar{}, err
		}
		return ast.TermOrVar{Kind: ast.TermIRI, Lexical: ast.NewSpan(start, p.pos-1)}, nil
	}
	if p.matchKeyword("a") {
		// "a" shorthand for rdf:type, stored as a resolved IRI via the
		// synthetic-resolution path (no source span covers the full IRI).
		return p.resolvedIRITerm("http://www.w3.org/1999/02/22-rdf-syntax-ns#type"), nil
	}
	// prefix:local
	start := p.pos
	prefix := p.readName()
	if !p.matchByte(':') {
		p.pos = start
		return ast.TermOrVar{}, p.fail("expected prefixed name or IRI")
	}
	local := p.readLocalName()
	iri, ok := p.prologue.ResolvePrefixed(prefix, local)
	if !ok {
		return ast.TermOrVar{}, ErrUnknownPrefix.New(prefix, start)
	}
	return p.resolvedIRITerm(iri), nil
}

// readLocalName reads a PN_LOCAL run, which may contain ':' itself is not
// allowed but digits/letters/_/-/. are (the core subset this parser needs).
func (p *Parser) readLocalName() string {
	start := p.pos
	for !p.eof() && isNameChar(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

// resolvedIRIs holds IRIs resolved during parsing (prefixed names, the "a"
// shorthand) that have no single verbatim span in source text. They are
// appended to a side table on the Parser and referenced by negative
// "synthetic" span starts so ast.Span.Text still works uniformly for any
// caller willing to consult the table; the evaluator instead reads
// TermOrVar via the store/exec layer, which resolves the IRI string
// directly from this table rather than re-slicing source text.
type resolvedIRI struct {
	iri string
}

func (p *Parser) resolvedIRITerm(iri string) ast.TermOrVar {
	p.resolved = append(p.resolved, resolvedIRI{iri: iri})
	idx := len(p.resolved) - 1
	// Encode the index as a negative span start so ast.Span stays a plain
	// value type; ResolveIRI below decodes it back.
	return ast.TermOrVar{Kind: ast.TermIRI, Lexical: ast.Span{Start: -(idx + 1), Length: 0}}
}

// ResolveIRI returns the literal IRI text for a TermOrVar built by this
// parser, whether it came from a verbatim "<iri>" span or a resolved
// prefixed-name/`a` shorthand.
func (p *Parser) ResolveIRI(t ast.TermOrVar) string {
	if t.Lexical.Start < 0 {
		return p.resolved[-t.Lexical.Start-1].iri
	}
	return t.Lexical.Text(p.src)
}
