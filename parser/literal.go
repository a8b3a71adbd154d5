package parser

import "github.com/sparqlcore/engine/ast"

// parseTerm parses one triple-pattern position: a variable, an IRI/prefixed
// name, a blank node, or an RDF literal.
func (p *Parser) parseTerm() (ast.TermOrVar, error) {
	p.skipWS()
	if p.eof() {
		return ast.TermOrVar{}, p.fail("expected term")
	}
	switch p.src[p.pos] {
	case '?', '$':
		v, err := p.parseVar()
		if err != nil {
			return ast.TermOrVar{}, err
		}
		return ast.TermOrVar{Kind: ast.TermVar, Var: v}, nil
	case '<':
		return p.parseIRITerm()
	case '_':
		return p.parseBlankNode()
	case '"', '\'':
		return p.parseLiteral()
	}
	if p.matchKeyword("true") {
		return p.boolLiteral(true), nil
	}
	if p.matchKeyword("false") {
		return p.boolLiteral(false), nil
	}
	if c := p.src[p.pos]; c == '+' || c == '-' || (c >= '0' && c <= '9') || c == '.' {
		return p.parseNumericLiteral()
	}
	return p.parseIRITerm()
}

func (p *Parser) parseBlankNode() (ast.TermOrVar, error) {
	if !p.matchByte('_') {
		return ast.TermOrVar{}, p.fail("expected blank node")
	}
	if err := p.expectByte(':'); err != nil {
		return ast.TermOrVar{}, err
	}
	labelStart := p.pos
	label := p.readName()
	if label == "" {
		return ast.TermOrVar{}, p.fail("empty blank node label")
	}
	return ast.TermOrVar{Kind: ast.TermBlank, Lexical: ast.NewSpan(labelStart, p.pos)}, nil
}

// parseLiteral parses a quoted string literal, optionally followed by a
// language tag ("@en") or a datatype IRI ("^^<iri>" or "^^prefix:local").
func (p *Parser) parseLiteral() (ast.TermOrVar, error) {
	quote := p.src[p.pos]
	long := p.pos+2 < len(p.src) && p.src[p.pos+1] == quote && p.src[p.pos+2] == quote
	delim := 1
	if long {
		delim = 3
	}
	p.pos += delim
	start := p.pos
	for {
		if p.eof() {
			return ast.TermOrVar{}, p.fail("unterminated string literal")
		}
		if p.src[p.pos] == '\\' {
			p.pos += 2
			continue
		}
		if matchesAt(p.src, p.pos, quote, delim) {
			break
		}
		p.pos++
	}
	lexStart, lexEnd := start, p.pos
	p.pos += delim

	t := ast.TermOrVar{Kind: ast.TermLiteral, Lexical: ast.NewSpan(lexStart, lexEnd)}
	switch {
	case p.matchByte('@'):
		langStart := p.pos
		for !p.eof() && (isNameChar(p.src[p.pos]) || p.src[p.pos] == '-') {
			p.pos++
		}
		t.Lang = ast.NewSpan(langStart, p.pos)
	case p.pos+1 < len(p.src) && p.src[p.pos] == '^' && p.src[p.pos+1] == '^':
		p.pos += 2
		dt, err := p.parseIRITerm()
		if err != nil {
			return ast.TermOrVar{}, err
		}
		t.Datatype = dt.Lexical
	}
	return t, nil
}

func matchesAt(s string, pos int, quote byte, delim int) bool {
	if pos+delim > len(s) {
		return false
	}
	for i := 0; i < delim; i++ {
		if s[pos+i] != quote {
			return false
		}
	}
	return true
}

// parseNumericLiteral parses an unquoted integer/decimal/double shortcut
// and records it as a typed literal with the matching XSD datatype, stored
// via the resolved-IRI table since the datatype has no source span of its
// own.
func (p *Parser) parseNumericLiteral() (ast.TermOrVar, error) {
	start := p.pos
	if !p.eof() && (p.src[p.pos] == '+' || p.src[p.pos] == '-') {
		p.pos++
	}
	sawDigits := false
	for !p.eof() && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
		sawDigits = true
	}
	isDecimal := false
	if !p.eof() && p.src[p.pos] == '.' {
		isDecimal = true
		p.pos++
		for !p.eof() && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			p.pos++
			sawDigits = true
		}
	}
	isDouble := false
	if !p.eof() && (p.src[p.pos] == 'e' || p.src[p.pos] == 'E') {
		isDouble = true
		p.pos++
		if !p.eof() && (p.src[p.pos] == '+' || p.src[p.pos] == '-') {
			p.pos++
		}
		for !p.eof() && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			p.pos++
		}
	}
	if !sawDigits {
		return ast.TermOrVar{}, p.fail("expected numeric literal")
	}
	lex := ast.NewSpan(start, p.pos)
	dt := "http://www.w3.org/2001/XMLSchema#integer"
	switch {
	case isDouble:
		dt = "http://www.w3.org/2001/XMLSchema#double"
	case isDecimal:
		dt = "http://www.w3.org/2001/XMLSchema#decimal"
	}
	return ast.TermOrVar{Kind: ast.TermLiteral, Lexical: lex, Datatype: p.syntheticIRISpan(dt)}, nil
}

func (p *Parser) boolLiteral(v bool) ast.TermOrVar {
	lex := "false"
	if v {
		lex = "true"
	}
	// Borrow the tail of the already-consumed keyword as the literal's span;
	// both read back the same text via Span.Text.
	end := p.pos
	start := end - len(lex)
	return ast.TermOrVar{
		Kind:     ast.TermLiteral,
		Lexical:  ast.NewSpan(start, end),
		Datatype: p.syntheticIRISpan("http://www.w3.org/2001/XMLSchema#boolean"),
	}
}

// syntheticIRISpan records iri in the resolved-IRI side table and returns
// the negative-start span encoding that indexes it.
func (p *Parser) syntheticIRISpan(iri string) ast.Span {
	p.resolved = append(p.resolved, resolvedIRI{iri: iri})
	idx := len(p.resolved) - 1
	return ast.Span{Start: -(idx + 1), Length: 0}
}
