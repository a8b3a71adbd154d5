package parser

import "github.com/sparqlcore/engine/ast"

// parseGroupGraphPattern parses a "{ ... }" group, dispatching each element
// to triples, FILTER, OPTIONAL, MINUS, UNION, BIND, GRAPH or a sub-SELECT.
func (p *Parser) parseGroupGraphPattern() (*ast.GraphPattern, error) {
	if err := p.expectByte('{'); err != nil {
		return nil, err
	}
	gp := &ast.GraphPattern{}

	for {
		p.skipWS()
		if p.matchByte('}') {
			return gp, nil
		}

		switch {
		case p.peekKeyword("OPTIONAL"):
			p.matchKeyword("OPTIONAL")
			inner, err := p.parseGroupGraphPattern()
			if err != nil {
				return nil, err
			}
			gp.Optional = append(gp.Optional, ast.OptionalBlock{Inner: inner})

		case p.peekKeyword("MINUS"):
			p.matchKeyword("MINUS")
			inner, err := p.parseGroupGraphPattern()
			if err != nil {
				return nil, err
			}
			gp.Minus = append(gp.Minus, ast.MinusBlock{Inner: inner, ParentBlock: -1})

		case p.peekKeyword("FILTER"):
			p.matchKeyword("FILTER")
			if err := p.parseFilter(gp); err != nil {
				return nil, err
			}

		case p.peekKeyword("BIND"):
			p.matchKeyword("BIND")
			if err := p.expectByte('('); err != nil {
				return nil, err
			}
			exprStart := p.pos
			if err := p.skipBalancedUntilKeyword("AS"); err != nil {
				return nil, err
			}
			exprEnd := p.lastTokenEnd
			p.matchKeyword("AS")
			v, err := p.parseVar()
			if err != nil {
				return nil, err
			}
			if err := p.expectByte(')'); err != nil {
				return nil, err
			}
			gp.Binds = append(gp.Binds, ast.BindClause{Expr: ast.NewSpan(exprStart, exprEnd), Var: v})

		case p.peekKeyword("GRAPH"):
			p.matchKeyword("GRAPH")
			name, err := p.parseVarOrIRI()
			if err != nil {
				return nil, err
			}
			inner, err := p.parseGroupGraphPattern()
			if err != nil {
				return nil, err
			}
			gp.Graphs = append(gp.Graphs, ast.GraphBlock{Name: name, Inner: inner})

		case p.peekKeyword("SELECT"):
			sub, err := p.parseQuery()
			if err != nil {
				return nil, err
			}
			gp.SubSelects = append(gp.SubSelects, ast.SubSelect{Query: sub})

		case !p.eof() && p.src[p.pos] == '{':
			branch, err := p.parseGroupGraphPattern()
			if err != nil {
				return nil, err
			}
			if p.peekKeyword("UNION") {
				gp.Union = append(gp.Union, ast.UnionBranch{Pattern: branch})
				for p.matchKeyword("UNION") {
					next, err := p.parseGroupGraphPattern()
					if err != nil {
						return nil, err
					}
					gp.Union = append(gp.Union, ast.UnionBranch{Pattern: next})
				}
			} else {
				// A bare nested group with no UNION just merges its
				// contents into the parent scope.
				mergeGraphPattern(gp, branch)
			}

		default:
			tmpl, err := p.parseTriplesBlock('}')
			if err != nil {
				return nil, err
			}
			gp.Patterns = append(gp.Patterns, tmpl...)
		}

		p.skipWS()
		p.matchByte('.')
	}
}

func mergeGraphPattern(dst, src *ast.GraphPattern) {
	dst.Patterns = append(dst.Patterns, src.Patterns...)
	dst.Filters = append(dst.Filters, src.Filters...)
	dst.Exists = append(dst.Exists, src.Exists...)
	dst.Optional = append(dst.Optional, src.Optional...)
	dst.Minus = append(dst.Minus, src.Minus...)
	dst.CompoundExists = append(dst.CompoundExists, src.CompoundExists...)
	dst.Union = append(dst.Union, src.Union...)
	dst.SubSelects = append(dst.SubSelects, src.SubSelects...)
	dst.Binds = append(dst.Binds, src.Binds...)
	dst.Graphs = append(dst.Graphs, src.Graphs...)
}

// parseTriplesBlock parses a run of "subject predicate object ." triples
// (including ";"-shared-subject and ","-shared-predicate shorthand) until
// stop or a keyword introducing a compound construct is seen.
func (p *Parser) parseTriplesBlock(stop byte) ([]ast.TriplePattern, error) {
	var out []ast.TriplePattern
	for {
		p.skipWS()
		if p.eof() || (!p.eof() && p.src[p.pos] == stop) {
			return out, nil
		}
		if p.peekKeyword("OPTIONAL") || p.peekKeyword("MINUS") || p.peekKeyword("FILTER") ||
			p.peekKeyword("BIND") || p.peekKeyword("GRAPH") || p.peekKeyword("UNION") ||
			p.peekKeyword("SELECT") || (!p.eof() && p.src[p.pos] == '{') {
			return out, nil
		}

		subj, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		for { // predicate-object list, separated by ';'
			pred, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			for { // object list, separated by ','
				obj, err := p.parseTerm()
				if err != nil {
					return nil, err
				}
				out = append(out, ast.TriplePattern{Subject: subj, Predicate: pred, Object: obj})
				if !p.matchByte(',') {
					break
				}
			}
			if !p.matchByte(';') {
				break
			}
			p.skipWS()
			if !p.eof() && (p.src[p.pos] == '.' || p.src[p.pos] == stop) {
				break
			}
		}
		p.skipWS()
		if !p.matchByte('.') {
			return out, nil
		}
	}
}

// parseFilter parses the expression (or compound-EXISTS / bare EXISTS)
// following FILTER, attaching it to gp.
func (p *Parser) parseFilter(gp *ast.GraphPattern) error {
	p.skipWS()
	if p.peekKeyword("EXISTS") || p.peekKeyword("NOT") {
		negated := p.matchKeyword("NOT")
		p.matchKeyword("EXISTS")
		inner, err := p.parseGroupGraphPattern()
		if err != nil {
			return err
		}
		gp.Exists = append(gp.Exists, ast.ExistsFilter{Negated: negated, Inner: inner})
		return nil
	}

	if p.matchByte('(') {
		p.pos--
	}
	exprStart := p.pos
	if err := p.skipBalancedExpr(); err != nil {
		return err
	}
	exprEnd := p.pos

	fe := ast.FilterExpr{Expr: ast.NewSpan(exprStart, exprEnd)}
	gp.Filters = append(gp.Filters, fe)
	filterIdx := len(gp.Filters) - 1

	// Scan the captured expression text for nested EXISTS/NOT EXISTS tokens
	// so a compound boolean filter can still short-circuit on them.
	text := p.src[exprStart:exprEnd]
	for i := 0; i+6 <= len(text); i++ {
		negated := false
		kwStart := i
		j := i
		if hasKeywordAt(text, j, "NOT") {
			negated = true
			j += 3
			for j < len(text) && isWS(text[j]) {
				j++
			}
		}
		if !hasKeywordAt(text, j, "EXISTS") {
			continue
		}
		// Locate the matching "{ ... }" following EXISTS.
		k := j + 6
		for k < len(text) && isWS(text[k]) {
			k++
		}
		if k >= len(text) || text[k] != '{' {
			continue
		}
		depth := 0
		end := -1
		for m := k; m < len(text); m++ {
			switch text[m] {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					end = m + 1
					goto found
				}
			}
		}
	found:
		if end < 0 {
			continue
		}
		innerSrc := exprStart + k
		sub := &Parser{src: p.src, pos: innerSrc, prologue: p.prologue}
		inner, err := sub.parseGroupGraphPattern()
		if err == nil {
			baseOffset := len(p.resolved)
			ast.RemapResolvedIndices(inner, baseOffset)
			p.resolved = append(p.resolved, sub.resolved...)
			gp.CompoundExists = append(gp.CompoundExists, ast.CompoundExistsRef{
				FilterIndex: filterIdx,
				Offset:      kwStart,
				Length:      end - kwStart,
				Negated:     negated,
				Inner:       inner,
			})
		}
		i = end - 1
	}
	return nil
}

func hasKeywordAt(s string, i int, kw string) bool {
	if i+len(kw) > len(s) {
		return false
	}
	for k := 0; k < len(kw); k++ {
		c := s[i+k]
		if c >= 'a' && c <= 'z' {
			c -= 32
		}
		if c != kw[k] {
			return false
		}
	}
	before := i == 0 || !isNameChar(s[i-1])
	after := i+len(kw) >= len(s) || !isNameChar(s[i+len(kw)])
	return before && after
}

func isWS(c byte) bool { return c == ' ' || c == '\t' || c == '\r' || c == '\n' }

// skipBalancedExpr advances past one filter expression, tracking
// paren/brace/bracket depth and quoted strings, stopping at the first '.'
// or ')' '}' at depth 0, or at a top-level whitespace run followed by a
// keyword that starts a new clause.
func (p *Parser) skipBalancedExpr() error {
	depth := 0
	for !p.eof() {
		c := p.src[p.pos]
		switch {
		case c == '"' || c == '\'':
			if _, err := p.parseLiteral(); err != nil {
				return err
			}
			continue
		case c == '<' && depth == 0 && looksLikeIRIStart(p.src, p.pos):
			if _, err := p.parseIRIRefLiteral(); err != nil {
				return err
			}
			continue
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			if depth == 0 {
				return nil
			}
			depth--
		case c == '{' || c == '}':
			return nil
		case c == '.' && depth == 0:
			return nil
		}
		p.pos++
	}
	return nil
}

func looksLikeIRIStart(s string, pos int) bool {
	for i := pos + 1; i < len(s); i++ {
		if s[i] == '>' {
			return true
		}
		if s[i] == ' ' || s[i] == '\n' {
			return false
		}
	}
	return false
}

// skipBalancedUntilKeyword behaves like skipBalancedExpr but additionally
// stops at an occurrence of kw at depth 0; p.lastTokenEnd records where the
// expression text actually ended (before the keyword).
func (p *Parser) skipBalancedUntilKeyword(kw string) error {
	depth := 0
	for !p.eof() {
		c := p.src[p.pos]
		if depth == 0 && hasKeywordAt(p.src, p.pos, kw) {
			p.lastTokenEnd = p.pos
			// trim trailing whitespace already skipped by caller's skipWS
			for p.lastTokenEnd > 0 && isWS(p.src[p.lastTokenEnd-1]) {
				p.lastTokenEnd--
			}
			return nil
		}
		switch {
		case c == '"' || c == '\'':
			if _, err := p.parseLiteral(); err != nil {
				return err
			}
			continue
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			if depth == 0 {
				p.lastTokenEnd = p.pos
				return nil
			}
			depth--
		}
		p.pos++
	}
	p.lastTokenEnd = p.pos
	return nil
}
