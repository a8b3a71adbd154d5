package parser

import "github.com/sparqlcore/engine/ast"

// parseSolutionModifier parses the optional GROUP BY / HAVING / ORDER BY /
// LIMIT / OFFSET tail of a SELECT query.
func (p *Parser) parseSolutionModifier() (*ast.SolutionModifier, error) {
	mod := &ast.SolutionModifier{Limit: -1}

	if p.matchKeyword("GROUP") {
		if err := p.expectKeyword("BY"); err != nil {
			return nil, err
		}
		for {
			p.skipWS()
			if !p.eof() && (p.src[p.pos] == '?' || p.src[p.pos] == '$') {
				v, err := p.parseVar()
				if err != nil {
					return nil, err
				}
				mod.GroupBy = append(mod.GroupBy, v.Span)
				continue
			}
			if !p.eof() && p.src[p.pos] == '(' {
				start := p.pos
				if err := p.skipBalancedExprUntilStop(); err != nil {
					return nil, err
				}
				mod.GroupBy = append(mod.GroupBy, ast.NewSpan(start, p.pos))
				continue
			}
			break
		}
	}

	if p.matchKeyword("HAVING") {
		start := p.pos
		if err := p.skipBalancedExprUntilStop(); err != nil {
			return nil, err
		}
		mod.Having = ast.NewSpan(start, p.pos)
	}

	if p.matchKeyword("ORDER") {
		if err := p.expectKeyword("BY"); err != nil {
			return nil, err
		}
		for {
			p.skipWS()
			if p.eof() || p.src[p.pos] == ')' || isClauseKeyword(p) {
				break
			}
			desc := false
			if p.matchKeyword("DESC") {
				desc = true
			} else {
				p.matchKeyword("ASC")
			}
			start := p.pos
			if !p.eof() && p.src[p.pos] == '?' {
				v, err := p.parseVar()
				if err != nil {
					return nil, err
				}
				mod.OrderBy = append(mod.OrderBy, ast.OrderKey{Expr: v.Span, Descending: desc})
				continue
			}
			if err := p.skipBalancedExprUntilStop(); err != nil {
				return nil, err
			}
			if p.pos == start {
				break
			}
			mod.OrderBy = append(mod.OrderBy, ast.OrderKey{Expr: ast.NewSpan(start, p.pos), Descending: desc})
		}
	}

	for {
		if p.matchKeyword("LIMIT") {
			n, err := p.parseIntLiteral()
			if err != nil {
				return nil, err
			}
			mod.Limit = n
			continue
		}
		if p.matchKeyword("OFFSET") {
			n, err := p.parseIntLiteral()
			if err != nil {
				return nil, err
			}
			mod.Offset = n
			continue
		}
		break
	}

	return mod, nil
}

func (p *Parser) expectKeyword(kw string) error {
	if !p.matchKeyword(kw) {
		return p.fail("expected " + kw)
	}
	return nil
}

func isClauseKeyword(p *Parser) bool {
	return p.peekKeyword("LIMIT") || p.peekKeyword("OFFSET") || p.peekKeyword("VALUES")
}

func (p *Parser) parseIntLiteral() (int, error) {
	p.skipWS()
	start := p.pos
	if !p.eof() && (p.src[p.pos] == '+' || p.src[p.pos] == '-') {
		p.pos++
	}
	digitsStart := p.pos
	for !p.eof() && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == digitsStart {
		return 0, p.fail("expected integer")
	}
	n := 0
	neg := p.src[start] == '-'
	for i := digitsStart; i < p.pos; i++ {
		n = n*10 + int(p.src[i]-'0')
	}
	if neg {
		n = -n
	}
	return n, nil
}

// skipBalancedExprUntilStop advances past a parenthesized or bare
// expression, stopping at the first top-level whitespace boundary
// followed by a clause keyword, or end of input/')'.
func (p *Parser) skipBalancedExprUntilStop() error {
	depth := 0
	if !p.eof() && p.src[p.pos] == '(' {
		start := p.pos
		for !p.eof() {
			c := p.src[p.pos]
			switch {
			case c == '"' || c == '\'':
				if _, err := p.parseLiteral(); err != nil {
					return err
				}
				continue
			case c == '(':
				depth++
			case c == ')':
				depth--
				p.pos++
				if depth == 0 {
					return nil
				}
				continue
			}
			p.pos++
		}
		_ = start
		return nil
	}
	for !p.eof() {
		c := p.src[p.pos]
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			save := p.pos
			p.skipWS()
			if p.eof() || p.src[p.pos] == ')' || p.src[p.pos] == '.' ||
				p.peekKeyword("LIMIT") || p.peekKeyword("OFFSET") || p.peekKeyword("GROUP") ||
				p.peekKeyword("HAVING") || p.peekKeyword("ORDER") || p.peekKeyword("DESC") ||
				p.peekKeyword("ASC") {
				return nil
			}
			p.pos = save
		}
		if c == ')' || c == '.' {
			return nil
		}
		p.pos++
	}
	return nil
}
