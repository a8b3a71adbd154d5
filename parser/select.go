package parser

import "github.com/sparqlcore/engine/ast"

// parseSelectClause parses "[DISTINCT|REDUCED] (* | projection+)" after the
// SELECT keyword has already been consumed.
func (p *Parser) parseSelectClause() (*ast.SelectClause, error) {
	sel := &ast.SelectClause{}
	if p.matchKeyword("DISTINCT") {
		sel.Distinct = true
	} else if p.matchKeyword("REDUCED") {
		sel.Reduced = true
	}

	p.skipWS()
	if p.matchByte('*') {
		sel.Star = true
		return sel, nil
	}

	for {
		p.skipWS()
		if p.eof() || !(p.src[p.pos] == '?' || p.src[p.pos] == '$' || p.src[p.pos] == '(') {
			break
		}
		item, agg, err := p.parseProjectExpr()
		if err != nil {
			return nil, err
		}
		sel.Items = append(sel.Items, item)
		if agg != nil {
			sel.Aggregates = append(sel.Aggregates, agg)
		}
	}
	if len(sel.Items) == 0 {
		return nil, p.fail("expected projection list or '*'")
	}
	return sel, nil
}

// parseProjectExpr parses one SELECT item: a bare "?var" or a parenthesized
// "(expr AS ?alias)", recognizing an aggregate-function call as expr.
func (p *Parser) parseProjectExpr() (ast.ProjectExpr, *ast.Aggregate, error) {
	p.skipWS()
	if p.src[p.pos] == '?' || p.src[p.pos] == '$' {
		v, err := p.parseVar()
		if err != nil {
			return ast.ProjectExpr{}, nil, err
		}
		return ast.ProjectExpr{Var: v}, nil, nil
	}

	if err := p.expectByte('('); err != nil {
		return ast.ProjectExpr{}, nil, err
	}
	callStart := p.pos - 1

	if agg, ok, err := p.tryParseAggregateCall(); err != nil {
		return ast.ProjectExpr{}, nil, err
	} else if ok {
		p.matchKeyword("AS")
		v, err := p.parseVar()
		if err != nil {
			return ast.ProjectExpr{}, nil, err
		}
		if err := p.expectByte(')'); err != nil {
			return ast.ProjectExpr{}, nil, err
		}
		agg.Alias = v.Name
		agg.CallSpan = ast.NewSpan(callStart, p.pos)
		return ast.ProjectExpr{Alias: v.Name, Agg: agg}, agg, nil
	}

	exprStart := p.pos
	if err := p.skipBalancedUntilKeyword("AS"); err != nil {
		return ast.ProjectExpr{}, nil, err
	}
	exprEnd := p.lastTokenEnd
	p.matchKeyword("AS")
	v, err := p.parseVar()
	if err != nil {
		return ast.ProjectExpr{}, nil, err
	}
	if err := p.expectByte(')'); err != nil {
		return ast.ProjectExpr{}, nil, err
	}
	return ast.ProjectExpr{Expr: ast.NewSpan(exprStart, exprEnd), Alias: v.Name}, nil, nil
}

var aggKeywords = map[string]ast.AggFunc{
	"COUNT":        ast.AggCount,
	"SUM":          ast.AggSum,
	"MIN":          ast.AggMin,
	"MAX":          ast.AggMax,
	"AVG":          ast.AggAvg,
	"SAMPLE":       ast.AggSample,
	"GROUP_CONCAT": ast.AggGroupConcat,
}

// tryParseAggregateCall attempts to parse "COUNT(DISTINCT? expr)" etc. at
// the current position (just past the opening '(' of the enclosing
// projection). Returns ok=false without consuming input if the next token
// isn't a recognized aggregate name.
func (p *Parser) tryParseAggregateCall() (*ast.Aggregate, bool, error) {
	save := p.pos
	p.skipWS()
	var fn ast.AggFunc
	matched := false
	for kw, f := range aggKeywords {
		if p.matchKeyword(kw) {
			fn = f
			matched = true
			break
		}
	}
	if !matched {
		p.pos = save
		return nil, false, nil
	}
	if err := p.expectByte('('); err != nil {
		p.pos = save
		return nil, false, nil
	}

	agg := &ast.Aggregate{Func: fn}
	if fn == ast.AggCount && p.matchByte('*') {
		agg.Func = ast.AggCountStar
		if err := p.expectByte(')'); err != nil {
			return nil, false, err
		}
		return agg, true, nil
	}
	if p.matchKeyword("DISTINCT") {
		agg.Distinct = true
	}

	exprStart := p.pos
	if err := p.skipBalancedExprUntilByte(')'); err != nil {
		return nil, false, err
	}
	agg.ExprSpan = ast.NewSpan(exprStart, p.pos)

	if fn == ast.AggGroupConcat && p.matchByte(';') {
		p.matchKeyword("SEPARATOR")
		if err := p.expectByte('='); err != nil {
			return nil, false, err
		}
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, false, err
		}
		agg.SeparatorLit = lit.Lexical.Text(p.src)
	} else {
		agg.SeparatorLit = " "
	}

	if err := p.expectByte(')'); err != nil {
		return nil, false, err
	}
	return agg, true, nil
}

// skipBalancedExprUntilByte advances past an expression, stopping at the
// first occurrence of stop at paren depth 0 (the stop byte is not
// consumed).
func (p *Parser) skipBalancedExprUntilByte(stop byte) error {
	depth := 0
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
			if depth == 0 {
				return nil
			}
			depth--
		case c == stop && depth == 0:
			return nil
		}
		p.pos++
	}
	return nil
}
