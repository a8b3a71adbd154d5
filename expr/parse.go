package expr

import (
	"github.com/sparqlcore/engine/compare"
	"github.com/sparqlcore/engine/rdfterm"
)

// parseOr: orExpr ::= andExpr ('||' andExpr)*
func (e *evaluator) parseOr() (rdfterm.Term, error) {
	left, err := e.parseAnd()
	if err != nil {
		return rdfterm.UnboundTerm, err
	}
	for e.matchOp("||") {
		right, err := e.parseAnd()
		if err != nil {
			return rdfterm.UnboundTerm, err
		}
		left = boolTerm(EBV(left) || EBV(right))
	}
	return left, nil
}

// parseAnd: andExpr ::= notExpr ('&&' notExpr)*
func (e *evaluator) parseAnd() (rdfterm.Term, error) {
	left, err := e.parseNot()
	if err != nil {
		return rdfterm.UnboundTerm, err
	}
	for e.matchOp("&&") {
		right, err := e.parseNot()
		if err != nil {
			return rdfterm.UnboundTerm, err
		}
		left = boolTerm(EBV(left) && EBV(right))
	}
	return left, nil
}

// parseNot: notExpr ::= '!' notExpr | comparison
func (e *evaluator) parseNot() (rdfterm.Term, error) {
	e.skipWS()
	if !e.eof() && e.peekByte() == '!' && !e.isOpAt(e.pos, "!=") {
		e.pos++
		inner, err := e.parseNot()
		if err != nil {
			return rdfterm.UnboundTerm, err
		}
		return boolTerm(!EBV(inner)), nil
	}
	return e.parseComparison()
}

func (e *evaluator) isOpAt(pos int, op string) bool {
	end := pos + len(op)
	return end <= len(e.text) && e.text[pos:end] == op
}

// parseComparison: comparison ::= additive ((= | != | < | <= | > | >= | IN | NOT IN) additive)?
func (e *evaluator) parseComparison() (rdfterm.Term, error) {
	left, err := e.parseAdditive()
	if err != nil {
		return rdfterm.UnboundTerm, err
	}

	e.skipWS()
	if !e.eof() && e.peekByte() == 'I' || e.peekByte() == 'N' {
		save := e.pos
		negated := e.matchKeyword("NOT")
		if e.matchKeyword("IN") {
			return e.parseInList(left, negated)
		}
		e.pos = save
	}

	switch {
	case e.matchOp("<="):
		return e.compareResult(left, true, false, true)
	case e.matchOp(">="):
		return e.compareResult(left, false, true, true)
	case e.matchOp("!="):
		right, err := e.parseAdditive()
		if err != nil {
			return rdfterm.UnboundTerm, err
		}
		return boolTerm(!rdfterm.Term.Equals(left, right)), nil
	case e.matchOp("="):
		right, err := e.parseAdditive()
		if err != nil {
			return rdfterm.UnboundTerm, err
		}
		return boolTerm(rdfterm.Term.Equals(left, right)), nil
	case e.matchOp("<"):
		return e.compareResult(left, true, false, false)
	case e.matchOp(">"):
		return e.compareResult(left, false, true, false)
	}
	return left, nil
}

func (e *evaluator) compareResult(left rdfterm.Term, wantLess, wantGreater, orEqual bool) (rdfterm.Term, error) {
	right, err := e.parseAdditive()
	if err != nil {
		return rdfterm.UnboundTerm, err
	}
	ord := compare.CrossKindOrder(left, right)
	ok := (wantLess && ord == compare.Less) || (wantGreater && ord == compare.Greater) ||
		(orEqual && ord == compare.Equal)
	return boolTerm(ok), nil
}

func (e *evaluator) parseInList(left rdfterm.Term, negated bool) (rdfterm.Term, error) {
	e.skipWS()
	if !e.matchOp("(") {
		return rdfterm.UnboundTerm, ErrEval.New("expected '(' after IN")
	}
	found := false
	for {
		e.skipWS()
		if e.matchOp(")") {
			break
		}
		v, err := e.parseOr()
		if err != nil {
			return rdfterm.UnboundTerm, err
		}
		if rdfterm.Term.Equals(left, v) {
			found = true
		}
		e.skipWS()
		if e.matchOp(",") {
			continue
		}
		if e.matchOp(")") {
			break
		}
		return rdfterm.UnboundTerm, ErrEval.New("expected ',' or ')' in IN list")
	}
	if negated {
		found = !found
	}
	return boolTerm(found), nil
}

// parseAdditive: additive ::= multiplicative (('+' | '-') multiplicative)*
func (e *evaluator) parseAdditive() (rdfterm.Term, error) {
	left, err := e.parseMultiplicative()
	if err != nil {
		return rdfterm.UnboundTerm, err
	}
	for {
		e.skipWS()
		var op compare.Op
		switch {
		case e.matchOp("+"):
			op = compare.Add
		case e.matchOp("-"):
			op = compare.Sub
		default:
			return left, nil
		}
		right, err := e.parseMultiplicative()
		if err != nil {
			return rdfterm.UnboundTerm, err
		}
		if v, ok := compare.Arithmetic(op, left, right); ok {
			left = v
		} else {
			left = rdfterm.UnboundTerm
		}
	}
}

// parseMultiplicative: multiplicative ::= unary (('*' | '/') unary)*
func (e *evaluator) parseMultiplicative() (rdfterm.Term, error) {
	left, err := e.parseUnary()
	if err != nil {
		return rdfterm.UnboundTerm, err
	}
	for {
		e.skipWS()
		var op compare.Op
		switch {
		case e.matchOp("*"):
			op = compare.Mul
		case e.matchOp("/"):
			op = compare.Div
		default:
			return left, nil
		}
		right, err := e.parseUnary()
		if err != nil {
			return rdfterm.UnboundTerm, err
		}
		if v, ok := compare.Arithmetic(op, left, right); ok {
			left = v
		} else {
			left = rdfterm.UnboundTerm
		}
	}
}

// parseUnary: unary ::= ('-' | '+')? primary
func (e *evaluator) parseUnary() (rdfterm.Term, error) {
	e.skipWS()
	if e.matchOp("-") {
		v, err := e.parseUnary()
		if err != nil {
			return rdfterm.UnboundTerm, err
		}
		if neg, ok := compare.Arithmetic(compare.Sub, rdfterm.NewTypedLiteral("0", rdfterm.XSDInteger), v); ok {
			return neg, nil
		}
		return rdfterm.UnboundTerm, nil
	}
	e.matchOp("+")
	return e.parsePrimary()
}
