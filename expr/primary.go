package expr

import (
	"strconv"
	"strings"

	"github.com/sparqlcore/engine/rdfterm"
)

// parsePrimary: primary ::= '(' orExpr ')' | var | literal | iri | funcCall
func (e *evaluator) parsePrimary() (rdfterm.Term, error) {
	e.skipWS()
	if e.eof() {
		return rdfterm.UnboundTerm, ErrEval.New("unexpected end of expression")
	}
	switch {
	case e.matchOp("("):
		v, err := e.parseOr()
		if err != nil {
			return rdfterm.UnboundTerm, err
		}
		e.skipWS()
		if !e.matchOp(")") {
			return rdfterm.UnboundTerm, ErrEval.New("expected ')'")
		}
		return v, nil
	case e.peekByte() == '?' || e.peekByte() == '$':
		return e.parseVarRef()
	case e.peekByte() == '"' || e.peekByte() == '\'':
		return e.parseStringLiteral()
	case e.peekByte() == '<':
		return e.parseIRILiteral()
	case isDigit(e.peekByte()) || e.peekByte() == '.':
		return e.parseNumberLiteral()
	}
	return e.parseNameOrCall()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func (e *evaluator) parseVarRef() (rdfterm.Term, error) {
	e.pos++
	start := e.pos
	for !e.eof() && isIdentChar(e.text[e.pos]) {
		e.pos++
	}
	name := e.text[start:e.pos]
	if e.row == nil {
		return rdfterm.UnboundTerm, nil
	}
	v, _ := e.row.Get(name)
	return v, nil
}

func (e *evaluator) parseStringLiteral() (rdfterm.Term, error) {
	quote := e.text[e.pos]
	e.pos++
	start := e.pos
	for !e.eof() {
		if e.text[e.pos] == '\\' {
			e.pos += 2
			continue
		}
		if e.text[e.pos] == quote {
			break
		}
		e.pos++
	}
	if e.eof() {
		return rdfterm.UnboundTerm, ErrEval.New("unterminated string literal")
	}
	lex := unescapeString(e.text[start:e.pos])
	e.pos++

	if e.matchOp("@") {
		langStart := e.pos
		for !e.eof() && (isIdentChar(e.text[e.pos]) || e.text[e.pos] == '-') {
			e.pos++
		}
		return rdfterm.NewLangLiteral(lex, e.text[langStart:e.pos]), nil
	}
	if e.matchOp("^^") {
		dt, err := e.parsePrimary()
		if err != nil {
			return rdfterm.UnboundTerm, err
		}
		return rdfterm.NewTypedLiteral(lex, dt.Lexical), nil
	}
	return rdfterm.NewPlainLiteral(lex), nil
}

func unescapeString(s string) string {
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

func (e *evaluator) parseIRILiteral() (rdfterm.Term, error) {
	e.pos++
	start := e.pos
	for !e.eof() && e.text[e.pos] != '>' {
		e.pos++
	}
	if e.eof() {
		return rdfterm.UnboundTerm, ErrEval.New("unterminated IRI")
	}
	iri := e.text[start:e.pos]
	e.pos++
	return rdfterm.NewIRI(iri), nil
}

func (e *evaluator) parseNumberLiteral() (rdfterm.Term, error) {
	start := e.pos
	isDecimal, isDouble := false, false
	for !e.eof() && isDigit(e.text[e.pos]) {
		e.pos++
	}
	if !e.eof() && e.text[e.pos] == '.' {
		isDecimal = true
		e.pos++
		for !e.eof() && isDigit(e.text[e.pos]) {
			e.pos++
		}
	}
	if !e.eof() && (e.text[e.pos] == 'e' || e.text[e.pos] == 'E') {
		isDouble = true
		e.pos++
		if !e.eof() && (e.text[e.pos] == '+' || e.text[e.pos] == '-') {
			e.pos++
		}
		for !e.eof() && isDigit(e.text[e.pos]) {
			e.pos++
		}
	}
	lex := e.text[start:e.pos]
	dt := rdfterm.XSDInteger
	if isDouble {
		dt = rdfterm.XSDDouble
	} else if isDecimal {
		dt = rdfterm.XSDDecimal
	}
	return rdfterm.NewTypedLiteral(lex, dt), nil
}

// parseNameOrCall parses a bare identifier: true/false, a datatype
// constructor call like xsd:integer(...), or a built-in function call.
func (e *evaluator) parseNameOrCall() (rdfterm.Term, error) {
	start := e.pos
	for !e.eof() && (isIdentChar(e.text[e.pos]) || e.text[e.pos] == ':') {
		e.pos++
	}
	name := e.text[start:e.pos]
	if name == "" {
		return rdfterm.UnboundTerm, ErrEval.New("unexpected character at offset " + strconv.Itoa(e.pos))
	}

	e.skipWS()
	if e.matchOp("(") {
		return e.callFunction(name)
	}

	switch strings.ToLower(name) {
	case "true":
		return boolTerm(true), nil
	case "false":
		return boolTerm(false), nil
	}
	return rdfterm.UnboundTerm, nil
}
