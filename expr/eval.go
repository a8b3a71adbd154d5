// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package expr evaluates SPARQL filter/BIND/ORDER BY expressions read
// directly from source text, per the positional-AST design: expressions
// are never materialized as a separate tree, they're re-scanned from the
// recorded span at evaluation time.
package expr

import (
	"gopkg.in/src-d/go-errors.v1"

	"github.com/sparqlcore/engine/binding"
	"github.com/sparqlcore/engine/compare"
	"github.com/sparqlcore/engine/rdfterm"
)

// ErrEval wraps any evaluation failure (unknown function, malformed
// expression, cast failure) that the evaluator turns into an unbound
// result rather than aborting the whole query per SPARQL error-propagation
// rules, but that callers diagnosing a query may still want to see.
var ErrEval = errors.NewKind("expression evaluation error: %s")

// evaluator holds one expression's scanning state; text is the raw
// expression span (already EXISTS-substituted by the caller if needed).
type evaluator struct {
	text string
	pos  int
	row  *binding.Row
}

// Eval parses and evaluates text against row, returning the resulting
// term. A cast failure, unknown variable, or malformed expression is not a
// hard error: it yields rdfterm.UnboundTerm, which EBV treats as false.
func Eval(text string, row *binding.Row) (rdfterm.Term, error) {
	e := &evaluator{text: text, row: row}
	v, err := e.parseOr()
	if err != nil {
		return rdfterm.UnboundTerm, nil
	}
	e.skipWS()
	return v, nil
}

// EBV computes the effective boolean value per §4.5: booleans pass
// through, non-zero numerics are true, non-empty strings are true, and an
// unbound/error term is false.
func EBV(t rdfterm.Term) bool {
	if !t.IsBound() {
		return false
	}
	if t.Kind == rdfterm.TypedLiteral && t.Datatype == rdfterm.XSDBoolean {
		return t.Lexical == "true" || t.Lexical == "1"
	}
	if t.IsNumeric() {
		f, ok := compare.AsFloat(t)
		return ok && f != 0
	}
	if t.Kind == rdfterm.PlainLiteral || t.Kind == rdfterm.LangLiteral || t.Kind == rdfterm.TypedLiteral {
		return t.Lexical != ""
	}
	return t.IsBound()
}

func boolTerm(b bool) rdfterm.Term {
	lex := "false"
	if b {
		lex = "true"
	}
	return rdfterm.NewTypedLiteral(lex, rdfterm.XSDBoolean)
}

func (e *evaluator) eof() bool { return e.pos >= len(e.text) }

func (e *evaluator) skipWS() {
	for !e.eof() {
		c := e.text[e.pos]
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			e.pos++
			continue
		}
		break
	}
}

func (e *evaluator) peekByte() byte {
	if e.eof() {
		return 0
	}
	return e.text[e.pos]
}

func (e *evaluator) matchOp(op string) bool {
	e.skipWS()
	end := e.pos + len(op)
	if end > len(e.text) || e.text[e.pos:end] != op {
		return false
	}
	e.pos = end
	return true
}

func (e *evaluator) matchKeyword(kw string) bool {
	e.skipWS()
	end := e.pos + len(kw)
	if end > len(e.text) || !equalFold(e.text[e.pos:end], kw) {
		return false
	}
	if end < len(e.text) && isIdentChar(e.text[end]) {
		return false
	}
	e.pos = end
	return true
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'a' && ca <= 'z' {
			ca -= 32
		}
		if cb >= 'a' && cb <= 'z' {
			cb -= 32
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func isIdentChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
