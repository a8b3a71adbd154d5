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

// Package parser implements a single-pass recursive-descent SPARQL 1.1
// parser that records every syntactic element as a Span into the source
// text instead of copying substrings, per the positional-AST design.
package parser

import (
	"strings"

	"github.com/sparqlcore/engine/ast"
	"github.com/sparqlcore/engine/binding"
)

// Parser holds the scanning state for one query. It is not safe for
// concurrent use and is discarded after Parse returns; parsing itself is
// pure and has no side effects on any store.
type Parser struct {
	src          string
	pos          int
	prologue     *ast.Prologue
	resolved     []resolvedIRI
	lastTokenEnd int
}

// New creates a Parser over the given query text.
func New(src string) *Parser {
	return &Parser{src: src, prologue: &ast.Prologue{Prefixes: map[string]string{}}}
}

// Parse parses a complete SPARQL 1.1 query and returns its AST.
func Parse(src string) (*ast.Query, error) {
	p := New(src)
	return p.parseQuery()
}

func (p *Parser) fail(reason string) error {
	return ErrSyntax.New(p.pos, reason)
}

// --- low-level scanning -----------------------------------------------

func (p *Parser) eof() bool { return p.pos >= len(p.src) }

func (p *Parser) skipWS() {
	for !p.eof() {
		c := p.src[p.pos]
		switch {
		case c == '#':
			for !p.eof() && p.src[p.pos] != '\n' {
				p.pos++
			}
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			p.pos++
		default:
			return
		}
	}
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9') || c == '-' || c == '.'
}

// matchKeyword consumes a case-insensitive keyword if the next token
// equals it exactly (word-boundary aware); it skips leading whitespace.
func (p *Parser) matchKeyword(kw string) bool {
	p.skipWS()
	end := p.pos + len(kw)
	if end > len(p.src) {
		return false
	}
	if !strings.EqualFold(p.src[p.pos:end], kw) {
		return false
	}
	if end < len(p.src) && isNameChar(p.src[end]) {
		return false
	}
	p.pos = end
	return true
}

// peekKeyword reports whether the upcoming token equals kw without
// consuming it.
func (p *Parser) peekKeyword(kw string) bool {
	save := p.pos
	ok := p.matchKeyword(kw)
	p.pos = save
	return ok
}

func (p *Parser) matchByte(c byte) bool {
	p.skipWS()
	if !p.eof() && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *Parser) expectByte(c byte) error {
	if !p.matchByte(c) {
		return p.fail("expected '" + string(c) + "'")
	}
	return nil
}

// readName reads a PN_LOCAL/PN_PREFIX-ish identifier run (letters, digits,
// '_', '-', '.') starting at the current position.
func (p *Parser) readName() string {
	start := p.pos
	for !p.eof() && isNameChar(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

// --- top level ----------------------------------------------------------

func (p *Parser) parseQuery() (*ast.Query, error) {
	if err := p.parsePrologue(); err != nil {
		return nil, err
	}

	q := &ast.Query{Source: p.src, Prologue: p.prologue}

	switch {
	case p.matchKeyword("SELECT"):
		q.Form = ast.Select
		sel, err := p.parseSelectClause()
		if err != nil {
			return nil, err
		}
		q.Select = sel
		if err := p.matchWhereAndModifier(q); err != nil {
			return nil, err
		}
	case p.matchKeyword("ASK"):
		q.Form = ast.Ask
		p.matchKeyword("WHERE")
		gp, err := p.parseGroupGraphPattern()
		if err != nil {
			return nil, err
		}
		q.AskWhere = gp
	case p.matchKeyword("CONSTRUCT"):
		q.Form = ast.Construct
		cc := &ast.ConstructClause{}
		if err := p.expectByte('{'); err != nil {
			return nil, err
		}
		tmpl, err := p.parseTriplesBlock('}')
		if err != nil {
			return nil, err
		}
		cc.Template = tmpl
		if err := p.expectByte('}'); err != nil {
			return nil, err
		}
		p.matchKeyword("WHERE")
		where, err := p.parseGroupGraphPattern()
		if err != nil {
			return nil, err
		}
		cc.Where = where
		q.Construct = cc
	case p.matchKeyword("DESCRIBE"):
		q.Form = ast.Describe
		dc := &ast.DescribeClause{}
		if !p.matchByte('*') {
			for {
				t, err := p.parseVarOrIRI()
				if err != nil {
					return nil, err
				}
				dc.Resources = append(dc.Resources, t)
				if !p.matchByte(',') {
					break
				}
			}
		}
		if p.matchKeyword("WHERE") {
			where, err := p.parseGroupGraphPattern()
			if err != nil {
				return nil, err
			}
			dc.Where = where
		}
		q.Describe = dc
	default:
		return nil, p.fail("expected SELECT, ASK, CONSTRUCT or DESCRIBE")
	}

	for _, r := range p.resolved {
		q.ResolvedIRIs = append(q.ResolvedIRIs, r.iri)
	}
	return q, nil
}

func (p *Parser) matchWhereAndModifier(q *ast.Query) error {
	p.matchKeyword("WHERE")
	where, err := p.parseGroupGraphPattern()
	if err != nil {
		return err
	}
	q.Where = &ast.WhereClause{Pattern: where}

	mod, err := p.parseSolutionModifier()
	if err != nil {
		return err
	}
	q.Modifier = mod
	return nil
}

func (p *Parser) parsePrologue() error {
	for {
		p.skipWS()
		if p.matchKeyword("PREFIX") {
			p.skipWS()
			name := p.readName()
			if err := p.expectByte(':'); err != nil {
				return err
			}
			iri, err := p.parseIRIRefLiteral()
			if err != nil {
				return err
			}
			p.prologue.Prefixes[name] = iri
		} else if p.matchKeyword("BASE") {
			iri, err := p.parseIRIRefLiteral()
			if err != nil {
				return err
			}
			p.prologue.Base = iri
		} else {
			return nil
		}
	}
}

// parseIRIRefLiteral parses "<...>" and returns the unwrapped IRI text.
func (p *Parser) parseIRIRefLiteral() (string, error) {
	p.skipWS()
	if p.eof() || p.src[p.pos] != '<' {
		return "", p.fail("expected '<'")
	}
	p.pos++
	start := p.pos
	for !p.eof() && p.src[p.pos] != '>' {
		p.pos++
	}
	if p.eof() {
		return "", p.fail("unterminated IRI")
	}
	iri := p.src[start:p.pos]
	p.pos++
	return iri, nil
}
