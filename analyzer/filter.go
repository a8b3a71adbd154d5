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

// Package analyzer implements the filter analyzer and pattern planner: it
// turns a parsed GraphPattern into a reordered, level-filter-annotated
// physical plan that the exec package can stream over.
package analyzer

import (
	"github.com/sparqlcore/engine/ast"
	"github.com/sparqlcore/engine/binding"
)

// GetFilterVariables returns the set of variable hashes referenced by expr
// (a span into source), skipping any "..." or '...' quoted regions so a
// literal containing "?ident" text is never mistaken for a reference.
func GetFilterVariables(source string, expr ast.Span) map[binding.VarHash]string {
	vars := map[binding.VarHash]string{}
	text := expr.Text(source)
	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == '"' || c == '\'':
			i = skipQuoted(text, i)
		case c == '?' || c == '$':
			j := i + 1
			for j < len(text) && isVarChar(text[j]) {
				j++
			}
			if j > i+1 {
				name := text[i+1 : j]
				vars[binding.HashVar(name)] = name
			}
			i = j
		default:
			i++
		}
	}
	return vars
}

func isVarChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') || c == '-' || c == '.'
}

func skipQuoted(text string, i int) int {
	quote := text[i]
	i++
	for i < len(text) {
		if text[i] == '\\' {
			i += 2
			continue
		}
		if text[i] == quote {
			return i + 1
		}
		i++
	}
	return i
}

// ContainsExists reports whether expr's text contains the token EXISTS or
// NOT EXISTS outside of quoted strings. Regular FilterExpr expressions are
// checked this way; ExistsFilter nodes are classified by the parser and
// never need this check.
func ContainsExists(source string, expr ast.Span) bool {
	text := expr.Text(source)
	i := 0
	for i < len(text) {
		c := text[i]
		if c == '"' || c == '\'' {
			i = skipQuoted(text, i)
			continue
		}
		if hasWordAt(text, i, "EXISTS") {
			return true
		}
		i++
	}
	return false
}

func hasWordAt(s string, i int, kw string) bool {
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
	before := i == 0 || !isVarChar(s[i-1])
	after := i+len(kw) >= len(s) || !isVarChar(s[i+len(kw)])
	return before && after
}

// PatternBinds reports the variable hashes bound by a single triple
// pattern's subject/predicate/object positions.
func PatternBinds(tp ast.TriplePattern) map[binding.VarHash]bool {
	out := map[binding.VarHash]bool{}
	for _, slot := range []ast.TermOrVar{tp.Subject, tp.Predicate, tp.Object} {
		if slot.IsVariable() {
			out[binding.VarHash(slot.Var.Hash)] = true
		}
	}
	return out
}

// GetEarliestApplicablePattern finds the first pattern index (under the
// given reordering) whose cumulative bound-variable set covers every
// variable the filter references, returning the max such index. A filter
// with no variables is applicable at level 0; a filter containing EXISTS
// is unpushable and returns the last level.
func GetEarliestApplicablePattern(source string, expr ast.Span, patterns []ast.TriplePattern, reorder []int) int {
	if ContainsExists(source, expr) {
		if len(reorder) == 0 {
			return 0
		}
		return len(reorder) - 1
	}
	vars := GetFilterVariables(source, expr)
	if len(vars) == 0 {
		return 0
	}

	bound := map[binding.VarHash]bool{}
	earliest := 0
	for level, idx := range reorder {
		for h := range PatternBinds(patterns[idx]) {
			bound[h] = true
		}
		earliest = level
		allBound := true
		for h := range vars {
			if !bound[h] {
				allBound = false
				break
			}
		}
		if allBound {
			break
		}
	}
	return earliest
}

// BuildLevelFilters groups filter indices by their earliest applicable
// pattern level; levelCount must equal len(reorder).
func BuildLevelFilters(source string, pattern *ast.GraphPattern, levelCount int, reorder []int) [][]int {
	out := make([][]int, levelCount)
	for i, f := range pattern.Filters {
		if ContainsExists(source, f.Expr) {
			continue
		}
		lvl := GetEarliestApplicablePattern(source, f.Expr, pattern.Patterns, reorder)
		if lvl >= levelCount {
			lvl = levelCount - 1
		}
		if lvl >= 0 {
			out[lvl] = append(out[lvl], i)
		}
	}
	return out
}

// GetUnpushableFilters returns the indices of Filters entries whose
// expression contains EXISTS; these apply after all joins complete.
func GetUnpushableFilters(source string, pattern *ast.GraphPattern) []int {
	var out []int
	for i, f := range pattern.Filters {
		if ContainsExists(source, f.Expr) {
			out = append(out, i)
		}
	}
	return out
}
