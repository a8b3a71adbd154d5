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

// Package ast is the positional, zero-copy AST the parser builds: every
// syntactic element is a (start, length) span into the source query text
// rather than a copied substring, so expression evaluators that need a
// lexical form (REGEX, GROUP_CONCAT) read it straight out of the original
// text that outlives the plan.
package ast

// Span is a half-open byte range [Start, Start+Length) into the query text.
type Span struct {
	Start  int
	Length int
}

// End returns the exclusive end offset of the span.
func (s Span) End() int { return s.Start + s.Length }

// Text returns the substring of source the span covers.
func (s Span) Text(source string) string {
	return source[s.Start : s.Start+s.Length]
}

// Valid reports whether the span satisfies the AST invariant
// 0 <= start <= start+length <= len(source).
func (s Span) Valid(sourceLen int) bool {
	return s.Start >= 0 && s.Length >= 0 && s.Start+s.Length <= sourceLen
}

// NewSpan builds a span from a start offset and exclusive end offset.
func NewSpan(start, end int) Span {
	return Span{Start: start, Length: end - start}
}
