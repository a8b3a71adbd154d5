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

// Package agg implements GROUP BY / aggregate-function / HAVING
// evaluation, run after all joins per §4.6.
package agg

import (
	"strconv"
	"strings"

	"github.com/mitchellh/hashstructure"

	"github.com/sparqlcore/engine/ast"
	"github.com/sparqlcore/engine/compare"
	"github.com/sparqlcore/engine/rdfterm"
)

// state accumulates one aggregate's running value for one group.
type state struct {
	spec    *ast.Aggregate
	count   int64
	sum     float64
	sumKind compare.NumericKind
	min     rdfterm.Term
	max     rdfterm.Term
	haveMM  bool
	sample  rdfterm.Term
	haveS   bool
	concat  []string
	seen    map[uint64]bool // per-aggregate DISTINCT dedup, value-based (§9 open question)
}

func newState(spec *ast.Aggregate) *state {
	s := &state{spec: spec}
	if spec.Distinct {
		s.seen = map[uint64]bool{}
	}
	return s
}

func (s *state) accumulate(v rdfterm.Term) {
	if s.spec.Func != ast.AggCountStar && !v.IsBound() {
		return
	}
	if s.seen != nil {
		h, err := hashstructure.Hash(dedupKey(v), nil)
		if err == nil {
			if s.seen[h] {
				return
			}
			s.seen[h] = true
		}
	}

	s.count++
	switch s.spec.Func {
	case ast.AggSum, ast.AggAvg:
		if f, ok := compare.AsFloat(v); ok {
			s.sum += f
			if k := numericKindOf(v); k > s.sumKind {
				s.sumKind = k
			}
		}
	case ast.AggMin:
		if !s.haveMM {
			s.min, s.haveMM = v, true
		} else if ord, ok := compare.Compare(v, s.min); ok && ord == compare.Less {
			s.min = v
		}
	case ast.AggMax:
		if !s.haveMM {
			s.max, s.haveMM = v, true
		} else if ord, ok := compare.Compare(v, s.max); ok && ord == compare.Greater {
			s.max = v
		}
	case ast.AggSample:
		if !s.haveS {
			s.sample, s.haveS = v, true
		}
	case ast.AggGroupConcat:
		s.concat = append(s.concat, v.Lexical)
	}
}

// dedupKey normalizes v for per-aggregate DISTINCT hashing: numeric terms
// dedup on their promoted float value (so "1"^^xsd:integer and
// "01"^^xsd:integer collide, per the value-based DISTINCT decision), while
// every other term dedups on its kind/lexical/datatype/language as before.
func dedupKey(v rdfterm.Term) interface{} {
	if f, ok := compare.AsFloat(v); ok {
		return f
	}
	return v
}

func numericKindOf(v rdfterm.Term) compare.NumericKind {
	if !v.IsNumeric() {
		return compare.NotNumeric
	}
	switch v.Datatype {
	case rdfterm.XSDDouble:
		return compare.KindDouble
	case rdfterm.XSDFloat:
		return compare.KindFloat
	case rdfterm.XSDDecimal:
		return compare.KindDecimal
	}
	return compare.KindInteger
}

// result produces the aggregate's final term per §4.6's rules, notably
// that AVG over an empty group emits 0 rather than UNBOUND.
func (s *state) result() rdfterm.Term {
	switch s.spec.Func {
	case ast.AggCount, ast.AggCountStar:
		return rdfterm.NewTypedLiteral(strconv.FormatInt(s.count, 10), rdfterm.XSDInteger)
	case ast.AggSum:
		if s.count == 0 {
			return rdfterm.NewTypedLiteral("0", rdfterm.XSDInteger)
		}
		return formatResult(s.sum, s.sumKind)
	case ast.AggAvg:
		if s.count == 0 {
			return rdfterm.NewTypedLiteral("0", rdfterm.XSDInteger)
		}
		return formatResult(s.sum/float64(s.count), compare.KindDecimal)
	case ast.AggMin:
		if !s.haveMM {
			return rdfterm.UnboundTerm
		}
		return s.min
	case ast.AggMax:
		if !s.haveMM {
			return rdfterm.UnboundTerm
		}
		return s.max
	case ast.AggSample:
		if !s.haveS {
			return rdfterm.UnboundTerm
		}
		return s.sample
	case ast.AggGroupConcat:
		sep := s.spec.SeparatorLit
		if sep == "" {
			sep = " "
		}
		return rdfterm.NewPlainLiteral(strings.Join(s.concat, sep))
	}
	return rdfterm.UnboundTerm
}

func dtForKind(k compare.NumericKind) string {
	switch k {
	case compare.KindDouble:
		return rdfterm.XSDDouble
	case compare.KindFloat:
		return rdfterm.XSDFloat
	case compare.KindDecimal:
		return rdfterm.XSDDecimal
	default:
		return rdfterm.XSDInteger
	}
}

// formatResult routes v through Arithmetic's own numeric formatting by
// adding zero of the target kind, rather than duplicating its float
// rendering rules here.
func formatResult(v float64, kind compare.NumericKind) rdfterm.Term {
	dt := dtForKind(kind)
	whole := strconv.FormatFloat(v, 'f', -1, 64)
	t, ok := compare.Arithmetic(compare.Add, rdfterm.NewTypedLiteral("0", dt), rdfterm.NewTypedLiteral(whole, dt))
	if !ok {
		return rdfterm.NewTypedLiteral(whole, dt)
	}
	return t
}

// groupKey computes the tuple-of-values key for GROUP BY, using
// mitchellh/hashstructure over the ordered value list so equal value
// tuples hash identically regardless of map iteration order.
func groupKey(values []rdfterm.Term) (uint64, error) {
	return hashstructure.Hash(values, nil)
}
