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

package exec

import (
	"context"

	"github.com/opentracing/opentracing-go"

	"github.com/sparqlcore/engine/ast"
	"github.com/sparqlcore/engine/binding"
	"github.com/sparqlcore/engine/rdfterm"
	"github.com/sparqlcore/engine/store"
)

// TriplePatternScan streams, for one triple pattern, every extension of
// input that matches a current quad in st. graphSlot is nil outside any
// GRAPH block (any graph matches); a constant graphSlot scopes the scan to
// one named graph; a variable graphSlot scopes to its already-bound value
// if one exists, or binds it fresh from each matched quad's graph
// component otherwise.
func TriplePatternScan(ctx context.Context, st store.QuadStore, q *ast.Query, tp ast.TriplePattern, input *binding.Row, graphSlot *ast.TermOrVar) (RowIter, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "exec.TriplePatternScan")
	defer span.Finish()

	if input == nil {
		input = binding.NewRow()
	}
	subjPtr := slotPointer(q, tp.Subject, input)
	predPtr := slotPointer(q, tp.Predicate, input)
	objPtr := slotPointer(q, tp.Object, input)
	graphPtr := graphSlotPointer(q, graphSlot, input)

	st.AcquireReadLock()
	cur, err := st.QueryCurrent(ctx, subjPtr, predPtr, objPtr, graphPtr)
	if err != nil {
		st.ReleaseReadLock()
		return nil, err
	}
	return &scanIter{st: st, q: q, tp: tp, input: input, graphSlot: graphSlot, cursor: cur}, nil
}

func slotPointer(q *ast.Query, t ast.TermOrVar, input *binding.Row) *rdfterm.Term {
	if !t.IsVariable() {
		v := constantTerm(q, t)
		return &v
	}
	if v, ok := input.Get(t.Var.Name); ok {
		return &v
	}
	return nil
}

func graphSlotPointer(q *ast.Query, graphSlot *ast.TermOrVar, input *binding.Row) *rdfterm.Term {
	if graphSlot == nil {
		return nil
	}
	return slotPointer(q, *graphSlot, input)
}

type scanIter struct {
	st        store.QuadStore
	q         *ast.Query
	tp        ast.TriplePattern
	input     *binding.Row
	graphSlot *ast.TermOrVar
	cursor    store.Cursor
}

func (it *scanIter) Next(ctx context.Context) (*binding.Row, error) {
	for {
		quad, err := it.cursor.Next(ctx)
		if err != nil {
			return nil, err
		}
		row, ok := bindQuad(it.q, it.tp, it.graphSlot, it.input, quad)
		if ok {
			return row, nil
		}
	}
}

func (it *scanIter) Close(ctx context.Context) error {
	err := it.cursor.Close(ctx)
	it.st.ReleaseReadLock()
	return err
}

// bindQuad extends input with the free variables a matched quad fills,
// rejecting the match if a variable used twice within the same pattern (or
// already bound from an outer scope) disagrees with the quad's value.
func bindQuad(q *ast.Query, tp ast.TriplePattern, graphSlot *ast.TermOrVar, input *binding.Row, quad rdfterm.Quad) (*binding.Row, bool) {
	row := input.Clone()
	slots := [3]struct {
		term ast.TermOrVar
		val  rdfterm.Term
	}{
		{tp.Subject, quad.Subject},
		{tp.Predicate, quad.Predicate},
		{tp.Object, quad.Object},
	}
	for _, s := range slots {
		if !s.term.IsVariable() {
			continue
		}
		if !bindVar(&row, s.term.Var.Name, s.val) {
			return nil, false
		}
	}
	if graphSlot != nil && graphSlot.IsVariable() {
		if !bindVar(&row, graphSlot.Var.Name, quad.Graph) {
			return nil, false
		}
	}
	return row, true
}

func bindVar(row **binding.Row, name string, val rdfterm.Term) bool {
	if existing, ok := (*row).Get(name); ok {
		return existing.Equals(val)
	}
	*row = (*row).With(name, val)
	return true
}
