package exec

import (
	"context"

	"github.com/sparqlcore/engine/ast"
	"github.com/sparqlcore/engine/binding"
	"github.com/sparqlcore/engine/store"
)

// Union joins left against pattern.Union: for each left row, every branch
// is executed in declaration order with that row as input context, and
// every branch's rows are emitted in turn — variables a branch doesn't
// bind are simply absent from that branch's rows, per §4.4.
func Union(ctx context.Context, st store.QuadStore, q *ast.Query, left RowIter, branches []ast.UnionBranch, runSub SelectRunner) RowIter {
	return &flatMapIter{left: left, build: func(row *binding.Row) (RowIter, error) {
		var out []*binding.Row
		for _, b := range branches {
			it, err := ExecuteGraphPattern(ctx, st, q, b.Pattern, row, nil, runSub)
			if err != nil {
				return nil, err
			}
			rows, err := Collect(ctx, it)
			if err != nil {
				return nil, err
			}
			out = append(out, rows...)
		}
		return NewSliceIter(out), nil
	}}
}

// SubSelects joins left against every nested sub-SELECT in subs,
// running each once via runSub (independent of the outer row) and merging
// every combination whose shared variables agree — an ordinary join
// against a fixed, outer-independent right-hand side.
func SubSelects(ctx context.Context, st store.QuadStore, left RowIter, subs []ast.SubSelect, runSub SelectRunner) (RowIter, error) {
	iter := left
	for _, s := range subs {
		rows, err := runSub(ctx, st, s.Query)
		if err != nil {
			return nil, err
		}
		rightRows := rows
		iter = &flatMapIter{left: iter, build: func(row *binding.Row) (RowIter, error) {
			var out []*binding.Row
			for _, r := range rightRows {
				merged, ok := row.Merge(r)
				if ok {
					out = append(out, merged)
				}
			}
			return NewSliceIter(out), nil
		}}
	}
	return iter, nil
}
