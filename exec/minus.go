package exec

import (
	"context"

	"github.com/sparqlcore/engine/ast"
	"github.com/sparqlcore/engine/binding"
	"github.com/sparqlcore/engine/store"
)

// Minus wraps left with an anti-join against pattern.Minus[blockIdx]: a left
// row is emitted iff no row computed for the block shares at least one
// variable with it while agreeing on every shared variable's value — SPARQL
// 1.1 MINUS semantics, under which a right-hand row with a disjoint
// variable domain never excludes anything.
func Minus(ctx context.Context, st store.QuadStore, q *ast.Query, left RowIter, pattern *ast.GraphPattern, blockIdx int, runSub SelectRunner) RowIter {
	return &filterIter{src: left, keep: func(row *binding.Row) (bool, error) {
		candidates, err := minusBlockRows(ctx, st, q, pattern, blockIdx, row, runSub)
		if err != nil {
			return false, err
		}
		for _, c := range candidates {
			sharesAny, allCompatible := row.SharesConflict(c)
			if sharesAny && allCompatible {
				return false, nil
			}
		}
		return true, nil
	}}
}

// minusBlockRows computes block blockIdx's candidate rows against outer,
// then recursively anti-joins away every nested MINUS block whose
// ParentBlock is blockIdx — "the inner block's rows are computed
// recursively over the outer block's intermediate rows" (§4.4).
func minusBlockRows(ctx context.Context, st store.QuadStore, q *ast.Query, pattern *ast.GraphPattern, blockIdx int, outer *binding.Row, runSub SelectRunner) ([]*binding.Row, error) {
	block := pattern.Minus[blockIdx]
	it, err := ExecuteGraphPattern(ctx, st, q, block.Inner, outer, nil, runSub)
	if err != nil {
		return nil, err
	}
	rows, err := Collect(ctx, it)
	if err != nil {
		return nil, err
	}

	for i, b := range pattern.Minus {
		if b.ParentBlock != blockIdx {
			continue
		}
		childRows, err := minusBlockRows(ctx, st, q, pattern, i, outer, runSub)
		if err != nil {
			return nil, err
		}
		rows = antiJoinRows(rows, childRows)
	}
	return rows, nil
}

func antiJoinRows(left, right []*binding.Row) []*binding.Row {
	out := make([]*binding.Row, 0, len(left))
	for _, l := range left {
		excluded := false
		for _, r := range right {
			sharesAny, allCompatible := l.SharesConflict(r)
			if sharesAny && allCompatible {
				excluded = true
				break
			}
		}
		if !excluded {
			out = append(out, l)
		}
	}
	return out
}

// topLevelMinusBlocks returns the indices of pattern.Minus with no parent,
// in declaration order: each applies as its own successive anti-join over
// the main join chain's output.
func topLevelMinusBlocks(pattern *ast.GraphPattern) []int {
	var out []int
	for i, b := range pattern.Minus {
		if b.ParentBlock < 0 {
			out = append(out, i)
		}
	}
	return out
}
