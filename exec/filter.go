package exec

import (
	"context"
	"io"

	"github.com/sparqlcore/engine/ast"
	"github.com/sparqlcore/engine/binding"
	"github.com/sparqlcore/engine/expr"
	"github.com/sparqlcore/engine/store"
)

// filterIter drops rows for which keep returns false. An expression that
// fails (cast error, unknown function) never reaches here as an error:
// expr.Eval yields an unbound term, whose effective boolean value is false,
// so the row is dropped. An error keep does return (a store failure while
// probing EXISTS) ends the cursor with that error.
type filterIter struct {
	src  RowIter
	keep func(row *binding.Row) (bool, error)
}

func (it *filterIter) Next(ctx context.Context) (*binding.Row, error) {
	for {
		row, err := it.src.Next(ctx)
		if err != nil {
			return nil, err
		}
		ok, err := it.keep(row)
		if err != nil {
			return nil, err
		}
		if ok {
			return row, nil
		}
	}
}

func (it *filterIter) Close(ctx context.Context) error { return it.src.Close(ctx) }

// applyLevelFilters wraps src with every filter the plan pushed down to
// join level lvl, evaluated left-to-right.
func applyLevelFilters(src RowIter, source string, pattern *ast.GraphPattern, planLevelFilters [][]int, lvl int) RowIter {
	if lvl >= len(planLevelFilters) || len(planLevelFilters[lvl]) == 0 {
		return src
	}
	idxs := planLevelFilters[lvl]
	return &filterIter{src: src, keep: func(row *binding.Row) (bool, error) {
		for _, fi := range idxs {
			v, err := expr.Eval(pattern.Filters[fi].Expr.Text(source), row)
			if err != nil {
				return false, err
			}
			if !expr.EBV(v) {
				return false, nil
			}
		}
		return true, nil
	}}
}

// applyCompoundFilter applies one unpushable FilterExpr (an EXISTS appears
// somewhere in its text): every CompoundExistsRef belonging to this filter
// is resolved against the current row before the expression is evaluated,
// per the §4.4 "compound EXISTS in FILTER" substitution mechanism.
func applyCompoundFilter(ctx context.Context, st store.QuadStore, q *ast.Query, src RowIter, pattern *ast.GraphPattern, filterIdx int, runSub SelectRunner) RowIter {
	var refs []ast.CompoundExistsRef
	for _, r := range pattern.CompoundExists {
		if r.FilterIndex == filterIdx {
			refs = append(refs, r)
		}
	}
	exprText := pattern.Filters[filterIdx].Expr.Text(q.Source)

	return &filterIter{src: src, keep: func(row *binding.Row) (bool, error) {
		text := exprText
		if len(refs) > 0 {
			results := make([]expr.ExistsResult, len(refs))
			for i, r := range refs {
				ok, err := evalExists(ctx, st, q, r.Inner, row, runSub)
				if err != nil {
					return false, err
				}
				if r.Negated {
					ok = !ok
				}
				results[i] = expr.ExistsResult{Ref: r, Result: ok}
			}
			text = expr.SubstituteExists(exprText, results)
		}
		v, err := expr.Eval(text, row)
		if err != nil {
			return false, err
		}
		return expr.EBV(v), nil
	}}
}

// evalExists executes inner against row's bindings and reports whether it
// produced at least one solution.
func evalExists(ctx context.Context, st store.QuadStore, q *ast.Query, inner *ast.GraphPattern, row *binding.Row, runSub SelectRunner) (bool, error) {
	it, err := ExecuteGraphPattern(ctx, st, q, inner, row, nil, runSub)
	if err != nil {
		return false, err
	}
	defer it.Close(ctx)
	_, err = it.Next(ctx)
	if err == nil {
		return true, nil
	}
	if err == io.EOF {
		return false, nil
	}
	return false, err
}

// applyBind evaluates a BIND(expr AS ?var) clause against every row,
// extending it with the bound value (UNBOUND on evaluation failure, per
// §7's recoverable-error rule).
func applyBind(src RowIter, source string, bc ast.BindClause) RowIter {
	return &mapIter{src: src, fn: func(row *binding.Row) (*binding.Row, error) {
		v, err := expr.Eval(bc.Expr.Text(source), row)
		if err != nil {
			return row, nil
		}
		return row.With(bc.Var.Name, v), nil
	}}
}

type mapIter struct {
	src RowIter
	fn  func(row *binding.Row) (*binding.Row, error)
}

func (it *mapIter) Next(ctx context.Context) (*binding.Row, error) {
	row, err := it.src.Next(ctx)
	if err != nil {
		return nil, err
	}
	return it.fn(row)
}

func (it *mapIter) Close(ctx context.Context) error { return it.src.Close(ctx) }
