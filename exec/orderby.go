package exec

import (
	"context"
	"sort"

	"github.com/sparqlcore/engine/ast"
	"github.com/sparqlcore/engine/binding"
	"github.com/sparqlcore/engine/compare"
	"github.com/sparqlcore/engine/expr"
	"github.com/sparqlcore/engine/rdfterm"
)

// OrderBy fully materializes src and sorts it by keys using the RDF
// comparator, falling back to cross-kind ordering when two keys aren't
// otherwise comparable (mismatched literal kinds, language tags, and so
// on) so ORDER BY always yields a deterministic, stable total order.
func OrderBy(ctx context.Context, src RowIter, source string, keys []ast.OrderKey) (RowIter, error) {
	rows, err := Collect(ctx, src)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return NewSliceIter(rows), nil
	}

	type keyed struct {
		row  *binding.Row
		vals []rdfterm.Term
	}
	out := make([]keyed, len(rows))
	for i, r := range rows {
		vals := make([]rdfterm.Term, len(keys))
		for k, key := range keys {
			v, err := expr.Eval(key.Expr.Text(source), r)
			if err == nil {
				vals[k] = v
			}
		}
		out[i] = keyed{row: r, vals: vals}
	}

	sort.SliceStable(out, func(a, b int) bool {
		for k, key := range keys {
			va, vb := out[a].vals[k], out[b].vals[k]
			var less bool
			if ord, ok := compare.Compare(va, vb); ok {
				if ord == compare.Equal {
					continue
				}
				less = ord == compare.Less
			} else {
				ord := compare.CrossKindOrder(va, vb)
				if ord == compare.Equal {
					continue
				}
				less = ord == compare.Less
			}
			if key.Descending {
				return !less
			}
			return less
		}
		return false
	})

	sorted := make([]*binding.Row, len(out))
	for i, k := range out {
		sorted[i] = k.row
	}
	return NewSliceIter(sorted), nil
}
