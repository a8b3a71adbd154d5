package exec

import (
	"context"

	"github.com/sparqlcore/engine/ast"
	"github.com/sparqlcore/engine/binding"
	"github.com/sparqlcore/engine/store"
)

// FilterExistsOp implements a standalone FILTER [NOT] EXISTS { pattern }
// parsed as an ast.ExistsFilter (as opposed to an EXISTS token nested
// inside a larger boolean expression, handled by applyCompoundFilter): for
// each left row, substitute its bindings into inner, execute, and retain
// the row iff inner produced a match (negated: iff it didn't).
func FilterExistsOp(ctx context.Context, st store.QuadStore, q *ast.Query, left RowIter, inner *ast.GraphPattern, negated bool, runSub SelectRunner) RowIter {
	return &filterIter{src: left, keep: func(row *binding.Row) (bool, error) {
		ok, err := evalExists(ctx, st, q, inner, row, runSub)
		if err != nil {
			return false, err
		}
		if negated {
			return !ok, nil
		}
		return ok, nil
	}}
}
