package exec

import (
	"context"

	"github.com/sparqlcore/engine/ast"
	"github.com/sparqlcore/engine/binding"
	"github.com/sparqlcore/engine/store"
)

// Optional probes inner for each row left produces, with the left row
// threaded in as inner's input so shared variables are already bound when
// inner's own scans run. If inner yields at least one match, every match
// (already a full extension of the left row, since TriplePatternScan clones
// and extends its input) is emitted; otherwise the left row passes through
// unchanged, leaving variables inner alone would have bound absent —
// BOUND(?v) on those rows reports false per §4.4.
func Optional(ctx context.Context, st store.QuadStore, q *ast.Query, left RowIter, inner *ast.GraphPattern, runSub SelectRunner) RowIter {
	return &flatMapIter{left: left, build: func(row *binding.Row) (RowIter, error) {
		it, err := ExecuteGraphPattern(ctx, st, q, inner, row, nil, runSub)
		if err != nil {
			return nil, err
		}
		rows, err := Collect(ctx, it)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return NewSliceIter([]*binding.Row{row}), nil
		}
		return NewSliceIter(rows), nil
	}}
}
