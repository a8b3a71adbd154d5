package exec

import (
	"context"

	"github.com/opentracing/opentracing-go"

	"github.com/sparqlcore/engine/analyzer"
	"github.com/sparqlcore/engine/ast"
	"github.com/sparqlcore/engine/binding"
	"github.com/sparqlcore/engine/store"
)

// SelectRunner executes a fully parsed sub-SELECT query and returns its
// projected rows. exec depends on it as a callback, rather than importing
// the projection/solution-modifier pipeline directly, because that
// pipeline is itself built on top of exec — the engine package supplies
// the real implementation once both sides exist.
type SelectRunner func(ctx context.Context, st store.QuadStore, q *ast.Query) ([]*binding.Row, error)

// ExecuteGraphPattern streams every solution of pattern, extending input
// (nil means the empty row) through every construct a GraphPattern can
// carry per §4.4: triple-pattern joins with per-level filter pushdown,
// OPTIONAL anchored at its join level, BIND, nested GRAPH blocks, MINUS
// (innermost-nested-first), standalone FILTER EXISTS/NOT EXISTS, compound
// EXISTS embedded in a larger FILTER, UNION, and sub-SELECT joins.
// graphSlot scopes this pattern's own triple scans to one named graph
// (nil outside any GRAPH block).
func ExecuteGraphPattern(ctx context.Context, st store.QuadStore, q *ast.Query, pattern *ast.GraphPattern, input *binding.Row, graphSlot *ast.TermOrVar, runSub SelectRunner) (RowIter, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "exec.ExecuteGraphPattern")
	defer span.Finish()

	if input == nil {
		input = binding.NewRow()
	}
	if pattern == nil {
		return NewSliceIter([]*binding.Row{input}), nil
	}

	plan := analyzer.Build(q, pattern)
	n := len(plan.Reorder)
	span.SetTag("patterns", n)

	iter := RowIter(NewSliceIter([]*binding.Row{input}))
	if n == 0 {
		iter = applyAnchoredOptionals(ctx, st, q, pattern, plan, iter, 0, runSub)
	}
	for level := 0; level < n; level++ {
		idx := plan.Reorder[level]
		tp := pattern.Patterns[idx]
		prev := iter
		iter = &flatMapIter{left: prev, build: func(row *binding.Row) (RowIter, error) {
			return TriplePatternScan(ctx, st, q, tp, row, graphSlot)
		}}
		iter = applyLevelFilters(iter, q.Source, pattern, plan.LevelFilters, level)
		iter = applyAnchoredOptionals(ctx, st, q, pattern, plan, iter, level, runSub)
	}

	for _, bc := range pattern.Binds {
		iter = applyBind(iter, q.Source, bc)
	}

	for _, gb := range pattern.Graphs {
		iter = joinGraphBlock(ctx, st, q, iter, gb, runSub)
	}

	for _, topIdx := range topLevelMinusBlocks(pattern) {
		iter = Minus(ctx, st, q, iter, pattern, topIdx, runSub)
	}

	for _, ef := range pattern.Exists {
		iter = FilterExistsOp(ctx, st, q, iter, ef.Inner, ef.Negated, runSub)
	}

	for _, fi := range plan.UnpushableFilters {
		iter = applyCompoundFilter(ctx, st, q, iter, pattern, fi, runSub)
	}

	if len(pattern.Union) > 0 {
		iter = Union(ctx, st, q, iter, pattern.Union, runSub)
	}

	if len(pattern.SubSelects) > 0 {
		var err error
		iter, err = SubSelects(ctx, st, iter, pattern.SubSelects, runSub)
		if err != nil {
			return nil, err
		}
	}

	return iter, nil
}

// applyAnchoredOptionals wraps iter with every OPTIONAL block whose planned
// anchor equals level.
func applyAnchoredOptionals(ctx context.Context, st store.QuadStore, q *ast.Query, pattern *ast.GraphPattern, plan *analyzer.Plan, iter RowIter, level int, runSub SelectRunner) RowIter {
	for i, anchor := range plan.OptionalAnchor {
		if anchor == level {
			iter = Optional(ctx, st, q, iter, pattern.Optional[i].Inner, runSub)
		}
	}
	return iter
}

// joinGraphBlock executes a GRAPH <iri-or-var> { ... } block for each row,
// scoping its inner triple scans to gb.Name: a constant IRI restricts the
// scan to that graph; a variable binds it fresh, or restricts the scan to
// its already-bound value when the outer pattern bound it first.
func joinGraphBlock(ctx context.Context, st store.QuadStore, q *ast.Query, left RowIter, gb ast.GraphBlock, runSub SelectRunner) RowIter {
	name := gb.Name
	return &flatMapIter{left: left, build: func(row *binding.Row) (RowIter, error) {
		return ExecuteGraphPattern(ctx, st, q, gb.Inner, row, &name, runSub)
	}}
}
