package agg

import (
	"fmt"

	"github.com/sparqlcore/engine/ast"
	"github.com/sparqlcore/engine/binding"
	"github.com/sparqlcore/engine/expr"
	"github.com/sparqlcore/engine/rdfterm"
)

// Group is one GROUP BY bucket: its key values, a representative row (the
// first row seen in the group, used to resolve non-aggregated projections),
// and the running aggregate state for every aggregate registered against
// the SELECT clause.
type Group struct {
	Rep  *binding.Row
	aggs map[*ast.Aggregate]*state
}

// Result returns value bound to aggregate spec's alias for this group.
func (g *Group) Result(spec *ast.Aggregate) (string, rdfterm.Term) {
	s := g.aggs[spec]
	if s == nil {
		return spec.Alias, rdfterm.UnboundTerm
	}
	return spec.Alias, s.result()
}

// GroupBy partitions rows into groups by the GROUP BY expression spans
// (an empty groupExprs means the implicit single group over all rows, per
// §4.6), accumulating every aggregate in aggregates as rows are consumed.
// Rows are consumed in their given order; group output order matches each
// group's first appearance.
func GroupBy(source string, rows []*binding.Row, groupExprs []ast.Span, aggregates []*ast.Aggregate) ([]*Group, error) {
	index := map[string]*Group{}
	var groups []*Group

	for _, row := range rows {
		keyVals := make([]rdfterm.Term, len(groupExprs))
		for i, sp := range groupExprs {
			v, err := expr.Eval(sp.Text(source), row)
			if err != nil {
				return nil, err
			}
			keyVals[i] = v
		}
		keyHash, err := groupKey(keyVals)
		if err != nil {
			return nil, err
		}
		k := fmt.Sprintf("%d:%d", len(groupExprs), keyHash)

		g, ok := index[k]
		if !ok {
			g = &Group{Rep: row, aggs: map[*ast.Aggregate]*state{}}
			for _, spec := range aggregates {
				g.aggs[spec] = newState(spec)
			}
			index[k] = g
			groups = append(groups, g)
		}

		for _, spec := range aggregates {
			st := g.aggs[spec]
			if spec.Func == ast.AggCountStar {
				st.accumulate(rdfterm.UnboundTerm)
				continue
			}
			v, err := expr.Eval(spec.ExprSpan.Text(source), row)
			if err != nil {
				continue // per §4.6, a non-evaluable operand is skipped, not fatal
			}
			st.accumulate(v)
		}
	}

	if len(groups) == 0 && len(groupExprs) == 0 && len(aggregates) > 0 {
		// aggregate over zero rows: a single empty group still reports
		// COUNT=0 / SUM=0 / AVG=0, never an empty result set.
		g := &Group{Rep: binding.NewRow(), aggs: map[*ast.Aggregate]*state{}}
		for _, spec := range aggregates {
			g.aggs[spec] = newState(spec)
		}
		groups = append(groups, g)
	}

	return groups, nil
}

// Having evaluates the HAVING expression against a group by substituting
// every aggregate call's recorded CallSpan text with the group's computed
// result bound under a synthetic per-call variable, then re-evaluating the
// rewritten text the same way FILTER expressions are evaluated. Every
// aggregate's projection alias is also bound to its result, so HAVING may
// name the alias instead of repeating the call.
func Having(source string, havingExpr ast.Span, aggregates []*ast.Aggregate, g *Group) (bool, error) {
	if havingExpr.Length == 0 {
		return true, nil
	}
	text := havingExpr.Text(source)
	row := binding.NewRow()

	type replacement struct {
		start, end int
		varName    string
	}
	var reps []replacement
	base := havingExpr.Start
	for i, spec := range aggregates {
		st := g.aggs[spec]
		if st == nil {
			st = newState(spec)
		}
		if spec.Alias != "" {
			row = row.With(spec.Alias, st.result())
		}
		if spec.CallSpan.Start < base || spec.CallSpan.End() > havingExpr.End() {
			continue // this aggregate call isn't referenced inside HAVING's span
		}
		name := fmt.Sprintf("__having_agg%d", i)
		row = row.With(name, st.result())
		reps = append(reps, replacement{
			start:   spec.CallSpan.Start - base,
			end:     spec.CallSpan.End() - base,
			varName: name,
		})
	}

	// Apply replacements from right to left so earlier offsets stay valid.
	for i := len(reps) - 1; i >= 0; i-- {
		r := reps[i]
		if r.start < 0 || r.end > len(text) || r.start > r.end {
			continue
		}
		text = text[:r.start] + "?" + r.varName + text[r.end:]
	}

	v, err := expr.Eval(text, row)
	if err != nil {
		return false, err
	}
	return expr.EBV(v), nil
}
