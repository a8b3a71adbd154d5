package expr

import (
	"sort"

	"github.com/sparqlcore/engine/ast"
)

// ExistsResult pairs a CompoundExistsRef with its computed boolean result.
type ExistsResult struct {
	Ref    ast.CompoundExistsRef
	Result bool
}

// SubstituteExists implements the §4.4 "compound EXISTS in FILTER"
// mechanism: it replaces each EXISTS{...}/NOT EXISTS{...} token at its
// recorded (offset, length) with the literal "true"/"false" text, working
// from the last offset to the first so earlier offsets stay valid, and
// returns the rewritten expression text ready for Eval.
func SubstituteExists(exprText string, results []ExistsResult) string {
	type span struct {
		start, end int
		lit        string
	}
	spans := make([]span, len(results))
	for i, r := range results {
		lit := "false"
		if r.Result {
			lit = "true"
		}
		spans[i] = span{start: r.Ref.Offset, end: r.Ref.Offset + r.Ref.Length, lit: lit}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start > spans[j].start })
	out := exprText
	for _, s := range spans {
		if s.start < 0 || s.end > len(out) || s.start > s.end {
			continue
		}
		out = out[:s.start] + s.lit + out[s.end:]
	}
	return out
}
