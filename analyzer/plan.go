package analyzer

import (
	"sort"

	"github.com/sparqlcore/engine/ast"
)

// Plan is the physical plan for one GraphPattern: a reordering of its
// triple patterns, the filters attached at each level, the filters that
// must wait until after all joins, and the anchoring of OPTIONAL/MINUS/
// UNION blocks.
type Plan struct {
	Source string

	// Reorder[i] is the original pattern index executed at join level i.
	Reorder []int

	// LevelFilters[i] holds the indices (into Pattern.Filters) of filters
	// pushed down to join level i.
	LevelFilters [][]int

	// UnpushableFilters holds Filters indices containing EXISTS, applied
	// after all joins.
	UnpushableFilters []int

	// OptionalAnchor[i] is the join level after which Pattern.Optional[i]
	// is probed (the last level binding a variable it reads, or the last
	// join level if it reads nothing already bound).
	OptionalAnchor []int

	// MinusOrder lists MINUS block indices in execution order: a nested
	// block is always ordered before its parent, per the "inner MINUS
	// first" rule.
	MinusOrder []int

	Pattern *ast.GraphPattern
}

// Build plans execution for pattern: pattern reordering by selectivity
// (bound-term-first, ties broken lexicographically by predicate text for
// determinism), per-level filter attachment, and OPTIONAL/MINUS anchoring.
// q supplies both the source text and the resolved-IRI table needed to
// read a prefixed-name predicate's text for tie-breaking.
func Build(q *ast.Query, pattern *ast.GraphPattern) *Plan {
	source := q.Source
	n := len(pattern.Patterns)
	reorder := reorderBySelectivity(q, pattern.Patterns)

	p := &Plan{
		Source:            source,
		Reorder:           reorder,
		UnpushableFilters: GetUnpushableFilters(source, pattern),
		Pattern:           pattern,
	}
	if n > 0 {
		p.LevelFilters = BuildLevelFilters(source, pattern, n, reorder)
	}
	p.OptionalAnchor = anchorOptionals(source, pattern, reorder)
	p.MinusOrder = orderMinusBlocks(pattern.Minus)
	return p
}

// reorderBySelectivity ranks patterns by how many positions are bound
// constants (more bound = more selective = earlier), then by predicate
// text for deterministic tie-breaking.
func reorderBySelectivity(q *ast.Query, patterns []ast.TriplePattern) []int {
	idx := make([]int, len(patterns))
	for i := range idx {
		idx[i] = i
	}
	boundCount := func(tp ast.TriplePattern) int {
		n := 0
		for _, slot := range []ast.TermOrVar{tp.Subject, tp.Predicate, tp.Object} {
			if !slot.IsVariable() {
				n++
			}
		}
		return n
	}
	predText := func(tp ast.TriplePattern) string {
		if tp.Predicate.IsVariable() {
			return ""
		}
		return ast.ResolveIRI(q, tp.Predicate)
	}
	sort.SliceStable(idx, func(a, b int) bool {
		pa, pb := patterns[idx[a]], patterns[idx[b]]
		ba, bb := boundCount(pa), boundCount(pb)
		if ba != bb {
			return ba > bb
		}
		return predText(pa) < predText(pb)
	})
	return idx
}

// anchorOptionals computes, for each OPTIONAL block, the join level after
// which it should be probed: the last level binding one of the variables
// the block's inner pattern reads, or the last join level if none of the
// block's variables are already bound by the outer patterns (it is
// anchored as an outermost post-join step in that case).
func anchorOptionals(source string, pattern *ast.GraphPattern, reorder []int) []int {
	anchors := make([]int, len(pattern.Optional))
	last := len(reorder) - 1
	for i, opt := range pattern.Optional {
		wants := innerVariableHashes(opt.Inner)
		anchor := last
		found := -1
		for level, idx := range reorder {
			for h := range PatternBinds(pattern.Patterns[idx]) {
				if wants[uint32(h)] {
					found = level
					break
				}
			}
		}
		if found >= 0 {
			anchor = found
		}
		if anchor < 0 {
			anchor = 0
		}
		anchors[i] = anchor
	}
	return anchors
}

func innerVariableHashes(gp *ast.GraphPattern) map[uint32]bool {
	out := map[uint32]bool{}
	if gp == nil {
		return out
	}
	for _, tp := range gp.Patterns {
		for _, slot := range []ast.TermOrVar{tp.Subject, tp.Predicate, tp.Object} {
			if slot.IsVariable() {
				out[slot.Var.Hash] = true
			}
		}
	}
	return out
}

// orderMinusBlocks returns MINUS block indices such that a block always
// precedes its parent, so execution can compute inner MINUS first against
// its outer block's intermediate rows before the outer anti-join runs.
func orderMinusBlocks(blocks []ast.MinusBlock) []int {
	depth := make([]int, len(blocks))
	for i := range blocks {
		d, p := 0, blocks[i].ParentBlock
		for p >= 0 && p < len(blocks) {
			d++
			p = blocks[p].ParentBlock
		}
		depth[i] = d
	}
	order := make([]int, len(blocks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return depth[order[a]] > depth[order[b]]
	})
	return order
}
