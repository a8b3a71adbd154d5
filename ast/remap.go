package ast

// RemapResolvedIndices shifts every negative-encoded resolved-IRI span
// inside gp by offset. It's used when a GraphPattern parsed against its own
// independent resolved-IRI table (e.g. a compound EXISTS{} scanned out of a
// FILTER expression) is grafted into a parent whose table already holds
// offset entries.
func RemapResolvedIndices(gp *GraphPattern, offset int) {
	if gp == nil || offset == 0 {
		return
	}
	remapTerm := func(t *TermOrVar) {
		if t.Lexical.Start < 0 {
			t.Lexical.Start -= offset
		}
		if t.Datatype.Start < 0 {
			t.Datatype.Start -= offset
		}
		if t.Lang.Start < 0 {
			t.Lang.Start -= offset
		}
	}
	for i := range gp.Patterns {
		remapTerm(&gp.Patterns[i].Subject)
		remapTerm(&gp.Patterns[i].Predicate)
		remapTerm(&gp.Patterns[i].Object)
	}
	for i := range gp.Optional {
		RemapResolvedIndices(gp.Optional[i].Inner, offset)
	}
	for i := range gp.Minus {
		RemapResolvedIndices(gp.Minus[i].Inner, offset)
	}
	for i := range gp.Exists {
		RemapResolvedIndices(gp.Exists[i].Inner, offset)
	}
	for i := range gp.CompoundExists {
		RemapResolvedIndices(gp.CompoundExists[i].Inner, offset)
	}
	for i := range gp.Union {
		RemapResolvedIndices(gp.Union[i].Pattern, offset)
	}
	for i := range gp.Graphs {
		remapTerm(&gp.Graphs[i].Name)
		RemapResolvedIndices(gp.Graphs[i].Inner, offset)
	}
	for i := range gp.SubSelects {
		if gp.SubSelects[i].Query.Where != nil {
			RemapResolvedIndices(gp.SubSelects[i].Query.Where.Pattern, offset)
		}
	}
}
