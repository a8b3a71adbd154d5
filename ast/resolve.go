package ast

// ResolveIRI returns the literal IRI text of t, whether it came from a
// verbatim "<iri>" span in q.Source or a resolved prefixed-name/"a"
// shorthand recorded in q.ResolvedIRIs.
func ResolveIRI(q *Query, t TermOrVar) string {
	if t.Lexical.Start < 0 {
		idx := -t.Lexical.Start - 1
		if idx < len(q.ResolvedIRIs) {
			return q.ResolvedIRIs[idx]
		}
		return ""
	}
	return t.Lexical.Text(q.Source)
}
