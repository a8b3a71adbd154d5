package rdfterm

import "math"

// PosInf marks a validity interval that is still open ("current").
const PosInf = math.MaxInt64

// Quad is a (subject, predicate, object, graph?) tuple with a validity
// interval [ValidFrom, ValidTo) in logical time. ValidTo == PosInf means
// the quad is current.
type Quad struct {
	Subject   Term
	Predicate Term
	Object    Term
	Graph     Term // Kind == Unbound for the default graph

	ValidFrom int64
	ValidTo   int64
}

// IsCurrent reports whether the quad is valid "now" (ValidTo == PosInf).
func (q Quad) IsCurrent() bool { return q.ValidTo == PosInf }

// SameTriple reports whether q and o share subject, predicate, object and
// graph, ignoring validity.
func (q Quad) SameTriple(o Quad) bool {
	return q.Subject.Equals(o.Subject) &&
		q.Predicate.Equals(o.Predicate) &&
		q.Object.Equals(o.Object) &&
		q.Graph.Equals(o.Graph)
}
