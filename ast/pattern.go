package ast

// TermKind distinguishes a constant RDF term from a variable inside a
// triple pattern position.
type TermKind uint8

const (
	TermIRI TermKind = iota
	TermBlank
	TermLiteral
	TermVar
)

// TermOrVar is one subject/predicate/object slot of a triple pattern: either
// a constant term (spans into the source for its lexical form / datatype /
// language) or a variable reference.
type TermOrVar struct {
	Kind     TermKind
	Lexical  Span // constant term's lexical form span (IRI without <>, literal without quotes, blank label without "_:")
	Datatype Span // typed literal's datatype IRI span, zero-length if absent
	Lang     Span // language-tagged literal's tag span, zero-length if absent
	Var      *Variable
}

// IsVariable reports whether this slot is a variable.
func (t TermOrVar) IsVariable() bool { return t.Kind == TermVar }

// TriplePattern is one (subject, predicate, object) pattern.
type TriplePattern struct {
	Subject   TermOrVar
	Predicate TermOrVar
	Object    TermOrVar
}

// FilterExpr is a regular FILTER(expr) whose expression text is read by the
// evaluator directly from the source span. ContainsExists/GetFilterVariables
// are computed lazily by the analyzer, not stored here.
type FilterExpr struct {
	Expr Span
}

// ExistsFilter is FILTER [NOT] EXISTS { pattern }, classified as such by the
// parser at first sight so it's never also stored as a FilterExpr.
type ExistsFilter struct {
	Negated bool
	Inner   *GraphPattern
}

// OptionalBlock is one OPTIONAL { pattern } block.
type OptionalBlock struct {
	Inner *GraphPattern
}

// MinusBlock is one MINUS { pattern } block. ParentBlock is -1 for a
// top-level MINUS and otherwise indexes another MinusBlock in the same
// GraphPattern.Minus array, recording the nesting the flat array
// can't express on its own.
type MinusBlock struct {
	Inner       *GraphPattern
	ParentBlock int
}

// CompoundExistsRef records the (offset, length, negated) of an EXISTS {...}
// token found inside a larger boolean FILTER expression, so the evaluator
// can substitute its true/false result at that exact byte range without a
// second expression representation.
type CompoundExistsRef struct {
	FilterIndex int // index into the owning GraphPattern.Filters
	Offset      int // offset of "EXISTS"/"NOT EXISTS" within that FilterExpr's Expr span
	Length      int // length of the full "[NOT] EXISTS { ... }" token
	Negated     bool
	Inner       *GraphPattern
}

// UnionBranch is one branch of a UNION; branches execute in declaration
// order and variables absent from a branch are simply unbound in its rows.
type UnionBranch struct {
	Pattern *GraphPattern
}

// SubSelect is a nested SELECT appearing as a graph pattern element.
type SubSelect struct {
	Query *Query
}

// GraphPattern is a basic graph pattern plus every compound construct that
// can appear inside one. All indices stored here (Minus blocks' ParentBlock,
// for instance) are valid indices into this same GraphPattern's arrays.
type GraphPattern struct {
	Patterns []TriplePattern

	Filters  []FilterExpr
	Exists   []ExistsFilter
	Optional []OptionalBlock
	Minus    []MinusBlock

	CompoundExists []CompoundExistsRef // EXISTS refs nested inside Filters entries
	Union          []UnionBranch
	SubSelects     []SubSelect

	Binds  []BindClause
	Graphs []GraphBlock // GRAPH <iri-or-var> { ... } blocks nested in this pattern
}

// BindClause is BIND(expr AS ?var).
type BindClause struct {
	Expr Span
	Var  *Variable
}

// GraphBlock is GRAPH <iri-or-var> { pattern }.
type GraphBlock struct {
	Name  TermOrVar
	Inner *GraphPattern
}
