package ast

// QueryForm distinguishes the top-level SPARQL query form.
type QueryForm uint8

const (
	Select QueryForm = iota
	Ask
	Construct
	Describe
)

// Prologue holds PREFIX and BASE declarations. Prefix values are resolved
// IRI strings (already stripped of <>); declaration order doesn't matter
// for lookups but is kept for completeness.
type Prologue struct {
	Base     string
	Prefixes map[string]string // prefix label (without trailing ':') -> IRI
}

// ResolvePrefixed expands "prefix:local" into a full IRI, or returns
// ("", false) if the prefix was never declared.
func (p *Prologue) ResolvePrefixed(prefix, local string) (string, bool) {
	if p == nil || p.Prefixes == nil {
		return "", false
	}
	base, ok := p.Prefixes[prefix]
	if !ok {
		return "", false
	}
	return base + local, true
}

// Variable is a parsed "?name" reference; Hash is FNV-1a over "?name".
type Variable struct {
	Name string
	Hash uint32
	Span Span
}

// ProjectExpr is one projected SELECT item: either a bare variable, or
// "(expr AS ?alias)" — in the latter case Expr is the expression span and
// Alias names the bound variable. If Agg is non-nil, the projected
// expression is (or contains) an aggregate call.
type ProjectExpr struct {
	Var   *Variable // non-nil for a bare "?x" projection
	Expr  Span      // expression span, valid when Var == nil
	Alias string    // binding name for computed/aggregate projections
	Agg   *Aggregate
}

// SelectClause is the SELECT [DISTINCT|REDUCED] projection list.
type SelectClause struct {
	Distinct   bool
	Reduced    bool
	Star       bool // SELECT * — Items is empty, project every visible var
	Items      []ProjectExpr
	Aggregates []*Aggregate // every aggregate registered while parsing the clause
}

// AggFunc enumerates the SPARQL aggregate functions.
type AggFunc uint8

const (
	AggCount AggFunc = iota
	AggCountStar
	AggSum
	AggMin
	AggMax
	AggAvg
	AggSample
	AggGroupConcat
)

// Aggregate is an aggregate descriptor: (function, distinct, variable
// expression span, alias, optional GROUP_CONCAT separator span).
type Aggregate struct {
	Func         AggFunc
	Distinct     bool
	ExprSpan     Span // the aggregated expression, e.g. "?o" in COUNT(?o)
	Alias        string
	SeparatorLit string // GROUP_CONCAT(... ; SEPARATOR="x") literal value; default " "
	CallSpan     Span   // the full "COUNT(DISTINCT ?o)" text, for HAVING substitution
}

// WhereClause wraps the top-level graph pattern.
type WhereClause struct {
	Pattern *GraphPattern
}

// OrderKey is one ORDER BY key: an expression plus direction.
type OrderKey struct {
	Expr       Span
	Descending bool
}

// SolutionModifier holds GROUP BY / HAVING / ORDER BY / LIMIT / OFFSET.
type SolutionModifier struct {
	GroupBy []Span // grouping expression spans; empty means implicit singleton group
	Having  Span   // HAVING expression span; zero-length means absent
	OrderBy []OrderKey
	Limit   int // -1 means unlimited
	Offset  int // 0 means no offset
}

// Query is the root of a parsed SPARQL query.
type Query struct {
	Source   string // the original query text, owned for the plan's lifetime
	Form     QueryForm
	Prologue *Prologue

	// ResolvedIRIs holds IRI strings produced by expanding a prefixed name
	// or the "a" shorthand during parsing — text that, unlike a verbatim
	// "<iri>", has no single contiguous span in Source. A TermOrVar whose
	// Lexical.Start is negative indexes this slice as -(Start+1); see
	// parser.Parser.ResolveIRI for the encoding this mirrors.
	ResolvedIRIs []string

	Select    *SelectClause // valid when Form == Select
	AskWhere  *GraphPattern // valid when Form == Ask
	Construct *ConstructClause
	Describe  *DescribeClause

	Where    *WhereClause
	Modifier *SolutionModifier
}

// ConstructClause holds a CONSTRUCT template plus its WHERE pattern.
type ConstructClause struct {
	Template []TriplePattern
	Where    *GraphPattern
}

// DescribeClause holds DESCRIBE's resource list (IRIs or variables) and an
// optional WHERE pattern used to compute them dynamically.
type DescribeClause struct {
	Resources []TermOrVar
	Where     *GraphPattern // nil if the resources are given directly
}
