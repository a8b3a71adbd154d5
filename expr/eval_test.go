package expr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparqlcore/engine/ast"
	"github.com/sparqlcore/engine/binding"
	"github.com/sparqlcore/engine/rdfterm"
)

func TestEvalArithmeticPromotion(t *testing.T) {
	require := require.New(t)
	v, err := Eval(`1 + 2.0`, nil)
	require.NoError(err)
	require.Equal(rdfterm.XSDDecimal, v.Datatype)
}

func TestEvalComparison(t *testing.T) {
	require := require.New(t)
	row := binding.NewRow().With("age", rdfterm.NewTypedLiteral("30", rdfterm.XSDInteger))
	v, err := Eval(`?age > 18`, row)
	require.NoError(err)
	require.True(EBV(v))
}

func TestEvalBoundAndCoalesce(t *testing.T) {
	require := require.New(t)
	row := binding.NewRow().With("x", rdfterm.NewIRI("http://ex/a"))

	v, err := Eval(`BOUND(?x)`, row)
	require.NoError(err)
	require.True(EBV(v))

	v, err = Eval(`BOUND(?y)`, row)
	require.NoError(err)
	require.False(EBV(v))

	v, err = Eval(`COALESCE(?y, ?x)`, row)
	require.NoError(err)
	require.Equal("http://ex/a", v.Lexical)
}

func TestEvalRegexAndStringFuncs(t *testing.T) {
	require := require.New(t)
	row := binding.NewRow().With("name", rdfterm.NewPlainLiteral("Alice"))

	v, err := Eval(`REGEX(?name, "^A.*")`, row)
	require.NoError(err)
	require.True(EBV(v))

	v, err = Eval(`CONTAINS(?name, "lic")`, row)
	require.NoError(err)
	require.True(EBV(v))

	v, err = Eval(`STRSTARTS(?name, "Al")`, row)
	require.NoError(err)
	require.True(EBV(v))
}

func TestEvalInList(t *testing.T) {
	require := require.New(t)
	row := binding.NewRow().With("n", rdfterm.NewTypedLiteral("2", rdfterm.XSDInteger))
	v, err := Eval(`?n IN (1, 2, 3)`, row)
	require.NoError(err)
	require.True(EBV(v))

	v, err = Eval(`?n NOT IN (1, 3)`, row)
	require.NoError(err)
	require.True(EBV(v))
}

func TestEvalCast(t *testing.T) {
	require := require.New(t)
	v, err := Eval(`xsd:integer("42")`, nil)
	require.NoError(err)
	require.Equal("42", v.Lexical)
	require.Equal(rdfterm.XSDInteger, v.Datatype)
}

func TestSubstituteExists(t *testing.T) {
	require := require.New(t)
	text := `EXISTS { ?s ?p ?o } && ?x > 1`
	out := SubstituteExists(text, []ExistsResult{{
		Ref:    ast.CompoundExistsRef{Offset: 0, Length: len(`EXISTS { ?s ?p ?o }`)},
		Result: true,
	}})
	require.Equal(`true && ?x > 1`, out)
}
