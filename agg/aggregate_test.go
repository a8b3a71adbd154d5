package agg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparqlcore/engine/ast"
	"github.com/sparqlcore/engine/binding"
	"github.com/sparqlcore/engine/rdfterm"
)

func rowsWithAges(ages ...int64) []*binding.Row {
	var rows []*binding.Row
	for _, a := range ages {
		rows = append(rows, binding.NewRow().
			With("team", rdfterm.NewPlainLiteral("red")).
			With("age", rdfterm.NewTypedLiteral(itoaForTest(a), rdfterm.XSDInteger)))
	}
	return rows
}

func itoaForTest(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

func TestGroupByCountAndSum(t *testing.T) {
	require := require.New(t)
	rows := rowsWithAges(10, 20, 30)

	countSpec := &ast.Aggregate{Func: ast.AggCountStar, Alias: "n"}
	sumSpec := &ast.Aggregate{Func: ast.AggSum, ExprSpan: ast.NewSpan(0, 4), Alias: "total"}
	source := "?age"

	groups, err := GroupBy(source, rows, nil, []*ast.Aggregate{countSpec, sumSpec})
	require.NoError(err)
	require.Len(groups, 1)

	_, nv := groups[0].Result(countSpec)
	require.Equal("3", nv.Lexical)

	_, sv := groups[0].Result(sumSpec)
	require.Equal(rdfterm.XSDInteger, sv.Datatype)
	require.Equal("60", sv.Lexical)
}

func TestGroupByEmptyInputStillEmitsZero(t *testing.T) {
	require := require.New(t)
	countSpec := &ast.Aggregate{Func: ast.AggCount, ExprSpan: ast.NewSpan(0, 4), Alias: "n"}

	groups, err := GroupBy("?age", nil, nil, []*ast.Aggregate{countSpec})
	require.NoError(err)
	require.Len(groups, 1)
	_, v := groups[0].Result(countSpec)
	require.Equal("0", v.Lexical)
}

func TestGroupByDistinctDedup(t *testing.T) {
	require := require.New(t)
	rows := []*binding.Row{
		binding.NewRow().With("x", rdfterm.NewTypedLiteral("1", rdfterm.XSDInteger)),
		binding.NewRow().With("x", rdfterm.NewTypedLiteral("1", rdfterm.XSDInteger)),
		binding.NewRow().With("x", rdfterm.NewTypedLiteral("2", rdfterm.XSDInteger)),
	}
	spec := &ast.Aggregate{Func: ast.AggCount, Distinct: true, ExprSpan: ast.NewSpan(0, 2), Alias: "n"}

	groups, err := GroupBy("?x", rows, nil, []*ast.Aggregate{spec})
	require.NoError(err)
	_, v := groups[0].Result(spec)
	require.Equal("2", v.Lexical)
}

func TestGroupByDistinctDedupNormalizesNumericLexical(t *testing.T) {
	require := require.New(t)
	rows := []*binding.Row{
		binding.NewRow().With("x", rdfterm.NewTypedLiteral("1", rdfterm.XSDInteger)),
		binding.NewRow().With("x", rdfterm.NewTypedLiteral("01", rdfterm.XSDInteger)),
		binding.NewRow().With("x", rdfterm.NewTypedLiteral("2", rdfterm.XSDInteger)),
	}
	spec := &ast.Aggregate{Func: ast.AggCount, Distinct: true, ExprSpan: ast.NewSpan(0, 2), Alias: "n"}

	groups, err := GroupBy("?x", rows, nil, []*ast.Aggregate{spec})
	require.NoError(err)
	_, v := groups[0].Result(spec)
	require.Equal("2", v.Lexical, "\"1\" and \"01\" carry the same numeric value and must dedup together")
}

func TestHavingSubstitutesAggregateCall(t *testing.T) {
	require := require.New(t)
	rows := rowsWithAges(10, 20, 30)
	sumSpec := &ast.Aggregate{
		Func:     ast.AggSum,
		ExprSpan: ast.NewSpan(0, 4),
		Alias:    "total",
		CallSpan: ast.NewSpan(0, 9), // "SUM(?age)" within the having text below
	}
	groups, err := GroupBy("?age", rows, nil, []*ast.Aggregate{sumSpec})
	require.NoError(err)

	having := "SUM(?age) > 50"
	ok, err := Having(having, ast.NewSpan(0, len(having)), []*ast.Aggregate{sumSpec}, groups[0])
	require.NoError(err)
	require.True(ok)
}

func TestGroupConcatArrivalOrder(t *testing.T) {
	require := require.New(t)
	rows := []*binding.Row{
		binding.NewRow().With("s", rdfterm.NewPlainLiteral("a")),
		binding.NewRow().With("s", rdfterm.NewPlainLiteral("b")),
	}
	spec := &ast.Aggregate{Func: ast.AggGroupConcat, ExprSpan: ast.NewSpan(0, 2), Alias: "c", SeparatorLit: ","}
	groups, err := GroupBy("?s", rows, nil, []*ast.Aggregate{spec})
	require.NoError(err)
	_, v := groups[0].Result(spec)
	require.Equal("a,b", v.Lexical)
}
