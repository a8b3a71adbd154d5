package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparqlcore/engine/ast"
)

func TestGetFilterVariablesSkipsQuotes(t *testing.T) {
	require := require.New(t)
	source := `?x > "?fake" && ?y < 10`
	expr := ast.NewSpan(0, len(source))
	vars := GetFilterVariables(source, expr)
	require.Len(vars, 2)
	names := map[string]bool{}
	for _, n := range vars {
		names[n] = true
	}
	require.True(names["x"])
	require.True(names["y"])
}

func TestContainsExistsOutsideQuotes(t *testing.T) {
	require := require.New(t)
	require.True(ContainsExists(`EXISTS { ?s ?p ?o }`, ast.NewSpan(0, 19)))
	require.False(ContainsExists(`"this mentions EXISTS in a string"`, ast.NewSpan(0, 34)))
}

func TestGetEarliestApplicablePatternNoVars(t *testing.T) {
	require := require.New(t)
	source := `1 = 1`
	lvl := GetEarliestApplicablePattern(source, ast.NewSpan(0, len(source)), nil, nil)
	require.Equal(0, lvl)
}
