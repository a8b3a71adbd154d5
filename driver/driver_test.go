package driver

import (
	"context"
	"database/sql/driver"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparqlcore/engine"
	"github.com/sparqlcore/engine/rdfterm"
)

func newTestEngine(t *testing.T) *sparqlcore.Engine {
	t.Helper()
	eng := sparqlcore.NewDefault()
	require.NoError(t, eng.Store.AddCurrent(context.Background(),
		rdfterm.NewIRI("http://example.org/alice"),
		rdfterm.NewIRI("http://example.org/age"),
		rdfterm.NewTypedLiteral("30", rdfterm.XSDInteger),
		rdfterm.UnboundTerm))
	return eng
}

func TestDriverSelect(t *testing.T) {
	d := New(newTestEngine(t))
	conn, err := d.Open("")
	require.NoError(t, err)
	defer conn.Close()

	stmt, err := conn.Prepare("SELECT ?age WHERE { <http://example.org/alice> <http://example.org/age> ?age }")
	require.NoError(t, err)
	defer stmt.Close()

	rows, err := stmt.Query(nil)
	require.NoError(t, err)
	defer rows.Close()

	require.Equal(t, []string{"age"}, rows.Columns())

	dest := make([]driver.Value, 1)
	require.NoError(t, rows.Next(dest))
	require.Equal(t, `"30"^^<http://www.w3.org/2001/XMLSchema#integer>`, dest[0])
}

func TestDriverAsk(t *testing.T) {
	d := New(newTestEngine(t))
	conn, err := d.Open("")
	require.NoError(t, err)
	defer conn.Close()

	stmt, err := conn.Prepare("ASK { <http://example.org/alice> <http://example.org/age> ?age }")
	require.NoError(t, err)
	defer stmt.Close()

	rows, err := stmt.Query(nil)
	require.NoError(t, err)
	defer rows.Close()

	dest := make([]driver.Value, 1)
	require.NoError(t, rows.Next(dest))
	require.Equal(t, true, dest[0])
}
