package store

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/sparqlcore/engine/auth"
	"github.com/sparqlcore/engine/rdfterm"
)

func TestAuditingStoreAllowsWrite(t *testing.T) {
	require := require.New(t)
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	inner := NewMemStore()
	as := NewAuditingStore(inner, &auth.None{}, logger)
	reqCtx := &auth.RequestContext{User: "anon"}

	err := as.AddCurrent(context.Background(), reqCtx,
		rdfterm.NewIRI("urn:s"), rdfterm.NewIRI("urn:p"), rdfterm.NewIRI("urn:o"), rdfterm.UnboundTerm)
	require.NoError(err)
	require.Equal(1, inner.Len())
	require.NotNil(hook.LastEntry())
}

func TestAuditingStoreDeniesReadWithoutPermission(t *testing.T) {
	require := require.New(t)
	logger, _ := test.NewNullLogger()

	inner := NewMemStore()
	readOnly := auth.NewNativeSingle("reader", "", auth.ReadPerm)
	as := NewAuditingStore(inner, readOnly, logger)

	_, err := as.QueryCurrent(context.Background(), &auth.RequestContext{User: "unknown"}, nil, nil, nil, nil)
	require.Error(err)
}

func TestNewBlankNodeIDUnique(t *testing.T) {
	require := require.New(t)
	a := NewBlankNodeID()
	b := NewBlankNodeID()
	require.NotEqual(a, b)
}
